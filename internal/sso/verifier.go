// Copyright 2026 The Ledgerline Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sso

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// ErrVerificationFailed covers transport failures, non-success verifier
// responses, and malformed verifier bodies alike: the caller only needs
// to know the exchange must be refused.
var ErrVerificationFailed = errors.New("external token verification failed")

// Identity is the verified principal returned by the external identity
// service. The field names follow that service's wire contract.
type Identity struct {
	AdminID  string `json:"idurarAdminId"`
	TenantID string `json:"userId"`
	Email    string `json:"email"`
}

// Verifier validates externally issued tokens against the external
// identity service over an outbound call with a bounded timeout.
type Verifier struct {
	verifyURL string
	client    *http.Client
}

// NewVerifier creates a verifier for the given endpoint.
func NewVerifier(verifyURL string, timeout time.Duration) *Verifier {
	return &Verifier{
		verifyURL: verifyURL,
		client:    &http.Client{Timeout: timeout},
	}
}

// Verify forwards the external token as a bearer credential and decodes
// the verified identity from a success response.
func (v *Verifier) Verify(ctx context.Context, externalToken string) (*Identity, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, v.verifyURL, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+externalToken)

	resp, err := v.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		return nil, fmt.Errorf("%w: verifier returned status %d", ErrVerificationFailed, resp.StatusCode)
	}

	var ident Identity
	if err := json.NewDecoder(io.LimitReader(resp.Body, 1<<20)).Decode(&ident); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrVerificationFailed, err)
	}
	if ident.AdminID == "" || ident.TenantID == "" {
		return nil, fmt.Errorf("%w: incomplete identity in verifier response", ErrVerificationFailed)
	}
	return &ident, nil
}
