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

package tenant

import (
	"errors"
	"fmt"
	"regexp"
)

// Domain errors
var (
	// ErrMissingTenant means no tenant identifier could be resolved from
	// the request. Client error.
	ErrMissingTenant = errors.New("tenant identifier required")

	// ErrInvalidTenant means the identifier failed validation. The
	// identifier participates in the database name, so it is never used
	// unvalidated. Client error.
	ErrInvalidTenant = errors.New("invalid tenant identifier")

	// ErrConnection means the tenant's database connection could not be
	// established. Server error, not retried by this layer.
	ErrConnection = errors.New("tenant database connection failed")
)

// identifierPattern bounds the charset and length of identifiers that
// may be embedded into a database name.
var identifierPattern = regexp.MustCompile(`^[a-zA-Z0-9_-]{1,64}$`)

// ValidateIdentifier checks an untrusted tenant identifier before it is
// used to derive a storage namespace.
func ValidateIdentifier(id string) error {
	if id == "" {
		return ErrMissingTenant
	}
	if !identifierPattern.MatchString(id) {
		return fmt.Errorf("%w: %q", ErrInvalidTenant, id)
	}
	return nil
}
