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

package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid token")

// Claims are the application credential claims: the administrator id is
// the subject, the tenant identifier and email ride alongside.
type Claims struct {
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
	jwt.RegisteredClaims
}

// Service mints and verifies HS256 application credentials.
type Service struct {
	secret       []byte
	issuer       string
	provisionTTL time.Duration
	ssoTTL       time.Duration
}

// NewService creates a token service.
func NewService(secret, issuer string, provisionTTL, ssoTTL time.Duration) *Service {
	return &Service{
		secret:       []byte(secret),
		issuer:       issuer,
		provisionTTL: provisionTTL,
		ssoTTL:       ssoTTL,
	}
}

// IssueProvisionToken mints the long-lived credential returned to the
// external account system when a tenant is created.
func (s *Service) IssueProvisionToken(adminID, tenantID, email string) (string, error) {
	return s.issue(adminID, tenantID, email, s.provisionTTL)
}

// IssueSSOToken mints the short-lived credential returned from a
// successful SSO exchange.
func (s *Service) IssueSSOToken(adminID, tenantID, email string) (string, error) {
	return s.issue(adminID, tenantID, email, s.ssoTTL)
}

func (s *Service) issue(adminID, tenantID, email string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		TenantID: tenantID,
		Email:    email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   adminID,
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, nil
}

// Verify parses and validates a credential, enforcing the HS256 signing
// method and expiry.
func (s *Service) Verify(tokenString string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}
		return s.secret, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
