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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestService() *Service {
	return NewService("test-secret", "ledgerline", 90*24*time.Hour, 7*24*time.Hour)
}

func TestService_IssueAndVerify(t *testing.T) {
	svc := newTestService()

	signed, err := svc.IssueProvisionToken("admin-1", "acme-42", "a@acme.com")
	require.NoError(t, err)

	claims, err := svc.Verify(signed)
	require.NoError(t, err)
	assert.Equal(t, "admin-1", claims.Subject)
	assert.Equal(t, "acme-42", claims.TenantID)
	assert.Equal(t, "a@acme.com", claims.Email)
}

func TestService_Verify_RejectsWrongSecret(t *testing.T) {
	signed, err := newTestService().IssueSSOToken("admin-1", "acme-42", "a@acme.com")
	require.NoError(t, err)

	other := NewService("different-secret", "ledgerline", time.Hour, time.Hour)
	_, err = other.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_RejectsExpired(t *testing.T) {
	svc := NewService("test-secret", "ledgerline", -time.Minute, -time.Minute)

	signed, err := svc.IssueProvisionToken("admin-1", "acme-42", "a@acme.com")
	require.NoError(t, err)

	_, err = svc.Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_RejectsWrongIssuer(t *testing.T) {
	foreign := NewService("test-secret", "someone-else", time.Hour, time.Hour)
	signed, err := foreign.IssueProvisionToken("admin-1", "acme-42", "a@acme.com")
	require.NoError(t, err)

	_, err = newTestService().Verify(signed)
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestService_Verify_RejectsGarbage(t *testing.T) {
	_, err := newTestService().Verify("not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
