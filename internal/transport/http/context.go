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

package http

import (
	"context"

	"github.com/ledgerline/ledgerline/internal/store/mongodb"
	"github.com/ledgerline/ledgerline/internal/token"
)

type contextKey string

const (
	tenantIDKey contextKey = "tenant_id"
	handleKey   contextKey = "tenant_handle"
	claimsKey   contextKey = "auth_claims"
)

// GetTenantID retrieves the resolved tenant identifier from context.
func GetTenantID(ctx context.Context) string {
	if val, ok := ctx.Value(tenantIDKey).(string); ok {
		return val
	}
	return ""
}

// GetHandle retrieves the tenant's storage handle from context.
func GetHandle(ctx context.Context) *mongodb.Handle {
	if val, ok := ctx.Value(handleKey).(*mongodb.Handle); ok {
		return val
	}
	return nil
}

// GetClaims retrieves the authenticated principal's claims from context.
func GetClaims(ctx context.Context) *token.Claims {
	if val, ok := ctx.Value(claimsKey).(*token.Claims); ok {
		return val
	}
	return nil
}
