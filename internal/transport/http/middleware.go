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
	"crypto/subtle"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5/middleware"

	"github.com/ledgerline/ledgerline/internal/observability/logger"
	"github.com/ledgerline/ledgerline/internal/tenant"
)

// LoggingMiddleware logs HTTP requests
func LoggingMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

			defer func() {
				slog.InfoContext(r.Context(), "http_request",
					logger.RequestID(middleware.GetReqID(r.Context())),
					logger.Method(r.Method),
					logger.Path(r.URL.Path),
					logger.RemoteAddr(r.RemoteAddr),
					logger.StatusCode(ww.Status()),
					logger.Duration(time.Since(start).Milliseconds()),
				)
			}()

			next.ServeHTTP(ww, r)
		})
	}
}

// WebhookAuthMiddleware authenticates inbound provisioning events by
// exact shared-secret match. The comparison is constant time and
// neither value is ever logged.
func (h *Handler) WebhookAuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got := r.Header.Get(HeaderWebhookSecret)
		if subtle.ConstantTimeCompare([]byte(got), []byte(h.options.WebhookSecret)) != 1 {
			slog.WarnContext(r.Context(), "webhook authentication failed",
				logger.Path(r.URL.Path),
				logger.RemoteAddr(r.RemoteAddr),
			)
			respondError(w, http.StatusUnauthorized, "unauthorized webhook request")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// AuthMiddleware validates the bearer credential and stores the
// principal's claims in context. The tenant claim becomes the
// resolver's fallback identifier.
func (h *Handler) AuthMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		auth := r.Header.Get("Authorization")
		tokenString, ok := strings.CutPrefix(auth, "Bearer ")
		if !ok || tokenString == "" {
			respondError(w, http.StatusUnauthorized, "not authenticated")
			return
		}

		claims, err := h.tokens.Verify(tokenString)
		if err != nil {
			respondError(w, http.StatusUnauthorized, "invalid or expired credential")
			return
		}

		ctx := context.WithValue(r.Context(), claimsKey, claims)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// ResolveTenant determines the tenant for a request and attaches the
// tenant's storage handle to the context. Extraction order: explicit
// header first, then the authenticated principal's tenant claim.
// Fail-closed: no request continues without a resolved tenant.
func (h *Handler) ResolveTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		tenantID := r.Header.Get(HeaderTenantID)
		if tenantID == "" {
			if claims := GetClaims(r.Context()); claims != nil {
				tenantID = claims.TenantID
			}
		}
		if tenantID == "" {
			respondError(w, http.StatusBadRequest, "tenant identifier required")
			return
		}

		h.attachTenant(w, r, next, tenantID)
	})
}

// DefaultTenant is the single-tenant deployment path: every request
// runs against the configured default namespace, no resolution.
func (h *Handler) DefaultTenant(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.attachTenant(w, r, next, h.options.DefaultTenantID)
	})
}

func (h *Handler) attachTenant(w http.ResponseWriter, r *http.Request, next http.Handler, tenantID string) {
	handle, err := h.tenants.Acquire(r.Context(), tenantID)
	if err != nil {
		switch {
		case errors.Is(err, tenant.ErrMissingTenant), errors.Is(err, tenant.ErrInvalidTenant):
			respondError(w, http.StatusBadRequest, "invalid tenant identifier")
		default:
			slog.ErrorContext(r.Context(), "tenant resolution failed",
				logger.TenantID(tenantID),
				logger.Error(err),
			)
			respondError(w, http.StatusInternalServerError, "tenant database unavailable")
		}
		return
	}

	ctx := context.WithValue(r.Context(), tenantIDKey, tenantID)
	ctx = context.WithValue(ctx, handleKey, handle)
	next.ServeHTTP(w, r.WithContext(ctx))
}
