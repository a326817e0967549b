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

// @title Ledgerline API
// @version 1.0.0
// @description Multi-tenant routing and provisioning layer for the invoicing application

// @license.name Apache 2.0
// @license.url http://www.apache.org/licenses/LICENSE-2.0

// @host localhost:8080
// @BasePath /

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

// @securityDefinitions.apikey WebhookSecret
// @in header
// @name X-Webhook-Secret

package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/ledgerline/ledgerline/internal/identity"
	"github.com/ledgerline/ledgerline/internal/sso"
	"github.com/ledgerline/ledgerline/internal/store/mongodb"
	"github.com/ledgerline/ledgerline/internal/token"
)

// Request headers consumed by this layer
const (
	HeaderTenantID      = "X-Tenant-ID"
	HeaderWebhookSecret = "X-Webhook-Secret"
)

// TenantAcquirer is the connection cache surface: one handle per tenant,
// created lazily, identical on every call.
type TenantAcquirer interface {
	Acquire(ctx context.Context, tenantID string) (*mongodb.Handle, error)
}

// Provisioner turns external account events into tenant state.
type Provisioner interface {
	Provision(ctx context.Context, tenantID string, profile identity.Profile) (*identity.Admin, error)
	Deactivate(ctx context.Context, tenantID string) (int64, error)
}

// TokenService mints and verifies application credentials.
type TokenService interface {
	IssueProvisionToken(adminID, tenantID, email string) (string, error)
	IssueSSOToken(adminID, tenantID, email string) (string, error)
	Verify(tokenString string) (*token.Claims, error)
}

// SSOVerifier validates externally issued tokens.
type SSOVerifier interface {
	Verify(ctx context.Context, externalToken string) (*sso.Identity, error)
}

// Handler holds HTTP handlers and dependencies
type Handler struct {
	tenants     TenantAcquirer
	provisioner Provisioner
	tokens      TokenService
	verifier    SSOVerifier
	options     Options
}

// Options holds handler configuration
type Options struct {
	WebhookSecret   string
	DefaultTenantID string
}

// NewHandler creates a new HTTP handler
func NewHandler(tenants TenantAcquirer, provisioner Provisioner, tokens TokenService, verifier SSOVerifier, options Options) *Handler {
	return &Handler{
		tenants:     tenants,
		provisioner: provisioner,
		tokens:      tokens,
		verifier:    verifier,
		options:     options,
	}
}

// NewRouter creates the HTTP router. The multiTenant flag is the
// deployment-mode switch: when false, tenant resolution is bypassed and
// every request runs against the configured default namespace.
func NewRouter(h *Handler, rateLimiter *RateLimiter, multiTenant bool) *chi.Mux {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(RateLimitMiddleware(rateLimiter))
	r.Use(func(handler http.Handler) http.Handler {
		return otelhttp.NewHandler(handler, "http_request",
			otelhttp.WithSpanNameFormatter(func(operation string, r *http.Request) string {
				return r.Method + " " + r.URL.Path
			}),
		)
	})
	r.Use(LoggingMiddleware())
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))

	r.Get("/health", h.HealthCheck)

	// Inbound provisioning events, authenticated by shared secret only
	r.Route("/webhooks", func(r chi.Router) {
		r.Use(h.WebhookAuthMiddleware)
		r.Post("/tenant-created", h.TenantCreated)
		r.Post("/tenant-deleted", h.TenantDeleted)
		r.Post("/sso-exchange", h.SSOExchange)
	})

	// Tenant-scoped API surface
	r.Route("/api", func(r chi.Router) {
		r.Use(h.AuthMiddleware)
		if multiTenant {
			r.Use(h.ResolveTenant)
		} else {
			r.Use(h.DefaultTenant)
		}
		r.Get("/settings", h.ListSettings)
		r.Get("/clients", h.ListEntity((*mongodb.Handle).Clients))
		r.Get("/invoices", h.ListEntity((*mongodb.Handle).Invoices))
		r.Get("/quotes", h.ListEntity((*mongodb.Handle).Quotes))
		r.Get("/payments", h.ListEntity((*mongodb.Handle).Payments))
	})

	return r
}

// HealthCheck reports process liveness
// @Summary Health Check
// @Description Checks if the service is up and running
// @Tags System
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// response is the structured envelope every endpoint answers with, on
// success and failure alike.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func respondOK(w http.ResponseWriter, message string, data any) {
	respondJSON(w, http.StatusOK, response{Success: true, Message: message, Data: data})
}

func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, response{Success: false, Message: message})
}

func respondErrorDetail(w http.ResponseWriter, status int, message string, err error) {
	resp := response{Success: false, Message: message}
	if err != nil {
		resp.Error = err.Error()
	}
	respondJSON(w, status, resp)
}
