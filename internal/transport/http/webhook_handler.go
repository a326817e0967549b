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
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"

	"github.com/ledgerline/ledgerline/internal/identity"
	"github.com/ledgerline/ledgerline/internal/observability/logger"
	"github.com/ledgerline/ledgerline/internal/tenant"
)

var validate = validator.New()

type tenantCreatedRequest struct {
	UserID      string `json:"userId" validate:"required"`
	Email       string `json:"email" validate:"required,email"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	CompanyName string `json:"companyName"`
	Password    string `json:"password"`
}

type tenantDeletedRequest struct {
	UserID string `json:"userId" validate:"required"`
}

type ssoExchangeRequest struct {
	ExternalToken string `json:"externalToken" validate:"required"`
}

// TenantCreated handles the external "new account" event: provisions
// the tenant and returns the administrator id with a long-lived
// application credential.
// @Summary Provision a tenant
// @Description Creates the tenant namespace, administrator, and default reference data
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body tenantCreatedRequest true "Account Data"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Security WebhookSecret
// @Router /webhooks/tenant-created [post]
func (h *Handler) TenantCreated(w http.ResponseWriter, r *http.Request) {
	var req tenantCreatedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "userId and a valid email are required")
		return
	}

	admin, err := h.provisioner.Provision(r.Context(), req.UserID, identity.Profile{
		Email:    req.Email,
		Name:     req.Name,
		Surname:  req.Surname,
		Company:  req.CompanyName,
		Password: req.Password,
	})
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidTenant) || errors.Is(err, tenant.ErrMissingTenant) {
			respondError(w, http.StatusBadRequest, "invalid tenant identifier")
			return
		}
		slog.ErrorContext(r.Context(), "tenant provisioning failed",
			logger.TenantID(req.UserID),
			logger.Error(err),
		)
		respondErrorDetail(w, http.StatusInternalServerError, "failed to provision tenant", err)
		return
	}

	credential, err := h.tokens.IssueProvisionToken(admin.ID, req.UserID, admin.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue credential",
			logger.TenantID(req.UserID),
			logger.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to issue credential")
		return
	}

	respondOK(w, "tenant provisioned", map[string]any{
		"adminId": admin.ID,
		"token":   credential,
	})
}

// TenantDeleted handles the external "account removed" event. No tenant
// data is destroyed: administrator accounts are disabled and the event
// acknowledged.
// @Summary Deactivate a tenant
// @Description Disables every administrator account in the tenant namespace
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body tenantDeletedRequest true "Account Reference"
// @Success 200 {object} response
// @Failure 400 {object} response
// @Failure 401 {object} response
// @Security WebhookSecret
// @Router /webhooks/tenant-deleted [post]
func (h *Handler) TenantDeleted(w http.ResponseWriter, r *http.Request) {
	var req tenantDeletedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "userId is required")
		return
	}

	disabled, err := h.provisioner.Deactivate(r.Context(), req.UserID)
	if err != nil {
		if errors.Is(err, tenant.ErrInvalidTenant) || errors.Is(err, tenant.ErrMissingTenant) {
			respondError(w, http.StatusBadRequest, "invalid tenant identifier")
			return
		}
		slog.ErrorContext(r.Context(), "tenant deactivation failed",
			logger.TenantID(req.UserID),
			logger.Error(err),
		)
		respondErrorDetail(w, http.StatusInternalServerError, "failed to deactivate tenant", err)
		return
	}

	respondOK(w, "tenant deactivated", map[string]any{
		"userId":         req.UserID,
		"disabledAdmins": disabled,
	})
}

// SSOExchange trades an externally issued token for a short-lived local
// credential. Any verification failure is an authorization failure; no
// local credential is minted.
// @Summary Exchange an external token
// @Description Verifies an externally issued token and mints a local credential
// @Tags Webhooks
// @Accept json
// @Produce json
// @Param request body ssoExchangeRequest true "External Token"
// @Success 200 {object} response
// @Failure 401 {object} response
// @Security WebhookSecret
// @Router /webhooks/sso-exchange [post]
func (h *Handler) SSOExchange(w http.ResponseWriter, r *http.Request) {
	var req ssoExchangeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if err := validate.Struct(req); err != nil {
		respondError(w, http.StatusBadRequest, "externalToken is required")
		return
	}

	ident, err := h.verifier.Verify(r.Context(), req.ExternalToken)
	if err != nil {
		slog.WarnContext(r.Context(), "sso exchange rejected", logger.Error(err))
		respondError(w, http.StatusUnauthorized, "invalid external token")
		return
	}

	credential, err := h.tokens.IssueSSOToken(ident.AdminID, ident.TenantID, ident.Email)
	if err != nil {
		slog.ErrorContext(r.Context(), "failed to issue credential",
			logger.TenantID(ident.TenantID),
			logger.Error(err),
		)
		respondError(w, http.StatusInternalServerError, "failed to issue credential")
		return
	}

	respondOK(w, "sso exchange completed", map[string]any{
		"token":    credential,
		"tenantId": ident.TenantID,
	})
}
