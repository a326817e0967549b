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

package provision

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/ledgerline/ledgerline/internal/identity"
	"github.com/ledgerline/ledgerline/internal/observability/logger"
)

// ErrProvision wraps any failed step of tenant setup. Steps are not
// transactional: a failure aborts the remaining steps without rolling
// back the ones already applied.
var ErrProvision = errors.New("tenant provisioning failed")

// fallbackPassword is used when the external account system supplies no
// initial password. It must never appear in responses or logs.
const fallbackPassword = "changeme123"

// placeholder administrator names when the profile omits them
const (
	placeholderName    = "Admin"
	placeholderSurname = "User"
)

// Store is the tenant-scoped persistence surface the provisioner writes
// through. Implemented by the document store handle.
type Store interface {
	FirstAdmin(ctx context.Context) (*identity.Admin, error)
	CreateAdmin(ctx context.Context, admin *identity.Admin) error
	CreateCredential(ctx context.Context, cred *identity.Credential) error
	CountSettings(ctx context.Context) (int64, error)
	InsertSettings(ctx context.Context, settings []Setting) error
	CountPaymentModes(ctx context.Context) (int64, error)
	InsertPaymentModes(ctx context.Context, modes []PaymentMode) error
	CountTaxRates(ctx context.Context) (int64, error)
	InsertTaxRates(ctx context.Context, rates []TaxRate) error
	DisableAdmins(ctx context.Context) (int64, error)
}

// StoreOpener acquires a tenant's store through the shared connection
// cache, creating the namespace on first use. Provisioning and normal
// request resolution share this acquisition path.
type StoreOpener interface {
	OpenStore(ctx context.Context, tenantID string) (Store, error)
}

// Service turns a "new account" event into a fully initialized tenant
// namespace: administrator, credential, and default reference data.
// Every step is guarded by an existence check so re-delivery of the
// same event is safe.
type Service struct {
	stores StoreOpener
	hasher *identity.PasswordHasher
}

// NewService creates a provisioner.
func NewService(stores StoreOpener, hasher *identity.PasswordHasher) *Service {
	return &Service{stores: stores, hasher: hasher}
}

// Provision initializes the tenant namespace for an identifier and
// returns its administrator. When an administrator already exists the
// record is returned as-is and the credential step is skipped; seed
// steps individually skip collections that already hold data.
func (s *Service) Provision(ctx context.Context, tenantID string, profile identity.Profile) (*identity.Admin, error) {
	if profile.Email == "" {
		return nil, fmt.Errorf("%w: %w", ErrProvision, identity.ErrInvalidEmail)
	}

	store, err := s.stores.OpenStore(ctx, tenantID)
	if err != nil {
		return nil, err
	}

	admin, err := store.FirstAdmin(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvision, err)
	}

	if admin == nil {
		admin, err = s.createAdmin(ctx, store, profile)
		if err != nil {
			return nil, err
		}
		slog.InfoContext(ctx, "tenant administrator created",
			logger.TenantID(tenantID),
			logger.AdminID(admin.ID),
		)
	} else {
		slog.InfoContext(ctx, "administrator already provisioned, skipping",
			logger.TenantID(tenantID),
			logger.AdminID(admin.ID),
		)
	}

	if err := s.seedReferenceData(ctx, store); err != nil {
		return nil, err
	}

	slog.InfoContext(ctx, "tenant setup completed", logger.TenantID(tenantID))
	return admin, nil
}

func (s *Service) createAdmin(ctx context.Context, store Store, profile identity.Profile) (*identity.Admin, error) {
	now := time.Now()

	name := profile.Name
	if name == "" {
		name = placeholderName
	}
	surname := profile.Surname
	if surname == "" {
		surname = placeholderSurname
	}

	admin := &identity.Admin{
		ID:        uuid.NewString(),
		Email:     profile.Email,
		Name:      name,
		Surname:   surname,
		Company:   profile.Company,
		Role:      identity.RoleAdmin,
		Enabled:   true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := store.CreateAdmin(ctx, admin); err != nil {
		return nil, fmt.Errorf("%w: failed to create administrator: %w", ErrProvision, err)
	}

	salt, err := s.hasher.NewSalt()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvision, err)
	}
	password := profile.Password
	if password == "" {
		password = fallbackPassword
	}
	hash, err := s.hasher.Hash(salt, password)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrProvision, err)
	}

	cred := &identity.Credential{
		ID:            uuid.NewString(),
		AdminID:       admin.ID,
		PasswordHash:  hash,
		Salt:          salt,
		EmailVerified: true,
		CreatedAt:     now,
	}
	if err := store.CreateCredential(ctx, cred); err != nil {
		return nil, fmt.Errorf("%w: failed to create credential: %w", ErrProvision, err)
	}

	return admin, nil
}

func (s *Service) seedReferenceData(ctx context.Context, store Store) error {
	n, err := store.CountSettings(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvision, err)
	}
	if n == 0 {
		if err := store.InsertSettings(ctx, DefaultSettings()); err != nil {
			return fmt.Errorf("%w: failed to seed settings: %w", ErrProvision, err)
		}
	}

	n, err = store.CountPaymentModes(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvision, err)
	}
	if n == 0 {
		if err := store.InsertPaymentModes(ctx, DefaultPaymentModes()); err != nil {
			return fmt.Errorf("%w: failed to seed payment modes: %w", ErrProvision, err)
		}
	}

	n, err = store.CountTaxRates(ctx)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrProvision, err)
	}
	if n == 0 {
		if err := store.InsertTaxRates(ctx, DefaultTaxRates()); err != nil {
			return fmt.Errorf("%w: failed to seed tax rates: %w", ErrProvision, err)
		}
	}

	return nil
}

// Deactivate disables every administrator account in the tenant
// namespace and returns the number of accounts affected. No tenant data
// is deleted: decommissioning is deliberately a flag-flip so an
// erroneous external event cannot destroy records.
func (s *Service) Deactivate(ctx context.Context, tenantID string) (int64, error) {
	store, err := s.stores.OpenStore(ctx, tenantID)
	if err != nil {
		return 0, err
	}

	n, err := store.DisableAdmins(ctx)
	if err != nil {
		return 0, fmt.Errorf("%w: failed to disable administrators: %w", ErrProvision, err)
	}

	slog.InfoContext(ctx, "tenant deactivated",
		logger.TenantID(tenantID),
		slog.Int64("disabled_admins", n),
	)
	return n, nil
}
