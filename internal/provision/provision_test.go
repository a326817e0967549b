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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/identity"
)

type mockStore struct {
	mock.Mock
}

func (m *mockStore) FirstAdmin(ctx context.Context) (*identity.Admin, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Admin), args.Error(1)
}

func (m *mockStore) CreateAdmin(ctx context.Context, admin *identity.Admin) error {
	args := m.Called(ctx, admin)
	return args.Error(0)
}

func (m *mockStore) CreateCredential(ctx context.Context, cred *identity.Credential) error {
	args := m.Called(ctx, cred)
	return args.Error(0)
}

func (m *mockStore) CountSettings(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) InsertSettings(ctx context.Context, settings []Setting) error {
	args := m.Called(ctx, settings)
	return args.Error(0)
}

func (m *mockStore) CountPaymentModes(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) InsertPaymentModes(ctx context.Context, modes []PaymentMode) error {
	args := m.Called(ctx, modes)
	return args.Error(0)
}

func (m *mockStore) CountTaxRates(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockStore) InsertTaxRates(ctx context.Context, rates []TaxRate) error {
	args := m.Called(ctx, rates)
	return args.Error(0)
}

func (m *mockStore) DisableAdmins(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

type mockOpener struct {
	mock.Mock
}

func (m *mockOpener) OpenStore(ctx context.Context, tenantID string) (Store, error) {
	args := m.Called(ctx, tenantID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(Store), args.Error(1)
}

func newTestService(opener StoreOpener) *Service {
	return NewService(opener, identity.NewPasswordHasher(4))
}

func expectEmptySeeds(store *mockStore) {
	store.On("CountSettings", mock.Anything).Return(int64(0), nil)
	store.On("InsertSettings", mock.Anything, mock.Anything).Return(nil)
	store.On("CountPaymentModes", mock.Anything).Return(int64(0), nil)
	store.On("InsertPaymentModes", mock.Anything, mock.Anything).Return(nil)
	store.On("CountTaxRates", mock.Anything).Return(int64(0), nil)
	store.On("InsertTaxRates", mock.Anything, mock.Anything).Return(nil)
}

// A single successful run for a fresh tenant creates one administrator,
// one credential tied to it, and the fixed default reference data sets.
func TestService_Provision_FreshTenant(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(nil, nil)

	var createdAdmin *identity.Admin
	store.On("CreateAdmin", ctx, mock.AnythingOfType("*identity.Admin")).
		Run(func(args mock.Arguments) {
			createdAdmin = args.Get(1).(*identity.Admin)
		}).Return(nil)

	var createdCred *identity.Credential
	store.On("CreateCredential", ctx, mock.AnythingOfType("*identity.Credential")).
		Run(func(args mock.Arguments) {
			createdCred = args.Get(1).(*identity.Credential)
		}).Return(nil)

	expectEmptySeeds(store)

	svc := newTestService(opener)
	admin, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.NoError(t, err)

	require.NotNil(t, createdAdmin)
	assert.Same(t, createdAdmin, admin)
	assert.Equal(t, "a@acme.com", admin.Email)
	assert.Equal(t, identity.RoleAdmin, admin.Role)
	assert.True(t, admin.Enabled)
	assert.Equal(t, "Admin", admin.Name)
	assert.Equal(t, "User", admin.Surname)
	assert.NotEmpty(t, admin.ID)

	require.NotNil(t, createdCred)
	assert.Equal(t, admin.ID, createdCred.AdminID)
	assert.True(t, createdCred.EmailVerified)
	assert.NotEmpty(t, createdCred.Salt)

	// No initial password supplied: the credential hashes the fallback.
	hasher := identity.NewPasswordHasher(4)
	assert.True(t, hasher.Verify(createdCred.Salt, fallbackPassword, createdCred.PasswordHash))

	store.AssertExpectations(t)
	opener.AssertExpectations(t)
}

// The seeded reference data has fixed shape: one default payment mode,
// and three tax rates with the default one valued "20".
func TestService_Provision_SeedShape(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(nil, nil)
	store.On("CreateAdmin", ctx, mock.Anything).Return(nil)
	store.On("CreateCredential", ctx, mock.Anything).Return(nil)

	store.On("CountSettings", ctx).Return(int64(0), nil)
	store.On("InsertSettings", ctx, mock.MatchedBy(func(s []Setting) bool {
		return len(s) == len(DefaultSettings())
	})).Return(nil)

	store.On("CountPaymentModes", ctx).Return(int64(0), nil)
	store.On("InsertPaymentModes", ctx, mock.MatchedBy(func(modes []PaymentMode) bool {
		defaults := 0
		for _, m := range modes {
			if m.IsDefault {
				defaults++
			}
		}
		return len(modes) == 3 && defaults == 1
	})).Return(nil)

	store.On("CountTaxRates", ctx).Return(int64(0), nil)
	store.On("InsertTaxRates", ctx, mock.MatchedBy(func(rates []TaxRate) bool {
		defaults := 0
		defaultValue := ""
		for _, r := range rates {
			if r.IsDefault {
				defaults++
				defaultValue = r.Value
			}
		}
		return len(rates) == 3 && defaults == 1 && defaultValue == "20"
	})).Return(nil)

	svc := newTestService(opener)
	_, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.NoError(t, err)
	store.AssertExpectations(t)
}

// Redelivery of a create-tenant event must not duplicate the
// administrator or the seed data: every step is existence-guarded.
func TestService_Provision_Idempotent(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	existing := &identity.Admin{
		ID:      "admin-1",
		Email:   "a@acme.com",
		Role:    identity.RoleAdmin,
		Enabled: true,
	}

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(existing, nil)
	store.On("CountSettings", ctx).Return(int64(8), nil)
	store.On("CountPaymentModes", ctx).Return(int64(3), nil)
	store.On("CountTaxRates", ctx).Return(int64(3), nil)

	svc := newTestService(opener)
	admin, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.NoError(t, err)
	assert.Same(t, existing, admin)

	store.AssertNotCalled(t, "CreateAdmin", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "CreateCredential", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "InsertSettings", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "InsertPaymentModes", mock.Anything, mock.Anything)
	store.AssertNotCalled(t, "InsertTaxRates", mock.Anything, mock.Anything)
}

// A failing step aborts the remaining steps and surfaces the error.
func TestService_Provision_StepFailureAborts(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(nil, nil)
	store.On("CreateAdmin", ctx, mock.Anything).Return(nil)
	store.On("CreateCredential", ctx, mock.Anything).Return(nil)
	store.On("CountSettings", ctx).Return(int64(0), nil)
	store.On("InsertSettings", ctx, mock.Anything).Return(errors.New("write failed"))

	svc := newTestService(opener)
	_, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.ErrorIs(t, err, ErrProvision)

	store.AssertNotCalled(t, "CountPaymentModes", mock.Anything)
	store.AssertNotCalled(t, "InsertTaxRates", mock.Anything, mock.Anything)
}

func TestService_Provision_RequiresEmail(t *testing.T) {
	opener := new(mockOpener)

	svc := newTestService(opener)
	_, err := svc.Provision(context.Background(), "acme-42", identity.Profile{})
	require.ErrorIs(t, err, ErrProvision)

	opener.AssertNotCalled(t, "OpenStore", mock.Anything, mock.Anything)
}

// Connection failures from the shared acquisition path pass through
// unchanged so callers can classify them.
func TestService_Provision_OpenFailurePassesThrough(t *testing.T) {
	opener := new(mockOpener)
	ctx := context.Background()

	errConn := errors.New("connection refused")
	opener.On("OpenStore", ctx, "acme-42").Return(nil, errConn)

	svc := newTestService(opener)
	_, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.ErrorIs(t, err, errConn)
	assert.NotErrorIs(t, err, ErrProvision)
}

// A supplied initial password is used instead of the fallback.
func TestService_Provision_UsesSuppliedPassword(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(nil, nil)
	store.On("CreateAdmin", ctx, mock.Anything).Return(nil)

	var createdCred *identity.Credential
	store.On("CreateCredential", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			createdCred = args.Get(1).(*identity.Credential)
		}).Return(nil)
	expectEmptySeeds(store)

	svc := newTestService(opener)
	_, err := svc.Provision(ctx, "acme-42", identity.Profile{
		Email:    "a@acme.com",
		Password: "hunter2!",
	})
	require.NoError(t, err)

	hasher := identity.NewPasswordHasher(4)
	require.NotNil(t, createdCred)
	assert.True(t, hasher.Verify(createdCred.Salt, "hunter2!", createdCred.PasswordHash))
	assert.False(t, hasher.Verify(createdCred.Salt, fallbackPassword, createdCred.PasswordHash))
}

func TestService_Deactivate(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("DisableAdmins", ctx).Return(int64(2), nil)

	svc := newTestService(opener)
	n, err := svc.Deactivate(ctx, "acme-42")
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}

// Profile timestamps are set by the provisioner, not by callers.
func TestService_Provision_SetsTimestamps(t *testing.T) {
	store := new(mockStore)
	opener := new(mockOpener)
	ctx := context.Background()

	opener.On("OpenStore", ctx, "acme-42").Return(store, nil)
	store.On("FirstAdmin", ctx).Return(nil, nil)

	var createdAdmin *identity.Admin
	store.On("CreateAdmin", ctx, mock.Anything).
		Run(func(args mock.Arguments) {
			createdAdmin = args.Get(1).(*identity.Admin)
		}).Return(nil)
	store.On("CreateCredential", ctx, mock.Anything).Return(nil)
	expectEmptySeeds(store)

	before := time.Now()
	svc := newTestService(opener)
	_, err := svc.Provision(ctx, "acme-42", identity.Profile{Email: "a@acme.com"})
	require.NoError(t, err)

	require.NotNil(t, createdAdmin)
	assert.False(t, createdAdmin.CreatedAt.Before(before))
	assert.Equal(t, createdAdmin.CreatedAt, createdAdmin.UpdatedAt)
}
