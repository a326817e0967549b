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

package mongodb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ledgerline/ledgerline/internal/identity"
	"github.com/ledgerline/ledgerline/internal/provision"
)

// The provisioner's Store interface is implemented directly on the
// tenant handle: every write below lands in this handle's database.

// FirstAdmin returns the oldest administrator in the namespace, or nil
// when none has been created yet.
func (h *Handle) FirstAdmin(ctx context.Context) (*identity.Admin, error) {
	var admin identity.Admin
	err := h.Admins().FindOne(ctx, bson.D{},
		options.FindOne().SetSort(bson.D{{Key: "created_at", Value: 1}}),
	).Decode(&admin)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query administrators: %w", err)
	}
	return &admin, nil
}

// CreateAdmin inserts an administrator record.
func (h *Handle) CreateAdmin(ctx context.Context, admin *identity.Admin) error {
	if _, err := h.Admins().InsertOne(ctx, admin); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return identity.ErrAdminAlreadyExists
		}
		return fmt.Errorf("failed to insert administrator: %w", err)
	}
	return nil
}

// CreateCredential inserts a credential record.
func (h *Handle) CreateCredential(ctx context.Context, cred *identity.Credential) error {
	if _, err := h.Credentials().InsertOne(ctx, cred); err != nil {
		return fmt.Errorf("failed to insert credential: %w", err)
	}
	return nil
}

// CountSettings counts setting records in the namespace.
func (h *Handle) CountSettings(ctx context.Context) (int64, error) {
	return h.count(ctx, h.Settings())
}

// InsertSettings seeds setting records.
func (h *Handle) InsertSettings(ctx context.Context, settings []provision.Setting) error {
	docs := make([]any, len(settings))
	for i, s := range settings {
		docs[i] = s
	}
	if _, err := h.Settings().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert settings: %w", err)
	}
	return nil
}

// CountPaymentModes counts payment mode records in the namespace.
func (h *Handle) CountPaymentModes(ctx context.Context) (int64, error) {
	return h.count(ctx, h.PaymentModes())
}

// InsertPaymentModes seeds payment mode records.
func (h *Handle) InsertPaymentModes(ctx context.Context, modes []provision.PaymentMode) error {
	docs := make([]any, len(modes))
	for i, m := range modes {
		docs[i] = m
	}
	if _, err := h.PaymentModes().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert payment modes: %w", err)
	}
	return nil
}

// CountTaxRates counts tax rate records in the namespace.
func (h *Handle) CountTaxRates(ctx context.Context) (int64, error) {
	return h.count(ctx, h.TaxRates())
}

// InsertTaxRates seeds tax rate records.
func (h *Handle) InsertTaxRates(ctx context.Context, rates []provision.TaxRate) error {
	docs := make([]any, len(rates))
	for i, r := range rates {
		docs[i] = r
	}
	if _, err := h.TaxRates().InsertMany(ctx, docs); err != nil {
		return fmt.Errorf("failed to insert tax rates: %w", err)
	}
	return nil
}

// DisableAdmins flips every administrator in the namespace to disabled
// and returns how many records changed.
func (h *Handle) DisableAdmins(ctx context.Context) (int64, error) {
	res, err := h.Admins().UpdateMany(ctx,
		bson.D{{Key: "enabled", Value: true}},
		bson.D{{Key: "$set", Value: bson.D{
			{Key: "enabled", Value: false},
			{Key: "updated_at", Value: time.Now()},
		}}},
	)
	if err != nil {
		return 0, fmt.Errorf("failed to disable administrators: %w", err)
	}
	return res.ModifiedCount, nil
}

func (h *Handle) count(ctx context.Context, col *mongo.Collection) (int64, error) {
	n, err := col.CountDocuments(ctx, bson.D{})
	if err != nil {
		return 0, fmt.Errorf("failed to count %s: %w", col.Name(), err)
	}
	return n, nil
}
