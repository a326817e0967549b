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
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names registered for every tenant namespace
const (
	colAdmins       = "admins"
	colCredentials  = "admin_credentials"
	colSettings     = "settings"
	colUploads      = "uploads"
	colClients      = "clients"
	colInvoices     = "invoices"
	colQuotes       = "quotes"
	colPayments     = "payments"
	colPaymentModes = "payment_modes"
	colTaxRates     = "tax_rates"
)

// Handle is an open session bound to one tenant's isolated database
// with every entity collection registered against it. It is created
// once per tenant per process and shared read-only by every request
// for that tenant; only the connection cache owns its lifetime.
type Handle struct {
	client *mongo.Client
	db     *mongo.Database
}

func newHandle(client *mongo.Client, db *mongo.Database) *Handle {
	return &Handle{client: client, db: db}
}

// Name returns the tenant's database name.
func (h *Handle) Name() string {
	if h.db == nil {
		return ""
	}
	return h.db.Name()
}

// bind runs the single registration pass for a freshly opened
// connection: indexes for every entity collection. Called exactly once,
// inside Open, before the handle is published to any caller.
func (h *Handle) bind(ctx context.Context) error {
	// Administrator email uniqueness is a property of the tenant's own
	// namespace, not global.
	_, err := h.Admins().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("admins index: %w", err)
	}

	_, err = h.Credentials().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "admin_id", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("credentials index: %w", err)
	}

	_, err = h.Settings().Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("settings index: %w", err)
	}

	for _, col := range []*mongo.Collection{h.Clients(), h.Invoices(), h.Quotes(), h.Payments()} {
		if _, err := col.Indexes().CreateOne(ctx, mongo.IndexModel{
			Keys: bson.D{{Key: "created_at", Value: -1}},
		}); err != nil {
			return fmt.Errorf("%s index: %w", col.Name(), err)
		}
	}

	return nil
}

// Entity accessors. Collections are bound to this handle's database, so
// queries issued through them can never cross a tenant boundary.

func (h *Handle) Admins() *mongo.Collection       { return h.db.Collection(colAdmins) }
func (h *Handle) Credentials() *mongo.Collection  { return h.db.Collection(colCredentials) }
func (h *Handle) Settings() *mongo.Collection     { return h.db.Collection(colSettings) }
func (h *Handle) Uploads() *mongo.Collection      { return h.db.Collection(colUploads) }
func (h *Handle) Clients() *mongo.Collection      { return h.db.Collection(colClients) }
func (h *Handle) Invoices() *mongo.Collection     { return h.db.Collection(colInvoices) }
func (h *Handle) Quotes() *mongo.Collection       { return h.db.Collection(colQuotes) }
func (h *Handle) Payments() *mongo.Collection     { return h.db.Collection(colPayments) }
func (h *Handle) PaymentModes() *mongo.Collection { return h.db.Collection(colPaymentModes) }
func (h *Handle) TaxRates() *mongo.Collection     { return h.db.Collection(colTaxRates) }

// Close disconnects the underlying client.
func (h *Handle) Close(ctx context.Context) error {
	if h.client == nil {
		return nil
	}
	return h.client.Disconnect(ctx)
}
