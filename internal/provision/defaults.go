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

import "github.com/google/uuid"

// Setting is one tenant configuration record.
type Setting struct {
	ID       string `bson:"_id" json:"id"`
	Key      string `bson:"key" json:"key"`
	Value    string `bson:"value" json:"value"`
	Category string `bson:"category" json:"category"`
	Enabled  bool   `bson:"enabled" json:"enabled"`
}

// PaymentMode is one accepted payment method.
type PaymentMode struct {
	ID          string `bson:"_id" json:"id"`
	Name        string `bson:"name" json:"name"`
	Description string `bson:"description" json:"description"`
	Enabled     bool   `bson:"enabled" json:"enabled"`
	IsDefault   bool   `bson:"is_default" json:"isDefault"`
}

// TaxRate is one tax rate applied to invoices and quotes. The value is
// kept as a string to match the external reference data format.
type TaxRate struct {
	ID        string `bson:"_id" json:"id"`
	Name      string `bson:"name" json:"name"`
	Value     string `bson:"value" json:"value"`
	Enabled   bool   `bson:"enabled" json:"enabled"`
	IsDefault bool   `bson:"is_default" json:"isDefault"`
}

// DefaultSettings returns the static settings seeded into a fresh
// tenant namespace.
func DefaultSettings() []Setting {
	return []Setting{
		{ID: uuid.NewString(), Key: "company_name", Value: "", Category: "company", Enabled: true},
		{ID: uuid.NewString(), Key: "company_email", Value: "", Category: "company", Enabled: true},
		{ID: uuid.NewString(), Key: "default_currency", Value: "USD", Category: "finance", Enabled: true},
		{ID: uuid.NewString(), Key: "currency_position", Value: "before", Category: "finance", Enabled: true},
		{ID: uuid.NewString(), Key: "date_format", Value: "DD/MM/YYYY", Category: "app", Enabled: true},
		{ID: uuid.NewString(), Key: "default_language", Value: "en", Category: "app", Enabled: true},
		{ID: uuid.NewString(), Key: "last_invoice_number", Value: "0", Category: "finance", Enabled: true},
		{ID: uuid.NewString(), Key: "last_quote_number", Value: "0", Category: "finance", Enabled: true},
	}
}

// DefaultPaymentModes returns the fixed payment mode set, with exactly
// one marked default.
func DefaultPaymentModes() []PaymentMode {
	return []PaymentMode{
		{ID: uuid.NewString(), Name: "Cash", Description: "Cash payment", Enabled: true, IsDefault: true},
		{ID: uuid.NewString(), Name: "Credit Card", Description: "Card payment", Enabled: true},
		{ID: uuid.NewString(), Name: "Bank Transfer", Description: "Wire transfer", Enabled: true},
	}
}

// DefaultTaxRates returns the fixed tax rate set, with exactly one
// marked default.
func DefaultTaxRates() []TaxRate {
	return []TaxRate{
		{ID: uuid.NewString(), Name: "VAT 20%", Value: "20", Enabled: true, IsDefault: true},
		{ID: uuid.NewString(), Name: "VAT 18%", Value: "18", Enabled: true},
		{ID: uuid.NewString(), Name: "VAT 8%", Value: "8", Enabled: true},
	}
}
