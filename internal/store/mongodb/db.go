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
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// Config holds document store configuration
type Config struct {
	URI            string
	ConnectTimeout time.Duration
	DBPrefix       string
}

// Opener opens tenant-scoped handles against one MongoDB deployment.
// The tenant's database name is the configured prefix plus the
// identifier; callers validate the identifier before it reaches here.
type Opener struct {
	cfg Config
}

// NewOpener creates an opener.
func NewOpener(cfg Config) *Opener {
	return &Opener{cfg: cfg}
}

// DatabaseName derives the storage namespace for a tenant identifier.
func (o *Opener) DatabaseName(tenantID string) string {
	return o.cfg.DBPrefix + tenantID
}

// Open connects to the tenant's namespace, verifies the connection with
// a bounded ping, and binds the entity collections exactly once before
// the handle is published. A failed open leaves nothing behind.
func (o *Opener) Open(ctx context.Context, tenantID string) (*Handle, error) {
	ctx, cancel := context.WithTimeout(ctx, o.cfg.ConnectTimeout)
	defer cancel()

	opts := options.Client().
		ApplyURI(o.cfg.URI).
		SetConnectTimeout(o.cfg.ConnectTimeout)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to ping: %w", err)
	}

	h := newHandle(client, client.Database(o.DatabaseName(tenantID)))
	if err := h.bind(ctx); err != nil {
		_ = client.Disconnect(context.WithoutCancel(ctx))
		return nil, fmt.Errorf("failed to bind schemas: %w", err)
	}
	return h, nil
}
