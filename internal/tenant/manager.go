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

package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/ledgerline/ledgerline/internal/observability/logger"
	"github.com/ledgerline/ledgerline/internal/observability/metrics"
	"github.com/ledgerline/ledgerline/internal/store/mongodb"
	"go.opentelemetry.io/otel/metric"
)

// Opener opens a storage handle bound to one tenant's namespace.
type Opener interface {
	Open(ctx context.Context, tenantID string) (*mongodb.Handle, error)
}

// Manager owns the per-tenant connection cache. It holds at most one
// live handle per tenant identifier, created lazily on first use and
// shared by every request for that tenant for the life of the process.
//
// There is no eviction: the deployment assumes a modest tenant count.
// Handles are closed only at Shutdown.
type Manager struct {
	opener Opener
	group  singleflight.Group

	mu      sync.RWMutex
	handles map[string]*mongodb.Handle

	opened metric.Int64Counter
}

// NewManager creates a connection cache over the given opener.
func NewManager(opener Opener, meter *metrics.Meter) *Manager {
	m := &Manager{
		opener:  opener,
		handles: make(map[string]*mongodb.Handle),
	}
	if meter != nil {
		counter, err := meter.Counter("tenant_connections_opened",
			"Number of tenant database connections opened by this process")
		if err == nil {
			m.opened = counter
		}
	}
	return m
}

// Acquire returns the cached handle for a tenant, opening it on first
// use. Concurrent first calls for the same identifier share a single
// open: the per-key singleflight guard guarantees at most one underlying
// connection is ever created per tenant. A failed open is never cached,
// so the next call retries cleanly.
func (m *Manager) Acquire(ctx context.Context, tenantID string) (*mongodb.Handle, error) {
	if err := ValidateIdentifier(tenantID); err != nil {
		return nil, err
	}

	m.mu.RLock()
	h, ok := m.handles[tenantID]
	m.mu.RUnlock()
	if ok {
		return h, nil
	}

	v, err, _ := m.group.Do(tenantID, func() (any, error) {
		// Re-check under the flight: a previous flight may have
		// populated the entry between the fast path and here.
		m.mu.RLock()
		h, ok := m.handles[tenantID]
		m.mu.RUnlock()
		if ok {
			return h, nil
		}

		h, openErr := m.opener.Open(ctx, tenantID)
		if openErr != nil {
			return nil, fmt.Errorf("%w: %w", ErrConnection, openErr)
		}

		m.mu.Lock()
		m.handles[tenantID] = h
		m.mu.Unlock()

		if m.opened != nil {
			m.opened.Add(ctx, 1)
		}
		slog.InfoContext(ctx, "tenant database connected",
			logger.TenantID(tenantID),
			logger.Database(h.Name()),
		)
		return h, nil
	})
	if err != nil {
		return nil, err
	}
	return v.(*mongodb.Handle), nil
}

// Size returns the number of cached tenant handles.
func (m *Manager) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

// Shutdown closes every cached handle. Called once at process exit;
// in-flight requests must have drained before this point.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	handles := m.handles
	m.handles = make(map[string]*mongodb.Handle)
	m.mu.Unlock()

	var errs []error
	for id, h := range handles {
		if err := h.Close(ctx); err != nil {
			errs = append(errs, fmt.Errorf("tenant %s: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
