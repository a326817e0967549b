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
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ledgerline/ledgerline/internal/store/mongodb"
)

// fakeOpener hands out fresh handles and records how often each tenant
// was opened.
type fakeOpener struct {
	mu    sync.Mutex
	opens map[string]int

	delay time.Duration
	fail  atomic.Bool
}

var errOpenFailed = errors.New("open failed")

func newFakeOpener() *fakeOpener {
	return &fakeOpener{opens: make(map[string]int)}
}

func (f *fakeOpener) Open(ctx context.Context, tenantID string) (*mongodb.Handle, error) {
	if f.delay > 0 {
		time.Sleep(f.delay)
	}
	if f.fail.Load() {
		return nil, errOpenFailed
	}
	f.mu.Lock()
	f.opens[tenantID]++
	f.mu.Unlock()
	return &mongodb.Handle{}, nil
}

func (f *fakeOpener) openCount(tenantID string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.opens[tenantID]
}

// Repeated Acquire calls for one tenant must return the identical
// handle instance, not merely an equal one.
func TestManager_Acquire_ReturnsSameHandle(t *testing.T) {
	opener := newFakeOpener()
	m := NewManager(opener, nil)
	ctx := context.Background()

	first, err := m.Acquire(ctx, "acme-42")
	require.NoError(t, err)

	second, err := m.Acquire(ctx, "acme-42")
	require.NoError(t, err)

	assert.Same(t, first, second)
	assert.Equal(t, 1, opener.openCount("acme-42"))
}

// Concurrent first-time acquisitions of an unseen tenant must open
// exactly one underlying connection, with every caller observing the
// same handle.
func TestManager_Acquire_ConcurrentFirstUse(t *testing.T) {
	opener := newFakeOpener()
	opener.delay = 10 * time.Millisecond
	m := NewManager(opener, nil)
	ctx := context.Background()

	const callers = 32
	handles := make([]*mongodb.Handle, callers)

	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			h, err := m.Acquire(ctx, "acme-42")
			assert.NoError(t, err)
			handles[i] = h
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, opener.openCount("acme-42"))
	for i := 1; i < callers; i++ {
		assert.Same(t, handles[0], handles[i])
	}
}

// Distinct tenants must never observe each other's handle: the cache is
// keyed by exact identifier.
func TestManager_Acquire_TenantIsolation(t *testing.T) {
	opener := newFakeOpener()
	m := NewManager(opener, nil)
	ctx := context.Background()

	var wg sync.WaitGroup
	var a, b *mongodb.Handle
	wg.Add(2)
	go func() {
		defer wg.Done()
		a, _ = m.Acquire(ctx, "tenantA")
	}()
	go func() {
		defer wg.Done()
		b, _ = m.Acquire(ctx, "tenantB")
	}()
	wg.Wait()

	require.NotNil(t, a)
	require.NotNil(t, b)
	assert.NotSame(t, a, b)
	assert.Equal(t, 2, m.Size())
}

// A failed open must not leave a poisoned cache entry behind; the next
// acquisition retries cleanly.
func TestManager_Acquire_FailedOpenNotCached(t *testing.T) {
	opener := newFakeOpener()
	opener.fail.Store(true)
	m := NewManager(opener, nil)
	ctx := context.Background()

	_, err := m.Acquire(ctx, "acme-42")
	require.ErrorIs(t, err, ErrConnection)
	assert.Equal(t, 0, m.Size())

	opener.fail.Store(false)
	h, err := m.Acquire(ctx, "acme-42")
	require.NoError(t, err)
	assert.NotNil(t, h)
	assert.Equal(t, 1, m.Size())
}

// Invalid identifiers are rejected before any connection work happens.
func TestManager_Acquire_RejectsInvalidIdentifier(t *testing.T) {
	opener := newFakeOpener()
	m := NewManager(opener, nil)
	ctx := context.Background()

	_, err := m.Acquire(ctx, "")
	assert.ErrorIs(t, err, ErrMissingTenant)

	_, err = m.Acquire(ctx, "../other")
	assert.ErrorIs(t, err, ErrInvalidTenant)

	assert.Equal(t, 0, opener.openCount(""))
	assert.Equal(t, 0, m.Size())
}

func TestManager_Shutdown_EmptiesCache(t *testing.T) {
	opener := newFakeOpener()
	m := NewManager(opener, nil)
	ctx := context.Background()

	_, err := m.Acquire(ctx, "acme-42")
	require.NoError(t, err)
	require.Equal(t, 1, m.Size())

	require.NoError(t, m.Shutdown(ctx))
	assert.Equal(t, 0, m.Size())
}
