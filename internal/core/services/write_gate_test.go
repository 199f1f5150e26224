package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
)

func TestWriteGate_SerializesWritersPerTenant(t *testing.T) {
	gate := newTenantWriteGate(4)
	ctx := context.Background()

	var mu sync.Mutex
	active := 0
	maxActive := 0

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := gate.Acquire(ctx, "tenant-1")
			if err != nil {
				return
			}
			mu.Lock()
			active++
			if active > maxActive {
				maxActive = active
			}
			mu.Unlock()

			time.Sleep(time.Millisecond)

			mu.Lock()
			active--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, maxActive, "only one writer may hold the gate at a time")
}

func TestWriteGate_OverflowFailsFast(t *testing.T) {
	gate := newTenantWriteGate(1)
	ctx := context.Background()

	release, err := gate.Acquire(ctx, "tenant-1")
	require.NoError(t, err)
	defer release()

	_, err = gate.Acquire(ctx, "tenant-1")
	assert.ErrorIs(t, err, apperrors.ErrBusy)
}

func TestWriteGate_TenantsAreIndependent(t *testing.T) {
	gate := newTenantWriteGate(1)
	ctx := context.Background()

	releaseA, err := gate.Acquire(ctx, "tenant-a")
	require.NoError(t, err)
	defer releaseA()

	releaseB, err := gate.Acquire(ctx, "tenant-b")
	require.NoError(t, err)
	releaseB()
}

func TestWriteGate_ContextCancelledWhileWaiting(t *testing.T) {
	gate := newTenantWriteGate(4)

	release, err := gate.Acquire(context.Background(), "tenant-1")
	require.NoError(t, err)
	defer release()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()

	_, err = gate.Acquire(ctx, "tenant-1")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestWriteGate_ReleaseAllowsNextWriter(t *testing.T) {
	gate := newTenantWriteGate(2)
	ctx := context.Background()

	release, err := gate.Acquire(ctx, "tenant-1")
	require.NoError(t, err)
	release()

	release, err = gate.Acquire(ctx, "tenant-1")
	require.NoError(t, err)
	release()
}
