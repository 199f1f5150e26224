package services

import (
	"context"
	"sync"

	"github.com/sarrafly/exchange_backoffice/internal/apperrors"
	"golang.org/x/sync/semaphore"
)

// defaultQueueDepth bounds how many appenders may wait per tenant before
// overflow surfaces ErrBusy.
const defaultQueueDepth = 64

// tenantWriteGate serializes journal appends per tenant. A writer first claims
// a queue slot (non-blocking; overflow fails fast with ErrBusy), then waits on
// the single-holder write semaphore, honouring the caller's deadline. Reads
// never pass through the gate.
type tenantWriteGate struct {
	mu    sync.Mutex
	gates map[string]*gate
	depth int64
}

type gate struct {
	queue *semaphore.Weighted // Bounded waiting room
	write *semaphore.Weighted // Single writer
}

func newTenantWriteGate(queueDepth int64) *tenantWriteGate {
	if queueDepth <= 0 {
		queueDepth = defaultQueueDepth
	}
	return &tenantWriteGate{
		gates: make(map[string]*gate),
		depth: queueDepth,
	}
}

func (g *tenantWriteGate) gateFor(tenantID string) *gate {
	g.mu.Lock()
	defer g.mu.Unlock()
	tg, ok := g.gates[tenantID]
	if !ok {
		tg = &gate{
			queue: semaphore.NewWeighted(g.depth),
			write: semaphore.NewWeighted(1),
		}
		g.gates[tenantID] = tg
	}
	return tg
}

// Acquire claims the tenant's write lock. The returned release function must
// be called exactly once. Queue overflow returns apperrors.ErrBusy; context
// cancellation while waiting returns the context error.
func (g *tenantWriteGate) Acquire(ctx context.Context, tenantID string) (func(), error) {
	tg := g.gateFor(tenantID)
	if !tg.queue.TryAcquire(1) {
		return nil, apperrors.ErrBusy
	}
	if err := tg.write.Acquire(ctx, 1); err != nil {
		tg.queue.Release(1)
		return nil, err
	}
	return func() {
		tg.write.Release(1)
		tg.queue.Release(1)
	}, nil
}
