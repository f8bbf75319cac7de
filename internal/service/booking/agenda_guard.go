package booking

import (
	"context"
	"sync"

	"github.com/cespare/xxhash/v2"
)

const agendaStripes = 64

// agendaGuard orders cache write-backs against invalidations of the same key.
// Keys hash onto a fixed set of stripes; a collision only costs a skipped
// write-back.
type agendaGuard struct {
	stripes [agendaStripes]agendaStripe
}

type agendaStripe struct {
	mu    sync.Mutex
	epoch uint64
}

func (g *agendaGuard) stripe(key string) *agendaStripe {
	return &g.stripes[xxhash.Sum64String(key)%agendaStripes]
}

// snapshot returns the stripe epoch; take it before reading the repository.
func (g *agendaGuard) snapshot(key string) uint64 {
	st := g.stripe(key)
	st.mu.Lock()
	defer st.mu.Unlock()
	return st.epoch
}

// writeBack runs set only if no invalidation of the stripe happened since
// epoch. It reports whether set ran.
func (g *agendaGuard) writeBack(key string, epoch uint64, set func() error) (bool, error) {
	st := g.stripe(key)
	st.mu.Lock()
	defer st.mu.Unlock()
	if st.epoch != epoch {
		return false, nil
	}
	return true, set()
}

func (g *agendaGuard) invalidate(key string, inv func() error) error {
	st := g.stripe(key)
	st.mu.Lock()
	defer st.mu.Unlock()
	st.epoch++
	return inv()
}

// guardedInvalidator routes the committer's invalidations through the guard.
type guardedInvalidator struct {
	next  CacheInvalidator
	guard *agendaGuard
}

func (g guardedInvalidator) Invalidate(ctx context.Context, key string) error {
	return g.guard.invalidate(key, func() error {
		return g.next.Invalidate(ctx, key)
	})
}
