// Package query provides fetch-layer decorators for series repositories:
// in-flight request de-duplication and bounded retry.
package query

import (
	"context"

	"golang.org/x/sync/singleflight"

	"github.com/vasil9050/stockapp/internal/feature/quotes/domain/entity"
	"github.com/vasil9050/stockapp/internal/feature/quotes/usecase"
)

// Deduplicator collapses concurrent Find calls with the same symbol and descriptor
// into a single call on the wrapped repository.
type Deduplicator struct {
	inner usecase.SeriesRepository
	group singleflight.Group
}

var _ usecase.SeriesRepository = (*Deduplicator)(nil)

// NewDeduplicator wraps inner with singleflight de-duplication.
func NewDeduplicator(inner usecase.SeriesRepository) *Deduplicator {
	return &Deduplicator{inner: inner}
}

// Find shares one in-flight call per key. Callers receive the same bar slice and must not mutate it.
//
// The shared call is detached from caller cancellation: a caller whose context
// ends stops waiting, but the upstream request runs to completion (bounded by the
// HTTP client timeout) for the remaining waiters.
func (d *Deduplicator) Find(ctx context.Context, symbol string, desc entity.Descriptor) ([]entity.Bar, error) {
	shared := context.WithoutCancel(ctx)
	ch := d.group.DoChan(Key(symbol, desc), func() (any, error) {
		return d.inner.Find(shared, symbol, desc)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.([]entity.Bar), nil
	}
}

// Key identifies a fetch by symbol and descriptor.
func Key(symbol string, d entity.Descriptor) string {
	return symbol + "|" + d.Key()
}
