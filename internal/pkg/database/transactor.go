package database

import (
	"context"
	"time"
)

// Transactor runs a unit of work. Every repository call made with the ctx passed
// to fn joins the same transaction; the writes commit together when fn returns
// nil and are discarded otherwise. Calling WithinTx with a ctx that already
// carries a transaction joins it instead of starting a new one.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error

	// Lock serializes concurrent units of work on the given natural keys until
	// the surrounding transaction ends. It must be called inside WithinTx.
	Lock(ctx context.Context, keys ...string) error
}

// DefaultQueryTimeout bounds a single repository round trip.
const DefaultQueryTimeout = 5 * time.Second

// WithTimeout applies the repository timeout to ctx unless ctx already has an
// earlier deadline.
func WithTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		d = DefaultQueryTimeout
	}
	if deadline, ok := ctx.Deadline(); ok && time.Until(deadline) < d {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
