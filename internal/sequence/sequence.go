// Package sequence issues the human-readable, date-scoped identifiers
// used for orders and reservations ("ORD-20240115-0007",
// "RES-20240115-003").  Numbers are drawn from an atomic per-day
// counter in storage, so within one kind and scope date no two
// successfully committed records can share a number.  Numbers are
// unique and increasing but not necessarily contiguous: a number
// issued for an insert that later fails is simply wasted.
package sequence

import (
	"context"
	"fmt"
	"time"
)

// Kind describes one identifier family: its textual prefix and the
// minimum zero-padded width of the numeric part.
type Kind struct {
	Prefix string
	Width  int
}

var (
	// KindOrder numbers orders, scoped to the creation date.
	KindOrder = Kind{Prefix: "ORD", Width: 4}
	// KindReservation numbers reservations, scoped to the
	// reservation's target date rather than the creation date.
	KindReservation = Kind{Prefix: "RES", Width: 3}
)

// CounterStore is the storage primitive behind the generator: an
// atomic increment-and-read keyed by (kind, scope date), returning 1
// on the first call of a fresh pair.
type CounterStore interface {
	NextValue(ctx context.Context, kind string, scopeDate time.Time) (int64, error)
}

// Generator produces sequential identifiers from a CounterStore.
type Generator struct {
	counters CounterStore
}

// NewGenerator returns a Generator backed by the given store.
func NewGenerator(counters CounterStore) *Generator {
	if counters == nil {
		panic("nil counter store passed to NewGenerator")
	}
	return &Generator{counters: counters}
}

// Next issues the next identifier for the kind and scope date.
func (g *Generator) Next(ctx context.Context, kind Kind, scopeDate time.Time) (string, error) {
	n, err := g.counters.NextValue(ctx, kind.Prefix, scopeDate)
	if err != nil {
		return "", fmt.Errorf("next %s counter: %w", kind.Prefix, err)
	}
	return Format(kind, scopeDate, n), nil
}

// Format renders an identifier as {PREFIX}-{YYYYMMDD}-{N} with the
// kind's zero padding.  Values wider than the pad simply widen.
func Format(kind Kind, scopeDate time.Time, n int64) string {
	return fmt.Sprintf("%s-%s-%0*d", kind.Prefix, scopeDate.UTC().Format("20060102"), kind.Width, n)
}
