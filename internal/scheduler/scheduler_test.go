package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type countingSweeper struct {
	calls atomic.Int64
	err   error
}

func (c *countingSweeper) RunStatusSweep(context.Context) (int, error) {
	c.calls.Add(1)
	if c.err != nil {
		return 0, c.err
	}
	return 1, nil
}

func TestScheduler_Ticks(t *testing.T) {
	sweeper := &countingSweeper{}
	s := New(sweeper, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 90*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	assert.GreaterOrEqual(t, sweeper.calls.Load(), int64(3))
}

func TestScheduler_KeepsRunningAfterError(t *testing.T) {
	sweeper := &countingSweeper{err: errors.New("db down")}
	s := New(sweeper, 20*time.Millisecond)

	ctx, cancel := context.WithTimeout(context.Background(), 70*time.Millisecond)
	defer cancel()
	s.Start(ctx)

	assert.GreaterOrEqual(t, sweeper.calls.Load(), int64(2))
}

func TestScheduler_StopsOnContextCancel(t *testing.T) {
	s := New(&countingSweeper{}, time.Second) // interval longer than test

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		s.Start(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scheduler did not stop on context cancel")
	}
}
