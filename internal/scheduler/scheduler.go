// Package scheduler runs the periodic reservation status sweep.
package scheduler

import (
	"context"
	"log"
	"time"
)

// Sweeper is the slice of the reservation service the scheduler
// drives.
type Sweeper interface {
	RunStatusSweep(ctx context.Context) (int, error)
}

// Scheduler invokes the status sweep on a fixed interval until its
// context is cancelled.  It runs on a single timer independent of
// request handling; the sweep itself is idempotent, so overlapping
// with on-demand recomputation is harmless.
type Scheduler struct {
	sweeper  Sweeper
	interval time.Duration
}

// New returns a Scheduler sweeping at the given interval.
func New(sweeper Sweeper, interval time.Duration) *Scheduler {
	if sweeper == nil {
		panic("nil sweeper passed to scheduler.New")
	}
	if interval <= 0 {
		interval = time.Minute
	}
	return &Scheduler{sweeper: sweeper, interval: interval}
}

// Start blocks, ticking until ctx is cancelled.  Sweep failures are
// logged and the loop keeps going; a transient storage outage should
// not kill the timer.
func (s *Scheduler) Start(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()

	log.Printf("status sweep scheduler started (interval=%s)", s.interval)
	for {
		select {
		case <-ctx.Done():
			log.Printf("status sweep scheduler stopped")
			return
		case <-ticker.C:
			changed, err := s.sweeper.RunStatusSweep(ctx)
			if err != nil {
				log.Printf("status sweep failed: %v", err)
				continue
			}
			if changed > 0 {
				log.Printf("status sweep updated %d reservations", changed)
			}
		}
	}
}
