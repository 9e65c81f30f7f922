package worker

import (
	"context"
	"time"

	"coin_auction/internal/clock"
)

const defaultTickInterval = time.Second

// ScheduleTicker is the engine surface the clock drives. The worker never
// mutates state itself; it only feeds transition requests back into the
// lifecycle state machine.
type ScheduleTicker interface {
	TickSchedules(ctx context.Context, now time.Time)
}

// AuctionClock is the authoritative timer: it compares wall-clock time to
// auction schedules and requests planned→active and active→completed
// transitions. UI countdowns are display-only and re-sync from the engine.
type AuctionClock struct {
	engine   ScheduleTicker
	clock    clock.Clock
	interval time.Duration
}

func NewAuctionClock(engine ScheduleTicker, clk clock.Clock) *AuctionClock {
	return &AuctionClock{
		engine:   engine,
		clock:    clk,
		interval: defaultTickInterval,
	}
}

func (w *AuctionClock) WithInterval(d time.Duration) *AuctionClock {
	if d > 0 {
		w.interval = d
	}

	return w
}

func (w *AuctionClock) Run(ctx context.Context) error {
	logger(ctx).Info("auction clock started", "interval", w.interval.String())

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	// Catch up transitions missed while the process was down.
	w.engine.TickSchedules(ctx, w.clock.Now())

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("auction clock stopped")
			return ctx.Err()
		case <-ticker.C:
			w.engine.TickSchedules(ctx, w.clock.Now())
		}
	}
}
