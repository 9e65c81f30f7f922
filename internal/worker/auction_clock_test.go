package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coin_auction/internal/clock"
	"coin_auction/internal/worker"
)

type tickerStub struct {
	ticks atomic.Int64
	done  chan struct{}
}

func (s *tickerStub) TickSchedules(context.Context, time.Time) {
	if s.ticks.Add(1) == 3 {
		close(s.done)
	}
}

func TestAuctionClockRun(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	stub := &tickerStub{done: make(chan struct{})}
	clk := clock.NewFixed(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))

	w := worker.NewAuctionClock(stub, clk).WithInterval(5 * time.Millisecond)

	errCh := make(chan error, 1)

	go func() {
		errCh <- w.Run(ctx)
	}()

	select {
	case <-stub.done:
	case <-time.After(2 * time.Second):
		t.Fatal("auction clock never reached three ticks")
	}

	cancel()

	rq.ErrorIs(<-errCh, context.Canceled)

	// First tick fires immediately to catch up missed transitions.
	rq.GreaterOrEqual(stub.ticks.Load(), int64(3))
}
