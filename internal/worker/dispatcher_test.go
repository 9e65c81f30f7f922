package worker_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/worker"
)

type broadcasterRecorder struct {
	mu       sync.Mutex
	bids     []entity.BidPlaced
	closures []entity.AuctionClosed
	failBids bool
}

func (b *broadcasterRecorder) PublishBidPlaced(_ context.Context, event entity.BidPlaced) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.failBids {
		return errors.New("redis down")
	}

	b.bids = append(b.bids, event)

	return nil
}

func (b *broadcasterRecorder) PublishAuctionClosed(_ context.Context, event entity.AuctionClosed) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.closures = append(b.closures, event)

	return nil
}

func (b *broadcasterRecorder) counts() (int, int) {
	b.mu.Lock()
	defer b.mu.Unlock()

	return len(b.bids), len(b.closures)
}

type enqueuerRecorder struct {
	mu     sync.Mutex
	events []entity.AuctionClosed
}

func (e *enqueuerRecorder) EnqueueAuctionClosed(_ context.Context, event entity.AuctionClosed) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.events = append(e.events, event)

	return nil
}

func (e *enqueuerRecorder) count() int {
	e.mu.Lock()
	defer e.mu.Unlock()

	return len(e.events)
}

func TestDispatcherFansOut(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bids := make(chan entity.BidPlaced, 4)
	closures := make(chan entity.AuctionClosed, 4)
	alerts := make(chan entity.AuctionClosed, 4)

	broadcaster := &broadcasterRecorder{}
	enqueuer := &enqueuerRecorder{}

	d := worker.NewDispatcher(bids, closures, broadcaster, enqueuer).
		WithOperatorAlerts(alerts)

	errCh := make(chan error, 1)

	go func() {
		errCh <- d.Run(ctx)
	}()

	bids <- entity.BidPlaced{EventID: "e-1", LotID: "lot-1", Amount: 1000, Seq: 1}
	closures <- entity.AuctionClosed{EventID: "e-2", AuctionID: "auction-1", Status: entity.AuctionStatusCompleted}

	rq.Eventually(func() bool {
		publishedBids, publishedClosures := broadcaster.counts()

		return publishedBids == 1 && publishedClosures == 1 && enqueuer.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	rq.Equal("lot-1", broadcaster.bids[0].LotID)
	rq.Equal("e-2", enqueuer.events[0].EventID)

	select {
	case alert := <-alerts:
		rq.Equal("auction-1", alert.AuctionID)
	case <-time.After(time.Second):
		t.Fatal("operator alert not mirrored")
	}

	cancel()
	rq.ErrorIs(<-errCh, context.Canceled)
}

// A failed broadcast is logged, not returned: the accepted bid already
// happened and delivery is best-effort.
func TestDispatcherSurvivesBroadcastFailure(t *testing.T) {
	rq := require.New(t)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bids := make(chan entity.BidPlaced, 2)
	closures := make(chan entity.AuctionClosed, 2)

	broadcaster := &broadcasterRecorder{failBids: true}
	enqueuer := &enqueuerRecorder{}

	d := worker.NewDispatcher(bids, closures, broadcaster, enqueuer)

	errCh := make(chan error, 1)

	go func() {
		errCh <- d.Run(ctx)
	}()

	bids <- entity.BidPlaced{EventID: "e-1", LotID: "lot-1"}
	closures <- entity.AuctionClosed{EventID: "e-2", AuctionID: "auction-1"}

	rq.Eventually(func() bool {
		return enqueuer.count() == 1
	}, 2*time.Second, 10*time.Millisecond)

	publishedBids, _ := broadcaster.counts()
	rq.Zero(publishedBids)

	cancel()
	rq.ErrorIs(<-errCh, context.Canceled)
}
