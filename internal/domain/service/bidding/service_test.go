package bidding_test

import (
	"context"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"coin_auction/internal/clock"
	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
	"coin_auction/pkg/errcodes"
)

type auctionReaderStub struct {
	status entity.AuctionStatus
	step   int64
}

func (r *auctionReaderStub) AuctionInfo(string) (bidding.AuctionInfo, error) {
	return bidding.AuctionInfo{Status: r.status, BidStep: r.step}, nil
}

func newActiveService(t *testing.T, lot entity.Lot) *bidding.Service {
	t.Helper()

	reader := &auctionReaderStub{status: entity.AuctionStatusActive, step: 100}
	svc := bidding.NewService(reader, clock.NewFixed(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	require.NoError(t, svc.RegisterLot(lot))

	return svc
}

func TestSubmitOutbidFlow(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newActiveService(t, entity.Lot{
		ID:         "lot-1",
		AuctionID:  "auction-1",
		StartPrice: 1000,
	})

	result, err := svc.Submit(ctx, "lot-1", "p-1", 1000)
	rq.NoError(err)
	rq.True(result.Accepted)
	rq.Equal(int64(1000), result.CurrentPrice)
	rq.Equal("p-1", result.LeaderID)
	rq.Equal(int64(1100), result.MinNextBid)
	rq.Equal(int64(1), result.Bid.Seq)

	result, err = svc.Submit(ctx, "lot-1", "p-2", 1100)
	rq.NoError(err)
	rq.True(result.Accepted)
	rq.Equal("p-2", result.LeaderID)
	rq.Equal(int64(2), result.Bid.Seq)

	// Stale amount equal to the current price fails the published-snapshot
	// pre-check.
	result, err = svc.Submit(ctx, "lot-1", "p-3", 1100)
	rq.NoError(err)
	rq.False(result.Accepted)
	rq.Equal(bidding.ReasonBelowMinimum, result.Reason)
	rq.Equal(int64(1200), result.MinNextBid)
	rq.Equal("p-2", result.LeaderID)
}

func TestSubmitInvalidAmount(t *testing.T) {
	rq := require.New(t)

	svc := newActiveService(t, entity.Lot{ID: "lot-1", AuctionID: "auction-1", StartPrice: 1000})

	_, err := svc.Submit(context.Background(), "lot-1", "p-1", 0)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidBidAmount, code)

	_, err = svc.Submit(context.Background(), "lot-1", "p-1", -500)
	rq.Error(err)
}

func TestSubmitUnknownLot(t *testing.T) {
	rq := require.New(t)

	svc := newActiveService(t, entity.Lot{ID: "lot-1", AuctionID: "auction-1", StartPrice: 1000})

	_, err := svc.Submit(context.Background(), "lot-missing", "p-1", 1000)
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.LotNotFound, code)
}

// Equal concurrent bids on one lot: exactly one wins, every loser gets a
// conflict carrying the fresh minimum, and the history stays gapless.
func TestSubmitConcurrentEqualBids(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newActiveService(t, entity.Lot{
		ID:         "lot-1",
		AuctionID:  "auction-1",
		StartPrice: 1000,
	})

	const bidders = 64

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		results []bidding.Result
		errs    []error
	)

	for i := 0; i < bidders; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			result, err := svc.Submit(ctx, "lot-1", "p-"+strconv.Itoa(n), 1000)

			mu.Lock()
			defer mu.Unlock()

			results = append(results, result)
			errs = append(errs, err)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		rq.NoError(err)
	}

	var accepted, rejected []bidding.Result

	for _, r := range results {
		if r.Accepted {
			accepted = append(accepted, r)
		} else {
			rejected = append(rejected, r)
		}
	}

	rq.Len(accepted, 1)
	rq.Len(rejected, bidders-1)

	// A loser that raced past the pre-check gets a conflict; one rejected
	// against the already-published snapshot gets below_minimum. Both carry
	// the fresh minimum.
	for _, r := range rejected {
		rq.Contains(
			[]bidding.Reason{bidding.ReasonBelowMinimum, bidding.ReasonConcurrencyConflict},
			r.Reason,
		)
		rq.Equal(int64(1100), r.MinNextBid)
	}

	lot, minNext, err := svc.Snapshot("lot-1")
	rq.NoError(err)
	rq.Equal(1, lot.BidCount)
	rq.Equal(int64(1000), lot.CurrentPrice)
	rq.Equal(int64(1100), minNext)
}

// Price must never decrease and sequence numbers must stay gapless under
// concurrent load with mixed amounts.
func TestSubmitConcurrentMonotonicity(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newActiveService(t, entity.Lot{
		ID:         "lot-1",
		AuctionID:  "auction-1",
		StartPrice: 100,
	})

	const bidders = 100

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for i := 0; i < bidders; i++ {
		wg.Add(1)

		go func(n int) {
			defer wg.Done()

			_, err := svc.Submit(ctx, "lot-1", "p-"+strconv.Itoa(n), int64(100+n*50))

			mu.Lock()
			errs = append(errs, err)
			mu.Unlock()
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		rq.NoError(err)
	}

	var history []entity.Bid

	pageToken := ""
	for {
		page, next, err := svc.History("lot-1", pageToken)
		rq.NoError(err)

		history = append(history, page...)

		if next == "" {
			break
		}
		pageToken = next
	}

	rq.NotEmpty(history)

	// History pages newest first; walk it oldest first.
	for i, j := 0, len(history)-1; i < j; i, j = i+1, j-1 {
		history[i], history[j] = history[j], history[i]
	}

	for i, bid := range history {
		rq.Equal(int64(i)+1, bid.Seq)

		if i > 0 {
			rq.GreaterOrEqual(bid.Amount, history[i-1].Amount)
		}
	}

	lot, _, err := svc.Snapshot("lot-1")
	rq.NoError(err)
	rq.Equal(len(history), lot.BidCount)
	rq.Equal(history[len(history)-1].Amount, lot.CurrentPrice)
	rq.Equal(history[len(history)-1].ParticipantID, lot.LeaderID)
}

func TestHistoryPaging(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	reader := &auctionReaderStub{status: entity.AuctionStatusActive, step: 10}
	svc := bidding.NewService(reader, clock.NewFixed(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC))).
		WithPageSize(3)

	rq.NoError(svc.RegisterLot(entity.Lot{ID: "lot-1", AuctionID: "auction-1", StartPrice: 10}))

	for i := 0; i < 7; i++ {
		result, err := svc.Submit(ctx, "lot-1", "p-1", int64(10+i*10))
		rq.NoError(err)
		rq.True(result.Accepted)
	}

	page, next, err := svc.History("lot-1", "")
	rq.NoError(err)
	rq.Len(page, 3)
	rq.Equal(int64(7), page[0].Seq)
	rq.Equal(int64(5), page[2].Seq)
	rq.Equal("3", next)

	page, next, err = svc.History("lot-1", next)
	rq.NoError(err)
	rq.Len(page, 3)
	rq.Equal(int64(4), page[0].Seq)
	rq.Equal("6", next)

	page, next, err = svc.History("lot-1", next)
	rq.NoError(err)
	rq.Len(page, 1)
	rq.Equal(int64(1), page[0].Seq)
	rq.Empty(next)

	// Offset past the end is an empty page, not an error.
	page, next, err = svc.History("lot-1", "99")
	rq.NoError(err)
	rq.Empty(page)
	rq.Empty(next)

	_, _, err = svc.History("lot-1", "not-a-number")
	rq.Error(err)

	code, ok := domain.GetCode(err)
	rq.True(ok)
	rq.Equal(errcodes.InvalidPaging, code)
}

func TestRestoreLotReplaysHistory(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reader := &auctionReaderStub{status: entity.AuctionStatusActive, step: 100}
	svc := bidding.NewService(reader, clock.NewFixed(now))

	history := []entity.Bid{
		{ID: "b-1", LotID: "lot-1", ParticipantID: "p-1", Amount: 1000, Seq: 1, PlacedAt: now},
		{ID: "b-2", LotID: "lot-1", ParticipantID: "p-2", Amount: 1200, Seq: 2, PlacedAt: now},
	}

	rq.NoError(svc.RestoreLot(entity.Lot{
		ID:           "lot-1",
		AuctionID:    "auction-1",
		StartPrice:   1000,
		CurrentPrice: 1200,
		LeaderID:     "p-2",
		BidCount:     2,
	}, history))

	lot, minNext, err := svc.Snapshot("lot-1")
	rq.NoError(err)
	rq.Equal(int64(1200), lot.CurrentPrice)
	rq.Equal("p-2", lot.LeaderID)
	rq.Equal(int64(1300), minNext)

	// The restored ledger keeps sequencing where the history left off.
	result, err := svc.Submit(context.Background(), "lot-1", "p-3", 1300)
	rq.NoError(err)
	rq.True(result.Accepted)
	rq.Equal(int64(3), result.Bid.Seq)
}

func TestRestoreLotCorruptedHistorySuspends(t *testing.T) {
	rq := require.New(t)

	now := time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)
	reader := &auctionReaderStub{status: entity.AuctionStatusActive, step: 100}

	testCases := []struct {
		name    string
		lot     entity.Lot
		history []entity.Bid
	}{
		{
			name: "Sequence gap",
			lot:  entity.Lot{ID: "lot-1", AuctionID: "a-1", StartPrice: 1000, CurrentPrice: 1400, LeaderID: "p-2", BidCount: 2},
			history: []entity.Bid{
				{ID: "b-1", ParticipantID: "p-1", Amount: 1200, Seq: 1, PlacedAt: now},
				{ID: "b-2", ParticipantID: "p-2", Amount: 1400, Seq: 3, PlacedAt: now},
			},
		},
		{
			name: "Decreasing amounts",
			lot:  entity.Lot{ID: "lot-1", AuctionID: "a-1", StartPrice: 1000, CurrentPrice: 1100, LeaderID: "p-2", BidCount: 2},
			history: []entity.Bid{
				{ID: "b-1", ParticipantID: "p-1", Amount: 1400, Seq: 1, PlacedAt: now},
				{ID: "b-2", ParticipantID: "p-2", Amount: 1100, Seq: 2, PlacedAt: now},
			},
		},
		{
			name: "Price not reproducible from history",
			lot:  entity.Lot{ID: "lot-1", AuctionID: "a-1", StartPrice: 1000, CurrentPrice: 9999, LeaderID: "p-1", BidCount: 1},
			history: []entity.Bid{
				{ID: "b-1", ParticipantID: "p-1", Amount: 1200, Seq: 1, PlacedAt: now},
			},
		},
		{
			name:    "Leader with empty history",
			lot:     entity.Lot{ID: "lot-1", AuctionID: "a-1", StartPrice: 1000, CurrentPrice: 1000, LeaderID: "p-1", BidCount: 0},
			history: nil,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			svc := bidding.NewService(reader, clock.NewFixed(now))

			err := svc.RestoreLot(tc.lot, tc.history)
			rq.Error(err)

			code, ok := domain.GetCode(err)
			rq.True(ok)
			rq.Equal(errcodes.LedgerCorrupted, code)

			// The lot is registered but suspended: reads work, bids fail.
			_, _, err = svc.Snapshot("lot-1")
			rq.NoError(err)

			_, err = svc.Submit(context.Background(), "lot-1", "p-9", 5000)
			rq.Error(err)

			code, ok = domain.GetCode(err)
			rq.True(ok)
			rq.Equal(errcodes.LotSuspended, code)
		})
	}
}

func TestCloseAuctionLots(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	reader := &auctionReaderStub{status: entity.AuctionStatusActive, step: 100}
	svc := bidding.NewService(reader, clock.NewFixed(time.Date(2026, 3, 14, 12, 0, 0, 0, time.UTC)))

	rq.NoError(svc.RegisterLot(entity.Lot{ID: "lot-1", AuctionID: "auction-1", StartPrice: 1000}))
	rq.NoError(svc.RegisterLot(entity.Lot{ID: "lot-2", AuctionID: "auction-1", StartPrice: 500}))

	result, err := svc.Submit(ctx, "lot-1", "p-1", 1000)
	rq.NoError(err)
	rq.True(result.Accepted)

	closed := svc.CloseAuctionLots("auction-1", true)
	rq.Len(closed, 2)

	byID := map[string]entity.ClosedLot{}
	for _, c := range closed {
		byID[c.LotID] = c
	}

	rq.Equal("p-1", byID["lot-1"].WinnerID)
	rq.Equal(int64(1000), byID["lot-1"].FinalPrice)

	// No bids, no winner.
	rq.Empty(byID["lot-2"].WinnerID)
	rq.Equal(int64(500), byID["lot-2"].FinalPrice)

	// Closing twice is idempotent.
	again := svc.CloseAuctionLots("auction-1", true)
	rq.ElementsMatch(closed, again)
}

func TestCloseWithoutAward(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	svc := newActiveService(t, entity.Lot{ID: "lot-1", AuctionID: "auction-1", StartPrice: 1000})

	result, err := svc.Submit(ctx, "lot-1", "p-1", 1500)
	rq.NoError(err)
	rq.True(result.Accepted)

	closed := svc.CloseAuctionLots("auction-1", false)
	rq.Len(closed, 1)
	rq.Empty(closed[0].WinnerID)
	rq.Equal(int64(1500), closed[0].FinalPrice)

	result, err = svc.Submit(ctx, "lot-1", "p-2", 2000)
	rq.NoError(err)
	rq.False(result.Accepted)
	rq.Equal(bidding.ReasonLotClosed, result.Reason)
}
