package worker

import (
	"context"
	"time"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/engine"
)

const (
	journalAttempts     = 3
	journalRetryBackoff = 250 * time.Millisecond
)

type BidStore interface {
	Insert(ctx context.Context, bid entity.Bid) error
}

type LotStore interface {
	Upsert(ctx context.Context, lot entity.Lot) error
}

type AuctionStore interface {
	Upsert(ctx context.Context, auction entity.Auction) error
}

type EligibilityStore interface {
	Upsert(ctx context.Context, record entity.Eligibility) error
}

// Journal drains the engine's write-behind channel into storage. Bid
// acceptance never waits on it; persistence is at-least-once and the bid
// store ignores replays by (lot_id, seq).
type Journal struct {
	entries <-chan engine.JournalEntry

	bids        BidStore
	lots        LotStore
	auctions    AuctionStore
	eligibility EligibilityStore
}

func NewJournal(
	entries <-chan engine.JournalEntry,
	bids BidStore,
	lots LotStore,
	auctions AuctionStore,
	eligibility EligibilityStore,
) *Journal {
	return &Journal{
		entries:     entries,
		bids:        bids,
		lots:        lots,
		auctions:    auctions,
		eligibility: eligibility,
	}
}

func (j *Journal) Run(ctx context.Context) error {
	logger(ctx).Info("journal started")

	for {
		select {
		case <-ctx.Done():
			j.drain()
			logger(ctx).Info("journal stopped")

			return ctx.Err()
		case entry, ok := <-j.entries:
			if !ok {
				return nil
			}

			j.persist(ctx, entry)
		}
	}
}

// drain flushes whatever is still buffered during shutdown, with a detached
// context so in-flight writes are not cancelled mid-statement.
func (j *Journal) drain() {
	ctx := context.WithoutCancel(context.Background())

	for {
		select {
		case entry, ok := <-j.entries:
			if !ok {
				return
			}

			j.persist(ctx, entry)
		default:
			return
		}
	}
}

func (j *Journal) persist(ctx context.Context, entry engine.JournalEntry) {
	j.withRetry(ctx, func() error {
		switch {
		case entry.Bid != nil:
			if err := j.bids.Insert(ctx, *entry.Bid); err != nil {
				return err
			}

			if entry.Lot != nil {
				return j.lots.Upsert(ctx, *entry.Lot)
			}

			return nil
		case entry.Lot != nil:
			return j.lots.Upsert(ctx, *entry.Lot)
		case entry.Auction != nil:
			return j.auctions.Upsert(ctx, *entry.Auction)
		case entry.Eligibility != nil:
			return j.eligibility.Upsert(ctx, *entry.Eligibility)
		default:
			return nil
		}
	})
}

func (j *Journal) withRetry(ctx context.Context, fn func() error) {
	var err error

	for attempt := 1; attempt <= journalAttempts; attempt++ {
		if err = fn(); err == nil {
			return
		}

		if attempt < journalAttempts {
			select {
			case <-ctx.Done():
				return
			case <-time.After(journalRetryBackoff * time.Duration(attempt)):
			}
		}
	}

	logger(ctx).Error("journal entry dropped after retries", "error", err)
}
