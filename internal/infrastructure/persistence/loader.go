package persistence

import (
	"context"
	"fmt"

	"coin_auction/internal/domain/entity"
)

// EngineLoader is the slice of the engine the loader feeds during startup.
type EngineLoader interface {
	RegisterAuction(auction entity.Auction) error
	RestoreLot(lot entity.Lot, history []entity.Bid) error
	RestoreEligibility(record entity.Eligibility)
}

// Loader rebuilds engine state from storage: auctions, lots with their bid
// history (replayed in sequence order), and eligibility records. A lot whose
// history fails verification is loaded suspended; loading continues so one
// corrupted lot does not take the whole engine down.
type Loader struct {
	auctions    *AuctionRepository
	lots        *LotRepository
	bids        *BidRepository
	eligibility *EligibilityRepository
}

func NewLoader(
	auctions *AuctionRepository,
	lots *LotRepository,
	bids *BidRepository,
	eligibility *EligibilityRepository,
) *Loader {
	return &Loader{
		auctions:    auctions,
		lots:        lots,
		bids:        bids,
		eligibility: eligibility,
	}
}

func (l *Loader) Load(ctx context.Context, engine EngineLoader) error {
	auctions, err := l.auctions.ListNonArchived(ctx)
	if err != nil {
		return fmt.Errorf("auctions.ListNonArchived: %w", err)
	}

	for _, auction := range auctions {
		if err := engine.RegisterAuction(auction); err != nil {
			return fmt.Errorf("engine.RegisterAuction(%s): %w", auction.ID, err)
		}

		lots, err := l.lots.ListByAuction(ctx, auction.ID)
		if err != nil {
			return fmt.Errorf("lots.ListByAuction(%s): %w", auction.ID, err)
		}

		for _, lot := range lots {
			history, err := l.bids.ListByLot(ctx, lot.ID)
			if err != nil {
				return fmt.Errorf("bids.ListByLot(%s): %w", lot.ID, err)
			}

			if err := engine.RestoreLot(lot, history); err != nil {
				logger(ctx).Error("lot loaded suspended",
					"lot-id", lot.ID,
					"auction-id", auction.ID,
					"error", err,
				)
			}
		}

		records, err := l.eligibility.ListByAuction(ctx, auction.ID)
		if err != nil {
			return fmt.Errorf("eligibility.ListByAuction(%s): %w", auction.ID, err)
		}

		for _, record := range records {
			engine.RestoreEligibility(record)
		}
	}

	logger(ctx).Info("engine state loaded", "auctions", len(auctions))

	return nil
}
