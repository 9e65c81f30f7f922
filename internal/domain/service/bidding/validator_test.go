package bidding_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
)

func TestValidate(t *testing.T) {
	rq := require.New(t)

	freshLot := entity.Lot{
		ID:           "lot-1",
		AuctionID:    "auction-1",
		StartPrice:   1000,
		CurrentPrice: 1000,
	}

	contestedLot := entity.Lot{
		ID:           "lot-2",
		AuctionID:    "auction-1",
		StartPrice:   1000,
		CurrentPrice: 1500,
		LeaderID:     "p-leader",
		BidCount:     3,
	}

	testCases := []struct {
		name       string
		status     entity.AuctionStatus
		step       int64
		lot        entity.Lot
		amount     int64
		accepted   bool
		reason     bidding.Reason
		minNextBid int64
	}{
		{
			name:       "First bid at start price is accepted",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        freshLot,
			amount:     1000,
			accepted:   true,
			reason:     bidding.ReasonAccepted,
			minNextBid: 1100,
		},
		{
			name:       "First bid below start price is rejected",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        freshLot,
			amount:     999,
			reason:     bidding.ReasonBelowMinimum,
			minNextBid: 1000,
		},
		{
			name:       "First bid above start price is accepted",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        freshLot,
			amount:     2500,
			accepted:   true,
			reason:     bidding.ReasonAccepted,
			minNextBid: 2600,
		},
		{
			name:       "Outbid at exact minimum is accepted",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        contestedLot,
			amount:     1600,
			accepted:   true,
			reason:     bidding.ReasonAccepted,
			minNextBid: 1700,
		},
		{
			name:       "Bid equal to current price is rejected",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        contestedLot,
			amount:     1500,
			reason:     bidding.ReasonBelowMinimum,
			minNextBid: 1600,
		},
		{
			name:       "Bid one unit short of minimum is rejected",
			status:     entity.AuctionStatusActive,
			step:       100,
			lot:        contestedLot,
			amount:     1599,
			reason:     bidding.ReasonBelowMinimum,
			minNextBid: 1600,
		},
		{
			name:   "Per-lot step overrides the auction default",
			status: entity.AuctionStatusActive,
			step:   100,
			lot: entity.Lot{
				ID:           "lot-3",
				StartPrice:   1000,
				CurrentPrice: 2000,
				LeaderID:     "p-1",
				BidCount:     1,
				Step:         500,
			},
			amount:     2500,
			accepted:   true,
			reason:     bidding.ReasonAccepted,
			minNextBid: 3000,
		},
		{
			name:       "Planned auction does not accept bids",
			status:     entity.AuctionStatusPlanned,
			step:       100,
			lot:        freshLot,
			amount:     5000,
			reason:     bidding.ReasonAuctionNotActive,
			minNextBid: 1000,
		},
		{
			name:       "Completed auction does not accept bids",
			status:     entity.AuctionStatusCompleted,
			step:       100,
			lot:        contestedLot,
			amount:     5000,
			reason:     bidding.ReasonAuctionNotActive,
			minNextBid: 1600,
		},
		{
			name:   "Closed lot does not accept bids",
			status: entity.AuctionStatusActive,
			step:   100,
			lot: entity.Lot{
				ID:           "lot-4",
				StartPrice:   1000,
				CurrentPrice: 1800,
				LeaderID:     "p-1",
				BidCount:     2,
				Closed:       true,
			},
			amount:     5000,
			reason:     bidding.ReasonLotClosed,
			minNextBid: 1900,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(*testing.T) {
			decision := bidding.Validate(tc.status, tc.step, tc.lot, tc.amount)

			rq.Equal(tc.accepted, decision.Accepted)
			rq.Equal(tc.reason, decision.Reason)
			rq.Equal(tc.minNextBid, decision.MinNextBid)
		})
	}
}
