package server

import (
	"time"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
	"coin_auction/pkg/lox"
	"coin_auction/pkg/rest"
)

func newRESTBidResult(result bidding.Result) rest.BidResult {
	out := rest.BidResult{
		Accepted:     result.Accepted,
		CurrentPrice: result.CurrentPrice,
		LeaderID:     result.LeaderID,
		MinNextBid:   result.MinNextBid,
	}

	if !result.Accepted {
		out.Reason = string(result.Reason)
	}

	return out
}

func newRESTLotSnapshot(lot entity.Lot, minNext int64) rest.LotSnapshot {
	return rest.LotSnapshot{
		LotID:        lot.ID,
		AuctionID:    lot.AuctionID,
		StartPrice:   lot.StartPrice,
		CurrentPrice: lot.CurrentPrice,
		Step:         lot.Step,
		LeaderID:     lot.LeaderID,
		BidCount:     lot.BidCount,
		Closed:       lot.Closed,
		MinNextBid:   minNext,
	}
}

func newRESTBid(bid entity.Bid) rest.Bid {
	return rest.Bid{
		ID:            bid.ID,
		LotID:         bid.LotID,
		ParticipantID: bid.ParticipantID,
		Amount:        bid.Amount,
		Seq:           bid.Seq,
		PlacedAt:      bid.PlacedAt,
	}
}

func newRESTBidHistoryPage(bids []entity.Bid, nextToken string) rest.BidHistoryPage {
	return rest.BidHistoryPage{
		Bids:          lox.Map(bids, newRESTBid),
		NextPageToken: nextToken,
	}
}

func newRESTAuctionSnapshot(auction entity.Auction, remaining time.Duration) rest.AuctionSnapshot {
	out := rest.AuctionSnapshot{
		AuctionID:    auction.ID,
		Status:       auction.Status.String(),
		Currency:     auction.Currency,
		BidStep:      auction.BidStep,
		RemainingSec: int64(remaining / time.Second),
		LotIDs:       auction.LotIDs,
	}

	if !auction.StartsAt.IsZero() {
		startsAt := auction.StartsAt
		out.StartsAt = &startsAt
	}

	if !auction.EndsAt.IsZero() {
		endsAt := auction.EndsAt
		out.EndsAt = &endsAt
	}

	return out
}

func newRESTEligibility(record entity.Eligibility) rest.EligibilityRecord {
	return rest.EligibilityRecord{
		AuctionID:     record.AuctionID,
		ParticipantID: record.ParticipantID,
		Status:        record.Status.String(),
	}
}
