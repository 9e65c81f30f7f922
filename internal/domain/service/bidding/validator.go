package bidding

import "coin_auction/internal/domain/entity"

// Reason classifies a bid decision. Rejection reasons are part of the client
// contract and are rendered by the screens as-is.
type Reason string

const (
	ReasonAccepted            Reason = "accepted"
	ReasonBelowMinimum        Reason = "below_minimum"
	ReasonAuctionNotActive    Reason = "auction_not_active"
	ReasonLotClosed           Reason = "lot_closed"
	ReasonNotEligible         Reason = "not_eligible"
	ReasonConcurrencyConflict Reason = "concurrency_conflict"
)

// Decision is the outcome of validating a candidate bid against a lot state.
type Decision struct {
	Accepted   bool
	Reason     Reason
	MinNextBid int64
}

// Validate is the single acceptance rule for the whole system. It is pure:
// the caller supplies the auction status and step it read inside the lot's
// serialization scope.
//
// A bid is accepted iff the auction is active, the lot is open and the amount
// reaches the exact minimum: the start price for the first bid, current price
// plus step afterwards. The minimum is never rounded or adjusted.
func Validate(auctionStatus entity.AuctionStatus, auctionStep int64, lot entity.Lot, amount int64) Decision {
	minNext := lot.MinNextBid(auctionStep)

	if auctionStatus != entity.AuctionStatusActive {
		return Decision{Reason: ReasonAuctionNotActive, MinNextBid: minNext}
	}

	if lot.Closed {
		return Decision{Reason: ReasonLotClosed, MinNextBid: minNext}
	}

	if amount < minNext {
		return Decision{Reason: ReasonBelowMinimum, MinNextBid: minNext}
	}

	return Decision{Accepted: true, Reason: ReasonAccepted, MinNextBid: amount + lot.EffectiveStep(auctionStep)}
}
