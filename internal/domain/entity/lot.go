package entity

import "time"

// Lot is a single item accepting bids independently of the other lots of its
// auction. CurrentPrice and LeaderID are owned by the lot ledger and change
// only when a bid is accepted.
type Lot struct {
	ID           string
	AuctionID    string
	Title        string
	StartPrice   int64
	CurrentPrice int64
	Step         int64 // 0 means the auction default applies
	LeaderID     string
	BidCount     int
	Closed       bool
	WinnerID     string
	FinalPrice   int64
	UpdatedAt    time.Time
}

// EffectiveStep resolves the per-lot step override against the auction
// default.
func (l Lot) EffectiveStep(auctionStep int64) int64 {
	if l.Step > 0 {
		return l.Step
	}

	return auctionStep
}

// MinNextBid is the exact minimum the next bid must reach: the start price
// while the lot has no bids, current price plus step afterwards.
func (l Lot) MinNextBid(auctionStep int64) int64 {
	if l.BidCount == 0 {
		return l.StartPrice
	}

	return l.CurrentPrice + l.EffectiveStep(auctionStep)
}
