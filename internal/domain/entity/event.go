package entity

import "time"

// ClosedLot is the per-lot outcome reported when an auction leaves active.
// WinnerID is empty when the lot had no accepted bids or the auction was
// cancelled.
type ClosedLot struct {
	LotID      string `json:"lotId"`
	WinnerID   string `json:"winnerParticipantId,omitempty"`
	FinalPrice int64  `json:"finalPrice"`
}

// AuctionClosed is emitted once per active→completed or cancellation,
// consumed by delivery, payment and notification collaborators.
type AuctionClosed struct {
	EventID    string        `json:"eventId"`
	AuctionID  string        `json:"auctionId"`
	Status     AuctionStatus `json:"status"`
	ClosedLots []ClosedLot   `json:"closedLots"`
	OccurredAt time.Time     `json:"occurredAt"`
}

// BidPlaced is published after a bid commits, for live price broadcasting.
type BidPlaced struct {
	EventID       string    `json:"eventId"`
	AuctionID     string    `json:"auctionId"`
	LotID         string    `json:"lotId"`
	ParticipantID string    `json:"participantId"`
	Amount        int64     `json:"amount"`
	Seq           int64     `json:"seq"`
	PlacedAt      time.Time `json:"placedAt"`
}
