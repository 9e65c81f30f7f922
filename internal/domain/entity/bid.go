package entity

import "time"

// Bid is an accepted offer. Seq is lot-scoped, strictly increasing and
// gapless; it records the authoritative application order, not client send
// time.
type Bid struct {
	ID            string
	LotID         string
	ParticipantID string
	Amount        int64
	Seq           int64
	PlacedAt      time.Time
}
