package entity

import (
	"fmt"
	"time"
)

type AuctionStatus string

const (
	AuctionStatusDraft           AuctionStatus = "draft"
	AuctionStatusAwaitingPayment AuctionStatus = "awaiting_payment"
	AuctionStatusPublished       AuctionStatus = "published"
	AuctionStatusPlanned         AuctionStatus = "planned"
	AuctionStatusActive          AuctionStatus = "active"
	AuctionStatusCompleted       AuctionStatus = "completed"
	AuctionStatusCancelled       AuctionStatus = "cancelled"
	AuctionStatusArchived        AuctionStatus = "archived"
)

func (s AuctionStatus) String() string {
	return string(s)
}

func ParseAuctionStatus(raw string) (AuctionStatus, error) {
	switch status := AuctionStatus(raw); status {
	case AuctionStatusDraft, AuctionStatusAwaitingPayment, AuctionStatusPublished,
		AuctionStatusPlanned, AuctionStatusActive, AuctionStatusCompleted,
		AuctionStatusCancelled, AuctionStatusArchived:
		return status, nil
	default:
		return "", fmt.Errorf("unknown auction status %q", raw)
	}
}

// Terminal reports whether the auction can never accept bids again and its
// entities are immutable.
func (s AuctionStatus) Terminal() bool {
	return s == AuctionStatusCompleted || s == AuctionStatusCancelled || s == AuctionStatusArchived
}

//nolint:gochecknoglobals
var auctionTransitions = map[AuctionStatus][]AuctionStatus{
	AuctionStatusDraft:           {AuctionStatusAwaitingPayment, AuctionStatusCancelled},
	AuctionStatusAwaitingPayment: {AuctionStatusPublished, AuctionStatusCancelled},
	AuctionStatusPublished:       {AuctionStatusPlanned, AuctionStatusActive, AuctionStatusCancelled},
	AuctionStatusPlanned:         {AuctionStatusActive, AuctionStatusCancelled},
	AuctionStatusActive:          {AuctionStatusCompleted, AuctionStatusCancelled},
	AuctionStatusCompleted:       {AuctionStatusArchived},
	AuctionStatusCancelled:       {AuctionStatusArchived},
	AuctionStatusArchived:        nil,
}

// CanTransitionTo checks the edge against the lifecycle graph. Guards
// (non-empty catalog, payment confirmation) are enforced by the lifecycle
// service on top of this.
func (s AuctionStatus) CanTransitionTo(target AuctionStatus) bool {
	for _, next := range auctionTransitions[s] {
		if next == target {
			return true
		}
	}

	return false
}

type Auction struct {
	ID               string
	HouseID          string
	Title            string
	Status           AuctionStatus
	Currency         string
	BidStep          int64
	StartsAt         time.Time
	EndsAt           time.Time
	PaymentConfirmed bool
	LotIDs           []string
	UpdatedAt        time.Time
}

// RemainingAt returns time left until the scheduled end, zero once the end has
// passed or the auction is terminal.
func (a Auction) RemainingAt(now time.Time) time.Duration {
	if a.Status.Terminal() || a.EndsAt.IsZero() {
		return 0
	}

	if remaining := a.EndsAt.Sub(now); remaining > 0 {
		return remaining
	}

	return 0
}

func (a Auction) Scheduled() bool {
	return !a.StartsAt.IsZero() && !a.EndsAt.IsZero() && a.EndsAt.After(a.StartsAt)
}
