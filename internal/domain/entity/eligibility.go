package entity

import (
	"fmt"
	"time"
)

type EligibilityStatus string

const (
	EligibilityStatusPending  EligibilityStatus = "pending"
	EligibilityStatusApproved EligibilityStatus = "approved"
	EligibilityStatusRejected EligibilityStatus = "rejected"
)

func (s EligibilityStatus) String() string {
	return string(s)
}

func ParseEligibilityStatus(raw string) (EligibilityStatus, error) {
	switch status := EligibilityStatus(raw); status {
	case EligibilityStatusPending, EligibilityStatusApproved, EligibilityStatusRejected:
		return status, nil
	default:
		return "", fmt.Errorf("unknown eligibility status %q", raw)
	}
}

// Eligibility is a per-auction participation approval record.
type Eligibility struct {
	AuctionID     string
	ParticipantID string
	Status        EligibilityStatus
	RequestedAt   time.Time
	DecidedAt     time.Time
}
