package eligibility

import (
	"context"
	"sync"

	"coin_auction/internal/clock"
	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

type key struct {
	auctionID     string
	participantID string
}

// Service is the per-auction participation gate. IsApproved is the
// synchronous, side-effect-free read the engine does before any bid is
// sequenced.
type Service struct {
	mu      sync.RWMutex
	records map[key]entity.Eligibility

	clock clock.Clock
}

func NewService(clk clock.Clock) *Service {
	return &Service{
		records: make(map[key]entity.Eligibility),
		clock:   clk,
	}
}

// Restore loads a persisted record as-is.
func (s *Service) Restore(record entity.Eligibility) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.records[key{record.AuctionID, record.ParticipantID}] = record
}

// RequestApproval creates a pending record. Re-requesting while a decision
// already exists does not reset it.
func (s *Service) RequestApproval(ctx context.Context, auctionID, participantID string) (entity.Eligibility, error) {
	if auctionID == "" || participantID == "" {
		return entity.Eligibility{}, domain.NewError(errcodes.ValidationError, "auction and participant are required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{auctionID, participantID}

	if existing, ok := s.records[k]; ok {
		return existing, nil
	}

	record := entity.Eligibility{
		AuctionID:     auctionID,
		ParticipantID: participantID,
		Status:        entity.EligibilityStatusPending,
		RequestedAt:   s.clock.Now(),
	}
	s.records[k] = record

	logger(ctx).Info("participation requested",
		"auction-id", auctionID,
	)

	return record, nil
}

// Decide is the operator action setting approved or rejected. The record
// must exist.
func (s *Service) Decide(ctx context.Context, auctionID, participantID string, approved bool) (entity.Eligibility, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	k := key{auctionID, participantID}

	record, ok := s.records[k]
	if !ok {
		return entity.Eligibility{}, domain.NewError(errcodes.ParticipantNotFound, "no participation request for this auction")
	}

	if approved {
		record.Status = entity.EligibilityStatusApproved
	} else {
		record.Status = entity.EligibilityStatusRejected
	}

	record.DecidedAt = s.clock.Now()
	s.records[k] = record

	logger(ctx).Info("participation decided",
		"auction-id", auctionID,
		"status", record.Status.String(),
	)

	return record, nil
}

// IsApproved reports whether the participant may bid in the auction.
func (s *Service) IsApproved(auctionID, participantID string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()

	record, ok := s.records[key{auctionID, participantID}]

	return ok && record.Status == entity.EligibilityStatusApproved
}

// Records lists all eligibility records, for journaling and tests.
func (s *Service) Records() []entity.Eligibility {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Eligibility, 0, len(s.records))
	for _, record := range s.records {
		out = append(out, record)
	}

	return out
}
