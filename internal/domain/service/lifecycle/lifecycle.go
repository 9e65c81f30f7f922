package lifecycle

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/xid"

	"coin_auction/internal/clock"
	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
	"coin_auction/pkg/errcodes"
)

// LotCloser closes every lot of an auction through the lots' own
// serialization scopes. Implemented by the bidding service.
type LotCloser interface {
	CloseAuctionLots(auctionID string, award bool) []entity.ClosedLot
}

// auctionState serializes transitions with its mutex while keeping status
// reads lock-free, so the bid path can read status from inside a lot scope
// without lock ordering against a transition in progress.
type auctionState struct {
	mu       sync.Mutex
	auction  entity.Auction
	snapshot atomic.Pointer[entity.Auction]
}

func (st *auctionState) publish() {
	a := st.auction
	st.snapshot.Store(&a)
}

func (st *auctionState) load() entity.Auction {
	return *st.snapshot.Load()
}

// Service owns auction status. No other component mutates it; the clock
// worker and operators go through RequestTransition.
type Service struct {
	mu       sync.RWMutex
	auctions map[string]*auctionState

	lots  LotCloser
	clock clock.Clock
	emit  func(context.Context, entity.AuctionClosed)
}

func NewService(lots LotCloser, clk clock.Clock, emit func(context.Context, entity.AuctionClosed)) *Service {
	if emit == nil {
		emit = func(context.Context, entity.AuctionClosed) {}
	}

	return &Service{
		auctions: make(map[string]*auctionState),
		lots:     lots,
		clock:    clk,
		emit:     emit,
	}
}

// RegisterAuction adds an auction to the state machine. Used by catalog
// loading; new auctions start in draft.
func (s *Service) RegisterAuction(auction entity.Auction) error {
	if auction.Status == "" {
		auction.Status = entity.AuctionStatusDraft
	}

	if _, err := entity.ParseAuctionStatus(auction.Status.String()); err != nil {
		return domain.WrapError(err, errcodes.InvalidStatus, "invalid auction status")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.auctions[auction.ID]; ok {
		return domain.NewError(errcodes.ValidationError, "auction already registered")
	}

	st := &auctionState{auction: auction}
	st.publish()
	s.auctions[auction.ID] = st

	return nil
}

func (s *Service) state(auctionID string) (*auctionState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	st, ok := s.auctions[auctionID]
	if !ok {
		return nil, domain.NewError(errcodes.AuctionNotFound, "auction not found")
	}

	return st, nil
}

// Auction returns the current auction snapshot.
func (s *Service) Auction(auctionID string) (entity.Auction, error) {
	st, err := s.state(auctionID)
	if err != nil {
		return entity.Auction{}, err
	}

	return st.load(), nil
}

// AuctionInfo implements bidding.AuctionReader. Lock-free by design: it is
// called from inside lot serialization scopes.
func (s *Service) AuctionInfo(auctionID string) (bidding.AuctionInfo, error) {
	st, err := s.state(auctionID)
	if err != nil {
		return bidding.AuctionInfo{}, err
	}

	auction := st.load()

	return bidding.AuctionInfo{
		Status:  auction.Status,
		BidStep: auction.BidStep,
	}, nil
}

// RequestTransition validates the edge and its guards and applies the
// transition atomically. An invalid request fails without partial effects.
// Reaching completed or cancelled closes all lots and emits one closure
// event.
func (s *Service) RequestTransition(ctx context.Context, auctionID string, target entity.AuctionStatus) error {
	st, err := s.state(auctionID)
	if err != nil {
		return err
	}

	st.mu.Lock()
	defer st.mu.Unlock()

	current := st.auction.Status

	if !current.CanTransitionTo(target) {
		return domain.NewError(errcodes.InvalidTransition,
			fmt.Sprintf("transition %s → %s is not allowed", current, target))
	}

	switch target {
	case entity.AuctionStatusAwaitingPayment:
		if len(st.auction.LotIDs) == 0 {
			return domain.NewError(errcodes.EmptyCatalog, "auction has no lots")
		}

		if st.auction.Title == "" || st.auction.Currency == "" || st.auction.BidStep <= 0 || !st.auction.Scheduled() {
			return domain.NewError(errcodes.ValidationError, "auction is missing required fields")
		}

	case entity.AuctionStatusPublished:
		// This transition is only requested by the payment collaborator, so
		// the request itself is the confirmation.
		st.auction.PaymentConfirmed = true

	case entity.AuctionStatusActive:
		if len(st.auction.LotIDs) == 0 {
			return domain.NewError(errcodes.EmptyCatalog, "auction has no lots")
		}

		if !st.auction.PaymentConfirmed {
			return domain.NewError(errcodes.PaymentNotConfirmed, "auction payment is not confirmed")
		}
	}

	st.auction.Status = target
	st.auction.UpdatedAt = s.clock.Now()

	// Publish before closing lots: a bid inside its lot scope must already
	// see the terminal status while the lots are being closed.
	st.publish()

	logger(ctx).Info("auction status changed",
		"auction-id", auctionID,
		"from", current.String(),
		"to", target.String(),
	)

	switch target {
	case entity.AuctionStatusCompleted:
		s.emitClosure(ctx, st, s.lots.CloseAuctionLots(auctionID, true))
	case entity.AuctionStatusCancelled:
		s.emitClosure(ctx, st, s.lots.CloseAuctionLots(auctionID, false))
	}

	return nil
}

func (s *Service) emitClosure(ctx context.Context, st *auctionState, closed []entity.ClosedLot) {
	event := entity.AuctionClosed{
		EventID:    xid.New().String(),
		AuctionID:  st.auction.ID,
		Status:     st.auction.Status,
		ClosedLots: closed,
		OccurredAt: s.clock.Now(),
	}

	s.emit(ctx, event)
}

// DueTransition is a schedule-driven transition request the clock worker
// feeds back into RequestTransition.
type DueTransition struct {
	AuctionID string
	Target    entity.AuctionStatus
}

// DueTransitions scans schedules against now: published/planned auctions
// whose start has passed activate, active auctions whose end has passed
// complete. Hard cutoff, no deadline extension. An auction whose whole
// window has already passed activates and completes within one sweep.
func (s *Service) DueTransitions(now time.Time) []DueTransition {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var due []DueTransition

	for _, st := range s.auctions {
		auction := st.load()

		if !auction.Scheduled() {
			continue
		}

		switch auction.Status {
		case entity.AuctionStatusPublished, entity.AuctionStatusPlanned:
			if !auction.StartsAt.After(now) {
				due = append(due, DueTransition{AuctionID: auction.ID, Target: entity.AuctionStatusActive})

				// Догоняющий прогон: окно уже истекло, закрываем в этот же
				// проход, не оставляя аукцион активным до следующего тика.
				if !auction.EndsAt.After(now) {
					due = append(due, DueTransition{AuctionID: auction.ID, Target: entity.AuctionStatusCompleted})
				}
			}
		case entity.AuctionStatusActive:
			if !auction.EndsAt.After(now) {
				due = append(due, DueTransition{AuctionID: auction.ID, Target: entity.AuctionStatusCompleted})
			}
		}
	}

	return due
}

// Auctions lists current snapshots of all registered auctions.
func (s *Service) Auctions() []entity.Auction {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]entity.Auction, 0, len(s.auctions))
	for _, st := range s.auctions {
		out = append(out, st.load())
	}

	return out
}
