package bidding

import (
	"context"
	"strconv"
	"sync"

	"github.com/rs/xid"

	"coin_auction/internal/clock"
	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/pkg/errcodes"
)

const defaultPageSize = 50

// AuctionInfo is the slice of auction state the sequencer re-reads inside a
// lot's serialization scope.
type AuctionInfo struct {
	Status  entity.AuctionStatus
	BidStep int64
}

// AuctionReader must be safe to call while a lot scope is held, so
// implementations may not take locks shared with the submission path.
type AuctionReader interface {
	AuctionInfo(auctionID string) (AuctionInfo, error)
}

// Result is the structured outcome of a submission. Rejections are values,
// not errors: the caller renders the reason and the exact minimum.
type Result struct {
	Accepted     bool
	Reason       Reason
	CurrentPrice int64
	LeaderID     string
	MinNextBid   int64
	Bid          *entity.Bid
}

// Service is the bid sequencer and lot ledger registry. Each lot is an
// independent serialization domain; submissions for different lots proceed in
// parallel.
type Service struct {
	mu        sync.RWMutex
	lots      map[string]*lotLedger
	byAuction map[string][]string

	auctions AuctionReader
	clock    clock.Clock
	pageSize int
}

func NewService(auctions AuctionReader, clk clock.Clock) *Service {
	return &Service{
		lots:      make(map[string]*lotLedger),
		byAuction: make(map[string][]string),
		auctions:  auctions,
		clock:     clk,
		pageSize:  defaultPageSize,
	}
}

func (s *Service) WithPageSize(n int) *Service {
	if n > 0 {
		s.pageSize = n
	}

	return s
}

// RegisterLot adds a fresh lot to the registry. Used by catalog loading for
// lots without history.
func (s *Service) RegisterLot(lot entity.Lot) error {
	return s.addLedger(newLotLedger(lot))
}

// RestoreLot rebuilds a lot ledger from persisted state and its accepted
// bids. A history that fails verification suspends the lot instead of
// repairing it: bidding stays blocked until an operator intervenes.
func (s *Service) RestoreLot(lot entity.Lot, history []entity.Bid) error {
	ledger := newLotLedger(lot)
	ledger.history = history

	if err := ledger.verify(); err != nil {
		ledger.suspended = true

		if addErr := s.addLedger(ledger); addErr != nil {
			return addErr
		}

		return domain.WrapError(err, errcodes.LedgerCorrupted, "lot history failed verification")
	}

	return s.addLedger(ledger)
}

func (s *Service) addLedger(ledger *lotLedger) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	lot := ledger.loadSnapshot()

	if _, ok := s.lots[lot.ID]; ok {
		return domain.NewError(errcodes.ValidationError, "lot already registered")
	}

	s.lots[lot.ID] = ledger
	s.byAuction[lot.AuctionID] = append(s.byAuction[lot.AuctionID], lot.ID)

	return nil
}

func (s *Service) ledger(lotID string) (*lotLedger, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ledger, ok := s.lots[lotID]
	if !ok {
		return nil, domain.NewError(errcodes.LotNotFound, "lot not found")
	}

	return ledger, nil
}

// Submit runs one bid through the pre-check, the lot's serialization scope
// and the validator, applying it atomically on acceptance. A bid that passes
// the lock-free pre-check but fails the minimum inside the scope lost a race
// and is rejected as a concurrency conflict carrying the fresh minimum.
func (s *Service) Submit(ctx context.Context, lotID, participantID string, amount int64) (Result, error) {
	if amount <= 0 {
		return Result{}, domain.NewError(errcodes.InvalidBidAmount, "bid amount must be positive")
	}

	ledger, err := s.ledger(lotID)
	if err != nil {
		return Result{}, err
	}

	// Cheap rejection against the published snapshot, without touching the
	// lot scope. Zero side effects.
	snap := ledger.loadSnapshot()

	info, err := s.auctions.AuctionInfo(snap.AuctionID)
	if err != nil {
		return Result{}, err
	}

	if decision := Validate(info.Status, info.BidStep, snap, amount); !decision.Accepted {
		return rejection(snap, decision.Reason, decision.MinNextBid), nil
	}

	ledger.mu.Lock()
	defer ledger.mu.Unlock()

	if ledger.suspended {
		return Result{}, domain.NewError(errcodes.LotSuspended, "lot bidding is suspended")
	}

	// Authoritative re-read inside the scope: auction status and lot state
	// may both have moved since the pre-check.
	info, err = s.auctions.AuctionInfo(ledger.lot.AuctionID)
	if err != nil {
		return Result{}, err
	}

	decision := Validate(info.Status, info.BidStep, ledger.lot, amount)
	if !decision.Accepted {
		reason := decision.Reason
		if reason == ReasonBelowMinimum {
			reason = ReasonConcurrencyConflict
		}

		return rejection(ledger.lot, reason, decision.MinNextBid), nil
	}

	bid := entity.Bid{
		ID:            xid.New().String(),
		LotID:         lotID,
		ParticipantID: participantID,
		Amount:        amount,
		PlacedAt:      s.clock.Now(),
	}

	if err := ledger.apply(bid); err != nil {
		logger(ctx).Error("lot ledger corrupted, bidding suspended", "lot-id", lotID, "error", err)

		return Result{}, domain.WrapError(err, errcodes.LedgerCorrupted, "lot ledger corrupted")
	}

	applied := ledger.history[len(ledger.history)-1]

	return Result{
		Accepted:     true,
		Reason:       ReasonAccepted,
		CurrentPrice: ledger.lot.CurrentPrice,
		LeaderID:     ledger.lot.LeaderID,
		MinNextBid:   decision.MinNextBid,
		Bid:          &applied,
	}, nil
}

func rejection(lot entity.Lot, reason Reason, minNext int64) Result {
	return Result{
		Reason:       reason,
		CurrentPrice: lot.CurrentPrice,
		LeaderID:     lot.LeaderID,
		MinNextBid:   minNext,
	}
}

// Snapshot returns the lot read model together with the exact next minimum.
func (s *Service) Snapshot(lotID string) (entity.Lot, int64, error) {
	ledger, err := s.ledger(lotID)
	if err != nil {
		return entity.Lot{}, 0, err
	}

	lot := ledger.loadSnapshot()

	info, err := s.auctions.AuctionInfo(lot.AuctionID)
	if err != nil {
		return entity.Lot{}, 0, err
	}

	return lot, lot.MinNextBid(info.BidStep), nil
}

// History pages through accepted bids, most recent first. The page token is
// an offset from the newest bid; pages are re-fetchable from any offset.
func (s *Service) History(lotID, pageToken string) ([]entity.Bid, string, error) {
	ledger, err := s.ledger(lotID)
	if err != nil {
		return nil, "", err
	}

	offset := 0

	if pageToken != "" {
		offset, err = strconv.Atoi(pageToken)
		if err != nil || offset < 0 {
			return nil, "", domain.NewError(errcodes.InvalidPaging, "malformed page token")
		}
	}

	ledger.mu.Lock()
	history := make([]entity.Bid, len(ledger.history))
	copy(history, ledger.history)
	ledger.mu.Unlock()

	if offset >= len(history) {
		return []entity.Bid{}, "", nil
	}

	page := make([]entity.Bid, 0, s.pageSize)

	for i := len(history) - 1 - offset; i >= 0 && len(page) < s.pageSize; i-- {
		page = append(page, history[i])
	}

	nextToken := ""
	if offset+len(page) < len(history) {
		nextToken = strconv.Itoa(offset + len(page))
	}

	return page, nextToken, nil
}

// CloseAuctionLots closes every lot of the auction through its own
// serialization scope, so closure can never interleave with an accepted bid.
func (s *Service) CloseAuctionLots(auctionID string, award bool) []entity.ClosedLot {
	s.mu.RLock()
	lotIDs := s.byAuction[auctionID]
	ledgers := make([]*lotLedger, 0, len(lotIDs))

	for _, id := range lotIDs {
		ledgers = append(ledgers, s.lots[id])
	}
	s.mu.RUnlock()

	closed := make([]entity.ClosedLot, 0, len(ledgers))

	for _, ledger := range ledgers {
		closed = append(closed, ledger.close(award))
	}

	return closed
}

// AuctionLotIDs lists the lots registered under an auction, in registration
// order.
func (s *Service) AuctionLotIDs(auctionID string) []string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	ids := make([]string, len(s.byAuction[auctionID]))
	copy(ids, s.byAuction[auctionID])

	return ids
}
