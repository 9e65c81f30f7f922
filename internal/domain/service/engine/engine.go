package engine

import (
	"context"
	"time"

	"github.com/rs/xid"

	"coin_auction/internal/clock"
	"coin_auction/internal/domain"
	"coin_auction/internal/domain/entity"
	"coin_auction/internal/domain/service/bidding"
	"coin_auction/internal/domain/service/eligibility"
	"coin_auction/internal/domain/service/lifecycle"
	"coin_auction/pkg/errcodes"
)

// JournalEntry is a write-behind persistence record handed to the journal
// worker after an in-memory commit. Exactly one field group is set per entry.
type JournalEntry struct {
	Bid         *entity.Bid
	Lot         *entity.Lot
	Auction     *entity.Auction
	Eligibility *entity.Eligibility
}

// Engine is the facade composing the lifecycle state machine, the
// eligibility gate and the bid sequencer. It is the only surface transports
// and collaborators call; no other component mutates engine-owned state.
type Engine struct {
	lifecycle   *lifecycle.Service
	eligibility *eligibility.Service
	bidding     *bidding.Service
	clock       clock.Clock

	journal   chan<- JournalEntry
	bidEvents chan<- entity.BidPlaced
	closures  chan<- entity.AuctionClosed
}

func New(clk clock.Clock) *Engine {
	e := &Engine{clock: clk}

	e.bidding = bidding.NewService(e, clk)
	e.eligibility = eligibility.NewService(clk)
	e.lifecycle = lifecycle.NewService(e.bidding, clk, e.emitClosure)

	return e
}

// WithJournal attaches the write-behind persistence channel.
func (e *Engine) WithJournal(ch chan<- JournalEntry) *Engine {
	e.journal = ch
	return e
}

// WithBidEvents attaches the accepted-bid broadcast channel.
func (e *Engine) WithBidEvents(ch chan<- entity.BidPlaced) *Engine {
	e.bidEvents = ch
	return e
}

// WithClosures attaches the auction closure event channel.
func (e *Engine) WithClosures(ch chan<- entity.AuctionClosed) *Engine {
	e.closures = ch
	return e
}

// WithHistoryPage overrides the bid history page size.
func (e *Engine) WithHistoryPage(n int) *Engine {
	e.bidding.WithPageSize(n)
	return e
}

// AuctionInfo implements bidding.AuctionReader by delegating to the
// lifecycle state machine.
func (e *Engine) AuctionInfo(auctionID string) (bidding.AuctionInfo, error) {
	return e.lifecycle.AuctionInfo(auctionID)
}

// SubmitBid runs the full control flow: eligibility gate, lifecycle check,
// sequencer, validator, atomic ledger update. Rejections come back as a
// structured result, never as an opaque error.
func (e *Engine) SubmitBid(ctx context.Context, lotID, participantID string, amount int64) (bidding.Result, error) {
	if participantID == "" {
		return bidding.Result{}, domain.NewError(errcodes.ValidationError, "participant is required")
	}

	lot, minNext, err := e.bidding.Snapshot(lotID)
	if err != nil {
		return bidding.Result{}, err
	}

	if !e.eligibility.IsApproved(lot.AuctionID, participantID) {
		observeBid(string(bidding.ReasonNotEligible))

		return bidding.Result{
			Reason:       bidding.ReasonNotEligible,
			CurrentPrice: lot.CurrentPrice,
			LeaderID:     lot.LeaderID,
			MinNextBid:   minNext,
		}, nil
	}

	result, err := e.bidding.Submit(ctx, lotID, participantID, amount)
	if err != nil {
		return bidding.Result{}, err
	}

	observeBid(string(result.Reason))

	if result.Accepted {
		e.afterBid(ctx, lotID, result)
	}

	return result, nil
}

// afterBid runs outside every serialization scope: persistence and event
// delivery are deferred so acceptance never waits on I/O.
func (e *Engine) afterBid(ctx context.Context, lotID string, result bidding.Result) {
	lot, _, err := e.bidding.Snapshot(lotID)
	if err != nil {
		logger(ctx).Error("lot snapshot after accepted bid", "lot-id", lotID, "error", err)
		return
	}

	logger(ctx).Info("bid accepted",
		"lot-id", lotID,
		"bid-seq", result.Bid.Seq,
		"bid-amount", result.Bid.Amount,
	)

	e.journalEntry(ctx, JournalEntry{Bid: result.Bid, Lot: &lot})

	if e.bidEvents != nil {
		event := entity.BidPlaced{
			EventID:       xid.New().String(),
			AuctionID:     lot.AuctionID,
			LotID:         lotID,
			ParticipantID: result.Bid.ParticipantID,
			Amount:        result.Bid.Amount,
			Seq:           result.Bid.Seq,
			PlacedAt:      result.Bid.PlacedAt,
		}

		select {
		case e.bidEvents <- event:
		default:
			logger(ctx).Error("bid event channel full, event dropped", "lot-id", lotID)
		}
	}
}

func (e *Engine) journalEntry(ctx context.Context, entry JournalEntry) {
	if e.journal == nil {
		return
	}

	select {
	case e.journal <- entry:
	default:
		logger(ctx).Error("journal channel full, entry dropped")
	}
}

func (e *Engine) emitClosure(ctx context.Context, event entity.AuctionClosed) {
	observeClosure(event.Status.String())

	if e.closures == nil {
		return
	}

	select {
	case e.closures <- event:
	default:
		logger(ctx).Error("closure event channel full, event dropped", "auction-id", event.AuctionID)
	}
}

// LotSnapshot returns the read model for one lot plus the exact next
// minimum bid.
func (e *Engine) LotSnapshot(lotID string) (entity.Lot, int64, error) {
	return e.bidding.Snapshot(lotID)
}

// BidHistory pages through a lot's accepted bids, most recent first.
func (e *Engine) BidHistory(lotID, pageToken string) ([]entity.Bid, string, error) {
	return e.bidding.History(lotID, pageToken)
}

// RequestEligibility creates a pending participation record.
func (e *Engine) RequestEligibility(ctx context.Context, auctionID, participantID string) (entity.Eligibility, error) {
	auction, err := e.lifecycle.Auction(auctionID)
	if err != nil {
		return entity.Eligibility{}, err
	}

	// После завершения аукциона записи участия заморожены.
	if auction.Status.Terminal() {
		return entity.Eligibility{}, domain.NewError(errcodes.AuctionNotActive, "auction is closed for eligibility changes")
	}

	record, err := e.eligibility.RequestApproval(ctx, auctionID, participantID)
	if err != nil {
		return entity.Eligibility{}, err
	}

	e.journalEntry(ctx, JournalEntry{Eligibility: &record})

	return record, nil
}

// DecideEligibility is the operator decision on a participation request.
func (e *Engine) DecideEligibility(ctx context.Context, auctionID, participantID string, approved bool) (entity.Eligibility, error) {
	auction, err := e.lifecycle.Auction(auctionID)
	if err != nil {
		return entity.Eligibility{}, err
	}

	if auction.Status.Terminal() {
		return entity.Eligibility{}, domain.NewError(errcodes.AuctionNotActive, "auction is closed for eligibility changes")
	}

	record, err := e.eligibility.Decide(ctx, auctionID, participantID, approved)
	if err != nil {
		return entity.Eligibility{}, err
	}

	e.journalEntry(ctx, JournalEntry{Eligibility: &record})

	return record, nil
}

// RequestTransition drives the lifecycle state machine, used by operators,
// the payment collaborator and the auction clock.
func (e *Engine) RequestTransition(ctx context.Context, auctionID string, target entity.AuctionStatus) error {
	if err := e.lifecycle.RequestTransition(ctx, auctionID, target); err != nil {
		return err
	}

	observeTransition(target.String())

	auction, err := e.lifecycle.Auction(auctionID)
	if err != nil {
		return err
	}

	e.journalEntry(ctx, JournalEntry{Auction: &auction})

	if auction.Status.Terminal() {
		// Lot closures mutate lot state; journal the final snapshots too.
		for _, lotID := range e.bidding.AuctionLotIDs(auctionID) {
			if lot, _, err := e.bidding.Snapshot(lotID); err == nil {
				e.journalEntry(ctx, JournalEntry{Lot: &lot})
			}
		}
	}

	return nil
}

// AuctionSnapshot returns the auction read model and the authoritative
// remaining time, the single source of truth UI countdowns re-sync from.
func (e *Engine) AuctionSnapshot(auctionID string) (entity.Auction, time.Duration, error) {
	auction, err := e.lifecycle.Auction(auctionID)
	if err != nil {
		return entity.Auction{}, 0, err
	}

	return auction, auction.RemainingAt(e.clock.Now()), nil
}

// TickSchedules applies every schedule-driven transition due at now. Called
// by the auction clock worker; errors on individual auctions are logged and
// do not stop the sweep.
func (e *Engine) TickSchedules(ctx context.Context, now time.Time) {
	for _, due := range e.lifecycle.DueTransitions(now) {
		if err := e.RequestTransition(ctx, due.AuctionID, due.Target); err != nil {
			logger(ctx).Error("scheduled transition failed",
				"auction-id", due.AuctionID,
				"target", due.Target.String(),
				"error", err,
			)
		}
	}
}

// RegisterAuction, RegisterLot, RestoreLot and RestoreEligibility feed the
// engine during startup loading. They are not part of the collaborator
// surface.

func (e *Engine) RegisterAuction(auction entity.Auction) error {
	return e.lifecycle.RegisterAuction(auction)
}

func (e *Engine) RegisterLot(lot entity.Lot) error {
	return e.bidding.RegisterLot(lot)
}

func (e *Engine) RestoreLot(lot entity.Lot, history []entity.Bid) error {
	return e.bidding.RestoreLot(lot, history)
}

func (e *Engine) RestoreEligibility(record entity.Eligibility) {
	e.eligibility.Restore(record)
}

// Auctions lists current auction snapshots, for the clock worker and tests.
func (e *Engine) Auctions() []entity.Auction {
	return e.lifecycle.Auctions()
}
