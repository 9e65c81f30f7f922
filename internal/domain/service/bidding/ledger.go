package bidding

import (
	"fmt"
	"sync"
	"sync/atomic"

	"coin_auction/internal/domain/entity"
)

// lotLedger owns one lot's price, leader and append-only history. The mutex
// is the lot's serialization scope: every mutation and every bid decision for
// the lot happens with it held. snapshot is a lock-free copy for the cheap
// pre-check on the submission path and for reads.
type lotLedger struct {
	mu        sync.Mutex
	lot       entity.Lot
	history   []entity.Bid
	suspended bool

	snapshot atomic.Pointer[entity.Lot]
}

func newLotLedger(lot entity.Lot) *lotLedger {
	if lot.BidCount == 0 && lot.CurrentPrice == 0 {
		lot.CurrentPrice = lot.StartPrice
	}

	l := &lotLedger{lot: lot}
	l.publishSnapshot()

	return l
}

// publishSnapshot must be called with mu held (or before the ledger is
// shared).
func (l *lotLedger) publishSnapshot() {
	lot := l.lot
	l.snapshot.Store(&lot)
}

func (l *lotLedger) loadSnapshot() entity.Lot {
	return *l.snapshot.Load()
}

// apply commits an accepted bid. Caller holds mu and has already validated
// the amount. An unexpected sequence number means the ledger no longer
// satisfies its gapless invariant; the lot is suspended instead of repaired.
func (l *lotLedger) apply(bid entity.Bid) error {
	nextSeq := int64(l.lot.BidCount) + 1

	if int64(len(l.history))+1 != nextSeq {
		l.suspended = true
		return fmt.Errorf("lot %s: history length %d does not match bid count %d",
			l.lot.ID, len(l.history), l.lot.BidCount)
	}

	bid.Seq = nextSeq

	l.lot.BidCount++
	l.lot.CurrentPrice = bid.Amount
	l.lot.LeaderID = bid.ParticipantID
	l.lot.UpdatedAt = bid.PlacedAt
	l.history = append(l.history, bid)
	l.publishSnapshot()

	return nil
}

// close marks the lot closed inside its serialization scope. With award the
// current leader becomes the winner; a cancellation closes without awarding.
func (l *lotLedger) close(award bool) entity.ClosedLot {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.lot.Closed {
		l.lot.Closed = true
		l.lot.FinalPrice = l.lot.CurrentPrice

		if award && l.lot.BidCount > 0 {
			l.lot.WinnerID = l.lot.LeaderID
		}

		l.publishSnapshot()
	}

	return entity.ClosedLot{
		LotID:      l.lot.ID,
		WinnerID:   l.lot.WinnerID,
		FinalPrice: l.lot.FinalPrice,
	}
}

// verify replays the restored history and checks the ledger invariants:
// gapless strictly-increasing sequence, monotonic amounts, and price/leader
// reproducible from the accepted bids alone.
func (l *lotLedger) verify() error {
	if l.lot.LeaderID != "" && l.lot.BidCount == 0 {
		return fmt.Errorf("lot %s: leader %s set with zero bid count", l.lot.ID, l.lot.LeaderID)
	}

	if len(l.history) != l.lot.BidCount {
		return fmt.Errorf("lot %s: %d history entries for bid count %d", l.lot.ID, len(l.history), l.lot.BidCount)
	}

	price := l.lot.StartPrice
	leader := ""

	for i, bid := range l.history {
		if bid.Seq != int64(i)+1 {
			return fmt.Errorf("lot %s: sequence gap at position %d (seq %d)", l.lot.ID, i, bid.Seq)
		}

		if bid.Amount < price && i > 0 {
			return fmt.Errorf("lot %s: amount %d at seq %d below prior price %d", l.lot.ID, bid.Amount, bid.Seq, price)
		}

		price = bid.Amount
		leader = bid.ParticipantID
	}

	if l.lot.BidCount > 0 && (price != l.lot.CurrentPrice || leader != l.lot.LeaderID) {
		return fmt.Errorf("lot %s: replay produced price %d leader %q, stored price %d leader %q",
			l.lot.ID, price, leader, l.lot.CurrentPrice, l.lot.LeaderID)
	}

	return nil
}
