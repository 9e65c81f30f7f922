package worker

import (
	"context"

	"coin_auction/internal/domain/entity"
)

// Broadcaster pushes engine events to real-time consumers (the trading
// screens). Implemented over Redis pub/sub.
type Broadcaster interface {
	PublishBidPlaced(ctx context.Context, event entity.BidPlaced) error
	PublishAuctionClosed(ctx context.Context, event entity.AuctionClosed) error
}

// ClosureEnqueuer hands closure events to the durable delivery queue for the
// delivery/payment/notification collaborators.
type ClosureEnqueuer interface {
	EnqueueAuctionClosed(ctx context.Context, event entity.AuctionClosed) error
}

// Dispatcher fans engine events out after the fact: acceptance already
// happened, so every delivery failure here is logged and survived.
type Dispatcher struct {
	bids     <-chan entity.BidPlaced
	closures <-chan entity.AuctionClosed

	broadcaster Broadcaster
	enqueuer    ClosureEnqueuer
	alerts      chan<- entity.AuctionClosed
}

func NewDispatcher(
	bids <-chan entity.BidPlaced,
	closures <-chan entity.AuctionClosed,
	broadcaster Broadcaster,
	enqueuer ClosureEnqueuer,
) *Dispatcher {
	return &Dispatcher{
		bids:        bids,
		closures:    closures,
		broadcaster: broadcaster,
		enqueuer:    enqueuer,
	}
}

// WithOperatorAlerts mirrors closure events into the operator notification
// channel.
func (d *Dispatcher) WithOperatorAlerts(alerts chan<- entity.AuctionClosed) *Dispatcher {
	d.alerts = alerts
	return d
}

func (d *Dispatcher) Run(ctx context.Context) error {
	logger(ctx).Info("event dispatcher started")

	for {
		select {
		case <-ctx.Done():
			logger(ctx).Info("event dispatcher stopped")
			return ctx.Err()
		case event, ok := <-d.bids:
			if !ok {
				return nil
			}

			d.dispatchBid(ctx, event)
		case event, ok := <-d.closures:
			if !ok {
				return nil
			}

			d.dispatchClosure(ctx, event)
		}
	}
}

func (d *Dispatcher) dispatchBid(ctx context.Context, event entity.BidPlaced) {
	if d.broadcaster == nil {
		return
	}

	if err := d.broadcaster.PublishBidPlaced(ctx, event); err != nil {
		logger(ctx).Error("bid broadcast failed",
			"lot-id", event.LotID,
			"bid-seq", event.Seq,
			"error", err,
		)
	}
}

func (d *Dispatcher) dispatchClosure(ctx context.Context, event entity.AuctionClosed) {
	if d.broadcaster != nil {
		if err := d.broadcaster.PublishAuctionClosed(ctx, event); err != nil {
			logger(ctx).Error("closure broadcast failed",
				"auction-id", event.AuctionID,
				"event-id", event.EventID,
				"error", err,
			)
		}
	}

	if d.enqueuer != nil {
		if err := d.enqueuer.EnqueueAuctionClosed(ctx, event); err != nil {
			logger(ctx).Error("closure enqueue failed",
				"auction-id", event.AuctionID,
				"event-id", event.EventID,
				"error", err,
			)
		}
	}

	if d.alerts != nil {
		select {
		case d.alerts <- event:
		default:
			logger(ctx).Error("operator alert channel full, alert dropped", "auction-id", event.AuctionID)
		}
	}
}
