package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/patrickmn/go-cache"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/infrastructure/events"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	seenEventTTL     = 24 * time.Hour
	seenEventCleanup = time.Hour
)

// ClosureHandler consumes queued closure events and hands them to the
// external collaborators (delivery, payment, notification). The queue is
// at-least-once, so processed event ids are remembered to keep the hand-off
// effectively-once.
type ClosureHandler struct {
	seen *cache.Cache
}

func NewClosureHandler() *ClosureHandler {
	return &ClosureHandler{
		seen: cache.New(seenEventTTL, seenEventCleanup),
	}
}

func (h *ClosureHandler) HandleAuctionClosed(ctx context.Context, task *asynq.Task) error {
	var event entity.AuctionClosed

	if err := json.Unmarshal(task.Payload(), &event); err != nil {
		return fmt.Errorf("json.Unmarshal(%s): %w", events.TaskAuctionClosed, err)
	}

	if _, duplicate := h.seen.Get(event.EventID); duplicate {
		logger(ctx).Info("duplicate closure event skipped", "event-id", event.EventID)
		return nil
	}

	h.seen.SetDefault(event.EventID, struct{}{})

	won := 0

	for _, lot := range event.ClosedLots {
		if lot.WinnerID != "" {
			won++
		}
	}

	logger(ctx).Info("auction closure delivered to collaborators",
		"event-id", event.EventID,
		"auction-id", event.AuctionID,
		"status", event.Status.String(),
		"lots", len(event.ClosedLots),
		"lots-won", won,
	)

	return nil
}
