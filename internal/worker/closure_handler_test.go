package worker_test

import (
	"context"
	"testing"

	"github.com/hibiken/asynq"
	jsoniter "github.com/json-iterator/go"
	"github.com/stretchr/testify/require"

	"coin_auction/internal/domain/entity"
	"coin_auction/internal/infrastructure/events"
	"coin_auction/internal/worker"
)

func TestHandleAuctionClosed(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	h := worker.NewClosureHandler()

	payload, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(entity.AuctionClosed{
		EventID:   "e-1",
		AuctionID: "auction-1",
		Status:    entity.AuctionStatusCompleted,
		ClosedLots: []entity.ClosedLot{
			{LotID: "lot-1", WinnerID: "p-1", FinalPrice: 2000},
			{LotID: "lot-2", FinalPrice: 500},
		},
	})
	rq.NoError(err)

	task := asynq.NewTask(events.TaskAuctionClosed, payload)

	rq.NoError(h.HandleAuctionClosed(ctx, task))

	// Redelivery of the same event id is a no-op, not an error.
	rq.NoError(h.HandleAuctionClosed(ctx, task))
}

func TestHandleAuctionClosedMalformedPayload(t *testing.T) {
	rq := require.New(t)

	h := worker.NewClosureHandler()

	task := asynq.NewTask(events.TaskAuctionClosed, []byte("{not json"))

	rq.Error(h.HandleAuctionClosed(context.Background(), task))
}
