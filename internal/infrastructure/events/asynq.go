package events

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"

	"coin_auction/internal/domain/entity"
)

// TaskAuctionClosed is the durable delivery task carrying one closure event
// to the collaborator hand-off worker.
const TaskAuctionClosed = "auction:closed"

const (
	QueueEvents     = "events"
	closureMaxRetry = 5
)

// AsynqEnqueuer queues closure events for at-least-once delivery.
type AsynqEnqueuer struct {
	client *asynq.Client
}

func NewAsynqEnqueuer(redisOpt asynq.RedisClientOpt) *AsynqEnqueuer {
	return &AsynqEnqueuer{client: asynq.NewClient(redisOpt)}
}

func (e *AsynqEnqueuer) EnqueueAuctionClosed(ctx context.Context, event entity.AuctionClosed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	task := asynq.NewTask(TaskAuctionClosed, payload,
		asynq.Queue(QueueEvents),
		asynq.MaxRetry(closureMaxRetry),
		asynq.TaskID(event.EventID),
	)

	if _, err := e.client.EnqueueContext(ctx, task); err != nil {
		return fmt.Errorf("asynq.Enqueue: %w", err)
	}

	return nil
}

func (e *AsynqEnqueuer) Close() error {
	return e.client.Close()
}
