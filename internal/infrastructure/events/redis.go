package events

import (
	"context"
	"fmt"

	jsoniter "github.com/json-iterator/go"
	"github.com/redis/go-redis/v9"

	"coin_auction/internal/domain/entity"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary //nolint:gochecknoglobals // skip

const (
	channelAuctionClosed = "auction.closed"
	channelLotBidPrefix  = "lot.bid."
)

// RedisBroadcaster publishes engine events to Redis pub/sub for the
// real-time trading screens.
type RedisBroadcaster struct {
	client *redis.Client
}

func NewRedisBroadcaster(client *redis.Client) *RedisBroadcaster {
	return &RedisBroadcaster{client: client}
}

func (b *RedisBroadcaster) PublishBidPlaced(ctx context.Context, event entity.BidPlaced) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := b.client.Publish(ctx, channelLotBidPrefix+event.LotID, payload).Err(); err != nil {
		return fmt.Errorf("redis.Publish: %w", err)
	}

	return nil
}

func (b *RedisBroadcaster) PublishAuctionClosed(ctx context.Context, event entity.AuctionClosed) error {
	payload, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("json.Marshal: %w", err)
	}

	if err := b.client.Publish(ctx, channelAuctionClosed, payload).Err(); err != nil {
		return fmt.Errorf("redis.Publish: %w", err)
	}

	return nil
}
