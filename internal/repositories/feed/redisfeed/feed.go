// Package redisfeed implements the room live feeds over redis pub/sub.
// One channel per room per feed keeps fan-out cheap: a subscriber only
// receives events for the room it watches.
package redisfeed

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis/v8"

	"github.com/piconopoly/backend/internal/core/domain"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/dto"
)

func transactionChannel(roomID string) string {
	return fmt.Sprintf("piconopoly:room:%s:transactions", roomID)
}

func playersChannel(roomID string) string {
	return fmt.Sprintf("piconopoly:room:%s:players", roomID)
}

type RedisFeed struct {
	client *redis.Client
}

// NewRedisFeed creates the pub/sub backed feed. The same value serves as
// publisher and subscriber.
func NewRedisFeed(client *redis.Client) *RedisFeed {
	return &RedisFeed{client: client}
}

var _ portssvc.FeedPublisher = (*RedisFeed)(nil)
var _ portssvc.FeedSubscriber = (*RedisFeed)(nil)

// PublishTransaction broadcasts one committed audit record to the room's
// transaction feed.
func (f *RedisFeed) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	payload, err := json.Marshal(dto.ToTransactionResponse(&txn))
	if err != nil {
		return fmt.Errorf("failed to marshal transaction event: %w", err)
	}
	if err := f.client.Publish(ctx, transactionChannel(txn.RoomID), payload).Err(); err != nil {
		return fmt.Errorf("failed to publish transaction event: %w", err)
	}
	return nil
}

// PublishBalances broadcasts the post-commit balances of the players a
// transfer touched.
func (f *RedisFeed) PublishBalances(ctx context.Context, roomID string, events []dto.PlayerBalanceEvent) error {
	for _, event := range events {
		payload, err := json.Marshal(event)
		if err != nil {
			return fmt.Errorf("failed to marshal balance event: %w", err)
		}
		if err := f.client.Publish(ctx, playersChannel(roomID), payload).Err(); err != nil {
			return fmt.Errorf("failed to publish balance event: %w", err)
		}
	}
	return nil
}

// SubscribeTransactions subscribes to the room's transaction feed. The
// returned channel is closed when ctx is cancelled.
func (f *RedisFeed) SubscribeTransactions(ctx context.Context, roomID string) (<-chan []byte, error) {
	return f.subscribe(ctx, transactionChannel(roomID))
}

// SubscribePlayers subscribes to the room's balance feed.
func (f *RedisFeed) SubscribePlayers(ctx context.Context, roomID string) (<-chan []byte, error) {
	return f.subscribe(ctx, playersChannel(roomID))
}

func (f *RedisFeed) subscribe(ctx context.Context, channel string) (<-chan []byte, error) {
	sub := f.client.Subscribe(ctx, channel)
	// Receive forces the SUBSCRIBE round trip so a failed connection is
	// reported here instead of as a silently empty channel.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("failed to subscribe to %s: %w", channel, err)
	}

	out := make(chan []byte)
	go func() {
		defer close(out)
		defer sub.Close()
		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				select {
				case out <- []byte(msg.Payload):
				case <-ctx.Done():
					return
				}
			}
		}
	}()
	return out, nil
}
