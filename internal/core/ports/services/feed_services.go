package services

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/dto"
)

// FeedPublisher fans out committed ledger events to the live view layer.
// Delivery is at-least-once; consumers deduplicate by transaction id.
// Publish failures are logged, never surfaced to the transfer caller: the
// transfer has already committed.
type FeedPublisher interface {
	PublishTransaction(ctx context.Context, txn domain.Transaction) error
	PublishBalances(ctx context.Context, roomID string, events []dto.PlayerBalanceEvent) error
}

// FeedSubscriber exposes the room change feeds consumed by the SSE handlers.
// The returned channel carries raw JSON payloads and is closed when ctx is
// cancelled.
type FeedSubscriber interface {
	SubscribeTransactions(ctx context.Context, roomID string) (<-chan []byte, error)
	SubscribePlayers(ctx context.Context, roomID string) (<-chan []byte, error)
}
