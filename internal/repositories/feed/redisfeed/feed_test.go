package redisfeed

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/dto"
)

func TestChannelNames(t *testing.T) {
	assert.Equal(t, "piconopoly:room:room-1:transactions", transactionChannel("room-1"))
	assert.Equal(t, "piconopoly:room:room-1:players", playersChannel("room-1"))
}

func TestPublishTransaction(t *testing.T) {
	client, mock := redismock.NewClientMock()
	feed := NewRedisFeed(client)

	txn := domain.Transaction{
		TransactionID: "txn-1",
		RoomID:        "room-1",
		FromRef:       "player-a",
		ToRef:         domain.BankRef,
		Amount:        decimal.NewFromInt(200),
		Kind:          domain.PlayerToBank,
		CreatedAt:     time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(dto.ToTransactionResponse(&txn))
	require.NoError(t, err)

	mock.ExpectPublish("piconopoly:room:room-1:transactions", payload).SetVal(1)

	err = feed.PublishTransaction(context.Background(), txn)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishBalances(t *testing.T) {
	client, mock := redismock.NewClientMock()
	feed := NewRedisFeed(client)

	events := []dto.PlayerBalanceEvent{
		{RoomID: "room-1", PlayerID: "player-a", Balance: decimal.NewFromInt(1300), TransactionID: "txn-1"},
		{RoomID: "room-1", PlayerID: "player-b", Balance: decimal.NewFromInt(1700), TransactionID: "txn-1"},
	}
	for _, event := range events {
		payload, err := json.Marshal(event)
		require.NoError(t, err)
		mock.ExpectPublish("piconopoly:room:room-1:players", payload).SetVal(1)
	}

	err := feed.PublishBalances(context.Background(), "room-1", events)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPublishTransactionError(t *testing.T) {
	client, mock := redismock.NewClientMock()
	feed := NewRedisFeed(client)

	txn := domain.Transaction{
		TransactionID: "txn-1",
		RoomID:        "room-1",
		FromRef:       domain.BankRef,
		ToRef:         "player-a",
		Amount:        decimal.NewFromInt(50),
		Kind:          domain.BankToPlayer,
		CreatedAt:     time.Date(2025, 6, 12, 20, 0, 0, 0, time.UTC),
	}
	payload, err := json.Marshal(dto.ToTransactionResponse(&txn))
	require.NoError(t, err)

	mock.ExpectPublish("piconopoly:room:room-1:transactions", payload).SetErr(assert.AnError)

	err = feed.PublishTransaction(context.Background(), txn)
	assert.Error(t, err)
}
