package services_test

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/dto"
)

// MockRoomRepository is a mock type for the RoomRepositoryFacade interface
type MockRoomRepository struct {
	mock.Mock
}

func (m *MockRoomRepository) SaveRoom(ctx context.Context, room domain.Room, config domain.GameConfig, parking domain.Player) error {
	args := m.Called(ctx, room, config, parking)
	return args.Error(0)
}

func (m *MockRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) FindRoomByName(ctx context.Context, name string) (*domain.Room, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Room), args.Error(1)
}

func (m *MockRoomRepository) ResetRoom(ctx context.Context, roomID string, newInitialBalance *decimal.Decimal, freshParking domain.Player) error {
	args := m.Called(ctx, roomID, newInitialBalance, freshParking)
	return args.Error(0)
}

func (m *MockRoomRepository) DeleteRoom(ctx context.Context, roomID string) error {
	args := m.Called(ctx, roomID)
	return args.Error(0)
}

// MockPlayerRepository is a mock type for the PlayerRepositoryFacade interface
type MockPlayerRepository struct {
	mock.Mock
}

func (m *MockPlayerRepository) SavePlayer(ctx context.Context, player domain.Player) error {
	args := m.Called(ctx, player)
	return args.Error(0)
}

func (m *MockPlayerRepository) FindPlayerByID(ctx context.Context, playerID string) (*domain.Player, error) {
	args := m.Called(ctx, playerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) FindParkingPlayer(ctx context.Context, roomID string) (*domain.Player, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) ListPlayersByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) FindPlayersByIDsForUpdate(ctx context.Context, tx pgx.Tx, playerIDs []string) (map[string]domain.Player, error) {
	args := m.Called(ctx, tx, playerIDs)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]domain.Player), args.Error(1)
}

func (m *MockPlayerRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error {
	args := m.Called(ctx, tx, changes)
	return args.Error(0)
}

// MockConfigRepository is a mock type for the ConfigRepositoryFacade interface
type MockConfigRepository struct {
	mock.Mock
}

func (m *MockConfigRepository) FindConfigByRoomID(ctx context.Context, roomID string) (*domain.GameConfig, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GameConfig), args.Error(1)
}

// MockLedgerRepository is a mock type for the LedgerRepositoryFacade interface
type MockLedgerRepository struct {
	mock.Mock
}

func (m *MockLedgerRepository) SaveTransfer(ctx context.Context, txn domain.Transaction, changes map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	args := m.Called(ctx, txn, changes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]decimal.Decimal), args.Error(1)
}

func (m *MockLedgerRepository) FindTransactionByID(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error) {
	args := m.Called(ctx, roomID, transactionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Transaction), args.Error(1)
}

func (m *MockLedgerRepository) ListTransactionsByRoom(ctx context.Context, roomID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := m.Called(ctx, roomID, limit, nextToken)
	var txns []domain.Transaction
	if args.Get(0) != nil {
		txns = args.Get(0).([]domain.Transaction)
	}
	var token *string
	if args.Get(1) != nil {
		token = args.Get(1).(*string)
	}
	return txns, token, args.Error(2)
}

// MockBankPassRepository is a mock type for the BankPassRepositoryFacade interface
type MockBankPassRepository struct {
	mock.Mock
}

func (m *MockBankPassRepository) SaveRequest(ctx context.Context, req domain.BankPassRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockBankPassRepository) FindRequestByID(ctx context.Context, roomID string, requestID string) (*domain.BankPassRequest, error) {
	args := m.Called(ctx, roomID, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankPassRequest), args.Error(1)
}

func (m *MockBankPassRepository) ListPendingByRoom(ctx context.Context, roomID string) ([]domain.BankPassRequest, error) {
	args := m.Called(ctx, roomID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.BankPassRequest), args.Error(1)
}

func (m *MockBankPassRepository) AddConfirmation(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error) {
	args := m.Called(ctx, roomID, requestID, voterID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankPassRequest), args.Error(1)
}

func (m *MockBankPassRepository) ResolveConfirmed(ctx context.Context, roomID string, requestID string, resolvedAt time.Time) (*domain.BankPassRequest, error) {
	args := m.Called(ctx, roomID, requestID, resolvedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankPassRequest), args.Error(1)
}

func (m *MockBankPassRepository) ResolveRejected(ctx context.Context, roomID string, requestID string, voterID string, resolvedAt time.Time) (*domain.BankPassRequest, error) {
	args := m.Called(ctx, roomID, requestID, voterID, resolvedAt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.BankPassRequest), args.Error(1)
}

// MockFeedPublisher is a mock type for the FeedPublisher interface
type MockFeedPublisher struct {
	mock.Mock
}

func (m *MockFeedPublisher) PublishTransaction(ctx context.Context, txn domain.Transaction) error {
	args := m.Called(ctx, txn)
	return args.Error(0)
}

func (m *MockFeedPublisher) PublishBalances(ctx context.Context, roomID string, events []dto.PlayerBalanceEvent) error {
	args := m.Called(ctx, roomID, events)
	return args.Error(0)
}
