package services_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/core/services"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/dto"
)

type LedgerServiceTestSuite struct {
	suite.Suite
	mockLedgerRepo *MockLedgerRepository
	mockPlayerRepo *MockPlayerRepository
	mockFeed       *MockFeedPublisher
	service        portssvc.LedgerSvcFacade
	roomID         string
}

func (suite *LedgerServiceTestSuite) SetupTest() {
	suite.mockLedgerRepo = new(MockLedgerRepository)
	suite.mockPlayerRepo = new(MockPlayerRepository)
	suite.mockFeed = new(MockFeedPublisher)
	suite.service = services.NewLedgerService(suite.mockLedgerRepo, suite.mockPlayerRepo, suite.mockFeed, 3)
	suite.roomID = uuid.NewString()
}

func (suite *LedgerServiceTestSuite) TestTransfer_Success() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()
	amount := decimal.NewFromInt(200)

	balances := map[string]decimal.Decimal{
		fromID: decimal.NewFromInt(1300),
		toID:   decimal.NewFromInt(1700),
	}
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.AnythingOfType("domain.Transaction"), map[string]decimal.Decimal{
		fromID: amount.Neg(),
		toID:   amount,
	}).Return(balances, nil).Once()
	suite.mockFeed.On("PublishTransaction", ctx, mock.AnythingOfType("domain.Transaction")).Return(nil).Once()
	suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.AnythingOfType("[]dto.PlayerBalanceEvent")).Return(nil).Once()

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty(fromID), domain.PlayerParty(toID), amount)

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.NotEmpty(txn.TransactionID)
	suite.Equal(suite.roomID, txn.RoomID)
	suite.Equal(fromID, txn.FromRef)
	suite.Equal(toID, txn.ToRef)
	suite.Equal(domain.PlayerToPlayer, txn.Kind)
	suite.True(amount.Equal(txn.Amount))

	suite.mockLedgerRepo.AssertExpectations(suite.T())
	suite.mockFeed.AssertExpectations(suite.T())
}

func (suite *LedgerServiceTestSuite) TestTransfer_KindClassification() {
	ctx := context.Background()
	playerID := uuid.NewString()
	amount := decimal.NewFromInt(50)

	cases := []struct {
		name string
		from domain.PartyRef
		to   domain.PartyRef
		kind domain.TransferKind
	}{
		{"bank to player", domain.BankParty(), domain.PlayerParty(playerID), domain.BankToPlayer},
		{"player to bank", domain.PlayerParty(playerID), domain.BankParty(), domain.PlayerToBank},
	}

	for _, tc := range cases {
		suite.Run(tc.name, func() {
			suite.SetupTest()
			suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.AnythingOfType("domain.Transaction"), mock.Anything).
				Return(map[string]decimal.Decimal{playerID: decimal.NewFromInt(100)}, nil).Once()
			suite.mockFeed.On("PublishTransaction", ctx, mock.Anything).Return(nil).Once()
			suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.Anything).Return(nil).Once()

			txn, err := suite.service.Transfer(ctx, suite.roomID, tc.from, tc.to, amount)

			suite.Require().NoError(err)
			suite.Equal(tc.kind, txn.Kind)

			// The Bank side never appears in the balance changes.
			changes := suite.mockLedgerRepo.Calls[0].Arguments.Get(2).(map[string]decimal.Decimal)
			suite.Len(changes, 1)
			suite.Contains(changes, playerID)
		})
	}
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsNonPositiveAmount() {
	ctx := context.Background()

	for _, amount := range []decimal.Decimal{decimal.Zero, decimal.NewFromInt(-10)} {
		txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty("a"), domain.PlayerParty("b"), amount)
		suite.Require().Error(err)
		suite.ErrorIs(err, apperrors.ErrValidation)
		suite.Nil(txn)
	}
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsBankToBank() {
	txn, err := suite.service.Transfer(context.Background(), suite.roomID, domain.BankParty(), domain.BankParty(), decimal.NewFromInt(10))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RejectsSelfTransfer() {
	playerID := uuid.NewString()
	txn, err := suite.service.Transfer(context.Background(), suite.roomID, domain.PlayerParty(playerID), domain.PlayerParty(playerID), decimal.NewFromInt(10))
	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestTransfer_InsufficientBalancePropagates() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty("a"), domain.PlayerParty("b"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(txn)
	// Nothing committed, nothing published.
	suite.mockFeed.AssertNotCalled(suite.T(), "PublishTransaction", mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestTransfer_NotFoundPropagates() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty("a"), domain.PlayerParty("b"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestTransfer_RetriesTransientConflict() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()
	balances := map[string]decimal.Decimal{
		fromID: decimal.NewFromInt(90),
		toID:   decimal.NewFromInt(110),
	}

	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrTransientConflict).Twice()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(balances, nil).Once()
	suite.mockFeed.On("PublishTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty(fromID), domain.PlayerParty(toID), decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.Require().NotNil(txn)
	suite.mockLedgerRepo.AssertNumberOfCalls(suite.T(), "SaveTransfer", 3)
}

func (suite *LedgerServiceTestSuite) TestTransfer_ConflictExhaustsRetries() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrTransientConflict).Times(3)

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty("a"), domain.PlayerParty("b"), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrTransientConflict)
	suite.Nil(txn)
	suite.mockLedgerRepo.AssertNumberOfCalls(suite.T(), "SaveTransfer", 3)
}

func (suite *LedgerServiceTestSuite) TestTransfer_FeedFailureDoesNotFailTransfer() {
	ctx := context.Background()
	fromID := uuid.NewString()
	toID := uuid.NewString()

	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(map[string]decimal.Decimal{fromID: decimal.NewFromInt(90), toID: decimal.NewFromInt(110)}, nil).Once()
	suite.mockFeed.On("PublishTransaction", ctx, mock.Anything).Return(assert.AnError).Once()
	suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.Anything).Return(assert.AnError).Once()

	txn, err := suite.service.Transfer(ctx, suite.roomID, domain.PlayerParty(fromID), domain.PlayerParty(toID), decimal.NewFromInt(10))

	suite.Require().NoError(err)
	suite.NotNil(txn)
}

func (suite *LedgerServiceTestSuite) TestBankPass_DelegatesToTransfer() {
	ctx := context.Background()
	playerID := uuid.NewString()
	amount := decimal.NewFromInt(200)

	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, map[string]decimal.Decimal{
		playerID: amount,
	}).Return(map[string]decimal.Decimal{playerID: decimal.NewFromInt(1700)}, nil).Once()
	suite.mockFeed.On("PublishTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.BankPass(ctx, suite.roomID, playerID, amount)

	suite.Require().NoError(err)
	suite.Equal(domain.BankRef, txn.FromRef)
	suite.Equal(playerID, txn.ToRef)
	suite.Equal(domain.BankToPlayer, txn.Kind)
}

func (suite *LedgerServiceTestSuite) TestFreeParkingPass_Success() {
	ctx := context.Background()
	playerID := uuid.NewString()
	parkingID := uuid.NewString()
	amount := decimal.NewFromInt(150)

	parking := &domain.Player{
		PlayerID:  parkingID,
		RoomID:    suite.roomID,
		Name:      domain.FreeParkingName,
		Balance:   decimal.NewFromInt(300),
		IsParking: true,
	}
	suite.mockPlayerRepo.On("FindParkingPlayer", ctx, suite.roomID).Return(parking, nil).Once()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, map[string]decimal.Decimal{
		parkingID: amount.Neg(),
		playerID:  amount,
	}).Return(map[string]decimal.Decimal{
		parkingID: decimal.NewFromInt(150),
		playerID:  decimal.NewFromInt(1650),
	}, nil).Once()
	suite.mockFeed.On("PublishTransaction", ctx, mock.Anything).Return(nil).Once()
	suite.mockFeed.On("PublishBalances", ctx, suite.roomID, mock.Anything).Return(nil).Once()

	txn, err := suite.service.FreeParkingPass(ctx, suite.roomID, playerID, amount)

	suite.Require().NoError(err)
	suite.Equal(parkingID, txn.FromRef)
	suite.Equal(playerID, txn.ToRef)
	suite.Equal(domain.PlayerToPlayer, txn.Kind)
}

func (suite *LedgerServiceTestSuite) TestFreeParkingPass_PoolTooLow() {
	ctx := context.Background()
	playerID := uuid.NewString()
	parkingID := uuid.NewString()

	parking := &domain.Player{
		PlayerID:  parkingID,
		RoomID:    suite.roomID,
		Name:      domain.FreeParkingName,
		Balance:   decimal.NewFromInt(40),
		IsParking: true,
	}
	suite.mockPlayerRepo.On("FindParkingPlayer", ctx, suite.roomID).Return(parking, nil).Once()
	suite.mockLedgerRepo.On("SaveTransfer", ctx, mock.Anything, mock.Anything).
		Return(nil, apperrors.ErrInsufficientBalance).Once()

	txn, err := suite.service.FreeParkingPass(ctx, suite.roomID, playerID, decimal.NewFromInt(150))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrInsufficientBalance)
	suite.Nil(txn)
}

func (suite *LedgerServiceTestSuite) TestFreeParkingPass_NoParkingAccount() {
	ctx := context.Background()
	suite.mockPlayerRepo.On("FindParkingPlayer", ctx, suite.roomID).Return(nil, apperrors.ErrNotFound).Once()

	txn, err := suite.service.FreeParkingPass(ctx, suite.roomID, uuid.NewString(), decimal.NewFromInt(10))

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(txn)
	suite.mockLedgerRepo.AssertNotCalled(suite.T(), "SaveTransfer", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *LedgerServiceTestSuite) TestListTransactions_DefaultsLimit() {
	ctx := context.Background()
	suite.mockLedgerRepo.On("ListTransactionsByRoom", ctx, suite.roomID, 20, (*string)(nil)).
		Return([]domain.Transaction{}, nil, nil).Once()

	resp, err := suite.service.ListTransactions(ctx, suite.roomID, dto.ListTransactionsParams{})

	suite.Require().NoError(err)
	suite.NotNil(resp)
	suite.Empty(resp.Transactions)
	suite.Nil(resp.NextToken)
}

func TestLedgerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(LedgerServiceTestSuite))
}

// fakeLockingLedgerRepo is an in-memory ledger with real mutual exclusion,
// used to exercise concurrent transfers end to end.
type fakeLockingLedgerRepo struct {
	mu       sync.Mutex
	roomID   string
	balances map[string]decimal.Decimal
	txns     []domain.Transaction
}

func (f *fakeLockingLedgerRepo) SaveTransfer(ctx context.Context, txn domain.Transaction, changes map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	for playerID, delta := range changes {
		balance, ok := f.balances[playerID]
		if !ok {
			return nil, apperrors.ErrNotFound
		}
		if balance.Add(delta).IsNegative() {
			return nil, apperrors.ErrInsufficientBalance
		}
	}

	result := make(map[string]decimal.Decimal, len(changes))
	for playerID, delta := range changes {
		f.balances[playerID] = f.balances[playerID].Add(delta)
		result[playerID] = f.balances[playerID]
	}
	f.txns = append(f.txns, txn)
	return result, nil
}

func (f *fakeLockingLedgerRepo) FindTransactionByID(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, txn := range f.txns {
		if txn.RoomID == roomID && txn.TransactionID == transactionID {
			t := txn
			return &t, nil
		}
	}
	return nil, apperrors.ErrNotFound
}

func (f *fakeLockingLedgerRepo) ListTransactionsByRoom(ctx context.Context, roomID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]domain.Transaction, len(f.txns))
	copy(out, f.txns)
	return out, nil, nil
}

// TestTransfer_ConcurrentSpendsNeverOverdraw races two withdrawals of 60
// against a balance of 100: exactly one must commit.
func TestTransfer_ConcurrentSpendsNeverOverdraw(t *testing.T) {
	roomID := uuid.NewString()
	fromID := uuid.NewString()
	toID := uuid.NewString()

	repo := &fakeLockingLedgerRepo{
		roomID: roomID,
		balances: map[string]decimal.Decimal{
			fromID: decimal.NewFromInt(100),
			toID:   decimal.NewFromInt(0),
		},
	}
	service := services.NewLedgerService(repo, new(MockPlayerRepository), nil, 3)

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = service.Transfer(context.Background(), roomID, domain.PlayerParty(fromID), domain.PlayerParty(toID), decimal.NewFromInt(60))
		}(i)
	}
	wg.Wait()

	var succeeded, overdrawn int
	for _, err := range errs {
		if err == nil {
			succeeded++
		} else if errors.Is(err, apperrors.ErrInsufficientBalance) {
			overdrawn++
		} else {
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if succeeded != 1 || overdrawn != 1 {
		t.Fatalf("expected exactly one success and one insufficient-balance failure, got %d/%d", succeeded, overdrawn)
	}

	if got := repo.balances[fromID]; !got.Equal(decimal.NewFromInt(40)) {
		t.Fatalf("sender balance = %s, want 40", got)
	}
	if got := repo.balances[toID]; !got.Equal(decimal.NewFromInt(60)) {
		t.Fatalf("recipient balance = %s, want 60", got)
	}
	if len(repo.txns) != 1 {
		t.Fatalf("expected exactly one audit record, got %d", len(repo.txns))
	}
}

// TestLedger_GameSessionScenario walks one game evening end to end: a rent
// payment to the Bank, a bank pass, and a Free Parking pass against an
// empty pool.
func TestLedger_GameSessionScenario(t *testing.T) {
	roomID := uuid.NewString()
	aliceID := uuid.NewString()
	parkingID := uuid.NewString()

	repo := &fakeLockingLedgerRepo{
		roomID: roomID,
		balances: map[string]decimal.Decimal{
			aliceID:   decimal.NewFromInt(1500),
			parkingID: decimal.Zero,
		},
	}
	playerRepo := new(MockPlayerRepository)
	playerRepo.On("FindParkingPlayer", mock.Anything, roomID).
		Return(&domain.Player{PlayerID: parkingID, RoomID: roomID, Name: domain.FreeParkingName, IsParking: true}, nil)
	service := services.NewLedgerService(repo, playerRepo, nil, 3)
	ctx := context.Background()

	// Alice pays 200 to the Bank.
	txn, err := service.Transfer(ctx, roomID, domain.PlayerParty(aliceID), domain.BankParty(), decimal.NewFromInt(200))
	require.NoError(t, err)
	assert.Equal(t, domain.PlayerToBank, txn.Kind)
	assert.True(t, repo.balances[aliceID].Equal(decimal.NewFromInt(1300)), "balance after rent: %s", repo.balances[aliceID])

	// Alice collects 500 from the Bank.
	txn, err = service.BankPass(ctx, roomID, aliceID, decimal.NewFromInt(500))
	require.NoError(t, err)
	assert.Equal(t, domain.BankToPlayer, txn.Kind)
	assert.True(t, repo.balances[aliceID].Equal(decimal.NewFromInt(1800)), "balance after bank pass: %s", repo.balances[aliceID])

	// Free Parking holds nothing, so draining it must fail without touching
	// any balance.
	_, err = service.FreeParkingPass(ctx, roomID, aliceID, decimal.NewFromInt(50))
	require.ErrorIs(t, err, apperrors.ErrInsufficientBalance)
	assert.True(t, repo.balances[aliceID].Equal(decimal.NewFromInt(1800)))
	assert.True(t, repo.balances[parkingID].IsZero())

	// Paying a player that does not exist changes nothing either.
	_, err = service.Transfer(ctx, roomID, domain.PlayerParty(aliceID), domain.PlayerParty(uuid.NewString()), decimal.NewFromInt(10))
	require.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.True(t, repo.balances[aliceID].Equal(decimal.NewFromInt(1800)))

	assert.Len(t, repo.txns, 2)
}
