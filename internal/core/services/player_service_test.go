package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/core/services"
)

type PlayerServiceTestSuite struct {
	suite.Suite
	mockPlayerRepo *MockPlayerRepository
	mockRoomRepo   *MockRoomRepository
	mockConfigRepo *MockConfigRepository
	service        portssvc.PlayerSvcFacade
	roomID         string
}

func (suite *PlayerServiceTestSuite) SetupTest() {
	suite.mockPlayerRepo = new(MockPlayerRepository)
	suite.mockRoomRepo = new(MockRoomRepository)
	suite.mockConfigRepo = new(MockConfigRepository)
	suite.service = services.NewPlayerService(suite.mockPlayerRepo, suite.mockRoomRepo, suite.mockConfigRepo)
	suite.roomID = uuid.NewString()
}

func (suite *PlayerServiceTestSuite) expectRoomAndConfig(initialBalance decimal.Decimal) {
	ctx := context.Background()
	suite.mockRoomRepo.On("FindRoomByID", ctx, suite.roomID).
		Return(&domain.Room{RoomID: suite.roomID, Name: "Game Night"}, nil).Once()
	suite.mockConfigRepo.On("FindConfigByRoomID", ctx, suite.roomID).
		Return(&domain.GameConfig{RoomID: suite.roomID, InitialBalance: initialBalance}, nil).Once()
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_Success() {
	ctx := context.Background()
	initialBalance := decimal.NewFromInt(1500)
	suite.expectRoomAndConfig(initialBalance)
	suite.mockPlayerRepo.On("SavePlayer", ctx, mock.AnythingOfType("domain.Player")).Return(nil).Once()

	player, err := suite.service.CreatePlayer(ctx, suite.roomID, "Alice")

	suite.Require().NoError(err)
	suite.Require().NotNil(player)
	suite.NotEmpty(player.PlayerID)
	suite.Equal(suite.roomID, player.RoomID)
	suite.Equal("Alice", player.Name)
	suite.True(initialBalance.Equal(player.Balance))
	suite.False(player.IsParking)
	suite.WithinDuration(time.Now(), player.CreatedAt, time.Second)

	suite.mockPlayerRepo.AssertExpectations(suite.T())
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_TrimsName() {
	ctx := context.Background()
	suite.expectRoomAndConfig(decimal.NewFromInt(1500))
	suite.mockPlayerRepo.On("SavePlayer", ctx, mock.AnythingOfType("domain.Player")).Return(nil).Once()

	player, err := suite.service.CreatePlayer(ctx, suite.roomID, "  Bob  ")

	suite.Require().NoError(err)
	suite.Equal("Bob", player.Name)
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_RejectsEmptyName() {
	player, err := suite.service.CreatePlayer(context.Background(), suite.roomID, "   ")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(player)
	suite.mockPlayerRepo.AssertNotCalled(suite.T(), "SavePlayer", mock.Anything, mock.Anything)
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_RejectsReservedName() {
	player, err := suite.service.CreatePlayer(context.Background(), suite.roomID, domain.FreeParkingName)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrValidation)
	suite.Nil(player)
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_RoomNotFound() {
	ctx := context.Background()
	suite.mockRoomRepo.On("FindRoomByID", ctx, suite.roomID).Return(nil, apperrors.ErrNotFound).Once()

	player, err := suite.service.CreatePlayer(ctx, suite.roomID, "Alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(player)
}

func (suite *PlayerServiceTestSuite) TestCreatePlayer_DuplicateName() {
	ctx := context.Background()
	suite.expectRoomAndConfig(decimal.NewFromInt(1500))
	suite.mockPlayerRepo.On("SavePlayer", ctx, mock.AnythingOfType("domain.Player")).
		Return(apperrors.ErrDuplicate).Once()

	player, err := suite.service.CreatePlayer(ctx, suite.roomID, "Alice")

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrDuplicate)
	suite.Nil(player)
}

func (suite *PlayerServiceTestSuite) TestGetPlayer_Success() {
	ctx := context.Background()
	playerID := uuid.NewString()
	expected := &domain.Player{PlayerID: playerID, RoomID: suite.roomID, Name: "Alice", Balance: decimal.NewFromInt(1500)}

	suite.mockPlayerRepo.On("FindPlayerByID", ctx, playerID).Return(expected, nil).Once()

	player, err := suite.service.GetPlayer(ctx, suite.roomID, playerID)

	suite.Require().NoError(err)
	suite.Equal(expected, player)
}

func (suite *PlayerServiceTestSuite) TestGetPlayer_WrongRoomReportsNotFound() {
	ctx := context.Background()
	playerID := uuid.NewString()
	other := &domain.Player{PlayerID: playerID, RoomID: uuid.NewString(), Name: "Alice"}

	suite.mockPlayerRepo.On("FindPlayerByID", ctx, playerID).Return(other, nil).Once()

	player, err := suite.service.GetPlayer(ctx, suite.roomID, playerID)

	suite.Require().Error(err)
	suite.ErrorIs(err, apperrors.ErrNotFound)
	suite.Nil(player)
}

func (suite *PlayerServiceTestSuite) TestListPlayers_EmptyRoomReturnsEmptySlice() {
	ctx := context.Background()
	suite.mockPlayerRepo.On("ListPlayersByRoom", ctx, suite.roomID).Return([]domain.Player(nil), nil).Once()

	players, err := suite.service.ListPlayers(ctx, suite.roomID)

	suite.Require().NoError(err)
	suite.NotNil(players)
	suite.Empty(players)
}

func (suite *PlayerServiceTestSuite) TestGetFreeParkingPlayer() {
	ctx := context.Background()
	parking := &domain.Player{
		PlayerID:  uuid.NewString(),
		RoomID:    suite.roomID,
		Name:      domain.FreeParkingName,
		Balance:   decimal.NewFromInt(250),
		IsParking: true,
	}
	suite.mockPlayerRepo.On("FindParkingPlayer", ctx, suite.roomID).Return(parking, nil).Once()

	got, err := suite.service.GetFreeParkingPlayer(ctx, suite.roomID)

	suite.Require().NoError(err)
	suite.Equal(parking, got)
}

func TestPlayerServiceTestSuite(t *testing.T) {
	suite.Run(t, new(PlayerServiceTestSuite))
}
