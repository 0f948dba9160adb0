package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/middleware"
)

// playerService manages room-scoped player accounts.
type playerService struct {
	playerRepo portsrepo.PlayerRepositoryFacade
	roomRepo   portsrepo.RoomRepositoryFacade
	configRepo portsrepo.ConfigRepositoryFacade
}

// NewPlayerService creates a new PlayerService.
func NewPlayerService(playerRepo portsrepo.PlayerRepositoryFacade, roomRepo portsrepo.RoomRepositoryFacade, configRepo portsrepo.ConfigRepositoryFacade) portssvc.PlayerSvcFacade {
	return &playerService{
		playerRepo: playerRepo,
		roomRepo:   roomRepo,
		configRepo: configRepo,
	}
}

var _ portssvc.PlayerSvcFacade = (*playerService)(nil)

// CreatePlayer creates a player in the room with the configured initial
// balance.
// Implements portssvc.PlayerSvcFacade.
func (s *playerService) CreatePlayer(ctx context.Context, roomID string, name string) (*domain.Player, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: player name must not be empty", apperrors.ErrValidation)
	}
	if name == domain.FreeParkingName {
		return nil, fmt.Errorf("%w: %q is a reserved name", apperrors.ErrValidation, domain.FreeParkingName)
	}

	if _, err := s.roomRepo.FindRoomByID(ctx, roomID); err != nil {
		return nil, err
	}

	config, err := s.configRepo.FindConfigByRoomID(ctx, roomID)
	if err != nil {
		logger.Error("Failed to load game config", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to load game config: %w", err)
	}

	player := domain.Player{
		PlayerID:  uuid.NewString(),
		RoomID:    roomID,
		Name:      name,
		Balance:   config.InitialBalance,
		CreatedAt: time.Now().UTC(),
	}

	if err := s.playerRepo.SavePlayer(ctx, player); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: name %q is taken in this room", apperrors.ErrDuplicate, name)
		}
		logger.Error("Failed to save player", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to create player: %w", err)
	}

	logger.Info("Player created",
		slog.String("player_id", player.PlayerID),
		slog.String("room_id", roomID),
		slog.String("initial_balance", player.Balance.String()))
	return &player, nil
}

// GetPlayer retrieves a player within the room scope.
// Implements portssvc.PlayerSvcFacade.
func (s *playerService) GetPlayer(ctx context.Context, roomID string, playerID string) (*domain.Player, error) {
	player, err := s.playerRepo.FindPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.RoomID != roomID {
		// Obscure existence across rooms.
		return nil, apperrors.ErrNotFound
	}
	return player, nil
}

// ListPlayers retrieves all players of a room, Free Parking included.
// Implements portssvc.PlayerSvcFacade.
func (s *playerService) ListPlayers(ctx context.Context, roomID string) ([]domain.Player, error) {
	players, err := s.playerRepo.ListPlayersByRoom(ctx, roomID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list players", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to list players: %w", err)
	}
	if players == nil {
		players = []domain.Player{}
	}
	return players, nil
}

// GetFreeParkingPlayer retrieves the room's pooled Free Parking account.
// Implements portssvc.PlayerSvcFacade.
func (s *playerService) GetFreeParkingPlayer(ctx context.Context, roomID string) (*domain.Player, error) {
	parking, err := s.playerRepo.FindParkingPlayer(ctx, roomID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find free parking player", slog.String("error", err.Error()), slog.String("room_id", roomID))
		}
		return nil, err
	}
	return parking, nil
}
