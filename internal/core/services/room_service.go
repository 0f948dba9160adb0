package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/dto"
	"github.com/piconopoly/backend/internal/middleware"
	"github.com/piconopoly/backend/internal/utils"
	"github.com/shopspring/decimal"
)

// roomService handles the room lifecycle: creation, password verification,
// reset and deletion.
type roomService struct {
	roomRepo   portsrepo.RoomRepositoryFacade
	playerRepo portsrepo.PlayerRepositoryFacade
}

// NewRoomService creates a new RoomService.
func NewRoomService(roomRepo portsrepo.RoomRepositoryFacade, playerRepo portsrepo.PlayerRepositoryFacade) portssvc.RoomSvcFacade {
	return &roomService{
		roomRepo:   roomRepo,
		playerRepo: playerRepo,
	}
}

var _ portssvc.RoomSvcFacade = (*roomService)(nil)

// newParkingPlayer builds a fresh Free Parking player with a zero balance.
func newParkingPlayer(roomID string, now time.Time) domain.Player {
	return domain.Player{
		PlayerID:  uuid.NewString(),
		RoomID:    roomID,
		Name:      domain.FreeParkingName,
		Balance:   decimal.Zero,
		IsParking: true,
		CreatedAt: now,
	}
}

// CreateRoom creates a room and atomically provisions its config record and
// its singleton Free Parking player.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*domain.Room, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if req.InitialBalance.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: initial balance must be positive", apperrors.ErrValidation)
	}

	// Duplicate names are also guarded by a unique index; this check gives a
	// friendlier error before hashing two passwords.
	if existing, err := s.roomRepo.FindRoomByName(ctx, req.Name); err != nil && !errors.Is(err, apperrors.ErrNotFound) {
		logger.Error("Failed to check room name uniqueness", slog.String("error", err.Error()), slog.String("room_name", req.Name))
		return nil, fmt.Errorf("failed to check room name: %w", err)
	} else if existing != nil {
		return nil, fmt.Errorf("%w: room name %q is taken", apperrors.ErrDuplicate, req.Name)
	}

	joinHash, err := utils.HashPassword(req.JoinPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash join password: %w", err)
	}
	adminHash, err := utils.HashPassword(req.AdminPassword)
	if err != nil {
		return nil, fmt.Errorf("failed to hash admin password: %w", err)
	}

	now := time.Now().UTC()
	room := domain.Room{
		RoomID:            uuid.NewString(),
		Name:              req.Name,
		JoinPasswordHash:  joinHash,
		AdminPasswordHash: adminHash,
		CreatorID:         req.CreatorID,
		CreatedAt:         now,
	}
	config := domain.GameConfig{
		RoomID:         room.RoomID,
		InitialBalance: req.InitialBalance,
	}

	if err := s.roomRepo.SaveRoom(ctx, room, config, newParkingPlayer(room.RoomID, now)); err != nil {
		if errors.Is(err, apperrors.ErrDuplicate) {
			return nil, fmt.Errorf("%w: room name %q is taken", apperrors.ErrDuplicate, req.Name)
		}
		logger.Error("Failed to save room", slog.String("error", err.Error()), slog.String("room_name", req.Name))
		return nil, fmt.Errorf("failed to create room: %w", err)
	}

	logger.Info("Room created", slog.String("room_id", room.RoomID), slog.String("room_name", room.Name), slog.String("creator_id", room.CreatorID))
	return &room, nil
}

// GetRoom retrieves a room by id.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) GetRoom(ctx context.Context, roomID string) (*domain.Room, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find room", slog.String("error", err.Error()), slog.String("room_id", roomID))
		}
		return nil, err
	}
	return room, nil
}

// JoinRoom verifies the join password and returns the room. The handler
// issues the session token for a successful join.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) JoinRoom(ctx context.Context, roomID string, password string) (*domain.Room, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(password, room.JoinPasswordHash) {
		middleware.GetLoggerFromCtx(ctx).Warn("Join rejected: wrong password", slog.String("room_id", roomID))
		return nil, fmt.Errorf("%w: wrong room password", apperrors.ErrUnauthorized)
	}
	return room, nil
}

// VerifyRoomPassword reports whether the join password matches.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) VerifyRoomPassword(ctx context.Context, roomID string, password string) (bool, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	return utils.CheckPasswordHash(password, room.JoinPasswordHash), nil
}

// VerifyRoomAdminPassword reports whether the admin password matches.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) VerifyRoomAdminPassword(ctx context.Context, roomID string, password string) (bool, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return false, err
	}
	return utils.CheckPasswordHash(password, room.AdminPasswordHash), nil
}

// requireAdmin fetches the room and checks the admin credential.
func (s *roomService) requireAdmin(ctx context.Context, roomID string, adminPassword string) (*domain.Room, error) {
	room, err := s.roomRepo.FindRoomByID(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !utils.CheckPasswordHash(adminPassword, room.AdminPasswordHash) {
		middleware.GetLoggerFromCtx(ctx).Warn("Admin action rejected: wrong admin password", slog.String("room_id", roomID))
		return nil, fmt.Errorf("%w: wrong admin password", apperrors.ErrUnauthorized)
	}
	return room, nil
}

// ResetRoom wipes the room's players (keeping Free Parking, zeroed),
// transactions and pending requests as one atomic batch. The operation is
// idempotent: repeating it yields the same end state.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) ResetRoom(ctx context.Context, roomID string, adminPassword string, newInitialBalance *decimal.Decimal) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.requireAdmin(ctx, roomID, adminPassword); err != nil {
		return err
	}

	if newInitialBalance != nil && newInitialBalance.LessThanOrEqual(decimal.Zero) {
		return fmt.Errorf("%w: new initial balance must be positive", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	if err := s.roomRepo.ResetRoom(ctx, roomID, newInitialBalance, newParkingPlayer(roomID, now)); err != nil {
		logger.Error("Failed to reset room", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return fmt.Errorf("failed to reset room: %w", err)
	}

	logger.Info("Room reset", slog.String("room_id", roomID), slog.Bool("initial_balance_updated", newInitialBalance != nil))
	return nil
}

// DeleteRoom removes the room and everything scoped to it. Irreversible.
// Implements portssvc.RoomSvcFacade.
func (s *roomService) DeleteRoom(ctx context.Context, roomID string, adminPassword string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.requireAdmin(ctx, roomID, adminPassword); err != nil {
		return err
	}

	if err := s.roomRepo.DeleteRoom(ctx, roomID); err != nil {
		logger.Error("Failed to delete room", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return fmt.Errorf("failed to delete room: %w", err)
	}

	logger.Info("Room deleted", slog.String("room_id", roomID))
	return nil
}
