package services

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/dto"
	"github.com/shopspring/decimal"
)

// RoomSvcFacade manages the room lifecycle: creation, password verification,
// reset and deletion.
type RoomSvcFacade interface {
	CreateRoom(ctx context.Context, req dto.CreateRoomRequest) (*domain.Room, error)
	GetRoom(ctx context.Context, roomID string) (*domain.Room, error)

	// JoinRoom verifies the join password and returns the room. Session token
	// issuance is the token service's concern.
	JoinRoom(ctx context.Context, roomID string, password string) (*domain.Room, error)

	VerifyRoomPassword(ctx context.Context, roomID string, password string) (bool, error)
	VerifyRoomAdminPassword(ctx context.Context, roomID string, password string) (bool, error)

	ResetRoom(ctx context.Context, roomID string, adminPassword string, newInitialBalance *decimal.Decimal) error
	DeleteRoom(ctx context.Context, roomID string, adminPassword string) error
}
