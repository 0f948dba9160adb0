package repositories

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// RoomRepositoryFacade is the persistence contract for rooms. Provisioning,
// reset and delete are multi-record operations and must be atomic.
type RoomRepositoryFacade interface {
	// SaveRoom inserts the room together with its config record and its
	// singleton Free Parking player in one transaction.
	SaveRoom(ctx context.Context, room domain.Room, config domain.GameConfig, parking domain.Player) error

	FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error)
	FindRoomByName(ctx context.Context, name string) (*domain.Room, error)

	// ResetRoom atomically deletes every non-parking player, every transaction
	// and every bank pass request in the room, zeroes the parking balance
	// (inserting freshParking if the row is somehow absent), and updates the
	// config initial balance when newInitialBalance is non-nil.
	ResetRoom(ctx context.Context, roomID string, newInitialBalance *decimal.Decimal, freshParking domain.Player) error

	// DeleteRoom atomically removes the room and all data scoped to it.
	DeleteRoom(ctx context.Context, roomID string) error
}
