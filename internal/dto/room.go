package dto

import (
	"time"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateRoomRequest defines the data needed to create a new room.
type CreateRoomRequest struct {
	Name           string          `json:"name" binding:"required"`
	JoinPassword   string          `json:"joinPassword" binding:"required"`
	AdminPassword  string          `json:"adminPassword" binding:"required"`
	CreatorID      string          `json:"creatorID" binding:"required"`
	InitialBalance decimal.Decimal `json:"initialBalance" binding:"required"`
}

// JoinRoomRequest carries the join password for an existing room.
type JoinRoomRequest struct {
	Password string `json:"password" binding:"required"`
}

// ResetRoomRequest wipes the room state. NewInitialBalance is optional; when
// provided and positive it replaces the config value.
type ResetRoomRequest struct {
	AdminPassword     string           `json:"adminPassword" binding:"required"`
	NewInitialBalance *decimal.Decimal `json:"newInitialBalance"`
}

// DeleteRoomRequest carries the admin credential for an irreversible delete.
type DeleteRoomRequest struct {
	AdminPassword string `json:"adminPassword" binding:"required"`
}

// RoomResponse defines the data returned for a room. Password hashes are
// never exposed.
type RoomResponse struct {
	RoomID    string    `json:"roomID"`
	Name      string    `json:"name"`
	CreatorID string    `json:"creatorID"`
	CreatedAt time.Time `json:"createdAt"`
}

// SessionResponse is returned on create/join: the room plus a room-scoped
// session token.
type SessionResponse struct {
	Room      RoomResponse `json:"room"`
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expiresAt"`
}

// ToRoomResponse converts a domain.Room to RoomResponse.
func ToRoomResponse(room *domain.Room) RoomResponse {
	return RoomResponse{
		RoomID:    room.RoomID,
		Name:      room.Name,
		CreatorID: room.CreatorID,
		CreatedAt: room.CreatedAt,
	}
}
