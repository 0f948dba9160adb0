package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// FreeParkingName is the reserved display name of the pooled Free Parking
// account. Exactly one such player exists per room and it survives resets.
const FreeParkingName = "Free Parking"

// Player is a room-scoped account holding a balance. Balances are mutated
// exclusively by the ledger transfer primitive and never go below zero.
type Player struct {
	PlayerID  string          `json:"playerID"`
	RoomID    string          `json:"roomID"`
	Name      string          `json:"name"` // unique within the room
	Balance   decimal.Decimal `json:"balance"`
	IsParking bool            `json:"isParking"` // marks the Free Parking pooled account
	CreatedAt time.Time       `json:"createdAt"`
}
