package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Player mirrors the players table.
type Player struct {
	PlayerID  string          `db:"player_id"`
	RoomID    string          `db:"room_id"`
	Name      string          `db:"name"`
	Balance   decimal.Decimal `db:"balance"`
	IsParking bool            `db:"is_parking"`
	CreatedAt time.Time       `db:"created_at"`
}
