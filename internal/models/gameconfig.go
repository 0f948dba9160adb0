package models

import "github.com/shopspring/decimal"

// GameConfig mirrors the game_config table (one row per room).
type GameConfig struct {
	RoomID         string          `db:"room_id"`
	InitialBalance decimal.Decimal `db:"initial_balance"`
}
