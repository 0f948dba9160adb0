package domain

import "github.com/shopspring/decimal"

// GameConfig is the per-room configuration record. InitialBalance is granted
// to newly created players and may only change through an admin reset.
type GameConfig struct {
	RoomID         string          `json:"roomID"`
	InitialBalance decimal.Decimal `json:"initialBalance"` // strictly positive
}
