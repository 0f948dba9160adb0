package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Transaction mirrors the transactions table. from_ref and to_ref hold either
// a player id or the literal "BANK".
type Transaction struct {
	TransactionID string          `db:"transaction_id"`
	RoomID        string          `db:"room_id"`
	FromRef       string          `db:"from_ref"`
	ToRef         string          `db:"to_ref"`
	Amount        decimal.Decimal `db:"amount"`
	Kind          string          `db:"kind"`
	CreatedAt     time.Time       `db:"created_at"`
}
