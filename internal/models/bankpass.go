package models

import (
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
)

// BankPassRequest mirrors the bank_pass_requests table. Confirmations and
// rejections are text[] columns.
type BankPassRequest struct {
	RequestID       string          `db:"request_id"`
	RoomID          string          `db:"room_id"`
	RequestedBy     string          `db:"requested_by"`
	RequestedByName string          `db:"requested_by_name"`
	Amount          decimal.Decimal `db:"amount"`
	Status          string          `db:"status"`
	Confirmations   []string        `db:"confirmations"`
	Rejections      []string        `db:"rejections"`
	CreatedAt       time.Time       `db:"created_at"`
	ResolvedAt      sql.NullTime    `db:"resolved_at"`
}
