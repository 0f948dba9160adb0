package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransferKind classifies a transfer by its endpoints.
type TransferKind string

const (
	PlayerToPlayer TransferKind = "player-to-player"
	PlayerToBank   TransferKind = "player-to-bank"
	BankToPlayer   TransferKind = "bank-to-player"
)

// KindOf derives the classification from the two endpoints. At least one
// side must be a real player; Bank-to-Bank transfers are rejected upstream.
func KindOf(from, to PartyRef) TransferKind {
	switch {
	case from.IsBank():
		return BankToPlayer
	case to.IsBank():
		return PlayerToBank
	default:
		return PlayerToPlayer
	}
}

// Transaction is the immutable audit record of one successful transfer.
// Exactly one is written per transfer; it is never updated, and deleted only
// by whole-room reset or delete.
type Transaction struct {
	TransactionID string          `json:"transactionID"`
	RoomID        string          `json:"roomID"`
	FromRef       string          `json:"fromRef"` // player id or "BANK"
	ToRef         string          `json:"toRef"`   // player id or "BANK"
	Amount        decimal.Decimal `json:"amount"`  // strictly positive
	Kind          TransferKind    `json:"kind"`
	CreatedAt     time.Time       `json:"createdAt"` // server-assigned
}
