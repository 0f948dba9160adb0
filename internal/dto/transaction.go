package dto

import (
	"time"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// TransferRequest moves money between two parties. From and To are each a
// player id or the literal "BANK".
type TransferRequest struct {
	From   string          `json:"from" binding:"required"`
	To     string          `json:"to" binding:"required"`
	Amount decimal.Decimal `json:"amount" binding:"required"`
}

// BankPassRequest collects money directly from the Bank.
type BankPassRequest struct {
	PlayerID string          `json:"playerID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// FreeParkingPassRequest drains the Free Parking pool to a player.
type FreeParkingPassRequest struct {
	PlayerID string          `json:"playerID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// TransactionResponse defines the data returned for a transaction record.
type TransactionResponse struct {
	TransactionID string              `json:"transactionID"`
	RoomID        string              `json:"roomID"`
	FromRef       string              `json:"fromRef"`
	ToRef         string              `json:"toRef"`
	Amount        decimal.Decimal     `json:"amount"`
	Kind          domain.TransferKind `json:"kind"`
	CreatedAt     time.Time           `json:"createdAt"`
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	Limit     int     `form:"limit,default=20"`
	NextToken *string `form:"nextToken"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	NextToken    *string               `json:"nextToken,omitempty"`
}

// ToTransactionResponse converts a domain.Transaction to its response DTO.
func ToTransactionResponse(t *domain.Transaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		RoomID:        t.RoomID,
		FromRef:       t.FromRef,
		ToRef:         t.ToRef,
		Amount:        t.Amount,
		Kind:          t.Kind,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of transactions to response DTOs.
func ToTransactionResponses(txns []domain.Transaction) []TransactionResponse {
	res := make([]TransactionResponse, len(txns))
	for i, t := range txns {
		res[i] = ToTransactionResponse(&t)
	}
	return res
}
