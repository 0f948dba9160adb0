package repositories

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// LedgerRepositoryFacade is the persistence contract for transfers and their
// audit records.
type LedgerRepositoryFacade interface {
	// SaveTransfer applies the balance changes and appends the transaction
	// record as a single atomic unit: lock the involved player rows, validate
	// room scope and that no non-Bank balance would go negative, mutate, and
	// insert. Returns the post-commit balances of the affected players.
	// Failure modes: ErrNotFound (player missing or wrong room),
	// ErrInsufficientBalance, ErrTransientConflict (serialization abort,
	// retryable by the caller).
	SaveTransfer(ctx context.Context, txn domain.Transaction, changes map[string]decimal.Decimal) (map[string]decimal.Decimal, error)

	FindTransactionByID(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error)

	// ListTransactionsByRoom returns transactions newest first with
	// token-based pagination.
	ListTransactionsByRoom(ctx context.Context, roomID string, limit int, nextToken *string) ([]domain.Transaction, *string, error)
}
