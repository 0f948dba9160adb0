package services

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/piconopoly/backend/internal/dto"
	"github.com/shopspring/decimal"
)

// LedgerSvcFacade is the only sanctioned path for mutating balances. Every
// successful operation commits atomically and appends exactly one
// transaction record.
type LedgerSvcFacade interface {
	// Transfer moves amount between two parties of the room. Either side may
	// be the symbolic Bank, but not both, and a party cannot pay itself.
	Transfer(ctx context.Context, roomID string, from, to domain.PartyRef, amount decimal.Decimal) (*domain.Transaction, error)

	// BankPass mints amount from the Bank to the player (direct execute).
	BankPass(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.Transaction, error)

	// FreeParkingPass drains amount from the room's Free Parking pool to the
	// player. The pool balance is re-validated inside the atomic unit.
	FreeParkingPass(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.Transaction, error)

	GetTransaction(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error)
	ListTransactions(ctx context.Context, roomID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error)
}
