package services

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// BankPassSvcFacade implements the optional approval workflow for bank
// withdrawals. The default deployment executes bank passes directly through
// the ledger instead.
type BankPassSvcFacade interface {
	CreateRequest(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.BankPassRequest, error)

	// Confirm records the voter's acknowledgement. Once every other
	// non-parking player in the room has confirmed, the bank pass executes
	// and the request resolves to confirmed.
	Confirm(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error)

	// Reject resolves the request to rejected; no money moves.
	Reject(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error)

	ListPending(ctx context.Context, roomID string) ([]domain.BankPassRequest, error)
}
