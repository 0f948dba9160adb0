package repositories

import (
	"context"
	"time"

	"github.com/piconopoly/backend/internal/core/domain"
)

// BankPassRepositoryFacade is the persistence contract for the optional
// bank pass approval workflow. Every mutation is guarded on the request
// still being pending, so a request resolves at most once no matter how many
// votes race.
type BankPassRepositoryFacade interface {
	SaveRequest(ctx context.Context, req domain.BankPassRequest) error
	FindRequestByID(ctx context.Context, roomID string, requestID string) (*domain.BankPassRequest, error)
	ListPendingByRoom(ctx context.Context, roomID string) ([]domain.BankPassRequest, error)

	// AddConfirmation appends the voter to the confirmation list of a still
	// pending request and returns the updated request. Recording the same
	// voter twice is a no-op. ErrConflict when the request is already
	// resolved, ErrNotFound when it does not exist.
	AddConfirmation(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error)

	// ResolveConfirmed transitions the request from pending to confirmed.
	// Exactly one caller wins the transition; concurrent callers get
	// ErrConflict and must not execute the withdrawal.
	ResolveConfirmed(ctx context.Context, roomID string, requestID string, resolvedAt time.Time) (*domain.BankPassRequest, error)

	// ResolveRejected transitions the request from pending to rejected,
	// recording the rejecting vote. ErrConflict when already resolved.
	ResolveRejected(ctx context.Context, roomID string, requestID string, voterID string, resolvedAt time.Time) (*domain.BankPassRequest, error)
}
