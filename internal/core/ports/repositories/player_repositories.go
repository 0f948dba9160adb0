package repositories

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// PlayerRepositoryFacade is the persistence contract for room-scoped players.
// The InTx methods participate in a caller-owned transaction; they exist so
// the ledger can lock and mutate balances inside its atomic unit.
type PlayerRepositoryFacade interface {
	SavePlayer(ctx context.Context, player domain.Player) error
	FindPlayerByID(ctx context.Context, playerID string) (*domain.Player, error)
	FindParkingPlayer(ctx context.Context, roomID string) (*domain.Player, error)
	ListPlayersByRoom(ctx context.Context, roomID string) ([]domain.Player, error)

	// FindPlayersByIDsForUpdate locks the given player rows (ordered by id to
	// avoid lock cycles) and returns them keyed by player id. Missing rows are
	// reported as ErrNotFound. Must be called within a transaction.
	FindPlayersByIDsForUpdate(ctx context.Context, tx pgx.Tx, playerIDs []string) (map[string]domain.Player, error)

	// ApplyBalanceChangesInTx adds each delta to the matching player balance.
	// Rows must already be locked by FindPlayersByIDsForUpdate.
	ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error
}
