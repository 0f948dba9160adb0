package pgsql

import (
	"github.com/jackc/pgx/v5/pgxpool"

	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
)

// NewRepositoryProvider wires every pgsql repository over one shared pool.
func NewRepositoryProvider(pool *pgxpool.Pool) portsrepo.RepositoryProvider {
	playerRepo := newPgxPlayerRepository(pool)
	return portsrepo.RepositoryProvider{
		RoomRepo:     newPgxRoomRepository(pool),
		PlayerRepo:   playerRepo,
		ConfigRepo:   newPgxConfigRepository(pool),
		LedgerRepo:   newPgxLedgerRepository(pool, playerRepo),
		BankPassRepo: newPgxBankPassRepository(pool),
	}
}
