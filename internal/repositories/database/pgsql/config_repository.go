package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	"github.com/piconopoly/backend/internal/models"
)

type PgxConfigRepository struct {
	BaseRepository
}

// newPgxConfigRepository creates a new repository for per-room game config.
// Config rows are written through SaveRoom and ResetRoom only.
func newPgxConfigRepository(pool *pgxpool.Pool) portsrepo.ConfigRepositoryFacade {
	return &PgxConfigRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.ConfigRepositoryFacade = (*PgxConfigRepository)(nil)

// FindConfigByRoomID retrieves the config record of a room.
func (r *PgxConfigRepository) FindConfigByRoomID(ctx context.Context, roomID string) (*domain.GameConfig, error) {
	query := `SELECT room_id, initial_balance FROM game_config WHERE room_id = $1;`

	var m models.GameConfig
	err := r.Pool.QueryRow(ctx, query, roomID).Scan(&m.RoomID, &m.InitialBalance)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan game config row: %w", err)
	}
	return &domain.GameConfig{RoomID: m.RoomID, InitialBalance: m.InitialBalance}, nil
}
