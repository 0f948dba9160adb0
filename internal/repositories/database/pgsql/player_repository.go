package pgsql

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	"github.com/piconopoly/backend/internal/models"
)

type PgxPlayerRepository struct {
	BaseRepository
}

// newPgxPlayerRepository creates a new repository for player data. It returns
// the concrete type because the ledger repository shares its row locking.
func newPgxPlayerRepository(pool *pgxpool.Pool) *PgxPlayerRepository {
	return &PgxPlayerRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.PlayerRepositoryFacade = (*PgxPlayerRepository)(nil)

func toModelPlayer(d domain.Player) models.Player {
	return models.Player{
		PlayerID:  d.PlayerID,
		RoomID:    d.RoomID,
		Name:      d.Name,
		Balance:   d.Balance,
		IsParking: d.IsParking,
		CreatedAt: d.CreatedAt,
	}
}

func toDomainPlayer(m models.Player) domain.Player {
	return domain.Player{
		PlayerID:  m.PlayerID,
		RoomID:    m.RoomID,
		Name:      m.Name,
		Balance:   m.Balance,
		IsParking: m.IsParking,
		CreatedAt: m.CreatedAt,
	}
}

const playerColumns = `player_id, room_id, name, balance, is_parking, created_at`

func scanPlayer(row pgx.Row) (*domain.Player, error) {
	var m models.Player
	err := row.Scan(&m.PlayerID, &m.RoomID, &m.Name, &m.Balance, &m.IsParking, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan player row: %w", err)
	}
	p := toDomainPlayer(m)
	return &p, nil
}

// SavePlayer inserts a new player.
func (r *PgxPlayerRepository) SavePlayer(ctx context.Context, player domain.Player) error {
	m := toModelPlayer(player)

	query := `
		INSERT INTO players (player_id, room_id, name, balance, is_parking, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err := r.Pool.Exec(ctx, query, m.PlayerID, m.RoomID, m.Name, m.Balance, m.IsParking, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: player name %q in room %s", apperrors.ErrDuplicate, m.Name, m.RoomID)
		}
		return fmt.Errorf("failed to save player %s: %w", m.PlayerID, err)
	}
	return nil
}

// FindPlayerByID retrieves a player by its ID.
func (r *PgxPlayerRepository) FindPlayerByID(ctx context.Context, playerID string) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE player_id = $1;`
	return scanPlayer(r.Pool.QueryRow(ctx, query, playerID))
}

// FindParkingPlayer retrieves the room's Free Parking player.
func (r *PgxPlayerRepository) FindParkingPlayer(ctx context.Context, roomID string) (*domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE room_id = $1 AND is_parking;`
	return scanPlayer(r.Pool.QueryRow(ctx, query, roomID))
}

// ListPlayersByRoom retrieves all players of a room in creation order.
func (r *PgxPlayerRepository) ListPlayersByRoom(ctx context.Context, roomID string) ([]domain.Player, error) {
	query := `SELECT ` + playerColumns + ` FROM players WHERE room_id = $1 ORDER BY created_at, player_id;`

	rows, err := r.Pool.Query(ctx, query, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for room %s: %w", roomID, err)
	}
	defer rows.Close()

	var players []domain.Player
	for rows.Next() {
		var m models.Player
		if err := rows.Scan(&m.PlayerID, &m.RoomID, &m.Name, &m.Balance, &m.IsParking, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, toDomainPlayer(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player rows: %w", err)
	}
	return players, nil
}

// FindPlayersByIDsForUpdate retrieves the given players and locks their rows.
// Rows are locked in id order so that concurrent transfers touching the same
// pair cannot deadlock. Must be called within a transaction.
func (r *PgxPlayerRepository) FindPlayersByIDsForUpdate(ctx context.Context, tx pgx.Tx, playerIDs []string) (map[string]domain.Player, error) {
	if len(playerIDs) == 0 {
		return map[string]domain.Player{}, nil
	}

	sorted := make([]string, len(playerIDs))
	copy(sorted, playerIDs)
	sort.Strings(sorted)

	query := `
		SELECT ` + playerColumns + `
		FROM players
		WHERE player_id = ANY($1)
		ORDER BY player_id
		FOR UPDATE;
	`
	rows, err := tx.Query(ctx, query, sorted)
	if err != nil {
		return nil, mapConflict(fmt.Errorf("failed to lock player rows: %w", err))
	}
	defer rows.Close()

	playersMap := make(map[string]domain.Player, len(sorted))
	for rows.Next() {
		var m models.Player
		if err := rows.Scan(&m.PlayerID, &m.RoomID, &m.Name, &m.Balance, &m.IsParking, &m.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan locked player row: %w", err)
		}
		playersMap[m.PlayerID] = toDomainPlayer(m)
	}
	if err := rows.Err(); err != nil {
		return nil, mapConflict(fmt.Errorf("error iterating locked player rows: %w", err))
	}

	if len(playersMap) != len(sorted) {
		for _, id := range sorted {
			if _, ok := playersMap[id]; !ok {
				return nil, fmt.Errorf("%w: player %s", apperrors.ErrNotFound, id)
			}
		}
	}
	return playersMap, nil
}

// ApplyBalanceChangesInTx adds each delta to the matching player balance.
// The rows must already be locked by FindPlayersByIDsForUpdate.
func (r *PgxPlayerRepository) ApplyBalanceChangesInTx(ctx context.Context, tx pgx.Tx, changes map[string]decimal.Decimal) error {
	if len(changes) == 0 {
		return nil
	}

	query := `UPDATE players SET balance = balance + $2 WHERE player_id = $1;`

	batch := &pgx.Batch{}
	playerIDs := make([]string, 0, len(changes))
	for playerID, delta := range changes {
		if delta.IsZero() {
			continue
		}
		batch.Queue(query, playerID, delta)
		playerIDs = append(playerIDs, playerID)
	}
	if batch.Len() == 0 {
		return nil
	}

	br := tx.SendBatch(ctx, batch)
	var batchErr error
	for i := 0; i < batch.Len(); i++ {
		ct, err := br.Exec()
		if err != nil {
			if batchErr == nil {
				batchErr = mapConflict(fmt.Errorf("failed to update balance for player %s: %w", playerIDs[i], err))
			}
		} else if ct.RowsAffected() == 0 && batchErr == nil {
			batchErr = fmt.Errorf("%w: player %s during balance update", apperrors.ErrNotFound, playerIDs[i])
		}
	}
	if err := br.Close(); err != nil && batchErr == nil {
		batchErr = mapConflict(fmt.Errorf("failed to close balance update batch: %w", err))
	}
	return batchErr
}
