package pgsql

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	"github.com/piconopoly/backend/internal/models"
)

type PgxRoomRepository struct {
	BaseRepository
}

// newPgxRoomRepository creates a new repository for room data.
func newPgxRoomRepository(pool *pgxpool.Pool) portsrepo.RoomRepositoryFacade {
	return &PgxRoomRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.RoomRepositoryFacade = (*PgxRoomRepository)(nil)

func toModelRoom(d domain.Room) models.Room {
	return models.Room{
		RoomID:            d.RoomID,
		Name:              d.Name,
		JoinPasswordHash:  d.JoinPasswordHash,
		AdminPasswordHash: d.AdminPasswordHash,
		CreatorID:         d.CreatorID,
		CreatedAt:         d.CreatedAt,
	}
}

func toDomainRoom(m models.Room) domain.Room {
	return domain.Room{
		RoomID:            m.RoomID,
		Name:              m.Name,
		JoinPasswordHash:  m.JoinPasswordHash,
		AdminPasswordHash: m.AdminPasswordHash,
		CreatorID:         m.CreatorID,
		CreatedAt:         m.CreatedAt,
	}
}

const roomColumns = `room_id, name, join_password_hash, admin_password_hash, creator_id, created_at`

func scanRoom(row pgx.Row) (*domain.Room, error) {
	var m models.Room
	err := row.Scan(&m.RoomID, &m.Name, &m.JoinPasswordHash, &m.AdminPasswordHash, &m.CreatorID, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan room row: %w", err)
	}
	d := toDomainRoom(m)
	return &d, nil
}

// SaveRoom inserts the room, its config record and its Free Parking player in
// one transaction so a half-provisioned room is never visible.
func (r *PgxRoomRepository) SaveRoom(ctx context.Context, room domain.Room, config domain.GameConfig, parking domain.Player) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin room provisioning: %w", err)
	}
	defer r.Rollback(ctx, tx)

	m := toModelRoom(room)
	roomQuery := `
		INSERT INTO rooms (room_id, name, join_password_hash, admin_password_hash, creator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	_, err = tx.Exec(ctx, roomQuery, m.RoomID, m.Name, m.JoinPasswordHash, m.AdminPasswordHash, m.CreatorID, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: room name %q", apperrors.ErrDuplicate, m.Name)
		}
		return fmt.Errorf("failed to save room %s: %w", m.RoomID, err)
	}

	configQuery := `INSERT INTO game_config (room_id, initial_balance) VALUES ($1, $2);`
	if _, err = tx.Exec(ctx, configQuery, config.RoomID, config.InitialBalance); err != nil {
		return fmt.Errorf("failed to save config for room %s: %w", m.RoomID, err)
	}

	p := toModelPlayer(parking)
	playerQuery := `
		INSERT INTO players (player_id, room_id, name, balance, is_parking, created_at)
		VALUES ($1, $2, $3, $4, $5, $6);
	`
	if _, err = tx.Exec(ctx, playerQuery, p.PlayerID, p.RoomID, p.Name, p.Balance, p.IsParking, p.CreatedAt); err != nil {
		return fmt.Errorf("failed to save parking player for room %s: %w", m.RoomID, err)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return fmt.Errorf("failed to commit room provisioning for %s: %w", m.RoomID, err)
	}
	return nil
}

// FindRoomByID retrieves a room by its ID.
func (r *PgxRoomRepository) FindRoomByID(ctx context.Context, roomID string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE room_id = $1;`
	return scanRoom(r.Pool.QueryRow(ctx, query, roomID))
}

// FindRoomByName retrieves a room by its unique name.
func (r *PgxRoomRepository) FindRoomByName(ctx context.Context, name string) (*domain.Room, error) {
	query := `SELECT ` + roomColumns + ` FROM rooms WHERE name = $1;`
	return scanRoom(r.Pool.QueryRow(ctx, query, name))
}

// ResetRoom restores a room to its just-created state in one transaction:
// non-parking players, transactions and bank pass requests are deleted, the
// parking balance is zeroed, and the config initial balance is updated when a
// new value is supplied.
func (r *PgxRoomRepository) ResetRoom(ctx context.Context, roomID string, newInitialBalance *decimal.Decimal, freshParking domain.Player) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return mapConflict(fmt.Errorf("failed to begin room reset: %w", err))
	}
	defer r.Rollback(ctx, tx)

	var exists bool
	if err := tx.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM rooms WHERE room_id = $1 FOR UPDATE);`, roomID).Scan(&exists); err != nil {
		return mapConflict(fmt.Errorf("failed to lock room %s for reset: %w", roomID, err))
	}
	if !exists {
		return fmt.Errorf("%w: room %s", apperrors.ErrNotFound, roomID)
	}

	if _, err := tx.Exec(ctx, `DELETE FROM bank_pass_requests WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to clear bank pass requests for room %s: %w", roomID, err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to clear transactions for room %s: %w", roomID, err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM players WHERE room_id = $1 AND NOT is_parking;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to clear players for room %s: %w", roomID, err))
	}

	ct, err := tx.Exec(ctx, `UPDATE players SET balance = 0 WHERE room_id = $1 AND is_parking;`, roomID)
	if err != nil {
		return mapConflict(fmt.Errorf("failed to zero parking balance for room %s: %w", roomID, err))
	}
	if ct.RowsAffected() == 0 {
		p := toModelPlayer(freshParking)
		insertQuery := `
			INSERT INTO players (player_id, room_id, name, balance, is_parking, created_at)
			VALUES ($1, $2, $3, $4, $5, $6);
		`
		if _, err := tx.Exec(ctx, insertQuery, p.PlayerID, p.RoomID, p.Name, p.Balance, p.IsParking, p.CreatedAt); err != nil {
			return mapConflict(fmt.Errorf("failed to recreate parking player for room %s: %w", roomID, err))
		}
	}

	if newInitialBalance != nil {
		if _, err := tx.Exec(ctx, `UPDATE game_config SET initial_balance = $2 WHERE room_id = $1;`, roomID, *newInitialBalance); err != nil {
			return mapConflict(fmt.Errorf("failed to update initial balance for room %s: %w", roomID, err))
		}
	}

	if err := r.Commit(ctx, tx); err != nil {
		return mapConflict(fmt.Errorf("failed to commit reset of room %s: %w", roomID, err))
	}
	return nil
}

// DeleteRoom removes the room and everything scoped to it in one transaction.
func (r *PgxRoomRepository) DeleteRoom(ctx context.Context, roomID string) error {
	tx, err := r.Begin(ctx)
	if err != nil {
		return mapConflict(fmt.Errorf("failed to begin room delete: %w", err))
	}
	defer r.Rollback(ctx, tx)

	if _, err := tx.Exec(ctx, `DELETE FROM bank_pass_requests WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to delete bank pass requests for room %s: %w", roomID, err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM transactions WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to delete transactions for room %s: %w", roomID, err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM players WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to delete players for room %s: %w", roomID, err))
	}
	if _, err := tx.Exec(ctx, `DELETE FROM game_config WHERE room_id = $1;`, roomID); err != nil {
		return mapConflict(fmt.Errorf("failed to delete config for room %s: %w", roomID, err))
	}

	ct, err := tx.Exec(ctx, `DELETE FROM rooms WHERE room_id = $1;`, roomID)
	if err != nil {
		return mapConflict(fmt.Errorf("failed to delete room %s: %w", roomID, err))
	}
	if ct.RowsAffected() == 0 {
		return fmt.Errorf("%w: room %s", apperrors.ErrNotFound, roomID)
	}

	if err := r.Commit(ctx, tx); err != nil {
		return mapConflict(fmt.Errorf("failed to commit delete of room %s: %w", roomID, err))
	}
	return nil
}
