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
	"github.com/piconopoly/backend/internal/utils/pagination"
)

type PgxLedgerRepository struct {
	BaseRepository
	playerRepo *PgxPlayerRepository
}

// newPgxLedgerRepository creates a new repository for transfers and their
// audit records. It shares the player repository for row locking.
func newPgxLedgerRepository(pool *pgxpool.Pool, playerRepo *PgxPlayerRepository) portsrepo.LedgerRepositoryFacade {
	return &PgxLedgerRepository{
		BaseRepository: BaseRepository{Pool: pool},
		playerRepo:     playerRepo,
	}
}

var _ portsrepo.LedgerRepositoryFacade = (*PgxLedgerRepository)(nil)

func toModelTransaction(d domain.Transaction) models.Transaction {
	return models.Transaction{
		TransactionID: d.TransactionID,
		RoomID:        d.RoomID,
		FromRef:       d.FromRef,
		ToRef:         d.ToRef,
		Amount:        d.Amount,
		Kind:          string(d.Kind),
		CreatedAt:     d.CreatedAt,
	}
}

func toDomainTransaction(m models.Transaction) domain.Transaction {
	return domain.Transaction{
		TransactionID: m.TransactionID,
		RoomID:        m.RoomID,
		FromRef:       m.FromRef,
		ToRef:         m.ToRef,
		Amount:        m.Amount,
		Kind:          domain.TransferKind(m.Kind),
		CreatedAt:     m.CreatedAt,
	}
}

const transactionColumns = `transaction_id, room_id, from_ref, to_ref, amount, kind, created_at`

// SaveTransfer applies the balance changes and appends the audit record in one
// transaction. The involved player rows are locked up front in id order, then
// re-read values are validated before any mutation: every player must belong
// to the transfer's room, and no balance may go negative.
func (r *PgxLedgerRepository) SaveTransfer(ctx context.Context, txn domain.Transaction, changes map[string]decimal.Decimal) (map[string]decimal.Decimal, error) {
	tx, err := r.Begin(ctx)
	if err != nil {
		return nil, mapConflict(fmt.Errorf("failed to begin transfer transaction: %w", err))
	}
	defer r.Rollback(ctx, tx)

	playerIDs := make([]string, 0, len(changes))
	for playerID := range changes {
		playerIDs = append(playerIDs, playerID)
	}

	locked, err := r.playerRepo.FindPlayersByIDsForUpdate(ctx, tx, playerIDs)
	if err != nil {
		return nil, err
	}

	balances := make(map[string]decimal.Decimal, len(changes))
	for playerID, delta := range changes {
		player := locked[playerID]
		if player.RoomID != txn.RoomID {
			return nil, fmt.Errorf("%w: player %s not in room %s", apperrors.ErrNotFound, playerID, txn.RoomID)
		}
		next := player.Balance.Add(delta)
		if next.IsNegative() {
			return nil, fmt.Errorf("%w: player %s has %s, needs %s", apperrors.ErrInsufficientBalance, playerID, player.Balance, delta.Neg())
		}
		balances[playerID] = next
	}

	if err := r.playerRepo.ApplyBalanceChangesInTx(ctx, tx, changes); err != nil {
		return nil, err
	}

	m := toModelTransaction(txn)
	insertQuery := `
		INSERT INTO transactions (transaction_id, room_id, from_ref, to_ref, amount, kind, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err = tx.Exec(ctx, insertQuery, m.TransactionID, m.RoomID, m.FromRef, m.ToRef, m.Amount, m.Kind, m.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, fmt.Errorf("%w: transaction %s", apperrors.ErrDuplicate, m.TransactionID)
		}
		return nil, mapConflict(fmt.Errorf("failed to insert transaction %s: %w", m.TransactionID, err))
	}

	if err := r.Commit(ctx, tx); err != nil {
		return nil, mapConflict(fmt.Errorf("failed to commit transfer %s: %w", m.TransactionID, err))
	}
	return balances, nil
}

// FindTransactionByID retrieves one audit record scoped to a room.
func (r *PgxLedgerRepository) FindTransactionByID(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error) {
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE room_id = $1 AND transaction_id = $2;`

	var m models.Transaction
	err := r.Pool.QueryRow(ctx, query, roomID, transactionID).
		Scan(&m.TransactionID, &m.RoomID, &m.FromRef, &m.ToRef, &m.Amount, &m.Kind, &m.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan transaction row: %w", err)
	}
	d := toDomainTransaction(m)
	return &d, nil
}

// ListTransactionsByRoom returns audit records newest first. A non-nil
// nextToken resumes after the (created_at, transaction_id) position encoded in
// it; a non-nil return token means more rows remain.
func (r *PgxLedgerRepository) ListTransactionsByRoom(ctx context.Context, roomID string, limit int, nextToken *string) ([]domain.Transaction, *string, error) {
	args := []any{roomID}
	query := `SELECT ` + transactionColumns + ` FROM transactions WHERE room_id = $1`

	if nextToken != nil && *nextToken != "" {
		createdAt, id, err := pagination.DecodeCursor(*nextToken)
		if err != nil {
			return nil, nil, fmt.Errorf("%w: %s", apperrors.ErrValidation, err)
		}
		query += ` AND (created_at, transaction_id) < ($2, $3)`
		args = append(args, createdAt, id)
	}

	// Fetch one extra row to know whether a next page exists.
	query += fmt.Sprintf(` ORDER BY created_at DESC, transaction_id DESC LIMIT %d;`, limit+1)

	rows, err := r.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to query transactions for room %s: %w", roomID, err)
	}
	defer rows.Close()

	var txns []domain.Transaction
	for rows.Next() {
		var m models.Transaction
		if err := rows.Scan(&m.TransactionID, &m.RoomID, &m.FromRef, &m.ToRef, &m.Amount, &m.Kind, &m.CreatedAt); err != nil {
			return nil, nil, fmt.Errorf("failed to scan transaction row: %w", err)
		}
		txns = append(txns, toDomainTransaction(m))
	}
	if err := rows.Err(); err != nil {
		return nil, nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	var token *string
	if len(txns) > limit {
		txns = txns[:limit]
		last := txns[len(txns)-1]
		t := pagination.EncodeCursor(last.CreatedAt, last.TransactionID)
		token = &t
	}
	return txns, token, nil
}
