package pgsql

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	"github.com/piconopoly/backend/internal/models"
)

type PgxBankPassRepository struct {
	BaseRepository
}

// newPgxBankPassRepository creates a new repository for bank pass approval
// requests.
func newPgxBankPassRepository(pool *pgxpool.Pool) portsrepo.BankPassRepositoryFacade {
	return &PgxBankPassRepository{BaseRepository: BaseRepository{Pool: pool}}
}

var _ portsrepo.BankPassRepositoryFacade = (*PgxBankPassRepository)(nil)

func toModelBankPassRequest(d domain.BankPassRequest) models.BankPassRequest {
	m := models.BankPassRequest{
		RequestID:       d.RequestID,
		RoomID:          d.RoomID,
		RequestedBy:     d.RequestedBy,
		RequestedByName: d.RequestedByName,
		Amount:          d.Amount,
		Status:          string(d.Status),
		Confirmations:   d.Confirmations,
		Rejections:      d.Rejections,
		CreatedAt:       d.CreatedAt,
	}
	if d.ResolvedAt != nil {
		m.ResolvedAt = sql.NullTime{Time: *d.ResolvedAt, Valid: true}
	}
	return m
}

func toDomainBankPassRequest(m models.BankPassRequest) domain.BankPassRequest {
	d := domain.BankPassRequest{
		RequestID:       m.RequestID,
		RoomID:          m.RoomID,
		RequestedBy:     m.RequestedBy,
		RequestedByName: m.RequestedByName,
		Amount:          m.Amount,
		Status:          domain.BankPassRequestStatus(m.Status),
		Confirmations:   m.Confirmations,
		Rejections:      m.Rejections,
		CreatedAt:       m.CreatedAt,
	}
	if d.Confirmations == nil {
		d.Confirmations = []string{}
	}
	if d.Rejections == nil {
		d.Rejections = []string{}
	}
	if m.ResolvedAt.Valid {
		t := m.ResolvedAt.Time
		d.ResolvedAt = &t
	}
	return d
}

const bankPassColumns = `request_id, room_id, requested_by, requested_by_name, amount, status, confirmations, rejections, created_at, resolved_at`

func scanBankPassRequest(row pgx.Row) (*domain.BankPassRequest, error) {
	var m models.BankPassRequest
	err := row.Scan(&m.RequestID, &m.RoomID, &m.RequestedBy, &m.RequestedByName,
		&m.Amount, &m.Status, &m.Confirmations, &m.Rejections, &m.CreatedAt, &m.ResolvedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, fmt.Errorf("failed to scan bank pass request row: %w", err)
	}
	d := toDomainBankPassRequest(m)
	return &d, nil
}

// SaveRequest inserts a new bank pass request.
func (r *PgxBankPassRepository) SaveRequest(ctx context.Context, req domain.BankPassRequest) error {
	m := toModelBankPassRequest(req)

	query := `
		INSERT INTO bank_pass_requests (request_id, room_id, requested_by, requested_by_name, amount, status, confirmations, rejections, created_at, resolved_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10);
	`
	_, err := r.Pool.Exec(ctx, query, m.RequestID, m.RoomID, m.RequestedBy, m.RequestedByName,
		m.Amount, m.Status, m.Confirmations, m.Rejections, m.CreatedAt, m.ResolvedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: bank pass request %s", apperrors.ErrDuplicate, m.RequestID)
		}
		return fmt.Errorf("failed to save bank pass request %s: %w", m.RequestID, err)
	}
	return nil
}

// FindRequestByID retrieves one request scoped to a room.
func (r *PgxBankPassRepository) FindRequestByID(ctx context.Context, roomID string, requestID string) (*domain.BankPassRequest, error) {
	query := `SELECT ` + bankPassColumns + ` FROM bank_pass_requests WHERE room_id = $1 AND request_id = $2;`
	return scanBankPassRequest(r.Pool.QueryRow(ctx, query, roomID, requestID))
}

// ListPendingByRoom retrieves the room's unresolved requests, oldest first.
func (r *PgxBankPassRepository) ListPendingByRoom(ctx context.Context, roomID string) ([]domain.BankPassRequest, error) {
	query := `
		SELECT ` + bankPassColumns + `
		FROM bank_pass_requests
		WHERE room_id = $1 AND status = $2
		ORDER BY created_at, request_id;
	`
	rows, err := r.Pool.Query(ctx, query, roomID, string(domain.RequestPending))
	if err != nil {
		return nil, fmt.Errorf("failed to query bank pass requests for room %s: %w", roomID, err)
	}
	defer rows.Close()

	var reqs []domain.BankPassRequest
	for rows.Next() {
		var m models.BankPassRequest
		if err := rows.Scan(&m.RequestID, &m.RoomID, &m.RequestedBy, &m.RequestedByName,
			&m.Amount, &m.Status, &m.Confirmations, &m.Rejections, &m.CreatedAt, &m.ResolvedAt); err != nil {
			return nil, fmt.Errorf("failed to scan bank pass request row: %w", err)
		}
		reqs = append(reqs, toDomainBankPassRequest(m))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating bank pass request rows: %w", err)
	}
	return reqs, nil
}

// AddConfirmation appends the voter to a still-pending request. The append
// happens inside the guarded UPDATE so concurrent voters never overwrite
// each other's acknowledgements.
func (r *PgxBankPassRepository) AddConfirmation(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error) {
	query := `
		UPDATE bank_pass_requests
		SET confirmations = CASE WHEN $3 = ANY(confirmations) THEN confirmations ELSE array_append(confirmations, $3) END
		WHERE room_id = $1 AND request_id = $2 AND status = $4
		RETURNING ` + bankPassColumns + `;
	`
	req, err := scanBankPassRequest(r.Pool.QueryRow(ctx, query, roomID, requestID, voterID, string(domain.RequestPending)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, r.pendingGuardMiss(ctx, roomID, requestID)
		}
		return nil, err
	}
	return req, nil
}

// ResolveConfirmed performs the pending to confirmed transition. The status
// guard makes it first-writer-wins: a request confirms at most once.
func (r *PgxBankPassRepository) ResolveConfirmed(ctx context.Context, roomID string, requestID string, resolvedAt time.Time) (*domain.BankPassRequest, error) {
	query := `
		UPDATE bank_pass_requests
		SET status = $3, resolved_at = $4
		WHERE room_id = $1 AND request_id = $2 AND status = $5
		RETURNING ` + bankPassColumns + `;
	`
	req, err := scanBankPassRequest(r.Pool.QueryRow(ctx, query, roomID, requestID,
		string(domain.RequestConfirmed), resolvedAt, string(domain.RequestPending)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, r.pendingGuardMiss(ctx, roomID, requestID)
		}
		return nil, err
	}
	return req, nil
}

// ResolveRejected performs the pending to rejected transition, recording the
// rejecting vote in the same statement.
func (r *PgxBankPassRepository) ResolveRejected(ctx context.Context, roomID string, requestID string, voterID string, resolvedAt time.Time) (*domain.BankPassRequest, error) {
	query := `
		UPDATE bank_pass_requests
		SET status = $3,
		    rejections = CASE WHEN $4 = ANY(rejections) THEN rejections ELSE array_append(rejections, $4) END,
		    resolved_at = $5
		WHERE room_id = $1 AND request_id = $2 AND status = $6
		RETURNING ` + bankPassColumns + `;
	`
	req, err := scanBankPassRequest(r.Pool.QueryRow(ctx, query, roomID, requestID,
		string(domain.RequestRejected), voterID, resolvedAt, string(domain.RequestPending)))
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, r.pendingGuardMiss(ctx, roomID, requestID)
		}
		return nil, err
	}
	return req, nil
}

// pendingGuardMiss disambiguates a guarded update that matched no row: the
// request either does not exist (ErrNotFound) or is no longer pending
// (ErrConflict).
func (r *PgxBankPassRepository) pendingGuardMiss(ctx context.Context, roomID string, requestID string) error {
	req, err := r.FindRequestByID(ctx, roomID, requestID)
	if err != nil {
		return err
	}
	return fmt.Errorf("%w: bank pass request is already %s", apperrors.ErrConflict, req.Status)
}
