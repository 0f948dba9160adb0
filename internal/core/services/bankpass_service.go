package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portsrepo "github.com/piconopoly/backend/internal/core/ports/repositories"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/middleware"
	"github.com/shopspring/decimal"
)

// bankPassService implements the approval workflow for bank withdrawals:
// every other player in the room must confirm before the money mints.
type bankPassService struct {
	bankPassRepo portsrepo.BankPassRepositoryFacade
	playerRepo   portsrepo.PlayerRepositoryFacade
	ledgerSvc    portssvc.LedgerSvcFacade
}

// NewBankPassService creates a new BankPassService.
func NewBankPassService(bankPassRepo portsrepo.BankPassRepositoryFacade, playerRepo portsrepo.PlayerRepositoryFacade, ledgerSvc portssvc.LedgerSvcFacade) portssvc.BankPassSvcFacade {
	return &bankPassService{
		bankPassRepo: bankPassRepo,
		playerRepo:   playerRepo,
		ledgerSvc:    ledgerSvc,
	}
}

var _ portssvc.BankPassSvcFacade = (*bankPassService)(nil)

// CreateRequest opens a pending approval request for a bank withdrawal.
// Implements portssvc.BankPassSvcFacade.
func (s *bankPassService) CreateRequest(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.BankPassRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: amount must be positive", apperrors.ErrValidation)
	}

	requester, err := s.requireRoomPlayer(ctx, roomID, playerID)
	if err != nil {
		return nil, err
	}

	req := domain.BankPassRequest{
		RequestID:       uuid.NewString(),
		RoomID:          roomID,
		RequestedBy:     requester.PlayerID,
		RequestedByName: requester.Name,
		Amount:          amount,
		Status:          domain.RequestPending,
		Confirmations:   []string{},
		Rejections:      []string{},
		CreatedAt:       time.Now().UTC(),
	}

	if err := s.bankPassRepo.SaveRequest(ctx, req); err != nil {
		logger.Error("Failed to save bank pass request", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to create bank pass request: %w", err)
	}

	logger.Info("Bank pass request created",
		slog.String("request_id", req.RequestID),
		slog.String("room_id", roomID),
		slog.String("requested_by", requester.PlayerID),
		slog.String("amount", amount.String()))
	return &req, nil
}

// Confirm records the voter's acknowledgement and executes the withdrawal
// once every other non-parking player has confirmed.
// Implements portssvc.BankPassSvcFacade.
func (s *bankPassService) Confirm(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.pendingRequestForVote(ctx, roomID, requestID, voterID); err != nil {
		return nil, err
	}

	req, err := s.bankPassRepo.AddConfirmation(ctx, roomID, requestID, voterID)
	if err != nil {
		logger.Error("Failed to record confirmation", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	players, err := s.playerRepo.ListPlayersByRoom(ctx, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to list players for quorum check: %w", err)
	}
	if !s.quorumReached(req, players) {
		return req, nil
	}

	// Win the pending-to-confirmed transition before any money moves.
	// Racing confirms for the same request lose the guarded update and get
	// ErrConflict, so the withdrawal executes at most once.
	resolved, err := s.bankPassRepo.ResolveConfirmed(ctx, roomID, requestID, time.Now().UTC())
	if err != nil {
		if errors.Is(err, apperrors.ErrConflict) {
			logger.Info("Bank pass request already resolved by a concurrent vote", slog.String("request_id", requestID))
		} else {
			logger.Error("Failed to resolve bank pass request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		}
		return nil, err
	}

	if _, err := s.ledgerSvc.BankPass(ctx, roomID, resolved.RequestedBy, resolved.Amount); err != nil {
		logger.Error("Failed to execute confirmed bank pass", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, fmt.Errorf("failed to execute bank pass: %w", err)
	}

	logger.Info("Bank pass request confirmed and executed", slog.String("request_id", requestID), slog.String("room_id", roomID))
	return resolved, nil
}

// Reject resolves the request without moving money. A single rejection is
// final.
// Implements portssvc.BankPassSvcFacade.
func (s *bankPassService) Reject(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	if _, err := s.pendingRequestForVote(ctx, roomID, requestID, voterID); err != nil {
		return nil, err
	}

	req, err := s.bankPassRepo.ResolveRejected(ctx, roomID, requestID, voterID, time.Now().UTC())
	if err != nil {
		logger.Error("Failed to reject bank pass request", slog.String("error", err.Error()), slog.String("request_id", requestID))
		return nil, err
	}

	logger.Info("Bank pass request rejected", slog.String("request_id", requestID), slog.String("rejected_by", voterID))
	return req, nil
}

// ListPending retrieves the room's unresolved requests.
// Implements portssvc.BankPassSvcFacade.
func (s *bankPassService) ListPending(ctx context.Context, roomID string) ([]domain.BankPassRequest, error) {
	reqs, err := s.bankPassRepo.ListPendingByRoom(ctx, roomID)
	if err != nil {
		middleware.GetLoggerFromCtx(ctx).Error("Failed to list bank pass requests", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to list bank pass requests: %w", err)
	}
	if reqs == nil {
		reqs = []domain.BankPassRequest{}
	}
	return reqs, nil
}

// requireRoomPlayer resolves a real (non-parking) player within the room.
func (s *bankPassService) requireRoomPlayer(ctx context.Context, roomID string, playerID string) (*domain.Player, error) {
	player, err := s.playerRepo.FindPlayerByID(ctx, playerID)
	if err != nil {
		return nil, err
	}
	if player.RoomID != roomID {
		return nil, apperrors.ErrNotFound
	}
	if player.IsParking {
		return nil, fmt.Errorf("%w: free parking cannot take part in bank pass approvals", apperrors.ErrValidation)
	}
	return player, nil
}

// pendingRequestForVote loads a pending request and validates the voter.
// The read is advisory; the repository's status-guarded updates are what
// keep racing votes from resolving a request twice.
func (s *bankPassService) pendingRequestForVote(ctx context.Context, roomID string, requestID string, voterID string) (*domain.BankPassRequest, error) {
	req, err := s.bankPassRepo.FindRequestByID(ctx, roomID, requestID)
	if err != nil {
		return nil, err
	}
	if req.Status != domain.RequestPending {
		return nil, fmt.Errorf("%w: request is already %s", apperrors.ErrConflict, req.Status)
	}
	if voterID == req.RequestedBy {
		return nil, fmt.Errorf("%w: the requester cannot vote on its own request", apperrors.ErrValidation)
	}
	if _, err := s.requireRoomPlayer(ctx, roomID, voterID); err != nil {
		return nil, err
	}
	return req, nil
}

// quorumReached reports whether every non-parking player other than the
// requester has confirmed.
func (s *bankPassService) quorumReached(req *domain.BankPassRequest, players []domain.Player) bool {
	for _, p := range players {
		if p.IsParking || p.PlayerID == req.RequestedBy {
			continue
		}
		if !contains(req.Confirmations, p.PlayerID) {
			return false
		}
	}
	return true
}

func contains(ids []string, id string) bool {
	for _, v := range ids {
		if v == id {
			return true
		}
	}
	return false
}
