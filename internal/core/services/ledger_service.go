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
	"github.com/piconopoly/backend/internal/dto"
	"github.com/piconopoly/backend/internal/middleware"
	"github.com/shopspring/decimal"
)

const (
	defaultTransferRetries = 3
	retryBackoffStep       = 50 * time.Millisecond
)

// ledgerService implements the transfer primitive: atomic balance movement
// paired with exactly one audit record.
type ledgerService struct {
	ledgerRepo portsrepo.LedgerRepositoryFacade
	playerRepo portsrepo.PlayerRepositoryFacade
	feed       portssvc.FeedPublisher
	maxRetries int
}

// NewLedgerService creates a new LedgerService. feed may be nil when no live
// view layer is attached (e.g. in tests). maxRetries bounds the transparent
// retry of serialization aborts; values below 1 fall back to the default.
func NewLedgerService(ledgerRepo portsrepo.LedgerRepositoryFacade, playerRepo portsrepo.PlayerRepositoryFacade, feed portssvc.FeedPublisher, maxRetries int) portssvc.LedgerSvcFacade {
	if maxRetries < 1 {
		maxRetries = defaultTransferRetries
	}
	return &ledgerService{
		ledgerRepo: ledgerRepo,
		playerRepo: playerRepo,
		feed:       feed,
		maxRetries: maxRetries,
	}
}

var _ portssvc.LedgerSvcFacade = (*ledgerService)(nil)

// Transfer moves amount between the two parties of the room.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) Transfer(ctx context.Context, roomID string, from, to domain.PartyRef, amount decimal.Decimal) (*domain.Transaction, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	// --- Validation ---
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, fmt.Errorf("%w: transfer amount must be positive, got %s", apperrors.ErrValidation, amount.String())
	}
	if from.IsBank() && to.IsBank() {
		return nil, fmt.Errorf("%w: at least one side of a transfer must be a player", apperrors.ErrValidation)
	}
	if from.Equal(to) {
		return nil, fmt.Errorf("%w: a player cannot transfer to itself", apperrors.ErrValidation)
	}

	now := time.Now().UTC()
	txn := domain.Transaction{
		TransactionID: uuid.NewString(),
		RoomID:        roomID,
		FromRef:       from.Ref(),
		ToRef:         to.Ref(),
		Amount:        amount,
		Kind:          domain.KindOf(from, to),
		CreatedAt:     now,
	}

	// The Bank side never touches a stored balance.
	changes := make(map[string]decimal.Decimal, 2)
	if !from.IsBank() {
		changes[from.PlayerID()] = amount.Neg()
	}
	if !to.IsBank() {
		changes[to.PlayerID()] = amount
	}

	// Existence, room scope and sufficient balance are validated inside the
	// repository's atomic unit, after the rows are locked. Serialization
	// aborts are retried transparently up to the bounded count.
	var balances map[string]decimal.Decimal
	var err error
	for attempt := 1; attempt <= s.maxRetries; attempt++ {
		balances, err = s.ledgerRepo.SaveTransfer(ctx, txn, changes)
		if err == nil || !errors.Is(err, apperrors.ErrTransientConflict) {
			break
		}
		logger.Warn("Transfer hit storage conflict, retrying",
			slog.String("transaction_id", txn.TransactionID),
			slog.Int("attempt", attempt))
		if attempt < s.maxRetries {
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt) * retryBackoffStep):
			}
		}
	}
	if err != nil {
		if errors.Is(err, apperrors.ErrInsufficientBalance) || errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, apperrors.ErrTransientConflict) {
			return nil, err
		}
		logger.Error("Failed to save transfer", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to save transfer: %w", err)
	}

	logger.Info("Transfer committed",
		slog.String("transaction_id", txn.TransactionID),
		slog.String("room_id", roomID),
		slog.String("from", txn.FromRef),
		slog.String("to", txn.ToRef),
		slog.String("amount", amount.String()),
		slog.String("kind", string(txn.Kind)))

	s.publish(ctx, txn, balances)
	return &txn, nil
}

// BankPass mints amount from the Bank directly to the player.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) BankPass(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.Transaction, error) {
	return s.Transfer(ctx, roomID, domain.BankParty(), domain.PlayerParty(playerID), amount)
}

// FreeParkingPass drains amount from the room's Free Parking pool to the
// player. The pool balance shown to the user before confirming may be stale;
// the authoritative check happens inside the transfer's atomic unit.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) FreeParkingPass(ctx context.Context, roomID string, playerID string, amount decimal.Decimal) (*domain.Transaction, error) {
	parking, err := s.playerRepo.FindParkingPlayer(ctx, roomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, fmt.Errorf("%w: free parking account for room %s", apperrors.ErrNotFound, roomID)
		}
		return nil, fmt.Errorf("failed to resolve free parking account: %w", err)
	}
	return s.Transfer(ctx, roomID, domain.PlayerParty(parking.PlayerID), domain.PlayerParty(playerID), amount)
}

// GetTransaction retrieves one transaction within the room scope.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) GetTransaction(ctx context.Context, roomID string, transactionID string) (*domain.Transaction, error) {
	txn, err := s.ledgerRepo.FindTransactionByID(ctx, roomID, transactionID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			middleware.GetLoggerFromCtx(ctx).Error("Failed to find transaction", slog.String("error", err.Error()), slog.String("transaction_id", transactionID))
		}
		return nil, err
	}
	return txn, nil
}

// ListTransactions retrieves a page of the room's transaction history,
// newest first.
// Implements portssvc.LedgerSvcFacade.
func (s *ledgerService) ListTransactions(ctx context.Context, roomID string, params dto.ListTransactionsParams) (*dto.ListTransactionsResponse, error) {
	logger := middleware.GetLoggerFromCtx(ctx)

	limit := params.Limit
	if limit <= 0 {
		limit = 20
	}

	txns, nextToken, err := s.ledgerRepo.ListTransactionsByRoom(ctx, roomID, limit, params.NextToken)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()), slog.String("room_id", roomID))
		return nil, fmt.Errorf("failed to retrieve transactions: %w", err)
	}

	return &dto.ListTransactionsResponse{
		Transactions: dto.ToTransactionResponses(txns),
		NextToken:    nextToken,
	}, nil
}

// publish fans out the committed transfer to the live feeds. The transfer is
// already durable; feed failures are logged and dropped.
func (s *ledgerService) publish(ctx context.Context, txn domain.Transaction, balances map[string]decimal.Decimal) {
	if s.feed == nil {
		return
	}
	logger := middleware.GetLoggerFromCtx(ctx)

	if err := s.feed.PublishTransaction(ctx, txn); err != nil {
		logger.Warn("Failed to publish transaction event", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
	}

	events := make([]dto.PlayerBalanceEvent, 0, len(balances))
	for playerID, balance := range balances {
		events = append(events, dto.PlayerBalanceEvent{
			RoomID:        txn.RoomID,
			PlayerID:      playerID,
			Balance:       balance,
			TransactionID: txn.TransactionID,
		})
	}
	if len(events) == 0 {
		return
	}
	if err := s.feed.PublishBalances(ctx, txn.RoomID, events); err != nil {
		logger.Warn("Failed to publish balance events", slog.String("error", err.Error()), slog.String("transaction_id", txn.TransactionID))
	}
}
