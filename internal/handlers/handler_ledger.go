package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piconopoly/backend/internal/apperrors"
	"github.com/piconopoly/backend/internal/core/domain"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/dto"
	"github.com/piconopoly/backend/internal/middleware"
)

// ledgerHandler handles HTTP requests for transfers and the transaction log.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
	// approvalRequired routes bank passes through the confirmation workflow
	// instead of direct execution.
	approvalRequired bool
}

func newLedgerHandler(ls portssvc.LedgerSvcFacade, approvalRequired bool) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls, approvalRequired: approvalRequired}
}

// registerLedgerRoutes registers the money-movement routes within a room.
func registerLedgerRoutes(rg *gin.RouterGroup, ls portssvc.LedgerSvcFacade, approvalRequired bool) {
	h := newLedgerHandler(ls, approvalRequired)

	rg.POST("/transfers", h.transfer)
	rg.POST("/bank-pass", h.bankPass)
	rg.POST("/free-parking-pass", h.freeParkingPass)

	transactions := rg.Group("/transactions")
	{
		transactions.GET("", h.listTransactions)
		transactions.GET("/:transactionID", h.getTransaction)
	}
}

// writeTransferError maps ledger service failures to HTTP responses.
func writeTransferError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error executing transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Transfer party not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrInsufficientBalance):
		logger.Warn("Insufficient balance for transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrTransientConflict):
		logger.Warn("Transfer aborted after retries", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": "Transfer conflicted with concurrent activity, try again"})
	default:
		logger.Error("Failed to execute transfer in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to execute transfer"})
	}
}

// transfer godoc
// @Summary Execute a transfer
// @Description Atomically moves money between two parties of the room; either side may be "BANK"
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Player not found in this room"
// @Failure 409 {object} map[string]string "Concurrent conflict, retry"
// @Failure 422 {object} map[string]string "Insufficient balance"
// @Failure 500 {object} map[string]string "Failed to execute transfer"
// @Security BearerAuth
// @Router /rooms/{roomID}/transfers [post]
func (h *ledgerHandler) transfer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for Transfer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	from, err := domain.ParsePartyRef(req.From)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid from reference: " + err.Error()})
		return
	}
	to, err := domain.ParsePartyRef(req.To)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid to reference: " + err.Error()})
		return
	}

	logger.Info("Received transfer request",
		slog.String("from", from.Ref()), slog.String("to", to.Ref()), slog.String("amount", req.Amount.String()))

	txn, err := h.ledgerService.Transfer(c.Request.Context(), roomID, from, to, req.Amount)
	if err != nil {
		writeTransferError(c, logger, err)
		return
	}

	logger.Info("Transfer executed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// bankPass godoc
// @Summary Collect money from the Bank
// @Description Mints the amount from the Bank to the player. Returns 409 when the room requires approval; use the bank-pass-requests workflow instead
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   pass body dto.BankPassRequest true "Bank pass details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Player not found in this room"
// @Failure 409 {object} map[string]string "Approval workflow required"
// @Failure 500 {object} map[string]string "Failed to execute bank pass"
// @Security BearerAuth
// @Router /rooms/{roomID}/bank-pass [post]
func (h *ledgerHandler) bankPass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	if h.approvalRequired {
		c.JSON(http.StatusConflict, gin.H{"error": "Bank passes require approval in this deployment, create a bank pass request instead"})
		return
	}

	var req dto.BankPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for BankPass", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received bank pass request",
		slog.String("player_id", req.PlayerID), slog.String("amount", req.Amount.String()))

	txn, err := h.ledgerService.BankPass(c.Request.Context(), roomID, req.PlayerID, req.Amount)
	if err != nil {
		writeTransferError(c, logger, err)
		return
	}

	logger.Info("Bank pass executed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// freeParkingPass godoc
// @Summary Collect from the Free Parking pool
// @Description Drains the amount from the room's Free Parking pool to the player
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   pass body dto.FreeParkingPassRequest true "Free Parking pass details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Player not found in this room"
// @Failure 422 {object} map[string]string "Pool balance too low"
// @Failure 500 {object} map[string]string "Failed to execute Free Parking pass"
// @Security BearerAuth
// @Router /rooms/{roomID}/free-parking-pass [post]
func (h *ledgerHandler) freeParkingPass(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.FreeParkingPassRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for FreeParkingPass", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received Free Parking pass request",
		slog.String("player_id", req.PlayerID), slog.String("amount", req.Amount.String()))

	txn, err := h.ledgerService.FreeParkingPass(c.Request.Context(), roomID, req.PlayerID, req.Amount)
	if err != nil {
		writeTransferError(c, logger, err)
		return
	}

	logger.Info("Free Parking pass executed", slog.String("transaction_id", txn.TransactionID))
	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List the room's transaction history
// @Description Retrieves transactions newest first with token-based pagination
// @Tags ledger
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   limit query int false "Page size" default(20)
// @Param   nextToken query string false "Pagination token from a previous page"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 400 {object} map[string]string "Invalid query parameters"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list transactions"
// @Security BearerAuth
// @Router /rooms/{roomID}/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		logger.Warn("Failed to bind query params for ListTransactions", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid query parameters: " + err.Error()})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), roomID, params)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Invalid pagination token", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else {
			logger.Error("Failed to list transactions from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list transactions"})
		}
		return
	}

	c.JSON(http.StatusOK, resp)
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves one audit record of the room
// @Tags ledger
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   transactionID path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Transaction not found"
// @Failure 500 {object} map[string]string "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /rooms/{roomID}/transactions/{transactionID} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)
	transactionID := c.Param("transactionID")

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), roomID, transactionID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Transaction not found", slog.String("transaction_id", transactionID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Transaction not found"})
		} else {
			logger.Error("Failed to get transaction from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve transaction"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}
