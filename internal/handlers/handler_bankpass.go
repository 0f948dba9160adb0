package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/piconopoly/backend/internal/apperrors"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/dto"
	"github.com/piconopoly/backend/internal/middleware"
)

// bankPassHandler handles the bank pass approval workflow.
type bankPassHandler struct {
	bankPassService portssvc.BankPassSvcFacade
}

func newBankPassHandler(bs portssvc.BankPassSvcFacade) *bankPassHandler {
	return &bankPassHandler{bankPassService: bs}
}

// registerBankPassRoutes registers the approval workflow routes within a room.
func registerBankPassRoutes(rg *gin.RouterGroup, bs portssvc.BankPassSvcFacade) {
	h := newBankPassHandler(bs)

	requests := rg.Group("/bank-pass-requests")
	{
		requests.POST("", h.createRequest)
		requests.GET("", h.listPending)
		requests.POST("/:requestID/confirm", h.confirmRequest)
		requests.POST("/:requestID/reject", h.rejectRequest)
	}
}

func writeBankPassError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		logger.Warn("Validation error on bank pass request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrNotFound):
		logger.Warn("Bank pass request target not found", slog.String("error", err.Error()))
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrConflict):
		logger.Warn("Bank pass request conflict", slog.String("error", err.Error()))
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	default:
		logger.Error("Bank pass request failed in service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to process bank pass request"})
	}
}

// createRequest godoc
// @Summary Open a bank pass approval request
// @Description Creates a pending bank withdrawal awaiting confirmation from the other players
// @Tags bank-pass-requests
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   request body dto.CreateBankPassRequestRequest true "Request details"
// @Success 201 {object} dto.BankPassRequestResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Player not found in this room"
// @Failure 500 {object} map[string]string "Failed to create request"
// @Security BearerAuth
// @Router /rooms/{roomID}/bank-pass-requests [post]
func (h *bankPassHandler) createRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.CreateBankPassRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateBankPassRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received bank pass approval request",
		slog.String("player_id", req.PlayerID), slog.String("amount", req.Amount.String()))

	created, err := h.bankPassService.CreateRequest(c.Request.Context(), roomID, req.PlayerID, req.Amount)
	if err != nil {
		writeBankPassError(c, logger, err)
		return
	}

	logger.Info("Bank pass request created", slog.String("request_id", created.RequestID))
	c.JSON(http.StatusCreated, dto.ToBankPassRequestResponse(created))
}

// listPending godoc
// @Summary List pending bank pass requests
// @Description Retrieves the room's unresolved approval requests, oldest first
// @Tags bank-pass-requests
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Success 200 {array} dto.BankPassRequestResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list requests"
// @Security BearerAuth
// @Router /rooms/{roomID}/bank-pass-requests [get]
func (h *bankPassHandler) listPending(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	reqs, err := h.bankPassService.ListPending(c.Request.Context(), roomID)
	if err != nil {
		logger.Error("Failed to list bank pass requests from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list requests"})
		return
	}

	c.JSON(http.StatusOK, dto.ToBankPassRequestResponses(reqs))
}

// confirmRequest godoc
// @Summary Confirm a bank pass request
// @Description Records the voter's confirmation; the pass executes once every other player has confirmed
// @Tags bank-pass-requests
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   requestID path string true "Request ID"
// @Param   vote body dto.ResolveBankPassRequestRequest true "Voting player"
// @Success 200 {object} dto.BankPassRequestResponse
// @Failure 400 {object} map[string]string "Invalid input or vote"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already resolved"
// @Failure 500 {object} map[string]string "Failed to confirm request"
// @Security BearerAuth
// @Router /rooms/{roomID}/bank-pass-requests/{requestID}/confirm [post]
func (h *bankPassHandler) confirmRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)
	requestID := c.Param("requestID")

	var req dto.ResolveBankPassRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ConfirmBankPassRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("voter_id", req.PlayerID))
	logger.Info("Received bank pass confirmation")

	resolved, err := h.bankPassService.Confirm(c.Request.Context(), roomID, requestID, req.PlayerID)
	if err != nil {
		writeBankPassError(c, logger, err)
		return
	}

	logger.Info("Bank pass confirmation recorded", slog.String("status", string(resolved.Status)))
	c.JSON(http.StatusOK, dto.ToBankPassRequestResponse(resolved))
}

// rejectRequest godoc
// @Summary Reject a bank pass request
// @Description Resolves the request to rejected; a single rejection is final and no money moves
// @Tags bank-pass-requests
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   requestID path string true "Request ID"
// @Param   vote body dto.ResolveBankPassRequestRequest true "Voting player"
// @Success 200 {object} dto.BankPassRequestResponse
// @Failure 400 {object} map[string]string "Invalid input or vote"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Request not found"
// @Failure 409 {object} map[string]string "Request already resolved"
// @Failure 500 {object} map[string]string "Failed to reject request"
// @Security BearerAuth
// @Router /rooms/{roomID}/bank-pass-requests/{requestID}/reject [post]
func (h *bankPassHandler) rejectRequest(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)
	requestID := c.Param("requestID")

	var req dto.ResolveBankPassRequestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for RejectBankPassRequest", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("request_id", requestID), slog.String("voter_id", req.PlayerID))
	logger.Info("Received bank pass rejection")

	resolved, err := h.bankPassService.Reject(c.Request.Context(), roomID, requestID, req.PlayerID)
	if err != nil {
		writeBankPassError(c, logger, err)
		return
	}

	logger.Info("Bank pass rejection recorded")
	c.JSON(http.StatusOK, dto.ToBankPassRequestResponse(resolved))
}
