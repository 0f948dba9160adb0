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

// roomHandler handles HTTP requests related to rooms.
type roomHandler struct {
	roomService  portssvc.RoomSvcFacade
	tokenService portssvc.TokenSvcFacade
}

func newRoomHandler(rs portssvc.RoomSvcFacade, ts portssvc.TokenSvcFacade) *roomHandler {
	return &roomHandler{roomService: rs, tokenService: ts}
}

// registerPublicRoomRoutes registers the routes reachable without a session:
// room creation and joining, which are how sessions come to exist.
func registerPublicRoomRoutes(rg *gin.RouterGroup, rs portssvc.RoomSvcFacade, ts portssvc.TokenSvcFacade) {
	h := newRoomHandler(rs, ts)

	rg.POST("/rooms", h.createRoom)
	rg.POST("/rooms/:roomID/join", h.joinRoom)
}

// registerRoomRoutes registers the session-scoped room routes.
func registerRoomRoutes(rg *gin.RouterGroup, rs portssvc.RoomSvcFacade, ts portssvc.TokenSvcFacade) {
	h := newRoomHandler(rs, ts)

	rg.GET("", h.getRoom)
	rg.POST("/reset", h.resetRoom)
	rg.DELETE("", h.deleteRoom)
}

// createRoom godoc
// @Summary Create a new room
// @Description Creates a room with its config and Free Parking account, and returns a session for it
// @Tags rooms
// @Accept  json
// @Produce  json
// @Param   room body dto.CreateRoomRequest true "Room details"
// @Success 201 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 409 {object} map[string]string "Room name already in use"
// @Failure 500 {object} map[string]string "Failed to create room"
// @Router /rooms [post]
func (h *roomHandler) createRoom(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.CreateRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreateRoom", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create room", slog.String("room_name", req.Name))

	room, err := h.roomService.CreateRoom(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, apperrors.ErrValidation) {
			logger.Warn("Validation error creating room", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		} else if errors.Is(err, apperrors.ErrDuplicate) {
			logger.Warn("Room name already in use", slog.String("room_name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": "Room name already in use"})
		} else {
			logger.Error("Failed to create room in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create room"})
		}
		return
	}

	token, expiresAt, err := h.tokenService.GenerateSessionToken(room.RoomID)
	if err != nil {
		logger.Error("Failed to issue session token for new room", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	logger.Info("Room created successfully", slog.String("room_id", room.RoomID))
	c.JSON(http.StatusCreated, dto.SessionResponse{
		Room:      dto.ToRoomResponse(room),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// joinRoom godoc
// @Summary Join an existing room
// @Description Verifies the join password and returns a session for the room
// @Tags rooms
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   join body dto.JoinRoomRequest true "Join password"
// @Success 200 {object} dto.SessionResponse
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Wrong password"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Failed to join room"
// @Router /rooms/{roomID}/join [post]
func (h *roomHandler) joinRoom(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := c.Param("roomID")

	var req dto.JoinRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for JoinRoom", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger = logger.With(slog.String("room_id", roomID))
	logger.Info("Received request to join room")

	room, err := h.roomService.JoinRoom(c.Request.Context(), roomID, req.Password)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Room not found for join")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else if errors.Is(err, apperrors.ErrUnauthorized) {
			logger.Warn("Wrong join password")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong password"})
		} else {
			logger.Error("Failed to join room in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to join room"})
		}
		return
	}

	token, expiresAt, err := h.tokenService.GenerateSessionToken(room.RoomID)
	if err != nil {
		logger.Error("Failed to issue session token", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create session"})
		return
	}

	logger.Info("Room joined successfully")
	c.JSON(http.StatusOK, dto.SessionResponse{
		Room:      dto.ToRoomResponse(room),
		Token:     token,
		ExpiresAt: expiresAt,
	})
}

// getRoom godoc
// @Summary Get the session's room
// @Description Retrieves details of the room the session is scoped to
// @Tags rooms
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Success 200 {object} dto.RoomResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Failed to retrieve room"
// @Security BearerAuth
// @Router /rooms/{roomID} [get]
func (h *roomHandler) getRoom(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	room, err := h.roomService.GetRoom(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Room not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		} else {
			logger.Error("Failed to get room from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve room"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToRoomResponse(room))
}

// resetRoom godoc
// @Summary Reset a room to its initial state
// @Description Deletes all players except Free Parking, wipes the transaction history, and optionally changes the initial balance
// @Tags rooms
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   reset body dto.ResetRoomRequest true "Admin password and optional new initial balance"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Wrong admin password"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Failed to reset room"
// @Security BearerAuth
// @Router /rooms/{roomID}/reset [post]
func (h *roomHandler) resetRoom(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.ResetRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for ResetRoom", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to reset room")

	err := h.roomService.ResetRoom(c.Request.Context(), roomID, req.AdminPassword, req.NewInitialBalance)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Room not found for reset")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Wrong admin password for reset")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong admin password"})
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error resetting room", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			logger.Error("Failed to reset room in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset room"})
		}
		return
	}

	logger.Info("Room reset successfully")
	c.Status(http.StatusNoContent)
}

// deleteRoom godoc
// @Summary Delete a room
// @Description Irreversibly removes the room and everything in it
// @Tags rooms
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   delete body dto.DeleteRoomRequest true "Admin password"
// @Success 204 "No Content"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 401 {object} map[string]string "Wrong admin password"
// @Failure 404 {object} map[string]string "Room not found"
// @Failure 500 {object} map[string]string "Failed to delete room"
// @Security BearerAuth
// @Router /rooms/{roomID} [delete]
func (h *roomHandler) deleteRoom(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.DeleteRoomRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for DeleteRoom", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to delete room")

	err := h.roomService.DeleteRoom(c.Request.Context(), roomID, req.AdminPassword)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Room not found for delete")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		case errors.Is(err, apperrors.ErrUnauthorized):
			logger.Warn("Wrong admin password for delete")
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Wrong admin password"})
		default:
			logger.Error("Failed to delete room in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to delete room"})
		}
		return
	}

	logger.Info("Room deleted successfully")
	c.Status(http.StatusNoContent)
}
