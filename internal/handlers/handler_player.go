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

// playerHandler handles HTTP requests related to players.
type playerHandler struct {
	playerService portssvc.PlayerSvcFacade
}

func newPlayerHandler(ps portssvc.PlayerSvcFacade) *playerHandler {
	return &playerHandler{playerService: ps}
}

// registerPlayerRoutes registers routes related to players within a room.
func registerPlayerRoutes(rg *gin.RouterGroup, ps portssvc.PlayerSvcFacade) {
	h := newPlayerHandler(ps)

	players := rg.Group("/players")
	{
		players.POST("", h.createPlayer)
		players.GET("", h.listPlayers)
		players.GET("/:playerID", h.getPlayer)
	}
	rg.GET("/free-parking", h.getFreeParking)
}

// createPlayer godoc
// @Summary Create a player in the room
// @Description Creates a player with the room's configured initial balance
// @Tags players
// @Accept  json
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   player body dto.CreatePlayerRequest true "Player details"
// @Success 201 {object} dto.PlayerResponse
// @Failure 400 {object} map[string]string "Invalid input format or validation error"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 409 {object} map[string]string "Player name already in use"
// @Failure 500 {object} map[string]string "Failed to create player"
// @Security BearerAuth
// @Router /rooms/{roomID}/players [post]
func (h *playerHandler) createPlayer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	var req dto.CreatePlayerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for CreatePlayer", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request format: " + err.Error()})
		return
	}

	logger.Info("Received request to create player", slog.String("player_name", req.Name))

	player, err := h.playerService.CreatePlayer(c.Request.Context(), roomID, req.Name)
	if err != nil {
		switch {
		case errors.Is(err, apperrors.ErrValidation):
			logger.Warn("Validation error creating player", slog.String("error", err.Error()))
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, apperrors.ErrDuplicate):
			logger.Warn("Player name already in use", slog.String("player_name", req.Name))
			c.JSON(http.StatusConflict, gin.H{"error": "Player name already in use"})
		case errors.Is(err, apperrors.ErrNotFound):
			logger.Warn("Room not found for player creation")
			c.JSON(http.StatusNotFound, gin.H{"error": "Room not found"})
		default:
			logger.Error("Failed to create player in service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to create player"})
		}
		return
	}

	logger.Info("Player created successfully", slog.String("player_id", player.PlayerID))
	c.JSON(http.StatusCreated, dto.ToPlayerResponse(player))
}

// listPlayers godoc
// @Summary List players in the room
// @Description Retrieves every player of the room, Free Parking included
// @Tags players
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Success 200 {array} dto.PlayerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to list players"
// @Security BearerAuth
// @Router /rooms/{roomID}/players [get]
func (h *playerHandler) listPlayers(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	players, err := h.playerService.ListPlayers(c.Request.Context(), roomID)
	if err != nil {
		logger.Error("Failed to list players from service", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list players"})
		return
	}

	c.JSON(http.StatusOK, dto.ToListPlayerResponse(players))
}

// getPlayer godoc
// @Summary Get a player by ID
// @Description Retrieves one player of the room
// @Tags players
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Param   playerID path string true "Player ID"
// @Success 200 {object} dto.PlayerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Player not found"
// @Failure 500 {object} map[string]string "Failed to retrieve player"
// @Security BearerAuth
// @Router /rooms/{roomID}/players/{playerID} [get]
func (h *playerHandler) getPlayer(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)
	playerID := c.Param("playerID")

	player, err := h.playerService.GetPlayer(c.Request.Context(), roomID, playerID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Player not found", slog.String("player_id", playerID))
			c.JSON(http.StatusNotFound, gin.H{"error": "Player not found"})
		} else {
			logger.Error("Failed to get player from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve player"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPlayerResponse(player))
}

// getFreeParking godoc
// @Summary Get the Free Parking pool
// @Description Retrieves the room's Free Parking account and its accumulated balance
// @Tags players
// @Produce  json
// @Param   roomID path string true "Room ID"
// @Success 200 {object} dto.PlayerResponse
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 404 {object} map[string]string "Free Parking account not found"
// @Failure 500 {object} map[string]string "Failed to retrieve Free Parking"
// @Security BearerAuth
// @Router /rooms/{roomID}/free-parking [get]
func (h *playerHandler) getFreeParking(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	parking, err := h.playerService.GetFreeParkingPlayer(c.Request.Context(), roomID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			logger.Warn("Free Parking account not found")
			c.JSON(http.StatusNotFound, gin.H{"error": "Free Parking account not found"})
		} else {
			logger.Error("Failed to get Free Parking from service", slog.String("error", err.Error()))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to retrieve Free Parking"})
		}
		return
	}

	c.JSON(http.StatusOK, dto.ToPlayerResponse(parking))
}
