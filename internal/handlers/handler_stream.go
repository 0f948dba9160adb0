package handlers

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/middleware"
)

// heartbeatInterval is how often an SSE comment is sent on an idle stream.
const heartbeatInterval = 15 * time.Second

// streamHandler serves the room live feeds over server-sent events. Clients
// receive committed ledger events only; delivery is at-least-once and
// consumers deduplicate by transaction id.
type streamHandler struct {
	feed portssvc.FeedSubscriber
}

func newStreamHandler(feed portssvc.FeedSubscriber) *streamHandler {
	return &streamHandler{feed: feed}
}

// registerStreamRoutes registers the SSE feed routes within a room.
func registerStreamRoutes(rg *gin.RouterGroup, feed portssvc.FeedSubscriber) {
	h := newStreamHandler(feed)

	streams := rg.Group("/streams")
	{
		streams.GET("/transactions", h.streamTransactions)
		streams.GET("/players", h.streamPlayers)
	}
}

// streamTransactions godoc
// @Summary Stream the room's transaction feed
// @Description Server-sent events stream of committed transactions
// @Tags streams
// @Produce  text/event-stream
// @Param   roomID path string true "Room ID"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to subscribe"
// @Security BearerAuth
// @Router /rooms/{roomID}/streams/transactions [get]
func (h *streamHandler) streamTransactions(c *gin.Context) {
	h.stream(c, "transaction", h.feed.SubscribeTransactions)
}

// streamPlayers godoc
// @Summary Stream the room's balance feed
// @Description Server-sent events stream of post-transfer player balances
// @Tags streams
// @Produce  text/event-stream
// @Param   roomID path string true "Room ID"
// @Success 200 {string} string "event stream"
// @Failure 401 {object} map[string]string "Unauthorized"
// @Failure 500 {object} map[string]string "Failed to subscribe"
// @Security BearerAuth
// @Router /rooms/{roomID}/streams/players [get]
func (h *streamHandler) streamPlayers(c *gin.Context) {
	h.stream(c, "balance", h.feed.SubscribePlayers)
}

func (h *streamHandler) stream(c *gin.Context, eventName string, subscribe func(ctx context.Context, roomID string) (<-chan []byte, error)) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	roomID := sessionRoomID(c)

	// The request context is cancelled when the client disconnects, which
	// closes the subscription channel and ends the stream.
	ctx := c.Request.Context()
	events, err := subscribe(ctx, roomID)
	if err != nil {
		logger.Error("Failed to subscribe to room feed", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to subscribe"})
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.Flush()

	logger.Info("Feed stream opened", slog.String("event", eventName))

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	c.Stream(func(w io.Writer) bool {
		select {
		case <-ctx.Done():
			return false
		case <-heartbeat.C:
			// Comment line keeps proxies from closing an idle connection.
			fmt.Fprint(w, ": ping\n\n")
			return true
		case payload, ok := <-events:
			if !ok {
				return false
			}
			fmt.Fprintf(w, "event: %s\ndata: %s\n\n", eventName, payload)
			return true
		}
	})

	logger.Info("Feed stream closed", slog.String("event", eventName))
}
