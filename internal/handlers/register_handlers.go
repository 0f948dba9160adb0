package handlers

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/piconopoly/backend/cmd/docs"
	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/middleware"
	"github.com/piconopoly/backend/internal/platform/config"
)

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	r.GET("/", getHome)
	r.GET("/health", func(c *gin.Context) {
		c.String(200, "OK")
	})

	setupAPIV1Routes(r, cfg, services)
	setupSwaggerRoutes(r, cfg)
}

// setupAPIV1Routes configures the /api/v1 group. Room creation and joining
// are public; everything else requires a room session token.
func setupAPIV1Routes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
) {
	v1 := r.Group("/api/v1")
	registerPublicRoomRoutes(v1, services.Room, services.Token)

	room := v1.Group("/rooms/:roomID", middleware.SessionAuthMiddleware(cfg.JWTSecret))
	registerRoomRoutes(room, services.Room, services.Token)
	registerPlayerRoutes(room, services.Player)
	registerLedgerRoutes(room, services.Ledger, cfg.BankPassApprovalRequired)
	registerBankPassRoutes(room, services.BankPass)
	registerStreamRoutes(room, services.Feed)
}

// sessionRoomID returns the room id of the authenticated session. Handlers
// behind SessionAuthMiddleware use this instead of the path parameter so the
// room they act on is always the one the token was issued for; the middleware
// already rejects requests whose path disagrees with the session.
func sessionRoomID(c *gin.Context) string {
	if roomID, ok := middleware.GetRoomIDFromCtx(c.Request.Context()); ok {
		return roomID
	}
	return c.Param("roomID")
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
