package repositories

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
)

// ConfigRepositoryFacade reads the per-room game configuration. Writes happen
// only inside room provisioning and reset, which own their transactions.
type ConfigRepositoryFacade interface {
	FindConfigByRoomID(ctx context.Context, roomID string) (*domain.GameConfig, error)
}
