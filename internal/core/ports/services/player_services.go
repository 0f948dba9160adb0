package services

import (
	"context"

	"github.com/piconopoly/backend/internal/core/domain"
)

// PlayerSvcFacade manages room-scoped player accounts. Balance mutation is
// not part of this facade; only the ledger moves money.
type PlayerSvcFacade interface {
	CreatePlayer(ctx context.Context, roomID string, name string) (*domain.Player, error)
	GetPlayer(ctx context.Context, roomID string, playerID string) (*domain.Player, error)
	ListPlayers(ctx context.Context, roomID string) ([]domain.Player, error)
	GetFreeParkingPlayer(ctx context.Context, roomID string) (*domain.Player, error)
}
