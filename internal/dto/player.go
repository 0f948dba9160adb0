package dto

import (
	"time"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreatePlayerRequest defines the data needed to create a player. The balance
// comes from the room config, never from the caller.
type CreatePlayerRequest struct {
	Name string `json:"name" binding:"required"`
}

// PlayerResponse defines the data returned for a player.
type PlayerResponse struct {
	PlayerID  string          `json:"playerID"`
	RoomID    string          `json:"roomID"`
	Name      string          `json:"name"`
	Balance   decimal.Decimal `json:"balance"`
	IsParking bool            `json:"isParking"`
	CreatedAt time.Time       `json:"createdAt"`
}

// PlayerBalanceEvent is the incremental delta published on the players feed
// after a committed transfer. Consumers deduplicate by transaction id.
type PlayerBalanceEvent struct {
	RoomID        string          `json:"roomID"`
	PlayerID      string          `json:"playerID"`
	Balance       decimal.Decimal `json:"balance"`
	TransactionID string          `json:"transactionID"`
}

// ToPlayerResponse converts a domain.Player to PlayerResponse.
func ToPlayerResponse(p *domain.Player) PlayerResponse {
	return PlayerResponse{
		PlayerID:  p.PlayerID,
		RoomID:    p.RoomID,
		Name:      p.Name,
		Balance:   p.Balance,
		IsParking: p.IsParking,
		CreatedAt: p.CreatedAt,
	}
}

// ToListPlayerResponse converts a slice of domain.Player to response DTOs.
func ToListPlayerResponse(players []domain.Player) []PlayerResponse {
	res := make([]PlayerResponse, len(players))
	for i, p := range players {
		res[i] = ToPlayerResponse(&p)
	}
	return res
}
