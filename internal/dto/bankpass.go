package dto

import (
	"time"

	"github.com/piconopoly/backend/internal/core/domain"
	"github.com/shopspring/decimal"
)

// CreateBankPassRequestRequest opens an approval request for a bank
// withdrawal (approval mode only).
type CreateBankPassRequestRequest struct {
	PlayerID string          `json:"playerID" binding:"required"`
	Amount   decimal.Decimal `json:"amount" binding:"required"`
}

// ResolveBankPassRequestRequest records a confirm or reject vote.
type ResolveBankPassRequestRequest struct {
	PlayerID string `json:"playerID" binding:"required"`
}

// BankPassRequestResponse defines the data returned for an approval request.
type BankPassRequestResponse struct {
	RequestID       string                       `json:"requestID"`
	RoomID          string                       `json:"roomID"`
	RequestedBy     string                       `json:"requestedBy"`
	RequestedByName string                       `json:"requestedByName"`
	Amount          decimal.Decimal              `json:"amount"`
	Status          domain.BankPassRequestStatus `json:"status"`
	Confirmations   []string                     `json:"confirmations"`
	Rejections      []string                     `json:"rejections"`
	CreatedAt       time.Time                    `json:"createdAt"`
	ResolvedAt      *time.Time                   `json:"resolvedAt,omitempty"`
}

// ToBankPassRequestResponse converts a domain request to its response DTO.
func ToBankPassRequestResponse(r *domain.BankPassRequest) BankPassRequestResponse {
	return BankPassRequestResponse{
		RequestID:       r.RequestID,
		RoomID:          r.RoomID,
		RequestedBy:     r.RequestedBy,
		RequestedByName: r.RequestedByName,
		Amount:          r.Amount,
		Status:          r.Status,
		Confirmations:   r.Confirmations,
		Rejections:      r.Rejections,
		CreatedAt:       r.CreatedAt,
		ResolvedAt:      r.ResolvedAt,
	}
}

// ToBankPassRequestResponses converts a slice of requests to response DTOs.
func ToBankPassRequestResponses(reqs []domain.BankPassRequest) []BankPassRequestResponse {
	res := make([]BankPassRequestResponse, len(reqs))
	for i, r := range reqs {
		res[i] = ToBankPassRequestResponse(&r)
	}
	return res
}
