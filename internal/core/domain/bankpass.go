package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// BankPassRequestStatus is the state of a pending bank pass approval.
type BankPassRequestStatus string

const (
	RequestPending   BankPassRequestStatus = "pending"
	RequestConfirmed BankPassRequestStatus = "confirmed"
	RequestRejected  BankPassRequestStatus = "rejected"
	RequestCancelled BankPassRequestStatus = "cancelled"
)

// BankPassRequest is a pending bank withdrawal awaiting confirmation from the
// other players in the room. Only used when approval mode is enabled; the
// default flow executes bank passes directly.
type BankPassRequest struct {
	RequestID       string                `json:"requestID"`
	RoomID          string                `json:"roomID"`
	RequestedBy     string                `json:"requestedBy"` // player id
	RequestedByName string                `json:"requestedByName"`
	Amount          decimal.Decimal       `json:"amount"`
	Status          BankPassRequestStatus `json:"status"`
	Confirmations   []string              `json:"confirmations"` // player ids
	Rejections      []string              `json:"rejections"`    // player ids
	CreatedAt       time.Time             `json:"createdAt"`
	ResolvedAt      *time.Time            `json:"resolvedAt,omitempty"`
}
