package services

import "time"

// TokenSvcFacade issues room-scoped session tokens. A session is created on
// create/join and is the explicit context object callers present on every
// subsequent request.
type TokenSvcFacade interface {
	GenerateSessionToken(roomID string) (token string, expiresAt time.Time, err error)
}
