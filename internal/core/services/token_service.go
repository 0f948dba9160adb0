package services

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	portssvc "github.com/piconopoly/backend/internal/core/ports/services"
	"github.com/piconopoly/backend/internal/platform/config"
)

// tokenService issues room-scoped session tokens (HMAC-signed JWTs with the
// room id as subject).
type tokenService struct {
	secret []byte
	issuer string
	expiry time.Duration
}

// NewTokenService creates a new TokenService from the application config.
func NewTokenService(cfg *config.Config) portssvc.TokenSvcFacade {
	return &tokenService{
		secret: []byte(cfg.JWTSecret),
		issuer: cfg.JWTIssuer,
		expiry: cfg.JWTExpiryDuration,
	}
}

var _ portssvc.TokenSvcFacade = (*tokenService)(nil)

// GenerateSessionToken mints a session token bound to the given room.
// Implements portssvc.TokenSvcFacade.
func (s *tokenService) GenerateSessionToken(roomID string) (string, time.Time, error) {
	now := time.Now().UTC()
	expiresAt := now.Add(s.expiry)

	claims := jwt.RegisteredClaims{
		Subject:   roomID,
		Issuer:    s.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expiresAt),
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign session token: %w", err)
	}
	return token, expiresAt, nil
}
