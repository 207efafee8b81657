package service

import (
	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// TokenService issues and validates the staff access tokens used by the
// authenticated operations. This service only authenticates; authorization
// decisions stay in the usecases on the extracted Actor.
type TokenService interface {
	// GenerateToken creates a signed access token for a staff user.
	GenerateToken(userID uuid.UUID, roles []string, entityIDs []uuid.UUID) (string, error)

	// ValidateToken checks a token string and returns the caller identity.
	ValidateToken(tokenString string) (entity.Actor, error)
}
