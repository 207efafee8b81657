// Package auth provides concrete implementations for authentication-related domain services.
package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"leadtrack/config"
	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/service"
)

// jwtService is a concrete implementation of the TokenService interface using the JWT standard.
type jwtService struct {
	accessSecret string        // Secret key for signing access tokens.
	accessTTL    time.Duration // Time-to-live for access tokens.
}

// NewJWTService is the constructor for jwtService.
func NewJWTService(cfg *config.Config) (service.TokenService, error) {
	if cfg.SecretKey.Access == "" {
		return nil, errors.New("jwt access secret must be provided")
	}

	return &jwtService{
		accessSecret: cfg.SecretKey.Access,
		accessTTL:    time.Hour * 8, // one working day
	}, nil
}

// GenerateToken creates a signed access token carrying the staff user's roles
// and accessible entity IDs for stateless authorization.
func (s *jwtService) GenerateToken(userID uuid.UUID, roles []string, entityIDs []uuid.UUID) (string, error) {
	entities := make([]string, 0, len(entityIDs))
	for _, id := range entityIDs {
		entities = append(entities, id.String())
	}

	claims := jwt.MapClaims{
		"sub":      userID.String(),
		"iat":      time.Now().Unix(),
		"exp":      time.Now().Add(s.accessTTL).Unix(),
		"type":     "access",
		"roles":    roles,
		"entities": entities,
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	return token.SignedString([]byte(s.accessSecret))
}

// ValidateToken checks a token string and extracts the caller identity.
func (s *jwtService) ValidateToken(tokenString string) (entity.Actor, error) {
	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (any, error) {
		// Ensure the signing method is what we expect.
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return []byte(s.accessSecret), nil
	})
	if err != nil {
		return entity.Actor{}, err
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok || !token.Valid {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}
	if typ, _ := claims["type"].(string); typ != "access" {
		return entity.Actor{}, jwt.ErrTokenInvalidClaims
	}

	sub, err := claims.GetSubject()
	if err != nil {
		return entity.Actor{}, err
	}
	userID, err := uuid.Parse(sub)
	if err != nil {
		return entity.Actor{}, jwt.ErrTokenInvalidSubject
	}

	actor := entity.Actor{UserID: userID}
	if rawRoles, ok := claims["roles"].([]any); ok {
		for _, r := range rawRoles {
			if role, ok := r.(string); ok {
				actor.Roles = append(actor.Roles, role)
			}
		}
	}
	if rawEntities, ok := claims["entities"].([]any); ok {
		for _, e := range rawEntities {
			s, ok := e.(string)
			if !ok {
				continue
			}
			id, err := uuid.Parse(s)
			if err != nil {
				return entity.Actor{}, jwt.ErrTokenInvalidClaims
			}
			actor.EntityIDs = append(actor.EntityIDs, id)
		}
	}

	return actor, nil
}
