package middleware

import (
	"net/http"
	"strings"

	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/service"

	"github.com/labstack/echo/v4"
)

// actorContextKey is the echo.Context key carrying the authenticated actor.
const actorContextKey = "actor"

// AuthMiddleware provides middleware for JWT authentication.
type AuthMiddleware struct {
	tokenSvc service.TokenService
}

// NewAuthMiddleware is the constructor for AuthMiddleware.
func NewAuthMiddleware(tokenSvc service.TokenService) *AuthMiddleware {
	return &AuthMiddleware{tokenSvc: tokenSvc}
}

// Authenticate is the core middleware function that validates the JWT access token.
func (m *AuthMiddleware) Authenticate(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Authorization header is missing"})
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid token format, must be Bearer token"})
		}

		actor, err := m.tokenSvc.ValidateToken(tokenString)
		if err != nil || actor.IsZero() {
			return c.JSON(http.StatusUnauthorized, map[string]string{"error": "Invalid or expired token"})
		}

		// Set the actor on the context for handlers to use
		c.Set(actorContextKey, actor)

		return next(c)
	}
}

// GetActor returns the authenticated actor set by Authenticate.
func GetActor(c echo.Context) (entity.Actor, bool) {
	actor, ok := c.Get(actorContextKey).(entity.Actor)

	return actor, ok
}
