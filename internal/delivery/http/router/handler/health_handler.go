// Package handler contains the Echo handlers behind the HTTP routes.
package handler

import (
	"net/http"

	"leadtrack/internal/delivery/http/response"

	"github.com/labstack/echo/v4"
)

// HealthCheck reports process liveness.
func HealthCheck(c echo.Context) error {
	return response.Success(c, http.StatusOK, map[string]string{"status": "ok"}, "Service is healthy")
}
