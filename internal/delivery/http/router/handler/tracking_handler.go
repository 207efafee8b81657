package handler

import (
	"log/slog"
	"net/http"

	"leadtrack/internal/delivery/http/response"
	"leadtrack/internal/usecase"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// TrackingHandlerParams holds dependencies for TrackingHandler, injected by Fx.
type TrackingHandlerParams struct {
	fx.In

	TrackingUC usecase.TrackingUsecase
	Logger     *slog.Logger
}

// TrackingHandler handles the visitor-facing short link endpoints.
type TrackingHandler struct {
	trackingUC usecase.TrackingUsecase
	logger     *slog.Logger
}

// NewTrackingHandler is the constructor for TrackingHandler
func NewTrackingHandler(params TrackingHandlerParams) *TrackingHandler {
	return &TrackingHandler{
		trackingUC: params.TrackingUC,
		logger:     params.Logger,
	}
}

// Redirect resolves a short code and 302s the visitor to the enquiry form.
func (h *TrackingHandler) Redirect(c echo.Context) error {
	dest, err := h.trackingUC.ResolveRedirect(c.Request().Context(), c.Param("code"), clickContext(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	// Redirects must never be cached: every scan has to hit the service so
	// the click is observed.
	c.Response().Header().Set("Cache-Control", "no-store")

	return c.Redirect(http.StatusFound, dest)
}

// RedirectMissingCode answers the bare redirect path without a code.
func (h *TrackingHandler) RedirectMissingCode(c echo.Context) error {
	return response.BadRequest(c, "INVALID_INPUT", "Link code is required")
}

// Resolve returns the link's attribution context for client-side integrations.
func (h *TrackingHandler) Resolve(c echo.Context) error {
	resolution, err := h.trackingUC.ResolveCode(c.Request().Context(), c.Param("code"), clickContext(c))
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, resolution, "Link resolved successfully")
}

func clickContext(c echo.Context) usecase.ClickContext {
	return usecase.ClickContext{
		IP:        c.RealIP(),
		UserAgent: c.Request().UserAgent(),
		Referrer:  c.Request().Referer(),
	}
}
