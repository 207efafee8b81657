package handler

import (
	"log/slog"
	"net/http"

	"leadtrack/internal/delivery/http/middleware"
	"leadtrack/internal/delivery/http/response"
	"leadtrack/internal/domain/entity"
	"leadtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// LinkHandlerParams holds dependencies for LinkHandler, injected by Fx.
type LinkHandlerParams struct {
	fx.In

	LinkUC usecase.LinkUsecase
	Logger *slog.Logger
}

// LinkHandler handles campaign link management endpoints.
type LinkHandler struct {
	linkUC usecase.LinkUsecase
	logger *slog.Logger
}

// NewLinkHandler is the constructor for LinkHandler
func NewLinkHandler(params LinkHandlerParams) *LinkHandler {
	return &LinkHandler{
		linkUC: params.LinkUC,
		logger: params.Logger,
	}
}

// CreateLinkRequest represents the request body for minting a campaign link
type CreateLinkRequest struct {
	EntityID    uuid.UUID        `json:"entityId" validate:"required"`
	CampaignID  uuid.UUID        `json:"campaignId" validate:"required"`
	IntakeID    uuid.UUID        `json:"intakeId" validate:"required"`
	Label       string           `json:"label"`
	Channel     string           `json:"channel" validate:"required"`
	QRVariant   string           `json:"qrVariant"`
	BDUserID    *uuid.UUID       `json:"bdUserId,omitempty"`
	UTMDefaults entity.UTMParams `json:"utmDefaults"`
}

// CreateLink handles minting a new trackable link
func (h *LinkHandler) CreateLink(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	var req CreateLinkRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid link input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	link, err := h.linkUC.CreateLink(c.Request().Context(), actor, usecase.CreateLinkInput{
		EntityID:    req.EntityID,
		CampaignID:  req.CampaignID,
		IntakeID:    req.IntakeID,
		Label:       req.Label,
		Channel:     req.Channel,
		QRVariant:   req.QRVariant,
		BDUserID:    req.BDUserID,
		UTMDefaults: req.UTMDefaults,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, link, "Link created successfully")
}

// GetLinkQR handles rendering the link's short URL as a QR code
func (h *LinkHandler) GetLinkQR(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	linkID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid link ID")
	}

	qrCode, err := h.linkUC.GetLinkQR(c.Request().Context(), actor, linkID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	// Return QR code as PNG image
	c.Response().Header().Set("Content-Disposition", "inline; filename=link-qr.png")

	return c.Blob(http.StatusOK, "image/png", qrCode)
}
