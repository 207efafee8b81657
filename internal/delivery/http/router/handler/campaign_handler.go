package handler

import (
	"log/slog"
	"net/http"

	"leadtrack/internal/delivery/http/middleware"
	"leadtrack/internal/delivery/http/response"
	"leadtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// CampaignHandlerParams holds dependencies for CampaignHandler, injected by Fx.
type CampaignHandlerParams struct {
	fx.In

	CampaignUC usecase.CampaignUsecase
	Logger     *slog.Logger
}

// CampaignHandler handles campaign and intake management endpoints.
type CampaignHandler struct {
	campaignUC usecase.CampaignUsecase
	logger     *slog.Logger
}

// NewCampaignHandler is the constructor for CampaignHandler
func NewCampaignHandler(params CampaignHandlerParams) *CampaignHandler {
	return &CampaignHandler{
		campaignUC: params.CampaignUC,
		logger:     params.Logger,
	}
}

// CreateCampaignRequest represents the request body for creating a campaign
type CreateCampaignRequest struct {
	EntityID uuid.UUID `json:"entityId" validate:"required"`
	Name     string    `json:"name" validate:"required"`
}

// CreateIntakeRequest represents the request body for creating an intake
type CreateIntakeRequest struct {
	EntityID   uuid.UUID  `json:"entityId" validate:"required"`
	CampaignID *uuid.UUID `json:"campaignId,omitempty"`
	Name       string     `json:"name" validate:"required"`
}

// CreateCampaign handles creating a campaign
func (h *CampaignHandler) CreateCampaign(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	var req CreateCampaignRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid campaign input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	campaign, err := h.campaignUC.CreateCampaign(c.Request().Context(), actor, usecase.CreateCampaignInput{
		EntityID: req.EntityID,
		Name:     req.Name,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, campaign, "Campaign created successfully")
}

// CreateIntake handles creating an intake
func (h *CampaignHandler) CreateIntake(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	var req CreateIntakeRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid intake input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	intake, err := h.campaignUC.CreateIntake(c.Request().Context(), actor, usecase.CreateIntakeInput{
		EntityID:   req.EntityID,
		CampaignID: req.CampaignID,
		Name:       req.Name,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, intake, "Intake created successfully")
}
