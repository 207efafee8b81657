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

// LeadHandlerParams holds dependencies for LeadHandler, injected by Fx.
type LeadHandlerParams struct {
	fx.In

	LeadAdminUC usecase.LeadAdminUsecase
	Logger      *slog.Logger
}

// LeadHandler handles staff-facing lead management endpoints.
type LeadHandler struct {
	leadAdminUC usecase.LeadAdminUsecase
	logger      *slog.Logger
}

// NewLeadHandler is the constructor for LeadHandler
func NewLeadHandler(params LeadHandlerParams) *LeadHandler {
	return &LeadHandler{
		leadAdminUC: params.LeadAdminUC,
		logger:      params.Logger,
	}
}

// UpdateStageRequest represents the request body for a stage transition
type UpdateStageRequest struct {
	Stage  string `json:"stage" validate:"required"`
	Reason string `json:"reason"`
	Notes  string `json:"notes"`
}

// UploadItem represents one uploaded document to record
type UploadItem struct {
	FileName    string `json:"fileName" validate:"required"`
	ContentType string `json:"contentType"`
	StoragePath string `json:"storagePath" validate:"required"`
	Size        int64  `json:"size"`
}

// RegisterUploadsRequest represents the request body for recording documents
type RegisterUploadsRequest struct {
	Uploads []UploadItem `json:"uploads" validate:"dive"`
}

// UpdateStage handles moving a lead to a new stage
func (h *LeadHandler) UpdateStage(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid lead ID")
	}

	var req UpdateStageRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid stage input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	lead, err := h.leadAdminUC.UpdateLeadStage(c.Request().Context(), actor, leadID, usecase.UpdateStageInput{
		Stage:  req.Stage,
		Reason: req.Reason,
		Notes:  req.Notes,
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, lead, "Lead stage updated successfully")
}

// RegisterUploads handles recording uploaded documents on a lead
func (h *LeadHandler) RegisterUploads(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid lead ID")
	}

	var req RegisterUploadsRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid document input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	uploads := make([]usecase.UploadInput, 0, len(req.Uploads))
	for _, item := range req.Uploads {
		uploads = append(uploads, usecase.UploadInput{
			FileName:    item.FileName,
			ContentType: item.ContentType,
			StoragePath: item.StoragePath,
			Size:        item.Size,
		})
	}

	lead, err := h.leadAdminUC.RegisterUploads(c.Request().Context(), actor, leadID, uploads)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, lead, "Documents registered successfully")
}

// ListEvents handles retrieving a lead's audit trail
func (h *LeadHandler) ListEvents(c echo.Context) error {
	actor, ok := middleware.GetActor(c)
	if !ok {
		return response.Unauthorized(c, "INVALID_TOKEN", "Invalid actor in token")
	}

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return response.BadRequest(c, "INVALID_ID", "Invalid lead ID")
	}

	events, err := h.leadAdminUC.ListLeadEvents(c.Request().Context(), actor, leadID)
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusOK, events, "Lead events retrieved successfully")
}
