package handler

import (
	"log/slog"
	"net/http"

	"leadtrack/internal/delivery/http/response"
	"leadtrack/internal/domain/entity"
	"leadtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

// EnquiryHandlerParams holds dependencies for EnquiryHandler, injected by Fx.
type EnquiryHandlerParams struct {
	fx.In

	EnquiryUC usecase.EnquiryUsecase
	Logger    *slog.Logger
}

// EnquiryHandler handles the public enquiry submission endpoint.
type EnquiryHandler struct {
	enquiryUC usecase.EnquiryUsecase
	logger    *slog.Logger
}

// NewEnquiryHandler is the constructor for EnquiryHandler
func NewEnquiryHandler(params EnquiryHandlerParams) *EnquiryHandler {
	return &EnquiryHandler{
		enquiryUC: params.EnquiryUC,
		logger:    params.Logger,
	}
}

// SubmitEnquiryRequest represents the public enquiry submission body.
type SubmitEnquiryRequest struct {
	IntakeID          uuid.UUID          `json:"intakeId" validate:"required"`
	FirstName         string             `json:"firstName" validate:"required"`
	LastName          string             `json:"lastName" validate:"required"`
	Email             string             `json:"email"`
	Phone             string             `json:"phone"`
	DOB               string             `json:"dob" validate:"required"`
	ContactPreference string             `json:"contactPreference"`
	Notes             string             `json:"notes"`
	MarketingConsent  bool               `json:"marketingConsent"`
	ConsentToContact  bool               `json:"consentToContact"`
	Attribution       entity.Attribution `json:"attribution"`
}

// EnquiryResponse is what the public form gets back. Person details stay
// internal; only the identifiers needed for a confirmation screen go out.
type EnquiryResponse struct {
	LeadID   uuid.UUID `json:"leadId"`
	PersonID uuid.UUID `json:"personId"`
	Stage    string    `json:"stage"`
}

// SubmitEnquiry handles one public enquiry form submission
func (h *EnquiryHandler) SubmitEnquiry(c echo.Context) error {
	var req SubmitEnquiryRequest
	if err := c.Bind(&req); err != nil {
		return response.BindingError(c, "INVALID_INPUT", "Invalid enquiry input")
	}

	if err := c.Validate(&req); err != nil {
		return response.BadRequest(c, "VALIDATION_ERROR", err.Error())
	}

	result, err := h.enquiryUC.SubmitEnquiry(c.Request().Context(), usecase.EnquiryInput{
		IntakeID:          req.IntakeID,
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Email:             req.Email,
		Phone:             req.Phone,
		DOB:               req.DOB,
		ContactPreference: req.ContactPreference,
		Notes:             req.Notes,
		MarketingConsent:  req.MarketingConsent,
		ConsentToContact:  req.ConsentToContact,
		Attribution:       req.Attribution,
		UserAgent:         c.Request().UserAgent(),
		Referrer:          c.Request().Referer(),
	})
	if err != nil {
		return response.HandleAppError(c, err)
	}

	return response.Success(c, http.StatusCreated, EnquiryResponse{
		LeadID:   result.Lead.ID,
		PersonID: result.Person.ID,
		Stage:    result.Lead.Stage,
	}, "Enquiry submitted successfully")
}
