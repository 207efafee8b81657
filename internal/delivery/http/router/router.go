// Package router contains routing and server setup for the HTTP delivery.
package router

import (
	"leadtrack/internal/delivery/http/middleware"
	"leadtrack/internal/delivery/http/router/handler"

	"github.com/labstack/echo/v4"
	"go.uber.org/fx"
)

type RouterParams struct {
	fx.In

	EnquiryHandler  *handler.EnquiryHandler
	TrackingHandler *handler.TrackingHandler
	LinkHandler     *handler.LinkHandler
	LeadHandler     *handler.LeadHandler
	CampaignHandler *handler.CampaignHandler
	AuthMiddleware  *middleware.AuthMiddleware
}

// router holds all the handlers that need to be registered.
type router struct {
	enquiryHandler  *handler.EnquiryHandler
	trackingHandler *handler.TrackingHandler
	linkHandler     *handler.LinkHandler
	leadHandler     *handler.LeadHandler
	campaignHandler *handler.CampaignHandler
	authMiddleware  *middleware.AuthMiddleware
}

// NewRouter is the constructor for the Router.
// Fx will inject the required handlers here.
func NewRouter(params RouterParams) *router {
	return &router{
		enquiryHandler:  params.EnquiryHandler,
		trackingHandler: params.TrackingHandler,
		linkHandler:     params.LinkHandler,
		leadHandler:     params.LeadHandler,
		campaignHandler: params.CampaignHandler,
		authMiddleware:  params.AuthMiddleware,
	}
}

// RegisterRoutes sets up all the API routes for the application.
func (r *router) RegisterRoutes(e *echo.Echo) {
	// Health check endpoint
	e.GET("/health", handler.HealthCheck)

	// Visitor-facing short link redirect, no authentication
	e.GET("/r/:code", r.trackingHandler.Redirect)
	e.GET("/r/", r.trackingHandler.RedirectMissingCode)

	// Public API surface
	apiGroup := e.Group("/api")
	{
		apiGroup.POST("/enquiries", r.enquiryHandler.SubmitEnquiry)
		apiGroup.GET("/track/resolve/:code", r.trackingHandler.Resolve)
	}

	// Staff routes that require authentication; fine-grained entity and role
	// checks live in the usecases
	staffGroup := e.Group("/api")
	staffGroup.Use(r.authMiddleware.Authenticate)
	{
		staffGroup.POST("/links", r.linkHandler.CreateLink)
		staffGroup.GET("/links/:id/qr", r.linkHandler.GetLinkQR)

		staffGroup.POST("/campaigns", r.campaignHandler.CreateCampaign)
		staffGroup.POST("/intakes", r.campaignHandler.CreateIntake)

		staffGroup.POST("/leads/:id/stage", r.leadHandler.UpdateStage)
		staffGroup.POST("/leads/:id/documents", r.leadHandler.RegisterUploads)
		staffGroup.GET("/leads/:id/events", r.leadHandler.ListEvents)
	}
}
