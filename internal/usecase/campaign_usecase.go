package usecase

import (
	"context"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCampaignInput describes a new campaign.
type CreateCampaignInput struct {
	EntityID uuid.UUID
	Name     string
}

// CreateIntakeInput describes a new intake.
type CreateIntakeInput struct {
	EntityID   uuid.UUID
	CampaignID *uuid.UUID
	Name       string
}

// CampaignUsecase manages campaigns and intakes.
type CampaignUsecase interface {
	// CreateCampaign creates a campaign scoped to one business entity.
	CreateCampaign(ctx context.Context, actor entity.Actor, input CreateCampaignInput) (*entity.Campaign, error)

	// CreateIntake creates an intake, optionally bound to a campaign.
	CreateIntake(ctx context.Context, actor entity.Actor, input CreateIntakeInput) (*entity.Intake, error)
}
