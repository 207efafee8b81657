package repository

import (
	"context"
	"errors"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrCampaignNotFound is returned when a campaign lookup finds no record.
var ErrCampaignNotFound = errors.New("campaign not found")

// ErrIntakeNotFound is returned when an intake lookup finds no record.
var ErrIntakeNotFound = errors.New("intake not found")

// CampaignRepository covers campaigns and intakes.
type CampaignRepository interface {
	// FindCampaignByID retrieves a campaign by id.
	FindCampaignByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error)

	// CreateCampaign persists a new campaign.
	CreateCampaign(ctx context.Context, campaign *entity.Campaign) error

	// FindIntakeByID retrieves an intake by id.
	FindIntakeByID(ctx context.Context, id uuid.UUID) (*entity.Intake, error)

	// CreateIntake persists a new intake.
	CreateIntake(ctx context.Context, intake *entity.Intake) error
}
