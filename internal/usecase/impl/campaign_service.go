package impl

import (
	"context"
	"strings"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type campaignService struct {
	campaignRepo repository.CampaignRepository
}

// CampaignServiceParams holds dependencies for CampaignService, injected by Fx.
type CampaignServiceParams struct {
	fx.In

	CampaignRepo repository.CampaignRepository
}

// NewCampaignService creates a new campaign service instance
func NewCampaignService(params CampaignServiceParams) usecase.CampaignUsecase {
	return &campaignService{
		campaignRepo: params.CampaignRepo,
	}
}

// CreateCampaign creates a campaign scoped to one business entity.
func (s *campaignService) CreateCampaign(ctx context.Context, actor entity.Actor, input usecase.CreateCampaignInput) (*entity.Campaign, error) {
	if err := s.authorize(actor, input.EntityID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("campaign name is required")
	}

	campaign := &entity.Campaign{
		EntityID: input.EntityID,
		Name:     strings.TrimSpace(input.Name),
		Status:   "active",
	}
	if err := s.campaignRepo.CreateCampaign(ctx, campaign); err != nil {
		return nil, errors.Wrap(err, "failed to create campaign")
	}

	return campaign, nil
}

// CreateIntake creates an intake, optionally bound to a campaign.
func (s *campaignService) CreateIntake(ctx context.Context, actor entity.Actor, input usecase.CreateIntakeInput) (*entity.Intake, error) {
	if err := s.authorize(actor, input.EntityID); err != nil {
		return nil, err
	}
	if strings.TrimSpace(input.Name) == "" {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("intake name is required")
	}

	if input.CampaignID != nil {
		campaign, err := s.campaignRepo.FindCampaignByID(ctx, *input.CampaignID)
		if err != nil {
			if errors.Is(err, repository.ErrCampaignNotFound) {
				return nil, domainerrors.ErrCampaignNotFound
			}

			return nil, errors.Wrap(err, "failed to load campaign")
		}
		if campaign.EntityID != input.EntityID {
			return nil, domainerrors.ErrInvalidArgument.WrapMessage("campaign belongs to a different entity")
		}
	}

	intake := &entity.Intake{
		EntityID:   input.EntityID,
		CampaignID: input.CampaignID,
		Name:       strings.TrimSpace(input.Name),
		Status:     "open",
	}
	if err := s.campaignRepo.CreateIntake(ctx, intake); err != nil {
		return nil, errors.Wrap(err, "failed to create intake")
	}

	return intake, nil
}

func (s *campaignService) authorize(actor entity.Actor, entityID uuid.UUID) error {
	if actor.IsZero() {
		return domainerrors.ErrUnauthenticated
	}
	if !actor.Privileged() {
		return domainerrors.ErrPermissionDenied
	}
	if !actor.CanAccessEntity(entityID) {
		return domainerrors.ErrPermissionDenied
	}

	return nil
}
