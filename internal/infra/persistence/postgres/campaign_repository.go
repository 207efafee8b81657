package postgres

import (
	"context"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// campaignRepository implements the repository.CampaignRepository interface.
type campaignRepository struct {
	db *gorm.DB
}

// NewCampaignRepository is the constructor for campaignRepository.
func NewCampaignRepository(db *gorm.DB) repository.CampaignRepository {
	return &campaignRepository{
		db: db,
	}
}

// FindCampaignByID retrieves a campaign by id.
func (repo *campaignRepository) FindCampaignByID(ctx context.Context, id uuid.UUID) (*entity.Campaign, error) {
	var campaignM model.CampaignModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&campaignM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrCampaignNotFound
		}

		return nil, errors.Wrap(err, "failed to find campaign by ID")
	}

	return toCampaignDomain(&campaignM), nil
}

// CreateCampaign persists a new campaign.
func (repo *campaignRepository) CreateCampaign(ctx context.Context, campaign *entity.Campaign) error {
	campaignM := fromCampaignDomain(campaign)

	if err := repo.db.WithContext(ctx).Create(campaignM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required campaign information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create campaign")
	}

	campaign.ID = campaignM.ID
	campaign.CreatedAt = campaignM.CreatedAt
	campaign.UpdatedAt = campaignM.UpdatedAt

	return nil
}

// FindIntakeByID retrieves an intake by id.
func (repo *campaignRepository) FindIntakeByID(ctx context.Context, id uuid.UUID) (*entity.Intake, error) {
	var intakeM model.IntakeModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&intakeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIntakeNotFound
		}

		return nil, errors.Wrap(err, "failed to find intake by ID")
	}

	return toIntakeDomain(&intakeM), nil
}

// CreateIntake persists a new intake.
func (repo *campaignRepository) CreateIntake(ctx context.Context, intake *entity.Intake) error {
	intakeM := fromIntakeDomain(intake)

	if err := repo.db.WithContext(ctx).Create(intakeM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid campaign reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required intake information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create intake")
	}

	intake.ID = intakeM.ID
	intake.CreatedAt = intakeM.CreatedAt
	intake.UpdatedAt = intakeM.UpdatedAt

	return nil
}

// --- Mapper Functions ---

// toCampaignDomain converts a GORM CampaignModel to a domain Campaign entity.
func toCampaignDomain(data *model.CampaignModel) *entity.Campaign {
	if data == nil {
		return nil
	}

	return &entity.Campaign{
		ID:        data.ID,
		EntityID:  data.EntityID,
		Name:      data.Name,
		Status:    data.Status,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// fromCampaignDomain converts a domain Campaign entity to a GORM CampaignModel.
func fromCampaignDomain(data *entity.Campaign) *model.CampaignModel {
	if data == nil {
		return nil
	}

	return &model.CampaignModel{
		ID:        data.ID,
		EntityID:  data.EntityID,
		Name:      data.Name,
		Status:    data.Status,
		CreatedAt: data.CreatedAt,
		UpdatedAt: data.UpdatedAt,
	}
}

// toIntakeDomain converts a GORM IntakeModel to a domain Intake entity.
func toIntakeDomain(data *model.IntakeModel) *entity.Intake {
	if data == nil {
		return nil
	}

	return &entity.Intake{
		ID:         data.ID,
		EntityID:   data.EntityID,
		CampaignID: data.CampaignID,
		Name:       data.Name,
		Status:     data.Status,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}

// fromIntakeDomain converts a domain Intake entity to a GORM IntakeModel.
func fromIntakeDomain(data *entity.Intake) *model.IntakeModel {
	if data == nil {
		return nil
	}

	return &model.IntakeModel{
		ID:         data.ID,
		EntityID:   data.EntityID,
		CampaignID: data.CampaignID,
		Name:       data.Name,
		Status:     data.Status,
		CreatedAt:  data.CreatedAt,
		UpdatedAt:  data.UpdatedAt,
	}
}
