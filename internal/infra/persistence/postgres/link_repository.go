package postgres

import (
	"context"
	"encoding/json"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// linkRepository implements the repository.LinkRepository interface.
type linkRepository struct {
	db *gorm.DB
}

// NewLinkRepository is the constructor for linkRepository.
func NewLinkRepository(db *gorm.DB) repository.LinkRepository {
	return &linkRepository{
		db: db,
	}
}

// FindByID retrieves a campaign link by id.
func (repo *linkRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.CampaignLink, error) {
	var linkM model.CampaignLinkModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&linkM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLinkNotFound
		}

		return nil, errors.Wrap(err, "failed to find campaign link by ID")
	}

	return toLinkDomain(&linkM)
}

// Create persists a new campaign link.
func (repo *linkRepository) Create(ctx context.Context, link *entity.CampaignLink) error {
	linkM, err := fromLinkDomain(link)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(linkM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateLinkCode
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid campaign or intake reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required link information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create campaign link")
	}

	// Update the entity with generated values
	link.ID = linkM.ID
	link.CreatedAt = linkM.CreatedAt
	link.UpdatedAt = linkM.UpdatedAt

	return nil
}

// Update modifies an existing campaign link, counters included.
func (repo *linkRepository) Update(ctx context.Context, link *entity.CampaignLink) error {
	linkM, err := fromLinkDomain(link)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Omit("CreatedAt").
		Where("id = ?", link.ID).
		Save(linkM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update campaign link")
	}

	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	return nil
}

// FindCode looks up a short-code reservation.
func (repo *linkRepository) FindCode(ctx context.Context, code string) (*entity.LinkCode, error) {
	var codeM model.LinkCodeModel

	if err := repo.db.WithContext(ctx).
		Where("code = ?", code).
		First(&codeM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLinkCodeNotFound
		}

		return nil, errors.Wrap(err, "failed to find link code")
	}

	return &entity.LinkCode{
		Code:           codeM.Code,
		CampaignLinkID: codeM.CampaignLinkID,
		CreatedAt:      codeM.CreatedAt,
	}, nil
}

// CreateCode inserts one code reservation. The primary key on the code string
// turns a concurrent duplicate insert into ErrDuplicateLinkCode.
func (repo *linkRepository) CreateCode(ctx context.Context, code *entity.LinkCode) error {
	codeM := &model.LinkCodeModel{
		Code:           code.Code,
		CampaignLinkID: code.CampaignLinkID,
	}

	if err := repo.db.WithContext(ctx).Create(codeM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateLinkCode
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create link code")
	}

	code.CreatedAt = codeM.CreatedAt

	return nil
}

// AddClicks atomically bumps the click counter with a single UPDATE. This runs
// outside caller-managed transactions; a lost increment only skews the
// advisory counter, the click event log stays exact.
func (repo *linkRepository) AddClicks(ctx context.Context, linkID uuid.UUID, delta int64) error {
	result := repo.db.WithContext(ctx).
		Model(&model.CampaignLinkModel{}).
		Where("id = ?", linkID).
		Update("clicks", gorm.Expr("clicks + ?", delta))

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to add clicks")
	}

	if result.RowsAffected == 0 {
		return repository.ErrLinkNotFound
	}

	return nil
}

// CreateClickEvent appends one click event to the log.
func (repo *linkRepository) CreateClickEvent(ctx context.Context, event *entity.ClickEvent) error {
	eventM, err := fromClickEventDomain(event)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		return domainerrors.NewDatabaseExecuteError(err, "failed to create click event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt

	return nil
}

// ListClickEventsByLink returns the click log for one link in append order.
func (repo *linkRepository) ListClickEventsByLink(ctx context.Context, linkID uuid.UUID) ([]*entity.ClickEvent, error) {
	var eventModels []*model.ClickEventModel

	if err := repo.db.WithContext(ctx).
		Where("campaign_link_id = ?", linkID).
		Order("created_at ASC, id ASC").
		Find(&eventModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list click events")
	}

	events := make([]*entity.ClickEvent, 0, len(eventModels))
	for _, eventM := range eventModels {
		event, err := toClickEventDomain(eventM)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// --- Mapper Functions ---

// toLinkDomain converts a GORM CampaignLinkModel to a domain CampaignLink.
func toLinkDomain(data *model.CampaignLinkModel) (*entity.CampaignLink, error) {
	if data == nil {
		return nil, nil
	}

	link := &entity.CampaignLink{
		ID:          data.ID,
		Code:        data.Code,
		EntityID:    data.EntityID,
		CampaignID:  data.CampaignID,
		IntakeID:    data.IntakeID,
		Label:       data.Label,
		Channel:     data.Channel,
		QRVariant:   data.QRVariant,
		BDUserID:    data.BDUserID,
		State:       entity.LinkState(data.State),
		Clicks:      data.Clicks,
		Enquiries:   data.Enquiries,
		Enrollments: data.Enrollments,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}

	if len(data.UTMDefaults) > 0 {
		if err := json.Unmarshal(data.UTMDefaults, &link.UTMDefaults); err != nil {
			return nil, errors.Wrap(err, "failed to decode link UTM defaults")
		}
	}

	return link, nil
}

// fromLinkDomain converts a domain CampaignLink to a GORM CampaignLinkModel.
func fromLinkDomain(data *entity.CampaignLink) (*model.CampaignLinkModel, error) {
	if data == nil {
		return nil, nil
	}

	utmDefaults, err := json.Marshal(data.UTMDefaults)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode link UTM defaults")
	}

	return &model.CampaignLinkModel{
		ID:          data.ID,
		Code:        data.Code,
		EntityID:    data.EntityID,
		CampaignID:  data.CampaignID,
		IntakeID:    data.IntakeID,
		Label:       data.Label,
		Channel:     data.Channel,
		QRVariant:   data.QRVariant,
		BDUserID:    data.BDUserID,
		UTMDefaults: utmDefaults,
		State:       string(data.State),
		Clicks:      data.Clicks,
		Enquiries:   data.Enquiries,
		Enrollments: data.Enrollments,
		CreatedAt:   data.CreatedAt,
		UpdatedAt:   data.UpdatedAt,
	}, nil
}

// toClickEventDomain converts a GORM ClickEventModel to a domain ClickEvent.
func toClickEventDomain(data *model.ClickEventModel) (*entity.ClickEvent, error) {
	if data == nil {
		return nil, nil
	}

	event := &entity.ClickEvent{
		ID:             data.ID,
		Code:           data.Code,
		CampaignLinkID: data.CampaignLinkID,
		EntityID:       data.EntityID,
		CampaignID:     data.CampaignID,
		IntakeID:       data.IntakeID,
		Channel:        data.Channel,
		QRVariant:      data.QRVariant,
		BDUserID:       data.BDUserID,
		Source:         entity.ClickSource(data.Source),
		IPHash:         data.IPHash,
		UAHash:         data.UAHash,
		Referrer:       data.Referrer,
		CreatedAt:      data.CreatedAt,
	}

	if len(data.UTM) > 0 {
		if err := json.Unmarshal(data.UTM, &event.UTM); err != nil {
			return nil, errors.Wrap(err, "failed to decode click event UTM snapshot")
		}
	}

	return event, nil
}

// fromClickEventDomain converts a domain ClickEvent to a GORM ClickEventModel.
func fromClickEventDomain(data *entity.ClickEvent) (*model.ClickEventModel, error) {
	if data == nil {
		return nil, nil
	}

	utm, err := json.Marshal(data.UTM)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode click event UTM snapshot")
	}

	return &model.ClickEventModel{
		ID:             data.ID,
		Code:           data.Code,
		CampaignLinkID: data.CampaignLinkID,
		EntityID:       data.EntityID,
		CampaignID:     data.CampaignID,
		IntakeID:       data.IntakeID,
		Channel:        data.Channel,
		QRVariant:      data.QRVariant,
		BDUserID:       data.BDUserID,
		UTM:            utm,
		Source:         string(data.Source),
		IPHash:         data.IPHash,
		UAHash:         data.UAHash,
		Referrer:       data.Referrer,
		CreatedAt:      data.CreatedAt,
	}, nil
}
