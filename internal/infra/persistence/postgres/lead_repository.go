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

// leadRepository implements the repository.LeadRepository interface.
type leadRepository struct {
	db *gorm.DB
}

// NewLeadRepository is the constructor for leadRepository.
func NewLeadRepository(db *gorm.DB) repository.LeadRepository {
	return &leadRepository{
		db: db,
	}
}

// FindByID retrieves a single lead by id.
func (repo *leadRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error) {
	var leadM model.LeadModel

	if err := repo.db.WithContext(ctx).
		Where("id = ?", id).
		First(&leadM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrLeadNotFound
		}

		return nil, errors.Wrap(err, "failed to find lead by ID")
	}

	return toLeadDomain(&leadM)
}

// Create persists a new lead.
func (repo *leadRepository) Create(ctx context.Context, lead *entity.Lead) error {
	leadM, err := fromLeadDomain(lead)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(leadM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid person or intake reference")
		}
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required lead information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create lead")
	}

	// Update the entity with generated values
	lead.ID = leadM.ID
	lead.CreatedAt = leadM.CreatedAt
	lead.UpdatedAt = leadM.UpdatedAt

	return nil
}

// Update modifies an existing lead.
func (repo *leadRepository) Update(ctx context.Context, lead *entity.Lead) error {
	leadM, err := fromLeadDomain(lead)
	if err != nil {
		return err
	}

	result := repo.db.WithContext(ctx).
		Omit("CreatedAt").
		Where("id = ?", lead.ID).
		Save(leadM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update lead")
	}

	if result.RowsAffected == 0 {
		return repository.ErrLeadNotFound
	}

	return nil
}

// AppendEvent writes one immutable audit event.
func (repo *leadRepository) AppendEvent(ctx context.Context, event *entity.LeadEvent) error {
	eventM, err := fromLeadEventDomain(event)
	if err != nil {
		return err
	}

	if err := repo.db.WithContext(ctx).Create(eventM).Error; err != nil {
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid lead reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to append lead event")
	}

	event.ID = eventM.ID
	event.CreatedAt = eventM.CreatedAt

	return nil
}

// ListEventsByLead returns the audit trail for one lead in append order.
func (repo *leadRepository) ListEventsByLead(ctx context.Context, leadID uuid.UUID) ([]*entity.LeadEvent, error) {
	var eventModels []*model.LeadEventModel

	if err := repo.db.WithContext(ctx).
		Where("lead_id = ?", leadID).
		Order("created_at ASC, id ASC").
		Find(&eventModels).Error; err != nil {
		return nil, errors.Wrap(err, "failed to list lead events")
	}

	events := make([]*entity.LeadEvent, 0, len(eventModels))
	for _, eventM := range eventModels {
		event, err := toLeadEventDomain(eventM)
		if err != nil {
			return nil, err
		}
		events = append(events, event)
	}

	return events, nil
}

// --- Mapper Functions ---

// toLeadDomain converts a GORM LeadModel to a domain Lead entity.
func toLeadDomain(data *model.LeadModel) (*entity.Lead, error) {
	if data == nil {
		return nil, nil
	}

	lead := &entity.Lead{
		ID:                data.ID,
		EntityID:          data.EntityID,
		PersonID:          data.PersonID,
		IntakeID:          data.IntakeID,
		Status:            entity.LeadStatus(data.Status),
		Stage:             data.Stage,
		Score:             data.Score,
		ContactPreference: data.ContactPreference,
		Notes:             data.Notes,
		DropReason:        data.DropReason,
		DropNotes:         data.DropNotes,
		OwnerID:           data.OwnerID,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}

	if len(data.Attribution) > 0 {
		if err := json.Unmarshal(data.Attribution, &lead.Attribution); err != nil {
			return nil, errors.Wrap(err, "failed to decode lead attribution")
		}
	}
	if len(data.Clicks) > 0 {
		if err := json.Unmarshal(data.Clicks, &lead.Clicks); err != nil {
			return nil, errors.Wrap(err, "failed to decode lead click summary")
		}
	}
	if len(data.Documents) > 0 {
		if err := json.Unmarshal(data.Documents, &lead.Documents); err != nil {
			return nil, errors.Wrap(err, "failed to decode lead documents")
		}
	}

	return lead, nil
}

// fromLeadDomain converts a domain Lead entity to a GORM LeadModel.
func fromLeadDomain(data *entity.Lead) (*model.LeadModel, error) {
	if data == nil {
		return nil, nil
	}

	attribution, err := json.Marshal(data.Attribution)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode lead attribution")
	}
	clicks, err := json.Marshal(data.Clicks)
	if err != nil {
		return nil, errors.Wrap(err, "failed to encode lead click summary")
	}

	var documents []byte
	if len(data.Documents) > 0 {
		documents, err = json.Marshal(data.Documents)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode lead documents")
		}
	}

	return &model.LeadModel{
		ID:                data.ID,
		EntityID:          data.EntityID,
		PersonID:          data.PersonID,
		IntakeID:          data.IntakeID,
		Status:            string(data.Status),
		Stage:             data.Stage,
		Attribution:       attribution,
		Clicks:            clicks,
		Score:             data.Score,
		ContactPreference: data.ContactPreference,
		Notes:             data.Notes,
		DropReason:        data.DropReason,
		DropNotes:         data.DropNotes,
		OwnerID:           data.OwnerID,
		Documents:         documents,
		CreatedAt:         data.CreatedAt,
		UpdatedAt:         data.UpdatedAt,
	}, nil
}

// toLeadEventDomain converts a GORM LeadEventModel to a domain LeadEvent.
func toLeadEventDomain(data *model.LeadEventModel) (*entity.LeadEvent, error) {
	if data == nil {
		return nil, nil
	}

	event := &entity.LeadEvent{
		ID:        data.ID,
		LeadID:    data.LeadID,
		PersonID:  data.PersonID,
		Type:      entity.LeadEventType(data.Type),
		ActorID:   data.ActorID,
		CreatedAt: data.CreatedAt,
	}

	if len(data.Payload) > 0 {
		if err := json.Unmarshal(data.Payload, &event.Payload); err != nil {
			return nil, errors.Wrap(err, "failed to decode lead event payload")
		}
	}

	return event, nil
}

// fromLeadEventDomain converts a domain LeadEvent to a GORM LeadEventModel.
func fromLeadEventDomain(data *entity.LeadEvent) (*model.LeadEventModel, error) {
	if data == nil {
		return nil, nil
	}

	var payload []byte
	if len(data.Payload) > 0 {
		var err error
		payload, err = json.Marshal(data.Payload)
		if err != nil {
			return nil, errors.Wrap(err, "failed to encode lead event payload")
		}
	}

	return &model.LeadEventModel{
		ID:        data.ID,
		LeadID:    data.LeadID,
		PersonID:  data.PersonID,
		Type:      string(data.Type),
		ActorID:   data.ActorID,
		Payload:   payload,
		CreatedAt: data.CreatedAt,
	}, nil
}
