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

// personRepository implements the repository.PersonRepository interface.
type personRepository struct {
	db *gorm.DB
}

// NewPersonRepository is the constructor for personRepository.
func NewPersonRepository(db *gorm.DB) repository.PersonRepository {
	return &personRepository{
		db: db,
	}
}

// FindByID retrieves a person with its identity key set.
func (repo *personRepository) FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error) {
	var personM model.PersonModel

	if err := repo.db.WithContext(ctx).
		Preload("IdentityKeys").
		Where("id = ?", id).
		First(&personM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrPersonNotFound
		}

		return nil, errors.Wrap(err, "failed to find person by ID")
	}

	return toPersonDomain(&personM), nil
}

// Create persists a new person record.
func (repo *personRepository) Create(ctx context.Context, person *entity.Person) error {
	personM := fromPersonDomain(person)

	if err := repo.db.WithContext(ctx).
		Omit("IdentityKeys").
		Create(personM).Error; err != nil {
		if isNotNullConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("missing required person information")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create person")
	}

	// Update the entity with generated values
	person.ID = personM.ID
	person.CreatedAt = personM.CreatedAt
	person.UpdatedAt = personM.UpdatedAt

	return nil
}

// Update modifies an existing person record.
func (repo *personRepository) Update(ctx context.Context, person *entity.Person) error {
	personM := fromPersonDomain(person)

	result := repo.db.WithContext(ctx).
		Omit("IdentityKeys", "CreatedAt").
		Where("id = ?", person.ID).
		Save(personM)

	if result.Error != nil {
		return errors.Wrap(result.Error, "failed to update person")
	}

	if result.RowsAffected == 0 {
		return repository.ErrPersonNotFound
	}

	return nil
}

// FindIdentityKey looks up one derived key in the identity index.
func (repo *personRepository) FindIdentityKey(ctx context.Context, key string) (*entity.IdentityKey, error) {
	var keyM model.IdentityKeyModel

	if err := repo.db.WithContext(ctx).
		Where("key = ?", key).
		First(&keyM).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrIdentityKeyNotFound
		}

		return nil, errors.Wrap(err, "failed to find identity key")
	}

	return &entity.IdentityKey{
		Key:       keyM.Key,
		PersonID:  keyM.PersonID,
		CreatedAt: keyM.CreatedAt,
	}, nil
}

// CreateIdentityKey inserts one index entry. The primary key on the key string
// turns a concurrent duplicate insert into ErrDuplicateIdentityKey, which
// aborts the enclosing transaction.
func (repo *personRepository) CreateIdentityKey(ctx context.Context, key *entity.IdentityKey) error {
	keyM := &model.IdentityKeyModel{
		Key:      key.Key,
		PersonID: key.PersonID,
	}

	if err := repo.db.WithContext(ctx).Create(keyM).Error; err != nil {
		if isUniqueConstraintViolation(err) {
			return repository.ErrDuplicateIdentityKey
		}
		if isForeignKeyConstraintViolation(err) {
			return domainerrors.ErrInvalidArgument.WrapMessage("invalid person reference")
		}

		return domainerrors.NewDatabaseExecuteError(err, "failed to create identity key")
	}

	key.CreatedAt = keyM.CreatedAt

	return nil
}

// --- Mapper Functions ---

// toPersonDomain converts a GORM PersonModel to a domain Person entity.
func toPersonDomain(data *model.PersonModel) *entity.Person {
	if data == nil {
		return nil
	}

	keys := make([]string, 0, len(data.IdentityKeys))
	for _, keyM := range data.IdentityKeys {
		keys = append(keys, keyM.Key)
	}

	return &entity.Person{
		ID:                  data.ID,
		FirstName:           data.FirstName,
		LastName:            data.LastName,
		Email:               data.Email,
		Phone:               data.Phone,
		DOB:                 data.DOB,
		RawEmail:            data.RawEmail,
		RawPhone:            data.RawPhone,
		IdentityKeys:        keys,
		Status:              entity.PersonStatus(data.Status),
		MergedInto:          data.MergedInto,
		MarketingConsent:    data.MarketingConsent,
		ConsentToContact:    data.ConsentToContact,
		KnownToBusinessLine: data.KnownToBusinessLine,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}

// fromPersonDomain converts a domain Person entity to a GORM PersonModel.
func fromPersonDomain(data *entity.Person) *model.PersonModel {
	if data == nil {
		return nil
	}

	return &model.PersonModel{
		ID:                  data.ID,
		FirstName:           data.FirstName,
		LastName:            data.LastName,
		Email:               data.Email,
		Phone:               data.Phone,
		DOB:                 data.DOB,
		RawEmail:            data.RawEmail,
		RawPhone:            data.RawPhone,
		Status:              string(data.Status),
		MergedInto:          data.MergedInto,
		MarketingConsent:    data.MarketingConsent,
		ConsentToContact:    data.ConsentToContact,
		KnownToBusinessLine: data.KnownToBusinessLine,
		CreatedAt:           data.CreatedAt,
		UpdatedAt:           data.UpdatedAt,
	}
}
