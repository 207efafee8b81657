package memory

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/repository"
)

func TestTransactionCommitAndRollback(t *testing.T) {
	t.Parallel()

	store := NewStore()
	tm := NewTransactionManager(store)
	ctx := context.Background()

	personID := uuid.New()

	// A failed transaction leaves nothing behind.
	err := tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.PersonRepo().Create(ctx, &entity.Person{ID: personID, Status: entity.PersonActive}); err != nil {
			return err
		}
		if err := f.PersonRepo().CreateIdentityKey(ctx, &entity.IdentityKey{Key: "em:a", PersonID: personID}); err != nil {
			return err
		}

		return repository.ErrDuplicateIdentityKey
	})
	require.ErrorIs(t, err, repository.ErrDuplicateIdentityKey)

	_, err = store.PersonRepo().FindByID(ctx, personID)
	assert.ErrorIs(t, err, repository.ErrPersonNotFound)
	_, err = store.PersonRepo().FindIdentityKey(ctx, "em:a")
	assert.ErrorIs(t, err, repository.ErrIdentityKeyNotFound)

	// A successful transaction commits both writes.
	err = tm.Execute(ctx, func(f repository.RepositoryFactory) error {
		if err := f.PersonRepo().Create(ctx, &entity.Person{ID: personID, Status: entity.PersonActive}); err != nil {
			return err
		}

		return f.PersonRepo().CreateIdentityKey(ctx, &entity.IdentityKey{Key: "em:a", PersonID: personID})
	})
	require.NoError(t, err)

	person, err := store.PersonRepo().FindByID(ctx, personID)
	require.NoError(t, err)
	assert.Equal(t, entity.PersonActive, person.Status)

	key, err := store.PersonRepo().FindIdentityKey(ctx, "em:a")
	require.NoError(t, err)
	assert.Equal(t, personID, key.PersonID)
}

func TestDuplicateIdentityKeyRejected(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	repo := store.PersonRepo()
	require.NoError(t, repo.CreateIdentityKey(ctx, &entity.IdentityKey{Key: "ph:b", PersonID: uuid.New()}))

	err := repo.CreateIdentityKey(ctx, &entity.IdentityKey{Key: "ph:b", PersonID: uuid.New()})
	assert.ErrorIs(t, err, repository.ErrDuplicateIdentityKey)
}

func TestStoredEntitiesAreIsolatedCopies(t *testing.T) {
	t.Parallel()

	store := NewStore()
	ctx := context.Background()

	lead := &entity.Lead{
		EntityID: uuid.New(),
		PersonID: uuid.New(),
		IntakeID: uuid.New(),
		Status:   entity.LeadOpen,
		Stage:    entity.StageEnquiry,
	}
	require.NoError(t, store.LeadRepo().Create(ctx, lead))

	// Mutating the caller's copy must not leak into the store.
	lead.Stage = "MUTATED"

	stored, err := store.LeadRepo().FindByID(ctx, lead.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.StageEnquiry, stored.Stage)
}
