package impl

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/infra/persistence/memory"
	"leadtrack/internal/usecase"
)

func newCampaignService(t *testing.T, store *memory.Store) *campaignService {
	t.Helper()

	svc := NewCampaignService(CampaignServiceParams{
		CampaignRepo: store.CampaignRepo(),
	})

	return svc.(*campaignService)
}

func TestCampaignService_CreateCampaign(t *testing.T) {
	store := memory.NewStore()
	svc := newCampaignService(t, store)
	entityID := uuid.New()
	ctx := context.Background()

	campaign, err := svc.CreateCampaign(ctx, staffActor(entityID, "marketing"), usecase.CreateCampaignInput{
		EntityID: entityID,
		Name:     "  Spring Expo  ",
	})
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, campaign.ID)
	assert.Equal(t, "Spring Expo", campaign.Name)
	assert.Equal(t, "active", campaign.Status)

	_, err = svc.CreateCampaign(ctx, staffActor(entityID, "marketing"), usecase.CreateCampaignInput{
		EntityID: entityID,
		Name:     "   ",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = svc.CreateCampaign(ctx, entity.Actor{}, usecase.CreateCampaignInput{
		EntityID: entityID,
		Name:     "Expo",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	_, err = svc.CreateCampaign(ctx, staffActor(entityID, "bd"), usecase.CreateCampaignInput{
		EntityID: entityID,
		Name:     "Expo",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = svc.CreateCampaign(ctx, staffActor(uuid.New(), "marketing"), usecase.CreateCampaignInput{
		EntityID: entityID,
		Name:     "Expo",
	})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestCampaignService_CreateIntake(t *testing.T) {
	store := memory.NewStore()
	svc := newCampaignService(t, store)
	entityID := uuid.New()
	campaign := seedCampaign(t, store, entityID)
	ctx := context.Background()
	actor := staffActor(entityID, "marketing")

	intake, err := svc.CreateIntake(ctx, actor, usecase.CreateIntakeInput{
		EntityID:   entityID,
		CampaignID: &campaign.ID,
		Name:       "2027 Semester 1",
	})
	require.NoError(t, err)

	assert.Equal(t, "2027 Semester 1", intake.Name)
	assert.Equal(t, "open", intake.Status)
	require.NotNil(t, intake.CampaignID)
	assert.Equal(t, campaign.ID, *intake.CampaignID)

	// An intake does not have to belong to a campaign.
	standalone, err := svc.CreateIntake(ctx, actor, usecase.CreateIntakeInput{
		EntityID: entityID,
		Name:     "Rolling intake",
	})
	require.NoError(t, err)
	assert.Nil(t, standalone.CampaignID)

	unknown := uuid.New()
	_, err = svc.CreateIntake(ctx, actor, usecase.CreateIntakeInput{
		EntityID:   entityID,
		CampaignID: &unknown,
		Name:       "Orphan",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCampaignNotFound)

	foreign := seedCampaign(t, store, uuid.New())
	_, err = svc.CreateIntake(ctx, actor, usecase.CreateIntakeInput{
		EntityID:   entityID,
		CampaignID: &foreign.ID,
		Name:       "Cross entity",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)
}
