package impl

import (
	"bytes"
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/infra/persistence/memory"
	"leadtrack/internal/infra/shortcode"
	"leadtrack/internal/usecase"
)

func TestLinkService_CreateLink_AllocatesUniqueCode(t *testing.T) {
	store := memory.NewStore()
	entityID := uuid.New()
	campaign := seedCampaign(t, store, entityID)
	intake := seedIntake(t, store, entityID)
	svc := newLinkService(t, store, shortcode.NewSource(6), 5)
	ctx := context.Background()

	link, err := svc.CreateLink(ctx, staffActor(entityID, "marketing"), usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: campaign.ID,
		IntakeID:   intake.ID,
		Label:      "Open Day poster",
		Channel:    "qr",
		QRVariant:  "poster",
		UTMDefaults: entity.UTMParams{
			Source: "qr",
			Medium: "offline",
		},
	})
	require.NoError(t, err)

	assert.Len(t, link.Code, 6)
	assert.Equal(t, entity.LinkActive, link.State)
	assert.Equal(t, "Open Day poster", link.Label)

	// The code reservation and the link must both be visible.
	reserved, err := store.LinkRepo().FindCode(ctx, link.Code)
	require.NoError(t, err)
	assert.Equal(t, link.ID, reserved.CampaignLinkID)
}

func TestLinkService_CreateLink_ExhaustsCollisionBudget(t *testing.T) {
	store := memory.NewStore()
	entityID := uuid.New()
	campaign := seedCampaign(t, store, entityID)
	intake := seedIntake(t, store, entityID)
	svc := newLinkService(t, store, fixedCodeSource{code: "SAMECODE"}, 3)
	ctx := context.Background()
	actor := staffActor(entityID, "marketing")

	input := usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: campaign.ID,
		IntakeID:   intake.ID,
		Channel:    "qr",
	}

	_, err := svc.CreateLink(ctx, actor, input)
	require.NoError(t, err)

	// The source can only ever produce the taken code now.
	_, err = svc.CreateLink(ctx, actor, input)
	assert.ErrorIs(t, err, domainerrors.ErrCodeSpaceExhausted)
}

func TestLinkService_CreateLink_Authorization(t *testing.T) {
	store := memory.NewStore()
	entityID := uuid.New()
	campaign := seedCampaign(t, store, entityID)
	intake := seedIntake(t, store, entityID)
	svc := newLinkService(t, store, shortcode.NewSource(6), 5)
	ctx := context.Background()

	input := usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: campaign.ID,
		IntakeID:   intake.ID,
		Channel:    "qr",
	}

	_, err := svc.CreateLink(ctx, entity.Actor{}, input)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// BD staff are not privileged to mint links.
	_, err = svc.CreateLink(ctx, staffActor(entityID, "bd"), input)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// Marketing staff of another entity cannot mint links here.
	_, err = svc.CreateLink(ctx, staffActor(uuid.New(), "marketing"), input)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// Admins bypass entity scoping.
	admin := entity.Actor{UserID: uuid.New(), Roles: []string{"admin"}}
	_, err = svc.CreateLink(ctx, admin, input)
	assert.NoError(t, err)
}

func TestLinkService_CreateLink_RejectsCrossEntityReferences(t *testing.T) {
	store := memory.NewStore()
	entityID := uuid.New()
	otherEntityID := uuid.New()
	campaign := seedCampaign(t, store, entityID)
	intake := seedIntake(t, store, entityID)
	foreignCampaign := seedCampaign(t, store, otherEntityID)
	foreignIntake := seedIntake(t, store, otherEntityID)
	svc := newLinkService(t, store, shortcode.NewSource(6), 5)
	ctx := context.Background()
	actor := staffActor(entityID, "marketing")

	_, err := svc.CreateLink(ctx, actor, usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: foreignCampaign.ID,
		IntakeID:   intake.ID,
		Channel:    "qr",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = svc.CreateLink(ctx, actor, usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: campaign.ID,
		IntakeID:   foreignIntake.ID,
		Channel:    "qr",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = svc.CreateLink(ctx, actor, usecase.CreateLinkInput{
		EntityID:   entityID,
		CampaignID: uuid.New(),
		IntakeID:   intake.ID,
		Channel:    "qr",
	})
	assert.ErrorIs(t, err, domainerrors.ErrCampaignNotFound)

	_, err = svc.CreateLink(ctx, actor, usecase.CreateLinkInput{
		EntityID: entityID,
		IntakeID: intake.ID,
		Channel:  "qr",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)
}

func TestLinkService_GetLinkQR(t *testing.T) {
	store := memory.NewStore()
	entityID := uuid.New()
	link := seedLink(t, store, entityID, "qr1234")
	svc := newLinkService(t, store, shortcode.NewSource(6), 5)
	ctx := context.Background()

	png, err := svc.GetLinkQR(ctx, staffActor(entityID, "bd"), link.ID)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(png, []byte("\x89PNG\r\n\x1a\n")))

	_, err = svc.GetLinkQR(ctx, staffActor(uuid.New(), "bd"), link.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = svc.GetLinkQR(ctx, staffActor(entityID, "bd"), uuid.New())
	assert.ErrorIs(t, err, domainerrors.ErrLinkNotFound)

	_, err = svc.GetLinkQR(ctx, entity.Actor{}, link.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}
