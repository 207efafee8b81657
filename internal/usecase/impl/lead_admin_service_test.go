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

type leadAdminFixture struct {
	store     *memory.Store
	publisher *capturePublisher
	service   *leadAdminService
}

func newLeadAdminFixture(t *testing.T) *leadAdminFixture {
	t.Helper()

	store := memory.NewStore()
	publisher := &capturePublisher{}

	svc := NewLeadAdminService(LeadAdminServiceParams{
		TxManager: memory.NewTransactionManager(store),
		LeadRepo:  store.LeadRepo(),
		Publisher: publisher,
		Logger:    testLogger(),
	})

	return &leadAdminFixture{
		store:     store,
		publisher: publisher,
		service:   svc.(*leadAdminService),
	}
}

func seedLead(t *testing.T, store *memory.Store, entityID uuid.UUID, attribution entity.Attribution) *entity.Lead {
	t.Helper()

	lead := &entity.Lead{
		EntityID:    entityID,
		PersonID:    uuid.New(),
		IntakeID:    uuid.New(),
		Status:      entity.LeadOpen,
		Stage:       entity.StageEnquiry,
		Attribution: attribution,
	}
	require.NoError(t, store.LeadRepo().Create(context.Background(), lead))

	return lead
}

func TestLeadAdminService_UpdateLeadStage_FreeFormStage(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "marketing")

	updated, err := fixture.service.UpdateLeadStage(context.Background(), actor, lead.ID, usecase.UpdateStageInput{
		Stage: " interview ",
	})
	require.NoError(t, err)

	assert.Equal(t, "INTERVIEW", updated.Stage)
	assert.Equal(t, entity.LeadOpen, updated.Status)

	messages := fixture.publisher.published()
	require.Len(t, messages, 1)
	assert.Equal(t, string(entity.LeadEventStageChanged), messages[0].Type)
	assert.Equal(t, "ENQUIRY", messages[0].Payload["fromStage"])
	assert.Equal(t, "INTERVIEW", messages[0].Payload["toStage"])
}

func TestLeadAdminService_UpdateLeadStage_DroppedClosesLead(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "marketing")

	updated, err := fixture.service.UpdateLeadStage(context.Background(), actor, lead.ID, usecase.UpdateStageInput{
		Stage:  "dropped",
		Reason: "no_response",
		Notes:  "three calls unanswered",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StageDropped, updated.Stage)
	assert.Equal(t, entity.LeadClosed, updated.Status)
	assert.Equal(t, "no_response", updated.DropReason)
	assert.Equal(t, "three calls unanswered", updated.DropNotes)

	messages := fixture.publisher.published()
	require.Len(t, messages, 1)
	assert.Equal(t, "no_response", messages[0].Payload["reason"])
}

func TestLeadAdminService_UpdateLeadStage_CompletedCountsEnrollment(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	link := seedLink(t, fixture.store, entityID, "enroll")
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{CampaignLinkID: &link.ID})
	actor := staffActor(entityID, "marketing")
	ctx := context.Background()

	updated, err := fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{
		Stage: "completed",
	})
	require.NoError(t, err)

	assert.Equal(t, entity.StageCompleted, updated.Stage)
	assert.Equal(t, entity.LeadConverted, updated.Status)

	stored, err := fixture.store.LinkRepo().FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Enrollments)

	// Re-completing an already converted lead is re-audited but never counts
	// a second enrollment.
	_, err = fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{
		Stage: "completed",
	})
	require.NoError(t, err)

	stored, err = fixture.store.LinkRepo().FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Enrollments)

	events, err := fixture.store.LeadRepo().ListEventsByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestLeadAdminService_UpdateLeadStage_TerminalLeadReaudited(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "marketing")
	ctx := context.Background()

	_, err := fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{
		Stage:  "DROPPED",
		Reason: "other",
	})
	require.NoError(t, err)

	// A closed lead still accepts stage writes; each one lands in the trail.
	updated, err := fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{
		Stage: "RE_ENGAGED",
	})
	require.NoError(t, err)
	assert.Equal(t, "RE_ENGAGED", updated.Stage)
	assert.Equal(t, entity.LeadClosed, updated.Status)

	events, err := fixture.store.LeadRepo().ListEventsByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestLeadAdminService_UpdateLeadStage_Authorization(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	owner := staffActor(entityID, "bd")
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	lead.OwnerID = &owner.UserID
	require.NoError(t, fixture.store.LeadRepo().Update(context.Background(), lead))
	ctx := context.Background()

	input := usecase.UpdateStageInput{Stage: "CONTACTED"}

	_, err := fixture.service.UpdateLeadStage(ctx, entity.Actor{}, lead.ID, input)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)

	// BD staff who do not own the lead cannot move it.
	_, err = fixture.service.UpdateLeadStage(ctx, staffActor(entityID, "bd"), lead.ID, input)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// Staff of another entity cannot touch it at all.
	_, err = fixture.service.UpdateLeadStage(ctx, staffActor(uuid.New(), "marketing"), lead.ID, input)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	// The owning BD user can.
	_, err = fixture.service.UpdateLeadStage(ctx, owner, lead.ID, input)
	assert.NoError(t, err)

	_, err = fixture.service.UpdateLeadStage(ctx, staffActor(entityID, "marketing"), lead.ID, usecase.UpdateStageInput{})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = fixture.service.UpdateLeadStage(ctx, staffActor(entityID, "marketing"), uuid.New(), input)
	assert.ErrorIs(t, err, domainerrors.ErrLeadNotFound)
}

func TestLeadAdminService_RegisterUploads(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "bd")
	ctx := context.Background()

	updated, err := fixture.service.RegisterUploads(ctx, actor, lead.ID, []usecase.UploadInput{
		{
			FileName:    "transcript.pdf",
			ContentType: "application/pdf",
			StoragePath: "leads/docs/transcript.pdf",
			Size:        40960,
		},
		{
			FileName:    "passport.jpg",
			ContentType: "image/jpeg",
			StoragePath: "leads/docs/passport.jpg",
			Size:        120833,
		},
	})
	require.NoError(t, err)

	require.Len(t, updated.Documents, 2)
	doc := updated.Documents[0]
	assert.Equal(t, "transcript.pdf", doc.FileName)
	assert.NotEqual(t, uuid.Nil, doc.ID)
	require.NotNil(t, doc.UploadedBy)
	assert.Equal(t, actor.UserID, *doc.UploadedBy)

	// One batch, one audit event.
	messages := fixture.publisher.published()
	require.Len(t, messages, 1)
	assert.Equal(t, string(entity.LeadEventDocumentUploaded), messages[0].Type)

	_, err = fixture.service.RegisterUploads(ctx, actor, lead.ID, []usecase.UploadInput{
		{FileName: "no-path.pdf"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = fixture.service.RegisterUploads(ctx, staffActor(uuid.New(), "bd"), lead.ID, []usecase.UploadInput{
		{FileName: "foreign.pdf", StoragePath: "leads/docs/foreign.pdf"},
	})
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestLeadAdminService_RegisterUploads_EmptyBatchIsNoop(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "bd")
	ctx := context.Background()

	updated, err := fixture.service.RegisterUploads(ctx, actor, lead.ID, nil)
	require.NoError(t, err)
	assert.Empty(t, updated.Documents)

	// No write, no event, no publish.
	events, err := fixture.store.LeadRepo().ListEventsByLead(ctx, lead.ID)
	require.NoError(t, err)
	assert.Empty(t, events)
	assert.Empty(t, fixture.publisher.published())

	// Authorization still applies to the no-op path.
	_, err = fixture.service.RegisterUploads(ctx, staffActor(uuid.New(), "bd"), lead.ID, nil)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)
}

func TestLeadAdminService_ListLeadEvents(t *testing.T) {
	fixture := newLeadAdminFixture(t)
	entityID := uuid.New()
	lead := seedLead(t, fixture.store, entityID, entity.Attribution{})
	actor := staffActor(entityID, "marketing")
	ctx := context.Background()

	_, err := fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{Stage: "CONTACTED"})
	require.NoError(t, err)
	_, err = fixture.service.UpdateLeadStage(ctx, actor, lead.ID, usecase.UpdateStageInput{Stage: "INTERVIEW"})
	require.NoError(t, err)

	events, err := fixture.service.ListLeadEvents(ctx, actor, lead.ID)
	require.NoError(t, err)
	require.Len(t, events, 2)

	// Append order is preserved.
	assert.Equal(t, "CONTACTED", events[0].Payload["toStage"])
	assert.Equal(t, "INTERVIEW", events[1].Payload["toStage"])

	_, err = fixture.service.ListLeadEvents(ctx, staffActor(uuid.New(), "marketing"), lead.ID)
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = fixture.service.ListLeadEvents(ctx, entity.Actor{}, lead.ID)
	assert.ErrorIs(t, err, domainerrors.ErrUnauthenticated)
}
