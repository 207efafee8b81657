package impl

import (
	"context"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/usecase"
)

func TestEnquiryService_SubmitEnquiry_NewPerson(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	result, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID:         intake.ID,
		FirstName:        "Mia",
		LastName:         "Chen",
		Email:            "  Mia.Chen@Example.COM ",
		Phone:            "0412 345 678",
		DOB:              "2001-04-09",
		MarketingConsent: true,
	})
	require.NoError(t, err)

	assert.True(t, result.PersonCreated)
	assert.Equal(t, "mia.chen@example.com", result.Person.Email)
	assert.Equal(t, "+61412345678", result.Person.Phone)
	assert.Equal(t, "  Mia.Chen@Example.COM ", result.Person.RawEmail)
	assert.Len(t, result.Person.IdentityKeys, 5)
	assert.True(t, result.Person.KnownToBusinessLine)

	assert.Equal(t, entity.LeadOpen, result.Lead.Status)
	assert.Equal(t, entity.StageEnquiry, result.Lead.Stage)
	assert.Equal(t, intake.EntityID, result.Lead.EntityID)
	assert.Equal(t, result.Person.ID, result.Lead.PersonID)

	// Every derived key must be registered in the identity index.
	for _, key := range result.Person.IdentityKeys {
		indexed, err := fixture.store.PersonRepo().FindIdentityKey(context.Background(), key)
		require.NoError(t, err)
		assert.Equal(t, result.Person.ID, indexed.PersonID)
	}

	messages := fixture.publisher.published()
	require.Len(t, messages, 1)
	assert.Equal(t, string(entity.LeadEventCreated), messages[0].Type)
	assert.Equal(t, result.Lead.ID.String(), messages[0].LeadID)
}

func TestEnquiryService_SubmitEnquiry_SeedsClickSummary(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())
	ctx := context.Background()

	result, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID:  intake.ID,
		Email:     "click@example.com",
		UserAgent: "Mozilla/5.0",
		Referrer:  "https://social.example.com/post/2",
	})
	require.NoError(t, err)

	// The submission counts as the lead's first click.
	clicks := result.Lead.Clicks
	assert.Equal(t, 1, clicks.Count)
	assert.False(t, clicks.FirstClickAt.IsZero())
	assert.Equal(t, clicks.FirstClickAt, clicks.LastClickAt)
	assert.Equal(t, "https://social.example.com/post/2", clicks.Referrer)

	// The user agent is stored only as a fingerprint.
	assert.NotEmpty(t, clicks.UAHash)
	assert.NotEqual(t, "Mozilla/5.0", clicks.UAHash)

	stored, err := fixture.store.LeadRepo().FindByID(ctx, result.Lead.ID)
	require.NoError(t, err)
	assert.Equal(t, clicks, stored.Clicks)
}

func TestEnquiryService_SubmitEnquiry_MatchesExistingByEmail(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	first, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "sam@example.com",
	})
	require.NoError(t, err)
	require.True(t, first.PersonCreated)

	second, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "SAM@example.com",
		Phone:    "0400000001",
	})
	require.NoError(t, err)

	assert.False(t, second.PersonCreated)
	assert.Equal(t, first.Person.ID, second.Person.ID)
	assert.NotEqual(t, first.Lead.ID, second.Lead.ID)

	// The phone was empty, so the new submission fills it.
	assert.Equal(t, "+61400000001", second.Person.Phone)

	// The key set is fixed at creation: the new phone gains no index entry.
	assert.Len(t, second.Person.IdentityKeys, 1)
}

func TestEnquiryService_SubmitEnquiry_EmailMatchWinsOverPhone(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())
	ctx := context.Background()

	byEmail, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "alpha@example.com",
	})
	require.NoError(t, err)

	byPhone, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Phone:    "0411111111",
	})
	require.NoError(t, err)
	require.NotEqual(t, byEmail.Person.ID, byPhone.Person.ID)

	// Email and phone match different persons; the email match must win.
	mixed, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "alpha@example.com",
		Phone:    "0411111111",
	})
	require.NoError(t, err)

	assert.False(t, mixed.PersonCreated)
	assert.Equal(t, byEmail.Person.ID, mixed.Person.ID)
}

func TestEnquiryService_SubmitEnquiry_BackfillKeepsExistingValues(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())
	ctx := context.Background()

	first, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID:  intake.ID,
		FirstName: "Ari",
		Email:     "ari@example.com",
	})
	require.NoError(t, err)

	second, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID:         intake.ID,
		FirstName:        "Arianna",
		LastName:         "Okafor",
		Email:            "ari@example.com",
		MarketingConsent: true,
	})
	require.NoError(t, err)

	assert.Equal(t, first.Person.ID, second.Person.ID)
	assert.Equal(t, "Ari", second.Person.FirstName)
	assert.Equal(t, "Okafor", second.Person.LastName)
	assert.True(t, second.Person.MarketingConsent)

	// Consent is grant-only: a later submission without it changes nothing.
	third, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "ari@example.com",
	})
	require.NoError(t, err)
	assert.True(t, third.Person.MarketingConsent)
}

func TestEnquiryService_SubmitEnquiry_FollowsMergedPerson(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())
	ctx := context.Background()

	survivor := &entity.Person{
		Email:  "kept@example.com",
		Status: entity.PersonActive,
	}
	require.NoError(t, fixture.store.PersonRepo().Create(ctx, survivor))

	merged := &entity.Person{
		Email:      "merged@example.com",
		Status:     entity.PersonMerged,
		MergedInto: &survivor.ID,
	}
	require.NoError(t, fixture.store.PersonRepo().Create(ctx, merged))

	deriver := fixture.service.deriver
	keys, err := deriver.Derive("merged@example.com", "", "")
	require.NoError(t, err)
	require.NoError(t, fixture.store.PersonRepo().CreateIdentityKey(ctx, &entity.IdentityKey{
		Key:      keys.Email,
		PersonID: merged.ID,
	}))

	result, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "merged@example.com",
	})
	require.NoError(t, err)

	assert.False(t, result.PersonCreated)
	assert.Equal(t, survivor.ID, result.Person.ID)
	assert.Equal(t, survivor.ID, result.Lead.PersonID)
}

func TestEnquiryService_SubmitEnquiry_MissingIdentity(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	_, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID:  intake.ID,
		FirstName: "Anonymous",
		Phone:     "not a number",
	})

	assert.ErrorIs(t, err, domainerrors.ErrMissingIdentity)
	assert.Empty(t, fixture.publisher.published())
}

func TestEnquiryService_SubmitEnquiry_IntakeValidation(t *testing.T) {
	fixture := newEnquiryFixture(t)

	_, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		Email: "someone@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrInvalidArgument)

	_, err = fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: uuid.New(),
		Email:    "someone@example.com",
	})
	assert.ErrorIs(t, err, domainerrors.ErrIntakeNotFound)
}

func TestEnquiryService_SubmitEnquiry_CountsEnquiryOnLink(t *testing.T) {
	fixture := newEnquiryFixture(t)
	entityID := uuid.New()
	link := seedLink(t, fixture.store, entityID, "abc123")
	intake := seedIntake(t, fixture.store, entityID)
	ctx := context.Background()

	_, err := fixture.service.SubmitEnquiry(ctx, usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "counted@example.com",
		Attribution: entity.Attribution{
			CampaignLinkID: &link.ID,
			Channel:        "qr",
		},
	})
	require.NoError(t, err)

	stored, err := fixture.store.LinkRepo().FindByID(ctx, link.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(1), stored.Enquiries)
}

func TestEnquiryService_SubmitEnquiry_UnknownLinkAttributionKept(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())
	staleLinkID := uuid.New()

	result, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "stale@example.com",
		Attribution: entity.Attribution{
			CampaignLinkID: &staleLinkID,
			Channel:        "paid_social",
		},
	})
	require.NoError(t, err)

	// Attribution is stored verbatim even when the link no longer exists.
	require.NotNil(t, result.Lead.Attribution.CampaignLinkID)
	assert.Equal(t, staleLinkID, *result.Lead.Attribution.CampaignLinkID)
	assert.Equal(t, "paid_social", result.Lead.Attribution.Channel)
}

func TestEnquiryService_SubmitEnquiry_RetriesOnIdentityRace(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	race := &raceTxManager{inner: fixture.txManager, failures: 1}
	fixture.service.txManager = race

	result, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "raced@example.com",
	})
	require.NoError(t, err)

	assert.Equal(t, 2, race.calls)
	assert.True(t, result.PersonCreated)
	assert.Len(t, fixture.publisher.published(), 1)
}

func TestEnquiryService_SubmitEnquiry_ConflictAfterRetriesExhausted(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	race := &raceTxManager{inner: fixture.txManager, failures: enquiryTxAttempts}
	fixture.service.txManager = race

	_, err := fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
		IntakeID: intake.ID,
		Email:    "unlucky@example.com",
	})

	assert.ErrorIs(t, err, domainerrors.ErrConflict)
	assert.Equal(t, enquiryTxAttempts, race.calls)
	assert.Empty(t, fixture.publisher.published())

	// The aborted attempts must not leave a person behind the key.
	keys, deriveErr := fixture.service.deriver.Derive("unlucky@example.com", "", "")
	require.NoError(t, deriveErr)
	_, err = fixture.store.PersonRepo().FindIdentityKey(context.Background(), keys.Email)
	assert.Error(t, err)
}

func TestEnquiryService_SubmitEnquiry_ConcurrentSubmissionsConverge(t *testing.T) {
	fixture := newEnquiryFixture(t)
	intake := seedIntake(t, fixture.store, uuid.New())

	const submissions = 8

	var wg sync.WaitGroup
	results := make([]*usecase.EnquiryResult, submissions)
	errs := make([]error, submissions)

	for i := 0; i < submissions; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = fixture.service.SubmitEnquiry(context.Background(), usecase.EnquiryInput{
				IntakeID: intake.ID,
				Email:    "popular@example.com",
			})
		}(i)
	}
	wg.Wait()

	created := 0
	leadIDs := make(map[uuid.UUID]struct{}, submissions)
	for i := 0; i < submissions; i++ {
		require.NoError(t, errs[i])
		require.Equal(t, results[0].Person.ID, results[i].Person.ID)
		leadIDs[results[i].Lead.ID] = struct{}{}
		if results[i].PersonCreated {
			created++
		}
	}

	assert.Equal(t, 1, created)
	assert.Len(t, leadIDs, submissions)
}
