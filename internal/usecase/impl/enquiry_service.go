// Package impl contains the concrete application services behind the usecase
// interfaces.
package impl

import (
	"context"
	"log/slog"
	"time"

	deliverycontext "leadtrack/internal/delivery/context"
	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/domain/service"
	"leadtrack/internal/usecase"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/fx"
)

// enquiryTxAttempts bounds the internal retry loop. A duplicate identity key
// aborts the transaction; on retry the lookup finds the winner's person, so
// one retry normally suffices.
const enquiryTxAttempts = 3

// mergeHopLimit bounds how far a merged-person chain is followed.
const mergeHopLimit = 5

type enquiryService struct {
	txManager     repository.TransactionManager
	deriver       service.IdentityKeyDeriver
	fingerprinter service.Fingerprinter
	publisher     service.EventPublisher
	logger        *slog.Logger
}

// EnquiryServiceParams holds dependencies for EnquiryService, injected by Fx.
type EnquiryServiceParams struct {
	fx.In

	TxManager     repository.TransactionManager
	Deriver       service.IdentityKeyDeriver
	Fingerprinter service.Fingerprinter
	Publisher     service.EventPublisher
	Logger        *slog.Logger
}

// NewEnquiryService creates a new enquiry service instance
func NewEnquiryService(params EnquiryServiceParams) usecase.EnquiryUsecase {
	return &enquiryService{
		txManager:     params.TxManager,
		deriver:       params.Deriver,
		fingerprinter: params.Fingerprinter,
		publisher:     params.Publisher,
		logger:        params.Logger,
	}
}

func (s *enquiryService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// SubmitEnquiry processes one public enquiry submission.
func (s *enquiryService) SubmitEnquiry(ctx context.Context, input usecase.EnquiryInput) (*usecase.EnquiryResult, error) {
	if input.IntakeID == uuid.Nil {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("intake id is required")
	}

	keys, err := s.deriver.Derive(input.Email, input.Phone, input.DOB)
	if err != nil {
		return nil, err
	}

	var result *usecase.EnquiryResult
	var event *entity.LeadEvent
	for attempt := 1; attempt <= enquiryTxAttempts; attempt++ {
		result, event, err = s.submitOnce(ctx, input, keys)
		if !errors.Is(err, repository.ErrDuplicateIdentityKey) {
			break
		}

		// Another submission created the identity first; the next attempt
		// resolves to the winner's person through the key lookup.
		s.log(ctx).Debug("enquiry identity race detected, retrying",
			slog.Int("attempt", attempt),
		)
	}
	if errors.Is(err, repository.ErrDuplicateIdentityKey) {
		return nil, domainerrors.ErrConflict.WrapMessage("identity resolution kept conflicting")
	}
	if err != nil {
		return nil, err
	}

	s.publishLeadEvent(ctx, result.Lead, event)

	return result, nil
}

// submitOnce runs one full submission transaction.
func (s *enquiryService) submitOnce(ctx context.Context, input usecase.EnquiryInput, keys service.IdentityKeySet) (*usecase.EnquiryResult, *entity.LeadEvent, error) {
	var result usecase.EnquiryResult
	var event *entity.LeadEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		intake, err := f.CampaignRepo().FindIntakeByID(ctx, input.IntakeID)
		if err != nil {
			if errors.Is(err, repository.ErrIntakeNotFound) {
				return domainerrors.ErrIntakeNotFound
			}

			return errors.Wrap(err, "failed to load intake")
		}

		person, created, err := s.resolvePerson(ctx, f.PersonRepo(), input, keys)
		if err != nil {
			return err
		}

		// The submission itself is the lead's first observed click.
		now := time.Now()
		lead := &entity.Lead{
			EntityID:    intake.EntityID,
			PersonID:    person.ID,
			IntakeID:    intake.ID,
			Status:      entity.LeadOpen,
			Stage:       entity.StageEnquiry,
			Attribution: input.Attribution,
			Clicks: entity.ClickSummary{
				FirstClickAt: now,
				LastClickAt:  now,
				Count:        1,
				UAHash:       s.fingerprinter.Fingerprint(input.UserAgent),
				Referrer:     input.Referrer,
			},
			ContactPreference: input.ContactPreference,
			Notes:             input.Notes,
		}
		if err := f.LeadRepo().Create(ctx, lead); err != nil {
			return errors.Wrap(err, "failed to create lead")
		}

		event = &entity.LeadEvent{
			LeadID:   lead.ID,
			PersonID: person.ID,
			Type:     entity.LeadEventCreated,
			Payload: map[string]any{
				"stage":         entity.StageEnquiry,
				"intakeId":      intake.ID.String(),
				"personCreated": created,
			},
		}
		if err := f.LeadRepo().AppendEvent(ctx, event); err != nil {
			return errors.Wrap(err, "failed to append lead event")
		}

		if err := s.countEnquiry(ctx, f.LinkRepo(), input.Attribution.CampaignLinkID); err != nil {
			return err
		}

		result = usecase.EnquiryResult{
			Lead:          lead,
			Person:        person,
			PersonCreated: created,
		}

		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	return &result, event, nil
}

// resolvePerson finds the person behind the submission's identity keys, or
// creates one when no key matches. Lookup order is fixed: an email match wins
// over any phone or composite match.
func (s *enquiryService) resolvePerson(ctx context.Context, repo repository.PersonRepository, input usecase.EnquiryInput, keys service.IdentityKeySet) (*entity.Person, bool, error) {
	for _, key := range keys.Ordered() {
		indexed, err := repo.FindIdentityKey(ctx, key)
		if errors.Is(err, repository.ErrIdentityKeyNotFound) {
			continue
		}
		if err != nil {
			return nil, false, errors.Wrap(err, "failed to look up identity key")
		}

		person, err := s.loadActivePerson(ctx, repo, indexed.PersonID)
		if err != nil {
			return nil, false, err
		}

		if err := s.backfillPerson(ctx, repo, person, input); err != nil {
			return nil, false, err
		}

		return person, false, nil
	}

	person, err := s.createPerson(ctx, repo, input, keys)
	if err != nil {
		return nil, false, err
	}

	return person, true, nil
}

// loadActivePerson loads a person and follows merge pointers to the surviving
// record.
func (s *enquiryService) loadActivePerson(ctx context.Context, repo repository.PersonRepository, id uuid.UUID) (*entity.Person, error) {
	for hop := 0; hop < mergeHopLimit; hop++ {
		person, err := repo.FindByID(ctx, id)
		if err != nil {
			return nil, errors.Wrap(err, "failed to load person")
		}

		if person.Status != entity.PersonMerged || person.MergedInto == nil {
			return person, nil
		}
		id = *person.MergedInto
	}

	return nil, errors.New("merge chain exceeded hop limit")
}

// createPerson creates the person record plus its full identity key index.
// Any key already claimed by a concurrent submission aborts the transaction
// with ErrDuplicateIdentityKey.
func (s *enquiryService) createPerson(ctx context.Context, repo repository.PersonRepository, input usecase.EnquiryInput, keys service.IdentityKeySet) (*entity.Person, error) {
	contact := s.deriver.Normalize(input.Email, input.Phone, input.DOB)

	person := &entity.Person{
		FirstName:           input.FirstName,
		LastName:            input.LastName,
		Email:               contact.Email,
		Phone:               contact.Phone,
		DOB:                 contact.DOB,
		RawEmail:            input.Email,
		RawPhone:            input.Phone,
		IdentityKeys:        keys.Ordered(),
		Status:              entity.PersonActive,
		MarketingConsent:    input.MarketingConsent,
		ConsentToContact:    input.ConsentToContact,
		KnownToBusinessLine: true,
	}
	if err := repo.Create(ctx, person); err != nil {
		return nil, errors.Wrap(err, "failed to create person")
	}

	for _, key := range person.IdentityKeys {
		err := repo.CreateIdentityKey(ctx, &entity.IdentityKey{
			Key:      key,
			PersonID: person.ID,
		})
		if err != nil {
			if errors.Is(err, repository.ErrDuplicateIdentityKey) {
				return nil, repository.ErrDuplicateIdentityKey
			}

			return nil, errors.Wrap(err, "failed to create identity key")
		}
	}

	return person, nil
}

// backfillPerson patches a matched person with fields from the new submission.
// Only empty fields are filled; existing values always win and conflicting
// submissions are only logged. Consent flags can be granted here, never
// revoked. The identity key set stays exactly as derived at creation.
func (s *enquiryService) backfillPerson(ctx context.Context, repo repository.PersonRepository, person *entity.Person, input usecase.EnquiryInput) error {
	contact := s.deriver.Normalize(input.Email, input.Phone, input.DOB)

	changed := false
	fill := func(field string, dst *string, src string) {
		if src == "" {
			return
		}
		if *dst == "" {
			*dst = src
			changed = true

			return
		}
		if *dst != src {
			s.log(ctx).Debug("enquiry field conflicts with existing person, keeping existing",
				slog.String("personId", person.ID.String()),
				slog.String("field", field),
			)
		}
	}

	fill("firstName", &person.FirstName, input.FirstName)
	fill("lastName", &person.LastName, input.LastName)
	fill("email", &person.Email, contact.Email)
	fill("phone", &person.Phone, contact.Phone)
	fill("dob", &person.DOB, contact.DOB)
	fill("rawEmail", &person.RawEmail, input.Email)
	fill("rawPhone", &person.RawPhone, input.Phone)

	if input.MarketingConsent && !person.MarketingConsent {
		person.MarketingConsent = true
		changed = true
	}
	if input.ConsentToContact && !person.ConsentToContact {
		person.ConsentToContact = true
		changed = true
	}
	if !person.KnownToBusinessLine {
		person.KnownToBusinessLine = true
		changed = true
	}

	if !changed {
		return nil
	}

	if err := repo.Update(ctx, person); err != nil {
		return errors.Wrap(err, "failed to update person")
	}

	return nil
}

// countEnquiry bumps the link enquiry counter inside the submission
// transaction, so the counter stays exact relative to committed leads.
func (s *enquiryService) countEnquiry(ctx context.Context, repo repository.LinkRepository, linkID *uuid.UUID) error {
	if linkID == nil {
		return nil
	}

	link, err := repo.FindByID(ctx, *linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			// Attribution is stored verbatim; a stale link reference is not
			// a reason to reject the enquiry.
			s.log(ctx).Debug("enquiry references unknown campaign link",
				slog.String("campaignLinkId", linkID.String()),
			)

			return nil
		}

		return errors.Wrap(err, "failed to load campaign link")
	}

	link.Enquiries++
	if err := repo.Update(ctx, link); err != nil {
		return errors.Wrap(err, "failed to update link enquiry counter")
	}

	return nil
}

// publishLeadEvent fans the committed audit event out to the message queue.
// Failures are logged and swallowed: the persisted event is the source of
// truth and downstream consumers reconcile from it.
func (s *enquiryService) publishLeadEvent(ctx context.Context, lead *entity.Lead, event *entity.LeadEvent) {
	if event == nil {
		return
	}

	msg := &service.LeadEventMessage{
		RequestID: deliverycontext.GetRequestIDFromContext(ctx),
		EventID:   event.ID.String(),
		LeadID:    event.LeadID.String(),
		PersonID:  event.PersonID.String(),
		EntityID:  lead.EntityID.String(),
		Type:      string(event.Type),
		Payload:   event.Payload,
		CreatedAt: event.CreatedAt,
	}
	if err := s.publisher.PublishLeadEvent(ctx, msg); err != nil {
		s.log(ctx).Warn("failed to publish lead event",
			slog.String("eventId", msg.EventID),
			slog.String("error", err.Error()),
		)
	}
}
