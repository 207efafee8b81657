package impl

import (
	"context"
	"log/slog"
	"strings"
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

type leadAdminService struct {
	txManager repository.TransactionManager
	leadRepo  repository.LeadRepository
	publisher service.EventPublisher
	logger    *slog.Logger
}

// LeadAdminServiceParams holds dependencies for LeadAdminService, injected by Fx.
type LeadAdminServiceParams struct {
	fx.In

	TxManager repository.TransactionManager
	LeadRepo  repository.LeadRepository
	Publisher service.EventPublisher
	Logger    *slog.Logger
}

// NewLeadAdminService creates a new lead admin service instance
func NewLeadAdminService(params LeadAdminServiceParams) usecase.LeadAdminUsecase {
	return &leadAdminService{
		txManager: params.TxManager,
		leadRepo:  params.LeadRepo,
		publisher: params.Publisher,
		logger:    params.Logger,
	}
}

func (s *leadAdminService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// UpdateLeadStage moves a lead to a new stage and audits the transition.
// Writing to a lead that already reached CLOSED or CONVERTED is allowed; the
// audit trail simply records another transition.
func (s *leadAdminService) UpdateLeadStage(ctx context.Context, actor entity.Actor, leadID uuid.UUID, input usecase.UpdateStageInput) (*entity.Lead, error) {
	if actor.IsZero() {
		return nil, domainerrors.ErrUnauthenticated
	}

	stage := strings.ToUpper(strings.TrimSpace(input.Stage))
	if stage == "" {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("stage is required")
	}

	var lead *entity.Lead
	var event *entity.LeadEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		var err error
		lead, err = s.loadLead(ctx, f.LeadRepo(), leadID)
		if err != nil {
			return err
		}

		if !actor.CanAccessEntity(lead.EntityID) {
			return domainerrors.ErrPermissionDenied
		}
		if !actor.Privileged() && !isOwner(lead, actor) {
			return domainerrors.ErrPermissionDenied
		}

		fromStage := lead.Stage
		fromStatus := lead.Status

		lead.Stage = stage
		switch stage {
		case entity.StageDropped:
			lead.Status = entity.LeadClosed
			lead.DropReason = input.Reason
			lead.DropNotes = input.Notes
		case entity.StageCompleted:
			lead.Status = entity.LeadConverted
			if err := s.countEnrollment(ctx, f.LinkRepo(), lead, fromStatus); err != nil {
				return err
			}
		}

		if err := f.LeadRepo().Update(ctx, lead); err != nil {
			return errors.Wrap(err, "failed to update lead")
		}

		payload := map[string]any{
			"fromStage":  fromStage,
			"toStage":    stage,
			"fromStatus": string(fromStatus),
			"toStatus":   string(lead.Status),
		}
		if stage == entity.StageDropped {
			payload["reason"] = input.Reason
			payload["notes"] = input.Notes
		}

		event = &entity.LeadEvent{
			LeadID:   lead.ID,
			PersonID: lead.PersonID,
			Type:     entity.LeadEventStageChanged,
			ActorID:  &actor.UserID,
			Payload:  payload,
		}

		return f.LeadRepo().AppendEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, lead, event)

	return lead, nil
}

// RegisterUploads records a batch of uploaded documents on the lead. An empty
// batch authorizes and returns the lead untouched, with no event.
func (s *leadAdminService) RegisterUploads(ctx context.Context, actor entity.Actor, leadID uuid.UUID, uploads []usecase.UploadInput) (*entity.Lead, error) {
	if actor.IsZero() {
		return nil, domainerrors.ErrUnauthenticated
	}
	for _, upload := range uploads {
		if strings.TrimSpace(upload.FileName) == "" || strings.TrimSpace(upload.StoragePath) == "" {
			return nil, domainerrors.ErrInvalidArgument.WrapMessage("file name and storage path are required")
		}
	}

	if len(uploads) == 0 {
		lead, err := s.loadLead(ctx, s.leadRepo, leadID)
		if err != nil {
			return nil, err
		}
		if !actor.CanAccessEntity(lead.EntityID) {
			return nil, domainerrors.ErrPermissionDenied
		}

		return lead, nil
	}

	var lead *entity.Lead
	var event *entity.LeadEvent

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		var err error
		lead, err = s.loadLead(ctx, f.LeadRepo(), leadID)
		if err != nil {
			return err
		}

		if !actor.CanAccessEntity(lead.EntityID) {
			return domainerrors.ErrPermissionDenied
		}

		now := time.Now()
		registered := make([]map[string]any, 0, len(uploads))
		for _, upload := range uploads {
			doc := entity.LeadDocument{
				ID:          uuid.New(),
				FileName:    upload.FileName,
				ContentType: upload.ContentType,
				StoragePath: upload.StoragePath,
				Size:        upload.Size,
				UploadedBy:  &actor.UserID,
				UploadedAt:  now,
			}
			lead.Documents = append(lead.Documents, doc)
			registered = append(registered, map[string]any{
				"documentId": doc.ID.String(),
				"fileName":   doc.FileName,
				"size":       doc.Size,
			})
		}

		if err := f.LeadRepo().Update(ctx, lead); err != nil {
			return errors.Wrap(err, "failed to update lead")
		}

		event = &entity.LeadEvent{
			LeadID:   lead.ID,
			PersonID: lead.PersonID,
			Type:     entity.LeadEventDocumentUploaded,
			ActorID:  &actor.UserID,
			Payload: map[string]any{
				"documents": registered,
			},
		}

		return f.LeadRepo().AppendEvent(ctx, event)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, lead, event)

	return lead, nil
}

// ListLeadEvents returns the lead's audit trail in append order.
func (s *leadAdminService) ListLeadEvents(ctx context.Context, actor entity.Actor, leadID uuid.UUID) ([]*entity.LeadEvent, error) {
	if actor.IsZero() {
		return nil, domainerrors.ErrUnauthenticated
	}

	lead, err := s.loadLead(ctx, s.leadRepo, leadID)
	if err != nil {
		return nil, err
	}

	if !actor.CanAccessEntity(lead.EntityID) {
		return nil, domainerrors.ErrPermissionDenied
	}

	events, err := s.leadRepo.ListEventsByLead(ctx, leadID)
	if err != nil {
		return nil, errors.Wrap(err, "failed to list lead events")
	}

	return events, nil
}

func (s *leadAdminService) loadLead(ctx context.Context, repo repository.LeadRepository, leadID uuid.UUID) (*entity.Lead, error) {
	lead, err := repo.FindByID(ctx, leadID)
	if err != nil {
		if errors.Is(err, repository.ErrLeadNotFound) {
			return nil, domainerrors.ErrLeadNotFound
		}

		return nil, errors.Wrap(err, "failed to load lead")
	}

	return lead, nil
}

// countEnrollment bumps the link enrollment counter in the completing
// transaction. Re-completing an already converted lead does not count twice.
func (s *leadAdminService) countEnrollment(ctx context.Context, repo repository.LinkRepository, lead *entity.Lead, fromStatus entity.LeadStatus) error {
	if fromStatus == entity.LeadConverted {
		return nil
	}
	if lead.Attribution.CampaignLinkID == nil {
		return nil
	}

	link, err := repo.FindByID(ctx, *lead.Attribution.CampaignLinkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			s.log(ctx).Debug("completed lead references unknown campaign link",
				slog.String("campaignLinkId", lead.Attribution.CampaignLinkID.String()),
			)

			return nil
		}

		return errors.Wrap(err, "failed to load campaign link")
	}

	link.Enrollments++
	if err := repo.Update(ctx, link); err != nil {
		return errors.Wrap(err, "failed to update link enrollment counter")
	}

	return nil
}

func (s *leadAdminService) publish(ctx context.Context, lead *entity.Lead, event *entity.LeadEvent) {
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

func isOwner(lead *entity.Lead, actor entity.Actor) bool {
	return lead.OwnerID != nil && *lead.OwnerID == actor.UserID
}
