package impl

import (
	"context"
	"log/slog"

	"leadtrack/config"
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

// defaultAllocatorAttempts is used when the allocator budget is not
// configured.
const defaultAllocatorAttempts = 5

type linkService struct {
	txManager   repository.TransactionManager
	linkRepo    repository.LinkRepository
	codeSource  service.ShortCodeSource
	qrService   service.QRCodeService
	maxAttempts int
	logger      *slog.Logger
}

// LinkServiceParams holds dependencies for LinkService, injected by Fx.
type LinkServiceParams struct {
	fx.In

	TxManager  repository.TransactionManager
	LinkRepo   repository.LinkRepository
	CodeSource service.ShortCodeSource
	QRService  service.QRCodeService
	Config     *config.Config
	Logger     *slog.Logger
}

// NewLinkService creates a new link service instance
func NewLinkService(params LinkServiceParams) usecase.LinkUsecase {
	maxAttempts := defaultAllocatorAttempts
	if params.Config.Allocator != nil && params.Config.Allocator.MaxAttempts > 0 {
		maxAttempts = params.Config.Allocator.MaxAttempts
	}

	return &linkService{
		txManager:   params.TxManager,
		linkRepo:    params.LinkRepo,
		codeSource:  params.CodeSource,
		qrService:   params.QRService,
		maxAttempts: maxAttempts,
		logger:      params.Logger,
	}
}

func (s *linkService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// CreateLink allocates a unique short code and creates the campaign link.
// Each allocation attempt runs its own transaction: the link row and the code
// reservation commit together or not at all.
func (s *linkService) CreateLink(ctx context.Context, actor entity.Actor, input usecase.CreateLinkInput) (*entity.CampaignLink, error) {
	if actor.IsZero() {
		return nil, domainerrors.ErrUnauthenticated
	}
	if !actor.Privileged() {
		return nil, domainerrors.ErrPermissionDenied
	}
	if !actor.CanAccessEntity(input.EntityID) {
		return nil, domainerrors.ErrPermissionDenied
	}
	if input.CampaignID == uuid.Nil || input.IntakeID == uuid.Nil {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("campaign id and intake id are required")
	}

	var link *entity.CampaignLink
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		code, err := s.codeSource.NewCode()
		if err != nil {
			return nil, errors.Wrap(err, "failed to generate link code")
		}

		link, err = s.createWithCode(ctx, input, code)
		if err == nil {
			return link, nil
		}
		if !errors.Is(err, repository.ErrDuplicateLinkCode) {
			return nil, err
		}

		s.log(ctx).Debug("link code collision, regenerating",
			slog.Int("attempt", attempt),
		)
	}

	return nil, domainerrors.ErrCodeSpaceExhausted
}

// createWithCode runs one allocation transaction for a candidate code.
func (s *linkService) createWithCode(ctx context.Context, input usecase.CreateLinkInput, code string) (*entity.CampaignLink, error) {
	var link *entity.CampaignLink

	err := s.txManager.Execute(ctx, func(f repository.RepositoryFactory) error {
		campaign, err := f.CampaignRepo().FindCampaignByID(ctx, input.CampaignID)
		if err != nil {
			if errors.Is(err, repository.ErrCampaignNotFound) {
				return domainerrors.ErrCampaignNotFound
			}

			return errors.Wrap(err, "failed to load campaign")
		}
		if campaign.EntityID != input.EntityID {
			return domainerrors.ErrInvalidArgument.WrapMessage("campaign belongs to a different entity")
		}

		intake, err := f.CampaignRepo().FindIntakeByID(ctx, input.IntakeID)
		if err != nil {
			if errors.Is(err, repository.ErrIntakeNotFound) {
				return domainerrors.ErrIntakeNotFound
			}

			return errors.Wrap(err, "failed to load intake")
		}
		if intake.EntityID != input.EntityID {
			return domainerrors.ErrInvalidArgument.WrapMessage("intake belongs to a different entity")
		}

		link = &entity.CampaignLink{
			Code:        code,
			EntityID:    input.EntityID,
			CampaignID:  input.CampaignID,
			IntakeID:    input.IntakeID,
			Label:       input.Label,
			Channel:     input.Channel,
			QRVariant:   input.QRVariant,
			BDUserID:    input.BDUserID,
			UTMDefaults: input.UTMDefaults,
			State:       entity.LinkActive,
		}
		if err := f.LinkRepo().Create(ctx, link); err != nil {
			return err
		}

		// The reservation row is the allocation: its primary key is what
		// makes two concurrent picks of the same code impossible.
		return f.LinkRepo().CreateCode(ctx, &entity.LinkCode{
			Code:           code,
			CampaignLinkID: link.ID,
		})
	})
	if err != nil {
		return nil, err
	}

	return link, nil
}

// GetLinkQR renders the link's short URL as a QR code PNG.
func (s *linkService) GetLinkQR(ctx context.Context, actor entity.Actor, linkID uuid.UUID) ([]byte, error) {
	if actor.IsZero() {
		return nil, domainerrors.ErrUnauthenticated
	}

	link, err := s.linkRepo.FindByID(ctx, linkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, domainerrors.ErrLinkNotFound
		}

		return nil, errors.Wrap(err, "failed to load campaign link")
	}

	if !actor.CanAccessEntity(link.EntityID) {
		return nil, domainerrors.ErrPermissionDenied
	}

	png, err := s.qrService.GenerateLinkQR(link.Code)
	if err != nil {
		return nil, errors.Wrap(err, "failed to render link QR code")
	}

	return png, nil
}
