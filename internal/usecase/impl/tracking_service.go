package impl

import (
	"context"
	"log/slog"
	"net/url"
	"strings"

	"leadtrack/config"
	deliverycontext "leadtrack/internal/delivery/context"
	"leadtrack/internal/domain/entity"
	domainerrors "leadtrack/internal/domain/errors"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/domain/service"
	"leadtrack/internal/usecase"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type trackingService struct {
	linkRepo      repository.LinkRepository
	fingerprinter service.Fingerprinter
	enquiryPath   string
	logger        *slog.Logger
}

// TrackingServiceParams holds dependencies for TrackingService, injected by Fx.
type TrackingServiceParams struct {
	fx.In

	LinkRepo      repository.LinkRepository
	Fingerprinter service.Fingerprinter
	Config        *config.Config
	Logger        *slog.Logger
}

// NewTrackingService creates a new tracking service instance
func NewTrackingService(params TrackingServiceParams) (usecase.TrackingUsecase, error) {
	if params.Config.Tracking == nil || params.Config.Tracking.EnquiryPath == "" {
		return nil, errors.New("tracking enquiry path must be configured")
	}

	return &trackingService{
		linkRepo:      params.LinkRepo,
		fingerprinter: params.Fingerprinter,
		enquiryPath:   strings.TrimSuffix(params.Config.Tracking.EnquiryPath, "?"),
		logger:        params.Logger,
	}, nil
}

func (s *trackingService) log(ctx context.Context) *slog.Logger {
	return deliverycontext.GetLoggerOrDefault(ctx, s.logger)
}

// ResolveRedirect resolves a code for the server-side redirect path.
func (s *trackingService) ResolveRedirect(ctx context.Context, code string, click usecase.ClickContext) (string, error) {
	link, err := s.resolveLink(ctx, code)
	if err != nil {
		return "", err
	}

	s.recordClick(ctx, link, entity.ClickSourceServer, click)

	return s.buildEnquiryURL(link)
}

// ResolveCode resolves a code for a client-side integration.
func (s *trackingService) ResolveCode(ctx context.Context, code string, click usecase.ClickContext) (*usecase.LinkResolution, error) {
	link, err := s.resolveLink(ctx, code)
	if err != nil {
		return nil, err
	}

	s.recordClick(ctx, link, entity.ClickSourceClient, click)

	enquiryURL, err := s.buildEnquiryURL(link)
	if err != nil {
		return nil, err
	}

	return &usecase.LinkResolution{
		Code:           link.Code,
		CampaignLinkID: link.ID,
		EntityID:       link.EntityID,
		CampaignID:     link.CampaignID,
		IntakeID:       link.IntakeID,
		Channel:        link.Channel,
		QRVariant:      link.QRVariant,
		BDUserID:       link.BDUserID,
		UTM:            link.UTMDefaults,
		EnquiryURL:     enquiryURL,
	}, nil
}

// resolveLink maps a short code to its active campaign link. Unknown codes
// and retired links both surface as not found, so the code namespace leaks
// nothing about link lifecycle.
func (s *trackingService) resolveLink(ctx context.Context, code string) (*entity.CampaignLink, error) {
	if code == "" {
		return nil, domainerrors.ErrInvalidArgument.WrapMessage("code is required")
	}

	linkCode, err := s.linkRepo.FindCode(ctx, code)
	if err != nil {
		if errors.Is(err, repository.ErrLinkCodeNotFound) {
			return nil, domainerrors.ErrLinkNotFound
		}

		return nil, errors.Wrap(err, "failed to resolve link code")
	}

	link, err := s.linkRepo.FindByID(ctx, linkCode.CampaignLinkID)
	if err != nil {
		if errors.Is(err, repository.ErrLinkNotFound) {
			return nil, domainerrors.ErrLinkNotFound
		}

		return nil, errors.Wrap(err, "failed to load campaign link")
	}

	if link.State != entity.LinkActive {
		return nil, domainerrors.ErrLinkNotFound
	}

	return link, nil
}

// recordClick appends a click event and bumps the advisory counter. Both are
// best-effort: a visitor is never failed because click bookkeeping failed.
// The event snapshots the link's full attribution context, so later edits to
// the link never rewrite what a past click meant.
func (s *trackingService) recordClick(ctx context.Context, link *entity.CampaignLink, source entity.ClickSource, click usecase.ClickContext) {
	event := &entity.ClickEvent{
		Code:           link.Code,
		CampaignLinkID: link.ID,
		EntityID:       link.EntityID,
		CampaignID:     link.CampaignID,
		IntakeID:       link.IntakeID,
		Channel:        link.Channel,
		QRVariant:      link.QRVariant,
		BDUserID:       link.BDUserID,
		UTM:            link.UTMDefaults,
		Source:         source,
		IPHash:         s.fingerprinter.Fingerprint(click.IP),
		UAHash:         s.fingerprinter.Fingerprint(click.UserAgent),
		Referrer:       click.Referrer,
	}
	if err := s.linkRepo.CreateClickEvent(ctx, event); err != nil {
		s.log(ctx).Warn("failed to record click event",
			slog.String("code", link.Code),
			slog.String("error", err.Error()),
		)
	}

	if err := s.linkRepo.AddClicks(ctx, link.ID, 1); err != nil {
		s.log(ctx).Warn("failed to bump click counter",
			slog.String("code", link.Code),
			slog.String("error", err.Error()),
		)
	}
}

// buildEnquiryURL assembles the destination URL with the link's attribution
// as query parameters. Empty values are omitted entirely.
func (s *trackingService) buildEnquiryURL(link *entity.CampaignLink) (string, error) {
	dest, err := url.Parse(s.enquiryPath)
	if err != nil {
		return "", errors.Wrap(err, "invalid enquiry path")
	}

	query := dest.Query()
	setParam := func(key, value string) {
		if value != "" {
			query.Set(key, value)
		}
	}

	setParam("code", link.Code)
	setParam("intakeId", link.IntakeID.String())
	setParam("campaignId", link.CampaignID.String())
	setParam("campaignLinkId", link.ID.String())
	setParam("channel", link.Channel)
	if link.BDUserID != nil {
		setParam("bdUserId", link.BDUserID.String())
	}
	setParam("qrVariant", link.QRVariant)
	setParam("utm_source", link.UTMDefaults.Source)
	setParam("utm_medium", link.UTMDefaults.Medium)
	setParam("utm_campaign", link.UTMDefaults.Campaign)
	setParam("utm_term", link.UTMDefaults.Term)
	setParam("utm_content", link.UTMDefaults.Content)

	dest.RawQuery = query.Encode()

	return dest.String(), nil
}
