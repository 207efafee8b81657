package main

import (
	"context"
	"log/slog"
	"os"

	"leadtrack/config"
	"leadtrack/internal/delivery"
	"leadtrack/internal/delivery/http"
	"leadtrack/internal/delivery/http/middleware"
	"leadtrack/internal/delivery/http/router/handler"
	"leadtrack/internal/domain/service"
	"leadtrack/internal/infra/auth"
	"leadtrack/internal/infra/identity"
	logs "leadtrack/internal/infra/log"
	"leadtrack/internal/infra/persistence/postgres"
	"leadtrack/internal/infra/pubsub"
	"leadtrack/internal/infra/qrcode"
	"leadtrack/internal/infra/shortcode"
	"leadtrack/internal/usecase/impl"

	"github.com/pkg/errors"
	"go.uber.org/fx"
)

type startServerParams struct {
	fx.In
	fx.Lifecycle

	Deliveries []delivery.Delivery `group:"deliveries"`
}

func main() {
	fx.New(
		injectInfra(),
		injectRepo(),
		injectService(),
		injectUsecase(),
		injectDelivery(),
		injectMiddleware(),
		injectHandler(),
		fx.Invoke(
			startServer,
		),
	).Run()
}

func injectInfra() fx.Option {
	return fx.Options(
		fx.Provide(
			config.New,
			logs.New,
			context.Background,
			postgres.New,
		),
		pubsub.Module,
	)
}

func injectRepo() fx.Option {
	return fx.Options(
		fx.Provide(
			postgres.NewPersonRepository,
			postgres.NewLeadRepository,
			postgres.NewLinkRepository,
			postgres.NewCampaignRepository,
			postgres.NewTransactionManager,
		),
	)
}

func injectService() fx.Option {
	return fx.Options(
		fx.Provide(
			auth.NewJWTService,
			newIdentityDeriver,
			newFingerprinter,
			newShortCodeSource,
			newQRCodeService,
		),
	)
}

// newIdentityDeriver creates the identity key deriver from the configured
// hash key. The key must stay stable across deployments or every stored
// identity key stops matching.
func newIdentityDeriver(cfg *config.Config) (service.IdentityKeyDeriver, error) {
	if cfg.SecretKey.IdentityHashKey == "" {
		return nil, errors.New("identity hash key must be provided")
	}

	return identity.NewDeriver(cfg.SecretKey.IdentityHashKey), nil
}

// newFingerprinter creates the click fingerprinter with dependency injection
func newFingerprinter(cfg *config.Config) (service.Fingerprinter, error) {
	if cfg.SecretKey.FingerprintSalt == "" {
		return nil, errors.New("fingerprint salt must be provided")
	}

	return identity.NewHMACFingerprinter(cfg.SecretKey.FingerprintSalt), nil
}

// newShortCodeSource creates the short code source with dependency injection
func newShortCodeSource(cfg *config.Config) service.ShortCodeSource {
	if cfg.Allocator == nil {
		return shortcode.NewSource(shortcode.DefaultLength)
	}

	return shortcode.NewSource(cfg.Allocator.CodeLength)
}

// newQRCodeService creates a QR code service with dependency injection
func newQRCodeService(cfg *config.Config) service.QRCodeService {
	publicBaseURL := ""
	if cfg.Tracking != nil {
		publicBaseURL = cfg.Tracking.PublicBaseURL
	}

	if cfg.QRCode == nil {
		// Use default values if not configured
		return qrcode.NewQRCodeService(256, "M", publicBaseURL)
	}

	return qrcode.NewQRCodeService(cfg.QRCode.Size, cfg.QRCode.ErrorCorrectionLevel, publicBaseURL)
}

func injectUsecase() fx.Option {
	return fx.Options(
		fx.Provide(
			impl.NewEnquiryService,
			impl.NewTrackingService,
			impl.NewLinkService,
			impl.NewCampaignService,
			impl.NewLeadAdminService,
		),
	)
}

func injectMiddleware() fx.Option {
	return fx.Options(
		fx.Provide(
			middleware.NewAuthMiddleware,
		),
	)
}

func injectHandler() fx.Option {
	return fx.Options(
		fx.Provide(
			handler.NewEnquiryHandler,
			handler.NewTrackingHandler,
			handler.NewLinkHandler,
			handler.NewLeadHandler,
			handler.NewCampaignHandler,
		),
	)
}

func injectDelivery() fx.Option {
	return fx.Options(
		fx.Provide(
			fx.Annotate(
				http.NewServer,
				fx.ResultTags(`group:"deliveries"`),
			),
		),
	)
}

func startServer(ctx context.Context, params startServerParams) {
	for _, d := range params.Deliveries {
		go func() {
			if err := d.Serve(ctx); err != nil {
				slog.Error("Failed to start server", slog.Any("error", err))
				os.Exit(1)
			}
		}()
	}
}
