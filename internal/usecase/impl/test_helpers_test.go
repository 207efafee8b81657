package impl

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"leadtrack/config"
	"leadtrack/internal/domain/entity"
	"leadtrack/internal/domain/repository"
	"leadtrack/internal/domain/service"
	"leadtrack/internal/infra/identity"
	"leadtrack/internal/infra/persistence/memory"
	"leadtrack/internal/infra/qrcode"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// capturePublisher records published messages for assertions.
type capturePublisher struct {
	mu       sync.Mutex
	messages []*service.LeadEventMessage
}

func (p *capturePublisher) PublishLeadEvent(_ context.Context, event *service.LeadEventMessage) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.messages = append(p.messages, event)

	return nil
}

func (p *capturePublisher) Close() error { return nil }

func (p *capturePublisher) published() []*service.LeadEventMessage {
	p.mu.Lock()
	defer p.mu.Unlock()

	return append([]*service.LeadEventMessage(nil), p.messages...)
}

// fixedCodeSource always returns the same code, to force collisions.
type fixedCodeSource struct {
	code string
}

func (s fixedCodeSource) NewCode() (string, error) { return s.code, nil }

// raceTxManager makes the first n transactions lose the identity key race.
type raceTxManager struct {
	inner    repository.TransactionManager
	failures int
	calls    int
}

func (m *raceTxManager) Execute(ctx context.Context, fn func(repository.RepositoryFactory) error) error {
	m.calls++
	if m.calls <= m.failures {
		return m.inner.Execute(ctx, func(f repository.RepositoryFactory) error {
			return fn(conflictFactory{RepositoryFactory: f})
		})
	}

	return m.inner.Execute(ctx, fn)
}

type conflictFactory struct {
	repository.RepositoryFactory
}

func (f conflictFactory) PersonRepo() repository.PersonRepository {
	return conflictPersonRepo{PersonRepository: f.RepositoryFactory.PersonRepo()}
}

type conflictPersonRepo struct {
	repository.PersonRepository
}

func (r conflictPersonRepo) CreateIdentityKey(context.Context, *entity.IdentityKey) error {
	return repository.ErrDuplicateIdentityKey
}

// enquiryFixture wires an enquiry service over the in-memory store.
type enquiryFixture struct {
	store     *memory.Store
	txManager repository.TransactionManager
	publisher *capturePublisher
	service   *enquiryService
}

func newEnquiryFixture(t *testing.T) *enquiryFixture {
	t.Helper()

	store := memory.NewStore()
	tm := memory.NewTransactionManager(store)
	publisher := &capturePublisher{}

	svc := NewEnquiryService(EnquiryServiceParams{
		TxManager:     tm,
		Deriver:       identity.NewDeriver("test-identity-secret"),
		Fingerprinter: identity.NewHMACFingerprinter("test-salt"),
		Publisher:     publisher,
		Logger:        testLogger(),
	})

	return &enquiryFixture{
		store:     store,
		txManager: tm,
		publisher: publisher,
		service:   svc.(*enquiryService),
	}
}

func seedIntake(t *testing.T, store *memory.Store, entityID uuid.UUID) *entity.Intake {
	t.Helper()

	intake := &entity.Intake{
		EntityID: entityID,
		Name:     "2026 Semester 1",
		Status:   "open",
	}
	require.NoError(t, store.CampaignRepo().CreateIntake(context.Background(), intake))

	return intake
}

func seedCampaign(t *testing.T, store *memory.Store, entityID uuid.UUID) *entity.Campaign {
	t.Helper()

	campaign := &entity.Campaign{
		EntityID: entityID,
		Name:     "Open Day",
		Status:   "active",
	}
	require.NoError(t, store.CampaignRepo().CreateCampaign(context.Background(), campaign))

	return campaign
}

func seedLink(t *testing.T, store *memory.Store, entityID uuid.UUID, code string) *entity.CampaignLink {
	t.Helper()

	campaign := seedCampaign(t, store, entityID)
	intake := seedIntake(t, store, entityID)

	link := &entity.CampaignLink{
		Code:       code,
		EntityID:   entityID,
		CampaignID: campaign.ID,
		IntakeID:   intake.ID,
		Channel:    "qr",
		QRVariant:  "poster",
		State:      entity.LinkActive,
	}
	require.NoError(t, store.LinkRepo().Create(context.Background(), link))
	require.NoError(t, store.LinkRepo().CreateCode(context.Background(), &entity.LinkCode{
		Code:           code,
		CampaignLinkID: link.ID,
	}))

	return link
}

func newLinkService(t *testing.T, store *memory.Store, source service.ShortCodeSource, maxAttempts int) *linkService {
	t.Helper()

	cfg := &config.Config{
		Allocator: &config.AllocatorConfig{MaxAttempts: maxAttempts},
	}

	svc := NewLinkService(LinkServiceParams{
		TxManager:  memory.NewTransactionManager(store),
		LinkRepo:   store.LinkRepo(),
		CodeSource: source,
		QRService:  qrcode.NewQRCodeService(256, "M", "https://go.example.com"),
		Config:     cfg,
		Logger:     testLogger(),
	})

	return svc.(*linkService)
}

func newTrackingService(t *testing.T, store *memory.Store) *trackingService {
	t.Helper()

	cfg := &config.Config{
		Tracking: &config.TrackingConfig{
			PublicBaseURL: "https://go.example.com",
			EnquiryPath:   "https://www.example.com/enquire",
		},
	}

	svc, err := NewTrackingService(TrackingServiceParams{
		LinkRepo:      store.LinkRepo(),
		Fingerprinter: identity.NewHMACFingerprinter("test-salt"),
		Config:        cfg,
		Logger:        testLogger(),
	})
	require.NoError(t, err)

	return svc.(*trackingService)
}

func staffActor(entityID uuid.UUID, roles ...string) entity.Actor {
	return entity.Actor{
		UserID:    uuid.New(),
		Roles:     roles,
		EntityIDs: []uuid.UUID{entityID},
	}
}
