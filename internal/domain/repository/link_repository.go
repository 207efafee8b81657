package repository

import (
	"context"
	"errors"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrLinkNotFound is returned when a campaign link lookup finds no record.
var ErrLinkNotFound = errors.New("campaign link not found")

// ErrLinkCodeNotFound is returned when a short code has no reservation.
var ErrLinkCodeNotFound = errors.New("link code not found")

// ErrDuplicateLinkCode is returned when a code reservation already exists.
// The allocator regenerates and retries on this error.
var ErrDuplicateLinkCode = errors.New("link code already exists")

// LinkRepository covers campaign links, their code reservations and the click
// event log.
type LinkRepository interface {
	// FindByID retrieves a campaign link by id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.CampaignLink, error)

	// Create persists a new campaign link.
	Create(ctx context.Context, link *entity.CampaignLink) error

	// Update modifies an existing campaign link, counters included. Counter
	// changes go through read-modify-write on the loaded entity so they
	// participate in the enclosing transaction.
	Update(ctx context.Context, link *entity.CampaignLink) error

	// FindCode looks up a short-code reservation.
	// Returns ErrLinkCodeNotFound when absent.
	FindCode(ctx context.Context, code string) (*entity.LinkCode, error)

	// CreateCode inserts one code reservation; create-if-absent is the only
	// uniqueness mechanism. Returns ErrDuplicateLinkCode on collision.
	CreateCode(ctx context.Context, code *entity.LinkCode) error

	// AddClicks atomically bumps the click counter outside any caller-managed
	// transaction. This is the best-effort counter path: failures are logged
	// by the caller and never surfaced to visitors.
	AddClicks(ctx context.Context, linkID uuid.UUID, delta int64) error

	// CreateClickEvent appends one click event to the log.
	CreateClickEvent(ctx context.Context, event *entity.ClickEvent) error

	// ListClickEventsByLink returns the click log for one link in append order.
	ListClickEventsByLink(ctx context.Context, linkID uuid.UUID) ([]*entity.ClickEvent, error)
}
