package repository

import (
	"context"
	"errors"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrLeadNotFound is returned when a lead lookup finds no record.
var ErrLeadNotFound = errors.New("lead not found")

// LeadRepository covers leads and their append-only audit trail.
type LeadRepository interface {
	// FindByID retrieves a single lead by id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Lead, error)

	// Create persists a new lead.
	Create(ctx context.Context, lead *entity.Lead) error

	// Update modifies an existing lead.
	Update(ctx context.Context, lead *entity.Lead) error

	// AppendEvent writes one immutable audit event.
	AppendEvent(ctx context.Context, event *entity.LeadEvent) error

	// ListEventsByLead returns the audit trail for one lead in append order.
	ListEventsByLead(ctx context.Context, leadID uuid.UUID) ([]*entity.LeadEvent, error)
}
