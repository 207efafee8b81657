package usecase

import (
	"context"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// UpdateStageInput describes a staff stage transition. Reason and Notes are
// only meaningful when the lead is being dropped.
type UpdateStageInput struct {
	Stage  string
	Reason string
	Notes  string
}

// UploadInput describes one uploaded document to attach to a lead.
type UploadInput struct {
	FileName    string
	ContentType string
	StoragePath string
	Size        int64
}

// LeadAdminUsecase covers authenticated staff operations on leads. Every
// mutation writes its audit event in the same transaction.
type LeadAdminUsecase interface {
	// UpdateLeadStage moves a lead to a new stage. DROPPED closes the lead,
	// COMPLETED converts it; other stages are free-form progression labels.
	UpdateLeadStage(ctx context.Context, actor entity.Actor, leadID uuid.UUID, input UpdateStageInput) (*entity.Lead, error)

	// RegisterUploads records uploaded documents on the lead. An empty batch
	// is a no-op success.
	RegisterUploads(ctx context.Context, actor entity.Actor, leadID uuid.UUID, uploads []UploadInput) (*entity.Lead, error)

	// ListLeadEvents returns the lead's audit trail in append order.
	ListLeadEvents(ctx context.Context, actor entity.Actor, leadID uuid.UUID) ([]*entity.LeadEvent, error)
}
