package service

import (
	"context"
	"time"
)

// LeadEventMessage is the wire form of a lead audit event published for
// downstream consumers (CRM sync, reporting). It mirrors the persisted
// LeadEvent but is decoupled from the entity so the wire format can evolve
// independently.
type LeadEventMessage struct {
	RequestID string         `json:"request_id,omitempty"` // for distributed tracing
	EventID   string         `json:"event_id"`
	LeadID    string         `json:"lead_id"`
	PersonID  string         `json:"person_id"`
	EntityID  string         `json:"entity_id"`
	Type      string         `json:"type"`
	Payload   map[string]any `json:"payload,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
}

// EventPublisher fans lead audit events out to a message queue. Publishing is
// best-effort: callers log failures and never surface them, because the
// persisted LeadEvent row is the source of truth.
type EventPublisher interface {
	// PublishLeadEvent publishes one lead event for async processing.
	PublishLeadEvent(ctx context.Context, event *LeadEventMessage) error

	// Close releases any resources held by the publisher.
	Close() error
}
