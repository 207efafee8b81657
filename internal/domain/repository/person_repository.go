// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and
// the infrastructure layer.
package repository

import (
	"context"
	"errors"

	"leadtrack/internal/domain/entity"

	"github.com/google/uuid"
)

// ErrPersonNotFound is returned when a person lookup finds no record.
var ErrPersonNotFound = errors.New("person not found")

// ErrIdentityKeyNotFound is returned when a key is absent from the index.
var ErrIdentityKeyNotFound = errors.New("identity key not found")

// ErrDuplicateIdentityKey is returned when an index entry already exists for a
// key. Inside a transaction this must abort the whole transaction; the caller
// retries from the top and resolves to the winner's person.
var ErrDuplicateIdentityKey = errors.New("identity key already exists")

// PersonRepository covers the Person aggregate: the person records themselves
// and the one-way identity-key index that deduplicates them.
type PersonRepository interface {
	// FindByID retrieves a single person by id.
	FindByID(ctx context.Context, id uuid.UUID) (*entity.Person, error)

	// Create persists a new person.
	Create(ctx context.Context, person *entity.Person) error

	// Update modifies an existing person.
	Update(ctx context.Context, person *entity.Person) error

	// FindIdentityKey looks up one derived key in the index.
	// Returns ErrIdentityKeyNotFound when absent.
	FindIdentityKey(ctx context.Context, key string) (*entity.IdentityKey, error)

	// CreateIdentityKey inserts one index entry; create-if-absent is the only
	// uniqueness mechanism. Returns ErrDuplicateIdentityKey on collision.
	CreateIdentityKey(ctx context.Context, key *entity.IdentityKey) error
}
