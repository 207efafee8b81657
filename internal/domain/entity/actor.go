package entity

import (
	"slices"

	"github.com/google/uuid"
)

// Staff roles. Admin and Marketing are the privileged roles for link and
// campaign management; BD staff act on leads they own.
const (
	RoleAdmin     = "admin"
	RoleMarketing = "marketing"
	RoleBD        = "bd"
)

// Actor is the authenticated caller identity, extracted from the access token
// and passed explicitly through every authenticated operation. Entity scope is
// never carried as ambient request state.
type Actor struct {
	UserID    uuid.UUID
	Roles     []string
	EntityIDs []uuid.UUID
}

// IsZero reports whether no caller identity is present.
func (a Actor) IsZero() bool {
	return a.UserID == uuid.Nil
}

// HasRole reports whether the actor holds the given role.
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// Privileged reports whether the actor holds a link/campaign management role.
func (a Actor) Privileged() bool {
	return a.HasRole(RoleAdmin) || a.HasRole(RoleMarketing)
}

// CanAccessEntity reports whether the actor is scoped to the given business
// entity. Admins have access to every entity.
func (a Actor) CanAccessEntity(entityID uuid.UUID) bool {
	if a.HasRole(RoleAdmin) {
		return true
	}

	return slices.Contains(a.EntityIDs, entityID)
}
