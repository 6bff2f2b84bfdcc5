package shared

import (
	"github.com/google/uuid"
)

// Role is the set of roles recognized by the core operations.
type Role string

const (
	RoleAdmin   Role = "ADMIN"
	RoleManager Role = "MANAGER"
	RoleCashier Role = "CASHIER"
)

// IsValid checks if the role is a recognized Role
func (r Role) IsValid() bool {
	switch r {
	case RoleAdmin, RoleManager, RoleCashier:
		return true
	}
	return false
}

// String returns the string representation of Role
func (r Role) String() string {
	return string(r)
}

// Identity is the resolved caller identity injected into every operation.
// It is constructed by the API layer after authentication; the core never
// falls back to an implicit user. Every query and write is scoped by
// OrganizationID and stamped with UserID where the entity records an actor.
type Identity struct {
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Role           Role
}

// NewIdentity creates a validated identity. Operations must fail closed:
// an identity with a nil organization or user is rejected here rather than
// defaulting anywhere downstream.
func NewIdentity(organizationID, userID uuid.UUID, role Role) (Identity, error) {
	if organizationID == uuid.Nil {
		return Identity{}, NewDomainError("INVALID_IDENTITY", "Organization ID cannot be empty")
	}
	if userID == uuid.Nil {
		return Identity{}, NewDomainError("INVALID_IDENTITY", "User ID cannot be empty")
	}
	if !role.IsValid() {
		return Identity{}, NewDomainError("INVALID_IDENTITY", "Unknown role")
	}
	return Identity{
		OrganizationID: organizationID,
		UserID:         userID,
		Role:           role,
	}, nil
}

// Validate checks that the identity is complete
func (i Identity) Validate() error {
	if i.OrganizationID == uuid.Nil || i.UserID == uuid.Nil {
		return ErrUnauthorized
	}
	if !i.Role.IsValid() {
		return ErrUnauthorized
	}
	return nil
}
