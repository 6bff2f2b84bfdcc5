package cashier

import (
	"context"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// CashSessionRepository defines persistence operations for cash sessions
type CashSessionRepository interface {
	// FindByIDForTenant loads a session scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*CashSession, error)
	// FindByIDForUpdate loads a session with a row-level write lock
	FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*CashSession, error)
	// FindOpenByUser returns the most recently opened OPEN session for an
	// operator, or shared.ErrNotFound when none exists
	FindOpenByUser(ctx context.Context, organizationID, userID uuid.UUID) (*CashSession, error)
	// FindOpenByUserForUpdate is FindOpenByUser with a row-level write lock;
	// used to serialize concurrent open attempts
	FindOpenByUserForUpdate(ctx context.Context, organizationID, userID uuid.UUID) (*CashSession, error)
	// FindAllForTenant lists sessions for a tenant, newest first
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]CashSession, error)
	// Save creates or updates a session
	Save(ctx context.Context, session *CashSession) error
}

// CashMovementRepository is the append-only store for cash movements
type CashMovementRepository interface {
	// Append stores a new movement
	Append(ctx context.Context, movement *CashMovement) error
	// FindBySession lists all movements tied to a session
	FindBySession(ctx context.Context, organizationID, sessionID uuid.UUID) ([]CashMovement, error)
	// FindRecent lists the most recent movements for a tenant
	FindRecent(ctx context.Context, organizationID uuid.UUID, limit int) ([]CashMovement, error)
}
