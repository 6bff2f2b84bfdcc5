package audit

import (
	"context"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Repository is the append-only store for audit entries. Entries are never
// updated or deleted.
type Repository interface {
	// Append stores a new entry
	Append(ctx context.Context, entry *Entry) error
	// FindRecentForTenant lists the most recent entries for a tenant
	FindRecentForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Entry, error)
	// FindByEntity lists entries for one entity, newest first
	FindByEntity(ctx context.Context, organizationID uuid.UUID, entity string, entityID uuid.UUID) ([]Entry, error)
	// CountForTenant counts entries for a tenant
	CountForTenant(ctx context.Context, organizationID uuid.UUID) (int64, error)
}
