package audit

import (
	"context"
	"time"

	domainaudit "github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EntryResponse is the read model for an audit entry. Snapshot values are
// surfaced as ordered key/value pairs, not re-parsed strings.
type EntryResponse struct {
	ID        uuid.UUID                   `json:"id"`
	UserID    uuid.UUID                   `json:"user_id"`
	Action    string                      `json:"action"`
	Entity    string                      `json:"entity"`
	EntityID  uuid.UUID                   `json:"entity_id"`
	OldValue  []domainaudit.SnapshotField `json:"old_value,omitempty"`
	NewValue  []domainaudit.SnapshotField `json:"new_value,omitempty"`
	CreatedAt time.Time                   `json:"created_at"`
}

// ToEntryResponse converts an Entry to its read model
func ToEntryResponse(e *domainaudit.Entry) EntryResponse {
	return EntryResponse{
		ID:        e.ID,
		UserID:    e.UserID,
		Action:    string(e.Action),
		Entity:    e.Entity,
		EntityID:  e.EntityID,
		OldValue:  e.OldValue.Fields(),
		NewValue:  e.NewValue.Fields(),
		CreatedAt: e.CreatedAt,
	}
}

// ToEntryResponses converts a slice of entries
func ToEntryResponses(entries []domainaudit.Entry) []EntryResponse {
	responses := make([]EntryResponse, len(entries))
	for i := range entries {
		responses[i] = ToEntryResponse(&entries[i])
	}
	return responses
}

// Service exposes the audit ledger read side. Writes happen only inside the
// business transactions that produce the entries.
type Service struct {
	entries domainaudit.Repository
}

// NewService creates a new audit Service
func NewService(entries domainaudit.Repository) *Service {
	return &Service{entries: entries}
}

// ListRecent lists the tenant's most recent entries, newest first
func (s *Service) ListRecent(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]EntryResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindRecentForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}

// ListForEntity lists the history of one entity, newest first
func (s *Service) ListForEntity(ctx context.Context, identity shared.Identity, entity string, entityID uuid.UUID) ([]EntryResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	entries, err := s.entries.FindByEntity(ctx, identity.OrganizationID, entity, entityID)
	if err != nil {
		return nil, err
	}
	return ToEntryResponses(entries), nil
}
