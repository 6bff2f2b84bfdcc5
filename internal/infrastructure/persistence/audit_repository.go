package persistence

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// auditEntryModel is the storage shape of an audit entry. Snapshots are
// serialized to JSON only at this boundary; the domain keeps them typed.
type auditEntryModel struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	UserID         uuid.UUID       `gorm:"type:uuid;not null"`
	Action         string          `gorm:"type:varchar(50);not null"`
	Entity         string          `gorm:"type:varchar(50);not null;index:idx_audit_entity"`
	EntityID       uuid.UUID       `gorm:"type:uuid;index:idx_audit_entity"`
	OldValue       json.RawMessage `gorm:"type:jsonb"`
	NewValue       json.RawMessage `gorm:"type:jsonb"`
	CreatedAt      time.Time       `gorm:"not null;index"`
}

// TableName returns the table name for GORM
func (auditEntryModel) TableName() string {
	return "audit_entries"
}

func toAuditModel(entry *audit.Entry) (*auditEntryModel, error) {
	model := &auditEntryModel{
		ID:             entry.ID,
		OrganizationID: entry.OrganizationID,
		UserID:         entry.UserID,
		Action:         string(entry.Action),
		Entity:         entry.Entity,
		EntityID:       entry.EntityID,
		CreatedAt:      entry.CreatedAt,
	}

	if !entry.OldValue.IsEmpty() {
		raw, err := json.Marshal(entry.OldValue.Fields())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize old value: %w", err)
		}
		model.OldValue = raw
	}
	if !entry.NewValue.IsEmpty() {
		raw, err := json.Marshal(entry.NewValue.Fields())
		if err != nil {
			return nil, fmt.Errorf("failed to serialize new value: %w", err)
		}
		model.NewValue = raw
	}

	return model, nil
}

func toAuditEntry(model *auditEntryModel) (*audit.Entry, error) {
	entry := &audit.Entry{
		ID:             model.ID,
		OrganizationID: model.OrganizationID,
		UserID:         model.UserID,
		Action:         audit.Action(model.Action),
		Entity:         model.Entity,
		EntityID:       model.EntityID,
		CreatedAt:      model.CreatedAt,
	}

	oldValue, err := deserializeSnapshot(model.OldValue)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize old value: %w", err)
	}
	newValue, err := deserializeSnapshot(model.NewValue)
	if err != nil {
		return nil, fmt.Errorf("failed to deserialize new value: %w", err)
	}
	entry.OldValue = oldValue
	entry.NewValue = newValue

	return entry, nil
}

func deserializeSnapshot(raw json.RawMessage) (*audit.Snapshot, error) {
	if len(raw) == 0 {
		return nil, nil
	}
	var fields []audit.SnapshotField
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	snapshot := audit.NewSnapshot()
	for _, f := range fields {
		snapshot.Set(f.Key, f.Value)
	}
	return snapshot, nil
}

// GormAuditRepository implements the audit Repository using GORM.
// Entries are append-only; there is no update or delete path.
type GormAuditRepository struct {
	db *gorm.DB
}

// NewGormAuditRepository creates a new GormAuditRepository
func NewGormAuditRepository(db *gorm.DB) *GormAuditRepository {
	return &GormAuditRepository{db: db}
}

// Append stores a new entry
func (r *GormAuditRepository) Append(ctx context.Context, entry *audit.Entry) error {
	model, err := toAuditModel(entry)
	if err != nil {
		return err
	}
	return r.db.WithContext(ctx).Create(model).Error
}

// FindRecentForTenant lists the most recent entries for an organization
func (r *GormAuditRepository) FindRecentForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]audit.Entry, error) {
	var models []auditEntryModel
	query := r.db.WithContext(ctx).
		Model(&auditEntryModel{}).
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		query = query.Where("action = ? OR entity = ?", filter.Search, filter.Search)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AuditEntrySortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&models).Error; err != nil {
		return nil, err
	}
	return toAuditEntries(models)
}

// FindByEntity lists entries for one entity, newest first
func (r *GormAuditRepository) FindByEntity(ctx context.Context, organizationID uuid.UUID, entity string, entityID uuid.UUID) ([]audit.Entry, error) {
	var models []auditEntryModel
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND entity = ? AND entity_id = ?", organizationID, entity, entityID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}
	return toAuditEntries(models)
}

// CountForTenant counts entries for an organization
func (r *GormAuditRepository) CountForTenant(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&auditEntryModel{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toAuditEntries(models []auditEntryModel) ([]audit.Entry, error) {
	entries := make([]audit.Entry, 0, len(models))
	for i := range models {
		entry, err := toAuditEntry(&models[i])
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	return entries, nil
}

// Ensure GormAuditRepository implements the audit Repository
var _ audit.Repository = (*GormAuditRepository)(nil)
