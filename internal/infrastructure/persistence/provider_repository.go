package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormProviderRepository implements ProviderRepository using GORM
type GormProviderRepository struct {
	db *gorm.DB
}

// NewGormProviderRepository creates a new GormProviderRepository
func NewGormProviderRepository(db *gorm.DB) *GormProviderRepository {
	return &GormProviderRepository{db: db}
}

// FindByIDForTenant finds a provider by ID within an organization
func (r *GormProviderRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*purchasing.Provider, error) {
	var provider purchasing.Provider
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&provider).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &provider, nil
}

// FindAllForTenant lists providers for an organization
func (r *GormProviderRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]purchasing.Provider, error) {
	var providers []purchasing.Provider
	query := r.db.WithContext(ctx).
		Model(&purchasing.Provider{}).
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR contact ILIKE ? OR email ILIKE ?", searchPattern, searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProviderSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "name" && filter.OrderBy == "" {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&providers).Error; err != nil {
		return nil, err
	}
	return providers, nil
}

// Save creates or updates a provider
func (r *GormProviderRepository) Save(ctx context.Context, provider *purchasing.Provider) error {
	return r.db.WithContext(ctx).Save(provider).Error
}

// Ensure GormProviderRepository implements ProviderRepository
var _ purchasing.ProviderRepository = (*GormProviderRepository)(nil)
