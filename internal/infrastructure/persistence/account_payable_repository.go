package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormAccountPayableRepository implements AccountPayableRepository using GORM
type GormAccountPayableRepository struct {
	db *gorm.DB
}

// NewGormAccountPayableRepository creates a new GormAccountPayableRepository
func NewGormAccountPayableRepository(db *gorm.DB) *GormAccountPayableRepository {
	return &GormAccountPayableRepository{db: db}
}

// FindByIDForTenant finds a payable by ID within an organization
func (r *GormAccountPayableRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*purchasing.AccountPayable, error) {
	var payable purchasing.AccountPayable
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payable, nil
}

// FindByIDForUpdate finds a payable by ID holding a row-level write lock.
// Must run inside a transaction.
func (r *GormAccountPayableRepository) FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*purchasing.AccountPayable, error) {
	var payable purchasing.AccountPayable
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&payable).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &payable, nil
}

// FindAllForTenant lists payables for an organization, newest first
func (r *GormAccountPayableRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]purchasing.AccountPayable, error) {
	var payables []purchasing.AccountPayable
	query := r.db.WithContext(ctx).
		Model(&purchasing.AccountPayable{}).
		Where("organization_id = ?", organizationID)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, AccountPayableSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&payables).Error; err != nil {
		return nil, err
	}
	return payables, nil
}

// SumPendingForTenant totals the organization's PENDING payables
func (r *GormAccountPayableRepository) SumPendingForTenant(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&purchasing.AccountPayable{}).
		Select("COALESCE(SUM(amount), 0)").
		Where("organization_id = ? AND status = ?", organizationID, purchasing.PayableStatusPending).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a payable
func (r *GormAccountPayableRepository) Save(ctx context.Context, payable *purchasing.AccountPayable) error {
	return r.db.WithContext(ctx).Save(payable).Error
}

// Ensure GormAccountPayableRepository implements AccountPayableRepository
var _ purchasing.AccountPayableRepository = (*GormAccountPayableRepository)(nil)
