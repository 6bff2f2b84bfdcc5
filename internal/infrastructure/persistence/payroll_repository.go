package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormPayrollRepository implements PayrollRepository using GORM
type GormPayrollRepository struct {
	db *gorm.DB
}

// NewGormPayrollRepository creates a new GormPayrollRepository
func NewGormPayrollRepository(db *gorm.DB) *GormPayrollRepository {
	return &GormPayrollRepository{db: db}
}

// FindByIDForTenant finds a payroll by ID within an organization
func (r *GormPayrollRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*payroll.Payroll, error) {
	var record payroll.Payroll
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindByIDForUpdate finds a payroll by ID holding a row-level write lock.
// Must run inside a transaction.
func (r *GormPayrollRepository) FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*payroll.Payroll, error) {
	var record payroll.Payroll
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&record).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &record, nil
}

// FindAllForTenant lists payrolls for an organization, newest first
func (r *GormPayrollRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]payroll.Payroll, error) {
	var records []payroll.Payroll
	query := r.db.WithContext(ctx).
		Model(&payroll.Payroll{}).
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		query = query.Where("period LIKE ?", "%"+filter.Search+"%")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PayrollSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&records).Error; err != nil {
		return nil, err
	}
	return records, nil
}

// Save creates or updates a payroll
func (r *GormPayrollRepository) Save(ctx context.Context, record *payroll.Payroll) error {
	return r.db.WithContext(ctx).Save(record).Error
}

// Ensure GormPayrollRepository implements PayrollRepository
var _ payroll.PayrollRepository = (*GormPayrollRepository)(nil)
