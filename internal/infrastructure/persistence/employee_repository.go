package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormEmployeeRepository implements EmployeeRepository using GORM
type GormEmployeeRepository struct {
	db *gorm.DB
}

// NewGormEmployeeRepository creates a new GormEmployeeRepository
func NewGormEmployeeRepository(db *gorm.DB) *GormEmployeeRepository {
	return &GormEmployeeRepository{db: db}
}

// FindByIDForTenant finds an employee by ID within an organization
func (r *GormEmployeeRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*payroll.Employee, error) {
	var employee payroll.Employee
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&employee).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &employee, nil
}

// FindAllForTenant lists employees for an organization
func (r *GormEmployeeRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]payroll.Employee, error) {
	var employees []payroll.Employee
	query := r.db.WithContext(ctx).
		Model(&payroll.Employee{}).
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR position ILIKE ?", searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, EmployeeSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "name" && filter.OrderBy == "" {
		orderDir = "ASC"
	}
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&employees).Error; err != nil {
		return nil, err
	}
	return employees, nil
}

// CountForTenant counts employees for an organization
func (r *GormEmployeeRepository) CountForTenant(ctx context.Context, organizationID uuid.UUID) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&payroll.Employee{}).
		Where("organization_id = ?", organizationID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Save creates or updates an employee
func (r *GormEmployeeRepository) Save(ctx context.Context, employee *payroll.Employee) error {
	return r.db.WithContext(ctx).Save(employee).Error
}

// Ensure GormEmployeeRepository implements EmployeeRepository
var _ payroll.EmployeeRepository = (*GormEmployeeRepository)(nil)
