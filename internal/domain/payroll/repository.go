package payroll

import (
	"context"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// EmployeeRepository defines persistence operations for employees
type EmployeeRepository interface {
	// FindByIDForTenant loads an employee scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*Employee, error)
	// FindAllForTenant lists employees for a tenant
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Employee, error)
	// CountForTenant counts employees for a tenant
	CountForTenant(ctx context.Context, organizationID uuid.UUID) (int64, error)
	// Save creates or updates an employee
	Save(ctx context.Context, employee *Employee) error
}

// PayrollRepository defines persistence operations for payroll records
type PayrollRepository interface {
	// FindByIDForTenant loads a payroll scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*Payroll, error)
	// FindByIDForUpdate loads a payroll with a row-level write lock;
	// paying must serialize on the payroll row
	FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*Payroll, error)
	// FindAllForTenant lists payrolls for a tenant, newest first
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Payroll, error)
	// Save creates or updates a payroll
	Save(ctx context.Context, payroll *Payroll) error
}
