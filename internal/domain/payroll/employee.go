package payroll

import (
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Employee is a payroll subject within a tenant
type Employee struct {
	shared.TenantAggregateRoot
	Name        string          `gorm:"type:varchar(200);not null"`
	Position    string          `gorm:"type:varchar(100);not null"`
	BaseSalary  decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	BankAccount string          `gorm:"type:varchar(50)"`
}

// TableName returns the table name for GORM
func (Employee) TableName() string {
	return "employees"
}

// NewEmployee creates a new employee scoped to a tenant
func NewEmployee(organizationID uuid.UUID, name, position string, baseSalary decimal.Decimal, bankAccount string) (*Employee, error) {
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Employee name cannot be empty")
	}
	if position == "" {
		return nil, shared.NewDomainError("INVALID_POSITION", "Position cannot be empty")
	}
	if baseSalary.IsNegative() {
		return nil, shared.NewDomainError("INVALID_SALARY", "Base salary cannot be negative")
	}

	return &Employee{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		Name:                name,
		Position:            position,
		BaseSalary:          baseSalary,
		BankAccount:         bankAccount,
	}, nil
}
