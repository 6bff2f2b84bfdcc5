package payroll

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PayrollStatus represents the payment state of a payroll record
type PayrollStatus string

const (
	PayrollStatusDraft PayrollStatus = "DRAFT"
	PayrollStatusPaid  PayrollStatus = "PAID"
)

// IsValid checks if the status is a valid PayrollStatus
func (s PayrollStatus) IsValid() bool {
	return s == PayrollStatusDraft || s == PayrollStatusPaid
}

// String returns the string representation of PayrollStatus
func (s PayrollStatus) String() string {
	return string(s)
}

// Payroll is a liability toward an employee for one period.
// Amount = base + bonus - deductions, computed once at creation and never
// recomputed. DRAFT -> PAID is the only legal transition.
type Payroll struct {
	shared.TenantAggregateRoot
	EmployeeID uuid.UUID       `gorm:"type:uuid;not null;index"`
	Base       decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Bonus      decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Deductions decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"`
	Amount     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Period     string          `gorm:"type:varchar(20);not null"` // e.g. "2026-08"
	Status     PayrollStatus   `gorm:"type:varchar(10);not null;default:'DRAFT'"`
	PaidAt     *time.Time
}

// TableName returns the table name for GORM
func (Payroll) TableName() string {
	return "payrolls"
}

// NewPayroll creates a DRAFT payroll with the net amount fixed at creation
func NewPayroll(organizationID, employeeID uuid.UUID, base, bonus, deductions decimal.Decimal, period string) (*Payroll, error) {
	if employeeID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_EMPLOYEE", "Employee ID cannot be empty")
	}
	if period == "" {
		return nil, shared.NewDomainError("INVALID_PERIOD", "Period cannot be empty")
	}
	if base.IsNegative() || bonus.IsNegative() || deductions.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Payroll components cannot be negative")
	}

	amount := base.Add(bonus).Sub(deductions)
	if amount.IsNegative() {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Deductions cannot exceed base plus bonus")
	}

	return &Payroll{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		EmployeeID:          employeeID,
		Base:                base,
		Bonus:               bonus,
		Deductions:          deductions,
		Amount:              amount,
		Period:              period,
		Status:              PayrollStatusDraft,
	}, nil
}

// Pay transitions the payroll to PAID. Paying twice fails: the caller must
// see the conflict instead of double-posting the expense.
func (p *Payroll) Pay() error {
	if p.Status == PayrollStatusPaid {
		return shared.ErrAlreadyPaid
	}

	now := time.Now()
	p.Status = PayrollStatusPaid
	p.PaidAt = &now
	p.UpdatedAt = now
	p.IncrementVersion()

	return nil
}

// IsPaid returns true once the payroll has been paid out
func (p *Payroll) IsPaid() bool {
	return p.Status == PayrollStatusPaid
}
