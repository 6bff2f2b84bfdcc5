package payroll

import (
	"time"

	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateEmployeeInput carries the data to register an employee
type CreateEmployeeInput struct {
	Name        string          `json:"name" binding:"required,min=1,max=255"`
	Position    string          `json:"position" binding:"required,min=1,max=255"`
	BaseSalary  decimal.Decimal `json:"base_salary" binding:"required"`
	BankAccount string          `json:"bank_account" binding:"max=64"`
}

// EmployeeResponse is the read model for an employee
type EmployeeResponse struct {
	ID          uuid.UUID       `json:"id"`
	Name        string          `json:"name"`
	Position    string          `json:"position"`
	BaseSalary  decimal.Decimal `json:"base_salary"`
	BankAccount string          `json:"bank_account,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
}

// ToEmployeeResponse converts an Employee to its read model
func ToEmployeeResponse(e *payroll.Employee) EmployeeResponse {
	return EmployeeResponse{
		ID:          e.ID,
		Name:        e.Name,
		Position:    e.Position,
		BaseSalary:  e.BaseSalary,
		BankAccount: e.BankAccount,
		CreatedAt:   e.CreatedAt,
	}
}

// ToEmployeeResponses converts a slice of employees
func ToEmployeeResponses(employees []payroll.Employee) []EmployeeResponse {
	responses := make([]EmployeeResponse, len(employees))
	for i := range employees {
		responses[i] = ToEmployeeResponse(&employees[i])
	}
	return responses
}

// CreatePayrollInput carries the data to draft a payroll record.
// The payable amount is computed server-side from base, bonus and
// deductions; callers never supply it.
type CreatePayrollInput struct {
	EmployeeID uuid.UUID       `json:"employee_id" binding:"required"`
	Base       decimal.Decimal `json:"base" binding:"required"`
	Bonus      decimal.Decimal `json:"bonus"`
	Deductions decimal.Decimal `json:"deductions"`
	Period     string          `json:"period" binding:"required,min=1,max=32"`
}

// PayrollResponse is the read model for a payroll record
type PayrollResponse struct {
	ID           uuid.UUID       `json:"id"`
	EmployeeID   uuid.UUID       `json:"employee_id"`
	EmployeeName string          `json:"employee_name,omitempty"`
	Base         decimal.Decimal `json:"base"`
	Bonus        decimal.Decimal `json:"bonus"`
	Deductions   decimal.Decimal `json:"deductions"`
	Amount       decimal.Decimal `json:"amount"`
	Period       string          `json:"period"`
	Status       string          `json:"status"`
	PaidAt       *time.Time      `json:"paid_at,omitempty"`
	CreatedAt    time.Time       `json:"created_at"`
}

// ToPayrollResponse converts a Payroll to its read model
func ToPayrollResponse(p *payroll.Payroll) PayrollResponse {
	return PayrollResponse{
		ID:         p.ID,
		EmployeeID: p.EmployeeID,
		Base:       p.Base,
		Bonus:      p.Bonus,
		Deductions: p.Deductions,
		Amount:     p.Amount,
		Period:     p.Period,
		Status:     string(p.Status),
		PaidAt:     p.PaidAt,
		CreatedAt:  p.CreatedAt,
	}
}

// ToPayrollResponses converts a slice of payroll records
func ToPayrollResponses(payrolls []payroll.Payroll) []PayrollResponse {
	responses := make([]PayrollResponse, len(payrolls))
	for i := range payrolls {
		responses[i] = ToPayrollResponse(&payrolls[i])
	}
	return responses
}
