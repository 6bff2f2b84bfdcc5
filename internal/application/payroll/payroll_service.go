package payroll

import (
	"context"
	"fmt"

	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	domainpayroll "github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Service handles employee records and payroll payout
type Service struct {
	txnScope  scope.TransactionScope
	employees domainpayroll.EmployeeRepository
	payrolls  domainpayroll.PayrollRepository
}

// NewService creates a new payroll Service
func NewService(txnScope scope.TransactionScope, employees domainpayroll.EmployeeRepository, payrolls domainpayroll.PayrollRepository) *Service {
	return &Service{
		txnScope:  txnScope,
		employees: employees,
		payrolls:  payrolls,
	}
}

// CreateEmployee registers an employee for the tenant
func (s *Service) CreateEmployee(ctx context.Context, identity shared.Identity, input CreateEmployeeInput) (*EmployeeResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	employee, err := domainpayroll.NewEmployee(identity.OrganizationID, input.Name, input.Position, input.BaseSalary, input.BankAccount)
	if err != nil {
		return nil, err
	}
	if err := s.employees.Save(ctx, employee); err != nil {
		return nil, fmt.Errorf("saving employee: %w", err)
	}

	logger.L(ctx).Info("employee created",
		zap.String("employee_id", employee.ID.String()),
		zap.String("position", employee.Position))

	response := ToEmployeeResponse(employee)
	return &response, nil
}

// GetEmployee loads one employee
func (s *Service) GetEmployee(ctx context.Context, identity shared.Identity, employeeID uuid.UUID) (*EmployeeResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	employee, err := s.employees.FindByIDForTenant(ctx, identity.OrganizationID, employeeID)
	if err != nil {
		return nil, err
	}
	response := ToEmployeeResponse(employee)
	return &response, nil
}

// ListEmployees lists the tenant's employees
func (s *Service) ListEmployees(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]EmployeeResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	employees, err := s.employees.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToEmployeeResponses(employees), nil
}

// CreatePayroll drafts a payroll record for an employee. The net amount is
// fixed at creation; the record stays DRAFT until paid.
func (s *Service) CreatePayroll(ctx context.Context, identity shared.Identity, input CreatePayrollInput) (*PayrollResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response PayrollResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		employee, err := repos.Employees().FindByIDForTenant(ctx, identity.OrganizationID, input.EmployeeID)
		if err != nil {
			return err
		}

		record, err := domainpayroll.NewPayroll(identity.OrganizationID, employee.ID, input.Base, input.Bonus, input.Deductions, input.Period)
		if err != nil {
			return err
		}
		if err := repos.Payrolls().Save(ctx, record); err != nil {
			return fmt.Errorf("saving payroll: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionCreatePayroll, "Payroll", record.ID,
			nil, audit.NewSnapshot().
				Set("employee_id", employee.ID).
				Set("employee_name", employee.Name).
				Set("period", record.Period).
				Set("amount", record.Amount).
				Set("status", string(record.Status)))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToPayrollResponse(record)
		response.EmployeeName = employee.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("payroll created",
		zap.String("payroll_id", response.ID.String()),
		zap.String("period", response.Period),
		zap.String("amount", response.Amount.String()))

	return &response, nil
}

// PayPayroll pays out a DRAFT payroll: the status flip and the expense cash
// movement commit together or not at all. The record is locked for the
// duration so two concurrent payments cannot both post the expense.
func (s *Service) PayPayroll(ctx context.Context, identity shared.Identity, payrollID uuid.UUID) (*PayrollResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response PayrollResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		record, err := repos.Payrolls().FindByIDForUpdate(ctx, identity.OrganizationID, payrollID)
		if err != nil {
			return err
		}
		if err := record.Pay(); err != nil {
			return err
		}

		employee, err := repos.Employees().FindByIDForTenant(ctx, identity.OrganizationID, record.EmployeeID)
		if err != nil {
			return err
		}

		if err := repos.Payrolls().Save(ctx, record); err != nil {
			return fmt.Errorf("saving payroll: %w", err)
		}

		// Payroll is not drawer cash, so the movement carries no session.
		movement, err := cashier.NewCashMovement(identity.OrganizationID, nil, record.Amount,
			cashier.MovementExpense, fmt.Sprintf("Payroll Payment - %s (%s)", employee.Name, record.Period))
		if err != nil {
			return err
		}
		if err := repos.CashMovements().Append(ctx, movement); err != nil {
			return fmt.Errorf("appending cash movement: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionPayPayroll, "Payroll", record.ID,
			audit.NewSnapshot().Set("status", string(domainpayroll.PayrollStatusDraft)),
			audit.NewSnapshot().
				Set("status", string(record.Status)).
				Set("amount", record.Amount).
				Set("employee_name", employee.Name).
				Set("period", record.Period))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToPayrollResponse(record)
		response.EmployeeName = employee.Name
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("payroll paid",
		zap.String("payroll_id", response.ID.String()),
		zap.String("amount", response.Amount.String()))

	return &response, nil
}

// ListPayrolls lists the tenant's payroll records
func (s *Service) ListPayrolls(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]PayrollResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	payrolls, err := s.payrolls.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToPayrollResponses(payrolls), nil
}
