package scope

import (
	"context"

	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/sales"
)

// TransactionScope provides transactional access to the repositories an
// orchestration touches. Every mutating operation runs inside exactly one
// Execute call: the business mutation, its ledger rows, and its audit
// entries commit together or not at all.
type TransactionScope interface {
	// Execute runs the given function within a database transaction.
	// If the function returns an error, the transaction is rolled back.
	// If the function succeeds, the transaction is committed.
	Execute(ctx context.Context, fn func(repos TransactionalRepositories) error) error
}

// TransactionalRepositories provides access to all repositories within a
// transaction. All repositories returned share the same underlying database
// transaction.
type TransactionalRepositories interface {
	// Products returns the product repository scoped to the current transaction
	Products() inventory.ProductRepository
	// StockMovements returns the stock movement repository scoped to the current transaction
	StockMovements() inventory.StockMovementRepository
	// Sessions returns the cash session repository scoped to the current transaction
	Sessions() cashier.CashSessionRepository
	// CashMovements returns the cash movement repository scoped to the current transaction
	CashMovements() cashier.CashMovementRepository
	// Invoices returns the invoice repository scoped to the current transaction
	Invoices() sales.InvoiceRepository
	// Employees returns the employee repository scoped to the current transaction
	Employees() payroll.EmployeeRepository
	// Payrolls returns the payroll repository scoped to the current transaction
	Payrolls() payroll.PayrollRepository
	// Providers returns the provider repository scoped to the current transaction
	Providers() purchasing.ProviderRepository
	// PurchaseOrders returns the purchase order repository scoped to the current transaction
	PurchaseOrders() purchasing.PurchaseOrderRepository
	// Payables returns the account payable repository scoped to the current transaction
	Payables() purchasing.AccountPayableRepository
	// Audit returns the audit repository scoped to the current transaction
	Audit() audit.Repository
}
