package persistence

import (
	"context"

	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// GormTransactionScope implements TransactionScope using GORM transactions.
// It provides atomic execution of multiple repository operations.
type GormTransactionScope struct {
	db *gorm.DB
}

// NewGormTransactionScope creates a new GormTransactionScope.
func NewGormTransactionScope(db *gorm.DB) *GormTransactionScope {
	return &GormTransactionScope{db: db}
}

// Execute runs the given function within a database transaction.
// If the function returns an error, the transaction is rolled back.
// If the function succeeds, the transaction is committed.
func (s *GormTransactionScope) Execute(ctx context.Context, fn func(repos scope.TransactionalRepositories) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		repos := &gormTransactionalRepositories{tx: tx}
		return fn(repos)
	})
}

// gormTransactionalRepositories provides access to all repositories within a
// transaction. Every repository it returns shares the same tx handle.
type gormTransactionalRepositories struct {
	tx *gorm.DB
}

// Products returns the product repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Products() inventory.ProductRepository {
	return NewGormProductRepository(r.tx)
}

// StockMovements returns the stock movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) StockMovements() inventory.StockMovementRepository {
	return NewGormStockMovementRepository(r.tx)
}

// Sessions returns the cash session repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Sessions() cashier.CashSessionRepository {
	return NewGormCashSessionRepository(r.tx)
}

// CashMovements returns the cash movement repository scoped to the current transaction.
func (r *gormTransactionalRepositories) CashMovements() cashier.CashMovementRepository {
	return NewGormCashMovementRepository(r.tx)
}

// Invoices returns the invoice repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Invoices() sales.InvoiceRepository {
	return NewGormInvoiceRepository(r.tx)
}

// Employees returns the employee repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Employees() payroll.EmployeeRepository {
	return NewGormEmployeeRepository(r.tx)
}

// Payrolls returns the payroll repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payrolls() payroll.PayrollRepository {
	return NewGormPayrollRepository(r.tx)
}

// Providers returns the provider repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Providers() purchasing.ProviderRepository {
	return NewGormProviderRepository(r.tx)
}

// PurchaseOrders returns the purchase order repository scoped to the current transaction.
func (r *gormTransactionalRepositories) PurchaseOrders() purchasing.PurchaseOrderRepository {
	return NewGormPurchaseOrderRepository(r.tx)
}

// Payables returns the account payable repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Payables() purchasing.AccountPayableRepository {
	return NewGormAccountPayableRepository(r.tx)
}

// Audit returns the audit repository scoped to the current transaction.
func (r *gormTransactionalRepositories) Audit() audit.Repository {
	return NewGormAuditRepository(r.tx)
}

// Ensure GormTransactionScope implements TransactionScope
var _ scope.TransactionScope = (*GormTransactionScope)(nil)

// Ensure gormTransactionalRepositories implements TransactionalRepositories
var _ scope.TransactionalRepositories = (*gormTransactionalRepositories)(nil)
