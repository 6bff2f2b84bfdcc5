package persistence

import (
	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/identity"
	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/sales"
	"gorm.io/gorm"
)

// AutoMigrate creates or updates the schema for every persisted aggregate.
// Production deployments run the SQL migrations instead; this is for
// development databases and in-memory test databases.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&identity.Organization{},
		&identity.User{},
		&inventory.Product{},
		&inventory.StockMovement{},
		&cashier.CashSession{},
		&cashier.CashMovement{},
		&sales.Invoice{},
		&sales.InvoiceItem{},
		&payroll.Employee{},
		&payroll.Payroll{},
		&purchasing.Provider{},
		&purchasing.PurchaseOrder{},
		&purchasing.PurchaseOrderItem{},
		&purchasing.AccountPayable{},
		&auditEntryModel{},
	)
}
