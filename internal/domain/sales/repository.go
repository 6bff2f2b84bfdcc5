package sales

import (
	"context"
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// ProductSales aggregates the quantity sold per product over a window
type ProductSales struct {
	ProductID    uuid.UUID `json:"product_id"`
	ProductName  string    `json:"product_name"`
	QuantitySold int       `json:"quantity_sold"`
}

// InvoiceRepository defines persistence operations for invoices
type InvoiceRepository interface {
	// FindByIDForTenant loads an invoice with its items, scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*Invoice, error)
	// FindByNumber loads an invoice by its tenant-unique number
	FindByNumber(ctx context.Context, organizationID uuid.UUID, number string) (*Invoice, error)
	// FindAllForTenant lists invoices for a tenant, newest first
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Invoice, error)
	// FindSince lists invoices created at or after the given time, newest first
	FindSince(ctx context.Context, organizationID uuid.UUID, since time.Time) ([]Invoice, error)
	// TopProductsSince ranks products by quantity sold since the given time
	TopProductsSince(ctx context.Context, organizationID uuid.UUID, since time.Time, limit int) ([]ProductSales, error)
	// Save creates an invoice with its items
	Save(ctx context.Context, invoice *Invoice) error
	// NextNumber generates the next tenant-unique invoice number
	NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error)
}
