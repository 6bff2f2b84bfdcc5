package sales

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvoiceStatus represents the payment state of an invoice
type InvoiceStatus string

const (
	InvoiceStatusPaid InvoiceStatus = "PAID"
)

// InvoiceItem is a line fixed at sale time. Price is a point-in-time
// snapshot of the product's sale price and never tracks later changes.
type InvoiceItem struct {
	ID        uuid.UUID       `gorm:"type:uuid;primary_key"`
	InvoiceID uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID uuid.UUID       `gorm:"type:uuid;not null"`
	Quantity  int             `gorm:"not null"`
	Price     decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (InvoiceItem) TableName() string {
	return "invoice_items"
}

// Subtotal returns price * quantity for the line
func (i *InvoiceItem) Subtotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}

// Invoice is the aggregate produced by a checkout. Its total is fixed at
// creation and never recomputed afterwards.
type Invoice struct {
	shared.TenantAggregateRoot
	Number   string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_invoice_org_number,priority:2"`
	Customer string          `gorm:"type:varchar(200)"`
	Total    decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Status   InvoiceStatus   `gorm:"type:varchar(10);not null;default:'PAID'"`
	Items    []InvoiceItem   `gorm:"foreignKey:InvoiceID;references:ID"`
}

// TableName returns the table name for GORM
func (Invoice) TableName() string {
	return "invoices"
}

// LineInput is one (product, quantity, price) line captured at checkout
type LineInput struct {
	ProductID uuid.UUID
	Quantity  int
	Price     decimal.Decimal
}

// NewInvoice creates a paid invoice with its lines. The total is supplied
// by the checkout orchestrator (computed sum or validated override) and is
// immutable from here on.
func NewInvoice(organizationID uuid.UUID, number, customer string, total decimal.Decimal, lines []LineInput) (*Invoice, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Invoice number cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Invoice must have at least one line")
	}
	if total.IsNegative() {
		return nil, shared.NewDomainError("INVALID_TOTAL", "Invoice total cannot be negative")
	}

	invoice := &Invoice{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		Number:              number,
		Customer:            customer,
		Total:               total,
		Status:              InvoiceStatusPaid,
		Items:               make([]InvoiceItem, 0, len(lines)),
	}

	now := time.Now()
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		if line.Price.IsNegative() {
			return nil, shared.NewDomainError("INVALID_PRICE", "Line price cannot be negative")
		}
		invoice.Items = append(invoice.Items, InvoiceItem{
			ID:        uuid.New(),
			InvoiceID: invoice.ID,
			ProductID: line.ProductID,
			Quantity:  line.Quantity,
			Price:     line.Price,
			CreatedAt: now,
		})
	}

	return invoice, nil
}

// ComputedTotal sums the line subtotals. Kept separate from Total: the two
// may legitimately diverge when a discounted total was accepted at checkout.
func (inv *Invoice) ComputedTotal() decimal.Decimal {
	total := decimal.Zero
	for i := range inv.Items {
		total = total.Add(inv.Items[i].Subtotal())
	}
	return total
}
