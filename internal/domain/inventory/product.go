package inventory

import (
	"fmt"
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is the aggregate root for stock and cost tracking.
// It owns the on-hand quantity and the moving weighted-average unit cost;
// every quantity change goes through DecrementStock or ReceiveStock so the
// caller can persist the matching StockMovement in the same transaction.
type Product struct {
	shared.TenantAggregateRoot
	SKU         string          `gorm:"type:varchar(50);not null;uniqueIndex:idx_product_org_sku,priority:2"`
	Name        string          `gorm:"type:varchar(200);not null"`
	Category    string          `gorm:"type:varchar(100)"`
	Price       decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Current sale price
	Stock       int             `gorm:"not null;default:0"`
	MinStock    int             `gorm:"not null;default:0"`                    // Reorder threshold
	AverageCost decimal.Decimal `gorm:"type:decimal(18,4);not null;default:0"` // Moving weighted-average cost
}

// TableName returns the table name for GORM
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product scoped to a tenant
func NewProduct(organizationID uuid.UUID, sku, name, category string, price decimal.Decimal, stock, minStock int, initialCost decimal.Decimal) (*Product, error) {
	if sku == "" {
		return nil, shared.NewDomainError("INVALID_SKU", "SKU cannot be empty")
	}
	if name == "" {
		return nil, shared.NewDomainError("INVALID_NAME", "Product name cannot be empty")
	}
	if price.IsNegative() {
		return nil, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	if stock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Stock cannot be negative")
	}
	if minStock < 0 {
		return nil, shared.NewDomainError("INVALID_STOCK", "Minimum stock cannot be negative")
	}
	if initialCost.IsNegative() {
		return nil, shared.NewDomainError("INVALID_COST", "Initial cost cannot be negative")
	}

	return &Product{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		SKU:                 sku,
		Name:                name,
		Category:            category,
		Price:               price,
		Stock:               stock,
		MinStock:            minStock,
		AverageCost:         initialCost,
	}, nil
}

// DecrementStock removes quantity from stock for an outbound movement.
// Fails when the requested quantity exceeds the current stock so stock can
// never go negative.
func (p *Product) DecrementStock(quantity int) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if quantity > p.Stock {
		return shared.NewDomainError("INSUFFICIENT_STOCK",
			fmt.Sprintf("Insufficient stock for %s: requested %d, available %d", p.Name, quantity, p.Stock))
	}

	p.Stock -= quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// ReceiveStock adds quantity to stock and recomputes the weighted-average
// unit cost:
//
//	newAvg = (oldStock*oldAvg + quantity*unitCost) / (oldStock + quantity)
//
// When the resulting total stock would be zero the received unit cost is
// taken as-is (division-by-zero guard).
func (p *Product) ReceiveStock(quantity int, unitCost decimal.Decimal) error {
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewDomainError("INVALID_COST", "Unit cost cannot be negative")
	}

	oldStock := decimal.NewFromInt(int64(p.Stock))
	received := decimal.NewFromInt(int64(quantity))
	totalStock := oldStock.Add(received)

	if totalStock.IsZero() {
		p.AverageCost = unitCost
	} else {
		totalValue := oldStock.Mul(p.AverageCost).Add(received.Mul(unitCost))
		p.AverageCost = totalValue.Div(totalStock).Round(4)
	}

	p.Stock += quantity
	p.UpdatedAt = time.Now()
	p.IncrementVersion()

	return nil
}

// UpdatePrice changes the current sale price. Invoice lines snapshot the
// price at sale time, so this never affects issued invoices.
func (p *Product) UpdatePrice(price decimal.Decimal) error {
	if price.IsNegative() {
		return shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}
	p.Price = price
	p.UpdatedAt = time.Now()
	p.IncrementVersion()
	return nil
}

// IsLowStock returns true when stock is at or below the reorder threshold
func (p *Product) IsLowStock() bool {
	return p.Stock <= p.MinStock
}

// StockValue returns the inventory value at current average cost
func (p *Product) StockValue() decimal.Decimal {
	return p.AverageCost.Mul(decimal.NewFromInt(int64(p.Stock)))
}

// CanFulfill returns true if the stock covers the requested quantity
func (p *Product) CanFulfill(quantity int) bool {
	return quantity <= p.Stock
}
