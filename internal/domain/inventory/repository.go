package inventory

import (
	"context"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProductRepository defines persistence operations for the Product aggregate
type ProductRepository interface {
	// FindByIDForTenant loads a product scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*Product, error)
	// FindByIDForUpdate loads a product with a row-level write lock.
	// Stock check-and-mutate sequences must use this inside a transaction.
	FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*Product, error)
	// FindBySKU loads a product by tenant-unique SKU
	FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*Product, error)
	// ExistsBySKU reports whether the SKU is taken within the tenant
	ExistsBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (bool, error)
	// FindAllForTenant lists products for a tenant
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Product, error)
	// FindLowStock lists products at or below their reorder threshold
	FindLowStock(ctx context.Context, organizationID uuid.UUID) ([]Product, error)
	// CountForTenant counts products for a tenant
	CountForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error)
	// SumStockValueForTenant totals stock * average cost across the tenant
	SumStockValueForTenant(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error)
	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error
}

// StockMovementRepository is the append-only store for stock movements
type StockMovementRepository interface {
	// Append stores a new movement record
	Append(ctx context.Context, movement *StockMovement) error
	// FindByProduct lists movements for a product, newest first
	FindByProduct(ctx context.Context, organizationID, productID uuid.UUID, filter shared.Filter) ([]StockMovement, error)
	// SumSignedQuantityByProduct sums signed quantities for a product
	SumSignedQuantityByProduct(ctx context.Context, organizationID, productID uuid.UUID) (int, error)
}
