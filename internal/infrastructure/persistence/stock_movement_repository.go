package persistence

import (
	"context"
	"database/sql"

	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStockMovementRepository implements StockMovementRepository using GORM.
// Movements are append-only; there is no update or delete path.
type GormStockMovementRepository struct {
	db *gorm.DB
}

// NewGormStockMovementRepository creates a new GormStockMovementRepository
func NewGormStockMovementRepository(db *gorm.DB) *GormStockMovementRepository {
	return &GormStockMovementRepository{db: db}
}

// Append stores a new movement record
func (r *GormStockMovementRepository) Append(ctx context.Context, movement *inventory.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// FindByProduct lists movements for a product, newest first
func (r *GormStockMovementRepository) FindByProduct(ctx context.Context, organizationID, productID uuid.UUID, filter shared.Filter) ([]inventory.StockMovement, error) {
	var movements []inventory.StockMovement
	query := r.db.WithContext(ctx).
		Where("organization_id = ? AND product_id = ?", organizationID, productID).
		Order("created_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&movements).Error; err != nil {
		return nil, err
	}
	return movements, nil
}

// SumSignedQuantityByProduct sums signed quantities for a product.
// Inbound movements count positive, outbound negative.
func (r *GormStockMovementRepository) SumSignedQuantityByProduct(ctx context.Context, organizationID, productID uuid.UUID) (int, error) {
	var total sql.NullInt64
	if err := r.db.WithContext(ctx).
		Model(&inventory.StockMovement{}).
		Select("COALESCE(SUM(CASE WHEN direction = ? THEN quantity ELSE -quantity END), 0)", inventory.MovementIn).
		Where("organization_id = ? AND product_id = ?", organizationID, productID).
		Scan(&total).Error; err != nil {
		return 0, err
	}
	return int(total.Int64), nil
}

// Ensure GormStockMovementRepository implements StockMovementRepository
var _ inventory.StockMovementRepository = (*GormStockMovementRepository)(nil)
