package persistence

import (
	"context"
	"errors"

	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByIDForTenant finds a product by ID within an organization
func (r *GormProductRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByIDForUpdate finds a product by ID holding a row-level write lock.
// Must run inside a transaction.
func (r *GormProductRepository) FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindBySKU finds a product by its SKU within an organization
func (r *GormProductRepository) FindBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (*inventory.Product, error) {
	var product inventory.Product
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND sku = ?", organizationID, sku).
		First(&product).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// ExistsBySKU checks if a product with the given SKU exists in the organization
func (r *GormProductRepository) ExistsBySKU(ctx context.Context, organizationID uuid.UUID, sku string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&inventory.Product{}).
		Where("organization_id = ? AND sku = ?", organizationID, sku).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// FindAllForTenant lists products for an organization
func (r *GormProductRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]inventory.Product, error) {
	var products []inventory.Product
	query := r.db.WithContext(ctx).
		Model(&inventory.Product{}).
		Where("organization_id = ?", organizationID)
	query = r.applyFilter(query, filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindLowStock lists products at or below their reorder threshold
func (r *GormProductRepository) FindLowStock(ctx context.Context, organizationID uuid.UUID) ([]inventory.Product, error) {
	var products []inventory.Product
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND stock <= min_stock", organizationID).
		Order("stock ASC, name ASC").
		Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// CountForTenant counts products for an organization
func (r *GormProductRepository) CountForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) (int64, error) {
	var count int64
	query := r.db.WithContext(ctx).
		Model(&inventory.Product{}).
		Where("organization_id = ?", organizationID)
	query = r.applySearch(query, filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// SumStockValueForTenant totals stock * average cost across the organization
func (r *GormProductRepository) SumStockValueForTenant(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error) {
	var total decimal.NullDecimal
	if err := r.db.WithContext(ctx).
		Model(&inventory.Product{}).
		Select("COALESCE(SUM(stock * average_cost), 0)").
		Where("organization_id = ?", organizationID).
		Scan(&total).Error; err != nil {
		return decimal.Zero, err
	}
	if !total.Valid {
		return decimal.Zero, nil
	}
	return total.Decimal, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *inventory.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// applyFilter applies search, ordering and pagination to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applySearch(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if orderBy == "name" && filter.OrderBy == "" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applySearch applies the search term to the query
func (r *GormProductRepository) applySearch(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name ILIKE ? OR sku ILIKE ? OR category ILIKE ?", searchPattern, searchPattern, searchPattern)
	}
	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ inventory.ProductRepository = (*GormProductRepository)(nil)
