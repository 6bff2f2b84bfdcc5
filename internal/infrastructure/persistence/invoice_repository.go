package persistence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/opsledger/backend/internal/domain/sales"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInvoiceRepository implements InvoiceRepository using GORM
type GormInvoiceRepository struct {
	db *gorm.DB
}

// NewGormInvoiceRepository creates a new GormInvoiceRepository
func NewGormInvoiceRepository(db *gorm.DB) *GormInvoiceRepository {
	return &GormInvoiceRepository{db: db}
}

// FindByIDForTenant finds an invoice with its items within an organization
func (r *GormInvoiceRepository) FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND id = ?", organizationID, id).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindByNumber finds an invoice by its number within an organization
func (r *GormInvoiceRepository) FindByNumber(ctx context.Context, organizationID uuid.UUID, number string) (*sales.Invoice, error) {
	var invoice sales.Invoice
	if err := r.db.WithContext(ctx).
		Preload("Items").
		Where("organization_id = ? AND number = ?", organizationID, number).
		First(&invoice).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &invoice, nil
}

// FindAllForTenant lists invoices for an organization, newest first
func (r *GormInvoiceRepository) FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	query := r.db.WithContext(ctx).
		Model(&sales.Invoice{}).
		Preload("Items").
		Where("organization_id = ?", organizationID)

	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number ILIKE ? OR customer ILIKE ?", searchPattern, searchPattern)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, InvoiceSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	query = query.Order(orderBy + " " + orderDir)

	if err := query.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// FindSince lists invoices created at or after the given time, newest first
func (r *GormInvoiceRepository) FindSince(ctx context.Context, organizationID uuid.UUID, since time.Time) ([]sales.Invoice, error) {
	var invoices []sales.Invoice
	if err := r.db.WithContext(ctx).
		Where("organization_id = ? AND created_at >= ?", organizationID, since).
		Order("created_at DESC").
		Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

// TopProductsSince ranks products by quantity sold since the given time
func (r *GormInvoiceRepository) TopProductsSince(ctx context.Context, organizationID uuid.UUID, since time.Time, limit int) ([]sales.ProductSales, error) {
	var results []sales.ProductSales
	if err := r.db.WithContext(ctx).
		Table("invoice_items").
		Select("invoice_items.product_id AS product_id, products.name AS product_name, SUM(invoice_items.quantity) AS quantity_sold").
		Joins("JOIN invoices ON invoices.id = invoice_items.invoice_id").
		Joins("JOIN products ON products.id = invoice_items.product_id").
		Where("invoices.organization_id = ? AND invoices.created_at >= ?", organizationID, since).
		Group("invoice_items.product_id, products.name").
		Order("quantity_sold DESC").
		Limit(limit).
		Scan(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save creates an invoice with its items
func (r *GormInvoiceRepository) Save(ctx context.Context, invoice *sales.Invoice) error {
	return r.db.WithContext(ctx).Save(invoice).Error
}

// NextNumber generates a unique invoice number for an organization.
// Format: INV-YYYY-NNNNN (e.g. INV-2026-00001)
func (r *GormInvoiceRepository) NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("INV-%d-", year)

	var lastInvoice sales.Invoice
	err := r.db.WithContext(ctx).
		Model(&sales.Invoice{}).
		Where("organization_id = ? AND number LIKE ?", organizationID, prefix+"%").
		Order("number DESC").
		First(&lastInvoice).Error

	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}

	var nextNum int64 = 1
	if err == nil && lastInvoice.Number != "" {
		parts := strings.Split(lastInvoice.Number, "-")
		if len(parts) == 3 {
			var num int64
			_, parseErr := fmt.Sscanf(parts[2], "%d", &num)
			if parseErr == nil {
				nextNum = num + 1
			}
		}
	}

	number := fmt.Sprintf("%s%05d", prefix, nextNum)

	exists, err := r.existsByNumber(ctx, organizationID, number)
	if err != nil {
		return "", err
	}
	if exists {
		for i := 0; i < 100; i++ {
			nextNum++
			number = fmt.Sprintf("%s%05d", prefix, nextNum)
			exists, err = r.existsByNumber(ctx, organizationID, number)
			if err != nil {
				return "", err
			}
			if !exists {
				break
			}
		}
	}

	return number, nil
}

func (r *GormInvoiceRepository) existsByNumber(ctx context.Context, organizationID uuid.UUID, number string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&sales.Invoice{}).
		Where("organization_id = ? AND number = ?", organizationID, number).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Ensure GormInvoiceRepository implements InvoiceRepository
var _ sales.InvoiceRepository = (*GormInvoiceRepository)(nil)
