package report

import (
	"context"
	"time"

	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/payroll"
	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/sales"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	revenueWindowDays = 30
	topProductLimit   = 5
	recentRowLimit    = 5
)

// InvoiceSummary is a dashboard row for a recent invoice
type InvoiceSummary struct {
	ID        uuid.UUID       `json:"id"`
	Number    string          `json:"number"`
	Customer  string          `json:"customer,omitempty"`
	Total     decimal.Decimal `json:"total"`
	CreatedAt time.Time       `json:"created_at"`
}

// MovementSummary is a dashboard row for a recent cash movement
type MovementSummary struct {
	ID          uuid.UUID       `json:"id"`
	Type        string          `json:"type"`
	Amount      decimal.Decimal `json:"amount"`
	Description string          `json:"description"`
	CreatedAt   time.Time       `json:"created_at"`
}

// DashboardStats is the operational summary for a tenant
type DashboardStats struct {
	ProductCount    int64                `json:"product_count"`
	LowStockCount   int                  `json:"low_stock_count"`
	StockValue      decimal.Decimal      `json:"stock_value"`
	TodaySalesTotal decimal.Decimal      `json:"today_sales_total"`
	TodaySalesCount int                  `json:"today_sales_count"`
	Revenue30Days   decimal.Decimal      `json:"revenue_30_days"`
	Invoices30Days  int                  `json:"invoices_30_days"`
	PendingPayables decimal.Decimal      `json:"pending_payables"`
	EmployeeCount   int64                `json:"employee_count"`
	HasOpenSession  bool                 `json:"has_open_session"`
	TopProducts     []sales.ProductSales `json:"top_products"`
	RecentInvoices  []InvoiceSummary     `json:"recent_invoices"`
	RecentMovements []MovementSummary    `json:"recent_movements"`
}

// Service aggregates read-side figures for the dashboard. Reads are plain
// queries; nothing here participates in a business transaction.
type Service struct {
	products  inventory.ProductRepository
	invoices  sales.InvoiceRepository
	sessions  cashier.CashSessionRepository
	payables  purchasing.AccountPayableRepository
	employees payroll.EmployeeRepository
	movements cashier.CashMovementRepository
}

// NewService creates a new dashboard Service
func NewService(products inventory.ProductRepository, invoices sales.InvoiceRepository, sessions cashier.CashSessionRepository, payables purchasing.AccountPayableRepository, employees payroll.EmployeeRepository, movements cashier.CashMovementRepository) *Service {
	return &Service{
		products:  products,
		invoices:  invoices,
		sessions:  sessions,
		payables:  payables,
		employees: employees,
		movements: movements,
	}
}

// Stats assembles the tenant's operational summary. The daily sales window
// starts at local midnight; the revenue window covers the trailing 30 days.
func (s *Service) Stats(ctx context.Context, identity shared.Identity) (*DashboardStats, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	stats := &DashboardStats{
		StockValue:      decimal.Zero,
		TodaySalesTotal: decimal.Zero,
		Revenue30Days:   decimal.Zero,
		PendingPayables: decimal.Zero,
		TopProducts:     []sales.ProductSales{},
		RecentInvoices:  []InvoiceSummary{},
		RecentMovements: []MovementSummary{},
	}

	productCount, err := s.products.CountForTenant(ctx, identity.OrganizationID, shared.Filter{})
	if err != nil {
		return nil, err
	}
	stats.ProductCount = productCount

	lowStock, err := s.products.FindLowStock(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}
	stats.LowStockCount = len(lowStock)

	stockValue, err := s.products.SumStockValueForTenant(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}
	stats.StockValue = stockValue

	now := time.Now()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	windowStart := now.AddDate(0, 0, -revenueWindowDays)

	invoices, err := s.invoices.FindSince(ctx, identity.OrganizationID, windowStart)
	if err != nil {
		return nil, err
	}
	stats.Invoices30Days = len(invoices)
	for i := range invoices {
		stats.Revenue30Days = stats.Revenue30Days.Add(invoices[i].Total)
		if !invoices[i].CreatedAt.Before(midnight) {
			stats.TodaySalesCount++
			stats.TodaySalesTotal = stats.TodaySalesTotal.Add(invoices[i].Total)
		}
	}

	topProducts, err := s.invoices.TopProductsSince(ctx, identity.OrganizationID, windowStart, topProductLimit)
	if err != nil {
		return nil, err
	}
	stats.TopProducts = topProducts

	for i := range invoices {
		if i == recentRowLimit {
			break
		}
		stats.RecentInvoices = append(stats.RecentInvoices, InvoiceSummary{
			ID:        invoices[i].ID,
			Number:    invoices[i].Number,
			Customer:  invoices[i].Customer,
			Total:     invoices[i].Total,
			CreatedAt: invoices[i].CreatedAt,
		})
	}

	movements, err := s.movements.FindRecent(ctx, identity.OrganizationID, recentRowLimit)
	if err != nil {
		return nil, err
	}
	for i := range movements {
		stats.RecentMovements = append(stats.RecentMovements, MovementSummary{
			ID:          movements[i].ID,
			Type:        string(movements[i].Type),
			Amount:      movements[i].Amount,
			Description: movements[i].Description,
			CreatedAt:   movements[i].CreatedAt,
		})
	}

	pending, err := s.payables.SumPendingForTenant(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}
	stats.PendingPayables = pending

	employeeCount, err := s.employees.CountForTenant(ctx, identity.OrganizationID)
	if err != nil {
		return nil, err
	}
	stats.EmployeeCount = employeeCount

	if session, err := s.sessions.FindOpenByUser(ctx, identity.OrganizationID, identity.UserID); err == nil && session != nil {
		stats.HasOpenSession = true
	}

	return stats, nil
}
