package purchasing

import (
	"context"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ProviderRepository defines persistence operations for providers
type ProviderRepository interface {
	// FindByIDForTenant loads a provider scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*Provider, error)
	// FindAllForTenant lists providers for a tenant
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]Provider, error)
	// Save creates or updates a provider
	Save(ctx context.Context, provider *Provider) error
}

// PurchaseOrderRepository defines persistence operations for purchase orders
type PurchaseOrderRepository interface {
	// FindByIDForTenant loads an order with its items, scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*PurchaseOrder, error)
	// FindByIDForUpdate loads an order with its items under a row-level
	// write lock; receiving must serialize on the order row
	FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*PurchaseOrder, error)
	// FindAllForTenant lists orders for a tenant, newest first
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]PurchaseOrder, error)
	// Save creates or updates an order with its items
	Save(ctx context.Context, order *PurchaseOrder) error
	// NextNumber generates the next tenant-unique order number
	NextNumber(ctx context.Context, organizationID uuid.UUID) (string, error)
}

// AccountPayableRepository defines persistence operations for payables
type AccountPayableRepository interface {
	// FindByIDForTenant loads a payable scoped to the tenant
	FindByIDForTenant(ctx context.Context, organizationID, id uuid.UUID) (*AccountPayable, error)
	// FindByIDForUpdate loads a payable under a row-level write lock
	FindByIDForUpdate(ctx context.Context, organizationID, id uuid.UUID) (*AccountPayable, error)
	// FindAllForTenant lists payables for a tenant, newest first
	FindAllForTenant(ctx context.Context, organizationID uuid.UUID, filter shared.Filter) ([]AccountPayable, error)
	// SumPendingForTenant totals the tenant's PENDING payables
	SumPendingForTenant(ctx context.Context, organizationID uuid.UUID) (decimal.Decimal, error)
	// Save creates or updates a payable
	Save(ctx context.Context, payable *AccountPayable) error
}
