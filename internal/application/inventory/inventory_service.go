package inventory

import (
	"context"
	"fmt"

	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service owns product stock and weighted-average cost. Every quantity
// change runs in one transaction together with its stock movement and
// audit entry.
type Service struct {
	txnScope scope.TransactionScope
	products inventory.ProductRepository
	moves    inventory.StockMovementRepository
}

// NewService creates a new inventory Service
func NewService(txnScope scope.TransactionScope, products inventory.ProductRepository, moves inventory.StockMovementRepository) *Service {
	return &Service{
		txnScope: txnScope,
		products: products,
		moves:    moves,
	}
}

// CreateProduct registers a product for the tenant. The SKU must be unique
// within the tenant; averageCost starts from the caller-supplied initial
// cost (zero when absent).
func (s *Service) CreateProduct(ctx context.Context, identity shared.Identity, input CreateProductInput) (*ProductResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response ProductResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		taken, err := repos.Products().ExistsBySKU(ctx, identity.OrganizationID, input.SKU)
		if err != nil {
			return fmt.Errorf("checking sku uniqueness: %w", err)
		}
		if taken {
			return shared.NewDomainError("DUPLICATE_SKU", fmt.Sprintf("SKU %q already exists", input.SKU))
		}

		product, err := inventory.NewProduct(identity.OrganizationID, input.SKU, input.Name, input.Category,
			input.Price, input.Stock, input.MinStock, input.InitialCost)
		if err != nil {
			return err
		}
		if err := repos.Products().Save(ctx, product); err != nil {
			return fmt.Errorf("saving product: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionCreateProduct, "Product", product.ID,
			nil, productSnapshot(product))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("product created",
		zap.String("product_id", response.ID.String()),
		zap.String("sku", response.SKU))

	return &response, nil
}

// ReceiveStock increments stock and recomputes the weighted-average cost.
// Used directly for ad-hoc receipts; purchase-order receiving goes through
// the purchasing service which calls ReceiveStockInScope per line.
func (s *Service) ReceiveStock(ctx context.Context, identity shared.Identity, productID uuid.UUID, quantity int, unitCost decimal.Decimal) (*ProductResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response ProductResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		product, err := ReceiveStockInScope(ctx, repos, identity, productID, quantity, unitCost)
		if err != nil {
			return err
		}
		response = ToProductResponse(product)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &response, nil
}

// GetProduct loads one product
func (s *Service) GetProduct(ctx context.Context, identity shared.Identity, productID uuid.UUID) (*ProductResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	product, err := s.products.FindByIDForTenant(ctx, identity.OrganizationID, productID)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// ListProducts lists products for the tenant
func (s *Service) ListProducts(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]ProductResponse, int64, error) {
	if err := identity.Validate(); err != nil {
		return nil, 0, err
	}
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, err := s.products.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.products.CountForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, 0, err
	}
	return ToProductResponses(products), total, nil
}

// ListMovements lists stock movements for a product, newest first
func (s *Service) ListMovements(ctx context.Context, identity shared.Identity, productID uuid.UUID, filter shared.Filter) ([]StockMovementResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	movements, err := s.moves.FindByProduct(ctx, identity.OrganizationID, productID, filter)
	if err != nil {
		return nil, err
	}
	return ToStockMovementResponses(movements), nil
}

// DecrementStockInScope removes stock for a sale inside an already-open
// transaction: locks the product row, decrements, appends the OUT/SALE
// movement and the audit entry with old/new stock. Checkout calls this per
// line so a later line failure rolls back every earlier decrement.
func DecrementStockInScope(ctx context.Context, repos scope.TransactionalRepositories, identity shared.Identity, productID uuid.UUID, quantity int) (*inventory.Product, error) {
	product, err := repos.Products().FindByIDForUpdate(ctx, identity.OrganizationID, productID)
	if err != nil {
		return nil, err
	}

	oldStock := product.Stock
	if err := product.DecrementStock(quantity); err != nil {
		return nil, err
	}
	if err := repos.Products().Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	movement, err := inventory.NewStockMovement(identity.OrganizationID, product.ID, quantity,
		inventory.MovementOut, inventory.ReasonSale)
	if err != nil {
		return nil, err
	}
	if err := repos.StockMovements().Append(ctx, movement); err != nil {
		return nil, fmt.Errorf("appending stock movement: %w", err)
	}

	entry, err := audit.NewEntry(identity, audit.ActionSaleStockDecrement, "Product", product.ID,
		audit.NewSnapshot().Set("stock", oldStock),
		audit.NewSnapshot().Set("stock", product.Stock))
	if err != nil {
		return nil, err
	}
	if err := repos.Audit().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending audit entry: %w", err)
	}

	return product, nil
}

// ReceiveStockInScope increments stock inside an already-open transaction,
// recomputing the weighted-average cost, and appends the IN/PURCHASE
// movement plus an audit entry capturing stock and cost before and after.
func ReceiveStockInScope(ctx context.Context, repos scope.TransactionalRepositories, identity shared.Identity, productID uuid.UUID, quantity int, unitCost decimal.Decimal) (*inventory.Product, error) {
	product, err := repos.Products().FindByIDForUpdate(ctx, identity.OrganizationID, productID)
	if err != nil {
		return nil, err
	}

	oldSnapshot := audit.NewSnapshot().
		Set("stock", product.Stock).
		Set("average_cost", product.AverageCost)

	if err := product.ReceiveStock(quantity, unitCost); err != nil {
		return nil, err
	}
	if err := repos.Products().Save(ctx, product); err != nil {
		return nil, fmt.Errorf("saving product: %w", err)
	}

	movement, err := inventory.NewStockMovement(identity.OrganizationID, product.ID, quantity,
		inventory.MovementIn, inventory.ReasonPurchase)
	if err != nil {
		return nil, err
	}
	if err := repos.StockMovements().Append(ctx, movement); err != nil {
		return nil, fmt.Errorf("appending stock movement: %w", err)
	}

	entry, err := audit.NewEntry(identity, audit.ActionReceiveStock, "Product", product.ID,
		oldSnapshot,
		audit.NewSnapshot().
			Set("stock", product.Stock).
			Set("average_cost", product.AverageCost))
	if err != nil {
		return nil, err
	}
	if err := repos.Audit().Append(ctx, entry); err != nil {
		return nil, fmt.Errorf("appending audit entry: %w", err)
	}

	return product, nil
}

func productSnapshot(p *inventory.Product) *audit.Snapshot {
	return audit.NewSnapshot().
		Set("sku", p.SKU).
		Set("name", p.Name).
		Set("category", p.Category).
		Set("price", p.Price).
		Set("stock", p.Stock).
		Set("min_stock", p.MinStock).
		Set("average_cost", p.AverageCost)
}
