package purchasing

import (
	"context"
	"fmt"

	appinventory "github.com/opsledger/backend/internal/application/inventory"
	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	domainpurchasing "github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Service handles providers, purchase orders and accounts payable
type Service struct {
	txnScope  scope.TransactionScope
	providers domainpurchasing.ProviderRepository
	orders    domainpurchasing.PurchaseOrderRepository
	payables  domainpurchasing.AccountPayableRepository
}

// NewService creates a new purchasing Service
func NewService(txnScope scope.TransactionScope, providers domainpurchasing.ProviderRepository, orders domainpurchasing.PurchaseOrderRepository, payables domainpurchasing.AccountPayableRepository) *Service {
	return &Service{
		txnScope:  txnScope,
		providers: providers,
		orders:    orders,
		payables:  payables,
	}
}

// CreateProvider registers a provider for the tenant
func (s *Service) CreateProvider(ctx context.Context, identity shared.Identity, input CreateProviderInput) (*ProviderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	provider, err := domainpurchasing.NewProvider(identity.OrganizationID, input.Name, input.Contact, input.Email)
	if err != nil {
		return nil, err
	}
	if err := s.providers.Save(ctx, provider); err != nil {
		return nil, fmt.Errorf("saving provider: %w", err)
	}

	logger.L(ctx).Info("provider created", zap.String("provider_id", provider.ID.String()))

	response := ToProviderResponse(provider)
	return &response, nil
}

// ListProviders lists the tenant's providers
func (s *Service) ListProviders(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]ProviderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	providers, err := s.providers.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToProviderResponses(providers), nil
}

// CreateOrder places a purchase order against a provider. Placing an order
// moves no stock and creates no payable; both happen at receiving time.
func (s *Service) CreateOrder(ctx context.Context, identity shared.Identity, input CreateOrderInput) (*OrderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response OrderResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		if _, err := repos.Providers().FindByIDForTenant(ctx, identity.OrganizationID, input.ProviderID); err != nil {
			return err
		}
		for _, line := range input.Lines {
			if _, err := repos.Products().FindByIDForTenant(ctx, identity.OrganizationID, line.ProductID); err != nil {
				return err
			}
		}

		number, err := repos.PurchaseOrders().NextNumber(ctx, identity.OrganizationID)
		if err != nil {
			return fmt.Errorf("generating order number: %w", err)
		}

		lines := make([]domainpurchasing.OrderLineInput, len(input.Lines))
		for i, line := range input.Lines {
			lines[i] = domainpurchasing.OrderLineInput{
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Cost:      line.Cost,
			}
		}
		order, err := domainpurchasing.NewPurchaseOrder(identity.OrganizationID, number, input.ProviderID, lines)
		if err != nil {
			return err
		}
		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return fmt.Errorf("saving purchase order: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionCreatePurchaseOrder, "PurchaseOrder", order.ID,
			nil, audit.NewSnapshot().
				Set("number", order.Number).
				Set("provider_id", order.ProviderID).
				Set("total", order.Total).
				Set("status", string(order.Status)).
				Set("line_count", len(order.Items)))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("purchase order created",
		zap.String("order_number", response.Number),
		zap.String("total", response.Total.String()))

	return &response, nil
}

// ReceiveOrder records one receiving event against an order. Each received
// line accumulates on the order, moves stock in at the quoted line cost, and
// recomputes the product's weighted average. One payable is created per
// event, valued at what this event actually received. The order row is
// locked so concurrent receipts serialize.
func (s *Service) ReceiveOrder(ctx context.Context, identity shared.Identity, input ReceiveOrderInput) (*OrderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response OrderResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		order, err := repos.PurchaseOrders().FindByIDForUpdate(ctx, identity.OrganizationID, input.OrderID)
		if err != nil {
			return err
		}
		oldStatus := order.Status

		lines := input.Lines
		if len(lines) == 0 {
			lines = remainingLines(order)
			if len(lines) == 0 {
				return shared.ErrAlreadyReceived
			}
		}

		eventAmount := decimal.Zero
		for _, line := range lines {
			if err := order.ReceiveLine(line.ProductID, line.Quantity); err != nil {
				return err
			}
			item := order.FindItem(line.ProductID)
			if _, err := appinventory.ReceiveStockInScope(ctx, repos, identity, line.ProductID, line.Quantity, item.Cost); err != nil {
				return err
			}
			eventAmount = eventAmount.Add(item.Cost.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		order.SettleReceipt()
		if err := repos.PurchaseOrders().Save(ctx, order); err != nil {
			return fmt.Errorf("saving purchase order: %w", err)
		}

		payable, err := domainpurchasing.NewAccountPayable(identity.OrganizationID, order.ProviderID, order.ID, eventAmount)
		if err != nil {
			return err
		}
		if err := repos.Payables().Save(ctx, payable); err != nil {
			return fmt.Errorf("saving account payable: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionReceivePurchaseOrder, "PurchaseOrder", order.ID,
			audit.NewSnapshot().Set("status", string(oldStatus)),
			audit.NewSnapshot().
				Set("status", string(order.Status)).
				Set("number", order.Number).
				Set("received_amount", eventAmount).
				Set("payable_id", payable.ID))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToOrderResponse(order)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("purchase order received",
		zap.String("order_number", response.Number),
		zap.String("status", response.Status))

	return &response, nil
}

// remainingLines expands a full receipt into per-line remaining quantities
func remainingLines(order *domainpurchasing.PurchaseOrder) []ReceiveLine {
	lines := make([]ReceiveLine, 0, len(order.Items))
	for i := range order.Items {
		remaining := order.Items[i].RemainingQuantity()
		if remaining > 0 {
			lines = append(lines, ReceiveLine{ProductID: order.Items[i].ProductID, Quantity: remaining})
		}
	}
	return lines
}

// GetOrder loads one purchase order with its lines
func (s *Service) GetOrder(ctx context.Context, identity shared.Identity, orderID uuid.UUID) (*OrderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	order, err := s.orders.FindByIDForTenant(ctx, identity.OrganizationID, orderID)
	if err != nil {
		return nil, err
	}
	response := ToOrderResponse(order)
	return &response, nil
}

// ListOrders lists the tenant's purchase orders, newest first
func (s *Service) ListOrders(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]OrderResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	orders, err := s.orders.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToOrderResponses(orders), nil
}

// PayPayable settles an account payable and posts the supplier payment as
// an expense movement. Supplier payments are not drawer cash, so the
// movement carries no session. The payable is locked for the duration so
// two concurrent payments cannot both post the expense.
func (s *Service) PayPayable(ctx context.Context, identity shared.Identity, payableID uuid.UUID) (*PayableResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}

	var response PayableResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		payable, err := repos.Payables().FindByIDForUpdate(ctx, identity.OrganizationID, payableID)
		if err != nil {
			return err
		}
		if err := payable.MarkPaid(); err != nil {
			return err
		}
		if err := repos.Payables().Save(ctx, payable); err != nil {
			return fmt.Errorf("saving account payable: %w", err)
		}

		order, err := repos.PurchaseOrders().FindByIDForTenant(ctx, identity.OrganizationID, payable.OrderID)
		if err != nil {
			return err
		}

		movement, err := cashier.NewCashMovement(identity.OrganizationID, nil, payable.Amount,
			cashier.MovementExpense, fmt.Sprintf("Supplier Payment - %s", order.Number))
		if err != nil {
			return err
		}
		if err := repos.CashMovements().Append(ctx, movement); err != nil {
			return fmt.Errorf("appending cash movement: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionPayPayable, "AccountPayable", payable.ID,
			audit.NewSnapshot().Set("status", string(domainpurchasing.PayableStatusPending)),
			audit.NewSnapshot().
				Set("status", string(payable.Status)).
				Set("amount", payable.Amount).
				Set("order_number", order.Number))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToPayableResponse(payable)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("account payable paid",
		zap.String("payable_id", response.ID.String()),
		zap.String("amount", response.Amount.String()))

	return &response, nil
}

// ListPayables lists the tenant's accounts payable, newest first
func (s *Service) ListPayables(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]PayableResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	payables, err := s.payables.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToPayableResponses(payables), nil
}
