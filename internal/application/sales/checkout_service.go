package sales

import (
	"context"
	"errors"
	"fmt"

	appinventory "github.com/opsledger/backend/internal/application/inventory"
	"github.com/opsledger/backend/internal/application/scope"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	domainsales "github.com/opsledger/backend/internal/domain/sales"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/logger"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// DefaultTotalTolerance is the maximum fraction by which a caller-supplied
// total may undercut the computed line sum (discounts applied upstream).
var DefaultTotalTolerance = decimal.NewFromFloat(0.20)

// CheckoutService orchestrates a sale: stock decrement, invoice creation,
// and the income cash movement against the operator's open session, all in
// one transaction.
type CheckoutService struct {
	txnScope       scope.TransactionScope
	invoices       domainsales.InvoiceRepository
	idempotency    shared.IdempotencyStore
	idempotencyCfg shared.IdempotencyConfig
	totalTolerance decimal.Decimal
}

// NewCheckoutService creates a new CheckoutService
func NewCheckoutService(txnScope scope.TransactionScope, invoices domainsales.InvoiceRepository) *CheckoutService {
	return &CheckoutService{
		txnScope:       txnScope,
		invoices:       invoices,
		totalTolerance: DefaultTotalTolerance,
	}
}

// SetIdempotencyStore enables replay protection for checkout requests
func (s *CheckoutService) SetIdempotencyStore(store shared.IdempotencyStore, cfg shared.IdempotencyConfig) {
	s.idempotency = store
	s.idempotencyCfg = cfg
}

// SetTotalTolerance overrides the allowed discount band for caller-supplied totals
func (s *CheckoutService) SetTotalTolerance(tolerance decimal.Decimal) {
	s.totalTolerance = tolerance
}

// Checkout processes a sale as a single atomic transaction. Any failure,
// such as insufficient stock on a later line or a closed drawer, rolls back
// every stock decrement, the invoice, the cash movement, and the audit
// entries together.
func (s *CheckoutService) Checkout(ctx context.Context, identity shared.Identity, input CheckoutInput) (*InvoiceResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if len(input.Lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Checkout requires at least one line")
	}

	if s.idempotency != nil && s.idempotencyCfg.Enabled && input.IdempotencyKey != "" {
		key := fmt.Sprintf("checkout:%s:%s", identity.OrganizationID, input.IdempotencyKey)
		fresh, err := s.idempotency.MarkProcessed(ctx, key, s.idempotencyCfg.TTL)
		if err != nil {
			return nil, fmt.Errorf("checking idempotency key: %w", err)
		}
		if !fresh {
			return nil, shared.NewDomainError("DUPLICATE_REQUEST", "Checkout with this idempotency key was already processed")
		}
	}

	var response InvoiceResponse
	err := s.txnScope.Execute(ctx, func(repos scope.TransactionalRepositories) error {
		session, err := s.resolveSession(ctx, repos, identity, input)
		if err != nil {
			return err
		}

		computedTotal := decimal.Zero
		lines := make([]domainsales.LineInput, 0, len(input.Lines))
		for _, line := range input.Lines {
			product, err := appinventory.DecrementStockInScope(ctx, repos, identity, line.ProductID, line.Quantity)
			if err != nil {
				return err
			}
			// Price snapshot at sale time: later price changes never touch this line.
			lines = append(lines, domainsales.LineInput{
				ProductID: product.ID,
				Quantity:  line.Quantity,
				Price:     product.Price,
			})
			computedTotal = computedTotal.Add(product.Price.Mul(decimal.NewFromInt(int64(line.Quantity))))
		}

		finalTotal, err := s.resolveTotal(computedTotal, input.TotalOverride)
		if err != nil {
			return err
		}

		number, err := repos.Invoices().NextNumber(ctx, identity.OrganizationID)
		if err != nil {
			return fmt.Errorf("generating invoice number: %w", err)
		}
		invoice, err := domainsales.NewInvoice(identity.OrganizationID, number, input.Customer, finalTotal, lines)
		if err != nil {
			return err
		}
		if err := repos.Invoices().Save(ctx, invoice); err != nil {
			return fmt.Errorf("saving invoice: %w", err)
		}

		customer := input.Customer
		if customer == "" {
			customer = "General"
		}
		movement, err := cashier.NewCashMovement(identity.OrganizationID, &session.ID, finalTotal,
			cashier.MovementIncome, fmt.Sprintf("Sale %s - %s", invoice.Number, customer))
		if err != nil {
			return err
		}
		if err := repos.CashMovements().Append(ctx, movement); err != nil {
			return fmt.Errorf("appending cash movement: %w", err)
		}

		entry, err := audit.NewEntry(identity, audit.ActionCreateSale, "Invoice", invoice.ID,
			nil, audit.NewSnapshot().
				Set("number", invoice.Number).
				Set("total", invoice.Total).
				Set("status", string(invoice.Status)).
				Set("session_id", session.ID).
				Set("line_count", len(invoice.Items)))
		if err != nil {
			return err
		}
		if err := repos.Audit().Append(ctx, entry); err != nil {
			return fmt.Errorf("appending audit entry: %w", err)
		}

		response = ToInvoiceResponse(invoice)
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.L(ctx).Info("checkout completed",
		zap.String("invoice_number", response.Number),
		zap.String("total", response.Total.String()),
		zap.Int("lines", len(response.Items)))

	return &response, nil
}

// resolveSession finds the drawer the sale posts against: the explicit
// session when supplied, else the operator's open session. Sales cannot be
// recorded without one.
func (s *CheckoutService) resolveSession(ctx context.Context, repos scope.TransactionalRepositories, identity shared.Identity, input CheckoutInput) (*cashier.CashSession, error) {
	if input.SessionID != nil {
		session, err := repos.Sessions().FindByIDForTenant(ctx, identity.OrganizationID, *input.SessionID)
		if err != nil {
			if errors.Is(err, shared.ErrNotFound) {
				return nil, shared.ErrNoActiveSession
			}
			return nil, err
		}
		if !session.IsOpen() {
			return nil, shared.ErrNoActiveSession
		}
		return session, nil
	}

	session, err := repos.Sessions().FindOpenByUser(ctx, identity.OrganizationID, identity.UserID)
	if err != nil {
		if errors.Is(err, shared.ErrNotFound) {
			return nil, shared.ErrNoActiveSession
		}
		return nil, err
	}
	return session, nil
}

// resolveTotal accepts a caller-supplied total only within the tolerance
// band below the computed sum. Overrides above the computed sum are always
// rejected.
func (s *CheckoutService) resolveTotal(computed decimal.Decimal, override *decimal.Decimal) (decimal.Decimal, error) {
	if override == nil {
		return computed, nil
	}
	if override.IsNegative() {
		return decimal.Zero, shared.NewDomainError("INVALID_TOTAL", "Total cannot be negative")
	}
	if override.GreaterThan(computed) {
		return decimal.Zero, shared.NewDomainError("INVALID_TOTAL", "Supplied total exceeds the computed line sum")
	}
	floor := computed.Sub(computed.Mul(s.totalTolerance))
	if override.LessThan(floor) {
		return decimal.Zero, shared.NewDomainError("INVALID_TOTAL",
			fmt.Sprintf("Supplied total %s is below the allowed discount band (floor %s)", override.String(), floor.StringFixed(2)))
	}
	return *override, nil
}

// GetInvoice loads one invoice with its lines
func (s *CheckoutService) GetInvoice(ctx context.Context, identity shared.Identity, number string) (*InvoiceResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	invoice, err := s.invoices.FindByNumber(ctx, identity.OrganizationID, number)
	if err != nil {
		return nil, err
	}
	response := ToInvoiceResponse(invoice)
	return &response, nil
}

// ListInvoices lists the tenant's invoices, newest first
func (s *CheckoutService) ListInvoices(ctx context.Context, identity shared.Identity, filter shared.Filter) ([]InvoiceResponse, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	invoices, err := s.invoices.FindAllForTenant(ctx, identity.OrganizationID, filter)
	if err != nil {
		return nil, err
	}
	return ToInvoiceResponses(invoices), nil
}
