package sales

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	appcashier "github.com/opsledger/backend/internal/application/cashier"
	appinventory "github.com/opsledger/backend/internal/application/inventory"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/cache"
	"github.com/opsledger/backend/internal/infrastructure/persistence"
	"github.com/opsledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type checkoutFixture struct {
	db        *gorm.DB
	service   *CheckoutService
	inventory *appinventory.Service
	sessions  *appcashier.Service
	identity  shared.Identity
}

func newCheckoutFixture(t *testing.T) *checkoutFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	txnScope := persistence.NewGormTransactionScope(db)
	return &checkoutFixture{
		db:      db,
		service: NewCheckoutService(txnScope, persistence.NewGormInvoiceRepository(db)),
		inventory: appinventory.NewService(txnScope,
			persistence.NewGormProductRepository(db),
			persistence.NewGormStockMovementRepository(db)),
		sessions: appcashier.NewService(txnScope,
			persistence.NewGormCashSessionRepository(db)),
		identity: testutil.NewIdentity(t, shared.RoleCashier),
	}
}

func (f *checkoutFixture) seedProduct(t *testing.T, sku string, price decimal.Decimal, stock int) uuid.UUID {
	t.Helper()
	product, err := f.inventory.CreateProduct(context.Background(), f.identity, appinventory.CreateProductInput{
		SKU:   sku,
		Name:  "Product " + sku,
		Price: price,
		Stock: stock,
	})
	require.NoError(t, err)
	return product.ID
}

func (f *checkoutFixture) openSession(t *testing.T) uuid.UUID {
	t.Helper()
	session, err := f.sessions.OpenSession(context.Background(), f.identity, decimal.NewFromInt(100))
	require.NoError(t, err)
	return session.ID
}

func (f *checkoutFixture) productStock(t *testing.T, productID uuid.UUID) int {
	t.Helper()
	product, err := f.inventory.GetProduct(context.Background(), f.identity, productID)
	require.NoError(t, err)
	return product.Stock
}

func TestCheckoutService_Checkout(t *testing.T) {
	ctx := context.Background()

	t.Run("records the sale against the open drawer", func(t *testing.T) {
		f := newCheckoutFixture(t)
		sessionID := f.openSession(t)
		coffee := f.seedProduct(t, "COFFEE", decimal.NewFromFloat(2.50), 20)
		bread := f.seedProduct(t, "BREAD", decimal.NewFromInt(1), 10)

		invoice, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines: []CheckoutLine{
				{ProductID: coffee, Quantity: 4},
				{ProductID: bread, Quantity: 5},
			},
			Customer: "Walk-in",
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(invoice.Number, "INV-"), "got %s", invoice.Number)
		assert.Equal(t, "PAID", invoice.Status)
		assert.True(t, invoice.Total.Equal(decimal.NewFromInt(15)), "got %s", invoice.Total)
		require.Len(t, invoice.Items, 2)
		assert.True(t, invoice.Items[0].Subtotal.Equal(decimal.NewFromInt(10)))

		assert.Equal(t, 16, f.productStock(t, coffee))
		assert.Equal(t, 5, f.productStock(t, bread))

		movements, err := persistence.NewGormCashMovementRepository(f.db).
			FindBySession(ctx, f.identity.OrganizationID, sessionID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.True(t, movements[0].Amount.Equal(decimal.NewFromInt(15)))
		assert.Contains(t, movements[0].Description, invoice.Number)
		assert.Contains(t, movements[0].Description, "Walk-in")

		loaded, err := f.service.GetInvoice(ctx, f.identity, invoice.Number)
		require.NoError(t, err)
		assert.Len(t, loaded.Items, 2)
	})

	t.Run("invoice numbers are sequential per tenant", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 20)

		first, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines: []CheckoutLine{{ProductID: product, Quantity: 1}},
		})
		require.NoError(t, err)
		second, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines: []CheckoutLine{{ProductID: product, Quantity: 1}},
		})
		require.NoError(t, err)

		assert.NotEqual(t, first.Number, second.Number)
		assert.Equal(t, first.Number[:len(first.Number)-5], second.Number[:len(second.Number)-5])
	})

	t.Run("insufficient stock on a later line rolls back the whole sale", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		coffee := f.seedProduct(t, "COFFEE", decimal.NewFromInt(2), 20)
		bread := f.seedProduct(t, "BREAD", decimal.NewFromInt(1), 3)

		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines: []CheckoutLine{
				{ProductID: coffee, Quantity: 5},
				{ProductID: bread, Quantity: 4},
			},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrInsufficientStock))

		// the first line's decrement must not survive
		assert.Equal(t, 20, f.productStock(t, coffee))
		assert.Equal(t, 3, f.productStock(t, bread))

		invoices, err := f.service.ListInvoices(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, invoices)

		movements, err := f.inventory.ListMovements(ctx, f.identity, coffee, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, movements)
	})

	t.Run("fails without an open session", func(t *testing.T) {
		f := newCheckoutFixture(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 10)

		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines: []CheckoutLine{{ProductID: product, Quantity: 1}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNoActiveSession))

		assert.Equal(t, 10, f.productStock(t, product))
	})

	t.Run("explicit session id posts against that drawer", func(t *testing.T) {
		f := newCheckoutFixture(t)
		sessionID := f.openSession(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 10)

		invoice, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:     []CheckoutLine{{ProductID: product, Quantity: 1}},
			SessionID: &sessionID,
		})
		require.NoError(t, err)

		movements, err := persistence.NewGormCashMovementRepository(f.db).
			FindBySession(ctx, f.identity.OrganizationID, sessionID)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Contains(t, movements[0].Description, invoice.Number)
	})

	t.Run("explicit session id must exist and be open", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 10)

		unknown := uuid.New()
		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:     []CheckoutLine{{ProductID: product, Quantity: 1}},
			SessionID: &unknown,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNoActiveSession))
	})

	t.Run("requires at least one line", func(t *testing.T) {
		f := newCheckoutFixture(t)

		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_ITEMS", domainErr.Code)
	})
}

func TestCheckoutService_TotalOverride(t *testing.T) {
	ctx := context.Background()

	newFixtureWithSale := func(t *testing.T) (*checkoutFixture, uuid.UUID) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		// computed total for 10 units at 10.00 is 100
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(10), 50)
		return f, product
	}

	t.Run("accepts a discount within the tolerance band", func(t *testing.T) {
		f, product := newFixtureWithSale(t)

		discounted := decimal.NewFromInt(85)
		invoice, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:         []CheckoutLine{{ProductID: product, Quantity: 10}},
			TotalOverride: &discounted,
		})
		require.NoError(t, err)
		assert.True(t, invoice.Total.Equal(discounted))
	})

	t.Run("accepts exactly the tolerance floor", func(t *testing.T) {
		f, product := newFixtureWithSale(t)

		floor := decimal.NewFromInt(80)
		invoice, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:         []CheckoutLine{{ProductID: product, Quantity: 10}},
			TotalOverride: &floor,
		})
		require.NoError(t, err)
		assert.True(t, invoice.Total.Equal(floor))
	})

	t.Run("rejects a total above the computed sum", func(t *testing.T) {
		f, product := newFixtureWithSale(t)

		inflated := decimal.NewFromInt(120)
		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:         []CheckoutLine{{ProductID: product, Quantity: 10}},
			TotalOverride: &inflated,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TOTAL", domainErr.Code)

		// rejection rolls the decrement back
		assert.Equal(t, 50, f.productStock(t, product))
	})

	t.Run("rejects a total below the tolerance floor", func(t *testing.T) {
		f, product := newFixtureWithSale(t)

		tooLow := decimal.NewFromFloat(79.99)
		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:         []CheckoutLine{{ProductID: product, Quantity: 10}},
			TotalOverride: &tooLow,
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_TOTAL", domainErr.Code)
	})

	t.Run("a tightened tolerance narrows the band", func(t *testing.T) {
		f, product := newFixtureWithSale(t)
		f.service.SetTotalTolerance(decimal.NewFromFloat(0.05))

		discounted := decimal.NewFromInt(90)
		_, err := f.service.Checkout(ctx, f.identity, CheckoutInput{
			Lines:         []CheckoutLine{{ProductID: product, Quantity: 10}},
			TotalOverride: &discounted,
		})
		require.Error(t, err)
	})
}

func TestCheckoutService_Idempotency(t *testing.T) {
	ctx := context.Background()

	t.Run("replaying the same key is rejected", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 10)
		f.service.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore(),
			shared.IdempotencyConfig{Enabled: true, TTL: time.Minute})

		input := CheckoutInput{
			Lines:          []CheckoutLine{{ProductID: product, Quantity: 1}},
			IdempotencyKey: "pos-terminal-1-txn-42",
		}
		_, err := f.service.Checkout(ctx, f.identity, input)
		require.NoError(t, err)

		_, err = f.service.Checkout(ctx, f.identity, input)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DUPLICATE_REQUEST", domainErr.Code)

		// only the first sale went through
		assert.Equal(t, 9, f.productStock(t, product))
	})

	t.Run("requests without a key are never deduplicated", func(t *testing.T) {
		f := newCheckoutFixture(t)
		f.openSession(t)
		product := f.seedProduct(t, "SKU-001", decimal.NewFromInt(2), 10)
		f.service.SetIdempotencyStore(cache.NewInMemoryIdempotencyStore(),
			shared.IdempotencyConfig{Enabled: true, TTL: time.Minute})

		input := CheckoutInput{Lines: []CheckoutLine{{ProductID: product, Quantity: 1}}}
		_, err := f.service.Checkout(ctx, f.identity, input)
		require.NoError(t, err)
		_, err = f.service.Checkout(ctx, f.identity, input)
		require.NoError(t, err)
	})
}
