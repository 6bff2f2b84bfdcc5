package purchasing

import (
	"context"
	"errors"
	"strings"
	"testing"

	appinventory "github.com/opsledger/backend/internal/application/inventory"
	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/cashier"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/internal/infrastructure/persistence"
	"github.com/opsledger/backend/tests/testutil"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type serviceFixture struct {
	db        *gorm.DB
	service   *Service
	inventory *appinventory.Service
	identity  shared.Identity
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	txnScope := persistence.NewGormTransactionScope(db)
	return &serviceFixture{
		db: db,
		service: NewService(txnScope,
			persistence.NewGormProviderRepository(db),
			persistence.NewGormPurchaseOrderRepository(db),
			persistence.NewGormAccountPayableRepository(db)),
		inventory: appinventory.NewService(txnScope,
			persistence.NewGormProductRepository(db),
			persistence.NewGormStockMovementRepository(db)),
		identity: testutil.NewIdentity(t, shared.RoleManager),
	}
}

func (f *serviceFixture) createProvider(t *testing.T) *ProviderResponse {
	t.Helper()
	provider, err := f.service.CreateProvider(context.Background(), f.identity, CreateProviderInput{
		Name:    "Acme Wholesale",
		Contact: "Jordan",
		Email:   "orders@acme.test",
	})
	require.NoError(t, err)
	return provider
}

func (f *serviceFixture) createProduct(t *testing.T, sku string, stock int, cost decimal.Decimal) uuid.UUID {
	t.Helper()
	product, err := f.inventory.CreateProduct(context.Background(), f.identity, appinventory.CreateProductInput{
		SKU:         sku,
		Name:        "Product " + sku,
		Price:       decimal.NewFromInt(10),
		Stock:       stock,
		InitialCost: cost,
	})
	require.NoError(t, err)
	return product.ID
}

func (f *serviceFixture) productState(t *testing.T, productID uuid.UUID) (int, decimal.Decimal) {
	t.Helper()
	product, err := f.inventory.GetProduct(context.Background(), f.identity, productID)
	require.NoError(t, err)
	return product.Stock, product.AverageCost
}

func TestService_CreateProvider(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	provider := f.createProvider(t)
	assert.Equal(t, "Acme Wholesale", provider.Name)

	providers, err := f.service.ListProviders(ctx, f.identity, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Len(t, providers, 1)

	other := testutil.NewIdentity(t, shared.RoleManager)
	providers, err = f.service.ListProviders(ctx, other, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, providers)
}

func TestService_CreateOrder(t *testing.T) {
	ctx := context.Background()

	t.Run("places an order without moving stock", func(t *testing.T) {
		f := newServiceFixture(t)
		provider := f.createProvider(t)
		coffee := f.createProduct(t, "COFFEE", 10, decimal.NewFromInt(5))

		order, err := f.service.CreateOrder(ctx, f.identity, CreateOrderInput{
			ProviderID: provider.ID,
			Lines: []OrderLine{
				{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromFloat(2.50)},
			},
		})
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(order.Number, "PO-"), "got %s", order.Number)
		assert.Equal(t, "ORDERED", order.Status)
		assert.True(t, order.Total.Equal(decimal.NewFromInt(25)))
		require.Len(t, order.Items, 1)
		assert.Equal(t, 0, order.Items[0].QuantityReceived)

		stock, _ := f.productState(t, coffee)
		assert.Equal(t, 10, stock)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, payables)
	})

	t.Run("fails for an unknown provider", func(t *testing.T) {
		f := newServiceFixture(t)
		coffee := f.createProduct(t, "COFFEE", 10, decimal.Zero)

		_, err := f.service.CreateOrder(ctx, f.identity, CreateOrderInput{
			ProviderID: uuid.New(),
			Lines:      []OrderLine{{ProductID: coffee, Quantity: 1, Cost: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("fails for an unknown product", func(t *testing.T) {
		f := newServiceFixture(t)
		provider := f.createProvider(t)

		_, err := f.service.CreateOrder(ctx, f.identity, CreateOrderInput{
			ProviderID: provider.ID,
			Lines:      []OrderLine{{ProductID: uuid.New(), Quantity: 1, Cost: decimal.NewFromInt(1)}},
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestService_ReceiveOrder(t *testing.T) {
	ctx := context.Background()

	placeOrder := func(t *testing.T, f *serviceFixture, lines []OrderLine) *OrderResponse {
		provider := f.createProvider(t)
		order, err := f.service.CreateOrder(ctx, f.identity, CreateOrderInput{
			ProviderID: provider.ID,
			Lines:      lines,
		})
		require.NoError(t, err)
		return order
	}

	t.Run("partial receipt moves stock and opens a payable", func(t *testing.T) {
		f := newServiceFixture(t)
		// 10 on hand at 5.00 average
		coffee := f.createProduct(t, "COFFEE", 10, decimal.NewFromInt(5))
		order := placeOrder(t, f, []OrderLine{
			{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromInt(7)},
		})

		received, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{
			OrderID: order.ID,
			Lines:   []ReceiveLine{{ProductID: coffee, Quantity: 4}},
		})
		require.NoError(t, err)
		assert.Equal(t, "PARTIALLY_RECEIVED", received.Status)
		assert.Nil(t, received.ReceivedAt)
		assert.Equal(t, 4, received.Items[0].QuantityReceived)

		// (10*5 + 4*7) / 14
		stock, avgCost := f.productState(t, coffee)
		assert.Equal(t, 14, stock)
		expected := decimal.NewFromInt(78).Div(decimal.NewFromInt(14)).Round(4)
		assert.True(t, avgCost.Equal(expected), "got %s want %s", avgCost, expected)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, payables, 1)
		assert.True(t, payables[0].Amount.Equal(decimal.NewFromInt(28)))
		assert.Equal(t, "PENDING", payables[0].Status)
	})

	t.Run("completing the order flips it to RECEIVED with one payable per event", func(t *testing.T) {
		f := newServiceFixture(t)
		coffee := f.createProduct(t, "COFFEE", 0, decimal.Zero)
		order := placeOrder(t, f, []OrderLine{
			{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromInt(3)},
		})

		_, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{
			OrderID: order.ID,
			Lines:   []ReceiveLine{{ProductID: coffee, Quantity: 4}},
		})
		require.NoError(t, err)

		received, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{
			OrderID: order.ID,
			Lines:   []ReceiveLine{{ProductID: coffee, Quantity: 6}},
		})
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", received.Status)
		assert.NotNil(t, received.ReceivedAt)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, payables, 2)
	})

	t.Run("empty lines receive everything remaining", func(t *testing.T) {
		f := newServiceFixture(t)
		coffee := f.createProduct(t, "COFFEE", 0, decimal.Zero)
		bread := f.createProduct(t, "BREAD", 0, decimal.Zero)
		order := placeOrder(t, f, []OrderLine{
			{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromInt(2)},
			{ProductID: bread, Quantity: 5, Cost: decimal.NewFromInt(1)},
		})

		received, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{OrderID: order.ID})
		require.NoError(t, err)
		assert.Equal(t, "RECEIVED", received.Status)

		stock, _ := f.productState(t, coffee)
		assert.Equal(t, 10, stock)
		stock, _ = f.productState(t, bread)
		assert.Equal(t, 5, stock)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, payables, 1)
		assert.True(t, payables[0].Amount.Equal(decimal.NewFromInt(25)))
	})

	t.Run("receiving a finished order fails", func(t *testing.T) {
		f := newServiceFixture(t)
		coffee := f.createProduct(t, "COFFEE", 0, decimal.Zero)
		order := placeOrder(t, f, []OrderLine{
			{ProductID: coffee, Quantity: 5, Cost: decimal.NewFromInt(2)},
		})

		_, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{OrderID: order.ID})
		require.NoError(t, err)

		_, err = f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{OrderID: order.ID})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyReceived))
	})

	t.Run("over-receipt rolls back the whole event", func(t *testing.T) {
		f := newServiceFixture(t)
		coffee := f.createProduct(t, "COFFEE", 0, decimal.Zero)
		bread := f.createProduct(t, "BREAD", 0, decimal.Zero)
		order := placeOrder(t, f, []OrderLine{
			{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromInt(2)},
			{ProductID: bread, Quantity: 5, Cost: decimal.NewFromInt(1)},
		})

		_, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{
			OrderID: order.ID,
			Lines: []ReceiveLine{
				{ProductID: coffee, Quantity: 10},
				{ProductID: bread, Quantity: 6},
			},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)

		// nothing from the failed event survives
		stock, _ := f.productState(t, coffee)
		assert.Equal(t, 0, stock)
		loaded, err := f.service.GetOrder(ctx, f.identity, order.ID)
		require.NoError(t, err)
		assert.Equal(t, "ORDERED", loaded.Status)
		assert.Equal(t, 0, loaded.Items[0].QuantityReceived)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, payables)
	})

	t.Run("unknown order id", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{OrderID: uuid.New()})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestService_PayPayable(t *testing.T) {
	ctx := context.Background()

	receiveAll := func(t *testing.T, f *serviceFixture) PayableResponse {
		provider := f.createProvider(t)
		coffee := f.createProduct(t, "COFFEE", 0, decimal.Zero)
		order, err := f.service.CreateOrder(ctx, f.identity, CreateOrderInput{
			ProviderID: provider.ID,
			Lines:      []OrderLine{{ProductID: coffee, Quantity: 10, Cost: decimal.NewFromInt(3)}},
		})
		require.NoError(t, err)
		_, err = f.service.ReceiveOrder(ctx, f.identity, ReceiveOrderInput{OrderID: order.ID})
		require.NoError(t, err)

		payables, err := f.service.ListPayables(ctx, f.identity, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, payables, 1)
		return payables[0]
	}

	t.Run("settles the payable and posts a supplier expense", func(t *testing.T) {
		f := newServiceFixture(t)
		payable := receiveAll(t, f)

		paid, err := f.service.PayPayable(ctx, f.identity, payable.ID)
		require.NoError(t, err)
		assert.Equal(t, "PAID", paid.Status)
		require.NotNil(t, paid.PaidAt)

		movements, err := persistence.NewGormCashMovementRepository(f.db).
			FindRecent(ctx, f.identity.OrganizationID, 10)
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Nil(t, movements[0].SessionID)
		assert.Equal(t, cashier.MovementExpense, movements[0].Type)
		assert.True(t, movements[0].Amount.Equal(decimal.NewFromInt(30)))
		assert.Contains(t, movements[0].Description, "Supplier Payment - PO-")

		entries, err := persistence.NewGormAuditRepository(f.db).
			FindByEntity(ctx, f.identity.OrganizationID, "AccountPayable", payable.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, audit.ActionPayPayable, entries[0].Action)
		assert.Equal(t, f.identity.UserID, entries[0].UserID)
	})

	t.Run("paying twice fails and posts no second expense", func(t *testing.T) {
		f := newServiceFixture(t)
		payable := receiveAll(t, f)

		_, err := f.service.PayPayable(ctx, f.identity, payable.ID)
		require.NoError(t, err)

		_, err = f.service.PayPayable(ctx, f.identity, payable.ID)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyPaid))

		movements, err := persistence.NewGormCashMovementRepository(f.db).
			FindRecent(ctx, f.identity.OrganizationID, 10)
		require.NoError(t, err)
		assert.Len(t, movements, 1)
	})

	t.Run("unknown payable id", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.PayPayable(ctx, f.identity, uuid.New())
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}
