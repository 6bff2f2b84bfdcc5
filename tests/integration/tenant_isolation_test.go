package integration

import (
	"context"
	"errors"
	"testing"

	appinventory "github.com/opsledger/backend/internal/application/inventory"
	apppurchasing "github.com/opsledger/backend/internal/application/purchasing"
	appsales "github.com/opsledger/backend/internal/application/sales"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/opsledger/backend/tests/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestTenantIsolation seeds two organizations on the same database and
// verifies that no read or write path reaches across the boundary.
func TestTenantIsolation(t *testing.T) {
	ctx := context.Background()
	env := NewEnv(t)

	alpha := testutil.NewIdentity(t, shared.RoleAdmin)
	beta := testutil.NewIdentity(t, shared.RoleAdmin)

	product, err := env.Inventory.CreateProduct(ctx, alpha, appinventory.CreateProductInput{
		SKU:   "ALPHA-001",
		Name:  "Alpha Widget",
		Price: decimal.NewFromInt(5),
		Stock: 10,
	})
	require.NoError(t, err)

	session, err := env.Sessions.OpenSession(ctx, alpha, decimal.NewFromInt(100))
	require.NoError(t, err)

	_, err = env.Checkout.Checkout(ctx, alpha, appsales.CheckoutInput{
		Lines: []appsales.CheckoutLine{{ProductID: product.ID, Quantity: 1}},
	})
	require.NoError(t, err)

	t.Run("reads never cross the boundary", func(t *testing.T) {
		_, err := env.Inventory.GetProduct(ctx, beta, product.ID)
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		products, total, err := env.Inventory.ListProducts(ctx, beta, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, products)
		assert.Zero(t, total)

		invoices, err := env.Checkout.ListInvoices(ctx, beta, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, invoices)

		trail, err := env.Audit.ListRecent(ctx, beta, shared.DefaultFilter())
		require.NoError(t, err)
		assert.Empty(t, trail)
	})

	t.Run("writes against foreign aggregates fail closed", func(t *testing.T) {
		_, err := env.Inventory.ReceiveStock(ctx, beta, product.ID, 5, decimal.NewFromInt(2))
		assert.True(t, errors.Is(err, shared.ErrNotFound))

		// a foreign session id never resolves, even for checkout
		_, err = env.Checkout.Checkout(ctx, beta, appsales.CheckoutInput{
			Lines:     []appsales.CheckoutLine{{ProductID: product.ID, Quantity: 1}},
			SessionID: &session.ID,
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNoActiveSession))

		_, err = env.Sessions.CloseSession(ctx, beta, session.ID, decimal.NewFromInt(100))
		assert.True(t, errors.Is(err, shared.ErrSessionNotFound))
	})

	t.Run("identical numbering sequences stay independent", func(t *testing.T) {
		provider, err := env.Purchasing.CreateProvider(ctx, beta, apppurchasing.CreateProviderInput{Name: "Beta Supply"})
		require.NoError(t, err)
		widget, err := env.Inventory.CreateProduct(ctx, beta, appinventory.CreateProductInput{
			SKU:   "ALPHA-001", // same SKU, different tenant
			Name:  "Beta Widget",
			Price: decimal.NewFromInt(5),
		})
		require.NoError(t, err)

		order, err := env.Purchasing.CreateOrder(ctx, beta, apppurchasing.CreateOrderInput{
			ProviderID: provider.ID,
			Lines:      []apppurchasing.OrderLine{{ProductID: widget.ID, Quantity: 1, Cost: decimal.NewFromInt(1)}},
		})
		require.NoError(t, err)
		// both tenants start their own sequence at 00001
		assert.Contains(t, order.Number, "-00001")
	})

	t.Run("alpha state is untouched by beta's attempts", func(t *testing.T) {
		loaded, err := env.Inventory.GetProduct(ctx, alpha, product.ID)
		require.NoError(t, err)
		assert.Equal(t, 9, loaded.Stock)

		active, err := env.Sessions.GetActiveSession(ctx, alpha)
		require.NoError(t, err)
		assert.Equal(t, session.ID, active.ID)
	})
}
