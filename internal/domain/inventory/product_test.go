package inventory

import (
	"errors"
	"testing"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProduct(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates product with valid inputs", func(t *testing.T) {
		product, err := NewProduct(orgID, "SKU-001", "Widget", "hardware",
			decimal.NewFromFloat(9.99), 10, 2, decimal.NewFromFloat(4.50))
		require.NoError(t, err)
		require.NotNil(t, product)

		assert.Equal(t, orgID, product.OrganizationID)
		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, "Widget", product.Name)
		assert.Equal(t, "hardware", product.Category)
		assert.True(t, product.Price.Equal(decimal.NewFromFloat(9.99)))
		assert.Equal(t, 10, product.Stock)
		assert.Equal(t, 2, product.MinStock)
		assert.True(t, product.AverageCost.Equal(decimal.NewFromFloat(4.50)))
		assert.NotEqual(t, uuid.Nil, product.ID)
		assert.Equal(t, 1, product.Version)
	})

	t.Run("fails with empty sku", func(t *testing.T) {
		_, err := NewProduct(orgID, "", "Widget", "", decimal.Zero, 0, 0, decimal.Zero)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INVALID_SKU", domainErr.Code)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProduct(orgID, "SKU-001", "", "", decimal.Zero, 0, 0, decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "name cannot be empty")
	})

	t.Run("fails with negative price", func(t *testing.T) {
		_, err := NewProduct(orgID, "SKU-001", "Widget", "", decimal.NewFromInt(-1), 0, 0, decimal.Zero)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "Price cannot be negative")
	})

	t.Run("fails with negative stock", func(t *testing.T) {
		_, err := NewProduct(orgID, "SKU-001", "Widget", "", decimal.Zero, -1, 0, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("fails with negative initial cost", func(t *testing.T) {
		_, err := NewProduct(orgID, "SKU-001", "Widget", "", decimal.Zero, 0, 0, decimal.NewFromInt(-1))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cost cannot be negative")
	})
}

func TestProduct_DecrementStock(t *testing.T) {
	newProduct := func(stock int) *Product {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), stock, 0, decimal.NewFromInt(5))
		require.NoError(t, err)
		return p
	}

	t.Run("decrements stock and bumps version", func(t *testing.T) {
		p := newProduct(10)
		require.NoError(t, p.DecrementStock(4))
		assert.Equal(t, 6, p.Stock)
		assert.Equal(t, 2, p.Version)
	})

	t.Run("allows draining stock to zero", func(t *testing.T) {
		p := newProduct(3)
		require.NoError(t, p.DecrementStock(3))
		assert.Equal(t, 0, p.Stock)
	})

	t.Run("rejects quantity above stock", func(t *testing.T) {
		p := newProduct(3)
		err := p.DecrementStock(4)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "INSUFFICIENT_STOCK", domainErr.Code)
		assert.Contains(t, err.Error(), "Widget")
		assert.Contains(t, err.Error(), "requested 4, available 3")
		assert.Equal(t, 3, p.Stock)
	})

	t.Run("rejects zero and negative quantities", func(t *testing.T) {
		p := newProduct(3)
		require.Error(t, p.DecrementStock(0))
		require.Error(t, p.DecrementStock(-1))
		assert.Equal(t, 3, p.Stock)
	})
}

func TestProduct_ReceiveStock(t *testing.T) {
	t.Run("recomputes weighted average cost", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 10, 0, decimal.NewFromInt(5))
		require.NoError(t, err)

		// (10*5 + 10*7) / 20 = 6
		require.NoError(t, p.ReceiveStock(10, decimal.NewFromInt(7)))
		assert.Equal(t, 20, p.Stock)
		assert.True(t, p.AverageCost.Equal(decimal.NewFromInt(6)), "got %s", p.AverageCost)
	})

	t.Run("takes unit cost verbatim when starting from zero stock", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 0, 0, decimal.Zero)
		require.NoError(t, err)

		require.NoError(t, p.ReceiveStock(5, decimal.NewFromFloat(3.25)))
		assert.Equal(t, 5, p.Stock)
		assert.True(t, p.AverageCost.Equal(decimal.NewFromFloat(3.25)))
	})

	t.Run("rounds the average to four decimal places", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 1, 0, decimal.NewFromInt(1))
		require.NoError(t, err)

		// (1*1 + 2*2) / 3 = 1.6667 after rounding
		require.NoError(t, p.ReceiveStock(2, decimal.NewFromInt(2)))
		assert.True(t, p.AverageCost.Equal(decimal.NewFromFloat(1.6667)), "got %s", p.AverageCost)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 1, 0, decimal.NewFromInt(1))
		require.NoError(t, err)
		require.Error(t, p.ReceiveStock(0, decimal.NewFromInt(1)))
	})

	t.Run("rejects negative unit cost", func(t *testing.T) {
		p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 1, 0, decimal.NewFromInt(1))
		require.NoError(t, err)
		require.Error(t, p.ReceiveStock(1, decimal.NewFromInt(-1)))
	})
}

func TestProduct_Helpers(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 4, 4, decimal.NewFromFloat(2.5))
	require.NoError(t, err)

	assert.True(t, p.IsLowStock())
	assert.True(t, p.CanFulfill(4))
	assert.False(t, p.CanFulfill(5))
	assert.True(t, p.StockValue().Equal(decimal.NewFromInt(10)))

	require.NoError(t, p.ReceiveStock(1, decimal.NewFromFloat(2.5)))
	assert.False(t, p.IsLowStock())
}

func TestProduct_UpdatePrice(t *testing.T) {
	p, err := NewProduct(uuid.New(), "SKU-001", "Widget", "", decimal.NewFromInt(10), 0, 0, decimal.Zero)
	require.NoError(t, err)

	require.NoError(t, p.UpdatePrice(decimal.NewFromFloat(12.50)))
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(12.50)))

	require.Error(t, p.UpdatePrice(decimal.NewFromInt(-1)))
}

func TestNewStockMovement(t *testing.T) {
	orgID := uuid.New()
	productID := uuid.New()

	t.Run("creates inbound movement", func(t *testing.T) {
		m, err := NewStockMovement(orgID, productID, 5, MovementIn, ReasonPurchase)
		require.NoError(t, err)
		assert.Equal(t, 5, m.SignedQuantity())
	})

	t.Run("creates outbound movement with negative signed quantity", func(t *testing.T) {
		m, err := NewStockMovement(orgID, productID, 5, MovementOut, ReasonSale)
		require.NoError(t, err)
		assert.Equal(t, -5, m.SignedQuantity())
	})

	t.Run("rejects nil product", func(t *testing.T) {
		_, err := NewStockMovement(orgID, uuid.Nil, 5, MovementIn, ReasonPurchase)
		require.Error(t, err)
	})

	t.Run("rejects unknown direction and reason", func(t *testing.T) {
		_, err := NewStockMovement(orgID, productID, 5, MovementDirection("SIDEWAYS"), ReasonSale)
		require.Error(t, err)

		_, err = NewStockMovement(orgID, productID, 5, MovementIn, MovementReason("GIFT"))
		require.Error(t, err)
	})

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		_, err := NewStockMovement(orgID, productID, 0, MovementIn, ReasonPurchase)
		require.Error(t, err)
	})
}
