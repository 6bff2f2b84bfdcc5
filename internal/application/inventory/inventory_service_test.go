package inventory

import (
	"context"
	"errors"
	"testing"

	"github.com/opsledger/backend/internal/domain/audit"
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
	db       *gorm.DB
	service  *Service
	identity shared.Identity
}

func newServiceFixture(t *testing.T) *serviceFixture {
	t.Helper()
	db := testutil.NewSQLiteDB(t)
	return &serviceFixture{
		db: db,
		service: NewService(
			persistence.NewGormTransactionScope(db),
			persistence.NewGormProductRepository(db),
			persistence.NewGormStockMovementRepository(db),
		),
		identity: testutil.NewIdentity(t, shared.RoleManager),
	}
}

func (f *serviceFixture) createProduct(t *testing.T, sku string, stock int, initialCost decimal.Decimal) *ProductResponse {
	t.Helper()
	product, err := f.service.CreateProduct(context.Background(), f.identity, CreateProductInput{
		SKU:         sku,
		Name:        "Product " + sku,
		Category:    "general",
		Price:       decimal.NewFromInt(10),
		Stock:       stock,
		MinStock:    1,
		InitialCost: initialCost,
	})
	require.NoError(t, err)
	return product
}

func TestService_CreateProduct(t *testing.T) {
	ctx := context.Background()

	t.Run("creates product with initial cost as average", func(t *testing.T) {
		f := newServiceFixture(t)

		product := f.createProduct(t, "SKU-001", 10, decimal.NewFromFloat(4.50))
		assert.Equal(t, "SKU-001", product.SKU)
		assert.Equal(t, 10, product.Stock)
		assert.True(t, product.AverageCost.Equal(decimal.NewFromFloat(4.50)))

		loaded, err := f.service.GetProduct(ctx, f.identity, product.ID)
		require.NoError(t, err)
		assert.Equal(t, product.SKU, loaded.SKU)
	})

	t.Run("writes a creation audit entry", func(t *testing.T) {
		f := newServiceFixture(t)

		product := f.createProduct(t, "SKU-001", 10, decimal.Zero)

		entries, err := persistence.NewGormAuditRepository(f.db).
			FindByEntity(ctx, f.identity.OrganizationID, "Product", product.ID)
		require.NoError(t, err)
		require.Len(t, entries, 1)
		assert.Equal(t, audit.ActionCreateProduct, entries[0].Action)
		assert.Equal(t, f.identity.UserID, entries[0].UserID)
	})

	t.Run("rejects duplicate sku within the tenant", func(t *testing.T) {
		f := newServiceFixture(t)
		f.createProduct(t, "SKU-001", 10, decimal.Zero)

		_, err := f.service.CreateProduct(ctx, f.identity, CreateProductInput{
			SKU: "SKU-001", Name: "Duplicate", Price: decimal.NewFromInt(1),
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DUPLICATE_SKU", domainErr.Code)
	})

	t.Run("same sku is allowed in another tenant", func(t *testing.T) {
		f := newServiceFixture(t)
		f.createProduct(t, "SKU-001", 10, decimal.Zero)

		other := testutil.NewIdentity(t, shared.RoleAdmin)
		_, err := f.service.CreateProduct(ctx, other, CreateProductInput{
			SKU: "SKU-001", Name: "Other tenant", Price: decimal.NewFromInt(1),
		})
		require.NoError(t, err)
	})

	t.Run("rejects an unauthenticated identity", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.CreateProduct(ctx, shared.Identity{}, CreateProductInput{
			SKU: "SKU-001", Name: "x",
		})
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrUnauthorized))
	})
}

func TestService_ReceiveStock(t *testing.T) {
	ctx := context.Background()

	t.Run("recomputes weighted average and appends a movement", func(t *testing.T) {
		f := newServiceFixture(t)
		product := f.createProduct(t, "SKU-001", 10, decimal.NewFromInt(5))

		// (10*5 + 10*7) / 20 = 6
		updated, err := f.service.ReceiveStock(ctx, f.identity, product.ID, 10, decimal.NewFromInt(7))
		require.NoError(t, err)
		assert.Equal(t, 20, updated.Stock)
		assert.True(t, updated.AverageCost.Equal(decimal.NewFromInt(6)), "got %s", updated.AverageCost)

		movements, err := f.service.ListMovements(ctx, f.identity, product.ID, shared.DefaultFilter())
		require.NoError(t, err)
		require.Len(t, movements, 1)
		assert.Equal(t, "IN", movements[0].Direction)
		assert.Equal(t, "PURCHASE", movements[0].Reason)
		assert.Equal(t, 10, movements[0].Quantity)
	})

	t.Run("audits stock and cost before and after", func(t *testing.T) {
		f := newServiceFixture(t)
		product := f.createProduct(t, "SKU-001", 0, decimal.Zero)

		_, err := f.service.ReceiveStock(ctx, f.identity, product.ID, 5, decimal.NewFromInt(3))
		require.NoError(t, err)

		entries, err := persistence.NewGormAuditRepository(f.db).
			FindByEntity(ctx, f.identity.OrganizationID, "Product", product.ID)
		require.NoError(t, err)
		require.Len(t, entries, 2)

		var receive *audit.Entry
		for i := range entries {
			if entries[i].Action == audit.ActionReceiveStock {
				receive = &entries[i]
			}
		}
		require.NotNil(t, receive)
		newStock, ok := receive.NewValue.Get("stock")
		require.True(t, ok)
		assert.EqualValues(t, 5, newStock)
	})

	t.Run("fails for an unknown product", func(t *testing.T) {
		f := newServiceFixture(t)

		_, err := f.service.ReceiveStock(ctx, f.identity, uuid.New(), 5, decimal.NewFromInt(3))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})

	t.Run("cannot touch another tenant's product", func(t *testing.T) {
		f := newServiceFixture(t)
		product := f.createProduct(t, "SKU-001", 10, decimal.Zero)

		other := testutil.NewIdentity(t, shared.RoleAdmin)
		_, err := f.service.ReceiveStock(ctx, other, product.ID, 5, decimal.NewFromInt(3))
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrNotFound))
	})
}

func TestService_ListProducts(t *testing.T) {
	ctx := context.Background()
	f := newServiceFixture(t)

	f.createProduct(t, "SKU-001", 10, decimal.Zero)
	f.createProduct(t, "SKU-002", 0, decimal.Zero)
	f.createProduct(t, "SKU-003", 3, decimal.Zero)

	products, total, err := f.service.ListProducts(ctx, f.identity, shared.Filter{Page: 1, PageSize: 2})
	require.NoError(t, err)
	assert.Len(t, products, 2)
	assert.EqualValues(t, 3, total)

	// other tenants see nothing
	other := testutil.NewIdentity(t, shared.RoleAdmin)
	products, total, err = f.service.ListProducts(ctx, other, shared.DefaultFilter())
	require.NoError(t, err)
	assert.Empty(t, products)
	assert.Zero(t, total)
}
