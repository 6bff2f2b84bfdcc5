package purchasing

import (
	"errors"
	"testing"
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPurchaseOrder(t *testing.T) {
	orgID := uuid.New()
	providerID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	t.Run("places order and totals quantity times cost", func(t *testing.T) {
		order, err := NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: productA, Quantity: 10, Cost: decimal.NewFromFloat(2.50)},
			{ProductID: productB, Quantity: 3, Cost: decimal.NewFromInt(4)},
		})
		require.NoError(t, err)

		// 10*2.50 + 3*4 = 37
		assert.True(t, order.Total.Equal(decimal.NewFromInt(37)), "got %s", order.Total)
		assert.Equal(t, PurchaseOrderStatusOrdered, order.Status)
		require.Len(t, order.Items, 2)
		assert.Equal(t, 0, order.Items[0].QuantityReceived)
		assert.Equal(t, 10, order.Items[0].RemainingQuantity())
		assert.Nil(t, order.ReceivedAt)
	})

	t.Run("fails with no lines", func(t *testing.T) {
		_, err := NewPurchaseOrder(orgID, "PO-1", providerID, nil)
		require.Error(t, err)
	})

	t.Run("fails with duplicate product lines", func(t *testing.T) {
		_, err := NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: productA, Quantity: 1, Cost: decimal.NewFromInt(1)},
			{ProductID: productA, Quantity: 2, Cost: decimal.NewFromInt(1)},
		})
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "DUPLICATE_PRODUCT", domainErr.Code)
	})

	t.Run("fails with invalid line values", func(t *testing.T) {
		_, err := NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: productA, Quantity: 0, Cost: decimal.NewFromInt(1)},
		})
		require.Error(t, err)

		_, err = NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: productA, Quantity: 1, Cost: decimal.NewFromInt(-1)},
		})
		require.Error(t, err)

		_, err = NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: uuid.Nil, Quantity: 1, Cost: decimal.NewFromInt(1)},
		})
		require.Error(t, err)
	})

	t.Run("fails with empty number or provider", func(t *testing.T) {
		lines := []OrderLineInput{{ProductID: productA, Quantity: 1, Cost: decimal.NewFromInt(1)}}

		_, err := NewPurchaseOrder(orgID, "", providerID, lines)
		require.Error(t, err)

		_, err = NewPurchaseOrder(orgID, "PO-1", uuid.Nil, lines)
		require.Error(t, err)
	})
}

func TestPurchaseOrder_Receiving(t *testing.T) {
	orgID := uuid.New()
	providerID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	newOrder := func(t *testing.T) *PurchaseOrder {
		order, err := NewPurchaseOrder(orgID, "PO-1", providerID, []OrderLineInput{
			{ProductID: productA, Quantity: 10, Cost: decimal.NewFromInt(2)},
			{ProductID: productB, Quantity: 5, Cost: decimal.NewFromInt(3)},
		})
		require.NoError(t, err)
		return order
	}

	t.Run("partial receipt leaves order partially received", func(t *testing.T) {
		order := newOrder(t)

		require.NoError(t, order.ReceiveLine(productA, 4))
		order.SettleReceipt()

		assert.Equal(t, PurchaseOrderStatusPartiallyReceived, order.Status)
		assert.Equal(t, 6, order.FindItem(productA).RemainingQuantity())
		assert.False(t, order.IsFullyReceived())
		assert.Nil(t, order.ReceivedAt)
	})

	t.Run("completing every line marks order received", func(t *testing.T) {
		order := newOrder(t)

		require.NoError(t, order.ReceiveLine(productA, 10))
		require.NoError(t, order.ReceiveLine(productB, 5))
		order.SettleReceipt()

		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
		assert.True(t, order.IsFullyReceived())
		require.NotNil(t, order.ReceivedAt)
	})

	t.Run("second receiving event tops up an earlier partial", func(t *testing.T) {
		order := newOrder(t)

		require.NoError(t, order.ReceiveLine(productA, 4))
		order.SettleReceipt()

		require.NoError(t, order.ReceiveLine(productA, 6))
		require.NoError(t, order.ReceiveLine(productB, 5))
		order.SettleReceipt()

		assert.Equal(t, PurchaseOrderStatusReceived, order.Status)
	})

	t.Run("receiving into a terminal order fails", func(t *testing.T) {
		order := newOrder(t)
		require.NoError(t, order.ReceiveLine(productA, 10))
		require.NoError(t, order.ReceiveLine(productB, 5))
		order.SettleReceipt()

		err := order.ReceiveLine(productA, 1)
		require.Error(t, err)
		assert.True(t, errors.Is(err, shared.ErrAlreadyReceived))
	})

	t.Run("over-receipt beyond ordered quantity is rejected", func(t *testing.T) {
		order := newOrder(t)

		err := order.ReceiveLine(productA, 11)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "QUANTITY_EXCEEDED", domainErr.Code)

		require.NoError(t, order.ReceiveLine(productA, 10))
		err = order.ReceiveLine(productA, 1)
		require.Error(t, err)
	})

	t.Run("receiving an unknown product fails", func(t *testing.T) {
		order := newOrder(t)

		err := order.ReceiveLine(uuid.New(), 1)
		require.Error(t, err)

		var domainErr *shared.DomainError
		require.True(t, errors.As(err, &domainErr))
		assert.Equal(t, "LINE_NOT_FOUND", domainErr.Code)
	})

	t.Run("rejects non-positive receive quantity", func(t *testing.T) {
		order := newOrder(t)
		require.Error(t, order.ReceiveLine(productA, 0))
		require.Error(t, order.ReceiveLine(productA, -2))
	})
}

func TestNewAccountPayable(t *testing.T) {
	orgID := uuid.New()
	providerID := uuid.New()
	orderID := uuid.New()

	t.Run("creates pending payable due thirty days out", func(t *testing.T) {
		ap, err := NewAccountPayable(orgID, providerID, orderID, decimal.NewFromInt(500))
		require.NoError(t, err)

		assert.Equal(t, PayableStatusPending, ap.Status)
		assert.WithinDuration(t, time.Now().Add(DefaultPaymentTerm), ap.DueDate, time.Minute)
		assert.False(t, ap.IsOverdue())
	})

	t.Run("rejects non-positive amount", func(t *testing.T) {
		_, err := NewAccountPayable(orgID, providerID, orderID, decimal.Zero)
		require.Error(t, err)
	})

	t.Run("rejects nil provider", func(t *testing.T) {
		_, err := NewAccountPayable(orgID, uuid.Nil, orderID, decimal.NewFromInt(1))
		require.Error(t, err)
	})
}

func TestAccountPayable_MarkPaid(t *testing.T) {
	ap, err := NewAccountPayable(uuid.New(), uuid.New(), uuid.New(), decimal.NewFromInt(500))
	require.NoError(t, err)

	require.NoError(t, ap.MarkPaid())
	assert.Equal(t, PayableStatusPaid, ap.Status)
	require.NotNil(t, ap.PaidAt)

	err = ap.MarkPaid()
	require.Error(t, err)
	assert.True(t, errors.Is(err, shared.ErrAlreadyPaid))
}

func TestNewProvider(t *testing.T) {
	orgID := uuid.New()

	t.Run("creates provider", func(t *testing.T) {
		p, err := NewProvider(orgID, "Acme Supplies", "John Doe", "sales@acme.test")
		require.NoError(t, err)
		assert.Equal(t, "Acme Supplies", p.Name)
	})

	t.Run("fails with empty name", func(t *testing.T) {
		_, err := NewProvider(orgID, "", "", "")
		require.Error(t, err)
	})
}
