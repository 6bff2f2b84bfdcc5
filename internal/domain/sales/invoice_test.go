package sales

import (
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewInvoice(t *testing.T) {
	orgID := uuid.New()
	productA := uuid.New()
	productB := uuid.New()

	t.Run("creates paid invoice with snapshot lines", func(t *testing.T) {
		inv, err := NewInvoice(orgID, "INV-20260830-0001", "Walk-in", decimal.NewFromInt(35), []LineInput{
			{ProductID: productA, Quantity: 2, Price: decimal.NewFromInt(10)},
			{ProductID: productB, Quantity: 3, Price: decimal.NewFromInt(5)},
		})
		require.NoError(t, err)

		assert.Equal(t, InvoiceStatusPaid, inv.Status)
		assert.Equal(t, "INV-20260830-0001", inv.Number)
		assert.True(t, inv.Total.Equal(decimal.NewFromInt(35)))
		require.Len(t, inv.Items, 2)
		assert.True(t, inv.Items[0].Subtotal().Equal(decimal.NewFromInt(20)))
		assert.True(t, inv.ComputedTotal().Equal(decimal.NewFromInt(35)))
	})

	t.Run("total may diverge from computed line sum", func(t *testing.T) {
		// discounted override accepted at checkout
		inv, err := NewInvoice(orgID, "INV-1", "", decimal.NewFromInt(30), []LineInput{
			{ProductID: productA, Quantity: 2, Price: decimal.NewFromInt(10)},
			{ProductID: productB, Quantity: 3, Price: decimal.NewFromInt(5)},
		})
		require.NoError(t, err)

		assert.True(t, inv.Total.Equal(decimal.NewFromInt(30)))
		assert.True(t, inv.ComputedTotal().Equal(decimal.NewFromInt(35)))
	})

	t.Run("fails with empty number", func(t *testing.T) {
		_, err := NewInvoice(orgID, "", "", decimal.Zero, []LineInput{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(1)},
		})
		require.Error(t, err)
	})

	t.Run("fails with no lines", func(t *testing.T) {
		_, err := NewInvoice(orgID, "INV-1", "", decimal.Zero, nil)
		require.Error(t, err)
	})

	t.Run("fails with negative total", func(t *testing.T) {
		_, err := NewInvoice(orgID, "INV-1", "", decimal.NewFromInt(-1), []LineInput{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(1)},
		})
		require.Error(t, err)
	})

	t.Run("fails with invalid line values", func(t *testing.T) {
		_, err := NewInvoice(orgID, "INV-1", "", decimal.Zero, []LineInput{
			{ProductID: productA, Quantity: 0, Price: decimal.NewFromInt(1)},
		})
		require.Error(t, err)

		_, err = NewInvoice(orgID, "INV-1", "", decimal.Zero, []LineInput{
			{ProductID: productA, Quantity: 1, Price: decimal.NewFromInt(-1)},
		})
		require.Error(t, err)
	})
}
