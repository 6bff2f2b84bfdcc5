package persistence

import (
	"encoding/json"
	"testing"

	"github.com/opsledger/backend/internal/domain/audit"
	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testIdentity(t *testing.T) shared.Identity {
	t.Helper()
	identity, err := shared.NewIdentity(uuid.New(), uuid.New(), shared.RoleAdmin)
	require.NoError(t, err)
	return identity
}

func TestAuditEntryModel_RoundTrip(t *testing.T) {
	t.Run("serializes snapshots to JSON and back", func(t *testing.T) {
		identity := testIdentity(t)
		entityID := uuid.New()

		oldValue := audit.NewSnapshot().Set("status", "ORDERED")
		newValue := audit.NewSnapshot().
			Set("status", "RECEIVED").
			Set("received_amount", "120.5")

		entry, err := audit.NewEntry(identity, audit.ActionReceivePurchaseOrder,
			"purchase_order", entityID, oldValue, newValue)
		require.NoError(t, err)

		model, err := toAuditModel(entry)
		require.NoError(t, err)

		assert.Equal(t, entry.ID, model.ID)
		assert.Equal(t, identity.OrganizationID, model.OrganizationID)
		assert.Equal(t, identity.UserID, model.UserID)
		assert.Equal(t, "RECEIVE_PURCHASE_ORDER", model.Action)
		assert.NotEmpty(t, model.OldValue)
		assert.NotEmpty(t, model.NewValue)

		restored, err := toAuditEntry(model)
		require.NoError(t, err)

		assert.Equal(t, entry.ID, restored.ID)
		assert.Equal(t, entry.Action, restored.Action)

		status, ok := restored.NewValue.Get("status")
		require.True(t, ok)
		assert.Equal(t, "RECEIVED", status)
	})

	t.Run("snapshot JSON keeps field order", func(t *testing.T) {
		identity := testIdentity(t)

		snapshot := audit.NewSnapshot().
			Set("number", "INV-2026-00001").
			Set("total", "45.00").
			Set("status", "PAID")

		entry, err := audit.NewEntry(identity, audit.ActionCreateSale,
			"invoice", uuid.New(), nil, snapshot)
		require.NoError(t, err)

		model, err := toAuditModel(entry)
		require.NoError(t, err)

		var fields []audit.SnapshotField
		require.NoError(t, json.Unmarshal(model.NewValue, &fields))
		require.Len(t, fields, 3)
		assert.Equal(t, "number", fields[0].Key)
		assert.Equal(t, "total", fields[1].Key)
		assert.Equal(t, "status", fields[2].Key)
	})

	t.Run("nil snapshots stay nil through the round trip", func(t *testing.T) {
		identity := testIdentity(t)

		entry, err := audit.NewEntry(identity, audit.ActionCreateProduct,
			"product", uuid.New(), nil, audit.NewSnapshot().Set("sku", "SKU-001"))
		require.NoError(t, err)

		model, err := toAuditModel(entry)
		require.NoError(t, err)
		assert.Empty(t, model.OldValue)

		restored, err := toAuditEntry(model)
		require.NoError(t, err)
		assert.Nil(t, restored.OldValue)
		assert.NotNil(t, restored.NewValue)
	})
}
