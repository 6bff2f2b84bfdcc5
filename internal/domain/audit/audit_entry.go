package audit

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Action names the mutating operation that produced an entry
type Action string

const (
	ActionCreateProduct        Action = "CREATE_PRODUCT"
	ActionSaleStockDecrement   Action = "SALE_STOCK_DECREMENT"
	ActionReceiveStock         Action = "RECEIVE_STOCK"
	ActionCreateSale           Action = "CREATE_SALE"
	ActionOpenSession          Action = "OPEN_SESSION"
	ActionCloseSession         Action = "CLOSE_SESSION"
	ActionCreatePayroll        Action = "CREATE_PAYROLL"
	ActionPayPayroll           Action = "PAY_PAYROLL"
	ActionCreatePurchaseOrder  Action = "CREATE_PURCHASE_ORDER"
	ActionReceivePurchaseOrder Action = "RECEIVE_PURCHASE_ORDER"
	ActionPayPayable           Action = "PAY_PAYABLE"
)

// Snapshot is a structured before/after state capture. Entries keep their
// insertion order so stored snapshots diff deterministically; values are
// serialized only at the storage boundary, never compared as strings.
type Snapshot struct {
	fields []SnapshotField
}

// SnapshotField is one captured field
type SnapshotField struct {
	Key   string `json:"key"`
	Value any    `json:"value"`
}

// NewSnapshot creates an empty snapshot
func NewSnapshot() *Snapshot {
	return &Snapshot{fields: make([]SnapshotField, 0, 4)}
}

// Set records a field value, replacing any earlier value for the key
func (s *Snapshot) Set(key string, value any) *Snapshot {
	for i := range s.fields {
		if s.fields[i].Key == key {
			s.fields[i].Value = value
			return s
		}
	}
	s.fields = append(s.fields, SnapshotField{Key: key, Value: value})
	return s
}

// Get returns the value for a key and whether it was captured
func (s *Snapshot) Get(key string) (any, bool) {
	for i := range s.fields {
		if s.fields[i].Key == key {
			return s.fields[i].Value, true
		}
	}
	return nil, false
}

// Fields returns the captured fields in insertion order
func (s *Snapshot) Fields() []SnapshotField {
	if s == nil {
		return nil
	}
	return s.fields
}

// IsEmpty returns true when nothing was captured
func (s *Snapshot) IsEmpty() bool {
	return s == nil || len(s.fields) == 0
}

// Entry is one immutable audit ledger record. It is written in the same
// transaction as the business mutation it describes, so a rollback of the
// mutation also discards the entry.
type Entry struct {
	ID             uuid.UUID
	OrganizationID uuid.UUID
	UserID         uuid.UUID
	Action         Action
	Entity         string
	EntityID       uuid.UUID
	OldValue       *Snapshot
	NewValue       *Snapshot
	CreatedAt      time.Time
}

// NewEntry creates an audit entry stamped with the acting identity
func NewEntry(identity shared.Identity, action Action, entity string, entityID uuid.UUID, oldValue, newValue *Snapshot) (*Entry, error) {
	if err := identity.Validate(); err != nil {
		return nil, err
	}
	if action == "" {
		return nil, shared.NewDomainError("INVALID_ACTION", "Audit action cannot be empty")
	}
	if entity == "" {
		return nil, shared.NewDomainError("INVALID_ENTITY", "Audit entity cannot be empty")
	}

	return &Entry{
		ID:             uuid.New(),
		OrganizationID: identity.OrganizationID,
		UserID:         identity.UserID,
		Action:         action,
		Entity:         entity,
		EntityID:       entityID,
		OldValue:       oldValue,
		NewValue:       newValue,
		CreatedAt:      time.Now(),
	}, nil
}
