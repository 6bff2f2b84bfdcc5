package cashier

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MovementType classifies a cash movement
type MovementType string

const (
	MovementIncome  MovementType = "INCOME"
	MovementExpense MovementType = "EXPENSE"
)

// IsValid checks if the type is a valid MovementType
func (t MovementType) IsValid() bool {
	return t == MovementIncome || t == MovementExpense
}

// CashMovement is an append-only cash ledger entry. SessionID is nil for
// movements not tied to a drawer, such as payroll expenses.
type CashMovement struct {
	ID             uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID       `gorm:"type:uuid;not null;index"`
	SessionID      *uuid.UUID      `gorm:"type:uuid;index"`
	Amount         decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	Type           MovementType    `gorm:"type:varchar(10);not null"`
	Description    string          `gorm:"type:varchar(500);not null"`
	CreatedAt      time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (CashMovement) TableName() string {
	return "cash_movements"
}

// NewCashMovement creates an append-only cash ledger entry
func NewCashMovement(organizationID uuid.UUID, sessionID *uuid.UUID, amount decimal.Decimal, movementType MovementType, description string) (*CashMovement, error) {
	if amount.LessThanOrEqual(decimal.Zero) {
		return nil, shared.NewDomainError("INVALID_AMOUNT", "Movement amount must be positive")
	}
	if !movementType.IsValid() {
		return nil, shared.NewDomainError("INVALID_TYPE", "Unknown movement type")
	}
	if description == "" {
		return nil, shared.NewDomainError("INVALID_DESCRIPTION", "Movement description cannot be empty")
	}

	return &CashMovement{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		SessionID:      sessionID,
		Amount:         amount,
		Type:           movementType,
		Description:    description,
		CreatedAt:      time.Now(),
	}, nil
}

// SignedAmount returns the amount with sign applied (INCOME positive, EXPENSE negative)
func (m *CashMovement) SignedAmount() decimal.Decimal {
	if m.Type == MovementExpense {
		return m.Amount.Neg()
	}
	return m.Amount
}
