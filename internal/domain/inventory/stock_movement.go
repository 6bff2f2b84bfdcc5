package inventory

import (
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// MovementDirection marks a stock movement as inbound or outbound
type MovementDirection string

const (
	MovementIn  MovementDirection = "IN"
	MovementOut MovementDirection = "OUT"
)

// IsValid checks if the direction is a valid MovementDirection
func (d MovementDirection) IsValid() bool {
	return d == MovementIn || d == MovementOut
}

// MovementReason records why stock changed
type MovementReason string

const (
	ReasonSale       MovementReason = "SALE"
	ReasonPurchase   MovementReason = "PURCHASE"
	ReasonAdjustment MovementReason = "ADJUSTMENT"
)

// IsValid checks if the reason is a valid MovementReason
func (r MovementReason) IsValid() bool {
	switch r {
	case ReasonSale, ReasonPurchase, ReasonAdjustment:
		return true
	}
	return false
}

// StockMovement is the immutable record of a single quantity change.
// One movement is appended for every stock mutation; the signed quantities
// for a product sum to its stock delta.
type StockMovement struct {
	ID             uuid.UUID         `gorm:"type:uuid;primary_key"`
	OrganizationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	Quantity       int               `gorm:"not null"`
	Direction      MovementDirection `gorm:"type:varchar(10);not null"`
	Reason         MovementReason    `gorm:"type:varchar(20);not null"`
	CreatedAt      time.Time         `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StockMovement) TableName() string {
	return "stock_movements"
}

// NewStockMovement creates an immutable movement record
func NewStockMovement(organizationID, productID uuid.UUID, quantity int, direction MovementDirection, reason MovementReason) (*StockMovement, error) {
	if productID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
	}
	if quantity <= 0 {
		return nil, shared.NewDomainError("INVALID_QUANTITY", "Movement quantity must be positive")
	}
	if !direction.IsValid() {
		return nil, shared.NewDomainError("INVALID_DIRECTION", "Unknown movement direction")
	}
	if !reason.IsValid() {
		return nil, shared.NewDomainError("INVALID_REASON", "Unknown movement reason")
	}

	return &StockMovement{
		ID:             uuid.New(),
		OrganizationID: organizationID,
		ProductID:      productID,
		Quantity:       quantity,
		Direction:      direction,
		Reason:         reason,
		CreatedAt:      time.Now(),
	}, nil
}

// SignedQuantity returns the quantity with direction applied (IN positive, OUT negative)
func (m *StockMovement) SignedQuantity() int {
	if m.Direction == MovementOut {
		return -m.Quantity
	}
	return m.Quantity
}
