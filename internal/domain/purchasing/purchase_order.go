package purchasing

import (
	"fmt"
	"time"

	"github.com/opsledger/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// PurchaseOrderStatus represents the status of a purchase order
type PurchaseOrderStatus string

const (
	PurchaseOrderStatusOrdered           PurchaseOrderStatus = "ORDERED"
	PurchaseOrderStatusPartiallyReceived PurchaseOrderStatus = "PARTIALLY_RECEIVED"
	PurchaseOrderStatusReceived          PurchaseOrderStatus = "RECEIVED"
)

// IsValid checks if the status is a valid PurchaseOrderStatus
func (s PurchaseOrderStatus) IsValid() bool {
	switch s {
	case PurchaseOrderStatusOrdered, PurchaseOrderStatusPartiallyReceived, PurchaseOrderStatusReceived:
		return true
	}
	return false
}

// String returns the string representation of PurchaseOrderStatus
func (s PurchaseOrderStatus) String() string {
	return string(s)
}

// CanReceive returns true if receiving goods is allowed in this status
func (s PurchaseOrderStatus) CanReceive() bool {
	return s == PurchaseOrderStatusOrdered || s == PurchaseOrderStatusPartiallyReceived
}

// PurchaseOrderItem is a line on a purchase order. Cost is the quoted cost
// per unit and feeds the weighted-average recompute on receipt;
// QuantityReceived accumulates across receiving events.
type PurchaseOrderItem struct {
	ID               uuid.UUID       `gorm:"type:uuid;primary_key"`
	OrderID          uuid.UUID       `gorm:"type:uuid;not null;index"`
	ProductID        uuid.UUID       `gorm:"type:uuid;not null"`
	QuantityOrdered  int             `gorm:"not null"`
	QuantityReceived int             `gorm:"not null;default:0"`
	Cost             decimal.Decimal `gorm:"type:decimal(18,4);not null"`
	CreatedAt        time.Time       `gorm:"not null"`
	UpdatedAt        time.Time       `gorm:"not null"`
}

// TableName returns the table name for GORM
func (PurchaseOrderItem) TableName() string {
	return "purchase_order_items"
}

// RemainingQuantity returns the quantity still to be received
func (i *PurchaseOrderItem) RemainingQuantity() int {
	remaining := i.QuantityOrdered - i.QuantityReceived
	if remaining < 0 {
		return 0
	}
	return remaining
}

// IsFullyReceived returns true if all ordered quantity has been received
func (i *PurchaseOrderItem) IsFullyReceived() bool {
	return i.QuantityReceived >= i.QuantityOrdered
}

// PurchaseOrder is the aggregate for a supplier order from placement to
// receipt. ORDERED -> PARTIALLY_RECEIVED -> RECEIVED are the only forward
// transitions and RECEIVED is terminal.
type PurchaseOrder struct {
	shared.TenantAggregateRoot
	Number     string              `gorm:"type:varchar(50);not null;uniqueIndex:idx_purchase_order_org_number,priority:2"`
	ProviderID uuid.UUID           `gorm:"type:uuid;not null;index"`
	Items      []PurchaseOrderItem `gorm:"foreignKey:OrderID;references:ID"`
	Total      decimal.Decimal     `gorm:"type:decimal(18,4);not null"`
	Status     PurchaseOrderStatus `gorm:"type:varchar(20);not null;default:'ORDERED'"`
	ReceivedAt *time.Time
}

// TableName returns the table name for GORM
func (PurchaseOrder) TableName() string {
	return "purchase_orders"
}

// OrderLineInput is one (product, quantity, cost) line when placing an order
type OrderLineInput struct {
	ProductID uuid.UUID
	Quantity  int
	Cost      decimal.Decimal
}

// NewPurchaseOrder places an order with its lines; total = sum(quantity * cost)
func NewPurchaseOrder(organizationID uuid.UUID, number string, providerID uuid.UUID, lines []OrderLineInput) (*PurchaseOrder, error) {
	if number == "" {
		return nil, shared.NewDomainError("INVALID_NUMBER", "Order number cannot be empty")
	}
	if providerID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_PROVIDER", "Provider ID cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewDomainError("INVALID_ITEMS", "Purchase order must have at least one line")
	}

	order := &PurchaseOrder{
		TenantAggregateRoot: shared.NewTenantAggregateRoot(organizationID),
		Number:              number,
		ProviderID:          providerID,
		Items:               make([]PurchaseOrderItem, 0, len(lines)),
		Total:               decimal.Zero,
		Status:              PurchaseOrderStatusOrdered,
	}

	now := time.Now()
	seen := make(map[uuid.UUID]bool, len(lines))
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return nil, shared.NewDomainError("INVALID_PRODUCT", "Product ID cannot be empty")
		}
		if seen[line.ProductID] {
			return nil, shared.NewDomainError("DUPLICATE_PRODUCT", "Product appears more than once in order")
		}
		seen[line.ProductID] = true
		if line.Quantity <= 0 {
			return nil, shared.NewDomainError("INVALID_QUANTITY", "Line quantity must be positive")
		}
		if line.Cost.IsNegative() {
			return nil, shared.NewDomainError("INVALID_COST", "Line cost cannot be negative")
		}

		order.Items = append(order.Items, PurchaseOrderItem{
			ID:              uuid.New(),
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			QuantityOrdered: line.Quantity,
			Cost:            line.Cost,
			CreatedAt:       now,
			UpdatedAt:       now,
		})
		order.Total = order.Total.Add(line.Cost.Mul(decimal.NewFromInt(int64(line.Quantity))))
	}

	return order, nil
}

// FindItem returns the order line for a product, or nil when absent
func (o *PurchaseOrder) FindItem(productID uuid.UUID) *PurchaseOrderItem {
	for i := range o.Items {
		if o.Items[i].ProductID == productID {
			return &o.Items[i]
		}
	}
	return nil
}

// ReceiveLine accumulates a received quantity on the matching order line.
// Receiving is only allowed while the order status permits it, and a line
// can never receive beyond its ordered quantity.
func (o *PurchaseOrder) ReceiveLine(productID uuid.UUID, quantity int) error {
	if !o.Status.CanReceive() {
		return shared.ErrAlreadyReceived
	}
	if quantity <= 0 {
		return shared.NewDomainError("INVALID_QUANTITY", "Receive quantity must be positive")
	}

	item := o.FindItem(productID)
	if item == nil {
		return shared.NewDomainError("LINE_NOT_FOUND", "Product is not on this purchase order")
	}
	if quantity > item.RemainingQuantity() {
		return shared.NewDomainError("QUANTITY_EXCEEDED",
			fmt.Sprintf("Cannot receive %d, only %d remaining", quantity, item.RemainingQuantity()))
	}

	item.QuantityReceived += quantity
	item.UpdatedAt = time.Now()

	return nil
}

// SettleReceipt resolves the order status after a receiving event:
// RECEIVED when every line is complete, PARTIALLY_RECEIVED otherwise.
func (o *PurchaseOrder) SettleReceipt() {
	now := time.Now()
	if o.IsFullyReceived() {
		o.Status = PurchaseOrderStatusReceived
		o.ReceivedAt = &now
	} else {
		o.Status = PurchaseOrderStatusPartiallyReceived
	}
	o.UpdatedAt = now
	o.IncrementVersion()
}

// IsFullyReceived returns true when every line has been fully received
func (o *PurchaseOrder) IsFullyReceived() bool {
	for i := range o.Items {
		if !o.Items[i].IsFullyReceived() {
			return false
		}
	}
	return true
}
