package purchasing

import (
	"time"

	"github.com/opsledger/backend/internal/domain/purchasing"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProviderInput carries the data to register a provider
type CreateProviderInput struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Contact string `json:"contact" binding:"max=200"`
	Email   string `json:"email" binding:"omitempty,email,max=200"`
}

// ProviderResponse is the read model for a provider
type ProviderResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Contact   string    `json:"contact,omitempty"`
	Email     string    `json:"email,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ToProviderResponse converts a Provider to its read model
func ToProviderResponse(p *purchasing.Provider) ProviderResponse {
	return ProviderResponse{
		ID:        p.ID,
		Name:      p.Name,
		Contact:   p.Contact,
		Email:     p.Email,
		CreatedAt: p.CreatedAt,
	}
}

// ToProviderResponses converts a slice of providers
func ToProviderResponses(providers []purchasing.Provider) []ProviderResponse {
	responses := make([]ProviderResponse, len(providers))
	for i := range providers {
		responses[i] = ToProviderResponse(&providers[i])
	}
	return responses
}

// OrderLine is one requested (product, quantity, cost) line
type OrderLine struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	Cost      decimal.Decimal `json:"cost" binding:"required"`
}

// CreateOrderInput carries the data to place a purchase order
type CreateOrderInput struct {
	ProviderID uuid.UUID   `json:"provider_id" binding:"required"`
	Lines      []OrderLine `json:"lines" binding:"required,min=1,dive"`
}

// ReceiveLine is one received (product, quantity) pair in a receiving event
type ReceiveLine struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// ReceiveOrderInput carries a receiving event against an order. An empty
// Lines slice means receive all remaining quantities in full.
type ReceiveOrderInput struct {
	OrderID uuid.UUID     `json:"order_id" binding:"required"`
	Lines   []ReceiveLine `json:"lines" binding:"dive"`
}

// OrderItemResponse is the read model for a purchase order line
type OrderItemResponse struct {
	ProductID        uuid.UUID       `json:"product_id"`
	QuantityOrdered  int             `json:"quantity_ordered"`
	QuantityReceived int             `json:"quantity_received"`
	Cost             decimal.Decimal `json:"cost"`
}

// OrderResponse is the read model for a purchase order
type OrderResponse struct {
	ID         uuid.UUID           `json:"id"`
	Number     string              `json:"number"`
	ProviderID uuid.UUID           `json:"provider_id"`
	Items      []OrderItemResponse `json:"items"`
	Total      decimal.Decimal     `json:"total"`
	Status     string              `json:"status"`
	ReceivedAt *time.Time          `json:"received_at,omitempty"`
	CreatedAt  time.Time           `json:"created_at"`
}

// ToOrderResponse converts a PurchaseOrder to its read model
func ToOrderResponse(o *purchasing.PurchaseOrder) OrderResponse {
	items := make([]OrderItemResponse, len(o.Items))
	for i := range o.Items {
		items[i] = OrderItemResponse{
			ProductID:        o.Items[i].ProductID,
			QuantityOrdered:  o.Items[i].QuantityOrdered,
			QuantityReceived: o.Items[i].QuantityReceived,
			Cost:             o.Items[i].Cost,
		}
	}
	return OrderResponse{
		ID:         o.ID,
		Number:     o.Number,
		ProviderID: o.ProviderID,
		Items:      items,
		Total:      o.Total,
		Status:     string(o.Status),
		ReceivedAt: o.ReceivedAt,
		CreatedAt:  o.CreatedAt,
	}
}

// ToOrderResponses converts a slice of purchase orders
func ToOrderResponses(orders []purchasing.PurchaseOrder) []OrderResponse {
	responses := make([]OrderResponse, len(orders))
	for i := range orders {
		responses[i] = ToOrderResponse(&orders[i])
	}
	return responses
}

// PayableResponse is the read model for an account payable
type PayableResponse struct {
	ID         uuid.UUID       `json:"id"`
	ProviderID uuid.UUID       `json:"provider_id"`
	OrderID    uuid.UUID       `json:"order_id"`
	Amount     decimal.Decimal `json:"amount"`
	DueDate    time.Time       `json:"due_date"`
	Status     string          `json:"status"`
	Overdue    bool            `json:"overdue"`
	PaidAt     *time.Time      `json:"paid_at,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}

// ToPayableResponse converts an AccountPayable to its read model
func ToPayableResponse(ap *purchasing.AccountPayable) PayableResponse {
	return PayableResponse{
		ID:         ap.ID,
		ProviderID: ap.ProviderID,
		OrderID:    ap.OrderID,
		Amount:     ap.Amount,
		DueDate:    ap.DueDate,
		Status:     string(ap.Status),
		Overdue:    ap.IsOverdue(),
		PaidAt:     ap.PaidAt,
		CreatedAt:  ap.CreatedAt,
	}
}

// ToPayableResponses converts a slice of payables
func ToPayableResponses(payables []purchasing.AccountPayable) []PayableResponse {
	responses := make([]PayableResponse, len(payables))
	for i := range payables {
		responses[i] = ToPayableResponse(&payables[i])
	}
	return responses
}
