package sales

import (
	"time"

	"github.com/opsledger/backend/internal/domain/sales"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CheckoutLine is one (product, quantity) line submitted at checkout
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutInput carries a checkout request.
//
// TotalOverride is a trust boundary: the presentation layer may apply a
// discount and submit the discounted total. It is accepted only when it
// does not exceed the computed line sum and stays within the configured
// tolerance below it.
type CheckoutInput struct {
	Lines          []CheckoutLine
	Customer       string
	TotalOverride  *decimal.Decimal
	SessionID      *uuid.UUID
	IdempotencyKey string
}

// InvoiceItemResponse is the read model for an invoice line
type InvoiceItemResponse struct {
	ProductID uuid.UUID       `json:"product_id"`
	Quantity  int             `json:"quantity"`
	Price     decimal.Decimal `json:"price"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// InvoiceResponse is the read model for an invoice
type InvoiceResponse struct {
	ID        uuid.UUID             `json:"id"`
	Number    string                `json:"number"`
	Customer  string                `json:"customer,omitempty"`
	Total     decimal.Decimal       `json:"total"`
	Status    string                `json:"status"`
	Items     []InvoiceItemResponse `json:"items"`
	CreatedAt time.Time             `json:"created_at"`
}

// ToInvoiceResponse converts an invoice aggregate to its read model
func ToInvoiceResponse(inv *sales.Invoice) InvoiceResponse {
	items := make([]InvoiceItemResponse, len(inv.Items))
	for i := range inv.Items {
		items[i] = InvoiceItemResponse{
			ProductID: inv.Items[i].ProductID,
			Quantity:  inv.Items[i].Quantity,
			Price:     inv.Items[i].Price,
			Subtotal:  inv.Items[i].Subtotal(),
		}
	}
	return InvoiceResponse{
		ID:        inv.ID,
		Number:    inv.Number,
		Customer:  inv.Customer,
		Total:     inv.Total,
		Status:    string(inv.Status),
		Items:     items,
		CreatedAt: inv.CreatedAt,
	}
}

// ToInvoiceResponses converts a slice of invoices
func ToInvoiceResponses(invoices []sales.Invoice) []InvoiceResponse {
	responses := make([]InvoiceResponse, len(invoices))
	for i := range invoices {
		responses[i] = ToInvoiceResponse(&invoices[i])
	}
	return responses
}
