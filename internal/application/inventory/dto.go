package inventory

import (
	"time"

	"github.com/opsledger/backend/internal/domain/inventory"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CreateProductInput carries the fields for product registration
type CreateProductInput struct {
	SKU         string
	Name        string
	Category    string
	Price       decimal.Decimal
	Stock       int
	MinStock    int
	InitialCost decimal.Decimal
}

// ProductResponse is the read model for a product
type ProductResponse struct {
	ID          uuid.UUID       `json:"id"`
	SKU         string          `json:"sku"`
	Name        string          `json:"name"`
	Category    string          `json:"category,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
	AverageCost decimal.Decimal `json:"average_cost"`
	LowStock    bool            `json:"low_stock"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

// ToProductResponse converts a product aggregate to its read model
func ToProductResponse(p *inventory.Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SKU:         p.SKU,
		Name:        p.Name,
		Category:    p.Category,
		Price:       p.Price,
		Stock:       p.Stock,
		MinStock:    p.MinStock,
		AverageCost: p.AverageCost,
		LowStock:    p.IsLowStock(),
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

// ToProductResponses converts a slice of products
func ToProductResponses(products []inventory.Product) []ProductResponse {
	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses
}

// StockMovementResponse is the read model for a stock movement
type StockMovementResponse struct {
	ID        uuid.UUID `json:"id"`
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
	Direction string    `json:"direction"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"created_at"`
}

// ToStockMovementResponses converts a slice of movements
func ToStockMovementResponses(movements []inventory.StockMovement) []StockMovementResponse {
	responses := make([]StockMovementResponse, len(movements))
	for i, m := range movements {
		responses[i] = StockMovementResponse{
			ID:        m.ID,
			ProductID: m.ProductID,
			Quantity:  m.Quantity,
			Direction: string(m.Direction),
			Reason:    string(m.Reason),
			CreatedAt: m.CreatedAt,
		}
	}
	return responses
}
