package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	inventoryapp "github.com/opsledger/backend/internal/application/inventory"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// InventoryHandler handles product and stock endpoints
type InventoryHandler struct {
	BaseHandler
	inventoryService *inventoryapp.Service
}

// NewInventoryHandler creates a new InventoryHandler
func NewInventoryHandler(inventoryService *inventoryapp.Service) *InventoryHandler {
	return &InventoryHandler{inventoryService: inventoryService}
}

// CreateProductRequest represents a request to register a product
type CreateProductRequest struct {
	SKU         string          `json:"sku" binding:"required,min=1,max=64"`
	Name        string          `json:"name" binding:"required,min=1,max=200"`
	Category    string          `json:"category" binding:"max=100"`
	Price       decimal.Decimal `json:"price" binding:"required"`
	Stock       int             `json:"stock" binding:"min=0"`
	MinStock    int             `json:"min_stock" binding:"min=0"`
	InitialCost decimal.Decimal `json:"initial_cost"`
}

// ReceiveStockRequest represents a direct stock receipt outside purchasing
type ReceiveStockRequest struct {
	Quantity int             `json:"quantity" binding:"required,gt=0"`
	UnitCost decimal.Decimal `json:"unit_cost" binding:"required"`
}

// CreateProduct godoc
// @Summary      Register a product
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        request body CreateProductRequest true "Product registration request"
// @Success      201 {object} dto.Response{data=inventoryapp.ProductResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/products [post]
func (h *InventoryHandler) CreateProduct(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.inventoryService.CreateProduct(c.Request.Context(), identity, inventoryapp.CreateProductInput{
		SKU:         req.SKU,
		Name:        req.Name,
		Category:    req.Category,
		Price:       req.Price,
		Stock:       req.Stock,
		MinStock:    req.MinStock,
		InitialCost: req.InitialCost,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, product)
}

// GetProduct godoc
// @Summary      Get a product by ID
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Success      200 {object} dto.Response{data=inventoryapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/products/{id} [get]
func (h *InventoryHandler) GetProduct(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	product, err := h.inventoryService.GetProduct(c.Request.Context(), identity, productID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListProducts godoc
// @Summary      List products
// @Tags         inventory
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name, SKU or category"
// @Param        order_by query string false "Sort field"
// @Param        order_dir query string false "Sort direction" Enums(asc, desc)
// @Success      200 {object} dto.Response{data=[]inventoryapp.ProductResponse,meta=dto.Meta}
// @Security     BearerAuth
// @Router       /inventory/products [get]
func (h *InventoryHandler) ListProducts(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}
	filter := req.ToFilter()

	products, total, err := h.inventoryService.ListProducts(c.Request.Context(), identity, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// ReceiveStock godoc
// @Summary      Receive stock for a product
// @Description  Adds stock at a unit cost and recomputes the weighted average cost
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        request body ReceiveStockRequest true "Receipt"
// @Success      200 {object} dto.Response{data=inventoryapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /inventory/products/{id}/receive [post]
func (h *InventoryHandler) ReceiveStock(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req ReceiveStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	product, err := h.inventoryService.ReceiveStock(c.Request.Context(), identity, productID, req.Quantity, req.UnitCost)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, product)
}

// ListMovements godoc
// @Summary      List stock movements for a product
// @Tags         inventory
// @Produce      json
// @Param        id path string true "Product ID" format(uuid)
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]inventoryapp.StockMovementResponse}
// @Security     BearerAuth
// @Router       /inventory/products/{id}/movements [get]
func (h *InventoryHandler) ListMovements(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	productID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID format")
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	movements, err := h.inventoryService.ListMovements(c.Request.Context(), identity, productID, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, movements)
}
