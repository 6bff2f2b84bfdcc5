package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	salesapp "github.com/opsledger/backend/internal/application/sales"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// SalesHandler handles checkout and invoice endpoints
type SalesHandler struct {
	BaseHandler
	checkoutService *salesapp.CheckoutService
}

// NewSalesHandler creates a new SalesHandler
func NewSalesHandler(checkoutService *salesapp.CheckoutService) *SalesHandler {
	return &SalesHandler{checkoutService: checkoutService}
}

// CheckoutLineRequest is one (product, quantity) line at checkout
type CheckoutLineRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CheckoutRequest represents a point-of-sale checkout
type CheckoutRequest struct {
	Lines     []CheckoutLineRequest `json:"lines" binding:"required,min=1,dive"`
	Customer  string                `json:"customer" binding:"max=200"`
	Total     *decimal.Decimal      `json:"total"`
	SessionID *uuid.UUID            `json:"session_id"`
}

// Checkout godoc
// @Summary      Check out a sale
// @Description  Atomically deducts stock, issues the invoice and records the cash movement
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        Idempotency-Key header string false "Idempotency key; replays are rejected"
// @Param        request body CheckoutRequest true "Checkout request"
// @Success      201 {object} dto.Response{data=salesapp.InvoiceResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/checkout [post]
func (h *SalesHandler) Checkout(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req CheckoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	lines := make([]salesapp.CheckoutLine, len(req.Lines))
	for i, line := range req.Lines {
		lines[i] = salesapp.CheckoutLine{ProductID: line.ProductID, Quantity: line.Quantity}
	}

	invoice, err := h.checkoutService.Checkout(c.Request.Context(), identity, salesapp.CheckoutInput{
		Lines:          lines,
		Customer:       req.Customer,
		TotalOverride:  req.Total,
		SessionID:      req.SessionID,
		IdempotencyKey: c.GetHeader("Idempotency-Key"),
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, invoice)
}

// GetInvoice godoc
// @Summary      Get an invoice by number
// @Tags         sales
// @Produce      json
// @Param        number path string true "Invoice number"
// @Success      200 {object} dto.Response{data=salesapp.InvoiceResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sales/invoices/{number} [get]
func (h *SalesHandler) GetInvoice(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	number := c.Param("number")
	if number == "" {
		h.BadRequest(c, "Invoice number is required")
		return
	}

	invoice, err := h.checkoutService.GetInvoice(c.Request.Context(), identity, number)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoice)
}

// ListInvoices godoc
// @Summary      List invoices
// @Tags         sales
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by number or customer"
// @Success      200 {object} dto.Response{data=[]salesapp.InvoiceResponse}
// @Security     BearerAuth
// @Router       /sales/invoices [get]
func (h *SalesHandler) ListInvoices(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	invoices, err := h.checkoutService.ListInvoices(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, invoices)
}
