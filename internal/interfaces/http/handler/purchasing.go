package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	purchasingapp "github.com/opsledger/backend/internal/application/purchasing"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// PurchasingHandler handles provider, purchase order and payable endpoints
type PurchasingHandler struct {
	BaseHandler
	purchasingService *purchasingapp.Service
}

// NewPurchasingHandler creates a new PurchasingHandler
func NewPurchasingHandler(purchasingService *purchasingapp.Service) *PurchasingHandler {
	return &PurchasingHandler{purchasingService: purchasingService}
}

// CreateProvider godoc
// @Summary      Register a provider
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateProviderInput true "Provider registration request"
// @Success      201 {object} dto.Response{data=purchasingapp.ProviderResponse}
// @Security     BearerAuth
// @Router       /purchasing/providers [post]
func (h *PurchasingHandler) CreateProvider(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var input purchasingapp.CreateProviderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	provider, err := h.purchasingService.CreateProvider(c.Request.Context(), identity, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, provider)
}

// ListProviders godoc
// @Summary      List providers
// @Tags         purchasing
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Param        search query string false "Search by name, contact or email"
// @Success      200 {object} dto.Response{data=[]purchasingapp.ProviderResponse}
// @Security     BearerAuth
// @Router       /purchasing/providers [get]
func (h *PurchasingHandler) ListProviders(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	providers, err := h.purchasingService.ListProviders(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, providers)
}

// CreateOrder godoc
// @Summary      Create a purchase order
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.CreateOrderInput true "Order creation request"
// @Success      201 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Security     BearerAuth
// @Router       /purchasing/orders [post]
func (h *PurchasingHandler) CreateOrder(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var input purchasingapp.CreateOrderInput
	if err := c.ShouldBindJSON(&input); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.purchasingService.CreateOrder(c.Request.Context(), identity, input)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, order)
}

// GetOrder godoc
// @Summary      Get a purchase order by ID
// @Tags         purchasing
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchasing/orders/{id} [get]
func (h *PurchasingHandler) GetOrder(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	order, err := h.purchasingService.GetOrder(c.Request.Context(), identity, orderID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListOrders godoc
// @Summary      List purchase orders
// @Tags         purchasing
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]purchasingapp.OrderResponse}
// @Security     BearerAuth
// @Router       /purchasing/orders [get]
func (h *PurchasingHandler) ListOrders(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	orders, err := h.purchasingService.ListOrders(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, orders)
}

// ReceiveOrderRequest carries the lines received against an order. Empty
// lines means receive everything still outstanding.
type ReceiveOrderRequest struct {
	Lines []purchasingapp.ReceiveLine `json:"lines" binding:"dive"`
}

// ReceiveOrder godoc
// @Summary      Receive goods against a purchase order
// @Description  Applies received quantities to stock and average cost; full receipt opens the payable
// @Tags         purchasing
// @Accept       json
// @Produce      json
// @Param        id path string true "Order ID" format(uuid)
// @Param        request body ReceiveOrderRequest true "Received lines; empty receives the remainder"
// @Success      200 {object} dto.Response{data=purchasingapp.OrderResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchasing/orders/{id}/receive [post]
func (h *PurchasingHandler) ReceiveOrder(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	orderID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid order ID format")
		return
	}

	var req ReceiveOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	order, err := h.purchasingService.ReceiveOrder(c.Request.Context(), identity, purchasingapp.ReceiveOrderInput{
		OrderID: orderID,
		Lines:   req.Lines,
	})
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, order)
}

// ListPayables godoc
// @Summary      List accounts payable
// @Tags         purchasing
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]purchasingapp.PayableResponse}
// @Security     BearerAuth
// @Router       /purchasing/payables [get]
func (h *PurchasingHandler) ListPayables(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	payables, err := h.purchasingService.ListPayables(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payables)
}

// PayPayable godoc
// @Summary      Settle an account payable
// @Description  Marks the payable PAID; settling twice is rejected
// @Tags         purchasing
// @Produce      json
// @Param        id path string true "Payable ID" format(uuid)
// @Success      200 {object} dto.Response{data=purchasingapp.PayableResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /purchasing/payables/{id}/pay [post]
func (h *PurchasingHandler) PayPayable(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	payableID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid payable ID format")
		return
	}

	payable, err := h.purchasingService.PayPayable(c.Request.Context(), identity, payableID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, payable)
}
