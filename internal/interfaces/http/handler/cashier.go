package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	cashierapp "github.com/opsledger/backend/internal/application/cashier"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// CashierHandler handles cash session endpoints
type CashierHandler struct {
	BaseHandler
	sessionService *cashierapp.Service
}

// NewCashierHandler creates a new CashierHandler
func NewCashierHandler(sessionService *cashierapp.Service) *CashierHandler {
	return &CashierHandler{sessionService: sessionService}
}

// OpenSessionRequest represents a request to open a cash session
type OpenSessionRequest struct {
	OpeningAmount decimal.Decimal `json:"opening_amount" binding:"required"`
}

// CloseSessionRequest carries the counted drawer amount at close
type CloseSessionRequest struct {
	ClosingAmount decimal.Decimal `json:"closing_amount" binding:"required"`
}

// OpenSession godoc
// @Summary      Open a cash session
// @Description  Opens a session for the calling operator; at most one open session per operator
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        request body OpenSessionRequest true "Opening amount"
// @Success      201 {object} dto.Response{data=cashierapp.SessionResponse}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sessions [post]
func (h *CashierHandler) OpenSession(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req OpenSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	session, err := h.sessionService.OpenSession(c.Request.Context(), identity, req.OpeningAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, session)
}

// GetActiveSession godoc
// @Summary      Get the caller's open session
// @Tags         sessions
// @Produce      json
// @Success      200 {object} dto.Response{data=cashierapp.SessionResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sessions/active [get]
func (h *CashierHandler) GetActiveSession(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	session, err := h.sessionService.GetActiveSession(c.Request.Context(), identity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, session)
}

// CloseSession godoc
// @Summary      Close a cash session
// @Description  Computes the expected amount from recorded movements and reports the variance
// @Tags         sessions
// @Accept       json
// @Produce      json
// @Param        id path string true "Session ID" format(uuid)
// @Param        request body CloseSessionRequest true "Counted amount"
// @Success      200 {object} dto.Response{data=cashierapp.CloseSessionResult}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Security     BearerAuth
// @Router       /sessions/{id}/close [post]
func (h *CashierHandler) CloseSession(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	sessionID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid session ID format")
		return
	}

	var req CloseSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BindError(c, err)
		return
	}

	result, err := h.sessionService.CloseSession(c.Request.Context(), identity, sessionID, req.ClosingAmount)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// ListSessions godoc
// @Summary      List cash sessions
// @Tags         sessions
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(20)
// @Success      200 {object} dto.Response{data=[]cashierapp.SessionResponse}
// @Security     BearerAuth
// @Router       /sessions [get]
func (h *CashierHandler) ListSessions(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BindError(c, err)
		return
	}

	sessions, err := h.sessionService.ListSessions(c.Request.Context(), identity, req.ToFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, sessions)
}
