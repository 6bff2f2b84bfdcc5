package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	auditapp "github.com/opsledger/backend/internal/application/audit"
	"github.com/opsledger/backend/internal/interfaces/http/dto"
)

// AuditHandler exposes the append-only audit ledger for reading
type AuditHandler struct {
	BaseHandler
	auditService *auditapp.Service
}

// NewAuditHandler creates a new AuditHandler
func NewAuditHandler(auditService *auditapp.Service) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// ListRecent godoc
// @Summary      List recent audit entries
// @Tags         audit
// @Produce      json
// @Param        page query int false "Page number" default(1)
// @Param        page_size query int false "Page size" default(50)
// @Param        search query string false "Filter by exact action or entity"
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse}
// @Security     BearerAuth
// @Router       /audit [get]
func (h *AuditHandler) ListRecent(c *gin.Context) {
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
	if req.PageSize == 0 {
		filter.PageSize = 50
	}

	entries, err := h.auditService.ListRecent(c.Request.Context(), identity, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}

// ListForEntity godoc
// @Summary      List audit entries for one entity
// @Tags         audit
// @Produce      json
// @Param        entity path string true "Entity type, e.g. product"
// @Param        id path string true "Entity ID" format(uuid)
// @Success      200 {object} dto.Response{data=[]auditapp.EntryResponse}
// @Security     BearerAuth
// @Router       /audit/{entity}/{id} [get]
func (h *AuditHandler) ListForEntity(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	entity := c.Param("entity")
	if entity == "" {
		h.BadRequest(c, "Entity type is required")
		return
	}

	entityID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid entity ID format")
		return
	}

	entries, err := h.auditService.ListForEntity(c.Request.Context(), identity, entity, entityID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, entries)
}
