package handler

import (
	"github.com/gin-gonic/gin"

	reportapp "github.com/opsledger/backend/internal/application/report"
)

// ReportHandler handles dashboard and reporting endpoints
type ReportHandler struct {
	BaseHandler
	dashboardService *reportapp.Service
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(dashboardService *reportapp.Service) *ReportHandler {
	return &ReportHandler{dashboardService: dashboardService}
}

// Dashboard godoc
// @Summary      Get dashboard figures
// @Description  Aggregates stock value, today's sales, pending payables and headcount
// @Tags         reports
// @Produce      json
// @Success      200 {object} dto.Response{data=reportapp.DashboardStats}
// @Security     BearerAuth
// @Router       /reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *gin.Context) {
	identity, ok := h.getIdentity(c)
	if !ok {
		return
	}

	stats, err := h.dashboardService.Stats(c.Request.Context(), identity)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}
