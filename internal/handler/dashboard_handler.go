package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/openwrench/garagehub/internal/service"
)

// DashboardHandler 工作台接口
type DashboardHandler struct {
	dashboardService *service.DashboardService
}

// NewDashboardHandler 创建工作台接口
func NewDashboardHandler(dashboardService *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardService: dashboardService}
}

// Summary GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	summary, err := h.dashboardService.Summary(c.Request.Context(), GetGarageID(c))
	if err != nil {
		InternalError(c)
		return
	}
	Success(c, summary)
}
