package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// DashboardHandler 仪表盘模块 HTTP 处理器
type DashboardHandler struct {
	dashboardSvc service.DashboardService
}

// NewDashboardHandler 创建 DashboardHandler
func NewDashboardHandler(dashboardSvc service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// Summary 机队总览
// GET /api/v1/dashboard/summary
func (h *DashboardHandler) Summary(c *gin.Context) {
	result, err := h.dashboardSvc.Summary(c.Request.Context())
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OK(c, result)
}

// Drilldown 仪表盘下钻
// GET /api/v1/dashboard/drilldown?type=document&key=critical&vessel_id=xxx
func (h *DashboardHandler) Drilldown(c *gin.Context) {
	var req dto.DrilldownRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// captain 只能下钻自己的船
	if scope := GetVesselScope(c); scope != "" {
		req.VesselID = scope
	}

	rows, err := h.dashboardSvc.Drilldown(c.Request.Context(), &req)
	if err != nil {
		if errors.Is(err, service.ErrInvalidDrilldownKey) {
			response.BadRequest(c, 10001, "下钻分类键无效")
			return
		}
		response.InternalError(c)
		return
	}

	response.OK(c, gin.H{"list": rows})
}
