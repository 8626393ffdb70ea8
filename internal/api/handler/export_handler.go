package handler

import (
	"errors"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// ExportHandler 导出模块 HTTP 处理器
type ExportHandler struct {
	exportSvc service.ExportService
}

// NewExportHandler 创建 ExportHandler
func NewExportHandler(exportSvc service.ExportService) *ExportHandler {
	return &ExportHandler{exportSvc: exportSvc}
}

// ExportVesselCompliance 导出单船证件合规矩阵
// GET /api/v1/export/vessels/:id/compliance
func (h *ExportHandler) ExportVesselCompliance(c *gin.Context) {
	vesselID := c.Param("id")
	if vesselID == "" {
		response.BadRequest(c, 10001, "船舶ID不能为空")
		return
	}

	if !CheckVesselScope(c, vesselID) {
		return
	}

	buf, filename, err := h.exportSvc.ExportComplianceMatrix(c.Request.Context(), vesselID)
	if err != nil {
		h.handleExportError(c, err)
		return
	}

	// 设置下载响应头
	encodedFilename := url.QueryEscape(filename)
	c.Header("Content-Description", "File Transfer")
	c.Header("Content-Disposition", "attachment; filename*=UTF-8''"+encodedFilename)
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *ExportHandler) handleExportError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrVesselNotFound):
		response.NotFound(c, 12001, "船舶不存在")
	case errors.Is(err, service.ErrExportNoCrew):
		response.BadRequest(c, 18001, "该船暂无在船船员")
	case errors.Is(err, service.ErrExportGenerateFail):
		response.InternalError(c)
	default:
		response.InternalError(c)
	}
}
