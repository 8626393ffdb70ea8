package handler

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// OCRHandler OCR 预填模块 HTTP 处理器
type OCRHandler struct {
	ocrSvc service.OCRService
}

// NewOCRHandler 创建 OCRHandler
func NewOCRHandler(ocrSvc service.OCRService) *OCRHandler {
	return &OCRHandler{ocrSvc: ocrSvc}
}

// Scan 上传证件照片识别并返回表单预填建议
// POST /api/v1/ocr/scan (multipart)
func (h *OCRHandler) Scan(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传图片")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "读取上传图片失败")
		return
	}
	defer src.Close()

	image, err := io.ReadAll(src)
	if err != nil {
		response.BadRequest(c, 10001, "读取上传图片失败")
		return
	}

	result, err := h.ocrSvc.Scan(c.Request.Context(), image, fileHeader.Filename)
	if err != nil {
		h.handleOCRError(c, err)
		return
	}

	response.OK(c, result)
}

// handleOCRError 统一处理 OCR 模块业务错误
func (h *OCRHandler) handleOCRError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrOCREmptyImage):
		response.BadRequest(c, 17002, "上传图片为空")
	case errors.Is(err, service.ErrOCREngineUnavailable):
		response.Error(c, http.StatusBadGateway, 17001, "OCR 识别服务不可用")
	default:
		response.InternalError(c)
	}
}
