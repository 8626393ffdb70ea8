package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// DocumentHandler 证件模块 HTTP 处理器
type DocumentHandler struct {
	docSvc service.DocumentService
}

// NewDocumentHandler 创建 DocumentHandler
func NewDocumentHandler(docSvc service.DocumentService) *DocumentHandler {
	return &DocumentHandler{docSvc: docSvc}
}

// CreateDocument 为船员新建证件
// POST /api/v1/crew/:id/documents
func (h *DocumentHandler) CreateDocument(c *gin.Context) {
	crewMemberID := c.Param("id")
	if crewMemberID == "" {
		response.BadRequest(c, 10001, "船员ID不能为空")
		return
	}

	var req dto.CreateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	doc, err := h.docSvc.Create(c.Request.Context(), crewMemberID, &req, operatorID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.Created(c, doc)
}

// GetDocument 证件详情（状态现算）
// GET /api/v1/documents/:id
func (h *DocumentHandler) GetDocument(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "证件ID不能为空")
		return
	}

	doc, err := h.docSvc.GetByID(c.Request.Context(), id)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, doc)
}

// UpdateDocument 更新证件
// PUT /api/v1/documents/:id
func (h *DocumentHandler) UpdateDocument(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "证件ID不能为空")
		return
	}

	var req dto.UpdateDocumentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	doc, err := h.docSvc.Update(c.Request.Context(), id, &req, operatorID)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, doc)
}

// DeleteDocument 删除证件
// DELETE /api/v1/documents/:id
func (h *DocumentHandler) DeleteDocument(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "证件ID不能为空")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	if err := h.docSvc.Delete(c.Request.Context(), id, operatorID); err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, nil)
}

// UploadFile 上传证件扫描件（multipart，替换旧文件）
// POST /api/v1/documents/:id/file
func (h *DocumentHandler) UploadFile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "证件ID不能为空")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.BadRequest(c, 10001, "缺少上传文件")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.BadRequest(c, 10001, "读取上传文件失败")
		return
	}
	defer src.Close()

	if err := h.docSvc.AttachFile(c.Request.Context(), id,
		fileHeader.Filename, fileHeader.Size, src, operatorID); err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, nil)
}

// DownloadFile 下载证件扫描件
// GET /api/v1/documents/:id/file
func (h *DocumentHandler) DownloadFile(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		response.BadRequest(c, 10001, "证件ID不能为空")
		return
	}

	path, err := h.docSvc.FilePath(c.Request.Context(), id)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	c.FileAttachment(path, id)
}

// ListExpiring 即将到期证件列表
// GET /api/v1/documents/expiring?days=30&vessel_id=xxx
func (h *DocumentHandler) ListExpiring(c *gin.Context) {
	var req dto.ExpiringDocumentsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	// captain 只能看自己船上的到期证件
	if scope := GetVesselScope(c); scope != "" {
		req.VesselID = scope
	}

	docs, err := h.docSvc.ListExpiring(c.Request.Context(), &req)
	if err != nil {
		h.handleDocumentError(c, err)
		return
	}

	response.OK(c, gin.H{"list": docs})
}

// handleDocumentError 统一处理证件模块业务错误
func (h *DocumentHandler) handleDocumentError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrDocumentNotFound):
		response.NotFound(c, 14001, "证件不存在")
	case errors.Is(err, service.ErrCrewNotFound):
		response.NotFound(c, 13001, "船员不存在")
	case errors.Is(err, service.ErrDocumentDateInvalid):
		response.BadRequest(c, 14002, "到期日期不能早于签发日期")
	case errors.Is(err, service.ErrDocumentFileTooBig):
		response.BadRequest(c, 14003, "文件超出大小限制")
	case errors.Is(err, service.ErrDocumentNoFile):
		response.NotFound(c, 14004, "证件未上传扫描件")
	default:
		response.InternalError(c)
	}
}
