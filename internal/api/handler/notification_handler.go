package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// NotificationHandler 邮件提醒模块 HTTP 处理器
type NotificationHandler struct {
	notificationSvc service.NotificationService
}

// NewNotificationHandler 创建 NotificationHandler
func NewNotificationHandler(notificationSvc service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notificationSvc: notificationSvc}
}

// SendTest 发送测试邮件（验证 SMTP 配置）
// POST /api/v1/email/send-test
func (h *NotificationHandler) SendTest(c *gin.Context) {
	var req dto.SendTestEmailRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.notificationSvc.SendTestEmail(c.Request.Context(), &req); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// SendContractNotice 手动触发单份合同到期提醒
// POST /api/v1/email/send-contract
func (h *NotificationHandler) SendContractNotice(c *gin.Context) {
	var req dto.SendContractNoticeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	if err := h.notificationSvc.SendContractNotice(c.Request.Context(), &req); err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, nil)
}

// TriggerScan 手动触发一轮提醒扫描（与定时扫描同一入口）
// POST /api/v1/notifications/scan
func (h *NotificationHandler) TriggerScan(c *gin.Context) {
	result, err := h.notificationSvc.RunReminderScan(c.Request.Context())
	if err != nil {
		h.handleNotificationError(c, err)
		return
	}

	response.OK(c, result)
}

// ListNotifications 已发提醒审计记录（分页）
// GET /api/v1/notifications
func (h *NotificationHandler) ListNotifications(c *gin.Context) {
	var page dto.PaginationRequest
	if err := c.ShouldBindQuery(&page); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	list, total, err := h.notificationSvc.List(c.Request.Context(), &page)
	if err != nil {
		response.InternalError(c)
		return
	}

	response.OKPage(c, list, total, page.GetPage(), page.GetPageSize())
}

// handleNotificationError 统一处理提醒模块业务错误
func (h *NotificationHandler) handleNotificationError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrMailNotConfigured):
		response.BadRequest(c, 16002, "SMTP 未配置，无法发送邮件")
	case errors.Is(err, service.ErrContractNotFound):
		response.NotFound(c, 15001, "合同不存在")
	default:
		response.InternalError(c)
	}
}
