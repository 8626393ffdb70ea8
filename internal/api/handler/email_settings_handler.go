package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/service"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/response"
)

// EmailSettingsHandler 到期提醒配置 HTTP 处理器
type EmailSettingsHandler struct {
	settingsSvc service.EmailSettingsService
}

// NewEmailSettingsHandler 创建 EmailSettingsHandler
func NewEmailSettingsHandler(settingsSvc service.EmailSettingsService) *EmailSettingsHandler {
	return &EmailSettingsHandler{settingsSvc: settingsSvc}
}

// GetSettings 获取提醒配置
// GET /api/v1/email-settings
func (h *EmailSettingsHandler) GetSettings(c *gin.Context) {
	settings, err := h.settingsSvc.Get(c.Request.Context())
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

// UpdateSettings 更新提醒配置（部分更新）
// PUT /api/v1/email-settings
func (h *EmailSettingsHandler) UpdateSettings(c *gin.Context) {
	var req dto.UpdateEmailSettingsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	operatorID, ok := MustGetUserID(c)
	if !ok {
		return
	}

	settings, err := h.settingsSvc.Update(c.Request.Context(), &req, operatorID)
	if err != nil {
		h.handleSettingsError(c, err)
		return
	}

	response.OK(c, settings)
}

func (h *EmailSettingsHandler) handleSettingsError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrEmailSettingsMissing):
		response.NotFound(c, 16001, "提醒配置未初始化")
	default:
		response.InternalError(c)
	}
}
