package dto

// ── 邮件提醒配置 DTO ──

// UpdateEmailSettingsRequest 更新提醒配置请求（部分更新）
type UpdateEmailSettingsRequest struct {
	Enabled          *bool    `json:"enabled"`
	ReminderDays     []int    `json:"reminder_days"     binding:"omitempty,dive,oneof=30 15 7"`
	Recipients       []string `json:"recipients"        binding:"omitempty,dive,oneof=crew captain admin"`
	ReminderOnExpiry *bool    `json:"reminder_on_expiry"`
	CCAddress        *string  `json:"cc_address"        binding:"omitempty,email"`
}

// EmailSettingsResponse 提醒配置响应
type EmailSettingsResponse struct {
	Enabled          bool     `json:"enabled"`
	ReminderDays     []int    `json:"reminder_days"`
	Recipients       []string `json:"recipients"`
	ReminderOnExpiry bool     `json:"reminder_on_expiry"`
	CCAddress        string   `json:"cc_address,omitempty"`
	UpdatedAt        string   `json:"updated_at"`
}

// SendTestEmailRequest 发送测试邮件请求
type SendTestEmailRequest struct {
	To string `json:"to" binding:"required,email"`
}

// SendContractNoticeRequest 手动触发单份合同到期提醒
type SendContractNoticeRequest struct {
	ContractID string `json:"contract_id" binding:"required,uuid"`
}
