package model

// 提醒收件角色标签常量
const (
	RecipientCrew    = "crew"
	RecipientCaptain = "captain"
	RecipientAdmin   = "admin"
)

// EmailSettings 到期提醒邮件配置表 — 对应 email_settings（单行）
// ReminderDays 取 {30,15,7} 的子集；Recipients 取 {crew,captain,admin} 的子集
type EmailSettings struct {
	SettingsID      string      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"settings_id"`
	Enabled         bool        `gorm:"not null;default:false"                         json:"enabled"`
	ReminderDays    IntArray    `gorm:"type:int[];not null;default:'{30,15,7}'"        json:"reminder_days"`
	Recipients      StringArray `gorm:"type:text[];not null;default:'{admin}'"         json:"recipients"`
	ReminderOnExpiry bool       `gorm:"not null;default:false"                         json:"reminder_on_expiry"`
	CCAddress       string      `gorm:"type:varchar(255);column:cc_address"            json:"cc_address,omitempty"`
	BaseModel
}

// TableName 指定表名
func (EmailSettings) TableName() string { return "email_settings" }
