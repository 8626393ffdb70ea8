package dto

// ── 证件模块 DTO ──

// CreateDocumentRequest 创建证件请求
type CreateDocumentRequest struct {
	Type             string `json:"type"              binding:"required,oneof=passport cdc coc medical photo other"`
	DocumentNumber   string `json:"document_number"   binding:"omitempty,max=100"`
	IssuingAuthority string `json:"issuing_authority" binding:"omitempty,max=200"`
	IssueDate        string `json:"issue_date"        binding:"omitempty,datetime=2006-01-02"`
	ExpiryDate       string `json:"expiry_date"       binding:"omitempty,datetime=2006-01-02"` // 空表示长期有效
}

// UpdateDocumentRequest 更新证件请求（部分更新）
type UpdateDocumentRequest struct {
	DocumentNumber   *string `json:"document_number"   binding:"omitempty,max=100"`
	IssuingAuthority *string `json:"issuing_authority" binding:"omitempty,max=200"`
	IssueDate        *string `json:"issue_date"        binding:"omitempty,datetime=2006-01-02"`
	ExpiryDate       *string `json:"expiry_date"       binding:"omitempty,datetime=2006-01-02"`
}

// DocumentResponse 证件响应
// Status/DaysRemaining 为读取时现算的分类结果，不是数据库缓存列
type DocumentResponse struct {
	ID               string `json:"id"`
	CrewMemberID     string `json:"crew_member_id"`
	Type             string `json:"type"`
	DocumentNumber   string `json:"document_number,omitempty"`
	IssuingAuthority string `json:"issuing_authority,omitempty"`
	IssueDate        string `json:"issue_date,omitempty"`
	ExpiryDate       string `json:"expiry_date,omitempty"`
	Status           string `json:"status"`
	DaysRemaining    int    `json:"days_remaining"`
	HasFile          bool   `json:"has_file"`
	CreatedAt        string `json:"created_at"`
	UpdatedAt        string `json:"updated_at"`
}

// DocumentIssue 证件合规问题行
type DocumentIssue struct {
	Type          string `json:"type"`
	Status        string `json:"status"`
	DaysRemaining int    `json:"days_remaining"`
	DocumentID    string `json:"document_id,omitempty"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
}

// ComplianceResponse 单个船员合规报告响应
type ComplianceResponse struct {
	CrewMemberID string          `json:"crew_member_id"`
	Compliant    bool            `json:"compliant"`
	Issues       []DocumentIssue `json:"issues"`
}

// ExpiringDocumentsRequest 即将到期证件查询参数
type ExpiringDocumentsRequest struct {
	Days     int    `form:"days"      binding:"omitempty,min=1,max=365"`
	VesselID string `form:"vessel_id" binding:"omitempty,uuid"`
}
