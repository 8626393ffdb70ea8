package dto

// ── 船舶模块 DTO ──

// CreateVesselRequest 创建船舶请求
type CreateVesselRequest struct {
	Name      string `json:"name"       binding:"required,min=2,max=100"`
	Type      string `json:"type"       binding:"required,oneof=bulk_carrier tanker container general_cargo other"`
	Flag      string `json:"flag"       binding:"required,max=50"`
	IMONumber string `json:"imo_number" binding:"required,len=7,numeric"`
	Status    string `json:"status"     binding:"omitempty,oneof=operational in_port dry_dock laid_up"`
}

// UpdateVesselRequest 更新船舶请求（部分更新）
type UpdateVesselRequest struct {
	Name   *string `json:"name"   binding:"omitempty,min=2,max=100"`
	Type   *string `json:"type"   binding:"omitempty,oneof=bulk_carrier tanker container general_cargo other"`
	Flag   *string `json:"flag"   binding:"omitempty,max=50"`
	Status *string `json:"status" binding:"omitempty,oneof=operational in_port dry_dock laid_up"`
}

// VesselResponse 船舶响应
type VesselResponse struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Type      string `json:"type"`
	Flag      string `json:"flag"`
	IMONumber string `json:"imo_number"`
	Status    string `json:"status"`
	CrewCount int64  `json:"crew_count"`
	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// VesselComplianceResponse 船级证件合规汇总响应
type VesselComplianceResponse struct {
	VesselID  string                `json:"vessel_id"`
	Compliant int                   `json:"compliant"`
	Warning   int                   `json:"warning"`
	Critical  int                   `json:"critical"`
	Crew      []CrewComplianceBrief `json:"crew"`
}

// CrewComplianceBrief 船员合规简报（船级列表行）
type CrewComplianceBrief struct {
	CrewMemberID string          `json:"crew_member_id"`
	Name         string          `json:"name"`
	Rank         string          `json:"rank"`
	Compliant    bool            `json:"compliant"`
	Issues       []DocumentIssue `json:"issues,omitempty"`
}

// ContractStatsResponse 船级合同状态统计（对外字段名与内部桶名不同）
type ContractStatsResponse struct {
	Active       int `json:"active"`        // 内部 valid 桶
	ExpiringSoon int `json:"expiringSoon"`  // 内部 due 桶
	Expired      int `json:"expired"`
}
