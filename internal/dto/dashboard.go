package dto

// ── 仪表盘模块 DTO ──

// DashboardSummaryResponse 机队总览
type DashboardSummaryResponse struct {
	TotalVessels    int64                  `json:"total_vessels"`
	TotalCrew       int64                  `json:"total_crew"`
	CrewOnBoard     int64                  `json:"crew_on_board"`
	DocumentSummary DocumentSummaryCounts  `json:"document_summary"`
	Vessels         []VesselDashboardEntry `json:"vessels"`
	GeneratedAt     string                 `json:"generated_at"` // 本次聚合捕获的统一 now
}

// DocumentSummaryCounts 全队证件三档计数
type DocumentSummaryCounts struct {
	Compliant int `json:"compliant"`
	Warning   int `json:"warning"`
	Critical  int `json:"critical"`
}

// VesselDashboardEntry 单船仪表盘行（证件三档 + 合同三桶 + OK/EX 徽标）
type VesselDashboardEntry struct {
	VesselID       string                `json:"vessel_id"`
	VesselName     string                `json:"vessel_name"`
	CrewOnBoard    int                   `json:"crew_on_board"`
	Documents      DocumentSummaryCounts `json:"documents"`
	Contracts      ContractStatsResponse `json:"contracts"`
	ComplianceBadge string               `json:"compliance_badge"` // OK | EX
}

// DrilldownRequest 仪表盘下钻查询参数
type DrilldownRequest struct {
	Type     string `form:"type"      binding:"required,oneof=document contract"`
	Key      string `form:"key"       binding:"required,oneof=compliant warning critical active expiring expired"` // document: compliant|warning|critical；contract: active|expiring|expired
	VesselID string `form:"vessel_id" binding:"omitempty,uuid"`
}

// DrilldownRow 下钻弹窗行
type DrilldownRow struct {
	CrewMemberID  string `json:"crew_member_id"`
	CrewName      string `json:"crew_name"`
	Rank          string `json:"rank"`
	VesselID      string `json:"vessel_id,omitempty"`
	VesselName    string `json:"vessel_name,omitempty"`
	ItemType      string `json:"item_type"` // 证件类型或 "contract"
	Status        string `json:"status"`
	DaysRemaining int    `json:"days_remaining"`
	ExpiryDate    string `json:"expiry_date,omitempty"`
}
