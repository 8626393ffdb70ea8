package dto

// ── 合同模块 DTO ──

// CreateContractRequest 创建合同请求
type CreateContractRequest struct {
	CrewMemberID string  `json:"crew_member_id" binding:"required,uuid"`
	VesselID     string  `json:"vessel_id"      binding:"required,uuid"`
	StartDate    string  `json:"start_date"     binding:"required,datetime=2006-01-02"`
	EndDate      string  `json:"end_date"       binding:"required,datetime=2006-01-02"`
	Rank         string  `json:"rank"           binding:"required,max=50"`
	MonthlyWage  float64 `json:"monthly_wage"   binding:"omitempty,min=0"`
	Currency     string  `json:"currency"       binding:"omitempty,len=3"`
}

// UpdateContractRequest 更新合同请求（部分更新）
type UpdateContractRequest struct {
	StartDate   *string  `json:"start_date"   binding:"omitempty,datetime=2006-01-02"`
	EndDate     *string  `json:"end_date"     binding:"omitempty,datetime=2006-01-02"`
	Rank        *string  `json:"rank"         binding:"omitempty,max=50"`
	MonthlyWage *float64 `json:"monthly_wage" binding:"omitempty,min=0"`
	Currency    *string  `json:"currency"     binding:"omitempty,len=3"`
}

// ContractListRequest 船级合同列表查询参数
// status 为分类过滤：active(>阈值) | expiring(窗口内) | expired(≤0)
type ContractListRequest struct {
	Status string `form:"status" binding:"omitempty,oneof=active expiring expired"`
}

// ContractResponse 合同响应
// DaysRemaining/Classification 为读取时按 45 天阈值现算
type ContractResponse struct {
	ID             string  `json:"id"`
	CrewMemberID   string  `json:"crew_member_id"`
	CrewMemberName string  `json:"crew_member_name,omitempty"`
	VesselID       string  `json:"vessel_id"`
	VesselName     string  `json:"vessel_name,omitempty"`
	StartDate      string  `json:"start_date"`
	EndDate        string  `json:"end_date"`
	Rank           string  `json:"rank"`
	MonthlyWage    float64 `json:"monthly_wage"`
	Currency       string  `json:"currency"`
	Status         string  `json:"status"` // 生命周期状态 active | completed
	Classification string  `json:"classification"` // 现算分桶 valid | due | expired
	DaysRemaining  int     `json:"days_remaining"`
	CreatedAt      string  `json:"created_at"`
	UpdatedAt      string  `json:"updated_at"`
}
