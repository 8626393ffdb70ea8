package model

import "time"

// 合同生命周期状态常量
// active → completed 为终态迁移；逾期未办理的合同仍保持 active，
// "已过期"由分类引擎按 EndDate 现算，不落库
const (
	ContractStatusActive    = "active"
	ContractStatusCompleted = "completed"
)

// Contract 船员雇佣合同（AOA）表 — 对应 contracts
// 约定同一船员同时至多一份 active 合同（业务层保证，库不强制）
type Contract struct {
	ContractID   string    `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"contract_id"`
	CrewMemberID string    `gorm:"type:uuid;not null;index"                       json:"crew_member_id"`
	VesselID     string    `gorm:"type:uuid;not null;index"                       json:"vessel_id"`
	StartDate    time.Time `gorm:"type:date;not null"                             json:"start_date"`
	EndDate      time.Time `gorm:"type:date;not null"                             json:"end_date"`
	Rank         string    `gorm:"type:varchar(50);not null"                      json:"rank"`
	MonthlyWage  float64   `gorm:"type:numeric(12,2)"                             json:"monthly_wage"`
	Currency     string    `gorm:"type:varchar(3);default:'USD'"                  json:"currency"`
	Status       string    `gorm:"type:varchar(20);not null;default:'active'"     json:"status"`
	VersionedModel

	// 关联
	CrewMember *CrewMember `gorm:"foreignKey:CrewMemberID;references:CrewMemberID" json:"crew_member,omitempty"`
	Vessel     *Vessel     `gorm:"foreignKey:VesselID;references:VesselID"         json:"vessel,omitempty"`
}

// TableName 指定表名
func (Contract) TableName() string { return "contracts" }
