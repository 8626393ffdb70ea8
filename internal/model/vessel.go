package model

// 船舶运营状态常量（与船员证件合规状态无关）
const (
	VesselStatusOperational = "operational"
	VesselStatusInPort      = "in_port"
	VesselStatusDryDock     = "dry_dock"
	VesselStatusLaidUp      = "laid_up"
)

// Vessel 船舶表 — 对应 vessels
type Vessel struct {
	VesselID  string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"vessel_id"`
	Name      string `gorm:"type:varchar(100);not null"                     json:"name"`
	Type      string `gorm:"type:varchar(50);not null"                      json:"type"` // bulk_carrier | tanker | container | general_cargo | other
	Flag      string `gorm:"type:varchar(50);not null"                      json:"flag"`
	IMONumber string `gorm:"type:varchar(10);not null;uniqueIndex;column:imo_number" json:"imo_number"`
	Status    string `gorm:"type:varchar(20);not null;default:'operational'" json:"status"`
	VersionedModel
}

// TableName 指定表名
func (Vessel) TableName() string { return "vessels" }
