package dto

// ── 船员模块 DTO ──

// CreateCrewMemberRequest 创建船员请求
type CreateCrewMemberRequest struct {
	FirstName        string `json:"first_name"   binding:"required,min=1,max=100"`
	LastName         string `json:"last_name"    binding:"required,min=1,max=100"`
	Nationality      string `json:"nationality"  binding:"required,max=50"`
	DateOfBirth      string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Rank             string `json:"rank"         binding:"required,max=50"`
	Email            string `json:"email"        binding:"omitempty,email"`
	Phone            string `json:"phone"        binding:"omitempty,max=50"`
	COCNotApplicable bool   `json:"coc_not_applicable"`

	NextOfKinName     string `json:"next_of_kin_name"     binding:"omitempty,max=100"`
	NextOfKinRelation string `json:"next_of_kin_relation" binding:"omitempty,max=50"`
	NextOfKinPhone    string `json:"next_of_kin_phone"    binding:"omitempty,max=50"`
}

// UpdateCrewMemberRequest 更新船员请求（部分更新）
type UpdateCrewMemberRequest struct {
	FirstName        *string `json:"first_name"   binding:"omitempty,min=1,max=100"`
	LastName         *string `json:"last_name"    binding:"omitempty,min=1,max=100"`
	Nationality      *string `json:"nationality"  binding:"omitempty,max=50"`
	DateOfBirth      *string `json:"date_of_birth" binding:"omitempty,datetime=2006-01-02"`
	Rank             *string `json:"rank"         binding:"omitempty,max=50"`
	Email            *string `json:"email"        binding:"omitempty,email"`
	Phone            *string `json:"phone"        binding:"omitempty,max=50"`
	COCNotApplicable *bool   `json:"coc_not_applicable"`

	NextOfKinName     *string `json:"next_of_kin_name"     binding:"omitempty,max=100"`
	NextOfKinRelation *string `json:"next_of_kin_relation" binding:"omitempty,max=50"`
	NextOfKinPhone    *string `json:"next_of_kin_phone"    binding:"omitempty,max=50"`
}

// CrewListRequest 船员列表查询参数
type CrewListRequest struct {
	PaginationRequest
	VesselID string `form:"vessel_id" binding:"omitempty,uuid"`
	Status   string `form:"status"    binding:"omitempty,oneof=on_board on_shore"`
	Rank     string `form:"rank"`
	Search   string `form:"search"    binding:"omitempty,max=100"`
}

// SignOnRequest 上船（sign on）请求
type SignOnRequest struct {
	VesselID   string `json:"vessel_id"    binding:"required,uuid"`
	SignOnDate string `json:"sign_on_date" binding:"required,datetime=2006-01-02"`
	Port       string `json:"port"         binding:"omitempty,max=100"`
}

// SignOffRequest 下船（sign off）请求
type SignOffRequest struct {
	SignOffDate string `json:"sign_off_date" binding:"required,datetime=2006-01-02"`
	Port        string `json:"port"          binding:"omitempty,max=100"`
}

// CrewMemberResponse 船员响应
type CrewMemberResponse struct {
	ID               string  `json:"id"`
	FirstName        string  `json:"first_name"`
	LastName         string  `json:"last_name"`
	Nationality      string  `json:"nationality"`
	DateOfBirth      string  `json:"date_of_birth,omitempty"`
	Rank             string  `json:"rank"`
	Status           string  `json:"status"`
	CurrentVesselID  *string `json:"current_vessel_id,omitempty"`
	VesselName       string  `json:"vessel_name,omitempty"`
	Email            string  `json:"email,omitempty"`
	Phone            string  `json:"phone,omitempty"`
	COCNotApplicable bool    `json:"coc_not_applicable"`

	NextOfKinName     string `json:"next_of_kin_name,omitempty"`
	NextOfKinRelation string `json:"next_of_kin_relation,omitempty"`
	NextOfKinPhone    string `json:"next_of_kin_phone,omitempty"`

	CreatedAt string `json:"created_at"`
	UpdatedAt string `json:"updated_at"`
}

// RotationResponse 轮换记录响应
type RotationResponse struct {
	RotationID   string `json:"rotation_id"`
	CrewMemberID string `json:"crew_member_id"`
	VesselID     string `json:"vessel_id"`
	VesselName   string `json:"vessel_name,omitempty"`
	SignOnDate   string `json:"sign_on_date"`
	SignOffDate  string `json:"sign_off_date,omitempty"`
	Port         string `json:"port,omitempty"`
}
