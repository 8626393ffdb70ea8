package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/expiry"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// ── 船员模块业务错误 ──

var (
	ErrCrewNotFound       = errors.New("船员不存在")
	ErrCrewAlreadyOnBoard = errors.New("船员已在船，需先办理下船")
	ErrCrewNotOnBoard     = errors.New("船员不在船上")
	ErrSignOffBeforeOn    = errors.New("下船日期不能早于上船日期")
	ErrSignOnVesselGone   = errors.New("目标船舶不存在")
)

const dateLayout = "2006-01-02"

// CrewService 船员业务接口
type CrewService interface {
	Create(ctx context.Context, req *dto.CreateCrewMemberRequest, operatorID string) (*dto.CrewMemberResponse, error)
	GetByID(ctx context.Context, id string) (*dto.CrewMemberResponse, error)
	List(ctx context.Context, req *dto.CrewListRequest) ([]dto.CrewMemberResponse, int64, error)
	Update(ctx context.Context, id string, req *dto.UpdateCrewMemberRequest, operatorID string) (*dto.CrewMemberResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	// SignOn 上船：置 on_board、挂靠船舶并开一条轮换记录
	SignOn(ctx context.Context, id string, req *dto.SignOnRequest, operatorID string) error
	// SignOff 下船：置 on_shore、解除挂靠并收口当前轮换记录
	SignOff(ctx context.Context, id string, req *dto.SignOffRequest, operatorID string) error
	ListRotations(ctx context.Context, id string) ([]dto.RotationResponse, error)
	// GetCompliance 单人必备证件合规报告（读取时现算）
	GetCompliance(ctx context.Context, id string) (*dto.ComplianceResponse, error)
}

type crewService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCrewService 创建 CrewService 实例
func NewCrewService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CrewService {
	return &crewService{cfg: cfg, repo: repo, logger: logger}
}

func (s *crewService) Create(ctx context.Context, req *dto.CreateCrewMemberRequest, operatorID string) (*dto.CrewMemberResponse, error) {
	member := &model.CrewMember{
		FirstName:         req.FirstName,
		LastName:          req.LastName,
		Nationality:       req.Nationality,
		Rank:              req.Rank,
		Status:            model.CrewStatusOnShore,
		Email:             req.Email,
		Phone:             req.Phone,
		COCNotApplicable:  req.COCNotApplicable,
		NextOfKinName:     req.NextOfKinName,
		NextOfKinRelation: req.NextOfKinRelation,
		NextOfKinPhone:    req.NextOfKinPhone,
	}
	if req.DateOfBirth != "" {
		dob, err := time.Parse(dateLayout, req.DateOfBirth)
		if err == nil {
			member.DateOfBirth = &dob
		}
	}
	member.CreatedBy = &operatorID
	member.UpdatedBy = &operatorID

	if err := s.repo.Crew.Create(ctx, member); err != nil {
		s.logger.Error("创建船员失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("船员已创建",
		zap.String("crew_member_id", member.CrewMemberID),
		zap.String("name", member.FullName()))

	resp := s.toResponse(member)
	return &resp, nil
}

func (s *crewService) GetByID(ctx context.Context, id string) (*dto.CrewMemberResponse, error) {
	member, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}
	resp := s.toResponse(member)
	return &resp, nil
}

func (s *crewService) List(ctx context.Context, req *dto.CrewListRequest) ([]dto.CrewMemberResponse, int64, error) {
	members, total, err := s.repo.Crew.List(ctx, repository.CrewFilter{
		VesselID: req.VesselID,
		Status:   req.Status,
		Rank:     req.Rank,
		Search:   req.Search,
		Offset:   req.GetOffset(),
		Limit:    req.GetPageSize(),
	})
	if err != nil {
		s.logger.Error("查询船员列表失败", zap.Error(err))
		return nil, 0, err
	}

	out := make([]dto.CrewMemberResponse, 0, len(members))
	for i := range members {
		out = append(out, s.toResponse(&members[i]))
	}
	return out, total, nil
}

func (s *crewService) Update(ctx context.Context, id string, req *dto.UpdateCrewMemberRequest, operatorID string) (*dto.CrewMemberResponse, error) {
	member, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	if req.FirstName != nil {
		member.FirstName = *req.FirstName
	}
	if req.LastName != nil {
		member.LastName = *req.LastName
	}
	if req.Nationality != nil {
		member.Nationality = *req.Nationality
	}
	if req.DateOfBirth != nil {
		if dob, err := time.Parse(dateLayout, *req.DateOfBirth); err == nil {
			member.DateOfBirth = &dob
		}
	}
	if req.Rank != nil {
		member.Rank = *req.Rank
	}
	if req.Email != nil {
		member.Email = *req.Email
	}
	if req.Phone != nil {
		member.Phone = *req.Phone
	}
	if req.COCNotApplicable != nil {
		member.COCNotApplicable = *req.COCNotApplicable
	}
	if req.NextOfKinName != nil {
		member.NextOfKinName = *req.NextOfKinName
	}
	if req.NextOfKinRelation != nil {
		member.NextOfKinRelation = *req.NextOfKinRelation
	}
	if req.NextOfKinPhone != nil {
		member.NextOfKinPhone = *req.NextOfKinPhone
	}
	member.UpdatedBy = &operatorID
	member.Version++

	if err := s.repo.Crew.Update(ctx, member); err != nil {
		s.logger.Error("更新船员失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(member)
	return &resp, nil
}

func (s *crewService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Crew.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return err
	}

	// 级联软删证件、合同、轮换记录
	if err := s.repo.Crew.DeleteCascade(ctx, id, operatorID); err != nil {
		s.logger.Error("删除船员失败", zap.Error(err))
		return err
	}

	s.logger.Info("船员已删除（含级联）", zap.String("crew_member_id", id))
	return nil
}

func (s *crewService) SignOn(ctx context.Context, id string, req *dto.SignOnRequest, operatorID string) error {
	member, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return err
	}
	if member.Status == model.CrewStatusOnBoard {
		return ErrCrewAlreadyOnBoard
	}

	if _, err := s.repo.Vessel.GetByID(ctx, req.VesselID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrSignOnVesselGone
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return err
	}

	signOnDate, err := time.Parse(dateLayout, req.SignOnDate)
	if err != nil {
		return err
	}

	rotation := &model.CrewRotation{
		CrewMemberID: id,
		VesselID:     req.VesselID,
		SignOnDate:   signOnDate,
		Port:         req.Port,
	}
	rotation.CreatedBy = &operatorID
	rotation.UpdatedBy = &operatorID
	if err := s.repo.Rotation.Create(ctx, rotation); err != nil {
		s.logger.Error("创建轮换记录失败", zap.Error(err))
		return err
	}

	member.Status = model.CrewStatusOnBoard
	member.CurrentVesselID = &req.VesselID
	member.UpdatedBy = &operatorID
	member.Version++
	if err := s.repo.Crew.Update(ctx, member); err != nil {
		s.logger.Error("更新船员在船状态失败", zap.Error(err))
		return err
	}

	s.logger.Info("船员已上船",
		zap.String("crew_member_id", id),
		zap.String("vessel_id", req.VesselID),
		zap.String("sign_on_date", req.SignOnDate))
	return nil
}

func (s *crewService) SignOff(ctx context.Context, id string, req *dto.SignOffRequest, operatorID string) error {
	member, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return err
	}
	if member.Status != model.CrewStatusOnBoard {
		return ErrCrewNotOnBoard
	}

	signOffDate, err := time.Parse(dateLayout, req.SignOffDate)
	if err != nil {
		return err
	}

	// 收口当前未结束的轮换记录；历史数据缺口时容忍找不到
	rotation, err := s.repo.Rotation.GetOpen(ctx, id)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询轮换记录失败", zap.Error(err))
		return err
	}
	if rotation != nil {
		if signOffDate.Before(rotation.SignOnDate) {
			return ErrSignOffBeforeOn
		}
		rotation.SignOffDate = &signOffDate
		if req.Port != "" {
			rotation.Port = req.Port
		}
		rotation.UpdatedBy = &operatorID
		if err := s.repo.Rotation.Update(ctx, rotation); err != nil {
			s.logger.Error("收口轮换记录失败", zap.Error(err))
			return err
		}
	}

	member.Status = model.CrewStatusOnShore
	member.CurrentVesselID = nil
	member.UpdatedBy = &operatorID
	member.Version++
	if err := s.repo.Crew.Update(ctx, member); err != nil {
		s.logger.Error("更新船员在船状态失败", zap.Error(err))
		return err
	}

	s.logger.Info("船员已下船",
		zap.String("crew_member_id", id),
		zap.String("sign_off_date", req.SignOffDate))
	return nil
}

func (s *crewService) ListRotations(ctx context.Context, id string) ([]dto.RotationResponse, error) {
	if _, err := s.repo.Crew.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	rotations, err := s.repo.Rotation.ListByCrewMember(ctx, id)
	if err != nil {
		s.logger.Error("查询轮换记录失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.RotationResponse, 0, len(rotations))
	for i := range rotations {
		r := &rotations[i]
		row := dto.RotationResponse{
			RotationID:   r.RotationID,
			CrewMemberID: r.CrewMemberID,
			VesselID:     r.VesselID,
			SignOnDate:   r.SignOnDate.Format(dateLayout),
			Port:         r.Port,
		}
		if r.SignOffDate != nil {
			row.SignOffDate = r.SignOffDate.Format(dateLayout)
		}
		if r.Vessel != nil {
			row.VesselName = r.Vessel.Name
		}
		out = append(out, row)
	}
	return out, nil
}

func (s *crewService) GetCompliance(ctx context.Context, id string) (*dto.ComplianceResponse, error) {
	member, err := s.repo.Crew.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	docs, err := s.repo.Document.ListByCrewMember(ctx, id)
	if err != nil {
		s.logger.Error("查询证件失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	report := expiry.CheckCompliance(docs, now,
		s.cfg.Expiry.DocumentThresholdDays, member.COCNotApplicable)

	issues := toIssueDTOs(report.Issues)
	if issues == nil {
		issues = []dto.DocumentIssue{}
	}
	return &dto.ComplianceResponse{
		CrewMemberID: id,
		Compliant:    report.Compliant,
		Issues:       issues,
	}, nil
}

func (s *crewService) toResponse(m *model.CrewMember) dto.CrewMemberResponse {
	resp := dto.CrewMemberResponse{
		ID:                m.CrewMemberID,
		FirstName:         m.FirstName,
		LastName:          m.LastName,
		Nationality:       m.Nationality,
		Rank:              m.Rank,
		Status:            m.Status,
		CurrentVesselID:   m.CurrentVesselID,
		Email:             m.Email,
		Phone:             m.Phone,
		COCNotApplicable:  m.COCNotApplicable,
		NextOfKinName:     m.NextOfKinName,
		NextOfKinRelation: m.NextOfKinRelation,
		NextOfKinPhone:    m.NextOfKinPhone,
		CreatedAt:         m.CreatedAt.Format(time.RFC3339),
		UpdatedAt:         m.UpdatedAt.Format(time.RFC3339),
	}
	if m.DateOfBirth != nil {
		resp.DateOfBirth = m.DateOfBirth.Format(dateLayout)
	}
	if m.CurrentVessel != nil {
		resp.VesselName = m.CurrentVessel.Name
	}
	return resp
}
