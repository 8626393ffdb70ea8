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

// ── 船舶模块业务错误 ──

var (
	ErrVesselNotFound  = errors.New("船舶不存在")
	ErrVesselIMOExists = errors.New("IMO 编号已存在")
	ErrVesselHasCrew   = errors.New("船上仍有在船船员，无法删除")
)

// VesselService 船舶业务接口
type VesselService interface {
	Create(ctx context.Context, req *dto.CreateVesselRequest, operatorID string) (*dto.VesselResponse, error)
	GetByID(ctx context.Context, id string) (*dto.VesselResponse, error)
	List(ctx context.Context) ([]dto.VesselResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateVesselRequest, operatorID string) (*dto.VesselResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	// GetCompliance 船级证件合规汇总（全船在船船员逐人检查后汇总三档）
	GetCompliance(ctx context.Context, id string) (*dto.VesselComplianceResponse, error)
	// GetContractStats 船级合同三桶统计，对外字段名 active/expiringSoon/expired
	GetContractStats(ctx context.Context, id string) (*dto.ContractStatsResponse, error)
}

type vesselService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewVesselService 创建 VesselService 实例
func NewVesselService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) VesselService {
	return &vesselService{cfg: cfg, repo: repo, logger: logger}
}

func (s *vesselService) Create(ctx context.Context, req *dto.CreateVesselRequest, operatorID string) (*dto.VesselResponse, error) {
	// IMO 编号全局唯一
	if _, err := s.repo.Vessel.GetByIMO(ctx, req.IMONumber); err == nil {
		return nil, ErrVesselIMOExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询 IMO 编号失败", zap.Error(err))
		return nil, err
	}

	status := req.Status
	if status == "" {
		status = model.VesselStatusOperational
	}

	vessel := &model.Vessel{
		Name:      req.Name,
		Type:      req.Type,
		Flag:      req.Flag,
		IMONumber: req.IMONumber,
		Status:    status,
	}
	vessel.CreatedBy = &operatorID
	vessel.UpdatedBy = &operatorID

	if err := s.repo.Vessel.Create(ctx, vessel); err != nil {
		s.logger.Error("创建船舶失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("船舶已创建",
		zap.String("vessel_id", vessel.VesselID),
		zap.String("imo", vessel.IMONumber))

	resp := s.toResponse(vessel, 0)
	return &resp, nil
}

func (s *vesselService) GetByID(ctx context.Context, id string) (*dto.VesselResponse, error) {
	vessel, err := s.repo.Vessel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	crewCount, err := s.repo.Vessel.CountCrewOnBoard(ctx, id)
	if err != nil {
		s.logger.Error("统计在船船员失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(vessel, crewCount)
	return &resp, nil
}

func (s *vesselService) List(ctx context.Context) ([]dto.VesselResponse, error) {
	vessels, err := s.repo.Vessel.List(ctx)
	if err != nil {
		s.logger.Error("查询船舶列表失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.VesselResponse, 0, len(vessels))
	for i := range vessels {
		crewCount, err := s.repo.Vessel.CountCrewOnBoard(ctx, vessels[i].VesselID)
		if err != nil {
			s.logger.Error("统计在船船员失败", zap.Error(err))
			return nil, err
		}
		out = append(out, s.toResponse(&vessels[i], crewCount))
	}
	return out, nil
}

func (s *vesselService) Update(ctx context.Context, id string, req *dto.UpdateVesselRequest, operatorID string) (*dto.VesselResponse, error) {
	vessel, err := s.repo.Vessel.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	if req.Name != nil {
		vessel.Name = *req.Name
	}
	if req.Type != nil {
		vessel.Type = *req.Type
	}
	if req.Flag != nil {
		vessel.Flag = *req.Flag
	}
	if req.Status != nil {
		vessel.Status = *req.Status
	}
	vessel.UpdatedBy = &operatorID
	vessel.Version++

	if err := s.repo.Vessel.Update(ctx, vessel); err != nil {
		s.logger.Error("更新船舶失败", zap.Error(err))
		return nil, err
	}

	crewCount, err := s.repo.Vessel.CountCrewOnBoard(ctx, id)
	if err != nil {
		s.logger.Error("统计在船船员失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(vessel, crewCount)
	return &resp, nil
}

func (s *vesselService) Delete(ctx context.Context, id string, operatorID string) error {
	if _, err := s.repo.Vessel.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return err
	}

	// 有在船船员时禁止删除，先全部 sign off
	crewCount, err := s.repo.Vessel.CountCrewOnBoard(ctx, id)
	if err != nil {
		s.logger.Error("统计在船船员失败", zap.Error(err))
		return err
	}
	if crewCount > 0 {
		return ErrVesselHasCrew
	}

	if err := s.repo.Vessel.Delete(ctx, id, operatorID); err != nil {
		s.logger.Error("删除船舶失败", zap.Error(err))
		return err
	}

	s.logger.Info("船舶已删除", zap.String("vessel_id", id))
	return nil
}

func (s *vesselService) GetCompliance(ctx context.Context, id string) (*dto.VesselComplianceResponse, error) {
	if _, err := s.repo.Vessel.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	members, err := s.repo.Crew.ListByVessel(ctx, id)
	if err != nil {
		s.logger.Error("查询在船船员失败", zap.Error(err))
		return nil, err
	}

	// 一次聚合只捕获一次 now
	now := time.Now().UTC()

	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].CrewMemberID
	}
	docs, err := s.repo.Document.ListByCrewMembers(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询证件失败", zap.Error(err))
		return nil, err
	}
	byCrew := groupDocumentsByCrew(docs)

	resp := &dto.VesselComplianceResponse{
		VesselID: id,
		Crew:     make([]dto.CrewComplianceBrief, 0, len(members)),
	}

	reports := make([]expiry.ComplianceReport, 0, len(members))
	for i := range members {
		m := &members[i]
		report := expiry.CheckCompliance(
			byCrew[m.CrewMemberID], now,
			s.cfg.Expiry.DocumentThresholdDays, m.COCNotApplicable)
		reports = append(reports, report)

		resp.Crew = append(resp.Crew, dto.CrewComplianceBrief{
			CrewMemberID: m.CrewMemberID,
			Name:         m.FullName(),
			Rank:         m.Rank,
			Compliant:    report.Compliant,
			Issues:       toIssueDTOs(report.Issues),
		})
	}

	sum := expiry.Summarize(reports)
	resp.Compliant = sum.Compliant
	resp.Warning = sum.Warning
	resp.Critical = sum.Critical
	return resp, nil
}

func (s *vesselService) GetContractStats(ctx context.Context, id string) (*dto.ContractStatsResponse, error) {
	if _, err := s.repo.Vessel.GetByID(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	contracts, err := s.repo.Contract.ListActiveByVessel(ctx, id)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	ptrs := make([]*model.Contract, len(contracts))
	for i := range contracts {
		ptrs[i] = &contracts[i]
	}
	buckets := expiry.BucketContracts(ptrs, now, s.cfg.Expiry.ContractThresholdDays)

	// 内部桶名 valid/due/expired 对外映射为 active/expiringSoon/expired
	return &dto.ContractStatsResponse{
		Active:       buckets.Valid,
		ExpiringSoon: buckets.Due,
		Expired:      buckets.Expired,
	}, nil
}

func (s *vesselService) toResponse(v *model.Vessel, crewCount int64) dto.VesselResponse {
	return dto.VesselResponse{
		ID:        v.VesselID,
		Name:      v.Name,
		Type:      v.Type,
		Flag:      v.Flag,
		IMONumber: v.IMONumber,
		Status:    v.Status,
		CrewCount: crewCount,
		CreatedAt: v.CreatedAt.Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.Format(time.RFC3339),
	}
}

// groupDocumentsByCrew 把批量取回的证件按船员分组
func groupDocumentsByCrew(docs []model.Document) map[string][]model.Document {
	byCrew := make(map[string][]model.Document)
	for _, d := range docs {
		byCrew[d.CrewMemberID] = append(byCrew[d.CrewMemberID], d)
	}
	return byCrew
}

// toIssueDTOs 合规问题转响应行
func toIssueDTOs(issues []expiry.Issue) []dto.DocumentIssue {
	if len(issues) == 0 {
		return nil
	}
	out := make([]dto.DocumentIssue, 0, len(issues))
	for _, is := range issues {
		row := dto.DocumentIssue{
			Type:          is.Type,
			Status:        string(is.Status),
			DaysRemaining: is.DaysRemaining,
			DocumentID:    is.DocumentID,
		}
		if is.ExpiryDate != nil {
			row.ExpiryDate = is.ExpiryDate.Format("2006-01-02")
		}
		out = append(out, row)
	}
	return out
}
