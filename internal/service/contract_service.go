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

// ── 合同模块业务错误 ──

var (
	ErrContractNotFound    = errors.New("合同不存在")
	ErrContractDateInvalid = errors.New("合同结束日期不能早于开始日期")
	ErrContractCompleted   = errors.New("合同已结束，无法修改")
)

// ContractService 合同业务接口
type ContractService interface {
	// Create 新建合同时自动把该船员的旧 active 合同置为 completed，
	// 保证同一船员同时至多一份在职合同
	Create(ctx context.Context, req *dto.CreateContractRequest, operatorID string) (*dto.ContractResponse, error)
	GetByID(ctx context.Context, id string) (*dto.ContractResponse, error)
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]dto.ContractResponse, error)
	// ListByVessel 船级在职合同列表，status 参数按分类桶过滤
	ListByVessel(ctx context.Context, vesselID string, req *dto.ContractListRequest) ([]dto.ContractResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateContractRequest, operatorID string) (*dto.ContractResponse, error)
	// Complete 手动办理离任，置 completed 终态
	Complete(ctx context.Context, id string, operatorID string) error
}

type contractService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewContractService 创建 ContractService 实例
func NewContractService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ContractService {
	return &contractService{cfg: cfg, repo: repo, logger: logger}
}

func (s *contractService) Create(ctx context.Context, req *dto.CreateContractRequest, operatorID string) (*dto.ContractResponse, error) {
	if _, err := s.repo.Crew.GetByID(ctx, req.CrewMemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}
	if _, err := s.repo.Vessel.GetByID(ctx, req.VesselID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	startDate, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, err
	}
	endDate, err := time.Parse(dateLayout, req.EndDate)
	if err != nil {
		return nil, err
	}
	if endDate.Before(startDate) {
		return nil, ErrContractDateInvalid
	}

	// 旧在职合同先收口
	if err := s.repo.Contract.CompleteActiveByCrewMember(ctx, req.CrewMemberID, operatorID); err != nil {
		s.logger.Error("结转旧合同失败", zap.Error(err))
		return nil, err
	}

	currency := req.Currency
	if currency == "" {
		currency = "USD"
	}

	contract := &model.Contract{
		CrewMemberID: req.CrewMemberID,
		VesselID:     req.VesselID,
		StartDate:    startDate,
		EndDate:      endDate,
		Rank:         req.Rank,
		MonthlyWage:  req.MonthlyWage,
		Currency:     currency,
		Status:       model.ContractStatusActive,
	}
	contract.CreatedBy = &operatorID
	contract.UpdatedBy = &operatorID

	if err := s.repo.Contract.Create(ctx, contract); err != nil {
		s.logger.Error("创建合同失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("合同已创建",
		zap.String("contract_id", contract.ContractID),
		zap.String("crew_member_id", req.CrewMemberID),
		zap.String("end_date", req.EndDate))

	resp := s.toResponse(contract, time.Now().UTC())
	return &resp, nil
}

func (s *contractService) GetByID(ctx context.Context, id string) (*dto.ContractResponse, error) {
	contract, err := s.repo.Contract.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		s.logger.Error("查询合同失败", zap.Error(err))
		return nil, err
	}
	resp := s.toResponse(contract, time.Now().UTC())
	return &resp, nil
}

func (s *contractService) ListByCrewMember(ctx context.Context, crewMemberID string) ([]dto.ContractResponse, error) {
	if _, err := s.repo.Crew.GetByID(ctx, crewMemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	contracts, err := s.repo.Contract.ListByCrewMember(ctx, crewMemberID)
	if err != nil {
		s.logger.Error("查询合同列表失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		out = append(out, s.toResponse(&contracts[i], now))
	}
	return out, nil
}

func (s *contractService) ListByVessel(ctx context.Context, vesselID string, req *dto.ContractListRequest) ([]dto.ContractResponse, error) {
	if _, err := s.repo.Vessel.GetByID(ctx, vesselID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, err
	}

	contracts, err := s.repo.Contract.ListActiveByVessel(ctx, vesselID)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()

	// 过滤参数映射到内部桶：active→valid, expiring→due, expired→expired
	var want expiry.Bucket
	switch req.Status {
	case "active":
		want = expiry.BucketValid
	case "expiring":
		want = expiry.BucketDue
	case "expired":
		want = expiry.BucketExpired
	}

	out := make([]dto.ContractResponse, 0, len(contracts))
	for i := range contracts {
		c := &contracts[i]
		bucket, _ := expiry.ClassifyContract(c, now, s.cfg.Expiry.ContractThresholdDays)
		if want != "" && bucket != want {
			continue
		}
		out = append(out, s.toResponse(c, now))
	}
	return out, nil
}

func (s *contractService) Update(ctx context.Context, id string, req *dto.UpdateContractRequest, operatorID string) (*dto.ContractResponse, error) {
	contract, err := s.repo.Contract.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrContractNotFound
		}
		s.logger.Error("查询合同失败", zap.Error(err))
		return nil, err
	}
	if contract.Status == model.ContractStatusCompleted {
		return nil, ErrContractCompleted
	}

	if req.StartDate != nil {
		if d, err := time.Parse(dateLayout, *req.StartDate); err == nil {
			contract.StartDate = d
		}
	}
	if req.EndDate != nil {
		if d, err := time.Parse(dateLayout, *req.EndDate); err == nil {
			contract.EndDate = d
		}
	}
	if contract.EndDate.Before(contract.StartDate) {
		return nil, ErrContractDateInvalid
	}
	if req.Rank != nil {
		contract.Rank = *req.Rank
	}
	if req.MonthlyWage != nil {
		contract.MonthlyWage = *req.MonthlyWage
	}
	if req.Currency != nil {
		contract.Currency = *req.Currency
	}
	contract.UpdatedBy = &operatorID
	contract.Version++

	if err := s.repo.Contract.Update(ctx, contract); err != nil {
		s.logger.Error("更新合同失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(contract, time.Now().UTC())
	return &resp, nil
}

func (s *contractService) Complete(ctx context.Context, id string, operatorID string) error {
	contract, err := s.repo.Contract.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractNotFound
		}
		s.logger.Error("查询合同失败", zap.Error(err))
		return err
	}
	if contract.Status == model.ContractStatusCompleted {
		return ErrContractCompleted
	}

	contract.Status = model.ContractStatusCompleted
	contract.UpdatedBy = &operatorID
	contract.Version++
	if err := s.repo.Contract.Update(ctx, contract); err != nil {
		s.logger.Error("结束合同失败", zap.Error(err))
		return err
	}

	s.logger.Info("合同已结束", zap.String("contract_id", id))
	return nil
}

func (s *contractService) toResponse(c *model.Contract, now time.Time) dto.ContractResponse {
	resp := dto.ContractResponse{
		ID:           c.ContractID,
		CrewMemberID: c.CrewMemberID,
		VesselID:     c.VesselID,
		StartDate:    c.StartDate.Format(dateLayout),
		EndDate:      c.EndDate.Format(dateLayout),
		Rank:         c.Rank,
		MonthlyWage:  c.MonthlyWage,
		Currency:     c.Currency,
		Status:       c.Status,
		CreatedAt:    c.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    c.UpdatedAt.Format(time.RFC3339),
	}
	if c.CrewMember != nil {
		resp.CrewMemberName = c.CrewMember.FullName()
	}
	if c.Vessel != nil {
		resp.VesselName = c.Vessel.Name
	}

	bucket, res := expiry.ClassifyContract(c, now, s.cfg.Expiry.ContractThresholdDays)
	resp.Classification = string(bucket)
	resp.DaysRemaining = res.DaysRemaining
	return resp
}
