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

// 仪表盘模块业务错误
var ErrInvalidDrilldownKey = errors.New("下钻分类键与维度不匹配")

// DashboardService 仪表盘聚合业务接口
//
// 一次请求只在入口捕获一次 now，整个聚合过程不再取时钟，
// 避免跨日界时同一页面出现互相矛盾的计数。
type DashboardService interface {
	Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error)
	Drilldown(ctx context.Context, req *dto.DrilldownRequest) ([]dto.DrilldownRow, error)
}

type dashboardService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDashboardService 创建 DashboardService 实例
func NewDashboardService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DashboardService {
	return &dashboardService{cfg: cfg, repo: repo, logger: logger}
}

func (s *dashboardService) Summary(ctx context.Context) (*dto.DashboardSummaryResponse, error) {
	now := time.Now().UTC()

	totalVessels, err := s.repo.Vessel.Count(ctx)
	if err != nil {
		s.logger.Error("统计船舶数失败", zap.Error(err))
		return nil, err
	}
	totalCrew, err := s.repo.Crew.Count(ctx)
	if err != nil {
		s.logger.Error("统计船员数失败", zap.Error(err))
		return nil, err
	}
	crewOnBoard, err := s.repo.Crew.CountOnBoard(ctx)
	if err != nil {
		s.logger.Error("统计在船船员数失败", zap.Error(err))
		return nil, err
	}

	vessels, err := s.repo.Vessel.List(ctx)
	if err != nil {
		s.logger.Error("查询船舶列表失败", zap.Error(err))
		return nil, err
	}

	resp := &dto.DashboardSummaryResponse{
		TotalVessels: totalVessels,
		TotalCrew:    totalCrew,
		CrewOnBoard:  crewOnBoard,
		Vessels:      make([]dto.VesselDashboardEntry, 0, len(vessels)),
		GeneratedAt:  now.Format(time.RFC3339),
	}

	for i := range vessels {
		v := &vessels[i]
		entry, sum, err := s.vesselEntry(ctx, v, now)
		if err != nil {
			return nil, err
		}
		resp.Vessels = append(resp.Vessels, *entry)
		resp.DocumentSummary.Compliant += sum.Compliant
		resp.DocumentSummary.Warning += sum.Warning
		resp.DocumentSummary.Critical += sum.Critical
	}
	return resp, nil
}

// vesselEntry 汇总单船的证件三档、合同三桶与合规徽标
func (s *dashboardService) vesselEntry(ctx context.Context, v *model.Vessel, now time.Time) (*dto.VesselDashboardEntry, *expiry.CrewComplianceSummary, error) {
	members, err := s.repo.Crew.ListByVessel(ctx, v.VesselID)
	if err != nil {
		s.logger.Error("查询在船船员失败",
			zap.String("vessel_id", v.VesselID), zap.Error(err))
		return nil, nil, err
	}

	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].CrewMemberID
	}
	docs, err := s.repo.Document.ListByCrewMembers(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询证件失败", zap.Error(err))
		return nil, nil, err
	}
	byCrew := groupDocumentsByCrew(docs)

	reports := make([]expiry.ComplianceReport, 0, len(members))
	for i := range members {
		m := &members[i]
		reports = append(reports, expiry.CheckCompliance(
			byCrew[m.CrewMemberID], now,
			s.cfg.Expiry.DocumentThresholdDays, m.COCNotApplicable))
	}
	docSum := expiry.Summarize(reports)

	contracts, err := s.repo.Contract.ListActiveByVessel(ctx, v.VesselID)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return nil, nil, err
	}

	// 按船员对齐在职合同：无在职合同的船员传 nil，不计入任何桶
	byCrewContract := make(map[string]*model.Contract, len(contracts))
	for i := range contracts {
		byCrewContract[contracts[i].CrewMemberID] = &contracts[i]
	}
	aligned := make([]*model.Contract, 0, len(members))
	for i := range members {
		aligned = append(aligned, byCrewContract[members[i].CrewMemberID])
	}
	buckets := expiry.BucketContracts(aligned, now, s.cfg.Expiry.ContractThresholdDays)

	badge := "OK"
	if docSum.Critical > 0 || buckets.Expired > 0 {
		badge = "EX"
	}

	entry := &dto.VesselDashboardEntry{
		VesselID:    v.VesselID,
		VesselName:  v.Name,
		CrewOnBoard: len(members),
		Documents: dto.DocumentSummaryCounts{
			Compliant: docSum.Compliant,
			Warning:   docSum.Warning,
			Critical:  docSum.Critical,
		},
		Contracts: dto.ContractStatsResponse{
			Active:       buckets.Valid,
			ExpiringSoon: buckets.Due,
			Expired:      buckets.Expired,
		},
		ComplianceBadge: badge,
	}
	return entry, &docSum, nil
}

func (s *dashboardService) Drilldown(ctx context.Context, req *dto.DrilldownRequest) ([]dto.DrilldownRow, error) {
	now := time.Now().UTC()

	if err := validateDrilldownKey(req.Type, req.Key); err != nil {
		return nil, err
	}

	members, err := s.listScope(ctx, req.VesselID)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case "contract":
		return s.drilldownContracts(ctx, members, req.Key, now)
	default:
		return s.drilldownDocuments(ctx, members, req.Key, now)
	}
}

// validateDrilldownKey 校验分类键属于对应维度的取值集合
func validateDrilldownKey(typ, key string) error {
	switch typ {
	case "contract":
		if key == "active" || key == "expiring" || key == "expired" {
			return nil
		}
	default:
		if key == "compliant" || key == "warning" || key == "critical" {
			return nil
		}
	}
	return ErrInvalidDrilldownKey
}

// listScope 拉取下钻范围内的船员（指定船或全队在船）
func (s *dashboardService) listScope(ctx context.Context, vesselID string) ([]model.CrewMember, error) {
	if vesselID != "" {
		members, err := s.repo.Crew.ListByVessel(ctx, vesselID)
		if err != nil {
			s.logger.Error("查询在船船员失败", zap.Error(err))
			return nil, err
		}
		return members, nil
	}
	members, _, err := s.repo.Crew.List(ctx, repository.CrewFilter{
		Status: model.CrewStatusOnBoard,
		Limit:  10000,
	})
	if err != nil {
		s.logger.Error("查询在船船员失败", zap.Error(err))
		return nil, err
	}
	return members, nil
}

func (s *dashboardService) drilldownDocuments(ctx context.Context, members []model.CrewMember, key string, now time.Time) ([]dto.DrilldownRow, error) {
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

	var rows []dto.DrilldownRow
	for i := range members {
		m := &members[i]
		report := expiry.CheckCompliance(
			byCrew[m.CrewMemberID], now,
			s.cfg.Expiry.DocumentThresholdDays, m.COCNotApplicable)

		var match bool
		switch key {
		case "compliant":
			match = report.Compliant
		case "warning":
			match = !report.Compliant && !reportHasSevere(report)
		case "critical":
			match = reportHasSevere(report)
		}
		if !match {
			continue
		}

		if report.Compliant {
			rows = append(rows, s.memberRow(m, dto.DrilldownRow{
				ItemType: "all", Status: string(expiry.StatusValid),
			}))
			continue
		}
		for _, is := range report.Issues {
			row := s.memberRow(m, dto.DrilldownRow{
				ItemType:      is.Type,
				Status:        string(is.Status),
				DaysRemaining: is.DaysRemaining,
			})
			if is.ExpiryDate != nil {
				row.ExpiryDate = is.ExpiryDate.Format(dateLayout)
			}
			rows = append(rows, row)
		}
	}
	return rows, nil
}

func (s *dashboardService) drilldownContracts(ctx context.Context, members []model.CrewMember, key string, now time.Time) ([]dto.DrilldownRow, error) {
	var want expiry.Bucket
	switch key {
	case "active":
		want = expiry.BucketValid
	case "expiring":
		want = expiry.BucketDue
	case "expired":
		want = expiry.BucketExpired
	}

	var rows []dto.DrilldownRow
	for i := range members {
		m := &members[i]
		contract, err := s.repo.Contract.GetActiveByCrewMember(ctx, m.CrewMemberID)
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue // 无在职合同不计入任何桶
		}
		if err != nil {
			s.logger.Error("查询在职合同失败",
				zap.String("crew_member_id", m.CrewMemberID), zap.Error(err))
			return nil, err
		}

		bucket, res := expiry.ClassifyContract(contract, now, s.cfg.Expiry.ContractThresholdDays)
		if bucket != want {
			continue
		}
		rows = append(rows, s.memberRow(m, dto.DrilldownRow{
			ItemType:      "contract",
			Status:        string(bucket),
			DaysRemaining: res.DaysRemaining,
			ExpiryDate:    contract.EndDate.Format(dateLayout),
		}))
	}
	return rows, nil
}

func (s *dashboardService) memberRow(m *model.CrewMember, row dto.DrilldownRow) dto.DrilldownRow {
	row.CrewMemberID = m.CrewMemberID
	row.CrewName = m.FullName()
	row.Rank = m.Rank
	if m.CurrentVesselID != nil {
		row.VesselID = *m.CurrentVesselID
	}
	if m.CurrentVessel != nil {
		row.VesselName = m.CurrentVessel.Name
	}
	return row
}

func reportHasSevere(r expiry.ComplianceReport) bool {
	for _, is := range r.Issues {
		if is.Status == expiry.StatusExpired || is.Status == expiry.StatusMissing {
			return true
		}
	}
	return false
}
