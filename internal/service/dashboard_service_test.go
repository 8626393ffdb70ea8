package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// ── 测试辅助 ──

type dashboardFixture struct {
	svc          DashboardService
	repo         *repository.Repository
	crewRepo     *mockCrewRepo
	vesselRepo   *mockVesselRepo
	docRepo      *mockDocumentRepo
	contractRepo *mockContractRepo
}

func setupTestDashboardService() *dashboardFixture {
	repo, crewRepo, vesselRepo, docRepo, contractRepo := newTestRepository()
	return &dashboardFixture{
		svc:          NewDashboardService(testConfig(), repo, zap.NewNop()),
		repo:         repo,
		crewRepo:     crewRepo,
		vesselRepo:   vesselRepo,
		docRepo:      docRepo,
		contractRepo: contractRepo,
	}
}

// brokenContractRepo 在合同查询上注入故障，其余操作透传
type brokenContractRepo struct {
	*mockContractRepo
	queryErr error
}

func (b *brokenContractRepo) GetActiveByCrewMember(ctx context.Context, crewMemberID string) (*model.Contract, error) {
	if b.queryErr != nil {
		return nil, b.queryErr
	}
	return b.mockContractRepo.GetActiveByCrewMember(ctx, crewMemberID)
}

func (f *dashboardFixture) addVessel(id, name string) {
	f.vesselRepo.vessels[id] = &model.Vessel{VesselID: id, Name: name, IMONumber: "9" + id}
}

func (f *dashboardFixture) addCrewOnBoard(id, vesselID string) {
	f.crewRepo.members[id] = &model.CrewMember{
		CrewMemberID:    id,
		FirstName:       "Crew",
		LastName:        id,
		Rank:            "AB",
		Status:          model.CrewStatusOnBoard,
		CurrentVesselID: &vesselID,
	}
}

// addFullDocSet 给船员配齐四类必备证件，到期日距今 expiryDays 天
func (f *dashboardFixture) addFullDocSet(crewID string, expiryDays int) {
	expiry := time.Now().UTC().AddDate(0, 0, expiryDays)
	for _, typ := range []string{
		model.DocumentTypePassport, model.DocumentTypeCDC,
		model.DocumentTypeCOC, model.DocumentTypeMedical,
	} {
		id := crewID + "-" + typ
		f.docRepo.docs[id] = &model.Document{
			DocumentID:   id,
			CrewMemberID: crewID,
			Type:         typ,
			ExpiryDate:   &expiry,
			FilePath:     "/uploads/" + id + ".pdf",
		}
	}
}

func (f *dashboardFixture) addActiveContract(id, crewID, vesselID string, endInDays int) {
	f.contractRepo.contracts[id] = &model.Contract{
		ContractID:   id,
		CrewMemberID: crewID,
		VesselID:     vesselID,
		EndDate:      time.Now().UTC().AddDate(0, 0, endInDays),
		Status:       model.ContractStatusActive,
	}
}

// ── Summary 测试 ──

// 三名在船船员：A 合同剩 100 天、B 剩 10 天、C 无在职合同，
// 期望三桶 {active:1, expiringSoon:1, expired:0}，C 不计入任何桶。
func TestDashboardService_Summary_ContractBuckets(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")
	f.addCrewOnBoard("crew-b", "vessel-1")
	f.addCrewOnBoard("crew-c", "vessel-1")
	f.addFullDocSet("crew-a", 365)
	f.addFullDocSet("crew-b", 365)
	f.addFullDocSet("crew-c", 365)
	f.addActiveContract("contract-a", "crew-a", "vessel-1", 100)
	f.addActiveContract("contract-b", "crew-b", "vessel-1", 10)

	result, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if len(result.Vessels) != 1 {
		t.Fatalf("期望 1 条船舶行，实际=%d", len(result.Vessels))
	}

	entry := result.Vessels[0]
	if entry.Contracts.Active != 1 {
		t.Errorf("期望 active=1，实际=%d", entry.Contracts.Active)
	}
	if entry.Contracts.ExpiringSoon != 1 {
		t.Errorf("期望 expiringSoon=1，实际=%d", entry.Contracts.ExpiringSoon)
	}
	if entry.Contracts.Expired != 0 {
		t.Errorf("期望 expired=0，无在职合同的船员不算过期，实际=%d", entry.Contracts.Expired)
	}

	// 三桶之和 = 持有在职合同的船员数
	sum := entry.Contracts.Active + entry.Contracts.ExpiringSoon + entry.Contracts.Expired
	if sum != 2 {
		t.Errorf("期望三桶之和=2，实际=%d", sum)
	}
}

func TestDashboardService_Summary_DocumentTiers(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-ok", "vessel-1")
	f.addCrewOnBoard("crew-warn", "vessel-1")
	f.addCrewOnBoard("crew-crit", "vessel-1")
	f.addFullDocSet("crew-ok", 365)  // 全部远期 → compliant
	f.addFullDocSet("crew-warn", 20) // 全部窗口内 → warning
	f.addFullDocSet("crew-crit", -5) // 全部过期 → critical

	result, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}

	ds := result.DocumentSummary
	if ds.Compliant != 1 || ds.Warning != 1 || ds.Critical != 1 {
		t.Errorf("期望三档 {1,1,1}，实际={%d,%d,%d}", ds.Compliant, ds.Warning, ds.Critical)
	}

	// 存在 critical → 徽标 EX
	if result.Vessels[0].ComplianceBadge != "EX" {
		t.Errorf("期望徽标=EX，实际=%s", result.Vessels[0].ComplianceBadge)
	}
}

func TestDashboardService_Summary_BadgeOK(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")
	f.addFullDocSet("crew-a", 365)
	f.addActiveContract("contract-a", "crew-a", "vessel-1", 200)

	result, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if result.Vessels[0].ComplianceBadge != "OK" {
		t.Errorf("期望徽标=OK，实际=%s", result.Vessels[0].ComplianceBadge)
	}
	if result.GeneratedAt == "" {
		t.Error("期望 GeneratedAt 非空")
	}
}

// 缺失证件的船员应计入 critical：占位行（无上传文件）不得当作有效证件
func TestDashboardService_Summary_MissingDocumentIsCritical(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")

	// 只有 passport 一件，且是无文件占位行
	expiry := time.Now().UTC().AddDate(0, 0, 200)
	f.docRepo.docs["doc-1"] = &model.Document{
		DocumentID:   "doc-1",
		CrewMemberID: "crew-a",
		Type:         model.DocumentTypePassport,
		ExpiryDate:   &expiry,
		FilePath:     "", // 占位
	}

	result, err := f.svc.Summary(context.Background())
	if err != nil {
		t.Fatalf("Summary 应成功: %v", err)
	}
	if result.DocumentSummary.Critical != 1 {
		t.Errorf("期望 critical=1，实际=%d", result.DocumentSummary.Critical)
	}
}

// ── Drilldown 测试 ──

func TestDashboardService_Drilldown_ContractExpired(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")
	f.addCrewOnBoard("crew-b", "vessel-1")
	f.addCrewOnBoard("crew-c", "vessel-1") // 无在职合同，应被跳过而非报错
	f.addActiveContract("contract-a", "crew-a", "vessel-1", -10)
	f.addActiveContract("contract-b", "crew-b", "vessel-1", 100)

	rows, err := f.svc.Drilldown(context.Background(), &dto.DrilldownRequest{
		Type: "contract", Key: "expired", VesselID: "vessel-1",
	})
	if err != nil {
		t.Fatalf("Drilldown 应成功: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("期望 1 行，实际=%d", len(rows))
	}
	if rows[0].CrewMemberID != "crew-a" {
		t.Errorf("期望 crew-a，实际=%s", rows[0].CrewMemberID)
	}
	if rows[0].DaysRemaining > 0 {
		t.Errorf("过期行 DaysRemaining 应为非正数，实际=%d", rows[0].DaysRemaining)
	}
}

// 聚合途中合同查询失败必须整体报错，不得当作"无在职合同"吞掉后返回残缺结果
func TestDashboardService_Drilldown_ContractQueryError(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")
	f.addActiveContract("contract-a", "crew-a", "vessel-1", 10)

	queryErr := errors.New("数据库连接失败")
	f.repo.Contract = &brokenContractRepo{mockContractRepo: f.contractRepo, queryErr: queryErr}

	rows, err := f.svc.Drilldown(context.Background(), &dto.DrilldownRequest{
		Type: "contract", Key: "expiring", VesselID: "vessel-1",
	})
	if !errors.Is(err, queryErr) {
		t.Fatalf("期望透出底层查询错误，实际 err=%v", err)
	}
	if rows != nil {
		t.Errorf("出错时不应返回残缺行，实际=%d 行", len(rows))
	}
}

// 分类键与维度不匹配时两个维度行为一致：统一拒绝
func TestDashboardService_Drilldown_KeyMismatchRejected(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-a", "vessel-1")
	f.addFullDocSet("crew-a", 365)
	f.addActiveContract("contract-a", "crew-a", "vessel-1", 10)

	cases := []struct {
		name string
		typ  string
		key  string
	}{
		{"合同维度用证件键", "contract", "critical"},
		{"证件维度用合同键", "document", "expiring"},
		{"未知键", "contract", "overdue"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rows, err := f.svc.Drilldown(context.Background(), &dto.DrilldownRequest{
				Type: tc.typ, Key: tc.key, VesselID: "vessel-1",
			})
			if !errors.Is(err, ErrInvalidDrilldownKey) {
				t.Fatalf("期望 ErrInvalidDrilldownKey，实际 err=%v", err)
			}
			if rows != nil {
				t.Errorf("无效键不应返回任何行，实际=%d 行", len(rows))
			}
		})
	}
}

func TestDashboardService_Drilldown_DocumentCritical(t *testing.T) {
	f := setupTestDashboardService()
	f.addVessel("vessel-1", "MV Alpha")
	f.addCrewOnBoard("crew-ok", "vessel-1")
	f.addCrewOnBoard("crew-bad", "vessel-1")
	f.addFullDocSet("crew-ok", 365)
	f.addFullDocSet("crew-bad", -3)

	rows, err := f.svc.Drilldown(context.Background(), &dto.DrilldownRequest{
		Type: "document", Key: "critical", VesselID: "vessel-1",
	})
	if err != nil {
		t.Fatalf("Drilldown 应成功: %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("期望 4 行（四类证件各一行），实际=%d", len(rows))
	}
	for _, row := range rows {
		if row.CrewMemberID != "crew-bad" {
			t.Errorf("合规船员不应出现在 critical 下钻中: %s", row.CrewMemberID)
		}
		if row.Status != "expired" {
			t.Errorf("期望Status=expired，实际=%s", row.Status)
		}
	}
}
