package service

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

func setupTestExportService() (ExportService, *mockCrewRepo, *mockDocumentRepo, *mockContractRepo) {
	repo, crewRepo, vesselRepo, docRepo, contractRepo := newTestRepository()
	svc := NewExportService(testConfig(), repo, zap.NewNop())

	vesselRepo.vessels["vessel-1"] = &model.Vessel{
		VesselID: "vessel-1", Name: "MV Alpha", IMONumber: "9000001",
		Status: model.VesselStatusOperational,
	}
	return svc, crewRepo, docRepo, contractRepo
}

func TestExportService_Matrix_NoCrew(t *testing.T) {
	svc, _, _, _ := setupTestExportService()

	if _, _, err := svc.ExportComplianceMatrix(context.Background(), "vessel-1"); !errors.Is(err, ErrExportNoCrew) {
		t.Errorf("期望 ErrExportNoCrew，实际: %v", err)
	}
}

func TestExportService_Matrix_VesselNotFound(t *testing.T) {
	svc, _, _, _ := setupTestExportService()

	if _, _, err := svc.ExportComplianceMatrix(context.Background(), "nonexistent"); !errors.Is(err, ErrVesselNotFound) {
		t.Errorf("期望 ErrVesselNotFound，实际: %v", err)
	}
}

// 生成的工作簿应可被 excelize 读回，且行列与船员/证件对应
func TestExportService_Matrix_RoundTrip(t *testing.T) {
	svc, crewRepo, docRepo, contractRepo := setupTestExportService()

	vesselID := "vessel-1"
	crewRepo.members["crew-1"] = &model.CrewMember{
		CrewMemberID: "crew-1", FirstName: "Juan", LastName: "Santos", Rank: "AB",
		Status: model.CrewStatusOnBoard, CurrentVesselID: &vesselID,
		COCNotApplicable: true,
	}
	expiry := time.Now().UTC().AddDate(0, 0, 365)
	docRepo.docs["doc-passport"] = &model.Document{
		DocumentID: "doc-passport", CrewMemberID: "crew-1",
		Type: model.DocumentTypePassport, ExpiryDate: &expiry,
		FilePath: "/uploads/doc-passport.pdf",
	}
	contractRepo.contracts["contract-1"] = &model.Contract{
		ContractID: "contract-1", CrewMemberID: "crew-1", VesselID: vesselID,
		StartDate: time.Now().UTC().AddDate(0, -6, 0),
		EndDate:   time.Now().UTC().AddDate(0, 0, 120),
		Rank:      "AB", Status: model.ContractStatusActive,
	}

	buf, filename, err := svc.ExportComplianceMatrix(context.Background(), "vessel-1")
	if err != nil {
		t.Fatalf("ExportComplianceMatrix 应成功: %v", err)
	}
	if !strings.HasPrefix(filename, "证件矩阵_MV Alpha_") || !strings.HasSuffix(filename, ".xlsx") {
		t.Errorf("文件名格式不符: %s", filename)
	}

	f, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("导出内容应为合法 xlsx: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("证件矩阵")
	if err != nil {
		t.Fatalf("读取工作表失败: %v", err)
	}
	// 标题 + 表头 + 1 条数据行
	if len(rows) != 3 {
		t.Fatalf("期望 3 行，实际=%d", len(rows))
	}
	dataRow := rows[2]
	if dataRow[0] != "Juan Santos" {
		t.Errorf("期望首列为船员姓名，实际=%s", dataRow[0])
	}
	joined := strings.Join(dataRow, "|")
	if !strings.Contains(joined, "不适用") {
		t.Error("COC 不适用应渲染为 不适用")
	}
	if !strings.Contains(joined, "缺失") {
		t.Error("未持有的必备证件应渲染为 缺失")
	}
	if !strings.Contains(joined, "valid") {
		t.Error("长期护照应渲染现算状态 valid")
	}
}
