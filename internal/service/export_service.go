package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/expiry"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// ── 导出模块业务错误 ──

var (
	ErrExportNoCrew       = errors.New("该船暂无在船船员")
	ErrExportGenerateFail = errors.New("生成 Excel 文件失败")
)

// ExportService 导出业务接口
//
// 设计说明：
//   - 导出单船的船员证件矩阵为 Excel (.xlsx)：行 = 船员，
//     列 = 必备证件类型的到期状态，尾列 = 在职合同结束日期与分桶
//   - 矩阵中的状态与仪表盘同源：同一个 now、同一套分类引擎
//   - 导出以 bytes.Buffer 返回，由 Handler 层设置 HTTP 响应头后写入 Response
type ExportService interface {
	// ExportComplianceMatrix 导出船级证件合规矩阵
	ExportComplianceMatrix(ctx context.Context, vesselID string) (*bytes.Buffer, string, error)
}

type exportService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewExportService 创建 ExportService 实例
func NewExportService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) ExportService {
	return &exportService{cfg: cfg, repo: repo, logger: logger}
}

func (s *exportService) ExportComplianceMatrix(ctx context.Context, vesselID string) (*bytes.Buffer, string, error) {
	vessel, err := s.repo.Vessel.GetByID(ctx, vesselID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, "", ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return nil, "", err
	}

	members, err := s.repo.Crew.ListByVessel(ctx, vesselID)
	if err != nil {
		s.logger.Error("查询在船船员失败", zap.Error(err))
		return nil, "", err
	}
	if len(members) == 0 {
		return nil, "", ErrExportNoCrew
	}

	now := time.Now().UTC()

	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].CrewMemberID
	}
	docs, err := s.repo.Document.ListByCrewMembers(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询证件失败", zap.Error(err))
		return nil, "", err
	}
	byCrew := groupDocumentsByCrew(docs)

	contracts, err := s.repo.Contract.ListActiveByVessel(ctx, vesselID)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return nil, "", err
	}
	byCrewContract := make(map[string]*model.Contract, len(contracts))
	for i := range contracts {
		byCrewContract[contracts[i].CrewMemberID] = &contracts[i]
	}

	// ── 生成 Excel ──
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "证件矩阵"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 24)
	f.SetColWidth(sheetName, "B", "B", 14)
	colCount := 2 + len(expiry.RequiredDocumentTypes) + 1
	lastCol, _ := excelize.ColumnNumberToName(colCount)
	startDocCol, _ := excelize.ColumnNumberToName(3)
	f.SetColWidth(sheetName, startDocCol, lastCol, 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	// 标题行
	f.SetCellValue(sheetName, "A1", fmt.Sprintf("%s — 船员证件矩阵 (%s)", vessel.Name, now.Format(dateLayout)))
	f.MergeCell(sheetName, "A1", fmt.Sprintf("%s1", lastCol))
	f.SetCellStyle(sheetName, "A1", "A1", headerStyle)

	// 表头
	headers := []string{"船员", "职级"}
	headers = append(headers, expiry.RequiredDocumentTypes...)
	headers = append(headers, "合同")
	row := 2
	for i, h := range headers {
		col, _ := excelize.ColumnNumberToName(i + 1)
		f.SetCellValue(sheetName, fmt.Sprintf("%s%d", col, row), h)
		f.SetCellStyle(sheetName, fmt.Sprintf("%s%d", col, row), fmt.Sprintf("%s%d", col, row), headerStyle)
	}

	// 数据行
	row = 3
	for i := range members {
		m := &members[i]
		effective := expiry.PickEffective(byCrew[m.CrewMemberID])

		f.SetCellValue(sheetName, fmt.Sprintf("A%d", row), m.FullName())
		f.SetCellValue(sheetName, fmt.Sprintf("B%d", row), m.Rank)

		for j, typ := range expiry.RequiredDocumentTypes {
			col, _ := excelize.ColumnNumberToName(3 + j)
			cellRef := fmt.Sprintf("%s%d", col, row)

			if typ == model.DocumentTypeCOC && m.COCNotApplicable {
				f.SetCellValue(sheetName, cellRef, "不适用")
				continue
			}
			doc, ok := effective[typ]
			if !ok || doc.FilePath == "" {
				f.SetCellValue(sheetName, cellRef, "缺失")
				continue
			}
			f.SetCellValue(sheetName, cellRef, docCellText(doc, now, s.cfg.Expiry.DocumentThresholdDays))
		}

		contractCol, _ := excelize.ColumnNumberToName(colCount)
		cellRef := fmt.Sprintf("%s%d", contractCol, row)
		if c, ok := byCrewContract[m.CrewMemberID]; ok {
			bucket, res := expiry.ClassifyContract(c, now, s.cfg.Expiry.ContractThresholdDays)
			f.SetCellValue(sheetName, cellRef,
				fmt.Sprintf("%s (%s, %d天)", c.EndDate.Format(dateLayout), bucket, res.DaysRemaining))
		} else {
			f.SetCellValue(sheetName, cellRef, "无在职合同")
		}
		row++
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		s.logger.Error("写入 Excel 失败", zap.Error(err))
		return nil, "", ErrExportGenerateFail
	}

	filename := fmt.Sprintf("证件矩阵_%s_%s.xlsx", vessel.Name, now.Format("20060102"))
	return buf, filename, nil
}

// docCellText 单元格文本：到期日 + 现算状态
func docCellText(doc *model.Document, now time.Time, thresholdDays int) string {
	if doc.ExpiryDate == nil {
		return "长期有效"
	}
	res := expiry.Classify(doc.ExpiryDate, now, thresholdDays)
	return fmt.Sprintf("%s (%s, %d天)", doc.ExpiryDate.Format(dateLayout), res.Status, res.DaysRemaining)
}
