package service

import (
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// OCR 原始文本的字段提取启发式。
// 引擎只负责出文本，字段定位全在这里做：逐行扫描关键词，
// 提取不到的字段留空交给操作员补填，宁缺毋错。

var (
	// 常见日期写法：2026-03-15 / 15/03/2026 / 15.03.2026 / 15 MAR 2026
	reDateISO     = regexp.MustCompile(`\b(\d{4})-(\d{2})-(\d{2})\b`)
	reDateSlash   = regexp.MustCompile(`\b(\d{1,2})[/.](\d{1,2})[/.](\d{4})\b`)
	reDateWordMon = regexp.MustCompile(`\b(\d{1,2})\s+(JAN|FEB|MAR|APR|MAY|JUN|JUL|AUG|SEP|OCT|NOV|DEC)[A-Z]*\.?\s+(\d{4})\b`)

	// 证件编号：1-2 个大写字母开头接 6-9 位数字（护照/CDC 常见格式）
	reDocNumber = regexp.MustCompile(`\b[A-Z]{1,2}\d{6,9}\b`)

	// 护照 MRZ 首行：P<国家码<姓<<名
	reMRZ = regexp.MustCompile(`^P[<A-Z]([A-Z]{3})([A-Z<]+)$`)
)

var monthAbbr = map[string]time.Month{
	"JAN": time.January, "FEB": time.February, "MAR": time.March,
	"APR": time.April, "MAY": time.May, "JUN": time.June,
	"JUL": time.July, "AUG": time.August, "SEP": time.September,
	"OCT": time.October, "NOV": time.November, "DEC": time.December,
}

// 类型关键词按特异性排序，先命中先得
var docTypeKeywords = []struct {
	docType  string
	keywords []string
}{
	{model.DocumentTypeCDC, []string{"CONTINUOUS DISCHARGE", "SEAMAN'S BOOK", "SEAMAN BOOK", "CDC"}},
	{model.DocumentTypeCOC, []string{"CERTIFICATE OF COMPETENCY", "COMPETENCY"}},
	{model.DocumentTypeMedical, []string{"MEDICAL CERTIFICATE", "MEDICAL EXAMINATION", "FIT FOR SEA"}},
	{model.DocumentTypePassport, []string{"PASSPORT"}},
}

// 到期/签发关键词（行内命中后取同行日期）
var (
	expiryKeywords = []string{"DATE OF EXPIRY", "EXPIRY DATE", "EXPIRY", "VALID UNTIL", "VALID TILL", "EXPIRES"}
	issueKeywords  = []string{"DATE OF ISSUE", "ISSUE DATE", "ISSUED ON", "ISSUED"}
	nameKeywords   = []string{"SURNAME", "GIVEN NAME", "FULL NAME", "NAME OF HOLDER", "NAME"}
	natKeywords    = []string{"NATIONALITY", "CITIZENSHIP"}
	authKeywords   = []string{"ISSUING AUTHORITY", "AUTHORITY", "ISSUED BY"}
)

// ParseDocumentText 从 OCR 原始文本提取表单预填字段
func ParseDocumentText(raw string) *dto.OCRScanResponse {
	resp := &dto.OCRScanResponse{}
	lines := strings.Split(raw, "\n")

	upper := strings.ToUpper(raw)
	for _, entry := range docTypeKeywords {
		for _, kw := range entry.keywords {
			if strings.Contains(upper, kw) {
				resp.DocumentType = entry.docType
				break
			}
		}
		if resp.DocumentType != "" {
			break
		}
	}

	var allDates []time.Time
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		lineUpper := strings.ToUpper(line)

		// MRZ 行优先：类型与持有人姓名一次拿到
		// 以 "<<" 分隔符为前置条件，避免 "PASSPORT" 之类普通单词误判
		if compact := strings.ReplaceAll(lineUpper, " ", ""); strings.Contains(compact, "<<") {
			if m := reMRZ.FindStringSubmatch(compact); m != nil {
				resp.DocumentType = model.DocumentTypePassport
				if name := parseMRZName(m[2]); name != "" {
					resp.HolderName = name
				}
				continue
			}
		}

		dates := extractDates(lineUpper)
		allDates = append(allDates, dates...)

		if len(dates) > 0 {
			if resp.ExpiryDate == "" && containsAny(lineUpper, expiryKeywords) {
				resp.ExpiryDate = dates[0].Format("2006-01-02")
			} else if resp.IssueDate == "" && containsAny(lineUpper, issueKeywords) {
				resp.IssueDate = dates[0].Format("2006-01-02")
			}
		}

		if resp.HolderName == "" {
			if v := valueAfterKeyword(line, lineUpper, nameKeywords); v != "" {
				resp.HolderName = v
			}
		}
		if resp.Nationality == "" {
			if v := valueAfterKeyword(line, lineUpper, natKeywords); v != "" {
				resp.Nationality = v
			}
		}
		if resp.IssuingAuthority == "" {
			if v := valueAfterKeyword(line, lineUpper, authKeywords); v != "" {
				resp.IssuingAuthority = v
			}
		}
		if resp.DocumentNumber == "" {
			if n := reDocNumber.FindString(lineUpper); n != "" {
				resp.DocumentNumber = n
			}
		}
	}

	// 关键词没命中时按时间顺序兜底：最早的当签发、最晚的当到期
	if (resp.IssueDate == "" || resp.ExpiryDate == "") && len(allDates) >= 2 {
		earliest, latest := allDates[0], allDates[0]
		for _, d := range allDates[1:] {
			if d.Before(earliest) {
				earliest = d
			}
			if d.After(latest) {
				latest = d
			}
		}
		if resp.IssueDate == "" {
			resp.IssueDate = earliest.Format("2006-01-02")
		}
		if resp.ExpiryDate == "" && !latest.Equal(earliest) {
			resp.ExpiryDate = latest.Format("2006-01-02")
		}
	}

	return resp
}

// extractDates 提取一行内能识别的全部日期
func extractDates(lineUpper string) []time.Time {
	var dates []time.Time

	for _, m := range reDateISO.FindAllString(lineUpper, -1) {
		if d, err := time.Parse("2006-01-02", m); err == nil {
			dates = append(dates, d)
		}
	}
	for _, m := range reDateSlash.FindAllStringSubmatch(lineUpper, -1) {
		// 海事证件默认 日/月/年
		if d, err := time.Parse("2/1/2006",
			m[1]+"/"+m[2]+"/"+m[3]); err == nil {
			dates = append(dates, d)
		}
	}
	for _, m := range reDateWordMon.FindAllStringSubmatch(lineUpper, -1) {
		day, _ := strconv.Atoi(m[1])
		year, _ := strconv.Atoi(m[3])
		if mon, ok := monthAbbr[m[2]]; ok && day >= 1 && day <= 31 {
			dates = append(dates, time.Date(year, mon, day, 0, 0, 0, 0, time.UTC))
		}
	}
	return dates
}

// valueAfterKeyword 取关键词之后的冒号分隔值（保留原始大小写）
func valueAfterKeyword(line, lineUpper string, keywords []string) string {
	for _, kw := range keywords {
		idx := strings.Index(lineUpper, kw)
		if idx < 0 {
			continue
		}
		rest := line[idx+len(kw):]
		rest = strings.TrimLeft(rest, " :：.-")
		rest = strings.TrimSpace(rest)
		if rest != "" && len(rest) <= 100 {
			return rest
		}
	}
	return ""
}

// parseMRZName 解析 MRZ 姓名段：姓<<名1<名2 → "名1 名2 姓"
func parseMRZName(field string) string {
	parts := strings.SplitN(field, "<<", 2)
	surname := strings.ReplaceAll(parts[0], "<", " ")
	surname = strings.TrimSpace(surname)
	if len(parts) == 1 {
		return surname
	}
	given := strings.ReplaceAll(parts[1], "<", " ")
	given = strings.TrimSpace(strings.Join(strings.Fields(given), " "))
	if given == "" {
		return surname
	}
	return given + " " + surname
}

func containsAny(s string, keywords []string) bool {
	for _, kw := range keywords {
		if strings.Contains(s, kw) {
			return true
		}
	}
	return false
}
