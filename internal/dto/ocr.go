package dto

// ── OCR 预填模块 DTO ──

// OCRScanResponse OCR 扫描识别结果（表单预填建议，不直接落库）
// 所有字段均为尽力提取，置信度低的字段留空由操作员补填
type OCRScanResponse struct {
	DocumentType     string `json:"document_type,omitempty"` // passport | cdc | coc | medical 的猜测
	DocumentNumber   string `json:"document_number,omitempty"`
	IssuingAuthority string `json:"issuing_authority,omitempty"`
	IssueDate        string `json:"issue_date,omitempty"`  // 2006-01-02
	ExpiryDate       string `json:"expiry_date,omitempty"` // 2006-01-02
	HolderName       string `json:"holder_name,omitempty"`
	Nationality      string `json:"nationality,omitempty"`
	RawText          string `json:"raw_text"` // 引擎原始输出，供人工核对
}
