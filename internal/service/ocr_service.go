package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
)

// ── OCR 模块业务错误 ──

var (
	ErrOCREngineUnavailable = errors.New("OCR 引擎不可用")
	ErrOCREmptyImage        = errors.New("图片内容为空")
)

// OCREngine 文本识别引擎抽象
// 生产实现走独立部署的 HTTP 引擎服务，测试注入假实现
type OCREngine interface {
	ExtractText(ctx context.Context, image []byte, filename string) (string, error)
}

// OCRService OCR 预填业务接口
// 识别结果只作表单预填建议，不直接落库，操作员核对后提交
type OCRService interface {
	Scan(ctx context.Context, image []byte, filename string) (*dto.OCRScanResponse, error)
}

type ocrService struct {
	engine OCREngine
	logger *zap.Logger
}

// NewOCRService 创建 OCRService 实例
func NewOCRService(engine OCREngine, logger *zap.Logger) OCRService {
	return &ocrService{engine: engine, logger: logger}
}

func (s *ocrService) Scan(ctx context.Context, image []byte, filename string) (*dto.OCRScanResponse, error) {
	if len(image) == 0 {
		return nil, ErrOCREmptyImage
	}

	rawText, err := s.engine.ExtractText(ctx, image, filename)
	if err != nil {
		s.logger.Error("OCR 引擎识别失败", zap.Error(err))
		return nil, ErrOCREngineUnavailable
	}

	resp := ParseDocumentText(rawText)
	resp.RawText = rawText

	s.logger.Info("OCR 识别完成",
		zap.String("filename", filename),
		zap.String("document_type", resp.DocumentType),
		zap.Bool("expiry_found", resp.ExpiryDate != ""))
	return resp, nil
}

// ── HTTP 引擎客户端 ──

type httpOCREngine struct {
	cfg    *config.OCRConfig
	client *http.Client
}

// NewHTTPOCREngine 创建基于 HTTP 的 OCR 引擎客户端
func NewHTTPOCREngine(cfg *config.OCRConfig) OCREngine {
	return &httpOCREngine{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
	}
}

// ExtractText 以 multipart 表单提交图片，取回引擎的原始识别文本
func (e *httpOCREngine) ExtractText(ctx context.Context, image []byte, filename string) (string, error) {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(image); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		e.cfg.BaseURL+"/api/ocr/text", &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := e.client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("OCR 引擎返回 %d: %s", resp.StatusCode, string(body))
	}

	var out struct {
		Text string `json:"text"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", err
	}
	return out.Text, nil
}
