package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/expiry"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// ── 证件模块业务错误 ──

var (
	ErrDocumentNotFound    = errors.New("证件不存在")
	ErrDocumentDateInvalid = errors.New("到期日期不能早于签发日期")
	ErrDocumentFileTooBig  = errors.New("文件大小超出限制")
	ErrDocumentNoFile      = errors.New("证件未上传扫描件")
)

// DocumentService 证件业务接口
type DocumentService interface {
	Create(ctx context.Context, crewMemberID string, req *dto.CreateDocumentRequest, operatorID string) (*dto.DocumentResponse, error)
	GetByID(ctx context.Context, id string) (*dto.DocumentResponse, error)
	// ListByCrewMember 列出船员全部证件，状态按读取时间现算并回写缓存列
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]dto.DocumentResponse, error)
	Update(ctx context.Context, id string, req *dto.UpdateDocumentRequest, operatorID string) (*dto.DocumentResponse, error)
	Delete(ctx context.Context, id string, operatorID string) error
	// AttachFile 上传证件扫描件，替换旧文件
	AttachFile(ctx context.Context, id string, filename string, size int64, src io.Reader, operatorID string) error
	// FilePath 返回证件扫描件的磁盘路径（下载用）
	FilePath(ctx context.Context, id string) (string, error)
	// ListExpiring 全队/单船即将到期证件列表
	ListExpiring(ctx context.Context, req *dto.ExpiringDocumentsRequest) ([]dto.DocumentResponse, error)
}

type documentService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewDocumentService 创建 DocumentService 实例
func NewDocumentService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) DocumentService {
	return &documentService{cfg: cfg, repo: repo, logger: logger}
}

func (s *documentService) Create(ctx context.Context, crewMemberID string, req *dto.CreateDocumentRequest, operatorID string) (*dto.DocumentResponse, error) {
	if _, err := s.repo.Crew.GetByID(ctx, crewMemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	doc := &model.Document{
		CrewMemberID:     crewMemberID,
		Type:             req.Type,
		DocumentNumber:   req.DocumentNumber,
		IssuingAuthority: req.IssuingAuthority,
	}
	if req.IssueDate != "" {
		d, err := time.Parse(dateLayout, req.IssueDate)
		if err == nil {
			doc.IssueDate = &d
		}
	}
	if req.ExpiryDate != "" {
		d, err := time.Parse(dateLayout, req.ExpiryDate)
		if err == nil {
			doc.ExpiryDate = &d
		}
	}
	if doc.IssueDate != nil && doc.ExpiryDate != nil && doc.ExpiryDate.Before(*doc.IssueDate) {
		return nil, ErrDocumentDateInvalid
	}

	now := time.Now().UTC()
	doc.Status = cacheStatus(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays)
	doc.CreatedBy = &operatorID
	doc.UpdatedBy = &operatorID

	if err := s.repo.Document.Create(ctx, doc); err != nil {
		s.logger.Error("创建证件失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("证件已创建",
		zap.String("document_id", doc.DocumentID),
		zap.String("crew_member_id", crewMemberID),
		zap.String("type", doc.Type))

	resp := s.toResponse(doc, now)
	return &resp, nil
}

func (s *documentService) GetByID(ctx context.Context, id string) (*dto.DocumentResponse, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		s.logger.Error("查询证件失败", zap.Error(err))
		return nil, err
	}
	resp := s.toResponse(doc, time.Now().UTC())
	return &resp, nil
}

func (s *documentService) ListByCrewMember(ctx context.Context, crewMemberID string) ([]dto.DocumentResponse, error) {
	if _, err := s.repo.Crew.GetByID(ctx, crewMemberID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCrewNotFound
		}
		s.logger.Error("查询船员失败", zap.Error(err))
		return nil, err
	}

	docs, err := s.repo.Document.ListByCrewMember(ctx, crewMemberID)
	if err != nil {
		s.logger.Error("查询证件列表失败", zap.Error(err))
		return nil, err
	}

	now := time.Now().UTC()
	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		resp := s.toResponse(doc, now)

		// 现算结果与缓存列不一致时顺手回写（失败只记日志，不影响读取）
		if fresh := cacheStatus(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays); fresh != doc.Status {
			if err := s.repo.Document.UpdateStatus(ctx, doc.DocumentID, fresh); err != nil {
				s.logger.Warn("回写证件状态缓存失败",
					zap.String("document_id", doc.DocumentID), zap.Error(err))
			}
		}
		out = append(out, resp)
	}
	return out, nil
}

func (s *documentService) Update(ctx context.Context, id string, req *dto.UpdateDocumentRequest, operatorID string) (*dto.DocumentResponse, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDocumentNotFound
		}
		s.logger.Error("查询证件失败", zap.Error(err))
		return nil, err
	}

	if req.DocumentNumber != nil {
		doc.DocumentNumber = *req.DocumentNumber
	}
	if req.IssuingAuthority != nil {
		doc.IssuingAuthority = *req.IssuingAuthority
	}
	if req.IssueDate != nil {
		if d, err := time.Parse(dateLayout, *req.IssueDate); err == nil {
			doc.IssueDate = &d
		}
	}
	if req.ExpiryDate != nil {
		if *req.ExpiryDate == "" {
			doc.ExpiryDate = nil // 改为长期有效
		} else if d, err := time.Parse(dateLayout, *req.ExpiryDate); err == nil {
			doc.ExpiryDate = &d
		}
	}
	if doc.IssueDate != nil && doc.ExpiryDate != nil && doc.ExpiryDate.Before(*doc.IssueDate) {
		return nil, ErrDocumentDateInvalid
	}

	now := time.Now().UTC()
	doc.Status = cacheStatus(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays)
	doc.UpdatedBy = &operatorID

	if err := s.repo.Document.Update(ctx, doc); err != nil {
		s.logger.Error("更新证件失败", zap.Error(err))
		return nil, err
	}

	resp := s.toResponse(doc, now)
	return &resp, nil
}

func (s *documentService) Delete(ctx context.Context, id string, operatorID string) error {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		s.logger.Error("查询证件失败", zap.Error(err))
		return err
	}

	if err := s.repo.Document.Delete(ctx, id, operatorID); err != nil {
		s.logger.Error("删除证件失败", zap.Error(err))
		return err
	}

	// 磁盘文件尽力清理，失败不回滚
	if doc.FilePath != "" {
		if err := os.Remove(doc.FilePath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("清理证件文件失败",
				zap.String("path", doc.FilePath), zap.Error(err))
		}
	}

	s.logger.Info("证件已删除", zap.String("document_id", id))
	return nil
}

func (s *documentService) AttachFile(ctx context.Context, id string, filename string, size int64, src io.Reader, operatorID string) error {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrDocumentNotFound
		}
		s.logger.Error("查询证件失败", zap.Error(err))
		return err
	}

	maxBytes := int64(s.cfg.Storage.MaxFileSizeMB) << 20
	if size > maxBytes {
		return ErrDocumentFileTooBig
	}

	if err := os.MkdirAll(s.cfg.Storage.UploadDir, 0o755); err != nil {
		s.logger.Error("创建上传目录失败", zap.Error(err))
		return err
	}

	// 磁盘文件名用 UUID，避免客户端文件名注入路径
	dst := filepath.Join(s.cfg.Storage.UploadDir,
		fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(filename)))

	f, err := os.Create(dst)
	if err != nil {
		s.logger.Error("创建证件文件失败", zap.Error(err))
		return err
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(src, maxBytes+1)); err != nil {
		os.Remove(dst)
		s.logger.Error("写入证件文件失败", zap.Error(err))
		return err
	}

	oldPath := doc.FilePath
	doc.FilePath = dst
	doc.UpdatedBy = &operatorID
	if err := s.repo.Document.Update(ctx, doc); err != nil {
		os.Remove(dst)
		s.logger.Error("更新证件文件路径失败", zap.Error(err))
		return err
	}

	if oldPath != "" {
		if err := os.Remove(oldPath); err != nil && !os.IsNotExist(err) {
			s.logger.Warn("清理旧证件文件失败",
				zap.String("path", oldPath), zap.Error(err))
		}
	}

	s.logger.Info("证件文件已上传",
		zap.String("document_id", id),
		zap.Int64("size", size))
	return nil
}

func (s *documentService) FilePath(ctx context.Context, id string) (string, error) {
	doc, err := s.repo.Document.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrDocumentNotFound
		}
		s.logger.Error("查询证件失败", zap.Error(err))
		return "", err
	}
	if doc.FilePath == "" {
		return "", ErrDocumentNoFile
	}
	return doc.FilePath, nil
}

func (s *documentService) ListExpiring(ctx context.Context, req *dto.ExpiringDocumentsRequest) ([]dto.DocumentResponse, error) {
	days := req.Days
	if days <= 0 {
		days = s.cfg.Expiry.DocumentThresholdDays
	}

	now := time.Now().UTC()
	docs, err := s.repo.Document.ListExpiringBefore(ctx, now.AddDate(0, 0, days))
	if err != nil {
		s.logger.Error("查询即将到期证件失败", zap.Error(err))
		return nil, err
	}

	out := make([]dto.DocumentResponse, 0, len(docs))
	for i := range docs {
		doc := &docs[i]
		if req.VesselID != "" {
			if doc.CrewMember == nil || doc.CrewMember.CurrentVesselID == nil ||
				*doc.CrewMember.CurrentVesselID != req.VesselID {
				continue
			}
		}
		out = append(out, s.toResponse(doc, now))
	}
	return out, nil
}

// cacheStatus 把分类结果映射到数据库缓存列的取值
// 缓存列没有 missing 档：空到期日按 valid 缓存
func cacheStatus(expiryDate *time.Time, now time.Time, thresholdDays int) string {
	res := expiry.Classify(expiryDate, now, thresholdDays)
	switch res.Status {
	case expiry.StatusExpired:
		return model.DocumentStatusExpired
	case expiry.StatusExpiringSoon:
		return model.DocumentStatusExpiring
	default:
		return model.DocumentStatusValid
	}
}

func (s *documentService) toResponse(doc *model.Document, now time.Time) dto.DocumentResponse {
	resp := dto.DocumentResponse{
		ID:               doc.DocumentID,
		CrewMemberID:     doc.CrewMemberID,
		Type:             doc.Type,
		DocumentNumber:   doc.DocumentNumber,
		IssuingAuthority: doc.IssuingAuthority,
		HasFile:          doc.FilePath != "",
		CreatedAt:        doc.CreatedAt.Format(time.RFC3339),
		UpdatedAt:        doc.UpdatedAt.Format(time.RFC3339),
	}
	if doc.IssueDate != nil {
		resp.IssueDate = doc.IssueDate.Format(dateLayout)
	}
	if doc.ExpiryDate != nil {
		resp.ExpiryDate = doc.ExpiryDate.Format(dateLayout)
	}

	// 响应中的状态永远现算，不读缓存列
	res := expiry.Classify(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays)
	resp.Status = string(res.Status)
	resp.DaysRemaining = res.DaysRemaining
	return resp
}
