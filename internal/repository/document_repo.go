package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// DocumentRepository 证件数据访问接口
type DocumentRepository interface {
	Create(ctx context.Context, doc *model.Document) error
	GetByID(ctx context.Context, id string) (*model.Document, error)
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.Document, error)
	// ListByCrewMembers 批量拉取多名船员的证件（船级合规聚合一次取全）
	ListByCrewMembers(ctx context.Context, crewMemberIDs []string) ([]model.Document, error)
	// ListExpiringBefore 拉取在指定日期前到期的证件（提醒扫描/到期列表）
	ListExpiringBefore(ctx context.Context, before time.Time) ([]model.Document, error)
	Update(ctx context.Context, doc *model.Document) error
	UpdateStatus(ctx context.Context, id string, status string) error
	Delete(ctx context.Context, id string, deletedBy string) error
}

type documentRepo struct {
	db *gorm.DB
}

// NewDocumentRepo 创建 DocumentRepository 实例
func NewDocumentRepo(db *gorm.DB) DocumentRepository {
	return &documentRepo{db: db}
}

func (r *documentRepo) Create(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Create(doc).Error
}

func (r *documentRepo) GetByID(ctx context.Context, id string) (*model.Document, error) {
	var doc model.Document
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Where("document_id = ?", id).
		First(&doc).Error
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

func (r *documentRepo) ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("crew_member_id = ?", crewMemberID).
		Order("type, created_at").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) ListByCrewMembers(ctx context.Context, crewMemberIDs []string) ([]model.Document, error) {
	if len(crewMemberIDs) == 0 {
		return nil, nil
	}
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Where("crew_member_id IN ?", crewMemberIDs).
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) ListExpiringBefore(ctx context.Context, before time.Time) ([]model.Document, error) {
	var docs []model.Document
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Where("expiry_date IS NOT NULL AND expiry_date <= ?", before).
		Order("expiry_date").
		Find(&docs).Error
	return docs, err
}

func (r *documentRepo) Update(ctx context.Context, doc *model.Document) error {
	return r.db.WithContext(ctx).Save(doc).Error
}

// UpdateStatus 回写冗余状态列（仅缓存提示，见 internal/expiry 包说明）
func (r *documentRepo) UpdateStatus(ctx context.Context, id string, status string) error {
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("document_id = ?", id).
		Update("status", status).Error
}

func (r *documentRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Document{}).
		Where("document_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}
