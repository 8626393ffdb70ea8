package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	apperrors "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/errors"
)

// CrewFilter 船员列表过滤条件
type CrewFilter struct {
	VesselID string
	Status   string
	Rank     string
	Search   string // 姓名模糊匹配
	Offset   int
	Limit    int
}

// CrewRepository 船员数据访问接口
type CrewRepository interface {
	Create(ctx context.Context, member *model.CrewMember) error
	GetByID(ctx context.Context, id string) (*model.CrewMember, error)
	List(ctx context.Context, filter CrewFilter) ([]model.CrewMember, int64, error)
	ListByVessel(ctx context.Context, vesselID string) ([]model.CrewMember, error)
	Update(ctx context.Context, member *model.CrewMember) error
	// DeleteCascade 删除船员及其证件、合同、轮换记录（单事务）
	DeleteCascade(ctx context.Context, id string, deletedBy string) error
	Count(ctx context.Context) (int64, error)
	CountOnBoard(ctx context.Context) (int64, error)
}

type crewRepo struct {
	db *gorm.DB
}

// NewCrewRepo 创建 CrewRepository 实例
func NewCrewRepo(db *gorm.DB) CrewRepository {
	return &crewRepo{db: db}
}

func (r *crewRepo) Create(ctx context.Context, member *model.CrewMember) error {
	return r.db.WithContext(ctx).Create(member).Error
}

func (r *crewRepo) GetByID(ctx context.Context, id string) (*model.CrewMember, error) {
	var member model.CrewMember
	err := r.db.WithContext(ctx).
		Preload("CurrentVessel").
		Where("crew_member_id = ?", id).
		First(&member).Error
	if err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *crewRepo) List(ctx context.Context, filter CrewFilter) ([]model.CrewMember, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.CrewMember{})

	if filter.VesselID != "" {
		q = q.Where("current_vessel_id = ?", filter.VesselID)
	}
	if filter.Status != "" {
		q = q.Where("status = ?", filter.Status)
	}
	if filter.Rank != "" {
		q = q.Where("rank = ?", filter.Rank)
	}
	if filter.Search != "" {
		pattern := "%" + filter.Search + "%"
		q = q.Where("first_name ILIKE ? OR last_name ILIKE ?", pattern, pattern)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var members []model.CrewMember
	err := q.Preload("CurrentVessel").
		Order("last_name, first_name").
		Offset(filter.Offset).
		Limit(filter.Limit).
		Find(&members).Error
	return members, total, err
}

func (r *crewRepo) ListByVessel(ctx context.Context, vesselID string) ([]model.CrewMember, error) {
	var members []model.CrewMember
	err := r.db.WithContext(ctx).
		Where("current_vessel_id = ?", vesselID).
		Order("last_name, first_name").
		Find(&members).Error
	return members, err
}

// Update 带乐观锁的全量更新
// 调用方在写前已递增 Version，此处用旧版本号做条件匹配
func (r *crewRepo) Update(ctx context.Context, member *model.CrewMember) error {
	res := r.db.WithContext(ctx).
		Model(member).
		Where("version = ?", member.Version-1).
		Select("*").
		Omit("created_at", "created_by").
		Updates(member)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}

func (r *crewRepo) DeleteCascade(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		now := gorm.Expr("NOW()")
		softDelete := map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": now,
		}

		if err := tx.Model(&model.Document{}).
			Where("crew_member_id = ?", id).
			Updates(softDelete).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Contract{}).
			Where("crew_member_id = ?", id).
			Updates(softDelete).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.CrewRotation{}).
			Where("crew_member_id = ?", id).
			Updates(softDelete).Error; err != nil {
			return err
		}
		return tx.Model(&model.CrewMember{}).
			Where("crew_member_id = ?", id).
			Updates(softDelete).Error
	})
}

func (r *crewRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.CrewMember{}).Count(&n).Error
	return n, err
}

func (r *crewRepo) CountOnBoard(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CrewMember{}).
		Where("status = ?", model.CrewStatusOnBoard).
		Count(&n).Error
	return n, err
}
