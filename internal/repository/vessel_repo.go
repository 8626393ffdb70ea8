package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	apperrors "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/errors"
)

// VesselRepository 船舶数据访问接口
type VesselRepository interface {
	Create(ctx context.Context, vessel *model.Vessel) error
	GetByID(ctx context.Context, id string) (*model.Vessel, error)
	GetByIMO(ctx context.Context, imo string) (*model.Vessel, error)
	List(ctx context.Context) ([]model.Vessel, error)
	Update(ctx context.Context, vessel *model.Vessel) error
	Delete(ctx context.Context, id string, deletedBy string) error
	CountCrewOnBoard(ctx context.Context, vesselID string) (int64, error)
	Count(ctx context.Context) (int64, error)
}

type vesselRepo struct {
	db *gorm.DB
}

// NewVesselRepo 创建 VesselRepository 实例
func NewVesselRepo(db *gorm.DB) VesselRepository {
	return &vesselRepo{db: db}
}

func (r *vesselRepo) Create(ctx context.Context, vessel *model.Vessel) error {
	return r.db.WithContext(ctx).Create(vessel).Error
}

func (r *vesselRepo) GetByID(ctx context.Context, id string) (*model.Vessel, error) {
	var vessel model.Vessel
	err := r.db.WithContext(ctx).
		Where("vessel_id = ?", id).
		First(&vessel).Error
	if err != nil {
		return nil, err
	}
	return &vessel, nil
}

func (r *vesselRepo) GetByIMO(ctx context.Context, imo string) (*model.Vessel, error) {
	var vessel model.Vessel
	err := r.db.WithContext(ctx).
		Where("imo_number = ?", imo).
		First(&vessel).Error
	if err != nil {
		return nil, err
	}
	return &vessel, nil
}

func (r *vesselRepo) List(ctx context.Context) ([]model.Vessel, error) {
	var vessels []model.Vessel
	err := r.db.WithContext(ctx).
		Order("name").
		Find(&vessels).Error
	return vessels, err
}

// Update 带乐观锁的全量更新
// 调用方在写前已递增 Version，此处用旧版本号做条件匹配
func (r *vesselRepo) Update(ctx context.Context, vessel *model.Vessel) error {
	res := r.db.WithContext(ctx).
		Model(vessel).
		Where("version = ?", vessel.Version-1).
		Select("*").
		Omit("created_at", "created_by").
		Updates(vessel)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}

func (r *vesselRepo) Delete(ctx context.Context, id string, deletedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Vessel{}).
		Where("vessel_id = ?", id).
		Updates(map[string]interface{}{
			"deleted_by": deletedBy,
			"deleted_at": gorm.Expr("NOW()"),
		}).Error
}

// CountCrewOnBoard 统计当前挂靠该船的船员数
func (r *vesselRepo) CountCrewOnBoard(ctx context.Context, vesselID string) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).
		Model(&model.CrewMember{}).
		Where("current_vessel_id = ?", vesselID).
		Count(&n).Error
	return n, err
}

func (r *vesselRepo) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&model.Vessel{}).Count(&n).Error
	return n, err
}
