package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// RotationRepository 轮换记录数据访问接口
type RotationRepository interface {
	Create(ctx context.Context, rotation *model.CrewRotation) error
	// GetOpen 查找船员当前未收口的轮换记录（在船）
	GetOpen(ctx context.Context, crewMemberID string) (*model.CrewRotation, error)
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.CrewRotation, error)
	ListByVessel(ctx context.Context, vesselID string) ([]model.CrewRotation, error)
	Update(ctx context.Context, rotation *model.CrewRotation) error
}

type rotationRepo struct {
	db *gorm.DB
}

// NewRotationRepo 创建 RotationRepository 实例
func NewRotationRepo(db *gorm.DB) RotationRepository {
	return &rotationRepo{db: db}
}

func (r *rotationRepo) Create(ctx context.Context, rotation *model.CrewRotation) error {
	return r.db.WithContext(ctx).Create(rotation).Error
}

func (r *rotationRepo) GetOpen(ctx context.Context, crewMemberID string) (*model.CrewRotation, error) {
	var rotation model.CrewRotation
	err := r.db.WithContext(ctx).
		Where("crew_member_id = ? AND sign_off_date IS NULL", crewMemberID).
		Order("sign_on_date DESC").
		First(&rotation).Error
	if err != nil {
		return nil, err
	}
	return &rotation, nil
}

func (r *rotationRepo) ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.CrewRotation, error) {
	var rotations []model.CrewRotation
	err := r.db.WithContext(ctx).
		Preload("Vessel").
		Where("crew_member_id = ?", crewMemberID).
		Order("sign_on_date DESC").
		Find(&rotations).Error
	return rotations, err
}

func (r *rotationRepo) ListByVessel(ctx context.Context, vesselID string) ([]model.CrewRotation, error) {
	var rotations []model.CrewRotation
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Where("vessel_id = ?", vesselID).
		Order("sign_on_date DESC").
		Find(&rotations).Error
	return rotations, err
}

func (r *rotationRepo) Update(ctx context.Context, rotation *model.CrewRotation) error {
	return r.db.WithContext(ctx).Save(rotation).Error
}
