package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	apperrors "github.com/fullahead747-jpg/SeaCrewManager-sub002/pkg/errors"
)

// ContractRepository 合同数据访问接口
type ContractRepository interface {
	Create(ctx context.Context, contract *model.Contract) error
	GetByID(ctx context.Context, id string) (*model.Contract, error)
	GetActiveByCrewMember(ctx context.Context, crewMemberID string) (*model.Contract, error)
	ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.Contract, error)
	// ListActiveByVessel 拉取某船全部在职合同（含船员信息）
	ListActiveByVessel(ctx context.Context, vesselID string) ([]model.Contract, error)
	// ListActive 拉取全队在职合同（提醒扫描用，含船员与船舶信息）
	ListActive(ctx context.Context) ([]model.Contract, error)
	Update(ctx context.Context, contract *model.Contract) error
	// CompleteActiveByCrewMember 把船员现有 active 合同置为 completed
	CompleteActiveByCrewMember(ctx context.Context, crewMemberID string, updatedBy string) error
}

type contractRepo struct {
	db *gorm.DB
}

// NewContractRepo 创建 ContractRepository 实例
func NewContractRepo(db *gorm.DB) ContractRepository {
	return &contractRepo{db: db}
}

func (r *contractRepo) Create(ctx context.Context, contract *model.Contract) error {
	return r.db.WithContext(ctx).Create(contract).Error
}

func (r *contractRepo) GetByID(ctx context.Context, id string) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Preload("Vessel").
		Where("contract_id = ?", id).
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepo) GetActiveByCrewMember(ctx context.Context, crewMemberID string) (*model.Contract, error) {
	var contract model.Contract
	err := r.db.WithContext(ctx).
		Where("crew_member_id = ? AND status = ?", crewMemberID, model.ContractStatusActive).
		Order("end_date DESC").
		First(&contract).Error
	if err != nil {
		return nil, err
	}
	return &contract, nil
}

func (r *contractRepo) ListByCrewMember(ctx context.Context, crewMemberID string) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Preload("Vessel").
		Where("crew_member_id = ?", crewMemberID).
		Order("start_date DESC").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepo) ListActiveByVessel(ctx context.Context, vesselID string) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Where("vessel_id = ? AND status = ?", vesselID, model.ContractStatusActive).
		Order("end_date").
		Find(&contracts).Error
	return contracts, err
}

func (r *contractRepo) ListActive(ctx context.Context) ([]model.Contract, error) {
	var contracts []model.Contract
	err := r.db.WithContext(ctx).
		Preload("CrewMember").
		Preload("Vessel").
		Where("status = ?", model.ContractStatusActive).
		Order("end_date").
		Find(&contracts).Error
	return contracts, err
}

// Update 带乐观锁的全量更新
// 调用方在写前已递增 Version，此处用旧版本号做条件匹配
func (r *contractRepo) Update(ctx context.Context, contract *model.Contract) error {
	res := r.db.WithContext(ctx).
		Model(contract).
		Where("version = ?", contract.Version-1).
		Select("*").
		Omit("created_at", "created_by").
		Updates(contract)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return apperrors.ErrOptimisticLock
	}
	return nil
}

func (r *contractRepo) CompleteActiveByCrewMember(ctx context.Context, crewMemberID string, updatedBy string) error {
	return r.db.WithContext(ctx).
		Model(&model.Contract{}).
		Where("crew_member_id = ? AND status = ?", crewMemberID, model.ContractStatusActive).
		Updates(map[string]interface{}{
			"status":     model.ContractStatusCompleted,
			"updated_by": updatedBy,
			"updated_at": gorm.Expr("NOW()"),
		}).Error
}
