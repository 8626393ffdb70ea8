package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// EmailSettingsRepository 提醒配置数据访问接口（单行表）
type EmailSettingsRepository interface {
	Get(ctx context.Context) (*model.EmailSettings, error)
	Update(ctx context.Context, settings *model.EmailSettings) error
}

type emailSettingsRepo struct {
	db *gorm.DB
}

// NewEmailSettingsRepo 创建 EmailSettingsRepository 实例
func NewEmailSettingsRepo(db *gorm.DB) EmailSettingsRepository {
	return &emailSettingsRepo{db: db}
}

func (r *emailSettingsRepo) Get(ctx context.Context) (*model.EmailSettings, error) {
	var settings model.EmailSettings
	err := r.db.WithContext(ctx).First(&settings).Error
	if err != nil {
		return nil, err
	}
	return &settings, nil
}

func (r *emailSettingsRepo) Update(ctx context.Context, settings *model.EmailSettings) error {
	return r.db.WithContext(ctx).Save(settings).Error
}
