package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

// NotificationRepository 提醒审计数据访问接口
type NotificationRepository interface {
	Create(ctx context.Context, notification *model.Notification) error
	List(ctx context.Context, offset, limit int) ([]model.Notification, int64, error)
}

type notificationRepo struct {
	db *gorm.DB
}

// NewNotificationRepo 创建 NotificationRepository 实例
func NewNotificationRepo(db *gorm.DB) NotificationRepository {
	return &notificationRepo{db: db}
}

func (r *notificationRepo) Create(ctx context.Context, notification *model.Notification) error {
	return r.db.WithContext(ctx).Create(notification).Error
}

func (r *notificationRepo) List(ctx context.Context, offset, limit int) ([]model.Notification, int64, error) {
	q := r.db.WithContext(ctx).Model(&model.Notification{})

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	var notifications []model.Notification
	err := q.Order("created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&notifications).Error
	return notifications, total, err
}
