package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// ErrEmailSettingsMissing 单行配置表未初始化（迁移应保证种子行存在）
var ErrEmailSettingsMissing = errors.New("提醒配置未初始化")

// EmailSettingsService 到期提醒配置业务接口
type EmailSettingsService interface {
	Get(ctx context.Context) (*dto.EmailSettingsResponse, error)
	Update(ctx context.Context, req *dto.UpdateEmailSettingsRequest, operatorID string) (*dto.EmailSettingsResponse, error)
}

type emailSettingsService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewEmailSettingsService 创建 EmailSettingsService 实例
func NewEmailSettingsService(repo *repository.Repository, logger *zap.Logger) EmailSettingsService {
	return &emailSettingsService{repo: repo, logger: logger}
}

func (s *emailSettingsService) Get(ctx context.Context) (*dto.EmailSettingsResponse, error) {
	settings, err := s.repo.EmailSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailSettingsMissing
		}
		s.logger.Error("查询提醒配置失败", zap.Error(err))
		return nil, err
	}
	resp := toEmailSettingsResponse(settings)
	return &resp, nil
}

func (s *emailSettingsService) Update(ctx context.Context, req *dto.UpdateEmailSettingsRequest, operatorID string) (*dto.EmailSettingsResponse, error) {
	settings, err := s.repo.EmailSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailSettingsMissing
		}
		s.logger.Error("查询提醒配置失败", zap.Error(err))
		return nil, err
	}

	if req.Enabled != nil {
		settings.Enabled = *req.Enabled
	}
	if req.ReminderDays != nil {
		settings.ReminderDays = model.IntArray(req.ReminderDays)
	}
	if req.Recipients != nil {
		settings.Recipients = model.StringArray(req.Recipients)
	}
	if req.ReminderOnExpiry != nil {
		settings.ReminderOnExpiry = *req.ReminderOnExpiry
	}
	if req.CCAddress != nil {
		settings.CCAddress = *req.CCAddress
	}
	settings.UpdatedBy = &operatorID

	if err := s.repo.EmailSettings.Update(ctx, settings); err != nil {
		s.logger.Error("更新提醒配置失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("提醒配置已更新",
		zap.Bool("enabled", settings.Enabled),
		zap.Ints("reminder_days", settings.ReminderDays))

	resp := toEmailSettingsResponse(settings)
	return &resp, nil
}

func toEmailSettingsResponse(settings *model.EmailSettings) dto.EmailSettingsResponse {
	return dto.EmailSettingsResponse{
		Enabled:          settings.Enabled,
		ReminderDays:     settings.ReminderDays,
		Recipients:       settings.Recipients,
		ReminderOnExpiry: settings.ReminderOnExpiry,
		CCAddress:        settings.CCAddress,
		UpdatedAt:        settings.UpdatedAt.Format(time.RFC3339),
	}
}
