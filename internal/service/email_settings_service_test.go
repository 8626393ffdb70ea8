package service

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
)

func setupTestEmailSettingsService() (EmailSettingsService, *mockEmailSettingsRepo) {
	repo, _, _, _, _ := newTestRepository()
	svc := NewEmailSettingsService(repo, zap.NewNop())
	return svc, repo.EmailSettings.(*mockEmailSettingsRepo)
}

func TestEmailSettingsService_Get_Defaults(t *testing.T) {
	svc, _ := setupTestEmailSettingsService()

	result, err := svc.Get(context.Background())
	if err != nil {
		t.Fatalf("Get 应成功: %v", err)
	}
	if result.Enabled {
		t.Error("种子配置默认应为禁用")
	}
	if len(result.ReminderDays) != 3 {
		t.Errorf("期望默认 3 个提醒节点，实际=%v", result.ReminderDays)
	}
}

func TestEmailSettingsService_Get_Missing(t *testing.T) {
	svc, settingsRepo := setupTestEmailSettingsService()
	settingsRepo.settings = nil

	if _, err := svc.Get(context.Background()); !errors.Is(err, ErrEmailSettingsMissing) {
		t.Errorf("期望 ErrEmailSettingsMissing，实际: %v", err)
	}
}

// 部分更新：只改传入的字段，其余保持原值
func TestEmailSettingsService_Update_Partial(t *testing.T) {
	svc, settingsRepo := setupTestEmailSettingsService()

	enabled := true
	cc := "office@fleet.example"
	result, err := svc.Update(context.Background(), &dto.UpdateEmailSettingsRequest{
		Enabled:   &enabled,
		CCAddress: &cc,
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if !result.Enabled || result.CCAddress != "office@fleet.example" {
		t.Errorf("传入字段未生效: %+v", result)
	}
	// 未传字段保持种子值
	if len(result.ReminderDays) != 3 || result.Recipients[0] != model.RecipientAdmin {
		t.Errorf("未传字段不应被改动: %+v", result)
	}
	if settingsRepo.settings.UpdatedBy == nil || *settingsRepo.settings.UpdatedBy != "admin-001" {
		t.Error("期望记录操作人")
	}
}

func TestEmailSettingsService_Update_ReminderDays(t *testing.T) {
	svc, settingsRepo := setupTestEmailSettingsService()

	result, err := svc.Update(context.Background(), &dto.UpdateEmailSettingsRequest{
		ReminderDays: []int{30, 7},
		Recipients:   []string{model.RecipientCrew, model.RecipientCaptain},
	}, "admin-001")
	if err != nil {
		t.Fatalf("Update 应成功: %v", err)
	}
	if len(result.ReminderDays) != 2 {
		t.Errorf("期望 2 个提醒节点，实际=%v", result.ReminderDays)
	}
	if len(settingsRepo.settings.Recipients) != 2 {
		t.Errorf("期望 2 类收件人，实际=%v", settingsRepo.settings.Recipients)
	}
}
