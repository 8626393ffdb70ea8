package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/dto"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/expiry"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/model"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// SentMarker 已发提醒标记接口（Redis SETNX 实现，保证同一天重复扫描不重发）
type SentMarker interface {
	MarkReminderSent(ctx context.Context, kind, recordID string, dayMark int) (bool, error)
}

// ScanResult 一轮提醒扫描的统计结果
type ScanResult struct {
	DocumentsChecked int `json:"documents_checked"`
	ContractsChecked int `json:"contracts_checked"`
	RemindersSent    int `json:"reminders_sent"`
}

// NotificationService 到期提醒业务接口
type NotificationService interface {
	// RunReminderScan 扫描全部证件与在职合同，对命中提醒天数的记录发邮件。
	// 单条发送失败只记日志并继续，不中断整轮扫描。
	RunReminderScan(ctx context.Context) (*ScanResult, error)
	SendTestEmail(ctx context.Context, req *dto.SendTestEmailRequest) error
	// SendContractNotice 手动触发单份合同的到期提醒（不走天数命中判定）
	SendContractNotice(ctx context.Context, req *dto.SendContractNoticeRequest) error
	List(ctx context.Context, page *dto.PaginationRequest) ([]model.Notification, int64, error)
}

type notificationService struct {
	cfg    *config.Config
	repo   *repository.Repository
	mailer Mailer
	marker SentMarker
	logger *zap.Logger
}

// NewNotificationService 创建 NotificationService 实例
// marker 传 nil 时跳过幂等标记（降级为可能重发，不降级为不发）
func NewNotificationService(
	cfg *config.Config,
	repo *repository.Repository,
	mailer Mailer,
	marker SentMarker,
	logger *zap.Logger,
) NotificationService {
	return &notificationService{
		cfg:    cfg,
		repo:   repo,
		mailer: mailer,
		marker: marker,
		logger: logger,
	}
}

func (s *notificationService) RunReminderScan(ctx context.Context) (*ScanResult, error) {
	settings, err := s.repo.EmailSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEmailSettingsMissing
		}
		s.logger.Error("查询提醒配置失败", zap.Error(err))
		return nil, err
	}

	result := &ScanResult{}
	if !settings.Enabled {
		s.logger.Info("提醒功能未启用，跳过本轮扫描")
		return result, nil
	}

	reminderSettings := expiry.ReminderSettings{
		Enabled:          settings.Enabled,
		ReminderDays:     settings.ReminderDays,
		Recipients:       settings.Recipients,
		ReminderOnExpiry: settings.ReminderOnExpiry,
	}

	// 一轮扫描只捕获一次 now
	now := time.Now().UTC()

	// 扫描窗口取最大提醒天数，加一天补偿向上取整
	maxDay := 0
	for _, d := range settings.ReminderDays {
		if d > maxDay {
			maxDay = d
		}
	}
	before := now.AddDate(0, 0, maxDay+1)

	if err := s.scanDocuments(ctx, settings, reminderSettings, now, before, result); err != nil {
		return nil, err
	}
	if err := s.scanContracts(ctx, settings, reminderSettings, now, result); err != nil {
		return nil, err
	}

	s.logger.Info("提醒扫描完成",
		zap.Int("documents_checked", result.DocumentsChecked),
		zap.Int("contracts_checked", result.ContractsChecked),
		zap.Int("reminders_sent", result.RemindersSent))
	return result, nil
}

func (s *notificationService) scanDocuments(
	ctx context.Context,
	settings *model.EmailSettings,
	rs expiry.ReminderSettings,
	now, before time.Time,
	result *ScanResult,
) error {
	docs, err := s.repo.Document.ListExpiringBefore(ctx, before)
	if err != nil {
		s.logger.Error("查询到期证件失败", zap.Error(err))
		return err
	}

	for i := range docs {
		doc := &docs[i]
		result.DocumentsChecked++

		res := expiry.Classify(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays)
		hit, roles := expiry.ReminderEligible(res, rs)
		if !hit {
			continue
		}

		if !s.claimMark(ctx, "document", doc.DocumentID, res.DaysRemaining) {
			continue
		}

		holder := "未知船员"
		var vesselID *string
		var crewEmail string
		if doc.CrewMember != nil {
			holder = doc.CrewMember.FullName()
			vesselID = doc.CrewMember.CurrentVesselID
			crewEmail = doc.CrewMember.Email
		}

		subject := fmt.Sprintf("证件到期提醒: %s - %s", holder, doc.Type)
		body := fmt.Sprintf(
			"船员 %s 的证件 %s（编号 %s）将于 %s 到期，剩余 %d 天，请及时安排换证。",
			holder, doc.Type, doc.DocumentNumber,
			doc.ExpiryDate.Format(dateLayout), res.DaysRemaining)
		if res.Status == expiry.StatusExpired {
			body = fmt.Sprintf(
				"船员 %s 的证件 %s（编号 %s）已于 %s 过期，请立即处理。",
				holder, doc.Type, doc.DocumentNumber,
				doc.ExpiryDate.Format(dateLayout))
		}

		to := s.resolveRecipients(ctx, roles, crewEmail, vesselID, settings.CCAddress)
		if s.deliver(ctx, to, subject, body, "document_expiry", "document", doc.DocumentID) {
			result.RemindersSent++
		}
	}
	return nil
}

func (s *notificationService) scanContracts(
	ctx context.Context,
	settings *model.EmailSettings,
	rs expiry.ReminderSettings,
	now time.Time,
	result *ScanResult,
) error {
	contracts, err := s.repo.Contract.ListActive(ctx)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return err
	}

	for i := range contracts {
		c := &contracts[i]
		result.ContractsChecked++

		_, res := expiry.ClassifyContract(c, now, s.cfg.Expiry.ContractThresholdDays)
		hit, roles := expiry.ReminderEligible(res, rs)
		if !hit {
			continue
		}

		if !s.claimMark(ctx, "contract", c.ContractID, res.DaysRemaining) {
			continue
		}

		holder := "未知船员"
		var crewEmail string
		if c.CrewMember != nil {
			holder = c.CrewMember.FullName()
			crewEmail = c.CrewMember.Email
		}
		vesselName := c.VesselID
		if c.Vessel != nil {
			vesselName = c.Vessel.Name
		}

		subject := fmt.Sprintf("合同到期提醒: %s - %s", holder, vesselName)
		body := fmt.Sprintf(
			"船员 %s（%s）在 %s 的雇佣合同将于 %s 到期，剩余 %d 天，请安排换班或续签。",
			holder, c.Rank, vesselName,
			c.EndDate.Format(dateLayout), res.DaysRemaining)
		if res.Status == expiry.StatusExpired {
			body = fmt.Sprintf(
				"船员 %s（%s）在 %s 的雇佣合同已于 %s 到期，请立即处理。",
				holder, c.Rank, vesselName, c.EndDate.Format(dateLayout))
		}

		to := s.resolveRecipients(ctx, roles, crewEmail, &c.VesselID, settings.CCAddress)
		if s.deliver(ctx, to, subject, body, "contract_expiry", "contract", c.ContractID) {
			result.RemindersSent++
		}
	}
	return nil
}

// claimMark 抢占已发标记；Redis 不可用时降级为直接发送
func (s *notificationService) claimMark(ctx context.Context, kind, recordID string, dayMark int) bool {
	if s.marker == nil {
		return true
	}
	ok, err := s.marker.MarkReminderSent(ctx, kind, recordID, dayMark)
	if err != nil {
		s.logger.Warn("写入已发标记失败，按未发处理",
			zap.String("kind", kind),
			zap.String("record_id", recordID),
			zap.Error(err))
		return true
	}
	return ok
}

// resolveRecipients 把角色标签解析为实际收件地址（去重、过滤空值）
func (s *notificationService) resolveRecipients(
	ctx context.Context,
	roles []string,
	crewEmail string,
	vesselID *string,
	ccAddress string,
) []string {
	seen := make(map[string]struct{})
	var to []string
	add := func(addr string) {
		if addr == "" {
			return
		}
		if _, ok := seen[addr]; ok {
			return
		}
		seen[addr] = struct{}{}
		to = append(to, addr)
	}

	for _, role := range roles {
		switch role {
		case model.RecipientCrew:
			add(crewEmail)
		case model.RecipientCaptain:
			if vesselID == nil {
				continue
			}
			captain, err := s.repo.User.GetCaptainByVessel(ctx, *vesselID)
			if err != nil {
				if !errors.Is(err, gorm.ErrRecordNotFound) {
					s.logger.Warn("查询船长账号失败", zap.Error(err))
				}
				continue
			}
			add(captain.Email)
		case model.RecipientAdmin:
			admins, err := s.repo.User.ListByRole(ctx, model.RoleAdmin)
			if err != nil {
				s.logger.Warn("查询管理员账号失败", zap.Error(err))
				continue
			}
			for _, u := range admins {
				add(u.Email)
			}
		}
	}
	add(ccAddress)
	return to
}

// deliver 发送并落审计记录；无收件人或发送失败只记日志
func (s *notificationService) deliver(ctx context.Context, to []string, subject, body, notificationType, relatedType, relatedID string) bool {
	if len(to) == 0 {
		s.logger.Warn("提醒无可用收件人，跳过发送",
			zap.String("related_type", relatedType),
			zap.String("related_id", relatedID))
		return false
	}

	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		s.logger.Error("提醒邮件发送失败",
			zap.String("related_type", relatedType),
			zap.String("related_id", relatedID),
			zap.Error(err))
		return false
	}

	notification := &model.Notification{
		Type:        notificationType,
		Title:       subject,
		Content:     body,
		Recipients:  joinAddresses(to),
		RelatedType: &relatedType,
		RelatedID:   &relatedID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("提醒审计记录写入失败", zap.Error(err))
	}
	return true
}

func (s *notificationService) SendTestEmail(ctx context.Context, req *dto.SendTestEmailRequest) error {
	subject := "测试邮件 - Sea Crew Manager"
	body := "这是一封测试邮件。收到本邮件说明 SMTP 配置可用。"
	if err := s.mailer.Send(ctx, []string{req.To}, subject, body); err != nil {
		return err
	}

	notification := &model.Notification{
		Type:       "test",
		Title:      subject,
		Content:    body,
		Recipients: req.To,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("提醒审计记录写入失败", zap.Error(err))
	}
	return nil
}

func (s *notificationService) SendContractNotice(ctx context.Context, req *dto.SendContractNoticeRequest) error {
	contract, err := s.repo.Contract.GetByID(ctx, req.ContractID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrContractNotFound
		}
		s.logger.Error("查询合同失败", zap.Error(err))
		return err
	}

	settings, err := s.repo.EmailSettings.Get(ctx)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrEmailSettingsMissing
		}
		s.logger.Error("查询提醒配置失败", zap.Error(err))
		return err
	}

	now := time.Now().UTC()
	_, res := expiry.ClassifyContract(contract, now, s.cfg.Expiry.ContractThresholdDays)

	holder := "未知船员"
	var crewEmail string
	if contract.CrewMember != nil {
		holder = contract.CrewMember.FullName()
		crewEmail = contract.CrewMember.Email
	}
	vesselName := contract.VesselID
	if contract.Vessel != nil {
		vesselName = contract.Vessel.Name
	}

	subject := fmt.Sprintf("合同到期通知: %s - %s", holder, vesselName)
	body := fmt.Sprintf(
		"船员 %s（%s）在 %s 的雇佣合同结束日期为 %s（剩余 %d 天），请知悉并安排后续事宜。",
		holder, contract.Rank, vesselName,
		contract.EndDate.Format(dateLayout), res.DaysRemaining)

	to := s.resolveRecipients(ctx, settings.Recipients, crewEmail, &contract.VesselID, settings.CCAddress)
	if len(to) == 0 {
		return errors.New("无可用收件人")
	}
	if err := s.mailer.Send(ctx, to, subject, body); err != nil {
		return err
	}

	relatedType := "contract"
	notification := &model.Notification{
		Type:        "contract_expiry",
		Title:       subject,
		Content:     body,
		Recipients:  joinAddresses(to),
		RelatedType: &relatedType,
		RelatedID:   &contract.ContractID,
	}
	if err := s.repo.Notification.Create(ctx, notification); err != nil {
		s.logger.Warn("提醒审计记录写入失败", zap.Error(err))
	}
	return nil
}

func (s *notificationService) List(ctx context.Context, page *dto.PaginationRequest) ([]model.Notification, int64, error) {
	notifications, total, err := s.repo.Notification.List(ctx, page.GetOffset(), page.GetPageSize())
	if err != nil {
		s.logger.Error("查询提醒记录失败", zap.Error(err))
		return nil, 0, err
	}
	return notifications, total, nil
}

func joinAddresses(to []string) string {
	return strings.Join(to, ",")
}
