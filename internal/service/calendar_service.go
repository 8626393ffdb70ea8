package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	ics "github.com/arran4/golang-ical"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/fullahead747-jpg/SeaCrewManager-sub002/config"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/expiry"
	"github.com/fullahead747-jpg/SeaCrewManager-sub002/internal/repository"
)

// CalendarService 船期日历业务接口
//
// 输出标准 iCalendar (RFC 5545)，岸基人员可直接订阅到 Outlook/Google
// Calendar：每份在职合同的结束日期生成一条全天事件，即将到期的证件
// 换证截止日也生成事件，与仪表盘同一套分类引擎。
type CalendarService interface {
	// VesselCalendar 生成单船的 ICS 日历内容
	VesselCalendar(ctx context.Context, vesselID string) (string, error)
}

type calendarService struct {
	cfg    *config.Config
	repo   *repository.Repository
	logger *zap.Logger
}

// NewCalendarService 创建 CalendarService 实例
func NewCalendarService(cfg *config.Config, repo *repository.Repository, logger *zap.Logger) CalendarService {
	return &calendarService{cfg: cfg, repo: repo, logger: logger}
}

func (s *calendarService) VesselCalendar(ctx context.Context, vesselID string) (string, error) {
	vessel, err := s.repo.Vessel.GetByID(ctx, vesselID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", ErrVesselNotFound
		}
		s.logger.Error("查询船舶失败", zap.Error(err))
		return "", err
	}

	now := time.Now().UTC()

	cal := ics.NewCalendar()
	cal.SetMethod(ics.MethodPublish)
	cal.SetProductId("-//Sea Crew Manager//Vessel Calendar//EN")
	cal.SetName(fmt.Sprintf("%s 船期日历", vessel.Name))

	// ── 合同结束日事件 ──
	contracts, err := s.repo.Contract.ListActiveByVessel(ctx, vesselID)
	if err != nil {
		s.logger.Error("查询在职合同失败", zap.Error(err))
		return "", err
	}
	for i := range contracts {
		c := &contracts[i]
		holder := c.CrewMemberID
		if c.CrewMember != nil {
			holder = c.CrewMember.FullName()
		}
		bucket, res := expiry.ClassifyContract(c, now, s.cfg.Expiry.ContractThresholdDays)

		event := cal.AddEvent(fmt.Sprintf("contract-%s@sea-crew-manager", c.ContractID))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(c.EndDate)
		event.SetAllDayEndAt(c.EndDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("合同到期: %s (%s)", holder, c.Rank))
		event.SetDescription(fmt.Sprintf(
			"船员 %s 在 %s 的雇佣合同结束。当前分桶 %s，剩余 %d 天。",
			holder, vessel.Name, bucket, res.DaysRemaining))
	}

	// ── 即将到期证件事件（仅窗口内与已过期，避免日历被长效证件刷屏）──
	members, err := s.repo.Crew.ListByVessel(ctx, vesselID)
	if err != nil {
		s.logger.Error("查询在船船员失败", zap.Error(err))
		return "", err
	}
	ids := make([]string, len(members))
	for i := range members {
		ids[i] = members[i].CrewMemberID
	}
	docs, err := s.repo.Document.ListByCrewMembers(ctx, ids)
	if err != nil {
		s.logger.Error("批量查询证件失败", zap.Error(err))
		return "", err
	}
	names := make(map[string]string, len(members))
	for i := range members {
		names[members[i].CrewMemberID] = members[i].FullName()
	}

	for i := range docs {
		doc := &docs[i]
		if doc.ExpiryDate == nil {
			continue
		}
		res := expiry.Classify(doc.ExpiryDate, now, s.cfg.Expiry.DocumentThresholdDays)
		if res.Status != expiry.StatusExpiringSoon && res.Status != expiry.StatusExpired {
			continue
		}

		event := cal.AddEvent(fmt.Sprintf("document-%s@sea-crew-manager", doc.DocumentID))
		event.SetDtStampTime(now)
		event.SetAllDayStartAt(*doc.ExpiryDate)
		event.SetAllDayEndAt(doc.ExpiryDate.AddDate(0, 0, 1))
		event.SetSummary(fmt.Sprintf("证件到期: %s - %s", names[doc.CrewMemberID], doc.Type))
		event.SetDescription(fmt.Sprintf(
			"船员 %s 的证件 %s 到期。当前状态 %s，剩余 %d 天。",
			names[doc.CrewMemberID], doc.Type, res.Status, res.DaysRemaining))
	}

	return cal.Serialize(), nil
}
