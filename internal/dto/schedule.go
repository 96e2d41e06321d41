package dto

// ── 排班编排模块 DTO ──

// GenerateScheduleRequest 生成某月排班请求
type GenerateScheduleRequest struct {
	MonthYear                  string   `json:"month_year"                    binding:"required,len=7"` // YYYY-MM
	Holidays                   []string `json:"holidays"                      binding:"dive,len=10"`
	RequiredNursesMorning      int      `json:"required_nurses_morning"       binding:"required,min=1"`
	RequiredNursesAfternoon    int      `json:"required_nurses_afternoon"     binding:"required,min=1"`
	RequiredNursesNight        int      `json:"required_nurses_night"         binding:"required,min=1"`
	MaxConsecutiveShiftsWorked int      `json:"max_consecutive_shifts_worked" binding:"required,min=1"`
	TargetOffDays              int      `json:"target_off_days"               binding:"min=0"`
	SolverTimeLimit            int      `json:"solver_time_limit"             binding:"required,min=1,max=600"`
}

// GenerateScheduleResponse 生成结果响应。Result 为求解服务返回的完整
// 排班结构，ProposedCarryOverFlags 为按高优先级软请求落空情况推算的
// 下月补偿标记（仅在保存历史时生效）。
type GenerateScheduleResponse struct {
	MonthYear              string                 `json:"month_year"`
	Result                 map[string]interface{} `json:"result"`
	ProposedCarryOverFlags map[string]bool        `json:"proposed_carry_over_flags"`
}
