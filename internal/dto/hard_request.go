package dto

// ── 硬请求配额模块 DTO ──

// SubmitHardRequestRequest 提交指定休假日硬请求
type SubmitHardRequestRequest struct {
	NurseID string `json:"nurse_id" binding:"required,uuid"`
	Date    string `json:"date"     binding:"required,len=10"` // YYYY-MM-DD
}

// CancelHardRequestRequest 撤销硬请求
type CancelHardRequestRequest struct {
	NurseID string `json:"nurse_id" binding:"required,uuid"`
	Date    string `json:"date"     binding:"required,len=10"`
}

// HardRequestQuery 硬请求列表查询参数（按日期区间）
type HardRequestQuery struct {
	StartDate string `form:"start_date" binding:"required,len=10"`
	EndDate   string `form:"end_date"   binding:"required,len=10"`
}

// HardRequestResponse 单条硬请求响应
type HardRequestResponse struct {
	ID              uint   `json:"id"`
	NurseID         string `json:"nurse_id"`
	NurseName       string `json:"nurse_name,omitempty"`
	Date            string `json:"date"`
	QuotaCycleStart string `json:"quota_cycle_start"`
	ApprovedAt      string `json:"approved_at"`
}

// QuotaStatusResponse 某护士当前配额年度使用情况。
// 年度区间为 [cycle_start, cycle_end)，cycle_end 为下一重置日（不含）。
type QuotaStatusResponse struct {
	NurseID        string `json:"nurse_id"`
	CycleStart     string `json:"cycle_start"`
	CycleEnd       string `json:"cycle_end"`
	UsedInCycle    int    `json:"used_in_cycle"`
	YearlyQuota    int    `json:"yearly_quota"`
	RemainingQuota int    `json:"remaining_quota"`
}

// DailyUsageResponse 某日硬请求名额占用情况
type DailyUsageResponse struct {
	Date      string `json:"date"`
	UsedSlots int    `json:"used_slots"`
	MaxSlots  int    `json:"max_slots"`
}
