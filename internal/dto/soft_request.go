package dto

import "github.com/SiwakornInk/NurseDutyTable/internal/model"

// ── 软请求模块 DTO ──

// SaveSoftRequestsRequest 保存某护士某月软请求（整体覆盖）
type SaveSoftRequestsRequest struct {
	MonthYear string                   `json:"month_year" binding:"required,len=7"`
	Requests  []model.SoftRequestEntry `json:"requests"   binding:"max=2"`
}

// SoftRequestQuery 软请求查询参数
type SoftRequestQuery struct {
	MonthYear string `form:"month_year" binding:"required,len=7"`
}

// SoftRequestResponse 某护士某月软请求响应。Carried 为真表示当月无记录，
// 返回的是由上月条目推导的预填内容（未落库）。
type SoftRequestResponse struct {
	NurseID   string                   `json:"nurse_id"`
	MonthYear string                   `json:"month_year"`
	Requests  []model.SoftRequestEntry `json:"requests"`
	Carried   bool                     `json:"carried"`
	UpdatedAt string                   `json:"updated_at,omitempty"`
}
