package dto

// ── 排班历史模块 DTO ──

// SaveHistoryRequest 保存某月排班结果请求
type SaveHistoryRequest struct {
	MonthLabel     string                 `json:"month_label"      binding:"required,len=7"` // YYYY-MM
	Result         map[string]interface{} `json:"result"           binding:"required"`
	CarryOverFlags map[string]bool        `json:"carry_over_flags"`
}

// HistoryBrief 历史列表项（不含结果正文）
type HistoryBrief struct {
	ID         uint   `json:"id"`
	MonthLabel string `json:"month_label"`
	NurseCount int    `json:"nurse_count"`
	CreatedAt  string `json:"created_at"`
}

// HistoryResponse 历史详情响应
type HistoryResponse struct {
	ID                uint                   `json:"id"`
	MonthLabel        string                 `json:"month_label"`
	Result            map[string]interface{} `json:"result"`
	NurseDisplayOrder []string               `json:"nurse_display_order"`
	CreatedAt         string                 `json:"created_at"`
}
