package dto

import "github.com/SiwakornInk/NurseDutyTable/internal/model"

// ── 护士档案模块 DTO ──

// CreateNurseRequest 新建护士请求
type CreateNurseRequest struct {
	Prefix               string             `json:"prefix"                 binding:"max=32"`
	FirstName            string             `json:"first_name"             binding:"required,min=1,max=128"`
	LastName             string             `json:"last_name"              binding:"required,min=1,max=128"`
	IsGovernmentOfficial bool               `json:"is_government_official"`
	QuotaResetMonth      *int               `json:"quota_reset_month"      binding:"omitempty,min=0,max=11"`
	Constraints          []model.Constraint `json:"constraints"`
}

// UpdateNurseRequest 修改护士请求（指针字段为空表示不修改）
type UpdateNurseRequest struct {
	Prefix               *string             `json:"prefix"                 binding:"omitempty,max=32"`
	FirstName            *string             `json:"first_name"             binding:"omitempty,min=1,max=128"`
	LastName             *string             `json:"last_name"              binding:"omitempty,min=1,max=128"`
	IsGovernmentOfficial *bool               `json:"is_government_official"`
	QuotaResetMonth      *int                `json:"quota_reset_month"      binding:"omitempty,min=0,max=11"`
	ClearQuotaResetMonth bool                `json:"clear_quota_reset_month"`
	Constraints          *[]model.Constraint `json:"constraints"`
}

// ReorderNursesRequest 调整护士显示顺序请求，须包含全部护士 ID
type ReorderNursesRequest struct {
	NurseIDs []string `json:"nurse_ids" binding:"required,min=1,dive,uuid"`
}

// NurseResponse 护士响应
type NurseResponse struct {
	NurseID               string             `json:"nurse_id"`
	Prefix                string             `json:"prefix"`
	FirstName             string             `json:"first_name"`
	LastName              string             `json:"last_name"`
	FullName              string             `json:"full_name"`
	IsGovernmentOfficial  bool               `json:"is_government_official"`
	DisplayOrder          *int               `json:"display_order"`
	CarryOverPriorityFlag bool               `json:"carry_over_priority_flag"`
	QuotaResetMonth       *int               `json:"quota_reset_month"`
	Constraints           []model.Constraint `json:"constraints"`
	CreatedAt             string             `json:"created_at"`
	UpdatedAt             string             `json:"updated_at"`
}
