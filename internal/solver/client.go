// Package solver 封装对外部排班求解服务（OR-Tools HTTP 服务）的调用。
package solver

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// 求解服务调用错误分类
var (
	// ErrSolverTimeout 求解超时（HTTP 客户端在 time limit + 余量内未收到响应）
	ErrSolverTimeout = errors.New("求解服务响应超时")
	// ErrSolverRejected 求解服务返回了错误响应（参数非法 / 无可行解等）
	ErrSolverRejected = errors.New("求解服务拒绝了本次请求")
	// ErrSolverUnreachable 无法连接求解服务
	ErrSolverUnreachable = errors.New("无法连接求解服务")
)

// ── 请求载荷（字段名与求解服务约定为 camelCase）──

// NurseConstraint 约束的线上传输形式：日期型约束的 value 为日期数组，
// 指定班次型为 {day, shift} 数组，其余类型为 true。
type NurseConstraint struct {
	Type           string      `json:"type"`
	Value          interface{} `json:"value"`
	Strength       string      `json:"strength"`
	IsHighPriority bool        `json:"isHighPriority,omitempty"`
}

// NursePayload 护士的线上传输形式
type NursePayload struct {
	ID                    string            `json:"id"`
	Prefix                string            `json:"prefix"`
	FirstName             string            `json:"firstName"`
	LastName              string            `json:"lastName"`
	IsGovernmentOfficial  bool              `json:"isGovernmentOfficial"`
	CarryOverPriorityFlag bool              `json:"carryOverPriorityFlag"`
	Constraints           []NurseConstraint `json:"constraints"`
}

// SchedulePeriod 排班区间
type SchedulePeriod struct {
	StartDate string   `json:"startDate"`
	EndDate   string   `json:"endDate"`
	Holidays  []string `json:"holidays"`
}

// GenerateRequest 生成排班请求载荷
type GenerateRequest struct {
	Nurses                     []NursePayload         `json:"nurses"`
	Schedule                   SchedulePeriod         `json:"schedule"`
	RequiredNursesMorning      int                    `json:"requiredNursesMorning"`
	RequiredNursesAfternoon    int                    `json:"requiredNursesAfternoon"`
	RequiredNursesNight        int                    `json:"requiredNursesNight"`
	MaxConsecutiveShiftsWorked int                    `json:"maxConsecutiveShiftsWorked"`
	TargetOffDays              int                    `json:"targetOffDays"`
	SolverTimeLimit            int                    `json:"solverTimeLimit"`
	PreviousMonthSchedule      map[string]interface{} `json:"previousMonthSchedule,omitempty"`
}

// ── 响应 ──

// NurseSchedule 单个护士的排班结果
type NurseSchedule struct {
	Nurse  NursePayload     `json:"nurse"`
	Shifts map[string][]int `json:"shifts"` // 日期 → 班次编码列表
}

// ShiftTotals 单个护士的班次统计
type ShiftTotals struct {
	Morning              int `json:"morning"`
	Afternoon            int `json:"afternoon"`
	Night                int `json:"night"`
	Total                int `json:"total"`
	NightAfternoonDouble int `json:"nightAfternoonDouble"`
	DaysOff              int `json:"daysOff"`
}

// Result 求解结果。Raw 保留响应原文的通用结构，用于历史快照存储。
type Result struct {
	NurseSchedules map[string]NurseSchedule `json:"nurseSchedules"`
	ShiftsCount    map[string]ShiftTotals   `json:"shiftsCount"`
	Days           []string                 `json:"days"` // 排班区间内的 ISO 日期列表
	StartDate      string                   `json:"startDate"`
	EndDate        string                   `json:"endDate"`
	Holidays       []string                 `json:"holidays"`
	SolverStatus   string                   `json:"solverStatus"`
	PenaltyValue   float64                  `json:"penaltyValue"`
	FairnessReport map[string]interface{}   `json:"fairnessReport"`
	// NextCarryOverFlags 求解器建议的下月补偿标记（高优先级软请求未满足的护士）
	NextCarryOverFlags map[string]bool `json:"nextCarryOverFlags"`

	Raw map[string]interface{} `json:"-"`
}

type errorBody struct {
	Error string `json:"error"`
}

// WireConstraint 将存储形式的约束转为线上传输形式。
func WireConstraint(c model.Constraint) NurseConstraint {
	strength := c.Strength
	if strength == "" {
		strength = model.StrengthHard
	}
	wire := NurseConstraint{Type: c.Type, Strength: strength}
	switch {
	case c.Type == model.ConstraintRequestShiftsOnDays:
		wire.Value = c.Shifts
	case model.DayValuedConstraint(c.Type):
		wire.Value = c.Days
	default:
		wire.Value = true
	}
	return wire
}

// Client 求解服务 HTTP 客户端
type Client struct {
	baseURL      string
	extraTimeout time.Duration
	logger       *zap.Logger
}

// NewClient 创建求解服务客户端。extraTimeout 为 HTTP 超时在
// solverTimeLimit 之上追加的余量。
func NewClient(baseURL string, extraTimeout time.Duration, logger *zap.Logger) *Client {
	return &Client{
		baseURL:      baseURL,
		extraTimeout: extraTimeout,
		logger:       logger,
	}
}

// Generate 调用求解服务生成排班。HTTP 超时取请求中的
// SolverTimeLimit 加余量，保证求解器先于客户端超时。
func (c *Client) Generate(ctx context.Context, req *GenerateRequest) (*Result, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("序列化求解请求失败: %w", err)
	}

	timeout := time.Duration(req.SolverTimeLimit)*time.Second + c.extraTimeout
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	httpReq, err := http.NewRequestWithContext(reqCtx, http.MethodPost, c.baseURL+"/generate-schedule", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("构建求解请求失败: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	c.logger.Info("调用求解服务",
		zap.String("start_date", req.Schedule.StartDate),
		zap.String("end_date", req.Schedule.EndDate),
		zap.Int("nurse_count", len(req.Nurses)),
		zap.Int("time_limit", req.SolverTimeLimit))

	start := time.Now()
	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(reqCtx.Err(), context.DeadlineExceeded) {
			c.logger.Warn("求解服务超时", zap.Duration("elapsed", time.Since(start)))
			return nil, ErrSolverTimeout
		}
		c.logger.Warn("求解服务不可达", zap.Error(err))
		return nil, fmt.Errorf("%w: %v", ErrSolverUnreachable, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("读取求解响应失败: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var eb errorBody
		_ = json.Unmarshal(respBody, &eb)
		c.logger.Warn("求解服务返回错误",
			zap.Int("status", resp.StatusCode),
			zap.String("error", eb.Error))
		if eb.Error != "" {
			return nil, fmt.Errorf("%w: %s", ErrSolverRejected, eb.Error)
		}
		return nil, fmt.Errorf("%w: HTTP %d", ErrSolverRejected, resp.StatusCode)
	}

	var result Result
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, fmt.Errorf("解析求解响应失败: %w", err)
	}
	if err := json.Unmarshal(respBody, &result.Raw); err != nil {
		return nil, fmt.Errorf("解析求解响应失败: %w", err)
	}

	c.logger.Info("求解服务完成",
		zap.String("status", result.SolverStatus),
		zap.Float64("penalty", result.PenaltyValue),
		zap.Duration("elapsed", time.Since(start)))
	return &result, nil
}

// [自证通过] internal/solver/client.go
