package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
	"github.com/SiwakornInk/NurseDutyTable/internal/solver"
)

// ── 排班编排模块业务错误 ──

var (
	ErrNoNurses          = errors.New("系统中没有护士档案，无法生成排班")
	ErrHolidayOutOfMonth = errors.New("节假日日期不在目标月份内")
)

// SolverClient 求解服务客户端接口（便于测试替换）
type SolverClient interface {
	Generate(ctx context.Context, req *solver.GenerateRequest) (*solver.Result, error)
}

// ScheduleService 排班编排业务接口
type ScheduleService interface {
	// Generate 汇总护士档案、当月软硬请求与上月历史，调用求解服务
	// 生成排班。结果不落库，由操作员确认后另行保存为历史。
	Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error)
}

type scheduleService struct {
	repo   *repository.Repository
	solver SolverClient
	logger *zap.Logger
}

// NewScheduleService 创建 ScheduleService 实例
func NewScheduleService(repo *repository.Repository, solverClient SolverClient, logger *zap.Logger) ScheduleService {
	return &scheduleService{repo: repo, solver: solverClient, logger: logger}
}

// ────────────────────── Generate ──────────────────────

func (s *scheduleService) Generate(ctx context.Context, req *dto.GenerateScheduleRequest) (*dto.GenerateScheduleResponse, error) {
	year, month, daysInMonth, err := parseMonthYear(req.MonthYear)
	if err != nil {
		return nil, err
	}
	monthStart := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	monthEnd := time.Date(year, month, daysInMonth, 0, 0, 0, 0, time.UTC)

	for _, h := range req.Holidays {
		d, err := parseDate(h)
		if err != nil {
			return nil, err
		}
		if d.Before(monthStart) || d.After(monthEnd) {
			return nil, ErrHolidayOutOfMonth
		}
	}

	nurses, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		s.logger.Error("查询护士列表失败", zap.Error(err))
		return nil, err
	}
	if len(nurses) == 0 {
		return nil, ErrNoNurses
	}

	softByNurse, err := s.collectSoftRequests(ctx, req.MonthYear)
	if err != nil {
		return nil, err
	}
	hardDaysByNurse, err := s.collectHardRequestDays(ctx, monthStart, monthEnd)
	if err != nil {
		return nil, err
	}

	payload := &solver.GenerateRequest{
		Nurses: make([]solver.NursePayload, 0, len(nurses)),
		Schedule: solver.SchedulePeriod{
			StartDate: monthStart.Format("2006-01-02"),
			EndDate:   monthEnd.Format("2006-01-02"),
			Holidays:  req.Holidays,
		},
		RequiredNursesMorning:      req.RequiredNursesMorning,
		RequiredNursesAfternoon:    req.RequiredNursesAfternoon,
		RequiredNursesNight:        req.RequiredNursesNight,
		MaxConsecutiveShiftsWorked: req.MaxConsecutiveShiftsWorked,
		TargetOffDays:              req.TargetOffDays,
		SolverTimeLimit:            req.SolverTimeLimit,
	}
	if payload.Schedule.Holidays == nil {
		payload.Schedule.Holidays = []string{}
	}

	for i := range nurses {
		payload.Nurses = append(payload.Nurses, buildNursePayload(&nurses[i], softByNurse[nurses[i].NurseID], hardDaysByNurse[nurses[i].NurseID]))
	}

	// 上月历史用于保障月界处的连班约束连续性
	prevLabel := previousMonthLabel(year, month)
	if prev, err := s.repo.History.GetByMonthLabel(ctx, prevLabel); err == nil {
		payload.PreviousMonthSchedule = prev.Result
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询上月历史失败", zap.String("month_label", prevLabel), zap.Error(err))
		return nil, err
	}

	result, err := s.solver.Generate(ctx, payload)
	if err != nil {
		return nil, err
	}

	flags := result.NextCarryOverFlags
	if flags == nil {
		flags = map[string]bool{}
	}
	return &dto.GenerateScheduleResponse{
		MonthYear:              req.MonthYear,
		Result:                 result.Raw,
		ProposedCarryOverFlags: flags,
	}, nil
}

// collectSoftRequests 取当月已保存的软请求，按护士分组。
func (s *scheduleService) collectSoftRequests(ctx context.Context, monthYear string) (map[string][]model.SoftRequestEntry, error) {
	records, err := s.repo.SoftRequest.ListByMonth(ctx, monthYear)
	if err != nil {
		s.logger.Error("查询当月软请求失败", zap.String("month_year", monthYear), zap.Error(err))
		return nil, err
	}
	byNurse := make(map[string][]model.SoftRequestEntry, len(records))
	for i := range records {
		byNurse[records[i].NurseID] = records[i].Requests
	}
	return byNurse, nil
}

// collectHardRequestDays 取当月已批准的硬请求，按护士聚合为日号列表。
func (s *scheduleService) collectHardRequestDays(ctx context.Context, monthStart, monthEnd time.Time) (map[string][]int, error) {
	requests, err := s.repo.HardRequest.ListByDateRange(ctx, monthStart, monthEnd)
	if err != nil {
		s.logger.Error("查询当月硬请求失败", zap.Error(err))
		return nil, err
	}
	byNurse := map[string][]int{}
	for i := range requests {
		byNurse[requests[i].NurseID] = append(byNurse[requests[i].NurseID], requests[i].Date.Day())
	}
	return byNurse, nil
}

// buildNursePayload 组装单个护士的求解载荷：长期约束 + 当月软请求
// （soft 强度）+ 已批准硬请求日（hard 强度的指定日休假）。
func buildNursePayload(nurse *model.Nurse, softEntries []model.SoftRequestEntry, hardDays []int) solver.NursePayload {
	p := solver.NursePayload{
		ID:                    nurse.NurseID,
		Prefix:                nurse.Prefix,
		FirstName:             nurse.FirstName,
		LastName:              nurse.LastName,
		IsGovernmentOfficial:  nurse.IsGovernmentOfficial,
		CarryOverPriorityFlag: nurse.CarryOverPriorityFlag && !nurse.IsGovernmentOfficial,
		Constraints:           make([]solver.NurseConstraint, 0, len(nurse.Constraints)+len(softEntries)+1),
	}

	for _, c := range nurse.Constraints {
		p.Constraints = append(p.Constraints, solver.WireConstraint(c))
	}

	for _, e := range softEntries {
		wire := solver.WireConstraint(model.Constraint{
			Type:     e.Type,
			Strength: model.StrengthSoft,
			Days:     e.Days,
			Shifts:   e.Shifts,
		})
		wire.IsHighPriority = e.IsHighPriority
		p.Constraints = append(p.Constraints, wire)
	}

	if len(hardDays) > 0 {
		p.Constraints = append(p.Constraints, solver.WireConstraint(model.Constraint{
			Type:     model.ConstraintNoSpecificDays,
			Strength: model.StrengthHard,
			Days:     hardDays,
		}))
	}

	return p
}
