package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
)

// ── 软请求模块业务错误 ──

var (
	ErrGovOfficialNotAllowed = errors.New("公务员护士不参与请求系统")
	ErrInvalidMonth          = errors.New("月份格式不合法，应为 YYYY-MM")
	ErrTooManyRequests       = errors.New("每月最多提交两条软请求")
	ErrDuplicateRequestType  = errors.New("同月软请求类型不能重复")
	ErrTooManyHighPriority   = errors.New("每月最多一条高优先级软请求")
	ErrInvalidRequestDay     = errors.New("软请求日期超出当月范围")
	ErrTooManyRequestDays    = errors.New("单条软请求最多选择两天")
	ErrDuplicateRequestDay   = errors.New("两条软请求的日期不能重复")
)

// SoftRequestService 月度软请求业务接口
type SoftRequestService interface {
	Save(ctx context.Context, nurseID string, req *dto.SaveSoftRequestsRequest) (*dto.SoftRequestResponse, error)
	// Get 查询某护士某月软请求。当月无记录时按上月条目推导预填内容返回
	// （仅保留类型，清空日期值，日期型条目取消高优先级），不落库。
	Get(ctx context.Context, nurseID, monthYear string) (*dto.SoftRequestResponse, error)
}

type softRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewSoftRequestService 创建 SoftRequestService 实例
func NewSoftRequestService(repo *repository.Repository, logger *zap.Logger) SoftRequestService {
	return &softRequestService{repo: repo, logger: logger}
}

// parseMonthYear 解析 YYYY-MM，返回该月天数。
func parseMonthYear(monthYear string) (year int, month time.Month, daysInMonth int, err error) {
	t, err := time.Parse("2006-01", monthYear)
	if err != nil {
		return 0, 0, 0, ErrInvalidMonth
	}
	year, month = t.Year(), t.Month()
	daysInMonth = time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
	return year, month, daysInMonth, nil
}

// previousMonthLabel 返回上一个月的 YYYY-MM 标签。
func previousMonthLabel(year int, month time.Month) string {
	prev := time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0)
	return fmt.Sprintf("%04d-%02d", prev.Year(), int(prev.Month()))
}

// validateEntries 校验一组软请求条目。
func validateEntries(entries []model.SoftRequestEntry, daysInMonth int) error {
	if len(entries) > model.MaxSoftRequestsPerMonth {
		return ErrTooManyRequests
	}

	seenTypes := map[string]bool{}
	seenDays := map[int]bool{}
	highPriority := 0
	for _, e := range entries {
		if !validConstraintTypes[e.Type] {
			return ErrInvalidConstraint
		}
		if seenTypes[e.Type] {
			return ErrDuplicateRequestType
		}
		seenTypes[e.Type] = true

		if e.IsHighPriority {
			highPriority++
			if highPriority > 1 {
				return ErrTooManyHighPriority
			}
		}

		var days []int
		switch e.Type {
		case model.ConstraintNoSpecificDays:
			days = e.Days
		case model.ConstraintRequestShiftsOnDays:
			for _, sr := range e.Shifts {
				if sr.Shift < model.ShiftMorning || sr.Shift > model.ShiftNADouble {
					return ErrInvalidConstraint
				}
				days = append(days, sr.Day)
			}
		}

		if len(days) > model.MaxDaysPerSoftRequest {
			return ErrTooManyRequestDays
		}
		for _, d := range days {
			if d < 1 || d > daysInMonth {
				return ErrInvalidRequestDay
			}
			// 两条请求合并后的日期集合也不允许重复
			if seenDays[d] {
				return ErrDuplicateRequestDay
			}
			seenDays[d] = true
		}
	}
	return nil
}

// carriedEntries 由上月条目推导本月预填内容：保留类型，
// 日期型条目清空日期值并取消高优先级。
func carriedEntries(prev []model.SoftRequestEntry) []model.SoftRequestEntry {
	carried := make([]model.SoftRequestEntry, 0, len(prev))
	for _, e := range prev {
		entry := model.SoftRequestEntry{Type: e.Type, IsHighPriority: e.IsHighPriority}
		if model.DayValuedConstraint(e.Type) {
			entry.IsHighPriority = false
		}
		carried = append(carried, entry)
	}
	return carried
}

// ────────────────────── Save ──────────────────────

func (s *softRequestService) Save(ctx context.Context, nurseID string, req *dto.SaveSoftRequestsRequest) (*dto.SoftRequestResponse, error) {
	nurse, err := s.repo.Nurse.GetByID(ctx, nurseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNurseNotFound
		}
		return nil, err
	}
	if nurse.IsGovernmentOfficial {
		return nil, ErrGovOfficialNotAllowed
	}

	_, _, daysInMonth, err := parseMonthYear(req.MonthYear)
	if err != nil {
		return nil, err
	}
	if err := validateEntries(req.Requests, daysInMonth); err != nil {
		return nil, err
	}

	record := &model.MonthlySoftRequest{
		NurseID:   nurseID,
		MonthYear: req.MonthYear,
		Requests:  req.Requests,
	}
	if record.Requests == nil {
		record.Requests = model.SoftRequestList{}
	}

	if err := s.repo.SoftRequest.Upsert(ctx, record); err != nil {
		s.logger.Error("保存软请求失败",
			zap.String("nurse_id", nurseID),
			zap.String("month_year", req.MonthYear),
			zap.Error(err))
		return nil, err
	}

	return &dto.SoftRequestResponse{
		NurseID:   nurseID,
		MonthYear: req.MonthYear,
		Requests:  record.Requests,
		UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
	}, nil
}

// ────────────────────── Get ──────────────────────

func (s *softRequestService) Get(ctx context.Context, nurseID, monthYear string) (*dto.SoftRequestResponse, error) {
	nurse, err := s.repo.Nurse.GetByID(ctx, nurseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNurseNotFound
		}
		return nil, err
	}
	if nurse.IsGovernmentOfficial {
		return nil, ErrGovOfficialNotAllowed
	}

	year, month, _, err := parseMonthYear(monthYear)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.SoftRequest.Get(ctx, nurseID, monthYear)
	if err == nil {
		return &dto.SoftRequestResponse{
			NurseID:   nurseID,
			MonthYear: monthYear,
			Requests:  record.Requests,
			UpdatedAt: record.UpdatedAt.Format(time.RFC3339),
		}, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询软请求失败",
			zap.String("nurse_id", nurseID),
			zap.String("month_year", monthYear),
			zap.Error(err))
		return nil, err
	}

	// 当月无记录 → 尝试用上月条目推导预填内容
	resp := &dto.SoftRequestResponse{
		NurseID:   nurseID,
		MonthYear: monthYear,
		Requests:  []model.SoftRequestEntry{},
	}
	prev, err := s.repo.SoftRequest.Get(ctx, nurseID, previousMonthLabel(year, month))
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return resp, nil
		}
		return nil, err
	}
	resp.Requests = carriedEntries(prev.Requests)
	resp.Carried = len(resp.Requests) > 0
	return resp, nil
}
