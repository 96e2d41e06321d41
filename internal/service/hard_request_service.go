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
)

// ── 硬请求模块业务错误 ──

var (
	ErrInvalidDate         = errors.New("日期格式不合法，应为 YYYY-MM-DD")
	ErrHardRequestNotFound = errors.New("硬请求不存在")
)

// HardRequestService 硬请求配额业务接口
type HardRequestService interface {
	// Submit 为护士提交指定休假日硬请求。配额检查与写入在仓储层的
	// 可串行化事务内完成。
	Submit(ctx context.Context, req *dto.SubmitHardRequestRequest) (*dto.HardRequestResponse, error)
	Cancel(ctx context.Context, req *dto.CancelHardRequestRequest) error
	ListByRange(ctx context.Context, query *dto.HardRequestQuery) ([]dto.HardRequestResponse, error)
	// QuotaStatus 查询护士当前配额年度（以今天为基准）的使用情况
	QuotaStatus(ctx context.Context, nurseID string) (*dto.QuotaStatusResponse, error)
	DailyUsage(ctx context.Context, date string) (*dto.DailyUsageResponse, error)
}

type hardRequestService struct {
	repo   *repository.Repository
	logger *zap.Logger
	now    func() time.Time
}

// NewHardRequestService 创建 HardRequestService 实例
func NewHardRequestService(repo *repository.Repository, logger *zap.Logger) HardRequestService {
	return &hardRequestService{repo: repo, logger: logger, now: time.Now}
}

func parseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, ErrInvalidDate
	}
	return t, nil
}

// ────────────────────── Submit ──────────────────────

func (s *hardRequestService) Submit(ctx context.Context, req *dto.SubmitHardRequestRequest) (*dto.HardRequestResponse, error) {
	nurse, err := s.repo.Nurse.GetByID(ctx, req.NurseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNurseNotFound
		}
		return nil, err
	}
	if nurse.IsGovernmentOfficial {
		return nil, ErrGovOfficialNotAllowed
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return nil, err
	}

	record := &model.ApprovedHardRequest{
		NurseID:         nurse.NurseID,
		Date:            date,
		QuotaCycleStart: CycleStartForDate(nurse, date),
		ApprovedAt:      s.now(),
	}

	if err := s.repo.HardRequest.SubmitApproved(ctx, record); err != nil {
		switch {
		case errors.Is(err, repository.ErrYearlyQuotaExceeded),
			errors.Is(err, repository.ErrDailyCapReached),
			errors.Is(err, repository.ErrDuplicateHardRequest):
			return nil, err
		}
		s.logger.Error("提交硬请求失败",
			zap.String("nurse_id", req.NurseID),
			zap.String("date", req.Date),
			zap.Error(err))
		return nil, err
	}

	s.logger.Info("硬请求已批准",
		zap.String("nurse_id", nurse.NurseID),
		zap.String("date", req.Date),
		zap.String("cycle_start", record.QuotaCycleStart.Format("2006-01-02")))
	return toHardRequestResponse(record, nurse.FullName()), nil
}

// ────────────────────── Cancel ──────────────────────

func (s *hardRequestService) Cancel(ctx context.Context, req *dto.CancelHardRequestRequest) error {
	nurse, err := s.repo.Nurse.GetByID(ctx, req.NurseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNurseNotFound
		}
		return err
	}
	if nurse.IsGovernmentOfficial {
		return ErrGovOfficialNotAllowed
	}

	date, err := parseDate(req.Date)
	if err != nil {
		return err
	}

	if err := s.repo.HardRequest.Cancel(ctx, req.NurseID, date); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHardRequestNotFound
		}
		s.logger.Error("撤销硬请求失败",
			zap.String("nurse_id", req.NurseID),
			zap.String("date", req.Date),
			zap.Error(err))
		return err
	}

	s.logger.Info("硬请求已撤销", zap.String("nurse_id", req.NurseID), zap.String("date", req.Date))
	return nil
}

// ────────────────────── ListByRange ──────────────────────

func (s *hardRequestService) ListByRange(ctx context.Context, query *dto.HardRequestQuery) ([]dto.HardRequestResponse, error) {
	start, err := parseDate(query.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate(query.EndDate)
	if err != nil {
		return nil, err
	}
	if end.Before(start) {
		return nil, ErrInvalidDate
	}

	requests, err := s.repo.HardRequest.ListByDateRange(ctx, start, end)
	if err != nil {
		s.logger.Error("查询硬请求列表失败", zap.Error(err))
		return nil, err
	}

	nurses, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string, len(nurses))
	for i := range nurses {
		names[nurses[i].NurseID] = nurses[i].FullName()
	}

	result := make([]dto.HardRequestResponse, 0, len(requests))
	for i := range requests {
		result = append(result, *toHardRequestResponse(&requests[i], names[requests[i].NurseID]))
	}
	return result, nil
}

// ────────────────────── QuotaStatus ──────────────────────

func (s *hardRequestService) QuotaStatus(ctx context.Context, nurseID string) (*dto.QuotaStatusResponse, error) {
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

	cycleStart, cycleEnd := CurrentCycle(nurse, s.now())
	used, err := s.repo.HardRequest.CountInCycle(ctx, nurseID, cycleStart, cycleEnd)
	if err != nil {
		s.logger.Error("统计配额使用失败", zap.String("nurse_id", nurseID), zap.Error(err))
		return nil, err
	}

	remaining := model.YearlyHardRequestQuota - int(used)
	if remaining < 0 {
		remaining = 0
	}
	return &dto.QuotaStatusResponse{
		NurseID:        nurseID,
		CycleStart:     cycleStart.Format("2006-01-02"),
		CycleEnd:       cycleEnd.Format("2006-01-02"),
		UsedInCycle:    int(used),
		YearlyQuota:    model.YearlyHardRequestQuota,
		RemainingQuota: remaining,
	}, nil
}

// ────────────────────── DailyUsage ──────────────────────

func (s *hardRequestService) DailyUsage(ctx context.Context, dateStr string) (*dto.DailyUsageResponse, error) {
	date, err := parseDate(dateStr)
	if err != nil {
		return nil, err
	}

	used, err := s.repo.HardRequest.CountByDate(ctx, date)
	if err != nil {
		s.logger.Error("统计当日名额失败", zap.String("date", dateStr), zap.Error(err))
		return nil, err
	}

	return &dto.DailyUsageResponse{
		Date:      dateStr,
		UsedSlots: int(used),
		MaxSlots:  model.MaxDailyHardRequests,
	}, nil
}

// ────────────────────── 响应转换 ──────────────────────

func toHardRequestResponse(r *model.ApprovedHardRequest, nurseName string) *dto.HardRequestResponse {
	return &dto.HardRequestResponse{
		ID:              r.ID,
		NurseID:         r.NurseID,
		NurseName:       nurseName,
		Date:            r.Date.Format("2006-01-02"),
		QuotaCycleStart: r.QuotaCycleStart.Format("2006-01-02"),
		ApprovedAt:      r.ApprovedAt.Format(time.RFC3339),
	}
}
