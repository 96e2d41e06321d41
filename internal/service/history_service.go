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

// ── 排班历史模块业务错误 ──

var (
	ErrHistoryNotFound    = errors.New("排班历史不存在")
	ErrHistoryMonthExists = errors.New("该月份已保存过排班历史")
)

// HistoryService 排班历史业务接口
type HistoryService interface {
	// Save 保存某月排班结果为历史快照，同时固化当前护士显示顺序，
	// 并将生成时求解器建议的补偿标记落到护士档案。
	Save(ctx context.Context, req *dto.SaveHistoryRequest) (*dto.HistoryResponse, error)
	List(ctx context.Context) ([]dto.HistoryBrief, error)
	GetByID(ctx context.Context, id uint) (*dto.HistoryResponse, error)
	Delete(ctx context.Context, id uint) error
}

type historyService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewHistoryService 创建 HistoryService 实例
func NewHistoryService(repo *repository.Repository, logger *zap.Logger) HistoryService {
	return &historyService{repo: repo, logger: logger}
}

// ────────────────────── Save ──────────────────────

func (s *historyService) Save(ctx context.Context, req *dto.SaveHistoryRequest) (*dto.HistoryResponse, error) {
	if _, _, _, err := parseMonthYear(req.MonthLabel); err != nil {
		return nil, err
	}

	if _, err := s.repo.History.GetByMonthLabel(ctx, req.MonthLabel); err == nil {
		return nil, ErrHistoryMonthExists
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("查询历史失败", zap.String("month_label", req.MonthLabel), zap.Error(err))
		return nil, err
	}

	nurses, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		s.logger.Error("查询护士列表失败", zap.Error(err))
		return nil, err
	}
	order := make(model.StringList, 0, len(nurses))
	nurseByID := make(map[string]*model.Nurse, len(nurses))
	for i := range nurses {
		order = append(order, nurses[i].NurseID)
		nurseByID[nurses[i].NurseID] = &nurses[i]
	}

	history := &model.ScheduleHistory{
		MonthLabel:        req.MonthLabel,
		Result:            req.Result,
		NurseDisplayOrder: order,
	}
	if err := s.repo.History.Create(ctx, history); err != nil {
		s.logger.Error("保存历史失败", zap.String("month_label", req.MonthLabel), zap.Error(err))
		return nil, err
	}

	// 补偿标记仅对仍在册的非公务员护士生效
	flags := map[string]bool{}
	for nurseID, flag := range req.CarryOverFlags {
		nurse, ok := nurseByID[nurseID]
		if !ok || nurse.IsGovernmentOfficial {
			continue
		}
		flags[nurseID] = flag
	}
	if err := s.repo.Nurse.SetCarryOverFlags(ctx, flags); err != nil {
		s.logger.Error("更新补偿标记失败", zap.String("month_label", req.MonthLabel), zap.Error(err))
		return nil, err
	}

	s.logger.Info("排班历史已保存",
		zap.String("month_label", req.MonthLabel),
		zap.Int("nurse_count", len(order)),
		zap.Int("flag_count", len(flags)))
	return toHistoryResponse(history), nil
}

// ────────────────────── List ──────────────────────

func (s *historyService) List(ctx context.Context) ([]dto.HistoryBrief, error) {
	histories, err := s.repo.History.ListBriefs(ctx)
	if err != nil {
		s.logger.Error("列出历史失败", zap.Error(err))
		return nil, err
	}

	result := make([]dto.HistoryBrief, 0, len(histories))
	for i := range histories {
		result = append(result, dto.HistoryBrief{
			ID:         histories[i].ID,
			MonthLabel: histories[i].MonthLabel,
			NurseCount: len(histories[i].NurseDisplayOrder),
			CreatedAt:  histories[i].CreatedAt.Format(time.RFC3339),
		})
	}
	return result, nil
}

// ────────────────────── GetByID ──────────────────────

func (s *historyService) GetByID(ctx context.Context, id uint) (*dto.HistoryResponse, error) {
	history, err := s.repo.History.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrHistoryNotFound
		}
		s.logger.Error("查询历史失败", zap.Uint("id", id), zap.Error(err))
		return nil, err
	}
	return toHistoryResponse(history), nil
}

// ────────────────────── Delete ──────────────────────

func (s *historyService) Delete(ctx context.Context, id uint) error {
	if err := s.repo.History.Delete(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrHistoryNotFound
		}
		s.logger.Error("删除历史失败", zap.Uint("id", id), zap.Error(err))
		return err
	}
	s.logger.Info("排班历史已删除", zap.Uint("id", id))
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toHistoryResponse(h *model.ScheduleHistory) *dto.HistoryResponse {
	return &dto.HistoryResponse{
		ID:                h.ID,
		MonthLabel:        h.MonthLabel,
		Result:            h.Result,
		NurseDisplayOrder: h.NurseDisplayOrder,
		CreatedAt:         h.CreatedAt.Format(time.RFC3339),
	}
}
