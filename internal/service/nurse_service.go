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

// ── 护士档案模块业务错误 ──

var (
	ErrNurseNotFound       = errors.New("护士不存在")
	ErrDuplicateNurseName  = errors.New("同名护士已存在")
	ErrInvalidConstraint   = errors.New("约束定义不合法")
	ErrReorderListMismatch = errors.New("排序列表必须包含且仅包含全部护士")
)

var validConstraintTypes = map[string]bool{
	model.ConstraintNoSundays:           true,
	model.ConstraintNoMondays:           true,
	model.ConstraintNoTuesdays:          true,
	model.ConstraintNoWednesdays:        true,
	model.ConstraintNoThursdays:         true,
	model.ConstraintNoFridays:           true,
	model.ConstraintNoSaturdays:         true,
	model.ConstraintNoMorningShifts:     true,
	model.ConstraintNoAfternoonShifts:   true,
	model.ConstraintNoNightShifts:       true,
	model.ConstraintNoNightAfternoonDbl: true,
	model.ConstraintNoSpecificDays:      true,
	model.ConstraintRequestShiftsOnDays: true,
}

// validateConstraints 校验约束列表：类型在词表内、强度合法、
// 日期值在 [1,31] 内、班次编码合法。
func validateConstraints(constraints []model.Constraint) error {
	for _, c := range constraints {
		if !validConstraintTypes[c.Type] {
			return ErrInvalidConstraint
		}
		if c.Strength != "" && c.Strength != model.StrengthHard && c.Strength != model.StrengthSoft {
			return ErrInvalidConstraint
		}
		for _, d := range c.Days {
			if d < 1 || d > 31 {
				return ErrInvalidConstraint
			}
		}
		for _, sr := range c.Shifts {
			if sr.Day < 1 || sr.Day > 31 {
				return ErrInvalidConstraint
			}
			if sr.Shift < model.ShiftMorning || sr.Shift > model.ShiftNADouble {
				return ErrInvalidConstraint
			}
		}
	}
	return nil
}

// NurseService 护士档案业务接口
type NurseService interface {
	Create(ctx context.Context, req *dto.CreateNurseRequest) (*dto.NurseResponse, error)
	GetByID(ctx context.Context, nurseID string) (*dto.NurseResponse, error)
	List(ctx context.Context) ([]dto.NurseResponse, error)
	Update(ctx context.Context, nurseID string, req *dto.UpdateNurseRequest) (*dto.NurseResponse, error)
	Delete(ctx context.Context, nurseID string) error
	Reorder(ctx context.Context, req *dto.ReorderNursesRequest) error
}

type nurseService struct {
	repo   *repository.Repository
	logger *zap.Logger
}

// NewNurseService 创建 NurseService 实例
func NewNurseService(repo *repository.Repository, logger *zap.Logger) NurseService {
	return &nurseService{repo: repo, logger: logger}
}

// ────────────────────── Create ──────────────────────

func (s *nurseService) Create(ctx context.Context, req *dto.CreateNurseRequest) (*dto.NurseResponse, error) {
	if err := validateConstraints(req.Constraints); err != nil {
		return nil, err
	}

	existing, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		s.logger.Error("查询护士列表失败", zap.Error(err))
		return nil, err
	}
	for i := range existing {
		if existing[i].FirstName == req.FirstName && existing[i].LastName == req.LastName {
			return nil, ErrDuplicateNurseName
		}
	}

	nurse := &model.Nurse{
		Prefix:               req.Prefix,
		FirstName:            req.FirstName,
		LastName:             req.LastName,
		IsGovernmentOfficial: req.IsGovernmentOfficial,
		QuotaResetMonth:      req.QuotaResetMonth,
		Constraints:          req.Constraints,
	}
	if nurse.Constraints == nil {
		nurse.Constraints = model.ConstraintList{}
	}

	if err := s.repo.Nurse.Create(ctx, nurse); err != nil {
		s.logger.Error("创建护士失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("创建护士", zap.String("nurse_id", nurse.NurseID), zap.String("name", nurse.FullName()))
	return toNurseResponse(nurse), nil
}

// ────────────────────── GetByID ──────────────────────

func (s *nurseService) GetByID(ctx context.Context, nurseID string) (*dto.NurseResponse, error) {
	nurse, err := s.repo.Nurse.GetByID(ctx, nurseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNurseNotFound
		}
		s.logger.Error("查询护士失败", zap.String("nurse_id", nurseID), zap.Error(err))
		return nil, err
	}
	return toNurseResponse(nurse), nil
}

// ────────────────────── List ──────────────────────

func (s *nurseService) List(ctx context.Context) ([]dto.NurseResponse, error) {
	nurses, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		// 排序查询失败时降级为无序查询，并尽力修复显示顺序
		s.logger.Error("按显示顺序列出护士失败，降级为无序查询", zap.Error(err))
		nurses, err = s.repo.Nurse.ListUnordered(ctx)
		if err != nil {
			s.logger.Error("列出护士失败", zap.Error(err))
			return nil, err
		}
		s.repairDisplayOrder(ctx, nurses)
	}

	result := make([]dto.NurseResponse, 0, len(nurses))
	for i := range nurses {
		result = append(result, *toNurseResponse(&nurses[i]))
	}
	return result, nil
}

// repairDisplayOrder 按当前返回顺序重写 display_order。失败仅记日志，
// 不影响本次列出结果。
func (s *nurseService) repairDisplayOrder(ctx context.Context, nurses []model.Nurse) {
	ids := make([]string, 0, len(nurses))
	for i := range nurses {
		ids = append(ids, nurses[i].NurseID)
	}
	if err := s.repo.Nurse.Reorder(ctx, ids); err != nil {
		s.logger.Warn("修复护士显示顺序失败", zap.Error(err))
	}
}

// ────────────────────── Update ──────────────────────

func (s *nurseService) Update(ctx context.Context, nurseID string, req *dto.UpdateNurseRequest) (*dto.NurseResponse, error) {
	if _, err := s.repo.Nurse.GetByID(ctx, nurseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNurseNotFound
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if req.Prefix != nil {
		updates["prefix"] = *req.Prefix
	}
	if req.FirstName != nil {
		updates["first_name"] = *req.FirstName
	}
	if req.LastName != nil {
		updates["last_name"] = *req.LastName
	}
	if req.IsGovernmentOfficial != nil {
		updates["is_government_official"] = *req.IsGovernmentOfficial
	}
	if req.ClearQuotaResetMonth {
		updates["quota_reset_month"] = nil
	} else if req.QuotaResetMonth != nil {
		updates["quota_reset_month"] = *req.QuotaResetMonth
	}
	if req.Constraints != nil {
		if err := validateConstraints(*req.Constraints); err != nil {
			return nil, err
		}
		updates["constraints"] = model.ConstraintList(*req.Constraints)
	}

	if len(updates) > 0 {
		if err := s.repo.Nurse.Update(ctx, nurseID, updates); err != nil {
			s.logger.Error("更新护士失败", zap.String("nurse_id", nurseID), zap.Error(err))
			return nil, err
		}
	}

	nurse, err := s.repo.Nurse.GetByID(ctx, nurseID)
	if err != nil {
		return nil, err
	}
	return toNurseResponse(nurse), nil
}

// ────────────────────── Delete ──────────────────────

// Delete 删除护士档案，并级联清理其软请求与硬请求。
// 已保存的排班历史持有快照，不受删除影响。
func (s *nurseService) Delete(ctx context.Context, nurseID string) error {
	if _, err := s.repo.Nurse.GetByID(ctx, nurseID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrNurseNotFound
		}
		return err
	}

	if err := s.repo.SoftRequest.DeleteByNurse(ctx, nurseID); err != nil {
		s.logger.Error("清理护士软请求失败", zap.String("nurse_id", nurseID), zap.Error(err))
		return err
	}
	if err := s.repo.HardRequest.DeleteByNurse(ctx, nurseID); err != nil {
		s.logger.Error("清理护士硬请求失败", zap.String("nurse_id", nurseID), zap.Error(err))
		return err
	}
	if err := s.repo.Nurse.Delete(ctx, nurseID); err != nil {
		s.logger.Error("删除护士失败", zap.String("nurse_id", nurseID), zap.Error(err))
		return err
	}

	s.logger.Info("删除护士", zap.String("nurse_id", nurseID))
	return nil
}

// ────────────────────── Reorder ──────────────────────

// Reorder 重写全部护士的显示顺序。提交的 ID 集合必须与现有护士
// 完全一致，防止并发增删导致部分护士丢失顺序。
func (s *nurseService) Reorder(ctx context.Context, req *dto.ReorderNursesRequest) error {
	nurses, err := s.repo.Nurse.ListOrdered(ctx)
	if err != nil {
		s.logger.Error("查询护士列表失败", zap.Error(err))
		return err
	}

	if len(req.NurseIDs) != len(nurses) {
		return ErrReorderListMismatch
	}
	existing := make(map[string]bool, len(nurses))
	for i := range nurses {
		existing[nurses[i].NurseID] = true
	}
	seen := make(map[string]bool, len(req.NurseIDs))
	for _, id := range req.NurseIDs {
		if !existing[id] || seen[id] {
			return ErrReorderListMismatch
		}
		seen[id] = true
	}

	if err := s.repo.Nurse.Reorder(ctx, req.NurseIDs); err != nil {
		s.logger.Error("更新护士显示顺序失败", zap.Error(err))
		return err
	}
	return nil
}

// ────────────────────── 响应转换 ──────────────────────

func toNurseResponse(nurse *model.Nurse) *dto.NurseResponse {
	return &dto.NurseResponse{
		NurseID:               nurse.NurseID,
		Prefix:                nurse.Prefix,
		FirstName:             nurse.FirstName,
		LastName:              nurse.LastName,
		FullName:              nurse.FullName(),
		IsGovernmentOfficial:  nurse.IsGovernmentOfficial,
		DisplayOrder:          nurse.DisplayOrder,
		CarryOverPriorityFlag: nurse.CarryOverPriorityFlag,
		QuotaResetMonth:       nurse.QuotaResetMonth,
		Constraints:           nurse.Constraints,
		CreatedAt:             nurse.CreatedAt.Format(time.RFC3339),
		UpdatedAt:             nurse.UpdatedAt.Format(time.RFC3339),
	}
}
