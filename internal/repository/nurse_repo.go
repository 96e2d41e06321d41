package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// NurseRepository 护士档案数据访问接口
type NurseRepository interface {
	Create(ctx context.Context, nurse *model.Nurse) error
	GetByID(ctx context.Context, nurseID string) (*model.Nurse, error)
	// ListOrdered 按显示顺序列出全部护士（display_order 为空的排在末尾）
	ListOrdered(ctx context.Context) ([]model.Nurse, error)
	// ListUnordered 不带排序的兜底查询，供排序查询失败时降级使用
	ListUnordered(ctx context.Context) ([]model.Nurse, error)
	Update(ctx context.Context, nurseID string, updates map[string]interface{}) error
	Delete(ctx context.Context, nurseID string) error
	Count(ctx context.Context) (int64, error)
	// Reorder 在单个事务内按给定顺序重写全部 display_order
	Reorder(ctx context.Context, nurseIDs []string) error
	// SetCarryOverFlags 批量更新补偿标记（保存排班历史时调用）
	SetCarryOverFlags(ctx context.Context, flags map[string]bool) error
}

type nurseRepo struct {
	db *gorm.DB
}

// NewNurseRepo 创建 NurseRepository 实例
func NewNurseRepo(db *gorm.DB) NurseRepository {
	return &nurseRepo{db: db}
}

func (r *nurseRepo) Create(ctx context.Context, nurse *model.Nurse) error {
	return r.db.WithContext(ctx).Create(nurse).Error
}

func (r *nurseRepo) GetByID(ctx context.Context, nurseID string) (*model.Nurse, error) {
	var nurse model.Nurse
	err := r.db.WithContext(ctx).
		Where("nurse_id = ?", nurseID).
		First(&nurse).Error
	if err != nil {
		return nil, err
	}
	return &nurse, nil
}

func (r *nurseRepo) ListOrdered(ctx context.Context) ([]model.Nurse, error) {
	var nurses []model.Nurse
	err := r.db.WithContext(ctx).
		Order("display_order ASC NULLS LAST, created_at ASC").
		Find(&nurses).Error
	return nurses, err
}

func (r *nurseRepo) ListUnordered(ctx context.Context) ([]model.Nurse, error) {
	var nurses []model.Nurse
	err := r.db.WithContext(ctx).Find(&nurses).Error
	return nurses, err
}

func (r *nurseRepo) Update(ctx context.Context, nurseID string, updates map[string]interface{}) error {
	updates["updated_at"] = time.Now()
	return r.db.WithContext(ctx).
		Model(&model.Nurse{}).
		Where("nurse_id = ?", nurseID).
		Updates(updates).Error
}

func (r *nurseRepo) Delete(ctx context.Context, nurseID string) error {
	return r.db.WithContext(ctx).
		Where("nurse_id = ?", nurseID).
		Delete(&model.Nurse{}).Error
}

func (r *nurseRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Nurse{}).
		Count(&count).Error
	return count, err
}

func (r *nurseRepo) Reorder(ctx context.Context, nurseIDs []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i, id := range nurseIDs {
			if err := tx.Model(&model.Nurse{}).
				Where("nurse_id = ?", id).
				Update("display_order", i).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *nurseRepo) SetCarryOverFlags(ctx context.Context, flags map[string]bool) error {
	if len(flags) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for nurseID, flag := range flags {
			if err := tx.Model(&model.Nurse{}).
				Where("nurse_id = ?", nurseID).
				Update("carry_over_priority_flag", flag).Error; err != nil {
				return err
			}
		}
		return nil
	})
}
