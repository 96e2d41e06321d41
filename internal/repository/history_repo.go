package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// HistoryRepository 排班历史数据访问接口
type HistoryRepository interface {
	Create(ctx context.Context, history *model.ScheduleHistory) error
	GetByID(ctx context.Context, id uint) (*model.ScheduleHistory, error)
	GetByMonthLabel(ctx context.Context, monthLabel string) (*model.ScheduleHistory, error)
	// ListBriefs 按月份标签倒序列出全部历史（不加载结果正文）
	ListBriefs(ctx context.Context) ([]model.ScheduleHistory, error)
	Delete(ctx context.Context, id uint) error
}

type historyRepo struct {
	db *gorm.DB
}

// NewHistoryRepo 创建 HistoryRepository 实例
func NewHistoryRepo(db *gorm.DB) HistoryRepository {
	return &historyRepo{db: db}
}

func (r *historyRepo) Create(ctx context.Context, history *model.ScheduleHistory) error {
	return r.db.WithContext(ctx).Create(history).Error
}

func (r *historyRepo) GetByID(ctx context.Context, id uint) (*model.ScheduleHistory, error) {
	var history model.ScheduleHistory
	err := r.db.WithContext(ctx).
		Where("id = ?", id).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *historyRepo) GetByMonthLabel(ctx context.Context, monthLabel string) (*model.ScheduleHistory, error) {
	var history model.ScheduleHistory
	err := r.db.WithContext(ctx).
		Where("month_label = ?", monthLabel).
		First(&history).Error
	if err != nil {
		return nil, err
	}
	return &history, nil
}

func (r *historyRepo) ListBriefs(ctx context.Context) ([]model.ScheduleHistory, error) {
	var histories []model.ScheduleHistory
	err := r.db.WithContext(ctx).
		Select("id", "month_label", "nurse_display_order", "created_at", "updated_at").
		Order("month_label DESC").
		Find(&histories).Error
	return histories, err
}

func (r *historyRepo) Delete(ctx context.Context, id uint) error {
	result := r.db.WithContext(ctx).
		Where("id = ?", id).
		Delete(&model.ScheduleHistory{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
