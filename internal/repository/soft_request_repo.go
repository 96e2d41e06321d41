package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// SoftRequestRepository 月度软请求数据访问接口
type SoftRequestRepository interface {
	// Get 查询某护士某月的软请求记录，不存在时返回 gorm.ErrRecordNotFound
	Get(ctx context.Context, nurseID, monthYear string) (*model.MonthlySoftRequest, error)
	// Upsert 整体覆盖某护士某月的软请求（按唯一键冲突时更新）
	Upsert(ctx context.Context, record *model.MonthlySoftRequest) error
	ListByMonth(ctx context.Context, monthYear string) ([]model.MonthlySoftRequest, error)
	DeleteByNurse(ctx context.Context, nurseID string) error
}

type softRequestRepo struct {
	db *gorm.DB
}

// NewSoftRequestRepo 创建 SoftRequestRepository 实例
func NewSoftRequestRepo(db *gorm.DB) SoftRequestRepository {
	return &softRequestRepo{db: db}
}

func (r *softRequestRepo) Get(ctx context.Context, nurseID, monthYear string) (*model.MonthlySoftRequest, error) {
	var record model.MonthlySoftRequest
	err := r.db.WithContext(ctx).
		Where("nurse_id = ? AND month_year = ?", nurseID, monthYear).
		First(&record).Error
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (r *softRequestRepo) Upsert(ctx context.Context, record *model.MonthlySoftRequest) error {
	record.UpdatedAt = time.Now()
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "nurse_id"}, {Name: "month_year"}},
			DoUpdates: clause.AssignmentColumns([]string{"requests", "updated_at"}),
		}).
		Create(record).Error
}

func (r *softRequestRepo) ListByMonth(ctx context.Context, monthYear string) ([]model.MonthlySoftRequest, error) {
	var records []model.MonthlySoftRequest
	err := r.db.WithContext(ctx).
		Where("month_year = ?", monthYear).
		Find(&records).Error
	return records, err
}

// DeleteByNurse 删除某护士的全部软请求（删除护士档案时级联调用）
func (r *softRequestRepo) DeleteByNurse(ctx context.Context, nurseID string) error {
	return r.db.WithContext(ctx).
		Where("nurse_id = ?", nurseID).
		Delete(&model.MonthlySoftRequest{}).Error
}
