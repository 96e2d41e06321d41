package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	apperrors "github.com/SiwakornInk/NurseDutyTable/pkg/errors"
)

// 硬请求提交事务内的业务校验错误
var (
	ErrYearlyQuotaExceeded  = errors.New("该护士本配额年度的硬请求名额已用完")
	ErrDailyCapReached      = errors.New("该日期的硬请求名额已满")
	ErrDuplicateHardRequest = errors.New("该护士在该日期已提交过硬请求")
)

// HardRequestRepository 已批准硬请求数据访问接口
type HardRequestRepository interface {
	// SubmitApproved 在可串行化事务内完成配额校验并写入硬请求：
	// 依次检查配额年度余额、当日名额、是否重复，任一不满足即回滚。
	SubmitApproved(ctx context.Context, req *model.ApprovedHardRequest) error
	// Cancel 删除某护士某日的硬请求，记录不存在时返回 gorm.ErrRecordNotFound
	Cancel(ctx context.Context, nurseID string, date time.Time) error
	ListByDateRange(ctx context.Context, start, end time.Time) ([]model.ApprovedHardRequest, error)
	// ListByNurseCycle 列出某护士日期落在 [cycleStart, cycleEnd) 内的硬请求
	ListByNurseCycle(ctx context.Context, nurseID string, cycleStart, cycleEnd time.Time) ([]model.ApprovedHardRequest, error)
	// CountInCycle 统计某护士日期落在 [cycleStart, cycleEnd) 内的硬请求数。
	// 按日期窗口而非落库的归属戳计数：重置月被修改后历史记录仍计入
	// 新窗口，滚动十二个月内的配额不会因改档而放宽。
	CountInCycle(ctx context.Context, nurseID string, cycleStart, cycleEnd time.Time) (int64, error)
	CountByDate(ctx context.Context, date time.Time) (int64, error)
	DeleteByNurse(ctx context.Context, nurseID string) error
}

type hardRequestRepo struct {
	db *gorm.DB
}

// NewHardRequestRepo 创建 HardRequestRepository 实例
func NewHardRequestRepo(db *gorm.DB) HardRequestRepository {
	return &hardRequestRepo{db: db}
}

// SubmitApproved 配额校验与写入必须原子完成，使用 SERIALIZABLE 隔离级别，
// 配合 (nurse_id, date) 唯一索引兜底并发重复提交。
// 序列化冲突（SQLSTATE 40001）映射为 ErrConcurrentConflict，由操作员重试。
func (r *hardRequestRepo) SubmitApproved(ctx context.Context, req *model.ApprovedHardRequest) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// 配额按日期窗口统计，而非落库的归属戳：见 CountInCycle 注释
		cycleEnd := req.QuotaCycleStart.AddDate(1, 0, 0)
		var cycleCount int64
		if err := tx.Model(&model.ApprovedHardRequest{}).
			Where("nurse_id = ? AND date >= ? AND date < ?", req.NurseID, req.QuotaCycleStart, cycleEnd).
			Count(&cycleCount).Error; err != nil {
			return err
		}
		if cycleCount >= model.YearlyHardRequestQuota {
			return fmt.Errorf("%w（已用 %d/%d）", ErrYearlyQuotaExceeded, cycleCount, model.YearlyHardRequestQuota)
		}

		var dailyCount int64
		if err := tx.Model(&model.ApprovedHardRequest{}).
			Where("date = ?", req.Date).
			Count(&dailyCount).Error; err != nil {
			return err
		}
		if dailyCount >= model.MaxDailyHardRequests {
			return fmt.Errorf("%w（已用 %d/%d）", ErrDailyCapReached, dailyCount, model.MaxDailyHardRequests)
		}

		var dup int64
		if err := tx.Model(&model.ApprovedHardRequest{}).
			Where("nurse_id = ? AND date = ?", req.NurseID, req.Date).
			Count(&dup).Error; err != nil {
			return err
		}
		if dup > 0 {
			return ErrDuplicateHardRequest
		}

		return tx.Create(req).Error
	}, &sql.TxOptions{Isolation: sql.LevelSerializable})

	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) {
			switch pgErr.Code {
			case "40001": // serialization_failure
				return apperrors.ErrConcurrentConflict
			case "23505": // unique_violation（唯一索引兜底）
				return ErrDuplicateHardRequest
			}
		}
		return err
	}
	return nil
}

func (r *hardRequestRepo) Cancel(ctx context.Context, nurseID string, date time.Time) error {
	result := r.db.WithContext(ctx).
		Where("nurse_id = ? AND date = ?", nurseID, date).
		Delete(&model.ApprovedHardRequest{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *hardRequestRepo) ListByDateRange(ctx context.Context, start, end time.Time) ([]model.ApprovedHardRequest, error) {
	var requests []model.ApprovedHardRequest
	err := r.db.WithContext(ctx).
		Where("date >= ? AND date <= ?", start, end).
		Order("date ASC, approved_at ASC").
		Find(&requests).Error
	return requests, err
}

func (r *hardRequestRepo) ListByNurseCycle(ctx context.Context, nurseID string, cycleStart, cycleEnd time.Time) ([]model.ApprovedHardRequest, error) {
	var requests []model.ApprovedHardRequest
	err := r.db.WithContext(ctx).
		Where("nurse_id = ? AND date >= ? AND date < ?", nurseID, cycleStart, cycleEnd).
		Order("date ASC").
		Find(&requests).Error
	return requests, err
}

func (r *hardRequestRepo) CountInCycle(ctx context.Context, nurseID string, cycleStart, cycleEnd time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ApprovedHardRequest{}).
		Where("nurse_id = ? AND date >= ? AND date < ?", nurseID, cycleStart, cycleEnd).
		Count(&count).Error
	return count, err
}

func (r *hardRequestRepo) CountByDate(ctx context.Context, date time.Time) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.ApprovedHardRequest{}).
		Where("date = ?", date).
		Count(&count).Error
	return count, err
}

// DeleteByNurse 删除某护士的全部硬请求（删除护士档案时级联调用）
func (r *hardRequestRepo) DeleteByNurse(ctx context.Context, nurseID string) error {
	return r.db.WithContext(ctx).
		Where("nurse_id = ?", nurseID).
		Delete(&model.ApprovedHardRequest{}).Error
}
