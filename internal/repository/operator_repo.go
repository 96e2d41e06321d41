package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/internal/model"
)

// OperatorRepository 操作员数据访问接口
type OperatorRepository interface {
	Create(ctx context.Context, operator *model.Operator) error
	GetByID(ctx context.Context, operatorID string) (*model.Operator, error)
	GetByUsername(ctx context.Context, username string) (*model.Operator, error)
	UpdatePassword(ctx context.Context, operatorID, passwordHash string) error
	Count(ctx context.Context) (int64, error)
}

type operatorRepo struct {
	db *gorm.DB
}

// NewOperatorRepo 创建 OperatorRepository 实例
func NewOperatorRepo(db *gorm.DB) OperatorRepository {
	return &operatorRepo{db: db}
}

func (r *operatorRepo) Create(ctx context.Context, operator *model.Operator) error {
	return r.db.WithContext(ctx).Create(operator).Error
}

func (r *operatorRepo) GetByID(ctx context.Context, operatorID string) (*model.Operator, error) {
	var operator model.Operator
	err := r.db.WithContext(ctx).
		Where("operator_id = ?", operatorID).
		First(&operator).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) GetByUsername(ctx context.Context, username string) (*model.Operator, error) {
	var operator model.Operator
	err := r.db.WithContext(ctx).
		Where("username = ?", username).
		First(&operator).Error
	if err != nil {
		return nil, err
	}
	return &operator, nil
}

func (r *operatorRepo) UpdatePassword(ctx context.Context, operatorID, passwordHash string) error {
	return r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Where("operator_id = ?", operatorID).
		Update("password_hash", passwordHash).Error
}

func (r *operatorRepo) Count(ctx context.Context) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&model.Operator{}).
		Count(&count).Error
	return count, err
}
