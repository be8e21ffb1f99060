package service

import (
	"context"
	"godrive_backend/internal/config"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
	"godrive_backend/pkg/logger"
	"strings"

	"go.uber.org/zap"
)

// UserService 管理员对账号的管理操作
type UserService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	Auth         *AuthService
	AuthCfg      config.AuthConfig
}

func NewUserService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, auth *AuthService, cfg *config.Config) *UserService {
	return &UserService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		Auth:         auth,
		AuthCfg:      cfg.Auth,
	}
}

// UserDetail 单个账号及其进度摘要
type UserDetail struct {
	User     model.UserView  `json:"user"`
	Progress ProgressSummary `json:"progress"`
}

func (s *UserService) List(ctx context.Context) ([]model.UserView, error) {
	users, err := s.UserRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	views := make([]model.UserView, len(users))
	for i := range users {
		views[i] = users[i].SafeView()
	}
	return views, nil
}

func (s *UserService) Get(ctx context.Context, id uint) (*UserDetail, error) {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	records, err := s.ProgressRepo.ListByUser(ctx, id)
	if err != nil {
		return nil, err
	}
	return &UserDetail{User: user.SafeView(), Progress: Summarize(records)}, nil
}

func (s *UserService) Create(ctx context.Context, in NewAccount) (*model.User, error) {
	return s.Auth.CreateAccount(ctx, in)
}

func (s *UserService) UpdateName(ctx context.Context, id uint, name string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name is required")
	}
	if err := s.UserRepo.UpdateFields(ctx, id, map[string]interface{}{"name": name}); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(ctx, id)
}

// IsProtected reports whether user is the bootstrap administrator.
func (s *UserService) IsProtected(user *model.User) bool {
	return user.Username == s.AuthCfg.AdminUsername
}

// Delete 删除账号，引导管理员无论调用者是谁都不可删除
func (s *UserService) Delete(ctx context.Context, id uint) error {
	user, err := s.UserRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if s.IsProtected(user) {
		return util.ErrProtectedAccount
	}
	if err := s.UserRepo.Delete(ctx, id); err != nil {
		return err
	}
	logger.Log.Info("Account deleted", zap.Uint("user_id", id), zap.String("username", user.Username))
	return nil
}

func (s *UserService) Progress(ctx context.Context, id uint) ([]model.TicketProgress, error) {
	if _, err := s.UserRepo.FindByID(ctx, id); err != nil {
		return nil, err
	}
	return s.ProgressRepo.ListByUser(ctx, id)
}

func (s *UserService) ClearProgress(ctx context.Context, id uint) (int64, error) {
	if _, err := s.UserRepo.FindByID(ctx, id); err != nil {
		return 0, err
	}
	return s.ProgressRepo.DeleteAll(ctx, id)
}

// EnsureBootstrapAdmin creates the configured administrator when it is
// missing. Running it again is a no-op.
func (s *UserService) EnsureBootstrapAdmin(ctx context.Context) error {
	_, err := s.UserRepo.FindByUsername(ctx, s.AuthCfg.AdminUsername)
	if err == nil {
		return nil
	}
	if util.KindOf(err) != util.KindNotFound {
		return err
	}
	if s.AuthCfg.AdminPassword == "" {
		logger.Log.Warn("Bootstrap admin missing and auth.admin_password is empty, skipping",
			zap.String("username", s.AuthCfg.AdminUsername))
		return nil
	}
	_, err = s.Auth.CreateAccount(ctx, NewAccount{
		Username: s.AuthCfg.AdminUsername,
		Password: s.AuthCfg.AdminPassword,
		Name:     s.AuthCfg.AdminName,
		Role:     model.Admin,
	})
	if util.KindOf(err) == util.KindConflict {
		// 并发启动时另一个实例已经创建
		return nil
	}
	return err
}
