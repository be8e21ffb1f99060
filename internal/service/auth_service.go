package service

import (
	"context"
	"errors"
	"godrive_backend/internal/config"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
	"godrive_backend/pkg/logger"
	"godrive_backend/pkg/monitoring"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const minPasswordLength = 4

type AuthService struct {
	UserRepo     *repository.UserRepository
	ProgressRepo *repository.ProgressRepository
	StatsRepo    *repository.StatisticsRepository
	Cfg          *config.Config
}

func NewAuthService(userRepo *repository.UserRepository, progressRepo *repository.ProgressRepository, statsRepo *repository.StatisticsRepository, cfg *config.Config) *AuthService {
	return &AuthService{
		UserRepo:     userRepo,
		ProgressRepo: progressRepo,
		StatsRepo:    statsRepo,
		Cfg:          cfg,
	}
}

// NewAccount 创建账号所需的字段
type NewAccount struct {
	Username string
	Password string
	Name     string
	Email    string
	Role     model.UserRole
}

// LoginResult 登录成功后返回给客户端
type LoginResult struct {
	Token    string              `json:"token"`
	User     model.UserView      `json:"user"`
	Settings *model.UserSettings `json:"settings"`
}

// SettingsInput 部分更新，nil 字段保持不变
type SettingsInput struct {
	Language      *string `json:"language"`
	Notifications *bool   `json:"notifications"`
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// CreateAccount 校验并创建账号，用户名唯一
func (s *AuthService) CreateAccount(ctx context.Context, in NewAccount) (*model.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Name = strings.TrimSpace(in.Name)
	if in.Username == "" {
		return nil, util.NewValidationError("username is required")
	}
	if len(in.Password) < minPasswordLength {
		return nil, util.NewValidationError("password must be at least %d characters", minPasswordLength)
	}
	if in.Role == "" {
		in.Role = model.RoleUser
	}
	if !in.Role.Valid() {
		return nil, util.NewValidationError("unknown role %q", in.Role)
	}
	if in.Name == "" {
		in.Name = in.Username
	}

	hashed, err := hashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: in.Username,
		Password: hashed,
		Name:     in.Name,
		Email:    strings.TrimSpace(in.Email),
		Role:     in.Role,
	}
	if err := s.UserRepo.Create(ctx, user); err != nil {
		return nil, err
	}
	logger.Log.Info("Account created", zap.Uint("user_id", user.ID), zap.String("username", user.Username))
	return user, nil
}

// Register 自助注册，只能创建普通用户
func (s *AuthService) Register(ctx context.Context, in NewAccount) (*model.User, error) {
	if !s.Cfg.Auth.AllowSignup {
		return nil, util.ErrSignupDisabled
	}
	in.Role = model.RoleUser
	return s.CreateAccount(ctx, in)
}

// Authenticate never tells an unknown username apart from a wrong password.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*model.User, error) {
	user, err := s.UserRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if util.KindOf(err) == util.KindNotFound {
			return nil, util.ErrInvalidCredentials
		}
		return nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)); err != nil {
		return nil, util.ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, username, password string) (*LoginResult, error) {
	user, err := s.Authenticate(ctx, username, password)
	if err != nil {
		if errors.Is(err, util.ErrInvalidCredentials) {
			monitoring.LoginAttempts.WithLabelValues("failure").Inc()
		}
		return nil, err
	}

	token, err := util.GenerateJWT(user, s.Cfg.JWT.Secret, s.Cfg.JWT.ExpireTime)
	if err != nil {
		return nil, err
	}
	settings, err := s.Settings(ctx, user.ID)
	if err != nil {
		return nil, err
	}
	monitoring.LoginAttempts.WithLabelValues("success").Inc()
	return &LoginResult{
		Token:    token,
		User:     user.SafeView(),
		Settings: settings,
	}, nil
}

// ResolveToken 解析令牌并加载仍然存在的账号
func (s *AuthService) ResolveToken(ctx context.Context, token string) (*model.User, *util.Claims, error) {
	claims, err := util.ParseJWT(token, s.Cfg.JWT.Secret)
	if err != nil {
		return nil, nil, util.Wrap(util.ErrInvalidToken, err)
	}
	user, err := s.UserRepo.FindByID(ctx, claims.UserID)
	if err != nil {
		if util.KindOf(err) == util.KindNotFound {
			return nil, nil, util.ErrInvalidToken
		}
		return nil, nil, err
	}
	// 角色以数据库为准
	claims.Role = user.Role
	claims.Username = user.Username
	return user, claims, nil
}

func (s *AuthService) Profile(ctx context.Context, userID uint) (*model.User, error) {
	return s.UserRepo.FindByID(ctx, userID)
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID uint, name, email string) (*model.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, util.NewValidationError("name is required")
	}
	fields := map[string]interface{}{"name": name}
	if email = strings.TrimSpace(email); email != "" {
		fields["email"] = email
	}
	if err := s.UserRepo.UpdateFields(ctx, userID, fields); err != nil {
		return nil, err
	}
	return s.UserRepo.FindByID(ctx, userID)
}

func (s *AuthService) ChangePassword(ctx context.Context, userID uint, oldPassword, newPassword string) error {
	if len(newPassword) < minPasswordLength {
		return util.NewValidationError("password must be at least %d characters", minPasswordLength)
	}
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(oldPassword)); err != nil {
		return util.ErrWrongPassword
	}
	hashed, err := hashPassword(newPassword)
	if err != nil {
		return err
	}
	return s.UserRepo.UpdateFields(ctx, userID, map[string]interface{}{"password": hashed})
}

// Settings 读取设置，缺失时返回默认值
func (s *AuthService) Settings(ctx context.Context, userID uint) (*model.UserSettings, error) {
	settings, err := s.UserRepo.GetSettings(ctx, userID)
	if err != nil {
		if util.KindOf(err) == util.KindNotFound {
			return model.DefaultSettings(userID), nil
		}
		return nil, err
	}
	return settings, nil
}

func (s *AuthService) UpdateSettings(ctx context.Context, userID uint, in SettingsInput) (*model.UserSettings, error) {
	if in.Language != nil && !s.Cfg.Exam.SupportsLocale(*in.Language) {
		return nil, util.NewValidationError("unsupported language %q", *in.Language)
	}
	settings, err := s.Settings(ctx, userID)
	if err != nil {
		return nil, err
	}
	if in.Language != nil {
		settings.Language = *in.Language
	}
	if in.Notifications != nil {
		settings.Notifications = *in.Notifications
	}
	if err := s.UserRepo.SaveSettings(ctx, settings); err != nil {
		return nil, err
	}
	return settings, nil
}

// ClearData removes progress, statistics and favorites of the account.
func (s *AuthService) ClearData(ctx context.Context, userID uint) error {
	if _, err := s.ProgressRepo.DeleteAll(ctx, userID); err != nil {
		return err
	}
	if err := s.StatsRepo.Delete(ctx, userID); err != nil {
		return err
	}
	_, err := s.UserRepo.MutateFavorites(ctx, userID, func([]int) []int { return []int{} })
	return err
}
