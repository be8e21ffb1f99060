package controller

import (
	"godrive_backend/internal/middleware"
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type AuthController struct {
	AuthService *service.AuthService
}

func NewAuthController(authService *service.AuthService) *AuthController {
	return &AuthController{
		AuthService: authService,
	}
}

// LoginRequest defines model for login
// swagger:model LoginRequest
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// RegisterRequest defines model for registration
// swagger:model RegisterRequest
type RegisterRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
}

// UpdateProfileRequest swagger:model UpdateProfileRequest
type UpdateProfileRequest struct {
	Name  string `json:"name" binding:"required,max=100"`
	Email string `json:"email" binding:"omitempty,email"`
}

// SettingsRequest swagger:model SettingsRequest
type SettingsRequest struct {
	Language      *string `json:"language" binding:"omitempty,locale"`
	Notifications *bool   `json:"notifications"`
}

// ChangePasswordRequest swagger:model ChangePasswordRequest
type ChangePasswordRequest struct {
	OldPassword string `json:"oldPassword" binding:"required"`
	NewPassword string `json:"newPassword" binding:"required"`
}

// Login godoc
// @Summary 登录
// @Description 用户名密码登录，返回 JWT、账号信息和设置
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body LoginRequest true "登录信息"
// @Success 200 {object} util.Response{data=service.LoginResult} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 401 {object} util.Response "用户名或密码错误"
// @Router /auth/login [post]
func (c *AuthController) Login(ctx *gin.Context) {
	var req LoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Необходимо указать логин и пароль")
		return
	}

	result, err := c.AuthService.Login(ctx.Request.Context(), req.Username, req.Password)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, result)
}

// Register godoc
// @Summary 注册
// @Description 自助注册普通用户（auth.allow_signup 关闭时拒绝）
// @Tags 认证
// @Accept  json
// @Produce  json
// @Param   body body RegisterRequest true "注册信息"
// @Success 201 {object} util.Response{data=model.UserView} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 403 {object} util.Response "注册已关闭"
// @Failure 409 {object} util.Response "用户名已存在"
// @Router /auth/register [post]
func (c *AuthController) Register(ctx *gin.Context) {
	var req RegisterRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.Register(ctx.Request.Context(), service.NewAccount{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Created(ctx, user.SafeView())
}

// Profile godoc
// @Summary 当前账号信息
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Router /auth/profile [get]
func (c *AuthController) Profile(ctx *gin.Context) {
	userID := currentUserID(ctx)
	user, err := c.AuthService.Profile(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	settings, err := c.AuthService.Settings(ctx.Request.Context(), userID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"user":     user.SafeView(),
		"settings": settings,
	})
}

// UpdateProfile godoc
// @Summary 修改显示名称
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateProfileRequest true "资料"
// @Success 200 {object} util.Response{data=model.UserView} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /auth/profile [put]
func (c *AuthController) UpdateProfile(ctx *gin.Context) {
	var req UpdateProfileRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.AuthService.UpdateProfile(ctx.Request.Context(), currentUserID(ctx), req.Name, req.Email)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, user.SafeView())
}

// UpdateSettings godoc
// @Summary 修改设置
// @Description 语言（uz / ru / uzk）和通知开关，未提供的字段保持不变
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body SettingsRequest true "设置"
// @Success 200 {object} util.Response{data=model.UserSettings} "成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Router /auth/settings [put]
func (c *AuthController) UpdateSettings(ctx *gin.Context) {
	var req SettingsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "Неподдерживаемый язык")
		return
	}

	settings, err := c.AuthService.UpdateSettings(ctx.Request.Context(), currentUserID(ctx), service.SettingsInput{
		Language:      req.Language,
		Notifications: req.Notifications,
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, settings)
}

// ChangePassword godoc
// @Summary 修改密码
// @Tags 认证
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body ChangePasswordRequest true "旧密码和新密码"
// @Success 200 {object} util.Response "成功"
// @Failure 400 {object} util.Response "旧密码错误"
// @Router /auth/password [put]
func (c *AuthController) ChangePassword(ctx *gin.Context) {
	var req ChangePasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.AuthService.ChangePassword(ctx.Request.Context(), currentUserID(ctx), req.OldPassword, req.NewPassword); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// ClearData godoc
// @Summary 清除个人数据
// @Description 删除进度、统计和收藏
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /auth/clear-data [post]
func (c *AuthController) ClearData(ctx *gin.Context) {
	if err := c.AuthService.ClearData(ctx.Request.Context(), currentUserID(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}

	util.Success(ctx, nil)
}

// Verify godoc
// @Summary 校验令牌
// @Tags 认证
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "令牌有效"
// @Failure 401 {object} util.Response "令牌无效"
// @Router /auth/verify [get]
func (c *AuthController) Verify(ctx *gin.Context) {
	user := middleware.CurrentAccount(ctx)
	if user == nil {
		util.Unauthorized(ctx, "Unauthorized")
		return
	}

	util.Success(ctx, gin.H{"user": user.SafeView()})
}
