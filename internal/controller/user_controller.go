package controller

import (
	"godrive_backend/internal/model"
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// UserController 管理员账号管理
type UserController struct {
	UserService *service.UserService
}

// NewUserController 创建一个新的用户控制器实例
func NewUserController(userService *service.UserService) *UserController {
	return &UserController{
		UserService: userService,
	}
}

// CreateUserRequest swagger:model CreateUserRequest
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,max=50"`
	Password string `json:"password" binding:"required"`
	Name     string `json:"name" binding:"max=100"`
	Email    string `json:"email" binding:"omitempty,email"`
	Role     string `json:"role" binding:"omitempty,oneof=user admin"`
}

// UpdateUserRequest 定义用户更新请求结构
// swagger:model UpdateUserRequest
type UpdateUserRequest struct {
	Name string `json:"name" binding:"required,max=100"`
}

func paramUserID(ctx *gin.Context) (uint, bool) {
	id, ok := paramID(ctx, "id")
	return uint(id), ok
}

// GetUsers godoc
// @Summary 获取用户列表
// @Tags 用户管理
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.UserView} "成功"
// @Failure 401 {object} util.Response "未授权"
// @Failure 403 {object} util.Response "权限不足"
// @Router /users [get]
func (c *UserController) GetUsers(ctx *gin.Context) {
	users, err := c.UserService.List(ctx.Request.Context())
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, users)
}

// GetUser godoc
// @Summary 获取用户详情
// @Description 账号信息加进度汇总
// @Tags 用户管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=service.UserDetail} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, ok := paramUserID(ctx)
	if !ok {
		return
	}

	detail, err := c.UserService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// CreateUser godoc
// @Summary 创建用户
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body CreateUserRequest true "用户信息"
// @Success 201 {object} util.Response{data=model.UserView} "创建成功"
// @Failure 400 {object} util.Response "请求参数错误"
// @Failure 409 {object} util.Response "用户名已存在"
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.Create(ctx.Request.Context(), service.NewAccount{
		Username: req.Username,
		Password: req.Password,
		Name:     req.Name,
		Email:    req.Email,
		Role:     model.UserRole(req.Role),
	})
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Created(ctx, user.SafeView())
}

// UpdateUser godoc
// @Summary 修改用户名称
// @Tags 用户管理
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Param   body body UpdateUserRequest true "用户信息"
// @Success 200 {object} util.Response{data=model.UserView} "成功"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, ok := paramUserID(ctx)
	if !ok {
		return
	}

	var req UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	user, err := c.UserService.UpdateName(ctx.Request.Context(), id, req.Name)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, user.SafeView())
}

// DeleteUser godoc
// @Summary 删除用户
// @Description 同时删除进度、统计和设置；初始管理员不可删除
// @Tags 用户管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response "成功"
// @Failure 403 {object} util.Response "受保护账号"
// @Failure 404 {object} util.Response "用户不存在"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := paramUserID(ctx)
	if !ok {
		return
	}

	if err := c.UserService.Delete(ctx.Request.Context(), id); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetUserProgress godoc
// @Summary 查看用户进度
// @Tags 用户管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=[]model.TicketProgress} "成功"
// @Router /users/{id}/progress [get]
func (c *UserController) GetUserProgress(ctx *gin.Context) {
	id, ok := paramUserID(ctx)
	if !ok {
		return
	}

	records, err := c.UserService.Progress(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, records)
}

// ClearUserProgress godoc
// @Summary 清空用户进度
// @Tags 用户管理
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "用户ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /users/{id}/progress [delete]
func (c *UserController) ClearUserProgress(ctx *gin.Context) {
	id, ok := paramUserID(ctx)
	if !ok {
		return
	}

	deleted, err := c.UserService.ClearProgress(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}
