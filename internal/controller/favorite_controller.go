package controller

import (
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type FavoriteController struct {
	FavoriteService *service.FavoriteService
}

func NewFavoriteController(favoriteService *service.FavoriteService) *FavoriteController {
	return &FavoriteController{FavoriteService: favoriteService}
}

// FavoriteRequest swagger:model FavoriteRequest
type FavoriteRequest struct {
	QuestionID int `json:"questionId" binding:"required"`
}

// GetFavorites godoc
// @Summary 收藏列表
// @Tags 收藏
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]int} "成功"
// @Router /favorites [get]
func (c *FavoriteController) GetFavorites(ctx *gin.Context) {
	ids, err := c.FavoriteService.List(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorites": ids})
}

// AddFavorite godoc
// @Summary 添加收藏
// @Description 已收藏时不做修改
// @Tags 收藏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body FavoriteRequest true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /favorites [post]
func (c *FavoriteController) AddFavorite(ctx *gin.Context) {
	var req FavoriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "questionId is required")
		return
	}

	ids, err := c.FavoriteService.Add(ctx.Request.Context(), currentUserID(ctx), req.QuestionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorites": ids})
}

// RemoveFavorite godoc
// @Summary 取消收藏
// @Tags 收藏
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body FavoriteRequest true "题目ID"
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /favorites [delete]
func (c *FavoriteController) RemoveFavorite(ctx *gin.Context) {
	var req FavoriteRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "questionId is required")
		return
	}

	ids, err := c.FavoriteService.Remove(ctx.Request.Context(), currentUserID(ctx), req.QuestionID)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorites": ids})
}

// ClearFavorites godoc
// @Summary 清空收藏
// @Tags 收藏
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response "成功"
// @Router /favorites/clear [delete]
func (c *FavoriteController) ClearFavorites(ctx *gin.Context) {
	if err := c.FavoriteService.Clear(ctx.Request.Context(), currentUserID(ctx)); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"favorites": []int{}})
}
