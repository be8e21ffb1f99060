package controller

import (
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

// ProgressController 当前账号的票据进度
type ProgressController struct {
	ProgressService *service.ProgressService
}

func NewProgressController(progressService *service.ProgressService) *ProgressController {
	return &ProgressController{ProgressService: progressService}
}

// GetOverview godoc
// @Summary 进度总览
// @Description 全部记录、汇总、已完成票据和进行中的票据编号
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressOverview} "成功"
// @Router /progress [get]
func (c *ProgressController) GetOverview(ctx *gin.Context) {
	overview, err := c.ProgressService.Overview(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, overview)
}

// GetTicketProgress godoc
// @Summary 单个票据进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "票据编号"
// @Success 200 {object} util.Response{data=model.TicketProgress} "成功"
// @Failure 404 {object} util.Response "没有进度"
// @Router /progress/ticket/{id} [get]
func (c *ProgressController) GetTicketProgress(ctx *gin.Context) {
	ticket, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	record, err := c.ProgressService.GetTicket(ctx.Request.Context(), currentUserID(ctx), ticket)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// SaveTicketProgress godoc
// @Summary 保存票据进度
// @Description 整体替换该票据的记录，completed 为 true 时写入完成时间
// @Tags 进度
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "票据编号"
// @Param   body body service.ProgressInput true "进度"
// @Success 200 {object} util.Response{data=model.TicketProgress} "成功"
// @Failure 400 {object} util.Response "参数错误"
// @Router /progress/ticket/{id} [post]
func (c *ProgressController) SaveTicketProgress(ctx *gin.Context) {
	ticket, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req service.ProgressInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "invalid progress payload: "+err.Error())
		return
	}

	record, err := c.ProgressService.Save(ctx.Request.Context(), currentUserID(ctx), ticket, req)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, record)
}

// DeleteTicketProgress godoc
// @Summary 删除票据进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Param   id path int true "票据编号"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "没有进度"
// @Router /progress/ticket/{id} [delete]
func (c *ProgressController) DeleteTicketProgress(ctx *gin.Context) {
	ticket, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	if err := c.ProgressService.DeleteTicket(ctx.Request.Context(), currentUserID(ctx), ticket); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetCompleted godoc
// @Summary 已完成票据
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]service.CompletedTicket} "成功"
// @Router /progress/completed [get]
func (c *ProgressController) GetCompleted(ctx *gin.Context) {
	records, err := c.ProgressService.List(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.CompletedTickets(records))
}

// GetSummary godoc
// @Summary 进度汇总
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.ProgressSummary} "成功"
// @Router /progress/stats [get]
func (c *ProgressController) GetSummary(ctx *gin.Context) {
	records, err := c.ProgressService.List(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, service.Summarize(records))
}

// ClearProgress godoc
// @Summary 清空全部进度
// @Tags 进度
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=object} "成功"
// @Router /progress [delete]
func (c *ProgressController) ClearProgress(ctx *gin.Context) {
	deleted, err := c.ProgressService.ClearAll(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{"deleted": deleted})
}
