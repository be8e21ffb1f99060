package controller

import (
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type StatsController struct {
	StatsService *service.StatisticsService
}

func NewStatsController(statsService *service.StatisticsService) *StatsController {
	return &StatsController{StatsService: statsService}
}

// AddTimeRequest swagger:model AddTimeRequest
type AddTimeRequest struct {
	Seconds int64 `json:"seconds" binding:"required"`
}

// AddAnswersRequest swagger:model AddAnswersRequest
type AddAnswersRequest struct {
	Total   *int64 `json:"total" binding:"required"`
	Correct *int64 `json:"correct" binding:"required"`
}

// UpdateStatsRequest swagger:model UpdateStatsRequest
type UpdateStatsRequest struct {
	TimeSeconds    int64 `json:"timeSeconds"`
	TotalAnswered  int64 `json:"totalAnswered"`
	CorrectAnswers int64 `json:"correctAnswers"`
}

// GetStats godoc
// @Summary 学习统计
// @Tags 统计
// @Produce  json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=service.StatsSnapshot} "成功"
// @Router /stats [get]
func (c *StatsController) GetStats(ctx *gin.Context) {
	snapshot, err := c.StatsService.Get(ctx.Request.Context(), currentUserID(ctx))
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// AddTime godoc
// @Summary 累加学习时长
// @Tags 统计
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddTimeRequest true "秒数"
// @Success 200 {object} util.Response{data=service.StatsSnapshot} "成功"
// @Router /stats/time [post]
func (c *StatsController) AddTime(ctx *gin.Context) {
	var req AddTimeRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "seconds must be a positive integer")
		return
	}

	snapshot, err := c.StatsService.AddTime(ctx.Request.Context(), currentUserID(ctx), req.Seconds)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// AddAnswers godoc
// @Summary 累加答题数
// @Tags 统计
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body AddAnswersRequest true "答题数与正确数"
// @Success 200 {object} util.Response{data=service.StatsSnapshot} "成功"
// @Router /stats/answers [post]
func (c *StatsController) AddAnswers(ctx *gin.Context) {
	var req AddAnswersRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, "total and correct are required")
		return
	}

	snapshot, err := c.StatsService.AddAnswers(ctx.Request.Context(), currentUserID(ctx), *req.Total, *req.Correct)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}

// UpdateStats godoc
// @Summary 一次性累加全部统计
// @Tags 统计
// @Accept  json
// @Produce  json
// @Security ApiKeyAuth
// @Param   body body UpdateStatsRequest true "增量"
// @Success 200 {object} util.Response{data=service.StatsSnapshot} "成功"
// @Router /stats/update [post]
func (c *StatsController) UpdateStats(ctx *gin.Context) {
	var req UpdateStatsRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	snapshot, err := c.StatsService.UpdateAll(ctx.Request.Context(), currentUserID(ctx), req.TimeSeconds, req.TotalAnswered, req.CorrectAnswers)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, snapshot)
}
