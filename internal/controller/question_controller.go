package controller

import (
	"godrive_backend/internal/config"
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuestionController struct {
	QuestionService *service.QuestionService
	Exam            config.ExamConfig
}

func NewQuestionController(questionService *service.QuestionService, exam config.ExamConfig) *QuestionController {
	return &QuestionController{
		QuestionService: questionService,
		Exam:            exam,
	}
}

// RecordAttemptRequest swagger:model RecordAttemptRequest
type RecordAttemptRequest struct {
	Correct     *bool   `json:"correct" binding:"required"`
	TimeSeconds float64 `json:"timeSeconds" binding:"gte=0"`
}

type langURI struct {
	Lang string `uri:"lang" binding:"required,locale"`
}

// GetQuestion godoc
// @Summary 获取题目
// @Description 返回题目及所有语言版本
// @Tags 题库
// @Produce  json
// @Param   id path int true "题目ID"
// @Success 200 {object} util.Response{data=model.Question} "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /questions/{id} [get]
func (c *QuestionController) GetQuestion(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}

	question, err := c.QuestionService.Get(ctx.Request.Context(), id)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, question)
}

// GetBatch godoc
// @Summary 批量获取题目
// @Tags 题库
// @Produce  json
// @Param   ids query string true "逗号分隔的题目ID"
// @Param   lang query string false "语言" Enums(uz, ru, uzk)
// @Success 200 {object} util.Response{data=[]model.LocalizedQuestion} "成功"
// @Failure 400 {object} util.Response "参数错误"
// @Router /questions/batch [get]
func (c *QuestionController) GetBatch(ctx *gin.Context) {
	lang, ok := resolveLang(ctx, c.Exam)
	if !ok {
		return
	}
	ids, err := util.ParseIDList(ctx.Query("ids"), "ids")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	if len(ids) == 0 {
		util.BadRequest(ctx, "ids is required")
		return
	}

	questions, err := c.QuestionService.Batch(ctx.Request.Context(), ids, lang)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// GetByLanguage godoc
// @Summary 按语言分页获取题目
// @Tags 题库
// @Produce  json
// @Param   lang path string true "语言" Enums(uz, ru, uzk)
// @Param   limit query int false "条数" default(50)
// @Param   offset query int false "偏移" default(0)
// @Success 200 {object} util.Response{data=util.PageResponse} "成功"
// @Router /questions/lang/{lang} [get]
func (c *QuestionController) GetByLanguage(ctx *gin.Context) {
	var uri langURI
	if err := ctx.ShouldBindUri(&uri); err != nil {
		util.BadRequest(ctx, "unsupported language")
		return
	}
	limit, ok := queryInt(ctx, "limit", 50)
	if !ok {
		return
	}
	offset, ok := queryInt(ctx, "offset", 0)
	if !ok {
		return
	}

	questions, total, err := c.QuestionService.ByLocale(ctx.Request.Context(), uri.Lang, limit, offset)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, util.PageResponse{
		List:   questions,
		Total:  total,
		Limit:  limit,
		Offset: offset,
	})
}

// GetRandom godoc
// @Summary 随机题目
// @Tags 题库
// @Produce  json
// @Param   count path int true "数量（1-100）"
// @Param   lang query string false "语言" Enums(uz, ru, uzk)
// @Param   exclude query string false "排除的题目ID，逗号分隔"
// @Success 200 {object} util.Response{data=[]model.LocalizedQuestion} "成功"
// @Router /questions/random/{count} [get]
func (c *QuestionController) GetRandom(ctx *gin.Context) {
	count, ok := paramID(ctx, "count")
	if !ok {
		return
	}
	lang, ok := resolveLang(ctx, c.Exam)
	if !ok {
		return
	}
	exclude, err := util.ParseIDList(ctx.Query("exclude"), "exclude")
	if err != nil {
		util.HandleError(ctx, err)
		return
	}

	questions, err := c.QuestionService.Random(ctx.Request.Context(), lang, count, exclude)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}

// RecordAttempt godoc
// @Summary 记录作答统计
// @Tags 题库
// @Accept  json
// @Produce  json
// @Param   id path int true "题目ID"
// @Param   body body RecordAttemptRequest true "作答结果"
// @Success 200 {object} util.Response "成功"
// @Failure 404 {object} util.Response "题目不存在"
// @Router /questions/stats/{id} [post]
func (c *QuestionController) RecordAttempt(ctx *gin.Context) {
	id, ok := paramID(ctx, "id")
	if !ok {
		return
	}
	var req RecordAttemptRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	if err := c.QuestionService.RecordAttempt(ctx.Request.Context(), id, *req.Correct, req.TimeSeconds); err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, nil)
}

// GetDifficult godoc
// @Summary 难题排行
// @Description 作答超过10次的题目按错误率排序
// @Tags 题库
// @Produce  json
// @Param   limit query int false "条数" default(20)
// @Param   lang query string false "语言" Enums(uz, ru, uzk)
// @Success 200 {object} util.Response{data=[]service.DifficultQuestion} "成功"
// @Router /questions/stats/difficult [get]
func (c *QuestionController) GetDifficult(ctx *gin.Context) {
	lang, ok := resolveLang(ctx, c.Exam)
	if !ok {
		return
	}
	limit, ok := queryInt(ctx, "limit", 20)
	if !ok {
		return
	}

	questions, err := c.QuestionService.Difficult(ctx.Request.Context(), lang, limit)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, questions)
}
