package controller

import (
	"godrive_backend/internal/config"
	"godrive_backend/internal/service"
	"godrive_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type TicketController struct {
	TicketService *service.TicketService
	Exam          config.ExamConfig
}

func NewTicketController(ticketService *service.TicketService, exam config.ExamConfig) *TicketController {
	return &TicketController{TicketService: ticketService, Exam: exam}
}

// GetTickets godoc
// @Summary 票据概览
// @Tags 票据
// @Produce  json
// @Success 200 {object} util.Response{data=service.TicketOverview} "成功"
// @Router /tickets [get]
func (c *TicketController) GetTickets(ctx *gin.Context) {
	util.Success(ctx, c.TicketService.Overview())
}

// GetTicket godoc
// @Summary 获取票据题目
// @Tags 票据
// @Produce  json
// @Param   number path int true "票据编号"
// @Param   lang query string false "语言" Enums(uz, ru, uzk)
// @Success 200 {object} util.Response{data=service.Ticket} "成功"
// @Failure 400 {object} util.Response "票据编号超出范围"
// @Router /tickets/{number} [get]
func (c *TicketController) GetTicket(ctx *gin.Context) {
	number, ok := paramID(ctx, "number")
	if !ok {
		return
	}
	lang, ok := resolveLang(ctx, c.Exam)
	if !ok {
		return
	}

	ticket, err := c.TicketService.Get(ctx.Request.Context(), number, lang)
	if err != nil {
		util.HandleError(ctx, err)
		return
	}
	util.Success(ctx, ticket)
}
