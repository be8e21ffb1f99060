package model

import (
	"time"

	"gorm.io/datatypes"
)

// AnswerMap 题目 ID -> 所选选项（从 1 开始）
type AnswerMap map[int]int

// TicketProgress 一个账号在一张票上的最新状态，(user_id, ticket_number) 唯一
// swagger:model TicketProgress
type TicketProgress struct {
	ID             uint                          `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID         uint                          `gorm:"not null;uniqueIndex:idx_progress_user_ticket" json:"userId"`
	TicketNumber   int                           `gorm:"not null;uniqueIndex:idx_progress_user_ticket" json:"ticketNumber"`
	Completed      bool                          `gorm:"not null" json:"completed"`
	Score          int                           `gorm:"not null" json:"score"`
	TotalQuestions int                           `gorm:"not null" json:"totalQuestions"`
	Answers        datatypes.JSONType[AnswerMap] `json:"answers"`
	StartedAt      time.Time                     `gorm:"not null" json:"startedAt"`
	CompletedAt    *time.Time                    `json:"completedAt"`
	UpdatedAt      time.Time                     `json:"updatedAt"`
}

func (TicketProgress) TableName() string {
	return "user_progress"
}

// Percentage 本票得分百分比，取整
func (p *TicketProgress) Percentage() int {
	if p.TotalQuestions <= 0 {
		return 0
	}
	return p.Score * 100 / p.TotalQuestions
}
