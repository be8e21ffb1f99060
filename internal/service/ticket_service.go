package service

import (
	"context"
	"godrive_backend/internal/config"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
)

type TicketService struct {
	Exam      config.ExamConfig
	Questions *QuestionService
}

func NewTicketService(exam config.ExamConfig, questions *QuestionService) *TicketService {
	return &TicketService{Exam: exam, Questions: questions}
}

// TicketOverview 票的划分信息
type TicketOverview struct {
	TicketCount        int `json:"ticketCount"`
	QuestionsPerTicket int `json:"questionsPerTicket"`
	TotalQuestions     int `json:"totalQuestions"`
}

// Ticket 一张票及其本地化题目
type Ticket struct {
	Number      int                       `json:"number"`
	Locale      string                    `json:"locale"`
	QuestionIDs []int                     `json:"questionIds"`
	Questions   []model.LocalizedQuestion `json:"questions"`
}

func (s *TicketService) Overview() TicketOverview {
	return TicketOverview{
		TicketCount:        s.Exam.TicketCount(),
		QuestionsPerTicket: s.Exam.QuestionsPerTicket,
		TotalQuestions:     s.Exam.TotalQuestions,
	}
}

// ValidateNumber 检查票号是否在 1..TicketCount 之间
func (s *TicketService) ValidateNumber(n int) error {
	if n < 1 || n > s.Exam.TicketCount() {
		return util.NewValidationError("ticket number must be between 1 and %d", s.Exam.TicketCount())
	}
	return nil
}

// QuestionIDs resolves a ticket number that is already range-checked.
func (s *TicketService) QuestionIDs(n int) ([]int, error) {
	if err := s.ValidateNumber(n); err != nil {
		return nil, err
	}
	return TicketQuestionIDs(n, s.Exam.QuestionsPerTicket, s.Exam.TotalQuestions)
}

func (s *TicketService) Get(ctx context.Context, n int, locale string) (*Ticket, error) {
	ids, err := s.QuestionIDs(n)
	if err != nil {
		return nil, err
	}
	questions, err := s.Questions.Batch(ctx, ids, locale)
	if err != nil {
		return nil, err
	}
	if len(questions) == 0 {
		return nil, util.ErrQuestionNotFound
	}
	return &Ticket{
		Number:      n,
		Locale:      locale,
		QuestionIDs: ids,
		Questions:   questions,
	}, nil
}
