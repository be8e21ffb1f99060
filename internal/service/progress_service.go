package service

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
	"godrive_backend/pkg/logger"
	"godrive_backend/pkg/monitoring"
	"sort"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
)

type ProgressService struct {
	ProgressRepo *repository.ProgressRepository
	UserRepo     *repository.UserRepository
	Tickets      *TicketService
	now          func() time.Time
}

func NewProgressService(progressRepo *repository.ProgressRepository, userRepo *repository.UserRepository, tickets *TicketService) *ProgressService {
	return &ProgressService{
		ProgressRepo: progressRepo,
		UserRepo:     userRepo,
		Tickets:      tickets,
		now:          time.Now,
	}
}

// ProgressInput 保存一张票的进度。Completed 为指针以区分缺失和 false
type ProgressInput struct {
	Completed      *bool           `json:"completed"`
	Score          int             `json:"score"`
	TotalQuestions int             `json:"totalQuestions"`
	Answers        model.AnswerMap `json:"answers"`
}

// ProgressSummary is derived from the stored records only.
type ProgressSummary struct {
	TicketsAttempted    int     `json:"ticketsAttempted"`
	TicketsCompleted    int     `json:"ticketsCompleted"`
	AveragePercentage   float64 `json:"averagePercentage"`
	TotalCorrectAnswers int     `json:"totalCorrectAnswers"`
}

// CompletedTicket 已完成票的摘要
type CompletedTicket struct {
	TicketNumber   int        `json:"ticketNumber"`
	Score          int        `json:"score"`
	TotalQuestions int        `json:"totalQuestions"`
	Percentage     int        `json:"percentage"`
	CompletedAt    *time.Time `json:"completedAt"`
}

// ProgressOverview GET /api/progress 的返回体
type ProgressOverview struct {
	Progress          []model.TicketProgress `json:"progress"`
	Stats             ProgressSummary        `json:"stats"`
	CompletedTickets  []CompletedTicket      `json:"completedTickets"`
	InProgressTickets []int                  `json:"inProgressTickets"`
}

func (s *ProgressService) validate(ticket int, in ProgressInput) ([]int, error) {
	ids, err := s.Tickets.QuestionIDs(ticket)
	if err != nil {
		return nil, err
	}
	if in.Completed == nil {
		return nil, util.NewValidationError("completed is required and must be a boolean")
	}
	if in.TotalQuestions <= 0 || in.TotalQuestions > len(ids) {
		return nil, util.NewValidationError("totalQuestions must be between 1 and %d", len(ids))
	}
	if in.Score < 0 || in.Score > in.TotalQuestions {
		return nil, util.NewValidationError("score must be between 0 and %d", in.TotalQuestions)
	}
	if in.Answers == nil {
		return nil, util.NewValidationError("answers must be an object")
	}

	members := make(map[int]struct{}, len(ids))
	for _, id := range ids {
		members[id] = struct{}{}
	}
	for qid, option := range in.Answers {
		if _, ok := members[qid]; !ok {
			return nil, util.NewValidationError("question %d does not belong to ticket %d", qid, ticket)
		}
		if option < 1 {
			return nil, util.NewValidationError("answer for question %d must be an option number >= 1", qid)
		}
	}
	return ids, nil
}

// Save replaces the account's record for ticket. Nothing is written when
// validation fails or the account does not exist.
func (s *ProgressService) Save(ctx context.Context, userID uint, ticket int, in ProgressInput) (*model.TicketProgress, error) {
	if in.TotalQuestions == 0 {
		in.TotalQuestions = s.Tickets.Exam.QuestionsPerTicket
	}
	if _, err := s.validate(ticket, in); err != nil {
		return nil, err
	}

	exists, err := s.UserRepo.Exists(ctx, userID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, util.ErrUserNotFound
	}

	now := s.now()
	record := &model.TicketProgress{
		UserID:         userID,
		TicketNumber:   ticket,
		Completed:      *in.Completed,
		Score:          in.Score,
		TotalQuestions: in.TotalQuestions,
		Answers:        datatypes.NewJSONType(in.Answers),
		StartedAt:      now,
	}
	if record.Completed {
		record.CompletedAt = &now
	}

	stored, err := s.ProgressRepo.Upsert(ctx, record)
	if err != nil {
		return nil, err
	}
	if stored.Completed {
		monitoring.TicketsCompleted.Inc()
	}
	logger.Log.Debug("Progress saved",
		zap.Uint("user_id", userID),
		zap.Int("ticket", ticket),
		zap.Bool("completed", stored.Completed),
	)
	return stored, nil
}

func (s *ProgressService) List(ctx context.Context, userID uint) ([]model.TicketProgress, error) {
	return s.ProgressRepo.ListByUser(ctx, userID)
}

func (s *ProgressService) GetTicket(ctx context.Context, userID uint, ticket int) (*model.TicketProgress, error) {
	if err := s.Tickets.ValidateNumber(ticket); err != nil {
		return nil, err
	}
	return s.ProgressRepo.FindTicket(ctx, userID, ticket)
}

// Overview 一次读取并计算所有派生数据
func (s *ProgressService) Overview(ctx context.Context, userID uint) (*ProgressOverview, error) {
	records, err := s.List(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &ProgressOverview{
		Progress:          records,
		Stats:             Summarize(records),
		CompletedTickets:  CompletedTickets(records),
		InProgressTickets: InProgressTickets(records),
	}, nil
}

func (s *ProgressService) DeleteTicket(ctx context.Context, userID uint, ticket int) error {
	if err := s.Tickets.ValidateNumber(ticket); err != nil {
		return err
	}
	deleted, err := s.ProgressRepo.DeleteTicket(ctx, userID, ticket)
	if err != nil {
		return err
	}
	if deleted == 0 {
		return util.ErrProgressNotFound
	}
	return nil
}

// ClearAll 删除账号全部进度，不可恢复
func (s *ProgressService) ClearAll(ctx context.Context, userID uint) (int64, error) {
	return s.ProgressRepo.DeleteAll(ctx, userID)
}

// CompletedTickets lists completed records, most recently completed first.
func CompletedTickets(records []model.TicketProgress) []CompletedTicket {
	result := []CompletedTicket{}
	for _, r := range records {
		if !r.Completed {
			continue
		}
		result = append(result, CompletedTicket{
			TicketNumber:   r.TicketNumber,
			Score:          r.Score,
			TotalQuestions: r.TotalQuestions,
			Percentage:     r.Percentage(),
			CompletedAt:    r.CompletedAt,
		})
	}
	sortCompleted(result)
	return result
}

// InProgressTickets 未完成但已有作答的票号
func InProgressTickets(records []model.TicketProgress) []int {
	result := []int{}
	for _, r := range records {
		if !r.Completed && len(r.Answers.Data()) > 0 {
			result = append(result, r.TicketNumber)
		}
	}
	return result
}

func Summarize(records []model.TicketProgress) ProgressSummary {
	var summary ProgressSummary
	var percentSum float64
	for _, r := range records {
		summary.TicketsAttempted++
		summary.TotalCorrectAnswers += r.Score
		if r.Completed && r.TotalQuestions > 0 {
			summary.TicketsCompleted++
			percentSum += float64(r.Score) / float64(r.TotalQuestions) * 100
		}
	}
	if summary.TicketsCompleted > 0 {
		summary.AveragePercentage = percentSum / float64(summary.TicketsCompleted)
	}
	return summary
}

func sortCompleted(tickets []CompletedTicket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		a, b := tickets[i].CompletedAt, tickets[j].CompletedAt
		if a == nil || b == nil {
			return b == nil && a != nil
		}
		return a.After(*b)
	})
}
