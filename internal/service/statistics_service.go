package service

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
	"time"
)

type StatisticsService struct {
	StatsRepo *repository.StatisticsRepository
	UserRepo  *repository.UserRepository
	now       func() time.Time
}

func NewStatisticsService(statsRepo *repository.StatisticsRepository, userRepo *repository.UserRepository) *StatisticsService {
	return &StatisticsService{
		StatsRepo: statsRepo,
		UserRepo:  userRepo,
		now:       time.Now,
	}
}

// StatsSnapshot 统计快照，正确率和时长格式在读取时计算
type StatsSnapshot struct {
	TimeSpent              int64   `json:"timeSpent"`
	TimeSpentFormatted     string  `json:"timeSpentFormatted"`
	TotalQuestionsAnswered int64   `json:"totalQuestionsAnswered"`
	CorrectAnswers         int64   `json:"correctAnswers"`
	Accuracy               float64 `json:"accuracy"`
	DaysSinceJoin          int     `json:"daysSinceJoin,omitempty"`
	JoinDate               string  `json:"joinDate,omitempty"`
}

func Snapshot(stats *model.UserStatistics) StatsSnapshot {
	return StatsSnapshot{
		TimeSpent:              stats.TimeSpentSeconds,
		TimeSpentFormatted:     util.FormatDuration(stats.TimeSpentSeconds),
		TotalQuestionsAnswered: stats.TotalQuestionsAnswered,
		CorrectAnswers:         stats.CorrectAnswers,
		Accuracy:               util.Accuracy(stats.CorrectAnswers, stats.TotalQuestionsAnswered),
	}
}

func validateAnswers(total, correct int64) error {
	if total < 0 || correct < 0 {
		return util.NewValidationError("answer counters must not be negative")
	}
	if correct > total {
		return util.NewValidationError("correctAnswers cannot exceed totalAnswered")
	}
	return nil
}

// increment 账号不存在时不写入任何行
func (s *StatisticsService) increment(ctx context.Context, userID uint, delta repository.StatsDelta) (StatsSnapshot, error) {
	exists, err := s.UserRepo.Exists(ctx, userID)
	if err != nil {
		return StatsSnapshot{}, err
	}
	if !exists {
		return StatsSnapshot{}, util.ErrUserNotFound
	}

	stats, err := s.StatsRepo.Increment(ctx, userID, delta)
	if err != nil {
		return StatsSnapshot{}, err
	}
	return Snapshot(stats), nil
}

// AddTime adds seconds of practice time.
func (s *StatisticsService) AddTime(ctx context.Context, userID uint, seconds int64) (StatsSnapshot, error) {
	if seconds <= 0 {
		return StatsSnapshot{}, util.NewValidationError("seconds must be positive")
	}
	return s.increment(ctx, userID, repository.StatsDelta{TimeSeconds: seconds})
}

func (s *StatisticsService) AddAnswers(ctx context.Context, userID uint, total, correct int64) (StatsSnapshot, error) {
	if err := validateAnswers(total, correct); err != nil {
		return StatsSnapshot{}, err
	}
	return s.increment(ctx, userID, repository.StatsDelta{TotalAnswered: total, CorrectAnswers: correct})
}

// UpdateAll 一条语句同时累加时间和答题数
func (s *StatisticsService) UpdateAll(ctx context.Context, userID uint, seconds, total, correct int64) (StatsSnapshot, error) {
	if seconds < 0 {
		return StatsSnapshot{}, util.NewValidationError("timeSeconds must not be negative")
	}
	if err := validateAnswers(total, correct); err != nil {
		return StatsSnapshot{}, err
	}
	return s.increment(ctx, userID, repository.StatsDelta{
		TimeSeconds:    seconds,
		TotalAnswered:  total,
		CorrectAnswers: correct,
	})
}

// Get returns the snapshot together with account age.
func (s *StatisticsService) Get(ctx context.Context, userID uint) (StatsSnapshot, error) {
	user, err := s.UserRepo.FindByID(ctx, userID)
	if err != nil {
		return StatsSnapshot{}, err
	}
	stats, err := s.StatsRepo.Get(ctx, userID)
	if err != nil {
		return StatsSnapshot{}, err
	}
	snap := Snapshot(stats)
	snap.DaysSinceJoin = util.DaysSinceJoin(user.CreatedAt, s.now())
	snap.JoinDate = user.CreatedAt.Format(util.DateFormat)
	return snap, nil
}
