package repository

import (
	"context"
	"fmt"
	"godrive_backend/internal/model"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type StatisticsRepository struct {
	DB *gorm.DB
}

func NewStatisticsRepository(db *gorm.DB) *StatisticsRepository {
	return &StatisticsRepository{DB: db}
}

// StatsDelta 一次自增的增量
type StatsDelta struct {
	TimeSeconds    int64
	TotalAnswered  int64
	CorrectAnswers int64
}

func increment(table, column string, delta int64) clause.Expr {
	return gorm.Expr(fmt.Sprintf("%s.%s + ?", table, column), delta)
}

// Increment adds delta to the account's counters, creating the row on first use.
// The write is a single INSERT ... ON CONFLICT statement.
func (r *StatisticsRepository) Increment(ctx context.Context, userID uint, delta StatsDelta) (*model.UserStatistics, error) {
	table := model.UserStatistics{}.TableName()
	row := &model.UserStatistics{
		UserID:                 userID,
		TimeSpentSeconds:       delta.TimeSeconds,
		TotalQuestionsAnswered: delta.TotalAnswered,
		CorrectAnswers:         delta.CorrectAnswers,
	}

	var stored model.UserStatistics
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"time_spent_seconds":       increment(table, "time_spent_seconds", delta.TimeSeconds),
				"total_questions_answered": increment(table, "total_questions_answered", delta.TotalAnswered),
				"correct_answers":          increment(table, "correct_answers", delta.CorrectAnswers),
				"updated_at":               time.Now(),
			}),
		}).Create(row).Error
		if err != nil {
			return err
		}
		return tx.Where("user_id = ?", userID).First(&stored).Error
	})
	if err != nil {
		return nil, wrap(err, nil)
	}
	return &stored, nil
}

// Get 读取统计行，不存在时返回全零快照
func (r *StatisticsRepository) Get(ctx context.Context, userID uint) (*model.UserStatistics, error) {
	var stats []model.UserStatistics
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Limit(1).Find(&stats).Error
	if err != nil {
		return nil, wrap(err, nil)
	}
	if len(stats) == 0 {
		return &model.UserStatistics{UserID: userID}, nil
	}
	return &stats[0], nil
}

func (r *StatisticsRepository) Delete(ctx context.Context, userID uint) error {
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).Delete(&model.UserStatistics{}).Error
	return wrap(err, nil)
}
