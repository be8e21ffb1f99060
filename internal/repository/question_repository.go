package repository

import (
	"context"
	"godrive_backend/internal/model"
	"godrive_backend/internal/util"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type QuestionRepository struct {
	DB *gorm.DB
}

func NewQuestionRepository(db *gorm.DB) *QuestionRepository {
	return &QuestionRepository{DB: db}
}

// Save 导入时插入或覆盖题目及其全部翻译
func (r *QuestionRepository) Save(ctx context.Context, q *model.Question) error {
	translations := q.Translations
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns([]string{"correct_answer", "option_count", "image_url", "updated_at"}),
		}).Create(q).Error
		if err != nil {
			return err
		}
		for i := range translations {
			t := translations[i]
			t.ID = 0
			t.QuestionID = q.ID
			err := tx.Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "question_id"}, {Name: "locale"}},
				DoUpdates: clause.AssignmentColumns([]string{"text", "options", "explanation"}),
			}).Create(&t).Error
			if err != nil {
				return err
			}
		}
		// 统计行只在首次导入时创建
		return tx.Clauses(clause.OnConflict{DoNothing: true}).
			Create(&model.QuestionStatistic{QuestionID: q.ID}).Error
	})
	return wrap(err, nil)
}

func (r *QuestionRepository) FindByID(ctx context.Context, id int) (*model.Question, error) {
	var q model.Question
	err := r.DB.WithContext(ctx).
		Preload("Translations", func(db *gorm.DB) *gorm.DB {
			return db.Order("locale ASC")
		}).
		First(&q, id).Error
	if err != nil {
		return nil, wrap(err, util.ErrQuestionNotFound)
	}
	return &q, nil
}

// FindByIDs loads questions with only the translation for locale preloaded.
// Order of the result follows the database, callers reorder when needed.
func (r *QuestionRepository) FindByIDs(ctx context.Context, ids []int, locale string) ([]model.Question, error) {
	var questions []model.Question
	if len(ids) == 0 {
		return questions, nil
	}
	err := r.DB.WithContext(ctx).
		Preload("Translations", "locale = ?", locale).
		Where("id IN ?", ids).
		Find(&questions).Error
	return questions, wrap(err, nil)
}

// ListByLocale 分页读取某语言下的题目
func (r *QuestionRepository) ListByLocale(ctx context.Context, locale string, limit, offset int) ([]model.Question, int64, error) {
	var total int64
	base := r.DB.WithContext(ctx).Model(&model.QuestionTranslation{}).Where("locale = ?", locale)
	if err := base.Count(&total).Error; err != nil {
		return nil, 0, wrap(err, nil)
	}

	var ids []int
	err := r.DB.WithContext(ctx).Model(&model.QuestionTranslation{}).
		Where("locale = ?", locale).
		Order("question_id ASC").
		Limit(limit).Offset(offset).
		Pluck("question_id", &ids).Error
	if err != nil {
		return nil, 0, wrap(err, nil)
	}

	var questions []model.Question
	if len(ids) > 0 {
		err = r.DB.WithContext(ctx).
			Preload("Translations", "locale = ?", locale).
			Where("id IN ?", ids).
			Order("id ASC").
			Find(&questions).Error
		if err != nil {
			return nil, 0, wrap(err, nil)
		}
	}
	return questions, total, nil
}

// IDsByLocale returns every question id that has a translation in locale.
func (r *QuestionRepository) IDsByLocale(ctx context.Context, locale string, exclude []int) ([]int, error) {
	var ids []int
	query := r.DB.WithContext(ctx).Model(&model.QuestionTranslation{}).Where("locale = ?", locale)
	if len(exclude) > 0 {
		query = query.Where("question_id NOT IN ?", exclude)
	}
	err := query.Order("question_id ASC").Pluck("question_id", &ids).Error
	return ids, wrap(err, nil)
}

func (r *QuestionRepository) Count(ctx context.Context) (int64, error) {
	var total int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Count(&total).Error
	return total, wrap(err, nil)
}

func (r *QuestionRepository) Exists(ctx context.Context, id int) (bool, error) {
	var count int64
	err := r.DB.WithContext(ctx).Model(&model.Question{}).Where("id = ?", id).Count(&count).Error
	if err != nil {
		return false, wrap(err, nil)
	}
	return count > 0, nil
}

// RecordAttempt 原子更新单题统计。平均耗时必须在次数自增之前计算，
// MySQL 按顺序求值 SET 子句
func (r *QuestionRepository) RecordAttempt(ctx context.Context, questionID int, correct bool, timeSeconds float64) error {
	table := model.QuestionStatistic{}.TableName()
	var correctDelta int64
	if correct {
		correctDelta = 1
	}
	row := &model.QuestionStatistic{
		QuestionID:         questionID,
		TotalAttempts:      1,
		CorrectAttempts:    correctDelta,
		AverageTimeSeconds: timeSeconds,
	}
	err := r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "question_id"}},
		DoUpdates: clause.Set{
			{
				Column: clause.Column{Name: "average_time_seconds"},
				Value: gorm.Expr("("+table+".average_time_seconds * "+table+".total_attempts + ?) / ("+table+".total_attempts + 1)",
					timeSeconds),
			},
			{Column: clause.Column{Name: "total_attempts"}, Value: increment(table, "total_attempts", 1)},
			{Column: clause.Column{Name: "correct_attempts"}, Value: increment(table, "correct_attempts", correctDelta)},
			{Column: clause.Column{Name: "updated_at"}, Value: time.Now()},
		},
	}).Create(row).Error
	return wrap(err, nil)
}

// Difficult 按错误率降序返回作答次数超过 minAttempts 的题目统计
func (r *QuestionRepository) Difficult(ctx context.Context, minAttempts int64, limit int) ([]model.QuestionStatistic, error) {
	var stats []model.QuestionStatistic
	err := r.DB.WithContext(ctx).
		Where("total_attempts > ?", minAttempts).
		Order("(total_attempts - correct_attempts) * 1.0 / total_attempts DESC").
		Order("question_id ASC").
		Limit(limit).
		Find(&stats).Error
	return stats, wrap(err, nil)
}

func (r *QuestionRepository) GetStatistic(ctx context.Context, questionID int) (*model.QuestionStatistic, error) {
	var stat model.QuestionStatistic
	err := r.DB.WithContext(ctx).Where("question_id = ?", questionID).First(&stat).Error
	if err != nil {
		return nil, wrap(err, util.ErrQuestionNotFound)
	}
	return &stat, nil
}
