package service

import (
	"context"
	"encoding/json"
	"fmt"
	"godrive_backend/internal/config"
	"godrive_backend/internal/model"
	"godrive_backend/internal/repository"
	"godrive_backend/internal/util"
	"godrive_backend/pkg/logger"
	"godrive_backend/pkg/monitoring"
	"math/rand/v2"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
)

const (
	difficultMinAttempts = 10
	maxRandomQuestions   = 100
	maxPageSize          = 200
)

// QuestionService 题库只读查询。题目导入后不可变，因此可以缓存到 Redis
type QuestionService struct {
	QuestionRepo *repository.QuestionRepository
	Exam         config.ExamConfig
	Redis        *redis.Client
	CacheTTL     time.Duration
}

func NewQuestionService(questionRepo *repository.QuestionRepository, cfg *config.Config, rdb *redis.Client) *QuestionService {
	return &QuestionService{
		QuestionRepo: questionRepo,
		Exam:         cfg.Exam,
		Redis:        rdb,
		CacheTTL:     time.Duration(cfg.Redis.CacheTTLMinutes) * time.Minute,
	}
}

// DifficultQuestion 难题排行项
type DifficultQuestion struct {
	model.LocalizedQuestion
	TotalAttempts   int64   `json:"totalAttempts"`
	CorrectAttempts int64   `json:"correctAttempts"`
	ErrorRate       float64 `json:"errorRate"`
}

func (s *QuestionService) checkLocale(locale string) error {
	if !s.Exam.SupportsLocale(locale) {
		return util.NewValidationError("unsupported language %q", locale)
	}
	return nil
}

func cacheKey(locale string, id int) string {
	return fmt.Sprintf("question:%s:%d", locale, id)
}

// Get 返回题目及全部语言版本
func (s *QuestionService) Get(ctx context.Context, id int) (*model.Question, error) {
	return s.QuestionRepo.FindByID(ctx, id)
}

// Batch returns the localized questions for ids in the requested order.
// Ids without a translation in locale are skipped.
func (s *QuestionService) Batch(ctx context.Context, ids []int, locale string) ([]model.LocalizedQuestion, error) {
	if err := s.checkLocale(locale); err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []model.LocalizedQuestion{}, nil
	}

	found := s.fromCache(ctx, ids, locale)

	var missing []int
	for _, id := range ids {
		if _, ok := found[id]; !ok {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		questions, err := s.QuestionRepo.FindByIDs(ctx, missing, locale)
		if err != nil {
			return nil, err
		}
		loaded := make([]model.LocalizedQuestion, 0, len(questions))
		for i := range questions {
			if lq, ok := questions[i].Localize(locale); ok {
				found[lq.ID] = lq
				loaded = append(loaded, lq)
			}
		}
		s.toCache(ctx, loaded)
	}

	result := make([]model.LocalizedQuestion, 0, len(ids))
	for _, id := range ids {
		if lq, ok := found[id]; ok {
			result = append(result, lq)
		}
	}
	return result, nil
}

func (s *QuestionService) fromCache(ctx context.Context, ids []int, locale string) map[int]model.LocalizedQuestion {
	found := make(map[int]model.LocalizedQuestion, len(ids))
	if s.Redis == nil {
		return found
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = cacheKey(locale, id)
	}
	vals, err := s.Redis.MGet(ctx, keys...).Result()
	if err != nil {
		logger.Log.Warn("Question cache read failed", zap.Error(err))
		return found
	}
	for _, v := range vals {
		str, ok := v.(string)
		if !ok {
			continue
		}
		var lq model.LocalizedQuestion
		if err := json.Unmarshal([]byte(str), &lq); err == nil {
			found[lq.ID] = lq
		}
	}
	return found
}

func (s *QuestionService) toCache(ctx context.Context, questions []model.LocalizedQuestion) {
	if s.Redis == nil || len(questions) == 0 {
		return
	}
	pipe := s.Redis.Pipeline()
	for _, lq := range questions {
		data, err := json.Marshal(lq)
		if err != nil {
			continue
		}
		pipe.Set(ctx, cacheKey(lq.Locale, lq.ID), data, s.CacheTTL)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		logger.Log.Warn("Question cache write failed", zap.Error(err))
	}
}

// InvalidateCache 导入后清除缓存
func (s *QuestionService) InvalidateCache(ctx context.Context, ids []int) {
	if s.Redis == nil || len(ids) == 0 {
		return
	}
	var keys []string
	for _, locale := range s.Exam.Locales {
		for _, id := range ids {
			keys = append(keys, cacheKey(locale, id))
		}
	}
	if err := s.Redis.Del(ctx, keys...).Err(); err != nil {
		logger.Log.Warn("Question cache invalidation failed", zap.Error(err))
	}
}

func (s *QuestionService) ByLocale(ctx context.Context, locale string, limit, offset int) ([]model.LocalizedQuestion, int64, error) {
	if err := s.checkLocale(locale); err != nil {
		return nil, 0, err
	}
	if limit <= 0 || limit > maxPageSize {
		return nil, 0, util.NewValidationError("limit must be between 1 and %d", maxPageSize)
	}
	if offset < 0 {
		return nil, 0, util.NewValidationError("offset must not be negative")
	}
	questions, total, err := s.QuestionRepo.ListByLocale(ctx, locale, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	result := make([]model.LocalizedQuestion, 0, len(questions))
	for i := range questions {
		if lq, ok := questions[i].Localize(locale); ok {
			result = append(result, lq)
		}
	}
	return result, total, nil
}

// Random picks count distinct questions in locale, skipping the excluded ids.
func (s *QuestionService) Random(ctx context.Context, locale string, count int, exclude []int) ([]model.LocalizedQuestion, error) {
	if err := s.checkLocale(locale); err != nil {
		return nil, err
	}
	if count < 1 || count > maxRandomQuestions {
		return nil, util.NewValidationError("count must be between 1 and %d", maxRandomQuestions)
	}
	ids, err := s.QuestionRepo.IDsByLocale(ctx, locale, exclude)
	if err != nil {
		return nil, err
	}
	rand.Shuffle(len(ids), func(i, j int) { ids[i], ids[j] = ids[j], ids[i] })
	if len(ids) > count {
		ids = ids[:count]
	}
	return s.Batch(ctx, ids, locale)
}

// RecordAttempt 记录一次作答，用于难题统计
func (s *QuestionService) RecordAttempt(ctx context.Context, id int, correct bool, timeSeconds float64) error {
	if id < 1 || id > s.Exam.TotalQuestions {
		return util.NewValidationError("question id must be between 1 and %d", s.Exam.TotalQuestions)
	}
	if timeSeconds < 0 {
		return util.NewValidationError("timeSeconds must not be negative")
	}
	exists, err := s.QuestionRepo.Exists(ctx, id)
	if err != nil {
		return err
	}
	if !exists {
		return util.ErrQuestionNotFound
	}
	if err := s.QuestionRepo.RecordAttempt(ctx, id, correct, timeSeconds); err != nil {
		return err
	}
	outcome := "wrong"
	if correct {
		outcome = "correct"
	}
	monitoring.QuestionAttempts.WithLabelValues(outcome).Inc()
	return nil
}

func (s *QuestionService) Difficult(ctx context.Context, locale string, limit int) ([]DifficultQuestion, error) {
	if err := s.checkLocale(locale); err != nil {
		return nil, err
	}
	if limit <= 0 || limit > maxPageSize {
		return nil, util.NewValidationError("limit must be between 1 and %d", maxPageSize)
	}
	stats, err := s.QuestionRepo.Difficult(ctx, difficultMinAttempts, limit)
	if err != nil {
		return nil, err
	}
	ids := make([]int, len(stats))
	for i, st := range stats {
		ids[i] = st.QuestionID
	}
	questions, err := s.Batch(ctx, ids, locale)
	if err != nil {
		return nil, err
	}
	byID := make(map[int]model.LocalizedQuestion, len(questions))
	for _, q := range questions {
		byID[q.ID] = q
	}

	result := make([]DifficultQuestion, 0, len(stats))
	for i := range stats {
		q, ok := byID[stats[i].QuestionID]
		if !ok {
			continue
		}
		result = append(result, DifficultQuestion{
			LocalizedQuestion: q,
			TotalAttempts:     stats[i].TotalAttempts,
			CorrectAttempts:   stats[i].CorrectAttempts,
			ErrorRate:         stats[i].ErrorRate(),
		})
	}
	return result, nil
}
