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
	"io"
	"os"
	"path/filepath"
	"sort"

	"go.uber.org/zap"
)

// RawTranslation 导入文件中单个语言的内容
type RawTranslation struct {
	Text        string   `json:"text"`
	Options     []string `json:"options"`
	Explanation string   `json:"explanation"`
}

// RawQuestion is one entry of the questions import file.
type RawQuestion struct {
	QuestionID    int                       `json:"questionId"`
	Image         string                    `json:"image"`
	CorrectAnswer int                       `json:"correctAnswer"`
	Translations  map[string]RawTranslation `json:"translations"`
}

// ImportReport 导入结果
type ImportReport struct {
	Total    int      `json:"total"`
	Imported int      `json:"imported"`
	Failed   int      `json:"failed"`
	Uploaded int      `json:"uploaded"`
	Errors   []string `json:"errors,omitempty"`
}

type ImportService struct {
	QuestionRepo *repository.QuestionRepository
	Questions    *QuestionService
	Storage      *StorageService
	Exam         config.ExamConfig
}

func NewImportService(questionRepo *repository.QuestionRepository, questions *QuestionService, storage *StorageService, exam config.ExamConfig) *ImportService {
	return &ImportService{
		QuestionRepo: questionRepo,
		Questions:    questions,
		Storage:      storage,
		Exam:         exam,
	}
}

func ParseQuestions(r io.Reader) ([]RawQuestion, error) {
	var raw []RawQuestion
	if err := json.NewDecoder(r).Decode(&raw); err != nil {
		return nil, util.NewValidationError("invalid questions file: %v", err)
	}
	return raw, nil
}

// ValidateQuestion checks one entry. Every translation must carry the same
// number of options and the correct answer must index into them.
func ValidateQuestion(q RawQuestion, exam config.ExamConfig) error {
	if q.QuestionID < 1 || q.QuestionID > exam.TotalQuestions {
		return util.NewValidationError("question id %d out of range 1..%d", q.QuestionID, exam.TotalQuestions)
	}
	if len(q.Translations) == 0 {
		return util.NewValidationError("question %d has no translations", q.QuestionID)
	}

	optionCount := -1
	for _, locale := range sortedLocales(q.Translations) {
		t := q.Translations[locale]
		if !exam.SupportsLocale(locale) {
			return util.NewValidationError("question %d: unsupported locale %q", q.QuestionID, locale)
		}
		if t.Text == "" {
			return util.NewValidationError("question %d/%s: empty text", q.QuestionID, locale)
		}
		if len(t.Options) < 2 {
			return util.NewValidationError("question %d/%s: at least two options required", q.QuestionID, locale)
		}
		if optionCount == -1 {
			optionCount = len(t.Options)
		} else if len(t.Options) != optionCount {
			return util.NewValidationError("question %d: locale %s has %d options, expected %d",
				q.QuestionID, locale, len(t.Options), optionCount)
		}
	}
	if q.CorrectAnswer < 1 || q.CorrectAnswer > optionCount {
		return util.NewValidationError("question %d: correct answer %d out of range 1..%d",
			q.QuestionID, q.CorrectAnswer, optionCount)
	}
	return nil
}

// QuestionChecker 校验一批题目，同一 id 只接受第一次出现的条目
type QuestionChecker struct {
	exam config.ExamConfig
	seen map[int]struct{}
}

func NewQuestionChecker(exam config.ExamConfig) *QuestionChecker {
	return &QuestionChecker{exam: exam, seen: make(map[int]struct{})}
}

func (c *QuestionChecker) Check(q RawQuestion) error {
	if _, dup := c.seen[q.QuestionID]; dup {
		return util.NewValidationError("question %d: duplicate id", q.QuestionID)
	}
	c.seen[q.QuestionID] = struct{}{}
	return ValidateQuestion(q, c.exam)
}

func sortedLocales(m map[string]RawTranslation) []string {
	locales := make([]string, 0, len(m))
	for l := range m {
		locales = append(locales, l)
	}
	sort.Strings(locales)
	return locales
}

func toModel(q RawQuestion, imageURL string) *model.Question {
	question := &model.Question{
		ID:            q.QuestionID,
		CorrectAnswer: q.CorrectAnswer,
		ImageURL:      imageURL,
	}
	for _, locale := range sortedLocales(q.Translations) {
		t := q.Translations[locale]
		question.OptionCount = len(t.Options)
		question.Translations = append(question.Translations, model.QuestionTranslation{
			QuestionID:  q.QuestionID,
			Locale:      locale,
			Text:        t.Text,
			Options:     t.Options,
			Explanation: t.Explanation,
		})
	}
	return question
}

// resolveImage 本地目录中有图片时上传到对象存储，否则按文件名拼出公开地址
func (s *ImportService) resolveImage(ctx context.Context, image, imagesDir string) (string, bool, error) {
	if image == "" || imagesDir == "" {
		return s.Storage.ImageURL(image), false, nil
	}
	if !util.HasImageExtension(image) {
		return "", false, fmt.Errorf("image %q has an unsupported extension", image)
	}
	localPath := filepath.Join(imagesDir, filepath.Base(image))
	f, err := os.Open(localPath)
	if os.IsNotExist(err) {
		return s.Storage.ImageURL(image), false, nil
	}
	if err != nil {
		return "", false, err
	}
	mimeType, err := util.ValidateMimeType(f, []string{util.MimeImage})
	f.Close()
	if err != nil {
		return "", false, fmt.Errorf("image %q: %w", image, err)
	}

	url, err := s.Storage.UploadFile(ctx, util.ImagePrefix+filepath.Base(image), localPath, mimeType)
	if err != nil {
		return "", false, fmt.Errorf("upload image %q: %w", image, err)
	}
	return url, true, nil
}

// Import reads the questions file and upserts every valid entry. Invalid
// entries are reported and skipped, a storage failure aborts the run.
func (s *ImportService) Import(ctx context.Context, r io.Reader, imagesDir string) (*ImportReport, error) {
	raw, err := ParseQuestions(r)
	if err != nil {
		return nil, err
	}

	report := &ImportReport{Total: len(raw)}
	var imported []int
	checker := NewQuestionChecker(s.Exam)
	for _, q := range raw {
		if err := checker.Check(q); err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err.Error())
			continue
		}

		imageURL, uploaded, err := s.resolveImage(ctx, q.Image, imagesDir)
		if err != nil {
			report.Failed++
			report.Errors = append(report.Errors, err.Error())
			continue
		}
		if uploaded {
			report.Uploaded++
		}

		if err := s.QuestionRepo.Save(ctx, toModel(q, imageURL)); err != nil {
			return report, fmt.Errorf("save question %d: %w", q.QuestionID, err)
		}
		imported = append(imported, q.QuestionID)
		report.Imported++

		if report.Imported%50 == 0 {
			logger.Log.Info("Importing questions", zap.Int("imported", report.Imported), zap.Int("total", report.Total))
		}
	}

	s.Questions.InvalidateCache(ctx, imported)
	monitoring.QuestionsImported.WithLabelValues("imported").Add(float64(report.Imported))
	monitoring.QuestionsImported.WithLabelValues("rejected").Add(float64(report.Failed))
	logger.Log.Info("Question import finished",
		zap.Int("imported", report.Imported),
		zap.Int("failed", report.Failed),
		zap.Int("uploaded", report.Uploaded),
	)
	return report, nil
}

// ImportFile 打开文件并导入
func (s *ImportService) ImportFile(ctx context.Context, path, imagesDir string) (*ImportReport, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return s.Import(ctx, f, imagesDir)
}
