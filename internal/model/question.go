package model

import (
	"time"

	"gorm.io/datatypes"
)

// Question 题目的语言无关部分，ID 在所有语言间共享
// swagger:model Question
type Question struct {
	ID            int                   `gorm:"primaryKey;autoIncrement:false" json:"id"`
	CorrectAnswer int                   `gorm:"not null" json:"correctAnswer"`
	OptionCount   int                   `gorm:"not null" json:"optionCount"`
	ImageURL      string                `gorm:"size:500" json:"imageUrl,omitempty"`
	Translations  []QuestionTranslation `gorm:"foreignKey:QuestionID;constraint:OnDelete:CASCADE" json:"translations,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

func (Question) TableName() string {
	return "questions"
}

// swagger:model QuestionTranslation
type QuestionTranslation struct {
	ID          uint                        `gorm:"primaryKey;autoIncrement" json:"-"`
	QuestionID  int                         `gorm:"not null;uniqueIndex:idx_translation_question_locale" json:"questionId"`
	Locale      string                      `gorm:"size:5;not null;uniqueIndex:idx_translation_question_locale" json:"locale"`
	Text        string                      `gorm:"type:text;not null" json:"text"`
	Options     datatypes.JSONSlice[string] `gorm:"not null" json:"options"`
	Explanation string                      `gorm:"type:text" json:"explanation,omitempty"`
}

func (QuestionTranslation) TableName() string {
	return "question_translations"
}

// LocalizedQuestion 单一语言下的题目视图
type LocalizedQuestion struct {
	ID            int      `json:"id"`
	Locale        string   `json:"locale"`
	Text          string   `json:"text"`
	Options       []string `json:"options"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
	ImageURL      string   `json:"imageUrl,omitempty"`
}

// Localize builds the view for one locale; ok is false when the translation is missing.
func (q *Question) Localize(locale string) (LocalizedQuestion, bool) {
	for _, t := range q.Translations {
		if t.Locale != locale {
			continue
		}
		return LocalizedQuestion{
			ID:            q.ID,
			Locale:        t.Locale,
			Text:          t.Text,
			Options:       []string(t.Options),
			CorrectAnswer: q.CorrectAnswer,
			Explanation:   t.Explanation,
			ImageURL:      q.ImageURL,
		}, true
	}
	return LocalizedQuestion{}, false
}
