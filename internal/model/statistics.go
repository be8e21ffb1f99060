package model

import "time"

// UserStatistics 每个账号一行累计计数，只通过原子自增修改
// swagger:model UserStatistics
type UserStatistics struct {
	UserID                 uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	TimeSpentSeconds       int64     `gorm:"not null" json:"timeSpentSeconds"`
	TotalQuestionsAnswered int64     `gorm:"not null" json:"totalQuestionsAnswered"`
	CorrectAnswers         int64     `gorm:"not null" json:"correctAnswers"`
	CreatedAt              time.Time `json:"createdAt"`
	UpdatedAt              time.Time `json:"updatedAt"`
}

func (UserStatistics) TableName() string {
	return "user_statistics"
}

// QuestionStatistic 单题作答统计，用于难题排行
// swagger:model QuestionStatistic
type QuestionStatistic struct {
	QuestionID         int       `gorm:"primaryKey;autoIncrement:false" json:"questionId"`
	TotalAttempts      int64     `gorm:"not null" json:"totalAttempts"`
	CorrectAttempts    int64     `gorm:"not null" json:"correctAttempts"`
	AverageTimeSeconds float64   `gorm:"not null" json:"averageTimeSeconds"`
	UpdatedAt          time.Time `json:"updatedAt"`
}

func (QuestionStatistic) TableName() string {
	return "question_statistics"
}

// ErrorRate returns the share of wrong attempts in [0,1].
func (s *QuestionStatistic) ErrorRate() float64 {
	if s.TotalAttempts == 0 {
		return 0
	}
	return float64(s.TotalAttempts-s.CorrectAttempts) / float64(s.TotalAttempts)
}
