package model

import "time"

// UserSettings 每个账号一行，注册时创建
type UserSettings struct {
	UserID        uint      `gorm:"primaryKey;autoIncrement:false" json:"userId"`
	Language      string    `gorm:"size:10;not null" json:"language"`
	Notifications bool      `gorm:"not null" json:"notifications"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

func (UserSettings) TableName() string {
	return "user_settings"
}

const DefaultSettingsLanguage = "ru"

func DefaultSettings(userID uint) *UserSettings {
	return &UserSettings{
		UserID:        userID,
		Language:      DefaultSettingsLanguage,
		Notifications: true,
	}
}
