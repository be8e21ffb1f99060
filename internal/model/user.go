package model

import (
	"time"

	"gorm.io/datatypes"
)

type UserRole string

const (
	RoleUser UserRole = "user"
	Admin    UserRole = "admin"
)

// Valid reports whether r is a known role.
func (r UserRole) Valid() bool {
	return r == RoleUser || r == Admin
}

// swagger:model User
type User struct {
	BaseModel
	Username  string                   `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string                   `gorm:"size:100;not null" json:"-"`
	Name      string                   `gorm:"size:100;not null" json:"name"`
	Email     string                   `gorm:"size:100" json:"email,omitempty"`
	Role      UserRole                 `gorm:"size:20;not null" json:"role"`
	Favorites datatypes.JSONSlice[int] `json:"favorites"`
}

func (User) TableName() string {
	return "users"
}

// UserView 对外返回的账号信息，不含密码哈希
type UserView struct {
	ID        uint      `json:"id"`
	Username  string    `json:"username"`
	Name      string    `json:"name"`
	Email     string    `json:"email,omitempty"`
	Role      UserRole  `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

func (u *User) SafeView() UserView {
	return UserView{
		ID:        u.ID,
		Username:  u.Username,
		Name:      u.Name,
		Email:     u.Email,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

