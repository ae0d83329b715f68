package model

import "time"

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// User 会话 allow-list 不在表内，见 redis.SessionRepository
type User struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"uniqueIndex;size:32;not null" json:"username"`
	Email     string    `gorm:"uniqueIndex;size:64;not null" json:"email"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Role      Role      `gorm:"size:16;not null;default:user" json:"role"`
	IsBlocked bool      `gorm:"not null;default:false" json:"isBlocked"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// Author 列表中嵌入的作者摘要
type Author struct {
	ID       uint64 `json:"id"`
	Username string `json:"username"`
	Role     Role   `json:"role,omitempty"`
}
