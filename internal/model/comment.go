package model

import "time"

type Comment struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	PostID    uint64    `gorm:"not null;index:idx_comment_post_time,priority:1" json:"post"`
	UserID    uint64    `gorm:"not null;index" json:"-"`
	User      *User     `gorm:"foreignKey:UserID" json:"-"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	ParentID  *uint64   `gorm:"index" json:"parentId"`
	NumLikes  int64     `gorm:"not null;default:0" json:"numLikes"`
	CreatedAt time.Time `gorm:"index:idx_comment_post_time,priority:2" json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
