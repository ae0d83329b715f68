package model

import "time"

type Post struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	AuthorID     uint64    `gorm:"not null;index" json:"-"`
	Author       *User     `gorm:"foreignKey:AuthorID" json:"-"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Content      string    `gorm:"type:text;not null" json:"content"`
	ImageURL     string    `gorm:"size:512" json:"imageUrl,omitempty"`
	CloudinaryID string    `gorm:"size:255" json:"cloudinaryId,omitempty"`
	NumLikes     int64     `gorm:"not null;default:0" json:"numLikes"`
	NumComments  int64     `gorm:"not null;default:0" json:"numComments"`
	IsPublished  bool      `gorm:"not null;index:idx_post_listing,priority:1" json:"isPublished"`
	IsPinned     bool      `gorm:"not null;default:false;index:idx_post_listing,priority:2" json:"isPinned"`
	CreatedAt    time.Time `gorm:"index:idx_post_listing,priority:3" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
