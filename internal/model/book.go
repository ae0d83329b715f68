package model

import "time"

type Book struct {
	ID           uint64    `gorm:"primaryKey" json:"id"`
	Title        string    `gorm:"size:200;not null" json:"title"`
	Description  string    `gorm:"type:text;not null" json:"description"`
	ImageURL     string    `gorm:"size:512;not null" json:"imageUrl"`
	CloudinaryID string    `gorm:"size:255" json:"cloudinaryId,omitempty"`
	Link         string    `gorm:"size:512;not null" json:"link"`
	AuthorID     uint64    `gorm:"not null;index" json:"author"`
	CreatedAt    time.Time `gorm:"index" json:"createdAt"`
	UpdatedAt    time.Time `json:"updatedAt"`
}
