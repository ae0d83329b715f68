package model

import "time"

type Event struct {
	ID               uint64       `gorm:"primaryKey" json:"id"`
	Title            string       `gorm:"size:200;not null" json:"title"`
	Description      string       `gorm:"type:text;not null" json:"description"`
	Date             time.Time    `gorm:"not null;index" json:"date"`
	Location         string       `gorm:"size:255;not null" json:"location"`
	AllowsAttendance bool         `gorm:"not null;default:false" json:"allowsAttendance"`
	CreatedBy        uint64       `gorm:"not null;index" json:"createdBy"`
	Media            []EventMedia `gorm:"foreignKey:EventID" json:"-"`
	CreatedAt        time.Time    `json:"createdAt"`
	UpdatedAt        time.Time    `json:"updatedAt"`
}

// EventMedia kind 为 image 或 video
type EventMedia struct {
	ID           uint64    `gorm:"primaryKey" json:"-"`
	EventID      uint64    `gorm:"not null;index" json:"-"`
	Kind         string    `gorm:"size:8;not null" json:"-"`
	URL          string    `gorm:"size:512;not null" json:"url"`
	CloudinaryID string    `gorm:"size:255" json:"cloudinaryId"`
	CreatedAt    time.Time `json:"-"`
}

func (EventMedia) TableName() string { return "event_media" }

// EventAttendee 即 event.attendees[]
type EventAttendee struct {
	ID        uint64 `gorm:"primaryKey"`
	EventID   uint64 `gorm:"not null;uniqueIndex:uk_event_user"`
	UserID    uint64 `gorm:"not null;uniqueIndex:uk_event_user;index"`
	CreatedAt time.Time
}
