package model

import "time"

// EngagementOutbox 互动事件发件箱，和 toggle 同一事务写入
type EngagementOutbox struct {
	ID        uint64 `gorm:"primaryKey"`
	EventType string `gorm:"size:32;not null"` // like / unlike / attend / unattend
	ActorID   uint64 `gorm:"not null"`
	ItemID    uint64 `gorm:"not null"`
	ItemType  string `gorm:"size:16;not null"`
	Payload   string `gorm:"type:text;not null"`
	Status    int8   `gorm:"not null;default:0;index"`
	Retry     int    `gorm:"not null;default:0"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

func (EngagementOutbox) TableName() string { return "engagement_outbox" }

const (
	OutboxPending int8 = 0
	OutboxSent    int8 = 1
	OutboxFailed  int8 = 2
)
