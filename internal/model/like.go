package model

import "time"

type ItemType string

const (
	ItemPost    ItemType = "Post"
	ItemComment ItemType = "Comment"
)

// Like 一行同时是 item.likes[] 与 user.likedItems[] 的元素
type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"-"`
	UserID    uint64    `gorm:"not null;uniqueIndex:uk_like_user_item,priority:1" json:"-"`
	ItemID    uint64    `gorm:"not null;uniqueIndex:uk_like_user_item,priority:2;index:idx_like_item,priority:1" json:"itemId"`
	ItemType  ItemType  `gorm:"size:16;not null;uniqueIndex:uk_like_user_item,priority:3;index:idx_like_item,priority:2" json:"itemType"`
	CreatedAt time.Time `json:"-"`
}

func (Like) TableName() string {
	return "likes"
}
