package mysql

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ToggleResult toggle 之后的成员状态与计数
type ToggleResult struct {
	Active bool
	Count  int64
}

type EngagementRepository struct {
	DB *gorm.DB
}

// ToggleLike 对帖子或评论点赞/取消点赞。
// 条目行加锁后在同一事务里改 likes 行与 num_likes，likes 行同时充当用户的 likedItems。
func (r *EngagementRepository) ToggleLike(ctx context.Context, userID uint64, itemType model.ItemType, itemID uint64) (ToggleResult, error) {
	var item any
	var what string
	switch itemType {
	case model.ItemPost:
		item, what = &model.Post{}, "post"
	case model.ItemComment:
		item, what = &model.Comment{}, "comment"
	default:
		return ToggleResult{}, pkg.ErrValidation.With("unknown item type")
	}

	var res ToggleResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current int64
		rows := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Model(item).
			Where("id = ?", itemID).
			Limit(1).
			Pluck("num_likes", &current)
		if rows.Error != nil {
			return rows.Error
		}
		if rows.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, what)
		}

		var like model.Like
		err := tx.Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
			Take(&like).Error
		switch {
		case err == nil:
			if err = tx.Delete(&like).Error; err != nil {
				return err
			}
			if err = tx.Model(item).Where("id = ?", itemID).
				UpdateColumn("num_likes", decrExpr("num_likes")).Error; err != nil {
				return err
			}
			res = ToggleResult{Active: false, Count: max(0, current-1)}
		case errors.Is(err, gorm.ErrRecordNotFound):
			if err = tx.Create(&model.Like{UserID: userID, ItemID: itemID, ItemType: itemType}).Error; err != nil {
				return translate(err, "like")
			}
			if err = tx.Model(item).Where("id = ?", itemID).
				UpdateColumn("num_likes", incrExpr("num_likes")).Error; err != nil {
				return err
			}
			res = ToggleResult{Active: true, Count: current + 1}
		default:
			return err
		}

		event := "unlike"
		if res.Active {
			event = "like"
		}
		return insertOutbox(tx, event, userID, itemID, string(itemType), res.Count)
	})
	return res, err
}

// ToggleAttendance 报名/取消报名，allows_attendance 为 false 时拒绝
func (r *EngagementRepository) ToggleAttendance(ctx context.Context, userID, eventID uint64) (ToggleResult, error) {
	var res ToggleResult
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ev model.Event
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id", "allows_attendance").
			First(&ev, eventID).Error; err != nil {
			return translate(err, "event")
		}
		if !ev.AllowsAttendance {
			return pkg.ErrAttendanceDisabled
		}

		del := tx.Where("event_id = ? AND user_id = ?", eventID, userID).Delete(&model.EventAttendee{})
		if del.Error != nil {
			return del.Error
		}
		if del.RowsAffected == 0 {
			if err := tx.Create(&model.EventAttendee{EventID: eventID, UserID: userID}).Error; err != nil {
				return translate(err, "attendance")
			}
			res.Active = true
		}
		if err := tx.Model(&model.EventAttendee{}).Where("event_id = ?", eventID).
			Count(&res.Count).Error; err != nil {
			return err
		}

		event := "unattend"
		if res.Active {
			event = "attend"
		}
		return insertOutbox(tx, event, userID, eventID, "Event", res.Count)
	})
	return res, err
}

// IsLiked 单个用户对条目的点赞状态
func (r *EngagementRepository) IsLiked(ctx context.Context, userID uint64, itemType model.ItemType, itemID uint64) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND item_id = ? AND item_type = ?", userID, itemID, itemType).
		Count(&n).Error
	return n > 0, err
}

// LikerIDs 条目的 likes[]
func (r *EngagementRepository) LikerIDs(ctx context.Context, itemType model.ItemType, itemIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(itemIDs))
	if len(itemIDs) == 0 {
		return out, nil
	}
	var rows []model.Like
	if err := r.DB.WithContext(ctx).
		Where("item_type = ? AND item_id IN ?", itemType, itemIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, l := range rows {
		out[l.ItemID] = append(out[l.ItemID], l.UserID)
	}
	return out, nil
}

func insertOutbox(tx *gorm.DB, event string, actor, itemID uint64, itemType string, count int64) error {
	payload, _ := json.Marshal(map[string]any{
		"event_time": time.Now().UTC().Format(time.RFC3339Nano),
		"event":      event,
		"actor":      actor,
		"item_id":    itemID,
		"item_type":  itemType,
		"count":      count,
	})
	return tx.Create(&model.EngagementOutbox{
		EventType: event,
		ActorID:   actor,
		ItemID:    itemID,
		ItemType:  itemType,
		Payload:   string(payload),
		Status:    model.OutboxPending,
	}).Error
}
