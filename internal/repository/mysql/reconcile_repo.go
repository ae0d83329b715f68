package mysql

import (
	"context"

	"Cerezo_Blog/internal/model"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Counter 对账用的条目计数快照
type Counter struct {
	ID       uint64
	NumLikes int64
}

type LikeCountReconcilerRepo struct {
	DB *gorm.DB
}

func tableFor(itemType model.ItemType) any {
	if itemType == model.ItemComment {
		return &model.Comment{}
	}
	return &model.Post{}
}

// ReconcileList 按 id 游标批量读取计数
func (r *LikeCountReconcilerRepo) ReconcileList(ctx context.Context, itemType model.ItemType, batchSize int, lastID uint64) ([]Counter, uint64, error) {
	var list []Counter
	if err := r.DB.WithContext(ctx).Model(tableFor(itemType)).
		Select("id", "num_likes").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealLikes 一批条目的真实点赞数
func (r *LikeCountReconcilerRepo) RealLikes(ctx context.Context, itemType model.ItemType, ids []uint64) (map[uint64]int64, error) {
	type row struct {
		ItemID uint64
		N      int64
	}
	var rows []row
	if err := r.DB.WithContext(ctx).Model(&model.Like{}).
		Select("item_id, COUNT(*) AS n").
		Where("item_type = ? AND item_id IN ?", itemType, ids).
		Group("item_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	out := make(map[uint64]int64, len(rows))
	for _, x := range rows {
		out[x.ItemID] = x.N
	}
	return out, nil
}

// FixLikes 锁住条目行后按 likes 表重算，返回修正前后的计数；条目已删除时两者均为 0
func (r *LikeCountReconcilerRepo) FixLikes(ctx context.Context, itemType model.ItemType, id uint64) (stored, actual int64, err error) {
	err = r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var current []int64
		if err := tx.Model(tableFor(itemType)).
			Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("id = ?", id).
			Pluck("num_likes", &current).Error; err != nil {
			return err
		}
		if len(current) == 0 {
			return nil
		}
		stored = current[0]
		if err := tx.Model(&model.Like{}).
			Where("item_type = ? AND item_id = ?", itemType, id).
			Count(&actual).Error; err != nil {
			return err
		}
		if actual == stored {
			return nil
		}
		return tx.Model(tableFor(itemType)).Where("id = ?", id).
			UpdateColumn("num_likes", actual).Error
	})
	return stored, actual, err
}
