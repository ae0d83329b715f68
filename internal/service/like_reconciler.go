package service

import (
	"context"
	"log/slog"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/repository/mysql"
)

// LikeCountReconciler 用 likes 表修正帖子与评论的 num_likes
type LikeCountReconciler struct {
	repo      *mysql.LikeCountReconcilerRepo
	batchSize int
	interval  time.Duration
}

func NewLikeCountReconciler(repo *mysql.LikeCountReconcilerRepo, batchSize int, interval time.Duration) *LikeCountReconciler {
	if batchSize <= 0 {
		batchSize = 500
	}
	if interval <= 0 {
		interval = 5 * time.Minute
	}
	return &LikeCountReconciler{repo: repo, batchSize: batchSize, interval: interval}
}

// Run 对账定时任务启动器
func (r *LikeCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.ReconcileOnce(ctx); err != nil {
				slog.Error("like reconcile failed", "err", err)
			}
		}
	}
}

// ReconcileOnce 全量扫一遍，返回修正的条目数
func (r *LikeCountReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	fixed := 0
	for _, itemType := range []model.ItemType{model.ItemPost, model.ItemComment} {
		n, err := r.reconcileType(ctx, itemType)
		fixed += n
		if err != nil {
			return fixed, err
		}
	}
	return fixed, nil
}

func (r *LikeCountReconciler) reconcileType(ctx context.Context, itemType model.ItemType) (int, error) {
	fixed := 0
	var lastID uint64
	for {
		if err := ctx.Err(); err != nil {
			return fixed, err
		}
		batch, next, err := r.repo.ReconcileList(ctx, itemType, r.batchSize, lastID)
		if err != nil {
			return fixed, err
		}
		if len(batch) == 0 {
			return fixed, nil
		}
		ids := make([]uint64, len(batch))
		for i, c := range batch {
			ids[i] = c.ID
		}
		actual, err := r.repo.RealLikes(ctx, itemType, ids)
		if err != nil {
			return fixed, err
		}
		for _, c := range batch {
			if actual[c.ID] == c.NumLikes {
				continue
			}
			// 快照只用于筛选，修正时加锁重算
			stored, now, err := r.repo.FixLikes(ctx, itemType, c.ID)
			if err != nil {
				slog.Error("like counter fix failed", "item_type", itemType, "id", c.ID, "err", err)
				continue
			}
			if stored == now {
				continue
			}
			slog.Warn("like counter drift fixed", "item_type", itemType, "id", c.ID, "stored", stored, "actual", now)
			fixed++
		}
		lastID = next
	}
}
