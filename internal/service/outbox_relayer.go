package service

import (
	"context"
	"log/slog"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
)

type Sender func(ctx context.Context, ob *model.EngagementOutbox) error

// OutboxRelayer 从 outbox 表读取互动事件交给 sender 投递
type OutboxRelayer struct {
	repo      *mysql.OutboxRepository
	batchSize int
	maxRetry  int
	interval  time.Duration
	sender    Sender
}

func NewOutboxRelayer(repo *mysql.OutboxRepository, sender Sender, batchSize int, interval time.Duration) *OutboxRelayer {
	if batchSize <= 0 {
		batchSize = 200
	}
	if interval <= 0 {
		interval = time.Second
	}
	if sender == nil {
		sender = LogSender
	}
	return &OutboxRelayer{
		repo:      repo,
		batchSize: batchSize,
		maxRetry:  5,
		interval:  interval,
		sender:    sender,
	}
}

// Run outbox 启动器
func (r *OutboxRelayer) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			r.DrainOnce(ctx)
		}
	}
}

// DrainOnce 投递一批，返回成功条数
func (r *OutboxRelayer) DrainOnce(ctx context.Context) int {
	rows, err := r.repo.List(ctx, r.batchSize, r.maxRetry)
	if err != nil {
		slog.Error("outbox query failed", "err", err)
		return 0
	}
	sent := 0
	for i := range rows {
		ob := rows[i]
		if err = r.sender(ctx, &ob); err != nil {
			slog.Warn("outbox send failed", "id", ob.ID, "retry", ob.Retry, "err", err)
			if err = r.repo.MarkFailed(ctx, ob.ID); err != nil {
				slog.Error("outbox mark failed", "id", ob.ID, "err", err)
			}
			continue
		}
		if err = r.repo.MarkSent(ctx, ob.ID); err != nil {
			slog.Error("outbox mark sent failed", "id", ob.ID, "err", err)
			continue
		}
		sent++
	}
	return sent
}

// LogSender 未配置 Kafka 时只打印事件
func LogSender(_ context.Context, ob *model.EngagementOutbox) error {
	slog.Info("engagement event", "type", ob.EventType, "actor", ob.ActorID,
		"item_type", ob.ItemType, "item_id", ob.ItemID, "payload", ob.Payload)
	return nil
}

// KafkaSender 按条目 id 分区，同一条目的事件保持顺序
func KafkaSender(p pkg.Publisher) Sender {
	return func(ctx context.Context, ob *model.EngagementOutbox) error {
		return p.Publish(ctx, pkg.EngagementMessage{
			Key:   pkg.EngagementKey(ob.ItemType, ob.ItemID),
			Event: ob.EventType,
			Value: []byte(ob.Payload),
		})
	}
}
