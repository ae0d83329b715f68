package mysql

import (
	"context"

	"Cerezo_Blog/internal/model"

	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

// Create 媒体随事件一并写入
func (r *EventRepository) Create(ctx context.Context, e *model.Event) error {
	return r.DB.WithContext(ctx).Create(e).Error
}

func (r *EventRepository) FindByID(ctx context.Context, id uint64) (*model.Event, error) {
	var e model.Event
	err := r.DB.WithContext(ctx).Preload("Media", orderByID).First(&e, id).Error
	if err != nil {
		return nil, translate(err, "event")
	}
	return &e, nil
}

func orderByID(db *gorm.DB) *gorm.DB {
	return db.Order("id ASC")
}

// List 按活动日期升序
func (r *EventRepository) List(ctx context.Context) ([]model.Event, error) {
	list := make([]model.Event, 0)
	err := r.DB.WithContext(ctx).
		Preload("Media", orderByID).
		Order("date ASC, id ASC").
		Find(&list).Error
	return list, err
}

// Update 更新字段并追加新媒体
func (r *EventRepository) Update(ctx context.Context, e *model.Event, added []model.EventMedia) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(e).
			Select("title", "description", "date", "location", "allows_attendance").
			Updates(e).Error; err != nil {
			return translate(err, "event")
		}
		for i := range added {
			added[i].EventID = e.ID
		}
		if len(added) > 0 {
			if err := tx.Create(&added).Error; err != nil {
				return err
			}
			e.Media = append(e.Media, added...)
		}
		return nil
	})
}

func (r *EventRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("event_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		if err := tx.Where("event_id = ?", id).Delete(&model.EventMedia{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Event{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "event")
		}
		return nil
	})
}

// Attendees event id -> 报名用户 id 列表
func (r *EventRepository) Attendees(ctx context.Context, eventIDs []uint64) (map[uint64][]uint64, error) {
	out := make(map[uint64][]uint64, len(eventIDs))
	if len(eventIDs) == 0 {
		return out, nil
	}
	var rows []model.EventAttendee
	if err := r.DB.WithContext(ctx).
		Where("event_id IN ?", eventIDs).
		Order("id ASC").
		Find(&rows).Error; err != nil {
		return nil, err
	}
	for _, a := range rows {
		out[a.EventID] = append(out[a.EventID], a.UserID)
	}
	return out, nil
}
