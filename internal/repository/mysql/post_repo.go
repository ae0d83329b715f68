package mysql

import (
	"context"

	"Cerezo_Blog/internal/model"

	"gorm.io/gorm"
)

type PostRepository struct {
	DB *gorm.DB
}

func authorColumns(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "role")
}

func (r *PostRepository) Create(ctx context.Context, post *model.Post) error {
	return r.DB.WithContext(ctx).Omit("Author").Create(post).Error
}

func (r *PostRepository) FindByID(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := r.DB.WithContext(ctx).Preload("Author", authorColumns).First(&post, id).Error
	if err != nil {
		return nil, translate(err, "post")
	}
	return &post, nil
}

// ListPublished 置顶优先，其次按创建时间倒序
func (r *PostRepository) ListPublished(ctx context.Context) ([]model.Post, error) {
	list := make([]model.Post, 0)
	err := r.DB.WithContext(ctx).
		Preload("Author", authorColumns).
		Where("is_published = ?", true).
		Order("is_pinned DESC, created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// UpdateContent 不触碰计数列，避免覆盖并发的点赞/评论
func (r *PostRepository) UpdateContent(ctx context.Context, post *model.Post) error {
	err := r.DB.WithContext(ctx).Model(post).
		Select("title", "content", "image_url", "cloudinary_id", "is_published", "is_pinned").
		Updates(post).Error
	return translate(err, "post")
}

// Delete 连同评论、帖子与评论上的点赞一起删除
func (r *PostRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		commentIDs := tx.Model(&model.Comment{}).Select("id").Where("post_id = ?", id)
		if err := tx.Where("item_type = ? AND item_id IN (?)", model.ItemComment, commentIDs).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("item_type = ? AND item_id = ?", model.ItemPost, id).
			Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("post_id = ?", id).Delete(&model.Comment{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.Post{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "post")
		}
		return nil
	})
}
