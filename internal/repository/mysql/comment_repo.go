package mysql

import (
	"context"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CommentRepository struct {
	DB *gorm.DB
}

// CreateWithCounter 评论写入与帖子 num_comments+1 在同一事务
func (r *CommentRepository) CreateWithCounter(ctx context.Context, c *model.Comment) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var post model.Post
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").First(&post, c.PostID).Error; err != nil {
			return translate(err, "post")
		}
		if c.ParentID != nil {
			var n int64
			if err := tx.Model(&model.Comment{}).
				Where("id = ? AND post_id = ?", *c.ParentID, c.PostID).
				Count(&n).Error; err != nil {
				return err
			}
			if n == 0 {
				return pkg.ErrNotFound.With("parent comment not found")
			}
		}
		if err := tx.Omit("User").Create(c).Error; err != nil {
			return err
		}
		return tx.Model(&model.Post{}).Where("id = ?", c.PostID).
			UpdateColumn("num_comments", incrExpr("num_comments")).Error
	})
}

func (r *CommentRepository) FindByID(ctx context.Context, id uint64) (*model.Comment, error) {
	var c model.Comment
	err := r.DB.WithContext(ctx).Preload("User", authorColumns).First(&c, id).Error
	if err != nil {
		return nil, translate(err, "comment")
	}
	return &c, nil
}

func (r *CommentRepository) ListByPost(ctx context.Context, postID uint64) ([]model.Comment, error) {
	list := make([]model.Comment, 0)
	err := r.DB.WithContext(ctx).
		Preload("User", authorColumns).
		Where("post_id = ?", postID).
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

type parentAuthor struct {
	CommentID uint64
	Username  string
}

// ParentAuthors 父评论 id -> 作者用户名，只解析一层
func (r *CommentRepository) ParentAuthors(ctx context.Context, parentIDs []uint64) (map[uint64]string, error) {
	out := make(map[uint64]string, len(parentIDs))
	if len(parentIDs) == 0 {
		return out, nil
	}
	var rows []parentAuthor
	err := r.DB.WithContext(ctx).
		Table("comments").
		Select("comments.id AS comment_id, users.username AS username").
		Joins("JOIN users ON users.id = comments.user_id").
		Where("comments.id IN ?", parentIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, row := range rows {
		out[row.CommentID] = row.Username
	}
	return out, nil
}
