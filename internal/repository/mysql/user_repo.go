package mysql

import (
	"context"
	"strings"

	"Cerezo_Blog/internal/model"

	"gorm.io/gorm"
)

type UserRepository struct {
	DB *gorm.DB
}

func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	return translate(r.DB.WithContext(ctx).Create(user).Error, "user")
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// FindByLogin 含 @ 只按邮箱查，否则只按用户名查
func (r *UserRepository) FindByLogin(ctx context.Context, login string) (*model.User, error) {
	column := "username"
	if strings.Contains(login, "@") {
		column = "email"
	}
	var user model.User
	err := r.DB.WithContext(ctx).Where(column+" = ?", login).First(&user).Error
	if err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User
	if err := r.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err, "user")
	}
	return &user, nil
}

// ExistsBy 检查字段取值是否被其他用户占用，excludeID=0 表示不排除
func (r *UserRepository) ExistsBy(ctx context.Context, column, value string, excludeID uint64) (bool, error) {
	var n int64
	q := r.DB.WithContext(ctx).Model(&model.User{}).Where(column+" = ?", value)
	if excludeID > 0 {
		q = q.Where("id <> ?", excludeID)
	}
	err := q.Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) List(ctx context.Context) ([]model.User, error) {
	var list []model.User
	err := r.DB.WithContext(ctx).
		Select("id", "username", "email", "role", "is_blocked", "created_at").
		Order("created_at DESC, id DESC").
		Find(&list).Error
	return list, err
}

// UpdateProfile 只写入资料相关列
func (r *UserRepository) UpdateProfile(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Model(user).
		Select("username", "email", "password").
		Updates(user).Error
	return translate(err, "user")
}

func (r *UserRepository) SetBlocked(ctx context.Context, id uint64, blocked bool) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("is_blocked", blocked).Error
}

func (r *UserRepository) SetRole(ctx context.Context, id uint64, role model.Role) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", id).
		Update("role", role).Error
}

// LikedItems 按点赞先后返回
func (r *UserRepository) LikedItems(ctx context.Context, userID uint64) ([]model.Like, error) {
	list := make([]model.Like, 0)
	err := r.DB.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id ASC").
		Find(&list).Error
	return list, err
}

// Delete 同一事务内回退该用户的点赞计数，删除点赞、报名与用户本身
func (r *UserRepository) Delete(ctx context.Context, id uint64) error {
	return r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		likedOf := func(t model.ItemType) *gorm.DB {
			return tx.Model(&model.Like{}).Select("item_id").Where("user_id = ? AND item_type = ?", id, t)
		}
		if err := tx.Model(&model.Post{}).Where("id IN (?)", likedOf(model.ItemPost)).
			UpdateColumn("num_likes", decrExpr("num_likes")).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.Comment{}).Where("id IN (?)", likedOf(model.ItemComment)).
			UpdateColumn("num_likes", decrExpr("num_likes")).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.Like{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&model.EventAttendee{}).Error; err != nil {
			return err
		}
		res := tx.Delete(&model.User{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return translate(gorm.ErrRecordNotFound, "user")
		}
		return nil
	})
}
