package mysql

import (
	"context"

	"Cerezo_Blog/internal/model"

	"gorm.io/gorm"
)

type BookRepository struct {
	DB *gorm.DB
}

func (r *BookRepository) Create(ctx context.Context, b *model.Book) error {
	return r.DB.WithContext(ctx).Create(b).Error
}

func (r *BookRepository) FindByID(ctx context.Context, id uint64) (*model.Book, error) {
	var b model.Book
	if err := r.DB.WithContext(ctx).First(&b, id).Error; err != nil {
		return nil, translate(err, "book")
	}
	return &b, nil
}

func (r *BookRepository) List(ctx context.Context) ([]model.Book, error) {
	list := make([]model.Book, 0)
	err := r.DB.WithContext(ctx).Order("created_at DESC, id DESC").Find(&list).Error
	return list, err
}

func (r *BookRepository) Update(ctx context.Context, b *model.Book) error {
	err := r.DB.WithContext(ctx).Model(b).
		Select("title", "description", "link", "image_url", "cloudinary_id").
		Updates(b).Error
	return translate(err, "book")
}

func (r *BookRepository) Delete(ctx context.Context, id uint64) error {
	res := r.DB.WithContext(ctx).Delete(&model.Book{}, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return translate(gorm.ErrRecordNotFound, "book")
	}
	return nil
}
