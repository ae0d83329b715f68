package service

import (
	"context"
	"log/slog"
	"mime/multipart"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
)

type BookService struct {
	books    *mysql.BookRepository
	uploader *pkg.Uploader
	policy   pkg.UploadPolicy
}

func NewBookService(books *mysql.BookRepository, uploader *pkg.Uploader, maxImageBytes int64) *BookService {
	return &BookService{books: books, uploader: uploader, policy: pkg.UploadPolicy{MaxBytes: maxImageBytes}}
}

type CreateBookInput struct {
	Title       string
	Description string
	Link        string
	Image       *multipart.FileHeader
}

type UpdateBookInput struct {
	Title       *string
	Description *string
	Link        *string
	Image       *multipart.FileHeader
}

// Create 封面图必填
func (s *BookService) Create(ctx context.Context, authorID uint64, in CreateBookInput) (*model.Book, error) {
	if in.Image == nil {
		return nil, pkg.ErrValidation.With("image is required")
	}
	m, err := s.uploader.Upload(ctx, in.Image, s.policy)
	if err != nil {
		return nil, err
	}
	book := &model.Book{
		Title:        in.Title,
		Description:  in.Description,
		Link:         in.Link,
		ImageURL:     m.URL,
		CloudinaryID: m.PublicID,
		AuthorID:     authorID,
	}
	if err = s.books.Create(ctx, book); err != nil {
		slog.Warn("book create failed after image upload", "public_id", m.PublicID, "err", err)
		s.uploader.Discard(ctx, m.PublicID)
		return nil, err
	}
	return book, nil
}

func (s *BookService) List(ctx context.Context) ([]model.Book, error) {
	return s.books.List(ctx)
}

func (s *BookService) Update(ctx context.Context, id uint64, in UpdateBookInput) (*model.Book, error) {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		book.Title = *in.Title
	}
	if in.Description != nil {
		book.Description = *in.Description
	}
	if in.Link != nil {
		book.Link = *in.Link
	}

	oldImage := book.CloudinaryID
	if in.Image != nil {
		m, err := s.uploader.Upload(ctx, in.Image, s.policy)
		if err != nil {
			return nil, err
		}
		book.ImageURL, book.CloudinaryID = m.URL, m.PublicID
	}
	if err = s.books.Update(ctx, book); err != nil {
		if in.Image != nil {
			slog.Warn("book update failed after image upload", "book_id", id, "public_id", book.CloudinaryID, "err", err)
			s.uploader.Discard(ctx, book.CloudinaryID)
		}
		return nil, err
	}
	if in.Image != nil {
		s.uploader.Discard(ctx, oldImage)
	}
	return book, nil
}

func (s *BookService) Delete(ctx context.Context, id uint64) error {
	book, err := s.books.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.books.Delete(ctx, id); err != nil {
		return err
	}
	s.uploader.Discard(ctx, book.CloudinaryID)
	return nil
}
