package service

import (
	"context"
	"log/slog"
	"mime/multipart"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
)

type PostService struct {
	posts    *mysql.PostRepository
	likes    *mysql.EngagementRepository
	uploader *pkg.Uploader
	policy   pkg.UploadPolicy
}

func NewPostService(posts *mysql.PostRepository, likes *mysql.EngagementRepository, uploader *pkg.Uploader, maxImageBytes int64) *PostService {
	return &PostService{
		posts:    posts,
		likes:    likes,
		uploader: uploader,
		policy:   pkg.UploadPolicy{MaxBytes: maxImageBytes},
	}
}

// PostView 返回给客户端的帖子
type PostView struct {
	*model.Post
	Author model.Author `json:"author"`
	Likes  []uint64     `json:"likes"`
}

func newPostView(p *model.Post, likes []uint64) PostView {
	v := PostView{Post: p, Likes: likes}
	if v.Likes == nil {
		v.Likes = []uint64{}
	}
	if p.Author != nil {
		v.Author = model.Author{ID: p.Author.ID, Username: p.Author.Username, Role: p.Author.Role}
	} else {
		v.Author = model.Author{ID: p.AuthorID}
	}
	return v
}

type CreatePostInput struct {
	Title       string
	Content     string
	IsPublished *bool
	IsPinned    *bool
	Image       *multipart.FileHeader
}

// UpdatePostInput nil 字段保持不变
type UpdatePostInput struct {
	Title       *string
	Content     *string
	IsPublished *bool
	IsPinned    *bool
	Image       *multipart.FileHeader
}

func (s *PostService) Create(ctx context.Context, authorID uint64, in CreatePostInput) (*PostView, error) {
	post := &model.Post{
		AuthorID:    authorID,
		Title:       in.Title,
		Content:     in.Content,
		IsPublished: true,
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.IsPinned != nil {
		post.IsPinned = *in.IsPinned
	}
	if in.Image != nil {
		m, err := s.uploader.Upload(ctx, in.Image, s.policy)
		if err != nil {
			return nil, err
		}
		post.ImageURL, post.CloudinaryID = m.URL, m.PublicID
	}

	if err := s.posts.Create(ctx, post); err != nil {
		if post.CloudinaryID != "" {
			slog.Warn("post create failed after image upload", "public_id", post.CloudinaryID, "err", err)
			s.uploader.Discard(ctx, post.CloudinaryID)
		}
		return nil, err
	}
	return s.Get(ctx, post.ID, &model.User{Role: model.RoleAdmin})
}

// List 只返回已发布的帖子
func (s *PostService) List(ctx context.Context) ([]PostView, error) {
	posts, err := s.posts.ListPublished(ctx)
	if err != nil {
		return nil, err
	}
	ids := make([]uint64, len(posts))
	for i := range posts {
		ids[i] = posts[i].ID
	}
	likers, err := s.likes.LikerIDs(ctx, model.ItemPost, ids)
	if err != nil {
		return nil, err
	}
	out := make([]PostView, 0, len(posts))
	for i := range posts {
		out = append(out, newPostView(&posts[i], likers[posts[i].ID]))
	}
	return out, nil
}

// Get 未发布的帖子只对管理员可见
func (s *PostService) Get(ctx context.Context, id uint64, viewer *model.User) (*PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !post.IsPublished && (viewer == nil || !viewer.IsAdmin()) {
		return nil, pkg.ErrNotFound.With("post not found")
	}
	likers, err := s.likes.LikerIDs(ctx, model.ItemPost, []uint64{id})
	if err != nil {
		return nil, err
	}
	v := newPostView(post, likers[id])
	return &v, nil
}

// Update 新图片写库成功后才删除旧图片
func (s *PostService) Update(ctx context.Context, id uint64, in UpdatePostInput) (*PostView, error) {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Title != nil {
		post.Title = *in.Title
	}
	if in.Content != nil {
		post.Content = *in.Content
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.IsPinned != nil {
		post.IsPinned = *in.IsPinned
	}

	oldImage := post.CloudinaryID
	if in.Image != nil {
		m, err := s.uploader.Upload(ctx, in.Image, s.policy)
		if err != nil {
			return nil, err
		}
		post.ImageURL, post.CloudinaryID = m.URL, m.PublicID
	}
	if err = s.posts.UpdateContent(ctx, post); err != nil {
		if in.Image != nil {
			slog.Warn("post update failed after image upload", "post_id", id, "public_id", post.CloudinaryID, "err", err)
			s.uploader.Discard(ctx, post.CloudinaryID)
		}
		return nil, err
	}
	if in.Image != nil {
		s.uploader.Discard(ctx, oldImage)
	}
	return s.Get(ctx, id, &model.User{Role: model.RoleAdmin})
}

func (s *PostService) Delete(ctx context.Context, id uint64) error {
	post, err := s.posts.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err = s.posts.Delete(ctx, id); err != nil {
		return err
	}
	s.uploader.Discard(ctx, post.CloudinaryID)
	return nil
}
