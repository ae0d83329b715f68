package service

import (
	"context"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/repository/mysql"
)

type CommentService struct {
	comments *mysql.CommentRepository
	posts    *mysql.PostRepository
	likes    *mysql.EngagementRepository
}

func NewCommentService(comments *mysql.CommentRepository, posts *mysql.PostRepository, likes *mysql.EngagementRepository) *CommentService {
	return &CommentService{comments: comments, posts: posts, likes: likes}
}

// CommentView 作者与父评论作者只解析一层
type CommentView struct {
	*model.Comment
	Author       model.Author `json:"user"`
	ParentAuthor string       `json:"parentAuthor,omitempty"`
	Likes        []uint64     `json:"likes"`
}

func (s *CommentService) Create(ctx context.Context, postID, userID uint64, content string, parentID *uint64) (*CommentView, error) {
	c := &model.Comment{
		PostID:   postID,
		UserID:   userID,
		Content:  content,
		ParentID: parentID,
	}
	if err := s.comments.CreateWithCounter(ctx, c); err != nil {
		return nil, err
	}
	saved, err := s.comments.FindByID(ctx, c.ID)
	if err != nil {
		return nil, err
	}
	views, err := s.resolve(ctx, []model.Comment{*saved})
	if err != nil {
		return nil, err
	}
	return &views[0], nil
}

// ListByPost 最新的在前
func (s *CommentService) ListByPost(ctx context.Context, postID uint64) ([]CommentView, error) {
	if _, err := s.posts.FindByID(ctx, postID); err != nil {
		return nil, err
	}
	list, err := s.comments.ListByPost(ctx, postID)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, list)
}

func (s *CommentService) resolve(ctx context.Context, list []model.Comment) ([]CommentView, error) {
	ids := make([]uint64, 0, len(list))
	var parents []uint64
	for _, c := range list {
		ids = append(ids, c.ID)
		if c.ParentID != nil {
			parents = append(parents, *c.ParentID)
		}
	}
	parentAuthors, err := s.comments.ParentAuthors(ctx, parents)
	if err != nil {
		return nil, err
	}
	likers, err := s.likes.LikerIDs(ctx, model.ItemComment, ids)
	if err != nil {
		return nil, err
	}

	out := make([]CommentView, 0, len(list))
	for i := range list {
		c := &list[i]
		v := CommentView{Comment: c, Likes: likers[c.ID]}
		if v.Likes == nil {
			v.Likes = []uint64{}
		}
		if c.User != nil {
			v.Author = model.Author{ID: c.User.ID, Username: c.User.Username}
		} else {
			v.Author = model.Author{ID: c.UserID}
		}
		if c.ParentID != nil {
			v.ParentAuthor = parentAuthors[*c.ParentID]
		}
		out = append(out, v)
	}
	return out, nil
}
