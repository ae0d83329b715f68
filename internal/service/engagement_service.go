package service

import (
	"context"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/repository/mysql"
)

// EngagementService 点赞与报名的 toggle，重复调用两次回到原状态
type EngagementService struct {
	repo *mysql.EngagementRepository
}

func NewEngagementService(repo *mysql.EngagementRepository) *EngagementService {
	return &EngagementService{repo: repo}
}

func (s *EngagementService) TogglePostLike(ctx context.Context, userID, postID uint64) (mysql.ToggleResult, error) {
	return s.repo.ToggleLike(ctx, userID, model.ItemPost, postID)
}

func (s *EngagementService) ToggleCommentLike(ctx context.Context, userID, commentID uint64) (mysql.ToggleResult, error) {
	return s.repo.ToggleLike(ctx, userID, model.ItemComment, commentID)
}

// ToggleAttendance 活动未开放报名时任何角色都会失败
func (s *EngagementService) ToggleAttendance(ctx context.Context, userID, eventID uint64) (mysql.ToggleResult, error) {
	return s.repo.ToggleAttendance(ctx, userID, eventID)
}
