package service

import (
	"context"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/repository/redis"
)

type UserService struct {
	users    *mysql.UserRepository
	sessions *redis.SessionRepository
	notifier *Notifier
}

func NewUserService(users *mysql.UserRepository, sessions *redis.SessionRepository, notifier *Notifier) *UserService {
	return &UserService{users: users, sessions: sessions, notifier: notifier}
}

// Profile 用户资料附带 likedItems
type Profile struct {
	*model.User
	LikedItems []model.Like `json:"likedItems"`
}

func (s *UserService) Profile(ctx context.Context, userID uint64) (*Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	liked, err := s.users.LikedItems(ctx, userID)
	if err != nil {
		return nil, err
	}
	return &Profile{User: user, LikedItems: liked}, nil
}

// UpdateProfileInput 空字符串表示不修改
type UpdateProfileInput struct {
	Username string
	Email    string
	Password string
}

// UpdateProfile 修改密码后只保留当前会话
func (s *UserService) UpdateProfile(ctx context.Context, userID uint64, currentToken string, in UpdateProfileInput) (*model.User, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	if in.Email != "" && in.Email != user.Email {
		taken, err := s.users.ExistsBy(ctx, "email", in.Email, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, pkg.ErrConflict.With("email already registered")
		}
		user.Email = in.Email
	}
	if in.Username != "" && in.Username != user.Username {
		if err := checkUsername(in.Username); err != nil {
			return nil, err
		}
		taken, err := s.users.ExistsBy(ctx, "username", in.Username, userID)
		if err != nil {
			return nil, err
		}
		if taken {
			return nil, pkg.ErrConflict.With("username already taken")
		}
		user.Username = in.Username
	}
	if in.Password != "" {
		hash, err := pkg.HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		user.Password = hash
	}

	if err = s.users.UpdateProfile(ctx, user); err != nil {
		return nil, err
	}
	if in.Password != "" {
		if err = s.sessions.RevokeOthers(ctx, userID, currentToken); err != nil {
			return nil, err
		}
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]model.User, error) {
	return s.users.List(ctx)
}

// Delete 管理员账号不可删除，包括删除自己
func (s *UserService) Delete(ctx context.Context, id uint64) error {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if target.IsAdmin() {
		return pkg.ErrForbidden.With("admin accounts cannot be deleted")
	}
	if err = s.users.Delete(ctx, id); err != nil {
		return err
	}
	return s.sessions.RevokeAll(ctx, id)
}

// ToggleBlock 封禁时立即清空该用户全部会话
func (s *UserService) ToggleBlock(ctx context.Context, id uint64) (*model.User, error) {
	target, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if target.IsAdmin() {
		return nil, pkg.ErrForbidden.With("admin accounts cannot be blocked")
	}

	target.IsBlocked = !target.IsBlocked
	if err = s.users.SetBlocked(ctx, id, target.IsBlocked); err != nil {
		return nil, err
	}
	if target.IsBlocked {
		if err = s.sessions.RevokeAll(ctx, id); err != nil {
			return nil, err
		}
	}
	s.notifier.BlockChanged(target)
	return target, nil
}

// Promote 授予管理员角色，只由命令行调用
func (s *UserService) Promote(ctx context.Context, email string) (*model.User, error) {
	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	if err = s.users.SetRole(ctx, user.ID, model.RoleAdmin); err != nil {
		return nil, err
	}
	user.Role = model.RoleAdmin
	return user, nil
}
