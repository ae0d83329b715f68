package service

import (
	"context"
	"errors"
	"strings"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/repository/redis"
)

type AuthService struct {
	users    *mysql.UserRepository
	sessions *redis.SessionRepository
	tokens   *pkg.TokenAuthority
	notifier *Notifier
}

func NewAuthService(users *mysql.UserRepository, sessions *redis.SessionRepository, tokens *pkg.TokenAuthority, notifier *Notifier) *AuthService {
	return &AuthService{users: users, sessions: sessions, tokens: tokens, notifier: notifier}
}

type RegisterInput struct {
	Username string
	Email    string
	Password string
}

// Register 邮箱与用户名分别查重，唯一索引兜底
func (s *AuthService) Register(ctx context.Context, in RegisterInput) (*model.User, error) {
	if err := checkUsername(in.Username); err != nil {
		return nil, err
	}
	taken, err := s.users.ExistsBy(ctx, "email", in.Email, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, pkg.ErrConflict.With("email already registered")
	}
	taken, err = s.users.ExistsBy(ctx, "username", in.Username, 0)
	if err != nil {
		return nil, err
	}
	if taken {
		return nil, pkg.ErrConflict.With("username already taken")
	}

	hash, err := pkg.HashPassword(in.Password)
	if err != nil {
		return nil, err
	}
	user := &model.User{
		Username: in.Username,
		Email:    in.Email,
		Password: hash,
		Role:     model.RoleUser,
	}
	if err = s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.notifier.Welcome(user)
	return user, nil
}

// 用户名不能含 @，否则会与邮箱登录混淆
func checkUsername(name string) error {
	if strings.Contains(name, "@") {
		return pkg.ErrValidation.With("username must not contain @")
	}
	return nil
}

// Login 成功后签发新 token 并加入 allow-list
func (s *AuthService) Login(ctx context.Context, login, password string) (string, *model.User, error) {
	user, err := s.users.FindByLogin(ctx, login)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return "", nil, pkg.ErrInvalidCredentials
		}
		return "", nil, err
	}
	ok, err := pkg.CheckPassword(password, user.Password)
	if err != nil {
		return "", nil, err
	}
	if !ok {
		return "", nil, pkg.ErrInvalidCredentials
	}
	if user.IsBlocked {
		return "", nil, pkg.ErrAccountBlocked
	}

	token, err := s.tokens.Issue(user.ID)
	if err != nil {
		return "", nil, err
	}
	if err = s.sessions.Register(ctx, user.ID, token); err != nil {
		return "", nil, err
	}
	return token, user, nil
}

// Logout 只注销当前 token
func (s *AuthService) Logout(ctx context.Context, userID uint64, token string) error {
	removed, err := s.sessions.Revoke(ctx, userID, token)
	if err != nil {
		return err
	}
	if !removed {
		return pkg.ErrTokenNotActive
	}
	return nil
}
