package middleware

import (
	"context"
	"errors"
	"strings"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"github.com/gin-gonic/gin"
)

const (
	ContextUserKey  = "user"
	ContextTokenKey = "token"
)

type UserLoader interface {
	FindByID(ctx context.Context, id uint64) (*model.User, error)
}

type SessionChecker interface {
	IsActive(ctx context.Context, userID uint64, token string) (bool, error)
}

type TokenVerifier interface {
	Verify(token string) (uint64, error)
}

// Guard 校验顺序：bearer -> 签名/过期 -> 用户存在 -> allow-list -> 封禁
type Guard struct {
	tokens   TokenVerifier
	users    UserLoader
	sessions SessionChecker
}

func NewGuard(tokens TokenVerifier, users UserLoader, sessions SessionChecker) *Guard {
	return &Guard{tokens: tokens, users: users, sessions: sessions}
}

func bearer(header string) (string, bool) {
	parts := strings.SplitN(header, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" || strings.TrimSpace(parts[1]) == "" {
		return "", false
	}
	return parts[1], true
}

// Resolve 把 token 解析为当前用户
func (g *Guard) Resolve(ctx context.Context, header string) (*model.User, string, error) {
	token, ok := bearer(header)
	if !ok {
		return nil, "", pkg.ErrMissingToken
	}
	userID, err := g.tokens.Verify(token)
	if err != nil {
		return nil, "", err
	}
	user, err := g.users.FindByID(ctx, userID)
	if err != nil {
		if errors.Is(err, pkg.ErrNotFound) {
			return nil, "", pkg.ErrUserNotFound
		}
		return nil, "", err
	}
	active, err := g.sessions.IsActive(ctx, userID, token)
	if err != nil {
		return nil, "", err
	}
	if !active {
		return nil, "", pkg.ErrTokenRevoked
	}
	if user.IsBlocked {
		return nil, "", pkg.ErrAccountBlocked
	}
	return user, token, nil
}

// Authenticate 需要登录的接口
func (g *Guard) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		user, token, err := g.Resolve(c.Request.Context(), c.GetHeader("Authorization"))
		if err != nil {
			_ = c.Error(err)
			c.Abort()
			return
		}
		c.Set(ContextUserKey, user)
		c.Set(ContextTokenKey, token)
		c.Next()
	}
}

// Optional 带了 token 就解析，解析失败按匿名处理
func (g *Guard) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			if user, token, err := g.Resolve(c.Request.Context(), header); err == nil {
				c.Set(ContextUserKey, user)
				c.Set(ContextTokenKey, token)
			}
		}
		c.Next()
	}
}

// RequireRole 必须在 Authenticate 之后
func RequireRole(role model.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		user := CurrentUser(c)
		if user == nil {
			_ = c.Error(pkg.ErrMissingToken)
			c.Abort()
			return
		}
		if user.Role != role {
			_ = c.Error(pkg.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

func CurrentUser(c *gin.Context) *model.User {
	v, ok := c.Get(ContextUserKey)
	if !ok {
		return nil
	}
	user, _ := v.(*model.User)
	return user
}

func CurrentToken(c *gin.Context) string {
	return c.GetString(ContextTokenKey)
}
