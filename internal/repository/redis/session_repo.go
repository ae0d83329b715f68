package redis

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"Cerezo_Blog/internal/pkg"

	"github.com/redis/go-redis/v9"
)

const UserTokensPrefix = "login:user:tokens"

// SessionRepository 每个用户一个 SET，成员是 token 的 sha256，用作会话 allow-list
type SessionRepository struct {
	Client *redis.Client
	TTL    time.Duration // 与 token 有效期一致
}

func NewSessionRepository(client *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{Client: client, TTL: ttl}
}

func (r *SessionRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokensPrefix, userID)
}

func digest(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}

func unavailable(err error) error {
	return pkg.ErrDependency.With("session store unavailable").Wrap(err)
}

// Register 登录成功后加入 allow-list，多设备登录会并存
func (r *SessionRepository) Register(ctx context.Context, userID uint64, token string) error {
	k := r.key(userID)
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.SAdd(ctx, k, digest(token))
		if r.TTL > 0 {
			p.Expire(ctx, k, r.TTL)
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

// Revoke 删除一个 token，返回是否真的删除了
func (r *SessionRepository) Revoke(ctx context.Context, userID uint64, token string) (bool, error) {
	n, err := r.Client.SRem(ctx, r.key(userID), digest(token)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return n > 0, nil
}

// RevokeAll 清空该用户所有会话
func (r *SessionRepository) RevokeAll(ctx context.Context, userID uint64) error {
	if err := r.Client.Del(ctx, r.key(userID)).Err(); err != nil {
		return unavailable(err)
	}
	return nil
}

// RevokeOthers 只保留 keep 这一个会话
func (r *SessionRepository) RevokeOthers(ctx context.Context, userID uint64, keep string) error {
	k := r.key(userID)
	_, err := r.Client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Del(ctx, k)
		p.SAdd(ctx, k, digest(keep))
		if r.TTL > 0 {
			p.Expire(ctx, k, r.TTL)
		}
		return nil
	})
	if err != nil {
		return unavailable(err)
	}
	return nil
}

func (r *SessionRepository) IsActive(ctx context.Context, userID uint64, token string) (bool, error) {
	ok, err := r.Client.SIsMember(ctx, r.key(userID), digest(token)).Result()
	if err != nil {
		return false, unavailable(err)
	}
	return ok, nil
}

// Count 当前有效会话数
func (r *SessionRepository) Count(ctx context.Context, userID uint64) (int64, error) {
	n, err := r.Client.SCard(ctx, r.key(userID)).Result()
	if err != nil {
		return 0, unavailable(err)
	}
	return n, nil
}
