package service

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"
	"Cerezo_Blog/internal/repository/redis"

	"github.com/alicebob/miniredis/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type sentMail struct {
	to, subject string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(to, subject, _ string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, sentMail{to, subject})
	return m.err
}

type env struct {
	db       *gorm.DB
	users    *mysql.UserRepository
	sessions *redis.SessionRepository
	tokens   *pkg.TokenAuthority
	mailer   *fakeMailer
	auth     *AuthService
	userSvc  *UserService
}

func newEnv(t *testing.T) *env {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "svc.db")), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, mysql.AutoMigrate(db))

	mr := miniredis.RunT(t)
	client := goredis.NewClient(&goredis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	e := &env{
		db:       db,
		users:    &mysql.UserRepository{DB: db},
		sessions: redis.NewSessionRepository(client, time.Hour),
		tokens:   pkg.NewTokenAuthority("test-secret", time.Hour),
		mailer:   &fakeMailer{},
	}
	notifier := NewNotifier(e.mailer)
	e.auth = NewAuthService(e.users, e.sessions, e.tokens, notifier)
	e.userSvc = NewUserService(e.users, e.sessions, notifier)
	return e
}

func (e *env) register(t *testing.T, name string, role model.Role) *model.User {
	t.Helper()
	u, err := e.auth.Register(context.Background(), RegisterInput{Username: name, Email: name + "@x.com", Password: "pw1234"})
	require.NoError(t, err)
	if role == model.RoleAdmin {
		require.NoError(t, e.users.SetRole(context.Background(), u.ID, role))
		u.Role = role
	}
	return u
}

func (e *env) seedPost(t *testing.T, authorID uint64) *model.Post {
	t.Helper()
	p := &model.Post{AuthorID: authorID, Title: "Hello", Content: "long enough content here", IsPublished: true}
	require.NoError(t, (&mysql.PostRepository{DB: e.db}).Create(context.Background(), p))
	return p
}
