package mysql

import (
	"context"
	"path/filepath"
	"testing"

	"Cerezo_Blog/internal/model"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := filepath.Join(t.TempDir(), "test.db")
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError:                           true,
		DisableForeignKeyConstraintWhenMigrating: true,
		Logger:                                   logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, AutoMigrate(db))
	return db
}

func seedUser(t *testing.T, db *gorm.DB, name string, role model.Role) *model.User {
	t.Helper()
	u := &model.User{Username: name, Email: name + "@x.com", Password: "hash", Role: role}
	require.NoError(t, (&UserRepository{DB: db}).Create(context.Background(), u))
	return u
}

func seedPost(t *testing.T, db *gorm.DB, authorID uint64, title string, published, pinned bool) *model.Post {
	t.Helper()
	p := &model.Post{
		AuthorID:    authorID,
		Title:       title,
		Content:     "content that is long enough",
		IsPublished: published,
		IsPinned:    pinned,
	}
	require.NoError(t, (&PostRepository{DB: db}).Create(context.Background(), p))
	return p
}
