package mysql

import (
	"context"
	"testing"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserCreateDuplicateIsConflict(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := &UserRepository{DB: db}
	seedUser(t, db, "ana", model.RoleUser)

	err := repo.Create(ctx, &model.User{Username: "ana", Email: "other@x.com", Password: "h"})
	assert.ErrorIs(t, err, pkg.ErrConflict)
	err = repo.Create(ctx, &model.User{Username: "other", Email: "ana@x.com", Password: "h"})
	assert.ErrorIs(t, err, pkg.ErrConflict)

	var n int64
	db.Model(&model.User{}).Count(&n)
	assert.Equal(t, int64(1), n)
}

func TestUserFindByLoginAndExists(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := &UserRepository{DB: db}
	ana := seedUser(t, db, "ana", model.RoleUser)

	byEmail, err := repo.FindByLogin(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byEmail.ID)
	byName, err := repo.FindByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, byName.ID)

	_, err = repo.FindByLogin(ctx, "nobody")
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	taken, err := repo.ExistsBy(ctx, "email", "ana@x.com", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ExistsBy(ctx, "email", "ana@x.com", ana.ID)
	require.NoError(t, err)
	assert.False(t, taken)
}

func TestFindByLoginKeepsEmailAndUsernameApart(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	repo := &UserRepository{DB: db}
	// 历史数据中用户名形似邮箱，且 id 更小
	squat := &model.User{Username: "ana@x.com", Email: "squat@x.com", Password: "h", Role: model.RoleUser}
	require.NoError(t, repo.Create(ctx, squat))
	ana := seedUser(t, db, "ana", model.RoleUser)

	got, err := repo.FindByLogin(ctx, "ana@x.com")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)

	got, err = repo.FindByLogin(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, ana.ID, got.ID)
}

func TestUserDeleteRollsBackEngagement(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	users := &UserRepository{DB: db}
	likes := &EngagementRepository{DB: db}
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	ana := seedUser(t, db, "ana", model.RoleUser)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	c := &model.Comment{PostID: post.ID, UserID: admin.ID, Content: "hi"}
	require.NoError(t, (&CommentRepository{DB: db}).CreateWithCounter(ctx, c))

	for _, uid := range []uint64{ana.ID, admin.ID} {
		_, err := likes.ToggleLike(ctx, uid, model.ItemPost, post.ID)
		require.NoError(t, err)
	}
	_, err := likes.ToggleLike(ctx, ana.ID, model.ItemComment, c.ID)
	require.NoError(t, err)

	require.NoError(t, users.Delete(ctx, ana.ID))

	var p model.Post
	require.NoError(t, db.First(&p, post.ID).Error)
	assert.Equal(t, int64(1), p.NumLikes)
	var cm model.Comment
	require.NoError(t, db.First(&cm, c.ID).Error)
	assert.Zero(t, cm.NumLikes)

	var n int64
	db.Model(&model.Like{}).Where("user_id = ?", ana.ID).Count(&n)
	assert.Zero(t, n)

	_, err = users.FindByID(ctx, ana.ID)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	assert.ErrorIs(t, users.Delete(ctx, ana.ID), pkg.ErrNotFound)
}
