package mysql

import (
	"context"
	"testing"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestToggleLikeIsAnIdempotentPair(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	ana := seedUser(t, db, "ana", model.RoleUser)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	repo := &EngagementRepository{DB: db}
	users := &UserRepository{DB: db}

	res, err := repo.ToggleLike(ctx, ana.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: true, Count: 1}, res)

	liked, err := users.LikedItems(ctx, ana.ID)
	require.NoError(t, err)
	require.Len(t, liked, 1)
	assert.Equal(t, post.ID, liked[0].ItemID)
	assert.Equal(t, model.ItemPost, liked[0].ItemType)

	likers, err := repo.LikerIDs(ctx, model.ItemPost, []uint64{post.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint64{ana.ID}, likers[post.ID])

	res, err = repo.ToggleLike(ctx, ana.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: false, Count: 0}, res)

	liked, err = users.LikedItems(ctx, ana.ID)
	require.NoError(t, err)
	assert.Empty(t, liked)

	var stored model.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Zero(t, stored.NumLikes)
}

func TestToggleLikeCountsEveryActor(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	repo := &EngagementRepository{DB: db}

	for i, name := range []string{"a1", "a2", "a3"} {
		u := seedUser(t, db, name, model.RoleUser)
		res, err := repo.ToggleLike(ctx, u.ID, model.ItemPost, post.ID)
		require.NoError(t, err)
		assert.Equal(t, int64(i+1), res.Count)
	}
	ok, err := repo.IsLiked(ctx, admin.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleLikeOnComment(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	c := &model.Comment{PostID: post.ID, UserID: admin.ID, Content: "first"}
	require.NoError(t, (&CommentRepository{DB: db}).CreateWithCounter(ctx, c))
	repo := &EngagementRepository{DB: db}

	res, err := repo.ToggleLike(ctx, admin.ID, model.ItemComment, c.ID)
	require.NoError(t, err)
	assert.True(t, res.Active)
	assert.Equal(t, int64(1), res.Count)

	// 同一 id 的帖子点赞互不影响
	ok, err := repo.IsLiked(ctx, admin.ID, model.ItemPost, c.ID)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleLikeMissingItem(t *testing.T) {
	db := newTestDB(t)
	u := seedUser(t, db, "ana", model.RoleUser)
	repo := &EngagementRepository{DB: db}

	_, err := repo.ToggleLike(context.Background(), u.ID, model.ItemPost, 404)
	assert.ErrorIs(t, err, pkg.ErrNotFound)
	_, err = repo.ToggleLike(context.Background(), u.ID, model.ItemComment, 404)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	var n int64
	db.Model(&model.EngagementOutbox{}).Count(&n)
	assert.Zero(t, n)
}

func TestToggleLikeFloorsCounterAtZero(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	repo := &EngagementRepository{DB: db}

	_, err := repo.ToggleLike(ctx, admin.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	require.NoError(t, db.Model(&model.Post{}).Where("id = ?", post.ID).UpdateColumn("num_likes", 0).Error)

	res, err := repo.ToggleLike(ctx, admin.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: false, Count: 0}, res)

	var stored model.Post
	require.NoError(t, db.First(&stored, post.ID).Error)
	assert.Zero(t, stored.NumLikes)
}

func TestToggleWritesOutbox(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	post := seedPost(t, db, admin.ID, "Hello", true, false)
	repo := &EngagementRepository{DB: db}

	_, err := repo.ToggleLike(ctx, admin.ID, model.ItemPost, post.ID)
	require.NoError(t, err)
	_, err = repo.ToggleLike(ctx, admin.ID, model.ItemPost, post.ID)
	require.NoError(t, err)

	rows, err := (&OutboxRepository{DB: db}).List(ctx, 10, 5)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "like", rows[0].EventType)
	assert.Equal(t, "unlike", rows[1].EventType)
	assert.Equal(t, post.ID, rows[0].ItemID)
	assert.Contains(t, rows[0].Payload, `"count":1`)
}

func TestToggleAttendance(t *testing.T) {
	ctx := context.Background()
	db := newTestDB(t)
	admin := seedUser(t, db, "admin", model.RoleAdmin)
	ana := seedUser(t, db, "ana", model.RoleUser)
	events := &EventRepository{DB: db}
	open := &model.Event{Title: "Meetup", Description: "d", Date: time.Now().Add(24 * time.Hour), Location: "Madrid", AllowsAttendance: true, CreatedBy: admin.ID}
	closed := &model.Event{Title: "Closed", Description: "d", Date: time.Now(), Location: "Lima", CreatedBy: admin.ID}
	require.NoError(t, events.Create(ctx, open))
	require.NoError(t, events.Create(ctx, closed))
	repo := &EngagementRepository{DB: db}

	res, err := repo.ToggleAttendance(ctx, ana.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: true, Count: 1}, res)
	res, err = repo.ToggleAttendance(ctx, admin.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: true, Count: 2}, res)
	res, err = repo.ToggleAttendance(ctx, ana.ID, open.ID)
	require.NoError(t, err)
	assert.Equal(t, ToggleResult{Active: false, Count: 1}, res)

	_, err = repo.ToggleAttendance(ctx, admin.ID, closed.ID)
	assert.ErrorIs(t, err, pkg.ErrAttendanceDisabled)
	_, err = repo.ToggleAttendance(ctx, ana.ID, 999)
	assert.ErrorIs(t, err, pkg.ErrNotFound)

	attendees, err := events.Attendees(ctx, []uint64{open.ID, closed.ID})
	require.NoError(t, err)
	assert.Equal(t, []uint64{admin.ID}, attendees[open.ID])
	assert.Empty(t, attendees[closed.ID])
}
