package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"Cerezo_Blog/internal/model"
	"Cerezo_Blog/internal/pkg"
	"Cerezo_Blog/internal/repository/mysql"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func engagementRepo(e *env) *mysql.EngagementRepository {
	return &mysql.EngagementRepository{DB: e.db}
}

type fakePublisher struct {
	keys   []string
	events []string
}

func (p *fakePublisher) Publish(_ context.Context, msgs ...pkg.EngagementMessage) error {
	for _, m := range msgs {
		p.keys = append(p.keys, m.Key)
		p.events = append(p.events, m.Event)
	}
	return nil
}

func TestOutboxRelayerDrains(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ana := e.register(t, "ana", model.RoleUser)
	post := e.seedPost(t, ana.ID)
	likes := NewEngagementService(engagementRepo(e))
	for i := 0; i < 3; i++ {
		_, err := likes.TogglePostLike(ctx, ana.ID, post.ID)
		require.NoError(t, err)
	}

	pub := &fakePublisher{}
	relayer := NewOutboxRelayer(&mysql.OutboxRepository{DB: e.db}, KafkaSender(pub), 10, time.Second)
	assert.Equal(t, 3, relayer.DrainOnce(ctx))
	assert.Equal(t, []string{"Post:1", "Post:1", "Post:1"}, pub.keys)
	assert.Equal(t, []string{"like", "unlike", "like"}, pub.events)
	assert.Zero(t, relayer.DrainOnce(ctx))
}

func TestOutboxRelayerRetriesFailures(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ana := e.register(t, "ana", model.RoleUser)
	post := e.seedPost(t, ana.ID)
	_, err := NewEngagementService(engagementRepo(e)).TogglePostLike(ctx, ana.ID, post.ID)
	require.NoError(t, err)

	failing := func(context.Context, *model.EngagementOutbox) error { return errors.New("broker down") }
	repo := &mysql.OutboxRepository{DB: e.db}
	assert.Zero(t, NewOutboxRelayer(repo, failing, 10, time.Second).DrainOnce(ctx))

	var ob model.EngagementOutbox
	require.NoError(t, e.db.First(&ob).Error)
	assert.Equal(t, model.OutboxFailed, ob.Status)
	assert.Equal(t, 1, ob.Retry)

	assert.Equal(t, 1, NewOutboxRelayer(repo, LogSender, 10, time.Second).DrainOnce(ctx))
}

func TestLikeCountReconciler(t *testing.T) {
	ctx := context.Background()
	e := newEnv(t)
	ana := e.register(t, "ana", model.RoleUser)
	likes := NewEngagementService(engagementRepo(e))
	var posts []*model.Post
	for i := 0; i < 3; i++ {
		p := e.seedPost(t, ana.ID)
		posts = append(posts, p)
		_, err := likes.TogglePostLike(ctx, ana.ID, p.ID)
		require.NoError(t, err)
	}
	c := &model.Comment{PostID: posts[0].ID, UserID: ana.ID, Content: "hi"}
	require.NoError(t, (&mysql.CommentRepository{DB: e.db}).CreateWithCounter(ctx, c))

	require.NoError(t, e.db.Model(&model.Post{}).Where("id = ?", posts[1].ID).UpdateColumn("num_likes", 9).Error)
	require.NoError(t, e.db.Model(&model.Comment{}).Where("id = ?", c.ID).UpdateColumn("num_likes", 2).Error)

	r := NewLikeCountReconciler(&mysql.LikeCountReconcilerRepo{DB: e.db}, 1, time.Minute)
	fixed, err := r.ReconcileOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fixed)

	var p model.Post
	require.NoError(t, e.db.First(&p, posts[1].ID).Error)
	assert.Equal(t, int64(1), p.NumLikes)
	var cm model.Comment
	require.NoError(t, e.db.First(&cm, c.ID).Error)
	assert.Zero(t, cm.NumLikes)

	fixed, err = r.ReconcileOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, fixed)
}
