package profile

import (
	"context"
	"testing"
	"time"

	"github.com/VitaminP8/pulse/internal/apperr"
	"github.com/VitaminP8/pulse/internal/auth"
	"github.com/VitaminP8/pulse/internal/edge"
	"github.com/VitaminP8/pulse/internal/engagement"
	"github.com/VitaminP8/pulse/internal/mocks"
	"github.com/VitaminP8/pulse/internal/model"
	"github.com/VitaminP8/pulse/internal/storage/memory"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	users      *memory.UserMemoryStorage
	posts      *memory.PostMemoryStorage
	edges      *memory.EdgeMemoryStorage
	engine     *engagement.Engine
	aggregator *Aggregator
}

func newFixture() *fixture {
	current := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clock := func() time.Time {
		current = current.Add(time.Second)
		return current
	}

	users := memory.NewUserMemoryStorage()
	posts := memory.NewPostMemoryStorage().WithClock(clock)
	comments := memory.NewCommentMemoryStorage(posts)
	edges := memory.NewEdgeMemoryStorage(users, posts)
	engine := engagement.NewEngine(edges, comments)

	return &fixture{
		users:      users,
		posts:      posts,
		edges:      edges,
		engine:     engine,
		aggregator: NewAggregator(engine, posts, users),
	}
}

func (f *fixture) user(t *testing.T, username, bio string) uint {
	u, err := f.users.CreateUser(context.Background(), &model.User{
		Username: username,
		Email:    username + "@example.com",
		FullName: "Test " + username,
		Bio:      bio,
	}, "hash")
	require.NoError(t, err)
	return u.ID
}

func (f *fixture) post(t *testing.T, authorID uint, content string) uint {
	p, err := f.posts.CreatePost(context.Background(), authorID, content)
	require.NoError(t, err)
	return p.ID
}

func (f *fixture) toggle(t *testing.T, rel edge.Relation, actorID, targetID uint) {
	_, err := f.engine.Toggle(context.Background(), rel, actorID, targetID)
	require.NoError(t, err)
}

func TestAssembleProfile(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	alice := f.user(t, "alice", "hello there")
	bob := f.user(t, "bob", "")
	carol := f.user(t, "carol", "")

	f.toggle(t, edge.Follow, bob, alice)
	f.toggle(t, edge.Follow, carol, alice)
	f.toggle(t, edge.Follow, alice, carol)

	older := f.post(t, alice, "first")
	newer := f.post(t, alice, "second")
	f.post(t, bob, "not on alice's profile")
	f.toggle(t, edge.Like, bob, older)

	profile, err := f.aggregator.AssembleProfile(ctx, bob, alice, 0)
	require.NoError(t, err)

	assert.Equal(t, alice, profile.ID)
	assert.Equal(t, "alice", profile.Username)
	assert.Equal(t, "hello there", profile.Bio)
	assert.Equal(t, 2, profile.FollowersCount)
	assert.Equal(t, 1, profile.FollowingCount)
	assert.True(t, profile.IsFollowing)

	require.Len(t, profile.Posts, 2)
	assert.Equal(t, newer, profile.Posts[0].ID)
	assert.Equal(t, older, profile.Posts[1].ID)
	assert.Equal(t, 1, profile.Posts[1].LikeCount)
	assert.True(t, profile.Posts[1].IsLiked)
	assert.False(t, profile.Posts[0].IsLiked)

	t.Run("Viewer perspective", func(t *testing.T) {
		profile, err := f.aggregator.AssembleProfile(ctx, carol, alice, 0)
		require.NoError(t, err)
		assert.True(t, profile.IsFollowing)
		assert.False(t, profile.Posts[1].IsLiked)

		profile, err = f.aggregator.AssembleProfile(ctx, alice, bob, 0)
		require.NoError(t, err)
		assert.False(t, profile.IsFollowing)
		assert.Equal(t, 0, profile.FollowersCount)
	})

	t.Run("Post limit", func(t *testing.T) {
		profile, err := f.aggregator.AssembleProfile(ctx, bob, alice, 1)
		require.NoError(t, err)
		require.Len(t, profile.Posts, 1)
		assert.Equal(t, newer, profile.Posts[0].ID)
	})
}

func TestAssembleProfile_DefaultPostLimit(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	alice := f.user(t, "alice", "")
	for i := 0; i < DefaultPostLimit+3; i++ {
		f.post(t, alice, "post")
	}

	profile, err := f.aggregator.AssembleProfile(ctx, alice, alice, 0)
	require.NoError(t, err)
	assert.Len(t, profile.Posts, DefaultPostLimit)

	profile, err = NewAggregator(f.engine, f.posts, f.users).WithPostLimit(4).AssembleProfile(ctx, alice, alice, 0)
	require.NoError(t, err)
	assert.Len(t, profile.Posts, 4)
}

func TestAssembleProfile_Errors(t *testing.T) {
	ctx := context.Background()
	f := newFixture()
	alice := f.user(t, "alice", "")

	t.Run("Subject not found", func(t *testing.T) {
		_, err := f.aggregator.AssembleProfile(ctx, alice, 999, 0)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))

		_, err = f.aggregator.AssembleHoverSummary(ctx, alice, 999)
		assert.True(t, apperr.Is(err, apperr.KindNotFound))
	})

	t.Run("Anonymous viewer", func(t *testing.T) {
		users := mocks.NewMockUserStorage()
		aggregator := NewAggregator(f.engine, f.posts, users)

		_, err := aggregator.AssembleProfile(ctx, auth.Anonymous, alice, 0)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		_, err = aggregator.AssembleHoverSummary(ctx, auth.Anonymous, alice)
		assert.True(t, apperr.Is(err, apperr.KindUnauthorized))
		assert.Equal(t, 0, users.CallCount())
	})

	t.Run("Store unavailable", func(t *testing.T) {
		edges := mocks.NewMockEdgeStorage()
		edges.Err = apperr.Unavailable("CountByTarget", "connection refused", nil)
		engine := engagement.NewEngine(edges, mocks.NewMockCommentStorage())
		aggregator := NewAggregator(engine, f.posts, f.users)

		_, err := aggregator.AssembleProfile(ctx, alice, alice, 0)
		assert.True(t, apperr.Is(err, apperr.KindUnavailable))

		_, err = aggregator.AssembleHoverSummary(ctx, alice, alice)
		assert.True(t, apperr.Is(err, apperr.KindUnavailable))
	})
}

func TestAssembleHoverSummary(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	alice := f.user(t, "alice", "bio of alice")
	bob := f.user(t, "bob", "")
	carol := f.user(t, "carol", "")
	f.toggle(t, edge.Follow, bob, alice)
	f.toggle(t, edge.Follow, alice, carol)

	hover, err := f.aggregator.AssembleHoverSummary(ctx, bob, alice)
	require.NoError(t, err)
	assert.Equal(t, "bio of alice", hover.Bio)
	assert.Equal(t, 1, hover.FollowersCount)
	assert.True(t, hover.IsFollowing)

	// Счетчики карточки совпадают с полным профилем
	profile, err := f.aggregator.AssembleProfile(ctx, bob, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, profile.FollowersCount, hover.FollowersCount)
	assert.Equal(t, profile.IsFollowing, hover.IsFollowing)
}

func TestAssembleProfile_CardinalityMatchesEdges(t *testing.T) {
	ctx := context.Background()
	f := newFixture()

	alice := f.user(t, "alice", "")
	postID := f.post(t, alice, "popular")

	const n = 6
	err := f.edges.InTx(ctx, func(tx edge.EdgeTx) error {
		for i := uint(1); i <= n; i++ {
			if err := tx.Insert(ctx, edge.Follow, 100+i, alice); err != nil {
				return err
			}
			if err := tx.Insert(ctx, edge.Like, 100+i, postID); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	profile, err := f.aggregator.AssembleProfile(ctx, alice, alice, 0)
	require.NoError(t, err)
	assert.Equal(t, n, profile.FollowersCount)
	assert.Equal(t, n, profile.Posts[0].LikeCount)

	hover, err := f.aggregator.AssembleHoverSummary(ctx, alice, alice)
	require.NoError(t, err)
	assert.Equal(t, n, hover.FollowersCount)
}
