package services

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/models"
	"inkwell/internal/testutil"
)

func TestFeedGlobal_Pagination(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "auth")
	for i := 0; i < 11; i++ {
		testutil.CreatePost(t, e.db, author, nil, fmt.Sprintf("post %d", i))
	}

	first, err := e.feed.Global(ctx, "")
	require.NoError(t, err)
	assert.Len(t, first.Posts, 10)
	assert.Equal(t, 1, first.Page.Number)
	assert.Equal(t, 2, first.Page.NumPages())

	second, err := e.feed.Global(ctx, "2")
	require.NoError(t, err)
	assert.Len(t, second.Posts, 1)
	assert.Equal(t, "post 0", second.Posts[0].Text)

	beyond, err := e.feed.Global(ctx, "7")
	require.NoError(t, err)
	assert.Equal(t, 2, beyond.Page.Number)
	assert.Equal(t, second.Posts[0].ID, beyond.Posts[0].ID)

	junk, err := e.feed.Global(ctx, "last")
	require.NoError(t, err)
	assert.Equal(t, 1, junk.Page.Number)
}

func TestFeedGlobal_ExactMultiple(t *testing.T) {
	e := newEnv(t, 5)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "auth")
	for i := 0; i < 10; i++ {
		testutil.CreatePost(t, e.db, author, nil, fmt.Sprintf("post %d", i))
	}

	feed, err := e.feed.Global(ctx, "3")
	require.NoError(t, err)
	assert.Equal(t, 2, feed.Page.NumPages())
	assert.Equal(t, 2, feed.Page.Number)
	assert.Len(t, feed.Posts, 5)
}

func TestFeedGlobal_Empty(t *testing.T) {
	e := newEnv(t, 10)

	feed, err := e.feed.Global(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
	assert.Equal(t, 1, feed.Page.NumPages())
}

func TestFeedGlobal_NewestFirst(t *testing.T) {
	e := newEnv(t, 10)
	author := testutil.CreateUser(t, e.db, "auth")
	first := testutil.CreatePost(t, e.db, author, nil, "first")
	second := testutil.CreatePost(t, e.db, author, nil, "second")

	feed, err := e.feed.Global(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 2)
	assert.Equal(t, second.ID, feed.Posts[0].ID)
	assert.Equal(t, first.ID, feed.Posts[1].ID)
	assert.Equal(t, "auth", feed.Posts[0].Author.Username)
}

func TestFeedGroup(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "auth")
	cats := testutil.CreateGroup(t, e.db, "Cats", "cats")
	dogs := testutil.CreateGroup(t, e.db, "Dogs", "dogs")
	inCats := testutil.CreatePost(t, e.db, author, cats, "meow")
	testutil.CreatePost(t, e.db, author, dogs, "woof")
	testutil.CreatePost(t, e.db, author, nil, "no group")

	feed, err := e.feed.Group(ctx, "cats", "")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, inCats.ID, feed.Posts[0].ID)
	require.NotNil(t, feed.Group)
	assert.Equal(t, "Cats", feed.Group.Title)

	_, err = e.feed.Group(ctx, "birds", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedAuthor(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	alice := testutil.CreateUser(t, e.db, "alice")
	bob := testutil.CreateUser(t, e.db, "bob")
	mine := testutil.CreatePost(t, e.db, alice, nil, "alice writes")
	testutil.CreatePost(t, e.db, bob, nil, "bob writes")

	feed, err := e.feed.Author(ctx, "alice", "")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, mine.ID, feed.Posts[0].ID)
	assert.Equal(t, alice.ID, feed.Author.ID)

	_, err = e.feed.Author(ctx, "nobody", "")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFeedFollowed_Exclusivity(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	follower := testutil.CreateUser(t, e.db, "follower")
	bystander := testutil.CreateUser(t, e.db, "bystander")
	author := testutil.CreateUser(t, e.db, "author")
	post := testutil.CreatePost(t, e.db, author, nil, "news")

	_, err := e.subs.Follow(ctx, follower, author)
	require.NoError(t, err)

	feed, err := e.feed.Followed(ctx, follower, "")
	require.NoError(t, err)
	require.Len(t, feed.Posts, 1)
	assert.Equal(t, post.ID, feed.Posts[0].ID)

	other, err := e.feed.Followed(ctx, bystander, "")
	require.NoError(t, err)
	assert.Empty(t, other.Posts)

	own, err := e.feed.Followed(ctx, author, "")
	require.NoError(t, err)
	assert.Empty(t, own.Posts)

	_, err = e.subs.Unfollow(ctx, follower, author)
	require.NoError(t, err)
	after, err := e.feed.Followed(ctx, follower, "")
	require.NoError(t, err)
	assert.Empty(t, after.Posts)
}

func TestFeedFollowed_Anonymous(t *testing.T) {
	e := newEnv(t, 10)

	_, err := e.feed.Followed(context.Background(), (*models.User)(nil), "")
	assert.ErrorIs(t, err, ErrUnauthenticated)
}
