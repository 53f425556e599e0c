package services

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"inkwell/internal/testutil"
)

func TestCreatePost(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")
	group := testutil.CreateGroup(t, e.db, "Cats", "cats")

	post, err := e.content.CreatePost(ctx, author, PostInput{
		Text:  "  hello  ",
		Group: strconv.FormatUint(uint64(group.ID), 10),
	})
	require.NoError(t, err)
	assert.Equal(t, "hello", post.Text)
	require.NotNil(t, post.GroupID)
	assert.Equal(t, group.ID, *post.GroupID)
	assert.False(t, post.PubDate.IsZero())

	_, err = e.content.CreatePost(ctx, nil, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
}

func TestCreatePost_Validation(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")

	_, err := e.content.CreatePost(ctx, author, PostInput{Text: "   "})
	ve, ok := AsValidation(err)
	require.True(t, ok)
	assert.Equal(t, "This field is required.", ve.Fields["text"])

	_, err = e.content.CreatePost(ctx, author, PostInput{Text: "ok", Group: "999"})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields["group"], "Select a valid choice")

	_, err = e.content.CreatePost(ctx, author, PostInput{Text: "ok", Group: "abc"})
	_, ok = AsValidation(err)
	assert.True(t, ok)

	_, err = e.content.CreatePost(ctx, author, PostInput{Text: "ok", Image: []byte("plain text")})
	ve, ok = AsValidation(err)
	require.True(t, ok)
	assert.Contains(t, ve.Fields, "image")

	feed, err := e.feed.Global(ctx, "")
	require.NoError(t, err)
	assert.Empty(t, feed.Posts)
}

func TestCreatePost_Image(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")

	post, err := e.content.CreatePost(ctx, author, PostInput{Text: "pic", Image: gifPixel})
	require.NoError(t, err)
	assert.Regexp(t, `^posts/[0-9a-f-]+\.gif$`, post.Image)
	assert.FileExists(t, filepath.Join(e.media.Root(), post.Image))

	replaced, err := e.content.UpdatePost(ctx, author, post.ID, PostInput{Text: "pic 2", Image: gifPixel})
	require.NoError(t, err)
	assert.NotEqual(t, post.Image, replaced.Image)
	assert.FileExists(t, filepath.Join(e.media.Root(), replaced.Image))
	assert.NoFileExists(t, filepath.Join(e.media.Root(), post.Image))

	kept, err := e.content.UpdatePost(ctx, author, post.ID, PostInput{Text: "pic 3"})
	require.NoError(t, err)
	assert.Equal(t, replaced.Image, kept.Image)

	_, err = e.content.DeletePost(ctx, author, post.ID)
	require.NoError(t, err)
	_, statErr := os.Stat(filepath.Join(e.media.Root(), replaced.Image))
	assert.True(t, os.IsNotExist(statErr))
}

// jamImage swaps a stored image for a non-empty directory so removing it fails.
func jamImage(t *testing.T, root, name string) {
	t.Helper()
	path := filepath.Join(root, name)
	require.NoError(t, os.Remove(path))
	require.NoError(t, os.MkdirAll(filepath.Join(path, "keep"), 0o755))
}

func TestPostImage_CleanupFailureIsReported(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")

	post, err := e.content.CreatePost(ctx, author, PostInput{Text: "pic", Image: gifPixel})
	require.NoError(t, err)
	jamImage(t, e.media.Root(), post.Image)

	// 替换图片：帖子已更新，旧文件删不掉要报出来
	replaced, err := e.content.UpdatePost(ctx, author, post.ID, PostInput{Text: "pic 2", Image: gifPixel})
	ce, ok := AsCleanup(err)
	require.True(t, ok, "err = %v", err)
	assert.Contains(t, ce.Error(), "remove image")
	require.NotNil(t, replaced)
	assert.Equal(t, "pic 2", replaced.Text)
	assert.NotEqual(t, post.Image, replaced.Image)

	jamImage(t, e.media.Root(), replaced.Image)
	deleted, err := e.content.DeletePost(ctx, author, post.ID)
	_, ok = AsCleanup(err)
	require.True(t, ok, "err = %v", err)
	assert.Equal(t, post.ID, deleted.ID)
	_, err = e.content.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestAsCleanup_IgnoresJoinedFailure(t *testing.T) {
	cleanup := &CleanupError{Err: errors.New("remove image: busy")}
	_, ok := AsCleanup(cleanup)
	assert.True(t, ok)

	joined := errors.Join(ErrNotFound, cleanup)
	_, ok = AsCleanup(joined)
	assert.False(t, ok)
	assert.ErrorIs(t, joined, ErrNotFound)
	assert.ErrorAs(t, joined, &cleanup)

	_, ok = AsCleanup(nil)
	assert.False(t, ok)
}

func TestUpdatePost_Forbidden(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")
	other := testutil.CreateUser(t, e.db, "other")
	post := testutil.CreatePost(t, e.db, author, nil, "original")

	got, err := e.content.UpdatePost(ctx, other, post.ID, PostInput{Text: "hacked"})
	assert.ErrorIs(t, err, ErrForbidden)
	require.NotNil(t, got)
	assert.Equal(t, post.ID, got.ID)

	_, err = e.content.UpdatePost(ctx, nil, post.ID, PostInput{Text: "hacked"})
	assert.ErrorIs(t, err, ErrForbidden)

	stored, err := e.content.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "original", stored.Text)
}

func TestUpdatePost_Author(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")
	group := testutil.CreateGroup(t, e.db, "Cats", "cats")
	post := testutil.CreatePost(t, e.db, author, group, "original")

	updated, err := e.content.UpdatePost(ctx, author, post.ID, PostInput{Text: "edited"})
	require.NoError(t, err)
	assert.Equal(t, "edited", updated.Text)
	assert.Nil(t, updated.GroupID)
	assert.Equal(t, author.ID, updated.AuthorID)
	assert.True(t, post.PubDate.Equal(updated.PubDate))

	_, err = e.content.UpdatePost(ctx, author, post.ID, PostInput{Text: ""})
	_, ok := AsValidation(err)
	assert.True(t, ok)
	stored, err := e.content.GetPost(ctx, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "edited", stored.Text)

	_, err = e.content.UpdatePost(ctx, author, 9999, PostInput{Text: "x"})
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeletePost(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")
	other := testutil.CreateUser(t, e.db, "other")
	post := testutil.CreatePost(t, e.db, author, nil, "bye")
	_, err := e.content.AddComment(ctx, other, post.ID, CommentInput{Text: "nice"})
	require.NoError(t, err)

	got, err := e.content.DeletePost(ctx, other, post.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, post.ID, got.ID)
	_, err = e.content.GetPost(ctx, post.ID)
	require.NoError(t, err)

	got, err = e.content.DeletePost(ctx, author, post.ID)
	require.NoError(t, err)
	assert.Equal(t, "bye", got.Text)

	_, err = e.content.GetPost(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	_, err = e.content.Detail(ctx, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = e.content.DeletePost(ctx, author, post.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestComments(t *testing.T) {
	e := newEnv(t, 10)
	ctx := context.Background()
	author := testutil.CreateUser(t, e.db, "author")
	reader := testutil.CreateUser(t, e.db, "reader")
	post := testutil.CreatePost(t, e.db, author, nil, "post")

	first, err := e.content.AddComment(ctx, reader, post.ID, CommentInput{Text: "first"})
	require.NoError(t, err)
	_, err = e.content.AddComment(ctx, author, post.ID, CommentInput{Text: "second"})
	require.NoError(t, err)

	_, err = e.content.AddComment(ctx, reader, post.ID, CommentInput{Text: "  "})
	_, ok := AsValidation(err)
	assert.True(t, ok)
	_, err = e.content.AddComment(ctx, nil, post.ID, CommentInput{Text: "anon"})
	assert.ErrorIs(t, err, ErrUnauthenticated)
	_, err = e.content.AddComment(ctx, reader, 9999, CommentInput{Text: "lost"})
	assert.ErrorIs(t, err, ErrNotFound)

	detail, err := e.content.Detail(ctx, post.ID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, "first", detail.Comments[0].Text)
	assert.Equal(t, "reader", detail.Comments[0].Author.Username)
	assert.EqualValues(t, 1, detail.AuthorPostsCount)

	postID, err := e.content.DeleteComment(ctx, author, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)
	assert.Equal(t, post.ID, postID)

	postID, err = e.content.DeleteComment(ctx, reader, first.ID)
	require.NoError(t, err)
	assert.Equal(t, post.ID, postID)

	detail, err = e.content.Detail(ctx, post.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Comments, 1)
}
