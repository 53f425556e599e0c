package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"inkwell/internal/access"
	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// PostInput is the submitted post form. Group is the raw form value and may be empty.
type PostInput struct {
	Text  string `form:"text" validate:"required"`
	Group string `form:"group"`
	Image []byte `form:"-"`
}

// CommentInput is the submitted comment form.
type CommentInput struct {
	Text string `form:"text" validate:"required"`
}

// PostDetail is a post with its comments, oldest first.
type PostDetail struct {
	Post             *models.Post
	Comments         []models.Comment
	AuthorPostsCount int64
}

// ContentService creates, edits and deletes posts and comments.
// Only the author of a post or comment may change it; other actors get ErrForbidden
// and nothing is written.
type ContentService struct {
	posts    repository.PostRepository
	comments repository.CommentRepository
	groups   repository.GroupRepository
	media    *MediaStore
}

func NewContentService(posts repository.PostRepository, comments repository.CommentRepository, groups repository.GroupRepository, media *MediaStore) *ContentService {
	return &ContentService{posts: posts, comments: comments, groups: groups, media: media}
}

func (s *ContentService) GetPost(ctx context.Context, id uint) (*models.Post, error) {
	return s.posts.GetByID(ctx, id)
}

func (s *ContentService) Detail(ctx context.Context, id uint) (*PostDetail, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	comments, err := s.comments.ListByPost(ctx, id)
	if err != nil {
		return nil, err
	}
	count, err := s.posts.Count(ctx, repository.PostFilter{AuthorID: post.AuthorID})
	if err != nil {
		return nil, err
	}
	return &PostDetail{Post: post, Comments: comments, AuthorPostsCount: count}, nil
}

// cleanPost validates in and resolves the group reference.
func (s *ContentService) cleanPost(ctx context.Context, in *PostInput) (*uint, error) {
	in.Text = strings.TrimSpace(in.Text)

	ve := &ValidationError{}
	if err := validate.Struct(in); err != nil {
		fromValidator(err, ve)
	}

	var groupID *uint
	if raw := strings.TrimSpace(in.Group); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 0)
		if err != nil {
			ve.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else if _, err := s.groups.GetByID(ctx, uint(id)); err != nil {
			if !errors.Is(err, ErrNotFound) {
				return nil, err
			}
			ve.Add("group", "Select a valid choice. That choice is not one of the available choices.")
		} else {
			gid := uint(id)
			groupID = &gid
		}
	}

	if len(in.Image) > 0 {
		if _, err := s.media.Check(in.Image); err != nil {
			ve.Add("image", "Upload a valid image. The file you uploaded was either not an image or a corrupted image.")
		}
	}
	return groupID, ve.OrNil()
}

// CreatePost saves a new post by actor. Invalid input writes nothing.
func (s *ContentService) CreatePost(ctx context.Context, actor *models.User, in PostInput) (*models.Post, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	groupID, err := s.cleanPost(ctx, &in)
	if err != nil {
		return nil, err
	}

	post := &models.Post{Text: in.Text, AuthorID: actor.ID, GroupID: groupID}
	if len(in.Image) > 0 {
		if post.Image, err = s.media.Save(in.Image); err != nil {
			return nil, err
		}
	}
	if err := s.posts.Create(ctx, post); err != nil {
		return nil, errors.Join(err, s.removeMedia(post.Image))
	}
	return post, nil
}

// CleanupError is returned together with a successful result when a stored
// image could not be removed afterwards. The write itself was committed.
type CleanupError struct {
	Err error
}

func (e *CleanupError) Error() string { return "media cleanup: " + e.Err.Error() }

func (e *CleanupError) Unwrap() error { return e.Err }

// AsCleanup reports whether err only signals leftover media files. A
// CleanupError joined onto a real failure does not count.
func AsCleanup(err error) (*CleanupError, bool) {
	ce, ok := err.(*CleanupError) //nolint:errorlint // top level only
	return ce, ok
}

func (s *ContentService) removeMedia(name string) error {
	if err := s.media.Remove(name); err != nil {
		return &CleanupError{Err: err}
	}
	return nil
}

// UpdatePost replaces text, group and, when a new one is uploaded, the image.
func (s *ContentService) UpdatePost(ctx context.Context, actor *models.User, id uint, in PostInput) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(actor, post) {
		return post, ErrForbidden
	}
	groupID, err := s.cleanPost(ctx, &in)
	if err != nil {
		return post, err
	}

	oldImage := post.Image
	updated := *post
	updated.Text = in.Text
	updated.GroupID = groupID
	if len(in.Image) > 0 {
		if updated.Image, err = s.media.Save(in.Image); err != nil {
			return post, err
		}
	}
	if err := s.posts.Update(ctx, &updated); err != nil {
		if updated.Image != oldImage {
			err = errors.Join(err, s.removeMedia(updated.Image))
		}
		return post, err
	}
	fresh, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if updated.Image != oldImage {
		return fresh, s.removeMedia(oldImage)
	}
	return fresh, nil
}

// DeletePost removes the post and its comments. The returned post is the
// state before deletion, also on ErrForbidden and *CleanupError.
func (s *ContentService) DeletePost(ctx context.Context, actor *models.User, id uint) (*models.Post, error) {
	post, err := s.posts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !access.CanModify(actor, post) {
		return post, ErrForbidden
	}
	if err := s.posts.Delete(ctx, id); err != nil {
		return post, err
	}
	return post, s.removeMedia(post.Image)
}

// AddComment attaches a comment by actor to the post.
func (s *ContentService) AddComment(ctx context.Context, actor *models.User, postID uint, in CommentInput) (*models.Comment, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return nil, err
	}

	in.Text = strings.TrimSpace(in.Text)
	ve := &ValidationError{}
	if err := validate.Struct(&in); err != nil {
		fromValidator(err, ve)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	comment := &models.Comment{PostID: postID, AuthorID: actor.ID, Text: in.Text}
	if err := s.comments.Create(ctx, comment); err != nil {
		return nil, err
	}
	return comment, nil
}

// DeleteComment removes the comment if actor wrote it. The post id is
// returned whenever the comment exists so callers can go back to the post.
func (s *ContentService) DeleteComment(ctx context.Context, actor *models.User, commentID uint) (uint, error) {
	comment, err := s.comments.GetByID(ctx, commentID)
	if err != nil {
		return 0, err
	}
	if !access.CanModify(actor, comment) {
		return comment.PostID, ErrForbidden
	}
	if err := s.comments.Delete(ctx, commentID); err != nil {
		return comment.PostID, err
	}
	return comment.PostID, nil
}
