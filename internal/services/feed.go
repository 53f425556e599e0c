package services

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/paginate"
	"inkwell/internal/repository"
)

// Feed is one page of posts for a listing, newest first.
type Feed struct {
	Posts []models.Post
	Page  paginate.Page

	// Set for the group and author feeds respectively.
	Group  *models.Group
	Author *models.User
}

type FeedService struct {
	posts   repository.PostRepository
	groups  repository.GroupRepository
	users   repository.UserRepository
	perPage int
}

func NewFeedService(posts repository.PostRepository, groups repository.GroupRepository, users repository.UserRepository, perPage int) *FeedService {
	return &FeedService{posts: posts, groups: groups, users: users, perPage: perPage}
}

func (s *FeedService) PerPage() int { return s.perPage }

// Global lists every post.
func (s *FeedService) Global(ctx context.Context, page string) (*Feed, error) {
	return s.assemble(ctx, repository.PostFilter{}, page)
}

// Group lists the posts of the group with the given slug.
func (s *FeedService) Group(ctx context.Context, slug, page string) (*Feed, error) {
	group, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return nil, err
	}
	feed, err := s.assemble(ctx, repository.PostFilter{GroupID: group.ID}, page)
	if err != nil {
		return nil, err
	}
	feed.Group = group
	return feed, nil
}

// Author lists the posts written by username.
func (s *FeedService) Author(ctx context.Context, username, page string) (*Feed, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, err
	}
	feed, err := s.assemble(ctx, repository.PostFilter{AuthorID: author.ID}, page)
	if err != nil {
		return nil, err
	}
	feed.Author = author
	return feed, nil
}

// Followed lists posts by every author actor follows.
func (s *FeedService) Followed(ctx context.Context, actor *models.User, page string) (*Feed, error) {
	if actor == nil {
		return nil, ErrUnauthenticated
	}
	return s.assemble(ctx, repository.PostFilter{FollowerID: actor.ID}, page)
}

func (s *FeedService) assemble(ctx context.Context, f repository.PostFilter, rawPage string) (*Feed, error) {
	total, err := s.posts.Count(ctx, f)
	if err != nil {
		return nil, err
	}
	page := paginate.New(total, s.perPage).GetPage(rawPage)

	posts := []models.Post{}
	if page.Len() > 0 {
		posts, err = s.posts.List(ctx, f, page.Offset(), page.Limit())
		if err != nil {
			return nil, err
		}
	}
	return &Feed{Posts: posts, Page: page}, nil
}
