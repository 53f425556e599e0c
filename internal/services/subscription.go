package services

import (
	"context"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

// SubscriptionService manages follow edges between users and authors.
// Following is idempotent and following oneself is silently ignored.
type SubscriptionService struct {
	follows repository.FollowRepository
	users   repository.UserRepository
}

func NewSubscriptionService(follows repository.FollowRepository, users repository.UserRepository) *SubscriptionService {
	return &SubscriptionService{follows: follows, users: users}
}

// Follow subscribes user to author and reports whether a new edge was created.
func (s *SubscriptionService) Follow(ctx context.Context, user, author *models.User) (bool, error) {
	if user == nil {
		return false, ErrUnauthenticated
	}
	if user.ID == author.ID {
		return false, nil
	}
	return s.follows.Create(ctx, user.ID, author.ID)
}

// Unfollow removes the edge and reports whether one existed.
func (s *SubscriptionService) Unfollow(ctx context.Context, user, author *models.User) (bool, error) {
	if user == nil {
		return false, ErrUnauthenticated
	}
	return s.follows.Delete(ctx, user.ID, author.ID)
}

// FollowUsername resolves the author by username and follows them.
func (s *SubscriptionService) FollowUsername(ctx context.Context, user *models.User, username string) (*models.User, bool, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	created, err := s.Follow(ctx, user, author)
	return author, created, err
}

// UnfollowUsername resolves the author by username and unfollows them.
func (s *SubscriptionService) UnfollowUsername(ctx context.Context, user *models.User, username string) (*models.User, bool, error) {
	author, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return nil, false, err
	}
	removed, err := s.Unfollow(ctx, user, author)
	return author, removed, err
}

// IsFollowing is false for anonymous users.
func (s *SubscriptionService) IsFollowing(ctx context.Context, user, author *models.User) (bool, error) {
	if user == nil || author == nil {
		return false, nil
	}
	return s.follows.Exists(ctx, user.ID, author.ID)
}

type FollowStats struct {
	Followers int64
	Following int64
}

func (s *SubscriptionService) Stats(ctx context.Context, user *models.User) (FollowStats, error) {
	var st FollowStats
	var err error
	if st.Followers, err = s.follows.CountFollowers(ctx, user.ID); err != nil {
		return st, err
	}
	if st.Following, err = s.follows.CountFollowing(ctx, user.ID); err != nil {
		return st, err
	}
	return st, nil
}
