package services

import (
	"gorm.io/gorm"

	"inkwell/internal/repository"
)

// Registry wires every service to one database handle.
type Registry struct {
	Feed    *FeedService
	Subs    *SubscriptionService
	Content *ContentService
	Groups  *GroupService
	Auth    *AuthService
	Media   *MediaStore
}

func NewRegistry(db *gorm.DB, perPage int, mediaDir string) *Registry {
	users := repository.NewUserRepository(db)
	groups := repository.NewGroupRepository(db)
	posts := repository.NewPostRepository(db)
	comments := repository.NewCommentRepository(db)
	follows := repository.NewFollowRepository(db)
	media := NewMediaStore(mediaDir)

	return &Registry{
		Feed:    NewFeedService(posts, groups, users, perPage),
		Subs:    NewSubscriptionService(follows, users),
		Content: NewContentService(posts, comments, groups, media),
		Groups:  NewGroupService(groups),
		Auth:    NewAuthService(users),
		Media:   media,
	}
}
