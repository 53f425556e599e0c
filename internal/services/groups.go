package services

import (
	"context"
	"errors"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type GroupInput struct {
	Title       string `form:"title" validate:"required,max=200"`
	Slug        string `form:"slug" validate:"required,max=50,slug"`
	Description string `form:"description" validate:"required"`
}

// GroupService is the administrative side of groups.
type GroupService struct {
	groups repository.GroupRepository
}

func NewGroupService(groups repository.GroupRepository) *GroupService {
	return &GroupService{groups: groups}
}

func (s *GroupService) Create(ctx context.Context, in GroupInput) (*models.Group, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Slug = strings.TrimSpace(in.Slug)
	in.Description = strings.TrimSpace(in.Description)

	ve := &ValidationError{}
	if err := validate.Struct(&in); err != nil {
		fromValidator(err, ve)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}

	g := &models.Group{Title: in.Title, Slug: in.Slug, Description: in.Description}
	if err := s.groups.Create(ctx, g); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return g, nil
}

// Delete removes the group by slug. Its posts are kept without a group.
func (s *GroupService) Delete(ctx context.Context, slug string) error {
	g, err := s.groups.GetBySlug(ctx, slug)
	if err != nil {
		return err
	}
	return s.groups.Delete(ctx, g.ID)
}

func (s *GroupService) List(ctx context.Context) ([]models.Group, error) {
	return s.groups.List(ctx)
}
