package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/utils"
)

type SignupInput struct {
	FirstName string `form:"first_name" validate:"max=150"`
	LastName  string `form:"last_name" validate:"max=150"`
	Username  string `form:"username" validate:"required,max=150,username"`
	Email     string `form:"email" validate:"omitempty,email,max=254"`
	Password1 string `form:"password1" validate:"required,min=8,bcrypt"`
	Password2 string `form:"password2" validate:"required,eqfield=Password1"`
}

type PasswordChangeInput struct {
	OldPassword  string `form:"old_password" validate:"required"`
	NewPassword1 string `form:"new_password1" validate:"required,min=8,bcrypt"`
	NewPassword2 string `form:"new_password2" validate:"required,eqfield=NewPassword1"`
}

// AuthService owns account creation and password checks.
type AuthService struct {
	users repository.UserRepository
}

func NewAuthService(users repository.UserRepository) *AuthService {
	return &AuthService{users: users}
}

func (s *AuthService) Signup(ctx context.Context, in SignupInput) (*models.User, error) {
	in.Username = strings.TrimSpace(in.Username)
	in.Email = strings.TrimSpace(in.Email)

	ve := &ValidationError{}
	if err := validate.Struct(&in); err != nil {
		fromValidator(err, ve)
	}
	if err := ve.OrNil(); err != nil {
		return nil, err
	}
	user, err := s.create(ctx, in.Username, in.Password1, false, func(u *models.User) {
		u.FirstName = strings.TrimSpace(in.FirstName)
		u.LastName = strings.TrimSpace(in.LastName)
		u.Email = in.Email
	})
	if errors.Is(err, ErrConflict) {
		ve.Add("username", "A user with that username already exists.")
		return nil, ve
	}
	return user, err
}

// CreateUser is used by operators; it skips form validation except for uniqueness.
func (s *AuthService) CreateUser(ctx context.Context, username, password string, staff bool) (*models.User, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, &ValidationError{Fields: map[string]string{"username": "username and password are required"}}
	}
	if !utils.PasswordFits(password) {
		return nil, &ValidationError{Fields: map[string]string{"password": fmt.Sprintf("password must be at most %d bytes", utils.MaxPasswordBytes)}}
	}
	return s.create(ctx, strings.TrimSpace(username), password, staff, nil)
}

func (s *AuthService) create(ctx context.Context, username, password string, staff bool, fill func(*models.User)) (*models.User, error) {
	hash, err := utils.HashPassword(password)
	if err != nil {
		return nil, err
	}
	user := &models.User{Username: username, Password: hash, IsStaff: staff}
	if fill != nil {
		fill(user)
	}
	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrConflict
		}
		return nil, err
	}
	return user, nil
}

// Authenticate returns the user when the password matches.
func (s *AuthService) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	user, err := s.users.GetByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !utils.CheckPasswordHash(password, user.Password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *AuthService) GetUser(ctx context.Context, id uint) (*models.User, error) {
	return s.users.GetByID(ctx, id)
}

func (s *AuthService) ChangePassword(ctx context.Context, actor *models.User, in PasswordChangeInput) error {
	if actor == nil {
		return ErrUnauthenticated
	}
	ve := &ValidationError{}
	if err := validate.Struct(&in); err != nil {
		fromValidator(err, ve)
	}
	if !utils.CheckPasswordHash(in.OldPassword, actor.Password) {
		ve.Add("old_password", "Your old password was entered incorrectly. Please enter it again.")
	}
	if err := ve.OrNil(); err != nil {
		return err
	}
	hash, err := utils.HashPassword(in.NewPassword1)
	if err != nil {
		return err
	}
	if err := s.users.UpdatePassword(ctx, actor.ID, hash); err != nil {
		return err
	}
	actor.Password = hash
	return nil
}

func (s *AuthService) SetStaff(ctx context.Context, username string, staff bool) error {
	user, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	return s.users.SetStaff(ctx, user.ID, staff)
}
