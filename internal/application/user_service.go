package application

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/go-ddd-blog/internal/domain/entity"
	repo "github.com/oksasatya/go-ddd-blog/internal/domain/repository"
	"github.com/oksasatya/go-ddd-blog/pkg/apperror"
	"github.com/oksasatya/go-ddd-blog/pkg/helpers"
)

// UserService is the user directory.
type UserService struct {
	Store      repo.Store
	BcryptCost int
	Logger     *logrus.Logger

	// optional
	Search   SearchIndex
	Avatars  ObjectStorage
	Sessions SessionStore
}

func NewUserService(store repo.Store, bcryptCost int, logger *logrus.Logger) *UserService {
	return &UserService{Store: store, BcryptCost: bcryptCost, Logger: logger}
}

type CreateUserInput struct {
	Name        string
	Email       string
	PhoneNumber string
	Password    string
	Description string
	Role        entity.Role
}

// UpdateUserInput carries optional changes; nil fields are left untouched.
type UpdateUserInput struct {
	Name        *string
	Email       *string
	PhoneNumber *string
	Description *string
	Password    *string
}

func (s *UserService) GetByID(ctx context.Context, id int64) (*entity.User, error) {
	u, err := s.Store.Users().GetByID(ctx, id)
	if err != nil {
		return nil, lookup(err, "User", id)
	}
	return u, nil
}

// FindByEmail reports found=false instead of an error when no user has the email.
func (s *UserService) FindByEmail(ctx context.Context, email string) (*entity.User, bool, error) {
	u, err := s.Store.Users().GetByEmail(ctx, strings.TrimSpace(email))
	if errors.Is(err, repo.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, apperror.Wrap(err, "load user")
	}
	return u, true, nil
}

// List returns one window of users and the total count.
func (s *UserService) List(ctx context.Context, page Page) ([]*entity.User, int, error) {
	users, err := s.Store.Users().List(ctx, page.Skip, page.Take)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "list users")
	}
	total, err := s.Store.Users().Count(ctx)
	if err != nil {
		return nil, 0, apperror.Wrap(err, "count users")
	}
	return users, total, nil
}

func (s *UserService) Create(ctx context.Context, in CreateUserInput) (int64, error) {
	if err := requireText("name", in.Name); err != nil {
		return 0, err
	}
	if err := requireText("email", in.Email); err != nil {
		return 0, err
	}
	if err := requireText("password", in.Password); err != nil {
		return 0, err
	}
	hash, err := helpers.HashPassword(in.Password, s.BcryptCost)
	if err != nil {
		return 0, apperror.Wrap(err, "hash password")
	}
	role := in.Role
	if role == "" {
		role = entity.RoleUser
	}
	u := &entity.User{
		Name:        strings.TrimSpace(in.Name),
		Email:       strings.TrimSpace(in.Email),
		PhoneNumber: in.PhoneNumber,
		Password:    hash,
		Description: in.Description,
		Role:        role,
	}
	if err := s.Store.Users().Create(ctx, u); err != nil {
		if errors.Is(err, repo.ErrDuplicate) {
			return 0, apperror.NewConflict("email already registered")
		}
		return 0, apperror.Wrap(err, "create user")
	}
	s.indexUser(ctx, u)
	return u.ID, nil
}

func (s *UserService) Update(ctx context.Context, id int64, in UpdateUserInput) (*entity.User, error) {
	u, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if in.Name != nil {
		if err := requireText("name", *in.Name); err != nil {
			return nil, err
		}
		u.Name = strings.TrimSpace(*in.Name)
	}
	if in.Email != nil {
		if err := requireText("email", *in.Email); err != nil {
			return nil, err
		}
		u.Email = strings.TrimSpace(*in.Email)
	}
	if in.PhoneNumber != nil {
		u.PhoneNumber = *in.PhoneNumber
	}
	if in.Description != nil {
		u.Description = *in.Description
	}
	if in.Password != nil && *in.Password != "" {
		hash, err := helpers.HashPassword(*in.Password, s.BcryptCost)
		if err != nil {
			return nil, apperror.Wrap(err, "hash password")
		}
		u.Password = hash
	}
	if err := s.Store.Users().Update(ctx, u); err != nil {
		switch {
		case errors.Is(err, repo.ErrDuplicate):
			return nil, apperror.NewConflict("email already registered")
		case errors.Is(err, repo.ErrNotFound):
			return nil, apperror.NewNotFound("User", id)
		}
		return nil, apperror.Wrap(err, "update user")
	}
	if s.Sessions != nil {
		if err := s.Sessions.UpdateProfile(ctx, u.ID, u.Name, u.Email); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", u.ID).Warn("refresh session profile failed")
		}
	}
	s.indexUser(ctx, u)
	return u, nil
}

func (s *UserService) Delete(ctx context.Context, id int64) error {
	if err := s.Store.Users().Delete(ctx, id); err != nil {
		return lookup(err, "User", id)
	}
	if s.Sessions != nil {
		if err := s.Sessions.Delete(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("drop session failed")
		}
	}
	if s.Search != nil {
		if err := s.Search.DeleteUser(ctx, id); err != nil && s.Logger != nil {
			s.Logger.WithError(err).WithField("user_id", id).Warn("search delete user failed")
		}
	}
	return nil
}

// UploadAvatar stores an image under avatars/<user id>/ and saves its URL on the profile.
func (s *UserService) UploadAvatar(ctx context.Context, userID int64, r io.Reader, filename, contentType string) (*entity.User, error) {
	if s.Avatars == nil {
		return nil, apperror.New(apperror.Unexpected, "avatar storage not configured")
	}
	if !strings.HasPrefix(contentType, "image/") {
		return nil, apperror.NewValidation("avatar must be an image")
	}
	u, err := s.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	ext := strings.ToLower(filepath.Ext(filename))
	objectPath := fmt.Sprintf("avatars/%d/%s%s", userID, uuid.NewString(), ext)
	url, err := s.Avatars.Upload(ctx, objectPath, contentType, r)
	if err != nil {
		return nil, apperror.Wrap(err, "upload avatar")
	}
	u.AvatarURL = url
	if err := s.Store.Users().Update(ctx, u); err != nil {
		return nil, lookup(err, "User", userID)
	}
	s.indexUser(ctx, u)
	return u, nil
}

// Search returns users matching q in the search index, in relevance order.
func (s *UserService) Search(ctx context.Context, q string, size int) ([]*entity.User, error) {
	if s.Search == nil || strings.TrimSpace(q) == "" {
		return []*entity.User{}, nil
	}
	ids, err := s.Search.SearchUsers(ctx, q, size)
	if err != nil {
		return nil, apperror.Wrap(err, "search users")
	}
	found, err := s.Store.Users().GetByIDs(ctx, ids)
	if err != nil {
		return nil, apperror.Wrap(err, "load users")
	}
	out := make([]*entity.User, 0, len(ids))
	for _, id := range ids {
		if u, ok := found[id]; ok {
			out = append(out, u)
		}
	}
	return out, nil
}

func (s *UserService) indexUser(ctx context.Context, u *entity.User) {
	if s.Search == nil {
		return
	}
	if err := s.Search.IndexUser(ctx, u); err != nil && s.Logger != nil {
		s.Logger.WithError(err).WithField("user_id", u.ID).Warn("es index user failed")
	}
}
