package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
	"inkwell/internal/validation"
)

type ProfileService struct {
	userRepo repository.UserRepository
	postRepo repository.PostRepository
}

type UpdateProfileInput struct {
	UserID    uint
	Username  string
	Email     string
	FirstName string
	LastName  string
}

func NewProfileService(userRepo repository.UserRepository, postRepo repository.PostRepository) *ProfileService {
	return &ProfileService{
		userRepo: userRepo,
		postRepo: postRepo,
	}
}

// GetProfile returns the profile owner together with a page of their posts.
// The owner sees everything they wrote; any other viewer only sees the posts
// that are publicly visible at the given moment.
func (s *ProfileService) GetProfile(ctx context.Context, username string, viewerID uint, now time.Time, limit, offset int) (*models.User, []*models.Post, error) {
	user, err := s.userRepo.GetByUsername(ctx, username)
	if err != nil {
		return nil, nil, err
	}

	onlyPublic := viewerID != user.ID
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID, onlyPublic, now, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return user, posts, nil
}

func (s *ProfileService) UpdateProfile(ctx context.Context, in UpdateProfileInput) (*models.User, error) {
	user, err := s.userRepo.GetByID(ctx, in.UserID)
	if err != nil {
		return nil, err
	}

	if in.Username != "" {
		username := strings.TrimSpace(in.Username)
		if err := validation.ValidateUsername(username); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if username != user.Username {
			existing, err := s.userRepo.GetByUsername(ctx, username)
			if err == nil && existing != nil {
				return nil, models.NewValidationError("Username is already taken")
			}
			if err != nil {
				if appErr, ok := err.(*models.AppError); !ok || appErr.Code != "NOT_FOUND" {
					return nil, err
				}
			}
			user.Username = username
		}
	}
	if in.Email != "" {
		email := strings.ToLower(strings.TrimSpace(in.Email))
		if err := validation.ValidateEmail(email); err != nil {
			return nil, models.NewValidationError(err.Error())
		}
		if email != user.Email {
			existing, err := s.userRepo.GetByEmail(ctx, email)
			if err != nil {
				return nil, err
			}
			if existing != nil {
				return nil, models.NewValidationError("Email is already in use")
			}
			user.Email = email
		}
	}
	if in.FirstName != "" {
		user.FirstName = in.FirstName
	}
	if in.LastName != "" {
		user.LastName = in.LastName
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return nil, err
	}
	return s.userRepo.GetByID(ctx, user.ID)
}
