package service

import (
	"context"
	"strings"
	"time"

	"inkwell/internal/models"
	"inkwell/internal/repository"
)

type PostService struct {
	postRepo     repository.PostRepository
	categoryRepo repository.CategoryRepository
}

type CreatePostInput struct {
	AuthorID    uint
	Title       string
	Text        string
	PubDate     time.Time
	IsPublished bool
	CategoryID  *uint
	LocationID  *uint
}

type UpdatePostInput struct {
	PostID      uint
	Title       string
	Text        string
	PubDate     *time.Time
	IsPublished *bool
	CategoryID  *uint
	LocationID  *uint
}

func NewPostService(postRepo repository.PostRepository, categoryRepo repository.CategoryRepository) *PostService {
	return &PostService{
		postRepo:     postRepo,
		categoryRepo: categoryRepo,
	}
}

func validatePostFields(title, text string) error {
	const maxTitleLen = 256
	const maxTextLen = 50000 // 50K characters

	if strings.TrimSpace(title) == "" {
		return models.NewValidationError("Title is required")
	}
	if len(title) > maxTitleLen {
		return models.NewValidationError("Title too long (max 256 characters)")
	}
	if strings.TrimSpace(text) == "" {
		return models.NewValidationError("Text is required")
	}
	if len(text) > maxTextLen {
		return models.NewValidationError("Text too long (max 50000 characters)")
	}
	return nil
}

func (s *PostService) CreatePost(ctx context.Context, in CreatePostInput) (*models.Post, error) {
	if err := validatePostFields(in.Title, in.Text); err != nil {
		return nil, err
	}

	pubDate := in.PubDate
	if pubDate.IsZero() {
		pubDate = time.Now().UTC()
	}

	post := &models.Post{
		Title:       in.Title,
		Text:        in.Text,
		PubDate:     pubDate,
		IsPublished: in.IsPublished,
		AuthorID:    in.AuthorID,
		CategoryID:  in.CategoryID,
		LocationID:  in.LocationID,
	}
	if err := s.postRepo.Create(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// GetPostDetail fetches a post for display. Unlisted posts are only shown to
// their author; everyone else gets a not-found error so the post's existence
// is not revealed.
func (s *PostService) GetPostDetail(ctx context.Context, postID, viewerID uint, now time.Time) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		return nil, err
	}
	if !post.PubliclyVisible(now) && post.AuthorID != viewerID {
		return nil, models.NewNotFoundError("Post", postID)
	}
	return post, nil
}

func (s *PostService) UpdatePost(ctx context.Context, in UpdatePostInput) (*models.Post, error) {
	post, err := s.postRepo.GetByID(ctx, in.PostID)
	if err != nil {
		return nil, err
	}

	if in.Title != "" {
		post.Title = in.Title
	}
	if in.Text != "" {
		post.Text = in.Text
	}
	if in.PubDate != nil {
		post.PubDate = *in.PubDate
	}
	if in.IsPublished != nil {
		post.IsPublished = *in.IsPublished
	}
	if in.CategoryID != nil {
		post.CategoryID = in.CategoryID
	}
	if in.LocationID != nil {
		post.LocationID = in.LocationID
	}
	if err := validatePostFields(post.Title, post.Text); err != nil {
		return nil, err
	}

	if err := s.postRepo.Update(ctx, post); err != nil {
		return nil, err
	}
	return s.postRepo.GetByID(ctx, post.ID)
}

// DeletePost removes the post together with its comments.
func (s *PostService) DeletePost(ctx context.Context, postID uint) error {
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		return err
	}
	return s.postRepo.Delete(ctx, postID)
}

func (s *PostService) ListIndex(ctx context.Context, now time.Time, limit, offset int) ([]*models.Post, error) {
	return s.postRepo.ListPublished(ctx, now, limit, offset)
}

// ListByCategory resolves a published category by slug and returns the public
// posts filed under it. An unpublished or unknown category is a not-found.
func (s *PostService) ListByCategory(ctx context.Context, slug string, now time.Time, limit, offset int) (*models.Category, []*models.Post, error) {
	category, err := s.categoryRepo.GetPublishedBySlug(ctx, slug)
	if err != nil {
		return nil, nil, err
	}
	posts, err := s.postRepo.ListPublishedByCategory(ctx, category.ID, now, limit, offset)
	if err != nil {
		return nil, nil, err
	}
	return category, posts, nil
}
