// Package server contains the HTTP handlers for the blog's pages and forms.
package server

import (
	"time"

	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// postForm is the request body for creating and editing posts.
type postForm struct {
	Title       string `json:"title" form:"title"`
	Text        string `json:"text" form:"text"`
	PubDate     string `json:"pub_date" form:"pub_date"`
	IsPublished *bool  `json:"is_published" form:"is_published"`
	CategoryID  *uint  `json:"category_id" form:"category_id"`
	LocationID  *uint  `json:"location_id" form:"location_id"`
}

// parsePubDate accepts the datetime formats the post form may submit.
func parsePubDate(value string) (time.Time, error) {
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04", "2006-01-02 15:04", "2006-01-02"} {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, models.NewValidationError("Invalid pub_date format")
}

// Index handles GET / with the public post feed.
func (s *Server) Index(c *fiber.Ctx) error {
	pagination := parsePage(c)
	posts, err := s.postService.ListIndex(c.Context(), nowUTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/index.html", render.Context{
		"posts": posts,
		"page":  pagination.Page,
	})
}

// PostDetail handles GET /posts/:id/. Posts that are not publicly visible
// are only shown to their author; everyone else gets a 404.
func (s *Server) PostDetail(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	viewerID, _ := s.optionalUserID(c)

	post, err := s.postService.GetPostDetail(c.Context(), postID, viewerID, nowUTC())
	if err != nil {
		return respondWithAppError(c, err)
	}

	comments, err := s.commentService.ListComments(c.Context(), post.ID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/detail.html", render.Context{
		"post":     post,
		"comments": comments,
		"form":     render.Context{"text": ""},
	})
}

// CreatePostForm handles GET /posts/create/ with the blank post form and its
// category/location choices.
func (s *Server) CreatePostForm(c *fiber.Ctx) error {
	categories, err := s.categoryRepo.ListPublished(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}
	locations, err := s.locationRepo.ListPublished(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/create.html", render.Context{
		"form":       render.Context{},
		"categories": categories,
		"locations":  locations,
	})
}

// CreatePost handles POST /posts/create/. The author is always the signed-in
// user regardless of what the form claims.
func (s *Server) CreatePost(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.CreatePostInput{
		AuthorID:    userID,
		Title:       form.Title,
		Text:        form.Text,
		IsPublished: true,
		CategoryID:  form.CategoryID,
		LocationID:  form.LocationID,
	}
	if form.IsPublished != nil {
		input.IsPublished = *form.IsPublished
	}
	if form.PubDate != "" {
		pubDate, err := parsePubDate(form.PubDate)
		if err != nil {
			return respondWithAppError(c, err)
		}
		input.PubDate = pubDate
	}

	post, err := s.postService.CreatePost(c.Context(), input)
	if err != nil {
		return respondWithAppError(c, err)
	}

	user, err := s.userRepo.GetByID(c.Context(), post.AuthorID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.Redirect(profileURL(user.Username))
}

// EditPostForm handles GET /posts/:id/edit/. Non-authors are bounced to the
// post's detail page instead of seeing the form.
func (s *Server) EditPostForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if post.AuthorID != userID {
		return c.Redirect(postDetailURL(post.ID))
	}

	categories, err := s.categoryRepo.ListPublished(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}
	locations, err := s.locationRepo.ListPublished(c.Context())
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/create.html", render.Context{
		"form":       post,
		"categories": categories,
		"locations":  locations,
	})
}

// EditPost handles POST /posts/:id/edit/. A non-author submission performs no
// mutation and redirects to the detail page.
func (s *Server) EditPost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if post.AuthorID != userID {
		return c.Redirect(postDetailURL(post.ID))
	}

	var form postForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	input := service.UpdatePostInput{
		PostID:      post.ID,
		Title:       form.Title,
		Text:        form.Text,
		IsPublished: form.IsPublished,
		CategoryID:  form.CategoryID,
		LocationID:  form.LocationID,
	}
	if form.PubDate != "" {
		pubDate, err := parsePubDate(form.PubDate)
		if err != nil {
			return respondWithAppError(c, err)
		}
		input.PubDate = &pubDate
	}

	updated, err := s.postService.UpdatePost(c.Context(), input)
	if err != nil {
		return respondWithAppError(c, err)
	}
	return c.Redirect(postDetailURL(updated.ID))
}

// DeletePostForm handles GET /posts/:id/delete/ with a confirmation page.
// Non-authors are sent to the login page.
func (s *Server) DeletePostForm(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if post.AuthorID != userID {
		return c.Redirect(s.config.LoginURL)
	}

	return s.renderer.Render(c, "blog/create.html", render.Context{
		"form": post,
	})
}

// DeletePost handles POST /posts/:id/delete/. The post's comments go with it.
func (s *Server) DeletePost(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	post, err := s.postRepo.GetByID(c.Context(), postID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if post.AuthorID != userID {
		return c.Redirect(s.config.LoginURL)
	}

	if err := s.postService.DeletePost(c.Context(), post.ID); err != nil {
		return respondWithAppError(c, err)
	}
	return c.Redirect("/")
}
