// Package server contains the HTTP handlers for the blog's pages and forms.
package server

import (
	"errors"

	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// commentForm is the request body for adding and editing comments.
type commentForm struct {
	Text string `json:"text" form:"text"`
}

// AddComment handles POST /posts/:id/comment/. A comment that fails
// validation is dropped without an error page; the client lands back on the
// detail page either way, matching the form's post/redirect/get flow.
func (s *Server) AddComment(c *fiber.Ctx) error {
	postID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var form commentForm
	if err := c.BodyParser(&form); err != nil {
		form.Text = ""
	}

	_, err = s.commentService.AddComment(c.Context(), service.AddCommentInput{
		AuthorID: userID,
		PostID:   postID,
		Text:     form.Text,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "VALIDATION_ERROR" {
			return c.Redirect(postDetailURL(postID))
		}
		return respondWithAppError(c, err)
	}

	return c.Redirect(postDetailURL(postID))
}

// EditCommentForm handles GET /posts/:postId/edit_comment/:id/. Only the
// comment's author may see the prefilled form; others go to the login page.
func (s *Server) EditCommentForm(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	comment, err := s.commentService.GetComment(c.Context(), commentID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if comment.AuthorID != userID {
		return c.Redirect(s.config.LoginURL)
	}

	return s.renderer.Render(c, "blog/comment.html", render.Context{
		"comment": comment,
		"form":    render.Context{"text": comment.Text},
	})
}

// EditComment handles POST /posts/:postId/edit_comment/:id/.
func (s *Server) EditComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	var form commentForm
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	comment, err := s.commentService.UpdateComment(c.Context(), service.UpdateCommentInput{
		UserID:    userID,
		CommentID: commentID,
		Text:      form.Text,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return c.Redirect(s.config.LoginURL)
		}
		return respondWithAppError(c, err)
	}

	return c.Redirect(postDetailURL(comment.PostID))
}

// DeleteCommentForm handles GET /posts/:postId/delete_comment/:id/ with a
// confirmation page.
func (s *Server) DeleteCommentForm(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	comment, err := s.commentService.GetComment(c.Context(), commentID)
	if err != nil {
		return respondWithAppError(c, err)
	}
	if comment.AuthorID != userID {
		return c.Redirect(s.config.LoginURL)
	}

	return s.renderer.Render(c, "blog/comment.html", render.Context{
		"comment": comment,
	})
}

// DeleteComment handles POST /posts/:postId/delete_comment/:id/.
func (s *Server) DeleteComment(c *fiber.Ctx) error {
	commentID, err := s.parseID(c, "id")
	if err != nil {
		return nil
	}
	userID := currentUserID(c)

	comment, err := s.commentService.DeleteComment(c.Context(), service.DeleteCommentInput{
		UserID:    userID,
		CommentID: commentID,
	})
	if err != nil {
		var appErr *models.AppError
		if errors.As(err, &appErr) && appErr.Code == "UNAUTHORIZED" {
			return c.Redirect(s.config.LoginURL)
		}
		return respondWithAppError(c, err)
	}

	return c.Redirect(postDetailURL(comment.PostID))
}
