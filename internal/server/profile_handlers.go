// Package server contains the HTTP handlers for the blog's pages and forms.
package server

import (
	"inkwell/internal/models"
	"inkwell/internal/render"
	"inkwell/internal/service"

	"github.com/gofiber/fiber/v2"
)

// Profile handles GET /profile/:username/. The owner sees every post they
// wrote, including unpublished and scheduled ones; visitors only see the
// public subset.
func (s *Server) Profile(c *fiber.Ctx) error {
	username := c.Params("username")
	viewerID, _ := s.optionalUserID(c)

	pagination := parsePage(c)
	user, posts, err := s.profileService.GetProfile(c.Context(), username, viewerID, nowUTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/profile.html", render.Context{
		"profile": user,
		"posts":   posts,
		"page":    pagination.Page,
	})
}

// EditProfileForm handles GET /profile/edit/ with the signed-in user's data.
func (s *Server) EditProfileForm(c *fiber.Ctx) error {
	userID := currentUserID(c)

	user, err := s.userRepo.GetByID(c.Context(), userID)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/user.html", render.Context{
		"form": user,
	})
}

// EditProfile handles POST /profile/edit/. Users can only ever edit their own
// record; the target is taken from the session, not the form.
func (s *Server) EditProfile(c *fiber.Ctx) error {
	userID := currentUserID(c)

	var form struct {
		Username  string `json:"username" form:"username"`
		Email     string `json:"email" form:"email"`
		FirstName string `json:"first_name" form:"first_name"`
		LastName  string `json:"last_name" form:"last_name"`
	}
	if err := c.BodyParser(&form); err != nil {
		return models.RespondWithError(c, fiber.StatusBadRequest,
			models.NewValidationError("Invalid request body"))
	}

	user, err := s.profileService.UpdateProfile(c.Context(), service.UpdateProfileInput{
		UserID:    userID,
		Username:  form.Username,
		Email:     form.Email,
		FirstName: form.FirstName,
		LastName:  form.LastName,
	})
	if err != nil {
		return respondWithAppError(c, err)
	}

	return c.Redirect(profileURL(user.Username))
}
