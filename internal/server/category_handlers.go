// Package server contains the HTTP handlers for the blog's pages and forms.
package server

import (
	"inkwell/internal/render"

	"github.com/gofiber/fiber/v2"
)

// CategoryPosts handles GET /category/:slug/. Unknown and unpublished
// categories both answer 404.
func (s *Server) CategoryPosts(c *fiber.Ctx) error {
	slug := c.Params("slug")

	pagination := parsePage(c)
	category, posts, err := s.postService.ListByCategory(c.Context(), slug, nowUTC(), pagination.Limit, pagination.Offset)
	if err != nil {
		return respondWithAppError(c, err)
	}

	return s.renderer.Render(c, "blog/category.html", render.Context{
		"category": category,
		"posts":    posts,
		"page":     pagination.Page,
	})
}
