// Package render defines the template-renderer collaborator contract.
// Handlers assemble a context mapping and hand it to a Renderer together
// with a template name; how the body is produced is the renderer's
// concern. The default implementation serializes the context as JSON,
// which keeps the HTTP surface usable without an HTML template engine.
package render

import "github.com/gofiber/fiber/v2"

// Context is the mapping a handler passes to the renderer.
type Context map[string]any

// Renderer produces a response body from a template name and a context mapping.
type Renderer interface {
	Render(c *fiber.Ctx, template string, data Context) error
}

// JSON is a Renderer that emits the context mapping as a JSON body and
// exposes the intended template name in a response header.
type JSON struct{}

func (JSON) Render(c *fiber.Ctx, template string, data Context) error {
	c.Set("X-Template", template)
	return c.JSON(data)
}
