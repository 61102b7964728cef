package web

import (
	"github.com/a-h/templ"
	"github.com/gofiber/fiber/v2"
)

type APIResponseStatus string

const (
	APIResponseStatusSuccess APIResponseStatus = "success"
	APIResponseStatusError   APIResponseStatus = "error"
)

// Response body format for JSON routes
type JSONResponseBody struct {
	Status  APIResponseStatus `json:"status"`
	Message string            `json:"message,omitempty"`
	Data    any               `json:"data,omitempty"`
}

const jsonRouteKey = "json_route"

// JSONResponse writes a JSON response with the given status code and body.
func JSONResponse(c *fiber.Ctx, status int, body JSONResponseBody) error {
	return c.Status(status).JSON(body)
}

// jsonRoute marks a route whose errors must be answered in JSON.
func jsonRoute(c *fiber.Ctx) error {
	c.Locals(jsonRouteKey, true)
	return c.Next()
}

// wantsJSON reports whether the client asked for JSON rather than a page.
func wantsJSON(c *fiber.Ctx) bool {
	if marked, _ := c.Locals(jsonRouteKey).(bool); marked {
		return true
	}
	return c.Accepts(fiber.MIMETextHTML, fiber.MIMEApplicationJSON) == fiber.MIMEApplicationJSON
}

func render(c *fiber.Ctx, component templ.Component) error {
	c.Set(fiber.HeaderContentType, fiber.MIMETextHTMLCharsetUTF8)
	return component.Render(c.UserContext(), c.Response().BodyWriter())
}
