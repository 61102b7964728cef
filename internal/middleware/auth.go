package middleware

import (
	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/model"
)

const userKey = "user"

// UserSource resolves the signed-in user of a request, nil for anonymous visitors.
type UserSource interface {
	User(c *fiber.Ctx) (*model.User, error)
}

// CurrentUser loads the signed-in user once per request.
func CurrentUser(source UserSource) fiber.Handler {
	return func(c *fiber.Ctx) error {
		user, err := source.User(c)
		if err != nil {
			return err
		}
		if user != nil {
			c.Locals(userKey, user)
		}
		return c.Next()
	}
}

// Authenticated rejects anonymous visitors with fiber.ErrUnauthorized; the error handler
// decides between a sign-in redirect and a JSON answer.
func Authenticated() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if User(c) == nil {
			return fiber.ErrUnauthorized
		}
		return c.Next()
	}
}

// User returns the user stored by CurrentUser.
func User(c *fiber.Ctx) *model.User {
	user, _ := c.Locals(userKey).(*model.User)
	return user
}
