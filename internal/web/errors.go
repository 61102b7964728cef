package web

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"

	"openhackathon/internal/api"
	"openhackathon/internal/enrollment"
	"openhackathon/internal/i18n"
	"openhackathon/internal/ratelimit"
	"openhackathon/internal/session"
	"openhackathon/internal/storage"
	"openhackathon/internal/web/view"
)

// ErrorHandler maps errors to responses. Pages get a sign-in redirect on 401 and an error
// page otherwise; JSON routes get a JSONResponseBody. API status codes are passed through.
func ErrorHandler(logger *slog.Logger, translator *i18n.Translator) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, message := statusOf(err)

		if code >= fiber.StatusInternalServerError {
			logger.ErrorContext(c.UserContext(), "Request failed",
				"method", c.Method(),
				"url", c.OriginalURL(),
				"status", code,
				"error", err,
			)
		}

		if wantsJSON(c) {
			return JSONResponse(c, code, JSONResponseBody{Status: APIResponseStatusError, Message: message})
		}
		if code == fiber.StatusUnauthorized {
			return c.Redirect(view.SignInURL, fiber.StatusSeeOther)
		}

		c.Status(code)
		return render(c, view.ErrorPage(pageOf(c, translator, "error.title"), code, message))
	}
}

func statusOf(err error) (int, string) {
	var fiberErr *fiber.Error
	var responseErr *api.ResponseError

	switch {
	case errors.As(err, &fiberErr):
		return fiberErr.Code, fiberErr.Message
	case errors.Is(err, session.ErrSignedOut):
		return fiber.StatusUnauthorized, "Unauthorized"
	case errors.Is(err, ratelimit.ErrTooManyAttempts):
		return fiber.StatusTooManyRequests, "Too many verify attempts, please try again later"
	case errors.Is(err, enrollment.ErrInvalidStatus):
		return fiber.StatusBadRequest, err.Error()
	case errors.Is(err, storage.ErrNotFound):
		return fiber.StatusNotFound, "Not found"
	case errors.As(err, &responseErr):
		if responseErr.StatusCode < fiber.StatusBadRequest || responseErr.StatusCode > 599 {
			return fiber.StatusBadGateway, "Unexpected answer from the hackathon API"
		}
		message := responseErr.Message
		if message == "" {
			message = utils.StatusMessage(responseErr.StatusCode)
		}
		return responseErr.StatusCode, message
	default:
		return fiber.StatusInternalServerError, "Internal server error"
	}
}
