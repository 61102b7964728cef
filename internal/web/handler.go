package web

import (
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/archive"
	"openhackathon/internal/daemon"
	"openhackathon/internal/i18n"
	"openhackathon/internal/middleware"
	"openhackathon/internal/ratelimit"
	"openhackathon/internal/session"
	"openhackathon/internal/validator"
	"openhackathon/internal/web/view"
)

// CSRFContextKey is where the CSRF middleware leaves the token for forms.
const CSRFContextKey = "token"

type Handler struct {
	Logger       *slog.Logger
	Translator   *i18n.Translator
	SessionStore *session.Store
	Validator    *validator.Validator
	// Limiter may be nil, verify actions are then unlimited.
	Limiter *ratelimit.Limiter
	// Archiver may be nil, archiving then answers 503.
	Archiver *archive.Archiver
	// Probe reports hackathon API reachability on /healthz when set.
	Probe *daemon.Probe
}

func NewHandler(logger *slog.Logger, translator *i18n.Translator, sessionStore *session.Store, validator *validator.Validator, limiter *ratelimit.Limiter, archiver *archive.Archiver) *Handler {
	return &Handler{Logger: logger, Translator: translator, SessionStore: sessionStore, Validator: validator, Limiter: limiter, Archiver: archiver}
}

func (h *Handler) page(c *fiber.Ctx, titleKey string) view.Page {
	return pageOf(c, h.Translator, titleKey)
}

func pageOf(c *fiber.Ctx, translator *i18n.Translator, titleKey string) view.Page {
	lang := middleware.Lang(c)
	t := func(key string) string {
		return translator.T(lang, key)
	}

	var title string
	if titleKey != "" {
		title = t(titleKey)
	}
	csrfToken, _ := c.Locals(CSRFContextKey).(string)

	return view.Page{
		Title:     title,
		Lang:      lang.String(),
		CSRFToken: csrfToken,
		User:      middleware.User(c),
		T:         t,
	}
}
