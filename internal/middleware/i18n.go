package middleware

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/i18n"
)

const (
	langKey        = "lang"
	LangCookieName = "lang"
)

// I18n picks the page language from ?lang=, then the lang cookie, then Accept-Language.
// An explicit ?lang= is remembered in the cookie.
func I18n(translator *i18n.Translator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		lang := translator.DefaultLanguage()

		if query := c.Query("lang"); query != "" {
			if parsed, err := i18n.ParseLanguage(query); err == nil {
				lang = parsed
				c.Cookie(&fiber.Cookie{
					Name:     LangCookieName,
					Value:    parsed.String(),
					Path:     "/",
					Expires:  time.Now().Add(365 * 24 * time.Hour),
					SameSite: "Lax",
				})
			}
		} else if cookie := c.Cookies(LangCookieName); cookie != "" {
			if parsed, err := i18n.ParseLanguage(cookie); err == nil {
				lang = parsed
			}
		} else if c.Get(fiber.HeaderAcceptLanguage) != "" {
			available := translator.GetAvailableLanguages()
			offers := make([]string, 0, len(available)+3)
			offers = append(offers, lang.String())
			for _, l := range available {
				offers = append(offers, l.String())
			}
			offers = append(offers, "zh", "en-US")
			if accepted := c.AcceptsLanguages(offers...); accepted != "" {
				if parsed, err := i18n.ParseLanguage(accepted); err == nil {
					lang = parsed
				}
			}
		}

		c.Locals(langKey, lang)
		return c.Next()
	}
}

// Lang returns the language chosen by I18n.
func Lang(c *fiber.Ctx) i18n.Language {
	if lang, ok := c.Locals(langKey).(i18n.Language); ok {
		return lang
	}
	return i18n.ZhCN
}
