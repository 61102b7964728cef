package web

import (
	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/middleware"
)

const participantPath = "/activity/:name/manage/participant"

// RegisterRoutes mounts every page and JSON route. signInGuards run before the sign-in
// form is processed, e.g. a rate limiter.
func RegisterRoutes(app *fiber.App, h *Handler, signInGuards ...fiber.Handler) {
	app.Get("/healthz", jsonRoute, h.Health)

	app.Use(middleware.I18n(h.Translator))
	app.Use(middleware.CurrentUser(h.SessionStore))

	signedIn := middleware.Authenticated()

	app.Get("/", h.ShowHomePage)

	app.Get("/user/sign-in/", h.ShowSignInPage)
	app.Post("/user/sign-in/", append(signInGuards, h.SignIn)...)
	app.Post("/user/sign-out", h.SignOut)
	app.Get("/user/:id", h.ShowProfilePage)

	app.Get("/activity/create", signedIn, h.ShowActivityCreatePage)
	app.Get("/activity/:name/enrollment", jsonRoute, signedIn, h.ShowSessionEnrollment)

	app.Get(participantPath, signedIn, h.ShowParticipantPage)
	app.Get(participantPath+"/statistic", signedIn, h.ShowStatistic)
	app.Post(participantPath+"/statistic/archive", signedIn, h.ArchiveStatistic)
	app.Post(participantPath+"/:userId", signedIn, h.VerifyParticipant)

	app.Get("/archives/*", jsonRoute, signedIn, h.ShowArchive)
}
