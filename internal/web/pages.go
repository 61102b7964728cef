package web

import (
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"

	"openhackathon/internal/api"
	"openhackathon/internal/middleware"
	"openhackathon/internal/model"
	"openhackathon/internal/validator"
	"openhackathon/internal/web/view"
)

func (h *Handler) Health(c *fiber.Ctx) error {
	body := JSONResponseBody{Status: APIResponseStatusSuccess}
	if h.Probe != nil {
		body.Data = fiber.Map{"api": h.Probe.Result()}
	}
	return JSONResponse(c, fiber.StatusOK, body)
}

func (h *Handler) ShowHomePage(c *fiber.Ctx) error {
	return render(c, view.HomePage(h.page(c, "")))
}

func (h *Handler) ShowSignInPage(c *fiber.Ctx) error {
	if middleware.User(c) != nil {
		return c.Redirect("/", fiber.StatusSeeOther)
	}
	return render(c, view.SignInPage(h.page(c, "sign_in.title"), ""))
}

func (h *Handler) SignIn(c *fiber.Ctx) error {
	page := h.page(c, "sign_in.title")

	var form validator.SignInForm
	if err := c.BodyParser(&form); err != nil {
		h.Logger.Warn("sign in: failed to parse form", "error", err)
		c.Status(fiber.StatusBadRequest)
		return render(c, view.SignInPage(page, page.T("sign_in.failed")))
	}
	if err := h.Validator.Validate(form); err != nil {
		c.Status(fiber.StatusBadRequest)
		return render(c, view.SignInPage(page, page.T("sign_in.failed")))
	}

	if _, err := h.SessionStore.SignIn(c, form.Token); err != nil {
		if errors.Is(err, api.ErrUnauthorized) || errors.Is(err, api.ErrForbidden) {
			c.Status(fiber.StatusUnauthorized)
			return render(c, view.SignInPage(page, page.T("sign_in.failed")))
		}
		return err
	}

	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) SignOut(c *fiber.Ctx) error {
	if err := h.SessionStore.SignOut(c); err != nil {
		return err
	}
	return c.Redirect("/", fiber.StatusSeeOther)
}

func (h *Handler) ShowProfilePage(c *fiber.Ctx) error {
	var user model.User
	if err := h.SessionStore.Client.Get(c.UserContext(), "user/"+url.PathEscape(c.Params("id")), &user); err != nil {
		return err
	}
	return render(c, view.ProfilePage(h.page(c, "profile.title"), user))
}

func (h *Handler) ShowActivityCreatePage(c *fiber.Ctx) error {
	return render(c, view.ActivityCreatePage(h.page(c, "activity.create.title")))
}
