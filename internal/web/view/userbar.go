package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"openhackathon/internal/model"
)

const (
	SignInURL         = "/user/sign-in/"
	SignOutURL        = "/user/sign-out"
	CreateActivityURL = "/activity/create"
)

type UserBarProps struct {
	// User is nil for anonymous visitors.
	User      *model.User
	CSRFToken string
	T         Translate
}

// ProfileURL is the public page of a user.
func ProfileURL(id string) string {
	return "/user/" + id
}

// UserBar is the account area of the navigation bar.
func UserBar(props UserBarProps) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		if props.User == nil {
			h.raw(`<a class="btn btn-primary" href="`)
			h.url(SignInURL)
			h.raw(`">`)
			h.text(props.T("nav.sign_in"))
			h.raw(`</a>`)
			return h.err
		}

		h.raw(`<a class="btn btn-success my-2 my-md-0 me-3" href="`)
		h.url(CreateActivityURL)
		h.raw(`">`)
		h.text(props.T("nav.create_hackathon"))
		h.raw(`</a>`)

		h.raw(`<div class="dropdown my-2 my-md-0">`)
		h.raw(`<button class="btn btn-primary dropdown-toggle" type="button" data-bs-toggle="dropdown" aria-expanded="false">`)
		h.text(props.User.Nickname)
		h.raw(`</button><ul class="dropdown-menu dropdown-menu-end">`)

		h.raw(`<li><a class="dropdown-item" href="`)
		h.url(ProfileURL(props.User.ID))
		h.raw(`">`)
		h.text(props.T("nav.profile"))
		h.raw(`</a></li>`)

		h.raw(`<li><form method="post" action="`)
		h.url(SignOutURL)
		h.raw(`">`)
		h.csrf(props.CSRFToken)
		h.raw(`<button class="dropdown-item" type="submit">`)
		h.text(props.T("nav.sign_out"))
		h.raw(`</button></form></li>`)

		h.raw(`</ul></div>`)
		return h.err
	})
}
