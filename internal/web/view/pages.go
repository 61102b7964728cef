package view

import (
	"context"
	"io"
	"strconv"

	"github.com/a-h/templ"

	"openhackathon/internal/model"
)

func HomePage(page Page) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<div class="p-5 mb-4 bg-light rounded-3"><h1 class="display-5">`)
		h.text(page.T("app.title"))
		h.raw(`</h1><p class="lead">`)
		h.text(page.T("home.welcome"))
		h.raw(`</p></div>`)
		return h.err
	}))
}

// SignInPage shows the token form; message is an error to show above it, if any.
func SignInPage(page Page, message string) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<h1>`)
		h.text(page.T("sign_in.title"))
		h.raw(`</h1>`)
		if message != "" {
			h.raw(`<div class="alert alert-danger" role="alert">`)
			h.text(message)
			h.raw(`</div>`)
		}
		h.raw(`<form method="post" action="`)
		h.url(SignInURL)
		h.raw(`">`)
		h.csrf(page.CSRFToken)
		h.raw(`<div class="mb-3"><label class="form-label" for="token">`)
		h.text(page.T("sign_in.token"))
		h.raw(`</label><input class="form-control" id="token" name="token" type="password" required></div>`)
		h.raw(`<button class="btn btn-primary" type="submit">`)
		h.text(page.T("sign_in.submit"))
		h.raw(`</button></form>`)
		return h.err
	}))
}

func ProfilePage(page Page, user model.User) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<div class="d-flex align-items-center gap-3">`)
		if user.Avatar != "" {
			h.raw(`<img class="rounded-circle" width="96" height="96" alt="" src="`)
			h.url(user.Avatar)
			h.raw(`">`)
		}
		h.raw(`<div><h1>`)
		h.text(user.Nickname)
		h.raw(`</h1>`)
		if user.City != "" {
			h.raw(`<p class="text-muted">`)
			h.text(user.City)
			h.raw(`</p>`)
		}
		h.raw(`</div></div>`)
		return h.err
	}))
}

func ActivityCreatePage(page Page) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<h1>`)
		h.text(page.T("activity.create.title"))
		h.raw(`</h1><p>`)
		h.text(page.T("activity.create.hint"))
		h.raw(`</p>`)
		return h.err
	}))
}

func ErrorPage(page Page, status int, message string) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		h.raw(`<h1>`)
		h.text(strconv.Itoa(status))
		h.raw(` `)
		h.text(page.T("error.title"))
		h.raw(`</h1><p>`)
		h.text(message)
		h.raw(`</p>`)
		return h.err
	}))
}
