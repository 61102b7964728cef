package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"openhackathon/internal/model"
)

const (
	bootstrapCSS = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/css/bootstrap.min.css"
	bootstrapJS  = "https://cdn.jsdelivr.net/npm/bootstrap@5.3.3/dist/js/bootstrap.bundle.min.js"
)

// Page carries what every page needs to render its frame.
type Page struct {
	Title     string
	Lang      string
	CSRFToken string
	User      *model.User
	T         Translate
}

func (p Page) userBar() UserBarProps {
	return UserBarProps{User: p.User, CSRFToken: p.CSRFToken, T: p.T}
}

// Layout wraps body in the document frame and the navigation bar.
func Layout(page Page, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)

		title := page.T("app.title")
		if page.Title != "" {
			title = page.Title + " - " + title
		}

		h.raw(`<!DOCTYPE html><html lang="`)
		h.text(page.Lang)
		h.raw(`"><head><meta charset="utf-8"><meta name="viewport" content="width=device-width, initial-scale=1"><title>`)
		h.text(title)
		h.raw(`</title><link rel="stylesheet" href="`)
		h.url(bootstrapCSS)
		h.raw(`"></head><body>`)

		h.raw(`<nav class="navbar navbar-expand-md navbar-dark bg-dark"><div class="container">`)
		h.raw(`<a class="navbar-brand" href="/">`)
		h.text(page.T("app.title"))
		h.raw(`</a><div class="d-flex flex-column flex-md-row align-items-md-center">`)
		h.render(UserBar(page.userBar()))
		h.raw(`</div></div></nav>`)

		h.raw(`<main class="container py-4">`)
		h.render(body)
		h.raw(`</main><script src="`)
		h.url(bootstrapJS)
		h.raw(`"></script></body></html>`)

		return h.err
	})
}
