package view

import (
	"context"
	"fmt"
	"io"

	"github.com/a-h/templ"
)

// Translate resolves a translation key in the language of the current request.
type Translate func(key string) string

// html is a small write-through helper that keeps the first error.
type html struct {
	ctx context.Context
	w   io.Writer
	err error
}

func newHTML(ctx context.Context, w io.Writer) *html {
	return &html{ctx: ctx, w: w}
}

func (h *html) raw(s string) {
	if h.err == nil {
		_, h.err = io.WriteString(h.w, s)
	}
}

func (h *html) rawf(format string, args ...any) {
	if h.err == nil {
		_, h.err = fmt.Fprintf(h.w, format, args...)
	}
}

// text writes s escaped, safe for element bodies and quoted attributes.
func (h *html) text(s string) {
	h.raw(templ.EscapeString(s))
}

func (h *html) url(s string) {
	h.text(string(templ.URL(s)))
}

func (h *html) render(c templ.Component) {
	if h.err == nil && c != nil {
		h.err = c.Render(h.ctx, h.w)
	}
}

func (h *html) csrf(token string) {
	if token == "" {
		return
	}
	h.raw(`<input type="hidden" name="csrf_token" value="`)
	h.text(token)
	h.raw(`">`)
}
