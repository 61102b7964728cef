package view

import (
	"context"
	"io"

	"github.com/a-h/templ"

	"openhackathon/internal/enrollment"
)

type StatisticView struct {
	Hackathon  string
	TotalCount int
	Statistic  enrollment.Statistic
	// ArchivedURL links the snapshot just archived, if any.
	ArchivedURL string
}

func StatisticPage(page Page, view StatisticView) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		t := page.T

		h.raw(`<div class="d-flex justify-content-between align-items-center mb-3"><h1>`)
		h.text(t("statistic.title"))
		h.raw(`</h1><form method="post" action="`)
		h.url(StatisticURL(view.Hackathon) + "/archive")
		h.raw(`">`)
		h.csrf(page.CSRFToken)
		h.raw(`<button class="btn btn-outline-secondary" type="submit">`)
		h.text(t("statistic.archive"))
		h.raw(`</button></form></div>`)

		if view.ArchivedURL != "" {
			h.raw(`<div class="alert alert-success"><a href="`)
			h.url(view.ArchivedURL)
			h.raw(`">`)
			h.text(t("statistic.archived"))
			h.raw(`</a></div>`)
		}

		h.raw(`<p>`)
		h.text(t("enrollment.total"))
		h.rawf(`: <span class="badge bg-secondary">%d</span></p>`, view.TotalCount)

		statusLabels := make(map[string]int, len(view.Statistic.Status))
		for status, count := range view.Statistic.Status {
			statusLabels[t("status."+status)] += count
		}
		histogram(h, t("statistic.status"), statusLabels)
		histogram(h, t("statistic.created_at"), view.Statistic.CreatedAt)
		histogram(h, t("statistic.city"), view.Statistic.City)

		if len(view.Statistic.Extensions) > 0 {
			h.raw(`<h2 class="h4 mt-4">`)
			h.text(t("statistic.extensions"))
			h.raw(`</h2>`)
			for _, question := range sortedCounts(extensionSizes(view.Statistic.Extensions)) {
				histogram(h, question, view.Statistic.Extensions[question])
			}
		}

		return h.err
	}))
}

func extensionSizes(extensions map[string]map[string]int) map[string]int {
	sizes := make(map[string]int, len(extensions))
	for question, answers := range extensions {
		sizes[question] = len(answers)
	}
	return sizes
}

func histogram(h *html, title string, counts map[string]int) {
	if len(counts) == 0 {
		return
	}
	h.raw(`<h3 class="h5 mt-3">`)
	h.text(title)
	h.raw(`</h3><table class="table table-sm w-auto"><tbody>`)
	for _, key := range sortedCounts(counts) {
		h.raw(`<tr><th scope="row">`)
		h.text(key)
		h.rawf(`</th><td>%d</td></tr>`, counts[key])
	}
	h.raw(`</tbody></table>`)
}
