package view

import (
	"context"
	"io"
	"net/url"
	"slices"
	"strconv"
	"time"

	"github.com/a-h/templ"

	"openhackathon/internal/model"
)

// ParticipantURL is the enrollment management page of a hackathon.
func ParticipantURL(hackathon string) string {
	return "/activity/" + url.PathEscape(hackathon) + "/manage/participant"
}

func StatisticURL(hackathon string) string {
	return ParticipantURL(hackathon) + "/statistic"
}

func verifyURL(hackathon, userID string) string {
	return ParticipantURL(hackathon) + "/" + url.PathEscape(userID)
}

func pageURL(hackathon, status string, page int) string {
	query := url.Values{}
	if status != "" {
		query.Set("status", status)
	}
	query.Set("page", strconv.Itoa(page))
	return ParticipantURL(hackathon) + "?" + query.Encode()
}

var statusFilters = []model.EnrollmentStatus{
	model.EnrollmentStatusPendingApproval,
	model.EnrollmentStatusApproved,
	model.EnrollmentStatusRejected,
}

type EnrollmentTable struct {
	Hackathon  string
	Status     string
	Page       int
	Items      []model.Enrollment
	TotalCount int
	HasNext    bool
	ExportURL  string
}

// EnrollmentPage lists one page of enrollments with verify actions for pending ones.
func EnrollmentPage(page Page, table EnrollmentTable) templ.Component {
	return Layout(page, templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		h := newHTML(ctx, w)
		t := page.T

		h.raw(`<div class="d-flex justify-content-between align-items-center mb-3"><h1>`)
		h.text(t("enrollment.title"))
		h.raw(`</h1><div>`)
		if table.ExportURL != "" {
			h.raw(`<a class="btn btn-outline-secondary me-2" target="_blank" href="`)
			h.url(table.ExportURL)
			h.raw(`">`)
			h.text(t("enrollment.export"))
			h.raw(`</a>`)
		}
		h.raw(`<a class="btn btn-outline-primary" href="`)
		h.url(StatisticURL(table.Hackathon))
		h.raw(`">`)
		h.text(t("enrollment.statistic"))
		h.raw(`</a></div></div>`)

		h.raw(`<ul class="nav nav-pills mb-3">`)
		filterLink(h, table.Hackathon, "", t("enrollment.filter_all"), table.Status == "")
		for _, status := range statusFilters {
			filterLink(h, table.Hackathon, status.String(), t("status."+status.String()), table.Status == status.String())
		}
		h.raw(`</ul>`)

		h.raw(`<p>`)
		h.text(t("enrollment.total"))
		h.rawf(`: <span class="badge bg-secondary">%d</span></p>`, table.TotalCount)

		if len(table.Items) == 0 {
			h.raw(`<p class="text-muted">`)
			h.text(t("enrollment.empty"))
			h.raw(`</p>`)
			return h.err
		}

		h.raw(`<table class="table table-striped align-middle"><thead><tr>`)
		for _, key := range []string{"enrollment.user", "enrollment.city", "enrollment.created_at", "enrollment.status"} {
			h.raw(`<th>`)
			h.text(t(key))
			h.raw(`</th>`)
		}
		h.raw(`<th></th></tr></thead><tbody>`)
		for _, item := range table.Items {
			enrollmentRow(h, page, table.Hackathon, item)
		}
		h.raw(`</tbody></table>`)

		h.raw(`<nav><ul class="pagination">`)
		if table.Page > 1 {
			pageLink(h, pageURL(table.Hackathon, table.Status, table.Page-1), t("enrollment.previous"))
		}
		if table.HasNext {
			pageLink(h, pageURL(table.Hackathon, table.Status, table.Page+1), t("enrollment.next"))
		}
		h.raw(`</ul></nav>`)

		return h.err
	}))
}

func filterLink(h *html, hackathon, status, label string, active bool) {
	h.raw(`<li class="nav-item"><a class="nav-link`)
	if active {
		h.raw(` active`)
	}
	h.raw(`" href="`)
	h.url(pageURL(hackathon, status, 1))
	h.raw(`">`)
	h.text(label)
	h.raw(`</a></li>`)
}

func pageLink(h *html, href, label string) {
	h.raw(`<li class="page-item"><a class="page-link" href="`)
	h.url(href)
	h.raw(`">`)
	h.text(label)
	h.raw(`</a></li>`)
}

func enrollmentRow(h *html, page Page, hackathon string, item model.Enrollment) {
	h.raw(`<tr><td><a href="`)
	h.url(ProfileURL(item.UserID))
	h.raw(`">`)
	h.text(item.User.Nickname)
	h.raw(`</a></td><td>`)
	h.text(item.User.City)
	h.raw(`</td><td>`)
	if created, ok := item.CreatedAt.Time(); ok {
		h.text(created.Format(time.DateTime))
	} else {
		h.text(item.CreatedAt.String())
	}
	h.raw(`</td><td>`)
	h.text(page.T("status." + item.Status.String()))
	h.raw(`</td><td>`)

	if item.Status == model.EnrollmentStatusPendingApproval {
		h.raw(`<form class="d-inline" method="post" action="`)
		h.url(verifyURL(hackathon, item.UserID))
		h.raw(`">`)
		h.csrf(page.CSRFToken)
		h.raw(`<button class="btn btn-sm btn-success me-1" name="status" value="`)
		h.text(model.EnrollmentStatusApproved.String())
		h.raw(`">`)
		h.text(page.T("enrollment.approve"))
		h.raw(`</button><button class="btn btn-sm btn-danger" name="status" value="`)
		h.text(model.EnrollmentStatusRejected.String())
		h.raw(`">`)
		h.text(page.T("enrollment.reject"))
		h.raw(`</button></form>`)
	}
	h.raw(`</td></tr>`)
}

// sortedCounts returns the histogram keys in a stable order.
func sortedCounts(counts map[string]int) []string {
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	slices.Sort(keys)
	return keys
}
