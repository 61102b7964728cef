package view

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/a-h/templ"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhackathon/internal/enrollment"
	"openhackathon/internal/model"
)

func keys(key string) string { return "[" + key + "]" }

func renderString(t *testing.T, c templ.Component) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, c.Render(context.Background(), &buf))
	return buf.String()
}

func TestUserBar_Anonymous(t *testing.T) {
	out := renderString(t, UserBar(UserBarProps{T: keys}))

	assert.Contains(t, out, `href="/user/sign-in/"`)
	assert.Contains(t, out, "[nav.sign_in]")
	assert.NotContains(t, out, "/activity/create")
	assert.NotContains(t, out, "dropdown")
	assert.NotContains(t, out, "[nav.sign_out]")
}

func TestUserBar_SignedIn(t *testing.T) {
	user := &model.User{Base: model.Base{ID: "u-42"}, Nickname: "Alice <script>"}
	out := renderString(t, UserBar(UserBarProps{User: user, CSRFToken: "csrf-1", T: keys}))

	assert.Contains(t, out, `href="/activity/create"`)
	assert.Contains(t, out, "[nav.create_hackathon]")
	assert.Contains(t, out, "Alice &lt;script&gt;")
	assert.Contains(t, out, `href="/user/u-42"`)
	assert.Contains(t, out, `action="/user/sign-out"`)
	assert.Contains(t, out, `name="csrf_token" value="csrf-1"`)
	assert.NotContains(t, out, "[nav.sign_in]")
}

func TestLayout(t *testing.T) {
	page := Page{Title: "Profile", Lang: "en", T: keys}
	out := renderString(t, HomePage(page))

	assert.Contains(t, out, `<html lang="en">`)
	assert.Contains(t, out, "<title>Profile - [app.title]</title>")
	assert.Contains(t, out, "[home.welcome]")
	assert.Contains(t, out, `href="/user/sign-in/"`)
}

func TestEnrollmentPage(t *testing.T) {
	created := time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)
	table := EnrollmentTable{
		Hackathon:  "demo",
		Page:       2,
		TotalCount: 12,
		HasNext:    true,
		ExportURL:  "https://api.test/hackathon/demo/enrollment/export?type=enrollments",
		Items: []model.Enrollment{
			{Base: model.Base{CreatedAt: model.NewTimestamp(created)}, UserID: "u1", User: model.User{Nickname: "pending"}, Status: model.EnrollmentStatusPendingApproval},
			{UserID: "u2", User: model.User{Nickname: "done"}, Status: model.EnrollmentStatusApproved},
		},
	}
	out := renderString(t, EnrollmentPage(Page{T: keys}, table))

	assert.Contains(t, out, `action="/activity/demo/manage/participant/u1"`)
	assert.NotContains(t, out, `action="/activity/demo/manage/participant/u2"`)
	assert.Contains(t, out, `value="approved"`)
	assert.Contains(t, out, `value="rejected"`)
	assert.Contains(t, out, "2024-03-01 09:30:00")
	assert.Contains(t, out, "page=1")
	assert.Contains(t, out, "page=3")
	assert.Contains(t, out, "[enrollment.export]")
	assert.Contains(t, out, ">12<")
}

func TestEnrollmentPage_Empty(t *testing.T) {
	out := renderString(t, EnrollmentPage(Page{T: keys}, EnrollmentTable{Hackathon: "demo", Page: 1}))

	assert.Contains(t, out, "[enrollment.empty]")
	assert.NotContains(t, out, "<table")
	assert.NotContains(t, out, "[enrollment.export]")
}

func TestStatisticPage(t *testing.T) {
	stat := enrollment.Statistic{
		Status:    map[string]int{"approved": 2},
		City:      map[string]int{"Shanghai": 1, "Beijing": 3},
		CreatedAt: map[string]int{"2024-03-01": 4},
		Extensions: map[string]map[string]int{
			"skills": {"go": 2, "_": 1},
		},
	}
	out := renderString(t, StatisticPage(Page{T: keys}, StatisticView{Hackathon: "demo", TotalCount: 4, Statistic: stat}))

	assert.Contains(t, out, "[status.approved]")
	assert.Contains(t, out, `action="/activity/demo/manage/participant/statistic/archive"`)
	assert.Less(t, bytes.Index([]byte(out), []byte("Beijing")), bytes.Index([]byte(out), []byte("Shanghai")))
	assert.Contains(t, out, "skills")
	assert.Contains(t, out, "2024-03-01")
}
