package enrollment

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"openhackathon/internal/model"
)

type call struct {
	Method string
	Path   string
	Body   any
}

// fakeClient answers GETs from a path-keyed table and lets POSTs be failed or held.
type fakeClient struct {
	mu        sync.Mutex
	responses map[string]any
	postErr   error
	release   chan struct{}
	calls     []call
}

func (c *fakeClient) Get(ctx context.Context, path string, out any) error {
	c.mu.Lock()
	c.calls = append(c.calls, call{Method: "GET", Path: path})
	response, ok := c.responses[path]
	c.mu.Unlock()

	if !ok {
		return errors.New("unexpected path " + path)
	}
	if err, ok := response.(error); ok {
		return err
	}
	raw, err := json.Marshal(response)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (c *fakeClient) Post(ctx context.Context, path string, body, out any) error {
	c.mu.Lock()
	c.calls = append(c.calls, call{Method: "POST", Path: path, Body: body})
	release, err := c.release, c.postErr
	c.mu.Unlock()

	if release != nil {
		<-release
	}
	return err
}

func (c *fakeClient) lastCall() call {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.calls[len(c.calls)-1]
}

type fakeExporter struct{}

func (fakeExporter) ExportURLOf(resource, baseURI string) string {
	return "https://api.test/" + baseURI + "/export?type=" + resource
}

func enrollmentOf(userID, city string, status model.EnrollmentStatus, createdAt string, extensions ...model.Extension) model.Enrollment {
	return model.Enrollment{
		Base:          model.Base{ID: "e-" + userID, CreatedAt: model.Timestamp(createdAt)},
		HackathonName: "demo",
		UserID:        userID,
		User:          model.User{Base: model.Base{ID: userID}, Nickname: userID, City: city},
		Status:        status,
		Extensions:    extensions,
	}
}

func newFixture(items ...model.Enrollment) (*Model, *fakeClient) {
	client := &fakeClient{responses: map[string]any{
		"hackathon/demo/enrollments": model.ListPage[model.Enrollment]{Value: items},
	}}
	return NewModel(client, "hackathon/demo", fakeExporter{}), client
}

func TestModel_OpenStreamPath(t *testing.T) {
	m, client := newFixture()
	client.responses["hackathon/demo/enrollments?status=approved"] = model.ListPage[model.Enrollment]{
		Value: []model.Enrollment{enrollmentOf("u1", "", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z")},
	}

	items, err := m.GetList(context.Background(), model.EnrollmentFilter{Status: model.EnrollmentStatusApproved}, 1)
	require.NoError(t, err)
	assert.Len(t, items, 1)
	assert.Equal(t, 1, m.TotalCount())
	assert.Equal(t, "hackathon/demo/enrollments?status=approved", client.lastCall().Path)
}

func TestModel_GetSessionOne(t *testing.T) {
	m, client := newFixture()
	own := enrollmentOf("me", "Shanghai", model.EnrollmentStatusPendingApproval, "2022-03-01T00:00:00Z")
	client.responses["hackathon/demo/enrollment"] = own

	got, err := m.GetSessionOne(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "me", got.UserID)
	assert.False(t, m.Downloading())

	cached, ok := m.SessionOne()
	require.True(t, ok)
	assert.Equal(t, own.UserID, cached.UserID)

	failure := errors.New("offline")
	client.responses["hackathon/demo/enrollment"] = failure
	_, err = m.GetSessionOne(context.Background())
	assert.ErrorIs(t, err, failure)

	cached, ok = m.SessionOne()
	require.True(t, ok, "a failed fetch keeps the previous value")
	assert.Equal(t, "me", cached.UserID)
}

func TestModel_VerifyOne(t *testing.T) {
	m, client := newFixture(
		enrollmentOf("u1", "", model.EnrollmentStatusPendingApproval, "2022-03-01T00:00:00Z"),
		enrollmentOf("u2", "", model.EnrollmentStatusPendingApproval, "2022-03-01T00:00:00Z"),
	)
	_, err := m.GetAll(context.Background(), model.EnrollmentFilter{})
	require.NoError(t, err)

	client.release = make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- m.VerifyOne(context.Background(), "u1", model.EnrollmentStatusApproved)
	}()

	require.Eventually(t, m.Uploading, time.Second, time.Millisecond)
	assert.Equal(t, model.EnrollmentStatusPendingApproval, m.AllItems()[0].Status, "no patch before the request resolves")

	close(client.release)
	require.NoError(t, <-done)

	assert.False(t, m.Uploading())
	assert.Equal(t, model.EnrollmentStatusApproved, m.AllItems()[0].Status)
	assert.Equal(t, model.EnrollmentStatusPendingApproval, m.AllItems()[1].Status)

	last := client.lastCall()
	assert.Equal(t, "POST", last.Method)
	assert.Equal(t, "hackathon/demo/enrollment/u1/approve", last.Path)
	assert.Equal(t, struct{}{}, last.Body)
}

func TestModel_VerifyOneRejectPath(t *testing.T) {
	m, client := newFixture(enrollmentOf("u2", "", model.EnrollmentStatusPendingApproval, "2022-03-01T00:00:00Z"))
	_, err := m.GetAll(context.Background(), model.EnrollmentFilter{})
	require.NoError(t, err)

	require.NoError(t, m.VerifyOne(context.Background(), "u2", model.EnrollmentStatusRejected))
	assert.Equal(t, "hackathon/demo/enrollment/u2/reject", client.lastCall().Path)
	assert.Equal(t, model.EnrollmentStatusRejected, m.AllItems()[0].Status)
}

func TestModel_VerifyOneFailureLeavesStatus(t *testing.T) {
	m, client := newFixture(enrollmentOf("u1", "", model.EnrollmentStatusPendingApproval, "2022-03-01T00:00:00Z"))
	_, err := m.GetAll(context.Background(), model.EnrollmentFilter{})
	require.NoError(t, err)

	failure := errors.New("forbidden")
	client.postErr = failure

	err = m.VerifyOne(context.Background(), "u1", model.EnrollmentStatusApproved)
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, model.EnrollmentStatusPendingApproval, m.AllItems()[0].Status)
	assert.False(t, m.Uploading())
}

func TestModel_VerifyOneRejectsNonTerminalStatus(t *testing.T) {
	m, client := newFixture()

	err := m.VerifyOne(context.Background(), "u1", model.EnrollmentStatusPendingApproval)
	assert.ErrorIs(t, err, ErrInvalidStatus)
	assert.Empty(t, client.calls)
}

func TestModel_GetStatistic(t *testing.T) {
	m, _ := newFixture(
		enrollmentOf("u1", "Beijing Office", model.EnrollmentStatusApproved, "2022-03-01T10:00:00+08:00",
			model.Extension{Name: "color", Value: "red,blue"},
			model.Extension{Name: "repo", Value: "https://example.com"},
		),
		enrollmentOf("u2", "", model.EnrollmentStatusPendingApproval, "2022-03-01T23:00:00+08:00",
			model.Extension{Name: "color", Value: "red"},
		),
		enrollmentOf("u3", "Shanghai", model.EnrollmentStatusPendingApproval, "2022-03-02T09:00:00+08:00"),
	)

	statistic, err := m.GetStatistic(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"approved": 1, "pendingApproval": 2}, statistic.Status)
	assert.Equal(t, map[string]int{"2022-03-01": 2, "2022-03-02": 1}, statistic.CreatedAt)
	assert.Equal(t, map[string]int{"Beijing": 1, "Shanghai": 1}, statistic.City)
	assert.Equal(t, map[string]map[string]int{
		"color": {"red": 2, "blue": 1},
		"repo":  {LinkBucket: 1},
	}, statistic.Extensions)

	assert.Equal(t, statistic, m.Statistic())
}

func TestModel_GetStatisticFailureKeepsSnapshot(t *testing.T) {
	approved := enrollmentOf("u1", "Beijing", model.EnrollmentStatusApproved, "2022-03-01T00:00:00Z")
	m, client := newFixture(approved)
	client.responses["hackathon/demo/enrollments?status=approved"] = model.ListPage[model.Enrollment]{Value: []model.Enrollment{approved}}

	ctx := context.Background()
	before, err := m.GetStatistic(ctx)
	require.NoError(t, err)

	// A different filter drops the unfiltered stream, so the next statistic refetches.
	_, err = m.GetList(ctx, model.EnrollmentFilter{Status: model.EnrollmentStatusApproved}, 1)
	require.NoError(t, err)

	failure := errors.New("offline")
	client.responses["hackathon/demo/enrollments"] = failure

	_, err = m.GetStatistic(ctx)
	require.ErrorIs(t, err, failure)
	assert.Equal(t, before, m.Statistic())
	assert.Equal(t, "hackathon/demo/enrollments", client.lastCall().Path)
}

func TestModel_GetStatisticSkipsLooseTimestamps(t *testing.T) {
	m, _ := newFixture(
		enrollmentOf("u1", "Beijing", model.EnrollmentStatusApproved, "2022-03-01T10:00:00.123"),
		enrollmentOf("u2", "Shanghai", model.EnrollmentStatusApproved, ""),
	)

	statistic, err := m.GetStatistic(context.Background())
	require.NoError(t, err)

	assert.Equal(t, map[string]int{"approved": 2}, statistic.Status)
	assert.Equal(t, map[string]int{"2022-03-01": 1}, statistic.CreatedAt)
	assert.Equal(t, map[string]int{"Beijing": 1, "Shanghai": 1}, statistic.City)
}

func TestModel_ExportURL(t *testing.T) {
	m, _ := newFixture()
	assert.Equal(t, "https://api.test/hackathon/demo/enrollment/export?type=enrollments", m.ExportURL())

	assert.Empty(t, NewModel(&fakeClient{}, "hackathon/demo", nil).ExportURL())
}
