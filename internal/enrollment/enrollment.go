package enrollment

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"

	"openhackathon/internal/model"
	"openhackathon/internal/restful"
)

// ExportResource is the resource name the API export endpoint knows enrollments by.
const ExportResource = "enrollments"

var ErrInvalidStatus = errors.New("enrollment: status must be approved or rejected")

// Exporter builds download links for the signed-in user.
type Exporter interface {
	ExportURLOf(resource, baseURI string) string
}

// Model is the enrollment list of one hackathon, together with the statistic derived from it.
type Model struct {
	*restful.ListModel[model.Enrollment, model.EnrollmentFilter]

	BaseURI string

	client   restful.Client
	exporter Exporter

	mu         sync.RWMutex
	sessionOne *model.Enrollment
	statistic  Statistic

	verifications metric.Int64Counter
}

// NewModel creates the model for the hackathon resource at baseURI, e.g. "hackathon/demo".
func NewModel(client restful.Client, baseURI string, exporter Exporter) *Model {
	m := &Model{
		BaseURI:  strings.TrimRight(baseURI, "/") + "/enrollment",
		client:   client,
		exporter: exporter,
	}
	m.ListModel = restful.NewListModel(func(e model.Enrollment) string { return e.UserID }, m.OpenStream)

	verifications, err := otel.Meter("openhackathon/enrollment").Int64Counter(
		"openhackathon_enrollment_verifications_total",
		metric.WithDescription("Total number of enrollment verifications"),
		metric.WithUnit("1"),
	)
	if err != nil {
		otel.Handle(err)
	}
	m.verifications = verifications

	return m
}

// OpenStream starts paging through the enrollments matching filter.
func (m *Model) OpenStream(filter model.EnrollmentFilter) *restful.Stream[model.Enrollment] {
	path := m.BaseURI + "s"
	if query := filter.Query(); query != "" {
		path += "?" + query
	}
	return restful.NewListStream[model.Enrollment](path, m.client, m.SetTotalCount)
}

// ExportURL is the download link of every enrollment of the hackathon.
func (m *Model) ExportURL() string {
	if m.exporter == nil {
		return ""
	}
	return m.exporter.ExportURLOf(ExportResource, m.BaseURI)
}

// GetSessionOne fetches the signed-in user's own enrollment.
func (m *Model) GetSessionOne(ctx context.Context) (model.Enrollment, error) {
	defer m.BeginDownload()()

	var enrollment model.Enrollment
	if err := m.client.Get(ctx, m.BaseURI, &enrollment); err != nil {
		return model.Enrollment{}, fmt.Errorf("failed to get own enrollment: %w", err)
	}

	m.mu.Lock()
	m.sessionOne = &enrollment
	m.mu.Unlock()

	return enrollment, nil
}

func (m *Model) SessionOne() (model.Enrollment, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if m.sessionOne == nil {
		return model.Enrollment{}, false
	}
	return *m.sessionOne, true
}

// VerifyOne approves or rejects the enrollment of userID. The cached record is only
// patched after the API accepted the change.
func (m *Model) VerifyOne(ctx context.Context, userID string, status model.EnrollmentStatus) error {
	if !status.IsTerminal() {
		return ErrInvalidStatus
	}
	defer m.BeginUpload()()

	path := fmt.Sprintf("%s/%s/%s", m.BaseURI, userID, status.Action())
	if err := m.client.Post(ctx, path, struct{}{}, nil); err != nil {
		m.record(ctx, status, false)
		return fmt.Errorf("failed to %s enrollment of %s: %w", status.Action(), userID, err)
	}
	m.record(ctx, status, true)

	m.ChangeOne(userID, func(e *model.Enrollment) { e.Status = status })
	return nil
}

// GetStatistic recomputes every histogram from the full collection.
func (m *Model) GetStatistic(ctx context.Context) (Statistic, error) {
	status, err := m.CountAll(ctx, model.EnrollmentFilter{}, func(e model.Enrollment) string {
		return e.Status.String()
	})
	if err != nil {
		return Statistic{}, fmt.Errorf("failed to count enrollments: %w", err)
	}

	statistic := Aggregate(m.AllItems())
	statistic.Status = status

	m.mu.Lock()
	m.statistic = statistic
	m.mu.Unlock()

	return statistic.Clone(), nil
}

// Statistic is the last snapshot computed by GetStatistic.
func (m *Model) Statistic() Statistic {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return m.statistic.Clone()
}

func (m *Model) record(ctx context.Context, status model.EnrollmentStatus, success bool) {
	if m.verifications == nil {
		return
	}
	m.verifications.Add(ctx, 1, metric.WithAttributes(
		attribute.String("status", status.String()),
		attribute.Bool("success", success),
	))
}
