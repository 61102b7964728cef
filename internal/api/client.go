package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "openhackathon/api"

var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// ResponseError is returned for every non-2xx answer of the API.
type ResponseError struct {
	StatusCode int
	Message    string
}

func (e *ResponseError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("api: status %d", e.StatusCode)
	}
	return fmt.Sprintf("api: status %d: %s", e.StatusCode, e.Message)
}

func (e *ResponseError) Is(target error) bool {
	switch target {
	case ErrUnauthorized:
		return e.StatusCode == fiber.StatusUnauthorized
	case ErrForbidden:
		return e.StatusCode == fiber.StatusForbidden
	case ErrNotFound:
		return e.StatusCode == fiber.StatusNotFound
	}
	return false
}

// Client talks JSON to the hackathon API.
type Client struct {
	baseURL  string
	token    string
	timeout  time.Duration
	http     *fiber.Client
	tracer   trace.Tracer
	requests metric.Int64Counter
}

func NewClient(baseURL string, timeout time.Duration) *Client {
	meter := otel.Meter(instrumentationName)
	requests, err := meter.Int64Counter(
		"openhackathon_api_requests_total",
		metric.WithDescription("Total number of requests sent to the hackathon API"),
		metric.WithUnit("1"),
	)
	if err != nil {
		otel.Handle(err)
	}

	return &Client{
		baseURL:  strings.TrimRight(baseURL, "/"),
		timeout:  timeout,
		http:     &fiber.Client{},
		tracer:   otel.Tracer(instrumentationName),
		requests: requests,
	}
}

// WithToken returns a copy of the client that authenticates as the token's owner.
func (c *Client) WithToken(token string) *Client {
	clone := *c
	clone.token = token
	return &clone
}

func (c *Client) BaseURL() string {
	return c.baseURL
}

func (c *Client) Token() string {
	return c.token
}

// URL resolves path against the base URL. Absolute URLs are returned unchanged.
func (c *Client) URL(path string) string {
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	return c.baseURL + "/" + strings.TrimLeft(path, "/")
}

func (c *Client) Get(ctx context.Context, path string, out any) error {
	return c.do(ctx, fiber.MethodGet, path, nil, out)
}

func (c *Client) Post(ctx context.Context, path string, body, out any) error {
	return c.do(ctx, fiber.MethodPost, path, body, out)
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) (err error) {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("api: %s %s: %w", method, path, err)
	}

	url := c.URL(path)

	ctx, span := c.tracer.Start(ctx, method+" "+path,
		trace.WithSpanKind(trace.SpanKindClient),
		trace.WithAttributes(
			attribute.String("http.method", method),
			attribute.String("http.url", url),
		),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	var agent *fiber.Agent
	switch method {
	case fiber.MethodPost:
		agent = c.http.Post(url)
	default:
		agent = c.http.Get(url)
	}

	agent.Set(fiber.HeaderAccept, fiber.MIMEApplicationJSON)
	if c.token != "" {
		agent.Set(fiber.HeaderAuthorization, "Bearer "+c.token)
	}
	if body != nil {
		agent.JSON(body)
	}
	agent.Timeout(c.requestTimeout(ctx))

	if err := agent.Parse(); err != nil {
		return fmt.Errorf("api: failed to prepare %s %s: %w", method, path, err)
	}

	status, raw, errs := agent.Bytes()
	c.count(ctx, method, status)
	span.SetAttributes(attribute.Int("http.status_code", status))

	if len(errs) > 0 {
		return fmt.Errorf("api: %s %s: %w", method, path, errors.Join(errs...))
	}

	if status < fiber.StatusOK || status >= fiber.StatusMultipleChoices {
		return fmt.Errorf("api: %s %s: %w", method, path, newResponseError(status, raw))
	}

	if out == nil || len(raw) == 0 {
		return nil
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("api: failed to decode %s %s: %w", method, path, err)
	}
	return nil
}

func (c *Client) requestTimeout(ctx context.Context) time.Duration {
	timeout := c.timeout
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); timeout <= 0 || remaining < timeout {
			timeout = remaining
		}
	}
	return timeout
}

func (c *Client) count(ctx context.Context, method string, status int) {
	if c.requests == nil {
		return
	}
	c.requests.Add(ctx, 1, metric.WithAttributes(
		attribute.String("method", method),
		attribute.Int("status", status),
	))
}

func newResponseError(status int, raw []byte) *ResponseError {
	var body struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}
	message := strings.TrimSpace(string(raw))
	if err := json.Unmarshal(raw, &body); err == nil {
		switch {
		case body.Message != "":
			message = body.Message
		case body.Error != "":
			message = body.Error
		}
	}
	return &ResponseError{StatusCode: status, Message: message}
}
