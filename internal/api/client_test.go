package api

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type hackathon struct {
	Name string `json:"name"`
}

func TestClient_Get(t *testing.T) {
	var gotAuth, gotPath string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.RequestURI()
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"name":"demo"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL+"/v2/", time.Second).WithToken("secret")

	var out hackathon
	require.NoError(t, client.Get(context.Background(), "hackathon/demo?x=1", &out))

	assert.Equal(t, "demo", out.Name)
	assert.Equal(t, "Bearer secret", gotAuth)
	assert.Equal(t, "/v2/hackathon/demo?x=1", gotPath)
}

func TestClient_PostSendsJSONBody(t *testing.T) {
	var gotMethod, gotContentType string
	var gotBody []byte
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMethod = r.Method
		gotContentType = r.Header.Get("Content-Type")
		gotBody, _ = io.ReadAll(r.Body)
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := NewClient(server.URL, time.Second)
	require.NoError(t, client.Post(context.Background(), "/enrollment/u1/approve", struct{}{}, nil))

	assert.Equal(t, http.MethodPost, gotMethod)
	assert.Contains(t, gotContentType, "application/json")
	assert.JSONEq(t, `{}`, string(gotBody))
}

func TestClient_ErrorResponses(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		sentinel error
		message  string
	}{
		{name: "unauthorized", status: http.StatusUnauthorized, body: `{"message":"token expired"}`, sentinel: ErrUnauthorized, message: "token expired"},
		{name: "forbidden", status: http.StatusForbidden, body: `{"error":"not an admin"}`, sentinel: ErrForbidden, message: "not an admin"},
		{name: "not_found", status: http.StatusNotFound, body: `missing`, sentinel: ErrNotFound, message: "missing"},
		{name: "server_error", status: http.StatusBadGateway, body: ``, sentinel: nil, message: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer server.Close()

			err := NewClient(server.URL, time.Second).Get(context.Background(), "anything", nil)
			require.Error(t, err)

			var responseErr *ResponseError
			require.True(t, errors.As(err, &responseErr))
			assert.Equal(t, tt.status, responseErr.StatusCode)
			assert.Equal(t, tt.message, responseErr.Message)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}
}

func TestClient_CancelledContext(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewClient(server.URL, time.Second).Get(ctx, "anything", nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestClient_DecodeError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	}))
	defer server.Close()

	var out hackathon
	err := NewClient(server.URL, time.Second).Get(context.Background(), "anything", &out)
	require.Error(t, err)

	var syntaxErr *json.SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
}

func TestClient_URL(t *testing.T) {
	client := NewClient("http://api.test/v2/", time.Second)

	assert.Equal(t, "http://api.test/v2/hackathon", client.URL("hackathon"))
	assert.Equal(t, "http://api.test/v2/hackathon", client.URL("/hackathon"))
	assert.Equal(t, "https://other.test/page?2", client.URL("https://other.test/page?2"))
}
