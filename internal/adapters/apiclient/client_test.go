package apiclient

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/liskovpm/scrum-service/internal/adapters/http/dto"
	"github.com/liskovpm/scrum-service/internal/adapters/http/middleware"
	"github.com/liskovpm/scrum-service/internal/domain"
	"github.com/liskovpm/scrum-service/internal/platform/config"
	"github.com/liskovpm/scrum-service/internal/platform/httpclient"
)

// newTestClient creates an httpclient.Client pointing at the given test
// server with circuit breaker and retry configured for fast test
// execution.
func newTestClient(t *testing.T, baseURL string) *httpclient.Client {
	t.Helper()

	cfg := &config.ClientConfig{
		BaseURL: baseURL,
		Timeout: 5 * time.Second,
		Retry: config.RetryConfig{
			MaxAttempts:     1,
			InitialInterval: 10 * time.Millisecond,
			MaxInterval:     10 * time.Millisecond,
			Multiplier:      1,
		},
		CircuitBreaker: config.CircuitBreakerConfig{
			MaxFailures:   5,
			Timeout:       30 * time.Second,
			HalfOpenLimit: 1,
		},
	}

	return httpclient.New(cfg, "scrum-api-test", nil, slog.Default())
}

// writeJSON encodes v as JSON to the response writer, failing the test on
// error.
func writeJSON(t *testing.T, w http.ResponseWriter, v any) {
	t.Helper()
	require.NoError(t, json.NewEncoder(w).Encode(v))
}

// problemJSON writes an RFC 9457 problem response with the given status.
func problemJSON(t *testing.T, w http.ResponseWriter, status int, body map[string]any) {
	t.Helper()
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	writeJSON(t, w, body)
}

func TestClient_CreateUser(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/users", r.URL.Path)
		assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

		var req dto.CreateUserRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "po", req.Username)

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{
			"id": 1, "username": "po",
			"created_at": "2026-01-01T00:00:00Z",
			"updated_at": "2026-01-01T00:00:00Z",
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	u, err := client.CreateUser(context.Background(), dto.CreateUserRequest{Username: "po"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), u.ID)
	assert.Equal(t, "po", u.Username)
}

func TestClient_CreateProject_SendsActorHeader(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "7", r.Header.Get(middleware.HeaderUserID))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		writeJSON(t, w, map[string]any{
			"id": 3, "name": "Apollo", "status": "PLANNING",
			"start_date": "2026-01-05",
			"created_at": "2026-01-01T00:00:00Z",
			"updated_at": "2026-01-01T00:00:00Z",
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	p, err := client.CreateProject(context.Background(), 7, dto.CreateProjectRequest{
		Name:           "Apollo",
		Description:    "demo",
		StartDate:      "2026-01-05",
		ProductOwnerID: 7,
		ScrumMasterID:  8,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.ID)
}

func TestClient_ListUsers_NoActorHeader(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Empty(t, r.Header.Get(middleware.HeaderUserID),
			"user management calls must not carry an actor header")

		w.Header().Set("Content-Type", "application/json")
		writeJSON(t, w, map[string]any{"users": []any{}, "count": 0})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	users, err := client.ListUsers(context.Background())
	require.NoError(t, err)
	assert.Zero(t, users.Count)
}

func TestClient_ValidationErrorTranslated(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		problemJSON(t, w, http.StatusBadRequest, map[string]any{
			"type": "about:blank", "title": "Bad Request", "status": 400,
			"detail": "validation failed",
			"errors": []map[string]any{
				{"location": "body.name", "message": "is required"},
			},
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	_, err := client.CreateProject(context.Background(), 1, dto.CreateProjectRequest{})

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "is required", verr.Fields["name"])
}

func TestClient_NotFoundTranslated(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		problemJSON(t, w, http.StatusNotFound, map[string]any{
			"type": "about:blank", "title": "Not Found", "status": 404,
			"detail": "story 42 not found",
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	_, err := client.TransitionStory(context.Background(), 1, 42, "TODO")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestClient_ForbiddenTranslated(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		problemJSON(t, w, http.StatusForbidden, map[string]any{
			"type": "about:blank", "title": "Forbidden", "status": 403,
			"detail": "not a project member",
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	_, err := client.ListProjects(context.Background(), 99)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestClient_ConflictTranslated(t *testing.T) {
	t.Parallel()

	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		problemJSON(t, w, http.StatusConflict, map[string]any{
			"type": "about:blank", "title": "Conflict", "status": 409,
			"detail": "user is referenced by existing projects",
		})
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	err := client.DeleteUser(context.Background(), 5)
	assert.ErrorIs(t, err, domain.ErrReferential)
}

func TestClient_Reset(t *testing.T) {
	t.Parallel()

	called := false
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/admin/reset", r.URL.Path)
		called = true
		w.WriteHeader(http.StatusNoContent)
	}))
	defer ts.Close()

	client := New(newTestClient(t, ts.URL), slog.Default())
	require.NoError(t, client.Reset(context.Background()))
	assert.True(t, called)
}
