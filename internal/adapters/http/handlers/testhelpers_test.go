package handlers_test

import (
	"context"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/liskovpm/scrum-service/internal/ports"
)

// requireStatus fails the test immediately if the recorded status code
// does not match.
func requireStatus(t *testing.T, rec *httptest.ResponseRecorder, want int) {
	t.Helper()
	if rec.Code != want {
		t.Fatalf("status = %d, want %d (body: %s)", rec.Code, want, rec.Body.String())
	}
}

// decodeJSON decodes the recorded response body into T.
func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.NewDecoder(rec.Body).Decode(&v); err != nil {
		t.Fatalf("decoding response body: %v", err)
	}
	return v
}

// stubRegistry is a canned-result health registry for handler tests.
type stubRegistry struct {
	results map[string]error
}

func (s stubRegistry) Register(ports.HealthChecker) {}

func (s stubRegistry) CheckAll(context.Context) map[string]error {
	if s.results == nil {
		return map[string]error{}
	}
	return s.results
}
