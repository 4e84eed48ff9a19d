package httpx_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/itemstore/pkg/httpx"
)

type stubChecker struct{ err error }

func (s *stubChecker) Ping(_ context.Context) error { return s.err }

func serveHealth(t *testing.T, checks httpx.HealthChecks) *httptest.ResponseRecorder {
	t.Helper()
	rr := httptest.NewRecorder()
	httpx.HealthHandler(checks).ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/health", http.NoBody))
	return rr
}

func decodeHealth(t *testing.T, rr *httptest.ResponseRecorder) map[string]string {
	t.Helper()
	var resp map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&resp))
	return resp
}

func TestHealthHandler_AllHealthy(t *testing.T) {
	rr := serveHealth(t, httpx.HealthChecks{
		Store:    &stubChecker{},
		EventBus: &stubChecker{},
		Redis:    &stubChecker{},
	})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "application/json; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, map[string]string{
		"status": "ok", "store": "ok", "event_bus": "ok", "redis": "ok",
	}, decodeHealth(t, rr))
}

func TestHealthHandler_RedisDisabled(t *testing.T) {
	rr := serveHealth(t, httpx.HealthChecks{Store: &stubChecker{}, EventBus: &stubChecker{}})

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "disabled", decodeHealth(t, rr)["redis"])
}

func TestHealthHandler_Degraded(t *testing.T) {
	down := &stubChecker{err: errors.New("unreachable")}
	tests := []struct {
		name   string
		checks httpx.HealthChecks
		field  string
	}{
		{"store down", httpx.HealthChecks{Store: down, EventBus: &stubChecker{}}, "store"},
		{"event bus down", httpx.HealthChecks{Store: &stubChecker{}, EventBus: down}, "event_bus"},
		{"redis down", httpx.HealthChecks{Store: &stubChecker{}, EventBus: &stubChecker{}, Redis: down}, "redis"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := serveHealth(t, tt.checks)
			assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
			resp := decodeHealth(t, rr)
			assert.Equal(t, "degraded", resp["status"])
			assert.Equal(t, "unreachable", resp[tt.field])
		})
	}
}
