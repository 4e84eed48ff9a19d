package handlers_test

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghuser/itemstore/pkg/app"
	"github.com/ghuser/itemstore/pkg/cache"
	"github.com/ghuser/itemstore/pkg/config"
	"github.com/ghuser/itemstore/pkg/logger"
	"github.com/ghuser/itemstore/services/item/application/api"
	"github.com/ghuser/itemstore/services/item/application/handlers"
	appsvcs "github.com/ghuser/itemstore/services/item/application/services"
)

const threeItems = `[
  { "id": 1, "name": "Test Item 1", "createdAt": "2023-01-01T00:00:00.000Z" },
  { "id": 2, "name": "Test Item 2", "createdAt": "2023-01-02T00:00:00.000Z", "price": 5 },
  { "id": 3, "name": "Another Test", "createdAt": "2023-01-03T00:00:00.000Z", "price": 15 }
]`

// newServer mounts the item routes under /api over a data file seeded with
// content (no file when content is empty).
func newServer(t *testing.T, content string, env string) *httptest.Server {
	t.Helper()
	path := filepath.Join(t.TempDir(), "items.json")
	if content != "" {
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	cfg := &config.Config{
		DataPath:          path,
		StoreAtomicWrites: true,
		LogLevel:          "error",
		Environment:       env,
	}
	a := &app.Application{
		Config:     cfg,
		Logger:     logger.New(cfg),
		StatsCache: cache.NewMemoryStatsCache(0),
	}
	svcs := appsvcs.New(a)

	r := chi.NewRouter()
	r.Route("/api", func(r chi.Router) {
		api.ItemRoutes(r, a, svcs)
	})
	srv := httptest.NewServer(r)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, []byte) {
	t.Helper()
	req, err := http.NewRequest(method, url, strings.NewReader(body))
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var buf strings.Builder
	_, err = io.Copy(&buf, resp.Body)
	require.NoError(t, err)
	return resp, []byte(buf.String())
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v), "body: %s", raw)
	return v
}

func TestGetItems_EmptyStore(t *testing.T) {
	srv := newServer(t, "", config.EnvTesting)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{
		"items": [],
		"pagination": {"page":1,"limit":10,"total":0,"totalPages":1,"hasNext":false,"hasPrev":false}
	}`, string(body))
}

func TestGetItems_Search(t *testing.T) {
	srv := newServer(t, threeItems, config.EnvTesting)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items?q=test%20item", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	got := decode[handlers.ListItemsResponse](t, body)
	require.Len(t, got.Items, 2)
	for _, it := range got.Items {
		assert.Contains(t, strings.ToLower(it.Name), "test item")
	}
}

func TestGetItems_QueryParameters(t *testing.T) {
	srv := newServer(t, threeItems, config.EnvTesting)

	tests := []struct {
		name      string
		query     string
		wantPage  int
		wantLimit int
		wantItems int
	}{
		{"clamped", "?limit=500&page=0", 1, 100, 3},
		{"non-numeric treated as missing", "?limit=abc&page=xyz", 1, 10, 3},
		{"zero limit treated as missing", "?limit=0", 1, 10, 3},
		{"negative limit", "?limit=-4", 1, 1, 1},
		{"second page", "?limit=2&page=2", 2, 2, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, body := do(t, http.MethodGet, srv.URL+"/api/items"+tt.query, "")
			require.Equal(t, http.StatusOK, resp.StatusCode)
			got := decode[handlers.ListItemsResponse](t, body)
			assert.Equal(t, tt.wantPage, got.Pagination.Page)
			assert.Equal(t, tt.wantLimit, got.Pagination.Limit)
			assert.Len(t, got.Items, tt.wantItems)
		})
	}
}

func TestGetItem(t *testing.T) {
	srv := newServer(t, threeItems, config.EnvTesting)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items/2", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"id":2,"name":"Test Item 2","createdAt":"2023-01-02T00:00:00.000Z","price":5}`, string(body))

	for _, id := range []string{"0", "abc", "-1", "1.5"} {
		resp, body = do(t, http.MethodGet, srv.URL+"/api/items/"+id, "")
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "id %s", id)
		assert.Contains(t, string(body), `"error"`)
	}

	resp, _ = do(t, http.MethodGet, srv.URL+"/api/items/999", "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestPostItem(t *testing.T) {
	srv := newServer(t, "", config.EnvTesting)

	resp, body := do(t, http.MethodPost, srv.URL+"/api/items", `{"name":"  Trimmed  "}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	created := decode[handlers.ItemResponse](t, body)
	assert.Equal(t, "Trimmed", created.Name)
	assert.Positive(t, created.ID)
	assert.NotEmpty(t, created.CreatedAt)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/items/"+strconv.FormatInt(created.ID, 10), "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, created, decode[handlers.ItemResponse](t, body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/items", `{"name":"TRIMMED"}`)
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
}

func TestPostItem_BadRequests(t *testing.T) {
	srv := newServer(t, "", config.EnvTesting)

	for _, body := range []string{
		`{"name":123}`,
		`{"name":""}`,
		`{"name":"   "}`,
		`{}`,
		`{bad json`,
		`{"name":"` + strings.Repeat("x", 201) + `"}`,
	} {
		resp, _ := do(t, http.MethodPost, srv.URL+"/api/items", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, "body %s", body)
	}

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decode[handlers.ListItemsResponse](t, body).Items)
}

func TestGetStats(t *testing.T) {
	srv := newServer(t, threeItems, config.EnvTesting)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total":3,"averagePrice":10}`, string(body))

	resp, _ = do(t, http.MethodPost, srv.URL+"/api/items", `{"name":"Fourth"}`)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	resp, body = do(t, http.MethodGet, srv.URL+"/api/stats", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.JSONEq(t, `{"total":4,"averagePrice":10}`, string(body))
}

func TestCorruptData_Returns500(t *testing.T) {
	srv := newServer(t, `not json`, config.EnvTesting)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.Contains(t, string(body), "corrupt")
}

func TestCorruptData_ProductionHidesDetail(t *testing.T) {
	srv := newServer(t, `not json`, config.EnvProduction)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items", "")
	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	assert.JSONEq(t, `{"error":"Internal Server Error"}`, string(body))
}

func TestGetItems_HugePageIsEmpty(t *testing.T) {
	srv := newServer(t, threeItems, config.EnvDevelopment)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items?page=9223372036854775807&limit=100", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))

	got := decode[handlers.ListItemsResponse](t, body)
	assert.Empty(t, got.Items)
	assert.Equal(t, 3, got.Pagination.Total)
	assert.False(t, got.Pagination.HasNext)
}

func TestGetItems_NonStringNameIsTolerated(t *testing.T) {
	srv := newServer(t, `[{"id": 1, "name": 123}, {"id": 2, "name": "Widget"}]`, config.EnvDevelopment)

	resp, body := do(t, http.MethodGet, srv.URL+"/api/items?q=widget", "")
	require.Equal(t, http.StatusOK, resp.StatusCode, string(body))
	got := decode[handlers.ListItemsResponse](t, body)
	require.Len(t, got.Items, 1)
	assert.Equal(t, int64(2), got.Items[0].ID)
}
