package api_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api"
	"github.com/helixml/fundmatch/internal/log"
	"github.com/helixml/fundmatch/internal/metrics"
	"github.com/helixml/fundmatch/internal/testembed"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestClient(t *testing.T, opts ...fundmatch.Option) *fundmatch.Client {
	t.Helper()
	base := []fundmatch.Option{
		fundmatch.WithEmbeddingProvider(testembed.New()),
		fundmatch.WithDataDir(t.TempDir()),
		fundmatch.WithLogger(log.Discard()),
	}
	client, err := fundmatch.New(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func get(handler http.Handler, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestAPIServer_Health(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t), api.WithVersion("1.2.3")).Handler()

	w := get(handler, "/healthz")
	require.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Status  string `json:"status"`
		Version string `json:"version"`
		Funds   int    `json:"funds"`
		Model   string `json:"model"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "ok", body.Status)
	assert.Equal(t, "1.2.3", body.Version)
	assert.Equal(t, 3, body.Funds)
	assert.Equal(t, "words", body.Model)
}

func TestAPIServer_Routes(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t)).Handler()

	t.Run("GET /api/v1/funds", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(handler, "/api/v1/funds").Code)
	})

	t.Run("GET /api/v1/catalog", func(t *testing.T) {
		assert.Equal(t, http.StatusOK, get(handler, "/api/v1/catalog").Code)
	})

	t.Run("POST /api/v1/match", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"query":"tax saving elss"}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)

		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		assert.NotEmpty(t, w.Header().Get("X-Request-Id"))

		var doc struct {
			Data struct {
				ID string `json:"id"`
			} `json:"data"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &doc))
		assert.Equal(t, w.Header().Get("X-Request-Id"), doc.Data.ID)
	})

	t.Run("unknown route", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(handler, "/api/v1/nope").Code)
	})

	t.Run("metrics disabled", func(t *testing.T) {
		assert.Equal(t, http.StatusNotFound, get(handler, "/metrics").Code)
	})
}

func TestAPIServer_Metrics(t *testing.T) {
	recorder := metrics.NewRecorder()
	client := newTestClient(t, fundmatch.WithRecorder(recorder))
	handler := api.NewAPIServer(client, api.WithMetricsHandler(recorder.Handler())).Handler()

	req := httptest.NewRequest(http.MethodPost, "/api/v1/match", strings.NewReader(`{"query":"tax saving elss"}`))
	handler.ServeHTTP(httptest.NewRecorder(), req)

	w := get(handler, "/metrics")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `fundmatch_matches_total{outcome="match"} 1`)
	assert.Contains(t, w.Body.String(), "fundmatch_index_funds 3")
}

func TestAPIServer_CORS(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t),
		api.WithCORSAllowedOrigins([]string{"https://app.example.com"}),
	).Handler()

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/match", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("Origin", "https://evil.example.com")
	w = httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}

func TestAPIServer_CustomMiddleware(t *testing.T) {
	apiServer := api.NewAPIServer(newTestClient(t))
	apiServer.Router().Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Custom", "yes")
			next.ServeHTTP(w, r)
		})
	})
	apiServer.MountRoutes()
	apiServer.MountRoutes()

	w := get(apiServer.Handler(), "/healthz")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "yes", w.Header().Get("X-Custom"))
}

func TestAPIServer_Docs(t *testing.T) {
	handler := api.NewAPIServer(newTestClient(t)).Handler()

	t.Run("GET /docs/ serves Swagger UI", func(t *testing.T) {
		w := get(handler, "/docs/")
		require.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
		assert.Contains(t, w.Body.String(), `url: "/docs/openapi.json"`)
	})

	t.Run("GET /docs/openapi.json describes the v1 routes", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/docs/openapi.json", nil)
		req.Host = "funds.internal:9000"
		req.Header.Set("X-Forwarded-Proto", "https")
		w := httptest.NewRecorder()
		handler.ServeHTTP(w, req)
		require.Equal(t, http.StatusOK, w.Code)

		var spec struct {
			Swagger  string                    `json:"swagger"`
			Host     string                    `json:"host"`
			BasePath string                    `json:"basePath"`
			Schemes  []string                  `json:"schemes"`
			Paths    map[string]map[string]any `json:"paths"`
		}
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &spec))
		assert.Equal(t, "2.0", spec.Swagger)
		assert.Equal(t, "funds.internal:9000", spec.Host)
		assert.Equal(t, "/api/v1", spec.BasePath)
		assert.Equal(t, []string{"https"}, spec.Schemes)

		assert.Contains(t, spec.Paths["/match"], "post")
		assert.Contains(t, spec.Paths["/funds"], "get")
		assert.Contains(t, spec.Paths["/funds/{name}"], "get")
		assert.Contains(t, spec.Paths["/catalog"], "get")
		assert.Contains(t, spec.Paths["/catalog/reload"], "post")
	})
}
