package e2e_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"

	"github.com/helixml/fundmatch"
	"github.com/helixml/fundmatch/infrastructure/api"
	"github.com/helixml/fundmatch/internal/metrics"
	"github.com/helixml/fundmatch/internal/testembed"
)

const initialCatalog = `name,type,category,sector,description
Nippon Gold Savings Fund,Gold,Commodity,Gold,Invests in gold
Parag Liquid Fund,Debt,Liquid,Money Market,Liquid debt fund
`

// TestServer wraps a fundmatch client and its HTTP API for e2e testing.
type TestServer struct {
	t           *testing.T
	client      *fundmatch.Client
	embedder    *testembed.Words
	catalogPath string
	httpServer  *httptest.Server
}

// NewTestServer starts the full HTTP stack over a CSV catalog and a SQLite
// embedding cache in a temporary directory.
func NewTestServer(t *testing.T) *TestServer {
	t.Helper()

	tmpDir := t.TempDir()
	catalogPath := filepath.Join(tmpDir, "funds.csv")
	if err := os.WriteFile(catalogPath, []byte(initialCatalog), 0o644); err != nil {
		t.Fatalf("write catalog: %v", err)
	}

	embedder := testembed.New()
	recorder := metrics.NewRecorder()
	client, err := fundmatch.New(
		fundmatch.WithCatalogPath(catalogPath),
		fundmatch.WithEmbeddingProvider(embedder),
		fundmatch.WithEmbeddingCache("sqlite:///"+filepath.Join(tmpDir, "cache.db")),
		fundmatch.WithDataDir(tmpDir),
		fundmatch.WithRecorder(recorder),
	)
	if err != nil {
		t.Fatalf("create fundmatch client: %v", err)
	}

	apiServer := api.NewAPIServer(client,
		api.WithMetricsHandler(recorder.Handler()),
		api.WithVersion("e2e"),
	)

	ts := &TestServer{
		t:           t,
		client:      client,
		embedder:    embedder,
		catalogPath: catalogPath,
		httpServer:  httptest.NewServer(apiServer.Handler()),
	}

	t.Cleanup(func() {
		ts.Close()
	})

	return ts
}

// URL returns the base URL of the test server.
func (ts *TestServer) URL() string {
	return ts.httpServer.URL
}

// Close shuts down the test server.
func (ts *TestServer) Close() {
	ts.httpServer.Close()
	_ = ts.client.Close()
}

// WriteCatalog replaces the catalog file contents.
func (ts *TestServer) WriteCatalog(content string) {
	ts.t.Helper()
	if err := os.WriteFile(ts.catalogPath, []byte(content), 0o644); err != nil {
		ts.t.Fatalf("write catalog: %v", err)
	}
}

// GET performs a GET request and returns the response.
func (ts *TestServer) GET(path string) *http.Response {
	ts.t.Helper()
	resp, err := http.Get(ts.URL() + path)
	if err != nil {
		ts.t.Fatalf("GET %s: %v", path, err)
	}
	return resp
}

// POST performs a POST request with JSON body and returns the response.
func (ts *TestServer) POST(path string, body any) *http.Response {
	ts.t.Helper()
	jsonBody, err := json.Marshal(body)
	if err != nil {
		ts.t.Fatalf("marshal body: %v", err)
	}
	resp, err := http.Post(ts.URL()+path, "application/json", bytes.NewReader(jsonBody))
	if err != nil {
		ts.t.Fatalf("POST %s: %v", path, err)
	}
	return resp
}

// DecodeJSON decodes the response body as JSON into v.
func (ts *TestServer) DecodeJSON(resp *http.Response, v any) {
	ts.t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		ts.t.Fatalf("decode response: %v", err)
	}
}

// ReadBody reads and returns the response body as a string.
func (ts *TestServer) ReadBody(resp *http.Response) string {
	ts.t.Helper()
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		ts.t.Fatalf("read body: %v", err)
	}
	return string(body)
}

type matchResponse struct {
	Data struct {
		Type       string `json:"type"`
		ID         string `json:"id"`
		Attributes struct {
			Query   string `json:"query"`
			Matched bool   `json:"matched"`
			Fund    *struct {
				Name  string  `json:"name"`
				Score float64 `json:"score"`
			} `json:"fund"`
			Message     string   `json:"message"`
			Explanation []string `json:"explanation"`
			Candidates  []struct {
				Name string `json:"name"`
			} `json:"candidates"`
		} `json:"attributes"`
	} `json:"data"`
}

type fundsResponse struct {
	Data []struct {
		ID         string `json:"id"`
		Attributes struct {
			Name string `json:"name"`
		} `json:"attributes"`
	} `json:"data"`
	Meta map[string]any `json:"meta"`
}

type errorResponse struct {
	Errors []struct {
		Status string `json:"status"`
		Detail string `json:"detail"`
	} `json:"errors"`
}

func matchBody(query string) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"type":       "match",
			"attributes": map[string]any{"query": query},
		},
	}
}
