// Package api serves the fund matching HTTP API, metrics and the MCP
// endpoint.
package api

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/helixml/fundmatch"
	apimiddleware "github.com/helixml/fundmatch/infrastructure/api/middleware"
	v1 "github.com/helixml/fundmatch/infrastructure/api/v1"
	mcpinternal "github.com/helixml/fundmatch/internal/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// requestTimeout bounds every /api/v1 request.
const requestTimeout = 60 * time.Second

// APIServerOption configures an APIServer.
type APIServerOption func(*APIServer)

// WithCORSAllowedOrigins enables CORS for the given origins.
func WithCORSAllowedOrigins(origins []string) APIServerOption {
	return func(a *APIServer) { a.corsOrigins = origins }
}

// WithMetricsHandler serves h on /metrics.
func WithMetricsHandler(h http.Handler) APIServerOption {
	return func(a *APIServer) { a.metrics = h }
}

// WithVersion sets the version reported by /healthz and MCP.
func WithVersion(version string) APIServerOption {
	return func(a *APIServer) { a.version = version }
}

// APIServer provides an HTTP API backed by a fundmatch Client.
type APIServer struct {
	client      *fundmatch.Client
	corsOrigins []string
	metrics     http.Handler
	version     string
	server      *Server
	router      chi.Router
	mounted     bool
	logger      *slog.Logger
	mu          sync.Mutex
}

// NewAPIServer creates a new APIServer wired to the given Client.
func NewAPIServer(client *fundmatch.Client, opts ...APIServerOption) *APIServer {
	a := &APIServer{
		client:  client,
		version: "dev",
		logger:  client.Logger(),
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Router returns the chi router for customization before starting. Add
// custom middleware with router.Use(), then call MountRoutes().
func (a *APIServer) Router() chi.Router {
	if a.router != nil {
		return a.router
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.RealIP)
	router.Use(apimiddleware.Correlation)
	router.Use(apimiddleware.Logging(a.logger))
	router.Use(chimiddleware.Recoverer)
	if len(a.corsOrigins) > 0 {
		router.Use(cors.Handler(cors.Options{
			AllowedOrigins:   a.corsOrigins,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodDelete, http.MethodOptions},
			AllowedHeaders:   []string{"Accept", "Content-Type", "Mcp-Session-Id", apimiddleware.CorrelationHeader},
			ExposedHeaders:   []string{"Mcp-Session-Id", apimiddleware.CorrelationHeader},
			AllowCredentials: false,
			MaxAge:           300,
		}))
	}

	a.router = router
	return a.router
}

// MountRoutes wires up all routes on the router. It is safe to call more
// than once.
func (a *APIServer) MountRoutes() {
	if a.mounted {
		return
	}
	a.mountRoutes(a.Router())
	a.mounted = true
}

func (a *APIServer) mountRoutes(router chi.Router) {
	c := a.client

	router.Get("/healthz", a.health)
	if a.metrics != nil {
		router.Handle("/metrics", a.metrics)
	}

	router.Route("/api/v1", func(r chi.Router) {
		r.Use(chimiddleware.Timeout(requestTimeout))

		r.Mount("/match", v1.NewMatchRouter(c).Routes())
		r.Mount("/funds", v1.NewFundsRouter(c).Routes())
		r.Mount("/catalog", v1.NewCatalogRouter(c).Routes())
	})

	router.Mount("/docs", a.DocsRouter("/docs/openapi.json").Routes())

	// MCP streams responses and keeps session state in headers, so it gets
	// no Timeout middleware.
	mcpSrv := mcpinternal.NewServer(c, a.version, a.logger)
	router.Mount("/mcp", server.NewStreamableHTTPServer(mcpSrv.MCPServer()))
}

// DocsRouter returns a router for Swagger UI and the API spec.
func (a *APIServer) DocsRouter(specURL string) *DocsRouter {
	return NewDocsRouter(specURL)
}

type healthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Funds   int    `json:"funds"`
	Model   string `json:"model,omitempty"`
}

func (a *APIServer) health(w http.ResponseWriter, _ *http.Request) {
	idx, err := a.client.Matcher.Index()
	if err != nil {
		apimiddleware.WriteJSON(w, http.StatusServiceUnavailable, healthResponse{
			Status:  "unavailable",
			Version: a.version,
		})
		return
	}
	apimiddleware.WriteJSON(w, http.StatusOK, healthResponse{
		Status:  "ok",
		Version: a.version,
		Funds:   idx.Len(),
		Model:   idx.Model(),
	})
}

// ListenAndServe starts the HTTP server on the given address.
func (a *APIServer) ListenAndServe(addr string) error {
	srv := NewServer(addr, a.Handler(), a.logger)
	a.mu.Lock()
	a.server = srv
	a.mu.Unlock()
	return srv.Start()
}

// Shutdown gracefully shuts down the server.
func (a *APIServer) Shutdown(ctx context.Context) error {
	a.mu.Lock()
	srv := a.server
	a.mu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

// Handler returns the router as an http.Handler for use with custom servers.
func (a *APIServer) Handler() http.Handler {
	a.MountRoutes()
	return a.router
}
