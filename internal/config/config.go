// Package config provides application configuration.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// Default configuration values.
const (
	DefaultHost                  = "0.0.0.0"
	DefaultPort                  = 8080
	DefaultLogLevel              = "INFO"
	DefaultModelSubdir           = "models"
	DefaultEndpointTimeout       = 60 * time.Second
	DefaultEndpointMaxRetries    = 5
	DefaultEndpointInitialDelay  = 2 * time.Second
	DefaultEndpointBackoffFactor = 2.0
	DefaultFuzzyThreshold        = 70.0
	DefaultFuzzyBonus            = 0.05
	DefaultConfidenceThreshold   = 0.3
	DefaultTopK                  = 3
	DefaultQueryCacheSize        = 1024
)

// DefaultMatchFields are the metadata fields compared against the query.
var DefaultMatchFields = []string{"type", "category", "sector"}

// LogFormat represents the log output format.
type LogFormat string

// LogFormat values.
const (
	LogFormatPretty LogFormat = "pretty"
	LogFormatJSON   LogFormat = "json"
)

// Endpoint configures an OpenAI-compatible embedding service.
type Endpoint struct {
	baseURL       string
	model         string
	apiKey        string
	timeout       time.Duration
	maxRetries    int
	initialDelay  time.Duration
	backoffFactor float64
}

// NewEndpoint creates a new Endpoint with defaults.
func NewEndpoint() Endpoint {
	return Endpoint{
		timeout:       DefaultEndpointTimeout,
		maxRetries:    DefaultEndpointMaxRetries,
		initialDelay:  DefaultEndpointInitialDelay,
		backoffFactor: DefaultEndpointBackoffFactor,
	}
}

// BaseURL returns the base URL for the endpoint.
func (e Endpoint) BaseURL() string { return e.baseURL }

// Model returns the model identifier.
func (e Endpoint) Model() string { return e.model }

// APIKey returns the API key.
func (e Endpoint) APIKey() string { return e.apiKey }

// Timeout returns the request timeout.
func (e Endpoint) Timeout() time.Duration { return e.timeout }

// MaxRetries returns the maximum retry count.
func (e Endpoint) MaxRetries() int { return e.maxRetries }

// InitialDelay returns the initial retry delay.
func (e Endpoint) InitialDelay() time.Duration { return e.initialDelay }

// BackoffFactor returns the retry backoff multiplier.
func (e Endpoint) BackoffFactor() float64 { return e.backoffFactor }

// IsConfigured returns true if the endpoint has a model.
func (e Endpoint) IsConfigured() bool {
	return e.model != ""
}

// EndpointOption is a functional option for Endpoint.
type EndpointOption func(*Endpoint)

// WithBaseURL sets the base URL.
func WithBaseURL(url string) EndpointOption {
	return func(e *Endpoint) { e.baseURL = url }
}

// WithModel sets the model.
func WithModel(model string) EndpointOption {
	return func(e *Endpoint) { e.model = model }
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) EndpointOption {
	return func(e *Endpoint) { e.apiKey = key }
}

// WithTimeout sets the request timeout.
func WithTimeout(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.timeout = d }
}

// WithMaxRetries sets the maximum retry count.
func WithMaxRetries(n int) EndpointOption {
	return func(e *Endpoint) { e.maxRetries = n }
}

// WithInitialDelay sets the initial retry delay.
func WithInitialDelay(d time.Duration) EndpointOption {
	return func(e *Endpoint) { e.initialDelay = d }
}

// WithBackoffFactor sets the retry backoff multiplier.
func WithBackoffFactor(f float64) EndpointOption {
	return func(e *Endpoint) { e.backoffFactor = f }
}

// NewEndpointWithOptions creates an Endpoint with functional options.
func NewEndpointWithOptions(opts ...EndpointOption) Endpoint {
	e := NewEndpoint()
	for _, opt := range opts {
		opt(&e)
	}
	return e
}

// MatchingConfig holds the ranking thresholds.
type MatchingConfig struct {
	fuzzyThreshold      float64
	fuzzyBonus          float64
	matchFields         []string
	confidenceThreshold float64
	topK                int
}

// NewMatchingConfig creates a MatchingConfig with defaults.
func NewMatchingConfig() MatchingConfig {
	return MatchingConfig{
		fuzzyThreshold:      DefaultFuzzyThreshold,
		fuzzyBonus:          DefaultFuzzyBonus,
		matchFields:         append([]string(nil), DefaultMatchFields...),
		confidenceThreshold: DefaultConfidenceThreshold,
		topK:                DefaultTopK,
	}
}

// FuzzyThreshold returns the partial ratio a field must exceed to earn a bonus.
func (m MatchingConfig) FuzzyThreshold() float64 { return m.fuzzyThreshold }

// FuzzyBonus returns the score added per matching field.
func (m MatchingConfig) FuzzyBonus() float64 { return m.fuzzyBonus }

// MatchFields returns the field names compared against the query.
func (m MatchingConfig) MatchFields() []string {
	return append([]string(nil), m.matchFields...)
}

// ConfidenceThreshold returns the minimum adjusted score for a match.
func (m MatchingConfig) ConfidenceThreshold() float64 { return m.confidenceThreshold }

// TopK returns the default number of candidates.
func (m MatchingConfig) TopK() int { return m.topK }

// WithFuzzyThreshold returns a copy with the fuzzy threshold set.
func (m MatchingConfig) WithFuzzyThreshold(v float64) MatchingConfig {
	m.fuzzyThreshold = v
	return m
}

// WithFuzzyBonus returns a copy with the fuzzy bonus set.
func (m MatchingConfig) WithFuzzyBonus(v float64) MatchingConfig {
	m.fuzzyBonus = v
	return m
}

// WithMatchFields returns a copy with the match fields set.
func (m MatchingConfig) WithMatchFields(fields []string) MatchingConfig {
	m.matchFields = append([]string(nil), fields...)
	return m
}

// WithConfidenceThreshold returns a copy with the confidence threshold set.
func (m MatchingConfig) WithConfidenceThreshold(v float64) MatchingConfig {
	m.confidenceThreshold = v
	return m
}

// WithTopK returns a copy with the default top-k set.
func (m MatchingConfig) WithTopK(k int) MatchingConfig {
	m.topK = k
	return m
}

// AppConfig holds the main application configuration.
type AppConfig struct {
	host               string
	port               int
	dataDir            string
	dbURL              string
	logLevel           string
	logFormat          LogFormat
	catalogPath        string
	modelDir           string
	embeddingEndpoint  *Endpoint
	matching           MatchingConfig
	queryCacheSize     int
	corsAllowedOrigins []string
	metricsEnabled     bool
	reloadInterval     time.Duration
}

// DefaultDataDir returns the default data directory.
func DefaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fundmatch"
	}
	return filepath.Join(home, ".fundmatch")
}

// DefaultLogger returns the default slog logger for library consumers.
func DefaultLogger() *slog.Logger {
	return slog.Default()
}

// NewAppConfig creates a new AppConfig with defaults. The embedding cache
// database is disabled until a DB URL is set.
func NewAppConfig() AppConfig {
	return AppConfig{
		host:               DefaultHost,
		port:               DefaultPort,
		dataDir:            DefaultDataDir(),
		logLevel:           DefaultLogLevel,
		logFormat:          LogFormatPretty,
		matching:           NewMatchingConfig(),
		queryCacheSize:     DefaultQueryCacheSize,
		corsAllowedOrigins: []string{},
		metricsEnabled:     true,
	}
}

// Host returns the server host to bind to.
func (c AppConfig) Host() string { return c.host }

// Port returns the server port to listen on.
func (c AppConfig) Port() int { return c.port }

// Addr returns the combined host:port address.
func (c AppConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.host, c.port)
}

// DataDir returns the data directory path.
func (c AppConfig) DataDir() string { return c.dataDir }

// DBURL returns the embedding cache database URL, empty when disabled.
func (c AppConfig) DBURL() string { return c.dbURL }

// LogLevel returns the log level.
func (c AppConfig) LogLevel() string { return c.logLevel }

// LogFormat returns the log format.
func (c AppConfig) LogFormat() LogFormat { return c.logFormat }

// CatalogPath returns the catalog file, empty for the built-in catalog.
func (c AppConfig) CatalogPath() string { return c.catalogPath }

// ModelDir returns the directory searched for local models.
func (c AppConfig) ModelDir() string {
	if c.modelDir != "" {
		return c.modelDir
	}
	return filepath.Join(c.dataDir, DefaultModelSubdir)
}

// EmbeddingEndpoint returns the remote embedding endpoint, nil for local
// embeddings.
func (c AppConfig) EmbeddingEndpoint() *Endpoint { return c.embeddingEndpoint }

// Matching returns the ranking configuration.
func (c AppConfig) Matching() MatchingConfig { return c.matching }

// QueryCacheSize returns the number of query embeddings kept in memory.
func (c AppConfig) QueryCacheSize() int { return c.queryCacheSize }

// CORSAllowedOrigins returns the origins allowed by the HTTP API.
func (c AppConfig) CORSAllowedOrigins() []string {
	return append([]string(nil), c.corsAllowedOrigins...)
}

// MetricsEnabled reports whether /metrics is served.
func (c AppConfig) MetricsEnabled() bool { return c.metricsEnabled }

// ReloadInterval returns how often the catalog file is checked for changes,
// zero when disabled.
func (c AppConfig) ReloadInterval() time.Duration { return c.reloadInterval }

// EnsureDataDir creates the data directory if it doesn't exist.
func (c AppConfig) EnsureDataDir() error {
	return os.MkdirAll(c.dataDir, 0o755)
}

// AppConfigOption is a functional option for AppConfig.
type AppConfigOption func(*AppConfig)

// WithHost sets the server host.
func WithHost(host string) AppConfigOption {
	return func(c *AppConfig) { c.host = host }
}

// WithPort sets the server port.
func WithPort(port int) AppConfigOption {
	return func(c *AppConfig) { c.port = port }
}

// WithDataDir sets the data directory.
func WithDataDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.dataDir = dir }
}

// WithDBURL sets the embedding cache database URL.
func WithDBURL(url string) AppConfigOption {
	return func(c *AppConfig) { c.dbURL = url }
}

// WithLogLevel sets the log level.
func WithLogLevel(level string) AppConfigOption {
	return func(c *AppConfig) { c.logLevel = level }
}

// WithLogFormat sets the log format.
func WithLogFormat(format LogFormat) AppConfigOption {
	return func(c *AppConfig) { c.logFormat = format }
}

// WithCatalogPath sets the catalog file.
func WithCatalogPath(path string) AppConfigOption {
	return func(c *AppConfig) { c.catalogPath = path }
}

// WithModelDir sets the local model directory.
func WithModelDir(dir string) AppConfigOption {
	return func(c *AppConfig) { c.modelDir = dir }
}

// WithEmbeddingEndpoint sets the embedding endpoint.
func WithEmbeddingEndpoint(e Endpoint) AppConfigOption {
	return func(c *AppConfig) { c.embeddingEndpoint = &e }
}

// WithMatching sets the ranking configuration.
func WithMatching(m MatchingConfig) AppConfigOption {
	return func(c *AppConfig) { c.matching = m }
}

// WithQueryCacheSize sets the query embedding cache size. Zero disables it.
func WithQueryCacheSize(n int) AppConfigOption {
	return func(c *AppConfig) {
		if n >= 0 {
			c.queryCacheSize = n
		}
	}
}

// WithCORSAllowedOrigins sets the allowed CORS origins.
func WithCORSAllowedOrigins(origins []string) AppConfigOption {
	return func(c *AppConfig) {
		c.corsAllowedOrigins = append([]string(nil), origins...)
	}
}

// WithMetricsEnabled toggles the metrics endpoint.
func WithMetricsEnabled(enabled bool) AppConfigOption {
	return func(c *AppConfig) { c.metricsEnabled = enabled }
}

// WithReloadInterval sets the catalog change polling interval.
func WithReloadInterval(d time.Duration) AppConfigOption {
	return func(c *AppConfig) {
		if d >= 0 {
			c.reloadInterval = d
		}
	}
}

// NewAppConfigWithOptions creates an AppConfig with functional options.
func NewAppConfigWithOptions(opts ...AppConfigOption) AppConfig {
	c := NewAppConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// Apply returns a new AppConfig with the given options applied.
func (c AppConfig) Apply(opts ...AppConfigOption) AppConfig {
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

// LogAttrs returns slog attributes for logging the configuration. Secrets
// are masked.
func (c AppConfig) LogAttrs() []slog.Attr {
	catalog := c.catalogPath
	if catalog == "" {
		catalog = "(builtin)"
	}
	return []slog.Attr{
		slog.String("data_dir", c.dataDir),
		slog.String("catalog", catalog),
		slog.String("model_dir", c.ModelDir()),
		slog.String("log_level", c.logLevel),
		slog.String("db_url", c.maskedDBURL()),
		slog.String("embedding_base_url", c.endpointBaseURL()),
		slog.String("embedding_model", c.endpointModel()),
		slog.Float64("fuzzy_threshold", c.matching.fuzzyThreshold),
		slog.Float64("fuzzy_bonus", c.matching.fuzzyBonus),
		slog.String("match_fields", strings.Join(c.matching.matchFields, ",")),
		slog.Float64("confidence_threshold", c.matching.confidenceThreshold),
		slog.Int("top_k", c.matching.topK),
		slog.Int("query_cache_size", c.queryCacheSize),
		slog.Duration("reload_interval", c.reloadInterval),
	}
}

func (c AppConfig) maskedDBURL() string {
	if c.dbURL == "" {
		return "(disabled)"
	}
	if strings.HasPrefix(c.dbURL, "sqlite:") {
		return c.dbURL
	}
	return "postgres://***@***"
}

func (c AppConfig) endpointBaseURL() string {
	if c.embeddingEndpoint == nil || c.embeddingEndpoint.baseURL == "" {
		return "(default)"
	}
	return c.embeddingEndpoint.baseURL
}

func (c AppConfig) endpointModel() string {
	if c.embeddingEndpoint == nil {
		return "(local)"
	}
	return c.embeddingEndpoint.model
}
