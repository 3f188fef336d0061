package config

import (
	"strings"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// EnvConfig holds all environment-based configuration.
// Nested structs use underscore delimiter (e.g., EMBEDDING_ENDPOINT_BASE_URL).
type EnvConfig struct {
	// Host is the server host to bind to.
	// Env: HOST (default: 0.0.0.0)
	Host string `envconfig:"HOST" default:"0.0.0.0"`

	// Port is the server port to listen on.
	// Env: PORT (default: 8080)
	Port int `envconfig:"PORT" default:"8080"`

	// DataDir is the data directory path.
	// Env: DATA_DIR
	// Default: ~/.fundmatch
	DataDir string `envconfig:"DATA_DIR"`

	// DBURL is the embedding cache database URL. Empty disables the cache.
	// Env: DB_URL
	DBURL string `envconfig:"DB_URL"`

	// LogLevel is the log verbosity level.
	// Env: LOG_LEVEL (default: INFO)
	LogLevel string `envconfig:"LOG_LEVEL" default:"INFO"`

	// LogFormat is the log output format (pretty or json).
	// Env: LOG_FORMAT (default: pretty)
	LogFormat string `envconfig:"LOG_FORMAT" default:"pretty"`

	// CatalogPath is the fund catalog file (.csv, .tsv, .yaml, .yml, .json).
	// Env: CATALOG_PATH
	// Default: built-in sample catalog
	CatalogPath string `envconfig:"CATALOG_PATH"`

	// CatalogReloadInterval is how often, in seconds, the catalog file is
	// checked for changes. Zero disables polling.
	// Env: CATALOG_RELOAD_INTERVAL (default: 0)
	CatalogReloadInterval float64 `envconfig:"CATALOG_RELOAD_INTERVAL" default:"0"`

	// ModelDir is where local embedding models are stored.
	// Env: MODEL_DIR
	// Default: {data_dir}/models
	ModelDir string `envconfig:"MODEL_DIR"`

	// EmbeddingEndpoint configures a remote embedding service.
	EmbeddingEndpoint EndpointEnv `envconfig:"EMBEDDING_ENDPOINT"`

	// FuzzyThreshold is the partial ratio a field must exceed to earn a bonus.
	// Env: FUZZY_THRESHOLD (default: 70)
	FuzzyThreshold float64 `envconfig:"FUZZY_THRESHOLD" default:"70"`

	// FuzzyBonus is the score added per matching field.
	// Env: FUZZY_BONUS (default: 0.05)
	FuzzyBonus float64 `envconfig:"FUZZY_BONUS" default:"0.05"`

	// MatchFields is a comma-separated list of fields compared to the query.
	// Env: MATCH_FIELDS (default: type,category,sector)
	MatchFields string `envconfig:"MATCH_FIELDS" default:"type,category,sector"`

	// ConfidenceThreshold is the minimum adjusted score for a match.
	// Env: CONFIDENCE_THRESHOLD (default: 0.3)
	ConfidenceThreshold float64 `envconfig:"CONFIDENCE_THRESHOLD" default:"0.3"`

	// TopK is the default number of candidates re-ranked per query.
	// Env: TOP_K (default: 3)
	TopK int `envconfig:"TOP_K" default:"3"`

	// QueryCacheSize is the number of query embeddings kept in memory.
	// Env: QUERY_CACHE_SIZE (default: 1024)
	QueryCacheSize int `envconfig:"QUERY_CACHE_SIZE" default:"1024"`

	// CORSAllowedOrigins is a comma-separated list of allowed origins.
	// Env: CORS_ALLOWED_ORIGINS
	CORSAllowedOrigins string `envconfig:"CORS_ALLOWED_ORIGINS"`

	// MetricsEnabled controls the /metrics endpoint.
	// Env: METRICS_ENABLED (default: true)
	MetricsEnabled bool `envconfig:"METRICS_ENABLED" default:"true"`
}

// EndpointEnv holds environment configuration for an embedding endpoint.
type EndpointEnv struct {
	// BaseURL is the base URL for the endpoint.
	// Env: *_BASE_URL
	BaseURL string `envconfig:"BASE_URL"`

	// Model is the model identifier (e.g., text-embedding-3-small).
	// Env: *_MODEL
	Model string `envconfig:"MODEL"`

	// APIKey is the API key for authentication.
	// Env: *_API_KEY
	APIKey string `envconfig:"API_KEY"`

	// Timeout is the request timeout in seconds.
	// Env: *_TIMEOUT (default: 60)
	Timeout float64 `envconfig:"TIMEOUT" default:"60"`

	// MaxRetries is the maximum number of retries.
	// Env: *_MAX_RETRIES (default: 5)
	MaxRetries int `envconfig:"MAX_RETRIES" default:"5"`

	// InitialDelay is the initial retry delay in seconds.
	// Env: *_INITIAL_DELAY (default: 2.0)
	InitialDelay float64 `envconfig:"INITIAL_DELAY" default:"2.0"`

	// BackoffFactor is the retry backoff multiplier.
	// Env: *_BACKOFF_FACTOR (default: 2.0)
	BackoffFactor float64 `envconfig:"BACKOFF_FACTOR" default:"2.0"`
}

// LoadFromEnv loads configuration from environment variables.
func LoadFromEnv() (EnvConfig, error) {
	return LoadFromEnvWithPrefix("")
}

// LoadFromEnvWithPrefix loads configuration with a custom prefix.
// For example, prefix "FUNDMATCH" would require FUNDMATCH_PORT instead of PORT.
func LoadFromEnvWithPrefix(prefix string) (EnvConfig, error) {
	var cfg EnvConfig
	if err := envconfig.Process(prefix, &cfg); err != nil {
		return EnvConfig{}, err
	}
	return cfg, nil
}

// ToAppConfig converts EnvConfig to AppConfig.
func (e EnvConfig) ToAppConfig() AppConfig {
	cfg := NewAppConfig()

	if e.Host != "" {
		cfg = applyOption(cfg, WithHost(e.Host))
	}
	if e.Port != 0 {
		cfg = applyOption(cfg, WithPort(e.Port))
	}
	if e.DataDir != "" {
		cfg = applyOption(cfg, WithDataDir(e.DataDir))
	}
	if e.DBURL != "" {
		cfg = applyOption(cfg, WithDBURL(e.DBURL))
	}
	if e.LogLevel != "" {
		cfg = applyOption(cfg, WithLogLevel(e.LogLevel))
	}
	if e.LogFormat != "" {
		cfg = applyOption(cfg, WithLogFormat(parseLogFormat(e.LogFormat)))
	}
	if e.CatalogPath != "" {
		cfg = applyOption(cfg, WithCatalogPath(e.CatalogPath))
	}
	if e.ModelDir != "" {
		cfg = applyOption(cfg, WithModelDir(e.ModelDir))
	}
	if e.EmbeddingEndpoint.IsConfigured() {
		cfg = applyOption(cfg, WithEmbeddingEndpoint(e.EmbeddingEndpoint.ToEndpoint()))
	}

	cfg = applyOption(cfg, WithMatching(NewMatchingConfig().
		WithFuzzyThreshold(e.FuzzyThreshold).
		WithFuzzyBonus(e.FuzzyBonus).
		WithMatchFields(splitList(e.MatchFields)).
		WithConfidenceThreshold(e.ConfidenceThreshold).
		WithTopK(e.TopK)))

	cfg = applyOption(cfg, WithQueryCacheSize(e.QueryCacheSize))
	cfg = applyOption(cfg, WithCORSAllowedOrigins(splitList(e.CORSAllowedOrigins)))
	cfg = applyOption(cfg, WithMetricsEnabled(e.MetricsEnabled))
	cfg = applyOption(cfg, WithReloadInterval(seconds(e.CatalogReloadInterval)))

	return cfg
}

// applyOption applies an option to the config.
func applyOption(cfg AppConfig, opt AppConfigOption) AppConfig {
	opt(&cfg)
	return cfg
}

// IsConfigured returns true if the endpoint has a model configured.
func (e EndpointEnv) IsConfigured() bool {
	return e.Model != ""
}

// ToEndpoint converts EndpointEnv to Endpoint.
func (e EndpointEnv) ToEndpoint() Endpoint {
	opts := []EndpointOption{
		WithModel(e.Model),
		WithTimeout(seconds(e.Timeout)),
		WithMaxRetries(e.MaxRetries),
		WithInitialDelay(seconds(e.InitialDelay)),
		WithBackoffFactor(e.BackoffFactor),
	}

	if e.BaseURL != "" {
		opts = append(opts, WithBaseURL(e.BaseURL))
	}
	if e.APIKey != "" {
		opts = append(opts, WithAPIKey(e.APIKey))
	}

	return NewEndpointWithOptions(opts...)
}

// parseLogFormat parses a log format string.
func parseLogFormat(s string) LogFormat {
	switch strings.ToLower(s) {
	case "json":
		return LogFormatJSON
	default:
		return LogFormatPretty
	}
}

// splitList parses a comma-separated list, dropping empty entries.
func splitList(s string) []string {
	var out []string
	for part := range strings.SplitSeq(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func seconds(v float64) time.Duration {
	return time.Duration(v * float64(time.Second))
}
