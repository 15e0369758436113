// Package config provides application configuration with multi-source
// priority.
//
// Configuration sources (highest to lowest priority):
//  1. Environment variables (VERSEMIND_* runtime override)
//  2. Config file (~/.versemind/config.yaml)
//  3. Default values
//
// Categories:
//   - AI: generative model, embedder model, retrieval mode and store
//   - Retrieval: relevance floor, ungraded relevance, result limit
//   - Ingestion: page size, inter-batch delay
//   - Storage: PostgreSQL connection (see storage.go)
//
// Validation lives in validation.go and returns sentinel errors for
// errors.Is() checks. Sensitive values (passwords) are never logged.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
)

var (
	// ErrConfigNil indicates the configuration is nil.
	ErrConfigNil = errors.New("configuration is nil")

	// ErrMissingAPIKey indicates a required API key is missing.
	ErrMissingAPIKey = errors.New("missing API key")

	// ErrInvalidModelName indicates the generative model name is invalid.
	ErrInvalidModelName = errors.New("invalid model name")

	// ErrInvalidEmbedderModel indicates the embedder model is invalid.
	ErrInvalidEmbedderModel = errors.New("invalid embedder model")

	// ErrInvalidRetrievalMode indicates an unknown retrieval mode.
	ErrInvalidRetrievalMode = errors.New("invalid retrieval mode")

	// ErrInvalidRelevance indicates a relevance tunable is out of [0,1].
	ErrInvalidRelevance = errors.New("invalid relevance value")

	// ErrInvalidResultLimit indicates the result limit is out of range.
	ErrInvalidResultLimit = errors.New("invalid result limit")

	// ErrInvalidIngestion indicates an ingestion setting is out of range.
	ErrInvalidIngestion = errors.New("invalid ingestion setting")

	// ErrMissingRetrievalStore indicates provider-managed retrieval was
	// selected without a retrieval store name.
	ErrMissingRetrievalStore = errors.New("missing retrieval store")

	// ErrInvalidPostgresHost indicates the PostgreSQL host is invalid.
	ErrInvalidPostgresHost = errors.New("invalid PostgreSQL host")

	// ErrInvalidPostgresPort indicates the PostgreSQL port is out of range.
	ErrInvalidPostgresPort = errors.New("invalid PostgreSQL port")

	// ErrInvalidPostgresDBName indicates the PostgreSQL database name is invalid.
	ErrInvalidPostgresDBName = errors.New("invalid PostgreSQL database name")

	// ErrInvalidPostgresSSLMode indicates the PostgreSQL SSL mode is invalid.
	ErrInvalidPostgresSSLMode = errors.New("invalid PostgreSQL SSL mode")
)

const (
	// DefaultGenerativeModel is the stock Gemini generation model.
	DefaultGenerativeModel = "gemini-2.5-flash"

	// DefaultEmbedderModel is the stock Gemini embedder model.
	// gemini-embedding-001 supports truncation to 768 dimensions,
	// matching the pgvector schema.
	DefaultEmbedderModel = "gemini-embedding-001"

	// DefaultMinRelevance is the vector-hit relevance floor.
	DefaultMinRelevance = 0.7

	// DefaultUngradedRelevance is assigned to keyword hits and
	// grounding references, which carry no graded score.
	DefaultUngradedRelevance = 0.8

	// DefaultResultLimit caps retrieved context passages per query.
	DefaultResultLimit = 8

	// DefaultConfidencePeakWeight weights the best relevance score.
	DefaultConfidencePeakWeight = 0.7

	// DefaultConfidenceMeanWeight weights the mean relevance score.
	DefaultConfidenceMeanWeight = 0.3

	// DefaultConfidenceCeiling caps confidence; answers are never
	// reported as fully certain.
	DefaultConfidenceCeiling = 0.95

	// DefaultIngestPageSize is the batch ingestion page size.
	DefaultIngestPageSize = 50

	// DefaultInterBatchDelay is the mandatory pause between ingestion
	// pages, respecting embedding provider rate limits.
	DefaultInterBatchDelay = 2 * time.Second
)

// Config stores application configuration.
type Config struct {
	// AI provider configuration
	ModelName      string `mapstructure:"model_name"`
	EmbedderModel  string `mapstructure:"embedder_model"`
	RetrievalMode  string `mapstructure:"retrieval_mode"`  // "vector", "keyword", "provider"
	RetrievalStore string `mapstructure:"retrieval_store"` // provider-side store name for "provider" mode

	// Retrieval tunables
	MinRelevance      float64 `mapstructure:"min_relevance"`
	UngradedRelevance float64 `mapstructure:"ungraded_relevance"`
	ResultLimit       int32   `mapstructure:"result_limit"`
	ContextBudget     int     `mapstructure:"context_budget"` // bytes, 0 = unbounded

	// Confidence weighting
	ConfidencePeakWeight float64 `mapstructure:"confidence_peak_weight"`
	ConfidenceMeanWeight float64 `mapstructure:"confidence_mean_weight"`
	ConfidenceCeiling    float64 `mapstructure:"confidence_ceiling"`

	// Ingestion
	IngestPageSize  int32         `mapstructure:"ingest_page_size"`
	InterBatchDelay time.Duration `mapstructure:"inter_batch_delay"`

	// PostgreSQL (see storage.go for DSN helpers)
	PostgresHost     string `mapstructure:"postgres_host"`
	PostgresPort     int    `mapstructure:"postgres_port"`
	PostgresUser     string `mapstructure:"postgres_user"`
	PostgresPassword string `mapstructure:"postgres_password"`
	PostgresDBName   string `mapstructure:"postgres_dbname"`
	PostgresSSLMode  string `mapstructure:"postgres_sslmode"`
}

// Load reads configuration from file, environment and defaults.
// A missing config file is not an error; defaults apply.
func Load() (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	if home, err := os.UserHomeDir(); err == nil {
		v.AddConfigPath(filepath.Join(home, ".versemind"))
	}
	v.AddConfigPath(".")

	v.SetEnvPrefix("VERSEMIND")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unmarshaling config: %w", err)
	}

	if err := cfg.parseDatabaseURL(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// setDefaults installs default values for every key.
func setDefaults(v *viper.Viper) {
	v.SetDefault("model_name", DefaultGenerativeModel)
	v.SetDefault("embedder_model", DefaultEmbedderModel)
	v.SetDefault("retrieval_mode", "vector")
	v.SetDefault("retrieval_store", "")

	v.SetDefault("min_relevance", DefaultMinRelevance)
	v.SetDefault("ungraded_relevance", DefaultUngradedRelevance)
	v.SetDefault("result_limit", DefaultResultLimit)
	v.SetDefault("context_budget", 0)
	v.SetDefault("confidence_peak_weight", DefaultConfidencePeakWeight)
	v.SetDefault("confidence_mean_weight", DefaultConfidenceMeanWeight)
	v.SetDefault("confidence_ceiling", DefaultConfidenceCeiling)

	v.SetDefault("ingest_page_size", DefaultIngestPageSize)
	v.SetDefault("inter_batch_delay", DefaultInterBatchDelay)

	v.SetDefault("postgres_host", "localhost")
	v.SetDefault("postgres_port", 5432)
	v.SetDefault("postgres_user", "versemind")
	v.SetDefault("postgres_password", "")
	v.SetDefault("postgres_dbname", "versemind")
	v.SetDefault("postgres_sslmode", "disable")
}
