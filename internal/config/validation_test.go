package config

import (
	"errors"
	"testing"
	"time"
)

func validConfig() *Config {
	return &Config{
		ModelName:            DefaultGenerativeModel,
		EmbedderModel:        DefaultEmbedderModel,
		RetrievalMode:        "vector",
		MinRelevance:         DefaultMinRelevance,
		UngradedRelevance:    DefaultUngradedRelevance,
		ResultLimit:          DefaultResultLimit,
		ConfidencePeakWeight: DefaultConfidencePeakWeight,
		ConfidenceMeanWeight: DefaultConfidenceMeanWeight,
		ConfidenceCeiling:    DefaultConfidenceCeiling,
		IngestPageSize:       DefaultIngestPageSize,
		InterBatchDelay:      DefaultInterBatchDelay,
		PostgresHost:         "localhost",
		PostgresPort:         5432,
		PostgresUser:         "versemind",
		PostgresDBName:       "versemind",
		PostgresSSLMode:      "disable",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{
			name:   "valid config",
			mutate: func(*Config) {},
		},
		{
			name:    "empty model name",
			mutate:  func(c *Config) { c.ModelName = "" },
			wantErr: ErrInvalidModelName,
		},
		{
			name:    "empty embedder model",
			mutate:  func(c *Config) { c.EmbedderModel = "" },
			wantErr: ErrInvalidEmbedderModel,
		},
		{
			name:    "unknown retrieval mode",
			mutate:  func(c *Config) { c.RetrievalMode = "hybrid" },
			wantErr: ErrInvalidRetrievalMode,
		},
		{
			name:    "provider mode without store",
			mutate:  func(c *Config) { c.RetrievalMode = "provider" },
			wantErr: ErrMissingRetrievalStore,
		},
		{
			name: "provider mode with store",
			mutate: func(c *Config) {
				c.RetrievalMode = "provider"
				c.RetrievalStore = "fileSearchStores/passages"
			},
		},
		{
			name:    "min relevance above one",
			mutate:  func(c *Config) { c.MinRelevance = 1.2 },
			wantErr: ErrInvalidRelevance,
		},
		{
			name:   "min relevance zero disables the floor",
			mutate: func(c *Config) { c.MinRelevance = 0 },
		},
		{
			name:    "negative min relevance",
			mutate:  func(c *Config) { c.MinRelevance = -0.1 },
			wantErr: ErrInvalidRelevance,
		},
		{
			name:    "ungraded relevance zero",
			mutate:  func(c *Config) { c.UngradedRelevance = 0 },
			wantErr: ErrInvalidRelevance,
		},
		{
			name:    "confidence ceiling zero",
			mutate:  func(c *Config) { c.ConfidenceCeiling = 0 },
			wantErr: ErrInvalidRelevance,
		},
		{
			name:    "confidence peak weight above one",
			mutate:  func(c *Config) { c.ConfidencePeakWeight = 1.5 },
			wantErr: ErrInvalidRelevance,
		},
		{
			name:    "result limit zero",
			mutate:  func(c *Config) { c.ResultLimit = 0 },
			wantErr: ErrInvalidResultLimit,
		},
		{
			name:    "result limit too large",
			mutate:  func(c *Config) { c.ResultLimit = 101 },
			wantErr: ErrInvalidResultLimit,
		},
		{
			name:    "ingest page size zero",
			mutate:  func(c *Config) { c.IngestPageSize = 0 },
			wantErr: ErrInvalidIngestion,
		},
		{
			name:   "zero inter-batch delay",
			mutate: func(c *Config) { c.InterBatchDelay = 0 },
		},
		{
			name:    "excessive inter-batch delay",
			mutate:  func(c *Config) { c.InterBatchDelay = 10 * time.Minute },
			wantErr: ErrInvalidIngestion,
		},
		{
			name:    "empty postgres host",
			mutate:  func(c *Config) { c.PostgresHost = "" },
			wantErr: ErrInvalidPostgresHost,
		},
		{
			name:    "postgres port out of range",
			mutate:  func(c *Config) { c.PostgresPort = 70000 },
			wantErr: ErrInvalidPostgresPort,
		},
		{
			name:    "empty postgres dbname",
			mutate:  func(c *Config) { c.PostgresDBName = "" },
			wantErr: ErrInvalidPostgresDBName,
		},
		{
			name:    "insecure ssl mode",
			mutate:  func(c *Config) { c.PostgresSSLMode = "prefer" },
			wantErr: ErrInvalidPostgresSSLMode,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("GEMINI_API_KEY", "test-key")

			cfg := validConfig()
			tt.mutate(cfg)

			err := cfg.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("Validate() unexpected error: %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateNilConfig(t *testing.T) {
	var cfg *Config
	if !errors.Is(cfg.Validate(), ErrConfigNil) {
		t.Fatal("expected ErrConfigNil")
	}
}

func TestValidateMissingAPIKey(t *testing.T) {
	t.Setenv("GEMINI_API_KEY", "")

	if !errors.Is(validConfig().Validate(), ErrMissingAPIKey) {
		t.Fatal("expected ErrMissingAPIKey")
	}
}
