package config

import (
	"fmt"
	"os"
	"slices"
	"time"
)

// validRetrievalModes mirrors the modes the RAG engine accepts.
var validRetrievalModes = []string{"vector", "keyword", "provider"}

// Validate validates configuration values.
// Returns sentinel errors that can be checked with errors.Is().
func (c *Config) Validate() error {
	if c == nil {
		return ErrConfigNil
	}

	// API key is required for all AI operations.
	if os.Getenv("GEMINI_API_KEY") == "" {
		return fmt.Errorf("%w: GEMINI_API_KEY environment variable is required", ErrMissingAPIKey)
	}

	if c.ModelName == "" {
		return fmt.Errorf("%w: model_name cannot be empty", ErrInvalidModelName)
	}
	if c.EmbedderModel == "" {
		return fmt.Errorf("%w: embedder_model cannot be empty", ErrInvalidEmbedderModel)
	}

	if !slices.Contains(validRetrievalModes, c.RetrievalMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidRetrievalMode, c.RetrievalMode, validRetrievalModes)
	}
	if c.RetrievalMode == "provider" && c.RetrievalStore == "" {
		return fmt.Errorf("%w: retrieval_store is required when retrieval_mode is \"provider\"",
			ErrMissingRetrievalStore)
	}

	if c.MinRelevance < 0 || c.MinRelevance > 1 {
		return fmt.Errorf("%w: min_relevance must be between 0 and 1, got %.2f",
			ErrInvalidRelevance, c.MinRelevance)
	}
	if c.UngradedRelevance <= 0 || c.UngradedRelevance > 1 {
		return fmt.Errorf("%w: ungraded_relevance must be in (0, 1], got %.2f",
			ErrInvalidRelevance, c.UngradedRelevance)
	}

	if c.ConfidencePeakWeight < 0 || c.ConfidencePeakWeight > 1 {
		return fmt.Errorf("%w: confidence_peak_weight must be between 0 and 1, got %.2f",
			ErrInvalidRelevance, c.ConfidencePeakWeight)
	}
	if c.ConfidenceMeanWeight < 0 || c.ConfidenceMeanWeight > 1 {
		return fmt.Errorf("%w: confidence_mean_weight must be between 0 and 1, got %.2f",
			ErrInvalidRelevance, c.ConfidenceMeanWeight)
	}
	if c.ConfidenceCeiling <= 0 || c.ConfidenceCeiling > 1 {
		return fmt.Errorf("%w: confidence_ceiling must be in (0, 1], got %.2f",
			ErrInvalidRelevance, c.ConfidenceCeiling)
	}

	if c.ResultLimit < 1 || c.ResultLimit > 100 {
		return fmt.Errorf("%w: result_limit must be between 1 and 100, got %d",
			ErrInvalidResultLimit, c.ResultLimit)
	}

	if c.IngestPageSize < 1 || c.IngestPageSize > 1000 {
		return fmt.Errorf("%w: ingest_page_size must be between 1 and 1000, got %d",
			ErrInvalidIngestion, c.IngestPageSize)
	}
	if c.InterBatchDelay < 0 || c.InterBatchDelay > 5*time.Minute {
		return fmt.Errorf("%w: inter_batch_delay must be between 0 and 5m, got %s",
			ErrInvalidIngestion, c.InterBatchDelay)
	}

	if c.PostgresHost == "" {
		return fmt.Errorf("%w: host cannot be empty", ErrInvalidPostgresHost)
	}
	if c.PostgresPort < 1 || c.PostgresPort > 65535 {
		return fmt.Errorf("%w: must be between 1 and 65535, got %d",
			ErrInvalidPostgresPort, c.PostgresPort)
	}
	if c.PostgresDBName == "" {
		return fmt.Errorf("%w: database name cannot be empty", ErrInvalidPostgresDBName)
	}

	// Modern SSL modes only; allow/prefer are vulnerable to MITM.
	validSSLModes := []string{"disable", "require", "verify-ca", "verify-full"}
	if !slices.Contains(validSSLModes, c.PostgresSSLMode) {
		return fmt.Errorf("%w: %q is not valid, must be one of: %v",
			ErrInvalidPostgresSSLMode, c.PostgresSSLMode, validSSLModes)
	}

	return nil
}
