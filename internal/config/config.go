package config

// Config represents the full application configuration.
type Config struct {
	Embedding     EmbeddingConfig     `yaml:"embedding"`
	Similarity    SimilarityConfig    `yaml:"similarity"`
	Rubric        RubricConfig        `yaml:"rubric"`
	Synonyms      SynonymsConfig      `yaml:"synonyms"`
	Redaction     RedactionConfig     `yaml:"redaction"`
	Store         StoreConfig         `yaml:"store"`
	Output        OutputConfig        `yaml:"output"`
	Observability ObservabilityConfig `yaml:"observability"`
}

// EmbeddingConfig configures the external embedding capability.
type EmbeddingConfig struct {
	// Provider selects the embedding adapter: "gemini" or "static".
	Provider string `yaml:"provider"`
	Model    string `yaml:"model"`
	APIKey   string `yaml:"apiKey"`

	// Timeout bounds each embedding call attempt.
	Timeout        string  `yaml:"timeout"`
	MaxRetries     int     `yaml:"maxRetries"`
	InitialBackoff string  `yaml:"initialBackoff"`
	MaxBackoff     string  `yaml:"maxBackoff"`
	RatePerSecond  float64 `yaml:"ratePerSecond"`

	// Concurrency bounds the per-run embedding worker pool.
	Concurrency int `yaml:"concurrency"`

	// Dimensions applies to the static provider only.
	Dimensions int `yaml:"dimensions"`
}

// SimilarityConfig holds the grouping and agreement thresholds. Both are
// policy knobs, not hard-coded law.
type SimilarityConfig struct {
	// GroupThreshold is the similarity floor for joining an issue group.
	GroupThreshold float64 `yaml:"groupThreshold"`

	// AgreementThreshold separates consistent from contradictory narratives.
	AgreementThreshold float64 `yaml:"agreementThreshold"`
}

// RubricConfig locates the materiality rubric.
type RubricConfig struct {
	// Path to a YAML rubric file. Empty uses the built-in default rubric.
	Path string `yaml:"path"`
}

// SynonymsConfig locates the taxonomy synonym table.
type SynonymsConfig struct {
	// Path to a YAML synonym file, merged over the built-in defaults.
	Path string `yaml:"path"`
}

// RedactionConfig toggles identifier redaction before embedding calls.
type RedactionConfig struct {
	Enabled bool `yaml:"enabled"`
}

// StoreConfig configures the persistence collaborator.
type StoreConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// OutputConfig configures the result artifact writer.
type OutputConfig struct {
	Directory string `yaml:"directory"`
}

// ObservabilityConfig configures logging.
type ObservabilityConfig struct {
	Logging LoggingConfig `yaml:"logging"`
}

// LoggingConfig configures structured call logging.
type LoggingConfig struct {
	Enabled       bool   `yaml:"enabled"`
	Level         string `yaml:"level"`         // debug, info, error
	Format        string `yaml:"format"`        // json, human, auto (TTY detection)
	RedactAPIKeys bool   `yaml:"redactAPIKeys"` // Redact API keys in logs
}

// Merge combines multiple configuration instances, prioritising the latter ones.
func Merge(configs ...Config) Config {
	result := Config{}
	for _, cfg := range configs {
		result = merge(result, cfg)
	}
	return result
}

func merge(base, overlay Config) Config {
	result := base

	result.Embedding = chooseEmbedding(base.Embedding, overlay.Embedding)
	result.Similarity = chooseSimilarity(base.Similarity, overlay.Similarity)
	result.Rubric = chooseRubric(base.Rubric, overlay.Rubric)
	result.Synonyms = chooseSynonyms(base.Synonyms, overlay.Synonyms)
	result.Redaction = chooseRedaction(base.Redaction, overlay.Redaction)
	result.Store = chooseStore(base.Store, overlay.Store)
	result.Output = chooseOutput(base.Output, overlay.Output)
	result.Observability = chooseObservability(base.Observability, overlay.Observability)

	return result
}

func chooseEmbedding(base, overlay EmbeddingConfig) EmbeddingConfig {
	if overlay.Provider != "" || overlay.Model != "" || overlay.APIKey != "" || overlay.Timeout != "" ||
		overlay.MaxRetries != 0 || overlay.Concurrency != 0 || overlay.Dimensions != 0 {
		return overlay
	}
	return base
}

func chooseSimilarity(base, overlay SimilarityConfig) SimilarityConfig {
	if overlay.GroupThreshold != 0 || overlay.AgreementThreshold != 0 {
		return overlay
	}
	return base
}

func chooseRubric(base, overlay RubricConfig) RubricConfig {
	if overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseSynonyms(base, overlay SynonymsConfig) SynonymsConfig {
	if overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseRedaction(base, overlay RedactionConfig) RedactionConfig {
	if overlay.Enabled {
		return overlay
	}
	return base
}

func chooseStore(base, overlay StoreConfig) StoreConfig {
	if overlay.Enabled || overlay.Path != "" {
		return overlay
	}
	return base
}

func chooseOutput(base, overlay OutputConfig) OutputConfig {
	if overlay.Directory != "" {
		return overlay
	}
	return base
}

func chooseObservability(base, overlay ObservabilityConfig) ObservabilityConfig {
	result := base
	if overlay.Logging.Enabled || overlay.Logging.Level != "" || overlay.Logging.Format != "" {
		result.Logging = overlay.Logging
	}
	return result
}
