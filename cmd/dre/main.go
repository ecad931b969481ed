package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/auditgen/discrepancy-engine/internal/adapter/cli"
	"github.com/auditgen/discrepancy-engine/internal/adapter/embed"
	"github.com/auditgen/discrepancy-engine/internal/adapter/embed/gemini"
	"github.com/auditgen/discrepancy-engine/internal/adapter/embed/static"
	"github.com/auditgen/discrepancy-engine/internal/adapter/observability"
	jsonout "github.com/auditgen/discrepancy-engine/internal/adapter/output/json"
	storeAdapter "github.com/auditgen/discrepancy-engine/internal/adapter/store"
	"github.com/auditgen/discrepancy-engine/internal/adapter/store/sqlite"
	"github.com/auditgen/discrepancy-engine/internal/config"
	"github.com/auditgen/discrepancy-engine/internal/redaction"
	"github.com/auditgen/discrepancy-engine/internal/usecase/compare"
	"github.com/auditgen/discrepancy-engine/internal/usecase/normalize"
	"github.com/auditgen/discrepancy-engine/internal/version"
)

func main() {
	if err := run(); err != nil {
		log.Println(err)
		os.Exit(1)
	}
}

func run() error {
	// Create cancellable context with signal handling for graceful shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	cfg, err := config.Load(config.LoaderOptions{
		ConfigPaths: defaultConfigPaths(),
		FileName:    "dre",
		EnvPrefix:   "DRE",
	})
	if err != nil {
		return fmt.Errorf("config load failed: %w", err)
	}

	obsLogger := buildLogger(cfg.Observability)

	var compareLogger compare.Logger
	if obsLogger != nil {
		compareLogger = observability.NewCompareLogger(obsLogger)
	}

	embedder, err := buildEmbedder(ctx, cfg.Embedding, obsLogger)
	if err != nil {
		return err
	}

	var redactor normalize.Redactor
	if cfg.Redaction.Enabled {
		redactor = redaction.NewEngine()
	}

	// Initialize store if enabled
	var comparisonStore compare.Store
	var history cli.History
	if cfg.Store.Enabled {
		storeDir := filepath.Dir(cfg.Store.Path)
		if err := os.MkdirAll(storeDir, 0755); err != nil {
			log.Printf("warning: failed to create store directory: %v", err)
		} else {
			sqliteStore, err := sqlite.NewStore(cfg.Store.Path)
			if err != nil {
				log.Printf("warning: failed to initialize store: %v", err)
			} else {
				comparisonStore = storeAdapter.NewBridge(sqliteStore)
				history = sqliteStore
				defer comparisonStore.Close()
			}
		}
	}

	normalizer := normalize.NewService(embedder, redactor, compareLogger, cfg.Embedding.Concurrency)

	orchestrator := compare.NewOrchestrator(compare.Deps{
		Normalizer: normalizer,
		Logger:     compareLogger,
		Store:      comparisonStore,
	})

	// Timestamp function for output file naming
	nowFunc := func() string {
		return time.Now().UTC().Format("20060102T150405Z")
	}

	synonyms, err := loadSynonyms(cfg.Synonyms.Path)
	if err != nil {
		return err
	}

	runner := &app{
		orchestrator:       orchestrator,
		writer:             jsonout.NewWriter(nowFunc),
		synonyms:           synonyms,
		groupThreshold:     cfg.Similarity.GroupThreshold,
		agreementThreshold: cfg.Similarity.AgreementThreshold,
		defaultRubricPath:  cfg.Rubric.Path,
	}

	root := cli.NewRootCommand(cli.Dependencies{
		Comparer:      runner,
		History:       history,
		DefaultRubric: cfg.Rubric.Path,
		DefaultOutput: cfg.Output.Directory,
		Version:       version.Version(),
	})

	if err := root.ExecuteContext(ctx); err != nil {
		if errors.Is(err, cli.ErrVersionRequested) {
			return nil
		}
		return fmt.Errorf("command failed: %w", err)
	}
	return nil
}

// app glues the CLI to the comparison orchestrator and the artifact writer.
type app struct {
	orchestrator       *compare.Orchestrator
	writer             *jsonout.Writer
	synonyms           normalize.SynonymTable
	groupThreshold     float64
	agreementThreshold float64
	defaultRubricPath  string
}

// Compare runs one comparison with a configuration snapshot assembled from
// the loaded config plus per-invocation flag overrides.
func (a *app) Compare(ctx context.Context, req cli.CompareRequest) (cli.CompareResult, error) {
	rubricPath := req.RubricPath
	if rubricPath == "" {
		rubricPath = a.defaultRubricPath
	}

	rubric := config.DefaultRubric()
	if rubricPath != "" {
		loaded, err := config.LoadRubric(rubricPath)
		if err != nil {
			return cli.CompareResult{}, fmt.Errorf("load rubric: %w", err)
		}
		rubric = loaded
	}

	result, err := a.orchestrator.Run(ctx, compare.Request{
		ComparisonID: req.ComparisonID,
		Documents:    req.Documents,
	}, compare.Snapshot{
		GroupThreshold:     a.groupThreshold,
		AgreementThreshold: a.agreementThreshold,
		Synonyms:           a.synonyms,
		Rubric:             rubric,
	})
	if err != nil {
		return cli.CompareResult{}, err
	}

	artifactPath, err := a.writer.Write(ctx, jsonout.Artifact{
		OutputDir: req.OutputDir,
		Result:    result,
	})
	if err != nil {
		return cli.CompareResult{}, fmt.Errorf("write comparison artifact: %w", err)
	}

	return cli.CompareResult{Result: result, ArtifactPath: artifactPath}, nil
}

func loadSynonyms(path string) (normalize.SynonymTable, error) {
	if path == "" {
		return normalize.DefaultSynonymTable(), nil
	}
	table, err := config.LoadSynonyms(path)
	if err != nil {
		return normalize.SynonymTable{}, fmt.Errorf("load synonyms: %w", err)
	}
	return table, nil
}

func defaultConfigPaths() []string {
	paths := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		paths = append(paths, filepath.Join(home, ".config", "dre"))
	}
	return paths
}

// buildLogger creates the structured logger based on configuration.
func buildLogger(cfg config.ObservabilityConfig) embed.Logger {
	if !cfg.Logging.Enabled {
		return nil
	}

	logLevel := embed.LogLevelInfo
	switch cfg.Logging.Level {
	case "debug":
		logLevel = embed.LogLevelDebug
	case "error":
		logLevel = embed.LogLevelError
	}

	logFormat := embed.LogFormatHuman
	switch cfg.Logging.Format {
	case "json":
		logFormat = embed.LogFormatJSON
	case "human":
		// keep human output
	default:
		// "auto": human on a terminal, JSON when logs are collected
		if !observability.IsOutputTerminal() {
			logFormat = embed.LogFormatJSON
		}
	}

	return embed.NewDefaultLogger(logLevel, logFormat, cfg.Logging.RedactAPIKeys)
}

// buildEmbedder creates the embedding provider based on configuration.
func buildEmbedder(ctx context.Context, cfg config.EmbeddingConfig, logger embed.Logger) (normalize.Embedder, error) {
	switch cfg.Provider {
	case "", "static":
		return static.NewEmbedder(cfg.Dimensions), nil

	case "gemini":
		if cfg.APIKey == "" {
			return nil, fmt.Errorf("gemini embedding provider requires an API key (set DRE_EMBEDDING_APIKEY or embedding.apiKey)")
		}

		retry := embed.DefaultRetryConfig()
		if cfg.MaxRetries > 0 {
			retry.MaxRetries = cfg.MaxRetries
		}
		if d := parseDuration(cfg.InitialBackoff); d > 0 {
			retry.InitialBackoff = d
		}
		if d := parseDuration(cfg.MaxBackoff); d > 0 {
			retry.MaxBackoff = d
		}

		return gemini.NewClient(ctx, gemini.Config{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			Timeout:           parseDuration(cfg.Timeout),
			Retry:             retry,
			RequestsPerSecond: cfg.RatePerSecond,
			Logger:            logger,
		})

	default:
		return nil, fmt.Errorf("unknown embedding provider %q (supported: static, gemini)", cfg.Provider)
	}
}

// parseDuration returns zero for empty or malformed values so the callee's
// defaults apply.
func parseDuration(s string) time.Duration {
	if s == "" {
		return 0
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		log.Printf("warning: invalid duration %q, using default", s)
		return 0
	}
	return d
}

// Compile-time interface compliance checks
var _ cli.Comparer = (*app)(nil)
var _ cli.History = (*sqlite.Store)(nil)
var _ compare.Store = (*storeAdapter.Bridge)(nil)
var _ normalize.Embedder = (*static.Embedder)(nil)
var _ normalize.Embedder = (*gemini.Client)(nil)
var _ normalize.Redactor = (*redaction.Engine)(nil)
var _ compare.Logger = (*observability.CompareLogger)(nil)
