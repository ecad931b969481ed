package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/auditgen/discrepancy-engine/internal/domain"
	"github.com/auditgen/discrepancy-engine/internal/store"
	"github.com/auditgen/discrepancy-engine/internal/usecase/compare"
)

// ErrVersionRequested indicates the user requested the CLI version and no further work should be done.
var ErrVersionRequested = errors.New("version requested")

// CompareRequest carries everything the compare command collected from flags.
type CompareRequest struct {
	Documents    []compare.SourceDocument
	ComparisonID string
	RubricPath   string
	OutputDir    string
}

// CompareResult is the outcome handed back to the CLI for display.
type CompareResult struct {
	Result       domain.ComparisonResult
	ArtifactPath string
}

// Comparer defines the dependency required to run the compare command.
type Comparer interface {
	Compare(ctx context.Context, req CompareRequest) (CompareResult, error)
}

// History exposes read access to stored comparisons. store.Store satisfies it.
type History interface {
	GetComparison(ctx context.Context, comparisonID string) (store.ComparisonRecord, error)
	ListComparisons(ctx context.Context, limit int) ([]store.ComparisonRecord, error)
	Stats(ctx context.Context) (store.ComparisonStats, error)
}

// Arguments encapsulates IO writers injected from the host process.
type Arguments struct {
	OutWriter io.Writer
	ErrWriter io.Writer
}

// Dependencies captures the collaborators for the CLI.
type Dependencies struct {
	Comparer      Comparer
	History       History // Optional: history, show, and stats commands
	Args          Arguments
	DefaultRubric string // From config rubric.path
	DefaultOutput string // From config output.dir
	Version       string
}

// NewRootCommand constructs the root Cobra command.
func NewRootCommand(deps Dependencies) *cobra.Command {
	versionString := deps.Version
	if versionString == "" {
		versionString = "v0.0.0"
	}

	root := &cobra.Command{
		Use:   "dre",
		Short: "Audit finding discrepancy resolution CLI",
	}
	root.SilenceUsage = true
	root.SilenceErrors = true

	outWriter := deps.Args.OutWriter
	if outWriter == nil {
		outWriter = os.Stdout
	}
	errWriter := deps.Args.ErrWriter
	if errWriter == nil {
		errWriter = os.Stderr
	}
	root.SetOut(outWriter)
	root.SetErr(errWriter)

	root.AddCommand(compareCommand(deps.Comparer, deps.DefaultRubric, deps.DefaultOutput))
	root.AddCommand(historyCommand(deps.History))
	root.AddCommand(showCommand(deps.History))
	root.AddCommand(statsCommand(deps.History))

	var showVersion bool
	root.PersistentFlags().BoolVarP(&showVersion, "version", "v", false, "Show version and exit")
	versionHandler := func(cmd *cobra.Command, args []string) error {
		if showVersion {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), versionString)
			return ErrVersionRequested
		}
		return nil
	}
	root.PersistentPreRunE = versionHandler
	root.PreRunE = versionHandler
	root.RunE = func(cmd *cobra.Command, args []string) error {
		if err := versionHandler(cmd, args); err != nil {
			return err
		}
		return cmd.Help()
	}

	return root
}

func compareCommand(comparer Comparer, defaultRubric, defaultOutput string) *cobra.Command {
	var internalPath string
	var secPath string
	var vendorPath string
	var rubricPath string
	var outputDir string
	var comparisonID string

	if defaultOutput == "" {
		defaultOutput = "out"
	}

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare audit findings across source documents",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			sources := []struct {
				path   string
				source domain.SourceType
			}{
				{internalPath, domain.SourceInternal},
				{secPath, domain.SourceSEC},
				{vendorPath, domain.SourceVendor},
			}

			var documents []compare.SourceDocument
			for _, s := range sources {
				if s.path == "" {
					continue
				}
				doc, err := LoadDocument(s.path, s.source)
				if err != nil {
					return err
				}
				documents = append(documents, doc)
			}

			if len(documents) == 0 {
				return fmt.Errorf("no source documents given; pass at least one of --internal, --sec, --vendor")
			}

			result, err := comparer.Compare(ctx, CompareRequest{
				Documents:    documents,
				ComparisonID: comparisonID,
				RubricPath:   rubricPath,
				OutputDir:    outputDir,
			})
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "comparison %s: %d discrepancies (consistency %.2f, confidence %.2f)\n",
				result.Result.ComparisonID,
				len(result.Result.Discrepancies),
				result.Result.ConsistencyScore,
				result.Result.ConfidenceLevel,
			)
			for _, w := range result.Result.Metadata.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s: %s\n", w.Code, w.Message)
			}
			if result.ArtifactPath != "" {
				_, _ = fmt.Fprintf(out, "wrote %s\n", result.ArtifactPath)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&internalPath, "internal", "", "Path to the internal audit document JSON")
	cmd.Flags().StringVar(&secPath, "sec", "", "Path to the SEC filing document JSON")
	cmd.Flags().StringVar(&vendorPath, "vendor", "", "Path to the vendor report document JSON")
	cmd.Flags().StringVar(&rubricPath, "rubric", defaultRubric, "Path to the materiality rubric YAML (built-in rubric when empty)")
	cmd.Flags().StringVar(&outputDir, "output", defaultOutput, "Directory to write comparison artifacts")
	cmd.Flags().StringVar(&comparisonID, "comparison-id", "", "Override the derived comparison ID")

	return cmd
}

func historyCommand(history History) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent comparisons",
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return errors.New("comparison history is disabled; enable the store in configuration")
			}

			records, err := history.ListComparisons(cmd.Context(), limit)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(records) == 0 {
				_, _ = fmt.Fprintln(out, "no comparisons recorded")
				return nil
			}
			for _, r := range records {
				_, _ = fmt.Fprintf(out, "%s  %s  consistency=%.2f  groups=%d  documents=%v\n",
					r.Timestamp.UTC().Format("2006-01-02T15:04:05Z"),
					r.ComparisonID,
					r.ConsistencyScore,
					r.TotalGroups,
					r.Documents,
				)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "Maximum number of comparisons to list")

	return cmd
}

func showCommand(history History) *cobra.Command {
	return &cobra.Command{
		Use:   "show <comparison-id>",
		Short: "Show one stored comparison as JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return errors.New("comparison history is disabled; enable the store in configuration")
			}

			record, err := history.GetComparison(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			encoder := json.NewEncoder(cmd.OutOrStdout())
			encoder.SetIndent("", "  ")
			return encoder.Encode(record)
		},
	}
}

func statsCommand(history History) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Summarize the stored comparison history",
		RunE: func(cmd *cobra.Command, args []string) error {
			if history == nil {
				return errors.New("comparison history is disabled; enable the store in configuration")
			}

			stats, err := history.Stats(cmd.Context())
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			_, _ = fmt.Fprintf(out, "comparisons: %d\n", stats.TotalComparisons)
			_, _ = fmt.Fprintf(out, "discrepancies: %d\n", stats.TotalDiscrepancies)
			_, _ = fmt.Fprintf(out, "average consistency: %.2f\n", stats.AverageConsistency)
			for _, level := range []string{"high", "medium", "low"} {
				if count, ok := stats.ByRiskLevel[level]; ok {
					_, _ = fmt.Fprintf(out, "  %s risk: %d\n", level, count)
				}
			}
			return nil
		},
	}
}
