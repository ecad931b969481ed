package json

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/auditgen/discrepancy-engine/internal/domain"
)

// Artifact describes a comparison result destined for disk.
type Artifact struct {
	OutputDir string
	Result    domain.ComparisonResult
}

// Writer persists comparison results as JSON files.
type Writer struct {
	now func() string
}

// NewWriter creates a new JSON writer.
func NewWriter(now func() string) *Writer {
	return &Writer{now: now}
}

// Write persists a comparison result to disk as a JSON file.
// Reruns over the same inputs share a comparison directory and are
// distinguished by the timestamped subdirectory.
func (w *Writer) Write(ctx context.Context, artifact Artifact) (string, error) {
	outputDir := filepath.Join(artifact.OutputDir, artifact.Result.ComparisonID, w.now())
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	filePath := filepath.Join(outputDir, "comparison.json")

	file, err := os.Create(filePath)
	if err != nil {
		return "", fmt.Errorf("failed to create json file: %w", err)
	}
	defer file.Close()

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")

	if err := encoder.Encode(artifact.Result); err != nil {
		return "", fmt.Errorf("failed to encode comparison to json: %w", err)
	}

	return filePath, nil
}
