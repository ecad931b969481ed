package main

import (
	"context"
	"testing"
	"time"

	"github.com/auditgen/discrepancy-engine/internal/config"
)

func TestParseDuration(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  time.Duration
	}{
		{"empty", "", 0},
		{"valid seconds", "10s", 10 * time.Second},
		{"valid milliseconds", "250ms", 250 * time.Millisecond},
		{"malformed", "ten-seconds", 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := parseDuration(tt.input); got != tt.want {
				t.Errorf("parseDuration(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestBuildEmbedder_StaticDefault(t *testing.T) {
	embedder, err := buildEmbedder(context.Background(), config.EmbeddingConfig{}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if embedder == nil {
		t.Fatal("expected embedder for empty provider")
	}
}

func TestBuildEmbedder_GeminiRequiresAPIKey(t *testing.T) {
	_, err := buildEmbedder(context.Background(), config.EmbeddingConfig{Provider: "gemini"}, nil)
	if err == nil {
		t.Fatal("expected error for gemini provider without API key")
	}
}

func TestBuildEmbedder_UnknownProvider(t *testing.T) {
	_, err := buildEmbedder(context.Background(), config.EmbeddingConfig{Provider: "word2vec"}, nil)
	if err == nil {
		t.Fatal("expected error for unknown provider")
	}
}

func TestBuildLogger_DisabledReturnsNil(t *testing.T) {
	cfg := config.ObservabilityConfig{}
	if logger := buildLogger(cfg); logger != nil {
		t.Fatal("expected nil logger when logging is disabled")
	}
}
