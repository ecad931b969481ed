// Package gemini implements the embedding capability against the Gemini API.
package gemini

import (
	"context"
	"fmt"
	"strings"
	"time"

	"golang.org/x/time/rate"
	"google.golang.org/genai"

	"github.com/auditgen/discrepancy-engine/internal/adapter/embed"
)

const providerName = "gemini"

// Config holds client configuration.
type Config struct {
	APIKey  string
	Model   string
	Timeout time.Duration
	Retry   embed.RetryConfig

	// RequestsPerSecond caps the outbound call rate. Zero disables limiting.
	RequestsPerSecond float64

	Logger embed.Logger
}

// Client calls the Gemini embedding endpoint.
type Client struct {
	models  *genai.Models
	model   string
	timeout time.Duration
	retry   embed.RetryConfig
	limiter *rate.Limiter
	logger  embed.Logger
}

// NewClient constructs a Gemini embedding client.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	if cfg.APIKey == "" {
		return nil, embed.NewAuthenticationError(providerName, "API key is required")
	}
	if cfg.Model == "" {
		cfg.Model = "gemini-embedding-001"
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}
	if cfg.Retry.MaxRetries == 0 && cfg.Retry.InitialBackoff == 0 {
		cfg.Retry = embed.DefaultRetryConfig()
	}

	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.APIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create gemini client: %w", err)
	}

	var limiter *rate.Limiter
	if cfg.RequestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1)
	}

	return &Client{
		models:  client.Models,
		model:   cfg.Model,
		timeout: cfg.Timeout,
		retry:   cfg.Retry,
		limiter: limiter,
		logger:  cfg.Logger,
	}, nil
}

// Embed returns the embedding vector for text. Each attempt carries its own
// timeout; retries follow the configured budget with exponential backoff.
func (c *Client) Embed(ctx context.Context, text string) ([]float32, error) {
	var vector []float32

	operation := func(ctx context.Context) error {
		if c.limiter != nil {
			if err := c.limiter.Wait(ctx); err != nil {
				return err
			}
		}

		start := time.Now()
		if c.logger != nil {
			c.logger.LogRequest(ctx, embed.RequestLog{
				Provider:  providerName,
				Model:     c.model,
				Timestamp: start,
				TextChars: len(text),
			})
		}

		attemptCtx, cancel := context.WithTimeout(ctx, c.timeout)
		defer cancel()

		contents := []*genai.Content{
			{Parts: []*genai.Part{{Text: text}}},
		}

		resp, err := c.models.EmbedContent(attemptCtx, c.model, contents, nil)
		if err != nil {
			classified := classifyError(err)
			if c.logger != nil {
				var embedErr *embed.Error
				if e, ok := classified.(*embed.Error); ok {
					embedErr = e
				} else {
					embedErr = &embed.Error{Type: embed.ErrTypeUnknown, Message: err.Error(), Provider: providerName}
				}
				c.logger.LogError(ctx, embed.ErrorLog{
					Provider:   providerName,
					Model:      c.model,
					Timestamp:  time.Now(),
					Duration:   time.Since(start),
					Error:      classified,
					ErrorType:  embedErr.Type,
					StatusCode: embedErr.StatusCode,
					Retryable:  embedErr.Retryable,
				})
			}
			return classified
		}

		if len(resp.Embeddings) == 0 || len(resp.Embeddings[0].Values) == 0 {
			return embed.NewServiceUnavailableError(providerName, "empty embedding in response")
		}
		vector = resp.Embeddings[0].Values

		if c.logger != nil {
			c.logger.LogResponse(ctx, embed.ResponseLog{
				Provider:   providerName,
				Model:      c.model,
				Timestamp:  time.Now(),
				Duration:   time.Since(start),
				Dimensions: len(vector),
				StatusCode: 200,
			})
		}
		return nil
	}

	if err := embed.RetryWithBackoff(ctx, operation, c.retry); err != nil {
		return nil, err
	}
	return vector, nil
}

// classifyError maps genai transport errors onto the shared embed error type
// so the retry logic can tell transient faults from permanent ones.
func classifyError(err error) error {
	msg := err.Error()
	switch {
	case strings.Contains(msg, "429") || strings.Contains(strings.ToLower(msg), "rate limit") || strings.Contains(strings.ToLower(msg), "quota"):
		return embed.NewRateLimitError(providerName, msg)
	case strings.Contains(msg, "401") || strings.Contains(msg, "403") || strings.Contains(strings.ToLower(msg), "api key"):
		return embed.NewAuthenticationError(providerName, msg)
	case strings.Contains(msg, "500") || strings.Contains(msg, "502") || strings.Contains(msg, "503") || strings.Contains(strings.ToLower(msg), "unavailable"):
		return embed.NewServiceUnavailableError(providerName, msg)
	case strings.Contains(strings.ToLower(msg), "deadline") || strings.Contains(strings.ToLower(msg), "timeout"):
		return embed.NewTimeoutError(providerName, msg)
	case strings.Contains(msg, "400"):
		return embed.NewInvalidRequestError(providerName, msg)
	default:
		return &embed.Error{
			Type:      embed.ErrTypeUnknown,
			Message:   msg,
			Retryable: false,
			Provider:  providerName,
		}
	}
}
