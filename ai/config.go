// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package ai

import (
	"fmt"
	"strings"
	"time"
)

// Config holds configuration for AI service providers.
type Config struct {
	// APIKey authenticates against the provider.
	APIKey string

	// BaseURL overrides the provider endpoint, e.g. an Azure or proxy URL.
	// Empty means the provider default.
	BaseURL string

	// Model is the chat completion model identifier.
	// May be empty when only embeddings are needed, as during ingestion.
	// Example: "gpt-4o-mini"
	Model string

	// Temperature is the sampling temperature for completions, within [0, 2].
	Temperature float64

	// EmbeddingModel is the model identifier to use for text embeddings.
	// Default: "text-embedding-ada-002"
	EmbeddingModel string

	// Dimensions is the expected width of every embedding vector.
	// Default: 1536
	Dimensions int

	// EmbedBatchSize is the number of texts sent per embedding request.
	// Default: 100
	EmbedBatchSize int

	// EmbedRequestsPerSecond bounds the embedding request rate.
	// Default: 5
	EmbedRequestsPerSecond float64

	// EmbedMaxAttempts is how many times a failed embedding request is tried.
	// Default: 3
	EmbedMaxAttempts int

	// EmbedRetryDelay is the base backoff between embedding attempts.
	// Default: 1s
	EmbedRetryDelay time.Duration
}

// ConfigOption is a functional option for configuring a Config.
type ConfigOption func(*Config)

// WithAPIKey sets the provider API key.
func WithAPIKey(key string) ConfigOption {
	return func(c *Config) {
		c.APIKey = key
	}
}

// WithBaseURL sets the provider base URL.
func WithBaseURL(url string) ConfigOption {
	return func(c *Config) {
		c.BaseURL = url
	}
}

// WithModel sets the chat completion model identifier.
func WithModel(model string) ConfigOption {
	return func(c *Config) {
		c.Model = model
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) ConfigOption {
	return func(c *Config) {
		c.Temperature = t
	}
}

// WithEmbeddingModel sets the embedding model identifier.
func WithEmbeddingModel(model string) ConfigOption {
	return func(c *Config) {
		c.EmbeddingModel = model
	}
}

// WithDimensions sets the expected embedding width.
func WithDimensions(n int) ConfigOption {
	return func(c *Config) {
		c.Dimensions = n
	}
}

// WithEmbedBatchSize sets the number of texts per embedding request.
func WithEmbedBatchSize(n int) ConfigOption {
	return func(c *Config) {
		c.EmbedBatchSize = n
	}
}

// WithEmbedRate sets the embedding request rate limit.
func WithEmbedRate(perSecond float64) ConfigOption {
	return func(c *Config) {
		c.EmbedRequestsPerSecond = perSecond
	}
}

// WithEmbedRetry sets the attempt count and base backoff for embedding requests.
func WithEmbedRetry(maxAttempts int, baseDelay time.Duration) ConfigOption {
	return func(c *Config) {
		c.EmbedMaxAttempts = maxAttempts
		c.EmbedRetryDelay = baseDelay
	}
}

// DefaultConfig returns a Config with the OpenAI defaults used for the manual index.
// APIKey must be supplied. Model has no default.
func DefaultConfig() *Config {
	return &Config{
		EmbeddingModel:         "text-embedding-ada-002",
		Dimensions:             1536,
		EmbedBatchSize:         100,
		EmbedRequestsPerSecond: 5,
		EmbedMaxAttempts:       3,
		EmbedRetryDelay:        time.Second,
	}
}

// NewConfig creates a Config with the default values and applies the provided options.
//
// Example:
//
//	cfg := NewConfig(
//	    WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    WithModel("gpt-4o-mini"),
//	    WithTemperature(0.2),
//	)
func NewConfig(opts ...ConfigOption) *Config {
	cfg := DefaultConfig()
	for _, opt := range opts {
		opt(cfg)
	}
	return cfg
}

// Normalize ensures the configuration is in a canonical form.
// It trims surrounding whitespace and adds the /v1 suffix to a custom base URL,
// which OpenAI-compatible endpoints expect.
func (c *Config) Normalize() {
	c.APIKey = strings.TrimSpace(c.APIKey)
	c.Model = strings.TrimSpace(c.Model)
	c.EmbeddingModel = strings.TrimSpace(c.EmbeddingModel)

	if c.BaseURL != "" && !strings.HasSuffix(c.BaseURL, "/v1") {
		c.BaseURL = strings.TrimSuffix(c.BaseURL, "/") + "/v1"
	}
}

// Validate checks that the configuration is valid and complete.
// It automatically normalizes the configuration before validation.
func (c *Config) Validate() error {
	c.Normalize()

	if c.APIKey == "" {
		return fmt.Errorf("%w: APIKey is required", ErrInvalidConfig)
	}
	if c.EmbeddingModel == "" {
		return fmt.Errorf("%w: EmbeddingModel is required", ErrInvalidConfig)
	}
	if c.Temperature < 0 || c.Temperature > 2 {
		return fmt.Errorf("%w: Temperature must be between 0 and 2", ErrInvalidConfig)
	}
	if c.Dimensions <= 0 {
		return fmt.Errorf("%w: Dimensions must be positive", ErrInvalidConfig)
	}
	if c.EmbedBatchSize <= 0 {
		return fmt.Errorf("%w: EmbedBatchSize must be positive", ErrInvalidConfig)
	}
	if c.EmbedRequestsPerSecond <= 0 {
		return fmt.Errorf("%w: EmbedRequestsPerSecond must be positive", ErrInvalidConfig)
	}
	if c.EmbedMaxAttempts <= 0 {
		return fmt.Errorf("%w: EmbedMaxAttempts must be positive", ErrInvalidConfig)
	}
	return nil
}
