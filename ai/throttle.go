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
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"golang.org/x/time/rate"
)

var _ embeddings.Embedder = (*ThrottledEmbedder)(nil)

// ThrottledEmbedder wraps an embeddings.Embedder with batching, a request
// rate limit and retry with exponential backoff. Every vector it returns is
// checked against the expected dimension.
type ThrottledEmbedder struct {
	next        embeddings.Embedder
	limiter     *rate.Limiter
	batchSize   int
	maxAttempts int
	baseDelay   time.Duration
	dimensions  int
	logger      *slog.Logger
}

// NewThrottledEmbedder wraps next using the batching, rate and retry settings of config.
func NewThrottledEmbedder(next embeddings.Embedder, config *Config) (*ThrottledEmbedder, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &ThrottledEmbedder{
		next:        next,
		limiter:     rate.NewLimiter(rate.Limit(config.EmbedRequestsPerSecond), 1),
		batchSize:   config.EmbedBatchSize,
		maxAttempts: config.EmbedMaxAttempts,
		baseDelay:   config.EmbedRetryDelay,
		dimensions:  config.Dimensions,
		logger:      slog.Default().With("component", "throttled-embedder"),
	}, nil
}

// EmbedDocuments embeds texts in batches, waiting on the rate limiter before each request.
// The returned vectors are in input order.
func (t *ThrottledEmbedder) EmbedDocuments(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, 0, len(texts))

	for start := 0; start < len(texts); start += t.batchSize {
		end := min(start+t.batchSize, len(texts))
		batch := texts[start:end]

		var vectors [][]float32
		err := t.call(ctx, func() error {
			var err error
			vectors, err = t.next.EmbedDocuments(ctx, batch)
			return err
		})
		if err != nil {
			t.logger.Error("failed to embed batch", "start", start, "size", len(batch), "err", err)
			return nil, fmt.Errorf("failed to embed texts %d-%d after %d attempts: %w", start, end-1, t.maxAttempts, err)
		}

		if len(vectors) != len(batch) {
			return nil, fmt.Errorf("%w: expected %d, got %d", ErrEmbeddingCount, len(batch), len(vectors))
		}
		for _, v := range vectors {
			if err := t.checkDimensions(v); err != nil {
				return nil, err
			}
		}

		t.logger.Debug("embedded batch", "start", start, "size", len(batch))
		result = append(result, vectors...)
	}

	return result, nil
}

// EmbedQuery embeds a single query text.
func (t *ThrottledEmbedder) EmbedQuery(ctx context.Context, text string) ([]float32, error) {
	var vector []float32
	err := t.call(ctx, func() error {
		var err error
		vector, err = t.next.EmbedQuery(ctx, text)
		return err
	})
	if err != nil {
		t.logger.Error("failed to embed query", "length", len(text), "err", err)
		return nil, fmt.Errorf("failed to embed query after %d attempts: %w", t.maxAttempts, err)
	}

	if err := t.checkDimensions(vector); err != nil {
		return nil, err
	}
	return vector, nil
}

// call waits for the limiter before every attempt.
func (t *ThrottledEmbedder) call(ctx context.Context, op func() error) error {
	return RetryWithBackoff(ctx, func() error {
		if err := t.limiter.Wait(ctx); err != nil {
			return err
		}
		return op()
	}, t.maxAttempts, t.baseDelay)
}

func (t *ThrottledEmbedder) checkDimensions(v []float32) error {
	if len(v) != t.dimensions {
		return fmt.Errorf("%w: expected %d, got %d", ErrDimensionMismatch, t.dimensions, len(v))
	}
	return nil
}
