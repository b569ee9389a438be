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

package vectorstore

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
)

// DefaultPollInterval is how often readiness is checked after creating an index.
const DefaultPollInterval = time.Second

// Connector ensures an index exists and opens a store on it.
type Connector struct {
	provider     Provider
	embedder     embeddings.Embedder
	pollInterval time.Duration
	logger       *slog.Logger
}

// Option configures a Connector.
type Option func(*Connector) error

// WithPollInterval sets how often index readiness is polled.
func WithPollInterval(d time.Duration) Option {
	return func(c *Connector) error {
		if d <= 0 {
			return errors.New("poll interval must be positive")
		}
		c.pollInterval = d
		return nil
	}
}

// WithLogger sets the connector logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Connector) error {
		c.logger = logger
		return nil
	}
}

// NewConnector creates a Connector that opens stores embedding with embedder.
func NewConnector(provider Provider, embedder embeddings.Embedder, opts ...Option) (*Connector, error) {
	if embedder == nil {
		return nil, ErrNoEmbedder
	}

	c := &Connector{
		provider:     provider,
		embedder:     embedder,
		pollInterval: DefaultPollInterval,
		logger:       slog.Default().With("component", "vectorstore-connector"),
	}
	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// Connect ensures the index described by spec exists and is ready, creating it
// if needed, and returns a store bound to it. Calling Connect again for the
// same spec never creates a second index.
func (c *Connector) Connect(ctx context.Context, spec IndexSpec) (vectorstores.VectorStore, error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}

	names, err := c.provider.ListIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list indexes: %w", err)
	}

	if !slices.Contains(names, spec.Name) {
		c.logger.Info("creating index", "name", spec.Name, "dimension", spec.Dimension, "metric", spec.Metric)
		if err := c.provider.CreateIndex(ctx, spec); err != nil {
			return nil, fmt.Errorf("failed to create index %s: %w", spec.Name, err)
		}
	}

	desc, err := c.waitReady(ctx, spec.Name)
	if err != nil {
		return nil, err
	}

	if desc.Dimension != 0 && desc.Dimension != spec.Dimension {
		return nil, fmt.Errorf("%w: index %s has %d dimensions, want %d",
			ErrDimensionMismatch, spec.Name, desc.Dimension, spec.Dimension)
	}

	store, err := c.provider.Open(ctx, desc, c.embedder)
	if err != nil {
		return nil, fmt.Errorf("failed to open index %s: %w", spec.Name, err)
	}

	c.logger.Debug("index ready", "name", desc.Name, "host", desc.Host)
	return store, nil
}

// waitReady describes the index until it reports ready.
func (c *Connector) waitReady(ctx context.Context, name string) (*IndexDescription, error) {
	ticker := time.NewTicker(c.pollInterval)
	defer ticker.Stop()

	for {
		desc, err := c.provider.DescribeIndex(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to describe index %s: %w", name, err)
		}
		if desc.Ready {
			return desc, nil
		}

		c.logger.Debug("waiting for index", "name", name)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}
}
