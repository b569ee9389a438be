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

package pinecone

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
	lcpinecone "github.com/tmc/langchaingo/vectorstores/pinecone"
)

// ErrMissingAPIKey indicates no Pinecone API key was supplied.
var ErrMissingAPIKey = errors.New("pinecone api key is required")

// Provider implements vectorstore.Provider on Pinecone serverless indexes.
// The control plane goes through go-pinecone and the data plane through the
// langchaingo Pinecone store.
type Provider struct {
	client    *pinecone.Client
	apiKey    string
	namespace string
	logger    *slog.Logger
}

var _ vectorstore.Provider = (*Provider)(nil)

// Option configures a Provider.
type Option func(*Provider)

// WithNamespace sets the namespace records are written to and read from.
func WithNamespace(ns string) Option {
	return func(p *Provider) {
		p.namespace = ns
	}
}

// NewProvider creates a Pinecone provider authenticated with apiKey.
//
// Returns vectorstore.Provider interface to enforce abstraction.
func NewProvider(apiKey string, opts ...Option) (vectorstore.Provider, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	client, err := pinecone.NewClient(pinecone.NewClientParams{ApiKey: apiKey})
	if err != nil {
		return nil, fmt.Errorf("failed to create pinecone client: %w", err)
	}

	p := &Provider{
		client: client,
		apiKey: apiKey,
		logger: slog.Default().With("component", "pinecone-provider"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// ListIndexes returns the names of the project's indexes.
func (p *Provider) ListIndexes(ctx context.Context) ([]string, error) {
	indexes, err := p.client.ListIndexes(ctx)
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, len(indexes))
	for _, idx := range indexes {
		names = append(names, idx.Name)
	}
	return names, nil
}

// CreateIndex creates a serverless index. Pinecone returns before the index is ready.
func (p *Provider) CreateIndex(ctx context.Context, spec vectorstore.IndexSpec) error {
	p.logger.Info("creating serverless index",
		"name", spec.Name, "cloud", spec.Cloud, "region", spec.Region)

	_, err := p.client.CreateServerlessIndex(ctx, &pinecone.CreateServerlessIndexRequest{
		Name:      spec.Name,
		Dimension: int32(spec.Dimension),
		Metric:    pinecone.IndexMetric(spec.Metric),
		Cloud:     pinecone.Cloud(spec.Cloud),
		Region:    spec.Region,
	})
	return err
}

// DescribeIndex reports readiness and host of the named index.
func (p *Provider) DescribeIndex(ctx context.Context, name string) (*vectorstore.IndexDescription, error) {
	idx, err := p.client.DescribeIndex(ctx, name)
	if err != nil {
		return nil, err
	}
	return describe(idx), nil
}

// Open binds a langchaingo Pinecone store to the index host.
func (p *Provider) Open(_ context.Context, desc *vectorstore.IndexDescription, embedder embeddings.Embedder) (vectorstores.VectorStore, error) {
	opts := []lcpinecone.Option{
		lcpinecone.WithHost(desc.Host),
		lcpinecone.WithAPIKey(p.apiKey),
		lcpinecone.WithEmbedder(embedder),
	}
	if p.namespace != "" {
		opts = append(opts, lcpinecone.WithNameSpace(p.namespace))
	}

	store, err := lcpinecone.New(opts...)
	if err != nil {
		return nil, err
	}
	return store, nil
}

// Close is a no-op; the Pinecone client holds no resources.
func (p *Provider) Close() error {
	return nil
}

func describe(idx *pinecone.Index) *vectorstore.IndexDescription {
	desc := &vectorstore.IndexDescription{
		Name:      idx.Name,
		Dimension: int(idx.Dimension),
		Metric:    vectorstore.Metric(idx.Metric),
		Host:      idx.Host,
	}
	if idx.Status != nil {
		desc.Ready = idx.Status.Ready
	}
	return desc
}
