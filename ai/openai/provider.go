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

package openai

import (
	"log/slog"

	"github.com/poiesic/manualqa/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

// Provider implements ai.Provider on top of a single OpenAI client shared
// by the chat model and the embedder.
type Provider struct {
	config   *ai.Config
	embedder *ai.ThrottledEmbedder
	model    *Model
	logger   *slog.Logger
}

// NewProvider creates a new AI provider backed by the OpenAI API.
// The config is validated and normalized before use.
//
// Returns ai.Provider interface (not *Provider) to enforce abstraction
// and prevent coupling to OpenAI-specific implementation details.
func NewProvider(config *ai.Config) (ai.Provider, error) {
	return newProvider(config)
}

func newProvider(config *ai.Config) (*Provider, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	client, err := newClient(config)
	if err != nil {
		return nil, err
	}

	embedder, err := newEmbedder(client, config)
	if err != nil {
		return nil, err
	}

	throttled, err := ai.NewThrottledEmbedder(embedder, config)
	if err != nil {
		return nil, err
	}

	logger := slog.Default().With("component", "openai-provider")
	logger.Debug("created OpenAI provider",
		"model", config.Model,
		"embedding_model", config.EmbeddingModel,
		"custom_base_url", config.BaseURL != "")

	p := &Provider{
		config:   config,
		embedder: throttled,
		logger:   logger,
	}
	if config.Model != "" {
		p.model = newModel(client, config.Model)
	}
	return p, nil
}

func newClient(config *ai.Config) (*openai.LLM, error) {
	opts := []openai.Option{
		openai.WithToken(config.APIKey),
		openai.WithModel(config.Model),
		openai.WithEmbeddingModel(config.EmbeddingModel),
	}
	if config.BaseURL != "" {
		opts = append(opts, openai.WithBaseURL(config.BaseURL))
	}
	return openai.New(opts...)
}

// Embedder returns the throttled, dimension-checked embedder.
func (p *Provider) Embedder() embeddings.Embedder {
	return p.embedder
}

// Model returns the chat completion model, or nil when no model is configured.
func (p *Provider) Model() llms.Model {
	if p.model == nil {
		return nil
	}
	return p.model
}

// Config returns the validated configuration.
func (p *Provider) Config() *ai.Config {
	return p.config
}

// Close releases resources held by the provider.
// Currently a no-op as the underlying clients don't require explicit cleanup.
func (p *Provider) Close() error {
	p.logger.Debug("closing OpenAI provider")
	return nil
}
