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

package mock

import (
	"github.com/poiesic/manualqa/ai"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// MockProvider is a test double for ai.Provider.
// It aggregates a mock embedder and a mock model.
type MockProvider struct {
	config   *ai.Config
	embedder *MockEmbedder
	model    *MockModel
}

// NewMockProvider creates a new mock provider with default mock services.
//
// Returns ai.Provider interface for consistency with production constructors.
// Use GetMockEmbedder()/GetMockModel() to access concrete types for test assertions.
func NewMockProvider() ai.Provider {
	return NewMockProviderWithServices(NewMockEmbedder(), NewMockModel("mock answer"))
}

// NewMockProviderWithServices creates a mock provider with custom mock services.
func NewMockProviderWithServices(embedder *MockEmbedder, model *MockModel) ai.Provider {
	return &MockProvider{
		config: ai.NewConfig(
			ai.WithAPIKey("mock"),
			ai.WithModel("mock-model"),
			ai.WithDimensions(embedder.Dimensions),
		),
		embedder: embedder,
		model:    model,
	}
}

// Embedder returns the mock embedder.
func (p *MockProvider) Embedder() embeddings.Embedder {
	return p.embedder
}

// Model returns the mock model.
func (p *MockProvider) Model() llms.Model {
	return p.model
}

// Config returns the mock configuration.
func (p *MockProvider) Config() *ai.Config {
	return p.config
}

// Close is a no-op for mock provider.
func (p *MockProvider) Close() error {
	return nil
}

// GetMockEmbedder returns the underlying mock embedder for test assertions.
func (p *MockProvider) GetMockEmbedder() *MockEmbedder {
	return p.embedder
}

// GetMockModel returns the underlying mock model for test assertions.
func (p *MockProvider) GetMockModel() *MockModel {
	return p.model
}
