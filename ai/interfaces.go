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
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/llms"
)

// Provider aggregates AI services for convenient initialization and lifecycle management.
// The services it hands out share configuration and are safe for concurrent use.
type Provider interface {
	// Embedder returns the text embedding service used for both documents and queries.
	Embedder() embeddings.Embedder

	// Model returns the chat completion model, or nil when none is configured.
	Model() llms.Model

	// Config returns the configuration the provider was built from.
	Config() *Config

	// Close releases resources held by the provider and its services.
	// After Close is called, the provider and its services should not be used.
	Close() error
}
