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

// Package ai provides abstractions for the AI services used by manualqa.
//
// The package is built around langchaingo's own interfaces so that the rest
// of the module can hand models and embedders straight to langchaingo chains
// and vector stores:
//
//   - embeddings.Embedder: turns manual chunks and user questions into vectors
//   - llms.Model: the chat model that writes answers
//   - Provider: aggregates both for convenient initialization
//
// ThrottledEmbedder wraps any embedder with batching, a request rate limit,
// retry with exponential backoff and a dimension check.
//
// # Implementation Packages
//
//   - ai/openai: Production implementation using the OpenAI API
//   - ai/mock: Test doubles for unit testing without external dependencies
//
// # Constructor Return Type Pattern
//
// Public constructors (openai.NewProvider) return INTERFACE types to enforce
// abstraction. Test utility constructors (mock.NewMockEmbedder,
// mock.NewMockModel) return CONCRETE types so tests can inject behavior and
// assert on call counts.
//
// # Usage Example
//
//	config := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithModel(os.Getenv("OPENAI_API_MODEL")),
//	)
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedQuery(ctx, "How do I descale the kettle?")
package ai
