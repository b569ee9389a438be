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

// Package openai provides the ai.Provider implementation backed by the OpenAI API.
//
// One langchaingo OpenAI client serves both roles: chat completions for
// answering questions and embeddings for indexing manual chunks. The embedder
// is wrapped in ai.ThrottledEmbedder so large ingestion runs are batched,
// rate limited and retried.
//
// # Usage
//
//	config := ai.NewConfig(
//	    ai.WithAPIKey(os.Getenv("OPENAI_API_KEY")),
//	    ai.WithModel("gpt-4o-mini"),
//	    ai.WithTemperature(0.2),
//	)
//
//	provider, err := openai.NewProvider(config)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	vector, err := provider.Embedder().EmbedQuery(ctx, "How do I clean the filter?")
//	answer, err := provider.Model().Call(ctx, "Hello")
package openai
