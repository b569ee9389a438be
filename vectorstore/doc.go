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

// Package vectorstore ensures a vector index exists and hands out a langchaingo
// vectorstores.VectorStore bound to it.
//
// The Connector is shared by ingestion and the query service. Given an
// IndexSpec it checks whether the index exists, creates it when absent and
// blocks, polling the provider every second by default, until the index
// reports ready. Provider errors propagate unchanged; the connector neither
// retries nor degrades.
//
// # Providers
//
//   - vectorstore/pinecone: hosted serverless index
//   - vectorstore/badger: embedded BadgerDB index for local runs and tests
//
// # Usage
//
//	provider, err := pinecone.NewProvider(apiKey)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer provider.Close()
//
//	connector, err := vectorstore.NewConnector(provider, embedder)
//	store, err := connector.Connect(ctx, vectorstore.DefaultIndexSpec("manuals"))
//	docs, err := store.SimilaritySearch(ctx, "How do I clean the filter?", 4)
package vectorstore
