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

// Package ingestion builds the manual index.
//
// A Pipeline loads every page of each source file, splits the pages into
// chunks of at most 512 code points without overlap, and appends all chunks
// to a vector store in one AddDocuments call. Files load concurrently on an
// ants worker pool; the resulting chunk order still follows the order of the
// paths and of the pages within each file.
//
// Each stored record carries source, page, chunk and content_hash metadata.
// Ingestion is not idempotent: running it twice over the same files appends
// duplicate records.
//
// # Usage
//
//	pipeline, err := ingestion.NewPipeline()
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer pipeline.Release()
//
//	report, err := pipeline.Ingest(ctx, store, nil) // nil ingests DefaultSources
package ingestion
