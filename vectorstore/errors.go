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

import "errors"

var (
	// ErrInvalidIndexSpec indicates an IndexSpec failed validation.
	ErrInvalidIndexSpec = errors.New("invalid index spec")

	// ErrIndexExists indicates an attempt to create an index that already exists.
	ErrIndexExists = errors.New("index already exists")

	// ErrIndexNotFound indicates the named index does not exist.
	ErrIndexNotFound = errors.New("index not found")

	// ErrDimensionMismatch indicates an existing index or vector has a different width than expected.
	ErrDimensionMismatch = errors.New("dimension mismatch")

	// ErrNoEmbedder indicates a store operation that needs an embedder was given none.
	ErrNoEmbedder = errors.New("no embedder configured")

	// ErrStoreClosed indicates that the storage backend is closed.
	ErrStoreClosed = errors.New("store is closed")
)
