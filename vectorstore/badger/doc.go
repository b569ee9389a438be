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

// Package badger provides an embedded vectorstore.Provider on BadgerDB.
//
// It serves local development and tests where no hosted index is available.
// Index metadata lives under a per-index key and records are stored under a
// per-index prefix with IDs from a BadgerDB sequence. Vectors are normalized
// on insert, so similarity search is a dot product over a full scan.
//
// Record values are JSON; numeric metadata therefore reads back as float64.
package badger
