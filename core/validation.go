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

package core

import (
	"fmt"
	"unicode/utf8"
)

// ValidateDocument validates a Document according to domain rules.
//
// Validation rules:
//   - Source must not be empty
//   - Page must not be negative
//
// Text may be empty: blank pages load as empty documents and simply yield no chunks.
func ValidateDocument(doc *Document) error {
	if doc == nil {
		return fmt.Errorf("%w: document is nil", ErrInvalidDocument)
	}

	if doc.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrEmptySource)
	}

	if doc.Page < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidDocument, ErrNegativePage)
	}

	return nil
}

// ValidateChunk validates a Chunk against a maximum size in code points.
//
// Validation rules:
//   - Text must not be empty
//   - Text must be at most maxSize code points
//   - Source and Page follow the Document rules
func ValidateChunk(chunk *Chunk, maxSize int) error {
	if chunk == nil {
		return fmt.Errorf("%w: chunk is nil", ErrInvalidChunk)
	}

	if chunk.Text == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptyContent)
	}

	if n := utf8.RuneCountInString(chunk.Text); n > maxSize {
		return fmt.Errorf("%w: %w: %d > %d", ErrInvalidChunk, ErrChunkTooLong, n, maxSize)
	}

	if chunk.Source == "" {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrEmptySource)
	}

	if chunk.Page < 0 {
		return fmt.Errorf("%w: %w", ErrInvalidChunk, ErrNegativePage)
	}

	return nil
}
