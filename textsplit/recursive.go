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

package textsplit

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/tmc/langchaingo/textsplitter"
)

// DefaultChunkSize is the maximum chunk length in code points.
const DefaultChunkSize = 512

// DefaultSeparators lists boundaries from most to least preferred.
// The empty separator means a hard cut at the chunk size.
var DefaultSeparators = []string{"\n\n", "\n", "。", ". ", " ", ""}

var _ textsplitter.TextSplitter = (*Recursive)(nil)

// Recursive is a boundary-aware splitter with zero overlap.
type Recursive struct {
	chunkSize  int
	separators []string
}

// Option configures a Recursive splitter.
type Option func(*Recursive) error

// WithChunkSize sets the maximum chunk length in code points.
func WithChunkSize(size int) Option {
	return func(r *Recursive) error {
		if size < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidChunkSize, size)
		}
		r.chunkSize = size
		return nil
	}
}

// WithSeparators replaces the separator priority list.
func WithSeparators(separators ...string) Option {
	return func(r *Recursive) error {
		if len(separators) == 0 {
			return ErrNoSeparators
		}
		r.separators = append([]string(nil), separators...)
		return nil
	}
}

// NewRecursive creates a splitter with DefaultChunkSize and DefaultSeparators
// unless overridden.
func NewRecursive(opts ...Option) (*Recursive, error) {
	r := &Recursive{
		chunkSize:  DefaultChunkSize,
		separators: DefaultSeparators,
	}
	for _, opt := range opts {
		if err := opt(r); err != nil {
			return nil, err
		}
	}
	return r, nil
}

// ChunkSize returns the configured maximum chunk length.
func (r *Recursive) ChunkSize() int {
	return r.chunkSize
}

// SplitText splits text into chunks of at most ChunkSize code points.
// An empty text yields no chunks.
func (r *Recursive) SplitText(text string) ([]string, error) {
	if text == "" {
		return nil, nil
	}
	return r.split(text, r.separators), nil
}

func (r *Recursive) split(text string, separators []string) []string {
	if utf8.RuneCountInString(text) <= r.chunkSize {
		return []string{text}
	}

	sep, rest, ok := pickSeparator(text, separators)
	if !ok || sep == "" {
		return r.hardCut(text)
	}

	var (
		chunks []string
		cur    strings.Builder
		curLen int
	)
	flush := func() {
		if curLen > 0 {
			chunks = append(chunks, cur.String())
			cur.Reset()
			curLen = 0
		}
	}

	for _, piece := range splitAfter(text, sep) {
		n := utf8.RuneCountInString(piece)
		if n > r.chunkSize {
			flush()
			chunks = append(chunks, r.split(piece, rest)...)
			continue
		}
		if curLen+n > r.chunkSize {
			flush()
		}
		cur.WriteString(piece)
		curLen += n
	}
	flush()

	return chunks
}

// hardCut slices text every chunkSize code points.
func (r *Recursive) hardCut(text string) []string {
	var chunks []string
	start, count := 0, 0
	for i := range text {
		if count == r.chunkSize {
			chunks = append(chunks, text[start:i])
			start, count = i, 0
		}
		count++
	}
	if start < len(text) {
		chunks = append(chunks, text[start:])
	}
	return chunks
}

// pickSeparator returns the first separator present in text and the
// separators after it.
func pickSeparator(text string, separators []string) (string, []string, bool) {
	for i, sep := range separators {
		if sep == "" || strings.Contains(text, sep) {
			return sep, separators[i+1:], true
		}
	}
	return "", nil, false
}

// splitAfter splits text after each sep, dropping the empty tail.
func splitAfter(text, sep string) []string {
	pieces := strings.SplitAfter(text, sep)
	if n := len(pieces); n > 0 && pieces[n-1] == "" {
		pieces = pieces[:n-1]
	}
	return pieces
}
