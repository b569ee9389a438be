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
	"encoding/binary"
	"encoding/hex"
	"strconv"

	"github.com/go-crypt/x/blake2b"
)

// Metadata keys attached to every stored vector record.
const (
	MetaSource      = "source"
	MetaPage        = "page"
	MetaChunk       = "chunk"
	MetaContentHash = "content_hash"
)

// Dimensions is the embedding width of every vector in the index.
const Dimensions = 1536

// ID is a unique identifier for stored records.
type ID uint64

// String renders the ID in base 10, the form used as the opaque record key.
func (id ID) String() string {
	return strconv.FormatUint(uint64(id), 10)
}

// IDFromContent generates a deterministic ID from text content using BLAKE2b hashing.
// Identical content produces identical IDs.
func IDFromContent(text string) ID {
	h, _ := blake2b.New(8, nil) // 8 bytes = 64 bits
	h.Write([]byte(text))
	sum := h.Sum(nil)
	return ID(binary.LittleEndian.Uint64(sum))
}

// ContentHash returns the hex form of IDFromContent for use in metadata.
func ContentHash(text string) string {
	var buf [8]byte
	binary.LittleEndian.PutUint64(buf[:], uint64(IDFromContent(text)))
	return hex.EncodeToString(buf[:])
}

// Document is the raw text of one page of a source file.
type Document struct {
	Source string // Path of the file the page came from
	Page   int    // 0-based page index
	Text   string
}

// Chunk is a bounded piece of a Document produced by splitting.
type Chunk struct {
	Source string
	Page   int
	Index  int // Position of the chunk within its Document
	Text   string
}

// Metadata returns the record metadata stored alongside the chunk's embedding.
func (c *Chunk) Metadata() map[string]any {
	return map[string]any{
		MetaSource:      c.Source,
		MetaPage:        c.Page,
		MetaChunk:       c.Index,
		MetaContentHash: ContentHash(c.Text),
	}
}
