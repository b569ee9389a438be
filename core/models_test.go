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
	"strings"
	"testing"
)

func TestIDFromContent(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{name: "simple content", content: "hello"},
		{name: "japanese content", content: "電源ボタンを長押しします。"},
		{name: "empty string", content: ""},
		{name: "long content", content: strings.Repeat("manual page text ", 64)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id1 := IDFromContent(tt.content)
			id2 := IDFromContent(tt.content)

			if id1 != id2 {
				t.Errorf("IDFromContent() produced different IDs for same content: %d vs %d", id1, id2)
			}
		})
	}
}

func TestIDFromContent_Different(t *testing.T) {
	id1 := IDFromContent("content1")
	id2 := IDFromContent("content2")

	if id1 == id2 {
		t.Errorf("IDFromContent() produced same ID for different content")
	}
}

func TestContentHash(t *testing.T) {
	h := ContentHash("filter cleaning")
	if len(h) != 16 {
		t.Errorf("ContentHash() length = %d, want 16", len(h))
	}
	if h != ContentHash("filter cleaning") {
		t.Errorf("ContentHash() is not deterministic")
	}
	if h == ContentHash("filter replacement") {
		t.Errorf("ContentHash() collided for different content")
	}
}

func TestID_String(t *testing.T) {
	if got := ID(42).String(); got != "42" {
		t.Errorf("ID.String() = %q, want %q", got, "42")
	}
}

func TestChunk_Metadata(t *testing.T) {
	chunk := Chunk{Source: "rewf264_mn.pdf", Page: 3, Index: 2, Text: "Clean the filter monthly."}

	meta := chunk.Metadata()

	if meta[MetaSource] != "rewf264_mn.pdf" {
		t.Errorf("source = %v", meta[MetaSource])
	}
	if meta[MetaPage] != 3 {
		t.Errorf("page = %v", meta[MetaPage])
	}
	if meta[MetaChunk] != 2 {
		t.Errorf("chunk = %v", meta[MetaChunk])
	}
	if meta[MetaContentHash] != ContentHash(chunk.Text) {
		t.Errorf("content_hash = %v", meta[MetaContentHash])
	}
}
