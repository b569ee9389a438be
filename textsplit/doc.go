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

// Package textsplit splits page text into bounded chunks.
//
// The Recursive splitter prefers natural boundaries: it tries paragraph breaks
// first, then line breaks, sentence ends and spaces, and only cuts mid-word
// when a piece has no usable boundary left. Lengths are measured in Unicode
// code points so that Japanese manuals are bounded the same way as English
// ones.
//
// Chunks never overlap and separators stay attached to the text before them,
// so joining the chunks of a text gives back the text unchanged:
//
//	s, err := textsplit.NewRecursive(textsplit.WithChunkSize(512))
//	chunks, err := s.SplitText(page)
//	// strings.Join(chunks, "") == page
//
// Recursive satisfies langchaingo's textsplitter.TextSplitter, so it can be
// handed to textsplitter.SplitDocuments as well.
package textsplit
