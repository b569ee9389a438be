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

package ingestion

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/poiesic/manualqa/ai/mock"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/textsplit"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/poiesic/manualqa/vectorstore/badger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// recordingStore captures AddDocuments calls.
type recordingStore struct {
	mu    sync.Mutex
	calls [][]schema.Document
	err   error
}

func (s *recordingStore) AddDocuments(_ context.Context, docs []schema.Document, _ ...vectorstores.Option) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.err != nil {
		return nil, s.err
	}
	s.calls = append(s.calls, docs)
	ids := make([]string, len(docs))
	for i := range docs {
		ids[i] = string(rune('a' + i%26))
	}
	return ids, nil
}

func (s *recordingStore) SimilaritySearch(context.Context, string, int, ...vectorstores.Option) ([]schema.Document, error) {
	return nil, nil
}

// pagesLoader returns the given pages per path. Paths with fewer pages sleep
// longer so concurrent loads finish out of order.
func pagesLoader(pages map[string][]string) LoaderFunc {
	return func(ctx context.Context, path string) ([]core.Document, error) {
		texts, ok := pages[path]
		if !ok {
			return nil, errors.New("no such file")
		}
		time.Sleep(time.Duration(len(pages)-len(texts)) * time.Millisecond)
		docs := make([]core.Document, len(texts))
		for i, text := range texts {
			docs[i] = core.Document{Source: path, Page: i, Text: text}
		}
		return docs, nil
	}
}

func newTestPipeline(t *testing.T, loader Loader, opts ...Option) *Pipeline {
	t.Helper()
	base := []Option{WithLoader(loader), WithProgress(nil), WithPoolSize(4)}
	p, err := NewPipeline(append(base, opts...)...)
	require.NoError(t, err)
	t.Cleanup(p.Release)
	return p
}

func TestNewPipeline(t *testing.T) {
	p, err := NewPipeline()
	require.NoError(t, err)
	defer p.Release()

	assert.IsType(t, &PDFLoader{}, p.loader)
	assert.Equal(t, textsplit.DefaultChunkSize, p.splitter.ChunkSize())

	_, err = NewPipeline(WithLoader(nil))
	assert.ErrorIs(t, err, ErrLoaderRequired)

	_, err = NewPipeline(WithSplitter(nil))
	assert.ErrorIs(t, err, ErrSplitterRequired)
}

func TestPipeline_Ingest(t *testing.T) {
	long := strings.Repeat("フィルターを掃除してください。", 60)
	loader := pagesLoader(map[string][]string{
		"a.pdf": {"Page one of a.", long},
		"b.pdf": {"Only page of b."},
	})
	p := newTestPipeline(t, loader)
	store := &recordingStore{}

	report, err := p.Ingest(context.Background(), store, []string{"a.pdf", "b.pdf"})
	require.NoError(t, err)

	require.Len(t, store.calls, 1, "all chunks go in one batch")
	docs := store.calls[0]

	assert.Equal(t, 2, report.Files)
	assert.Equal(t, 3, report.Pages)
	assert.Equal(t, len(docs), report.Chunks)
	assert.Len(t, report.IDs, len(docs))
	assert.Greater(t, report.Chunks, 3)

	assert.Equal(t, "a.pdf", docs[0].Metadata[core.MetaSource])
	assert.Equal(t, 0, docs[0].Metadata[core.MetaPage])
	assert.Equal(t, "b.pdf", docs[len(docs)-1].Metadata[core.MetaSource])

	var rebuilt strings.Builder
	for _, doc := range docs {
		assert.LessOrEqual(t, utf8.RuneCountInString(doc.PageContent), 512)
		assert.Equal(t, core.ContentHash(doc.PageContent), doc.Metadata[core.MetaContentHash])
		if doc.Metadata[core.MetaSource] == "a.pdf" && doc.Metadata[core.MetaPage] == 1 {
			rebuilt.WriteString(doc.PageContent)
		}
	}
	assert.Equal(t, long, rebuilt.String(), "chunks of a page must reproduce it")
}

func TestPipeline_ChunkIndexes(t *testing.T) {
	splitter, err := textsplit.NewRecursive(textsplit.WithChunkSize(5))
	require.NoError(t, err)

	p := newTestPipeline(t, pagesLoader(map[string][]string{"a.pdf": {"aaaa bbbb cccc"}}), WithSplitter(splitter))
	store := &recordingStore{}

	_, err = p.Ingest(context.Background(), store, []string{"a.pdf"})
	require.NoError(t, err)

	docs := store.calls[0]
	require.Len(t, docs, 3)
	for i, doc := range docs {
		assert.Equal(t, i, doc.Metadata[core.MetaChunk])
	}
}

func TestPipeline_PreservesPathOrder(t *testing.T) {
	pages := map[string][]string{}
	var paths []string
	for _, name := range []string{"1.pdf", "2.pdf", "3.pdf", "4.pdf", "5.pdf", "6.pdf"} {
		pages[name] = []string{"text of " + name}
		paths = append(paths, name)
	}
	p := newTestPipeline(t, pagesLoader(pages))
	store := &recordingStore{}

	_, err := p.Ingest(context.Background(), store, paths)
	require.NoError(t, err)

	docs := store.calls[0]
	require.Len(t, docs, len(paths))
	for i, doc := range docs {
		assert.Equal(t, paths[i], doc.Metadata[core.MetaSource])
	}
}

func TestPipeline_DefaultSources(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	loader := LoaderFunc(func(_ context.Context, path string) ([]core.Document, error) {
		mu.Lock()
		seen = append(seen, path)
		mu.Unlock()
		return []core.Document{{Source: path, Text: "x"}}, nil
	})
	p := newTestPipeline(t, loader)

	report, err := p.Ingest(context.Background(), &recordingStore{}, nil)
	require.NoError(t, err)

	assert.Equal(t, 4, report.Files)
	assert.ElementsMatch(t, DefaultSources, seen)
}

func TestPipeline_LoaderErrorPropagates(t *testing.T) {
	p := newTestPipeline(t, pagesLoader(map[string][]string{"a.pdf": {"x"}}))
	store := &recordingStore{}

	_, err := p.Ingest(context.Background(), store, []string{"a.pdf", "missing.pdf"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing.pdf")
	assert.Empty(t, store.calls, "nothing is stored when a file fails")
}

func TestPipeline_StoreErrorPropagates(t *testing.T) {
	boom := errors.New("quota exceeded")
	p := newTestPipeline(t, pagesLoader(map[string][]string{"a.pdf": {"x"}}))

	_, err := p.Ingest(context.Background(), &recordingStore{err: boom}, []string{"a.pdf"})
	assert.ErrorIs(t, err, boom)
}

func TestPipeline_BlankPages(t *testing.T) {
	p := newTestPipeline(t, pagesLoader(map[string][]string{"a.pdf": {"", ""}}))
	store := &recordingStore{}

	report, err := p.Ingest(context.Background(), store, []string{"a.pdf"})
	require.NoError(t, err)

	assert.Equal(t, 2, report.Pages)
	assert.Zero(t, report.Chunks)
	assert.Empty(t, store.calls)
}

func TestPipeline_StoreRequired(t *testing.T) {
	p := newTestPipeline(t, pagesLoader(nil))
	_, err := p.Ingest(context.Background(), nil, nil)
	assert.ErrorIs(t, err, ErrStoreRequired)
}

func TestPipeline_IntoLocalStore(t *testing.T) {
	provider, err := badger.NewMemoryProvider()
	require.NoError(t, err)
	defer provider.Close()

	connector, err := vectorstore.NewConnector(provider, mock.NewMockEmbedder())
	require.NoError(t, err)
	store, err := connector.Connect(context.Background(), vectorstore.DefaultIndexSpec("manuals"))
	require.NoError(t, err)

	p := newTestPipeline(t, pagesLoader(map[string][]string{
		"a.pdf": {"Clean the filter monthly.", "Replace the battery yearly."},
	}))

	first, err := p.Ingest(context.Background(), store, []string{"a.pdf"})
	require.NoError(t, err)
	second, err := p.Ingest(context.Background(), store, []string{"a.pdf"})
	require.NoError(t, err)

	assert.Len(t, first.IDs, 2)
	assert.Len(t, second.IDs, 2)
	assert.NotEqual(t, first.IDs, second.IDs, "re-running appends duplicates")

	docs, err := store.SimilaritySearch(context.Background(), "Replace the battery yearly.", 4)
	require.NoError(t, err)
	require.Len(t, docs, 4)
	assert.Equal(t, "Replace the battery yearly.", docs[0].PageContent)
	assert.Equal(t, "Replace the battery yearly.", docs[1].PageContent)
}

func TestPDFLoader_MissingFile(t *testing.T) {
	_, err := NewPDFLoader().Load(context.Background(), "does-not-exist.pdf")
	assert.Error(t, err)
}
