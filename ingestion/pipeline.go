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
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"sync"
	"time"

	"github.com/panjf2000/ants/v2"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/textsplit"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// DefaultSources is the list of manuals ingested when no paths are given.
var DefaultSources = []string{
	"rewf264_mn.pdf",
	"na_vx3500_unlocked.pdf",
	"r_hwc62t_e_unlocked.pdf",
	"30TDL6100_web_unlocked.pdf",
}

// Report summarizes one ingestion run.
type Report struct {
	Files   int
	Pages   int
	Chunks  int
	IDs     []string
	Elapsed time.Duration
}

// Pipeline loads source files, splits their pages into chunks and appends
// the chunks to a vector store.
type Pipeline struct {
	loader   Loader
	splitter *textsplit.Recursive
	pool     *ants.Pool
	progress io.Writer
	logger   *slog.Logger
}

// Option configures a Pipeline.
type Option func(*Pipeline) error

// WithPoolSize sets the worker pool size for concurrent file loading.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) Option {
	return func(p *Pipeline) error {
		if size < 1 {
			size = 1
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}

		if p.pool != nil {
			p.pool.Release()
		}
		p.pool = pool
		return nil
	}
}

// WithLoader sets the document loader.
// Default is a PDFLoader.
func WithLoader(loader Loader) Option {
	return func(p *Pipeline) error {
		if loader == nil {
			return ErrLoaderRequired
		}
		p.loader = loader
		return nil
	}
}

// WithSplitter sets the text splitter.
// Default is a Recursive splitter with 512 code point chunks.
func WithSplitter(splitter *textsplit.Recursive) Option {
	return func(p *Pipeline) error {
		if splitter == nil {
			return ErrSplitterRequired
		}
		p.splitter = splitter
		return nil
	}
}

// WithProgress sets where load progress is written. Nil disables progress output.
// Default is os.Stderr.
func WithProgress(w io.Writer) Option {
	return func(p *Pipeline) error {
		p.progress = w
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(p *Pipeline) error {
		if logger == nil {
			logger = slog.Default()
		}
		p.logger = logger
		return nil
	}
}

// NewPipeline creates a new ingestion pipeline.
func NewPipeline(opts ...Option) (*Pipeline, error) {
	splitter, err := textsplit.NewRecursive()
	if err != nil {
		return nil, err
	}

	poolSize := max(runtime.NumCPU()/2, 1)
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	p := &Pipeline{
		loader:   NewPDFLoader(),
		splitter: splitter,
		pool:     pool,
		progress: os.Stderr,
		logger:   slog.Default().With("component", "ingestion"),
	}

	for _, opt := range opts {
		if optErr := opt(p); optErr != nil {
			p.Release()
			return nil, optErr
		}
	}

	return p, nil
}

// Ingest loads every path (DefaultSources when paths is empty), splits the
// pages and appends all chunks to store in a single AddDocuments call.
// Re-running with the same files appends duplicate records.
func (p *Pipeline) Ingest(ctx context.Context, store vectorstores.VectorStore, paths []string) (*Report, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}
	if len(paths) == 0 {
		paths = DefaultSources
	}

	start := time.Now()
	p.logger.Info("starting ingestion", "files", len(paths))

	docs, err := p.load(ctx, paths)
	if err != nil {
		return nil, err
	}

	chunks, err := p.split(docs)
	if err != nil {
		return nil, err
	}

	report := &Report{
		Files:  len(paths),
		Pages:  len(docs),
		Chunks: len(chunks),
	}

	if len(chunks) == 0 {
		p.logger.Warn("no text found in sources, nothing to store")
		report.Elapsed = time.Since(start)
		return report, nil
	}

	records := make([]schema.Document, len(chunks))
	for i := range chunks {
		records[i] = schema.Document{
			PageContent: chunks[i].Text,
			Metadata:    chunks[i].Metadata(),
		}
	}

	ids, err := store.AddDocuments(ctx, records)
	if err != nil {
		return nil, fmt.Errorf("failed to store chunks: %w", err)
	}

	report.IDs = ids
	report.Elapsed = time.Since(start)

	p.logger.Info("ingestion complete",
		"files", report.Files,
		"pages", report.Pages,
		"chunks", report.Chunks,
		"records", len(report.IDs),
		"elapsed", report.Elapsed)

	return report, nil
}

// load reads all files on the worker pool. The result keeps path order and
// page order within each path.
func (p *Pipeline) load(ctx context.Context, paths []string) ([]core.Document, error) {
	var tracker *ProgressTracker
	if p.progress != nil {
		tracker = NewProgressTracker(p.progress, len(paths), 1, "files")
		tracker.Start()
	}

	results := make([][]core.Document, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := p.pool.Submit(func() {
			defer wg.Done()
			results[i], errs[i] = p.loader.Load(ctx, path)
			if tracker != nil {
				tracker.Increment(1)
			}
		})
		if err != nil {
			wg.Done()
			errs[i] = err
		}
	}
	wg.Wait()

	if tracker != nil {
		tracker.Finish()
	}

	var docs []core.Document
	for i, path := range paths {
		if errs[i] != nil {
			p.logger.Error("failed to load source", "path", path, "err", errs[i])
			return nil, fmt.Errorf("failed to load %s: %w", path, errs[i])
		}
		p.logger.Debug("loaded source", "path", path, "pages", len(results[i]))
		docs = append(docs, results[i]...)
	}
	return docs, nil
}

// split cuts every Document into Chunks.
func (p *Pipeline) split(docs []core.Document) ([]core.Chunk, error) {
	var chunks []core.Chunk
	for i := range docs {
		doc := &docs[i]
		if err := core.ValidateDocument(doc); err != nil {
			return nil, err
		}

		texts, err := p.splitter.SplitText(doc.Text)
		if err != nil {
			return nil, fmt.Errorf("failed to split %s page %d: %w", doc.Source, doc.Page, err)
		}

		for j, text := range texts {
			chunk := core.Chunk{
				Source: doc.Source,
				Page:   doc.Page,
				Index:  j,
				Text:   text,
			}
			if err := core.ValidateChunk(&chunk, p.splitter.ChunkSize()); err != nil {
				return nil, err
			}
			chunks = append(chunks, chunk)
		}
	}
	return chunks, nil
}

// Release releases the worker pool.
// The pipeline should not be used after calling Release.
func (p *Pipeline) Release() {
	if p.pool != nil {
		p.pool.Release()
	}
}
