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
	"os"

	"github.com/poiesic/manualqa/core"
	"github.com/tmc/langchaingo/documentloaders"
)

// Loader loads the pages of one source file as Documents.
// Implementations must be safe for concurrent use.
type Loader interface {
	Load(ctx context.Context, path string) ([]core.Document, error)
}

// LoaderFunc adapts a function to the Loader interface.
type LoaderFunc func(ctx context.Context, path string) ([]core.Document, error)

// Load calls f.
func (f LoaderFunc) Load(ctx context.Context, path string) ([]core.Document, error) {
	return f(ctx, path)
}

// PDFLoader extracts the text of every page of a PDF file.
type PDFLoader struct{}

// NewPDFLoader creates a PDF loader.
func NewPDFLoader() *PDFLoader {
	return &PDFLoader{}
}

// Load reads the file at path and returns one Document per page, in page order.
func (l *PDFLoader) Load(ctx context.Context, path string) ([]core.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}

	pages, err := documentloaders.NewPDF(f, info.Size()).Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}

	docs := make([]core.Document, len(pages))
	for i, page := range pages {
		index := i
		// The PDF loader numbers pages from 1 and skips empty ones.
		if n, ok := page.Metadata["page"].(int); ok && n > 0 {
			index = n - 1
		}
		docs[i] = core.Document{
			Source: path,
			Page:   index,
			Text:   page.PageContent,
		}
	}
	return docs, nil
}
