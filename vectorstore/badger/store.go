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

package badger

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"slices"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/manualqa/core"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/schema"
	"github.com/tmc/langchaingo/vectorstores"
)

// record is the stored form of a vector record.
type record struct {
	ID       core.ID        `json:"id"`
	Text     string         `json:"text"`
	Metadata map[string]any `json:"metadata,omitempty"`
	Vector   []float32      `json:"vector"`
}

// Store is a vectorstores.VectorStore over one local index.
// Similarity search is an exhaustive scan over unit vectors.
type Store struct {
	backend   *Backend
	name      string
	dimension int
	embedder  embeddings.Embedder
	seq       *badger.Sequence
	logger    *slog.Logger
}

var _ vectorstores.VectorStore = (*Store)(nil)

// AddDocuments embeds the documents and appends them as new records.
// Returns the assigned record IDs in input order.
func (s *Store) AddDocuments(ctx context.Context, docs []schema.Document, options ...vectorstores.Option) ([]string, error) {
	opts := s.getOptions(options...)
	embedder, err := s.resolveEmbedder(opts)
	if err != nil {
		return nil, err
	}

	if opts.Deduplicater != nil {
		docs = slices.DeleteFunc(slices.Clone(docs), func(doc schema.Document) bool {
			return opts.Deduplicater(ctx, doc)
		})
	}
	if len(docs) == 0 {
		return nil, nil
	}

	texts := make([]string, len(docs))
	for i, doc := range docs {
		texts[i] = doc.PageContent
	}

	vectors, err := embedder.EmbedDocuments(ctx, texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(docs) {
		return nil, fmt.Errorf("embedding count mismatch: expected %d, got %d", len(docs), len(vectors))
	}

	ids := make([]string, len(docs))
	err = s.backend.WithBatch(func(wb *badger.WriteBatch) error {
		for i, doc := range docs {
			if len(vectors[i]) != s.dimension {
				return fmt.Errorf("%w: expected %d, got %d", vectorstore.ErrDimensionMismatch, s.dimension, len(vectors[i]))
			}

			id, err := s.nextID()
			if err != nil {
				return err
			}

			value, err := json.Marshal(record{
				ID:       id,
				Text:     doc.PageContent,
				Metadata: doc.Metadata,
				Vector:   NormalizeVector(vectors[i]),
			})
			if err != nil {
				return err
			}
			if err := wb.Set(makeRecordKey(s.name, id), value); err != nil {
				return err
			}
			ids[i] = id.String()
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("added records", "count", len(ids))
	return ids, nil
}

// SimilaritySearch returns up to numDocuments records most similar to query,
// highest score first. Scores are cosine similarities.
func (s *Store) SimilaritySearch(ctx context.Context, query string, numDocuments int, options ...vectorstores.Option) ([]schema.Document, error) {
	opts := s.getOptions(options...)
	embedder, err := s.resolveEmbedder(opts)
	if err != nil {
		return nil, err
	}
	if numDocuments <= 0 {
		return nil, nil
	}

	vector, err := embedder.EmbedQuery(ctx, query)
	if err != nil {
		return nil, err
	}
	if len(vector) != s.dimension {
		return nil, fmt.Errorf("%w: expected %d, got %d", vectorstore.ErrDimensionMismatch, s.dimension, len(vector))
	}
	vector = NormalizeVector(vector)

	var results []schema.Document
	err = s.backend.WithTx(func(tx *badger.Txn) error {
		iterOpts := badger.DefaultIteratorOptions
		iterOpts.Prefix = makeRecordPrefix(s.name)
		iter := tx.NewIterator(iterOpts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}

			var rec record
			if err := iter.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &rec)
			}); err != nil {
				return err
			}

			score := dotProduct(vector, rec.Vector)
			if opts.ScoreThreshold > 0 && score < opts.ScoreThreshold {
				continue
			}
			results = append(results, schema.Document{
				PageContent: rec.Text,
				Metadata:    rec.Metadata,
				Score:       score,
			})
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	slices.SortStableFunc(results, func(a, b schema.Document) int {
		switch {
		case a.Score > b.Score:
			return -1
		case a.Score < b.Score:
			return 1
		}
		return 0
	})

	if len(results) > numDocuments {
		results = results[:numDocuments]
	}
	return results, nil
}

// Count returns the number of records in the index.
func (s *Store) Count(_ context.Context) (int, error) {
	count := 0
	err := s.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = makeRecordPrefix(s.name)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			count++
		}
		return nil
	}, false)
	return count, err
}

// nextID returns the next record ID, skipping the 0 a fresh sequence hands out first.
func (s *Store) nextID() (core.ID, error) {
	id, err := s.seq.Next()
	if err != nil {
		return 0, err
	}
	if id == 0 {
		id, err = s.seq.Next()
		if err != nil {
			return 0, err
		}
	}
	return core.ID(id), nil
}

func (s *Store) getOptions(options ...vectorstores.Option) vectorstores.Options {
	opts := vectorstores.Options{}
	for _, opt := range options {
		opt(&opts)
	}
	return opts
}

func (s *Store) resolveEmbedder(opts vectorstores.Options) (embeddings.Embedder, error) {
	if opts.Embedder != nil {
		return opts.Embedder, nil
	}
	if s.embedder == nil {
		return nil, vectorstore.ErrNoEmbedder
	}
	return s.embedder, nil
}
