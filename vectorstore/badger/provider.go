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
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
)

// indexMeta is the stored description of an index.
type indexMeta struct {
	Name      string    `json:"name"`
	Dimension int       `json:"dimension"`
	Metric    string    `json:"metric"`
	CreatedAt time.Time `json:"created_at"`
}

// Provider implements vectorstore.Provider on an embedded BadgerDB.
// Indexes are ready as soon as they are created.
type Provider struct {
	backend *Backend
	logger  *slog.Logger

	mu   sync.Mutex
	seqs map[string]*badger.Sequence
}

var _ vectorstore.Provider = (*Provider)(nil)

// NewProvider opens (or creates) a BadgerDB database at path.
//
// Returns vectorstore.Provider interface to enforce abstraction.
func NewProvider(path string) (vectorstore.Provider, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newProvider(backend), nil
}

func newProvider(backend *Backend) *Provider {
	return &Provider{
		backend: backend,
		logger:  slog.Default().With("component", "badger-provider"),
		seqs:    make(map[string]*badger.Sequence),
	}
}

// ListIndexes returns the names of all indexes in the database.
func (p *Provider) ListIndexes(_ context.Context) ([]string, error) {
	var names []string
	err := p.backend.WithTx(func(tx *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(indexPrefix)
		iter := tx.NewIterator(opts)
		defer iter.Close()

		for iter.Rewind(); iter.Valid(); iter.Next() {
			names = append(names, strings.TrimPrefix(string(iter.Item().Key()), indexPrefix))
		}
		return nil
	}, false)
	return names, err
}

// CreateIndex records the index metadata.
func (p *Provider) CreateIndex(_ context.Context, spec vectorstore.IndexSpec) error {
	if err := spec.Validate(); err != nil {
		return err
	}
	if strings.Contains(spec.Name, ":") {
		return fmt.Errorf("%w: name must not contain ':'", vectorstore.ErrInvalidIndexSpec)
	}

	value, err := json.Marshal(indexMeta{
		Name:      spec.Name,
		Dimension: spec.Dimension,
		Metric:    string(spec.Metric),
		CreatedAt: time.Now().UTC(),
	})
	if err != nil {
		return err
	}

	return p.backend.WithTx(func(tx *badger.Txn) error {
		key := makeIndexKey(spec.Name)
		if _, err := tx.Get(key); err == nil {
			return fmt.Errorf("%w: %s", vectorstore.ErrIndexExists, spec.Name)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return err
		}
		if err := tx.Set(key, value); err != nil {
			return err
		}
		p.logger.Debug("created index", "name", spec.Name, "dimension", spec.Dimension)
		return tx.Commit()
	}, true)
}

// DescribeIndex reads the index metadata. Local indexes are always ready.
func (p *Provider) DescribeIndex(_ context.Context, name string) (*vectorstore.IndexDescription, error) {
	var meta indexMeta
	err := p.backend.WithTx(func(tx *badger.Txn) error {
		item, err := tx.Get(makeIndexKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("%w: %s", vectorstore.ErrIndexNotFound, name)
		}
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &meta)
		})
	}, false)
	if err != nil {
		return nil, err
	}

	return &vectorstore.IndexDescription{
		Name:      meta.Name,
		Dimension: meta.Dimension,
		Metric:    vectorstore.Metric(meta.Metric),
		Ready:     true,
	}, nil
}

// Open returns a Store on the described index.
func (p *Provider) Open(_ context.Context, desc *vectorstore.IndexDescription, embedder embeddings.Embedder) (vectorstores.VectorStore, error) {
	return p.open(desc, embedder)
}

func (p *Provider) open(desc *vectorstore.IndexDescription, embedder embeddings.Embedder) (*Store, error) {
	if p.backend.IsClosed() {
		return nil, vectorstore.ErrStoreClosed
	}

	seq, err := p.sequence(desc.Name)
	if err != nil {
		return nil, err
	}

	return &Store{
		backend:   p.backend,
		name:      desc.Name,
		dimension: desc.Dimension,
		embedder:  embedder,
		seq:       seq,
		logger:    slog.Default().With("component", "badger-store", "index", desc.Name),
	}, nil
}

// sequence returns the shared ID sequence of an index.
func (p *Provider) sequence(name string) (*badger.Sequence, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if seq, ok := p.seqs[name]; ok {
		return seq, nil
	}
	seq, err := p.backend.GetSequence(makeSeqKey(name))
	if err != nil {
		return nil, err
	}
	p.seqs[name] = seq
	return seq, nil
}

// Close releases the ID sequences and closes the database.
func (p *Provider) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	var errs []error
	for name, seq := range p.seqs {
		if err := seq.Release(); err != nil {
			errs = append(errs, fmt.Errorf("release sequence %s: %w", name, err))
		}
	}
	p.seqs = map[string]*badger.Sequence{}

	if !p.backend.IsClosed() {
		if err := p.backend.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
