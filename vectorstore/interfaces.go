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

package vectorstore

import (
	"context"
	"fmt"

	"github.com/poiesic/manualqa/core"
	"github.com/tmc/langchaingo/embeddings"
	"github.com/tmc/langchaingo/vectorstores"
)

// Metric is the similarity function an index ranks by.
type Metric string

// MetricCosine ranks by cosine similarity.
const MetricCosine Metric = "cosine"

// IndexSpec describes the index to ensure.
type IndexSpec struct {
	Name      string
	Dimension int
	Metric    Metric
	Cloud     string
	Region    string
}

// DefaultIndexSpec returns the spec of the manual index: 1536 dimensions,
// cosine metric, serverless on aws us-east-1.
func DefaultIndexSpec(name string) IndexSpec {
	return IndexSpec{
		Name:      name,
		Dimension: core.Dimensions,
		Metric:    MetricCosine,
		Cloud:     "aws",
		Region:    "us-east-1",
	}
}

// Validate checks the spec is usable for creating an index.
func (s IndexSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("%w: name is required", ErrInvalidIndexSpec)
	}
	if s.Dimension <= 0 {
		return fmt.Errorf("%w: dimension must be positive", ErrInvalidIndexSpec)
	}
	if s.Metric == "" {
		return fmt.Errorf("%w: metric is required", ErrInvalidIndexSpec)
	}
	return nil
}

// IndexDescription is what a provider reports about an existing index.
type IndexDescription struct {
	Name      string
	Dimension int
	Metric    Metric
	Ready     bool

	// Host is the data plane address, empty for embedded providers.
	Host string
}

// Provider is the control and data plane of a vector index service.
type Provider interface {
	// ListIndexes returns the names of all existing indexes.
	ListIndexes(ctx context.Context) ([]string, error)

	// CreateIndex starts creating an index. It may return before the index is ready.
	CreateIndex(ctx context.Context, spec IndexSpec) error

	// DescribeIndex reports the state of the named index.
	// Returns ErrIndexNotFound if the index does not exist.
	DescribeIndex(ctx context.Context, name string) (*IndexDescription, error)

	// Open returns a store bound to a ready index that embeds with embedder.
	Open(ctx context.Context, desc *IndexDescription, embedder embeddings.Embedder) (vectorstores.VectorStore, error)

	// Close releases resources held by the provider.
	Close() error
}
