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

package pinecone

import (
	"testing"

	"github.com/pinecone-io/go-pinecone/pinecone"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewProvider(t *testing.T) {
	t.Run("missing key", func(t *testing.T) {
		_, err := NewProvider("")
		assert.ErrorIs(t, err, ErrMissingAPIKey)
	})

	t.Run("with namespace", func(t *testing.T) {
		p, err := NewProvider("pc-test", WithNamespace("manuals"))
		require.NoError(t, err)
		defer p.Close()

		assert.Equal(t, "manuals", p.(*Provider).namespace)
	})
}

func TestDescribe(t *testing.T) {
	idx := &pinecone.Index{
		Name:      "manuals",
		Dimension: 1536,
		Metric:    pinecone.Cosine,
		Host:      "manuals-abc.svc.pinecone.io",
		Status:    &pinecone.IndexStatus{Ready: true},
	}

	desc := describe(idx)

	assert.Equal(t, "manuals", desc.Name)
	assert.Equal(t, 1536, desc.Dimension)
	assert.Equal(t, vectorstore.MetricCosine, desc.Metric)
	assert.Equal(t, "manuals-abc.svc.pinecone.io", desc.Host)
	assert.True(t, desc.Ready)
}

func TestDescribe_NoStatus(t *testing.T) {
	desc := describe(&pinecone.Index{Name: "manuals"})
	assert.False(t, desc.Ready)
}
