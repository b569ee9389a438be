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

package rag

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/tmc/langchaingo/chains"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/prompts"
	"github.com/tmc/langchaingo/vectorstores"
)

// DefaultTopK is the number of chunks retrieved per question.
const DefaultTopK = 4

// Composer answers questions from the manual index: it retrieves the most
// similar chunks, stuffs them into a grounding prompt and asks the chat model.
// It does not recover from errors; callers decide on a fallback.
type Composer struct {
	chain       chains.Chain
	topK        int
	temperature float64
	prompt      string
	logger      *slog.Logger
}

// Option configures a Composer.
type Option func(*Composer) error

// WithTopK sets how many chunks are retrieved per question.
// Default is DefaultTopK.
func WithTopK(k int) Option {
	return func(c *Composer) error {
		if k < 1 {
			return fmt.Errorf("top-k must be at least 1, got %d", k)
		}
		c.topK = k
		return nil
	}
}

// WithTemperature sets the sampling temperature of completions.
func WithTemperature(t float64) Option {
	return func(c *Composer) error {
		c.temperature = t
		return nil
	}
}

// WithPrompt replaces the grounding prompt. The template must use the
// {{.context}} and {{.question}} variables.
func WithPrompt(template string) Option {
	return func(c *Composer) error {
		if !strings.Contains(template, "{{.context}}") || !strings.Contains(template, "{{.question}}") {
			return errors.New("prompt must reference {{.context}} and {{.question}}")
		}
		c.prompt = template
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(c *Composer) error {
		if logger == nil {
			logger = slog.Default()
		}
		c.logger = logger
		return nil
	}
}

// NewComposer creates a Composer over model and store.
func NewComposer(model llms.Model, store vectorstores.VectorStore, opts ...Option) (*Composer, error) {
	if model == nil {
		return nil, ErrModelRequired
	}
	if store == nil {
		return nil, ErrStoreRequired
	}

	c := &Composer{
		topK:   DefaultTopK,
		prompt: defaultPromptTemplate,
		logger: slog.Default().With("component", "rag"),
	}

	for _, opt := range opts {
		if err := opt(c); err != nil {
			return nil, err
		}
	}

	llmChain := chains.NewLLMChain(model, prompts.NewPromptTemplate(c.prompt, []string{"context", "question"}))
	c.chain = chains.NewRetrievalQA(
		chains.NewStuffDocuments(llmChain),
		vectorstores.ToRetriever(store, c.topK),
	)

	return c, nil
}

// Answer returns the model's answer to utterance, grounded in the retrieved chunks.
func (c *Composer) Answer(ctx context.Context, utterance string) (string, error) {
	if strings.TrimSpace(utterance) == "" {
		return "", ErrEmptyUtterance
	}

	start := time.Now()
	c.logger.Debug("composing answer", "length", len(utterance), "top_k", c.topK)

	answer, err := chains.Run(ctx, c.chain, utterance, chains.WithTemperature(c.temperature))
	if err != nil {
		return "", err
	}

	answer = strings.TrimSpace(answer)
	c.logger.Debug("composed answer", "length", len(answer), "elapsed", time.Since(start))
	return answer, nil
}
