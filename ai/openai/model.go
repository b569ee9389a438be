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

package openai

import (
	"context"
	"log/slog"
	"time"

	"github.com/tmc/langchaingo/llms"
)

// Model adds logging around a langchaingo chat model.
type Model struct {
	llm    llms.Model
	name   string
	logger *slog.Logger
}

var _ llms.Model = (*Model)(nil)

func newModel(llm llms.Model, name string) *Model {
	return &Model{
		llm:    llm,
		name:   name,
		logger: slog.Default().With("component", "openai-model"),
	}
}

// GenerateContent sends the messages to the chat model.
func (m *Model) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	start := time.Now()
	m.logger.Debug("generating content", "model", m.name, "messages", len(messages))

	resp, err := m.llm.GenerateContent(ctx, messages, options...)
	if err != nil {
		m.logger.Error("failed to generate content", "model", m.name, "err", err)
		return nil, err
	}

	if len(resp.Choices) == 0 {
		m.logger.Warn("no choices returned from model", "model", m.name)
	}
	m.logger.Debug("generated content", "model", m.name, "choices", len(resp.Choices), "elapsed", time.Since(start))

	return resp, nil
}

// Call generates a completion for a single text prompt.
func (m *Model) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}
