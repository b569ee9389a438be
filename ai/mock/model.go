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

package mock

import (
	"context"
	"sync"

	"github.com/tmc/langchaingo/llms"
)

var _ llms.Model = (*MockModel)(nil)

// MockModel is a test double for llms.Model.
// By default it answers every request with Response and records the prompt text.
type MockModel struct {
	// GenerateContentFunc is called by GenerateContent if set.
	GenerateContentFunc func(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error)

	// Response is the default answer.
	Response string

	mu      sync.Mutex
	prompts []string
}

// NewMockModel creates a mock model answering with response.
func NewMockModel(response string) *MockModel {
	return &MockModel{Response: response}
}

// GenerateContent records the text parts of the messages and returns the scripted answer.
func (m *MockModel) GenerateContent(ctx context.Context, messages []llms.MessageContent, options ...llms.CallOption) (*llms.ContentResponse, error) {
	m.record(messages)

	if m.GenerateContentFunc != nil {
		return m.GenerateContentFunc(ctx, messages, options...)
	}

	return &llms.ContentResponse{
		Choices: []*llms.ContentChoice{{Content: m.Response}},
	}, nil
}

// Call generates a completion for a single text prompt.
func (m *MockModel) Call(ctx context.Context, prompt string, options ...llms.CallOption) (string, error) {
	return llms.GenerateFromSinglePrompt(ctx, m, prompt, options...)
}

// Prompts returns the text of every request received, in order.
func (m *MockModel) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// CallCount returns the number of requests received.
func (m *MockModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.prompts)
}

// Reset clears recorded prompts and injected behavior.
func (m *MockModel) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prompts = nil
	m.GenerateContentFunc = nil
}

func (m *MockModel) record(messages []llms.MessageContent) {
	var text string
	for _, msg := range messages {
		for _, part := range msg.Parts {
			if tc, ok := part.(llms.TextContent); ok {
				text += tc.Text
			}
		}
	}

	m.mu.Lock()
	m.prompts = append(m.prompts, text)
	m.mu.Unlock()
}
