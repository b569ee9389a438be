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

// Package rag composes grounded answers to user questions.
//
// A Composer is a langchaingo RetrievalQA chain: the question is embedded and
// matched against the manual index, the top-k chunk texts are stuffed into a
// grounding prompt, and the chat model writes the answer. Errors from
// retrieval or completion are returned unchanged so the caller can substitute
// its own fallback message.
//
// # Usage
//
//	composer, err := rag.NewComposer(provider.Model(), store,
//	    rag.WithTemperature(0.2),
//	)
//	answer, err := composer.Answer(ctx, "フィルターの掃除方法は？")
package rag
