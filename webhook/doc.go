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

// Package webhook handles inbound LINE webhook requests.
//
// A request moves through verification, dispatch and reply:
//
//   - the X-Line-Signature header is checked against the channel secret;
//     a missing or wrong signature yields ErrInvalidSignature and no reply
//   - the body is decoded into Follow, TextMessage and Other events
//   - each event is handled in order: Follow gets Greeting, TextMessage gets
//     an answer from the Answerer (or Fallback when answering fails), and
//     Other is ignored
//   - every handled event gets exactly one reply addressed by its reply token
//
// Decode and reply failures are returned to the caller; replies already sent
// for earlier events in the same request stay sent.
package webhook
