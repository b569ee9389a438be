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

package webhook

import "errors"

var (
	// ErrInvalidSignature indicates a missing or mismatched request signature.
	ErrInvalidSignature = errors.New("invalid signature")

	// ErrDecode indicates the request body could not be decoded into events.
	ErrDecode = errors.New("failed to decode events")

	// ErrReply indicates the messaging platform rejected a reply.
	ErrReply = errors.New("failed to send reply")

	// ErrSecretRequired is returned when no channel secret is configured.
	ErrSecretRequired = errors.New("channel secret required")

	// ErrAnswererRequired is returned when no answerer is configured.
	ErrAnswererRequired = errors.New("answerer required")

	// ErrAccessTokenRequired is returned when no channel access token is configured.
	ErrAccessTokenRequired = errors.New("channel access token required")

	// ErrReplierRequired is returned when no replier is configured.
	ErrReplierRequired = errors.New("replier required")
)
