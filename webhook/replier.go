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

import (
	"context"
	"log/slog"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"
)

// LineReplier sends replies through the LINE Messaging API.
type LineReplier struct {
	api    *messaging_api.MessagingApiAPI
	logger *slog.Logger
}

var _ Replier = (*LineReplier)(nil)

// NewLineReplier creates a replier authenticated with the channel access token.
// An empty endpoint uses the LINE production API.
func NewLineReplier(accessToken, endpoint string) (*LineReplier, error) {
	if accessToken == "" {
		return nil, ErrAccessTokenRequired
	}

	var opts []messaging_api.MessagingApiAPIOption
	if endpoint != "" {
		opts = append(opts, messaging_api.WithEndpoint(endpoint))
	}

	api, err := messaging_api.NewMessagingApiAPI(accessToken, opts...)
	if err != nil {
		return nil, err
	}

	return &LineReplier{
		api:    api,
		logger: slog.Default().With("component", "line-replier"),
	}, nil
}

// Reply sends text as the single reply to replyToken.
func (r *LineReplier) Reply(ctx context.Context, replyToken, text string) error {
	_, err := r.api.WithContext(ctx).ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	if err != nil {
		return err
	}
	r.logger.Debug("sent reply", "length", len(text))
	return nil
}
