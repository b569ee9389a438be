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
	"encoding/json"
	"fmt"

	linewebhook "github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

// Event is an inbound chat event: Follow, TextMessage or Other.
type Event interface {
	// Kind names the event for logs and metrics.
	Kind() string
	isEvent()
}

// Follow is sent when a user adds the bot as a friend.
type Follow struct {
	ReplyToken string
}

// TextMessage carries a user utterance.
type TextMessage struct {
	ReplyToken string
	Text       string
}

// Other is any event without a handler: non-text messages, unfollows, postbacks and so on.
type Other struct {
	Type string
}

func (Follow) Kind() string      { return "follow" }
func (TextMessage) Kind() string { return "text" }
func (o Other) Kind() string     { return o.Type }

func (Follow) isEvent()      {}
func (TextMessage) isEvent() {}
func (Other) isEvent()       {}

// Decode parses a webhook request body into events, in delivery order.
func Decode(body []byte) ([]Event, error) {
	var req linewebhook.CallbackRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDecode, err)
	}

	events := make([]Event, 0, len(req.Events))
	for _, ev := range req.Events {
		events = append(events, convert(ev))
	}
	return events, nil
}

func convert(ev linewebhook.EventInterface) Event {
	switch e := ev.(type) {
	case linewebhook.FollowEvent:
		return Follow{ReplyToken: e.ReplyToken}
	case linewebhook.MessageEvent:
		if msg, ok := e.Message.(linewebhook.TextMessageContent); ok {
			return TextMessage{ReplyToken: e.ReplyToken, Text: msg.Text}
		}
		return Other{Type: "message"}
	default:
		return Other{Type: ev.GetType()}
	}
}
