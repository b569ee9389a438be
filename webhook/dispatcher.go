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
	"fmt"
	"log/slog"

	linewebhook "github.com/line/line-bot-sdk-go/v8/linebot/webhook"
)

const (
	// Greeting is the reply to a follow event.
	Greeting = "Thank You!"

	// Fallback is the reply when an answer could not be composed.
	Fallback = "申し訳ありません。エラーが発生しました。"
)

// Answerer composes an answer to a user utterance.
type Answerer interface {
	Answer(ctx context.Context, utterance string) (string, error)
}

// Replier sends a single text reply addressed by a reply token.
type Replier interface {
	Reply(ctx context.Context, replyToken, text string) error
}

// Dispatcher verifies webhook requests and replies to each event they carry.
type Dispatcher struct {
	secret   string
	answerer Answerer
	replier  Replier
	monitor  Monitor
	logger   *slog.Logger
}

// Option configures a Dispatcher.
type Option func(*Dispatcher) error

// WithMonitor sets the dispatch monitor.
// Default is a no-op monitor.
func WithMonitor(m Monitor) Option {
	return func(d *Dispatcher) error {
		if m == nil {
			m = &noopMonitor{}
		}
		d.monitor = m
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(d *Dispatcher) error {
		if logger == nil {
			logger = slog.Default()
		}
		d.logger = logger
		return nil
	}
}

// NewDispatcher creates a Dispatcher verifying requests with the channel secret.
func NewDispatcher(secret string, answerer Answerer, replier Replier, opts ...Option) (*Dispatcher, error) {
	if secret == "" {
		return nil, ErrSecretRequired
	}
	if answerer == nil {
		return nil, ErrAnswererRequired
	}
	if replier == nil {
		return nil, ErrReplierRequired
	}

	d := &Dispatcher{
		secret:   secret,
		answerer: answerer,
		replier:  replier,
		monitor:  &noopMonitor{},
		logger:   slog.Default().With("component", "webhook"),
	}
	for _, opt := range opts {
		if err := opt(d); err != nil {
			return nil, err
		}
	}
	return d, nil
}

// Handle verifies the signature of body and dispatches its events in order.
// Returns ErrInvalidSignature without replying when verification fails.
// Replies already sent are not undone when a later event fails.
func (d *Dispatcher) Handle(ctx context.Context, signature string, body []byte) error {
	d.logger.Info("received webhook", "body", string(body))

	if err := d.Verify(signature, body); err != nil {
		d.monitor.SignatureRejected()
		d.logger.Info("invalid signature, check the channel access token and secret")
		return err
	}

	return d.Dispatch(ctx, body)
}

// Verify checks the HMAC-SHA256 signature of body against the channel secret.
// A missing signature is invalid.
func (d *Dispatcher) Verify(signature string, body []byte) error {
	if signature == "" || !linewebhook.ValidateSignature(d.secret, signature, body) {
		return ErrInvalidSignature
	}
	return nil
}

// Dispatch decodes body and handles each event sequentially.
func (d *Dispatcher) Dispatch(ctx context.Context, body []byte) error {
	events, err := Decode(body)
	if err != nil {
		d.logger.Error("failed to decode webhook body", "err", err)
		return err
	}

	for _, ev := range events {
		d.monitor.EventDispatched(ev.Kind())
		if err := d.handle(ctx, ev); err != nil {
			d.logger.Error("failed to handle event", "kind", ev.Kind(), "err", err)
			return err
		}
	}
	return nil
}

func (d *Dispatcher) handle(ctx context.Context, ev Event) error {
	switch e := ev.(type) {
	case Follow:
		return d.reply(ctx, e.Kind(), e.ReplyToken, Greeting)

	case TextMessage:
		answer, err := d.answerer.Answer(ctx, e.Text)
		if err != nil {
			d.monitor.AnswerFailed()
			d.logger.Error("failed to compose answer", "err", err)
			answer = Fallback
		} else {
			d.monitor.AnswerComposed()
		}
		return d.reply(ctx, e.Kind(), e.ReplyToken, answer)

	default:
		d.logger.Debug("ignoring event", "kind", ev.Kind())
		return nil
	}
}

func (d *Dispatcher) reply(ctx context.Context, kind, token, text string) error {
	if err := d.replier.Reply(ctx, token, text); err != nil {
		d.monitor.ReplyFailed(kind)
		return fmt.Errorf("%w: %w", ErrReply, err)
	}
	d.monitor.ReplySent(kind)
	return nil
}
