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
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "channel-secret"

const (
	followBody = `{"destination":"Ubot","events":[{"type":"follow","mode":"active","timestamp":1700000000000,` +
		`"source":{"type":"user","userId":"U1"},"webhookEventId":"01H0","deliveryContext":{"isRedelivery":false},` +
		`"replyToken":"token-follow"}]}`

	textBody = `{"destination":"Ubot","events":[{"type":"message","mode":"active","timestamp":1700000000000,` +
		`"source":{"type":"user","userId":"U1"},"webhookEventId":"01H1","deliveryContext":{"isRedelivery":false},` +
		`"replyToken":"token-text","message":{"type":"text","id":"100","quoteToken":"q1","text":"フィルターの掃除方法は？"}}]}`

	imageBody = `{"destination":"Ubot","events":[{"type":"message","mode":"active","timestamp":1700000000000,` +
		`"source":{"type":"user","userId":"U1"},"webhookEventId":"01H2","deliveryContext":{"isRedelivery":false},` +
		`"replyToken":"token-image","message":{"type":"image","id":"101","quoteToken":"q2","contentProvider":{"type":"line"}}}]}`

	unfollowBody = `{"destination":"Ubot","events":[{"type":"unfollow","mode":"active","timestamp":1700000000000,` +
		`"source":{"type":"user","userId":"U1"},"webhookEventId":"01H3","deliveryContext":{"isRedelivery":false}}]}`

	mixedBody = `{"destination":"Ubot","events":[` +
		`{"type":"follow","mode":"active","timestamp":1700000000000,"source":{"type":"user","userId":"U1"},` +
		`"webhookEventId":"01H4","deliveryContext":{"isRedelivery":false},"replyToken":"token-a"},` +
		`{"type":"unfollow","mode":"active","timestamp":1700000000001,"source":{"type":"user","userId":"U2"},` +
		`"webhookEventId":"01H5","deliveryContext":{"isRedelivery":false}},` +
		`{"type":"message","mode":"active","timestamp":1700000000002,"source":{"type":"user","userId":"U3"},` +
		`"webhookEventId":"01H6","deliveryContext":{"isRedelivery":false},"replyToken":"token-b",` +
		`"message":{"type":"text","id":"102","quoteToken":"q3","text":"hello"}}]}`

	emptyBody = `{"destination":"Ubot","events":[]}`
)

func sign(secret, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(body))
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

type fakeAnswerer struct {
	mu      sync.Mutex
	answer  string
	err     error
	queries []string
}

func (a *fakeAnswerer) Answer(_ context.Context, utterance string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.queries = append(a.queries, utterance)
	if a.err != nil {
		return "", a.err
	}
	return a.answer, nil
}

type sentReply struct {
	token string
	text  string
}

type fakeReplier struct {
	mu      sync.Mutex
	replies []sentReply
	err     error
}

func (r *fakeReplier) Reply(_ context.Context, token, text string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	r.replies = append(r.replies, sentReply{token: token, text: text})
	return nil
}

type countingMonitor struct {
	mu       sync.Mutex
	rejected int
	kinds    []string
	composed int
	failed   int
	sent     int
	replyErr int
}

func (m *countingMonitor) SignatureRejected() { m.mu.Lock(); m.rejected++; m.mu.Unlock() }
func (m *countingMonitor) EventDispatched(kind string) {
	m.mu.Lock()
	m.kinds = append(m.kinds, kind)
	m.mu.Unlock()
}
func (m *countingMonitor) AnswerComposed()    { m.mu.Lock(); m.composed++; m.mu.Unlock() }
func (m *countingMonitor) AnswerFailed()      { m.mu.Lock(); m.failed++; m.mu.Unlock() }
func (m *countingMonitor) ReplySent(string)   { m.mu.Lock(); m.sent++; m.mu.Unlock() }
func (m *countingMonitor) ReplyFailed(string) { m.mu.Lock(); m.replyErr++; m.mu.Unlock() }

func setupDispatcher(t *testing.T) (*Dispatcher, *fakeAnswerer, *fakeReplier, *countingMonitor) {
	t.Helper()
	answerer := &fakeAnswerer{answer: "Rinse the filter under running water."}
	replier := &fakeReplier{}
	monitor := &countingMonitor{}
	d, err := NewDispatcher(testSecret, answerer, replier, WithMonitor(monitor))
	require.NoError(t, err)
	return d, answerer, replier, monitor
}

func TestNewDispatcher_RequiresDependencies(t *testing.T) {
	_, err := NewDispatcher("", &fakeAnswerer{}, &fakeReplier{})
	assert.ErrorIs(t, err, ErrSecretRequired)

	_, err = NewDispatcher(testSecret, nil, &fakeReplier{})
	assert.ErrorIs(t, err, ErrAnswererRequired)

	_, err = NewDispatcher(testSecret, &fakeAnswerer{}, nil)
	assert.ErrorIs(t, err, ErrReplierRequired)
}

func TestHandle_Follow(t *testing.T) {
	d, answerer, replier, monitor := setupDispatcher(t)

	err := d.Handle(context.Background(), sign(testSecret, followBody), []byte(followBody))
	require.NoError(t, err)

	require.Len(t, replier.replies, 1)
	assert.Equal(t, sentReply{token: "token-follow", text: Greeting}, replier.replies[0])
	assert.Empty(t, answerer.queries)
	assert.Equal(t, []string{"follow"}, monitor.kinds)
}

func TestHandle_TextMessage(t *testing.T) {
	d, answerer, replier, monitor := setupDispatcher(t)

	err := d.Handle(context.Background(), sign(testSecret, textBody), []byte(textBody))
	require.NoError(t, err)

	assert.Equal(t, []string{"フィルターの掃除方法は？"}, answerer.queries)
	require.Len(t, replier.replies, 1)
	assert.Equal(t, "token-text", replier.replies[0].token)
	assert.Equal(t, "Rinse the filter under running water.", replier.replies[0].text)
	assert.Equal(t, 1, monitor.composed)
	assert.Equal(t, 1, monitor.sent)
}

func TestHandle_AnswerFailureRepliesFallback(t *testing.T) {
	d, answerer, replier, monitor := setupDispatcher(t)
	answerer.err = errors.New("completion service unavailable")

	err := d.Handle(context.Background(), sign(testSecret, textBody), []byte(textBody))
	require.NoError(t, err)

	require.Len(t, replier.replies, 1)
	assert.Equal(t, Fallback, replier.replies[0].text)
	assert.Equal(t, 1, monitor.failed)
}

func TestHandle_IgnoredEvents(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind string
	}{
		{name: "image message", body: imageBody, kind: "message"},
		{name: "unfollow", body: unfollowBody, kind: "unfollow"},
		{name: "no events", body: emptyBody},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, answerer, replier, monitor := setupDispatcher(t)

			err := d.Handle(context.Background(), sign(testSecret, tt.body), []byte(tt.body))
			require.NoError(t, err)

			assert.Empty(t, replier.replies)
			assert.Empty(t, answerer.queries)
			if tt.kind != "" {
				assert.Equal(t, []string{tt.kind}, monitor.kinds)
			}
		})
	}
}

func TestHandle_MixedEventsInOrder(t *testing.T) {
	d, _, replier, monitor := setupDispatcher(t)

	err := d.Handle(context.Background(), sign(testSecret, mixedBody), []byte(mixedBody))
	require.NoError(t, err)

	require.Len(t, replier.replies, 2)
	assert.Equal(t, sentReply{token: "token-a", text: Greeting}, replier.replies[0])
	assert.Equal(t, "token-b", replier.replies[1].token)
	assert.Equal(t, []string{"follow", "unfollow", "text"}, monitor.kinds)
}

func TestHandle_InvalidSignature(t *testing.T) {
	tests := []struct {
		name      string
		signature string
	}{
		{name: "missing", signature: ""},
		{name: "wrong secret", signature: sign("other-secret", textBody)},
		{name: "garbage", signature: "not-base64!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, answerer, replier, monitor := setupDispatcher(t)

			err := d.Handle(context.Background(), tt.signature, []byte(textBody))
			assert.ErrorIs(t, err, ErrInvalidSignature)

			assert.Empty(t, replier.replies)
			assert.Empty(t, answerer.queries)
			assert.Equal(t, 1, monitor.rejected)
		})
	}
}

func TestHandle_TamperedBody(t *testing.T) {
	d, _, replier, _ := setupDispatcher(t)

	signature := sign(testSecret, followBody)
	err := d.Handle(context.Background(), signature, []byte(textBody))

	assert.ErrorIs(t, err, ErrInvalidSignature)
	assert.Empty(t, replier.replies)
}

func TestHandle_MalformedBody(t *testing.T) {
	d, _, replier, _ := setupDispatcher(t)

	body := `{"events": [`
	err := d.Handle(context.Background(), sign(testSecret, body), []byte(body))

	assert.ErrorIs(t, err, ErrDecode)
	assert.Empty(t, replier.replies)
}

func TestHandle_ReplyFailure(t *testing.T) {
	d, _, replier, monitor := setupDispatcher(t)
	replier.err = errors.New("invalid reply token")

	err := d.Handle(context.Background(), sign(testSecret, followBody), []byte(followBody))

	assert.ErrorIs(t, err, ErrReply)
	assert.Equal(t, 1, monitor.replyErr)
}

func TestDecode(t *testing.T) {
	events, err := Decode([]byte(mixedBody))
	require.NoError(t, err)

	require.Len(t, events, 3)
	assert.Equal(t, Follow{ReplyToken: "token-a"}, events[0])
	assert.Equal(t, Other{Type: "unfollow"}, events[1])
	assert.Equal(t, TextMessage{ReplyToken: "token-b", Text: "hello"}, events[2])
}
