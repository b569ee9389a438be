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

package server

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/manualqa/webhook"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// DefaultNamespace prefixes every exported metric name.
const DefaultNamespace = "manualqa"

// Metrics holds the Prometheus collectors for HTTP traffic and webhook dispatch.
// It implements webhook.Monitor.
type Metrics struct {
	registry *prometheus.Registry

	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec

	signatureRejected prometheus.Counter
	eventsTotal       *prometheus.CounterVec
	answersTotal      *prometheus.CounterVec
	repliesTotal      *prometheus.CounterVec
}

var _ webhook.Monitor = (*Metrics)(nil)

// NewMetrics creates a Metrics with its own registry, including the Go and
// process collectors.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = DefaultNamespace
	}

	m := &Metrics{registry: prometheus.NewRegistry()}

	m.requestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)
	m.requestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)
	m.signatureRejected = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_signature_rejected_total",
			Help:      "Webhook requests rejected for a missing or invalid signature",
		},
	)
	m.eventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "webhook_events_total",
			Help:      "Webhook events dispatched, by kind",
		},
		[]string{"kind"},
	)
	m.answersTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "answers_total",
			Help:      "Answers composed, by result",
		},
		[]string{"result"},
	)
	m.repliesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "replies_total",
			Help:      "Replies sent, by event kind and result",
		},
		[]string{"kind", "result"},
	)

	m.registry.MustRegister(
		m.requestsTotal,
		m.requestDuration,
		m.signatureRejected,
		m.eventsTotal,
		m.answersTotal,
		m.repliesTotal,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return m
}

// Registry returns the registry the collectors are registered with.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Middleware records request counts and latencies per route.
func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.FullPath()
		if path == "" {
			path = "unmatched"
		}

		c.Next()

		m.requestsTotal.WithLabelValues(c.Request.Method, path, strconv.Itoa(c.Writer.Status())).Inc()
		m.requestDuration.WithLabelValues(c.Request.Method, path).Observe(time.Since(start).Seconds())
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() gin.HandlerFunc {
	return gin.WrapH(promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
}

func (m *Metrics) SignatureRejected() { m.signatureRejected.Inc() }

func (m *Metrics) EventDispatched(kind string) { m.eventsTotal.WithLabelValues(kind).Inc() }

func (m *Metrics) AnswerComposed() { m.answersTotal.WithLabelValues("ok").Inc() }

func (m *Metrics) AnswerFailed() { m.answersTotal.WithLabelValues("fallback").Inc() }

func (m *Metrics) ReplySent(kind string) { m.repliesTotal.WithLabelValues(kind, "ok").Inc() }

func (m *Metrics) ReplyFailed(kind string) { m.repliesTotal.WithLabelValues(kind, "error").Inc() }
