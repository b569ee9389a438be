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

// Package server exposes the webhook over HTTP with gin.
//
// Routes:
//
//   - GET / answers "Hello world!" for health checks
//   - POST /callback passes the raw body and X-Line-Signature header to a
//     WebhookHandler; an invalid signature maps to 400, any other error to
//     500 and success to 200 "OK"
//   - GET /metrics serves Prometheus metrics from a private registry
//
// # Usage
//
//	metrics := server.NewMetrics(server.DefaultNamespace)
//	dispatcher, _ := webhook.NewDispatcher(secret, composer, replier, webhook.WithMonitor(metrics))
//	srv, _ := server.New(dispatcher, server.WithPort(8000), server.WithMetrics(metrics))
//	err := srv.Run(ctx)
package server
