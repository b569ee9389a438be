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
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/poiesic/manualqa/webhook"
)

const (
	// DefaultPort is the listen port when none is configured.
	DefaultPort = 8000

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	readHeaderTimeout = 10 * time.Second
	signatureHeader   = "X-Line-Signature"
)

// WebhookHandler verifies and dispatches one webhook request.
type WebhookHandler interface {
	Handle(ctx context.Context, signature string, body []byte) error
}

// Server serves the webhook, health and metrics endpoints.
type Server struct {
	handler WebhookHandler
	metrics *Metrics
	router  *gin.Engine
	port    int
	logger  *slog.Logger
}

// Option configures a Server.
type Option func(*Server) error

// WithPort sets the listen port.
// Default is DefaultPort.
func WithPort(port int) Option {
	return func(s *Server) error {
		if port < 1 || port > 65535 {
			return fmt.Errorf("%w: %d", ErrInvalidPort, port)
		}
		s.port = port
		return nil
	}
}

// WithMetrics sets the metrics exposed on /metrics.
// Default is a fresh Metrics with DefaultNamespace.
func WithMetrics(m *Metrics) Option {
	return func(s *Server) error {
		if m != nil {
			s.metrics = m
		}
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) error {
		if logger == nil {
			logger = slog.Default()
		}
		s.logger = logger
		return nil
	}
}

// New creates a Server dispatching /callback requests to handler.
// Gin runs in release mode unless GIN_MODE says otherwise.
func New(handler WebhookHandler, opts ...Option) (*Server, error) {
	if handler == nil {
		return nil, ErrHandlerRequired
	}

	s := &Server{
		handler: handler,
		port:    DefaultPort,
		logger:  slog.Default().With("component", "server"),
	}
	for _, opt := range opts {
		if err := opt(s); err != nil {
			return nil, err
		}
	}
	if s.metrics == nil {
		s.metrics = NewMetrics(DefaultNamespace)
	}

	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}
	s.router = gin.New()
	s.router.Use(recovery(s.logger), requestID(), requestLogger(s.logger), s.metrics.Middleware())

	s.router.GET("/", s.health)
	s.router.POST("/callback", s.callback)
	s.router.GET("/metrics", s.metrics.Handler())

	return s, nil
}

// Handler returns the HTTP handler serving all routes.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Run serves until ctx is cancelled, then shuts down gracefully within
// ShutdownTimeout.
func (s *Server) Run(ctx context.Context) error {
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "port", s.port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return <-errCh
}

func (s *Server) health(c *gin.Context) {
	c.String(http.StatusOK, "Hello world!")
}

func (s *Server) callback(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		s.logger.Error("failed to read request body", "err", err)
		c.AbortWithStatus(http.StatusInternalServerError)
		return
	}

	err = s.handler.Handle(c.Request.Context(), c.GetHeader(signatureHeader), body)
	switch {
	case err == nil:
		c.String(http.StatusOK, "OK")
	case errors.Is(err, webhook.ErrInvalidSignature):
		c.AbortWithStatus(http.StatusBadRequest)
	default:
		c.AbortWithStatus(http.StatusInternalServerError)
	}
}
