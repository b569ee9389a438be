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

// Package manualqa answers questions about product manuals.
//
// NewApp is the composition root: it builds the AI provider and the vector
// store, connects to the manual index and hands out the ingestion pipeline,
// the answer composer and the LINE webhook server.
package manualqa

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/ai/openai"
	"github.com/poiesic/manualqa/ingestion"
	"github.com/poiesic/manualqa/rag"
	"github.com/poiesic/manualqa/server"
	"github.com/poiesic/manualqa/vectorstore"
	"github.com/poiesic/manualqa/vectorstore/badger"
	"github.com/poiesic/manualqa/vectorstore/pinecone"
	"github.com/poiesic/manualqa/webhook"
	"github.com/tmc/langchaingo/vectorstores"
)

// Vector store kinds.
const (
	StorePinecone = "pinecone"
	StoreBadger   = "badger"
)

// Defaults applied by NewApp.
const (
	DefaultIndex      = "manuals"
	DefaultBadgerPath = "./manuals_db"
)

// App holds the long-lived client handles shared by ingestion, querying and
// the webhook server. Handles are read-only after NewApp returns.
type App struct {
	provider ai.Provider
	vectors  vectorstore.Provider
	store    vectorstores.VectorStore
	options  *appOptions
	logger   *slog.Logger
}

// AppOption configures an App.
type AppOption func(*appOptions) error

type appOptions struct {
	aiConfig   *ai.Config
	aiProvider ai.Provider

	vectors        vectorstore.Provider
	storeKind      string
	pineconeAPIKey string
	badgerPath     string
	index          string

	topK int

	channelSecret      string
	channelAccessToken string
	lineEndpoint       string
	port               int

	logger *slog.Logger
}

// WithAIConfig sets the configuration of the OpenAI provider.
func WithAIConfig(config *ai.Config) AppOption {
	return func(o *appOptions) error {
		o.aiConfig = config
		return nil
	}
}

// WithAIProvider supplies a ready AI provider instead of building an OpenAI one.
// The App takes ownership and closes it.
func WithAIProvider(provider ai.Provider) AppOption {
	return func(o *appOptions) error {
		o.aiProvider = provider
		return nil
	}
}

// WithPinecone selects the Pinecone store authenticated with apiKey.
func WithPinecone(apiKey string) AppOption {
	return func(o *appOptions) error {
		o.storeKind = StorePinecone
		o.pineconeAPIKey = apiKey
		return nil
	}
}

// WithBadger selects the local BadgerDB store at path.
func WithBadger(path string) AppOption {
	return func(o *appOptions) error {
		o.storeKind = StoreBadger
		if path != "" {
			o.badgerPath = path
		}
		return nil
	}
}

// WithStore selects the store by kind name, as given on the command line.
func WithStore(kind, pineconeAPIKey, badgerPath string) AppOption {
	return func(o *appOptions) error {
		switch kind {
		case StorePinecone:
			return WithPinecone(pineconeAPIKey)(o)
		case StoreBadger:
			return WithBadger(badgerPath)(o)
		default:
			return fmt.Errorf("%w: %q", ErrUnknownStore, kind)
		}
	}
}

// WithVectorProvider supplies a ready vector store provider.
// The App takes ownership and closes it.
func WithVectorProvider(provider vectorstore.Provider) AppOption {
	return func(o *appOptions) error {
		o.vectors = provider
		return nil
	}
}

// WithIndex sets the index name.
// Default is DefaultIndex.
func WithIndex(name string) AppOption {
	return func(o *appOptions) error {
		if name != "" {
			o.index = name
		}
		return nil
	}
}

// WithTopK sets how many chunks are retrieved per question.
// Default is rag.DefaultTopK.
func WithTopK(k int) AppOption {
	return func(o *appOptions) error {
		if k < 1 {
			return fmt.Errorf("%w: %d", ErrInvalidTopK, k)
		}
		o.topK = k
		return nil
	}
}

// WithLine sets the LINE channel credentials used by the webhook server.
func WithLine(channelSecret, channelAccessToken string) AppOption {
	return func(o *appOptions) error {
		o.channelSecret = channelSecret
		o.channelAccessToken = channelAccessToken
		return nil
	}
}

// WithLineEndpoint overrides the LINE Messaging API endpoint.
func WithLineEndpoint(endpoint string) AppOption {
	return func(o *appOptions) error {
		o.lineEndpoint = endpoint
		return nil
	}
}

// WithPort sets the webhook server listen port.
// Default is server.DefaultPort.
func WithPort(port int) AppOption {
	return func(o *appOptions) error {
		o.port = port
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) AppOption {
	return func(o *appOptions) error {
		if logger != nil {
			o.logger = logger
		}
		return nil
	}
}

// NewApp builds the AI provider and the vector store provider, then connects
// to the index, creating it and waiting for readiness when it does not exist.
func NewApp(ctx context.Context, opts ...AppOption) (*App, error) {
	options := &appOptions{
		storeKind:  StorePinecone,
		badgerPath: DefaultBadgerPath,
		index:      DefaultIndex,
		topK:       rag.DefaultTopK,
		port:       server.DefaultPort,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		if err := opt(options); err != nil {
			return nil, err
		}
	}

	provider := options.aiProvider
	if provider == nil {
		config := options.aiConfig
		if config == nil {
			config = ai.DefaultConfig()
		}
		var err error
		provider, err = openai.NewProvider(config)
		if err != nil {
			return nil, err
		}
	}

	vectors := options.vectors
	if vectors == nil {
		var err error
		vectors, err = openVectors(options)
		if err != nil {
			provider.Close()
			return nil, err
		}
	}

	connector, err := vectorstore.NewConnector(vectors, provider.Embedder(),
		vectorstore.WithLogger(options.logger.With("component", "connector")))
	if err != nil {
		vectors.Close()
		provider.Close()
		return nil, err
	}

	spec := vectorstore.DefaultIndexSpec(options.index)
	spec.Dimension = provider.Config().Dimensions

	store, err := connector.Connect(ctx, spec)
	if err != nil {
		vectors.Close()
		provider.Close()
		return nil, err
	}

	return &App{
		provider: provider,
		vectors:  vectors,
		store:    store,
		options:  options,
		logger:   options.logger,
	}, nil
}

func openVectors(options *appOptions) (vectorstore.Provider, error) {
	switch options.storeKind {
	case StorePinecone:
		return pinecone.NewProvider(options.pineconeAPIKey)
	case StoreBadger:
		return badger.NewProvider(options.badgerPath)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownStore, options.storeKind)
	}
}

// Close releases the AI provider and the vector store provider.
func (a *App) Close() error {
	if err := a.provider.Close(); err != nil {
		a.logger.Error("error closing AI provider", "err", err)
	}
	if err := a.vectors.Close(); err != nil {
		a.logger.Error("error closing vector store", "err", err)
		return err
	}
	return nil
}

// Store returns the connected vector store.
func (a *App) Store() vectorstores.VectorStore {
	return a.store
}

// Ingest runs the ingestion pipeline over paths (ingestion.DefaultSources when empty).
func (a *App) Ingest(ctx context.Context, paths []string, opts ...ingestion.Option) (*ingestion.Report, error) {
	opts = append([]ingestion.Option{ingestion.WithLogger(a.logger.With("component", "ingestion"))}, opts...)
	pipeline, err := ingestion.NewPipeline(opts...)
	if err != nil {
		return nil, err
	}
	defer pipeline.Release()

	return pipeline.Ingest(ctx, a.store, paths)
}

// NewComposer creates an answer composer over the connected store using the
// configured model, temperature and top-k.
func (a *App) NewComposer(opts ...rag.Option) (*rag.Composer, error) {
	base := []rag.Option{
		rag.WithTopK(a.options.topK),
		rag.WithTemperature(a.provider.Config().Temperature),
		rag.WithLogger(a.logger.With("component", "rag")),
	}
	return rag.NewComposer(a.provider.Model(), a.store, append(base, opts...)...)
}

// Ask answers a single question.
func (a *App) Ask(ctx context.Context, question string) (string, error) {
	composer, err := a.NewComposer()
	if err != nil {
		return "", err
	}
	return composer.Answer(ctx, question)
}

// NewServer wires the composer, the LINE replier and the webhook dispatcher
// into an HTTP server.
func (a *App) NewServer() (*server.Server, error) {
	composer, err := a.NewComposer()
	if err != nil {
		return nil, err
	}

	replier, err := webhook.NewLineReplier(a.options.channelAccessToken, a.options.lineEndpoint)
	if err != nil {
		return nil, err
	}

	metrics := server.NewMetrics(server.DefaultNamespace)
	dispatcher, err := webhook.NewDispatcher(a.options.channelSecret, composer, replier,
		webhook.WithMonitor(metrics),
		webhook.WithLogger(a.logger.With("component", "webhook")))
	if err != nil {
		return nil, err
	}

	return server.New(dispatcher,
		server.WithPort(a.options.port),
		server.WithMetrics(metrics),
		server.WithLogger(a.logger.With("component", "server")))
}

// Serve runs the webhook server until ctx is cancelled.
func (a *App) Serve(ctx context.Context) error {
	srv, err := a.NewServer()
	if err != nil {
		return err
	}
	return srv.Run(ctx)
}
