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

package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/poiesic/manualqa"
	"github.com/poiesic/manualqa/ai"
	"github.com/poiesic/manualqa/ingestion"
	"github.com/poiesic/manualqa/rag"
	"github.com/poiesic/manualqa/server"
	"github.com/urfave/cli/v2"
)

func main() {
	_ = godotenv.Load()

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "manualqa",
		Usage: "Answer questions about product manuals over LINE",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Load PDF manuals, split them into chunks and store their embeddings",
				ArgsUsage: "[file.pdf ...]",
				Action:    ingestCommand,
				Flags: append(storeFlags(),
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of files loaded concurrently (0 uses half the CPUs)",
					},
				),
			},
			{
				Name:   "serve",
				Usage:  "Run the LINE webhook server",
				Action: serveCommand,
				Flags: append(append(storeFlags(), queryFlags()...),
					&cli.StringFlag{
						Name:     "channel-access-token",
						Usage:    "LINE channel access token",
						EnvVars:  []string{"CHANNEL_ACCESS_TOKEN"},
						Required: true,
					},
					&cli.StringFlag{
						Name:     "channel-secret",
						Usage:    "LINE channel secret",
						EnvVars:  []string{"CHANNEL_SECRET"},
						Required: true,
					},
					&cli.IntFlag{
						Name:    "port",
						Usage:   "HTTP listen port",
						EnvVars: []string{"PORT"},
						Value:   server.DefaultPort,
					},
				),
			},
			{
				Name:      "ask",
				Usage:     "Answer one question from the console",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     append(storeFlags(), queryFlags()...),
			},
		},
	}
}

// storeFlags configure the embedding client and the vector store.
func storeFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "openai-api-key",
			Usage:    "OpenAI API key",
			EnvVars:  []string{"OPENAI_API_KEY"},
			Required: true,
		},
		&cli.StringFlag{
			Name:    "openai-base-url",
			Usage:   "OpenAI-compatible API base URL",
			EnvVars: []string{"OPENAI_BASE_URL"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			EnvVars: []string{"OPENAI_EMBEDDING_MODEL"},
			Value:   "text-embedding-ada-002",
		},
		&cli.IntFlag{
			Name:  "batch-size",
			Usage: "Number of texts per embedding request",
			Value: 100,
		},
		&cli.IntFlag{
			Name:  "max-retries",
			Usage: "Maximum attempts for a failed embedding request",
			Value: 3,
		},
		&cli.DurationFlag{
			Name:  "retry-delay",
			Usage: "Base delay for exponential backoff",
			Value: 1 * time.Second,
		},
		&cli.StringFlag{
			Name:    "store",
			Usage:   "Vector store (pinecone, badger)",
			EnvVars: []string{"VECTOR_STORE"},
			Value:   manualqa.StorePinecone,
		},
		&cli.StringFlag{
			Name:    "pinecone-api-key",
			Usage:   "Pinecone API key (required for the pinecone store)",
			EnvVars: []string{"PINECONE_API_KEY"},
		},
		&cli.StringFlag{
			Name:    "badger-path",
			Usage:   "Path to BadgerDB database directory (badger store)",
			EnvVars: []string{"BADGER_PATH"},
			Value:   manualqa.DefaultBadgerPath,
		},
		&cli.StringFlag{
			Name:    "index",
			Usage:   "Vector index name",
			EnvVars: []string{"PINECONE_INDEX"},
			Value:   manualqa.DefaultIndex,
		},
	}
}

// queryFlags configure answer composition.
func queryFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "model",
			Usage:    "Chat completion model name",
			EnvVars:  []string{"OPENAI_API_MODEL"},
			Required: true,
		},
		&cli.Float64Flag{
			Name:     "temperature",
			Usage:    "Sampling temperature (0-2)",
			EnvVars:  []string{"OPENAI_API_TEMPERATURE"},
			Required: true,
		},
		&cli.IntFlag{
			Name:    "top-k",
			Usage:   "Number of chunks retrieved per question",
			EnvVars: []string{"RETRIEVER_TOP_K"},
			Value:   rag.DefaultTopK,
		},
	}
}

// appOptions translates the shared flags into manualqa options.
func appOptions(c *cli.Context) []manualqa.AppOption {
	config := ai.NewConfig(
		ai.WithAPIKey(c.String("openai-api-key")),
		ai.WithBaseURL(c.String("openai-base-url")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithEmbedBatchSize(c.Int("batch-size")),
		ai.WithEmbedRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		ai.WithModel(c.String("model")),
		ai.WithTemperature(c.Float64("temperature")),
	)

	opts := []manualqa.AppOption{
		manualqa.WithAIConfig(config),
		manualqa.WithStore(c.String("store"), c.String("pinecone-api-key"), c.String("badger-path")),
		manualqa.WithIndex(c.String("index")),
	}
	if c.IsSet("top-k") {
		opts = append(opts, manualqa.WithTopK(c.Int("top-k")))
	}
	return opts
}

func ingestCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := manualqa.NewApp(ctx, appOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer app.Close()

	opts := []ingestion.Option{ingestion.WithProgress(os.Stderr)}
	if size := c.Int("pool-size"); size > 0 {
		opts = append(opts, ingestion.WithPoolSize(size))
	}

	report, err := app.Ingest(ctx, c.Args().Slice(), opts...)
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Ingested %d files: %d pages, %d chunks in %v\n",
		report.Files, report.Pages, report.Chunks, report.Elapsed.Round(time.Millisecond))
	return nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opts := append(appOptions(c),
		manualqa.WithLine(c.String("channel-secret"), c.String("channel-access-token")),
		manualqa.WithPort(c.Int("port")),
	)

	app, err := manualqa.NewApp(ctx, opts...)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer app.Close()

	return app.Serve(ctx)
}

func askCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return errors.New("question is required")
	}

	ctx := context.Background()
	app, err := manualqa.NewApp(ctx, appOptions(c)...)
	if err != nil {
		return fmt.Errorf("failed to open vector store: %w", err)
	}
	defer app.Close()

	answer, err := app.Ask(ctx, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
