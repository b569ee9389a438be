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
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/manualqa"
	"github.com/poiesic/manualqa/vectorstore/pinecone"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

var boundEnv = []string{
	"PINECONE_API_KEY", "OPENAI_API_KEY", "OPENAI_API_MODEL", "OPENAI_API_TEMPERATURE",
	"CHANNEL_ACCESS_TOKEN", "CHANNEL_SECRET", "OPENAI_EMBEDDING_MODEL", "OPENAI_BASE_URL",
	"VECTOR_STORE", "BADGER_PATH", "PINECONE_INDEX", "RETRIEVER_TOP_K", "PORT", "LOG_LEVEL",
}

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findFlag[T cli.Flag](t *testing.T, cmd *cli.Command, name string) T {
	t.Helper()
	for _, flag := range cmd.Flags {
		if f, ok := flag.(T); ok && flag.Names()[0] == name {
			return f
		}
	}
	t.Fatalf("flag %q not found on %s", name, cmd.Name)
	var zero T
	return zero
}

func TestRequiredFlags(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		missing string
	}{
		{
			name:    "ingest needs openai key",
			args:    []string{"manualqa", "ingest"},
			missing: "openai-api-key",
		},
		{
			name:    "ask needs model",
			args:    []string{"manualqa", "ask", "--openai-api-key", "sk", "--temperature", "0", "hello"},
			missing: "model",
		},
		{
			name:    "ask needs temperature",
			args:    []string{"manualqa", "ask", "--openai-api-key", "sk", "--model", "gpt-4o-mini", "hello"},
			missing: "temperature",
		},
		{
			name: "serve needs channel secret",
			args: []string{"manualqa", "serve", "--openai-api-key", "sk", "--model", "gpt-4o-mini",
				"--temperature", "0", "--channel-access-token", "token"},
			missing: "channel-secret",
		},
		{
			name: "serve needs channel access token",
			args: []string{"manualqa", "serve", "--openai-api-key", "sk", "--model", "gpt-4o-mini",
				"--temperature", "0", "--channel-secret", "secret"},
			missing: "channel-access-token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := newApp().Run(tt.args)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.missing)
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	app := newApp()
	serve := findCommand(t, app, "serve")

	t.Run("embedding-model defaults to ada-002", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, serve, "embedding-model")
		assert.Equal(t, "text-embedding-ada-002", f.Value)
		assert.Equal(t, []string{"OPENAI_EMBEDDING_MODEL"}, f.EnvVars)
	})

	t.Run("store defaults to pinecone", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, serve, "store")
		assert.Equal(t, manualqa.StorePinecone, f.Value)
	})

	t.Run("index defaults to manuals", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, serve, "index")
		assert.Equal(t, "manuals", f.Value)
		assert.Equal(t, []string{"PINECONE_INDEX"}, f.EnvVars)
	})

	t.Run("port defaults to 8000", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](t, serve, "port")
		assert.Equal(t, 8000, f.Value)
		assert.Equal(t, []string{"PORT"}, f.EnvVars)
	})

	t.Run("top-k defaults to 4", func(t *testing.T) {
		f := findFlag[*cli.IntFlag](t, serve, "top-k")
		assert.Equal(t, 4, f.Value)
	})

	t.Run("model has no default", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, serve, "model")
		assert.Empty(t, f.Value)
		assert.True(t, f.Required)
		assert.Equal(t, []string{"OPENAI_API_MODEL"}, f.EnvVars)
	})

	t.Run("pinecone key is optional", func(t *testing.T) {
		f := findFlag[*cli.StringFlag](t, serve, "pinecone-api-key")
		assert.False(t, f.Required)
	})
}

func TestFlagsFromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_API_MODEL", "gpt-4o-mini")
	t.Setenv("OPENAI_API_TEMPERATURE", "0.5")

	err := newApp().Run([]string{"manualqa", "ask"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "question is required")
}

func TestIngestCommand_MissingPineconeKey(t *testing.T) {
	err := newApp().Run([]string{"manualqa", "ingest", "--openai-api-key", "sk", "manual.pdf"})
	require.Error(t, err)
	assert.ErrorIs(t, err, pinecone.ErrMissingAPIKey)
}

func TestIngestCommand_UnknownStore(t *testing.T) {
	err := newApp().Run([]string{"manualqa", "ingest", "--openai-api-key", "sk", "--store", "qdrant"})
	require.Error(t, err)
	assert.ErrorIs(t, err, manualqa.ErrUnknownStore)
}

func TestIngestCommand_MissingFile(t *testing.T) {
	dbPath := filepath.Join(t.TempDir(), "manuals_db")

	err := newApp().Run([]string{"manualqa", "ingest",
		"--openai-api-key", "sk",
		"--store", "badger",
		"--badger-path", dbPath,
		filepath.Join(t.TempDir(), "missing.pdf"),
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "ingestion failed")
}

func TestSetupLogger(t *testing.T) {
	newLoggerApp := func(action cli.ActionFunc) *cli.App {
		return &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{
					Name:    "log-level",
					Aliases: []string{"l"},
					Value:   "info",
				},
			},
			Before: setupLogger,
			Action: action,
		}
	}
	noop := func(*cli.Context) error { return nil }

	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				err := newLoggerApp(noop).Run([]string{"test", "--log-level", level})
				require.NoError(t, err)
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		err := newLoggerApp(noop).Run([]string{"test", "--log-level", "verbose"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		err := newLoggerApp(func(c *cli.Context) error {
			assert.Equal(t, "debug", c.String("log-level"))
			return nil
		}).Run([]string{"test", "-l", "debug"})
		require.NoError(t, err)
	})
}

func TestMain(m *testing.M) {
	for _, name := range boundEnv {
		os.Unsetenv(name)
	}
	code := m.Run()
	os.Exit(code)
}
