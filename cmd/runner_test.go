package main

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/session"
	"github.com/desertthunder/parle/internal/shared"
	tu "github.com/desertthunder/parle/internal/testing"
)

// closeCounter records Close calls.
type closeCounter struct{ n int }

func (c *closeCounter) Close() error { c.n++; return nil }

// writeConfig stores a config file pointing at baseURL and returns its path.
func writeConfig(t *testing.T, baseURL string, extra string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	content := "[api]\nbase_url = \"" + baseURL + "\"\n" + extra
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

// fixture runs app commands against an httptest server.
type fixture struct {
	t        *testing.T
	server   *httptest.Server
	tokens   *tu.TokenStub
	output   *bytes.Buffer
	input    io.Reader
	config   string
	runner   *Runner
	mu       sync.Mutex
	requests []*http.Request
}

func newFixture(t *testing.T, token string, h http.HandlerFunc) *fixture {
	t.Helper()
	f := &fixture{t: t, tokens: tu.NewTokenStub(token), output: &bytes.Buffer{}}
	f.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.Clone(context.Background()))
		f.mu.Unlock()
		if h == nil {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		h(w, r)
	}))
	t.Cleanup(f.server.Close)
	f.config = writeConfig(t, f.server.URL, "")
	return f
}

func (f *fixture) run(args ...string) error {
	f.t.Helper()
	f.runner = NewRunner(RunnerOpts{
		Logger: shared.NewLogger(io.Discard),
		Output: f.output,
		Input:  f.input,
		Tokens: f.tokens,
	})
	app := newApp(f.runner)
	app.Writer = f.output
	app.ErrWriter = io.Discard
	defer f.runner.Close()
	return app.Run(context.Background(), append([]string{"parle", "--config", f.config}, args...))
}

func (f *fixture) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

func TestRunner(t *testing.T) {
	t.Run("NewRunner", func(t *testing.T) {
		t.Run("with all dependencies provided", func(t *testing.T) {
			config := shared.DefaultConfig()
			logger := shared.NewLogger(nil)
			output := &bytes.Buffer{}
			httpClient := &http.Client{}
			tokens := tu.NewTokenStub("")

			runner := NewRunner(RunnerOpts{
				Config:     config,
				Logger:     logger,
				Output:     output,
				HTTPClient: httpClient,
				Tokens:     tokens,
			})

			if runner.config != config {
				t.Error("expected config to be set")
			}
			if runner.logger != logger {
				t.Error("expected logger to be set")
			}
			if runner.output != output {
				t.Error("expected output to be set")
			}
			if runner.httpClient != httpClient {
				t.Error("expected httpClient to be set")
			}
			if runner.tokens != tokens {
				t.Error("expected tokens to be set")
			}
		})

		t.Run("with nil options uses defaults", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{})

			if runner.config == nil {
				t.Error("expected default config to be set")
			}
			if runner.logger == nil {
				t.Error("expected default logger to be set")
			}
			if runner.output != os.Stdout {
				t.Error("expected output to default to os.Stdout")
			}
			if runner.input != os.Stdin {
				t.Error("expected input to default to os.Stdin")
			}
			if runner.painter == nil {
				t.Error("expected default painter")
			}
		})
	})

	t.Run("wire", func(t *testing.T) {
		t.Run("reads the stored token once into the session", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Tokens: tu.NewTokenStub("tok")})
			if err := runner.wire(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !runner.session.IsAuthenticated() {
				t.Error("expected session to start authenticated")
			}
			if runner.navigator.Current().Path != router.HomePath {
				t.Errorf("expected navigator at home, got %s", runner.navigator.Current().Path)
			}
		})

		t.Run("builds a file store from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Session.TokenPath = filepath.Join(t.TempDir(), "token.json")
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})

			if err := runner.wire(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if _, ok := runner.tokens.(*session.FileTokens); !ok {
				t.Errorf("expected *session.FileTokens, got %T", runner.tokens)
			}
		})

		t.Run("builds a sqlite store from config", func(t *testing.T) {
			config := shared.DefaultConfig()
			config.Session.Storage = shared.StorageSQLite
			config.Database.Path = filepath.Join(t.TempDir(), "parle.db")
			runner := NewRunner(RunnerOpts{Config: config, Logger: shared.NewLogger(io.Discard)})

			if err := runner.wire(); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer runner.Close()

			if len(runner.closers) != 1 {
				t.Errorf("expected the database to be tracked for Close, got %d closers", len(runner.closers))
			}
			tu.AssertFileExists(t, config.Database.Path)
		})
	})

	t.Run("Close", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		c := &closeCounter{}
		runner.closers = []io.Closer{c}

		if err := runner.Close(); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if err := runner.Close(); err != nil {
			t.Fatalf("expected no error on second close, got %v", err)
		}
		if c.n != 1 {
			t.Errorf("expected one close, got %d", c.n)
		}
	})

	t.Run("writeJSON", func(t *testing.T) {
		t.Run("writes formatted JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, true); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			result := output.String()
			if !strings.Contains(result, `"key": "value"`) {
				t.Errorf("expected formatted JSON, got %s", result)
			}
			if !strings.HasSuffix(result, "\n") {
				t.Error("expected output to end with newline")
			}
		})

		t.Run("writes compact JSON successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeJSON(map[string]string{"key": "value"}, false); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}

			expected := `{"key":"value"}` + "\n"
			if output.String() != expected {
				t.Errorf("expected %q, got %q", expected, output.String())
			}
		})

		t.Run("handles marshal error with non-serializable data", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &bytes.Buffer{}})

			err := runner.writeJSON(make(chan int), false)
			if err == nil || !strings.Contains(err.Error(), "failed to marshal JSON") {
				t.Errorf("expected marshal error, got %v", err)
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})

		t.Run("handles newline write failure", func(t *testing.T) {
			limitedWriter := tu.NewLimitedWriter(1, 0, &bytes.Buffer{})
			runner := NewRunner(RunnerOpts{Output: &limitedWriter})

			err := runner.writeJSON(map[string]string{"key": "value"}, false)
			if err == nil || !strings.Contains(err.Error(), "failed to write newline") {
				t.Errorf("expected newline write error, got %v", err)
			}
		})
	})

	t.Run("writeRaw", func(t *testing.T) {
		t.Run("indents JSON payloads", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeRaw([]byte(`{"score":0.9}`)); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !strings.Contains(output.String(), `"score": 0.9`) {
				t.Errorf("expected indented JSON, got %q", output.String())
			}
		})

		t.Run("prints other bodies as-is", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writeRaw([]byte("ok")); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "ok\n" {
				t.Errorf("expected raw body, got %q", output.String())
			}
		})
	})

	t.Run("writePlain", func(t *testing.T) {
		t.Run("writes plain text successfully", func(t *testing.T) {
			output := &bytes.Buffer{}
			runner := NewRunner(RunnerOpts{Output: output})

			if err := runner.writePlain("hello %s", "world"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if output.String() != "hello world" {
				t.Errorf("expected 'hello world', got %q", output.String())
			}
		})

		t.Run("handles write failure", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Output: &tu.FWriter{}})

			err := runner.writePlain("test")
			if err == nil || !strings.Contains(err.Error(), "failed to write output") {
				t.Errorf("expected write error, got %v", err)
			}
		})
	})

	t.Run("register", func(t *testing.T) {
		runner := NewRunner(RunnerOpts{})
		commands := runner.register()

		if len(commands) == 0 {
			t.Error("expected at least one command to be registered")
		}

		names := map[string]bool{}
		for i, cmd := range commands {
			if cmd == nil {
				t.Errorf("command at index %d is nil", i)
				continue
			}
			names[cmd.Name] = true
		}
		for _, want := range []string{"setup", "auth", "routes", "open", "flashcards", "recordings", "journal", "schedule", "progress", "practice", "api"} {
			if !names[want] {
				t.Errorf("expected %q command", want)
			}
		}
	})

	t.Run("Init", func(t *testing.T) {
		t.Run("fails when an explicit config is missing", func(t *testing.T) {
			runner := NewRunner(RunnerOpts{Logger: shared.NewLogger(io.Discard), Output: &bytes.Buffer{}})
			app := newApp(runner)
			app.ErrWriter = io.Discard

			err := app.Run(context.Background(), []string{"parle", "--config", filepath.Join(t.TempDir(), "nope.toml"), "routes"})
			if !errors.Is(err, shared.ErrMissingConfig) {
				t.Errorf("expected ErrMissingConfig, got %v", err)
			}
		})

		t.Run("environment overrides the configured API URL", func(t *testing.T) {
			t.Setenv(shared.APIURLEnv, "http://override.test")
			f := newFixture(t, "", nil)

			if err := f.run("routes"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if f.runner.api.BaseURL() != "http://override.test" {
				t.Errorf("expected env override, got %s", f.runner.api.BaseURL())
			}
		})

		t.Run("rejects an invalid config", func(t *testing.T) {
			f := newFixture(t, "", nil)
			f.config = writeConfig(t, f.server.URL, "[session]\nstorage = \"redis\"\n")

			if err := f.run("routes"); !errors.Is(err, shared.ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	})
}
