package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/parle/internal/repositories"
	"github.com/desertthunder/parle/internal/router"
	"github.com/desertthunder/parle/internal/services"
	"github.com/desertthunder/parle/internal/session"
	"github.com/desertthunder/parle/internal/shared"
	"github.com/desertthunder/parle/internal/ui"
	"github.com/urfave/cli/v3"
)

// Runner holds all dependencies for CLI commands and provides methods for each command action.
type Runner struct {
	config     *shared.Config
	httpClient *http.Client
	logger     *log.Logger
	output     io.Writer
	input      io.Reader
	lines      *bufio.Reader
	painter    ui.Painter

	tokens    session.TokenStore
	api       *services.APIService
	client    *services.Client
	session   *session.Store
	navigator *router.Navigator
	closers   []io.Closer
}

// RunnerOpts contains configuration options for creating a Runner.
type RunnerOpts struct {
	Config     *shared.Config
	HTTPClient *http.Client
	Logger     *log.Logger
	Output     io.Writer
	Input      io.Reader
	Painter    ui.Painter
	Tokens     session.TokenStore // nil builds the store named by session.storage
}

// NewRunner creates a new Runner with the provided configuration
func NewRunner(opts RunnerOpts) *Runner {
	if opts.Config == nil {
		opts.Config = shared.DefaultConfig()
	}
	if opts.Logger == nil {
		opts.Logger = shared.NewLogger(nil)
	}
	if opts.Output == nil {
		opts.Output = os.Stdout
	}
	if opts.Input == nil {
		opts.Input = os.Stdin
	}
	if opts.Painter == nil {
		opts.Painter = ui.Styles
	}

	return &Runner{
		config:     opts.Config,
		httpClient: opts.HTTPClient,
		logger:     opts.Logger,
		output:     opts.Output,
		input:      opts.Input,
		painter:    opts.Painter,
		tokens:     opts.Tokens,
	}
}

func (r *Runner) register() []*cli.Command {
	commands := []*cli.Command{}
	for _, fn := range [](func(*Runner) *cli.Command){
		setupCommand, authCommand, routesCommand, openCommand,
		flashcardsCommand, recordingsCommand, journalCommand, scheduleCommand, progressCommand,
		practiceCommand, apiCommand,
	} {
		commands = append(commands, fn(r))
	}

	return commands
}

// Init loads the configuration named by --config and wires the session. It runs before every command.
//
// A missing file falls back to defaults unless --config was given explicitly.
func (r *Runner) Init(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	path := cmd.String("config")
	if _, err := os.Stat(path); err == nil {
		config, err := shared.LoadConfig(path)
		if err != nil {
			return ctx, err
		}
		r.config = config
	} else if cmd.IsSet("config") {
		return ctx, fmt.Errorf("%w: %s", shared.ErrMissingConfig, path)
	}
	r.config.ApplyEnv()

	if cmd.Bool("debug") {
		shared.SetLogLevel(r.logger, log.DebugLevel)
	} else if err := shared.SetLogLevelName(r.logger, r.config.Log.Level); err != nil {
		return ctx, err
	}

	return ctx, r.wire()
}

// wire builds the token store, API client, session and navigator from the current config.
//
// The session reads the persisted token here, once per process.
func (r *Runner) wire() error {
	if r.tokens == nil {
		tokens, err := r.openTokens()
		if err != nil {
			return err
		}
		r.tokens = tokens
	}

	r.api = services.NewAPIService(services.APIOpts{
		BaseURL:    r.config.API.BaseURL,
		HTTPClient: r.httpClient,
		Timeout:    r.config.API.Timeout(),
		Tokens:     r.tokens,
		RateLimit:  r.config.API.RateLimit,
		Logger:     shared.WithLogger(r.logger, "component", "api"),
	})
	r.client = services.NewClient(r.api)
	r.session = session.New(r.client.Auth, r.tokens, shared.WithLogger(r.logger, "component", "session"))
	r.navigator = router.NewNavigator(router.NewTable(), r.session, r.logger)
	r.api.OnUnauthorized(r.onUnauthorized)

	r.logger.Debug("session initialized", "api", r.api.BaseURL(), "authenticated", r.session.IsAuthenticated())
	return nil
}

func (r *Runner) openTokens() (session.TokenStore, error) {
	switch r.config.Session.Storage {
	case shared.StorageSQLite:
		db, err := repositories.Open(r.config.Database.Path, r.config.Database.MaxOpenConns, r.config.Database.MaxIdleConns)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", shared.ErrTokenStore, err)
		}
		r.closers = append(r.closers, db)
		return repositories.NewCredentialRepository(db, r.config.Session.TokenKey), nil
	default:
		return session.NewFileTokens(r.config.Session.TokenPath, r.config.Session.TokenKey)
	}
}

// onUnauthorized ends the session and sends the user back to the login screen.
func (r *Runner) onUnauthorized(ctx context.Context, err *services.APIError) {
	r.logger.Warn("session rejected by the server, please log in again", "path", err.Path)
	r.session.HandleUnauthorized(ctx, err)
	r.navigator.ForceLogin()
}

// Close releases resources opened by [Runner.Init].
func (r *Runner) Close() error {
	var errs []error
	for _, c := range r.closers {
		errs = append(errs, c.Close())
	}
	r.closers = nil
	return errors.Join(errs...)
}

// enter navigates to the screen behind a command group. An anonymous user is redirected to
// login by the route guard, which fails the command before any request is sent.
func (r *Runner) enter(path string) error {
	m, err := r.navigator.Navigate(path)
	if err != nil {
		return err
	}
	if m.Path == router.LoginPath && m.RedirectedFrom != "" {
		return fmt.Errorf("%w: run `parle auth login` first", shared.ErrNotAuthenticated)
	}
	return nil
}

func (r *Runner) writeJSON(data any, pretty bool) error {
	var output []byte
	var err error

	if pretty {
		output, err = json.MarshalIndent(data, "", "  ")
	} else {
		output, err = json.Marshal(data)
	}

	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if _, err := r.output.Write(output); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	if _, err := r.output.Write([]byte("\n")); err != nil {
		return fmt.Errorf("failed to write newline: %w", err)
	}

	return nil
}

// writeRaw prints an opaque JSON payload indented, or as-is when it is not valid JSON.
func (r *Runner) writeRaw(data []byte) error {
	var v any
	if err := json.Unmarshal(data, &v); err != nil {
		return r.writePlain("%s\n", data)
	}
	return r.writeJSON(v, true)
}

func (r *Runner) writePlain(format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	if _, err := r.output.Write([]byte(text)); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

func (r *Runner) writeTable(headers []string, rows [][]string, aligns []columnAlignment) error {
	if len(rows) == 0 {
		return r.writePlain("%s\n", r.painter.Help("nothing to show"))
	}
	return r.writePlain("%s\n", renderTable(headers, rows, aligns))
}

// requires guards a command group behind the client route at path.
func (r *Runner) requires(path string) cli.BeforeFunc {
	return func(ctx context.Context, cmd *cli.Command) (context.Context, error) {
		return ctx, r.enter(path)
	}
}

func requireArg(cmd *cli.Command, name string) (string, error) {
	v := strings.TrimSpace(cmd.StringArg(name))
	if v == "" {
		return "", fmt.Errorf("%w: %s", shared.ErrMissingArgument, name)
	}
	return v, nil
}
