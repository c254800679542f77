// Package app provides the application context and dependency management
// for the kitstash CLI: configuration, logging and the lazily opened client.
package app

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/rs/zerolog"

	"github.com/agentstation/kitstash"
	"github.com/agentstation/kitstash/internal/appcontext"
	"github.com/agentstation/kitstash/internal/cmd/output"
	"github.com/agentstation/kitstash/pkg/constants"
	"github.com/agentstation/kitstash/pkg/errors"
	"github.com/agentstation/kitstash/pkg/logging"
)

// App represents the kitstash application with all its dependencies.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	config *Config
	logger *zerolog.Logger
	out    io.Writer

	// Client instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	client kitstash.Client
}

var _ appcontext.Interface = (*App)(nil)

// New creates a new App instance with the given version information.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config
	app.setLogger(NewLogger(config))

	for _, opt := range opts {
		if err := opt(app); err != nil {
			return nil, err
		}
	}

	return app, nil
}

// Version returns the version information.
func (a *App) Version() string {
	return a.version
}

// Commit returns the git commit hash.
func (a *App) Commit() string {
	return a.commit
}

// Date returns the build date.
func (a *App) Date() string {
	return a.date
}

// BuiltBy returns the build system identifier.
func (a *App) BuiltBy() string {
	return a.builtBy
}

// Config returns the application configuration.
func (a *App) Config() *Config {
	return a.config
}

// Logger returns the application logger.
func (a *App) Logger() *zerolog.Logger {
	return a.logger
}

// OutputFormat returns the output format from --format, or the terminal default.
func (a *App) OutputFormat() output.Format {
	return output.DetectFormat(a.config.Format)
}

// Client returns the kitstash client, creating it lazily if needed.
func (a *App) Client() (kitstash.Client, error) {
	a.mu.RLock()
	if a.client != nil {
		c := a.client
		a.mu.RUnlock()
		return c, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client != nil {
		return a.client, nil
	}

	opts, err := a.clientOptions()
	if err != nil {
		return nil, err
	}
	c, err := kitstash.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "client", "", err)
	}

	a.client = c
	return c, nil
}

// Shutdown closes the client if it was opened.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.client == nil {
		return nil
	}
	err := a.client.Close()
	a.client = nil
	return err
}

// clientOptions constructs client options from the app configuration.
func (a *App) clientOptions() ([]kitstash.Option, error) {
	var opts []kitstash.Option

	path, err := a.config.ResolvedStorePath()
	if err != nil {
		return nil, err
	}
	if path != "" && path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), constants.DirPermissions); err != nil {
			return nil, errors.WrapIO("mkdir", filepath.Dir(path), err)
		}
	}
	if path != "" {
		opts = append(opts, kitstash.WithSQLite(path))
	}

	if a.config.CatalogPath != "" {
		opts = append(opts, kitstash.WithCatalogPath(a.config.CatalogPath))
	}

	if a.config.RelayURL != "" {
		opts = append(opts,
			kitstash.WithRelay(a.config.RelayURL, a.config.RelayAPIKey),
			kitstash.WithRelayAuth(a.config.RelayAuth, a.config.RelayAuthParam),
			kitstash.WithRelayTimeout(a.config.RelayTimeout),
		)
	}

	return opts, nil
}

func (a *App) setLogger(logger zerolog.Logger) {
	a.logger = &logger
	logging.SetDefault(logger)
}

// Option is a functional option for configuring the App.
type Option func(*App) error

// WithConfig sets a custom configuration.
func WithConfig(config *Config) Option {
	return func(a *App) error {
		a.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
func WithLogger(logger *zerolog.Logger) Option {
	return func(a *App) error {
		a.logger = logger
		return nil
	}
}

// WithClient sets a custom client instance (useful for testing).
func WithClient(c kitstash.Client) Option {
	return func(a *App) error {
		a.client = c
		return nil
	}
}

// WithOutput sends command output to w instead of stdout.
func WithOutput(w io.Writer) Option {
	return func(a *App) error {
		a.out = w
		return nil
	}
}
