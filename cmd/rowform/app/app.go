// Package app provides the application context and dependency management
// for the rowform CLI. It centralizes configuration, dependency injection,
// and lifecycle management so that commands stay thin.
package app

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/pkg/catalogs"
	"github.com/rowform/rowform/pkg/errors"
)

// App represents the rowform application with all its dependencies.
// It provides a centralized place for configuration, logging, and
// the engine instance, following the dependency injection pattern.
type App struct {
	// Version information
	version string
	commit  string
	date    string
	builtBy string

	// Configuration
	config *Config

	// Logger
	logger *zerolog.Logger

	// Engine instance (lazy-initialized, singleton)
	mu     sync.RWMutex
	engine rowform.Engine
}

// New creates a new App instance with the given version information.
// The app is initialized with configuration loaded from the environment
// that can be customized using functional options.
func New(version, commit, date, builtBy string, opts ...Option) (*App, error) {
	app := &App{
		version: version,
		commit:  commit,
		date:    date,
		builtBy: builtBy,
	}

	// Load configuration
	config, err := LoadConfig()
	if err != nil {
		return nil, errors.WrapResource("load", "config", "", err)
	}
	app.config = config

	// Initialize logger
	logger := NewLogger(config)
	app.logger = &logger

	// Apply any custom options
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

// OutputFormat returns the configured output format (table, json, yaml).
func (a *App) OutputFormat() string {
	return a.config.Format
}

// Engine returns the engine instance, creating it lazily if needed.
// This is thread-safe and ensures only one instance is created.
func (a *App) Engine() (rowform.Engine, error) {
	a.mu.RLock()
	if a.engine != nil {
		eng := a.engine
		a.mu.RUnlock()
		return eng, nil
	}
	a.mu.RUnlock()

	a.mu.Lock()
	defer a.mu.Unlock()

	// Double-check after acquiring write lock
	if a.engine != nil {
		return a.engine, nil
	}

	// Create engine instance with options from config
	opts := a.buildEngineOptions()
	eng, err := rowform.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "engine", "", err)
	}

	a.engine = eng
	return eng, nil
}

// EngineWithOptions returns a new engine instance with custom options.
// This is useful for commands that need specific configurations different
// from the default app instance.
func (a *App) EngineWithOptions(opts ...rowform.Option) (rowform.Engine, error) {
	eng, err := rowform.New(opts...)
	if err != nil {
		return nil, errors.WrapResource("create", "engine", "with custom options", err)
	}
	return eng, nil
}

// Catalog returns the catalog entry store from the engine instance.
// This is a convenience method that handles engine initialization and
// catalog retrieval in one call.
func (a *App) Catalog() (*catalogs.Store, error) {
	eng, err := a.Engine()
	if err != nil {
		return nil, err
	}
	return eng.Catalog(), nil
}

// Shutdown performs graceful shutdown of the application.
// It closes the engine and releases any storage resources.
func (a *App) Shutdown(_ context.Context) error {
	a.mu.Lock()
	eng := a.engine
	a.engine = nil
	a.mu.Unlock()

	if eng != nil {
		if err := eng.Close(); err != nil {
			a.logger.Error().Err(err).Msg("Failed to close engine during shutdown")
			return err
		}
	}

	return nil
}

// buildEngineOptions constructs engine options from the app configuration.
func (a *App) buildEngineOptions() []rowform.Option {
	var opts []rowform.Option

	// Select the storage backend
	switch a.config.Storage.Backend {
	case StorageSQLite:
		opts = append(opts, rowform.WithSQLite(a.config.Storage.SQLitePath))
	case StoragePostgres:
		opts = append(opts, rowform.WithPostgres(a.config.Storage.PostgresConfig()))
	case StorageFiles:
		opts = append(opts, rowform.WithFiles(a.config.Storage.FilesDir))
	default:
		opts = append(opts, rowform.WithEmbeddedCatalog())
	}

	// Matching behavior
	if !a.config.FuzzyMatching {
		opts = append(opts, rowform.WithFuzzyMatching(false))
	}
	if a.config.Strict {
		opts = append(opts, rowform.WithStrict(true))
	}
	if a.config.Concurrency > 0 {
		opts = append(opts, rowform.WithConcurrency(a.config.Concurrency))
	}

	opts = append(opts, rowform.WithLogger(a.logger))

	return opts
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

// WithEngine sets a custom engine instance (useful for testing).
func WithEngine(eng rowform.Engine) Option {
	return func(a *App) error {
		a.engine = eng
		return nil
	}
}
