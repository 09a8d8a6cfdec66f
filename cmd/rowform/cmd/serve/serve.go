// Package serve provides the HTTP server command for the rowform CLI.
package serve

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rowform/rowform"
	"github.com/rowform/rowform/internal/cmd/emoji"
	"github.com/rowform/rowform/internal/server"
)

// AppContext defines the interface the serve command needs from the app.
type AppContext interface {
	Engine() (rowform.Engine, error)
	Logger() *zerolog.Logger
}

// NewCommand creates the serve command with app dependencies.
func NewCommand(app AppContext) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "serve",
		Aliases: []string{"server"},
		GroupID: "core",
		Short:   "Start the normalization REST API server",
		Long: `Start a REST API server exposing the normalization engine.

Endpoints:
  POST /v1/normalize        - normalize a batch of raw rows
  POST /v1/reconcile        - match one value against a namespace
  POST /v1/template/render  - evaluate a template
  GET  /healthz             - health check

The server reuses the configured catalog backend, so a sqlite or
postgres backend serves the same data to CLI and API clients.`,
		Example: `  # Start on default port 8080
  rowform serve

  # Start on a custom port with CORS for one origin
  rowform serve --port 3000 --cors-origins "https://example.com"

  # Enable rate limiting
  rowform serve --rate-limit 60`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServer(cmd, app)
		},
	}

	// Server configuration flags
	cmd.Flags().Int("port", 8080, "Server port")
	cmd.Flags().String("host", "localhost", "Bind address")

	// CORS flags
	cmd.Flags().Bool("cors", false, "Enable CORS for all origins")
	cmd.Flags().StringSlice("cors-origins", []string{}, "Allowed CORS origins (comma-separated)")

	// Performance flags
	cmd.Flags().Int("rate-limit", 0, "Requests per minute per IP (0 to disable)")

	// Timeout flags
	cmd.Flags().Duration("read-timeout", 10*time.Second, "HTTP read timeout")
	cmd.Flags().Duration("write-timeout", 30*time.Second, "HTTP write timeout")
	cmd.Flags().Duration("idle-timeout", 120*time.Second, "HTTP idle timeout")
	cmd.Flags().Duration("request-timeout", 60*time.Second, "Per-request timeout (0 to disable)")

	return cmd
}

// runServer starts the API server.
func runServer(cmd *cobra.Command, app AppContext) error {
	cfg := parseConfig(cmd)
	logger := app.Logger()

	eng, err := app.Engine()
	if err != nil {
		return err
	}

	logger.Info().
		Str("host", cfg.Host).
		Int("port", cfg.Port).
		Bool("cors", cfg.CORSEnabled).
		Int("rate_limit", cfg.RateLimit).
		Msg("Starting API server")

	srv := server.New(eng, cfg, logger)

	// Pass cmd.Context() which has signal handling from main.go
	return startWithGracefulShutdown(cmd.Context(), srv, logger)
}

// parseConfig parses command flags into server configuration.
func parseConfig(cmd *cobra.Command) server.Config {
	cfg := server.DefaultConfig()
	cfg.Port = mustGetInt(cmd, "port")
	cfg.Host = mustGetString(cmd, "host")
	cfg.CORSEnabled = mustGetBool(cmd, "cors")
	cfg.CORSOrigins = mustGetStringSlice(cmd, "cors-origins")
	cfg.RateLimit = mustGetInt(cmd, "rate-limit")
	cfg.ReadTimeout = mustGetDuration(cmd, "read-timeout")
	cfg.WriteTimeout = mustGetDuration(cmd, "write-timeout")
	cfg.IdleTimeout = mustGetDuration(cmd, "idle-timeout")
	cfg.RequestTimeout = mustGetDuration(cmd, "request-timeout")

	// Listed origins imply CORS
	if len(cfg.CORSOrigins) > 0 {
		cfg.CORSEnabled = true
	}

	// Override with environment variables
	if envPort := os.Getenv("HTTP_PORT"); envPort != "" {
		if p, err := parsePort(envPort); err == nil {
			cfg.Port = p
		}
	}
	if envHost := os.Getenv("HTTP_HOST"); envHost != "" {
		cfg.Host = envHost
	}

	return cfg
}

// parsePort safely parses a port string to integer.
func parsePort(portStr string) (int, error) {
	port, err := strconv.Atoi(portStr)
	if err != nil {
		return 0, fmt.Errorf("invalid port number: %s", portStr)
	}
	if port < 1 || port > 65535 {
		return 0, fmt.Errorf("port out of range: %d", port)
	}
	return port, nil
}

// startWithGracefulShutdown starts the HTTP server and drains it when
// the context is cancelled (SIGINT/SIGTERM from main.go).
func startWithGracefulShutdown(ctx context.Context, srv *server.Server, logger *zerolog.Logger) error {
	serverErr := make(chan error, 1)

	go func() {
		fmt.Printf("API server listening on %s\n", srv.Addr())
		fmt.Println("Press Ctrl+C to stop")

		if err := srv.Start(); err != nil {
			serverErr <- fmt.Errorf("server failed: %w", err)
		}
	}()

	select {
	case err := <-serverErr:
		return err
	case <-ctx.Done():
		logger.Info().Msg("Shutdown signal received")
		fmt.Printf("\n%s Shutting down API server...\n", emoji.Stop)

		// Create fresh shutdown context with timeout for cleanup operations
		// Use Background() since the parent context is already cancelled
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown failed: %w", err)
		}

		logger.Info().Msg("Server stopped gracefully")
		fmt.Printf("%s API server stopped gracefully\n", emoji.Success)
		return nil
	}
}

// mustGetInt retrieves an integer flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetInt(cmd *cobra.Command, name string) int {
	val, err := cmd.Flags().GetInt(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetString retrieves a string flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetString(cmd *cobra.Command, name string) string {
	val, err := cmd.Flags().GetString(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetBool retrieves a boolean flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetBool(cmd *cobra.Command, name string) bool {
	val, err := cmd.Flags().GetBool(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetStringSlice retrieves a string slice flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetStringSlice(cmd *cobra.Command, name string) []string {
	val, err := cmd.Flags().GetStringSlice(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}

// mustGetDuration retrieves a duration flag value or panics if the flag doesn't exist.
// This should only be used for flags defined in this package.
func mustGetDuration(cmd *cobra.Command, name string) time.Duration {
	val, err := cmd.Flags().GetDuration(name)
	if err != nil {
		panic(fmt.Sprintf("programming error: failed to get flag %q: %v", name, err))
	}
	return val
}
