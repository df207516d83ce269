// Package commands implements the catalyst subcommands.
package commands

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/catalyst-labs/catalyst/internal/cli/config"
	"github.com/catalyst-labs/catalyst/internal/cli/output"
	"github.com/catalyst-labs/catalyst/internal/pipeline"
	"github.com/catalyst-labs/catalyst/internal/state"
	"github.com/catalyst-labs/catalyst/internal/toolchain"
)

// CommandContext holds common dependencies for CLI commands.
type CommandContext struct {
	Cfg      *config.Config
	Logger   *slog.Logger
	Runner   toolchain.Runner
	Renderer *output.Renderer
}

// NewCommandContext assembles the shared command dependencies from the
// loaded configuration and the command's context.
func NewCommandContext(cmd *cobra.Command) *CommandContext {
	cfg := getConfig()
	logger := config.GetLogger(cmd.Context())
	mode := output.Mode(cfg.Output)
	r := output.NewRenderer(cmd.OutOrStdout(), cmd.ErrOrStderr(), mode)

	return &CommandContext{
		Cfg:      cfg,
		Logger:   logger,
		Runner:   toolchain.ExecRunner{},
		Renderer: r,
	}
}

// OpenStore opens the build history store for a project and applies
// pending migrations. The returned cleanup must be called (typically via
// defer).
func (c *CommandContext) OpenStore(projectDir string) (*state.SQLiteStore, func(), error) {
	statePath := c.Cfg.ResolveStatePath(projectDir)

	stateDir := filepath.Dir(statePath)
	if stateDir != "." && stateDir != "" {
		if err := os.MkdirAll(stateDir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create state directory: %w", err)
		}
	}

	store := state.NewSQLiteStore()
	if err := store.Open(statePath); err != nil {
		return nil, nil, fmt.Errorf("failed to open state database: %w", err)
	}
	if err := store.Migrate(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("failed to migrate state database: %w", err)
	}

	cleanup := func() { _ = store.Close() }
	return store, cleanup, nil
}

// NewPipeline wires the build pipeline. A nil store disables build
// history.
func (c *CommandContext) NewPipeline(store *state.SQLiteStore) *pipeline.Pipeline {
	return pipeline.New(c.Runner, store, c.Logger)
}

// Helper functions shared across commands

// getConfig returns the current configuration.
// It uses config.GetCurrentConfig() if available, otherwise falls back to environment variables.
func getConfig() *config.Config {
	if cfg := config.GetCurrentConfig(); cfg != nil {
		return cfg
	}

	// Fallback: read from environment with defaults
	return &config.Config{
		CacheDir:  getEnvOrDefault("CATALYST_CACHE_DIR", config.DefaultCacheDir()),
		Simulator: getEnvOrDefault("CATALYST_SIMULATOR", config.DefaultSimulator),
		Target:    os.Getenv("CATALYST_TARGET"),
		StatePath: getEnvOrDefault("CATALYST_STATE_PATH", config.DefaultStatePath),
		Verbose:   os.Getenv("CATALYST_VERBOSE") == "true",
		Output:    os.Getenv("CATALYST_OUTPUT"),
	}
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

// resolveProjectDir returns the absolute tuist project directory from the
// optional positional argument, defaulting to the working directory.
func resolveProjectDir(args []string) (string, error) {
	dir := ""
	if len(args) > 0 {
		dir = args[0]
	}
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("failed to get working directory: %w", err)
		}
		dir = wd
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("failed to resolve project directory: %w", err)
	}
	if err := config.ValidateProjectDir(abs); err != nil {
		return "", err
	}
	return abs, nil
}
