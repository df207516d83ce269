// Package config loads catalyst configuration from defaults, an optional
// YAML config file, CATALYST_ environment variables, and command-line
// flags, in that precedence order.
package config

import (
	"os"
	"path/filepath"
)

// Default configuration values.
const (
	DefaultSimulator = "iPhone 16"
	DefaultStatePath = ".catalyst/state.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
)

// Config holds all CLI configuration options.
type Config struct {
	// CacheDir is where graph snapshots are persisted.
	CacheDir string `koanf:"cache_dir"`
	// Simulator names the simulator device deployments target.
	Simulator string `koanf:"simulator"`
	// Target optionally names the app target to deploy. Empty means the
	// first app target found in the graph.
	Target string `koanf:"target"`
	// StatePath locates the invocation history database. Relative paths
	// resolve against the project directory.
	StatePath string `koanf:"state_path"`
	// Verbose enables debug logging.
	Verbose bool `koanf:"verbose"`
	// Output selects the rendering mode: auto, text, markdown, or json.
	Output string `koanf:"output"`
}

// DefaultCacheDir resolves the per-user cache directory for catalyst,
// falling back to the system temp directory when the platform offers no
// user cache location.
func DefaultCacheDir() string {
	base, err := os.UserCacheDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "catalyst")
	}
	return filepath.Join(base, "catalyst")
}

// Defaults returns the built-in configuration values.
func Defaults() map[string]any {
	return map[string]any{
		"cache_dir":  DefaultCacheDir(),
		"simulator":  DefaultSimulator,
		"target":     "",
		"state_path": DefaultStatePath,
		"verbose":    false,
		"output":     DefaultOutput,
	}
}

// ResolveStatePath returns the absolute state database path for a project.
func (c *Config) ResolveStatePath(projectDir string) string {
	if filepath.IsAbs(c.StatePath) {
		return c.StatePath
	}
	return filepath.Join(projectDir, c.StatePath)
}
