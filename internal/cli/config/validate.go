package config

import (
	"fmt"
	"os"
)

var validOutputs = map[string]bool{
	"auto":     true,
	"text":     true,
	"markdown": true,
	"json":     true,
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if !validOutputs[c.Output] {
		return fmt.Errorf("invalid output mode %q (expected auto, text, markdown, or json)", c.Output)
	}
	if c.Simulator == "" {
		return fmt.Errorf("simulator is required")
	}
	if c.StatePath == "" {
		return fmt.Errorf("state_path is required")
	}
	return nil
}

// ValidateProjectDir checks that the project directory exists.
func ValidateProjectDir(dir string) error {
	info, err := os.Stat(dir)
	if os.IsNotExist(err) {
		return fmt.Errorf("project directory does not exist: %s\nHint: Pass the directory that contains your tuist project", dir)
	}
	if err != nil {
		return fmt.Errorf("failed to inspect project directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("project path is not a directory: %s", dir)
	}
	return nil
}
