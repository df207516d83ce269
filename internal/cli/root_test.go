package cli

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-labs/catalyst/internal/cli/config"
)

func TestNewRootCmdSubcommands(t *testing.T) {
	rootCmd := NewRootCmd()

	want := []string{"version", "build", "run", "graph", "targets", "history", "doctor", "completion"}
	for _, name := range want {
		cmd, _, err := rootCmd.Find([]string{name})
		require.NoError(t, err, "subcommand %s not registered", name)
		assert.Equal(t, name, cmd.Name())
	}
}

func TestRootCmdPersistentFlags(t *testing.T) {
	rootCmd := NewRootCmd()

	for _, name := range []string{"config", "cache-dir", "simulator", "target", "state-path", "verbose", "output"} {
		assert.NotNil(t, rootCmd.PersistentFlags().Lookup(name), "missing persistent flag %s", name)
	}
}

func TestRootCmdVersionFlag(t *testing.T) {
	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--version"})

	require.NoError(t, rootCmd.Execute())

	out := buf.String()
	assert.Contains(t, out, "catalyst "+Version)
	assert.Contains(t, out, "Tuist to Bazel build orchestrator")
}

func TestRootCmdLoadsConfig(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"version"})

	require.NoError(t, rootCmd.Execute())

	assert.Contains(t, buf.String(), "Catalyst v"+Version)
	require.NotNil(t, config.GetCurrentConfig())
	assert.Equal(t, config.DefaultSimulator, config.GetCurrentConfig().Simulator)
}

func TestRootCmdSimulatorFlagOverridesConfig(t *testing.T) {
	config.ResetConfig()
	t.Cleanup(config.ResetConfig)
	t.Chdir(t.TempDir())

	rootCmd := NewRootCmd()
	buf := &bytes.Buffer{}
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs([]string{"--simulator", "iPhone 16 Pro", "version"})

	require.NoError(t, rootCmd.Execute())

	require.NotNil(t, config.GetCurrentConfig())
	assert.Equal(t, "iPhone 16 Pro", config.GetCurrentConfig().Simulator)
}

func TestGetConfigFallback(t *testing.T) {
	cfg := GetConfig(context.Background())

	require.NotNil(t, cfg)
	assert.Equal(t, config.DefaultSimulator, cfg.Simulator)
	assert.Equal(t, config.DefaultStatePath, cfg.StatePath)
}

func TestGetRendererFallback(t *testing.T) {
	assert.NotNil(t, GetRenderer(context.Background()))
}
