package toolchain

import (
	"context"
	"log/slog"
	"path/filepath"
)

// Bazel wraps the bazel CLI for the small set of invocations catalyst needs.
type Bazel struct {
	runner Runner
	logger *slog.Logger
}

// NewBazel creates a Bazel client backed by the given runner.
func NewBazel(runner Runner, logger *slog.Logger) *Bazel {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Bazel{runner: runner, logger: logger}
}

// BuildAll builds every target in the workspace rooted at dir.
func (b *Bazel) BuildAll(ctx context.Context, dir string) error {
	b.logger.Info("building workspace", "dir", dir)
	return b.runner.Run(ctx, dir, "bazel", "build", "//...")
}

// BuildTarget builds a single top-level target by rule name.
func (b *Bazel) BuildTarget(ctx context.Context, dir, name string) error {
	b.logger.Info("building target", "target", name)
	return b.runner.Run(ctx, dir, "bazel", "build", ":"+name)
}

// IPAPath returns where bazel places the .ipa bundle for an ios_application
// rule after a successful build.
func IPAPath(dir, ruleName string) string {
	return filepath.Join(dir, "bazel-bin", ruleName+".ipa")
}
