package tuist

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/catalyst-labs/catalyst/internal/toolchain"
)

// graphFileName is the file tuist writes into the output directory.
const graphFileName = "graph.json"

// Client extracts dependency graphs from tuist projects.
type Client struct {
	runner toolchain.Runner
	logger *slog.Logger
}

// NewClient creates a Client backed by the given runner.
func NewClient(runner toolchain.Runner, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Client{runner: runner, logger: logger}
}

// FetchGraph runs `tuist graph` in projectDir and decodes the result. The
// JSON is written to a temporary directory that is removed before return.
func (c *Client) FetchGraph(ctx context.Context, projectDir string) (*Graph, error) {
	outDir, err := os.MkdirTemp("", "tuist-graph-")
	if err != nil {
		return nil, fmt.Errorf("failed to create graph output dir: %w", err)
	}
	defer os.RemoveAll(outDir)

	c.logger.Debug("extracting graph", "project_dir", projectDir, "output_dir", outDir)
	err = c.runner.Run(ctx, projectDir, "tuist", "graph", "--format", "json", "--no-open", "--output-path", outDir)
	if err != nil {
		return nil, fmt.Errorf("failed to extract graph: %w", err)
	}

	data, err := os.ReadFile(filepath.Join(outDir, graphFileName))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph output: %w", err)
	}

	graph, err := DecodeGraph(data)
	if err != nil {
		return nil, err
	}
	c.logger.Info("decoded project graph", "name", graph.Name, "projects", len(graph.ProjectRecords()))
	return graph, nil
}
