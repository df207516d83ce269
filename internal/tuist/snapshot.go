package tuist

import (
	"fmt"
	"os"
	"path/filepath"
)

// SnapshotName is the file name of the cached graph snapshot.
const SnapshotName = "graph.json"

// WriteSnapshot persists the graph as indented JSON under cacheDir and
// returns the path written. The cache directory is created if needed.
func WriteSnapshot(cacheDir string, g *Graph) (string, error) {
	if err := os.MkdirAll(cacheDir, 0o750); err != nil {
		return "", fmt.Errorf("failed to create cache dir: %w", err)
	}
	data, err := g.Encode()
	if err != nil {
		return "", err
	}
	path := filepath.Join(cacheDir, SnapshotName)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write graph snapshot: %w", err)
	}
	return path, nil
}

// ReadSnapshot loads a previously written snapshot from cacheDir.
func ReadSnapshot(cacheDir string) (*Graph, error) {
	data, err := os.ReadFile(filepath.Join(cacheDir, SnapshotName))
	if err != nil {
		return nil, fmt.Errorf("failed to read graph snapshot: %w", err)
	}
	return DecodeGraph(data)
}
