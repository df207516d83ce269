package tuist

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSnapshotRoundTrip(t *testing.T) {
	cacheDir := filepath.Join(t.TempDir(), "catalyst")
	graph, err := DecodeGraph([]byte(sampleGraphJSON))
	require.NoError(t, err)

	path, err := WriteSnapshot(cacheDir, graph)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(cacheDir, SnapshotName), path)

	again, err := ReadSnapshot(cacheDir)
	require.NoError(t, err)
	assert.Equal(t, graph, again)
}

func TestWriteSnapshotIsIndented(t *testing.T) {
	cacheDir := t.TempDir()
	graph := &Graph{Name: "App", Path: "/p"}

	path, err := WriteSnapshot(cacheDir, graph)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"name\": \"App\"")
}

func TestReadSnapshotMissing(t *testing.T) {
	_, err := ReadSnapshot(t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read graph snapshot")
}
