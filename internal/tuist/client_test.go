package tuist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// graphRunner pretends to be tuist: it writes graph JSON into the
// directory passed via --output-path.
type graphRunner struct {
	graphJSON string
	err       error
	dir       string
	args      []string
}

func (r *graphRunner) Run(_ context.Context, dir, name string, args ...string) error {
	r.dir = dir
	r.args = append([]string{name}, args...)
	if r.err != nil {
		return r.err
	}
	outDir := args[len(args)-1]
	return os.WriteFile(filepath.Join(outDir, graphFileName), []byte(r.graphJSON), 0o644)
}

func (r *graphRunner) Output(context.Context, string, string, ...string) (string, error) {
	return "", errors.New("not used")
}

func TestClientFetchGraph(t *testing.T) {
	runner := &graphRunner{graphJSON: sampleGraphJSON}
	client := NewClient(runner, nil)

	graph, err := client.FetchGraph(context.Background(), "/workspace/App")
	require.NoError(t, err)
	assert.Equal(t, "App", graph.Name)

	assert.Equal(t, "/workspace/App", runner.dir)
	require.GreaterOrEqual(t, len(runner.args), 6)
	assert.Equal(t, []string{"tuist", "graph", "--format", "json", "--no-open", "--output-path"}, runner.args[:6])
}

func TestClientFetchGraphToolFailure(t *testing.T) {
	runner := &graphRunner{err: errors.New("exit status 1")}
	client := NewClient(runner, nil)

	_, err := client.FetchGraph(context.Background(), "/workspace/App")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to extract graph")
}

func TestClientFetchGraphBadJSON(t *testing.T) {
	runner := &graphRunner{graphJSON: "not json"}
	client := NewClient(runner, nil)

	_, err := client.FetchGraph(context.Background(), "/workspace/App")

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
}
