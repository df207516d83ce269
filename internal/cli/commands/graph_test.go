package commands

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/catalyst-labs/catalyst/internal/cli/testutil"
	"github.com/catalyst-labs/catalyst/internal/pipeline"
	"github.com/catalyst-labs/catalyst/internal/tuist"
)

func graphFixture() *tuist.Graph {
	return &tuist.Graph{
		Name: "Demo",
		Path: "/tmp/Demo",
		Projects: []tuist.ProjectEntry{
			{PathMarker: "/tmp/Demo/App"},
			{Project: &tuist.Project{
				Name: "App",
				Path: "/tmp/Demo/App",
				Targets: map[string]tuist.Target{
					"App": {
						Name:     "App",
						Product:  tuist.ProductApp,
						BundleID: "com.example.app",
						Dependencies: []tuist.Dependency{
							{Target: &tuist.TargetReference{Name: "Kit"}},
						},
					},
				},
			}},
			{Project: &tuist.Project{
				Name: "Kit",
				Path: "/tmp/Demo/Kit",
				Targets: map[string]tuist.Target{
					"Kit": {Name: "Kit", Product: "framework", BundleID: "com.example.kit"},
				},
			}},
		},
	}
}

func TestRenderGraphLevelsText(t *testing.T) {
	g := graphFixture()
	d, err := pipeline.DependencyGraph(g)
	require.NoError(t, err)
	levels, err := d.Levels()
	require.NoError(t, err)

	tr := testutil.NewTestRendererText()
	require.NoError(t, renderGraphLevels(tr.Renderer, g.Name, d, levels))

	out := tr.Output()
	testutil.AssertContains(t, out, "Dependency Graph: Demo")
	testutil.AssertContains(t, out, "Level 0:")
	testutil.AssertContains(t, out, "Level 1:")
	testutil.AssertContains(t, out, "kit")
	testutil.AssertContains(t, out, "depends on: kit")
	testutil.AssertContains(t, out, "used by: app")
	testutil.AssertContains(t, out, "Total: 2 targets, 1 dependencies")
}

func TestRenderGraphLevelsMarkdown(t *testing.T) {
	g := graphFixture()
	d, err := pipeline.DependencyGraph(g)
	require.NoError(t, err)
	levels, err := d.Levels()
	require.NoError(t, err)

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, renderGraphLevels(tr.Renderer, g.Name, d, levels))

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	testutil.AssertContains(t, out, "# Dependency Graph: Demo")
	testutil.AssertContains(t, out, "## Level 0")
	testutil.AssertContains(t, out, "- kit")
	testutil.AssertContains(t, out, "**Total Targets:** 2")
}

func TestGraphJSONRoundTrips(t *testing.T) {
	g := graphFixture()
	tr := testutil.NewTestRendererText()
	require.NoError(t, graphJSON(tr.Renderer, g))

	decoded, err := tuist.DecodeGraph([]byte(tr.Output()))
	require.NoError(t, err)
	assert.Equal(t, "Demo", decoded.Name)
	assert.Len(t, decoded.Projects, 3)
	assert.Equal(t, "/tmp/Demo/App", decoded.Projects[0].PathMarker)
}

func TestGraphYAML(t *testing.T) {
	g := graphFixture()
	tr := testutil.NewTestRendererText()
	require.NoError(t, graphYAML(tr.Renderer, g))

	var doc map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(tr.Output()), &doc))
	assert.Equal(t, "Demo", doc["name"])
	projects, ok := doc["projects"].([]any)
	require.True(t, ok)
	assert.Len(t, projects, 3)
}

func TestGraphYAMLMatchesJSONStructure(t *testing.T) {
	g := graphFixture()

	jsonOut := testutil.NewTestRendererText()
	require.NoError(t, graphJSON(jsonOut.Renderer, g))
	yamlOut := testutil.NewTestRendererText()
	require.NoError(t, graphYAML(yamlOut.Renderer, g))

	var fromJSON, fromYAML map[string]any
	require.NoError(t, json.Unmarshal([]byte(jsonOut.Output()), &fromJSON))
	require.NoError(t, yaml.Unmarshal([]byte(yamlOut.Output()), &fromYAML))
	assert.Equal(t, fromJSON["name"], fromYAML["name"])
}

func TestGraphCommandInvalidFormat(t *testing.T) {
	projectDir := testutil.SetupTestProject(t)

	cmd := NewGraphCommand()
	cmd.SetArgs([]string{"--format", "dot", projectDir})
	tr := testutil.NewTestRendererText()
	cmd.SetOut(tr.Out)
	cmd.SetErr(tr.ErrOut)

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), `invalid format "dot"`)
}

func TestGraphCommandMetadata(t *testing.T) {
	cmd := NewGraphCommand()

	assert.Equal(t, "graph [project-dir]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotNil(t, cmd.Flags().Lookup("format"))
	assert.NotNil(t, cmd.Flags().Lookup("cached"))
}
