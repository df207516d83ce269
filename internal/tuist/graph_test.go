package tuist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGraphJSON = `{
  "name": "App",
  "path": "/workspace/App",
  "projects": [
    "/workspace/App",
    {
      "name": "App",
      "path": "/workspace/App",
      "targets": {
        "App": {
          "name": "App",
          "product": "app",
          "bundleId": "com.example.app",
          "buildableFolders": [
            {
              "path": "/workspace/App/Sources",
              "resolvedFiles": [
                {"path": "/workspace/App/Sources/AppDelegate.swift"},
                {"path": "/workspace/App/Sources/Assets.xcassets"}
              ]
            }
          ],
          "dependencies": [
            {"target": {"name": "Kit", "status": "required"}}
          ]
        },
        "AppTests": {
          "name": "AppTests",
          "product": "unit_tests",
          "bundleId": "com.example.app.tests",
          "buildableFolders": [],
          "dependencies": [
            {"target": {"name": "App"}}
          ]
        },
        "Kit": {
          "name": "Kit",
          "product": "framework",
          "bundleId": "com.example.kit",
          "buildableFolders": [],
          "dependencies": []
        }
      }
    }
  ]
}`

func TestDecodeGraph(t *testing.T) {
	graph, err := DecodeGraph([]byte(sampleGraphJSON))
	require.NoError(t, err)

	assert.Equal(t, "App", graph.Name)
	assert.Equal(t, "/workspace/App", graph.Path)
	require.Len(t, graph.Projects, 2)

	assert.Equal(t, "/workspace/App", graph.Projects[0].PathMarker)
	assert.Nil(t, graph.Projects[0].Project)

	project := graph.Projects[1].Project
	require.NotNil(t, project)
	assert.Equal(t, "App", project.Name)
	require.Len(t, project.Targets, 3)

	app := project.Targets["App"]
	assert.Equal(t, "com.example.app", app.BundleID)
	assert.True(t, app.IsApp())
	require.Len(t, app.Dependencies, 1)
	require.NotNil(t, app.Dependencies[0].Target)
	assert.Equal(t, "Kit", app.Dependencies[0].Target.Name)

	tests := project.Targets["AppTests"]
	assert.True(t, tests.IsUnitTests())
}

func TestDecodeGraphInvalidJSON(t *testing.T) {
	_, err := DecodeGraph([]byte(`{"name": `))

	var decodeErr *DecodeError
	require.ErrorAs(t, err, &decodeErr)
	assert.Contains(t, decodeErr.Error(), "decode graph")
}

func TestGraphEncodeRoundTrip(t *testing.T) {
	graph, err := DecodeGraph([]byte(sampleGraphJSON))
	require.NoError(t, err)

	data, err := graph.Encode()
	require.NoError(t, err)

	again, err := DecodeGraph(data)
	require.NoError(t, err)
	assert.Equal(t, graph, again)
}

func TestProjectRecordsSkipsPathMarkers(t *testing.T) {
	graph := &Graph{
		Projects: []ProjectEntry{
			{PathMarker: "/a"},
			{Project: &Project{Name: "First"}},
			{PathMarker: "/b"},
			{Project: &Project{Name: "Second"}},
		},
	}

	records := graph.ProjectRecords()
	require.Len(t, records, 2)
	assert.Equal(t, "First", records[0].Name)
	assert.Equal(t, "Second", records[1].Name)
}

func TestProjectRecordsAllMarkers(t *testing.T) {
	graph, err := DecodeGraph([]byte(`{"name": "Empty", "path": "/p", "projects": ["/p", "/q"]}`))
	require.NoError(t, err)
	assert.Empty(t, graph.ProjectRecords())
}

func TestSortedTargetKeys(t *testing.T) {
	project := &Project{Targets: map[string]Target{
		"Zeta":  {},
		"Alpha": {},
		"Mid":   {},
	}}

	assert.Equal(t, []string{"Alpha", "Mid", "Zeta"}, project.SortedTargetKeys())
}

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{name: "mixed case", in: "MyApp", want: "myapp"},
		{name: "already lower", in: "kit", want: "kit"},
		{name: "test suffix", in: "AppTests", want: "apptests"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeName(tt.in)
			assert.Equal(t, tt.want, got)
			// Normalizing twice must not change the result.
			assert.Equal(t, got, NormalizeName(got))
		})
	}
}
