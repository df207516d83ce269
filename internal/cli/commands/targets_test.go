package commands

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/catalyst-labs/catalyst/internal/cli/testutil"
	"github.com/catalyst-labs/catalyst/internal/tuist"
)

func TestBuildTargetRows(t *testing.T) {
	g := &tuist.Graph{
		Name: "Demo",
		Projects: []tuist.ProjectEntry{
			{Project: &tuist.Project{
				Name: "App",
				Path: "/tmp/Demo/App",
				Targets: map[string]tuist.Target{
					"AppTests": {
						Name:    "AppTests",
						Product: tuist.ProductUnitTests,
						Dependencies: []tuist.Dependency{
							{Target: &tuist.TargetReference{Name: "App"}},
						},
					},
					"App": {
						Name:     "App",
						Product:  tuist.ProductApp,
						BundleID: "com.example.app",
						BuildableFolders: []tuist.BuildableFolder{
							{Path: "/tmp/Demo/App/Sources", ResolvedFiles: []tuist.ResolvedFile{
								{Path: "/tmp/Demo/App/Sources/AppDelegate.swift"},
								{Path: "/tmp/Demo/App/Sources/Scene.swift"},
							}},
						},
						Dependencies: []tuist.Dependency{
							{Target: &tuist.TargetReference{Name: "Kit"}},
							{Target: nil},
						},
					},
				},
			}},
		},
	}

	rows := buildTargetRows(g)

	require.Len(t, rows, 2)
	assert.Equal(t, "App", rows[0].Target)
	assert.Equal(t, "AppTests", rows[1].Target)

	app := rows[0]
	assert.Equal(t, "App", app.Project)
	assert.Equal(t, "com.example.app", app.BundleID)
	assert.Equal(t, 2, app.Files)
	assert.Equal(t, []string{"Kit"}, app.Dependencies)

	tests := rows[1]
	assert.Equal(t, 0, tests.Files)
	assert.Equal(t, []string{"App"}, tests.Dependencies)
}

func TestTargetsText(t *testing.T) {
	rows := []TargetRow{
		{Project: "App", Target: "App", Product: "app", BundleID: "com.example.app", Files: 3, Dependencies: []string{"Kit"}},
		{Project: "Kit", Target: "Kit", Product: "framework", BundleID: "com.example.kit", Files: 5},
	}

	tr := testutil.NewTestRendererText()
	require.NoError(t, targetsText(tr.Renderer, "Demo", rows))

	out := tr.Output()
	testutil.AssertContains(t, out, "Targets: Demo")
	testutil.AssertContains(t, out, "App")
	testutil.AssertContains(t, out, "com.example.kit")
	testutil.AssertContains(t, out, "(2 targets)")
}

func TestTargetsTextEmpty(t *testing.T) {
	tr := testutil.NewTestRendererText()
	require.NoError(t, targetsText(tr.Renderer, "Demo", nil))
	testutil.AssertContains(t, tr.Output(), "No targets found.")
}

func TestTargetsMarkdown(t *testing.T) {
	rows := []TargetRow{
		{Project: "App", Target: "App", Product: "app", BundleID: "com.example.app", Files: 3, Dependencies: []string{"Kit"}},
	}

	tr := testutil.NewTestRendererMarkdown()
	require.NoError(t, targetsMarkdown(tr.Renderer, "Demo", rows))

	out := tr.Output()
	testutil.AssertValidMarkdown(t, out)
	testutil.AssertNoANSI(t, out)
	testutil.AssertContains(t, out, "# Targets: Demo")
	testutil.AssertContains(t, out, "| App | App | app | com.example.app | 3 | Kit |")
	testutil.AssertContains(t, out, "**Total:** 1")
}

func TestTargetsCommandMetadata(t *testing.T) {
	cmd := NewTargetsCommand()

	assert.Equal(t, "targets [project-dir]", cmd.Use)
	assert.NotEmpty(t, cmd.Short)
	assert.NotEmpty(t, cmd.Example)
}
