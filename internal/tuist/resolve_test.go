package tuist

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func multiAppGraph() *Graph {
	return &Graph{
		Projects: []ProjectEntry{
			{Project: &Project{
				Name: "Main",
				Targets: map[string]Target{
					"Widget": {Product: ProductApp, BundleID: "com.example.widget"},
					"App":    {Product: ProductApp, BundleID: "com.example.app"},
					"Kit":    {Product: "framework", BundleID: "com.example.kit"},
				},
			}},
			{Project: &Project{
				Name: "Companion",
				Targets: map[string]Target{
					"Watch": {Product: ProductApp, BundleID: "com.example.watch"},
				},
			}},
		},
	}
}

func TestFindAppTargetDefault(t *testing.T) {
	// Without a hint the first app target in scan order wins. Target keys
	// are visited sorted, so "App" comes before "Widget".
	target, err := FindAppTarget(multiAppGraph(), "")
	require.NoError(t, err)
	assert.Equal(t, "app", target.RuleName)
	assert.Equal(t, "com.example.app", target.BundleID)
}

func TestFindAppTargetByHint(t *testing.T) {
	target, err := FindAppTarget(multiAppGraph(), "Watch")
	require.NoError(t, err)
	assert.Equal(t, "watch", target.RuleName)
	assert.Equal(t, "com.example.watch", target.BundleID)
}

func TestFindAppTargetHintCaseInsensitive(t *testing.T) {
	target, err := FindAppTarget(multiAppGraph(), "widget")
	require.NoError(t, err)
	assert.Equal(t, "widget", target.RuleName)
	assert.Equal(t, "com.example.widget", target.BundleID)
}

func TestFindAppTargetSkipsNonApps(t *testing.T) {
	_, err := FindAppTarget(multiAppGraph(), "Kit")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, `no app target matching "Kit" in graph`, err.Error())
}

func TestFindAppTargetEmptyGraph(t *testing.T) {
	_, err := FindAppTarget(&Graph{}, "")

	var notFound *NotFoundError
	require.ErrorAs(t, err, &notFound)
	assert.Equal(t, "no app target found in graph", err.Error())
}

func TestAppTargetNames(t *testing.T) {
	names := AppTargetNames(multiAppGraph())
	assert.Equal(t, []string{"App", "Widget", "Watch"}, names)
}
