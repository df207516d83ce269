package rules

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/catalyst-labs/catalyst/internal/tuist"
)

// minimumOSVersion is the iOS deployment target stamped into application
// and test rules, matching the .bazelrc build settings.
const minimumOSVersion = "15.0"

const buildFileHeader = `load("@build_bazel_rules_apple//apple:ios.bzl", "ios_application", "ios_unit_test")
load("@build_bazel_rules_swift//swift:swift.bzl", "swift_library")

`

// Glob fallbacks for targets whose graph entry resolved no source files.
// Such targets rely on convention-based source discovery.
const (
	sourceGlob = `glob(["Sources/**/*.swift"])`
	testGlob   = `glob(["Tests/**/*.swift"])`
)

// testHostSuffix ties a unit test target to its host app by naming
// convention: FooTests is hosted by the app rule foo. The host is not
// looked up in the graph, so a test target that breaks the convention
// produces a dangling reference bazel will reject.
const testHostSuffix = "Tests"

var sourceExts = map[string]bool{
	".swift": true,
}

var resourceExts = map[string]bool{
	".xcassets":   true,
	".storyboard": true,
	".xib":        true,
}

// classified holds a target's resolved files partitioned by role, rewritten
// relative to the project root with forward slashes.
type classified struct {
	Sources   []string
	Resources []string
	Skipped   []string
}

// classifyFiles partitions a target's resolved files by extension. Files
// with other extensions are ignored, and files outside the project tree are
// dropped and recorded in Skipped. The graph may legitimately reference
// out-of-tree generated files, so a drop is never an error.
func classifyFiles(p *tuist.Project, t *tuist.Target) classified {
	var c classified
	for _, folder := range t.BuildableFolders {
		for _, file := range folder.ResolvedFiles {
			ext := strings.ToLower(filepath.Ext(file.Path))
			if !sourceExts[ext] && !resourceExts[ext] {
				continue
			}
			rel, err := filepath.Rel(p.Path, file.Path)
			if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
				c.Skipped = append(c.Skipped, file.Path)
				continue
			}
			rel = filepath.ToSlash(rel)
			if sourceExts[ext] {
				c.Sources = append(c.Sources, rel)
			} else {
				c.Resources = append(c.Resources, rel)
			}
		}
	}
	return c
}

// depLabels maps a target's dependency edges to local rule labels in graph
// order. Edges without a target reference are skipped.
func depLabels(t *tuist.Target) []string {
	var labels []string
	for _, dep := range t.Dependencies {
		if dep.Target == nil {
			continue
		}
		labels = append(labels, ":"+tuist.NormalizeName(dep.Target.Name))
	}
	return labels
}

func testHostLabel(targetName string) string {
	return ":" + tuist.NormalizeName(strings.TrimSuffix(targetName, testHostSuffix))
}

// writeStringList renders a multiline list attribute, one quoted item per
// line with trailing commas.
func writeStringList(b *strings.Builder, name string, items []string) {
	fmt.Fprintf(b, "    %s = [\n", name)
	for _, item := range items {
		fmt.Fprintf(b, "        %q,\n", item)
	}
	b.WriteString("    ],\n")
}

// writeInlineList renders a single-line list attribute.
func writeInlineList(b *strings.Builder, name string, items []string) {
	quoted := make([]string, len(items))
	for i, item := range items {
		quoted[i] = fmt.Sprintf("%q", item)
	}
	fmt.Fprintf(b, "    %s = [%s],\n", name, strings.Join(quoted, ", "))
}

func writeLibraryRule(b *strings.Builder, name, moduleName, fallbackGlob string, srcs, deps []string, testonly bool) {
	fmt.Fprintf(b, "swift_library(\n    name = %q,\n", name)
	if len(srcs) > 0 {
		writeStringList(b, "srcs", srcs)
	} else {
		fmt.Fprintf(b, "    srcs = %s,\n", fallbackGlob)
	}
	fmt.Fprintf(b, "    module_name = %q,\n", moduleName)
	if testonly {
		b.WriteString("    testonly = True,\n")
	}
	if len(deps) > 0 {
		writeInlineList(b, "deps", deps)
	}
	b.WriteString("    visibility = [\"//visibility:public\"],\n)\n\n")
}

func writeApplicationRule(b *strings.Builder, ruleName string, t *tuist.Target, resources []string) {
	fmt.Fprintf(b, "ios_application(\n    name = %q,\n    bundle_id = %q,\n", ruleName, t.BundleID)
	writeInlineList(b, "families", []string{"iphone", "ipad"})
	writeInlineList(b, "infoplists", []string{InfoPlistBasename(t.Name)})
	fmt.Fprintf(b, "    minimum_os_version = %q,\n", minimumOSVersion)
	if len(resources) > 0 {
		writeStringList(b, "resources", resources)
	}
	writeInlineList(b, "deps", []string{":" + ruleName + "_lib"})
	b.WriteString(")\n\n")
}

func writeUnitTestRule(b *strings.Builder, ruleName string, t *tuist.Target) {
	fmt.Fprintf(b, "ios_unit_test(\n    name = %q,\n    bundle_id = %q,\n", ruleName, t.BundleID)
	fmt.Fprintf(b, "    minimum_os_version = %q,\n", minimumOSVersion)
	fmt.Fprintf(b, "    test_host = %q,\n", testHostLabel(t.Name))
	writeInlineList(b, "deps", []string{":" + ruleName + "_lib"})
	b.WriteString(")\n\n")
}

// ProjectFiles is the synthesis result for one project: its BUILD file,
// any Info.plist manifests, and the resolved files dropped for falling
// outside the project tree.
type ProjectFiles struct {
	Dir       string
	Artifacts []Artifact
	Skipped   []string
}

// SynthesizeProject emits the build rules for every target in the project.
// Targets are visited in sorted name order so output is deterministic. The
// product kind picks the rule shape: apps get a swift_library plus an
// ios_application and a generated Info.plist, unit test bundles get a
// testonly library plus an ios_unit_test, and everything else becomes a
// plain swift_library. The BUILD text is parsed as Starlark before being
// returned.
func SynthesizeProject(p *tuist.Project) (*ProjectFiles, error) {
	files := &ProjectFiles{Dir: p.Path}
	var b strings.Builder
	b.WriteString(buildFileHeader)

	var plists []Artifact
	for _, key := range p.SortedTargetKeys() {
		target := p.Targets[key]
		ruleName := tuist.NormalizeName(target.Name)
		c := classifyFiles(p, &target)
		deps := depLabels(&target)
		files.Skipped = append(files.Skipped, c.Skipped...)

		switch {
		case target.IsApp():
			writeLibraryRule(&b, ruleName+"_lib", target.Name, sourceGlob, c.Sources, deps, false)
			writeApplicationRule(&b, ruleName, &target, c.Resources)
			plists = append(plists, InfoPlistArtifact(p.Path, &target))
		case target.IsUnitTests():
			writeLibraryRule(&b, ruleName+"_lib", target.Name, testGlob, c.Sources, deps, true)
			writeUnitTestRule(&b, ruleName, &target)
		default:
			writeLibraryRule(&b, ruleName, target.Name, sourceGlob, c.Sources, deps, false)
		}
	}

	text := b.String()
	if err := ValidateBuildText(filepath.Join(p.Path, BuildBasename), text); err != nil {
		return nil, err
	}
	files.Artifacts = append(files.Artifacts, Artifact{Dir: p.Path, Basename: BuildBasename, Contents: text})
	files.Artifacts = append(files.Artifacts, plists...)
	return files, nil
}
