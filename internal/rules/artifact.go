// Package rules synthesizes Bazel build files from a tuist dependency
// graph: one BUILD file per project plus the workspace-level files and the
// Info.plist manifests for application targets.
package rules

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// Well-known artifact basenames.
const (
	BuildBasename     = "BUILD"
	WorkspaceBasename = "WORKSPACE"
	BazelrcBasename   = ".bazelrc"
)

// Artifact is one generated file, held in memory until written.
type Artifact struct {
	Dir      string
	Basename string
	Contents string
}

// Path returns the artifact's target path on disk.
func (a Artifact) Path() string {
	return filepath.Join(a.Dir, a.Basename)
}

// WriteAll writes every artifact, overwriting whatever is already there.
// Directories are created as needed.
func WriteAll(artifacts []Artifact) error {
	for _, a := range artifacts {
		if err := os.MkdirAll(a.Dir, 0o750); err != nil {
			return fmt.Errorf("failed to create %s: %w", a.Dir, err)
		}
		if err := os.WriteFile(a.Path(), []byte(a.Contents), 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", a.Path(), err)
		}
	}
	return nil
}

// Drift describes a file on disk that differs from what would be generated.
type Drift struct {
	Path string
	Diff string
}

// DiffAll compares each artifact against the file currently on disk and
// returns a unified diff for every mismatch. A missing file diffs against
// empty content. Nothing is written.
func DiffAll(artifacts []Artifact) ([]Drift, error) {
	var drifts []Drift
	for _, a := range artifacts {
		existing, err := os.ReadFile(a.Path())
		if err != nil && !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read %s: %w", a.Path(), err)
		}
		if string(existing) == a.Contents {
			continue
		}
		u := difflib.UnifiedDiff{
			A:        splitLinesKeepNL(string(existing)),
			B:        splitLinesKeepNL(a.Contents),
			FromFile: a.Path(),
			ToFile:   a.Path() + " (generated)",
			Context:  4,
		}
		text, err := difflib.GetUnifiedDiffString(u)
		if err != nil {
			return nil, fmt.Errorf("failed to diff %s: %w", a.Path(), err)
		}
		drifts = append(drifts, Drift{Path: a.Path(), Diff: text})
	}
	return drifts, nil
}

func splitLinesKeepNL(s string) []string {
	if s == "" {
		return []string{}
	}
	return strings.SplitAfter(s, "\n")
}
