// Package tuist models the dependency graph emitted by `tuist graph
// --format json` and provides the client that extracts it from a project.
package tuist

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// Product kinds catalyst knows how to translate. Anything else becomes a
// plain library.
const (
	ProductApp       = "app"
	ProductUnitTests = "unit_tests"
)

// Graph is the root of a tuist dependency graph.
type Graph struct {
	Name     string         `json:"name"`
	Path     string         `json:"path"`
	Projects []ProjectEntry `json:"projects"`
}

// ProjectEntry is one element of the graph's projects array. Tuist emits a
// heterogeneous list: bare path strings interleaved with full project
// objects. Exactly one of PathMarker and Project is set.
type ProjectEntry struct {
	PathMarker string
	Project    *Project
}

// UnmarshalJSON accepts either a JSON string or a project object.
func (e *ProjectEntry) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, `"`) {
		return json.Unmarshal(data, &e.PathMarker)
	}
	e.Project = &Project{}
	return json.Unmarshal(data, e.Project)
}

// MarshalJSON writes back whichever variant the entry holds, so a decoded
// graph re-encodes into the same shape tuist produced.
func (e ProjectEntry) MarshalJSON() ([]byte, error) {
	if e.Project != nil {
		return json.Marshal(e.Project)
	}
	return json.Marshal(e.PathMarker)
}

// Project is a single project record in the graph.
type Project struct {
	Name    string            `json:"name"`
	Path    string            `json:"path"`
	Targets map[string]Target `json:"targets"`
}

// Target is a buildable target within a project.
type Target struct {
	Name             string            `json:"name"`
	Product          string            `json:"product"`
	BundleID         string            `json:"bundleId"`
	BuildableFolders []BuildableFolder `json:"buildableFolders"`
	Dependencies     []Dependency      `json:"dependencies"`
}

// BuildableFolder is a folder tuist resolved into concrete files.
type BuildableFolder struct {
	Path          string         `json:"path"`
	ResolvedFiles []ResolvedFile `json:"resolvedFiles"`
}

// ResolvedFile is one file inside a buildable folder.
type ResolvedFile struct {
	Path string `json:"path"`
}

// Dependency is an edge out of a target. Only target dependencies carry a
// reference; other kinds decode with a nil Target and are ignored.
type Dependency struct {
	Target *TargetReference `json:"target,omitempty"`
}

// TargetReference names the target a dependency points at.
type TargetReference struct {
	Name   string `json:"name"`
	Status string `json:"status,omitempty"`
}

// DecodeError reports graph JSON that could not be decoded.
type DecodeError struct {
	Message string
	Err     error
}

func (e *DecodeError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("decode graph: %s: %v", e.Message, e.Err)
	}
	return fmt.Sprintf("decode graph: %s", e.Message)
}

func (e *DecodeError) Unwrap() error { return e.Err }

// DecodeGraph parses the JSON produced by `tuist graph --format json`.
func DecodeGraph(data []byte) (*Graph, error) {
	var g Graph
	if err := json.Unmarshal(data, &g); err != nil {
		return nil, &DecodeError{Message: "invalid graph JSON", Err: err}
	}
	return &g, nil
}

// Encode serializes the graph back to indented JSON, suitable for the
// cached snapshot.
func (g *Graph) Encode() ([]byte, error) {
	data, err := json.MarshalIndent(g, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode graph: %w", err)
	}
	return data, nil
}

// ProjectRecords returns the full project objects in graph order, skipping
// the bare path markers.
func (g *Graph) ProjectRecords() []*Project {
	var projects []*Project
	for _, entry := range g.Projects {
		if entry.Project != nil {
			projects = append(projects, entry.Project)
		}
	}
	return projects
}

// SortedTargetKeys returns the target map keys in lexicographic order.
// Iterating targets through this keeps generated output deterministic.
func (p *Project) SortedTargetKeys() []string {
	keys := make([]string, 0, len(p.Targets))
	for key := range p.Targets {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// IsApp reports whether the target builds an application bundle.
func (t *Target) IsApp() bool { return t.Product == ProductApp }

// IsUnitTests reports whether the target builds a unit test bundle.
func (t *Target) IsUnitTests() bool { return t.Product == ProductUnitTests }

// NormalizeName maps a target name to the identifier used for its build
// rules. The mapping is idempotent.
func NormalizeName(name string) string {
	return strings.ToLower(name)
}
