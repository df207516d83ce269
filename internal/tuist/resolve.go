package tuist

import (
	"fmt"
	"strings"
)

// NotFoundError reports that no app target matched a lookup.
type NotFoundError struct {
	Hint string
}

func (e *NotFoundError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("no app target matching %q in graph", e.Hint)
	}
	return "no app target found in graph"
}

// AppTarget identifies an application target for deployment.
type AppTarget struct {
	// RuleName is the normalized name of the generated ios_application rule.
	RuleName string
	// BundleID is the app's bundle identifier, used for launching.
	BundleID string
}

// FindAppTarget locates the app target to deploy. With a hint, target names
// are matched case-insensitively; without one, the first app target wins.
// Projects are scanned in graph order and targets in sorted key order, so
// the result is deterministic for a given graph.
func FindAppTarget(g *Graph, hint string) (*AppTarget, error) {
	for _, project := range g.ProjectRecords() {
		for _, key := range project.SortedTargetKeys() {
			target := project.Targets[key]
			if !target.IsApp() {
				continue
			}
			if hint != "" && !strings.EqualFold(key, hint) {
				continue
			}
			return &AppTarget{RuleName: NormalizeName(key), BundleID: target.BundleID}, nil
		}
	}
	return nil, &NotFoundError{Hint: hint}
}

// AppTargetNames returns the names of every app target in the graph, in
// scan order. More than one means FindAppTarget without a hint is picking
// arbitrarily among them.
func AppTargetNames(g *Graph) []string {
	var names []string
	for _, project := range g.ProjectRecords() {
		for _, key := range project.SortedTargetKeys() {
			target := project.Targets[key]
			if target.IsApp() {
				names = append(names, key)
			}
		}
	}
	return names
}
