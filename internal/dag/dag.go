// Package dag models the dependency relationships between build targets.
// It answers the structural questions the synthesizer and the graph
// inspection commands need: cycle detection, build order, and which
// targets could compile in parallel.
package dag

import (
	"fmt"
	"sort"
)

// Graph is a directed graph of target identifiers. Edges point from a
// dependency to its dependents.
type Graph struct {
	nodes    map[string]bool
	children map[string][]string // dependency -> dependents
	parents  map[string][]string // dependent -> dependencies
}

// New creates an empty graph.
func New() *Graph {
	return &Graph{
		nodes:    make(map[string]bool),
		children: make(map[string][]string),
		parents:  make(map[string][]string),
	}
}

// Add registers a target. Adding an existing target is a no-op.
func (g *Graph) Add(id string) {
	g.nodes[id] = true
}

// AddDependency records that target depends on dependsOn. Unknown targets
// are registered implicitly: the graph comes from an external tool and may
// reference targets it does not define. Self-dependencies are rejected.
func (g *Graph) AddDependency(target, dependsOn string) error {
	if target == dependsOn {
		return fmt.Errorf("target %q depends on itself", target)
	}
	g.Add(target)
	g.Add(dependsOn)
	if !contains(g.children[dependsOn], target) {
		g.children[dependsOn] = append(g.children[dependsOn], target)
	}
	if !contains(g.parents[target], dependsOn) {
		g.parents[target] = append(g.parents[target], dependsOn)
	}
	return nil
}

// Has reports whether a target is registered.
func (g *Graph) Has(id string) bool {
	return g.nodes[id]
}

// Nodes returns every target in sorted order.
func (g *Graph) Nodes() []string {
	ids := make([]string, 0, len(g.nodes))
	for id := range g.nodes {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Dependencies returns what a target depends on, sorted.
func (g *Graph) Dependencies(id string) []string {
	deps := append([]string(nil), g.parents[id]...)
	sort.Strings(deps)
	return deps
}

// Dependents returns the targets that depend on id, sorted.
func (g *Graph) Dependents(id string) []string {
	deps := append([]string(nil), g.children[id]...)
	sort.Strings(deps)
	return deps
}

// NodeCount returns the number of targets.
func (g *Graph) NodeCount() int {
	return len(g.nodes)
}

// EdgeCount returns the number of dependency edges.
func (g *Graph) EdgeCount() int {
	count := 0
	for _, deps := range g.parents {
		count += len(deps)
	}
	return count
}

// Roots returns targets with no dependencies, sorted.
func (g *Graph) Roots() []string {
	var roots []string
	for id := range g.nodes {
		if len(g.parents[id]) == 0 {
			roots = append(roots, id)
		}
	}
	sort.Strings(roots)
	return roots
}

// Leaves returns targets nothing depends on, sorted.
func (g *Graph) Leaves() []string {
	var leaves []string
	for id := range g.nodes {
		if len(g.children[id]) == 0 {
			leaves = append(leaves, id)
		}
	}
	sort.Strings(leaves)
	return leaves
}

// Cycle returns the targets involved in dependency cycles, sorted, or nil
// if the graph is acyclic. Detection peels zero-indegree targets until
// none remain; whatever survives sits on a cycle or downstream of one
// inside a strongly connected component.
func (g *Graph) Cycle() []string {
	indegree := g.indegrees()
	queue := g.zeroIndegree(indegree)

	seen := 0
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		seen++
		for _, child := range g.children[id] {
			indegree[child]--
			if indegree[child] == 0 {
				queue = append(queue, child)
			}
		}
	}

	if seen == len(g.nodes) {
		return nil
	}
	var cyclic []string
	for id, deg := range indegree {
		if deg > 0 {
			cyclic = append(cyclic, id)
		}
	}
	sort.Strings(cyclic)
	return cyclic
}

// TopoSort returns the targets in dependency order: everything a target
// depends on appears before it. Ties break lexicographically, so the
// order is deterministic. Returns an error naming the cyclic targets if
// the graph has a cycle.
func (g *Graph) TopoSort() ([]string, error) {
	if cyclic := g.Cycle(); cyclic != nil {
		return nil, fmt.Errorf("dependency cycle involving %v", cyclic)
	}

	indegree := g.indegrees()
	ready := g.zeroIndegree(indegree)
	sort.Strings(ready)

	order := make([]string, 0, len(g.nodes))
	for len(ready) > 0 {
		id := ready[0]
		ready = ready[1:]
		order = append(order, id)

		var unlocked []string
		for _, child := range g.children[id] {
			indegree[child]--
			if indegree[child] == 0 {
				unlocked = append(unlocked, child)
			}
		}
		sort.Strings(unlocked)
		ready = mergeSorted(ready, unlocked)
	}
	return order, nil
}

// Levels groups targets by build stage: level 0 has no dependencies, and
// every target at level N only depends on targets in earlier levels.
// Targets within a level are independent of each other.
func (g *Graph) Levels() ([][]string, error) {
	if cyclic := g.Cycle(); cyclic != nil {
		return nil, fmt.Errorf("dependency cycle involving %v", cyclic)
	}

	indegree := g.indegrees()
	current := g.zeroIndegree(indegree)
	sort.Strings(current)

	var levels [][]string
	for len(current) > 0 {
		levels = append(levels, current)
		var next []string
		for _, id := range current {
			for _, child := range g.children[id] {
				indegree[child]--
				if indegree[child] == 0 {
					next = append(next, child)
				}
			}
		}
		sort.Strings(next)
		current = next
	}
	return levels, nil
}

func (g *Graph) indegrees() map[string]int {
	indegree := make(map[string]int, len(g.nodes))
	for id := range g.nodes {
		indegree[id] = len(g.parents[id])
	}
	return indegree
}

func (g *Graph) zeroIndegree(indegree map[string]int) []string {
	var ids []string
	for id, deg := range indegree {
		if deg == 0 {
			ids = append(ids, id)
		}
	}
	return ids
}

func mergeSorted(a, b []string) []string {
	out := make([]string, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		if a[i] <= b[j] {
			out = append(out, a[i])
			i++
		} else {
			out = append(out, b[j])
			j++
		}
	}
	out = append(out, a[i:]...)
	out = append(out, b[j:]...)
	return out
}

func contains(slice []string, s string) bool {
	for _, item := range slice {
		if item == s {
			return true
		}
	}
	return false
}
