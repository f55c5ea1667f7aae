// Package depgraph builds the dependency DAG over a batch of assets and
// produces a level order safe for concurrent processing.
package depgraph

import (
	"fmt"
	"sort"
	"strings"
)

// CycleError reports that the graph is not a DAG. Members holds the nodes
// on the offending cycle, sorted.
type CycleError struct {
	Members []string
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("dependency cycle among [%s]", strings.Join(e.Members, ", "))
}

// Graph is a directed graph over logical names. An edge A→B means "A
// references B": B must be finalized before A.
type Graph struct {
	nodes map[string]struct{}
	deps  map[string]map[string]struct{} // node → nodes it references
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]struct{}),
		deps:  make(map[string]map[string]struct{}),
	}
}

// Add registers a node with no edges. Adding twice is a no-op.
func (g *Graph) Add(node string) {
	g.nodes[node] = struct{}{}
}

// AddEdge records that from references to. Both endpoints are registered.
// Self-edges are rejected.
func (g *Graph) AddEdge(from, to string) error {
	if from == to {
		return fmt.Errorf("self-edge on %s", from)
	}
	g.Add(from)
	g.Add(to)
	if g.deps[from] == nil {
		g.deps[from] = make(map[string]struct{})
	}
	g.deps[from][to] = struct{}{}
	return nil
}

// Levels returns the nodes grouped into dependency levels: every node in
// level i references only nodes in levels < i. Nodes within a level are
// mutually independent and may be processed concurrently. Returns a
// *CycleError when the graph contains a cycle.
//
// Level membership is sorted for reproducible traversal, though callers
// must not rely on tie-breaking order for correctness.
func (g *Graph) Levels() ([][]string, error) {
	remaining := make(map[string]int, len(g.nodes)) // node → unfinalized dep count
	dependents := make(map[string][]string)
	for node := range g.nodes {
		remaining[node] = len(g.deps[node])
		for dep := range g.deps[node] {
			dependents[dep] = append(dependents[dep], node)
		}
	}

	frontier := make([]string, 0, len(g.nodes))
	for node, n := range remaining {
		if n == 0 {
			frontier = append(frontier, node)
		}
	}

	var levels [][]string
	done := 0
	for len(frontier) > 0 {
		sort.Strings(frontier)
		levels = append(levels, frontier)
		done += len(frontier)

		var next []string
		for _, node := range frontier {
			for _, dependent := range dependents[node] {
				remaining[dependent]--
				if remaining[dependent] == 0 {
					next = append(next, dependent)
				}
			}
		}
		frontier = next
	}

	if done != len(g.nodes) {
		return nil, &CycleError{Members: g.cycleMembers(remaining)}
	}
	return levels, nil
}

// cycleMembers extracts one cycle from the residual subgraph of nodes that
// never reached zero remaining dependencies, via DFS recursion-stack
// membership.
func (g *Graph) cycleMembers(remaining map[string]int) []string {
	residual := make(map[string]struct{})
	for node, n := range remaining {
		if n > 0 {
			residual[node] = struct{}{}
		}
	}

	const (
		unvisited = iota
		onStack
		finished
	)
	state := make(map[string]int, len(residual))
	var stack []string
	var cycle []string

	var visit func(node string) bool
	visit = func(node string) bool {
		state[node] = onStack
		stack = append(stack, node)
		for dep := range g.deps[node] {
			if _, ok := residual[dep]; !ok {
				continue
			}
			switch state[dep] {
			case onStack:
				// Found it: everything from dep's stack position onward.
				for i := len(stack) - 1; i >= 0; i-- {
					cycle = append(cycle, stack[i])
					if stack[i] == dep {
						return true
					}
				}
			case unvisited:
				if visit(dep) {
					return true
				}
			}
		}
		stack = stack[:len(stack)-1]
		state[node] = finished
		return false
	}

	ordered := make([]string, 0, len(residual))
	for node := range residual {
		ordered = append(ordered, node)
	}
	sort.Strings(ordered)
	for _, node := range ordered {
		if state[node] == unvisited && visit(node) {
			break
		}
	}
	sort.Strings(cycle)
	return cycle
}
