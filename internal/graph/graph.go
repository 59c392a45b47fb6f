// # internal/graph/graph.go
package graph

import (
	"sort"
	"sync"

	"codeprof/internal/analyzer"
)

// Graph is the project-wide caller→callee/renderer graph merged from
// per-file dependency graphs. Node kinds follow the declaring file,
// last write wins on conflict.
type Graph struct {
	mu sync.RWMutex

	nodes map[string]string                              // name -> kind
	edges map[string]map[string]*analyzer.DependencyEdge // from -> to -> edge
}

func New() *Graph {
	return &Graph{
		nodes: make(map[string]string),
		edges: make(map[string]map[string]*analyzer.DependencyEdge),
	}
}

// MergeFile folds one file's dependency graph into the project graph.
// Per-pair call counts are summed across files.
func (g *Graph) MergeFile(deps analyzer.DependencyGraph) {
	g.mu.Lock()
	defer g.mu.Unlock()

	for _, fn := range deps.Functions {
		g.nodes[fn.Name] = fn.Kind
	}
	for _, edge := range deps.Edges {
		targets, ok := g.edges[edge.From]
		if !ok {
			targets = make(map[string]*analyzer.DependencyEdge)
			g.edges[edge.From] = targets
		}
		if existing, ok := targets[edge.To]; ok {
			existing.Calls += edge.Calls
			continue
		}
		copied := edge
		targets[edge.To] = &copied
	}
}

func (g *Graph) NodeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.nodes)
}

func (g *Graph) EdgeCount() int {
	g.mu.RLock()
	defer g.mu.RUnlock()
	count := 0
	for _, targets := range g.edges {
		count += len(targets)
	}
	return count
}

// NodeKind returns the declared kind of a node, falling back to helper for
// names only seen as edge targets.
func (g *Graph) NodeKind(name string) string {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if kind, ok := g.nodes[name]; ok {
		return kind
	}
	return analyzer.KindHelper
}

// Nodes returns all declared nodes sorted by name.
func (g *Graph) Nodes() []analyzer.FunctionNode {
	g.mu.RLock()
	defer g.mu.RUnlock()

	names := make([]string, 0, len(g.nodes))
	for name := range g.nodes {
		names = append(names, name)
	}
	sort.Strings(names)

	nodes := make([]analyzer.FunctionNode, 0, len(names))
	for _, name := range names {
		nodes = append(nodes, analyzer.FunctionNode{Name: name, Kind: g.nodes[name]})
	}
	return nodes
}

// Edges returns all edges sorted by (from, to).
func (g *Graph) Edges() []analyzer.DependencyEdge {
	g.mu.RLock()
	defer g.mu.RUnlock()

	edges := make([]analyzer.DependencyEdge, 0)
	for _, targets := range g.edges {
		for _, edge := range targets {
			edges = append(edges, *edge)
		}
	}
	sort.Slice(edges, func(i, j int) bool {
		if edges[i].From != edges[j].From {
			return edges[i].From < edges[j].From
		}
		return edges[i].To < edges[j].To
	})
	return edges
}

// NodeMetrics carries fan-in/fan-out for one node.
type NodeMetrics struct {
	FanIn  int
	FanOut int
}

// ComputeNodeMetrics returns fan-in/fan-out per node, counting each distinct
// edge once regardless of call multiplicity.
func (g *Graph) ComputeNodeMetrics() map[string]NodeMetrics {
	g.mu.RLock()
	defer g.mu.RUnlock()

	metrics := make(map[string]NodeMetrics)
	for from, targets := range g.edges {
		m := metrics[from]
		m.FanOut += len(targets)
		metrics[from] = m
		for to := range targets {
			tm := metrics[to]
			tm.FanIn++
			metrics[to] = tm
		}
	}
	return metrics
}

// DetectCycles finds call cycles via DFS. Each cycle is reported once,
// rotated so its lexically smallest node comes first.
func (g *Graph) DetectCycles() [][]string {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var cycles [][]string
	seen := make(map[string]bool)

	starts := make([]string, 0, len(g.edges))
	for from := range g.edges {
		starts = append(starts, from)
	}
	sort.Strings(starts)

	state := make(map[string]int) // 0 unvisited, 1 on stack, 2 done
	var stack []string

	var visit func(node string)
	visit = func(node string) {
		state[node] = 1
		stack = append(stack, node)

		targets := make([]string, 0, len(g.edges[node]))
		for to := range g.edges[node] {
			targets = append(targets, to)
		}
		sort.Strings(targets)

		for _, to := range targets {
			switch state[to] {
			case 0:
				visit(to)
			case 1:
				cycle := extractCycle(stack, to)
				key := cycleKey(cycle)
				if !seen[key] {
					seen[key] = true
					cycles = append(cycles, cycle)
				}
			}
		}

		stack = stack[:len(stack)-1]
		state[node] = 2
	}

	for _, start := range starts {
		if state[start] == 0 {
			visit(start)
		}
	}
	return cycles
}

func extractCycle(stack []string, entry string) []string {
	start := 0
	for i, node := range stack {
		if node == entry {
			start = i
			break
		}
	}
	cycle := make([]string, len(stack)-start)
	copy(cycle, stack[start:])
	return rotateToSmallest(cycle)
}

func rotateToSmallest(cycle []string) []string {
	if len(cycle) == 0 {
		return cycle
	}
	smallest := 0
	for i, node := range cycle {
		if node < cycle[smallest] {
			smallest = i
		}
	}
	rotated := make([]string, 0, len(cycle))
	rotated = append(rotated, cycle[smallest:]...)
	rotated = append(rotated, cycle[:smallest]...)
	return rotated
}

func cycleKey(cycle []string) string {
	key := ""
	for _, node := range cycle {
		key += node + "→"
	}
	return key
}
