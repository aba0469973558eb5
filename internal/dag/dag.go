package dag

import (
	"fmt"
	"slices"
	"strings"
)

// New creates and returns an initialized, empty Graph.
func New() *Graph {
	return &Graph{
		nodes: make(map[string]*node),
	}
}

// AddNode adds a new node with the given ID to the graph. If a node with
// the same ID already exists, the function does nothing.
func (g *Graph) AddNode(id string) {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	if _, ok := g.nodes[id]; ok {
		return
	}

	g.nodes[id] = &node{
		id:         id,
		deps:       make(map[string]*node),
		dependents: make(map[string]*node),
	}
}

// AddEdge records that `fromID` depends on `toID`. A node may depend on
// itself. An error is returned if either node does not exist.
func (g *Graph) AddEdge(fromID, toID string) error {
	g.mutex.Lock()
	defer g.mutex.Unlock()

	fromNode, ok := g.nodes[fromID]
	if !ok {
		return fmt.Errorf("source node not found: %s", fromID)
	}

	toNode, ok := g.nodes[toID]
	if !ok {
		return fmt.Errorf("destination node not found: %s", toID)
	}

	fromNode.deps[toID] = toNode
	toNode.dependents[fromID] = fromNode

	return nil
}

// Dependencies returns the sorted IDs of the nodes the given node depends on.
func (g *Graph) Dependencies(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.deps), nil
}

// Dependents returns the sorted IDs of the nodes that depend on the given node.
func (g *Graph) Dependents(id string) ([]string, error) {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	n, ok := g.nodes[id]
	if !ok {
		return nil, fmt.Errorf("node not found: %s", id)
	}
	return sortedKeys(n.dependents), nil
}

// Cycles returns one cycle per strongly connected component that contains
// one: a component of two or more nodes, or a single node that depends on
// itself. Each cycle starts at the component's smallest ID and lists nodes in
// dependency order; the last node depends on the first.
func (g *Graph) Cycles() [][]string {
	g.mutex.RLock()
	defer g.mutex.RUnlock()

	var cycles [][]string
	for _, comp := range g.components() {
		start := comp[0]
		if len(comp) == 1 {
			if _, self := g.nodes[start].deps[start]; !self {
				continue
			}
		}
		members := make(map[string]bool, len(comp))
		for _, id := range comp {
			members[id] = true
		}
		cycles = append(cycles, g.cyclePath(start, members))
	}
	return cycles
}

// components partitions the graph with Tarjan's algorithm. Members of each
// component are sorted, and components are ordered by their smallest member.
func (g *Graph) components() [][]string {
	index := 0
	indices := make(map[string]int, len(g.nodes))
	lowlink := make(map[string]int, len(g.nodes))
	onStack := make(map[string]bool, len(g.nodes))
	var stack []string
	var comps [][]string

	var connect func(id string)
	connect = func(id string) {
		indices[id] = index
		lowlink[id] = index
		index++
		stack = append(stack, id)
		onStack[id] = true

		for _, next := range sortedKeys(g.nodes[id].deps) {
			if _, seen := indices[next]; !seen {
				connect(next)
				lowlink[id] = min(lowlink[id], lowlink[next])
			} else if onStack[next] {
				lowlink[id] = min(lowlink[id], indices[next])
			}
		}

		if lowlink[id] == indices[id] {
			var comp []string
			for {
				top := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				onStack[top] = false
				comp = append(comp, top)
				if top == id {
					break
				}
			}
			slices.Sort(comp)
			comps = append(comps, comp)
		}
	}

	for _, id := range sortedKeys(g.nodes) {
		if _, seen := indices[id]; !seen {
			connect(id)
		}
	}

	slices.SortFunc(comps, func(a, b []string) int {
		return strings.Compare(a[0], b[0])
	})
	return comps
}

// cyclePath walks from start through members until it returns to start,
// always trying the smallest neighbour first.
func (g *Graph) cyclePath(start string, members map[string]bool) []string {
	visited := make(map[string]bool, len(members))
	var path []string

	var walk func(id string) bool
	walk = func(id string) bool {
		path = append(path, id)
		visited[id] = true
		for _, next := range sortedKeys(g.nodes[id].deps) {
			if next == start {
				return true
			}
			if members[next] && !visited[next] && walk(next) {
				return true
			}
		}
		path = path[:len(path)-1]
		return false
	}

	walk(start)
	return path
}

func sortedKeys(m map[string]*node) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}
