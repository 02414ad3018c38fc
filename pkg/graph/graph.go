package graph

import (
	"errors"
	"slices"
)

var (
	// ErrInvalidNodeID is returned by [Graph.SetNode] when the node ID is
	// empty. All nodes must have non-empty identifiers.
	ErrInvalidNodeID = errors.New("node ID must not be empty")

	// ErrUnknownNode is returned by [Graph.SetParent] when either the child
	// or the parent does not exist.
	ErrUnknownNode = errors.New("unknown node")

	// ErrUnknownSourceNode is returned by [Graph.SetEdge] when the From node
	// does not exist.
	ErrUnknownSourceNode = errors.New("unknown source node")

	// ErrUnknownTargetNode is returned by [Graph.SetEdge] when the To node
	// does not exist.
	ErrUnknownTargetNode = errors.New("unknown target node")

	// ErrParentCycle is returned by [Graph.SetParent] when the assignment
	// would make a node its own ancestor.
	ErrParentCycle = errors.New("parent assignment would create a cycle")
)

// EdgeKey identifies an edge. Two edges between the same endpoints are
// distinct when their names differ, which makes the graph a multigraph.
type EdgeKey struct {
	From string
	To   string
	Name string
}

// Edge is a directed, named connection carrying a value of type E.
type Edge[E any] struct {
	EdgeKey
	Value E
}

type nodeEntry[N any] struct {
	value    N
	parent   string
	children []string
}

// Graph is an ordered, compound, directed multigraph. Nodes carry a value of
// type N and may be nested under a parent node; edges carry a value of type
// E and are keyed by (from, to, name).
//
// Iteration order is insertion order for both nodes and edges. Replacing the
// value of an existing node or edge keeps its position.
//
// The zero value is not usable - use [New]. Graph is not safe for concurrent
// use without external synchronization.
type Graph[N, E any] struct {
	nodes     map[string]*nodeEntry[N]
	nodeOrder []string
	roots     []string

	edges     map[EdgeKey]*Edge[E]
	edgeOrder []EdgeKey
	outgoing  map[string][]EdgeKey
	incoming  map[string][]EdgeKey
}

// New creates an empty graph.
func New[N, E any]() *Graph[N, E] {
	return &Graph[N, E]{
		nodes:    make(map[string]*nodeEntry[N]),
		edges:    make(map[EdgeKey]*Edge[E]),
		outgoing: make(map[string][]EdgeKey),
		incoming: make(map[string][]EdgeKey),
	}
}

// SetNode adds a node or replaces the value of an existing one. Replacing a
// value leaves the node's edges, parent and children untouched.
func (g *Graph[N, E]) SetNode(id string, value N) error {
	if id == "" {
		return ErrInvalidNodeID
	}
	if n, ok := g.nodes[id]; ok {
		n.value = value
		return nil
	}
	g.nodes[id] = &nodeEntry[N]{value: value}
	g.nodeOrder = append(g.nodeOrder, id)
	g.roots = append(g.roots, id)
	return nil
}

// Node returns the value stored for id and true, or the zero value and false.
func (g *Graph[N, E]) Node(id string) (N, bool) {
	n, ok := g.nodes[id]
	if !ok {
		var zero N
		return zero, false
	}
	return n.value, true
}

// HasNode reports whether id is a node of the graph.
func (g *Graph[N, E]) HasNode(id string) bool {
	_, ok := g.nodes[id]
	return ok
}

// RemoveNode deletes a node together with every edge incident to it. Its
// children are detached and become top-level nodes. Reports whether the node
// existed.
func (g *Graph[N, E]) RemoveNode(id string) bool {
	n, ok := g.nodes[id]
	if !ok {
		return false
	}
	for _, k := range slices.Clone(g.incoming[id]) {
		g.RemoveEdge(k.From, k.To, k.Name)
	}
	for _, k := range slices.Clone(g.outgoing[id]) {
		g.RemoveEdge(k.From, k.To, k.Name)
	}
	for _, c := range n.children {
		g.nodes[c].parent = ""
		g.roots = append(g.roots, c)
	}
	g.detach(id, n)

	delete(g.nodes, id)
	delete(g.incoming, id)
	delete(g.outgoing, id)
	g.nodeOrder = slices.DeleteFunc(g.nodeOrder, func(s string) bool { return s == id })
	g.roots = slices.DeleteFunc(g.roots, func(s string) bool { return s == id })
	return true
}

// SetParent nests child under parent. An empty parent moves child to the top
// level. Returns ErrUnknownNode when either node is missing and
// ErrParentCycle when parent is child itself or one of its descendants.
func (g *Graph[N, E]) SetParent(child, parent string) error {
	c, ok := g.nodes[child]
	if !ok {
		return ErrUnknownNode
	}
	if parent != "" {
		if _, ok := g.nodes[parent]; !ok {
			return ErrUnknownNode
		}
		for p := parent; p != ""; p = g.nodes[p].parent {
			if p == child {
				return ErrParentCycle
			}
		}
	}
	if c.parent == parent {
		return nil
	}
	g.detach(child, c)
	c.parent = parent
	if parent == "" {
		g.roots = append(g.roots, child)
	} else {
		p := g.nodes[parent]
		p.children = append(p.children, child)
	}
	return nil
}

func (g *Graph[N, E]) detach(id string, n *nodeEntry[N]) {
	if n.parent == "" {
		g.roots = slices.DeleteFunc(g.roots, func(s string) bool { return s == id })
		return
	}
	p := g.nodes[n.parent]
	p.children = slices.DeleteFunc(p.children, func(s string) bool { return s == id })
}

// Parent returns the parent of id and true, or "" and false when id is a
// top-level node or does not exist.
func (g *Graph[N, E]) Parent(id string) (string, bool) {
	n, ok := g.nodes[id]
	if !ok || n.parent == "" {
		return "", false
	}
	return n.parent, true
}

// Children returns the nodes nested directly under id, in the order they
// were attached. An empty id returns the top-level nodes.
func (g *Graph[N, E]) Children(id string) []string {
	if id == "" {
		return slices.Clone(g.roots)
	}
	n, ok := g.nodes[id]
	if !ok {
		return nil
	}
	return slices.Clone(n.children)
}

// Nodes returns all node IDs in insertion order.
func (g *Graph[N, E]) Nodes() []string { return slices.Clone(g.nodeOrder) }

// NodeCount returns the number of nodes in the graph.
func (g *Graph[N, E]) NodeCount() int { return len(g.nodes) }

// SetEdge adds an edge or replaces the value of the edge with the same key.
// Both endpoints must already exist.
func (g *Graph[N, E]) SetEdge(from, to, name string, value E) error {
	if _, ok := g.nodes[from]; !ok {
		return ErrUnknownSourceNode
	}
	if _, ok := g.nodes[to]; !ok {
		return ErrUnknownTargetNode
	}
	k := EdgeKey{From: from, To: to, Name: name}
	if e, ok := g.edges[k]; ok {
		e.Value = value
		return nil
	}
	g.edges[k] = &Edge[E]{EdgeKey: k, Value: value}
	g.edgeOrder = append(g.edgeOrder, k)
	g.outgoing[from] = append(g.outgoing[from], k)
	g.incoming[to] = append(g.incoming[to], k)
	return nil
}

// Edge returns the edge with the given key and true, or a zero edge and
// false when it does not exist.
func (g *Graph[N, E]) Edge(from, to, name string) (Edge[E], bool) {
	e, ok := g.edges[EdgeKey{From: from, To: to, Name: name}]
	if !ok {
		return Edge[E]{}, false
	}
	return *e, true
}

// HasEdge reports whether the edge with the given key exists.
func (g *Graph[N, E]) HasEdge(from, to, name string) bool {
	_, ok := g.edges[EdgeKey{From: from, To: to, Name: name}]
	return ok
}

// RemoveEdge deletes the edge with the given key. Reports whether it existed.
func (g *Graph[N, E]) RemoveEdge(from, to, name string) bool {
	k := EdgeKey{From: from, To: to, Name: name}
	if _, ok := g.edges[k]; !ok {
		return false
	}
	delete(g.edges, k)
	match := func(o EdgeKey) bool { return o == k }
	g.edgeOrder = slices.DeleteFunc(g.edgeOrder, match)
	g.outgoing[from] = slices.DeleteFunc(g.outgoing[from], match)
	g.incoming[to] = slices.DeleteFunc(g.incoming[to], match)
	return true
}

// Edges returns copies of all edges in insertion order.
func (g *Graph[N, E]) Edges() []Edge[E] { return g.collect(g.edgeOrder) }

// EdgeCount returns the number of edges in the graph.
func (g *Graph[N, E]) EdgeCount() int { return len(g.edges) }

// InEdges returns the edges ending at id, in insertion order.
func (g *Graph[N, E]) InEdges(id string) []Edge[E] { return g.collect(g.incoming[id]) }

// OutEdges returns the edges starting at id, in insertion order.
func (g *Graph[N, E]) OutEdges(id string) []Edge[E] { return g.collect(g.outgoing[id]) }

// NodeEdges returns every edge incident to id: incoming edges first, then
// outgoing edges. A self-loop appears once.
func (g *Graph[N, E]) NodeEdges(id string) []Edge[E] {
	keys := slices.Clone(g.incoming[id])
	for _, k := range g.outgoing[id] {
		if k.From != k.To {
			keys = append(keys, k)
		}
	}
	return g.collect(keys)
}

func (g *Graph[N, E]) collect(keys []EdgeKey) []Edge[E] {
	out := make([]Edge[E], 0, len(keys))
	for _, k := range keys {
		out = append(out, *g.edges[k])
	}
	return out
}
