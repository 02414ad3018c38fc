package morph

import (
	"reflect"

	"github.com/matzehuels/graphmorph/pkg/graph"
)

// Display is the materialized part of the hierarchy: the nodes a renderer
// draws, clustered under their rendered parents, and the edges between them.
// Display edges are keyed by endpoint pair.
//
// A Display obtained from a [Morpher] must be treated as read-only.
type Display struct {
	g *graph.Graph[Payload, EdgeAttrs]
}

func newDisplay() *Display {
	return &Display{g: graph.New[Payload, EdgeAttrs]()}
}

// Has reports whether name is rendered.
func (d *Display) Has(name string) bool { return d.g.HasNode(name) }

// Payload returns a copy of the rendered payload of name.
func (d *Display) Payload(name string) (Payload, bool) {
	p, ok := d.g.Node(name)
	if !ok {
		return Payload{}, false
	}
	return p.Clone(), true
}

// Parent returns the rendered cluster containing name, if any.
func (d *Display) Parent(name string) (string, bool) { return d.g.Parent(name) }

// Children returns the nodes rendered inside name. An empty name returns the
// top-level nodes.
func (d *Display) Children(name string) []string { return d.g.Children(name) }

// Nodes returns the rendered node names in materialization order.
func (d *Display) Nodes() []string { return d.g.Nodes() }

// NodeCount returns the number of rendered nodes.
func (d *Display) NodeCount() int { return d.g.NodeCount() }

// Edges returns the rendered edges in materialization order.
func (d *Display) Edges() []graph.Edge[EdgeAttrs] { return d.g.Edges() }

// EdgeCount returns the number of rendered edges.
func (d *Display) EdgeCount() int { return d.g.EdgeCount() }

// HasEdge reports whether an edge from → to is rendered.
func (d *Display) HasEdge(from, to string) bool { return d.g.HasEdge(from, to, "") }

// Edge returns the attributes of the rendered edge from → to.
func (d *Display) Edge(from, to string) (EdgeAttrs, bool) {
	e, ok := d.g.Edge(from, to, "")
	return e.Value, ok
}

// put materializes a node with a copy of payload, nested under parent when
// parent is non-empty.
func (d *Display) put(name string, payload Payload, parent string) {
	_ = d.g.SetNode(name, payload.Clone())
	if parent != "" {
		_ = d.g.SetParent(name, parent)
	}
}

// refresh replaces the payload copy of a rendered node in place.
func (d *Display) refresh(name string, payload Payload) {
	if d.g.HasNode(name) {
		_ = d.g.SetNode(name, payload.Clone())
	}
}

// detach drops every edge incident to name.
func (d *Display) detach(name string) {
	for _, e := range d.g.NodeEdges(name) {
		d.g.RemoveEdge(e.From, e.To, e.Name)
	}
}

// remove deletes a node and returns the other ends of its incoming and
// outgoing edges.
func (d *Display) remove(name string) (in, out []string) {
	for _, e := range d.g.InEdges(name) {
		in = append(in, e.From)
	}
	for _, e := range d.g.OutEdges(name) {
		out = append(out, e.To)
	}
	d.g.RemoveNode(name)
	return in, out
}

// link renders the edge from → to, relabelling it if it already exists.
func (d *Display) link(from, to, label string) {
	_ = d.g.SetEdge(from, to, "", EdgeAttrs{Label: label, Interpolate: InterpolateBasis})
}

// sameNodes reports the first node that differs between d and o, comparing
// membership, cluster parent and payload.
func (d *Display) sameNodes(o *Display) (string, bool) {
	for _, n := range o.Nodes() {
		if !d.Has(n) {
			return n, false
		}
	}
	for _, n := range d.Nodes() {
		if !o.Has(n) {
			return n, false
		}
		p1, _ := d.Parent(n)
		p2, _ := o.Parent(n)
		if p1 != p2 {
			return n, false
		}
		a, _ := d.g.Node(n)
		b, _ := o.g.Node(n)
		if !reflect.DeepEqual(a, b) {
			return n, false
		}
	}
	return "", true
}

// sameEdges reports the first edge that differs between d and o, ignoring
// order.
func (d *Display) sameEdges(o *Display) (graph.EdgeKey, bool) {
	for _, e := range d.Edges() {
		other, ok := o.g.Edge(e.From, e.To, e.Name)
		if !ok || other.Value != e.Value {
			return e.EdgeKey, false
		}
	}
	for _, e := range o.Edges() {
		if !d.g.HasEdge(e.From, e.To, e.Name) {
			return e.EdgeKey, false
		}
	}
	return graph.EdgeKey{}, true
}
