package morph

import (
	"github.com/matzehuels/graphmorph/pkg/errors"
)

// Project rebuilds the display graph from the node flags of the prime graph
// alone: every visible node below the root, clustered under its parent when
// the parent is rendered, and every prime edge whose endpoints are both
// stable, merged by endpoint pair.
func (m *Morpher) Project() *Display {
	d := newDisplay()
	for _, n := range m.prime.nodes[1:] {
		if n.hidden {
			continue
		}
		cluster := ""
		if p := n.Parent(); !p.IsRoot() {
			cluster = p.Name
		}
		d.put(n.Name, n.Payload, cluster)
	}
	for _, e := range m.prime.Edges() {
		a, _ := m.prime.Lookup(e.From)
		b, _ := m.prime.Lookup(e.To)
		if a.Stable() && b.Stable() {
			d.link(e.From, e.To, m.prime.pairLabel(e.From, e.To))
		}
	}
	return d
}

// Verify checks that node flags follow the hierarchy and that the display
// graph matches its projection. It returns an INCONSISTENT_STATE error
// describing the first discrepancy.
func (m *Morpher) Verify() error {
	root := m.prime.Root()
	if root.hidden || root.rendered {
		return inconsistent("root %q must be visible and never rendered", root.Name)
	}
	for _, n := range m.prime.nodes[1:] {
		p := n.Parent()
		want := p.hidden || p.collapsed
		if n.hidden != want {
			return inconsistent("node %q: hidden=%t but parent %q is hidden=%t collapsed=%t",
				n.Name, n.hidden, p.Name, p.hidden, p.collapsed)
		}
		if n.rendered == n.hidden {
			return inconsistent("node %q: rendered=%t hidden=%t", n.Name, n.rendered, n.hidden)
		}
		if n.rendered != m.display.Has(n.Name) {
			return inconsistent("node %q: rendered flag disagrees with the display graph", n.Name)
		}
	}

	for _, e := range m.display.Edges() {
		a, okA := m.prime.Lookup(e.From)
		b, okB := m.prime.Lookup(e.To)
		if !okA || !okB || !m.display.Has(e.From) || !m.display.Has(e.To) {
			return inconsistent("display edge %s→%s has an endpoint that is not rendered", e.From, e.To)
		}
		if !a.Stable() || !b.Stable() {
			return inconsistent("display edge %s→%s touches an expanded group", e.From, e.To)
		}
	}

	want := m.Project()
	if name, ok := m.display.sameNodes(want); !ok {
		return inconsistent("display node %q differs from its projection", name)
	}
	if k, ok := m.display.sameEdges(want); !ok {
		return inconsistent("display edge %s→%s differs from its projection", k.From, k.To)
	}
	return nil
}

func inconsistent(format string, args ...any) error {
	return errors.New(errors.ErrCodeInconsistent, format, args...)
}
