package morph

import (
	"io"
	"slices"
	"testing"

	"github.com/charmbracelet/log"
)

func newTestMorpher(t *testing.T, opts ...Option) *Morpher {
	t.Helper()
	opts = append([]Option{WithLogger(log.New(io.Discard)), WithSession("test")}, opts...)
	m, err := New(opts...)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { _ = m.Close() })
	return m
}

func mustGroup(t *testing.T, m *Morpher, path string) *Node {
	t.Helper()
	n, err := m.DeclareGroupPath(path)
	if err != nil {
		t.Fatalf("DeclareGroupPath(%q) error: %v", path, err)
	}
	return n
}

func mustLeaf(t *testing.T, m *Morpher, group, name string) *Node {
	t.Helper()
	n, err := m.DeclareLeaf(group, name, Payload{})
	if err != nil {
		t.Fatalf("DeclareLeaf(%q, %q) error: %v", group, name, err)
	}
	return n
}

func mustEdge(t *testing.T, m *Morpher, from, to, label string) {
	t.Helper()
	if err := m.DeclareEdge(from, to, label); err != nil {
		t.Fatalf("DeclareEdge(%q, %q) error: %v", from, to, err)
	}
}

func names(nodes []*Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.Name
	}
	return out
}

func TestAncestorChain(t *testing.T) {
	m := newTestMorpher(t)
	mustGroup(t, m, "_a/_b")
	leaf := mustLeaf(t, m, "_a/_b", "n1")

	tests := []struct {
		name string
		want []string
	}{
		{"_root", nil},
		{"_a", []string{"_root"}},
		{"_a/_b", []string{"_a", "_root"}},
		{"n1", []string{"_a/_b", "_a", "_root"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			n, ok := m.Lookup(tt.name)
			if !ok {
				t.Fatalf("Lookup(%q) failed", tt.name)
			}
			if got := names(n.AncestorChain()); !slices.Equal(got, tt.want) {
				t.Errorf("AncestorChain() = %v, want %v", got, tt.want)
			}
		})
	}

	if leaf.Parent().Name != "_a/_b" {
		t.Errorf("Parent() = %q, want _a/_b", leaf.Parent().Name)
	}
	if m.Prime().Root().Parent() != nil {
		t.Error("root Parent() should be nil")
	}
}

func TestIsAncestorOf(t *testing.T) {
	m := newTestMorpher(t)
	mustGroup(t, m, "_a/_b")
	mustGroup(t, m, "_c")
	mustLeaf(t, m, "_a/_b", "n1")

	lookup := func(name string) *Node {
		n, _ := m.Lookup(name)
		return n
	}

	tests := []struct {
		anc, desc string
		want      bool
	}{
		{"_root", "n1", true},
		{"_a", "n1", true},
		{"_a/_b", "n1", true},
		{"_a", "_a/_b", true},
		{"_c", "n1", false},
		{"_a/_b", "_a", false},
		{"_a", "_a", false},
		{"n1", "_a", false},
		{"_root", "_root", false},
	}

	for _, tt := range tests {
		t.Run(tt.anc+"->"+tt.desc, func(t *testing.T) {
			if got := lookup(tt.anc).IsAncestorOf(lookup(tt.desc)); got != tt.want {
				t.Errorf("%s.IsAncestorOf(%s) = %v, want %v", tt.anc, tt.desc, got, tt.want)
			}
		})
	}
}

func TestChildRegistration(t *testing.T) {
	m := newTestMorpher(t)
	mustGroup(t, m, "_a")
	mustLeaf(t, m, "_a", "x")
	mustGroup(t, m, "_a/_b")
	mustLeaf(t, m, "_a", "y")
	mustGroup(t, m, "_a/_c")

	a, _ := m.Lookup("_a")
	if got := names(a.ChildGroups()); !slices.Equal(got, []string{"_a/_b", "_a/_c"}) {
		t.Errorf("ChildGroups() = %v", got)
	}
	if got := names(a.ChildLeaves()); !slices.Equal(got, []string{"x", "y"}) {
		t.Errorf("ChildLeaves() = %v", got)
	}
	if got := names(a.Children()); !slices.Equal(got, []string{"_a/_b", "_a/_c", "x", "y"}) {
		t.Errorf("Children() = %v", got)
	}
}

func TestNodeInitialState(t *testing.T) {
	m := newTestMorpher(t)
	g := mustGroup(t, m, "_a")
	leaf := mustLeaf(t, m, "_a", "x")
	root := m.Prime().Root()

	if !root.IsRoot() || !root.IsGroup() || root.Hidden() || !root.Collapsed() {
		t.Errorf("root state: root=%v group=%v hidden=%v collapsed=%v",
			root.IsRoot(), root.IsGroup(), root.Hidden(), root.Collapsed())
	}
	if !g.Collapsed() || !g.Hidden() || g.Rendered() {
		t.Errorf("group state: collapsed=%v hidden=%v rendered=%v", g.Collapsed(), g.Hidden(), g.Rendered())
	}
	if leaf.Collapsed() || !leaf.Hidden() || leaf.IsGroup() {
		t.Errorf("leaf state: collapsed=%v hidden=%v group=%v", leaf.Collapsed(), leaf.Hidden(), leaf.IsGroup())
	}
	if KindGroup.String() != "group" || KindLeaf.String() != "leaf" {
		t.Errorf("Kind strings = %q, %q", KindGroup, KindLeaf)
	}
}
