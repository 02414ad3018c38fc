package morph

import "context"

// Renderer lays out and draws a snapshot of the display graph. It is called
// after every successful interaction.
type Renderer interface {
	Render(ctx context.Context, s *Snapshot) error
}

// RendererFunc adapts a function to [Renderer].
type RendererFunc func(ctx context.Context, s *Snapshot) error

func (f RendererFunc) Render(ctx context.Context, s *Snapshot) error { return f(ctx, s) }

// Decorator overlays interactive affordances on rendered groups once the
// renderer's own transitions have settled. It runs on a timer goroutine and
// receives the names of the rendered groups.
type Decorator interface {
	Decorate(groups []string)
}

// DecoratorFunc adapts a function to [Decorator].
type DecoratorFunc func(groups []string)

func (f DecoratorFunc) Decorate(groups []string) { f(groups) }

// Snapshot is the render handoff: an immutable copy of the display graph.
type Snapshot struct {
	Session string         `json:"session"`
	Nodes   []SnapshotNode `json:"nodes"`
	Edges   []SnapshotEdge `json:"edges"`
}

// SnapshotNode is a rendered node. Parent is the rendered cluster holding it,
// empty at the top level.
type SnapshotNode struct {
	Name     string `json:"name"`
	Parent   string `json:"parent,omitempty"`
	Group    bool   `json:"group"`
	Expanded bool   `json:"expanded"`
	Payload
}

// SnapshotEdge is a rendered edge.
type SnapshotEdge struct {
	From        string `json:"from"`
	To          string `json:"to"`
	Label       string `json:"label,omitempty"`
	Interpolate string `json:"interpolate,omitempty"`
}

// Node returns the rendered node called name.
func (s *Snapshot) Node(name string) (SnapshotNode, bool) {
	for _, n := range s.Nodes {
		if n.Name == name {
			return n, true
		}
	}
	return SnapshotNode{}, false
}

// Children returns the nodes nested directly in parent, in snapshot order.
// An empty parent returns the top-level nodes.
func (s *Snapshot) Children(parent string) []SnapshotNode {
	var out []SnapshotNode
	for _, n := range s.Nodes {
		if n.Parent == parent {
			out = append(out, n)
		}
	}
	return out
}

// Groups returns the names of all rendered groups.
func (s *Snapshot) Groups() []string {
	var out []string
	for _, n := range s.Nodes {
		if n.Group {
			out = append(out, n.Name)
		}
	}
	return out
}

// Clusters returns the names of rendered groups that are expanded, which
// renderers draw as containers rather than nodes.
func (s *Snapshot) Clusters() []string {
	var out []string
	for _, n := range s.Nodes {
		if n.Group && n.Expanded {
			out = append(out, n.Name)
		}
	}
	return out
}

func (m *Morpher) snapshot() *Snapshot {
	s := &Snapshot{
		Session: m.session,
		Nodes:   make([]SnapshotNode, 0, m.display.NodeCount()),
		Edges:   make([]SnapshotEdge, 0, m.display.EdgeCount()),
	}
	for _, name := range m.display.Nodes() {
		n, _ := m.prime.Lookup(name)
		payload, _ := m.display.Payload(name)
		parent, _ := m.display.Parent(name)
		s.Nodes = append(s.Nodes, SnapshotNode{
			Name:     name,
			Parent:   parent,
			Group:    n.IsGroup(),
			Expanded: n.IsGroup() && !n.collapsed,
			Payload:  payload,
		})
	}
	for _, e := range m.display.Edges() {
		s.Edges = append(s.Edges, SnapshotEdge{
			From:        e.From,
			To:          e.To,
			Label:       e.Value.Label,
			Interpolate: e.Value.Interpolate,
		})
	}
	return s
}
