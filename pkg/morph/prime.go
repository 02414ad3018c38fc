package morph

import (
	"strings"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/graph"
)

// Prime is the complete hierarchy: an arena of nodes indexed by name and the
// store of literal and derived edges. Nodes and edges are only ever added;
// expanding and collapsing change node flags only.
type Prime struct {
	cfg   Config
	nodes []*Node
	index map[string]int
	store *graph.Graph[int, EdgeAttrs]
}

func newPrime(cfg Config) *Prime {
	p := &Prime{
		cfg:   cfg,
		index: make(map[string]int),
		store: graph.New[int, EdgeAttrs](),
	}
	root := p.add(cfg.RootName, KindGroup, noParent, Payload{Label: cfg.RootName})
	// The root is collapsed until populated so that expanding it reveals
	// the top level.
	root.hidden = false
	return p
}

// add appends a node to the arena and registers it with its parent. Groups
// start collapsed and every node starts hidden unless its parent is
// expanded and visible.
func (p *Prime) add(name string, kind Kind, parent int, payload Payload) *Node {
	n := &Node{
		Name:      name,
		Kind:      kind,
		Payload:   payload,
		collapsed: kind == KindGroup,
		hidden:    true,
		parent:    parent,
		prime:     p,
	}
	idx := len(p.nodes)
	p.nodes = append(p.nodes, n)
	p.index[name] = idx
	_ = p.store.SetNode(name, idx)

	if parent != noParent {
		owner := p.nodes[parent]
		if kind == KindGroup {
			owner.groups = append(owner.groups, idx)
		} else {
			owner.leaves = append(owner.leaves, idx)
		}
		n.hidden = owner.hidden || owner.collapsed
		_ = p.store.SetParent(name, owner.Name)
	}
	return n
}

func (p *Prime) resolve(idx []int) []*Node {
	out := make([]*Node, len(idx))
	for i, j := range idx {
		out[i] = p.nodes[j]
	}
	return out
}

// Root returns the implicit root group.
func (p *Prime) Root() *Node { return p.nodes[0] }

// Lookup returns the node with the given name.
func (p *Prime) Lookup(name string) (*Node, bool) {
	idx, ok := p.index[name]
	if !ok {
		// Groups may be addressed with the root prefix, as in DeclareGroupPath.
		rel, found := strings.CutPrefix(name, p.cfg.RootName+p.cfg.Delimiter)
		if !found {
			return nil, false
		}
		if idx, ok = p.index[rel]; !ok {
			return nil, false
		}
	}
	return p.nodes[idx], true
}

// Nodes returns every node, root first, in declaration order.
func (p *Prime) Nodes() []*Node { return append([]*Node(nil), p.nodes...) }

// Len returns the number of nodes including the root.
func (p *Prime) Len() int { return len(p.nodes) }

// Edges returns every literal and derived edge in declaration order.
func (p *Prime) Edges() []graph.Edge[EdgeAttrs] { return p.store.Edges() }

// EdgeCount returns the number of literal and derived edges.
func (p *Prime) EdgeCount() int { return p.store.EdgeCount() }

// NodeEdges returns the edges incident to name.
func (p *Prime) NodeEdges(name string) []graph.Edge[EdgeAttrs] { return p.store.NodeEdges(name) }

// HasEdge reports whether any edge from → to exists, whatever its label.
func (p *Prime) HasEdge(from, to string) bool {
	for _, e := range p.store.OutEdges(from) {
		if e.To == to {
			return true
		}
	}
	return false
}

// pairLabel joins the non-empty labels of all edges from → to. Derived edges
// are unnamed, so pairs involving a group always get an empty label.
func (p *Prime) pairLabel(from, to string) string {
	var labels []string
	for _, e := range p.store.OutEdges(from) {
		if e.To == to && e.Name != "" {
			labels = append(labels, e.Name)
		}
	}
	return strings.Join(labels, ", ")
}

// segments splits a group path and strips a leading root segment.
func (p *Prime) segments(path string) ([]string, error) {
	if path == p.cfg.RootName {
		return nil, nil
	}
	if err := errors.ValidateGroupPath(path, p.cfg.Delimiter); err != nil {
		return nil, err
	}
	segs := strings.Split(path, p.cfg.Delimiter)
	if segs[0] == p.cfg.RootName {
		segs = segs[1:]
	}
	for _, s := range segs {
		if !strings.HasPrefix(s, p.cfg.Sigil) {
			return nil, errors.New(errors.ErrCodeInvalidPath,
				"segment %q of group path %q must start with %q", s, path, p.cfg.Sigil)
		}
		if s == p.cfg.RootName {
			return nil, errors.New(errors.ErrCodeInvalidPath,
				"group path %q repeats the root name %q", path, p.cfg.RootName)
		}
	}
	return segs, nil
}

// declareGroupPath walks path from the root, creating missing groups. It
// returns the deepest group and the nodes it created.
func (p *Prime) declareGroupPath(path string) (*Node, []*Node, error) {
	segs, err := p.segments(path)
	if err != nil {
		return nil, nil, err
	}

	node := p.Root()
	var created []*Node
	for i, seg := range segs {
		name := strings.Join(segs[:i+1], p.cfg.Delimiter)
		if idx, ok := p.index[name]; ok {
			node = p.nodes[idx]
			continue
		}
		node = p.add(name, KindGroup, p.index[node.Name], Payload{
			Label:           seg,
			Description:     name,
			Style:           StyleCollapsed,
			LabelStyle:      LabelStyleGroup,
			ClusterLabelPos: ClusterLabelTop,
		})
		created = append(created, node)
	}
	return node, created, nil
}

// group resolves an already declared group path.
func (p *Prime) group(path string) (*Node, error) {
	segs, err := p.segments(path)
	if err != nil {
		return nil, err
	}
	if len(segs) == 0 {
		return p.Root(), nil
	}
	name := strings.Join(segs, p.cfg.Delimiter)
	n, ok := p.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeGroupNotFound, "group %q is not declared", path)
	}
	return n, nil
}

func (p *Prime) declareLeaf(groupPath, name string, payload Payload) (*Node, error) {
	if err := errors.ValidateName(name); err != nil {
		return nil, err
	}
	if strings.HasPrefix(name, p.cfg.Sigil) {
		return nil, errors.New(errors.ErrCodeInvalidName,
			"leaf name %q must not start with the group sigil %q", name, p.cfg.Sigil)
	}
	if _, ok := p.index[name]; ok {
		return nil, errors.New(errors.ErrCodeDuplicateNode, "node %q is already declared", name)
	}
	owner, err := p.group(groupPath)
	if err != nil {
		return nil, err
	}

	payload = payload.Clone()
	if payload.Label == "" {
		payload.Label = name
	}
	if payload.Shape == "" {
		payload.Shape = ShapeRect
	}
	if payload.Margin == 0 {
		payload.Margin = p.cfg.LeafMargin
	}
	return p.add(name, KindLeaf, p.index[owner.Name], payload), nil
}

// declareEdge records the literal edge from → to and the group-level edges
// derived from it. It returns the keys of the edges it added.
func (p *Prime) declareEdge(from, to, label string) ([]graph.EdgeKey, error) {
	src, err := p.endpoint(from)
	if err != nil {
		return nil, err
	}
	dst, err := p.endpoint(to)
	if err != nil {
		return nil, err
	}

	var added []graph.EdgeKey
	set := func(a, b *Node, name string, attrs EdgeAttrs) {
		if p.store.HasEdge(a.Name, b.Name, name) {
			return
		}
		_ = p.store.SetEdge(a.Name, b.Name, name, attrs)
		added = append(added, graph.EdgeKey{From: a.Name, To: b.Name, Name: name})
	}

	set(src, dst, label, EdgeAttrs{Label: label})

	fromGroups := belowRoot(src.AncestorChain())
	toGroups := belowRoot(dst.AncestorChain())
	derived := EdgeAttrs{Interpolate: InterpolateBasis, Derived: true}
	labelled := EdgeAttrs{Label: label, Interpolate: InterpolateBasis, Derived: true}

	for _, g := range toGroups {
		for _, h := range fromGroups {
			if h.Name != g.Name && !h.IsAncestorOf(g) && !g.IsAncestorOf(h) {
				set(h, g, "", derived)
			}
		}
	}
	for _, h := range fromGroups {
		if !h.IsAncestorOf(dst) {
			set(h, dst, "", labelled)
		}
	}
	for _, g := range toGroups {
		if !g.IsAncestorOf(src) {
			set(src, g, "", labelled)
		}
	}
	return added, nil
}

func (p *Prime) endpoint(name string) (*Node, error) {
	n, ok := p.Lookup(name)
	if !ok {
		return nil, errors.New(errors.ErrCodeUndeclaredNode, "edge endpoint %q is not declared", name)
	}
	if n.IsGroup() {
		return nil, errors.New(errors.ErrCodeInvalidEdge,
			"edge endpoint %q is a group, edges are declared between leaves", name)
	}
	return n, nil
}

// belowRoot drops the root from an ancestor chain.
func belowRoot(chain []*Node) []*Node {
	if len(chain) == 0 {
		return chain
	}
	return chain[:len(chain)-1]
}
