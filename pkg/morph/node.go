package morph

// Kind distinguishes groups from leaves.
type Kind int

const (
	KindGroup Kind = iota
	KindLeaf
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "leaf"
}

const noParent = -1

// Node is a group or leaf of the hierarchy. Nodes are owned by the arena of
// a [Prime] graph and refer to each other by index, so a Node is only
// meaningful together with the graph that created it.
type Node struct {
	Name    string
	Kind    Kind
	Payload Payload

	collapsed bool
	hidden    bool
	rendered  bool

	parent int
	groups []int
	leaves []int
	prime  *Prime
}

// IsGroup reports whether n can be expanded and collapsed.
func (n *Node) IsGroup() bool { return n.Kind == KindGroup }

// IsRoot reports whether n is the implicit root group.
func (n *Node) IsRoot() bool { return n.parent == noParent }

// Collapsed reports whether a group hides its children. Leaves always
// report false.
func (n *Node) Collapsed() bool { return n.IsGroup() && n.collapsed }

// Hidden reports whether an ancestor of n is collapsed or hidden.
func (n *Node) Hidden() bool { return n.hidden }

// Rendered reports whether n currently has a display graph entry.
func (n *Node) Rendered() bool { return n.rendered }

// Stable reports whether n is visible at a granularity edges may attach
// to: a visible leaf or a visible collapsed group.
func (n *Node) Stable() bool {
	return !n.hidden && (!n.IsGroup() || n.collapsed)
}

// Parent returns the owning group, or nil for the root.
func (n *Node) Parent() *Node {
	if n.parent == noParent {
		return nil
	}
	return n.prime.nodes[n.parent]
}

// ChildGroups returns the direct child groups in declaration order.
func (n *Node) ChildGroups() []*Node { return n.prime.resolve(n.groups) }

// ChildLeaves returns the direct child leaves in declaration order.
func (n *Node) ChildLeaves() []*Node { return n.prime.resolve(n.leaves) }

// Children returns child groups followed by child leaves, the order in which
// they are displayed.
func (n *Node) Children() []*Node {
	return append(n.ChildGroups(), n.ChildLeaves()...)
}

// AncestorChain returns the enclosing groups from the immediate parent up to
// the root. It is empty for the root.
func (n *Node) AncestorChain() []*Node {
	var chain []*Node
	for p := n.Parent(); p != nil; p = p.Parent() {
		chain = append(chain, p)
	}
	return chain
}

// IsAncestorOf reports whether n appears in the ancestor chain of other.
// Nodes are compared by name.
func (n *Node) IsAncestorOf(other *Node) bool {
	for _, a := range other.AncestorChain() {
		if a.Name == n.Name {
			return true
		}
	}
	return false
}
