package morph

import (
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/observability"
)

// Morpher owns the prime and display graphs of one visualization session.
type Morpher struct {
	cfg       Config
	session   string
	logger    *log.Logger
	renderer  Renderer
	decorator Decorator

	prime   *Prime
	display *Display
	timer   *time.Timer
}

// New creates a session with an empty hierarchy holding only the root.
func New(opts ...Option) (*Morpher, error) {
	m := &Morpher{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(m)
	}
	if err := m.cfg.Validate(); err != nil {
		return nil, err
	}
	if m.session == "" {
		m.session = uuid.NewString()
	}
	if m.logger == nil {
		m.logger = log.Default()
	}
	m.logger = m.logger.With("session", m.session)
	m.prime = newPrime(m.cfg)
	m.display = newDisplay()
	return m, nil
}

// Config returns the effective configuration.
func (m *Morpher) Config() Config { return m.cfg }

// Session returns the session id.
func (m *Morpher) Session() string { return m.session }

// Prime returns the complete hierarchy. Callers must not modify it.
func (m *Morpher) Prime() *Prime { return m.prime }

// Display returns the materialized graph. Callers must not modify it.
func (m *Morpher) Display() *Display { return m.display }

// Lookup returns the node with the given name.
func (m *Morpher) Lookup(name string) (*Node, bool) { return m.prime.Lookup(name) }

// DeclareGroupPath declares every group along path and returns the deepest
// one. Declaring an existing path returns the existing group.
func (m *Morpher) DeclareGroupPath(path string) (*Node, error) {
	n, created, err := m.prime.declareGroupPath(path)
	if err != nil {
		return nil, err
	}
	for _, c := range created {
		m.reveal(c)
	}
	return n, nil
}

// DeclareLeaf declares a leaf inside an already declared group.
func (m *Morpher) DeclareLeaf(groupPath, name string, payload Payload) (*Node, error) {
	n, err := m.prime.declareLeaf(groupPath, name, payload)
	if err != nil {
		return nil, err
	}
	m.reveal(n)
	return n, nil
}

// DeclareEdge declares an edge between two leaves along with the
// group-level edges derived from it.
func (m *Morpher) DeclareEdge(from, to, label string) error {
	added, err := m.prime.declareEdge(from, to, label)
	if err != nil {
		return err
	}
	for _, k := range added {
		m.linkIfStable(k.From, k.To)
	}
	return nil
}

// reveal materializes a node declared after its parent was expanded.
func (m *Morpher) reveal(n *Node) {
	if n.hidden {
		return
	}
	m.materialize(n)
}

func (m *Morpher) materialize(n *Node) {
	parent := n.Parent()
	cluster := ""
	if parent != nil && parent.rendered {
		cluster = parent.Name
	}
	m.display.put(n.Name, n.Payload, cluster)
	n.rendered = true
	n.hidden = false
}

func (m *Morpher) linkIfStable(from, to string) {
	a, _ := m.prime.Lookup(from)
	b, _ := m.prime.Lookup(to)
	if a.IsRoot() || b.IsRoot() || !a.Stable() || !b.Stable() {
		return
	}
	m.display.link(from, to, m.prime.pairLabel(from, to))
}

// target resolves the group an interaction applies to.
func (m *Morpher) target(op, name string) (*Node, error) {
	n, ok := m.prime.Lookup(name)
	if !ok {
		return nil, m.violation(op, name, errors.New(errors.ErrCodeNodeNotFound, "%s %q: no such node", op, name))
	}
	if !n.IsGroup() {
		return nil, m.violation(op, name, errors.New(errors.ErrCodeNotAGroup, "%s %q: leaves cannot be toggled", op, name))
	}
	if n.hidden {
		return nil, m.violation(op, name, errors.New(errors.ErrCodeNodeHidden, "%s %q: node is hidden", op, name))
	}
	return n, nil
}

func (m *Morpher) violation(op, name string, err *errors.Error) error {
	m.logger.Warn("ignored "+op, "node", name, "code", err.Code, "reason", err.Message)
	observability.Morph().OnViolation(m.session, op, name, string(err.Code))
	return err
}

// Expand reveals the children of a visible, collapsed group.
func (m *Morpher) Expand(name string) error {
	n, err := m.target("expand", name)
	if err != nil {
		return err
	}
	if !n.collapsed {
		return m.violation("expand", name, errors.New(errors.ErrCodeAlreadyExpanded, "expand %q: already expanded", name))
	}
	revealed := m.expand(n)
	m.logger.Debug("expanded group", "group", n.Name, "revealed", revealed)
	observability.Morph().OnExpand(m.session, n.Name, revealed)
	return nil
}

func (m *Morpher) expand(n *Node) int {
	n.collapsed = false
	if n.rendered {
		n.Payload.Style = StyleExpanded
		m.display.refresh(n.Name, n.Payload)
		m.display.detach(n.Name)
	}

	children := n.Children()
	var touched []string
	for _, c := range children {
		m.materialize(c)
		touched = append(touched, c.Name)
	}
	for _, name := range touched {
		for _, e := range m.prime.NodeEdges(name) {
			m.linkIfStable(e.From, e.To)
		}
	}
	return len(children)
}

// Collapse hides the contents of a visible, expanded group, collapsing
// nested groups first, and reroutes their edges to the group.
func (m *Morpher) Collapse(name string) error {
	n, err := m.target("collapse", name)
	if err != nil {
		return err
	}
	if n.IsRoot() {
		return m.violation("collapse", name, errors.New(errors.ErrCodeRootLocked, "collapse %q: the root cannot be collapsed", name))
	}
	if n.collapsed {
		return m.violation("collapse", name, errors.New(errors.ErrCodeAlreadyCollapsed, "collapse %q: already collapsed", name))
	}
	removed := m.collapse(n)
	m.logger.Debug("collapsed group", "group", n.Name, "removed", removed)
	observability.Morph().OnCollapse(m.session, n.Name, removed)
	return nil
}

func (m *Morpher) collapse(n *Node) int {
	n.collapsed = true
	n.Payload.Style = StyleCollapsed
	m.display.refresh(n.Name, n.Payload)

	removed := 0
	var in, out []string
	for _, c := range n.Children() {
		if c.IsGroup() && !c.collapsed {
			removed += m.collapse(c)
		}
		i, o := m.display.remove(c.Name)
		in = append(in, i...)
		out = append(out, o...)
		c.rendered = false
		c.hidden = true
		removed++
	}

	for _, a := range in {
		if nb, ok := m.prime.Lookup(a); ok && !nb.hidden {
			m.display.link(a, n.Name, m.prime.pairLabel(a, n.Name))
		}
	}
	for _, b := range out {
		if nb, ok := m.prime.Lookup(b); ok && !nb.hidden {
			m.display.link(n.Name, b, m.prime.pairLabel(n.Name, b))
		}
	}
	return removed
}

// ExpandOrCollapse toggles a group and renders the result.
func (m *Morpher) ExpandOrCollapse(ctx context.Context, name string) error {
	n, err := m.target("toggle", name)
	if err != nil {
		return err
	}
	if n.collapsed {
		err = m.Expand(name)
	} else {
		err = m.Collapse(name)
	}
	if err != nil {
		return err
	}
	return m.Refresh(ctx)
}

// Populate expands the root, revealing the top level, and performs the
// first render.
func (m *Morpher) Populate(ctx context.Context) error {
	if err := m.Expand(m.prime.Root().Name); err != nil {
		return err
	}
	m.logger.Info("populated", "nodes", m.display.NodeCount(), "edges", m.display.EdgeCount())
	return m.Refresh(ctx)
}

// ExpandAll expands every group, breadth first. It returns how many groups
// were expanded.
func (m *Morpher) ExpandAll() int {
	count := 0
	queue := []*Node{m.prime.Root()}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		if n.collapsed && !n.hidden {
			m.expand(n)
			observability.Morph().OnExpand(m.session, n.Name, len(n.groups)+len(n.leaves))
			count++
		}
		queue = append(queue, n.ChildGroups()...)
	}
	m.logger.Debug("expanded all groups", "count", count)
	return count
}

// CollapseAll collapses every expanded top-level group. It returns how many
// groups were collapsed at the top level.
func (m *Morpher) CollapseAll() int {
	count := 0
	for _, g := range m.prime.Root().ChildGroups() {
		if g.hidden || g.collapsed {
			continue
		}
		removed := m.collapse(g)
		observability.Morph().OnCollapse(m.session, g.Name, removed)
		count++
	}
	m.logger.Debug("collapsed all groups", "count", count)
	return count
}

// Snapshot copies the display graph for a renderer.
func (m *Morpher) Snapshot() *Snapshot { return m.snapshot() }

// Refresh hands the current snapshot to the renderer and schedules the
// decorator. Without a renderer it does nothing.
func (m *Morpher) Refresh(ctx context.Context) error {
	if m.renderer == nil {
		return nil
	}
	snap := m.snapshot()
	start := time.Now()
	err := m.renderer.Render(ctx, snap)
	elapsed := time.Since(start)
	observability.Morph().OnRender(ctx, m.session, fmt.Sprintf("%T", m.renderer), len(snap.Nodes), len(snap.Edges), elapsed, err)
	if err != nil {
		return errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	m.logger.Info("rendered", "nodes", len(snap.Nodes), "edges", len(snap.Edges), "elapsed", elapsed.Round(time.Millisecond))
	m.scheduleDecoration(snap.Groups())
	return nil
}

func (m *Morpher) scheduleDecoration(groups []string) {
	if m.decorator == nil {
		return
	}
	if m.timer != nil {
		m.timer.Stop()
	}
	names := slices.Clone(groups)
	d := m.decorator
	m.timer = time.AfterFunc(m.cfg.DecorationDelay, func() { d.Decorate(names) })
}

// Close stops a pending decoration.
func (m *Morpher) Close() error {
	if m.timer != nil {
		m.timer.Stop()
		m.timer = nil
	}
	return nil
}
