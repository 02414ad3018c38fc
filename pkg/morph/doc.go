// Package morph implements the expand/collapse engine for hierarchical
// graphs: nodes nested in clusters, connected by directed edges, where each
// cluster can be collapsed into a single node or expanded to show its
// contents.
//
// # Overview
//
// A [Morpher] owns two graphs:
//
//   - The [Prime] graph is the complete model. It holds one [Node] per
//     declared group or leaf, every declared edge, and the derived
//     group-level edges that keep collapsed clusters connected. It only grows.
//   - The [Display] graph is the subset that is currently materialized for a
//     renderer: nodes whose ancestors are all expanded, and edges whose
//     endpoints are both rendered at a stable granularity.
//
// Expanding and collapsing change node flags in the prime graph and patch the
// display graph incrementally. [Morpher.Project] rebuilds the display graph
// from scratch and [Morpher.Verify] checks that the two agree.
//
// # Names
//
// Group names start with a sigil (default "_"); leaf names must not. Groups
// are declared by path, split on a delimiter (default "/"), and are named by
// their accumulated path below the root:
//
//	m, _ := morph.New()
//	m.DeclareGroupPath("_root/_encoder/_layer1") // creates _encoder and _encoder/_layer1
//	m.DeclareLeaf("_encoder/_layer1", "MatMul[4]", morph.Payload{Shape: morph.ShapeRect})
//	m.DeclareLeaf("_encoder", "Input[0]", morph.Payload{Shape: morph.ShapeEllipse})
//	m.DeclareEdge("Input[0]", "MatMul[4]", "0")
//
// A leading root segment is optional, so "_root/_a" and "_a" name the same
// group.
//
// # Derived Edges
//
// Declaring an edge x→y between leaves also records, for every ancestor group
// H of x and G of y below the root:
//
//   - H→G when neither is an ancestor of the other
//   - H→y when H is not an ancestor of y
//   - x→G when G is not an ancestor of x
//
// Derived edges are deduplicated by endpoint pair, so a collapsed cluster
// shows at most one edge to each neighbor.
//
// # Interaction
//
// [Morpher.Populate] expands the root and hands the first [Snapshot] to the
// configured [Renderer]. [Morpher.ExpandOrCollapse] toggles a group and
// renders again. Requests that do not apply to the current state (unknown
// names, leaves, hidden nodes, double toggles) are violations: they leave
// every graph untouched, log a warning and return an error for which
// errors.IsViolation reports true.
//
// # Concurrency
//
// A Morpher is not safe for concurrent use. Every operation runs to
// completion synchronously. The only background work is the optional
// decoration callback, which runs on a timer with an immutable list of group
// names and never touches morpher state.
package morph
