// Package pkg provides the libraries behind Graphmorph, a hierarchical graph
// explorer whose groups expand into clusters and collapse back into single
// nodes.
//
// # Overview
//
// A hierarchy is declared once as a tree of groups with leaves and
// leaf-to-leaf edges. What the user sees is a much smaller display graph in
// which collapsed groups stand in for everything below them. The pkg
// directory is organized into four areas:
//
//  1. [morph] - Domain logic (the prime graph, the display graph, toggles)
//  2. [graph] - The ordered compound multigraph both graphs are stored in
//  3. [io] and [render] - Declaration files in, JSON and Graphviz output out
//  4. [cache], [errors], [observability], [buildinfo] - Shared infrastructure
//
// # Architecture
//
// The typical data flow through Graphmorph:
//
//	Declaration file (.toml, .json, .yaml)
//	         ↓
//	    [io] package (decode and declare)
//	         ↓
//	    [morph] package (populate, expand, collapse)
//	         ↓
//	    [morph.Snapshot]
//	         ↓
//	    [render/nodelink] or [io] (DOT/SVG/PDF/PNG, D3 JSON)
//
// # Quick Start
//
//	doc, _ := io.ImportDeclarations("model.toml")
//	m, _ := morph.New(doc.Options()...)
//	_ = doc.Apply(m)
//
//	_ = m.Populate(ctx)
//	_ = m.Expand("_encoder")
//
//	dot := nodelink.ToDOT(m.Snapshot(), nodelink.Options{})
//	svg, _ := nodelink.RenderSVG(ctx, dot)
//
// # Testing
//
//	go test ./pkg/...          # All tests
//	go test ./pkg/morph/...    # Specific package
//	go test -run Example       # Examples only
//
// [morph]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/morph
// [morph.Snapshot]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/morph#Snapshot
// [graph]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/graph
// [io]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/io
// [render]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/render
// [render/nodelink]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/render/nodelink
// [cache]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/cache
// [errors]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/errors
// [observability]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/observability
// [buildinfo]: https://pkg.go.dev/github.com/matzehuels/graphmorph/pkg/buildinfo
package pkg
