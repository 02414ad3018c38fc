// Package nodelink renders display graph snapshots as Graphviz diagrams.
//
// # Overview
//
// A [morph.Snapshot] lists the rendered nodes, the cluster each sits in and
// the edges between them. [ToDOT] turns it into DOT source where:
//
//   - expanded groups become `subgraph cluster_*` blocks labelled at the top
//   - collapsed groups and leaves become nodes
//   - the CSS-like payload style ("fill: ...; stroke: ...") becomes
//     fillcolor and color attributes
//   - descriptions become tooltips, with "<br>" turned into line breaks
//
// # Usage
//
//	dot := nodelink.ToDOT(m.Snapshot(), nodelink.Options{})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// For PDF or PNG output:
//
//	pdf, err := nodelink.RenderPDF(ctx, dot)
//	png, err := nodelink.RenderPNG(ctx, dot, 2.0)  // 2x scale
//
// # Renderer
//
// [Renderer] implements [morph.Renderer]. It converts every snapshot it
// receives into the configured formats, consults a [cache.Cache] keyed by
// the hash of the DOT source, and hands each artifact to a [Sink].
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
//
// [morph.Snapshot]: github.com/matzehuels/graphmorph/pkg/morph.Snapshot
// [morph.Renderer]: github.com/matzehuels/graphmorph/pkg/morph.Renderer
// [cache.Cache]: github.com/matzehuels/graphmorph/pkg/cache.Cache
package nodelink
