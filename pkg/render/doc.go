// Package render provides output format conversion for rendered graphs.
//
// # Overview
//
// Layout and drawing are delegated to Graphviz by the [nodelink]
// subpackage, which produces SVG. This package converts that SVG into the
// other formats the CLI can write:
//
//	svg, err := nodelink.RenderSVG(ctx, dot)
//	pdf, err := render.ToPDF(ctx, svg)
//	png, err := render.ToPNG(ctx, svg, 2.0)  // 2x scale
//
// Conversion shells out to rsvg-convert (librsvg). [Available] reports
// whether it is installed; without it PDF and PNG export fail with an
// UNSUPPORTED error while SVG, DOT and JSON output keep working.
//
// [nodelink]: github.com/matzehuels/graphmorph/pkg/render/nodelink
package render
