package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"maps"
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
	"github.com/matzehuels/graphmorph/pkg/render"
)

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rank direction. Defaults to TB.
	RankDir string
	// Detailed appends payload metadata to leaf labels.
	Detailed bool
}

// ToDOT converts a snapshot to Graphviz DOT source. Expanded groups become
// clusters; everything else becomes a node.
func ToDOT(s *morph.Snapshot, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "TB"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  compound=true;\n")
	if smooth(s) {
		buf.WriteString("  splines=spline;\n")
	}
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	writeLevel(&buf, s, "", opts, 1)

	if len(s.Edges) > 0 {
		buf.WriteString("\n")
	}
	for _, e := range s.Edges {
		if e.Label != "" {
			fmt.Fprintf(&buf, "  %q -> %q [label=%q];\n", e.From, e.To, e.Label)
		} else {
			fmt.Fprintf(&buf, "  %q -> %q;\n", e.From, e.To)
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func smooth(s *morph.Snapshot) bool {
	for _, e := range s.Edges {
		if e.Interpolate == morph.InterpolateBasis {
			return true
		}
	}
	return false
}

func writeLevel(buf *bytes.Buffer, s *morph.Snapshot, parent string, opts Options, depth int) {
	indent := strings.Repeat("  ", depth)
	for _, n := range s.Children(parent) {
		if n.Group && n.Expanded {
			fmt.Fprintf(buf, "%ssubgraph %q {\n", indent, "cluster_"+n.Name)
			for _, a := range clusterAttrs(n) {
				fmt.Fprintf(buf, "%s  %s;\n", indent, a)
			}
			writeLevel(buf, s, n.Name, opts, depth+1)
			fmt.Fprintf(buf, "%s}\n", indent)
			continue
		}
		fmt.Fprintf(buf, "%s%q [%s];\n", indent, n.Name, strings.Join(nodeAttrs(n, opts), ", "))
	}
}

func clusterAttrs(n morph.SnapshotNode) []string {
	attrs := []string{fmt.Sprintf("label=%q", n.Label)}
	if n.ClusterLabelPos == morph.ClusterLabelTop || n.ClusterLabelPos == "" {
		attrs = append(attrs, "labelloc=t")
	} else {
		attrs = append(attrs, "labelloc=b")
	}
	attrs = append(attrs, `style="rounded,filled"`)
	attrs = append(attrs, styleAttrs(n.Style)...)
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", tooltip(n.Description)))
	}
	return attrs
}

func nodeAttrs(n morph.SnapshotNode, opts Options) []string {
	attrs := []string{fmt.Sprintf("label=%q", fmtLabel(n, opts.Detailed))}
	if shape := dotShape(n.Shape); shape != "box" {
		attrs = append(attrs, "shape="+shape)
	}
	attrs = append(attrs, styleAttrs(n.Style)...)
	if n.Margin > 0 {
		attrs = append(attrs, fmt.Sprintf("margin=%q", fmt.Sprintf("%.2f", float64(n.Margin)/72)))
	}
	if n.Description != "" {
		attrs = append(attrs, fmt.Sprintf("tooltip=%q", tooltip(n.Description)))
	}
	return attrs
}

func fmtLabel(n morph.SnapshotNode, detailed bool) string {
	if !detailed || len(n.Meta) == 0 {
		return n.Label
	}
	parts := make([]string, 0, len(n.Meta))
	for _, k := range slices.Sorted(maps.Keys(n.Meta)) {
		parts = append(parts, fmt.Sprintf("%s: %v", k, n.Meta[k]))
	}
	return n.Label + "\n" + strings.Join(parts, "\n")
}

func dotShape(shape string) string {
	switch shape {
	case morph.ShapeEllipse:
		return "ellipse"
	case morph.ShapeCircle:
		return "circle"
	default:
		return "box"
	}
}

// styleAttrs maps the CSS-like payload style onto Graphviz attributes.
// Unknown properties are ignored.
func styleAttrs(style string) []string {
	var attrs []string
	for _, decl := range strings.Split(style, ";") {
		key, value, ok := strings.Cut(decl, ":")
		if !ok {
			continue
		}
		key, value = strings.TrimSpace(key), strings.TrimSpace(value)
		switch key {
		case "fill":
			attrs = append(attrs, fmt.Sprintf("fillcolor=%q", value))
		case "stroke":
			attrs = append(attrs, fmt.Sprintf("color=%q", value))
		case "font-weight":
			if value == "bold" {
				attrs = append(attrs, `fontname="Helvetica-Bold"`)
			}
		}
	}
	return attrs
}

var breakRe = regexp.MustCompile(`(?i)<br\s*/?>`)

func tooltip(description string) string {
	return breakRe.ReplaceAllString(description, "\n")
}

// RenderSVG renders DOT source to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeRenderFailed, err, "render")
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

// normalizeViewBox replaces the Graphviz svg tag with one whose viewBox
// starts at the origin and whose size matches it.
func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	tag := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" xmlns:xlink="http://www.w3.org/1999/xlink" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)
	return svgTagRe.ReplaceAll(svg, []byte(tag))
}

// RenderPDF renders DOT source as PDF via SVG conversion.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(ctx context.Context, dot string) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(ctx, svg)
}

// RenderPNG renders DOT source as PNG via SVG conversion.
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(ctx context.Context, dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(ctx, dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(ctx, svg, scale)
}
