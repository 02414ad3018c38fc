package cli

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphmorph/pkg/cache"
	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/io"
	"github.com/matzehuels/graphmorph/pkg/morph"
	"github.com/matzehuels/graphmorph/pkg/render/nodelink"
)

// formatJSON is the snapshot export format handled by pkg/io.
const formatJSON = "json"

// validFormats is the set of supported output formats.
var validFormats = map[string]bool{
	nodelink.FormatSVG: true,
	nodelink.FormatDOT: true,
	nodelink.FormatPDF: true,
	nodelink.FormatPNG: true,
	formatJSON:         true,
}

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	load     loadOpts
	output   string   // output file path (or base path for multiple outputs)
	formats  []string // output formats: "svg", "dot", "json", "pdf", "png"
	expand   []string // groups to toggle after populating, in order
	all      bool     // expand every group
	detailed bool     // show leaf metadata in labels
	rankdir  string   // Graphviz rank direction
	noCache  bool     // bypass the artifact cache
}

// renderCommand creates the render command. It populates the graph, applies
// the requested toggles and writes one file per format.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{rankdir: "TB"}

	cmd := &cobra.Command{
		Use:   "render [file]",
		Short: "Render a hierarchical graph to SVG, DOT, JSON, PDF or PNG",
		Long: `Render a declaration file (.json, .toml, .yaml).

The top level is shown with every group collapsed. Use --expand to toggle
groups open (in order, nested groups after their parents) or --all to expand
everything.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := validateFormats(opts.formats); err != nil {
				return err
			}
			return runRender(cmd.Context(), args[0], &opts)
		},
	}

	opts.load.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file (single format) or base path (multiple)")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), dot, json, pdf, png (comma-separated)")
	cmd.Flags().StringSliceVarP(&opts.expand, "expand", "e", nil, "groups to expand, e.g. _enc or _root/_enc (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "expand every group")
	cmd.Flags().BoolVar(&opts.detailed, "detailed", false, "show leaf metadata in labels")
	cmd.Flags().StringVar(&opts.rankdir, "rankdir", opts.rankdir, "Graphviz rank direction: TB, LR, BT, RL")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")

	cmd.ValidArgsFunction = completeDeclarationFile
	_ = cmd.RegisterFlagCompletionFunc("format", completeFormats)
	_ = cmd.RegisterFlagCompletionFunc("rankdir", completeRankdir)
	_ = cmd.RegisterFlagCompletionFunc("expand", completeGroups(&opts.load))

	return cmd
}

// validateFormats checks that all requested formats are valid.
func validateFormats(formats []string) error {
	for _, f := range formats {
		if !validFormats[f] {
			return errors.New(errors.ErrCodeInvalidFormat,
				"invalid format: %s (must be 'svg', 'dot', 'json', 'pdf', or 'png')", f)
		}
	}
	return nil
}

// basePath derives the base output path from the output and input file paths.
// If output is empty, it strips the extension from input.
// If output has a format extension (.svg, .pdf, etc.), it strips that extension.
func basePath(output, input string) string {
	if output == "" {
		return strings.TrimSuffix(input, filepath.Ext(input))
	}
	ext := filepath.Ext(output)
	if validFormats[strings.TrimPrefix(ext, ".")] {
		return strings.TrimSuffix(output, ext)
	}
	return output
}

// outputPath returns where the artifact of format is written.
func outputPath(opts *renderOpts, input, format string) string {
	if opts.output != "" && len(opts.formats) == 1 {
		return opts.output
	}
	return basePath(opts.output, input) + "." + format
}

// runRender loads the declarations from input, applies the toggles and
// renders the resulting display graph in every requested format.
func runRender(ctx context.Context, input string, opts *renderOpts) error {
	logger := loggerFromContext(ctx)
	logger.Infof("Rendering %s", input)

	m, err := loadMorpher(ctx, input, opts.load)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Populate(ctx); err != nil {
		return err
	}
	if err := applyToggles(ctx, m, opts); err != nil {
		return err
	}

	artifacts, err := renderArtifacts(ctx, m.Snapshot(), opts)
	if err != nil {
		return err
	}

	for _, format := range opts.formats {
		path := outputPath(opts, input, format)
		if err := os.WriteFile(path, artifacts[format], 0o644); err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "write %s", path)
		}
		logger.Debugf("Generated %s: %d bytes", path, len(artifacts[format]))
		printFile(path)
	}

	d := m.Display()
	printStats(d.NodeCount(), d.EdgeCount(), len(m.Snapshot().Clusters()))
	return nil
}

// applyToggles expands the groups named on the command line. Rejected
// toggles (already expanded, hidden behind a collapsed parent) are reported
// and skipped; unknown names fail the command.
func applyToggles(ctx context.Context, m *morph.Morpher, opts *renderOpts) error {
	if opts.all {
		n := m.ExpandAll()
		loggerFromContext(ctx).Debugf("Expanded %d groups", n)
		return nil
	}
	for _, name := range opts.expand {
		err := m.Expand(name)
		switch {
		case err == nil:
		case errors.Is(err, errors.ErrCodeNodeNotFound):
			return err
		case errors.IsViolation(err):
			printWarning("skipped %s: %s", name, errors.UserMessage(err))
		default:
			return err
		}
	}
	return nil
}

// renderArtifacts renders the snapshot once per format. Graph formats go
// through the cached Graphviz renderer; json is the D3 snapshot export.
func renderArtifacts(ctx context.Context, snap *morph.Snapshot, opts *renderOpts) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.formats))
	prog := newProgress(loggerFromContext(ctx))

	var graphFormats []string
	for _, f := range opts.formats {
		if f == formatJSON {
			var buf bytes.Buffer
			if err := (io.JSONRenderer{W: &buf}).Render(ctx, snap); err != nil {
				return nil, err
			}
			artifacts[f] = buf.Bytes()
			continue
		}
		if !slices.Contains(graphFormats, f) {
			graphFormats = append(graphFormats, f)
		}
	}

	if len(graphFormats) > 0 {
		c, err := newCache(opts.noCache)
		if err != nil {
			return nil, err
		}
		defer c.Close()

		r, err := newGraphRenderer(ctx, opts, c, graphFormats, func(_ context.Context, format string, data []byte) error {
			artifacts[format] = data
			return nil
		})
		if err != nil {
			return nil, err
		}
		if err := r.Render(ctx, snap); err != nil {
			return nil, err
		}
	}

	prog.done(fmt.Sprintf("Rendered %d artifacts", len(artifacts)))
	return artifacts, nil
}

// newGraphRenderer builds a Graphviz renderer backed by the artifact cache.
func newGraphRenderer(ctx context.Context, opts *renderOpts, c cache.Cache, formats []string, sink nodelink.Sink) (*nodelink.Renderer, error) {
	return nodelink.NewRenderer(sink,
		nodelink.WithFormats(formats...),
		nodelink.WithOptions(nodelink.Options{RankDir: opts.rankdir, Detailed: opts.detailed}),
		nodelink.WithCache(c, newKeyer()),
		nodelink.WithLogger(loggerFromContext(ctx)),
	)
}
