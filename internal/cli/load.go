package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/matzehuels/graphmorph/pkg/io"
	"github.com/matzehuels/graphmorph/pkg/morph"
)

// loadOpts are the flags shared by commands that read a declaration file.
// Non-empty values override the file's [config] table.
type loadOpts struct {
	delimiter string // group path delimiter
	sigil     string // group name prefix
	root      string // root group name
}

func (o *loadOpts) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.delimiter, "delimiter", "", "group path delimiter (default \"/\")")
	cmd.Flags().StringVar(&o.sigil, "sigil", "", "group name prefix (default \"_\")")
	cmd.Flags().StringVar(&o.root, "root", "", "root group name (default \"_root\")")
}

func (o loadOpts) options() []morph.Option {
	var opts []morph.Option
	if o.delimiter != "" {
		opts = append(opts, morph.WithDelimiter(o.delimiter))
	}
	if o.sigil != "" {
		opts = append(opts, morph.WithSigil(o.sigil))
	}
	if o.root != "" {
		opts = append(opts, morph.WithRootName(o.root))
	}
	return opts
}

// loadMorpher reads the declaration file at path into a new morpher. The
// hierarchy is declared but not yet populated.
func loadMorpher(ctx context.Context, path string, o loadOpts, extra ...morph.Option) (*morph.Morpher, error) {
	logger := loggerFromContext(ctx)

	doc, err := io.ImportDeclarations(path)
	if err != nil {
		return nil, err
	}
	logger.Debugf("Read %s: %d groups, %d leaves, %d edges", path, len(doc.Groups), len(doc.Leaves), len(doc.Edges))

	opts := append(doc.Options(), o.options()...)
	opts = append(opts, morph.WithLogger(logger))
	opts = append(opts, extra...)
	m, err := morph.New(opts...)
	if err != nil {
		return nil, err
	}
	if err := doc.Apply(m); err != nil {
		return nil, err
	}
	logger.Infof("Loaded %s: %d nodes, %d edges", path, m.Prime().Len(), m.Prime().EdgeCount())
	return m, nil
}
