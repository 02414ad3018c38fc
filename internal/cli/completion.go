package cli

import (
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	gmio "github.com/matzehuels/graphmorph/pkg/io"
	"github.com/matzehuels/graphmorph/pkg/morph"
	"github.com/matzehuels/graphmorph/pkg/render/nodelink"
)

// completionCommand creates the completion command for generating shell completions.
func (c *CLI) completionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "completion [bash|zsh|fish|powershell]",
		Short: "Generate shell completion scripts",
		Long: `Print a completion script for graphmorph to stdout.

Besides commands and flags, the scripts complete declaration files,
output formats, rank directions and the group names of the file being
rendered (for --expand).

  bash:        source <(graphmorph completion bash)
  zsh:         graphmorph completion zsh > "${fpath[1]}/_graphmorph"
  fish:        graphmorph completion fish | source
  powershell:  graphmorph completion powershell | Out-String | Invoke-Expression`,
		DisableFlagsInUseLine: true,
		ValidArgs:             []string{"bash", "zsh", "fish", "powershell"},
		Args:                  cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		RunE: func(cmd *cobra.Command, args []string) error {
			root, out := cmd.Root(), cmd.OutOrStdout()
			switch args[0] {
			case "bash":
				return root.GenBashCompletionV2(out, true)
			case "zsh":
				return root.GenZshCompletion(out)
			case "fish":
				return root.GenFishCompletion(out, true)
			default:
				return root.GenPowerShellCompletionWithDesc(out)
			}
		},
	}
}

// declarationExts are the file extensions pkg/io can read.
var declarationExts = []string{gmio.FormatJSON, gmio.FormatTOML, gmio.FormatYAML, "yml"}

// completeDeclarationFile completes the single positional declaration file.
func completeDeclarationFile(_ *cobra.Command, args []string, _ string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	return declarationExts, cobra.ShellCompDirectiveFilterFileExt
}

// completeFormats completes the comma-separated --format list.
func completeFormats(_ *cobra.Command, _ []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	formats := append(slices.Clone(nodelink.Formats), formatJSON)
	return completeList(toComplete, formats), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
}

// completeRankdir completes the Graphviz rank directions.
func completeRankdir(_ *cobra.Command, _ []string, _ string) ([]string, cobra.ShellCompDirective) {
	return []string{
		"TB\ttop to bottom",
		"LR\tleft to right",
		"BT\tbottom to top",
		"RL\tright to left",
	}, cobra.ShellCompDirectiveNoFileComp
}

// completeGroups returns a completion for --expand that lists the groups
// declared in the file given as the first argument.
func completeGroups(o *loadOpts) func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
	return func(_ *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		if len(args) == 0 {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}
		groups, err := declaredGroups(args[0], *o)
		if err != nil {
			return nil, cobra.ShellCompDirectiveError
		}
		return completeList(toComplete, groups), cobra.ShellCompDirectiveNoFileComp | cobra.ShellCompDirectiveNoSpace
	}
}

// declaredGroups loads path and returns its group names in declaration
// order, the root excluded.
func declaredGroups(path string, o loadOpts) ([]string, error) {
	doc, err := gmio.ImportDeclarations(path)
	if err != nil {
		return nil, err
	}
	opts := append(doc.Options(), o.options()...)
	m, err := morph.New(append(opts, morph.WithLogger(log.New(io.Discard)))...)
	if err != nil {
		return nil, err
	}
	if err := doc.Apply(m); err != nil {
		return nil, err
	}

	var groups []string
	for _, n := range m.Prime().Nodes() {
		if n.IsGroup() && !n.IsRoot() {
			groups = append(groups, n.Name)
		}
	}
	return groups, nil
}

// completeList completes the last entry of a comma-separated list. Entries
// already present are not offered again.
func completeList(toComplete string, candidates []string) []string {
	done, last := "", toComplete
	if i := strings.LastIndex(toComplete, ","); i >= 0 {
		done, last = toComplete[:i+1], toComplete[i+1:]
	}
	used := strings.Split(strings.TrimSuffix(done, ","), ",")

	var out []string
	for _, c := range candidates {
		if strings.HasPrefix(c, last) && !slices.Contains(used, c) {
			out = append(out, done+c)
		}
	}
	return out
}
