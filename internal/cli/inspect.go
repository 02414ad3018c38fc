package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphmorph/pkg/morph"
)

// inspectOpts holds the command-line flags for the inspect command.
type inspectOpts struct {
	load   loadOpts
	expand []string // groups to expand before printing the display tree
	all    bool     // expand every group
}

// inspectCommand creates the inspect command, which prints hierarchy
// statistics and the display tree without rendering.
func (c *CLI) inspectCommand() *cobra.Command {
	var opts inspectOpts

	cmd := &cobra.Command{
		Use:   "inspect [file]",
		Short: "Print statistics and the display tree of a hierarchical graph",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runInspect(cmd.Context(), args[0], &opts)
		},
	}

	opts.load.register(cmd)
	cmd.Flags().StringSliceVarP(&opts.expand, "expand", "e", nil, "groups to expand (repeatable or comma-separated)")
	cmd.Flags().BoolVar(&opts.all, "all", false, "expand every group")

	cmd.ValidArgsFunction = completeDeclarationFile
	_ = cmd.RegisterFlagCompletionFunc("expand", completeGroups(&opts.load))

	return cmd
}

// primeStats summarizes a hierarchy.
type primeStats struct {
	groups  int // declared groups, the root excluded
	leaves  int
	edges   int // declared leaf edges
	derived int // edges synthesized between groups
	depth   int // deepest group nesting, top-level groups are 1
}

func statsOf(p *morph.Prime) primeStats {
	var s primeStats
	for _, n := range p.Nodes() {
		switch {
		case n.IsRoot():
		case n.IsGroup():
			s.groups++
			s.depth = max(s.depth, len(n.AncestorChain()))
		default:
			s.leaves++
		}
	}
	for _, e := range p.Edges() {
		if e.Value.Derived {
			s.derived++
		} else {
			s.edges++
		}
	}
	return s
}

func runInspect(ctx context.Context, input string, opts *inspectOpts) error {
	m, err := loadMorpher(ctx, input, opts.load)
	if err != nil {
		return err
	}
	defer m.Close()

	if err := m.Populate(ctx); err != nil {
		return err
	}
	ropts := &renderOpts{expand: opts.expand, all: opts.all}
	if err := applyToggles(ctx, m, ropts); err != nil {
		return err
	}

	cfg := m.Config()
	s := statsOf(m.Prime())

	fmt.Println(StyleTitle.Render("Hierarchy"))
	printKeyValue("Root", cfg.RootName)
	printKeyValue("Delimiter", strconv.Quote(cfg.Delimiter))
	printKeyValue("Sigil", strconv.Quote(cfg.Sigil))
	printKeyValue("Groups", StyleNumber.Render(strconv.Itoa(s.groups)))
	printKeyValue("Leaves", StyleNumber.Render(strconv.Itoa(s.leaves)))
	printKeyValue("Depth", StyleNumber.Render(strconv.Itoa(s.depth)))
	printKeyValue("Edges", fmt.Sprintf("%s declared, %s derived",
		StyleNumber.Render(strconv.Itoa(s.edges)), StyleNumber.Render(strconv.Itoa(s.derived))))
	fmt.Println()

	fmt.Println(StyleTitle.Render("Display"))
	fmt.Println(displayTable(m.Snapshot()))
	printStats(m.Display().NodeCount(), m.Display().EdgeCount(), len(m.Snapshot().Clusters()))

	if err := m.Verify(); err != nil {
		printError("display graph inconsistent: %v", err)
		return err
	}
	printSuccess("Display graph matches the projection of the hierarchy")
	return nil
}

// displayTable renders the display tree as a table of nodes with their
// cluster and outgoing edge count.
func displayTable(s *morph.Snapshot) string {
	out := make(map[string]int)
	for _, e := range s.Edges {
		out[e.From]++
	}

	rows := [][]string{}
	for _, r := range displayRows(s) {
		icon := iconLeaf
		kind := "leaf"
		if r.group {
			icon, kind = iconCollapsed, "group"
			if r.expanded {
				icon, kind = iconExpanded, "cluster"
			}
		}
		n, _ := s.Node(r.name)
		rows = append(rows, []string{strings.Repeat("  ", r.depth) + icon + " " + r.name, kind, n.Parent, strconv.Itoa(out[r.name])})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("Node", "Kind", "Cluster", "Out").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			if col == 0 && row >= 0 && row < len(rows) {
				switch rows[row][1] {
				case "group":
					return styleGroup
				case "cluster":
					return styleGroupOpen
				}
			}
			return lipgloss.NewStyle()
		})
	return t.Render()
}
