package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"sync/atomic"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
	"github.com/matzehuels/graphmorph/pkg/render/nodelink"
)

// browseOpts holds the command-line flags for the browse command.
type browseOpts struct {
	load    loadOpts
	output  string // where "s" saves the current SVG
	noCache bool   // bypass the artifact cache
	watch   bool   // reload when the declaration file changes
}

// browseCommand creates the interactive browser command.
func (c *CLI) browseCommand() *cobra.Command {
	var opts browseOpts

	cmd := &cobra.Command{
		Use:   "browse [file]",
		Short: "Explore a hierarchical graph interactively",
		Long: `Open a declaration file in an interactive terminal browser.

Keys:
  ↑/↓ j/k    move the cursor
  ⏎ / space  expand or collapse the selected group
  a / c      expand all / collapse all
  s          save the current view as SVG
  q          quit

With --watch the file is reloaded whenever it changes on disk. Groups that
were expanded stay expanded when they still exist.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runBrowse(cmd.Context(), args[0], &opts)
		},
	}

	opts.load.register(cmd)
	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "SVG path for the save key (default: <file>.svg)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "reload when the declaration file changes")

	cmd.ValidArgsFunction = completeDeclarationFile

	return cmd
}

func runBrowse(ctx context.Context, input string, opts *browseOpts) error {
	// The TUI owns the terminal; route logs away from it.
	logger := loggerFromContext(ctx).With()
	logger.SetOutput(io.Discard)
	ctx = withLogger(ctx, logger)

	c, err := newCache(opts.noCache)
	if err != nil {
		return err
	}
	defer c.Close()

	model := &browseModel{ctx: ctx, input: input, output: opts.output}
	if model.output == "" {
		model.output = basePath("", input) + "." + nodelink.FormatSVG
	}

	r, err := nodelink.NewRenderer(func(_ context.Context, _ string, data []byte) error {
		model.svg = data
		return nil
	},
		nodelink.WithFormats(nodelink.FormatSVG),
		nodelink.WithCache(c, newKeyer()),
		nodelink.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	var program atomic.Pointer[tea.Program]
	decorator := morph.DecoratorFunc(func(groups []string) {
		if p := program.Load(); p != nil {
			p.Send(decoratedMsg(groups))
		}
	})

	model.load = func() (*morph.Morpher, error) {
		m, err := loadMorpher(ctx, input, opts.load,
			morph.WithRenderer(r),
			morph.WithDecorator(decorator, morph.DefaultDecorationDelay),
		)
		if err != nil {
			return nil, err
		}
		if err := m.Populate(ctx); err != nil {
			_ = m.Close()
			return nil, err
		}
		return m, nil
	}

	m, err := model.load()
	if err != nil {
		return err
	}
	model.m = m
	model.height = 20
	model.reload()
	defer func() { _ = model.m.Close() }()

	if opts.watch {
		w, err := newFileWatcher(input, logger, func() {
			if p := program.Load(); p != nil {
				p.Send(fileChangedMsg{})
			}
		})
		if err != nil {
			return errors.Wrap(errors.ErrCodeInternal, err, "watch %s", input)
		}
		defer w.Close()
		go w.run(ctx)
	}

	p := tea.NewProgram(model, tea.WithContext(ctx))
	program.Store(p)
	_, err = p.Run()
	return err
}

// decoratedMsg carries the groups that became clickable after a render.
type decoratedMsg []string

// fileChangedMsg reports that the declaration file changed on disk.
type fileChangedMsg struct{}

// browseRow is one line of the display tree.
type browseRow struct {
	name     string
	label    string
	depth    int
	group    bool
	expanded bool
}

// browseModel is the bubbletea model of the interactive browser.
type browseModel struct {
	ctx    context.Context
	m      *morph.Morpher
	load   func() (*morph.Morpher, error) // builds a populated morpher from the file
	input  string
	output string
	svg    []byte

	rows   []browseRow
	cursor int
	offset int
	height int

	clickable int
	status    string
	warn      bool
}

// reload rebuilds the visible rows from the display graph and keeps the
// cursor on the same node when it is still rendered.
func (b *browseModel) reload() {
	selected := ""
	if b.cursor < len(b.rows) {
		selected = b.rows[b.cursor].name
	}
	b.rows = displayRows(b.m.Snapshot())
	b.cursor = 0
	for i, r := range b.rows {
		if r.name == selected {
			b.cursor = i
			break
		}
	}
	b.scroll()
}

// displayRows flattens the snapshot into a depth-first tree.
func displayRows(s *morph.Snapshot) []browseRow {
	var rows []browseRow
	var walk func(parent string, depth int)
	walk = func(parent string, depth int) {
		for _, n := range s.Children(parent) {
			rows = append(rows, browseRow{
				name:     n.Name,
				label:    n.Label,
				depth:    depth,
				group:    n.Group,
				expanded: n.Expanded,
			})
			if n.Expanded {
				walk(n.Name, depth+1)
			}
		}
	}
	walk("", 0)
	return rows
}

func (b *browseModel) scroll() {
	if b.cursor < b.offset {
		b.offset = b.cursor
	}
	if b.cursor >= b.offset+b.height {
		b.offset = b.cursor - b.height + 1
	}
}

func (b *browseModel) Init() tea.Cmd {
	return nil
}

func (b *browseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return b, tea.Quit
		case "up", "k":
			if b.cursor > 0 {
				b.cursor--
				b.scroll()
			}
		case "down", "j":
			if b.cursor < len(b.rows)-1 {
				b.cursor++
				b.scroll()
			}
		case "enter", " ":
			b.toggle()
		case "a":
			n := b.m.ExpandAll()
			b.refresh(fmt.Sprintf("expanded %d groups", n))
		case "c":
			n := b.m.CollapseAll()
			b.refresh(fmt.Sprintf("collapsed %d groups", n))
		case "s":
			b.save()
		}
	case decoratedMsg:
		b.clickable = len(msg)
	case fileChangedMsg:
		b.reloadFile()
	case tea.WindowSizeMsg:
		b.height = max(msg.Height-7, 5)
		b.scroll()
	}
	return b, nil
}

func (b *browseModel) toggle() {
	if len(b.rows) == 0 {
		return
	}
	row := b.rows[b.cursor]
	if !row.group {
		b.setStatus(row.name+" is a leaf", true)
		return
	}
	if err := b.m.ExpandOrCollapse(b.ctx, row.name); err != nil {
		b.setStatus(errors.UserMessage(err), true)
		b.reload()
		return
	}
	verb := "expanded"
	if row.expanded {
		verb = "collapsed"
	}
	b.setStatus(verb+" "+row.name, false)
	b.reload()
}

func (b *browseModel) refresh(status string) {
	if err := b.m.Refresh(b.ctx); err != nil {
		b.setStatus(errors.UserMessage(err), true)
	} else {
		b.setStatus(status, false)
	}
	b.reload()
}

// reloadFile replaces the morpher with one built from the current file and
// re-expands the groups that were open. On failure the old graph stays.
func (b *browseModel) reloadFile() {
	next, err := b.load()
	if err != nil {
		b.setStatus("reload failed: "+errors.UserMessage(err), true)
		return
	}
	restoreExpanded(b.m, next)
	_ = b.m.Close()
	b.m = next
	b.refresh("reloaded " + b.input)
}

// restoreExpanded expands in next every group that is open in prev. Parents
// are declared before their children, so declaration order opens them
// top-down. It returns how many groups were expanded.
func restoreExpanded(prev, next *morph.Morpher) int {
	open := make(map[string]bool)
	for _, n := range prev.Prime().Nodes() {
		if n.IsGroup() && !n.IsRoot() && !n.Hidden() && !n.Collapsed() {
			open[n.Name] = true
		}
	}
	count := 0
	for _, n := range next.Prime().Nodes() {
		if open[n.Name] && next.Expand(n.Name) == nil {
			count++
		}
	}
	return count
}

func (b *browseModel) save() {
	if len(b.svg) == 0 {
		b.setStatus("nothing rendered yet", true)
		return
	}
	if err := os.WriteFile(b.output, b.svg, 0o644); err != nil {
		b.setStatus(err.Error(), true)
		return
	}
	b.setStatus("saved "+b.output, false)
}

func (b *browseModel) setStatus(s string, warn bool) {
	b.status = s
	b.warn = warn
}

func (b *browseModel) View() string {
	var sb strings.Builder

	sb.WriteString(StyleTitle.Render("Graph Browser"))
	sb.WriteString("  ")
	sb.WriteString(StyleDim.Render(b.m.Session()))
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render("↑/↓ navigate  ⏎ toggle  a/c expand/collapse all  s save  q quit"))
	sb.WriteString("\n\n")

	end := min(b.offset+b.height, len(b.rows))
	for i := b.offset; i < end; i++ {
		sb.WriteString(b.renderRow(i))
		sb.WriteString("\n")
	}

	d := b.m.Display()
	sb.WriteString("\n")
	sb.WriteString(StyleDim.Render(fmt.Sprintf("  [%d/%d]  %d nodes · %d edges · %d groups clickable",
		b.cursor+1, len(b.rows), d.NodeCount(), d.EdgeCount(), b.clickable)))
	sb.WriteString("\n")
	if b.status != "" {
		if b.warn {
			sb.WriteString(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(b.status))
		} else {
			sb.WriteString(styleIconSuccess.Render(iconSuccess) + " " + b.status)
		}
	}
	return sb.String()
}

func (b *browseModel) renderRow(i int) string {
	r := b.rows[i]
	cursor := "  "
	if i == b.cursor {
		cursor = "> "
	}

	icon, style := iconLeaf, styleLeaf
	if r.group {
		icon, style = iconCollapsed, styleGroup
		if r.expanded {
			icon, style = iconExpanded, styleGroupOpen
		}
	}
	line := strings.Repeat("  ", r.depth) + icon + " " + r.label
	if r.label != r.name {
		line += " " + StyleDim.Render(r.name)
	}
	if i == b.cursor {
		style = style.Underline(true)
	}
	return cursor + style.Render(line)
}
