package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/graphmorph/pkg/morph"
)

func newTestBrowser(t *testing.T) *browseModel {
	t.Helper()
	ctx := quietCtx()
	path := writeDecl(t)
	load := func() (*morph.Morpher, error) {
		m, err := loadMorpher(ctx, path, loadOpts{})
		if err != nil {
			return nil, err
		}
		return m, m.Populate(ctx)
	}
	m, err := load()
	if err != nil {
		t.Fatalf("load() error: %v", err)
	}
	b := &browseModel{ctx: ctx, m: m, load: load, input: path, height: 20, output: filepath.Join(t.TempDir(), "view.svg")}
	b.reload()
	return b
}

func rowNames(rows []browseRow) string {
	names := make([]string, len(rows))
	for i, r := range rows {
		names[i] = strings.Repeat(".", r.depth) + r.name
	}
	return strings.Join(names, " ")
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestDisplayRows(t *testing.T) {
	b := newTestBrowser(t)
	if got, want := rowNames(b.rows), "_enc out"; got != want {
		t.Fatalf("rows = %q, want %q", got, want)
	}

	b.m.ExpandAll()
	b.reload()
	if got, want := rowNames(b.rows), "_enc ._enc/_attn ..query .embed out"; got != want {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

func TestBrowseToggle(t *testing.T) {
	b := newTestBrowser(t)

	b.Update(key("enter"))
	if got, want := rowNames(b.rows), "_enc ._enc/_attn .embed out"; got != want {
		t.Fatalf("after expand rows = %q, want %q", got, want)
	}
	if b.warn || b.status != "expanded _enc" {
		t.Errorf("status = %q (warn %v), want expanded _enc", b.status, b.warn)
	}
	if b.rows[b.cursor].name != "_enc" {
		t.Errorf("cursor on %q, want it to stay on _enc", b.rows[b.cursor].name)
	}

	b.Update(key("j"))
	b.Update(key("down"))
	if b.rows[b.cursor].name != "embed" {
		t.Fatalf("cursor on %q, want embed", b.rows[b.cursor].name)
	}
	b.Update(key(" "))
	if !b.warn || !strings.Contains(b.status, "leaf") {
		t.Errorf("toggling a leaf should warn, got %q", b.status)
	}

	b.Update(key("k"))
	b.Update(key("k"))
	b.Update(key("enter"))
	if got, want := rowNames(b.rows), "_enc out"; got != want {
		t.Errorf("after collapse rows = %q, want %q", got, want)
	}
}

func TestBrowseExpandCollapseAll(t *testing.T) {
	b := newTestBrowser(t)

	b.Update(key("a"))
	if b.status != "expanded 2 groups" {
		t.Errorf("status = %q, want expanded 2 groups", b.status)
	}
	if len(b.rows) != 5 {
		t.Errorf("rows = %q, want all five nodes", rowNames(b.rows))
	}

	b.Update(key("c"))
	if b.status != "collapsed 1 groups" {
		t.Errorf("status = %q, want collapsed 1 groups", b.status)
	}
	if got, want := rowNames(b.rows), "_enc out"; got != want {
		t.Errorf("rows = %q, want %q", got, want)
	}
}

func TestBrowseSave(t *testing.T) {
	b := newTestBrowser(t)

	b.Update(key("s"))
	if !b.warn {
		t.Error("saving before any render should warn")
	}

	b.svg = []byte("<svg/>")
	b.Update(key("s"))
	if b.warn {
		t.Fatalf("save failed: %s", b.status)
	}
	data, err := os.ReadFile(b.output)
	if err != nil || string(data) != "<svg/>" {
		t.Errorf("saved file = %q, %v", data, err)
	}
}

func TestBrowseMessages(t *testing.T) {
	b := newTestBrowser(t)

	b.Update(decoratedMsg{"_enc"})
	if b.clickable != 1 {
		t.Errorf("clickable = %d, want 1", b.clickable)
	}

	b.Update(tea.WindowSizeMsg{Width: 80, Height: 4})
	if b.height != 5 {
		t.Errorf("height = %d, want the minimum of 5", b.height)
	}

	if _, cmd := b.Update(key("q")); cmd == nil {
		t.Error("q should return a quit command")
	}

	view := b.View()
	for _, want := range []string{"Graph Browser", "_enc", "out", "1 groups clickable"} {
		if !strings.Contains(view, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}

func TestBrowseReloadFile(t *testing.T) {
	b := newTestBrowser(t)
	b.Update(key("enter"))

	changed := declTOML + `
[[leaves]]
group = "_enc"
name = "norm"

[[edges]]
from = "embed"
to = "norm"
`
	if err := os.WriteFile(b.input, []byte(changed), 0o644); err != nil {
		t.Fatalf("rewrite declarations: %v", err)
	}
	b.Update(fileChangedMsg{})

	if b.warn {
		t.Fatalf("reload failed: %s", b.status)
	}
	if got, want := rowNames(b.rows), "_enc ._enc/_attn .embed .norm out"; got != want {
		t.Errorf("rows after reload = %q, want %q", got, want)
	}
	if !b.m.Display().HasEdge("embed", "norm") {
		t.Error("edge declared in the new file should be rendered")
	}
	if err := b.m.Verify(); err != nil {
		t.Errorf("Verify() after reload: %v", err)
	}

	if err := os.WriteFile(b.input, []byte("leaves = ["), 0o644); err != nil {
		t.Fatalf("rewrite declarations: %v", err)
	}
	before := rowNames(b.rows)
	b.Update(fileChangedMsg{})
	if !b.warn || !strings.HasPrefix(b.status, "reload failed") {
		t.Errorf("status = %q, want a reload failure", b.status)
	}
	if rowNames(b.rows) != before {
		t.Error("a failed reload should keep the previous graph")
	}
}

func TestRestoreExpanded(t *testing.T) {
	ctx := quietCtx()
	path := writeDecl(t)
	prev, _ := loadMorpher(ctx, path, loadOpts{})
	_ = prev.Populate(ctx)
	prev.ExpandAll()

	next, _ := loadMorpher(ctx, path, loadOpts{})
	_ = next.Populate(ctx)

	if got := restoreExpanded(prev, next); got != 2 {
		t.Errorf("restoreExpanded() = %d, want 2", got)
	}
	if len(next.Snapshot().Clusters()) != 2 {
		t.Errorf("clusters = %v, want _enc and _enc/_attn", next.Snapshot().Clusters())
	}
}
