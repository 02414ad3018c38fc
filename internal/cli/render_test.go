package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/graphmorph/pkg/errors"
)

const declTOML = `
groups = ["_enc"]

[[leaves]]
group = "_enc/_attn"
name = "query"

[[leaves]]
group = "_enc"
name = "embed"
shape = "ellipse"

[[leaves]]
name = "out"

[[edges]]
from = "embed"
to = "query"
label = "x"

[[edges]]
from = "query"
to = "out"
`

// writeDecl writes the test declaration file and returns its path.
func writeDecl(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "model.toml")
	if err := os.WriteFile(path, []byte(declTOML), 0o644); err != nil {
		t.Fatalf("write declarations: %v", err)
	}
	return path
}

func quietCtx() context.Context {
	return withLogger(context.Background(), newLogger(io.Discard, log.ErrorLevel))
}

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "dot", []string{"dot"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces and blanks", " svg , json ,", []string{"svg", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if strings.Join(got, ",") != strings.Join(tt.want, ",") {
				t.Errorf("parseFormats(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"svg", "dot", "json", "pdf", "png"}, false},
		{"invalid format", []string{"gif"}, true},
		{"mixed valid invalid", []string{"svg", "gif"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Fatalf("validateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errors.ErrCodeInvalidFormat) {
				t.Errorf("error code = %s, want %s", errors.GetCode(err), errors.ErrCodeInvalidFormat)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		output, input, want string
	}{
		{"", "model.toml", "model"},
		{"", "dir/model.yaml", "dir/model"},
		{"out.svg", "model.toml", "out"},
		{"dir/out.png", "model.toml", "dir/out"},
		{"out", "model.toml", "out"},
		{"out.txt", "model.toml", "out.txt"},
	}

	for _, tt := range tests {
		if got := basePath(tt.output, tt.input); got != tt.want {
			t.Errorf("basePath(%q, %q) = %q, want %q", tt.output, tt.input, got, tt.want)
		}
	}
}

func TestOutputPath(t *testing.T) {
	single := &renderOpts{output: "graph.svg", formats: []string{"svg"}}
	if got := outputPath(single, "model.toml", "svg"); got != "graph.svg" {
		t.Errorf("single format = %q, want graph.svg", got)
	}

	multi := &renderOpts{output: "graph.svg", formats: []string{"svg", "dot"}}
	if got := outputPath(multi, "model.toml", "dot"); got != "graph.dot" {
		t.Errorf("multiple formats = %q, want graph.dot", got)
	}

	none := &renderOpts{formats: []string{"json"}}
	if got := outputPath(none, "model.toml", "json"); got != "model.json" {
		t.Errorf("no output = %q, want model.json", got)
	}
}

func TestApplyToggles(t *testing.T) {
	ctx := quietCtx()
	path := writeDecl(t)

	t.Run("in order, skipping violations", func(t *testing.T) {
		m, err := loadMorpher(ctx, path, loadOpts{})
		if err != nil {
			t.Fatalf("loadMorpher() error: %v", err)
		}
		if err := m.Populate(ctx); err != nil {
			t.Fatalf("Populate() error: %v", err)
		}

		opts := &renderOpts{expand: []string{"_enc", "_enc", "_enc/_attn"}}
		if err := applyToggles(ctx, m, opts); err != nil {
			t.Fatalf("applyToggles() error: %v", err)
		}
		if !m.Display().HasEdge("embed", "query") || !m.Display().HasEdge("query", "out") {
			t.Errorf("fully expanded display should route edges between leaves, got %v", m.Snapshot().Edges)
		}
	})

	t.Run("root-prefixed names", func(t *testing.T) {
		m, _ := loadMorpher(ctx, path, loadOpts{})
		_ = m.Populate(ctx)

		opts := &renderOpts{expand: []string{"_root/_enc", "_root/_enc/_attn"}}
		if err := applyToggles(ctx, m, opts); err != nil {
			t.Fatalf("applyToggles() error: %v", err)
		}
		if got := len(m.Snapshot().Clusters()); got != 2 {
			t.Errorf("clusters = %d, want 2", got)
		}
	})

	t.Run("unknown group", func(t *testing.T) {
		m, _ := loadMorpher(ctx, path, loadOpts{})
		_ = m.Populate(ctx)

		err := applyToggles(ctx, m, &renderOpts{expand: []string{"_nope"}})
		if !errors.Is(err, errors.ErrCodeNodeNotFound) {
			t.Errorf("applyToggles() error = %v, want %s", err, errors.ErrCodeNodeNotFound)
		}
	})

	t.Run("all", func(t *testing.T) {
		m, _ := loadMorpher(ctx, path, loadOpts{})
		_ = m.Populate(ctx)

		if err := applyToggles(ctx, m, &renderOpts{all: true}); err != nil {
			t.Fatalf("applyToggles() error: %v", err)
		}
		if got := len(m.Snapshot().Clusters()); got != 2 {
			t.Errorf("clusters = %d, want 2", got)
		}
	})
}

func TestLoadMorpherOverrides(t *testing.T) {
	m, err := loadMorpher(quietCtx(), writeDecl(t), loadOpts{root: "_top"})
	if err != nil {
		t.Fatalf("loadMorpher() error: %v", err)
	}
	if got := m.Config().RootName; got != "_top" {
		t.Errorf("RootName = %q, want _top", got)
	}

	if _, err := loadMorpher(quietCtx(), filepath.Join(t.TempDir(), "missing.toml"), loadOpts{}); !errors.Is(err, errors.ErrCodeFileNotFound) {
		t.Errorf("missing file error = %v, want %s", err, errors.ErrCodeFileNotFound)
	}
}

func TestRunRender(t *testing.T) {
	input := writeDecl(t)
	base := filepath.Join(t.TempDir(), "graph")

	opts := &renderOpts{
		output:  base,
		formats: []string{"dot", "json"},
		rankdir: "LR",
		noCache: true,
	}
	if err := runRender(quietCtx(), input, opts); err != nil {
		t.Fatalf("runRender() error: %v", err)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatalf("read dot: %v", err)
	}
	for _, want := range []string{"rankdir=LR", `"_enc" -> "out"`} {
		if !strings.Contains(string(dot), want) {
			t.Errorf("dot output missing %q:\n%s", want, dot)
		}
	}

	js, err := os.ReadFile(base + ".json")
	if err != nil {
		t.Fatalf("read json: %v", err)
	}
	if !strings.Contains(string(js), `"links"`) {
		t.Errorf("json output should be a node-link document:\n%s", js)
	}
}
