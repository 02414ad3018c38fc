package cli

import (
	"strings"
	"testing"
)

func TestStatsOf(t *testing.T) {
	m, err := loadMorpher(quietCtx(), writeDecl(t), loadOpts{})
	if err != nil {
		t.Fatalf("loadMorpher() error: %v", err)
	}

	got := statsOf(m.Prime())
	want := primeStats{groups: 2, leaves: 3, edges: 2, derived: 3, depth: 2}
	if got != want {
		t.Errorf("statsOf() = %+v, want %+v", got, want)
	}
}

func TestDisplayTable(t *testing.T) {
	ctx := quietCtx()
	m, _ := loadMorpher(ctx, writeDecl(t), loadOpts{})
	_ = m.Populate(ctx)
	_ = m.Expand("_enc")

	out := displayTable(m.Snapshot())
	for _, want := range []string{"Node", "Cluster", "cluster", "_enc/_attn", "embed", "leaf"} {
		if !strings.Contains(out, want) {
			t.Errorf("displayTable() missing %q:\n%s", want, out)
		}
	}
}

func TestRunInspect(t *testing.T) {
	opts := &inspectOpts{all: true}
	if err := runInspect(quietCtx(), writeDecl(t), opts); err != nil {
		t.Errorf("runInspect() error: %v", err)
	}
}
