package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestFileWatcher(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.toml")
	other := filepath.Join(dir, "other.toml")
	for _, p := range []string{path, other} {
		if err := os.WriteFile(p, []byte(declTOML), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	changed := make(chan struct{}, 4)
	w, err := newFileWatcher(path, log.New(io.Discard), func() { changed <- struct{}{} })
	if err != nil {
		t.Fatalf("newFileWatcher() error: %v", err)
	}
	defer w.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.run(ctx)

	if err := os.WriteFile(other, []byte("# unrelated"), 0o644); err != nil {
		t.Fatal(err)
	}
	select {
	case <-changed:
		t.Fatal("a change to another file should not trigger a reload")
	case <-time.After(3 * watchDebounce):
	}

	// Several writes in a row collapse into one callback.
	for range 3 {
		if err := os.WriteFile(path, []byte(declTOML), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	select {
	case <-changed:
	case <-time.After(5 * time.Second):
		t.Fatal("no callback after writing the watched file")
	}
	select {
	case <-changed:
		t.Error("burst of writes should produce a single callback")
	case <-time.After(3 * watchDebounce):
	}
}
