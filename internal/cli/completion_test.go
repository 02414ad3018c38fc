package cli

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

// complete runs cobra's hidden completion command and returns the offered
// candidates, without the trailing directive line.
func complete(t *testing.T, args ...string) []string {
	t.Helper()
	root := New(io.Discard, LogInfo).RootCommand()
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(io.Discard)
	root.SetArgs(append([]string{"__complete"}, args...))
	if err := root.Execute(); err != nil {
		t.Fatalf("__complete %v: %v", args, err)
	}

	var got []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		if !strings.HasPrefix(line, ":") {
			got = append(got, line)
		}
	}
	return got
}

func TestCompleteFormat(t *testing.T) {
	got := complete(t, "render", "--format", "")
	if want := "svg dot pdf png json"; strings.Join(got, " ") != want {
		t.Errorf("formats = %v, want %s", got, want)
	}

	got = complete(t, "render", "--format", "svg,p")
	if want := "svg,pdf svg,png"; strings.Join(got, " ") != want {
		t.Errorf("formats after svg = %v, want %s", got, want)
	}
}

func TestCompleteRankdir(t *testing.T) {
	got := complete(t, "render", "--rankdir", "")
	if len(got) != 4 || !strings.HasPrefix(got[1], "LR\t") {
		t.Errorf("rankdir = %q, want TB, LR, BT, RL with descriptions", got)
	}
}

func TestCompleteExpand(t *testing.T) {
	path := writeDecl(t)

	got := complete(t, "render", path, "--expand", "")
	if want := "_enc _enc/_attn"; strings.Join(got, " ") != want {
		t.Errorf("render --expand = %v, want %s", got, want)
	}

	got = complete(t, "inspect", path, "--expand", "_enc,_enc/")
	if want := "_enc,_enc/_attn"; strings.Join(got, " ") != want {
		t.Errorf("inspect --expand = %v, want %s", got, want)
	}

	if got := complete(t, "render", "--expand", ""); len(got) != 0 {
		t.Errorf("--expand without a file = %v, want nothing", got)
	}
}

func TestCompleteList(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", "a ab b"},
		{"a", "a ab"},
		{"a,", "a,ab a,b"},
		{"a,b,", "a,b,ab"},
		{"x", ""},
	}
	for _, tt := range tests {
		if got := strings.Join(completeList(tt.in, []string{"a", "ab", "b"}), " "); got != tt.want {
			t.Errorf("completeList(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
