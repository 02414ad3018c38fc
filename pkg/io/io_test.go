package io

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
)

const jsonDoc = `{
  "groups": ["_enc"],
  "leaves": [
    {"group": "_enc/_attn", "name": "query", "description": "q<br>proj", "meta": {"heads": 8}},
    {"group": "_enc", "name": "embed", "shape": "ellipse"},
    {"name": "out"}
  ],
  "edges": [
    {"from": "embed", "to": "query", "label": "x"},
    {"from": "query", "to": "out"}
  ]
}`

const tomlDoc = `
groups = ["_enc"]

[[leaves]]
group = "_enc/_attn"
name = "query"
description = "q<br>proj"

[leaves.meta]
heads = 8

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

const yamlDoc = `
groups: [_enc]
leaves:
  - group: _enc/_attn
    name: query
    description: q<br>proj
    meta:
      heads: 8
  - group: _enc
    name: embed
    shape: ellipse
  - name: out
edges:
  - from: embed
    to: query
    label: x
  - from: query
    to: out
`

func quiet() *log.Logger { return log.New(io.Discard) }

func TestRead(t *testing.T) {
	tests := []struct {
		format string
		input  string
	}{
		{FormatJSON, jsonDoc},
		{FormatTOML, tomlDoc},
		{FormatYAML, yamlDoc},
	}

	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			doc, err := Read(strings.NewReader(tt.input), tt.format)
			require.NoError(t, err)

			assert.Equal(t, []string{"_enc"}, doc.Groups)
			require.Len(t, doc.Leaves, 3)
			assert.Equal(t, "_enc/_attn", doc.Leaves[0].Group)
			assert.Equal(t, "q<br>proj", doc.Leaves[0].Description)
			assert.EqualValues(t, 8, doc.Leaves[0].Meta["heads"])
			assert.Equal(t, "ellipse", doc.Leaves[1].Shape)
			assert.Empty(t, doc.Leaves[2].Group)
			assert.Equal(t, []Edge{{From: "embed", To: "query", Label: "x"}, {From: "query", To: "out"}}, doc.Edges)
		})
	}
}

func TestRead_Invalid(t *testing.T) {
	_, err := Read(strings.NewReader("{"), FormatJSON)
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))

	_, err = Read(strings.NewReader(""), "xml")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestFormatFromPath(t *testing.T) {
	tests := map[string]string{
		"model.json":  FormatJSON,
		"MODEL.TOML":  FormatTOML,
		"a/b/c.yaml":  FormatYAML,
		"compose.yml": FormatYAML,
	}
	for path, want := range tests {
		got, err := FormatFromPath(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}

	_, err := FormatFromPath("graph.dot")
	assert.True(t, errors.Is(err, errors.ErrCodeInvalidFormat))
}

func TestImportDeclarations(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.yaml")
	require.NoError(t, os.WriteFile(path, []byte(yamlDoc), 0o644))

	doc, err := ImportDeclarations(path)
	require.NoError(t, err)
	assert.Len(t, doc.Leaves, 3)

	_, err = ImportDeclarations(filepath.Join(dir, "missing.json"))
	assert.True(t, errors.Is(err, errors.ErrCodeFileNotFound))
}

func TestApply(t *testing.T) {
	doc, err := ReadJSON(strings.NewReader(jsonDoc))
	require.NoError(t, err)

	m, err := morph.New(append(doc.Options(), morph.WithLogger(quiet()))...)
	require.NoError(t, err)
	require.NoError(t, doc.Apply(m))

	for _, name := range []string{"_enc", "_enc/_attn", "query", "embed", "out"} {
		_, ok := m.Lookup(name)
		assert.True(t, ok, "missing %s", name)
	}
	q, _ := m.Lookup("query")
	assert.Equal(t, "_enc/_attn", q.Parent().Name)
	assert.Equal(t, morph.Metadata{"heads": float64(8)}, q.Payload.Meta)

	require.NoError(t, m.Populate(context.Background()))
	assert.True(t, m.Display().HasEdge("_enc", "out"))
	require.NoError(t, m.Verify())
}

func TestApply_Errors(t *testing.T) {
	tests := []struct {
		name string
		doc  Document
		code errors.Code
	}{
		{
			name: "bad group path",
			doc:  Document{Groups: []string{"enc"}},
			code: errors.ErrCodeInvalidPath,
		},
		{
			name: "duplicate leaf",
			doc:  Document{Leaves: []Leaf{{Name: "a"}, {Name: "a"}}},
			code: errors.ErrCodeDuplicateNode,
		},
		{
			name: "undeclared endpoint",
			doc:  Document{Leaves: []Leaf{{Name: "a"}}, Edges: []Edge{{From: "a", To: "b"}}},
			code: errors.ErrCodeUndeclaredNode,
		},
		{
			name: "group endpoint",
			doc:  Document{Leaves: []Leaf{{Group: "_g", Name: "a"}}, Edges: []Edge{{From: "a", To: "_g"}}},
			code: errors.ErrCodeInvalidEdge,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := morph.New(morph.WithLogger(quiet()))
			require.NoError(t, err)
			err = tt.doc.Apply(m)
			require.Error(t, err)
			assert.Equal(t, tt.code, errors.GetCode(err))

			outer, ok := err.(*errors.Error)
			require.True(t, ok, "Apply should return *errors.Error, got %T", err)
			require.NotNil(t, outer.Cause, "declaration failure should be kept as the cause")
			assert.Equal(t, tt.code, errors.GetCode(outer.Cause))
		})
	}
}

func TestOptions(t *testing.T) {
	doc := &Document{Config: Config{Delimiter: ".", Sigil: "@", Root: "@top"}}
	m, err := morph.New(append(doc.Options(), morph.WithLogger(quiet()))...)
	require.NoError(t, err)

	cfg := m.Config()
	assert.Equal(t, ".", cfg.Delimiter)
	assert.Equal(t, "@", cfg.Sigil)
	assert.Equal(t, "@top", cfg.RootName)

	doc.Leaves = []Leaf{{Group: "@a.@b", Name: "x"}}
	require.NoError(t, doc.Apply(m))
	_, ok := m.Lookup("@a.@b")
	assert.True(t, ok)

	assert.Empty(t, (&Document{}).Options())
}

func TestWriteSnapshotJSON(t *testing.T) {
	doc, _ := ReadJSON(strings.NewReader(jsonDoc))
	m, _ := morph.New(morph.WithLogger(quiet()))
	require.NoError(t, doc.Apply(m))
	require.NoError(t, m.Populate(context.Background()))
	require.NoError(t, m.Expand("_enc"))

	var buf bytes.Buffer
	require.NoError(t, WriteSnapshotJSON(m.Snapshot(), &buf))

	var got graph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))

	ids := make([]string, 0, len(got.Nodes))
	for _, n := range got.Nodes {
		ids = append(ids, n.ID)
	}
	assert.ElementsMatch(t, []string{"out", "_enc/_attn", "embed"}, ids)

	require.Len(t, got.Clusters, 1)
	assert.Equal(t, "_enc", got.Clusters[0].ID)
	assert.ElementsMatch(t, []string{"_enc/_attn", "embed"}, got.Clusters[0].Nodes)

	for _, n := range got.Nodes {
		switch n.ID {
		case "_enc/_attn":
			assert.Equal(t, "group", n.Kind)
			assert.Equal(t, "_enc", n.Group)
		case "embed":
			assert.Equal(t, "leaf", n.Kind)
			assert.Equal(t, "ellipse", n.Shape)
		case "out":
			assert.Empty(t, n.Group)
		}
	}

	links := make(map[string]string)
	for _, l := range got.Links {
		links[l.Source+"->"+l.Target] = l.Label
		assert.Equal(t, morph.InterpolateBasis, l.Interpolate)
	}
	assert.Contains(t, links, "embed->_enc/_attn")
	assert.Contains(t, links, "_enc/_attn->out")
}

func TestJSONRenderer(t *testing.T) {
	var buf bytes.Buffer
	m, _ := morph.New(morph.WithRenderer(JSONRenderer{W: &buf}), morph.WithLogger(quiet()), morph.WithSession("s1"))
	_, _ = m.DeclareLeaf("_root", "a", morph.Payload{})
	require.NoError(t, m.Populate(context.Background()))

	var got graph
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, "s1", got.Session)
	require.Len(t, got.Nodes, 1)
	assert.Equal(t, "a", got.Nodes[0].ID)
	assert.Empty(t, got.Clusters)
}

func TestExampleDeclarations(t *testing.T) {
	paths, err := filepath.Glob(filepath.Join("..", "..", "examples", "*.*"))
	require.NoError(t, err)
	require.NotEmpty(t, paths)

	for _, path := range paths {
		t.Run(filepath.Base(path), func(t *testing.T) {
			doc, err := ImportDeclarations(path)
			require.NoError(t, err)

			m, err := morph.New(append(doc.Options(), morph.WithLogger(quiet()))...)
			require.NoError(t, err)
			require.NoError(t, doc.Apply(m))
			require.NoError(t, m.Populate(context.Background()))

			assert.NoError(t, m.Verify())
			assert.Positive(t, m.ExpandAll())
			assert.NoError(t, m.Verify())
			assert.Positive(t, m.CollapseAll())
			assert.NoError(t, m.Verify())
		})
	}
}

func TestExportSnapshotJSON(t *testing.T) {
	m, _ := morph.New(morph.WithLogger(quiet()), morph.WithSession("export"))
	_, err := m.DeclareLeaf(m.Config().RootName, "solo", morph.Payload{})
	require.NoError(t, err)
	require.NoError(t, m.Populate(context.Background()))

	path := filepath.Join(t.TempDir(), "snapshot.json")
	require.NoError(t, ExportSnapshotJSON(m.Snapshot(), path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), `"session": "export"`)
	assert.Contains(t, string(data), `"id": "solo"`)
}
