// Package io reads declaration files and writes display snapshots.
//
// # Declaration Files
//
// A declaration file describes one hierarchical graph: the groups, the
// leaves inside them and the labelled edges between leaves. JSON, TOML and
// YAML are supported; [ImportDeclarations] picks the decoder from the file
// extension.
//
//	[config]
//	delimiter = "/"
//
//	[[leaves]]
//	group = "_encoder/_attention"
//	name  = "query"
//	description = "projection<br>of the input"
//
//	[[leaves]]
//	name = "output"
//
//	[[edges]]
//	from  = "query"
//	to    = "output"
//	label = "0"
//
// Group paths are joined with the delimiter and every segment starts with
// the group sigil ("_" by default). A leaf without a group belongs to the
// root. Edges connect leaves only; the morpher derives the group-level edges.
//
// [Document.Apply] replays a document on a [morph.Morpher]:
//
//	doc, err := io.ImportDeclarations("model.toml")
//	if err != nil {
//	    return err
//	}
//	m, err := morph.New(doc.Options()...)
//	if err != nil {
//	    return err
//	}
//	if err := doc.Apply(m); err != nil {
//	    return err
//	}
//
// # Snapshot Export
//
// [WriteSnapshotJSON] encodes a [morph.Snapshot] in the node/link shape that
// D3 and dagre-d3 consume. Expanded groups appear under "clusters" with their
// members; collapsed groups and leaves appear under "nodes". [JSONRenderer]
// plugs the encoder into a morpher so every interaction emits a document.
//
// [morph.Morpher]: github.com/matzehuels/graphmorph/pkg/morph.Morpher
// [morph.Snapshot]: github.com/matzehuels/graphmorph/pkg/morph.Snapshot
package io
