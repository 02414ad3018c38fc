package io

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
)

// graph is the D3/dagre handoff format: rendered nodes, links between them
// and the expanded groups drawn as clusters.
type graph struct {
	Session  string    `json:"session,omitempty"`
	Nodes    []node    `json:"nodes"`
	Links    []link    `json:"links"`
	Clusters []cluster `json:"clusters,omitempty"`
}

type node struct {
	ID          string         `json:"id"`
	Label       string         `json:"label"`
	Description string         `json:"description,omitempty"`
	Shape       string         `json:"shape,omitempty"`
	Style       string         `json:"style,omitempty"`
	LabelStyle  string         `json:"labelStyle,omitempty"`
	Margin      int            `json:"margin,omitempty"`
	Group       string         `json:"group,omitempty"`
	Kind        string         `json:"kind"`
	Meta        morph.Metadata `json:"meta,omitempty"`
}

type link struct {
	Source      string `json:"source"`
	Target      string `json:"target"`
	Label       string `json:"label,omitempty"`
	Interpolate string `json:"interpolate,omitempty"`
}

type cluster struct {
	ID       string   `json:"id"`
	Label    string   `json:"label"`
	Style    string   `json:"style,omitempty"`
	LabelPos string   `json:"labelPos,omitempty"`
	Parent   string   `json:"parent,omitempty"`
	Nodes    []string `json:"nodes"`
}

func toGraph(s *morph.Snapshot) graph {
	out := graph{
		Session: s.Session,
		Nodes:   make([]node, 0, len(s.Nodes)),
		Links:   make([]link, 0, len(s.Edges)),
	}
	for _, n := range s.Nodes {
		if n.Group && n.Expanded {
			members := make([]string, 0)
			for _, c := range s.Children(n.Name) {
				members = append(members, c.Name)
			}
			out.Clusters = append(out.Clusters, cluster{
				ID:       n.Name,
				Label:    n.Label,
				Style:    n.Style,
				LabelPos: n.ClusterLabelPos,
				Parent:   n.Parent,
				Nodes:    members,
			})
			continue
		}
		kind := morph.KindLeaf
		if n.Group {
			kind = morph.KindGroup
		}
		out.Nodes = append(out.Nodes, node{
			ID:          n.Name,
			Label:       n.Label,
			Description: n.Description,
			Shape:       n.Shape,
			Style:       n.Style,
			LabelStyle:  n.LabelStyle,
			Margin:      n.Margin,
			Group:       n.Parent,
			Kind:        kind.String(),
			Meta:        n.Meta,
		})
	}
	for _, e := range s.Edges {
		out.Links = append(out.Links, link{
			Source:      e.From,
			Target:      e.To,
			Label:       e.Label,
			Interpolate: e.Interpolate,
		})
	}
	return out
}

// WriteSnapshotJSON encodes a snapshot in the D3 node/link format and
// writes it to w. Expanded groups are listed as clusters rather than nodes;
// every other node names its enclosing cluster in "group".
func WriteSnapshotJSON(s *morph.Snapshot, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(toGraph(s)); err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "encode snapshot")
	}
	return nil
}

// ExportSnapshotJSON writes a snapshot to a JSON file at path.
func ExportSnapshotJSON(s *morph.Snapshot, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(errors.ErrCodeInternal, err, "create %s", path)
	}
	defer f.Close()
	return WriteSnapshotJSON(s, f)
}

// JSONRenderer implements [morph.Renderer] by writing every snapshot to W
// in the format of [WriteSnapshotJSON].
type JSONRenderer struct {
	W io.Writer
}

func (r JSONRenderer) Render(_ context.Context, s *morph.Snapshot) error {
	return WriteSnapshotJSON(s, r.W)
}
