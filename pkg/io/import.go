package io

import (
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"github.com/matzehuels/graphmorph/pkg/errors"
	"github.com/matzehuels/graphmorph/pkg/morph"
)

// Supported declaration formats.
const (
	FormatJSON = "json"
	FormatTOML = "toml"
	FormatYAML = "yaml"
)

// Document is a declaration file: the hierarchy and edges of one graph.
type Document struct {
	Config Config   `json:"config,omitempty" toml:"config" yaml:"config,omitempty"`
	Groups []string `json:"groups,omitempty" toml:"groups" yaml:"groups,omitempty"`
	Leaves []Leaf   `json:"leaves" toml:"leaves" yaml:"leaves"`
	Edges  []Edge   `json:"edges,omitempty" toml:"edges" yaml:"edges,omitempty"`
}

// Config overrides the naming conventions of the morpher. Empty fields keep
// the defaults.
type Config struct {
	Delimiter string `json:"delimiter,omitempty" toml:"delimiter" yaml:"delimiter,omitempty"`
	Sigil     string `json:"sigil,omitempty" toml:"sigil" yaml:"sigil,omitempty"`
	Root      string `json:"root,omitempty" toml:"root" yaml:"root,omitempty"`
}

// Leaf declares a leaf inside Group. An empty group means the root.
type Leaf struct {
	Group       string         `json:"group,omitempty" toml:"group" yaml:"group,omitempty"`
	Name        string         `json:"name" toml:"name" yaml:"name"`
	Label       string         `json:"label,omitempty" toml:"label" yaml:"label,omitempty"`
	Description string         `json:"description,omitempty" toml:"description" yaml:"description,omitempty"`
	Shape       string         `json:"shape,omitempty" toml:"shape" yaml:"shape,omitempty"`
	Style       string         `json:"style,omitempty" toml:"style" yaml:"style,omitempty"`
	Meta        map[string]any `json:"meta,omitempty" toml:"meta" yaml:"meta,omitempty"`
}

// Edge declares a labelled edge between two leaves.
type Edge struct {
	From  string `json:"from" toml:"from" yaml:"from"`
	To    string `json:"to" toml:"to" yaml:"to"`
	Label string `json:"label,omitempty" toml:"label" yaml:"label,omitempty"`
}

// FormatFromPath picks the declaration format from a file extension.
func FormatFromPath(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".toml":
		return FormatTOML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	}
	return "", errors.New(errors.ErrCodeInvalidFormat,
		"cannot infer format of %q (want .json, .toml, .yaml or .yml)", path)
}

// Read decodes a declaration document in the given format from r.
// Read does not close r.
func Read(r io.Reader, format string) (*Document, error) {
	var doc Document
	var err error
	switch format {
	case FormatJSON:
		err = json.NewDecoder(r).Decode(&doc)
	case FormatTOML:
		_, err = toml.NewDecoder(r).Decode(&doc)
	case FormatYAML:
		err = yaml.NewDecoder(r).Decode(&doc)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unknown declaration format %q", format)
	}
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "decode %s", format)
	}
	return &doc, nil
}

// ReadJSON decodes a JSON declaration document from r.
func ReadJSON(r io.Reader) (*Document, error) { return Read(r, FormatJSON) }

// ReadTOML decodes a TOML declaration document from r.
func ReadTOML(r io.Reader) (*Document, error) { return Read(r, FormatTOML) }

// ReadYAML decodes a YAML declaration document from r.
func ReadYAML(r io.Reader) (*Document, error) { return Read(r, FormatYAML) }

// ImportDeclarations reads the declaration file at path, choosing the
// decoder from its extension.
func ImportDeclarations(path string) (*Document, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "open %s", path)
		}
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "open %s", path)
	}
	defer f.Close()
	return Read(f, format)
}

// Options returns the morpher options implied by the document config.
func (d *Document) Options() []morph.Option {
	var opts []morph.Option
	if d.Config.Delimiter != "" {
		opts = append(opts, morph.WithDelimiter(d.Config.Delimiter))
	}
	if d.Config.Sigil != "" {
		opts = append(opts, morph.WithSigil(d.Config.Sigil))
	}
	if d.Config.Root != "" {
		opts = append(opts, morph.WithRootName(d.Config.Root))
	}
	return opts
}

// Apply declares the document's groups, leaves and edges on m, in that
// order. The group of every leaf is declared implicitly. Apply stops at the
// first failing declaration; the returned error keeps its code.
func (d *Document) Apply(m *morph.Morpher) error {
	for _, g := range d.Groups {
		if _, err := m.DeclareGroupPath(g); err != nil {
			return declError(err, "group %q", g)
		}
	}
	for _, l := range d.Leaves {
		group := l.Group
		if group == "" {
			group = m.Config().RootName
		}
		if _, err := m.DeclareGroupPath(group); err != nil {
			return declError(err, "leaf %q", l.Name)
		}
		if _, err := m.DeclareLeaf(group, l.Name, l.payload()); err != nil {
			return declError(err, "leaf %q", l.Name)
		}
	}
	for _, e := range d.Edges {
		if err := m.DeclareEdge(e.From, e.To, e.Label); err != nil {
			return declError(err, "edge %s -> %s", e.From, e.To)
		}
	}
	return nil
}

// declError names the entry that caused a declaration failure. The code is
// carried over and the failure stays reachable as the cause.
func declError(err error, format string, args ...any) error {
	return errors.Wrap(errors.GetCode(err), err, format, args...)
}

func (l Leaf) payload() morph.Payload {
	p := morph.Payload{
		Label:       l.Label,
		Description: l.Description,
		Shape:       l.Shape,
		Style:       l.Style,
	}
	if len(l.Meta) > 0 {
		p.Meta = morph.Metadata(l.Meta)
	}
	return p
}
