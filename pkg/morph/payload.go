package morph

import "maps"

// Styles applied to group nodes. A group is declared in the collapsed style
// so that expanding and collapsing it again restores its payload exactly.
const (
	StyleCollapsed  = "fill: #A1A1A1; stroke: #454545; font-weight: bold"
	StyleExpanded   = "fill: #E2E2E2; stroke: #454545; font-weight: bold"
	LabelStyleGroup = "font-weight: bold; font-size: 1em"
	ClusterLabelTop = "top"
)

// Shapes understood by the bundled renderers.
const (
	ShapeRect    = "rect"
	ShapeEllipse = "ellipse"
	ShapeCircle  = "circle"
)

// InterpolateBasis asks the renderer to draw an edge as a smooth spline.
const InterpolateBasis = "basis"

// Metadata holds free-form values attached to a payload.
type Metadata map[string]any

// Payload is the rendering metadata of a node. Prime nodes own their payload
// and restyle it in place; the display graph only ever holds copies.
type Payload struct {
	Label           string   `json:"label"`
	Description     string   `json:"description,omitempty"`
	Shape           string   `json:"shape,omitempty"`
	Style           string   `json:"style,omitempty"`
	LabelStyle      string   `json:"labelStyle,omitempty"`
	ClusterLabelPos string   `json:"clusterLabelPos,omitempty"`
	Margin          int      `json:"margin,omitempty"`
	Meta            Metadata `json:"meta,omitempty"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Payload) Clone() Payload {
	if p.Meta != nil {
		p.Meta = maps.Clone(p.Meta)
	}
	return p
}

// EdgeAttrs is the value stored on prime and display edges.
type EdgeAttrs struct {
	Label       string
	Interpolate string
	// Derived marks edges synthesized between ancestor groups.
	Derived bool
}
