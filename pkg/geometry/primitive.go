package geometry

import (
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Shape is the drawing instruction of a primitive.
type Shape string

const (
	ShapeLine     Shape = "line"     // open segment through Points
	ShapePolygon  Shape = "polygon"  // closed, filled with Fill
	ShapePolyline Shape = "polyline" // open path, never filled
)

// MarkerKind names the end decoration a primitive represents.
type MarkerKind string

const (
	MarkerNone      MarkerKind = ""
	MarkerArrow     MarkerKind = "arrow"
	MarkerDiamond   MarkerKind = "diamond"
	MarkerTriangle  MarkerKind = "triangle"
	MarkerOpenArrow MarkerKind = "open_arrow"
)

// Primitive is a single drawable item in world coordinates.
type Primitive struct {
	Shape       Shape          `json:"shape" bson:"shape"`
	Points      []layout.Point `json:"points" bson:"points"`
	Stroke      string         `json:"stroke" bson:"stroke"`
	StrokeWidth float64        `json:"stroke_width" bson:"stroke_width"`
	Fill        string         `json:"fill,omitempty" bson:"fill,omitempty"`
	Dashed      bool           `json:"dashed,omitempty" bson:"dashed,omitempty"`
	Marker      MarkerKind     `json:"marker,omitempty" bson:"marker,omitempty"`

	// From and To identify the relationship; At is the node the marker sits on.
	From string     `json:"from" bson:"from"`
	To   string     `json:"to" bson:"to"`
	At   string     `json:"at,omitempty" bson:"at,omitempty"`
	Kind model.Kind `json:"kind" bson:"kind"`
}

// Resolution is the output of a resolve pass.
type Resolution struct {
	Primitives []Primitive `json:"primitives" bson:"primitives"`
	Dangling   int         `json:"dangling" bson:"dangling"`
	Degenerate int         `json:"degenerate" bson:"degenerate"`
}

// Lines returns only the connector lines.
func (r Resolution) Lines() []Primitive {
	return r.filter(func(p Primitive) bool { return p.Marker == MarkerNone })
}

// Markers returns only the marker primitives.
func (r Resolution) Markers() []Primitive {
	return r.filter(func(p Primitive) bool { return p.Marker != MarkerNone })
}

func (r Resolution) filter(keep func(Primitive) bool) []Primitive {
	var out []Primitive
	for _, p := range r.Primitives {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
