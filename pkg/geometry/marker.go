package geometry

import (
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

// marker builds the decoration for kind k whose tip touches tip. The unit
// vector u points from the tip along the line toward the other end.
func (r *Resolver) marker(k model.Kind, tip, u layout.Point) Primitive {
	kind, filled := MarkerFor(k)
	fill := r.cfg.HollowColor
	if filled {
		fill = r.cfg.FilledColor
	}

	l, hw := r.cfg.MarkerLength, r.cfg.MarkerWidth/2
	n := u.Perp()
	base := tip.Add(u.Scale(l))
	left, right := base.Add(n.Scale(hw)), base.Sub(n.Scale(hw))

	p := Primitive{
		Shape:       ShapePolygon,
		Stroke:      r.cfg.MarkerStroke,
		StrokeWidth: 1,
		Fill:        fill,
		Marker:      kind,
	}
	switch kind {
	case MarkerDiamond:
		// Centered half a marker length from the tip.
		mid := tip.Add(u.Scale(l / 2))
		p.Points = []layout.Point{tip, mid.Add(n.Scale(hw)), base, mid.Sub(n.Scale(hw))}
	case MarkerOpenArrow:
		p.Shape = ShapePolyline
		p.Fill = ""
		p.StrokeWidth = r.cfg.LineWidth
		p.Points = []layout.Point{left, tip, right}
	default:
		p.Points = []layout.Point{tip, left, right}
	}
	return p
}
