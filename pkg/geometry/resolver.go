package geometry

import (
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Resolver converts boxes and relationships into primitives. It is pure and
// safe for concurrent use.
type Resolver struct {
	cfg Config
}

// NewResolver returns a resolver; nil selects [DefaultConfig].
func NewResolver(cfg *Config) *Resolver {
	r := &Resolver{cfg: DefaultConfig()}
	if cfg != nil {
		r.cfg = *cfg
	}
	return r
}

// ResolveGraph resolves every relationship of g against a finished layout,
// measuring boxes with sizer.
func (r *Resolver) ResolveGraph(g *model.Graph, res layout.Result, sizer layout.Sizer) Resolution {
	return r.Resolve(res.Boxes(g, sizer), g.Edges())
}

// Resolve draws each unordered pair in edges once, in edge order. The first
// record seen for a pair decides the marker, so a pair with a missing mirror
// is still drawn from the record that exists.
func (r *Resolver) Resolve(boxes map[string]layout.Box, edges []model.Edge) Resolution {
	var out Resolution
	seen := make(map[[2]string]bool, len(edges)/2)
	for _, e := range edges {
		a, okA := boxes[e.From]
		b, okB := boxes[e.Target]
		if !okA || !okB {
			out.Dangling++
			continue
		}
		key := pairKey(e.From, e.Target)
		if seen[key] {
			continue
		}
		seen[key] = true

		ca, cb := a.Center(), b.Center()
		if ca.Equal(cb) {
			out.Degenerate++
			continue
		}
		pa, pb := a.EdgePoint(cb), b.EdgePoint(ca)
		if pa.Equal(pb) {
			out.Degenerate++
			continue
		}

		out.Primitives = append(out.Primitives, Primitive{
			Shape:       ShapeLine,
			Points:      []layout.Point{pa, pb},
			Stroke:      r.cfg.LineColor,
			StrokeWidth: r.cfg.LineWidth,
			Dashed:      IsDashed(e.Kind),
			From:        e.From,
			To:          e.Target,
			Kind:        e.Kind,
		})

		atSource := MarkerAtSource(e.Kind, e.WholeEndAtSource)
		tip, other, at := pa, pb, e.From
		if !atSource {
			tip, other, at = pb, pa, e.Target
		}
		m := r.marker(e.Kind, tip, other.Sub(tip).Unit())
		m.From, m.To, m.At, m.Kind = e.From, e.Target, at, e.Kind
		out.Primitives = append(out.Primitives, m)
	}
	return out
}

// IsDashed reports whether lines of kind k are drawn dashed.
func IsDashed(k model.Kind) bool {
	return k == model.Dependency || k == model.Realization
}

// MarkerAtSource reports whether the marker of a relationship belongs on the
// end that owns the record, given that record's whole-end flag.
func MarkerAtSource(k model.Kind, wholeEndAtSource bool) bool {
	if k == model.Association {
		return !wholeEndAtSource
	}
	return wholeEndAtSource
}

// MarkerFor returns the marker kind and whether it is filled.
func MarkerFor(k model.Kind) (MarkerKind, bool) {
	switch k {
	case model.Association:
		return MarkerArrow, true
	case model.Aggregation:
		return MarkerDiamond, false
	case model.Composition:
		return MarkerDiamond, true
	case model.Inheritance, model.Realization:
		return MarkerTriangle, false
	case model.Dependency:
		return MarkerOpenArrow, false
	}
	return MarkerNone, false
}

func pairKey(a, b string) [2]string {
	if a < b {
		return [2]string{a, b}
	}
	return [2]string{b, a}
}
