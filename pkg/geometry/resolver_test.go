package geometry

import (
	"testing"

	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/model"
)

var sideBySide = map[string]layout.Box{
	"A": {X: 0, Y: 0, W: 120, H: 72},
	"B": {X: 400, Y: 0, W: 120, H: 72},
}

var (
	edgeA = layout.Point{X: 120, Y: 36}
	edgeB = layout.Point{X: 400, Y: 36}
)

func linked(t *testing.T, from, to string, kind model.Kind, flag bool) *model.Graph {
	t.Helper()
	g := model.NewGraph()
	g.AddNode(model.Node{ID: "A"})
	g.AddNode(model.Node{ID: "B"})
	if err := g.Connect(from, to, kind, flag); err != nil {
		t.Fatal(err)
	}
	return g
}

func TestResolveMarkers(t *testing.T) {
	tests := []struct {
		name     string
		from, to string
		kind     model.Kind
		flag     bool
		marker   MarkerKind
		at       string
		tip      layout.Point
		fill     string
		dashed   bool
	}{
		{"composition whole at A", "A", "B", model.Composition, true, MarkerDiamond, "A", edgeA, "#000", false},
		{"composition whole at B", "A", "B", model.Composition, false, MarkerDiamond, "B", edgeB, "#000", false},
		{"aggregation hollow", "B", "A", model.Aggregation, true, MarkerDiamond, "B", edgeB, "#fff", false},
		{"association arrow at non-owning A", "A", "B", model.Association, false, MarkerArrow, "A", edgeA, "#000", false},
		{"association arrow at non-owning B", "A", "B", model.Association, true, MarkerArrow, "B", edgeB, "#000", false},
		{"inheritance points at general", "A", "B", model.Inheritance, false, MarkerTriangle, "B", edgeB, "#fff", false},
		{"inheritance reversed", "B", "A", model.Inheritance, true, MarkerTriangle, "A", edgeA, "#fff", false},
		{"realization dashed", "A", "B", model.Realization, false, MarkerTriangle, "B", edgeB, "#fff", true},
		{"dependency open and dashed", "B", "A", model.Dependency, false, MarkerOpenArrow, "A", edgeA, "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := linked(t, tt.from, tt.to, tt.kind, tt.flag)
			res := NewResolver(nil).Resolve(sideBySide, g.Edges())

			lines, markers := res.Lines(), res.Markers()
			if len(lines) != 1 || len(markers) != 1 {
				t.Fatalf("got %d lines and %d markers, want 1 and 1", len(lines), len(markers))
			}
			if lines[0].Dashed != tt.dashed {
				t.Errorf("Dashed = %v, want %v", lines[0].Dashed, tt.dashed)
			}
			if lines[0].Stroke != "#888" || lines[0].StrokeWidth != 2 {
				t.Errorf("line stroke = %s/%v, want #888/2", lines[0].Stroke, lines[0].StrokeWidth)
			}

			m := markers[0]
			if m.Marker != tt.marker {
				t.Errorf("Marker = %q, want %q", m.Marker, tt.marker)
			}
			if m.At != tt.at {
				t.Errorf("At = %q, want %q", m.At, tt.at)
			}
			if m.Fill != tt.fill {
				t.Errorf("Fill = %q, want %q", m.Fill, tt.fill)
			}
			if !containsPoint(m.Points, tt.tip) {
				t.Errorf("marker points %v do not touch edge point %v", m.Points, tt.tip)
			}
		})
	}
}

func TestResolveLineEndsOnBoundaries(t *testing.T) {
	g := linked(t, "A", "B", model.Association, true)
	res := NewResolver(nil).Resolve(sideBySide, g.Edges())
	line := res.Lines()[0]
	if !line.Points[0].Equal(edgeA) || !line.Points[1].Equal(edgeB) {
		t.Errorf("line = %v, want [%v %v]", line.Points, edgeA, edgeB)
	}
}

func TestResolveDiamondShape(t *testing.T) {
	g := linked(t, "A", "B", model.Composition, true)
	m := NewResolver(nil).Resolve(sideBySide, g.Edges()).Markers()[0]

	want := []layout.Point{{X: 120, Y: 36}, {X: 128, Y: 42}, {X: 136, Y: 36}, {X: 128, Y: 30}}
	if m.Shape != ShapePolygon || len(m.Points) != 4 {
		t.Fatalf("diamond = %s with %d points", m.Shape, len(m.Points))
	}
	for i := range want {
		if !m.Points[i].Equal(want[i]) {
			t.Errorf("point[%d] = %v, want %v", i, m.Points[i], want[i])
		}
	}
}

func TestResolveOpenArrowIsPolyline(t *testing.T) {
	g := linked(t, "A", "B", model.Dependency, false)
	m := NewResolver(nil).Resolve(sideBySide, g.Edges()).Markers()[0]
	if m.Shape != ShapePolyline || len(m.Points) != 3 || !m.Points[1].Equal(edgeB) {
		t.Errorf("open arrow = %s %v, want polyline with tip %v in the middle", m.Shape, m.Points, edgeB)
	}
}

func TestResolveDeduplicatesMirroredPairs(t *testing.T) {
	g := model.NewGraph()
	for _, id := range []string{"A", "B", "C"} {
		g.AddNode(model.Node{ID: id})
	}
	g.Connect("A", "B", model.Association, true)
	g.Connect("B", "C", model.Aggregation, true)
	g.Connect("C", "A", model.Dependency, false)
	boxes := map[string]layout.Box{
		"A": {X: 0, Y: 0, W: 120, H: 72},
		"B": {X: 400, Y: 0, W: 120, H: 72},
		"C": {X: 200, Y: 300, W: 120, H: 72},
	}

	res := NewResolver(nil).Resolve(boxes, g.Edges())
	if got := len(res.Lines()); got != 3 {
		t.Errorf("lines = %d, want 3", got)
	}
	if got := len(res.Markers()); got != 3 {
		t.Errorf("markers = %d, want 3", got)
	}
}

func TestResolveSkipsDanglingAndDegenerate(t *testing.T) {
	g, err := model.FromNodes([]model.Node{
		{ID: "A", Relationships: []model.Relationship{
			{Target: "ghost", Kind: model.Composition, WholeEndAtSource: true},
			{Target: "B", Kind: model.Association},
		}},
		{ID: "B", Relationships: []model.Relationship{{Target: "A", Kind: model.Association, WholeEndAtSource: true}}},
	})
	if err != nil {
		t.Fatal(err)
	}
	stacked := map[string]layout.Box{
		"A": {X: 10, Y: 10, W: 120, H: 72},
		"B": {X: 10, Y: 10, W: 120, H: 72},
	}

	res := NewResolver(nil).Resolve(stacked, g.Edges())
	if len(res.Primitives) != 0 {
		t.Errorf("Primitives = %v, want none", res.Primitives)
	}
	if res.Dangling != 1 {
		t.Errorf("Dangling = %d, want 1", res.Dangling)
	}
	if res.Degenerate != 1 {
		t.Errorf("Degenerate = %d, want 1", res.Degenerate)
	}
}

func TestResolveMissingMirrorDrawnOnce(t *testing.T) {
	g, err := model.FromNodes([]model.Node{
		{ID: "A", Relationships: []model.Relationship{{Target: "B", Kind: model.Composition, WholeEndAtSource: true}}},
		{ID: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}
	res := NewResolver(nil).Resolve(sideBySide, g.Edges())
	if len(res.Lines()) != 1 || len(res.Markers()) != 1 || res.Markers()[0].At != "A" {
		t.Errorf("got %v, want one line and a diamond at A", res.Primitives)
	}
}

func TestResolveGraphUsesSizer(t *testing.T) {
	g := linked(t, "A", "B", model.Composition, true)
	res := layout.NewEngine(nil, nil).Layout(g)
	out := NewResolver(nil).ResolveGraph(g, res, layout.DefaultSizer)

	boxes := res.Boxes(g, layout.DefaultSizer)
	line := out.Lines()[0]
	if !onBoundary(boxes["A"], line.Points[0]) || !onBoundary(boxes["B"], line.Points[1]) {
		t.Errorf("line %v does not start and end on box boundaries %v %v", line.Points, boxes["A"], boxes["B"])
	}
}

func TestMarkerFor(t *testing.T) {
	tests := []struct {
		kind   model.Kind
		marker MarkerKind
		filled bool
	}{
		{model.Association, MarkerArrow, true},
		{model.Aggregation, MarkerDiamond, false},
		{model.Composition, MarkerDiamond, true},
		{model.Dependency, MarkerOpenArrow, false},
		{model.Inheritance, MarkerTriangle, false},
		{model.Realization, MarkerTriangle, false},
		{model.Kind(99), MarkerNone, false},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			m, filled := MarkerFor(tt.kind)
			if m != tt.marker || filled != tt.filled {
				t.Errorf("MarkerFor() = %q, %v, want %q, %v", m, filled, tt.marker, tt.filled)
			}
		})
	}
}

func containsPoint(pts []layout.Point, p layout.Point) bool {
	for _, q := range pts {
		if q.Dist(p) < 1e-9 {
			return true
		}
	}
	return false
}

func onBoundary(b layout.Box, p layout.Point) bool {
	const eps = 1e-6
	within := p.X >= b.X-eps && p.X <= b.X+b.W+eps && p.Y >= b.Y-eps && p.Y <= b.Y+b.H+eps
	onEdge := abs(p.X-b.X) < eps || abs(p.X-b.X-b.W) < eps || abs(p.Y-b.Y) < eps || abs(p.Y-b.Y-b.H) < eps
	return within && onEdge
}

func abs(f float64) float64 {
	if f < 0 {
		return -f
	}
	return f
}

func TestResolveLaidOutCompositionStar(t *testing.T) {
	g := model.NewGraph()
	for _, id := range []string{"A", "B", "C"} {
		if _, err := g.AddNode(model.Node{ID: id}); err != nil {
			t.Fatal(err)
		}
	}
	for _, part := range []string{"B", "C"} {
		if err := g.Connect("A", part, model.Composition, true); err != nil {
			t.Fatal(err)
		}
	}

	res := layout.NewEngine(nil, nil).Layout(g)
	boxes := res.Boxes(g, layout.DefaultSizer)
	for _, p := range [][2]string{{"A", "B"}, {"A", "C"}, {"B", "C"}} {
		if boxes[p[0]].Overlaps(boxes[p[1]]) {
			t.Errorf("%s %v overlaps %s %v", p[0], boxes[p[0]], p[1], boxes[p[1]])
		}
	}

	out := NewResolver(nil).ResolveGraph(g, res, layout.DefaultSizer)
	if got := len(out.Lines()); got != 2 {
		t.Errorf("len(Lines()) = %d, want 2", got)
	}
	markers := out.Markers()
	if len(markers) != 2 {
		t.Fatalf("len(Markers()) = %d, want 2", len(markers))
	}
	for _, m := range markers {
		if m.Marker != MarkerDiamond || m.Fill != "#000" {
			t.Errorf("marker %s-%s = %s fill %q, want filled diamond", m.From, m.To, m.Marker, m.Fill)
		}
		if m.At != "A" {
			t.Errorf("marker %s-%s anchored at %q, want A", m.From, m.To, m.At)
		}
		if tip := m.Points[0]; !onBoundary(boxes["A"], tip) {
			t.Errorf("marker tip %v not on A's border %v", tip, boxes["A"])
		}
	}
}
