package model

import (
	"slices"
	"testing"

	"github.com/matzehuels/classgraph/pkg/errors"
)

func newTestGraph(t *testing.T, ids ...string) *Graph {
	t.Helper()
	g := NewGraph()
	for _, id := range ids {
		if _, err := g.AddNode(Node{ID: id, Name: id}); err != nil {
			t.Fatalf("AddNode(%q): %v", id, err)
		}
	}
	return g
}

func TestAddNodeDefaults(t *testing.T) {
	g := NewGraph()
	id, err := g.AddNode(Node{Name: "Order", Relationships: []Relationship{{Target: "x"}}})
	if err != nil {
		t.Fatalf("AddNode: %v", err)
	}
	if id == "" {
		t.Fatal("AddNode returned empty id")
	}
	n, _ := g.Node(id)
	if n.Kind != NodeKindClass {
		t.Errorf("Kind = %q, want %q", n.Kind, NodeKindClass)
	}
	if n.Color != DefaultColor {
		t.Errorf("Color = %q, want %q", n.Color, DefaultColor)
	}
	if len(n.Relationships) != 0 {
		t.Errorf("Relationships = %v, want none", n.Relationships)
	}

	if _, err := g.AddNode(Node{ID: id}); !errors.Is(err, errors.ErrCodeDuplicateNode) {
		t.Errorf("duplicate AddNode error = %v, want %v", err, errors.ErrCodeDuplicateNode)
	}
}

func TestConnectMirrors(t *testing.T) {
	tests := []struct {
		name     string
		kind     Kind
		flag     bool
		wantFrom bool
	}{
		{"association flagged", Association, true, true},
		{"association unflagged", Association, false, false},
		{"aggregation", Aggregation, true, true},
		{"composition part side", Composition, false, false},
		{"inheritance ignores flag", Inheritance, true, false},
		{"realization", Realization, false, false},
		{"dependency ignores flag", Dependency, true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := newTestGraph(t, "A", "B")
			if err := g.Connect("A", "B", tt.kind, tt.flag); err != nil {
				t.Fatalf("Connect: %v", err)
			}
			a, _ := g.Node("A")
			b, _ := g.Node("B")
			fwd, ok := a.RelationshipTo("B")
			if !ok {
				t.Fatal("forward record missing")
			}
			back, ok := b.RelationshipTo("A")
			if !ok {
				t.Fatal("mirror record missing")
			}
			if fwd.Kind != tt.kind || back.Kind != tt.kind {
				t.Errorf("kinds = %v/%v, want %v", fwd.Kind, back.Kind, tt.kind)
			}
			if fwd.WholeEndAtSource != tt.wantFrom {
				t.Errorf("forward flag = %v, want %v", fwd.WholeEndAtSource, tt.wantFrom)
			}
			if back.WholeEndAtSource == fwd.WholeEndAtSource {
				t.Error("mirror flag is not the negation of the forward flag")
			}
			if v := g.Validate(); len(v) != 0 {
				t.Errorf("Validate() = %v, want none", v)
			}
		})
	}
}

func TestConnectErrors(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.Connect("A", "B", Association, false); err != nil {
		t.Fatalf("Connect: %v", err)
	}

	tests := []struct {
		name     string
		from, to string
		kind     Kind
		code     errors.Code
	}{
		{"self link", "A", "A", Association, errors.ErrCodeSelfLink},
		{"unknown source", "X", "B", Association, errors.ErrCodeNodeNotFound},
		{"unknown target", "A", "X", Association, errors.ErrCodeNodeNotFound},
		{"duplicate", "A", "B", Composition, errors.ErrCodeDuplicateLink},
		{"duplicate reversed", "B", "A", Composition, errors.ErrCodeDuplicateLink},
		{"invalid kind", "A", "B", Kind(42), errors.ErrCodeInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := g.Connect(tt.from, tt.to, tt.kind, false)
			if err == nil {
				t.Fatal("Connect() error = nil, want error")
			}
			if !errors.Is(err, tt.code) {
				t.Errorf("code = %v, want %v", errors.GetCode(err), tt.code)
			}
		})
	}
}

func TestSetRelationship(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.Connect("A", "B", Association, false); err != nil {
		t.Fatal(err)
	}
	if err := g.SetRelationship("A", "B", Composition, true); err != nil {
		t.Fatalf("SetRelationship: %v", err)
	}

	a, _ := g.Node("A")
	b, _ := g.Node("B")
	fwd, _ := a.RelationshipTo("B")
	back, _ := b.RelationshipTo("A")
	if fwd.Kind != Composition || back.Kind != Composition {
		t.Errorf("kinds = %v/%v, want composition", fwd.Kind, back.Kind)
	}
	if !fwd.WholeEndAtSource || back.WholeEndAtSource {
		t.Errorf("flags = %v/%v, want true/false", fwd.WholeEndAtSource, back.WholeEndAtSource)
	}

	// Directional kinds make the first argument the specific end.
	if err := g.SetRelationship("B", "A", Inheritance, true); err != nil {
		t.Fatal(err)
	}
	fwd, _ = b.RelationshipTo("A")
	back, _ = a.RelationshipTo("B")
	if fwd.WholeEndAtSource || !back.WholeEndAtSource {
		t.Errorf("flags = %v/%v, want false/true", fwd.WholeEndAtSource, back.WholeEndAtSource)
	}

	c := newTestGraph(t, "X", "Y")
	if err := c.SetRelationship("X", "Y", Association, false); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("unlinked SetRelationship error = %v, want NOT_FOUND", err)
	}
}

func TestSetRelationshipKeepsOrder(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C", "D")
	for _, id := range []string{"B", "C", "D"} {
		must(t, g.Connect("A", id, Association, false))
	}
	must(t, g.Connect("B", "D", Dependency, false))
	must(t, g.Connect("C", "D", Dependency, false))
	before := g.Edges()

	must(t, g.SetRelationship("A", "C", Composition, true))

	a, _ := g.Node("A")
	var targets []string
	for _, r := range a.Relationships {
		targets = append(targets, r.Target)
	}
	if want := []string{"B", "C", "D"}; !slices.Equal(targets, want) {
		t.Errorf("A targets = %v, want %v", targets, want)
	}
	after := g.Edges()
	if len(after) != len(before) {
		t.Fatalf("len(Edges) = %d, want %d", len(after), len(before))
	}
	for i := range before {
		if before[i].From != after[i].From || before[i].Target != after[i].Target {
			t.Errorf("edge %d = %s-%s, want %s-%s", i, after[i].From, after[i].Target, before[i].From, before[i].Target)
		}
	}
}

func TestSetRelationshipRepairsMirror(t *testing.T) {
	g, err := FromNodes([]Node{
		{ID: "A", Relationships: []Relationship{{Target: "B", Kind: Aggregation, WholeEndAtSource: true}}},
		{ID: "B"},
	})
	if err != nil {
		t.Fatal(err)
	}
	if len(g.Validate()) != 1 {
		t.Fatalf("Validate() = %v, want one violation", g.Validate())
	}
	if err := g.SetRelationship("A", "B", Aggregation, true); err != nil {
		t.Fatal(err)
	}
	if v := g.Validate(); len(v) != 0 {
		t.Errorf("Validate() after repair = %v, want none", v)
	}
}

func TestDisconnect(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	if err := g.Connect("A", "B", Dependency, false); err != nil {
		t.Fatal(err)
	}
	if err := g.Disconnect("B", "A"); err != nil {
		t.Fatalf("Disconnect: %v", err)
	}
	if len(g.Edges()) != 0 {
		t.Errorf("Edges() = %v, want none", g.Edges())
	}
	if err := g.Disconnect("A", "B"); !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("second Disconnect error = %v, want NOT_FOUND", err)
	}
}

func TestRemoveNodeStripsLinks(t *testing.T) {
	g := newTestGraph(t, "A", "B", "C")
	must(t, g.Connect("A", "B", Association, true))
	must(t, g.Connect("C", "B", Inheritance, false))
	must(t, g.Connect("A", "C", Composition, true))

	must(t, g.RemoveNode("B"))

	if g.Has("B") {
		t.Error("B still present")
	}
	for _, e := range g.Edges() {
		if e.Target == "B" {
			t.Errorf("edge %s -> B survived removal", e.From)
		}
	}
	if got := len(g.Edges()); got != 2 {
		t.Errorf("len(Edges()) = %d, want 2", got)
	}
	if got := g.IDs(); len(got) != 2 || got[0] != "A" || got[1] != "C" {
		t.Errorf("IDs() = %v, want [A C]", got)
	}
	if err := g.RemoveNode("B"); !errors.Is(err, errors.ErrCodeNodeNotFound) {
		t.Errorf("RemoveNode missing error = %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name  string
		nodes []Node
		want  []ViolationKind
	}{
		{
			name: "consistent",
			nodes: []Node{
				{ID: "A", Relationships: []Relationship{{Target: "B", Kind: Composition, WholeEndAtSource: true}}},
				{ID: "B", Relationships: []Relationship{{Target: "A", Kind: Composition}}},
			},
		},
		{
			name: "dangling",
			nodes: []Node{
				{ID: "A", Relationships: []Relationship{{Target: "ghost", Kind: Association}}},
			},
			want: []ViolationKind{ViolationDangling},
		},
		{
			name: "kind mismatch",
			nodes: []Node{
				{ID: "A", Relationships: []Relationship{{Target: "B", Kind: Composition, WholeEndAtSource: true}}},
				{ID: "B", Relationships: []Relationship{{Target: "A", Kind: Aggregation}}},
			},
			want: []ViolationKind{ViolationKindMismatch, ViolationKindMismatch},
		},
		{
			name: "flag mismatch",
			nodes: []Node{
				{ID: "A", Relationships: []Relationship{{Target: "B", Kind: Association}}},
				{ID: "B", Relationships: []Relationship{{Target: "A", Kind: Association}}},
			},
			want: []ViolationKind{ViolationFlagMismatch, ViolationFlagMismatch},
		},
		{
			name: "self and duplicate",
			nodes: []Node{
				{ID: "A", Relationships: []Relationship{
					{Target: "A", Kind: Association},
					{Target: "A", Kind: Association},
				}},
			},
			want: []ViolationKind{ViolationSelfLink, ViolationDuplicate},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := FromNodes(tt.nodes)
			if err != nil {
				t.Fatal(err)
			}
			got := g.Validate()
			if len(got) != len(tt.want) {
				t.Fatalf("Validate() = %v, want kinds %v", got, tt.want)
			}
			for i := range got {
				if got[i].Kind != tt.want[i] {
					t.Errorf("violation[%d] = %v, want %v", i, got[i].Kind, tt.want[i])
				}
			}
		})
	}
}

func TestCheckIgnoresDangling(t *testing.T) {
	g, err := FromNodes([]Node{{ID: "A", Relationships: []Relationship{{Target: "ghost"}}}})
	if err != nil {
		t.Fatal(err)
	}
	if err := g.Check(); err != nil {
		t.Errorf("Check() = %v, want nil", err)
	}
}

func TestFromNodesRejectsDuplicates(t *testing.T) {
	_, err := FromNodes([]Node{{ID: "A"}, {ID: "A"}})
	if !errors.Is(err, errors.ErrCodeDuplicateNode) {
		t.Errorf("FromNodes error = %v, want DUPLICATE_NODE", err)
	}
}

func TestFingerprint(t *testing.T) {
	build := func() *Graph {
		g := newTestGraph(t, "A", "B")
		must(t, g.Connect("A", "B", Aggregation, true))
		must(t, g.SetAttributes("A", []Attribute{{Name: "id", Type: TypeInt}}))
		return g
	}

	base := build().Fingerprint()

	cosmetic := build()
	must(t, cosmetic.Rename("A", "Renamed"))
	must(t, cosmetic.SetColor("B", "#ff0000"))
	must(t, cosmetic.SetAttributes("A", []Attribute{{Name: "uuid", Type: TypeString}}))
	if got := cosmetic.Fingerprint(); got != base {
		t.Errorf("cosmetic edit changed fingerprint")
	}

	structural := build()
	must(t, structural.SetOperations("B", []Operation{{Name: "run", Type: TypeVoid}}))
	if structural.Fingerprint() == base {
		t.Error("adding an operation did not change fingerprint")
	}

	relinked := build()
	must(t, relinked.SetRelationship("A", "B", Composition, true))
	if relinked.Fingerprint() == base {
		t.Error("changing relationship kind did not change fingerprint")
	}
}

func TestCloneIsDeep(t *testing.T) {
	g := newTestGraph(t, "A", "B")
	must(t, g.Connect("A", "B", Association, false))
	c := g.Clone()
	must(t, c.Disconnect("A", "B"))
	if len(g.Edges()) != 2 {
		t.Errorf("original lost edges after editing clone")
	}
}

func must(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatal(err)
	}
}
