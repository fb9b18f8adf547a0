package io

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
)

const shapesJSON = `{
  "name": "shapes",
  "nodes": [
    {"id": "Shape", "operations": [{"name": "area", "type": "number"}]},
    {"id": "Circle", "color": "#ffeeaa", "attributes": [{"name": "radius", "type": "float"}, {"name": "label"}]},
    {"id": "Canvas", "operations": [{"name": "draw"}]}
  ],
  "links": [
    {"from": "Circle", "to": "Shape", "kind": "extends"},
    {"from": "Canvas", "to": "Shape", "kind": "Aggregation", "whole_end_at_source": true}
  ]
}`

const shapesYAML = `
name: shapes
nodes:
  - id: Shape
    operations:
      - {name: area, type: number}
  - id: Circle
    color: "#ffeeaa"
    attributes:
      - {name: radius, type: float}
      - {name: label}
  - id: Canvas
    operations:
      - {name: draw}
links:
  - {from: Circle, to: Shape, kind: extends}
  - {from: Canvas, to: Shape, kind: Aggregation, whole_end_at_source: true}
`

func checkShapes(t *testing.T, g *model.Graph) {
	t.Helper()
	if g.Len() != 3 {
		t.Fatalf("Len = %d, want 3", g.Len())
	}
	circle, _ := g.Node("Circle")
	if circle.Name != "Circle" {
		t.Errorf("Name defaulted to %q, want ID", circle.Name)
	}
	if circle.Attributes[1].Type != model.TypeString {
		t.Errorf("attribute default type = %q, want string", circle.Attributes[1].Type)
	}
	canvas, _ := g.Node("Canvas")
	if canvas.Operations[0].Type != model.TypeVoid {
		t.Errorf("operation default type = %q, want void", canvas.Operations[0].Type)
	}
	shape, _ := g.Node("Shape")
	if shape.Operations[0].Type != model.TypeFloat {
		t.Errorf("number alias = %q, want float", shape.Operations[0].Type)
	}

	r, ok := circle.RelationshipTo("Shape")
	if !ok || r.Kind != model.Inheritance || r.WholeEndAtSource {
		t.Errorf("Circle->Shape = %+v, want unflagged inheritance", r)
	}
	r, _ = shape.RelationshipTo("Circle")
	if !r.WholeEndAtSource {
		t.Error("Shape->Circle mirror should be flagged")
	}
	r, _ = canvas.RelationshipTo("Shape")
	if r.Kind != model.Aggregation || !r.WholeEndAtSource {
		t.Errorf("Canvas->Shape = %+v", r)
	}
	if v := g.Validate(); len(v) != 0 {
		t.Errorf("violations: %v", v)
	}
}

func TestParseJSON(t *testing.T) {
	d, g, err := Parse([]byte(shapesJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "shapes" {
		t.Errorf("Name = %q", d.Name)
	}
	checkShapes(t, g)
}

func TestParseYAML(t *testing.T) {
	_, g, err := Parse([]byte(shapesYAML), FormatYAML)
	if err != nil {
		t.Fatal(err)
	}
	checkShapes(t, g)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name   string
		format string
		input  string
		code   errors.Code
	}{
		{"malformed json", FormatJSON, `{"nodes": [`, errors.ErrCodeInvalidFormat},
		{"unknown field", FormatJSON, `{"nodes": [], "edges": []}`, errors.ErrCodeInvalidFormat},
		{"unknown yaml field", FormatYAML, "nodes: []\nrows: 3\n", errors.ErrCodeInvalidFormat},
		{"missing id", FormatJSON, `{"nodes": [{"name": "x"}]}`, errors.ErrCodeInvalidInput},
		{"bad color", FormatJSON, `{"nodes": [{"id": "a", "color": "red"}]}`, errors.ErrCodeInvalidInput},
		{"bad type", FormatJSON, `{"nodes": [{"id": "a", "attributes": [{"name": "x", "type": "date"}]}]}`, errors.ErrCodeInvalidInput},
		{"bad kind", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "b"}], "links": [{"from": "a", "to": "b", "kind": "friend"}]}`, errors.ErrCodeInvalidInput},
		{"duplicate node", FormatJSON, `{"nodes": [{"id": "a"}, {"id": "a"}]}`, errors.ErrCodeDuplicateNode},
		{"link to unknown", FormatJSON, `{"nodes": [{"id": "a"}], "links": [{"from": "a", "to": "b", "kind": "association"}]}`, errors.ErrCodeNodeNotFound},
		{"self link", FormatJSON, `{"nodes": [{"id": "a"}], "links": [{"from": "a", "to": "a", "kind": "association"}]}`, errors.ErrCodeSelfLink},
		{"missing mirror", FormatJSON, `{"nodes": [{"id": "a", "relationships": [{"target": "b", "kind": "association"}]}, {"id": "b"}]}`, errors.ErrCodeInvalidGraph},
		{"unsupported format", "toml", `x = 1`, errors.ErrCodeUnsupported},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse([]byte(tt.input), tt.format)
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.GetCode(err); got != tt.code {
				t.Errorf("code = %s, want %s (%v)", got, tt.code, err)
			}
		})
	}
}

func TestDanglingRelationshipTolerated(t *testing.T) {
	_, g, err := Parse([]byte(`{"nodes": [{"id": "a", "relationships": [{"target": "gone", "kind": "dependency"}]}]}`), FormatJSON)
	if err != nil {
		t.Fatalf("dangling relationship rejected: %v", err)
	}
	if g.Len() != 1 {
		t.Errorf("Len = %d", g.Len())
	}
}

func TestRoundTrip(t *testing.T) {
	_, g, err := Parse([]byte(shapesJSON), FormatJSON)
	if err != nil {
		t.Fatal(err)
	}

	for _, format := range []string{FormatJSON, FormatYAML} {
		t.Run(format, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Write(&buf, FromGraph("shapes", g), format); err != nil {
				t.Fatal(err)
			}
			_, back, err := Parse(buf.Bytes(), format)
			if err != nil {
				t.Fatalf("re-read: %v\n%s", err, buf.String())
			}
			if back.Fingerprint() != g.Fingerprint() {
				t.Error("fingerprint changed across round trip")
			}
			checkShapes(t, back)
		})
	}
}

func TestImportExportFile(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shapes.yml")
	if err := os.WriteFile(src, []byte(strings.Replace(shapesYAML, "name: shapes\n", "", 1)), 0o644); err != nil {
		t.Fatal(err)
	}

	d, g, err := ImportFile(src)
	if err != nil {
		t.Fatal(err)
	}
	if d.Name != "shapes" {
		t.Errorf("name from file = %q, want shapes", d.Name)
	}

	out := filepath.Join(dir, "out.json")
	if err := ExportFile(out, FromGraph(d.Name, g)); err != nil {
		t.Fatal(err)
	}
	if _, _, err := ImportFile(out); err != nil {
		t.Errorf("re-import: %v", err)
	}

	_, _, err = ImportFile(filepath.Join(dir, "missing.json"))
	if !errors.Is(err, errors.ErrCodeNotFound) {
		t.Errorf("missing file err = %v", err)
	}
}

func TestFormatFromPath(t *testing.T) {
	for path, want := range map[string]string{
		"a.json": FormatJSON,
		"a.YAML": FormatYAML,
		"a.yml":  FormatYAML,
		"a":      FormatJSON,
	} {
		if got := FormatFromPath(path); got != want {
			t.Errorf("FormatFromPath(%q) = %q, want %q", path, got, want)
		}
	}
}
