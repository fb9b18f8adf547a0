package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/matzehuels/classgraph/pkg/pipeline"
	"github.com/matzehuels/classgraph/pkg/scene"
)

func TestParseFormats(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []string
	}{
		{"empty defaults to svg", "", []string{"svg"}},
		{"single format", "svg", []string{"svg"}},
		{"multiple formats", "svg,pdf,png", []string{"svg", "pdf", "png"}},
		{"spaces trimmed", "dot, json", []string{"dot", "json"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseFormats(tt.input)
			if len(got) != len(tt.want) {
				t.Fatalf("parseFormats(%q) length = %d, want %d", tt.input, len(got), len(tt.want))
			}
			for i, v := range got {
				if v != tt.want[i] {
					t.Errorf("parseFormats(%q)[%d] = %q, want %q", tt.input, i, v, tt.want[i])
				}
			}
		})
	}
}

func TestValidateFormats(t *testing.T) {
	tests := []struct {
		name    string
		formats []string
		wantErr bool
	}{
		{"valid svg", []string{"svg"}, false},
		{"valid dot", []string{"dot"}, false},
		{"valid all", []string{"svg", "pdf", "png", "dot", "json"}, false},
		{"invalid format", []string{"invalid"}, true},
		{"mixed valid invalid", []string{"svg", "invalid"}, true},
		{"duplicate", []string{"svg", "svg"}, true},
		{"empty slice", []string{}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := pipeline.ValidateFormats(tt.formats)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateFormats(%v) error = %v, wantErr %v", tt.formats, err, tt.wantErr)
			}
		})
	}
}

func TestBasePath(t *testing.T) {
	tests := []struct {
		name   string
		output string
		input  string
		many   bool
		want   string
	}{
		{"next to input", "", "diagrams/shop.json", false, "diagrams/shop"},
		{"format extension stripped", "out/shop.svg", "shop.yaml", false, "out/shop"},
		{"unknown extension kept", "out/shop.v2", "shop.yaml", false, "out/shop.v2"},
		{"directory for many", "out", "diagrams/shop.json", true, filepath.Join("out", "shop")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := basePath(tt.output, tt.input, tt.many); got != tt.want {
				t.Errorf("basePath(%q, %q, %v) = %q, want %q", tt.output, tt.input, tt.many, got, tt.want)
			}
		})
	}
}

func TestRenderCommand(t *testing.T) {
	e := newTestEnv(t)
	input := e.writeFile(t, "shapes.json", shapesDoc)
	base := filepath.Join(e.dir, "out", "shapes")
	if err := os.MkdirAll(filepath.Dir(base), 0o755); err != nil {
		t.Fatal(err)
	}

	if err := e.run(t, "render", input, "-f", "dot,json,svg", "-o", base, "--title", "Shapes"); err != nil {
		t.Fatalf("render: %v", err)
	}

	dot, err := os.ReadFile(base + ".dot")
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(dot), "digraph G {") {
		t.Errorf("dot output starts with %q", firstLine(string(dot)))
	}

	sc, err := scene.ReadFile(base + ".json")
	if err != nil {
		t.Fatal(err)
	}
	if len(sc.Nodes) != 3 {
		t.Errorf("json scene has %d nodes, want 3", len(sc.Nodes))
	}

	svg, err := os.ReadFile(base + ".svg")
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"<svg", "<title>Shapes</title>", "Circle"} {
		if !strings.Contains(string(svg), want) {
			t.Errorf("svg missing %q", want)
		}
	}
}

func TestRenderCommandSingleOutput(t *testing.T) {
	e := newTestEnv(t)
	input := e.writeFile(t, "shapes.json", shapesDoc)
	out := filepath.Join(e.dir, "diagram.gv")

	if err := e.run(t, "render", input, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(out); err != nil {
		t.Errorf("-o with one format should name the file exactly: %v", err)
	}
}

func TestRenderCommandManyInputs(t *testing.T) {
	e := newTestEnv(t)
	a := e.writeFile(t, "a.json", shapesDoc)
	b := e.writeFile(t, "b.yaml", "name: b\nnodes:\n  - id: Order\n  - id: Customer\nlinks:\n  - from: Order\n    to: Customer\n    kind: association\n")
	outDir := filepath.Join(e.dir, "rendered")

	if err := e.run(t, "render", a, b, "-f", "json", "-o", outDir); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"a.json", "b.json"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommandBadFormat(t *testing.T) {
	e := newTestEnv(t)
	input := e.writeFile(t, "shapes.json", shapesDoc)
	if err := e.run(t, "render", input, "-f", "gif"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func firstLine(s string) string {
	line, _, _ := strings.Cut(s, "\n")
	return line
}
