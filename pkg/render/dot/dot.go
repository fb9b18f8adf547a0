// Package dot exports a class diagram as Graphviz DOT and renders it with
// the embedded Graphviz engine.
//
// This is an alternative to the force layout: Graphviz chooses positions,
// and UML semantics are expressed through DOT arrowheads. Each mirrored
// pair becomes one undirected edge whose head or tail carries the marker.
package dot

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/model"
)

// Options configures DOT generation.
type Options struct {
	// RankDir is the Graphviz rank direction ("TB", "LR", ...). Default "BT",
	// which puts general classes above their specializations.
	RankDir string
	// Compact hides attribute and operation compartments.
	Compact bool
}

// arrowheads maps each kind to its DOT arrow shape.
var arrowheads = map[model.Kind]string{
	model.Association: "normal",
	model.Aggregation: "odiamond",
	model.Composition: "diamond",
	model.Dependency:  "vee",
	model.Inheritance: "onormal",
	model.Realization: "onormal",
}

// Arrowhead returns the DOT arrow shape for k.
func Arrowhead(k model.Kind) string {
	if a, ok := arrowheads[k]; ok {
		return a
	}
	return "none"
}

// ToDOT converts g to DOT. Nodes are emitted in graph order as UML record
// shapes; each related pair is emitted once and dangling targets are skipped.
func ToDOT(g *model.Graph, opts Options) string {
	rankdir := opts.RankDir
	if rankdir == "" {
		rankdir = "BT"
	}

	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	fmt.Fprintf(&buf, "  rankdir=%s;\n", rankdir)
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=record, style=filled, fillcolor=white, fontname=\"Helvetica\", fontsize=12];\n")
	buf.WriteString("  edge [color=\"#888888\", penwidth=2, arrowsize=1.2];\n")
	buf.WriteString("\n")

	for _, n := range g.Nodes() {
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", n.ID, recordLabel(n, opts.Compact), n.Color)
	}

	buf.WriteString("\n")
	seen := make(map[[2]string]bool)
	for _, e := range g.Edges() {
		if !g.Has(e.Target) || e.From == e.Target {
			continue
		}
		key := [2]string{min(e.From, e.Target), max(e.From, e.Target)}
		if seen[key] {
			continue
		}
		seen[key] = true
		fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.From, e.Target, strings.Join(edgeAttrs(e), ", "))
	}

	buf.WriteString("}\n")
	return buf.String()
}

// edgeAttrs places the arrowhead on the end that carries the UML marker.
// Edges run from the record owner to its target; dir=both lets either end
// carry a shape.
func edgeAttrs(e model.Edge) []string {
	head, tail := "none", "none"
	if geometry.MarkerAtSource(e.Kind, e.WholeEndAtSource) {
		tail = Arrowhead(e.Kind)
	} else {
		head = Arrowhead(e.Kind)
	}
	attrs := []string{"dir=both", "arrowhead=" + head, "arrowtail=" + tail}
	if geometry.IsDashed(e.Kind) {
		attrs = append(attrs, "style=dashed")
	}
	return attrs
}

func recordLabel(n *model.Node, compact bool) string {
	name := recordEscape(n.Name)
	if name == "" {
		name = recordEscape(n.ID)
	}
	if compact {
		return "{" + name + "}"
	}
	return "{" + name + "|" + compartment(attrLines(n)) + "|" + compartment(opLines(n)) + "}"
}

func attrLines(n *model.Node) []string {
	out := make([]string, len(n.Attributes))
	for i, a := range n.Attributes {
		out[i] = fmt.Sprintf("%s: %s", a.Name, a.Type)
	}
	return out
}

func opLines(n *model.Node) []string {
	out := make([]string, len(n.Operations))
	for i, o := range n.Operations {
		out[i] = fmt.Sprintf("%s(): %s", o.Name, o.Type)
	}
	return out
}

func compartment(lines []string) string {
	if len(lines) == 0 {
		return " "
	}
	var b strings.Builder
	for _, l := range lines {
		b.WriteString(recordEscape(l))
		b.WriteString(`\l`)
	}
	return b.String()
}

// recordEscape escapes characters with meaning inside record labels.
func recordEscape(s string) string {
	r := strings.NewReplacer(`{`, `\{`, `}`, `\}`, `|`, `\|`, `<`, `\<`, `>`, `\>`)
	return r.Replace(s)
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
func RenderSVG(ctx context.Context, dot string) ([]byte, error) {
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return buf.Bytes(), nil
}
