// Package svg renders a [scene.Scene] as a standalone SVG document.
//
// Boxes follow the UML class notation: a colored name row, then the
// attribute and operation compartments separated by rules. Empty
// compartments show an italic dash. Connectors are drawn beneath the boxes
// and markers on top of them, so arrowheads stay visible where lines meet
// box borders.
package svg

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/scene"
	"github.com/matzehuels/classgraph/pkg/viewport"
)

const (
	fontFamily   = "Helvetica, Arial, sans-serif"
	nameFontSize = 15.0
	rowFontSize  = 13.0
	textInset    = 6.0
	borderColor  = "#999"
	dashPattern  = "6,4"
)

// Option configures rendering.
type Option func(*renderer)

type renderer struct {
	background string
	title      string
	view       *viewport.Viewport
	viewW      float64
	viewH      float64
}

// WithBackground fills the canvas with color before drawing.
func WithBackground(color string) Option { return func(r *renderer) { r.background = color } }

// WithTitle adds a <title> element.
func WithTitle(title string) Option { return func(r *renderer) { r.title = title } }

// WithViewport exports only what v shows in a container of w x h pixels
// instead of the whole world.
func WithViewport(v viewport.Viewport, w, h float64) Option {
	return func(r *renderer) {
		r.view = &v
		r.viewW, r.viewH = w, h
	}
}

// Render draws sc and returns the SVG document.
func Render(sc scene.Scene, opts ...Option) []byte {
	r := &renderer{}
	for _, opt := range opts {
		opt(r)
	}

	vb := layout.Box{W: sc.Width, H: sc.Height}
	outW, outH := sc.Width, sc.Height
	if r.view != nil && r.view.Scale > 0 {
		vb = r.view.Visible(r.viewW, r.viewH)
		outW, outH = r.viewW, r.viewH
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="%.2f %.2f %.2f %.2f" width="%.0f" height="%.0f">`+"\n",
		vb.X, vb.Y, vb.W, vb.H, outW, outH)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", escapeXML(r.title))
	}
	if r.background != "" {
		fmt.Fprintf(&buf, `  <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s"/>`+"\n",
			vb.X, vb.Y, vb.W, vb.H, escapeXML(r.background))
	}

	buf.WriteString(`  <g class="connectors">` + "\n")
	for _, p := range sc.Primitives {
		if p.Marker == geometry.MarkerNone {
			writePrimitive(&buf, p)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="nodes">` + "\n")
	for _, n := range sc.Nodes {
		writeNode(&buf, n)
	}
	buf.WriteString("  </g>\n")

	buf.WriteString(`  <g class="markers">` + "\n")
	for _, p := range sc.Primitives {
		if p.Marker != geometry.MarkerNone {
			writePrimitive(&buf, p)
		}
	}
	buf.WriteString("  </g>\n")

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func writePrimitive(buf *bytes.Buffer, p geometry.Primitive) {
	meta := fmt.Sprintf(`data-from="%s" data-to="%s" data-kind="%s"`, escapeXML(p.From), escapeXML(p.To), p.Kind)
	dash := ""
	if p.Dashed {
		dash = fmt.Sprintf(` stroke-dasharray="%s"`, dashPattern)
	}

	switch p.Shape {
	case geometry.ShapeLine:
		if len(p.Points) < 2 {
			return
		}
		a, b := p.Points[0], p.Points[len(p.Points)-1]
		fmt.Fprintf(buf, `    <line class="connector" x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s" stroke-width="%g"%s %s/>`+"\n",
			a.X, a.Y, b.X, b.Y, p.Stroke, p.StrokeWidth, dash, meta)
	case geometry.ShapePolygon:
		fmt.Fprintf(buf, `    <polygon class="marker marker-%s" points="%s" fill="%s" stroke="%s" stroke-width="%g" %s/>`+"\n",
			p.Marker, points(p.Points), p.Fill, p.Stroke, p.StrokeWidth, meta)
	case geometry.ShapePolyline:
		fmt.Fprintf(buf, `    <polyline class="marker marker-%s" points="%s" fill="none" stroke="%s" stroke-width="%g" %s/>`+"\n",
			p.Marker, points(p.Points), p.Stroke, p.StrokeWidth, meta)
	}
}

func points(pts []layout.Point) string {
	parts := make([]string, len(pts))
	for i, p := range pts {
		parts[i] = fmt.Sprintf("%.2f,%.2f", p.X, p.Y)
	}
	return strings.Join(parts, " ")
}

func writeNode(buf *bytes.Buffer, n scene.Node) {
	b, c := n.Box, n.Compartments
	textW := b.W - 2*textInset

	fmt.Fprintf(buf, `    <g class="node" id="node-%s">`+"\n", escapeXML(n.ID))
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="#fff" stroke="%s"/>`+"\n",
		b.X, b.Y, b.W, b.H, borderColor)
	fmt.Fprintf(buf, `      <rect x="%.2f" y="%.2f" width="%.2f" height="%.2f" fill="%s" stroke="%s"/>`+"\n",
		b.X, b.Y, b.W, c.Name, escapeXML(n.Color), borderColor)
	fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-family="%s" font-size="%g" font-weight="bold" dominant-baseline="middle">%s</text>`+"\n",
		b.X+textInset, b.Y+c.Name/2, fontFamily, nameFontSize, escapeXML(truncate(n.Name, textW, nameFontSize)))

	attrTop := b.Y + c.Name
	opsTop := attrTop + c.Attributes
	writeRule(buf, b.X, b.X+b.W, opsTop)

	writeRows(buf, n.Attributes, b.X+textInset, attrTop, c.Attributes, c, textW)
	writeRows(buf, n.Operations, b.X+textInset, opsTop, c.Operations, c, textW)

	buf.WriteString("    </g>\n")
}

func writeRule(buf *bytes.Buffer, x1, x2, y float64) {
	fmt.Fprintf(buf, `      <line x1="%.2f" y1="%.2f" x2="%.2f" y2="%.2f" stroke="%s"/>`+"\n", x1, y, x2, y, borderColor)
}

// writeRows centers each row in its slot below half the compartment padding.
func writeRows(buf *bytes.Buffer, rows []string, x, top, height float64, c layout.Compartments, width float64) {
	if len(rows) == 0 {
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-family="%s" font-size="%g" font-style="italic" dominant-baseline="middle"> -</text>`+"\n",
			x, top+height/2, fontFamily, rowFontSize)
		return
	}
	y := top + c.Padding/2 + c.Row/2
	for _, row := range rows {
		fmt.Fprintf(buf, `      <text x="%.2f" y="%.2f" font-family="%s" font-size="%g" dominant-baseline="middle">%s</text>`+"\n",
			x, y, fontFamily, rowFontSize, escapeXML(truncate(row, width, rowFontSize)))
		y += c.Row
	}
}
