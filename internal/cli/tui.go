package cli

import (
	"fmt"
	"math"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/scene"
	"github.com/matzehuels/classgraph/pkg/viewport"
)

// Terminal cells are treated as cellW x cellH screen pixels so the
// viewport keeps a roughly square aspect ratio.
const (
	cellW = 8.0
	cellH = 16.0

	panCells  = 4     // cells moved per pan key
	zoomDelta = 200.0 // wheel units per zoom key
)

// Viewer styles
var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	viewLineStyle     = lipgloss.NewStyle().Foreground(colorDim)
	viewStatusStyle   = lipgloss.NewStyle().Foreground(colorGray)
)

// =============================================================================
// ViewerModel - Interactive diagram viewer
// =============================================================================

// ViewerModel is the bubbletea model for `classgraph view`. It draws the
// scene onto a character grid through a [viewport.Viewport].
type ViewerModel struct {
	Scene    scene.Scene
	Port     viewport.Viewport
	Selected int // index into Scene.Nodes, -1 for none
	Width    int // terminal columns
	Height   int // terminal rows, including the status line
	Title    string

	fitted bool
}

// NewViewerModel creates a viewer for sc.
func NewViewerModel(sc scene.Scene, title string) ViewerModel {
	return ViewerModel{
		Scene:    sc,
		Port:     viewport.New(),
		Selected: -1,
		Width:    80,
		Height:   24,
		Title:    title,
	}
}

func (m ViewerModel) Init() tea.Cmd {
	return nil
}

// container returns the drawing area in screen pixels.
func (m ViewerModel) container() (float64, float64) {
	rows := max(m.Height-1, 1)
	return float64(m.Width) * cellW, float64(rows) * cellH
}

func (m ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		if !m.fitted {
			m = m.fit()
		}
	case tea.KeyMsg:
		cw, ch := m.container()
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "left", "h":
			m.Port = m.Port.Pan(panCells*cellW, 0)
		case "right", "l":
			m.Port = m.Port.Pan(-panCells*cellW, 0)
		case "up", "k":
			m.Port = m.Port.Pan(0, panCells*cellH)
		case "down", "j":
			m.Port = m.Port.Pan(0, -panCells*cellH)
		case "+", "=":
			m.Port = m.Port.ZoomAt(cw/2, ch/2, -zoomDelta)
		case "-", "_":
			m.Port = m.Port.ZoomAt(cw/2, ch/2, zoomDelta)
		case "0", "f":
			m = m.fit()
		case "tab":
			m = m.selectNext(1)
		case "shift+tab":
			m = m.selectNext(-1)
		}
	}
	return m, nil
}

func (m ViewerModel) fit() ViewerModel {
	cw, ch := m.container()
	m.Port = m.Port.Fit(m.Scene.Width, m.Scene.Height, cw, ch)
	m.fitted = true
	return m
}

// selectNext moves the selection by step and centres the selected class.
func (m ViewerModel) selectNext(step int) ViewerModel {
	n := len(m.Scene.Nodes)
	if n == 0 {
		return m
	}
	if m.Selected < 0 {
		if step > 0 {
			m.Selected = 0
		} else {
			m.Selected = n - 1
		}
	} else {
		m.Selected = ((m.Selected+step)%n + n) % n
	}
	cw, ch := m.container()
	m.Port = m.Port.CenterOn(m.Scene.Nodes[m.Selected].Box, cw, ch)
	return m
}

func (m ViewerModel) View() string {
	rows := max(m.Height-1, 1)
	c := newCanvas(m.Width, rows)

	for _, p := range m.Scene.Primitives {
		if p.Shape == geometry.ShapeLine && len(p.Points) >= 2 {
			c.line(m.cell(p.Points[0]), m.cell(p.Points[1]), p.Dashed)
		}
	}
	for i, n := range m.Scene.Nodes {
		c.box(m, n, i == m.Selected)
	}
	for _, p := range m.Scene.Primitives {
		if p.Marker != geometry.MarkerNone && len(p.Points) > 0 {
			c.set(m.cell(p.Points[0]), markerGlyph(p.Marker), false)
		}
	}

	var b strings.Builder
	b.WriteString(c.String())
	b.WriteString("\n")
	b.WriteString(m.status())
	return b.String()
}

func (m ViewerModel) status() string {
	parts := []string{m.Title}
	if m.Selected >= 0 && m.Selected < len(m.Scene.Nodes) {
		parts = append(parts, viewSelectedStyle.Render(m.Scene.Nodes[m.Selected].Name))
	}
	parts = append(parts,
		fmt.Sprintf("%.2fx", m.Port.Scale),
		"tab select  +/- zoom  hjkl pan  0 fit  q quit")
	return viewStatusStyle.Render(strings.Join(parts, " · "))
}

// cell maps a world point to a terminal cell.
func (m ViewerModel) cell(p layout.Point) [2]int {
	s := m.Port.ToScreen(p)
	return [2]int{int(math.Floor(s.X / cellW)), int(math.Floor(s.Y / cellH))}
}

func markerGlyph(k geometry.MarkerKind) rune {
	switch k {
	case geometry.MarkerDiamond:
		return '◆'
	case geometry.MarkerTriangle:
		return '△'
	case geometry.MarkerOpenArrow:
		return '>'
	default:
		return '▸'
	}
}

// =============================================================================
// Canvas
// =============================================================================

type canvas struct {
	w, h  int
	cells [][]rune
	hl    [][]bool
}

func newCanvas(w, h int) *canvas {
	c := &canvas{w: w, h: h, cells: make([][]rune, h), hl: make([][]bool, h)}
	for y := range c.cells {
		c.cells[y] = []rune(strings.Repeat(" ", w))
		c.hl[y] = make([]bool, w)
	}
	return c
}

func (c *canvas) in(p [2]int) bool {
	return p[0] >= 0 && p[0] < c.w && p[1] >= 0 && p[1] < c.h
}

func (c *canvas) set(p [2]int, r rune, hl bool) {
	if c.in(p) {
		c.cells[p[1]][p[0]] = r
		c.hl[p[1]][p[0]] = hl
	}
}

// line samples the segment a-b once per cell.
func (c *canvas) line(a, b [2]int, dashed bool) {
	dx, dy := b[0]-a[0], b[1]-a[1]
	steps := max(abs(dx), abs(dy))
	if steps == 0 {
		return
	}
	glyph := '·'
	for i := 0; i <= steps; i++ {
		if dashed && i%2 == 1 {
			continue
		}
		x := a[0] + int(math.Round(float64(dx*i)/float64(steps)))
		y := a[1] + int(math.Round(float64(dy*i)/float64(steps)))
		c.set([2]int{x, y}, glyph, false)
	}
}

// box draws n's outline, clears its interior and writes as many text rows
// as fit: name, then attributes, then operations.
func (c *canvas) box(m ViewerModel, n scene.Node, selected bool) {
	tl := m.cell(n.Box.Min())
	br := m.cell(n.Box.Max())
	x0, y0 := tl[0], tl[1]
	x1, y1 := max(br[0], x0+1), max(br[1], y0+1)

	for y := y0; y <= y1; y++ {
		for x := x0; x <= x1; x++ {
			r := ' '
			switch {
			case (y == y0 || y == y1) && (x == x0 || x == x1):
				r = corner(x == x0, y == y0)
			case y == y0 || y == y1:
				r = '─'
			case x == x0 || x == x1:
				r = '│'
			}
			c.set([2]int{x, y}, r, selected)
		}
	}

	inner := x1 - x0 - 1
	if inner <= 0 {
		return
	}
	lines := append([]string{n.Name}, n.Attributes...)
	lines = append(lines, n.Operations...)
	for i, text := range lines {
		y := y0 + 1 + i
		if y >= y1 {
			break
		}
		text = truncateRunes(text, inner)
		start := x0 + 1
		if i == 0 {
			start += (inner - len([]rune(text))) / 2
		}
		for j, r := range []rune(text) {
			c.set([2]int{start + j, y}, r, selected)
		}
	}
}

func corner(left, top bool) rune {
	switch {
	case left && top:
		return '┌'
	case top:
		return '┐'
	case left:
		return '└'
	default:
		return '┘'
	}
}

// String renders the grid, styling highlighted runs and connector dots.
func (c *canvas) String() string {
	rows := make([]string, c.h)
	for y := range c.cells {
		var b strings.Builder
		x := 0
		for x < c.w {
			hl := c.hl[y][x]
			dot := c.cells[y][x] == '·'
			end := x + 1
			for end < c.w && c.hl[y][end] == hl && (c.cells[y][end] == '·') == dot {
				end++
			}
			run := string(c.cells[y][x:end])
			switch {
			case hl:
				run = viewSelectedStyle.Render(run)
			case dot:
				run = viewLineStyle.Render(run)
			}
			b.WriteString(run)
			x = end
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}

func truncateRunes(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
