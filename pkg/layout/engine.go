package layout

import (
	"context"
	"math"

	"github.com/matzehuels/classgraph/pkg/model"
)

// Engine computes layouts. It holds no state between calls and is safe for
// concurrent use.
type Engine struct {
	cfg   Config
	sizer Sizer
}

// NewEngine returns an engine. Nil arguments select [DefaultConfig] and
// [DefaultSizer].
func NewEngine(cfg *Config, sizer *Sizer) *Engine {
	e := &Engine{cfg: DefaultConfig(), sizer: DefaultSizer}
	if cfg != nil {
		e.cfg = *cfg
	}
	if sizer != nil {
		e.sizer = *sizer
	}
	return e
}

// Config returns the engine's configuration.
func (e *Engine) Config() Config { return e.cfg }

// Sizer returns the sizer the engine measures boxes with.
func (e *Engine) Sizer() Sizer { return e.sizer }

// Layout places every node of g. It never fails: dangling relationships are
// ignored and an empty graph yields an empty result with the minimum world size.
func (e *Engine) Layout(g *model.Graph) Result {
	res, _ := e.LayoutContext(context.Background(), g)
	return res
}

// LayoutContext is Layout with cancellation checked between iterations.
// On cancellation it returns the context error and a zero Result.
func (e *Engine) LayoutContext(ctx context.Context, g *model.Graph) (Result, error) {
	s := newSim(g, e.sizer, e.cfg)
	if s.n() == 0 {
		return Result{
			Positions: map[string]Point{},
			Width:     e.cfg.MinWidth,
			Height:    e.cfg.MinHeight,
			Converged: true,
		}, nil
	}

	s.seed()

	iterations, converged := 0, false
	for iterations < e.cfg.MaxIterations {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		iterations++
		repelled := s.repel()
		avoided := s.avoidLines()
		attracted := s.attract()
		if !repelled && !avoided && !attracted {
			converged = true
			break
		}
	}
	s.separate()

	res := s.normalize()
	res.Iterations = iterations
	res.Converged = converged
	return res, nil
}

// sim is the mutable state of one layout run. Nodes are addressed by their
// index in graph order.
type sim struct {
	cfg   Config
	ids   []string
	size  []Size
	pos   []Point // top-left corners
	edges [][2]int
	adj   [][]int
}

func newSim(g *model.Graph, sizer Sizer, cfg Config) *sim {
	nodes := g.Nodes()
	s := &sim{
		cfg:  cfg,
		ids:  make([]string, len(nodes)),
		size: make([]Size, len(nodes)),
		pos:  make([]Point, len(nodes)),
		adj:  make([][]int, len(nodes)),
	}
	index := make(map[string]int, len(nodes))
	for i, n := range nodes {
		s.ids[i] = n.ID
		s.size[i] = sizer.Size(n)
		index[n.ID] = i
	}

	seen := make(map[[2]int]bool)
	for i, n := range nodes {
		for _, r := range n.Relationships {
			j, ok := index[r.Target]
			if !ok || j == i {
				continue
			}
			key := [2]int{min(i, j), max(i, j)}
			if seen[key] {
				continue
			}
			seen[key] = true
			s.edges = append(s.edges, key)
			s.adj[i] = append(s.adj[i], j)
			s.adj[j] = append(s.adj[j], i)
		}
	}
	return s
}

func (s *sim) n() int { return len(s.ids) }

func (s *sim) box(i int) Box { return BoxAt(s.pos[i], s.size[i]) }

func (s *sim) center(i int) Point { return s.box(i).Center() }

func (s *sim) move(i int, d Point) bool {
	if math.Abs(d.X) <= s.cfg.Tolerance && math.Abs(d.Y) <= s.cfg.Tolerance {
		return false
	}
	s.pos[i] = s.pos[i].Add(d)
	return true
}

// normalize translates the layout so its bounding box starts at the margin
// and computes the floored world size.
func (s *sim) normalize() Result {
	minP := Point{math.Inf(1), math.Inf(1)}
	maxP := Point{math.Inf(-1), math.Inf(-1)}
	for i := range s.pos {
		b := s.box(i)
		minP = Point{min(minP.X, b.X), min(minP.Y, b.Y)}
		maxP = Point{max(maxP.X, b.X+b.W), max(maxP.Y, b.Y+b.H)}
	}

	shift := Point{s.cfg.Margin, s.cfg.Margin}.Sub(minP)
	positions := make(map[string]Point, s.n())
	for i, id := range s.ids {
		positions[id] = s.pos[i].Add(shift)
	}
	extent := maxP.Sub(minP)
	return Result{
		Positions: positions,
		Width:     max(s.cfg.MinWidth, extent.X+2*s.cfg.Margin),
		Height:    max(s.cfg.MinHeight, extent.Y+2*s.cfg.Margin),
	}
}
