package layout

import (
	"math"
	"math/rand/v2"
)

func (s *sim) seed() {
	rng := s.cfg.rng()
	all := make([]int, s.n())
	for i := range all {
		all[i] = i
	}

	if s.cfg.Seeding == SeedGrid || len(s.edges) == 0 {
		s.grid(all, Point{}, rng)
		return
	}

	placed := s.radial()
	var rest []int
	for i, ok := range placed {
		if !ok {
			rest = append(rest, i)
		}
	}
	if len(rest) == 0 {
		return
	}

	// Unreached nodes go on a grid below the radial component.
	minX, maxY := math.Inf(1), math.Inf(-1)
	for i, ok := range placed {
		if ok {
			b := s.box(i)
			minX = min(minX, b.X)
			maxY = max(maxY, b.Y+b.H)
		}
	}
	s.grid(rest, Point{minX, maxY + s.cfg.Spacing}, rng)
}

// grid places nodes row-major in uniform cells sized to the largest box, so
// no two seeded boxes overlap.
func (s *sim) grid(nodes []int, origin Point, rng *rand.Rand) {
	var cell Size
	for _, i := range nodes {
		cell.W = max(cell.W, s.size[i].W)
		cell.H = max(cell.H, s.size[i].H)
	}
	cell.W += s.cfg.Spacing
	cell.H += s.cfg.Spacing

	cols := int(math.Ceil(math.Sqrt(float64(len(nodes)))))
	for k, i := range nodes {
		row, col := k/cols, k%cols
		jx := (rng.Float64() - 0.5) * s.cfg.Jitter
		jy := (rng.Float64() - 0.5) * s.cfg.Jitter
		s.pos[i] = Point{
			X: origin.X + float64(col)*cell.W + jx,
			Y: origin.Y + float64(row)*cell.H + jy,
		}
	}
}

// radial runs a breadth-first traversal from the first linked node and puts
// each newly reached neighbor at evenly spaced angles around its parent, one
// preferred edge length away from the parent's boundary. The slot facing the
// parent is left free. Returns which nodes were placed.
func (s *sim) radial() []bool {
	placed := make([]bool, s.n())
	root := -1
	for i := range s.adj {
		if len(s.adj[i]) > 0 {
			root = i
			break
		}
	}
	if root < 0 {
		return placed
	}

	centers := make([]Point, s.n())
	parent := make([]int, s.n())
	placed[root] = true
	parent[root] = -1
	s.setCenter(root, Point{})

	queue := []int{root}
	for len(queue) > 0 {
		u := queue[0]
		queue = queue[1:]

		var children []int
		for _, v := range s.adj[u] {
			if !placed[v] {
				placed[v] = true
				children = append(children, v)
			}
		}
		if len(children) == 0 {
			continue
		}

		slots, base, first := len(children), 0.0, 0
		if p := parent[u]; p >= 0 {
			toParent := centers[p].Sub(centers[u])
			base = math.Atan2(toParent.Y, toParent.X)
			slots, first = len(children)+1, 1
		}
		for k, v := range children {
			angle := base + 2*math.Pi*float64(k+first)/float64(slots)
			dir := Point{math.Cos(angle), math.Sin(angle)}
			dist := s.cfg.PreferredLength +
				BoxAt(Point{}, s.size[u]).ExitDistance(dir) +
				BoxAt(Point{}, s.size[v]).ExitDistance(dir)
			centers[v] = centers[u].Add(dir.Scale(dist))
			s.setCenter(v, centers[v])
			parent[v] = u
			queue = append(queue, v)
		}
	}
	return placed
}

func (s *sim) setCenter(i int, c Point) {
	s.pos[i] = Point{c.X - s.size[i].W/2, c.Y - s.size[i].H/2}
}
