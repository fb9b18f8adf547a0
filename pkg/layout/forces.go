package layout

import "math"

// repel pushes apart every pair of overlapping boxes along the vector
// between their centers, scaled by the overlap on each axis.
func (s *sim) repel() bool {
	moved := false
	for i := 0; i < s.n(); i++ {
		for j := i + 1; j < s.n(); j++ {
			a, b := s.box(i), s.box(j)
			if !a.Overlaps(b) {
				continue
			}
			d := a.Center().Sub(b.Center())
			if d.X == 0 && d.Y == 0 {
				d = Point{1, 0}
			}
			u := d.Unit()
			overlapX := (a.W+b.W)/2 - math.Abs(d.X)
			overlapY := (a.H+b.H)/2 - math.Abs(d.Y)
			push := Point{u.X * overlapX, u.Y * overlapY}.Scale(s.cfg.RepulsionScale)
			if s.move(i, push) {
				moved = true
			}
			if s.move(j, push.Scale(-1)) {
				moved = true
			}
		}
	}
	return moved
}

// avoidLines pushes any third box crossed by an edge's center line
// perpendicular to that line, away from the side it sits on.
func (s *sim) avoidLines() bool {
	if s.cfg.AvoidanceStep == 0 {
		return false
	}
	moved := false
	for _, e := range s.edges {
		p, q := s.center(e[0]), s.center(e[1])
		dir := q.Sub(p).Unit()
		if dir.X == 0 && dir.Y == 0 {
			continue
		}
		normal := dir.Perp()
		for k := 0; k < s.n(); k++ {
			if k == e[0] || k == e[1] || !s.box(k).IntersectsSegment(p, q) {
				continue
			}
			side := 1.0
			if dir.Cross(s.center(k).Sub(p)) < 0 {
				side = -1
			}
			if s.move(k, normal.Scale(side*s.cfg.AvoidanceStep)) {
				moved = true
			}
		}
	}
	return moved
}

// attract pulls linked boxes toward the preferred boundary-to-boundary
// distance, moving both endpoints by the same amount in opposite directions.
func (s *sim) attract() bool {
	moved := false
	for _, e := range s.edges {
		a, b := s.box(e[0]), s.box(e[1])
		d := b.Center().Sub(a.Center())
		dist := d.Len()
		if dist == 0 {
			continue
		}
		u := d.Scale(1 / dist)
		gap := dist - a.ExitDistance(u) - b.ExitDistance(u)
		f := (gap - s.cfg.PreferredLength) * s.cfg.AttractionScale
		if s.move(e[0], u.Scale(f)) {
			moved = true
		}
		if s.move(e[1], u.Scale(-f)) {
			moved = true
		}
	}
	return moved
}

// separationPasses caps the collision-only passes run after the force loop.
const separationPasses = 200

// separationGap is the clearance left between boxes pushed apart by separate.
const separationGap = 1.0

// separate removes overlap left when the force loop stops. Overlapping pairs
// are pushed apart along their axis of least penetration until none remain.
// If the passes run out, spread scales the layout about its centroid.
func (s *sim) separate() {
	for range separationPasses {
		if !s.resolveOverlaps() {
			return
		}
	}
	s.spread()
}

// resolveOverlaps runs one collision pass and reports whether any pair
// overlapped.
func (s *sim) resolveOverlaps() bool {
	found := false
	for i := 0; i < s.n(); i++ {
		for j := i + 1; j < s.n(); j++ {
			a, b := s.box(i), s.box(j)
			if !a.Overlaps(b) {
				continue
			}
			found = true
			d := b.Center().Sub(a.Center())
			penX := (a.W+b.W)/2 - math.Abs(d.X) + separationGap
			penY := (a.H+b.H)/2 - math.Abs(d.Y) + separationGap
			var push Point
			if penX <= penY {
				push = Point{sign(d.X) * penX / 2, 0}
			} else {
				push = Point{0, sign(d.Y) * penY / 2}
			}
			s.pos[i] = s.pos[i].Sub(push)
			s.pos[j] = s.pos[j].Add(push)
		}
	}
	return found
}

// spread scales every center away from the centroid by the smallest factor
// that clears all overlapping pairs. Scaling only grows center distances,
// so pairs that were already clear stay clear.
func (s *sim) spread() {
	var c Point
	for i := range s.pos {
		c = c.Add(s.center(i))
	}
	c = c.Scale(1 / float64(s.n()))

	for i := 0; i < s.n(); i++ {
		for j := i + 1; j < s.n(); j++ {
			if s.center(i).Equal(s.center(j)) {
				s.pos[j] = s.pos[j].Add(Point{separationGap, 0})
			}
		}
	}

	k := 1.0
	for i := 0; i < s.n(); i++ {
		for j := i + 1; j < s.n(); j++ {
			a, b := s.box(i), s.box(j)
			if !a.Overlaps(b) {
				continue
			}
			d := b.Center().Sub(a.Center())
			if d.X == 0 && d.Y == 0 {
				continue
			}
			kx, ky := math.Inf(1), math.Inf(1)
			if d.X != 0 {
				kx = ((a.W+b.W)/2 + separationGap) / math.Abs(d.X)
			}
			if d.Y != 0 {
				ky = ((a.H+b.H)/2 + separationGap) / math.Abs(d.Y)
			}
			k = max(k, min(kx, ky))
		}
	}
	if k == 1 {
		return
	}
	for i := range s.pos {
		center := c.Add(s.center(i).Sub(c).Scale(k))
		s.pos[i] = center.Sub(Point{s.size[i].W / 2, s.size[i].H / 2})
	}
}

// sign returns -1 for negative x and 1 otherwise, so a zero offset still
// picks a direction.
func sign(x float64) float64 {
	if x < 0 {
		return -1
	}
	return 1
}
