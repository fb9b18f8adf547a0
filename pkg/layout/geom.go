package layout

import "math"

// Point is a position or vector in world coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

func (p Point) Add(q Point) Point     { return Point{p.X + q.X, p.Y + q.Y} }
func (p Point) Sub(q Point) Point     { return Point{p.X - q.X, p.Y - q.Y} }
func (p Point) Scale(s float64) Point { return Point{p.X * s, p.Y * s} }
func (p Point) Len() float64          { return math.Hypot(p.X, p.Y) }
func (p Point) Cross(q Point) float64 { return p.X*q.Y - p.Y*q.X }
func (p Point) Perp() Point           { return Point{-p.Y, p.X} }
func (p Point) Equal(q Point) bool    { return p.X == q.X && p.Y == q.Y }
func (p Point) Dist(q Point) float64  { return p.Sub(q).Len() }
func (p Point) Lerp(q Point, t float64) Point {
	return Point{p.X + (q.X-p.X)*t, p.Y + (q.Y-p.Y)*t}
}

// Unit returns p scaled to length one, or the zero vector for zero input.
func (p Point) Unit() Point {
	l := p.Len()
	if l == 0 {
		return Point{}
	}
	return Point{p.X / l, p.Y / l}
}

// Size is a box extent.
type Size struct {
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// Box is an axis-aligned rectangle anchored at its top-left corner.
type Box struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
	W float64 `json:"w" bson:"w"`
	H float64 `json:"h" bson:"h"`
}

// BoxAt returns a box of size s with its top-left corner at p.
func BoxAt(p Point, s Size) Box { return Box{X: p.X, Y: p.Y, W: s.W, H: s.H} }

func (b Box) Min() Point    { return Point{b.X, b.Y} }
func (b Box) Max() Point    { return Point{b.X + b.W, b.Y + b.H} }
func (b Box) Center() Point { return Point{b.X + b.W/2, b.Y + b.H/2} }

// Overlaps reports whether the interiors of a and b intersect.
// Boxes that only touch along an edge do not overlap.
func (b Box) Overlaps(o Box) bool {
	return b.X < o.X+o.W && o.X < b.X+b.W && b.Y < o.Y+o.H && o.Y < b.Y+b.H
}

// ExitDistance returns how far a ray from the box center travels along the
// unit direction u before leaving the box. Zero for a zero direction.
func (b Box) ExitDistance(u Point) float64 {
	t := math.Inf(1)
	if u.X != 0 {
		t = min(t, b.W/2/math.Abs(u.X))
	}
	if u.Y != 0 {
		t = min(t, b.H/2/math.Abs(u.Y))
	}
	if math.IsInf(t, 1) {
		return 0
	}
	return t
}

// EdgePoint returns where the segment from the box center toward target
// crosses the box boundary. Returns the center when target is the center.
func (b Box) EdgePoint(target Point) Point {
	c := b.Center()
	d := target.Sub(c)
	l := d.Len()
	if l == 0 {
		return c
	}
	u := d.Scale(1 / l)
	return c.Add(u.Scale(b.ExitDistance(u)))
}

// IntersectsSegment reports whether the segment p→q passes through the
// box, using Liang-Barsky clipping.
func (b Box) IntersectsSegment(p, q Point) bool {
	d := q.Sub(p)
	t0, t1 := 0.0, 1.0
	clip := func(den, num float64) bool {
		if den == 0 {
			return num >= 0
		}
		t := num / den
		if den < 0 {
			if t > t1 {
				return false
			}
			t0 = max(t0, t)
		} else {
			if t < t0 {
				return false
			}
			t1 = min(t1, t)
		}
		return true
	}
	return clip(-d.X, p.X-b.X) &&
		clip(d.X, b.X+b.W-p.X) &&
		clip(-d.Y, p.Y-b.Y) &&
		clip(d.Y, b.Y+b.H-p.Y) &&
		t0 <= t1
}
