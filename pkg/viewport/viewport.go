// Package viewport maps world coordinates to screen coordinates with a pan
// offset and a uniform zoom factor:
//
//	screen = world*Scale + Offset
//
// It is pure state; input handling lives with the caller (the terminal
// viewer, an SVG export or a browser front end).
package viewport

import (
	"fmt"
	"math"

	"github.com/matzehuels/classgraph/pkg/layout"
)

const (
	MinScale = 0.2
	MaxScale = 5.0

	// WheelSensitivity converts wheel delta units into an exponential zoom factor.
	WheelSensitivity = 0.0012
)

// Viewport is a pan offset (screen pixels) and a zoom scale.
type Viewport struct {
	OffsetX float64 `json:"offset_x"`
	OffsetY float64 `json:"offset_y"`
	Scale   float64 `json:"scale"`
}

// New returns the identity viewport.
func New() Viewport {
	return Viewport{Scale: 1}
}

// ToScreen maps a world point to screen coordinates.
func (v Viewport) ToScreen(p layout.Point) layout.Point {
	return layout.Point{X: p.X*v.Scale + v.OffsetX, Y: p.Y*v.Scale + v.OffsetY}
}

// ToWorld maps a screen point to world coordinates.
func (v Viewport) ToWorld(p layout.Point) layout.Point {
	return layout.Point{X: (p.X - v.OffsetX) / v.Scale, Y: (p.Y - v.OffsetY) / v.Scale}
}

// Pan moves the view by a screen-space delta.
func (v Viewport) Pan(dx, dy float64) Viewport {
	v.OffsetX += dx
	v.OffsetY += dy
	return v
}

// ZoomAt applies a wheel delta while keeping the world point under the
// screen position (px, py) fixed. Negative deltas zoom in. The resulting
// scale is clamped to [MinScale, MaxScale].
func (v Viewport) ZoomAt(px, py, deltaY float64) Viewport {
	return v.ZoomTo(px, py, v.Scale*math.Exp(-deltaY*WheelSensitivity))
}

// ZoomTo sets the scale (clamped) keeping (px, py) fixed.
func (v Viewport) ZoomTo(px, py, scale float64) Viewport {
	world := v.ToWorld(layout.Point{X: px, Y: py})
	v.Scale = clampScale(scale)
	v.OffsetX = px - world.X*v.Scale
	v.OffsetY = py - world.Y*v.Scale
	return v
}

// CenterOn pans so the center of box lands in the middle of a container of
// the given size. The scale is unchanged.
func (v Viewport) CenterOn(box layout.Box, containerW, containerH float64) Viewport {
	c := box.Center()
	v.OffsetX = containerW/2 - c.X*v.Scale
	v.OffsetY = containerH/2 - c.Y*v.Scale
	return v
}

// Fit scales and pans so a world of worldW x worldH fills the container,
// preserving aspect ratio and centering the slack.
func (v Viewport) Fit(worldW, worldH, containerW, containerH float64) Viewport {
	if worldW <= 0 || worldH <= 0 {
		return v
	}
	v.Scale = clampScale(min(containerW/worldW, containerH/worldH))
	v.OffsetX = (containerW - worldW*v.Scale) / 2
	v.OffsetY = (containerH - worldH*v.Scale) / 2
	return v
}

// Visible returns the world-space rectangle shown in a container.
func (v Viewport) Visible(containerW, containerH float64) layout.Box {
	tl := v.ToWorld(layout.Point{})
	return layout.Box{X: tl.X, Y: tl.Y, W: containerW / v.Scale, H: containerH / v.Scale}
}

// Transform renders the viewport as an SVG/CSS transform.
func (v Viewport) Transform() string {
	return fmt.Sprintf("translate(%g,%g) scale(%g)", v.OffsetX, v.OffsetY, v.Scale)
}

func clampScale(s float64) float64 {
	if math.IsNaN(s) || s <= 0 {
		return MinScale
	}
	return max(MinScale, min(MaxScale, s))
}
