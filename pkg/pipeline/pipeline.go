// Package pipeline runs the classgraph pipeline with caching:
//
//  1. Layout: place every class box with the force engine
//  2. Geometry: resolve connector lines and UML markers
//  3. Render: produce SVG, PNG, PDF, DOT or JSON artifacts
//
// The CLI and the HTTP server share one [Runner] so caching and logging
// behave the same everywhere.
//
//	runner := pipeline.NewRunner(c, nil, logger)
//	res, err := runner.Render(ctx, g, pipeline.Options{Formats: []string{"svg"}})
//	svg := res.Artifacts["svg"]
//
// Layouts are cached by the graph's structural fingerprint, so renaming a
// class or changing its color reuses the stored positions while the rendered
// artifacts still reflect the edit.
package pipeline

import (
	"fmt"
	"io"
	"slices"
	"time"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/classgraph/pkg/cache"
	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/geometry"
	"github.com/matzehuels/classgraph/pkg/layout"
	"github.com/matzehuels/classgraph/pkg/render"
	"github.com/matzehuels/classgraph/pkg/scene"
)

// DefaultPNGScale is the rsvg-convert zoom used for PNG output.
const DefaultPNGScale = 2.0

// =============================================================================
// Options
// =============================================================================

// Options configures one pipeline run. Zero-valued engine sections are
// replaced with their defaults.
type Options struct {
	Layout   layout.Config   `json:"layout"`
	Sizer    layout.Sizer    `json:"sizer"`
	Geometry geometry.Config `json:"geometry"`

	Formats    []string `json:"formats,omitempty"`
	Scale      float64  `json:"scale,omitempty"`
	Compact    bool     `json:"compact,omitempty"`
	Title      string   `json:"title,omitempty"`
	Background string   `json:"background,omitempty"`

	// Graphviz draws SVG, PNG and PDF with Graphviz instead of the force
	// layout. The layout still runs; it backs the JSON scene.
	Graphviz bool `json:"graphviz,omitempty"`

	// Refresh ignores cached layouts and artifacts but still writes them.
	Refresh bool `json:"refresh,omitempty"`

	Logger *log.Logger `json:"-"`
}

// SetDefaults fills zero-valued sections.
func (o *Options) SetDefaults() {
	if o.Layout == (layout.Config{}) {
		o.Layout = layout.DefaultConfig()
	}
	if o.Sizer == (layout.Sizer{}) {
		o.Sizer = layout.DefaultSizer
	}
	if o.Geometry == (geometry.Config{}) {
		o.Geometry = geometry.DefaultConfig()
	}
	if len(o.Formats) == 0 {
		o.Formats = []string{render.FormatSVG}
	}
	if o.Scale <= 0 {
		o.Scale = DefaultPNGScale
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// Validate applies defaults and checks formats and engine constants.
func (o *Options) Validate() error {
	o.SetDefaults()
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	if err := o.Layout.Validate(); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidConfig, err, "layout")
	}
	return nil
}

// LayoutKeyOpts covers every option that changes positions.
func (o *Options) LayoutKeyOpts() cache.LayoutKeyOpts {
	return cache.LayoutKeyOpts{ConfigHash: cache.HashJSON(struct {
		Layout layout.Config
		Sizer  layout.Sizer
	}{o.Layout, o.Sizer})}
}

// ArtifactKeyOpts covers every option that changes the bytes of format.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	k := cache.ArtifactKeyOpts{Format: format, Title: o.Title, Background: o.Background}
	if format != render.FormatJSON && format != render.FormatDOT {
		k.Graphviz = o.Graphviz
	}
	switch format {
	case render.FormatPNG:
		k.Scale = o.Scale
	case render.FormatDOT:
		k.Compact = o.Compact
	}
	return k
}

// ValidateFormat checks a single output format.
func ValidateFormat(format string) error {
	if !render.ValidFormat(format) {
		return errors.New(errors.ErrCodeInvalidFormat, "invalid format %q (must be one of: %v)", format, render.Formats)
	}
	return nil
}

// ValidateFormats checks each format and rejects duplicates.
func ValidateFormats(formats []string) error {
	for i, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
		if slices.Contains(formats[:i], f) {
			return errors.New(errors.ErrCodeInvalidFormat, "format %q requested twice", f)
		}
	}
	return nil
}

// =============================================================================
// Results
// =============================================================================

// Result is the output of [Runner.Render].
type Result struct {
	Scene     scene.Scene
	Artifacts map[string][]byte
	Stats     Stats
	CacheInfo CacheInfo
}

// Stats records timings and sizes.
type Stats struct {
	Nodes      int
	LayoutTime time.Duration
	RenderTime time.Duration
}

// CacheInfo reports which stages were served from the cache.
type CacheInfo struct {
	LayoutHit bool
	// RenderHit is true when every requested artifact came from the cache.
	RenderHit bool
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes=%d layout=%s render=%s", s.Nodes, s.LayoutTime, s.RenderTime)
}
