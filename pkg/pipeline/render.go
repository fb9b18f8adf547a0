package pipeline

import (
	"context"
	"fmt"

	"github.com/matzehuels/classgraph/pkg/errors"
	"github.com/matzehuels/classgraph/pkg/model"
	"github.com/matzehuels/classgraph/pkg/render"
	"github.com/matzehuels/classgraph/pkg/render/dot"
	"github.com/matzehuels/classgraph/pkg/render/svg"
	"github.com/matzehuels/classgraph/pkg/scene"
)

// RenderArtifact produces one output format. It does not touch the cache.
// g is only read for the DOT and Graphviz paths.
func RenderArtifact(ctx context.Context, sc scene.Scene, g *model.Graph, format string, opts Options) ([]byte, error) {
	switch format {
	case render.FormatJSON:
		return scene.Marshal(sc)
	case render.FormatDOT:
		return []byte(dot.ToDOT(g, dot.Options{Compact: opts.Compact})), nil
	}

	svgData, err := renderSVG(ctx, sc, g, opts)
	if err != nil {
		return nil, err
	}
	switch format {
	case render.FormatSVG:
		return svgData, nil
	case render.FormatPNG:
		return render.ToPNG(ctx, svgData, opts.Scale)
	case render.FormatPDF:
		return render.ToPDF(ctx, svgData)
	default:
		return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported format %q", format)
	}
}

func renderSVG(ctx context.Context, sc scene.Scene, g *model.Graph, opts Options) ([]byte, error) {
	if opts.Graphviz {
		data, err := dot.RenderSVG(ctx, dot.ToDOT(g, dot.Options{Compact: opts.Compact}))
		if err != nil {
			return nil, fmt.Errorf("graphviz: %w", err)
		}
		return data, nil
	}
	var svgOpts []svg.Option
	if opts.Title != "" {
		svgOpts = append(svgOpts, svg.WithTitle(opts.Title))
	}
	if opts.Background != "" {
		svgOpts = append(svgOpts, svg.WithBackground(opts.Background))
	}
	return svg.Render(sc, svgOpts...), nil
}
