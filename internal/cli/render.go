package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	cgio "github.com/matzehuels/classgraph/pkg/io"
	"github.com/matzehuels/classgraph/pkg/pipeline"
	"github.com/matzehuels/classgraph/pkg/render"
)

// maxParallelRenders bounds how many input files render at once.
const maxParallelRenders = 4

// renderOpts holds the command-line flags for the render command.
type renderOpts struct {
	output     string   // output file, base path, or directory for several inputs
	formats    []string // svg, png, pdf, dot, json
	scale      float64  // PNG zoom
	compact    bool     // DOT without compartments
	title      string   // SVG <title>
	background string   // SVG background fill
	graphviz   bool     // draw SVG/PNG/PDF with Graphviz
	noCache    bool
	refresh    bool
}

// renderCommand creates the render command for generating diagrams.
func (c *CLI) renderCommand() *cobra.Command {
	var formatsStr string
	opts := renderOpts{scale: pipeline.DefaultPNGScale}

	cmd := &cobra.Command{
		Use:   "render [project...]",
		Short: "Render class diagrams to SVG, PNG, PDF, DOT or JSON",
		Long: `Render class diagrams to SVG, PNG, PDF, DOT or JSON.

Each input is laid out (or served from the layout cache) and rendered to every
requested format. With a single input and a single format, -o names the output
file; with several formats it is the base path; with several inputs it is a
directory.

PNG and PDF output requires rsvg-convert on PATH.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts.formats = parseFormats(formatsStr)
			if err := pipeline.ValidateFormats(opts.formats); err != nil {
				return err
			}
			return c.runRender(cmd.Context(), args, &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", "", "output file, base path, or directory")
	cmd.Flags().StringVarP(&formatsStr, "format", "f", "", "output format(s): svg (default), png, pdf, dot, json (comma-separated)")
	cmd.Flags().Float64Var(&opts.scale, "scale", opts.scale, "PNG zoom factor")
	cmd.Flags().BoolVar(&opts.compact, "compact", false, "omit compartments in DOT output")
	cmd.Flags().StringVar(&opts.title, "title", "", "SVG document title")
	cmd.Flags().StringVar(&opts.background, "background", "", "SVG background color")
	cmd.Flags().BoolVar(&opts.graphviz, "graphviz", false, "draw SVG/PNG/PDF with Graphviz instead of the force layout")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached layouts and artifacts")

	return cmd
}

// runRender renders every input concurrently and reports the written files.
func (c *CLI) runRender(ctx context.Context, inputs []string, opts *renderOpts) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	runner, err := c.newRunner(ctx, cfg, opts.noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	popts := c.pipelineOptions(cfg)
	popts.Formats = opts.formats
	popts.Scale = opts.scale
	popts.Compact = opts.compact
	popts.Title = opts.title
	popts.Background = opts.background
	popts.Graphviz = opts.graphviz
	popts.Refresh = opts.refresh

	if len(inputs) > 1 && opts.output != "" {
		if err := os.MkdirAll(opts.output, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Rendering %d file(s)...", len(inputs)))
	spinner.Start()

	var (
		mu       sync.Mutex
		written  []renderedFile
		finished int
	)
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxParallelRenders)
	for _, input := range inputs {
		eg.Go(func() error {
			files, err := c.renderFile(egCtx, runner, input, popts, opts, len(inputs) > 1)
			if err != nil {
				return fmt.Errorf("%s: %w", input, err)
			}
			mu.Lock()
			written = append(written, files...)
			finished++
			spinner.SetMessage(fmt.Sprintf("Rendering %d/%d file(s)...", finished, len(inputs)))
			mu.Unlock()
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		spinner.StopWithError("Render failed")
		return err
	}
	spinner.Stop()

	printSuccess("Rendered %d file(s)", len(written))
	for _, f := range written {
		printFile(f.path)
	}
	for _, f := range written {
		if f.primary {
			printStats(f.classes, f.connectors, f.cached)
		}
	}
	prog.done("Render complete")
	return nil
}

// renderedFile records one written artifact.
type renderedFile struct {
	path       string
	primary    bool // first artifact of its input; carries the stats line
	classes    int
	connectors int
	cached     bool
}

func (c *CLI) renderFile(ctx context.Context, runner *pipeline.Runner, input string, popts pipeline.Options, opts *renderOpts, many bool) ([]renderedFile, error) {
	_, g, err := cgio.ImportFile(input)
	if err != nil {
		return nil, err
	}

	res, err := runner.Render(ctx, g, popts)
	if err != nil {
		return nil, err
	}

	base := basePath(opts.output, input, many)
	var files []renderedFile
	for i, format := range popts.Formats {
		path := base + "." + format
		if !many && len(popts.Formats) == 1 && opts.output != "" {
			path = opts.output
		}
		if err := os.WriteFile(path, res.Artifacts[format], 0o644); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		c.Logger.Debug("wrote artifact", "path", path, "bytes", len(res.Artifacts[format]))
		files = append(files, renderedFile{
			path:       path,
			primary:    i == 0,
			classes:    res.Stats.Nodes,
			connectors: connectorCount(res.Scene),
			cached:     res.CacheInfo.LayoutHit,
		})
	}
	return files, nil
}

// basePath derives the output path without extension. With several inputs,
// output is a directory holding one set of files per input. Otherwise a
// known format extension on output is stripped.
func basePath(output, input string, many bool) string {
	stem := strings.TrimSuffix(input, filepath.Ext(input))
	if output == "" {
		return stem
	}
	if many {
		return filepath.Join(output, filepath.Base(stem))
	}
	ext := filepath.Ext(output)
	if render.ValidFormat(strings.TrimPrefix(ext, ".")) {
		return strings.TrimSuffix(output, ext)
	}
	return output
}
