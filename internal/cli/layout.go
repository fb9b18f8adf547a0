package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/classgraph/pkg/geometry"
	cgio "github.com/matzehuels/classgraph/pkg/io"
	"github.com/matzehuels/classgraph/pkg/scene"
)

// layoutCommand creates the layout command, which writes a scene JSON file.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		output  string
		noCache bool
		refresh bool
		seed    uint64
	)

	cmd := &cobra.Command{
		Use:   "layout [project.json|project.yaml]",
		Short: "Compute class positions and connectors for a project",
		Long: `Compute class positions and connectors for a project.

The layout command reads a project document, runs the force-directed layout,
resolves every relationship connector and writes the resulting scene as JSON
(the same format as 'render -f json').

Layouts are cached by the structure of the diagram, so renaming a class or
changing its color reuses the cached positions.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runLayout(cmd.Context(), args[0], output, noCache, refresh, seed, cmd.Flags().Changed("seed"))
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: <input>.scene.json)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&refresh, "refresh", false, "recompute even when a cached layout exists")
	cmd.Flags().Uint64Var(&seed, "seed", 0, "random seed for initial placement (overrides config)")

	return cmd
}

// runLayout loads the project, computes the scene, and writes output.
func (c *CLI) runLayout(ctx context.Context, input, output string, noCache, refresh bool, seed uint64, seedSet bool) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	_, g, err := cgio.ImportFile(input)
	if err != nil {
		return err
	}

	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	opts := c.pipelineOptions(cfg)
	opts.Refresh = refresh
	if seedSet {
		opts.Layout.Seed = seed
	}

	spinner := newSpinnerWithContext(ctx, "Computing layout...")
	spinner.Start()

	sc, cacheHit, err := runner.Scene(ctx, g, opts)
	if err != nil {
		spinner.StopWithError("Layout failed")
		return fmt.Errorf("compute layout: %w", err)
	}
	spinner.Stop()

	if ctx.Err() != nil {
		return ctx.Err()
	}

	outputPath := output
	if outputPath == "" {
		outputPath = strings.TrimSuffix(input, filepath.Ext(input)) + ".scene.json"
	}
	if err := scene.WriteFile(sc, outputPath); err != nil {
		return fmt.Errorf("write output %s: %w", outputPath, err)
	}

	printSuccess("Layout complete")
	printFile(outputPath)
	printStats(g.Len(), connectorCount(sc), cacheHit)
	if !sc.Stats.Converged {
		printWarning("Stopped after %d iterations without converging", sc.Stats.Iterations)
	}
	printNewline()
	printNextStep("Explore", appName+" view "+input)

	return nil
}

// connectorCount counts the connector lines of sc, excluding markers.
func connectorCount(sc scene.Scene) int {
	n := 0
	for _, p := range sc.Primitives {
		if p.Shape == geometry.ShapeLine {
			n++
		}
	}
	return n
}
