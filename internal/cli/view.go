package cli

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	cgio "github.com/matzehuels/classgraph/pkg/io"
	"github.com/matzehuels/classgraph/pkg/scene"
)

// viewCommand creates the interactive terminal viewer.
func (c *CLI) viewCommand() *cobra.Command {
	var noCache bool

	cmd := &cobra.Command{
		Use:   "view [project|scene.json]",
		Short: "Explore a diagram in the terminal",
		Long: `Explore a diagram in the terminal.

The input is either a project document, which is laid out first, or a scene
file written by 'layout' (any file ending in .scene.json).

Keys:
  arrows, hjkl   pan
  + / -          zoom around the centre
  tab            select the next class and centre it
  0              fit the whole diagram
  q              quit`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(cmd.Context(), args[0], noCache)
		},
	}

	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runView(ctx context.Context, input string, noCache bool) error {
	sc, err := c.loadScene(ctx, input, noCache)
	if err != nil {
		return err
	}
	title := strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))

	p := tea.NewProgram(NewViewerModel(sc, title), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		return fmt.Errorf("viewer: %w", err)
	}
	return nil
}

// loadScene reads a scene file or lays out a project document.
func (c *CLI) loadScene(ctx context.Context, input string, noCache bool) (scene.Scene, error) {
	if strings.HasSuffix(input, ".scene.json") {
		return scene.ReadFile(input)
	}

	cfg, err := c.loadConfig()
	if err != nil {
		return scene.Scene{}, err
	}
	_, g, err := cgio.ImportFile(input)
	if err != nil {
		return scene.Scene{}, err
	}
	runner, err := c.newRunner(ctx, cfg, noCache)
	if err != nil {
		return scene.Scene{}, fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	sc, _, err := runner.Scene(ctx, g, c.pipelineOptions(cfg))
	return sc, err
}
