package cli

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"

	"github.com/matzehuels/classgraph/pkg/errors"
	cgio "github.com/matzehuels/classgraph/pkg/io"
	"github.com/matzehuels/classgraph/pkg/model"
	"github.com/matzehuels/classgraph/pkg/store"
)

// projectCommand creates the project management command.
func (c *CLI) projectCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage stored projects",
		Long: `Manage stored projects.

Projects live in the store configured by the [store] section of the config
file: a directory of JSON files by default, or a MongoDB collection.`,
	}

	cmd.AddCommand(c.projectListCommand())
	cmd.AddCommand(c.projectShowCommand())
	cmd.AddCommand(c.projectCreateCommand())
	cmd.AddCommand(c.projectDeleteCommand())
	cmd.AddCommand(c.projectImportCommand())
	cmd.AddCommand(c.projectAddClassCommand())
	cmd.AddCommand(c.projectRemoveClassCommand())
	cmd.AddCommand(c.projectLinkCommand())
	cmd.AddCommand(c.projectUnlinkCommand())

	for _, sub := range cmd.Commands() {
		if strings.Contains(sub.Use, "id]") {
			sub.ValidArgsFunction = c.completeProjectIDs
		}
	}

	return cmd
}

// withStore opens the configured store for the duration of fn.
func (c *CLI) withStore(ctx context.Context, fn func(store.Store) error) error {
	cfg, err := c.loadConfig()
	if err != nil {
		return err
	}
	st, err := c.newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()
	return fn(st)
}

// editProject loads a project, applies edit to its graph and saves it.
func (c *CLI) editProject(ctx context.Context, id string, edit func(*model.Graph) error) (*store.Project, error) {
	var p *store.Project
	err := c.withStore(ctx, func(st store.Store) error {
		var err error
		if p, err = st.Get(ctx, id); err != nil {
			return err
		}
		g, err := p.Graph()
		if err != nil {
			return err
		}
		if err := edit(g); err != nil {
			return err
		}
		if err := g.Check(); err != nil {
			return err
		}
		p.SetGraph(g)
		return st.Put(ctx, p)
	})
	return p, err
}

// =============================================================================
// Listing
// =============================================================================

func (c *CLI) projectListCommand() *cobra.Command {
	var owner string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				list, err := st.List(ctx, owner)
				if err != nil {
					return err
				}
				if len(list) == 0 {
					printInfo("No projects")
					return nil
				}
				fmt.Println(projectTable(list, time.Now()))
				return nil
			})
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "only list projects of this owner")

	return cmd
}

// projectTable renders summaries as a bordered table.
func projectTable(list []store.Summary, now time.Time) string {
	rows := make([][]string, len(list))
	for i, s := range list {
		rows[i] = []string{s.ID, s.Name, s.Owner, strconv.Itoa(s.NodeCount), formatRelativeTime(s.UpdatedAt, now)}
	}
	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("ID", "Name", "Owner", "Classes", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return lipgloss.NewStyle().Foreground(colorDim)
			case col == 3:
				return StyleNumber
			}
			return lipgloss.NewStyle()
		}).
		Render()
}

func (c *CLI) projectShowCommand() *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "show [id]",
		Short: "Show a project, or export it with -o",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				p, err := st.Get(ctx, args[0])
				if err != nil {
					return err
				}
				g, err := p.Graph()
				if err != nil {
					return err
				}
				if output != "" {
					if err := cgio.ExportFile(output, cgio.FromGraph(p.Name, g)); err != nil {
						return fmt.Errorf("export %s: %w", output, err)
					}
					printSuccess("Exported %s", p.Name)
					printFile(output)
					return nil
				}
				printProject(p, g)
				return nil
			})
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "export the project document (.json or .yaml)")

	return cmd
}

func printProject(p *store.Project, g *model.Graph) {
	fmt.Println(StyleTitle.Render(p.Name))
	printKeyValue("id", p.ID)
	if p.Owner != "" {
		printKeyValue("owner", p.Owner)
	}
	printKeyValue("updated", p.UpdatedAt.Local().Format(time.DateTime))
	printNewline()
	for _, n := range g.Nodes() {
		fmt.Println(StyleHighlight.Render(n.Name) + " " + StyleDim.Render("("+n.ID+")"))
		for _, a := range n.Attributes {
			printDetail("%s: %s", a.Name, a.Type)
		}
		for _, o := range n.Operations {
			printDetail("%s(): %s", o.Name, o.Type)
		}
		for _, r := range n.Relationships {
			printDetail("%s %s (%s)", relationGlyph(r), r.Target, r.Kind)
		}
	}
}

// =============================================================================
// Create, import and delete
// =============================================================================

func (c *CLI) projectCreateCommand() *cobra.Command {
	var owner, id string

	cmd := &cobra.Command{
		Use:   "create [name]",
		Short: "Create an empty project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.saveNewProject(cmd.Context(), args[0], owner, id, model.NewGraph())
		},
	}

	cmd.Flags().StringVar(&owner, "owner", "", "project owner")
	cmd.Flags().StringVar(&id, "id", "", "project id (default: generated)")

	return cmd
}

func (c *CLI) projectImportCommand() *cobra.Command {
	var name, owner, id string

	cmd := &cobra.Command{
		Use:   "import [project.json|project.yaml]",
		Short: "Store a project document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			d, g, err := cgio.ImportFile(args[0])
			if err != nil {
				return err
			}
			if name == "" {
				name = d.Name
			}
			return c.saveNewProject(cmd.Context(), name, owner, id, g)
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "project name (default: document name)")
	cmd.Flags().StringVar(&owner, "owner", "", "project owner")
	cmd.Flags().StringVar(&id, "id", "", "project id (default: generated)")

	return cmd
}

func (c *CLI) saveNewProject(ctx context.Context, name, owner, id string, g *model.Graph) error {
	p := store.NewProject(name, owner, g)
	if id != "" {
		p.ID = id
	}
	return c.withStore(ctx, func(st store.Store) error {
		if _, err := st.Get(ctx, p.ID); err == nil {
			return errors.New(errors.ErrCodeInvalidID, "project %q already exists", p.ID)
		} else if !errors.IsNotFound(err) {
			return err
		}
		if err := st.Put(ctx, p); err != nil {
			return err
		}
		printSuccess("Created %s", StyleHighlight.Render(p.Name))
		printKeyValue("id", p.ID)
		printKeyValue("classes", strconv.Itoa(p.NodeCount))
		return nil
	})
}

func (c *CLI) projectDeleteCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "delete [id]",
		Short: "Delete a project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return c.withStore(ctx, func(st store.Store) error {
				if err := st.Delete(ctx, args[0]); err != nil {
					return err
				}
				printSuccess("Deleted %s", args[0])
				return nil
			})
		},
	}
}

// =============================================================================
// Editing
// =============================================================================

func (c *CLI) projectAddClassCommand() *cobra.Command {
	var (
		name, color string
		attrs, ops  []string
	)

	cmd := &cobra.Command{
		Use:   "add-class [project-id] [class-id]",
		Short: "Add a class to a project",
		Example: `  classgraph project add-class shop Order --attr id:int --attr total:float --op place:void
  classgraph project add-class shop Customer --color "#ffe0b2"`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := classFromFlags(args[1], name, color, attrs, ops)
			if err != nil {
				return err
			}
			_, err = c.editProject(cmd.Context(), args[0], func(g *model.Graph) error {
				_, err := g.AddNode(n)
				return err
			})
			if err != nil {
				return err
			}
			printSuccess("Added %s to %s", StyleHighlight.Render(n.Name), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&name, "name", "", "display name (default: class id)")
	cmd.Flags().StringVar(&color, "color", "", "box color as #rgb or #rrggbb")
	cmd.Flags().StringArrayVar(&attrs, "attr", nil, "attribute as name[:type] (repeatable)")
	cmd.Flags().StringArrayVar(&ops, "op", nil, "operation as name[:type] (repeatable)")

	return cmd
}

// classFromFlags builds a class node from add-class flags.
func classFromFlags(id, name, color string, attrs, ops []string) (model.Node, error) {
	n := model.Node{ID: id, Name: name, Color: color}
	if n.Name == "" {
		n.Name = id
	}
	if color != "" {
		if err := errors.ValidateColor(color); err != nil {
			return n, err
		}
	}
	for _, a := range attrs {
		mn, mt, err := parseMember(a, model.TypeString)
		if err != nil {
			return n, err
		}
		n.Attributes = append(n.Attributes, model.Attribute{Name: mn, Type: mt})
	}
	for _, o := range ops {
		mn, mt, err := parseMember(o, model.TypeVoid)
		if err != nil {
			return n, err
		}
		n.Operations = append(n.Operations, model.Operation{Name: mn, Type: mt})
	}
	return n, nil
}

// parseMember splits "name[:type]".
func parseMember(s string, fallback model.PrimitiveType) (string, model.PrimitiveType, error) {
	name, typ, _ := strings.Cut(s, ":")
	name = strings.TrimSpace(name)
	if err := errors.ValidateName(name); err != nil {
		return "", "", err
	}
	t, err := model.ParsePrimitiveType(strings.TrimSpace(typ), fallback)
	if err != nil {
		return "", "", errors.Wrap(errors.ErrCodeInvalidInput, err, "member %q", s)
	}
	return name, t, nil
}

func (c *CLI) projectRemoveClassCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "remove-class [project-id] [class-id]",
		Short: "Remove a class and every link to it",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.editProject(cmd.Context(), args[0], func(g *model.Graph) error {
				return g.RemoveNode(args[1])
			})
			if err != nil {
				return err
			}
			printSuccess("Removed %s from %s", args[1], args[0])
			return nil
		},
	}
}

func (c *CLI) projectLinkCommand() *cobra.Command {
	var (
		kindName      string
		wholeAtSource bool
	)

	cmd := &cobra.Command{
		Use:   "link [project-id] [from] [to]",
		Short: "Link two classes",
		Long: `Link two classes.

For inheritance, realization and dependency, <from> is the specializing or
depending class. For aggregation and composition, --whole-at-source puts the
diamond on <from>.`,
		Args: cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := model.ParseKind(kindName)
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "--kind")
			}
			_, err = c.editProject(cmd.Context(), args[0], func(g *model.Graph) error {
				return g.Connect(args[1], args[2], kind, wholeAtSource)
			})
			if err != nil {
				return err
			}
			printSuccess("Linked %s %s %s (%s)", args[1], iconArrow, args[2], kind)
			return nil
		},
	}

	cmd.Flags().StringVarP(&kindName, "kind", "k", model.Association.String(), "association, aggregation, composition, dependency, inheritance, realization")
	cmd.Flags().BoolVar(&wholeAtSource, "whole-at-source", false, "the whole end is <from> (aggregation, composition)")

	return cmd
}

func (c *CLI) projectUnlinkCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "unlink [project-id] [a] [b]",
		Short: "Remove the link between two classes",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := c.editProject(cmd.Context(), args[0], func(g *model.Graph) error {
				return g.Disconnect(args[1], args[2])
			})
			if err != nil {
				return err
			}
			printSuccess("Unlinked %s and %s", args[1], args[2])
			return nil
		},
	}
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t, now time.Time) string {
	diff := now.Sub(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
