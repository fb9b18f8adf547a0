package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/classgraph/pkg/model"
)

// =============================================================================
// Palette
// =============================================================================

var (
	colorAccent = lipgloss.Color("36")  // teal: titles, selection
	colorOK     = lipgloss.Color("35")  // green
	colorWarn   = lipgloss.Color("220") // amber
	colorErr    = lipgloss.Color("167") // soft red
	colorCmd    = lipgloss.Color("75")  // light blue: suggested commands
	colorText   = lipgloss.Color("255") // values
	colorGray   = lipgloss.Color("245") // labels
	colorDim    = lipgloss.Color("240") // connectors, borders, muted text
)

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)

	// StyleHighlight for class names and other emphasized values.
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleDim for secondary text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorText)

	// StyleNumber for counts.
	StyleNumber = lipgloss.NewStyle().Foreground(colorAccent)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorWarn)

	styleOK       = lipgloss.NewStyle().Foreground(colorOK)
	styleErr      = lipgloss.NewStyle().Foreground(colorErr)
	styleLabel    = lipgloss.NewStyle().Foreground(colorGray)
	styleCommand  = lipgloss.NewStyle().Foreground(colorCmd)
	styleSpinner  = lipgloss.NewStyle().Foreground(colorAccent)
	styleKeyLabel = lipgloss.NewStyle().Foreground(colorGray).Width(12)
)

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Lines
// =============================================================================

func printSuccess(format string, args ...any) {
	fmt.Println(styleOK.Render(iconSuccess) + " " + fmt.Sprintf(format, args...))
}

func printError(format string, args ...any) {
	fmt.Println(styleErr.Render(iconError) + " " + fmt.Sprintf(format, args...))
}

func printWarning(format string, args ...any) {
	fmt.Println(StyleWarning.Render(iconWarning + " " + fmt.Sprintf(format, args...)))
}

func printInfo(format string, args ...any) {
	fmt.Println(styleLabel.Render(iconInfo) + " " + fmt.Sprintf(format, args...))
}

// printDetail prints an indented, muted line.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

// printFile prints a written output path.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleKeyLabel.Render(key) + " " + StyleValue.Render(value))
}

// printNextStep suggests a follow-up command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() {
	fmt.Println()
}

// =============================================================================
// Diagram Output
// =============================================================================

// statsLine formats class and connector counts plus the layout cache state,
// e.g. "3 classes · 2 connectors · cached".
func statsLine(classCount, connectorCount int, cached bool) string {
	var parts []string
	if classCount > 0 {
		parts = append(parts, fmt.Sprintf("%d classes", classCount))
	}
	if connectorCount > 0 {
		parts = append(parts, fmt.Sprintf("%d connectors", connectorCount))
	}
	if cached {
		parts = append(parts, styleOK.Render("cached"))
	} else {
		parts = append(parts, "fresh")
	}
	return strings.Join(parts, " · ")
}

func printStats(classCount, connectorCount int, cached bool) {
	fmt.Println("  " + StyleDim.Render(statsLine(classCount, connectorCount, cached)))
}

// relationGlyph draws a relationship record as seen from the node that
// stores it: the left end is this node, the right end is r.Target.
//
//	◆── part      this node owns r.Target (composition)
//	──▷ base      this node specializes r.Target
//	◀── client    the association arrow points at this node
func relationGlyph(r model.Relationship) string {
	here := r.WholeEndAtSource
	switch r.Kind {
	case model.Aggregation:
		if here {
			return "◇──"
		}
		return "──◇"
	case model.Composition:
		if here {
			return "◆──"
		}
		return "──◆"
	case model.Inheritance:
		if here {
			return "◁──"
		}
		return "──▷"
	case model.Realization:
		if here {
			return "◁┄┄"
		}
		return "┄┄▷"
	case model.Dependency:
		if here {
			return "<┄┄"
		}
		return "┄┄>"
	default:
		if here {
			return "──▶"
		}
		return "◀──"
	}
}
