package cli

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	colorCyan  = lipgloss.Color("36")
	colorGreen = lipgloss.Color("35")
	colorRed   = lipgloss.Color("167")
	colorBlue  = lipgloss.Color("75")
	colorWhite = lipgloss.Color("255")
	colorGray  = lipgloss.Color("245")
	colorDim   = lipgloss.Color("240")
)

var (
	StyleDim   = lipgloss.NewStyle().Foreground(colorDim)
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	styleSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleError   = lipgloss.NewStyle().Foreground(colorRed)
	styleInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleSpinner = lipgloss.NewStyle().Foreground(colorCyan)
	styleKey     = lipgloss.NewStyle().Foreground(colorGray).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// report writes the styled status lines of one command.
type report struct{ w io.Writer }

func newReport(cmd *cobra.Command) report { return report{w: cmd.OutOrStdout()} }

func (r report) status(style lipgloss.Style, icon, format string, args ...any) {
	fmt.Fprintln(r.w, style.Render(icon)+" "+fmt.Sprintf(format, args...))
}

func (r report) success(format string, args ...any) { r.status(styleSuccess, "✓", format, args...) }
func (r report) fail(format string, args ...any)    { r.status(styleError, "✗", format, args...) }
func (r report) info(format string, args ...any)    { r.status(styleInfo, "›", format, args...) }

// detail prints an indented, muted line.
func (r report) detail(format string, args ...any) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render(fmt.Sprintf(format, args...)))
}

// file prints a path that was written.
func (r report) file(path string) {
	fmt.Fprintln(r.w, "  "+StyleDim.Render("→")+" "+StyleValue.Render(path))
}

func (r report) field(key, value string) {
	fmt.Fprintln(r.w, styleKey.Render(key)+" "+StyleValue.Render(value))
}

// stats prints graph size and whether the stage came from the cache.
func (r report) stats(nodes, edges int, cached bool) {
	fmt.Fprintln(r.w, "  "+statsLine(nodes, edges, cached))
}

// next suggests a follow-up command after a blank line.
func (r report) next(steps ...[2]string) {
	fmt.Fprintln(r.w)
	for _, s := range steps {
		fmt.Fprintln(r.w, StyleDim.Render(s[0]+":")+" "+styleCommand.Render(s[1]))
	}
}

func statsLine(nodes, edges int, cached bool) string {
	var parts []string
	if nodes > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d nodes", nodes)))
	}
	if edges > 0 {
		parts = append(parts, StyleDim.Render(fmt.Sprintf("%d edges", edges)))
	}
	if cached {
		parts = append(parts, styleSuccess.Render("cached"))
	} else {
		parts = append(parts, styleInfo.Render("fresh"))
	}
	return strings.Join(parts, StyleDim.Render(" · "))
}
