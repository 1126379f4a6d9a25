// Package stylesheet supplies the color helpers used by the bundled
// reference renderer (see package reference). It is grounded on
// gwcli/stylesheet/helpers.go's ErrPrintf/Checkbox/Pip style: small,
// composable lipgloss wrappers rather than a theming framework. The core
// engine never imports this package; only the reference Renderer does, which
// keeps the render.Renderer contract the actual seam between engine and
// terminal.
package stylesheet

import "github.com/charmbracelet/lipgloss"

var (
	ErrorText     = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	SecondaryText = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	PromptText    = lipgloss.NewStyle().Foreground(lipgloss.Color("12")).Bold(true)
	HelpCommand   = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	HelpText      = lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	ScrollGlyph   = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))
)

// Error renders s in the error style. The engine writes its own diagnostics
// ("No matched command" and the like) unstyled; it does not call Error.
func Error(s string) string {
	return ErrorText.Render(s)
}

// Prompt renders s in the prompt style; the reference renderer uses it to
// color its version string.
func Prompt(s string) string {
	return PromptText.Render(s)
}

// Pip returns a selection marker glyph, rendered in the secondary color.
func Pip() string {
	return SecondaryText.Render("*")
}
