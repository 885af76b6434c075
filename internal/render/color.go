package render

import "github.com/fatih/color"

// SetColor enables or disables ANSI colors for all render output.
func SetColor(enabled bool) {
	color.NoColor = !enabled
}

// Highlight renders a value in bold red, the emphasis used for ranked rates.
func Highlight(value string) string {
	return color.New(color.FgRed, color.Bold).Sprint(value)
}

// Dim renders secondary values such as unmapped coordinates.
func Dim(value string) string {
	return color.New(color.Faint).Sprint(value)
}
