// Package ui holds the terminal styles and the structured output encoders
// shared by the report-producing commands.
package ui

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Output formats accepted by --output.
const (
	FormatText = "text"
	FormatJSON = "json"
	FormatYAML = "yaml"
)

var (
	TitleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205"))
	OKStyle      = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("40"))
	FailStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196"))
	WarnStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	DimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	FormulaStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
)

// OK renders a pass marker followed by msg.
func OK(msg string) string {
	return OKStyle.Render("✓") + " " + msg
}

// Fail renders a failure marker followed by msg.
func Fail(msg string) string {
	return FailStyle.Render("✗") + " " + msg
}

// Warn renders a warning marker followed by msg.
func Warn(msg string) string {
	return WarnStyle.Render("⚠") + " " + msg
}

// ValidFormat reports whether format is one of the supported outputs.
func ValidFormat(format string) bool {
	switch format {
	case FormatText, FormatJSON, FormatYAML:
		return true
	}
	return false
}

// Encode writes v as JSON or YAML. Text output is rendered by each report.
func Encode(w io.Writer, format string, v any) error {
	switch format {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		return fmt.Errorf("unsupported output format %q", format)
	}
}
