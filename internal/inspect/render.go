package inspect

import (
	"fmt"
	"io"
	"strings"

	"tipsterFmt/internal/ui"
)

// Render writes the report in the given output format.
func Render(w io.Writer, r *Report, format string) error {
	if format != ui.FormatText {
		return ui.Encode(w, format, r)
	}
	return renderText(w, r)
}

func renderText(w io.Writer, r *Report) error {
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("📊 " + r.File))
	b.WriteString("\n")

	sheet := ""
	for _, f := range r.Findings {
		if f.Sheet != sheet {
			sheet = f.Sheet
			b.WriteString("\n")
			b.WriteString(ui.TitleStyle.Render(sheet))
			b.WriteString("\n")
		}
		b.WriteString(findingLine(f))
		b.WriteString("\n")
	}
	for _, s := range r.Skipped {
		b.WriteString("\n")
		b.WriteString(ui.Warn(fmt.Sprintf("Sheet %q not found, skipped", s)))
	}
	if len(r.Skipped) > 0 {
		b.WriteString("\n")
	}
	if n := r.Frozen(); n > 0 {
		b.WriteString("\n")
		b.WriteString(ui.Fail(fmt.Sprintf("%d cell(s) hold a literal where a formula is expected", n)))
		b.WriteString("\n")
	}
	_, err := io.WriteString(w, b.String())
	return err
}

func findingLine(f Finding) string {
	label := f.Label
	if label == "" {
		label = "-"
	}
	head := fmt.Sprintf("  %-5s %-22s", f.Cell, truncate(label, 22))
	switch {
	case f.IsFormula:
		return head + " " + ui.FormulaStyle.Render("="+f.Formula) + ui.DimStyle.Render("  → "+quoteValue(f.Value))
	case f.Frozen:
		return head + " " + ui.FailStyle.Render("literal "+quoteValue(f.Value)+" (formula expected)")
	default:
		return head + " " + ui.DimStyle.Render("literal "+quoteValue(f.Value))
	}
}

func quoteValue(v string) string {
	if v == "" {
		return "(empty)"
	}
	return fmt.Sprintf("%q", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
