package patch

import (
	"fmt"
	"io"
	"strings"

	"tipsterFmt/internal/ui"
)

// Render writes the run summary in the given output format.
func Render(w io.Writer, sum *Summary, format string) error {
	if format != ui.FormatText {
		return ui.Encode(w, format, sum)
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("🎨 Patching workbook: " + sum.File))
	b.WriteString("\n\n")

	if in := sum.Inputs; in != (SheetStats{}) {
		b.WriteString(ui.OK(fmt.Sprintf("input sheets: %d formulas, %d dropdowns, %d new merges, %d conditional formats",
			in.Formulas, in.Validations, in.Merges, in.Conditional)))
		b.WriteString("\n")
	}
	if d := sum.Dashboards; d != (SheetStats{}) {
		b.WriteString(ui.OK(fmt.Sprintf("dashboards: %d new merges, %d conditional formats", d.Merges, d.Conditional)))
		b.WriteString("\n")
	}
	p := sum.Propagated
	b.WriteString(ui.OK(fmt.Sprintf("dashboard formulas: %d columns, %d cells written, %d already up to date",
		p.Columns, p.Written, p.Unchanged)))
	b.WriteString("\n")
	if sum.FontCells > 0 {
		b.WriteString(ui.OK(fmt.Sprintf("font family applied to %d cells", sum.FontCells)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	switch {
	case sum.DryRun:
		b.WriteString(ui.Warn("Dry run: nothing was written"))
	default:
		b.WriteString(ui.OK("Workbook updated: " + sum.File))
		if sum.Backup != "" {
			b.WriteString("\n")
			b.WriteString(ui.DimStyle.Render("Backup: " + sum.Backup))
		}
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
