// Package patch rewrites the workbook exported by the front-end into its
// finished form: banners, header styling, conditional formats, column
// widths, per-row formulas, dropdown validations, dashboard formulas filled
// down to every tipster row and one font family throughout.
package patch

import (
	"fmt"

	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
)

// templateRow is the row the formula templates are written for.
const templateRow = 7

// RowFormulas returns the F, G and H formulas of one data row, keyed by
// column. The stake lookup in G reads from the sheet's own dashboard.
func RowFormulas(s layout.Schema, in layout.InputSheet, row int) map[string]string {
	c := in.Columns
	lookup := formula.Qualify(in.Dashboard, absRange(s.DashboardFirstCol, s.LookupLastCol, s.DashboardRows))
	e, cs, d, b, g := c.Result+"7", c.Stake+"7", c.Odds+"7", c.Tipster+"7", c.Amount+"7"

	units := fmt.Sprintf(`IF(%[1]s="L",-%[2]s,IF(%[1]s="W",%[2]s*(%[3]s-1),IF(%[1]s="HW",(%[2]s/2)*(%[3]s-1),IF(%[1]s="HL",-%[2]s/2,0))))`, e, cs, d)
	amount := fmt.Sprintf(`IFERROR((%s/VLOOKUP(%s,%s,2,FALSE))*%s,"")`, s.BankrollCell, b, lookup, cs)
	currency := fmt.Sprintf(`IF(%[1]s="w",%[2]s*%[3]s-%[2]s,IF(%[1]s="L",-%[2]s,0))`, e, g, d)

	delta := row - templateRow
	return map[string]string{
		c.ResultUnits:    formula.Offset(units, delta, 0),
		c.Amount:         formula.Offset(amount, delta, 0),
		c.ResultCurrency: formula.Offset(currency, delta, 0),
	}
}

// absRange renders "$A$3:$W$100".
func absRange(first, last string, rows layout.Span) string {
	return fmt.Sprintf("$%s$%d:$%s$%d", first, rows.First, last, rows.Last)
}

func listSource(sheet string, l layout.ReferenceList) string {
	return formula.Qualify(sheet, absRange(l.Column, l.Column, l.Rows))
}
