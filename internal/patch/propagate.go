package patch

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// PropagateStats counts the cells touched by a propagation run.
type PropagateStats struct {
	Columns   int `json:"columns" yaml:"columns"`
	Written   int `json:"written" yaml:"written"`
	Unchanged int `json:"unchanged" yaml:"unchanged"`
}

// Propagate fills each dashboard's template-row formulas down to every
// tipster row, shifting relative references to the destination row and
// copying the template cell's style. Cells that already hold the expected
// formula are left alone.
func Propagate(editor *excel.Editor, s layout.Schema) (PropagateStats, error) {
	var total PropagateStats
	for _, d := range s.Dashboards() {
		st, err := propagateSheet(editor, s, d.Name)
		if err != nil {
			return total, err
		}
		total.Columns += st.Columns
		total.Written += st.Written
		total.Unchanged += st.Unchanged
	}
	return total, nil
}

func propagateSheet(editor *excel.Editor, s layout.Schema, sheet string) (PropagateStats, error) {
	var st PropagateStats
	if err := editor.RequireSheet(sheet); err != nil {
		return st, err
	}
	first, err := excelize.ColumnNameToNumber(s.DashboardFirstCol)
	if err != nil {
		return st, err
	}
	last, err := excelize.ColumnNameToNumber(s.DashboardLastCol)
	if err != nil {
		return st, err
	}

	tr := s.DashboardTemplateRow
	for col := first; col <= last; col++ {
		src, _ := excelize.CoordinatesToCellName(col, tr)
		f, err := editor.GetCellFormula(sheet, src)
		if err != nil {
			return st, err
		}
		if f == "" {
			continue
		}
		st.Columns++
		for _, row := range s.FillRows().Rows() {
			dst, _ := excelize.CoordinatesToCellName(col, row)
			want := formula.FillDown(f, tr, row)
			have, err := editor.GetCellFormula(sheet, dst)
			if err != nil {
				return st, err
			}
			if have != want {
				if err := editor.SetCellFormula(sheet, dst, want); err != nil {
					return st, fmt.Errorf("propagate %s!%s: %w", sheet, dst, err)
				}
				st.Written++
			} else {
				st.Unchanged++
			}
			if err := editor.CopyStyle(sheet, src, dst); err != nil {
				return st, err
			}
		}
	}

	logger.Info("Propagated dashboard formulas", "sheet", sheet,
		"columns", st.Columns, "written", st.Written, "unchanged", st.Unchanged)
	return st, nil
}
