package patch

import (
	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// DefaultFontFamily is used when no family is configured.
const DefaultFontFamily = "Arial"

// ApplyFontFamily sets the font family of every non-empty cell of every
// sheet. Size, weight and colour are kept. It returns the number of cells
// visited with content.
func ApplyFontFamily(editor *excel.Editor, s layout.Schema, family string) (int, error) {
	if family == "" {
		family = DefaultFontFamily
	}
	patch := &excel.StylePatch{Font: &excelize.Font{Family: family}}
	total := 0
	for _, sheet := range editor.GetSheetNames() {
		cells, err := contentCells(editor, s, sheet)
		if err != nil {
			return total, err
		}
		if err := editor.ApplyStyleCells(sheet, cells, patch); err != nil {
			return total, err
		}
		logger.Debug("Applied font family", "sheet", sheet, "family", family, "cells", len(cells))
		total += len(cells)
	}
	logger.Info("Applied font family", "family", family, "cells", total)
	return total, nil
}

// contentCells lists the cells holding a value or a formula. Formula cells
// written by this package have no cached value, so the scan covers the
// layout's formula area even where the stored dimension stops short.
func contentCells(editor *excel.Editor, s layout.Schema, sheet string) ([]string, error) {
	cols, rows, err := editor.UsedRange(sheet)
	if err != nil {
		return nil, err
	}
	lc, lr := layoutExtent(s, sheet)
	cols, rows = max(cols, lc), max(rows, lr)

	var cells []string
	for r := 1; r <= rows; r++ {
		for c := 1; c <= cols; c++ {
			cell, _ := excelize.CoordinatesToCellName(c, r)
			v, err := editor.GetCellValue(sheet, cell)
			if err != nil {
				return nil, err
			}
			if v == "" {
				f, err := editor.GetCellFormula(sheet, cell)
				if err != nil {
					return nil, err
				}
				if f == "" {
					continue
				}
			}
			cells = append(cells, cell)
		}
	}
	return cells, nil
}

func layoutExtent(s layout.Schema, sheet string) (cols, rows int) {
	if _, ok := s.InputFor(sheet); ok {
		cols, _ = excelize.ColumnNameToNumber(styledLastCol)
		return cols, s.FormulaRows.Last
	}
	if _, ok := s.DashboardFor(sheet); ok {
		cols, _ = excelize.ColumnNameToNumber(s.DashboardLastCol)
		return cols, s.DashboardRows.Last
	}
	return 0, 0
}
