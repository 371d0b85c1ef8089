package patch

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// StyleDashboards styles the header row, sport title, body grid, widths and
// sign colouring of both dashboards.
func StyleDashboards(editor *excel.Editor, s layout.Schema) (SheetStats, error) {
	var total SheetStats
	for _, d := range s.Dashboards() {
		st, err := StyleDashboard(editor, s, d)
		if err != nil {
			return total, err
		}
		total.add(st)
	}
	return total, nil
}

// StyleDashboard styles one dashboard. The sheet must exist.
func StyleDashboard(editor *excel.Editor, s layout.Schema, d layout.Dashboard) (SheetStats, error) {
	var st SheetStats
	sheet := d.Name
	if err := editor.RequireSheet(sheet); err != nil {
		return st, err
	}

	small := &excelize.Font{Size: s.DashboardFontSize}
	nameCell := &excel.StylePatch{
		Fill:      excel.SolidFill(LightBlue),
		Font:      small,
		Border:    excel.ThinBorder(Black),
		Alignment: excel.Centered(),
	}
	headerCell := &excel.StylePatch{
		Fill:      excel.SolidFill(Yellow),
		Font:      small,
		Border:    excel.ThinBorder(Black),
		Alignment: excel.Centered(),
	}
	bodyCell := &excel.StylePatch{
		Font:      small,
		Border:    excel.ThinBorder(Black),
		Alignment: excel.Centered(),
	}

	first, last := s.DashboardFirstCol, s.DashboardLastCol
	hr := s.DashboardHeaderRow
	if err := editor.ApplyStyleCells(sheet, []string{fmt.Sprintf("%s%d", first, hr)}, nameCell); err != nil {
		return st, err
	}
	next, err := nextColumn(first)
	if err != nil {
		return st, err
	}
	if err := editor.ApplyStyle(sheet, fmt.Sprintf("%s%d:%s%d", next, hr, last, hr), headerCell); err != nil {
		return st, err
	}

	title := fmt.Sprintf("%s%d:%s%d", s.SportHeaderFirstCol, hr-1, last, hr-1)
	created, err := editor.MergeCell(sheet, title)
	if err != nil {
		return st, err
	}
	if created {
		st.Merges++
	}
	anchor := topLeft(title)
	if err := editor.SetCellValue(sheet, anchor, s.SportTitle); err != nil {
		return st, err
	}
	if err := editor.ApplyStyleCells(sheet, []string{anchor}, bannerStyle); err != nil {
		return st, err
	}

	rows := s.DashboardRows
	body := fmt.Sprintf("%s%d:%s%d", first, rows.First, last, rows.Last)
	if err := editor.ApplyStyle(sheet, body, bodyCell); err != nil {
		return st, err
	}
	if err := editor.ApplyStyle(sheet, rows.Column(first), nameCell); err != nil {
		return st, err
	}

	for _, w := range s.DashboardWidths() {
		if err := editor.SetColWidth(sheet, w.Column, w.Column, w.Width); err != nil {
			return st, err
		}
	}
	for _, col := range s.DashboardSignCols() {
		if err := editor.SetSignFormat(sheet, rows.Column(col)); err != nil {
			return st, err
		}
		st.Conditional++
	}

	logger.Info("Styled dashboard", "sheet", sheet, "merges", st.Merges)
	return st, nil
}

func nextColumn(col string) (string, error) {
	n, err := excelize.ColumnNameToNumber(col)
	if err != nil {
		return "", err
	}
	return excelize.ColumnNumberToName(n + 1)
}
