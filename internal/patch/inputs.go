package patch

import (
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// Fill colours.
const (
	Black     = "000000"
	White     = "FFFFFF"
	Green     = "00B050"
	Blue      = "4472C4"
	LightBlue = "DCE6F1"
	Yellow    = "FFFF99"
)

var (
	bannerStyle = &excel.StylePatch{
		Fill:      excel.SolidFill(Black),
		Font:      &excelize.Font{Color: White, Bold: true, Size: 14},
		Alignment: excel.Centered(),
	}
	winIconStyle    = &excel.StylePatch{Fill: excel.SolidFill(Green), Alignment: excel.Centered()}
	centeredStyle   = &excel.StylePatch{Alignment: excel.Centered()}
	blueHeaderStyle = &excel.StylePatch{
		Fill:      excel.SolidFill(Blue),
		Font:      &excelize.Font{Color: Black, Bold: true, Size: 11},
		Alignment: excel.Centered(),
	}
	entryStyle = &excel.StylePatch{
		Fill:      excel.SolidFill(LightBlue),
		Border:    excel.ThinBorder(Black),
		Alignment: excel.Centered(),
	}
	gridStyle = &excel.StylePatch{Border: excel.ThinBorder(Black), Alignment: excel.Centered()}
)

// styledLastCol closes the bordered block of the input sheets. It matches
// the right banner so both variants get the same grid.
const styledLastCol = "T"

// SheetStats counts what one sheet pass did.
type SheetStats struct {
	Merges      int `json:"merges" yaml:"merges"`
	Formulas    int `json:"formulas" yaml:"formulas"`
	Validations int `json:"validations" yaml:"validations"`
	Conditional int `json:"conditional_formats" yaml:"conditional_formats"`
}

func (s *SheetStats) add(o SheetStats) {
	s.Merges += o.Merges
	s.Formulas += o.Formulas
	s.Validations += o.Validations
	s.Conditional += o.Conditional
}

// StyleInput decorates one input sheet and writes its row formulas and
// dropdowns. The sheet must exist.
func StyleInput(editor *excel.Editor, s layout.Schema, in layout.InputSheet) (SheetStats, error) {
	var st SheetStats
	sheet := in.Name
	if err := editor.RequireSheet(sheet); err != nil {
		return st, err
	}

	if err := styleBanners(editor, s, in, &st); err != nil {
		return st, err
	}
	if err := styleHeaders(editor, s, in, &st); err != nil {
		return st, err
	}
	if err := styleEntryRows(editor, s, in, &st); err != nil {
		return st, err
	}
	for _, w := range in.Widths() {
		if err := editor.SetColWidth(sheet, w.Column, w.Column, w.Width); err != nil {
			return st, err
		}
	}
	if err := writeRowFormulas(editor, s, in, &st); err != nil {
		return st, err
	}
	if err := addValidations(editor, s, in, &st); err != nil {
		return st, err
	}

	logger.Info("Styled input sheet", "sheet", sheet,
		"merges", st.Merges, "formulas", st.Formulas, "validations", st.Validations)
	return st, nil
}

func styleBanners(editor *excel.Editor, s layout.Schema, in layout.InputSheet, st *SheetStats) error {
	sheet := in.Name
	banners := []struct{ rng, text string }{
		{s.BannerLeft, s.BannerLeftText},
		{s.BannerRight, in.Banner},
	}
	for _, b := range banners {
		created, err := editor.MergeCell(sheet, b.rng)
		if err != nil {
			return err
		}
		if created {
			st.Merges++
		}
		anchor := topLeft(b.rng)
		if err := editor.SetCellValue(sheet, anchor, b.text); err != nil {
			return err
		}
		if err := editor.ApplyStyleCells(sheet, []string{anchor}, bannerStyle); err != nil {
			return err
		}
	}

	if icons := s.IconCells(); len(icons) > 0 {
		if err := editor.ApplyStyleCells(sheet, icons[:1], winIconStyle); err != nil {
			return err
		}
		if err := editor.ApplyStyleCells(sheet, icons[1:], centeredStyle); err != nil {
			return err
		}
	}
	return nil
}

func styleHeaders(editor *excel.Editor, s layout.Schema, in layout.InputSheet, st *SheetStats) error {
	sheet := in.Name
	if err := editor.SetRowHeight(sheet, s.HeaderRow, s.HeaderRowHeight); err != nil {
		return err
	}
	created, err := editor.MergeCell(sheet, s.BetMerge)
	if err != nil {
		return err
	}
	if created {
		st.Merges++
	}
	if err := editor.ApplyStyleCells(sheet, s.BlueHeaders(), blueHeaderStyle); err != nil {
		return err
	}

	if err := editor.ApplyStyleCells(sheet, []string{s.YieldCell}, &excel.StylePatch{NumFmt: s.YieldFormat}); err != nil {
		return err
	}
	if err := editor.SetSignFormat(sheet, s.StatsSignCells); err != nil {
		return err
	}
	st.Conditional++
	return nil
}

func styleEntryRows(editor *excel.Editor, s layout.Schema, in layout.InputSheet, st *SheetStats) error {
	sheet, c, rows := in.Name, in.Columns, s.StyledRows
	entry := fmt.Sprintf("%s%d:%s%d", c.Tipster, rows.First, c.Result, rows.Last)
	if err := editor.ApplyStyle(sheet, entry, entryStyle); err != nil {
		return err
	}
	if err := editor.ApplyStyle(sheet, rows.Column(c.LivePre), gridStyle); err != nil {
		return err
	}
	rest := fmt.Sprintf("%s%d:%s%d", c.ResultUnits, rows.First, styledLastCol, rows.Last)
	if err := editor.ApplyStyle(sheet, rest, gridStyle); err != nil {
		return err
	}

	// W and L are told apart by colour on every data row.
	if err := editor.SetEqualsFormat(sheet, s.Data.Column(c.Result),
		excel.EqualsRule{Value: "L", Fill: excel.LightRed},
		excel.EqualsRule{Value: "W", Fill: excel.LightGreen},
	); err != nil {
		return err
	}
	st.Conditional++
	return nil
}

func writeRowFormulas(editor *excel.Editor, s layout.Schema, in layout.InputSheet, st *SheetStats) error {
	c := in.Columns
	for _, row := range s.FormulaRows.Rows() {
		formulas := RowFormulas(s, in, row)
		for _, col := range []string{c.ResultUnits, c.Amount, c.ResultCurrency} {
			cell := fmt.Sprintf("%s%d", col, row)
			if err := editor.SetCellFormula(in.Name, cell, formulas[col]); err != nil {
				return err
			}
			st.Formulas++
		}
	}
	return nil
}

// InputValidations lists the dropdowns of one input sheet variant.
func InputValidations(s layout.Schema, in layout.InputSheet) []excel.ListValidation {
	ref, c, data := s.Reference(), in.Columns, s.Data
	vs := []excel.ListValidation{
		{
			Sqref:        data.Column(c.LivePre),
			Source:       listSource(ref.Sheet, ref.LivePre),
			ErrorTitle:   "Valor no válido",
			ErrorMessage: "Selecciona: PRE, LIVE o Combinado",
		},
		{
			Sqref:        data.Column(c.Tipster),
			Source:       tipsterSource(s, in),
			ErrorTitle:   "Tipster no válido",
			ErrorMessage: "Selecciona un tipster de la lista",
		},
		{
			Sqref:        data.Column(c.Result),
			Items:        layout.ResultCodes,
			ErrorTitle:   "Resultado no válido",
			ErrorMessage: "Selecciona: W (Win), L (Loss), V (Void), HW (Half Win), HL (Half Loss)",
		},
		{
			Sqref:        data.Column(c.Combinada),
			Source:       listSource(ref.Sheet, ref.Combinada),
			ErrorTitle:   "Valor no válido",
			ErrorMessage: "Selecciona: Si o No",
		},
		{
			Sqref:        data.Column(c.Sport),
			Source:       listSource(ref.Sheet, ref.Sports),
			ErrorTitle:   "Deporte no válido",
			ErrorMessage: "Selecciona un deporte de la lista",
		},
		{
			Sqref:        data.Column(c.Platform),
			Source:       listSource(ref.Sheet, ref.Platforms),
			ErrorTitle:   "Plataforma no válida",
			ErrorMessage: "Selecciona una plataforma de la lista",
		},
		{
			Sqref:        data.Column(c.Bookie),
			Source:       listSource(ref.Sheet, ref.Bookies),
			ErrorTitle:   "Bookmaker no válido",
			ErrorMessage: "Selecciona un bookmaker de la lista",
		},
	}
	return vs
}

// tipsterSource is the name column of the sheet's own dashboard.
func tipsterSource(s layout.Schema, in layout.InputSheet) string {
	return listSource(in.Dashboard, layout.ReferenceList{Column: s.DashboardFirstCol, Rows: s.DashboardRows})
}

func addValidations(editor *excel.Editor, s layout.Schema, in layout.InputSheet, st *SheetStats) error {
	for _, v := range InputValidations(s, in) {
		if err := editor.SetListValidation(in.Name, v); err != nil {
			return err
		}
		st.Validations++
	}
	return nil
}

func topLeft(rangeRef string) string {
	cell, _, _ := strings.Cut(rangeRef, ":")
	return cell
}
