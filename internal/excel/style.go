package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"
	"github.com/xuri/nfp"
)

// StylePatch describes the parts of a cell style to change. Nil or zero
// fields leave the cell's existing setting alone, so patches applied one
// after another accumulate.
type StylePatch struct {
	Fill      *excelize.Fill
	Font      *excelize.Font // Family, Size, Color and Bold are merged when set
	Border    []excelize.Border
	Alignment *excelize.Alignment
	NumFmt    string // format code, e.g. "0.00%"
}

type styleKey struct {
	base  int
	patch *StylePatch
}

// SolidFill is a pattern fill of one colour
func SolidFill(color string) *excelize.Fill {
	return &excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1}
}

// ThinBorder draws a thin line on all four sides
func ThinBorder(color string) []excelize.Border {
	return []excelize.Border{
		{Type: "left", Color: color, Style: 1},
		{Type: "top", Color: color, Style: 1},
		{Type: "right", Color: color, Style: 1},
		{Type: "bottom", Color: color, Style: 1},
	}
}

func Centered() *excelize.Alignment {
	return &excelize.Alignment{Horizontal: "center", Vertical: "center"}
}

// ApplyStyle merges the patch into the style of every cell of rangeRef.
// Derived styles are cached per (existing style, patch) so a patch applied
// to many cells sharing a style creates one new style.
func (e *Editor) ApplyStyle(sheet, rangeRef string, p *StylePatch) error {
	c1, r1, c2, r2, err := cellRange(rangeRef)
	if err != nil {
		return sheetErr(sheet, "style", err)
	}
	for row := r1; row <= r2; row++ {
		for col := c1; col <= c2; col++ {
			cell, _ := excelize.CoordinatesToCellName(col, row)
			if err := e.applyCellStyle(sheet, cell, p); err != nil {
				return sheetErr(sheet, "style", fmt.Errorf("%s: %w", cell, err))
			}
		}
	}
	return nil
}

// ApplyStyleCells merges the patch into the style of each listed cell
func (e *Editor) ApplyStyleCells(sheet string, cells []string, p *StylePatch) error {
	for _, cell := range cells {
		if err := e.applyCellStyle(sheet, cell, p); err != nil {
			return sheetErr(sheet, "style", fmt.Errorf("%s: %w", cell, err))
		}
	}
	return nil
}

func (e *Editor) applyCellStyle(sheet, cell string, p *StylePatch) error {
	base, err := e.file.GetCellStyle(sheet, cell)
	if err != nil {
		return err
	}
	key := styleKey{base: base, patch: p}
	id, ok := e.styles[key]
	if !ok {
		st, err := e.file.GetStyle(base)
		if err != nil {
			return err
		}
		mergeStyle(st, p)
		if id, err = e.file.NewStyle(st); err != nil {
			return err
		}
		e.styles[key] = id
	}
	if id == base {
		return nil
	}
	return e.file.SetCellStyle(sheet, cell, cell, id)
}

func mergeStyle(st *excelize.Style, p *StylePatch) {
	if p.Fill != nil {
		st.Fill = *p.Fill
	}
	if p.Font != nil {
		if st.Font == nil {
			st.Font = &excelize.Font{}
		}
		if p.Font.Family != "" {
			st.Font.Family = p.Font.Family
		}
		if p.Font.Size != 0 {
			st.Font.Size = p.Font.Size
		}
		if p.Font.Color != "" {
			st.Font.Color = p.Font.Color
			st.Font.ColorTheme = nil
			st.Font.ColorIndexed = 0
			st.Font.ColorTint = 0
		}
		if p.Font.Bold {
			st.Font.Bold = true
		}
	}
	if p.Border != nil {
		st.Border = p.Border
	}
	if p.Alignment != nil {
		st.Alignment = p.Alignment
	}
	if p.NumFmt != "" {
		id, custom := NumFmtFor(p.NumFmt)
		st.NumFmt = id
		st.CustomNumFmt = nil
		if custom != "" {
			st.CustomNumFmt = &custom
		}
	}
}

// CopyStyle gives dst the same style as src
func (e *Editor) CopyStyle(sheet, src, dst string) error {
	id, err := e.file.GetCellStyle(sheet, src)
	if err != nil {
		return sheetErr(sheet, "style", err)
	}
	return sheetErr(sheet, "style", e.file.SetCellStyle(sheet, dst, dst, id))
}

// CellStyle returns the resolved style of a cell
func (e *Editor) CellStyle(sheet, cell string) (*excelize.Style, error) {
	id, err := e.file.GetCellStyle(sheet, cell)
	if err != nil {
		return nil, err
	}
	return e.file.GetStyle(id)
}

// CellStyleID returns the style index of a cell
func (e *Editor) CellStyleID(sheet, cell string) (int, error) {
	return e.file.GetCellStyle(sheet, cell)
}

// builtInNumFmts holds the number format codes Excel knows by ID.
var builtInNumFmts = []struct {
	id      int
	percent bool
	thou    bool
	decimal int
}{
	{1, false, false, 0}, // 0
	{2, false, false, 2}, // 0.00
	{3, false, true, 0},  // #,##0
	{4, false, true, 2},  // #,##0.00
	{9, true, false, 0},  // 0%
	{10, true, false, 2}, // 0.00%
}

// NumFmtFor maps a number format code to a built-in format ID when one
// exists. Otherwise it returns 0 and the code to register as a custom format.
func NumFmtFor(format string) (int, string) {
	if format == "" || format == "General" {
		return 0, ""
	}
	ps := nfp.NumberFormatParser()
	sections := ps.Parse(format)
	if len(sections) != 1 {
		return 0, format
	}
	var (
		percent, thou, afterDecimal bool
		intZeros, decZeros          int
	)
	for _, tok := range sections[0].Items {
		switch tok.TType {
		case nfp.TokenTypePercent:
			percent = true
		case nfp.TokenTypeThousandsSeparator:
			thou = true
		case nfp.TokenTypeDecimalPoint:
			afterDecimal = true
		case nfp.TokenTypeZeroPlaceHolder:
			if afterDecimal {
				decZeros += len(tok.TValue)
			} else {
				intZeros += len(tok.TValue)
			}
		case nfp.TokenTypeHashPlaceHolder:
			if afterDecimal {
				return 0, format
			}
		default:
			return 0, format
		}
	}
	if intZeros != 1 {
		return 0, format
	}
	for _, b := range builtInNumFmts {
		if b.percent == percent && b.thou == thou && b.decimal == decZeros {
			return b.id, ""
		}
	}
	return 0, format
}
