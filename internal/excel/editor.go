package excel

import (
	"fmt"
	"os"
	"strings"

	"github.com/xuri/excelize/v2"
)

type Editor struct {
	file     *excelize.File
	filepath string

	styles map[styleKey]int
	dxfs   map[string]int
}

// OpenFile opens an existing Excel file
func OpenFile(filepath string) (*Editor, error) {
	if _, err := os.Stat(filepath); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filepath)
	} else if err != nil {
		return nil, fmt.Errorf("error checking file status: %w", err)
	}
	file, err := excelize.OpenFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	return newEditor(file, filepath), nil
}

// Wrap builds an editor around an in-memory workbook
func Wrap(file *excelize.File) *Editor {
	return newEditor(file, "")
}

func newEditor(file *excelize.File, filepath string) *Editor {
	return &Editor{
		file:     file,
		filepath: filepath,
		styles:   make(map[styleKey]int),
		dxfs:     make(map[string]int),
	}
}

// Path returns the file the editor was opened from or last saved to
func (e *Editor) Path() string {
	return e.filepath
}

// HasSheet reports whether the workbook contains the sheet
func (e *Editor) HasSheet(sheet string) bool {
	idx, err := e.file.GetSheetIndex(sheet)
	return err == nil && idx >= 0
}

// RequireSheet fails with a *SheetError wrapping ErrSheetNotFound when the sheet is absent
func (e *Editor) RequireSheet(sheet string) error {
	if !e.HasSheet(sheet) {
		return sheetErr(sheet, "open", ErrSheetNotFound)
	}
	return nil
}

// GetSheetNames returns all sheet names in the workbook
func (e *Editor) GetSheetNames() []string {
	return e.file.GetSheetList()
}

// GetCellValue returns the cached value in a specific cell
func (e *Editor) GetCellValue(sheet, cell string) (string, error) {
	return e.file.GetCellValue(sheet, cell)
}

// GetCellFormula returns the formula in a specific cell (if any), without the leading "="
func (e *Editor) GetCellFormula(sheet, cell string) (string, error) {
	f, err := e.file.GetCellFormula(sheet, cell)
	return strings.TrimPrefix(f, "="), err
}

// IsFormula reports whether the cell holds a formula rather than a literal
func (e *Editor) IsFormula(sheet, cell string) (bool, error) {
	f, err := e.file.GetCellFormula(sheet, cell)
	if err != nil {
		return false, err
	}
	return f != "", nil
}

// SetCellValue sets a value in a specific cell
func (e *Editor) SetCellValue(sheet, cell string, value interface{}) error {
	return e.file.SetCellValue(sheet, cell, value)
}

// SetCellFormula sets a formula for a specific cell. A leading "=" is dropped.
func (e *Editor) SetCellFormula(sheet, cell, formula string) error {
	return e.file.SetCellFormula(sheet, cell, strings.TrimPrefix(formula, "="))
}

// CalcCellValue recalculates a formula cell in memory
func (e *Editor) CalcCellValue(sheet, cell string) (string, error) {
	return e.file.CalcCellValue(sheet, cell)
}

// ReadColumnValues reads the values of one column between two rows, inclusive
func (e *Editor) ReadColumnValues(sheet, column string, first, last int) ([]string, error) {
	values := make([]string, 0, last-first+1)
	for row := first; row <= last; row++ {
		v, err := e.file.GetCellValue(sheet, fmt.Sprintf("%s%d", column, row))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s%d: %w", column, row, err)
		}
		values = append(values, v)
	}
	return values, nil
}

// FirstEmptyRow returns the first row in [first, last] whose cell in column
// holds neither a value nor a formula, or 0 when the column is full.
func (e *Editor) FirstEmptyRow(sheet, column string, first, last int) (int, error) {
	for row := first; row <= last; row++ {
		cell := fmt.Sprintf("%s%d", column, row)
		v, err := e.file.GetCellValue(sheet, cell)
		if err != nil {
			return 0, err
		}
		if strings.TrimSpace(v) != "" {
			continue
		}
		isF, err := e.IsFormula(sheet, cell)
		if err != nil {
			return 0, err
		}
		if !isF {
			return row, nil
		}
	}
	return 0, nil
}

// MergeCell merges the range unless it is already merged exactly. It
// reports whether a new merge was created.
func (e *Editor) MergeCell(sheet, rangeRef string) (bool, error) {
	merged, err := e.IsMerged(sheet, rangeRef)
	if err != nil {
		return false, err
	}
	if merged {
		return false, nil
	}
	first, last, _ := strings.Cut(rangeRef, ":")
	if err := e.file.MergeCell(sheet, first, last); err != nil {
		return false, sheetErr(sheet, "merge", err)
	}
	return true, nil
}

// IsMerged reports whether exactly this range is a merged region
func (e *Editor) IsMerged(sheet, rangeRef string) (bool, error) {
	merges, err := e.file.GetMergeCells(sheet)
	if err != nil {
		return false, sheetErr(sheet, "merge", err)
	}
	want := strings.ToUpper(strings.ReplaceAll(rangeRef, "$", ""))
	for _, m := range merges {
		if m.GetStartAxis()+":"+m.GetEndAxis() == want {
			return true, nil
		}
	}
	return false, nil
}

// MergedRanges lists the merged regions of a sheet as "A1:B2"
func (e *Editor) MergedRanges(sheet string) ([]string, error) {
	merges, err := e.file.GetMergeCells(sheet)
	if err != nil {
		return nil, sheetErr(sheet, "merge", err)
	}
	out := make([]string, 0, len(merges))
	for _, m := range merges {
		out = append(out, m.GetStartAxis()+":"+m.GetEndAxis())
	}
	return out, nil
}

// SetColWidth sets the width of the columns between startCol and endCol
func (e *Editor) SetColWidth(sheet, startCol, endCol string, width float64) error {
	return sheetErr(sheet, "style", e.file.SetColWidth(sheet, startCol, endCol, width))
}

// GetColWidth returns the width of a column
func (e *Editor) GetColWidth(sheet, col string) (float64, error) {
	return e.file.GetColWidth(sheet, col)
}

// SetRowHeight sets the height of a single row
func (e *Editor) SetRowHeight(sheet string, row int, height float64) error {
	return sheetErr(sheet, "style", e.file.SetRowHeight(sheet, row, height))
}

// GetRowHeight returns the height of a single row
func (e *Editor) GetRowHeight(sheet string, row int) (float64, error) {
	return e.file.GetRowHeight(sheet, row)
}

// UsedRange returns the last populated column and row of a sheet. Formula
// cells with no cached value are included through the sheet dimension.
func (e *Editor) UsedRange(sheet string) (cols, rows int, err error) {
	all, err := e.file.GetRows(sheet)
	if err != nil {
		return 0, 0, sheetErr(sheet, "open", err)
	}
	rows = len(all)
	for _, r := range all {
		if len(r) > cols {
			cols = len(r)
		}
	}
	dim, err := e.file.GetSheetDimension(sheet)
	if err != nil || dim == "" {
		return cols, rows, nil
	}
	_, last, ok := strings.Cut(dim, ":")
	if !ok {
		last = dim
	}
	if c, r, err := excelize.CellNameToCoordinates(last); err == nil {
		cols = max(cols, c)
		rows = max(rows, r)
	}
	return cols, rows, nil
}

// Save saves the Excel file to the original filepath
func (e *Editor) Save() error {
	if e.filepath == "" {
		return fmt.Errorf("no filepath specified, use SaveAs instead")
	}
	return e.file.SaveAs(e.filepath)
}

// SaveAs saves the Excel file with a new name
func (e *Editor) SaveAs(filepath string) error {
	e.filepath = filepath
	return e.file.SaveAs(filepath)
}

// Close closes the Excel file
func (e *Editor) Close() error {
	return e.file.Close()
}

// cellRange returns the corner coordinates of "A1:B2" or a single "A1".
func cellRange(rangeRef string) (c1, r1, c2, r2 int, err error) {
	ref := strings.ReplaceAll(rangeRef, "$", "")
	first, last, ok := strings.Cut(ref, ":")
	if !ok {
		last = first
	}
	if c1, r1, err = excelize.CellNameToCoordinates(first); err != nil {
		return
	}
	if c2, r2, err = excelize.CellNameToCoordinates(last); err != nil {
		return
	}
	if c1 > c2 {
		c1, c2 = c2, c1
	}
	if r1 > r2 {
		r1, r2 = r2, r1
	}
	return
}

// Contains reports whether cell lies inside one of the space separated
// ranges of sqref.
func Contains(sqref, cell string) bool {
	col, row, err := excelize.CellNameToCoordinates(strings.ReplaceAll(cell, "$", ""))
	if err != nil {
		return false
	}
	for _, part := range strings.Fields(sqref) {
		c1, r1, c2, r2, err := cellRange(part)
		if err != nil {
			continue
		}
		if col >= c1 && col <= c2 && row >= r1 && row <= r2 {
			return true
		}
	}
	return false
}
