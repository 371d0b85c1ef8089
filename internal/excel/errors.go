package excel

import (
	"errors"
	"fmt"
)

// ErrFileNotFound indicates the workbook does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrSheetNotFound indicates a required sheet is missing from the workbook.
var ErrSheetNotFound = errors.New("sheet not found")

// SheetError is an error while working on one sheet of the workbook.
type SheetError struct {
	Sheet string
	Op    string // "open", "style", "merge", "validation", "format", "formula"
	Err   error
}

func (e *SheetError) Error() string {
	return fmt.Sprintf("%s on sheet %q: %v", e.Op, e.Sheet, e.Err)
}

func (e *SheetError) Unwrap() error {
	return e.Err
}

func sheetErr(sheet, op string, err error) error {
	if err == nil {
		return nil
	}
	return &SheetError{Sheet: sheet, Op: op, Err: err}
}
