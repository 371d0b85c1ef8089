// Package formula finds and moves cell references inside spreadsheet
// formulas without touching any other part of the formula text.
package formula

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Cell is one endpoint of a reference. Row is zero for whole-column
// references such as A:A.
type Cell struct {
	Col    int
	Row    int
	ColAbs bool
	RowAbs bool
}

// String renders the endpoint with its absolute markers, column letters in
// upper case.
func (c Cell) String() string {
	var b strings.Builder
	if c.ColAbs {
		b.WriteByte('$')
	}
	name, _ := excelize.ColumnNumberToName(c.Col)
	b.WriteString(name)
	if c.Row > 0 {
		if c.RowAbs {
			b.WriteByte('$')
		}
		b.WriteString(strconv.Itoa(c.Row))
	}
	return b.String()
}

func (c Cell) valid() bool {
	if c.Col < 1 || c.Col > excelize.MaxColumns {
		return false
	}
	return c.Row >= 0 && c.Row <= excelize.TotalRows
}

// Ref is a reference found in a formula.
type Ref struct {
	// Sheet is the unquoted sheet name, empty for same-sheet references.
	Sheet string
	// Qualifier is the raw sheet prefix including the "!", e.g. "'Base datos'!".
	Qualifier string
	Start     Cell
	End       Cell
	IsRange   bool
	// Pos and EndPos delimit the reference, qualifier included, in the
	// formula's bytes.
	Pos    int
	EndPos int
}

// WholeColumn reports whether the reference spans entire columns.
func (r Ref) WholeColumn() bool {
	return r.Start.Row == 0
}

// String renders the reference, keeping the original qualifier text.
func (r Ref) String() string {
	if !r.IsRange {
		return r.Qualifier + r.Start.String()
	}
	return r.Qualifier + r.Start.String() + ":" + r.End.String()
}

var cellPattern = regexp.MustCompile(`^(\$?)([A-Za-z]{1,3})(\$?)([0-9]*)$`)

// parseCell parses "A1", "$A$1", "A$1" or a column-only "$A".
func parseCell(s string) (Cell, bool) {
	m := cellPattern.FindStringSubmatch(s)
	if m == nil {
		return Cell{}, false
	}
	col, err := excelize.ColumnNameToNumber(m[2])
	if err != nil {
		return Cell{}, false
	}
	c := Cell{Col: col, ColAbs: m[1] == "$", RowAbs: m[3] == "$"}
	if m[4] == "" {
		if c.RowAbs {
			return Cell{}, false
		}
		return c, true
	}
	row, err := strconv.Atoi(m[4])
	if err != nil || row < 1 || row > excelize.TotalRows {
		return Cell{}, false
	}
	c.Row = row
	return c, true
}

// ParseRef parses a standalone reference such as "Sheet1!$A$3:$A$100".
func ParseRef(s string) (Ref, bool) {
	refs := References(s)
	if len(refs) != 1 || refs[0].Pos != 0 || refs[0].EndPos != len(s) {
		return Ref{}, false
	}
	return refs[0], true
}

// r1c1Pattern matches names Excel would read as an R1C1 reference.
var r1c1Pattern = regexp.MustCompile(`^(?i)(r[0-9]*c?[0-9]*|c[0-9]*)$`)

// looksLikeReference reports whether an unquoted name would be read as a
// cell reference or a boolean.
func looksLikeReference(name string) bool {
	if strings.EqualFold(name, "TRUE") || strings.EqualFold(name, "FALSE") {
		return true
	}
	if cellPattern.MatchString(name) && strings.ContainsAny(name, "0123456789") {
		return true
	}
	return r1c1Pattern.MatchString(name)
}

// QuoteSheet returns the sheet name as it must appear before "!" in a
// formula, quoting it when needed.
func QuoteSheet(name string) string {
	needsQuote := name == ""
	for i := 0; i < len(name); i++ {
		c := name[i]
		if !(c == '_' || c == '.' || c >= 0x80 || isLetter(c) || isDigit(c)) {
			needsQuote = true
			break
		}
	}
	if !needsQuote && (isDigit(name[0]) || looksLikeReference(name)) {
		needsQuote = true
	}
	if !needsQuote {
		return name
	}
	return "'" + strings.ReplaceAll(name, "'", "''") + "'"
}

// Qualify renders "<sheet>!<ref>" with the sheet quoted when needed.
func Qualify(sheet, ref string) string {
	return QuoteSheet(sheet) + "!" + ref
}

func unquoteSheet(s string) string {
	if len(s) >= 2 && s[0] == '\'' && s[len(s)-1] == '\'' {
		return strings.ReplaceAll(s[1:len(s)-1], "''", "'")
	}
	return s
}
