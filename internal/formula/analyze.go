package formula

import (
	"strings"

	"github.com/xuri/efp"
)

// Summary is the token-level view of a formula.
type Summary struct {
	Functions []string `json:"functions,omitempty" yaml:"functions,omitempty"`
	Sheets    []string `json:"sheets,omitempty" yaml:"sheets,omitempty"`
	Ranges    []string `json:"ranges,omitempty" yaml:"ranges,omitempty"`
}

// Analyze tokenizes the formula and collects the functions it calls, the
// sheets it points at and its range operands, each once in order of
// appearance. Function names are upper-cased with any _xlfn. prefix removed.
func Analyze(f string) Summary {
	var s Summary
	seenFn := map[string]bool{}
	seenSheet := map[string]bool{}
	seenRange := map[string]bool{}

	ps := efp.ExcelParser()
	for _, tok := range ps.Parse(strings.TrimPrefix(f, "=")) {
		switch {
		case tok.TType == efp.TokenTypeFunction && tok.TSubType == efp.TokenSubTypeStart:
			name := strings.ToUpper(strings.TrimPrefix(tok.TValue, "_xlfn."))
			if name != "" && !seenFn[name] {
				seenFn[name] = true
				s.Functions = append(s.Functions, name)
			}
		case tok.TType == efp.TokenTypeOperand && tok.TSubType == efp.TokenSubTypeRange:
			if !seenRange[tok.TValue] {
				seenRange[tok.TValue] = true
				s.Ranges = append(s.Ranges, tok.TValue)
			}
			if sheet := sheetOf(tok.TValue); sheet != "" && !seenSheet[sheet] {
				seenSheet[sheet] = true
				s.Sheets = append(s.Sheets, sheet)
			}
		}
	}
	return s
}

// Calls reports whether the formula calls any of the named functions.
func (s Summary) Calls(names ...string) bool {
	for _, fn := range s.Functions {
		for _, name := range names {
			if strings.EqualFold(fn, name) {
				return true
			}
		}
	}
	return false
}

// References reports whether the formula has an operand on the sheet.
func (s Summary) References(sheet string) bool {
	for _, sh := range s.Sheets {
		if sh == sheet {
			return true
		}
	}
	return false
}

func sheetOf(operand string) string {
	idx := strings.LastIndex(operand, "!")
	if idx <= 0 {
		return ""
	}
	sheet := operand[:idx]
	if end := strings.IndexByte(sheet, ']'); strings.HasPrefix(sheet, "[") && end >= 0 {
		sheet = sheet[end+1:]
	}
	return unquoteSheet(sheet)
}
