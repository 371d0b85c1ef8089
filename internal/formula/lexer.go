package formula

import "strings"

var errorLiterals = []string{
	"#NULL!", "#DIV/0!", "#VALUE!", "#REF!", "#NAME?", "#NUM!", "#N/A",
	"#GETTING_DATA", "#SPILL!", "#CALC!",
}

// References returns every cell, range and whole-column reference in the
// formula, in order. A leading "=" is allowed. Text inside string literals,
// error literals, function names and defined names are skipped.
//
// Whole-row references (3:5) and R1C1 notation are not recognised.
func References(f string) []Ref {
	var refs []Ref
	n := len(f)
	i := 0
	for i < n {
		c := f[i]
		switch {
		case c == '"':
			i = skipQuoted(f, i, '"')
		case c == '[':
			if j := strings.IndexByte(f[i:], ']'); j >= 0 {
				i += j + 1
			} else {
				i = n
			}
		case c == '#':
			i = skipError(f, i)
		case c == '\'':
			j := skipQuoted(f, i, '\'')
			if j < n && f[j] == '!' {
				if ref, end, ok := parseRefAt(f, j+1); ok {
					ref.Sheet = unquoteSheet(f[i:j])
					ref.Qualifier = f[i : j+1]
					ref.Pos = i
					refs = append(refs, ref)
					i = end
					continue
				}
				j++
			}
			i = j
		case isIdentStart(c):
			j := scanIdent(f, i)
			if j < n && f[j] == '!' {
				if ref, end, ok := parseRefAt(f, j+1); ok {
					ref.Sheet = f[i:j]
					ref.Qualifier = f[i : j+1]
					ref.Pos = i
					refs = append(refs, ref)
					i = end
					continue
				}
				i = j + 1
				continue
			}
			if j < n && f[j] == '(' {
				i = j
				continue
			}
			if ref, end, ok := parseRefAt(f, i); ok {
				ref.Pos = i
				refs = append(refs, ref)
				i = end
				continue
			}
			i = j
		case isDigit(c):
			i = scanIdent(f, i)
		default:
			i++
		}
	}
	return refs
}

// parseRefAt parses a cell, range or whole-column reference starting at i.
func parseRefAt(f string, i int) (Ref, int, bool) {
	j := scanIdent(f, i)
	if j == i {
		return Ref{}, i, false
	}
	if j < len(f) && f[j] == '(' {
		return Ref{}, i, false
	}
	start, ok := parseCell(f[i:j])
	if !ok {
		return Ref{}, i, false
	}
	if j < len(f) && f[j] == ':' {
		k := scanIdent(f, j+1)
		if end, ok := parseCell(f[j+1 : k]); ok && (end.Row == 0) == (start.Row == 0) {
			return Ref{Start: start, End: end, IsRange: true, EndPos: k}, k, true
		}
	}
	if start.Row == 0 {
		return Ref{}, i, false
	}
	return Ref{Start: start, End: start, EndPos: j}, j, true
}

func skipQuoted(f string, i int, q byte) int {
	j := i + 1
	for j < len(f) {
		if f[j] == q {
			if j+1 < len(f) && f[j+1] == q {
				j += 2
				continue
			}
			return j + 1
		}
		j++
	}
	return len(f)
}

func skipError(f string, i int) int {
	upper := strings.ToUpper(f[i:])
	for _, lit := range errorLiterals {
		if strings.HasPrefix(upper, lit) {
			return i + len(lit)
		}
	}
	return i + 1
}

func scanIdent(f string, i int) int {
	j := i
	for j < len(f) && isIdentByte(f[j]) {
		j++
	}
	return j
}

func isIdentStart(c byte) bool {
	return isLetter(c) || c == '_' || c == '\\' || c == '$' || c >= 0x80
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || isDigit(c) || c == '.'
}

func isLetter(c byte) bool {
	return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
