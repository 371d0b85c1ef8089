package formula

import "strings"

const refError = "#REF!"

// Rewrite copies the formula, replacing each reference for which fn returns
// true with the returned text. Bytes outside references are kept as is.
func Rewrite(f string, fn func(Ref) (string, bool)) string {
	refs := References(f)
	if len(refs) == 0 {
		return f
	}
	var b strings.Builder
	b.Grow(len(f) + 8)
	last := 0
	for _, ref := range refs {
		repl, ok := fn(ref)
		if !ok {
			continue
		}
		b.WriteString(f[last:ref.Pos])
		b.WriteString(repl)
		last = ref.EndPos
	}
	b.WriteString(f[last:])
	return b.String()
}

// Offset moves the formula's relative references by dRows/dCols the way a
// spreadsheet does when a cell is copied. "$"-anchored parts stay put, and
// references pushed off the grid become #REF!.
func Offset(f string, dRows, dCols int) string {
	if dRows == 0 && dCols == 0 {
		return f
	}
	return Rewrite(f, func(ref Ref) (string, bool) {
		moved := ref
		moved.Start = shiftCell(ref.Start, dRows, dCols)
		moved.End = shiftCell(ref.End, dRows, dCols)
		if moved.Start == ref.Start && moved.End == ref.End {
			return "", false
		}
		if !moved.Start.valid() || !moved.End.valid() {
			return refError, true
		}
		return moved.String(), true
	})
}

// FillDown rewrites a dashboard template formula from fromRow to toRow.
// Only same-sheet references whose relative row is fromRow move, so per-row
// links such as A3 or $H3 follow the row while data ranges on other sheets
// and anchored header cells such as N$2 stay fixed.
func FillDown(f string, fromRow, toRow int) string {
	delta := toRow - fromRow
	if delta == 0 {
		return f
	}
	return Rewrite(f, func(ref Ref) (string, bool) {
		if ref.Sheet != "" {
			return "", false
		}
		moved := ref
		changed := false
		if !ref.Start.RowAbs && ref.Start.Row == fromRow {
			moved.Start.Row = moveRow(ref.Start.Row, delta)
			changed = true
		}
		if ref.IsRange && !ref.End.RowAbs && ref.End.Row == fromRow {
			moved.End.Row = moveRow(ref.End.Row, delta)
			changed = true
		} else if !ref.IsRange {
			moved.End = moved.Start
		}
		if !changed {
			return "", false
		}
		if !moved.Start.valid() || !moved.End.valid() {
			return refError, true
		}
		return moved.String(), true
	})
}

func shiftCell(c Cell, dRows, dCols int) Cell {
	if !c.ColAbs {
		c.Col += dCols
	}
	if !c.RowAbs && c.Row > 0 {
		c.Row = moveRow(c.Row, dRows)
	}
	return c
}

// moveRow returns -1 for rows pushed above row 1 so that valid rejects them.
func moveRow(row, delta int) int {
	if row+delta < 1 {
		return -1
	}
	return row + delta
}
