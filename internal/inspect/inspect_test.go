package inspect

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/seed"
	"tipsterFmt/internal/ui"
)

func writeSeed(t *testing.T) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "template.xlsx")
	require.NoError(t, seed.Write(path))
	return path
}

func findingAt(t *testing.T, r *Report, sheet, cell string) Finding {
	t.Helper()
	for _, f := range r.Findings {
		if f.Sheet == sheet && f.Cell == cell {
			return f
		}
	}
	t.Fatalf("no finding for %s!%s", sheet, cell)
	return Finding{}
}

func TestDefaultProbes(t *testing.T) {
	probes := DefaultProbes(layout.Default())
	// 2 dashboards x 21 columns, 2 input sheets x 8 columns
	require.Len(t, probes, 2*21+2*8)

	first := probes[0]
	assert.Equal(t, Probe{Sheet: layout.SheetMisDashboard, Cell: "A3", LabelCell: "A2"}, first)
	assert.True(t, probes[2].ExpectFormula)

	last := probes[len(probes)-1]
	assert.Equal(t, layout.SheetLanzadas, last.Sheet)
	assert.Equal(t, "H7", last.Cell)
	assert.Equal(t, "H6", last.LabelCell)
	assert.True(t, last.ExpectFormula)
}

func TestRun_SeedWorkbook(t *testing.T) {
	path := writeSeed(t)
	report, err := Run(path, DefaultProbes(layout.Default()))
	require.NoError(t, err)
	assert.Equal(t, path, report.File)
	assert.Empty(t, report.Skipped)
	assert.Zero(t, report.Frozen())

	c3 := findingAt(t, report, layout.SheetMisDashboard, "C3")
	assert.True(t, c3.IsFormula)
	assert.Equal(t, "Benficio UDS", c3.Label)
	assert.Equal(t, `SUMIF(Realizadas!$B$7:$B$2003,A3,Realizadas!$F$7:$F$2003)`, c3.Formula)
	require.NotNil(t, c3.Analysis)
	assert.Equal(t, []string{"SUMIF"}, c3.Analysis.Functions)

	a3 := findingAt(t, report, layout.SheetMisDashboard, "A3")
	assert.False(t, a3.IsFormula)
	assert.Equal(t, "Manolo", a3.Value)
	assert.False(t, a3.Frozen)

	g7 := findingAt(t, report, layout.SheetRealizadas, "G7")
	assert.Equal(t, "CANTIDAD", g7.Label)
	assert.Contains(t, g7.Formula, "VLOOKUP")
}

func TestRun_FrozenAndMissingSheet(t *testing.T) {
	f, err := seed.Build()
	require.NoError(t, err)
	require.NoError(t, f.SetCellValue(layout.SheetTipsterDashboard, "C3", 12.5))
	require.NoError(t, f.DeleteSheet(layout.SheetLanzadas))
	path := filepath.Join(t.TempDir(), "frozen.xlsx")
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	report, err := Run(path, DefaultProbes(layout.Default()))
	require.NoError(t, err)
	assert.Equal(t, []string{layout.SheetLanzadas}, report.Skipped)
	assert.Equal(t, 1, report.Frozen())

	c3 := findingAt(t, report, layout.SheetTipsterDashboard, "C3")
	assert.True(t, c3.Frozen)
	assert.False(t, c3.IsFormula)
	assert.Equal(t, "12.5", c3.Value)
}

func TestRun_MissingFile(t *testing.T) {
	_, err := Run(filepath.Join(t.TempDir(), "missing.xlsx"), nil)
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}

func TestResolve(t *testing.T) {
	dir := t.TempDir()
	second := filepath.Join(dir, "second.xlsx")
	require.NoError(t, os.WriteFile(second, []byte("x"), 0644))

	got, err := Resolve("", []string{filepath.Join(dir, "first.xlsx"), second})
	require.NoError(t, err)
	assert.Equal(t, second, got)

	got, err = Resolve("given.xlsx", []string{second})
	require.NoError(t, err)
	assert.Equal(t, "given.xlsx", got)

	_, err = Resolve("", []string{filepath.Join(dir, "first.xlsx")})
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}

func TestResolveAll(t *testing.T) {
	dir := t.TempDir()
	first := filepath.Join(dir, "first.xlsx")
	second := filepath.Join(dir, "second.xlsx")
	absent := filepath.Join(dir, "absent.xlsx")
	require.NoError(t, os.WriteFile(first, []byte("x"), 0644))
	require.NoError(t, os.WriteFile(second, []byte("x"), 0644))

	found, missing, err := ResolveAll([]string{first, absent, second})
	require.NoError(t, err)
	assert.Equal(t, []string{first, second}, found)
	assert.Equal(t, []string{absent}, missing)

	found, missing, err = ResolveAll([]string{absent})
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
	assert.Empty(t, found)
	assert.Equal(t, []string{absent}, missing)
}

func TestFindWorkbooks(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.xlsx", "b.XLSX", "a.backup.xlsx", "~$a.xlsx", "notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	files, err := FindWorkbooks(dir, ".backup.xlsx")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{filepath.Join(dir, "a.xlsx"), filepath.Join(dir, "b.XLSX")}, files)

	_, err = FindWorkbooks(filepath.Join(dir, "nope"), "")
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}

func sampleReport() *Report {
	return &Report{
		File: "book.xlsx",
		Findings: []Finding{
			{Sheet: "Mis_Picks_Dashboard", Cell: "A3", Label: "TIPSTER", Value: "Manolo"},
			{Sheet: "Mis_Picks_Dashboard", Cell: "C3", Label: "Benficio UDS", IsFormula: true, Formula: "SUM(A1)", Value: "0"},
			{Sheet: "Mis_Picks_Dashboard", Cell: "D3", Label: "Beneficio", Value: "3", Frozen: true},
		},
		Skipped: []string{"Lanzadas Tipster"},
	}
}

func TestRender(t *testing.T) {
	r := sampleReport()

	var text bytes.Buffer
	require.NoError(t, Render(&text, r, ui.FormatText))
	out := text.String()
	assert.Contains(t, out, "=SUM(A1)")
	assert.Contains(t, out, `"Manolo"`)
	assert.Contains(t, out, "Lanzadas Tipster")
	assert.Contains(t, out, "1 cell(s)")

	var js bytes.Buffer
	require.NoError(t, Render(&js, r, ui.FormatJSON))
	var back Report
	require.NoError(t, json.Unmarshal(js.Bytes(), &back))
	assert.Equal(t, r.Findings[1].Formula, back.Findings[1].Formula)

	var ym bytes.Buffer
	require.NoError(t, Render(&ym, r, ui.FormatYAML))
	var yback Report
	require.NoError(t, yaml.Unmarshal(ym.Bytes(), &yback))
	assert.Equal(t, r.Skipped, yback.Skipped)

	assert.Error(t, Render(&bytes.Buffer{}, r, "xml"))
}

func key(s string) tea.KeyMsg {
	switch s {
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestBrowseModel(t *testing.T) {
	var m tea.Model = initialModel(sampleReport(), BrowseConfig{RowsPerPage: 2})

	m, _ = m.Update(key("down"))
	f, ok := m.(model).selected()
	require.True(t, ok)
	assert.Equal(t, "C3", f.Cell)

	// next row is on the second page
	m, _ = m.Update(key("down"))
	assert.Equal(t, 1, m.(model).page)
	f, _ = m.(model).selected()
	assert.Equal(t, "D3", f.Cell)

	m, _ = m.Update(key("enter"))
	assert.Equal(t, stateDetail, m.(model).state)
	assert.Contains(t, m.View(), "formula is expected")
	m, _ = m.Update(key("esc"))
	assert.Equal(t, stateList, m.(model).state)

	m, _ = m.Update(key("f"))
	assert.Equal(t, []int{2}, m.(model).visible)
	assert.Contains(t, m.View(), "frozen only")

	_, cmd := m.Update(key("q"))
	require.NotNil(t, cmd)
}

func TestBrowse_EmptyReport(t *testing.T) {
	assert.Error(t, Browse(&Report{File: "x.xlsx"}, BrowseConfig{}))
}
