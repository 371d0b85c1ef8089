package verify

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/seed"
	"tipsterFmt/internal/ui"
)

func seedEditor(t *testing.T) *excel.Editor {
	t.Helper()
	f, err := seed.Build()
	require.NoError(t, err)
	e := excel.Wrap(f)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestExpectations(t *testing.T) {
	assert.Equal(t, []Expectation{
		{Sheet: layout.SheetRealizadas, Dashboard: layout.SheetMisDashboard},
		{Sheet: layout.SheetLanzadas, Dashboard: layout.SheetTipsterDashboard},
	}, Expectations(layout.Default()))
}

func TestCheck_RawFrontEndWorkbook(t *testing.T) {
	e := seedEditor(t)
	r := Check(e, Options{Schema: layout.Default()})
	require.Len(t, r.Results, 2)

	realizadas := r.Results[0]
	assert.Equal(t, layout.SheetRealizadas, realizadas.Sheet)
	assert.Equal(t, "G7", realizadas.Cell)
	assert.False(t, realizadas.Correct)
	assert.Equal(t, layout.SheetTipsterDashboard, realizadas.Actual)
	assert.Equal(t, "wrong dashboard", realizadas.Problem)

	lanz := r.Results[1]
	assert.True(t, lanz.Correct)
	assert.Equal(t, layout.SheetTipsterDashboard, lanz.Actual)

	assert.False(t, r.OK())
}

func TestCheck_Fixed(t *testing.T) {
	e := seedEditor(t)
	require.NoError(t, e.SetCellFormula(layout.SheetRealizadas, "G7",
		`IFERROR(($I$2/VLOOKUP(B7,Mis_Picks_Dashboard!$A$3:$W$100,2,FALSE))*C7,"")`))

	r := Check(e, Options{Schema: layout.Default()})
	assert.True(t, r.OK())
	assert.Equal(t, layout.SheetMisDashboard, r.Results[0].Actual)
}

func TestCheck_Problems(t *testing.T) {
	e := seedEditor(t)
	require.NoError(t, e.SetCellValue(layout.SheetRealizadas, "G7", 50))
	require.NoError(t, e.SetCellFormula(layout.SheetLanzadas, "G7", "C7*10"))

	r := Check(e, Options{Schema: layout.Default()})
	assert.Equal(t, "no formula", r.Results[0].Problem)
	assert.Equal(t, "no lookup function", r.Results[1].Problem)
	assert.False(t, r.OK())
}

func TestCheck_MissingSheet(t *testing.T) {
	f, err := seed.Build()
	require.NoError(t, err)
	require.NoError(t, f.DeleteSheet(layout.SheetLanzadas))
	e := excel.Wrap(f)
	defer e.Close()

	r := Check(e, Options{Schema: layout.Default(), Dropdowns: true})
	assert.Equal(t, problemMissingSheet, r.Results[1].Problem)
	assert.Nil(t, r.Results[1].DropdownOK)
	assert.False(t, r.OK())
}

func TestCheck_Dropdowns(t *testing.T) {
	e := seedEditor(t)
	require.NoError(t, e.SetCellFormula(layout.SheetRealizadas, "G7",
		`IFERROR(($I$2/VLOOKUP(B7,Mis_Picks_Dashboard!$A$3:$W$100,2,FALSE))*C7,"")`))
	require.NoError(t, e.SetListValidation(layout.SheetRealizadas, excel.ListValidation{
		Sqref: "B7:B2001", Source: "Mis_Picks_Dashboard!$A$3:$A$100",
	}))
	require.NoError(t, e.SetListValidation(layout.SheetLanzadas, excel.ListValidation{
		Sqref: "B7:B2001", Source: "Mis_Picks_Dashboard!$A$3:$A$100",
	}))

	r := Check(e, Options{Schema: layout.Default(), Dropdowns: true})
	require.NotNil(t, r.Results[0].DropdownOK)
	assert.True(t, *r.Results[0].DropdownOK)
	require.NotNil(t, r.Results[1].DropdownOK)
	assert.False(t, *r.Results[1].DropdownOK)
	assert.Equal(t, "Mis_Picks_Dashboard!$A$3:$A$100", r.Results[1].Dropdown)
	assert.False(t, r.OK())
}

func TestRun(t *testing.T) {
	path := filepath.Join(t.TempDir(), "raw.xlsx")
	require.NoError(t, seed.Write(path))

	r, err := Run(path, Options{Schema: layout.Default()})
	require.NoError(t, err)
	assert.Equal(t, path, r.File)
	assert.False(t, r.OK())

	_, err = Run(filepath.Join(t.TempDir(), "missing.xlsx"), Options{Schema: layout.Default()})
	assert.ErrorIs(t, err, excel.ErrFileNotFound)
}

func TestRender(t *testing.T) {
	e := seedEditor(t)
	r := Check(e, Options{Schema: layout.Default(), Dropdowns: true})

	var buf bytes.Buffer
	require.NoError(t, Render(&buf, r, ui.FormatText))
	out := buf.String()
	assert.Contains(t, out, "Realizadas!G7 references Tipster_Picks_Dashboard, expected Mis_Picks_Dashboard")
	assert.Contains(t, out, "tipster dropdown: none")
	assert.Contains(t, out, "need fixing")

	buf.Reset()
	require.NoError(t, Render(&buf, r, ui.FormatJSON))
	assert.Contains(t, buf.String(), `"correct": false`)
}
