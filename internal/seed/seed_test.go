package seed

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/layout"
)

func TestBuild_Sheets(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, layout.Default().Sheets(), f.GetSheetList())
}

func TestBuild_FrontEndLayout(t *testing.T) {
	f, err := Build()
	require.NoError(t, err)
	defer f.Close()

	g7, err := f.GetCellFormula(layout.SheetRealizadas, "G7")
	require.NoError(t, err)
	assert.Equal(t, `IFERROR(($I$2/VLOOKUP(B7,Tipster_Picks_Dashboard!$A$3:$W$76,2,FALSE))*C7,"")`, g7)

	b2, err := f.GetCellFormula(layout.SheetLanzadas, "B2")
	require.NoError(t, err)
	assert.Equal(t, `COUNTIF(E7:E1853,"w")`, b2)

	header, err := f.GetCellValue(layout.SheetRealizadas, "T6")
	require.NoError(t, err)
	assert.Equal(t, "BOOKIE", header)
	header, err = f.GetCellValue(layout.SheetLanzadas, "S6")
	require.NoError(t, err)
	assert.Equal(t, "BOOKIE recomendado", header)

	name, err := f.GetCellValue(layout.SheetMisDashboard, "A3")
	require.NoError(t, err)
	assert.Equal(t, ExampleTipster, name)

	a4, err := f.GetCellValue(layout.SheetMisDashboard, "A4")
	require.NoError(t, err)
	assert.Empty(t, a4)

	sport, err := f.GetCellValue(layout.SheetTipsterDashboard, "AB2")
	require.NoError(t, err)
	assert.Equal(t, "Voleibol", sport)

	live, err := f.GetCellValue(layout.SheetBaseDatos, "G3")
	require.NoError(t, err)
	assert.Equal(t, "LIVE", live)

	dvs, err := f.GetDataValidations(layout.SheetRealizadas)
	require.NoError(t, err)
	assert.Empty(t, dvs)
}

func TestDashboardTemplate(t *testing.T) {
	mis := DashboardTemplate(layout.SheetRealizadas, "R", 2003, 2006)
	assert.Equal(t, `SUMIF(Realizadas!$B$7:$B$2003,A3,Realizadas!$F$7:$F$2003)`, mis["C"])
	assert.Equal(t, `IFERROR((COUNTIFS(Realizadas!B7:B2006,A3,Realizadas!A7:A2006,"PRE",Realizadas!$E$7:$E$2006,"W"))/H3,0)`, mis["M"])
	assert.Equal(t, `IFERROR(((COUNTIFS(Realizadas!$B$7:$B$2003,$A3,Realizadas!$E$7:$E$2003,"W",Realizadas!$R$7:$R$2003,N$2))/$H3),0)`, mis["N"])
	assert.Len(t, mis, 27) // C..AC

	tip := DashboardTemplate(layout.SheetLanzadas, "Q", 1855, 1855)
	assert.Equal(t, `COUNTIFS('Lanzadas Tipster'!$B$7:$B$1855,A3,'Lanzadas Tipster'!$E$7:$E$1855,"<>")`, tip["G"])
	assert.Equal(t, `IFERROR(((COUNTIFS('Lanzadas Tipster'!$B$7:$B$1855,$A3,'Lanzadas Tipster'!$E$7:$E$1855,"W",'Lanzadas Tipster'!$Q$7:$Q$1855,AC$2))/$H3),0)`, tip["AC"])
}

func TestWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "seed.xlsx")
	require.NoError(t, Write(path))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	c3, err := f.GetCellFormula(layout.SheetTipsterDashboard, "C3")
	require.NoError(t, err)
	assert.Equal(t, `SUMIF('Lanzadas Tipster'!$B$7:$B$1855,A3,'Lanzadas Tipster'!$F$7:$F$1855)`, c3)

	merges, err := f.GetMergeCells(layout.SheetLanzadas)
	require.NoError(t, err)
	require.Len(t, merges, 1)
	assert.Equal(t, "M6", merges[0].GetStartAxis())
}
