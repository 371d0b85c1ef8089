package excel

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func newTestEditor(t *testing.T) *Editor {
	t.Helper()
	f := excelize.NewFile()
	_, err := f.NewSheet("Base datos")
	require.NoError(t, err)
	e := Wrap(f)
	t.Cleanup(func() { _ = e.Close() })
	return e
}

func TestOpenFile_Missing(t *testing.T) {
	_, err := OpenFile(filepath.Join(t.TempDir(), "nope.xlsx"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFileNotFound)
}

func TestRequireSheet(t *testing.T) {
	e := newTestEditor(t)
	assert.NoError(t, e.RequireSheet("Base datos"))

	err := e.RequireSheet("Realizadas")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrSheetNotFound)
	var se *SheetError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "Realizadas", se.Sheet)
	assert.Contains(t, err.Error(), `"Realizadas"`)
}

func TestFormulaAccess(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetCellFormula("Sheet1", "A1", "=B1*2"))
	require.NoError(t, e.SetCellValue("Sheet1", "B1", 21))

	f, err := e.GetCellFormula("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "B1*2", f)

	isF, err := e.IsFormula("Sheet1", "A1")
	require.NoError(t, err)
	assert.True(t, isF)
	isF, err = e.IsFormula("Sheet1", "B1")
	require.NoError(t, err)
	assert.False(t, isF)

	v, err := e.CalcCellValue("Sheet1", "A1")
	require.NoError(t, err)
	assert.Equal(t, "42", v)
}

func TestFirstEmptyRow(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetCellValue("Sheet1", "B7", "Manolo"))
	require.NoError(t, e.SetCellFormula("Sheet1", "B8", `IF(1,"","")`))

	row, err := e.FirstEmptyRow("Sheet1", "B", 7, 20)
	require.NoError(t, err)
	assert.Equal(t, 9, row)

	row, err = e.FirstEmptyRow("Sheet1", "B", 7, 8)
	require.NoError(t, err)
	assert.Zero(t, row)
}

func TestApplyStyle_Accumulates(t *testing.T) {
	e := newTestEditor(t)
	fill := &StylePatch{Fill: SolidFill("DCE6F1"), Border: ThinBorder("000000"), Alignment: Centered()}
	font := &StylePatch{Font: &excelize.Font{Family: "Arial"}}

	require.NoError(t, e.ApplyStyle("Sheet1", "B7:E9", fill))
	require.NoError(t, e.ApplyStyle("Sheet1", "A7:F9", font))

	st, err := e.CellStyle("Sheet1", "C8")
	require.NoError(t, err)
	assert.Equal(t, []string{"DCE6F1"}, st.Fill.Color)
	require.NotNil(t, st.Font)
	assert.Equal(t, "Arial", st.Font.Family)
	assert.Equal(t, "center", st.Alignment.Horizontal)
	assert.Len(t, st.Border, 4)

	st, err = e.CellStyle("Sheet1", "A8")
	require.NoError(t, err)
	assert.Equal(t, "Arial", st.Font.Family)
	assert.Empty(t, st.Fill.Color)

	// cells sharing a base style share the derived style
	a, err := e.CellStyleID("Sheet1", "B7")
	require.NoError(t, err)
	b, err := e.CellStyleID("Sheet1", "E9")
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestApplyStyle_KeepsFontAttributes(t *testing.T) {
	e := newTestEditor(t)
	header := &StylePatch{Font: &excelize.Font{Bold: true, Size: 14, Color: "FFFFFF"}}
	require.NoError(t, e.ApplyStyleCells("Sheet1", []string{"A3"}, header))
	require.NoError(t, e.ApplyStyle("Sheet1", "A3", &StylePatch{Font: &excelize.Font{Family: "Arial"}}))

	st, err := e.CellStyle("Sheet1", "A3")
	require.NoError(t, err)
	assert.True(t, st.Font.Bold)
	assert.Equal(t, 14.0, st.Font.Size)
	assert.Equal(t, "FFFFFF", st.Font.Color)
	assert.Equal(t, "Arial", st.Font.Family)
}

func TestCopyStyle(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.ApplyStyle("Sheet1", "A3", &StylePatch{NumFmt: "0.00%"}))
	require.NoError(t, e.CopyStyle("Sheet1", "A3", "A4"))

	st, err := e.CellStyle("Sheet1", "A4")
	require.NoError(t, err)
	assert.Equal(t, 10, st.NumFmt)
}

func TestMergeCell_Idempotent(t *testing.T) {
	e := newTestEditor(t)
	created, err := e.MergeCell("Sheet1", "A3:E5")
	require.NoError(t, err)
	assert.True(t, created)

	created, err = e.MergeCell("Sheet1", "A3:E5")
	require.NoError(t, err)
	assert.False(t, created)

	merged, err := e.IsMerged("Sheet1", "$A$3:$E$5")
	require.NoError(t, err)
	assert.True(t, merged)

	merges, err := e.MergedRanges("Sheet1")
	require.NoError(t, err)
	assert.Equal(t, []string{"A3:E5"}, merges)
}

func TestSignFormat_Replaces(t *testing.T) {
	e := newTestEditor(t)
	for i := 0; i < 2; i++ {
		require.NoError(t, e.SetSignFormat("Sheet1", "E2:H2"))
	}
	require.NoError(t, e.SetEqualsFormat("Sheet1", "E7:E2001",
		EqualsRule{Value: "L", Fill: LightRed}, EqualsRule{Value: "W", Fill: LightGreen}))

	cfs, err := e.ConditionalFormats("Sheet1")
	require.NoError(t, err)
	require.Len(t, cfs["E2:H2"], 2)
	assert.Equal(t, "less than", cfs["E2:H2"][0].Criteria)
	assert.Equal(t, "0", cfs["E2:H2"][0].Value)
	require.Len(t, cfs["E7:E2001"], 2)
	assert.Equal(t, `"L"`, cfs["E7:E2001"][0].Value)
}

func TestListValidation_RoundTrip(t *testing.T) {
	e := newTestEditor(t)
	src := ListValidation{
		Sqref:        "A7:A2001",
		Source:       "'Base datos'!$G$2:$G$4",
		ErrorTitle:   "Valor no válido",
		ErrorMessage: "Selecciona: PRE, LIVE o Combinado",
	}
	require.NoError(t, e.SetListValidation("Sheet1", src))
	require.NoError(t, e.SetListValidation("Sheet1", src))
	require.NoError(t, e.SetListValidation("Sheet1", ListValidation{
		Sqref: "E7:E2001",
		Items: []string{"W", "L", "V", "HW", "HL"},
	}))
	require.Error(t, e.SetListValidation("Sheet1", ListValidation{Sqref: "C7"}))

	path := filepath.Join(t.TempDir(), "dv.xlsx")
	require.NoError(t, e.SaveAs(path))
	reopened, err := OpenFile(path)
	require.NoError(t, err)
	defer reopened.Close()

	vs, err := reopened.Validations("Sheet1")
	require.NoError(t, err)
	require.Len(t, vs, 2)

	v, ok, err := reopened.ValidationAt("Sheet1", "A100")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "list", v.Type)
	assert.Equal(t, "'Base datos'!$G$2:$G$4", v.Source)
	assert.Equal(t, "Valor no válido", v.ErrorTitle)

	v, ok, err = reopened.ValidationAt("Sheet1", "E7")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, []string{"W", "L", "V", "HW", "HL"}, v.Items)

	_, ok, err = reopened.ValidationAt("Sheet1", "B7")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestNumFmtFor(t *testing.T) {
	tests := []struct {
		format string
		id     int
		custom string
	}{
		{"0.00%", 10, ""},
		{"0%", 9, ""},
		{"0.00", 2, ""},
		{"#,##0.00", 4, ""},
		{"General", 0, ""},
		{"0.000%", 0, "0.000%"},
		{"0.00;[Red]-0.00", 0, "0.00;[Red]-0.00"},
	}
	for _, tt := range tests {
		t.Run(tt.format, func(t *testing.T) {
			id, custom := NumFmtFor(tt.format)
			assert.Equal(t, tt.id, id)
			assert.Equal(t, tt.custom, custom)
		})
	}
}

func TestContains(t *testing.T) {
	assert.True(t, Contains("B7:B2001", "B8"))
	assert.True(t, Contains("B7:B2001", "$B$2001"))
	assert.False(t, Contains("B7:B2001", "C8"))
	assert.False(t, Contains("B7:B2001", "B6"))
	assert.True(t, Contains("A1 B7:B9", "B9"))
	assert.True(t, Contains("G2", "G2"))
}

func TestUsedRange(t *testing.T) {
	e := newTestEditor(t)
	require.NoError(t, e.SetCellValue("Sheet1", "A1", "x"))
	require.NoError(t, e.SetCellValue("Sheet1", "C5", 1))

	cols, rows, err := e.UsedRange("Sheet1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, cols, 3)
	assert.GreaterOrEqual(t, rows, 5)
}
