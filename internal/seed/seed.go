// Package seed builds a workbook laid out the way the web front-end exports
// it, before any patching: no validations, no styling beyond the APUESTA
// header, and the stake lookup of both input sheets pointing at
// Tipster_Picks_Dashboard.
package seed

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
)

// Sports are the sport names listed on "Base datos" and used as dashboard
// headers from column N.
var Sports = []string{
	"Badminton", "Baloncesto", "Balonmano", "Beisbol", "Boxeo", "Ciclismo",
	"Esports", "Fútbol", "Fútbol Americano", "Golf", "Hockey", "MMA",
	"Tenis", "Tenis Mesa", "Voleibol",
}

var bookies = []string{
	"888", "1xBet", "Bet365", "Betfail", "Betfair", "Betsson", "Bwin", "Codere",
	"Luckia", "Marathonbet", "Sportium", "Winamax", "William Hill",
}

var statsLabels = []interface{}{
	"", "✅", "❌", "🔵", "UDS.", "Beneficio", "Yield Global", "Bank Actual", "Bank Inicial", "Apostado",
}

var dashboardHeaders = []interface{}{
	"TIPSTER", "Juega a Unidades", "Benficio UDS", "Beneficio", "Apostado", "YIELD",
	"Tips totales", "Tips W", "Tips L", "Tips V", "% Tips Aciertados",
	"% Aciertos Live", "% Aciertos PRE",
}

// ExampleTipster is the row-3 tipster every exported dashboard starts with.
const ExampleTipster = "Manolo"

type inputSeed struct {
	name      string
	banner    string
	statsLast int
	trailing  []interface{}
	widths    []float64
}

type dashboardSeed struct {
	name     string
	source   string
	sportCol string
	last     int
	liveLast int
}

// Build returns the raw workbook. The caller owns the file and must close it.
func Build() (*excelize.File, error) {
	f := excelize.NewFile()
	inputs := []inputSeed{
		{
			name:      layout.SheetRealizadas,
			banner:    "rellenar con los picks que sigo",
			statsLast: 2001,
			trailing:  []interface{}{"Comentarios", "COMBINADA", "DEPORTE", "Plataforma envio pick", "BOOKIE"},
			widths:    []float64{12, 15, 8, 8, 8, 12, 10, 12, 12, 10, 12, 10, 40, 5, 5, 30, 12, 15, 20, 15},
		},
		{
			name:      layout.SheetLanzadas,
			banner:    "rellenar con los picks que lanza el tipster",
			statsLast: 1853,
			trailing:  []interface{}{"COMBINADA", "DEPORTE", "Plataforma envio pick", "BOOKIE recomendado"},
			widths:    []float64{12, 15, 8, 8, 8, 12, 10, 12, 12, 10, 12, 10, 40, 5, 5, 12, 15, 20, 18},
		},
	}
	dashboards := []dashboardSeed{
		{name: layout.SheetMisDashboard, source: layout.SheetRealizadas, sportCol: "R", last: 2003, liveLast: 2006},
		{name: layout.SheetTipsterDashboard, source: layout.SheetLanzadas, sportCol: "Q", last: 1855, liveLast: 1855},
	}

	for i, in := range inputs {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", in.name); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(in.name); err != nil {
			return nil, err
		}
		if err := buildInput(f, in); err != nil {
			return nil, fmt.Errorf("seed %s: %w", in.name, err)
		}
	}
	for _, d := range dashboards {
		if _, err := f.NewSheet(d.name); err != nil {
			return nil, err
		}
		if err := buildDashboard(f, d); err != nil {
			return nil, fmt.Errorf("seed %s: %w", d.name, err)
		}
	}
	if _, err := f.NewSheet(layout.SheetBaseDatos); err != nil {
		return nil, err
	}
	if err := buildReference(f); err != nil {
		return nil, fmt.Errorf("seed %s: %w", layout.SheetBaseDatos, err)
	}
	return f, nil
}

// Write builds the raw workbook and saves it to path.
func Write(path string) error {
	f, err := Build()
	if err != nil {
		return err
	}
	defer f.Close()
	return f.SaveAs(path)
}

func buildInput(f *excelize.File, in inputSeed) error {
	sheet := in.name
	if err := f.SetSheetRow(sheet, "A1", &statsLabels); err != nil {
		return err
	}
	stats := map[string]string{
		"A2": "B2/(B2+C2)",
		"B2": fmt.Sprintf(`COUNTIF(E7:E%d,"w")`, in.statsLast),
		"C2": fmt.Sprintf(`COUNTIF(E7:E%d,"l")`, in.statsLast),
		"D2": fmt.Sprintf(`COUNTIF(E7:E%d,"V")`, in.statsLast),
		"E2": fmt.Sprintf("SUM($F$7:$F$%d)", in.statsLast),
		"F2": fmt.Sprintf("SUM(H7:H%d)", in.statsLast),
		"G2": "F2/J2",
		"H2": "I2+F2",
		"J2": fmt.Sprintf("SUM($G$7:$G$%d)", in.statsLast),
	}
	for cell, fx := range stats {
		if err := f.SetCellFormula(sheet, cell, fx); err != nil {
			return err
		}
	}
	if err := f.SetCellValue(sheet, "I2", 10000); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "A3", "      PLANTILLA EII"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "F3", in.banner); err != nil {
		return err
	}

	headers := []interface{}{
		"LIVE-PRE", "TIPSTER", "STAKE", "CUOTA", "W/L/V", "Resultado unidades", "CANTIDAD",
		"Resultado euros", "FECHA PICK", "HORA PICK", "FECHA PARTIDO", "HORA PARTIDO",
		"APUESTA", "", "",
	}
	headers = append(headers, in.trailing...)
	if err := f.SetSheetRow(sheet, "A6", &headers); err != nil {
		return err
	}
	if err := f.MergeCell(sheet, "M6", "O6"); err != nil {
		return err
	}
	blue, err := f.NewStyle(&excelize.Style{
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"4472C4"}, Pattern: 1},
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(sheet, "M6", "M6", blue); err != nil {
		return err
	}
	for i, w := range in.widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}

	for row := 7; row <= 10; row++ {
		rowFormulas := map[string]string{
			"F": fmt.Sprintf(`IF(E%[1]d="L",-C%[1]d,IF(E%[1]d="W",C%[1]d*(D%[1]d-1),IF(E%[1]d="HW",(C%[1]d/2)*(D%[1]d-1),IF(E%[1]d="HL",-C%[1]d/2,0))))`, row),
			"G": fmt.Sprintf(`IFERROR(($I$2/VLOOKUP(B%[1]d,Tipster_Picks_Dashboard!$A$3:$W$76,2,FALSE))*C%[1]d,"")`, row),
			"H": fmt.Sprintf(`IF(E%[1]d="w",G%[1]d*D%[1]d-G%[1]d,IF(E%[1]d="L",-G%[1]d,0))`, row),
		}
		for col, fx := range rowFormulas {
			if err := f.SetCellFormula(sheet, fmt.Sprintf("%s%d", col, row), fx); err != nil {
				return err
			}
		}
	}
	return nil
}

// DashboardTemplate returns the row-3 formulas of a dashboard aggregating
// source, keyed by column. sportCol is the source sheet's DEPORTE column.
func DashboardTemplate(source, sportCol string, last, liveLast int) map[string]string {
	src := formula.QuoteSheet(source)
	rng := func(col string, end int) string {
		return fmt.Sprintf("%s!$%s$7:$%s$%d", src, col, col, end)
	}
	t := map[string]string{
		"C": fmt.Sprintf("SUMIF(%s,A3,%s)", rng("B", last), rng("F", last)),
		"D": fmt.Sprintf("SUMIF(%s,A3,%s)", rng("B", last), rng("H", last)),
		"E": fmt.Sprintf("SUMIF(%s,A3,%s)", rng("B", last), rng("G", last)),
		"F": `IFERROR(D3/E3,"")`,
		"G": fmt.Sprintf(`COUNTIFS(%s,A3,%s,"<>")`, rng("B", last), rng("E", last)),
		"H": fmt.Sprintf(`COUNTIFS(%s,A3,%s,"W")`, rng("B", last), rng("E", last)),
		"I": fmt.Sprintf(`COUNTIFS(%s,A3,%s,"L")`, rng("B", last), rng("E", last)),
		"J": fmt.Sprintf(`COUNTIFS(%s,A3,%s,"V")`, rng("B", last), rng("E", last)),
		"K": `IFERROR(H3/G3,"")`,
		"L": fmt.Sprintf(`IFERROR((COUNTIFS(%s,A3,%s,"LIVE",%s,"W"))/H3,0)`,
			rng("B", liveLast), rng("A", liveLast), rng("E", liveLast)),
		"M": fmt.Sprintf(`IFERROR((COUNTIFS(%[1]s!B7:B%[2]d,A3,%[1]s!A7:A%[2]d,"PRE",%[3]s,"W"))/H3,0)`,
			src, liveLast, rng("E", liveLast)),
	}
	for col := 14; col <= 29; col++ { // N..AC
		name, _ := excelize.ColumnNumberToName(col)
		t[name] = fmt.Sprintf(`IFERROR(((COUNTIFS(%s,$A3,%s,"W",%s,%s$2))/$H3),0)`,
			rng("B", last), rng("E", last), rng(sportCol, last), name)
	}
	return t
}

func buildDashboard(f *excelize.File, d dashboardSeed) error {
	sheet := d.name
	if err := f.SetCellValue(sheet, "A1", "NECESARIO RELLENAR TIPSTER"); err != nil {
		return err
	}
	if err := f.SetCellValue(sheet, "N1", "% Aciertos Segun deporte"); err != nil {
		return err
	}
	headers := append(append([]interface{}{}, dashboardHeaders...), toRow(Sports)...)
	if err := f.SetSheetRow(sheet, "A2", &headers); err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, "A3", &[]interface{}{ExampleTipster, 100}); err != nil {
		return err
	}
	for col, fx := range DashboardTemplate(d.source, d.sportCol, d.last, d.liveLast) {
		if err := f.SetCellFormula(sheet, col+"3", fx); err != nil {
			return err
		}
	}
	return nil
}

func buildReference(f *excelize.File) error {
	sheet := layout.SheetBaseDatos
	headers := []interface{}{"BOOKIES", "", "Plataformas de Pick/Tipsters", "", "DEPORTE", "", "LIVE-PRE", "", "COMBINADA"}
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return err
	}
	lists := map[string][]string{
		"A": bookies,
		"C": {"Blogabet", "Telegram", "TipsterLand"},
		"E": Sports,
		"G": {"PRE", "LIVE"},
		"I": {"Si", "No", "Sí"},
	}
	for col, values := range lists {
		for i, v := range values {
			if err := f.SetCellValue(sheet, fmt.Sprintf("%s%d", col, i+2), v); err != nil {
				return err
			}
		}
	}
	widths := []float64{20, 2, 30, 2, 20, 2, 12, 2, 12}
	for i, w := range widths {
		col, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheet, col, col, w); err != nil {
			return err
		}
	}
	return nil
}

func toRow(values []string) []interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return row
}
