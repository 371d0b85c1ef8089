// Package layout describes the tipster tracker workbook: which sheets exist,
// which rows hold headers, templates and data, and which column carries each
// field. The schema is built once by Default and handed to every reader and
// writer by value.
package layout

import "fmt"

// Sheet names as produced by the front-end.
const (
	SheetRealizadas       = "Realizadas"
	SheetLanzadas         = "Lanzadas Tipster"
	SheetMisDashboard     = "Mis_Picks_Dashboard"
	SheetTipsterDashboard = "Tipster_Picks_Dashboard"
	SheetBaseDatos        = "Base datos"
)

// ResultCodes are the values accepted in the W/L/V column.
var ResultCodes = []string{"W", "L", "V", "HW", "HL"}

// Span is an inclusive row interval.
type Span struct {
	First int
	Last  int
}

// Rows lists every row of the span in order.
func (s Span) Rows() []int {
	if s.Last < s.First {
		return nil
	}
	rows := make([]int, 0, s.Last-s.First+1)
	for r := s.First; r <= s.Last; r++ {
		rows = append(rows, r)
	}
	return rows
}

// Column returns "<col><first>:<col><last>".
func (s Span) Column(col string) string {
	return fmt.Sprintf("%s%d:%s%d", col, s.First, col, s.Last)
}

// InputColumns names the column letter of each field of an input sheet.
type InputColumns struct {
	LivePre        string
	Tipster        string
	Stake          string
	Odds           string
	Result         string
	ResultUnits    string
	Amount         string
	ResultCurrency string
	Bet            string
	Comments       string // empty when the sheet has no comments column
	Combinada      string
	Sport          string
	Platform       string
	Bookie         string
	Last           string
}

// InputSheet is one of the two pick-entry sheets. The two sheets share the
// first columns and differ from COMBINADA onwards.
type InputSheet struct {
	Name      string
	Dashboard string
	Banner    string
	Columns   InputColumns

	widths []ColumnWidth
}

// Widths returns the column width presets of the sheet.
func (in InputSheet) Widths() []ColumnWidth {
	return append([]ColumnWidth(nil), in.widths...)
}

// Dashboard aggregates per-tipster statistics of one input sheet.
type Dashboard struct {
	Name   string
	Source string
}

// ColumnWidth is a width preset for one column.
type ColumnWidth struct {
	Column string
	Width  float64
}

// ReferenceList is a column range on the reference sheet backing a dropdown.
type ReferenceList struct {
	Column string
	Rows   Span
}

// Reference holds the dropdown sources on "Base datos".
type Reference struct {
	Sheet     string
	Bookies   ReferenceList
	Platforms ReferenceList
	Sports    ReferenceList
	LivePre   ReferenceList
	Combinada ReferenceList
}

// Schema is the whole workbook layout.
type Schema struct {
	inputs     []InputSheet
	dashboards []Dashboard
	reference  Reference

	blueHeaders       []string
	iconCells         []string
	dashboardSignCols []string
	dashboardWidths   []ColumnWidth

	// Input sheets.
	StatsLabelRow   int
	StatsRow        int
	BannerRows      Span
	HeaderRow       int
	Data            Span
	FormulaRows     Span
	StyledRows      Span
	BankrollCell    string
	BannerLeft      string
	BannerRight     string
	BannerLeftText  string
	StatsSignCells  string
	YieldCell       string
	YieldFormat     string
	HeaderRowHeight float64
	BetMerge        string

	// Dashboards.
	DashboardHeaderRow   int
	DashboardTemplateRow int
	DashboardRows        Span
	DashboardFirstCol    string
	DashboardLastCol     string
	LookupLastCol        string
	SportHeaderFirstCol  string
	SportTitle           string
	DashboardFontSize    float64
}

var sharedInputWidths = []ColumnWidth{
	{"A", 12}, {"B", 15}, {"C", 8}, {"D", 8}, {"E", 8}, {"F", 12}, {"G", 10},
	{"H", 12}, {"I", 12}, {"J", 10}, {"K", 12}, {"L", 10}, {"M", 40}, {"N", 5},
	{"O", 5},
}

// Default builds the canonical schema.
func Default() Schema {
	lanzadasWidths := append(append([]ColumnWidth{}, sharedInputWidths...),
		ColumnWidth{"P", 12}, ColumnWidth{"Q", 15}, ColumnWidth{"R", 20}, ColumnWidth{"S", 18})
	realizadasWidths := append(append([]ColumnWidth{}, sharedInputWidths...),
		ColumnWidth{"P", 30}, ColumnWidth{"Q", 12}, ColumnWidth{"R", 15}, ColumnWidth{"S", 20}, ColumnWidth{"T", 18})

	shared := InputColumns{
		LivePre:        "A",
		Tipster:        "B",
		Stake:          "C",
		Odds:           "D",
		Result:         "E",
		ResultUnits:    "F",
		Amount:         "G",
		ResultCurrency: "H",
		Bet:            "M",
	}
	lanzadas := shared
	lanzadas.Combinada, lanzadas.Sport, lanzadas.Platform, lanzadas.Bookie, lanzadas.Last = "P", "Q", "R", "S", "S"
	realizadas := shared
	realizadas.Comments = "P"
	realizadas.Combinada, realizadas.Sport, realizadas.Platform, realizadas.Bookie, realizadas.Last = "Q", "R", "S", "T", "T"

	return Schema{
		inputs: []InputSheet{
			{
				Name:      SheetRealizadas,
				Dashboard: SheetMisDashboard,
				Banner:    "Rellenar con los picks que sigo",
				Columns:   realizadas,
				widths:    realizadasWidths,
			},
			{
				Name:      SheetLanzadas,
				Dashboard: SheetTipsterDashboard,
				Banner:    "Rellenar con los picks que lanza el tipster",
				Columns:   lanzadas,
				widths:    lanzadasWidths,
			},
		},
		dashboards: []Dashboard{
			{Name: SheetMisDashboard, Source: SheetRealizadas},
			{Name: SheetTipsterDashboard, Source: SheetLanzadas},
		},
		reference: Reference{
			Sheet:     SheetBaseDatos,
			Bookies:   ReferenceList{"A", Span{2, 30}},
			Platforms: ReferenceList{"C", Span{2, 20}},
			Sports:    ReferenceList{"E", Span{2, 20}},
			LivePre:   ReferenceList{"G", Span{2, 4}},
			Combinada: ReferenceList{"I", Span{2, 4}},
		},

		StatsLabelRow:   1,
		StatsRow:        2,
		BannerRows:      Span{3, 5},
		HeaderRow:       6,
		Data:            Span{7, 2001},
		FormulaRows:     Span{7, 10},
		StyledRows:      Span{7, 50},
		BankrollCell:    "$I$2",
		BannerLeft:      "A3:E5",
		BannerRight:     "F3:T5",
		BannerLeftText:  "PLANTILLA EII",
		StatsSignCells:  "E2:H2",
		YieldCell:       "G2",
		YieldFormat:     "0.00%",
		HeaderRowHeight: 25,
		BetMerge:        "M6:O6",

		DashboardHeaderRow:   2,
		DashboardTemplateRow: 3,
		DashboardRows:        Span{3, 100},
		DashboardFirstCol:    "A",
		DashboardLastCol:     "AC",
		LookupLastCol:        "W",
		SportHeaderFirstCol:  "N",
		SportTitle:           "% Aciertos Segun deporte",
		DashboardFontSize:    9,

		blueHeaders:       []string{"B6", "C6", "D6", "E6", "M6"},
		iconCells:         []string{"B1", "C1", "D1"},
		dashboardSignCols: []string{"C", "D", "F"},
		dashboardWidths: []ColumnWidth{
			{"A", 12}, {"B", 8}, {"C", 8}, {"D", 8}, {"E", 8}, {"F", 6}, {"G", 8},
			{"H", 6}, {"I", 6}, {"J", 6}, {"K", 8}, {"L", 8}, {"M", 8}, {"N", 7},
			{"O", 7}, {"P", 7}, {"Q", 7}, {"R", 6}, {"S", 7}, {"T", 7}, {"U", 7},
			{"V", 8}, {"W", 6}, {"X", 7}, {"Y", 6}, {"Z", 7}, {"AA", 7}, {"AB", 7},
			{"AC", 7},
		},
	}
}

// Inputs returns both input sheet variants, Realizadas first.
func (s Schema) Inputs() []InputSheet {
	return append([]InputSheet(nil), s.inputs...)
}

// Dashboards returns both dashboards in the same order as Inputs.
func (s Schema) Dashboards() []Dashboard {
	return append([]Dashboard(nil), s.dashboards...)
}

// BlueHeaders are the header cells of the input sheets filled blue.
func (s Schema) BlueHeaders() []string {
	return append([]string(nil), s.blueHeaders...)
}

// IconCells are the row-1 icon cells, the win icon first.
func (s Schema) IconCells() []string {
	return append([]string(nil), s.iconCells...)
}

// DashboardSignCols are the dashboard columns coloured by sign.
func (s Schema) DashboardSignCols() []string {
	return append([]string(nil), s.dashboardSignCols...)
}

// DashboardWidths returns the dashboard column width presets.
func (s Schema) DashboardWidths() []ColumnWidth {
	return append([]ColumnWidth(nil), s.dashboardWidths...)
}

// Reference returns the dropdown source lists.
func (s Schema) Reference() Reference {
	return s.reference
}

// InputFor looks an input sheet up by name.
func (s Schema) InputFor(name string) (InputSheet, bool) {
	for _, in := range s.inputs {
		if in.Name == name {
			return in, true
		}
	}
	return InputSheet{}, false
}

// DashboardFor looks a dashboard up by name.
func (s Schema) DashboardFor(name string) (Dashboard, bool) {
	for _, d := range s.dashboards {
		if d.Name == name {
			return d, true
		}
	}
	return Dashboard{}, false
}

// Sheets lists every sheet the schema knows about.
func (s Schema) Sheets() []string {
	names := make([]string, 0, len(s.inputs)+len(s.dashboards)+1)
	for _, in := range s.inputs {
		names = append(names, in.Name)
	}
	for _, d := range s.dashboards {
		names = append(names, d.Name)
	}
	return append(names, s.reference.Sheet)
}

// NameRange is the dashboard's tipster-name column, e.g. "A3:A100".
func (s Schema) NameRange() string {
	return s.DashboardRows.Column(s.DashboardFirstCol)
}

// LookupRange is the table searched by the stake lookup, e.g. "A3:W100".
func (s Schema) LookupRange() string {
	return fmt.Sprintf("%s%d:%s%d", s.DashboardFirstCol, s.DashboardRows.First, s.LookupLastCol, s.DashboardRows.Last)
}

// FillRows are the dashboard rows that receive copies of the template row.
func (s Schema) FillRows() Span {
	return Span{First: s.DashboardTemplateRow + 1, Last: s.DashboardRows.Last}
}
