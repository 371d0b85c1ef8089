// Package simulate walks through what a user does to add a tipster: type
// the name into an input sheet and into its dashboard, then pick it from the
// tipster dropdown. It works on a copy of the workbook.
package simulate

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
	"tipsterFmt/internal/ui"
)

// DefaultCopySuffix is appended to the workbook name for the test copy.
const DefaultCopySuffix = "-simulated"

// reportCols are the dashboard columns shown for the new tipster row.
var reportCols = []string{"C", "F", "G"}

// Options tunes a simulation.
type Options struct {
	Schema layout.Schema
	// Names maps each input sheet to the tipster typed into it.
	Names      map[string]string
	CopySuffix string
}

// DefaultNames are the tipsters entered when none are configured.
func DefaultNames() map[string]string {
	return map[string]string{
		layout.SheetRealizadas: "JOHN",
		layout.SheetLanzadas:   "PETER",
	}
}

// CellFormula is a dashboard cell of the new tipster row.
type CellFormula struct {
	Cell    string `json:"cell" yaml:"cell"`
	Formula string `json:"formula,omitempty" yaml:"formula,omitempty"`
	Value   string `json:"value,omitempty" yaml:"value,omitempty"`
	CalcErr string `json:"calc_error,omitempty" yaml:"calc_error,omitempty"`
}

// Step is the outcome for one input sheet and its dashboard.
type Step struct {
	Sheet         string        `json:"sheet" yaml:"sheet"`
	Dashboard     string        `json:"dashboard" yaml:"dashboard"`
	Tipster       string        `json:"tipster" yaml:"tipster"`
	InputCell     string        `json:"input_cell,omitempty" yaml:"input_cell,omitempty"`
	DashboardCell string        `json:"dashboard_cell,omitempty" yaml:"dashboard_cell,omitempty"`
	Formulas      []CellFormula `json:"formulas,omitempty" yaml:"formulas,omitempty"`
	Dropdown      string        `json:"dropdown,omitempty" yaml:"dropdown,omitempty"`
	DropdownOK    bool          `json:"dropdown_ok" yaml:"dropdown_ok"`
	Options       []string      `json:"options,omitempty" yaml:"options,omitempty"`
	Problem       string        `json:"problem,omitempty" yaml:"problem,omitempty"`
}

// Listed reports whether the new tipster is offered by the dropdown.
func (s Step) Listed() bool {
	for _, o := range s.Options {
		if o == s.Tipster {
			return true
		}
	}
	return false
}

// Report is the outcome of a simulation.
type Report struct {
	Source string `json:"source" yaml:"source"`
	Copy   string `json:"copy" yaml:"copy"`
	Steps  []Step `json:"steps" yaml:"steps"`
}

// OK reports whether every step found its dashboard formulas and a
// dropdown that lists the new tipster.
func (r *Report) OK() bool {
	for _, s := range r.Steps {
		if s.Problem != "" || !s.DropdownOK || !s.Listed() {
			return false
		}
	}
	return len(r.Steps) > 0
}

// CopyPath returns "<dir>/<name><suffix>.xlsx" next to path.
func CopyPath(path, suffix string) string {
	if suffix == "" {
		suffix = DefaultCopySuffix
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + suffix + ext
}

// Run simulates the flow on the workbook at path and saves the result as a
// test copy. The original file is never written.
func Run(path string, opts Options) (*Report, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	r := Simulate(editor, opts)
	r.Source = path
	r.Copy = CopyPath(path, opts.CopySuffix)
	if err := editor.SaveAs(r.Copy); err != nil {
		return nil, fmt.Errorf("failed to save test copy: %w", err)
	}
	logger.Info("Saved simulated workbook", "copy", r.Copy)
	return r, nil
}

// Simulate enters each configured tipster into an open workbook.
func Simulate(editor *excel.Editor, opts Options) *Report {
	names := opts.Names
	if len(names) == 0 {
		names = DefaultNames()
	}
	r := &Report{Source: editor.Path()}
	for _, in := range opts.Schema.Inputs() {
		name, ok := names[in.Name]
		if !ok {
			continue
		}
		step := simulateSheet(editor, opts.Schema, in, name)
		logger.Info("Simulated tipster entry", "sheet", step.Sheet, "tipster", step.Tipster,
			"dropdown_ok", step.DropdownOK, "problem", step.Problem)
		r.Steps = append(r.Steps, step)
	}
	return r
}

func simulateSheet(editor *excel.Editor, s layout.Schema, in layout.InputSheet, name string) Step {
	step := Step{Sheet: in.Name, Dashboard: in.Dashboard, Tipster: name}
	for _, sheet := range []string{in.Name, in.Dashboard} {
		if err := editor.RequireSheet(sheet); err != nil {
			step.Problem = err.Error()
			return step
		}
	}

	row, err := editor.FirstEmptyRow(in.Name, in.Columns.Tipster, s.Data.First, s.Data.Last)
	if err != nil || row == 0 {
		step.Problem = fmt.Sprintf("no empty %s cell on %s", in.Columns.Tipster, in.Name)
		return step
	}
	step.InputCell = fmt.Sprintf("%s%d", in.Columns.Tipster, row)
	if err := editor.SetCellValue(in.Name, step.InputCell, name); err != nil {
		step.Problem = err.Error()
		return step
	}

	rows := s.DashboardRows
	drow, err := editor.FirstEmptyRow(in.Dashboard, s.DashboardFirstCol, rows.First, rows.Last)
	if err != nil || drow == 0 {
		step.Problem = fmt.Sprintf("no empty name cell on %s", in.Dashboard)
		return step
	}
	step.DashboardCell = fmt.Sprintf("%s%d", s.DashboardFirstCol, drow)
	if err := editor.SetCellValue(in.Dashboard, step.DashboardCell, name); err != nil {
		step.Problem = err.Error()
		return step
	}

	missing := 0
	for _, col := range reportCols {
		cf := CellFormula{Cell: fmt.Sprintf("%s%d", col, drow)}
		cf.Formula, _ = editor.GetCellFormula(in.Dashboard, cf.Cell)
		if cf.Formula == "" {
			missing++
		} else if v, err := editor.CalcCellValue(in.Dashboard, cf.Cell); err != nil {
			cf.CalcErr = err.Error()
		} else {
			cf.Value = v
		}
		step.Formulas = append(step.Formulas, cf)
	}
	if missing > 0 {
		step.Problem = fmt.Sprintf("dashboard row %d has no formulas (run: tipsterfmt propagate <file>)", drow)
	}

	checkDropdown(editor, in, &step)
	return step
}

func checkDropdown(editor *excel.Editor, in layout.InputSheet, step *Step) {
	v, found, err := editor.ValidationAt(in.Name, step.InputCell)
	if err != nil || !found {
		return
	}
	step.Dropdown = v.Source
	ref, ok := formula.ParseRef(v.Source)
	if !ok {
		step.Options = v.Items
		return
	}
	step.DropdownOK = ref.Sheet == in.Dashboard
	step.Options = resolveOptions(editor, in.Name, ref)
}

// resolveOptions reads the non-empty values of the dropdown's source range,
// in the order Excel lists them.
func resolveOptions(editor *excel.Editor, sheet string, ref formula.Ref) []string {
	if ref.Sheet != "" {
		sheet = ref.Sheet
	}
	end := ref.End
	if !ref.IsRange {
		end = ref.Start
	}
	var out []string
	for col := ref.Start.Col; col <= end.Col; col++ {
		name := formula.Cell{Col: col}.String()
		values, err := editor.ReadColumnValues(sheet, name, ref.Start.Row, end.Row)
		if err != nil {
			return out
		}
		for _, v := range values {
			if strings.TrimSpace(v) != "" {
				out = append(out, v)
			}
		}
	}
	return out
}

// Render writes the report in the given output format.
func Render(w io.Writer, r *Report, format string) error {
	if format != ui.FormatText {
		return ui.Encode(w, format, r)
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("🧪 Simulating the tipster flow: " + r.Source))
	b.WriteString("\n\n")
	for _, s := range r.Steps {
		b.WriteString(ui.TitleStyle.Render(fmt.Sprintf("%s → %s", s.Sheet, s.Dashboard)))
		b.WriteString("\n")
		if s.InputCell != "" {
			b.WriteString(ui.OK(fmt.Sprintf("wrote %q in %s!%s", s.Tipster, s.Sheet, s.InputCell)))
			b.WriteString("\n")
		}
		if s.DashboardCell != "" {
			b.WriteString(ui.OK(fmt.Sprintf("wrote %q in %s!%s", s.Tipster, s.Dashboard, s.DashboardCell)))
			b.WriteString("\n")
		}
		for _, f := range s.Formulas {
			switch {
			case f.Formula == "":
				b.WriteString(ui.Fail(f.Cell + ": no formula"))
			case f.CalcErr != "":
				b.WriteString(ui.Warn(fmt.Sprintf("%s: =%s (not calculated: %s)", f.Cell, f.Formula, f.CalcErr)))
			default:
				b.WriteString(fmt.Sprintf("    %s: %s = %s", f.Cell, ui.FormulaStyle.Render("="+f.Formula), f.Value))
			}
			b.WriteString("\n")
		}
		switch {
		case s.Dropdown == "":
			b.WriteString(ui.Fail("tipster dropdown: none"))
		case s.DropdownOK:
			b.WriteString(ui.OK("tipster dropdown: " + s.Dropdown))
		default:
			b.WriteString(ui.Fail(fmt.Sprintf("tipster dropdown: %s, expected %s", s.Dropdown, s.Dashboard)))
		}
		b.WriteString("\n")
		if len(s.Options) > 0 {
			b.WriteString(ui.DimStyle.Render("    options: " + strings.Join(s.Options, ", ")))
			b.WriteString("\n")
		}
		if s.Problem != "" {
			b.WriteString(ui.Fail(s.Problem))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	if r.OK() {
		b.WriteString(ui.OK("New tipsters show up in their dropdowns"))
	} else {
		b.WriteString(ui.Fail("The tipster flow is broken"))
	}
	b.WriteString("\n")
	b.WriteString(ui.DimStyle.Render("Test copy: " + r.Copy))
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
