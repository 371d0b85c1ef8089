// Package verify checks that the stake lookup of each input sheet points at
// that sheet's own dashboard.
package verify

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
	"tipsterFmt/internal/ui"
)

// Expectation pairs an input sheet with the dashboard its lookups must use.
type Expectation struct {
	Sheet     string
	Dashboard string
}

// Expectations lists the pairs from the schema, Realizadas first.
func Expectations(s layout.Schema) []Expectation {
	var out []Expectation
	for _, in := range s.Inputs() {
		out = append(out, Expectation{Sheet: in.Name, Dashboard: in.Dashboard})
	}
	return out
}

// Options tunes a verification run.
type Options struct {
	Schema layout.Schema
	// Dropdowns also checks that the tipster dropdown lists the right dashboard.
	Dropdowns bool
}

// Result is the verdict for one input sheet.
type Result struct {
	Sheet      string `json:"sheet" yaml:"sheet"`
	Cell       string `json:"cell" yaml:"cell"`
	Expected   string `json:"expected" yaml:"expected"`
	Formula    string `json:"formula,omitempty" yaml:"formula,omitempty"`
	Actual     string `json:"actual,omitempty" yaml:"actual,omitempty"`
	Correct    bool   `json:"correct" yaml:"correct"`
	Problem    string `json:"problem,omitempty" yaml:"problem,omitempty"`
	Dropdown   string `json:"dropdown,omitempty" yaml:"dropdown,omitempty"`
	DropdownOK *bool  `json:"dropdown_ok,omitempty" yaml:"dropdown_ok,omitempty"`
}

// Report collects the per-sheet results.
type Report struct {
	File    string   `json:"file" yaml:"file"`
	Results []Result `json:"results" yaml:"results"`
}

// OK reports whether every sheet passed every check.
func (r *Report) OK() bool {
	for _, res := range r.Results {
		if !res.Correct || (res.DropdownOK != nil && !*res.DropdownOK) {
			return false
		}
	}
	return len(r.Results) > 0
}

// Run opens the workbook and verifies it.
func Run(path string, opts Options) (*Report, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	r := Check(editor, opts)
	r.File = path
	return r, nil
}

// Check verifies an open workbook. Missing sheets and cells without a
// formula are failed results, not errors.
func Check(editor *excel.Editor, opts Options) *Report {
	s := opts.Schema
	cell := amountCell(s)
	report := &Report{File: editor.Path()}
	for _, exp := range Expectations(s) {
		res := checkSheet(editor, exp, cell)
		if opts.Dropdowns && res.Problem != problemMissingSheet {
			checkDropdown(editor, exp, s, &res)
		}
		logger.Info("Verified stake lookup",
			"sheet", res.Sheet, "correct", res.Correct, "actual", res.Actual)
		report.Results = append(report.Results, res)
	}
	return report
}

const problemMissingSheet = "sheet not found"

// amountCell is the first stake cell, G7 in the canonical layout.
func amountCell(s layout.Schema) string {
	col := "G"
	if ins := s.Inputs(); len(ins) > 0 {
		col = ins[0].Columns.Amount
	}
	return fmt.Sprintf("%s%d", col, s.Data.First)
}

func checkSheet(editor *excel.Editor, exp Expectation, cell string) Result {
	res := Result{Sheet: exp.Sheet, Cell: cell, Expected: exp.Dashboard}
	if err := editor.RequireSheet(exp.Sheet); err != nil {
		res.Problem = problemMissingSheet
		return res
	}
	f, err := editor.GetCellFormula(exp.Sheet, cell)
	if err != nil {
		res.Problem = err.Error()
		return res
	}
	if f == "" {
		res.Problem = "no formula"
		return res
	}
	res.Formula = f

	summary := formula.Analyze(f)
	if !summary.Calls("VLOOKUP", "XLOOKUP") {
		res.Problem = "no lookup function"
		return res
	}
	res.Actual = referencedDashboard(summary)
	res.Correct = strings.Contains(f, exp.Dashboard)
	if !res.Correct {
		res.Problem = "wrong dashboard"
	}
	return res
}

// referencedDashboard names the dashboard the formula reads from, falling
// back to the first referenced sheet.
func referencedDashboard(s formula.Summary) string {
	for _, sh := range s.Sheets {
		if strings.Contains(sh, "Dashboard") {
			return sh
		}
	}
	if len(s.Sheets) > 0 {
		return s.Sheets[0]
	}
	return ""
}

func checkDropdown(editor *excel.Editor, exp Expectation, s layout.Schema, res *Result) {
	in, _ := s.InputFor(exp.Sheet)
	cell := fmt.Sprintf("%s%d", in.Columns.Tipster, s.Data.First)
	ok := false
	defer func() { res.DropdownOK = &ok }()

	v, found, err := editor.ValidationAt(exp.Sheet, cell)
	if err != nil || !found {
		return
	}
	res.Dropdown = v.Source
	ref, parsed := formula.ParseRef(v.Source)
	ok = parsed && ref.Sheet == exp.Dashboard
}

// ErrMismatch is returned by the command when any check failed.
var ErrMismatch = errors.New("dashboard references are not correct")

// Render writes the report in the given output format.
func Render(w io.Writer, r *Report, format string) error {
	if format != ui.FormatText {
		return ui.Encode(w, format, r)
	}
	var b strings.Builder
	b.WriteString(ui.TitleStyle.Render("🔍 Verifying dashboard references: " + r.File))
	b.WriteString("\n\n")
	for _, res := range r.Results {
		switch {
		case res.Correct:
			b.WriteString(ui.OK(fmt.Sprintf("%s!%s references %s", res.Sheet, res.Cell, res.Expected)))
		case res.Actual != "":
			b.WriteString(ui.Fail(fmt.Sprintf("%s!%s references %s, expected %s", res.Sheet, res.Cell, res.Actual, res.Expected)))
		default:
			b.WriteString(ui.Fail(fmt.Sprintf("%s!%s: %s", res.Sheet, res.Cell, res.Problem)))
		}
		b.WriteString("\n")
		if res.Formula != "" {
			b.WriteString(ui.DimStyle.Render("    =" + res.Formula))
			b.WriteString("\n")
		}
		if res.DropdownOK != nil {
			if *res.DropdownOK {
				b.WriteString(ui.OK("    tipster dropdown: " + res.Dropdown))
			} else if res.Dropdown == "" {
				b.WriteString(ui.Fail("    tipster dropdown: none"))
			} else {
				b.WriteString(ui.Fail(fmt.Sprintf("    tipster dropdown: %s, expected %s", res.Dropdown, res.Expected)))
			}
			b.WriteString("\n")
		}
	}
	b.WriteString("\n")
	if r.OK() {
		b.WriteString(ui.OK("All dashboard references are correct"))
	} else {
		b.WriteString(ui.Fail("Some dashboard references need fixing (run: tipsterfmt style <file>)"))
	}
	b.WriteString("\n")
	_, err := io.WriteString(w, b.String())
	return err
}
