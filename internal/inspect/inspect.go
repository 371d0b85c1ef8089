// Package inspect reports, for a fixed set of key cells, whether each holds
// a live formula or a frozen literal, along with the formula text, the
// cached value and the column header it sits under.
package inspect

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/formula"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// Probe is one cell to inspect.
type Probe struct {
	Sheet string
	Cell  string
	// LabelCell holds the header naming this cell's column.
	LabelCell string
	// ExpectFormula marks cells the workbook should compute; a literal
	// there is reported as frozen.
	ExpectFormula bool
}

// Finding is the inspection result for one probe.
type Finding struct {
	Sheet     string           `json:"sheet" yaml:"sheet"`
	Cell      string           `json:"cell" yaml:"cell"`
	Label     string           `json:"label,omitempty" yaml:"label,omitempty"`
	IsFormula bool             `json:"is_formula" yaml:"is_formula"`
	Formula   string           `json:"formula,omitempty" yaml:"formula,omitempty"`
	Value     string           `json:"value" yaml:"value"`
	Frozen    bool             `json:"frozen,omitempty" yaml:"frozen,omitempty"`
	Analysis  *formula.Summary `json:"analysis,omitempty" yaml:"analysis,omitempty"`
}

// Report is the outcome of inspecting one workbook.
type Report struct {
	File     string    `json:"file" yaml:"file"`
	Findings []Finding `json:"findings" yaml:"findings"`
	// Skipped lists probed sheets absent from the workbook.
	Skipped []string `json:"skipped,omitempty" yaml:"skipped,omitempty"`
}

// Frozen counts findings where a formula was expected but a literal found.
func (r *Report) Frozen() int {
	n := 0
	for _, f := range r.Findings {
		if f.Frozen {
			n++
		}
	}
	return n
}

// DefaultProbes covers dashboard row 3 columns A..U and input row 7
// columns A..H, labelled by their header rows.
func DefaultProbes(s layout.Schema) []Probe {
	var probes []Probe
	row := s.DashboardTemplateRow
	for _, d := range s.Dashboards() {
		for col := 1; col <= 21; col++ {
			name, _ := excelize.ColumnNumberToName(col)
			probes = append(probes, Probe{
				Sheet:         d.Name,
				Cell:          fmt.Sprintf("%s%d", name, row),
				LabelCell:     fmt.Sprintf("%s%d", name, s.DashboardHeaderRow),
				ExpectFormula: col > 2, // A is the tipster name, B the unit size
			})
		}
	}
	for _, in := range s.Inputs() {
		cols := in.Columns
		formulaCols := map[string]bool{cols.ResultUnits: true, cols.Amount: true, cols.ResultCurrency: true}
		for col := 1; col <= 8; col++ {
			name, _ := excelize.ColumnNumberToName(col)
			probes = append(probes, Probe{
				Sheet:         in.Name,
				Cell:          fmt.Sprintf("%s%d", name, s.Data.First),
				LabelCell:     fmt.Sprintf("%s%d", name, s.HeaderRow),
				ExpectFormula: formulaCols[name],
			})
		}
	}
	return probes
}

// Run opens the workbook at path and inspects every probe. A missing file
// is an error; a missing sheet is recorded in Skipped.
func Run(path string, probes []Probe) (*Report, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	report, err := RunEditor(editor, probes)
	if err != nil {
		return nil, err
	}
	report.File = path
	return report, nil
}

// RunEditor inspects an already open workbook.
func RunEditor(editor *excel.Editor, probes []Probe) (*Report, error) {
	report := &Report{File: editor.Path()}
	skipped := map[string]bool{}
	for _, p := range probes {
		if skipped[p.Sheet] {
			continue
		}
		if err := editor.RequireSheet(p.Sheet); err != nil {
			logger.Warn("Sheet missing, skipping probes", "sheet", p.Sheet)
			skipped[p.Sheet] = true
			report.Skipped = append(report.Skipped, p.Sheet)
			continue
		}
		finding, err := inspectCell(editor, p)
		if err != nil {
			return nil, fmt.Errorf("inspect %s!%s: %w", p.Sheet, p.Cell, err)
		}
		report.Findings = append(report.Findings, finding)
	}
	return report, nil
}

func inspectCell(editor *excel.Editor, p Probe) (Finding, error) {
	f := Finding{Sheet: p.Sheet, Cell: p.Cell}
	var err error
	if p.LabelCell != "" {
		if f.Label, err = editor.GetCellValue(p.Sheet, p.LabelCell); err != nil {
			return f, err
		}
	}
	if f.Formula, err = editor.GetCellFormula(p.Sheet, p.Cell); err != nil {
		return f, err
	}
	if f.Value, err = editor.GetCellValue(p.Sheet, p.Cell); err != nil {
		return f, err
	}
	f.IsFormula = f.Formula != ""
	f.Frozen = p.ExpectFormula && !f.IsFormula && strings.TrimSpace(f.Value) != ""
	if f.IsFormula {
		s := formula.Analyze(f.Formula)
		f.Analysis = &s
	}
	return f, nil
}

// Resolve picks the workbook to inspect: arg when given, otherwise the
// first candidate that exists.
func Resolve(arg string, candidates []string) (string, error) {
	if arg != "" {
		return arg, nil
	}
	for _, c := range candidates {
		if _, err := os.Stat(c); err == nil {
			return c, nil
		}
		logger.Debug("Candidate workbook not found", "path", c)
	}
	return "", fmt.Errorf("%w: none of %s", excel.ErrFileNotFound, strings.Join(candidates, ", "))
}

// ResolveAll splits the candidates into the files that exist and the ones
// that do not. It fails only when none exist.
func ResolveAll(candidates []string) (found, missing []string, err error) {
	for _, c := range candidates {
		if _, err := os.Stat(c); err != nil {
			logger.Debug("Candidate workbook not found", "path", c)
			missing = append(missing, c)
			continue
		}
		found = append(found, c)
	}
	if len(found) == 0 {
		return nil, missing, fmt.Errorf("%w: none of %s", excel.ErrFileNotFound, strings.Join(candidates, ", "))
	}
	return found, missing, nil
}

// FindWorkbooks returns all .xlsx files under dir, skipping Excel lock
// files and backups made by the patcher.
func FindWorkbooks(dir, backupSuffix string) ([]string, error) {
	var files []string
	err := filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		name := info.Name()
		if info.IsDir() || strings.HasPrefix(name, "~$") {
			return nil
		}
		if backupSuffix != "" && strings.HasSuffix(name, backupSuffix) {
			return nil
		}
		if strings.ToLower(filepath.Ext(path)) == ".xlsx" {
			files = append(files, path)
		}
		return nil
	})
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("%w: %s", excel.ErrFileNotFound, dir)
	}
	return files, err
}
