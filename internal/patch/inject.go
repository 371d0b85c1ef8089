package patch

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

// DefaultBackupSuffix replaces the extension of the original file.
const DefaultBackupSuffix = ".backup.xlsx"

// Options tunes an injection or propagation run.
type Options struct {
	Schema     layout.Schema
	FontFamily string

	BackupSuffix     string
	TimestampBackups bool
	// DryRun runs every step in memory and writes nothing.
	DryRun bool

	now func() time.Time
}

// Summary reports what a run changed.
type Summary struct {
	File       string         `json:"file" yaml:"file"`
	Backup     string         `json:"backup,omitempty" yaml:"backup,omitempty"`
	DryRun     bool           `json:"dry_run" yaml:"dry_run"`
	Inputs     SheetStats     `json:"inputs" yaml:"inputs"`
	Dashboards SheetStats     `json:"dashboards" yaml:"dashboards"`
	Propagated PropagateStats `json:"propagated" yaml:"propagated"`
	FontCells  int            `json:"font_cells" yaml:"font_cells"`
}

// Inject applies every input sheet and dashboard step to the workbook at
// path, then backs the original up and saves over it. Any failing step
// aborts the run before anything is written.
func Inject(path string, opts Options) (*Summary, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	sum, err := InjectEditor(editor, opts)
	if err != nil {
		return nil, err
	}
	sum.File = path
	if err := save(editor, path, opts, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

// InjectEditor runs the injection steps on an open workbook without saving.
func InjectEditor(editor *excel.Editor, opts Options) (*Summary, error) {
	s := opts.Schema
	sum := &Summary{File: editor.Path(), DryRun: opts.DryRun}

	for _, in := range s.Inputs() {
		st, err := StyleInput(editor, s, in)
		if err != nil {
			return nil, fmt.Errorf("style input sheets: %w", err)
		}
		sum.Inputs.add(st)
	}

	st, err := StyleDashboards(editor, s)
	if err != nil {
		return nil, fmt.Errorf("style dashboards: %w", err)
	}
	sum.Dashboards = st

	if sum.Propagated, err = Propagate(editor, s); err != nil {
		return nil, fmt.Errorf("propagate dashboard formulas: %w", err)
	}
	if sum.FontCells, err = ApplyFontFamily(editor, s, opts.FontFamily); err != nil {
		return nil, fmt.Errorf("apply font family: %w", err)
	}
	return sum, nil
}

// PropagateFile runs the propagator alone on the workbook at path.
func PropagateFile(path string, opts Options) (*Summary, error) {
	editor, err := excel.OpenFile(path)
	if err != nil {
		return nil, err
	}
	defer editor.Close()

	sum := &Summary{File: path, DryRun: opts.DryRun}
	if sum.Propagated, err = Propagate(editor, opts.Schema); err != nil {
		return nil, fmt.Errorf("propagate dashboard formulas: %w", err)
	}
	if err := save(editor, path, opts, sum); err != nil {
		return nil, err
	}
	return sum, nil
}

func save(editor *excel.Editor, path string, opts Options, sum *Summary) error {
	if opts.DryRun {
		logger.Info("Dry run, nothing written", "file", path)
		return nil
	}
	now := time.Now
	if opts.now != nil {
		now = opts.now
	}
	backup := BackupPath(path, opts.BackupSuffix, opts.TimestampBackups, now())
	if err := copyFile(path, backup); err != nil {
		return fmt.Errorf("failed to create backup: %w", err)
	}
	sum.Backup = backup
	logger.Info("Created backup", "file", path, "backup", backup)

	if err := editor.Save(); err != nil {
		return fmt.Errorf("failed to save %s: %w", path, err)
	}
	logger.Info("Saved workbook", "file", path)
	return nil
}

// BackupPath derives the backup file name: "book.xlsx" becomes
// "book.backup.xlsx", or "book.20261014-093000.backup.xlsx" when
// timestamped.
func BackupPath(path, suffix string, timestamped bool, now time.Time) string {
	if suffix == "" {
		suffix = DefaultBackupSuffix
	}
	base := strings.TrimSuffix(path, filepath.Ext(path))
	if timestamped {
		base += "." + now.Format("20060102-150405")
	}
	return base + suffix
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
