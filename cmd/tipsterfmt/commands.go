package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"tipsterFmt/internal/excel"
	"tipsterFmt/internal/explain"
	"tipsterFmt/internal/inspect"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
	"tipsterFmt/internal/patch"
	"tipsterFmt/internal/seed"
	"tipsterFmt/internal/simulate"
	"tipsterFmt/internal/ui"
	"tipsterFmt/internal/verify"
)

// requireArgs prints the command usage when fewer than n arguments are given.
func requireArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			cmd.SetOut(cmd.ErrOrStderr())
			_ = cmd.Usage()
			return fmt.Errorf("%s needs %d argument(s)", cmd.Name(), n)
		}
		if len(args) > n {
			return fmt.Errorf("%s takes %d argument(s), got %d", cmd.Name(), n, len(args))
		}
		return nil
	}
}

func addOutputFlag(cmd *cobra.Command, format *string) {
	cmd.Flags().StringVarP(format, "output", "o", ui.FormatText, "Output format: text, json or yaml")
}

func checkFormat(format string) error {
	if !ui.ValidFormat(format) {
		return fmt.Errorf("invalid output format: %s (must be text, json or yaml)", format)
	}
	return nil
}

func firstArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return ""
}

func newInspectCmd() *cobra.Command {
	var (
		format      string
		interactive bool
	)
	cmd := &cobra.Command{
		Use:   "inspect [file|dir]",
		Short: "Print the header, formula and value of the key template cells",
		Long: `inspect reads the dashboard template row and the first data row of both
input sheets. Without an argument every configured candidate file that exists
is inspected and each missing one is reported. A directory argument inspects
every workbook found under it.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			paths, missing, err := inspectTargets(firstArg(args))
			if err != nil {
				return err
			}
			// Structured output stays parseable on stdout.
			notes := cmd.OutOrStdout()
			if format != ui.FormatText {
				notes = cmd.ErrOrStderr()
			}
			for _, m := range missing {
				fmt.Fprintln(notes, ui.Fail("file not found: "+m))
			}
			probes := inspect.DefaultProbes(schema)
			frozen := 0
			for _, path := range paths {
				report, err := inspect.Run(path, probes)
				if err != nil {
					return err
				}
				frozen += report.Frozen()
				if interactive {
					if err := inspect.Browse(report, inspect.BrowseConfig{}); err != nil {
						return err
					}
					continue
				}
				if err := inspect.Render(cmd.OutOrStdout(), report, format); err != nil {
					return err
				}
			}
			logger.Info("Inspection finished", "files", len(paths), "missing", len(missing), "frozen", frozen)
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "Browse the findings in a terminal UI")
	return cmd
}

func inspectTargets(arg string) (found, missing []string, err error) {
	if arg == "" {
		return inspect.ResolveAll(cfg.Files.Candidates)
	}
	if info, err := os.Stat(arg); err == nil && info.IsDir() {
		files, err := inspect.FindWorkbooks(arg, cfg.Files.BackupSuffix)
		if err != nil {
			return nil, nil, err
		}
		if len(files) == 0 {
			return nil, nil, fmt.Errorf("%w: no .xlsx files in %s", excel.ErrFileNotFound, arg)
		}
		return files, nil, nil
	}
	return []string{arg}, nil, nil
}

func newVerifyCmd() *cobra.Command {
	var (
		format    string
		dropdowns bool
	)
	cmd := &cobra.Command{
		Use:   "verify [file]",
		Short: "Check that each input sheet's stake lookup uses its own dashboard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			path, err := inspect.Resolve(firstArg(args), cfg.Files.Candidates)
			if err != nil {
				return err
			}
			report, err := verify.Run(path, verify.Options{Schema: schema, Dropdowns: dropdowns})
			if err != nil {
				return err
			}
			if err := verify.Render(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}
			if !report.OK() {
				logger.Warn("Verification failed", "file", path)
				return fmt.Errorf("%w: %w", errReported, verify.ErrMismatch)
			}
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	cmd.Flags().BoolVar(&dropdowns, "dropdowns", false, "Also check the tipster dropdown source of each input sheet")
	return cmd
}

func patchOptions(dryRun bool, font string) patch.Options {
	if font == "" {
		font = cfg.Style.FontFamily
	}
	return patch.Options{
		Schema:           schema,
		FontFamily:       font,
		BackupSuffix:     cfg.Files.BackupSuffix,
		TimestampBackups: cfg.Files.TimestampBackups,
		DryRun:           dryRun,
	}
}

func newStyleCmd() *cobra.Command {
	var (
		format string
		dryRun bool
		font   string
	)
	cmd := &cobra.Command{
		Use:   "style <file>",
		Short: "Add styling, row formulas, dropdowns and dashboard formulas",
		Long: `style patches the workbook in place: banners, header colours, conditional
formats, column widths, the F/G/H formulas of the template rows, every dropdown,
the dashboard styling and formulas filled down to row 100, and one font family
for every cell. The original is copied to a backup first.`,
		Args: requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			sum, err := patch.Inject(args[0], patchOptions(dryRun, font))
			if err != nil {
				return err
			}
			return patch.Render(cmd.OutOrStdout(), sum, format)
		},
	}
	addOutputFlag(cmd, &format)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run every step without writing the workbook or a backup")
	cmd.Flags().StringVar(&font, "font", "", "Font family for every cell (default from config)")
	return cmd
}

func newPropagateCmd() *cobra.Command {
	var (
		format string
		dryRun bool
	)
	cmd := &cobra.Command{
		Use:   "propagate <file>",
		Short: "Fill the dashboard template row formulas down to every tipster row",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			sum, err := patch.PropagateFile(args[0], patchOptions(dryRun, ""))
			if err != nil {
				return err
			}
			return patch.Render(cmd.OutOrStdout(), sum, format)
		},
	}
	addOutputFlag(cmd, &format)
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Run without writing the workbook or a backup")
	return cmd
}

func newSimulateCmd() *cobra.Command {
	var (
		format  string
		mine    string
		tipster string
	)
	cmd := &cobra.Command{
		Use:   "simulate <file>",
		Short: "Add a test tipster to a copy of the workbook and show the result",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkFormat(format); err != nil {
				return err
			}
			if mine == "" {
				mine = cfg.Simulate.MyTipster
			}
			if tipster == "" {
				tipster = cfg.Simulate.TipsterTipster
			}
			names := map[string]string{
				layout.SheetRealizadas: mine,
				layout.SheetLanzadas:   tipster,
			}
			report, err := simulate.Run(args[0], simulate.Options{
				Schema:     schema,
				Names:      names,
				CopySuffix: cfg.Simulate.CopySuffix,
			})
			if err != nil {
				return err
			}
			if err := simulate.Render(cmd.OutOrStdout(), report, format); err != nil {
				return err
			}
			if !report.OK() {
				return fmt.Errorf("%w: tipster flow check failed", errReported)
			}
			return nil
		},
	}
	addOutputFlag(cmd, &format)
	cmd.Flags().StringVar(&mine, "mine", "", "Tipster entered on Realizadas (default from config)")
	cmd.Flags().StringVar(&tipster, "tipster", "", "Tipster entered on Lanzadas Tipster (default from config)")
	return cmd
}

func newExplainCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "explain <file> <Sheet!Cell>",
		Short: "Explain a cell formula in plain language using Gemini",
		Long: `explain sends one cell's formula, its header and its structure to Gemini and
prints the answer. The API key is read from GEMINI_API_KEY.`,
		Example: "  tipsterfmt explain book.xlsx Realizadas!G7\n  tipsterfmt explain book.xlsx \"'Lanzadas Tipster'!F7\"",
		Args:    requireArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			editor, err := excel.OpenFile(args[0])
			if err != nil {
				return err
			}
			defer editor.Close()

			fc, err := explain.ContextFor(editor, schema, args[1])
			if err != nil {
				return err
			}
			x, err := explain.NewExplainer(explain.APIKey(), cfg.Explain.Model,
				time.Duration(cfg.Explain.TimeoutSeconds)*time.Second)
			if err != nil {
				return err
			}
			defer x.Close()

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, ui.TitleStyle.Render(fmt.Sprintf("%s!%s", fc.Sheet, fc.Cell)))
			fmt.Fprintln(out, ui.FormulaStyle.Render("="+fc.Formula))
			fmt.Fprintln(out)

			text, err := x.Explain(context.Background(), fc)
			if err != nil {
				return err
			}
			fmt.Fprintln(out, text)
			return nil
		},
	}
	return cmd
}

func newSeedCmd() *cobra.Command {
	var force bool
	cmd := &cobra.Command{
		Use:   "seed <out.xlsx>",
		Short: "Write a workbook laid out as the front-end exports it",
		Args:  requireArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := args[0]
			if _, err := os.Stat(path); err == nil && !force {
				return fmt.Errorf("%s already exists (use --force to overwrite)", path)
			}
			if err := seed.Write(path); err != nil {
				return err
			}
			logger.Info("Wrote seed workbook", "path", path)
			fmt.Fprintln(cmd.OutOrStdout(), ui.OK("Seed workbook written: "+path))
			return nil
		},
	}
	cmd.Flags().BoolVar(&force, "force", false, "Overwrite an existing file")
	return cmd
}
