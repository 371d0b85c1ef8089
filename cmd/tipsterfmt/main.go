package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"tipsterFmt/internal/config"
	"tipsterFmt/internal/layout"
	"tipsterFmt/internal/logger"
)

var (
	configPath string
	verbose    bool

	cfg    *config.Config
	schema = layout.Default()
)

// errReported marks failures whose details were already printed.
var errReported = errors.New("reported")

func main() {
	rootCmd := newRootCmd()
	err := rootCmd.Execute()
	logger.Sync()
	if err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintf(os.Stderr, "❌ Error: %v\n", err)
		}
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "tipsterfmt",
		Short: "Inspect, verify and patch the tipster tracker workbook",
		Long: `tipsterfmt works on the workbook exported by the tipster tracker front-end.
It inspects and verifies its formulas, adds the styling, formulas and dropdowns
the export leaves out, fills the dashboard formulas down to every tipster row
and simulates adding a new tipster.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return setup()
		},
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", config.DefaultPath, "Path to the TOML config file")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log debug details")

	rootCmd.AddCommand(
		newInspectCmd(),
		newVerifyCmd(),
		newStyleCmd(),
		newPropagateCmd(),
		newSimulateCmd(),
		newExplainCmd(),
		newSeedCmd(),
	)
	return rootCmd
}

func setup() error {
	loaded, err := config.LoadConfig(configPath)
	if err != nil {
		return fmt.Errorf("error loading config: %w", err)
	}
	cfg = loaded
	if err := logger.Init(cfg.Log.Directory, verbose); err != nil {
		return err
	}
	logger.Info("tipsterfmt started", "config", configPath, "verbose", verbose)
	return nil
}
