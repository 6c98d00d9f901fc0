package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/alexiusacademia/gocol/internal/config"
	"github.com/alexiusacademia/gocol/internal/version"
	"github.com/spf13/cobra"
)

var (
	configFile string
	verbose    bool

	// cfg is loaded before any subcommand runs
	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "gocol",
	Short: "Steel Column Buckling Design Tool",
	Long: `gocol - Go Steel Column Designer

A CLI tool for the design of axially loaded steel columns
based on the Eurocode 3 flexural buckling method.

This tool helps structural engineers perform:
  - Factored axial load calculation
  - Flexural buckling checks about both axes of a column
  - Batch checks of whole section catalogs (CSV or Excel)
  - Filtering and sorting of catalogs by any property or result
  - Run history, PDF reports and charts

Buckling curve b is used about the strong axis and curve c
about the weak axis, as for rolled I-sections.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		var err error
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
		} else {
			cfg, err = config.Load()
		}
		if err != nil {
			return fmt.Errorf("loading configuration: %w", err)
		}
		slog.Debug("configuration loaded", "db", cfg.Database.Path, "policy", cfg.Batch.FailurePolicy)
		return nil
	},
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println()
		fmt.Println("  ╔═══════════════════════════════════════════════════════════╗")
		fmt.Println("  ║                                                           ║")
		fmt.Printf("  ║   gocol v%-49s║\n", version.Version)
		fmt.Println("  ║   Go Steel Column Designer                                ║")
		fmt.Printf("  ║%-59s║\n", fmt.Sprintf("   %s ©  %s", version.Author, version.Year))
		fmt.Println("  ║                                                           ║")
		fmt.Println("  ╚═══════════════════════════════════════════════════════════╝")
		fmt.Println()
		fmt.Println("  A CLI tool for the design of axially loaded steel columns")
		fmt.Println("  based on the Eurocode 3 flexural buckling method.")
		fmt.Println()
		fmt.Println("  Features:")
		fmt.Println("    • Factored axial load calculation (1.2D + 1.5 × leading action)")
		fmt.Println("    • Single column buckling check about both axes")
		fmt.Println("    • Batch evaluation of section catalogs (CSV / XLSX)")
		fmt.Println("    • Catalog filtering, sorting and lightest-section selection")
		fmt.Println("    • Run history, JSON HTTP API, PDF reports and charts")
		fmt.Println()
		fmt.Println("  Use 'gocol --help' to see available commands.")
		fmt.Println()
		fmt.Println("  ─────────────────────────────────────────────────────────────")
		fmt.Printf("  Copyright © %s %s. All rights reserved.\n", version.Year, version.Author)
		fmt.Println()
	},
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true

	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default $XDG_CONFIG_HOME/gocol/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}
