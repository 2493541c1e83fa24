// Package cmd implements the proplife CLI commands.
package cmd

import (
	"fmt"

	"github.com/theirongolddev/proplife/internal/catalog"
	"github.com/theirongolddev/proplife/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Database:         %s\n", databasePath(cfg))
	fmt.Printf("    Default workflow: %s\n", cfg.General.DefaultPipeline)
	fmt.Printf("    Currency:         %s\n", cfg.General.Currency)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:             %s\n", cfg.Server.Addr)
	fmt.Printf("    Read header timeout: %ds\n", cfg.Server.ReadHeaderTimeoutSec)
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	if ds := catalog.Discrepancies(); len(ds) > 0 {
		fmt.Println("  [Catalog notes]")
		for _, d := range ds {
			fmt.Printf("    %s: using %s (alternate %s)\n", d.Subject, d.Canonical, d.Alternate)
		}
		fmt.Println()
	}

	fmt.Println("  Run `proplife setup` to reconfigure.")
	return nil
}
