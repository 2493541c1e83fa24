package cmd

import (
	"fmt"

	"github.com/theirongolddev/proplife/internal/config"
	"github.com/theirongolddev/proplife/internal/tui"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(cmd *cobra.Command, _ []string) error {
	// The count is only shown in the welcome note; a missing database is fine.
	count := 0
	if st, err := openStore(loadConfig()); err == nil {
		count, _ = st.PropertyCount(cmd.Context())
		_ = st.Close()
	}

	cfg, err := tui.RunSetup(count)
	if err != nil {
		return err
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Printf("  Database: %s\n", config.DatabasePath(cfg))
	fmt.Println("  Run `proplife setup` anytime to reconfigure.")
	fmt.Println()
	return nil
}
