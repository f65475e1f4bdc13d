package main

import (
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "uijenforce",
	Short: "Design rule enforcement for UI stylesheets and markup",
	Long: `Audit stylesheets, markup and scripts against a design rule catalog:
an accent color plus grayscale palette, forbidden colors and properties,
and transparent backgrounds on non-primary buttons and navigation items.
Violations can be rewritten in place with compliant values.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Global persistent flags (inherited by all subcommands)
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().Bool("quiet", false, "Suppress all output (exit code only)")
	rootCmd.PersistentFlags().Bool("color", false, "Force color output")
	rootCmd.PersistentFlags().String("config", ".uijenforce.yaml", "Config file path")
	rootCmd.PersistentFlags().String("rules-file", "", "YAML or TOML rule catalog overlaid on the defaults")

	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(fixCmd)
	rootCmd.AddCommand(checkColorsCmd)
	rootCmd.AddCommand(enforceButtonsCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(completionCmd)
	rootCmd.AddCommand(versionCmd)
}
