package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Report design rule violations",
	Long: `Scan stylesheets, markup and scripts below path (default ".") and report
every forbidden color, forbidden property and non-transparent button.
Exits 1 when any violation is found.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, scanRoot(args), runOptions{
			checks:   enforcer.CheckAll,
			elements: getBoolWithFallback("elements", "scan.elements", false),
		})
	},
}

var checkColorsCmd = &cobra.Command{
	Use:   "check-colors [path]",
	Short: "Report forbidden colors only",
	Long: `Scan below path (default ".") for colors outside the accent and grayscale
palette. Forbidden properties and button transparency are not checked.
Exits 1 when any violation is found.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, scanRoot(args), runOptions{
			checks:   enforcer.CheckColors,
			elements: getBoolWithFallback("elements", "scan.elements", false),
		})
	},
}

var enforceButtonsCmd = &cobra.Command{
	Use:   "enforce-buttons [path]",
	Short: "Make non-primary buttons transparent",
	Long: `Scan below path (default ".") for buttons and navigation items with a
background, rewrite their background to transparent, and rescan.
Primary buttons are left alone. Exits 1 when violations remain.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, scanRoot(args), runOptions{
			checks:   enforcer.CheckTransparency,
			fix:      true,
			fixKinds: []enforcer.Kind{enforcer.KindNonTransparent},
		})
	},
}

func init() {
	for _, cmd := range []*cobra.Command{auditCmd, checkColorsCmd, enforceButtonsCmd} {
		addScanFlags(cmd)
		addOutputFlags(cmd)
	}
	auditCmd.Flags().Bool("elements", false, "Audit .html files as element trees instead of line by line")
	checkColorsCmd.Flags().Bool("elements", false, "Audit .html files as element trees instead of line by line")
}
