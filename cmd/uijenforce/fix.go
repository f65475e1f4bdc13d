package main

import (
	"github.com/spf13/cobra"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

var fixCmd = &cobra.Command{
	Use:   "fix [path]",
	Short: "Rewrite design rule violations in place",
	Long: `Scan below path (default ".") and rewrite each violation with a compliant
value: forbidden text colors become the muted text token, border colors the
border token, other colors and button backgrounds transparent, and forbidden
properties none. The files are rescanned afterwards; exits 1 when violations
remain.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, scanRoot(args), runOptions{
			checks: enforcer.CheckAll,
			fix:    true,
		})
	},
}

func init() {
	addScanFlags(fixCmd)
	addOutputFlags(fixCmd)
}
