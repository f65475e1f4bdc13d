package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yacobolo/uijenforce/internal/catalog"
)

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Print the effective rule catalog as YAML",
	Long: `Resolve the rule catalog from the defaults, --rules-file and the config
file's rules block, validate it, and print it in the format --rules-file reads.`,
	Args: cobra.NoArgs,
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, _ []string) error {
		cat, err := buildCatalog()
		if err != nil {
			return err
		}
		data, err := catalog.MarshalYAML(cat.Rules())
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), string(data))
		return nil
	},
}
