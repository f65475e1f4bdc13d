package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Generate a default .uijenforce.yaml config file",
	Long:  `Create a .uijenforce.yaml configuration file in the current directory with the default rules.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		force, _ := cmd.Flags().GetBool("force")

		if _, err := os.Stat(".uijenforce.yaml"); err == nil && !force {
			return fmt.Errorf(".uijenforce.yaml already exists (use --force to overwrite)")
		}

		if err := os.WriteFile(".uijenforce.yaml", []byte(defaultConfig), 0644); err != nil {
			return fmt.Errorf("writing config file: %w", err)
		}

		fmt.Fprintln(cmd.OutOrStdout(), "Created .uijenforce.yaml")
		return nil
	},
}

const defaultConfig = `# uijenforce configuration
# Docs: https://github.com/yacobolo/uijenforce

verbose: false
# rules-file: design-rules.toml   # YAML or TOML catalog overlaid on the defaults

# File discovery
scan:
  exclude:
    - "dist/**"
  gitignore: true
  elements: false          # audit .html files as element trees

# Report settings
output:
  format: issues           # issues | summary | full | json | markdown | pretty
  max-issues: 0            # 0 = unlimited
  print-lines: true
  print-rule-name: true

# Rule catalog. Any list given here replaces the default list.
rules:
  accent: "#32CD32"
  forbidden-properties:
    - box-shadow
    - text-shadow
  transparent-selectors:
    - button
    - .uij-btn
    - '[role="button"]'
    - .hamburger-container
    - .header-menu-item
    - .nav-item
  primary-markers:
    - primary
    - uij-btn-primary
  tokens:
    muted-text: "#888888"
    border: var(--uij-border)
`

func init() {
	initCmd.Flags().Bool("force", false, "Overwrite existing config file")
}
