// Command uijenforce audits UI sources against the design rules and
// rewrites violations in place.
package main

import (
	"errors"
	"fmt"
	"os"
)

// errViolationsFound makes the process exit 1 without printing an error;
// the report has already been written.
var errViolationsFound = errors.New("violations found")

func main() {
	if err := rootCmd.Execute(); err != nil {
		if !errors.Is(err, errViolationsFound) {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
		os.Exit(1)
	}
}
