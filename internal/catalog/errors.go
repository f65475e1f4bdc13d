package catalog

import (
	"fmt"
	"strings"
)

// ConfigError reports an invalid rule catalog. It is fatal: no scan may run
// against a catalog that failed validation.
type ConfigError struct {
	Source   string
	Problems []string
}

func (e *ConfigError) Error() string {
	prefix := "invalid rule catalog"
	if e.Source != "" {
		prefix = fmt.Sprintf("invalid rule catalog %s", e.Source)
	}
	if len(e.Problems) == 1 {
		return prefix + ": " + e.Problems[0]
	}
	return fmt.Sprintf("%s (%d problems):\n  - %s", prefix, len(e.Problems), strings.Join(e.Problems, "\n  - "))
}
