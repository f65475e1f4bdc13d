package main

import (
	"io"

	"github.com/charmbracelet/log"

	"github.com/yacobolo/uijenforce/internal/enforcer"
)

// newLogger returns the operational logger. Reports go to stdout; logs go
// to w, normally stderr.
func newLogger(w io.Writer) *log.Logger {
	logger := log.NewWithOptions(w, log.Options{Prefix: "uijenforce"})
	switch {
	case getBoolWithFallback("quiet", "quiet", false):
		logger.SetLevel(log.ErrorLevel)
	case getBoolWithFallback("verbose", "verbose", false):
		logger.SetLevel(log.DebugLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}
	return logger
}

// logNotifier surfaces engine events as log lines.
func logNotifier(logger *log.Logger) enforcer.Notifier {
	return enforcer.NotifierFuncs{
		Violation: func(v enforcer.Violation) {
			logger.Debug("violation", "kind", v.Kind, "at", v.Location.String(), "property", v.Property, "value", v.Value)
		},
		FixApplied: func(v enforcer.Violation, value string) {
			logger.Debug("fixed", "at", v.Location.String(), "property", v.Property, "from", v.Value, "to", value)
		},
		FixFailed: func(v enforcer.Violation, err error) {
			logger.Warn("fix failed", "at", v.Location.String(), "property", v.Property, "err", err)
		},
	}
}
