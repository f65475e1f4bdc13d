package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/yacobolo/uijenforce/internal/classify"
	"github.com/yacobolo/uijenforce/internal/dom"
	"github.com/yacobolo/uijenforce/internal/enforcer"
	"github.com/yacobolo/uijenforce/internal/live"
	"github.com/yacobolo/uijenforce/internal/report"
	"github.com/yacobolo/uijenforce/internal/source"
)

// markupExtensions are loaded as element trees under --elements.
var markupExtensions = map[string]bool{".html": true, ".htm": true}

// runOptions selects what a scanning command does.
type runOptions struct {
	checks   enforcer.Check
	fix      bool
	fixKinds []enforcer.Kind
	elements bool
}

// addScanFlags registers the discovery flags shared by scanning commands.
func addScanFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSlice("exclude", nil, "Doublestar patterns to skip, relative to the scanned path")
	f.StringSlice("extensions", nil, "File extensions to scan (default: from the rule catalog)")
	f.Bool("gitignore", true, "Honor the scanned directory's .gitignore")
}

// addOutputFlags registers the report flags shared by scanning commands.
func addOutputFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.String("output-format", "", "Output format: issues|summary|full|json|markdown|pretty")
	f.Int("max-issues", 0, "Max violations to list (0=unlimited)")
	f.Bool("print-lines", true, "Show source lines with violations")
	f.Bool("print-rule-name", true, "Show (rule) suffix on violations")
}

func scanRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

// runScan discovers files below root, scans them and optionally fixes and
// rescans. It returns errViolationsFound when violations remain.
func runScan(cmd *cobra.Command, root string, opts runOptions) error {
	cat, err := buildCatalog()
	if err != nil {
		return err
	}
	format, err := report.ParseFormat(getStringWithFallback("output-format", "output.format", ""))
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	files, stats, err := source.Discover(root, buildDiscoverOptions(cat))
	if err != nil {
		return err
	}
	logger.Debug("discovered files", "root", root, "scanned", stats.FilesScanned, "skipped", stats.FilesSkipped)

	engineOpts := []enforcer.Option{
		enforcer.WithChecks(opts.checks),
		enforcer.WithNotifier(logNotifier(logger)),
	}
	if len(opts.fixKinds) > 0 {
		engineOpts = append(engineOpts, enforcer.WithFixKinds(opts.fixKinds...))
	}
	cls := classify.New(cat)
	engine := enforcer.New(cls, engineOpts...)

	rep, err := scanFiles(engine, cls, files, opts.elements, logger)
	if err != nil {
		return fmt.Errorf("scan failed: %w", err)
	}
	for _, w := range rep.Warnings {
		logger.Warn("source could not be read", "source", w.Source, "err", w.Err)
	}

	result := report.Result{Report: rep, FilesScanned: stats.FilesScanned, FilesSkipped: stats.FilesSkipped}
	if opts.fix && len(rep.Violations) > 0 {
		fixes, err := engine.Fix(rep)
		if err != nil {
			return fmt.Errorf("fix failed: %w", err)
		}
		logger.Info(fixes.Summary())

		rescan, err := scanFiles(engine, cls, files, opts.elements, logger)
		if err != nil {
			return fmt.Errorf("rescan failed: %w", err)
		}
		result.Report = rescan
		result.Fixes = fixes
	}

	if !getBoolWithFallback("quiet", "quiet", false) {
		if err := report.Write(cmd.OutOrStdout(), result, format, buildReportConfig()); err != nil {
			return fmt.Errorf("writing report: %w", err)
		}
	}

	if len(result.Report.Violations) > 0 {
		return errViolationsFound
	}
	return nil
}

// scanFiles runs one pass over files in path order. With elements set,
// each markup file is parsed into a document and audited by a live auditor
// behind the catalog's write gate; the other files are scanned line by line.
func scanFiles(engine *enforcer.Engine, cls *classify.Classifier, files []string, elements bool, logger *log.Logger) (*enforcer.Report, error) {
	markers := cls.Catalog().PrimaryMarkers()
	if !elements {
		return engine.Scan(source.Corpus(files, markers))
	}

	var (
		reports []*enforcer.Report
		lines   []string
	)
	flush := func() error {
		if len(lines) == 0 {
			return nil
		}
		rep, err := engine.Scan(source.Corpus(lines, markers))
		if err != nil {
			return err
		}
		reports = append(reports, rep)
		lines = nil
		return nil
	}

	for _, f := range files {
		if !markupExtensions[strings.ToLower(filepath.Ext(f))] {
			lines = append(lines, f)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		rep, err := auditDocument(engine, cls, f, logger)
		if err != nil {
			return nil, err
		}
		reports = append(reports, rep)
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return enforcer.Merge(reports...), nil
}

// auditDocument loads a markup file and runs a full live audit over it. The
// document keeps the gate installed, so any later write to it is checked
// against the catalog. An unreadable file becomes a warning.
func auditDocument(engine *enforcer.Engine, cls *classify.Classifier, path string, logger *log.Logger) (*enforcer.Report, error) {
	doc, err := loadDocument(path)
	if err != nil {
		return &enforcer.Report{Warnings: []*enforcer.CorpusError{{Source: path, Err: err}}}, nil
	}
	doc.SetGate(cls)

	auditor := live.New(doc, engine, live.WithPassHook(func(p live.Pass) {
		if p.Report != nil {
			logger.Debug("element audit", "document", path, "result", p.Report.Summary())
		}
	}))
	defer auditor.Stop()

	pass, err := auditor.Start()
	if err != nil {
		return nil, err
	}
	return pass.Report, nil
}

func loadDocument(path string) (*dom.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc, err := dom.ParseHTML(f)
	if err != nil {
		return nil, err
	}
	doc.SetName(path)
	return doc, nil
}
