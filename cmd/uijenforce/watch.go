package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/yacobolo/uijenforce/internal/catalog"
	"github.com/yacobolo/uijenforce/internal/classify"
	"github.com/yacobolo/uijenforce/internal/enforcer"
	"github.com/yacobolo/uijenforce/internal/source"
)

var watchCmd = &cobra.Command{
	Use:   "watch [path]",
	Short: "Re-audit files as they change",
	Long: `Audit path (default ".") once, then watch it and re-audit every file that
is written or created. With --fix, violations are rewritten as they appear.
Stop with ctrl-c.`,
	Args: cobra.MaximumNArgs(1),
	PreRunE: func(cmd *cobra.Command, _ []string) error {
		return loadConfig(cmd)
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runWatch(ctx, cmd, scanRoot(args))
	},
}

func init() {
	addScanFlags(watchCmd)
	watchCmd.Flags().Bool("fix", false, "Rewrite violations as they appear")
}

// watcher re-audits changed files with one engine. The engine is only
// driven from the event loop, so passes never overlap.
type watcher struct {
	cat    *catalog.Catalog
	opts   source.DiscoverOptions
	engine *enforcer.Engine
	logger *log.Logger
	fix    bool
}

func runWatch(ctx context.Context, cmd *cobra.Command, root string) error {
	cat, err := buildCatalog()
	if err != nil {
		return err
	}
	logger := newLogger(cmd.ErrOrStderr())

	w := &watcher{
		cat:    cat,
		opts:   buildDiscoverOptions(cat),
		engine: enforcer.New(classify.New(cat), enforcer.WithNotifier(logNotifier(logger))),
		logger: logger,
		fix:    getBoolWithFallback("fix", "watch.fix", false),
	}

	files, _, err := source.Discover(root, w.opts)
	if err != nil {
		return err
	}
	w.audit(files)

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("creating watcher: %w", err)
	}
	defer fsw.Close()

	dirs, err := watchDirs(root)
	if err != nil {
		return err
	}
	for _, dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			return fmt.Errorf("watching %s: %w", dir, err)
		}
	}
	logger.Info("watching", "root", root, "dirs", len(dirs))

	for {
		select {
		case <-ctx.Done():
			logger.Info("stopped")
			return nil
		case ev, ok := <-fsw.Events:
			if !ok {
				return nil
			}
			w.handle(fsw, ev)
		case err, ok := <-fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", "err", err)
		}
	}
}

func (w *watcher) handle(fsw *fsnotify.Watcher, ev fsnotify.Event) {
	if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
		return
	}
	if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
		if !skipDir(ev.Name) {
			if err := fsw.Add(ev.Name); err != nil {
				w.logger.Warn("cannot watch new directory", "dir", ev.Name, "err", err)
			}
		}
		return
	}
	files, _, err := source.Discover(ev.Name, w.opts)
	if err != nil || len(files) == 0 {
		return
	}
	w.audit(files)
}

// audit scans files and logs the outcome. A fix writes the files, which
// triggers one more event per file; that rescan finds them clean.
func (w *watcher) audit(files []string) {
	rep, err := w.engine.Scan(source.Corpus(files, w.cat.PrimaryMarkers()))
	if err != nil {
		w.logger.Error("scan failed", "err", err)
		return
	}
	for _, v := range rep.Violations {
		w.logger.Warn(v.Message, "at", v.Location.String(), "rule", v.Kind)
	}
	for _, cerr := range rep.Warnings {
		w.logger.Warn("source could not be read", "source", cerr.Source, "err", cerr.Err)
	}
	if !w.fix || len(rep.Violations) == 0 {
		w.logger.Info(rep.Summary())
		return
	}

	fixes, err := w.engine.Fix(rep)
	if err != nil {
		w.logger.Error("fix failed", "err", err)
		return
	}
	w.logger.Info(fixes.Summary())
}

// watchDirs lists root and every directory below it that discovery would
// descend into.
func watchDirs(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("path does not exist: %s", root)
	}
	if !info.IsDir() {
		return []string{filepath.Dir(root)}, nil
	}

	var dirs []string
	err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return filepath.SkipDir
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && skipDir(path) {
			return filepath.SkipDir
		}
		dirs = append(dirs, path)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walking %s: %w", root, err)
	}
	return dirs, nil
}

func skipDir(path string) bool {
	switch filepath.Base(path) {
	case "node_modules", ".git":
		return true
	}
	return false
}
