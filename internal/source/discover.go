// Package source drives the engine over source files: it discovers files,
// splits them into line targets, extracts style declarations from each
// line, and rewrites declarations in place.
package source

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	ignore "github.com/sabhiram/go-gitignore"
)

// DiscoverOptions controls which files Discover returns.
type DiscoverOptions struct {
	// Extensions lists accepted file extensions, lower-case with the dot.
	Extensions []string
	// Exclude holds doublestar patterns matched against slash-separated
	// paths relative to the root.
	Exclude []string
	// GitIgnore honors the root's .gitignore.
	GitIgnore bool
}

// Stats tracks file discovery.
type Stats struct {
	FilesDiscovered int // Files found under the root
	FilesScanned    int // Files kept after filtering
	FilesSkipped    int // Files dropped by extension, exclude or ignore rules
}

// Discover lists the files to scan below root, sorted by path. A root that
// is a single file is returned on its own when its extension matches.
func Discover(root string, opts DiscoverOptions) ([]string, Stats, error) {
	var stats Stats

	info, err := os.Stat(root)
	if err != nil {
		return nil, stats, fmt.Errorf("path does not exist: %s", root)
	}

	if !info.IsDir() {
		stats.FilesDiscovered = 1
		if !hasExtension(root, opts.Extensions) {
			stats.FilesSkipped = 1
			return nil, stats, nil
		}
		stats.FilesScanned = 1
		return []string{root}, stats, nil
	}

	for _, pattern := range opts.Exclude {
		if !doublestar.ValidatePattern(pattern) {
			return nil, stats, fmt.Errorf("invalid exclude pattern %q", pattern)
		}
	}

	var gi *ignore.GitIgnore
	if opts.GitIgnore {
		// A missing .gitignore is fine.
		gi, _ = ignore.CompileIgnoreFile(filepath.Join(root, ".gitignore"))
	}

	// The root is the file system, not part of the pattern, so brackets
	// or braces in its name are taken literally.
	matches, err := doublestar.Glob(os.DirFS(root), "**/*", doublestar.WithFilesOnly())
	if err != nil {
		return nil, stats, fmt.Errorf("walking %s: %w", root, err)
	}

	var files []string
	for _, rel := range matches {
		stats.FilesDiscovered++
		if shouldSkip(rel, opts, gi) {
			stats.FilesSkipped++
			continue
		}
		files = append(files, filepath.Join(root, filepath.FromSlash(rel)))
	}
	slices.Sort(files)
	stats.FilesScanned = len(files)
	return files, stats, nil
}

// shouldSkip applies the filters in order of cost: extension, vendored
// dependencies, excludes, then .gitignore. rel is slash-separated and
// relative to the root.
func shouldSkip(rel string, opts DiscoverOptions, gi *ignore.GitIgnore) bool {
	if !hasExtension(rel, opts.Extensions) {
		return true
	}

	if rel == "node_modules" || strings.HasPrefix(rel, "node_modules/") || strings.Contains(rel, "/node_modules/") {
		return true
	}
	for _, pattern := range opts.Exclude {
		if ok, _ := doublestar.Match(pattern, rel); ok {
			return true
		}
	}
	return gi != nil && gi.MatchesPath(rel)
}

func hasExtension(path string, exts []string) bool {
	if len(exts) == 0 {
		return true
	}
	ext := strings.ToLower(filepath.Ext(path))
	return slices.Contains(exts, ext)
}
