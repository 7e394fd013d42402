package filesystem

import (
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/gobwas/glob"
)

// DefaultIgnoreDirs are common directories to skip during traversal
var DefaultIgnoreDirs = []string{
	"node_modules", "vendor", ".git", ".svn", ".hg",
	"target", "dist", "build", "bin", "tmp", "temp",
	"__pycache__", ".idea", ".vscode", ".vs",
}

// WalkOptions configures directory traversal behavior
type WalkOptions struct {
	IgnoreDirs     []string // Directories to skip (default: DefaultIgnoreDirs)
	IgnorePatterns []string // Glob patterns matched against the root-relative path
	IncludeHidden  bool     // Include hidden files/dirs (default: false)
	MaxDepth       int      // Deepest level visited below root; 0 means unlimited
}

// Pattern is a compiled ignore pattern
type Pattern struct {
	g glob.Glob
	// slash-free patterns match the base name at any depth
	baseOnly bool
}

// Match reports whether the root-relative, slash-separated path rel is ignored
func (p Pattern) Match(rel string) bool {
	if p.baseOnly {
		return p.g.Match(path.Base(rel))
	}
	return p.g.Match(rel)
}

// CompilePatterns compiles glob ignore patterns. A pattern without a slash
// matches the entry name at any depth.
func CompilePatterns(patterns []string) ([]Pattern, error) {
	compiled := make([]Pattern, 0, len(patterns))
	for _, p := range patterns {
		pattern := filepath.ToSlash(strings.TrimSpace(p))
		if pattern == "" {
			continue
		}
		g, err := glob.Compile(pattern, '/')
		if err != nil {
			return nil, fmt.Errorf("invalid ignore pattern %q: %w", p, err)
		}
		compiled = append(compiled, Pattern{g: g, baseOnly: !strings.Contains(pattern, "/")})
	}
	return compiled, nil
}

// Walk traverses a directory tree with configurable ignore patterns.
// The visitor function is called for each file and directory below root,
// with depth 1 for root's direct children.
// Return filepath.SkipDir from visitor to skip a directory.
func Walk(rootPath string, opts WalkOptions, visitor func(path string, info os.FileInfo, depth int) error) error {
	ignoreDirs := opts.IgnoreDirs
	if len(ignoreDirs) == 0 {
		ignoreDirs = DefaultIgnoreDirs
	}

	ignore, err := CompilePatterns(opts.IgnorePatterns)
	if err != nil {
		return err
	}

	root := filepath.Clean(rootPath)
	return filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			// Unreadable entries are skipped rather than aborting the walk
			if path != root {
				if info != nil && info.IsDir() {
					return filepath.SkipDir
				}
				return nil
			}
			return err
		}
		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		rel = filepath.ToSlash(rel)
		depth := strings.Count(rel, "/") + 1

		// Skip hidden files/directories unless explicitly included
		if !opts.IncludeHidden && strings.HasPrefix(info.Name(), ".") {
			return skip(info)
		}

		// Check ignore directories
		if info.IsDir() {
			for _, ignore := range ignoreDirs {
				if info.Name() == ignore {
					return filepath.SkipDir
				}
			}
		}

		// Check ignore patterns
		for _, p := range ignore {
			if p.Match(rel) {
				return skip(info)
			}
		}

		if err := visitor(path, info, depth); err != nil {
			return err
		}

		if info.IsDir() && opts.MaxDepth > 0 && depth >= opts.MaxDepth {
			return filepath.SkipDir
		}
		return nil
	})
}

func skip(info os.FileInfo) error {
	if info.IsDir() {
		return filepath.SkipDir
	}
	return nil
}
