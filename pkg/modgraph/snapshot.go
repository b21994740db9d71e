// Package modgraph implements the export/import resolution engine used by the
// stage validators: it discovers every symbol a generated module exports
// (including transitive and cyclic re-exports), resolves import specifiers to
// concrete files, and checks requested symbols against available exports.
//
// The engine operates on an immutable Snapshot of the generated tree taken at
// the start of a validation run; nothing in this package touches the
// filesystem after the snapshot is built.
package modgraph

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/src-d/enry/v2"
	"golang.org/x/sync/errgroup"
)

// moduleExtensions lists the file suffixes treated as module sources, in
// resolution priority order.
var moduleExtensions = []string{".ts", ".tsx", ".js", ".jsx"}

// indexBasenames lists the directory index candidates, in resolution
// priority order.
var indexBasenames = []string{"index.ts", "index.tsx"}

// defaultExcludedDirs are directory names never descended into.
var defaultExcludedDirs = []string{"node_modules", "dist", "build", ".git"}

// defaultLoaderConcurrency bounds parallel file reads during snapshot
// construction.
const defaultLoaderConcurrency = 8

// Module is one source file treated as an independent export unit. Text is
// loaded once during snapshot construction and never mutated.
type Module struct {
	// Path is the canonical absolute path, the cache key everywhere.
	Path string
	// Rel is the path relative to the snapshot root, slash-separated.
	Rel string
	// Text is the raw module source. Empty when the read failed.
	Text string
}

// Option customizes snapshot construction.
type Option func(*snapshotOptions)

type snapshotOptions struct {
	excludedDirs []string
	concurrency  int
	skipVendored bool
}

// WithExcludedDirs replaces the default set of directory names skipped
// during the walk.
func WithExcludedDirs(dirs []string) Option {
	return func(o *snapshotOptions) { o.excludedDirs = dirs }
}

// WithLoaderConcurrency sets the number of parallel file reads.
func WithLoaderConcurrency(n int) Option {
	return func(o *snapshotOptions) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithVendorFilter enables skipping of conventional vendored paths
// (enry's vendor heuristics) in addition to the excluded directory names.
func WithVendorFilter(enabled bool) Option {
	return func(o *snapshotOptions) { o.skipVendored = enabled }
}

// Snapshot is an immutable view of the generated file tree. It records every
// file and directory under the root, plus the loaded text of each module
// file, so resolution and extraction stay pure functions over it.
type Snapshot struct {
	root     string
	modules  map[string]*Module
	files    map[string]struct{}
	dirs     map[string]struct{}
	warnings []Diagnostic
}

// NewSnapshot walks root and loads every module file beneath it. A file that
// cannot be read degrades to an empty module and is reported as a warning on
// the snapshot; only a failure to walk the root itself is an error.
func NewSnapshot(root string, opts ...Option) (*Snapshot, error) {
	options := snapshotOptions{
		excludedDirs: defaultExcludedDirs,
		concurrency:  defaultLoaderConcurrency,
		skipVendored: true,
	}
	for _, opt := range opts {
		opt(&options)
	}

	canonical, err := filepath.EvalSymlinks(root)
	if err != nil {
		return nil, fmt.Errorf("canonicalize root %s: %w", root, err)
	}

	snap := &Snapshot{
		root:    canonical,
		modules: make(map[string]*Module),
		files:   make(map[string]struct{}),
		dirs:    make(map[string]struct{}),
	}

	excluded := make(map[string]struct{}, len(options.excludedDirs))
	for _, dir := range options.excludedDirs {
		excluded[dir] = struct{}{}
	}

	var modulePaths []string

	walkErr := filepath.WalkDir(canonical, func(path string, entry fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}

		rel := snap.relOf(path)

		if entry.IsDir() {
			if _, skip := excluded[entry.Name()]; skip && path != canonical {
				return filepath.SkipDir
			}

			snap.dirs[filepath.Clean(path)] = struct{}{}

			return nil
		}

		if options.skipVendored && rel != "" && enry.IsVendor(rel) {
			return nil
		}

		snap.files[filepath.Clean(path)] = struct{}{}

		if isModuleFile(entry.Name()) {
			modulePaths = append(modulePaths, filepath.Clean(path))
		}

		return nil
	})
	if walkErr != nil {
		return nil, fmt.Errorf("walk %s: %w", canonical, walkErr)
	}

	loadErr := snap.loadModules(modulePaths, options.concurrency)
	if loadErr != nil {
		return nil, loadErr
	}

	return snap, nil
}

// loadModules reads module texts concurrently. Read failures degrade the
// module to empty text and append a warning diagnostic.
func (s *Snapshot) loadModules(paths []string, concurrency int) error {
	group := new(errgroup.Group)
	group.SetLimit(concurrency)

	var mu sync.Mutex

	for _, path := range paths {
		group.Go(func() error {
			data, readErr := os.ReadFile(path)

			mu.Lock()
			defer mu.Unlock()

			mod := &Module{Path: path, Rel: s.relOf(path)}
			if readErr != nil {
				s.warnings = append(s.warnings, Diagnostic{
					Kind:     KindReadFailure,
					Severity: SeverityWarning,
					Module:   mod.Rel,
					Detail:   readErr.Error(),
				})
			} else {
				mod.Text = string(data)
			}

			s.modules[path] = mod

			return nil
		})
	}

	err := group.Wait()
	if err != nil {
		return fmt.Errorf("load modules: %w", err)
	}

	return nil
}

// Root returns the canonical snapshot root.
func (s *Snapshot) Root() string { return s.root }

// Warnings returns read-failure diagnostics gathered during construction.
func (s *Snapshot) Warnings() []Diagnostic { return s.warnings }

// Lookup returns the module cached under the given canonical path.
func (s *Snapshot) Lookup(path string) (*Module, bool) {
	mod, ok := s.modules[filepath.Clean(path)]

	return mod, ok
}

// Modules returns every module in the snapshot, ordered by relative path so
// diagnostic output is reproducible.
func (s *Snapshot) Modules() []*Module {
	out := make([]*Module, 0, len(s.modules))
	for _, mod := range s.modules {
		out = append(out, mod)
	}

	sort.Slice(out, func(i, j int) bool { return out[i].Rel < out[j].Rel })

	return out
}

// FileExists reports whether the snapshot recorded a file at path.
func (s *Snapshot) FileExists(path string) bool {
	_, ok := s.files[filepath.Clean(path)]

	return ok
}

// DirExists reports whether the snapshot recorded a directory at path.
func (s *Snapshot) DirExists(path string) bool {
	_, ok := s.dirs[filepath.Clean(path)]

	return ok
}

// relOf converts a canonical path to a slash-separated root-relative path.
func (s *Snapshot) relOf(path string) string {
	rel, err := filepath.Rel(s.root, path)
	if err != nil {
		return filepath.ToSlash(path)
	}

	return filepath.ToSlash(rel)
}

func isModuleFile(name string) bool {
	for _, ext := range moduleExtensions {
		if strings.HasSuffix(name, ext) {
			return true
		}
	}

	return false
}
